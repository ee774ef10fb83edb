package mock

import (
	"context"
	"sync"

	"github.com/poiesic/agentspace/core"
)

// MockChatModel is a test double for ai.ChatModel.
// It allows custom behavior injection via a function field, or a fixed
// queue of canned replies.
type MockChatModel struct {
	// CompleteFunc is called by Complete if set.
	// If nil, replies are popped from the Replies queue; once the queue
	// is exhausted the last reply repeats.
	CompleteFunc func(ctx context.Context, systemPrompt string, history []core.ConversationTurn, userMessage string) (string, error)

	// Replies is the canned reply queue used when CompleteFunc is nil.
	Replies []string

	mu        sync.Mutex
	callCount int
}

// NewMockChatModel creates a mock chat model replaying the given replies
// in order. Note: Returns concrete type to allow test assertions via
// GetMockChatModel().
func NewMockChatModel(replies ...string) *MockChatModel {
	return &MockChatModel{Replies: replies}
}

// Complete returns the next canned reply, or delegates to CompleteFunc.
func (m *MockChatModel) Complete(ctx context.Context, systemPrompt string, history []core.ConversationTurn, userMessage string) (string, error) {
	m.mu.Lock()
	count := m.callCount
	m.callCount++
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, history, userMessage)
	}

	if len(m.Replies) == 0 {
		return "", nil
	}
	if count >= len(m.Replies) {
		count = len(m.Replies) - 1
	}
	return m.Replies[count], nil
}

// CallCount returns the number of times Complete was called.
func (m *MockChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count, custom function, and reply queue.
func (m *MockChatModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.CompleteFunc = nil
	m.Replies = nil
}
