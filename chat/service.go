// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chat

import (
	"context"
	"log/slog"

	"github.com/poiesic/agentspace/ai"
	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/search"
	"github.com/poiesic/agentspace/storage"
)

// Service answers questions as a single agent, grounding the reply in the
// agent's knowledge when it has any.
type Service struct {
	agents    storage.AgentRepository
	retriever *search.Retriever
	chatModel ai.ChatModel
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a new chat service.
func NewService(
	agents storage.AgentRepository,
	retriever *search.Retriever,
	chatModel ai.ChatModel,
	opts ...Option,
) (*Service, error) {
	if agents == nil {
		return nil, ErrAgentRepositoryRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if chatModel == nil {
		return nil, ErrChatModelRequired
	}

	s := &Service{
		agents:    agents,
		retriever: retriever,
		chatModel: chatModel,
		logger:    slog.Default().With("component", "chat"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Answer produces the agent's reply to a message.
//
// The agent's meta prompt becomes the system prompt. For agents with
// knowledge enabled, the message is used to retrieve relevant chunks and
// the retrieved context is appended to the system prompt; an empty
// retrieval means no relevant knowledge and the meta prompt stands alone.
func (s *Service) Answer(ctx context.Context, agentID core.AgentID, history []core.ConversationTurn, message string) (string, error) {
	agent, err := s.agents.GetAgent(ctx, agentID)
	if err != nil {
		return "", err
	}

	systemPrompt := agent.MetaPrompt
	if agent.Knowledge {
		knowledge, err := s.retriever.Retrieve(ctx, agentID, message)
		if err != nil {
			s.logger.Error("error retrieving knowledge", "agent", agentID, "err", err)
			return "", err
		}
		if knowledge != "" {
			systemPrompt = systemPrompt + knowledgePreamble + knowledge
		}
	}

	return s.chatModel.Complete(ctx, systemPrompt, history, message)
}

// AnswerByName resolves an agent by name and answers as that agent.
// Name matching is case-insensitive.
func (s *Service) AnswerByName(ctx context.Context, name string, history []core.ConversationTurn, message string) (string, error) {
	agent, err := s.agents.FindAgentByName(ctx, name)
	if err != nil {
		return "", err
	}
	return s.Answer(ctx, agent.ID, history, message)
}

// knowledgePreamble introduces retrieved chunks inside the system prompt.
const knowledgePreamble = "\n\nUse the following reference material when it is relevant:\n\n"
