package chat

import "errors"

var (
	// ErrAgentRepositoryRequired is returned when an agent repository is not provided.
	ErrAgentRepositoryRequired = errors.New("agent repository required")

	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrChatModelRequired is returned when a chat model is not provided.
	ErrChatModelRequired = errors.New("chat model required")
)
