package orchestrate

import "errors"

var (
	// ErrAgentRepositoryRequired is returned when an agent repository is not provided.
	ErrAgentRepositoryRequired = errors.New("agent repository required")

	// ErrRouterRequired is returned when a router chat model is not provided.
	ErrRouterRequired = errors.New("router chat model required")

	// ErrInvokerRequired is returned when an agent chat invoker is not provided.
	ErrInvokerRequired = errors.New("agent chat invoker required")

	// ErrWorkspaceRequired is returned when Run is called without a workspace.
	ErrWorkspaceRequired = errors.New("workspace required")
)
