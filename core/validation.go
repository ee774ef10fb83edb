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


package core

import (
	"fmt"
	"time"
)

// ValidateAgent validates an Agent according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - MetaPrompt must not be empty
//
// NOT validated:
//   - ID (empty is valid before the agent is persisted)
//   - Description (optional, used only for routing prompts)
//   - Knowledge (maintained by the ingestion pipeline)
func ValidateAgent(agent *Agent) error {
	if agent == nil {
		return fmt.Errorf("%w: agent is nil", ErrInvalidAgent)
	}

	if agent.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAgent, ErrEmptyAgentName)
	}

	if agent.MetaPrompt == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAgent, ErrEmptyMetaPrompt)
	}

	return nil
}

// ValidateWorkspace validates a Workspace according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//
// An empty AgentIDs list is valid: agents are assigned after creation.
func ValidateWorkspace(workspace *Workspace) error {
	if workspace == nil {
		return fmt.Errorf("%w: workspace is nil", ErrInvalidWorkspace)
	}

	if workspace.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidWorkspace, ErrEmptyWorkspaceName)
	}

	return nil
}

// ValidateDocument validates a KnowledgeDocument according to domain rules.
//
// Validation rules:
//   - FileName must not be empty
//   - UploadedAt must not be in the future
//
// Empty RawBytes is valid: the extraction step treats empty content as
// "nothing to index", not as an error.
func ValidateDocument(doc *KnowledgeDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.FileName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFileName)
	}

	if !IsValidTimestamp(doc.UploadedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateRole reports whether the role is one of the defined values.
func ValidateRole(role Role) error {
	switch role {
	case RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidRole, role)
	}
}

// ValidateTurn validates a ConversationTurn according to domain rules.
func ValidateTurn(turn *ConversationTurn) error {
	if turn == nil {
		return fmt.Errorf("%w: turn is nil", ErrInvalidRole)
	}

	if err := ValidateRole(turn.Role); err != nil {
		return err
	}

	if turn.Content == "" {
		return ErrEmptyContent
	}

	return nil
}

// IsValidTimestamp reports whether the timestamp is not in the future.
// A small amount of clock skew is tolerated.
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now().Add(1 * time.Minute))
}
