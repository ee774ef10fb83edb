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

import "errors"

// Domain validation errors
var (
	// ErrInvalidAgent indicates an Agent failed validation.
	ErrInvalidAgent = errors.New("invalid agent")

	// ErrInvalidWorkspace indicates a Workspace failed validation.
	ErrInvalidWorkspace = errors.New("invalid workspace")

	// ErrInvalidDocument indicates a KnowledgeDocument failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyAgentName indicates the agent Name field is empty.
	ErrEmptyAgentName = errors.New("agent name cannot be empty")

	// ErrEmptyWorkspaceName indicates the workspace Name field is empty.
	ErrEmptyWorkspaceName = errors.New("workspace name cannot be empty")

	// ErrEmptyFileName indicates the document FileName field is empty.
	ErrEmptyFileName = errors.New("file name cannot be empty")

	// ErrEmptyMetaPrompt indicates the agent MetaPrompt field is empty.
	ErrEmptyMetaPrompt = errors.New("meta prompt cannot be empty")

	// ErrInvalidRole indicates an invalid Role value.
	ErrInvalidRole = errors.New("invalid role")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
