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


package storage

import (
	"github.com/poiesic/agentspace/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalVectorRecord serializes a VectorRecord to bytes.
func MarshalVectorRecord(record *core.VectorRecord) []byte {
	buf := make([]byte, core.VectorRecordMUS.Size(*record))
	core.VectorRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalVectorRecord deserializes a VectorRecord from bytes.
func UnmarshalVectorRecord(data []byte) (*core.VectorRecord, error) {
	record, _, err := core.VectorRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalAgent serializes an Agent to bytes.
func MarshalAgent(agent *core.Agent) []byte {
	buf := make([]byte, core.AgentMUS.Size(*agent))
	core.AgentMUS.Marshal(*agent, buf)
	return buf
}

// UnmarshalAgent deserializes an Agent from bytes.
func UnmarshalAgent(data []byte) (*core.Agent, error) {
	agent, _, err := core.AgentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// MarshalWorkspace serializes a Workspace to bytes.
func MarshalWorkspace(workspace *core.Workspace) []byte {
	buf := make([]byte, core.WorkspaceMUS.Size(*workspace))
	core.WorkspaceMUS.Marshal(*workspace, buf)
	return buf
}

// UnmarshalWorkspace deserializes a Workspace from bytes.
func UnmarshalWorkspace(data []byte) (*core.Workspace, error) {
	workspace, _, err := core.WorkspaceMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &workspace, nil
}

// MarshalDocument serializes a KnowledgeDocument to bytes.
func MarshalDocument(doc *core.KnowledgeDocument) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a KnowledgeDocument from bytes.
func UnmarshalDocument(data []byte) (*core.KnowledgeDocument, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
