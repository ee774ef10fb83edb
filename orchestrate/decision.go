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


package orchestrate

import (
	"encoding/json"
	"strings"
)

// DecisionType identifies what the router decided.
type DecisionType int

const (
	// DecisionDelegate forwards an instruction to a named agent.
	DecisionDelegate DecisionType = iota + 1
	// DecisionResponse answers the user directly.
	DecisionResponse
	// DecisionUnparseable marks router output that matched neither shape.
	DecisionUnparseable
)

// Decision is the parsed form of one router turn. Exactly one variant is
// populated: Delegate carries AgentName and Instruction, Response carries
// Content, and Unparseable carries nothing.
type Decision struct {
	Type        DecisionType
	AgentName   string
	Instruction string
	Content     string
}

// decisionWire mirrors the router's JSON protocol.
type decisionWire struct {
	Type        string `json:"type"`
	AgentName   string `json:"agentName"`
	Instruction string `json:"instruction"`
	Content     string `json:"content"`
}

// ParseDecision parses raw router output into a Decision.
//
// The router must produce exactly one JSON object of the form
//
//	{"type": "delegate", "agentName": "<name>", "instruction": "<text>"}
//
// or
//
//	{"type": "response", "content": "<text>"}
//
// Markdown code fences around the object are tolerated, since chat models
// add them even when told not to. Any other shape is Unparseable.
func ParseDecision(raw string) Decision {
	cleaned := stripCodeFence(strings.TrimSpace(raw))

	var wire decisionWire
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return Decision{Type: DecisionUnparseable}
	}

	switch wire.Type {
	case "delegate":
		if wire.AgentName == "" || wire.Instruction == "" {
			return Decision{Type: DecisionUnparseable}
		}
		return Decision{
			Type:        DecisionDelegate,
			AgentName:   wire.AgentName,
			Instruction: wire.Instruction,
		}
	case "response":
		return Decision{
			Type:    DecisionResponse,
			Content: wire.Content,
		}
	default:
		return Decision{Type: DecisionUnparseable}
	}
}

// stripCodeFence removes a surrounding markdown code fence, if present.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body, ok := strings.CutPrefix(s, "```json")
	if !ok {
		body = strings.TrimPrefix(s, "```")
	}
	body, ok = strings.CutSuffix(strings.TrimSpace(body), "```")
	if !ok {
		return s
	}
	return strings.TrimSpace(body)
}
