package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "test content",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestRecordID(t *testing.T) {
	agentID := AgentID("agent-1")

	t.Run("deterministic", func(t *testing.T) {
		id1 := RecordID(agentID, "notes.txt", 0)
		id2 := RecordID(agentID, "notes.txt", 0)
		if id1 != id2 {
			t.Errorf("RecordID() produced different IDs for same inputs: %d vs %d", id1, id2)
		}
	})

	t.Run("varies by sequence index", func(t *testing.T) {
		id1 := RecordID(agentID, "notes.txt", 0)
		id2 := RecordID(agentID, "notes.txt", 1)
		if id1 == id2 {
			t.Errorf("RecordID() produced same ID for different sequence indices")
		}
	})

	t.Run("varies by file name", func(t *testing.T) {
		id1 := RecordID(agentID, "notes.txt", 0)
		id2 := RecordID(agentID, "other.txt", 0)
		if id1 == id2 {
			t.Errorf("RecordID() produced same ID for different file names")
		}
	})

	t.Run("varies by agent", func(t *testing.T) {
		id1 := RecordID(AgentID("agent-1"), "notes.txt", 0)
		id2 := RecordID(AgentID("agent-2"), "notes.txt", 0)
		if id1 == id2 {
			t.Errorf("RecordID() produced same ID for different agents")
		}
	})
}

func TestNewAgentID(t *testing.T) {
	id1 := NewAgentID()
	id2 := NewAgentID()

	if id1 == "" || id2 == "" {
		t.Fatalf("NewAgentID() produced empty ID")
	}
	if id1 == id2 {
		t.Errorf("NewAgentID() produced duplicate IDs: %s", id1)
	}
}

func TestNewWorkspaceID(t *testing.T) {
	id1 := NewWorkspaceID()
	id2 := NewWorkspaceID()

	if id1 == "" || id2 == "" {
		t.Fatalf("NewWorkspaceID() produced empty ID")
	}
	if id1 == id2 {
		t.Errorf("NewWorkspaceID() produced duplicate IDs: %s", id1)
	}
}

func TestRole_String(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "user"},
		{RoleAssistant, "assistant"},
		{Role(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.role.String(); got != tt.want {
				t.Errorf("Role.String() = %v, want %v", got, tt.want)
			}
		})
	}
}
