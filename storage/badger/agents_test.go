package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/storage"
)

func TestAgentBasics(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	agent := &core.Agent{
		Name:        "Researcher",
		Description: "Finds and summarizes sources",
		MetaPrompt:  "You are a meticulous researcher.",
		Knowledge:   true,
	}

	added, err := stores.Agents.AddAgent(ctx, agent)
	if err != nil {
		t.Fatalf("Failed to add agent: %v", err)
	}
	if added.ID == "" {
		t.Fatal("Expected generated ID")
	}
	if added.InsertedAt.IsZero() {
		t.Fatal("Expected InsertedAt to be set")
	}

	got, err := stores.Agents.GetAgent(ctx, added.ID)
	if err != nil {
		t.Fatalf("Failed to get agent: %v", err)
	}
	if got.Name != "Researcher" {
		t.Fatalf("Expected 'Researcher', got '%s'", got.Name)
	}

	// Name lookup is case-insensitive
	found, err := stores.Agents.FindAgentByName(ctx, "rEsEaRcHeR")
	if err != nil {
		t.Fatalf("Failed to find agent by name: %v", err)
	}
	if found.ID != added.ID {
		t.Fatalf("Expected ID %s, got %s", added.ID, found.ID)
	}
}

func TestAgentDuplicateName(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	first := &core.Agent{Name: "Writer", MetaPrompt: "Write."}
	if _, err := stores.Agents.AddAgent(ctx, first); err != nil {
		t.Fatalf("Failed to add agent: %v", err)
	}

	dup := &core.Agent{Name: "WRITER", MetaPrompt: "Write louder."}
	_, err = stores.Agents.AddAgent(ctx, dup)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestAgentUpdateAndDelete(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	agent, err := stores.Agents.AddAgent(ctx, &core.Agent{Name: "Planner", MetaPrompt: "Plan."})
	if err != nil {
		t.Fatalf("Failed to add agent: %v", err)
	}

	agent.Name = "Scheduler"
	if _, err := stores.Agents.UpdateAgent(ctx, agent); err != nil {
		t.Fatalf("Failed to update agent: %v", err)
	}

	// Old name index must be gone, new one live
	if _, err := stores.Agents.FindAgentByName(ctx, "Planner"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for old name, got %v", err)
	}
	if _, err := stores.Agents.FindAgentByName(ctx, "scheduler"); err != nil {
		t.Fatalf("Failed to find agent by new name: %v", err)
	}

	if err := stores.Agents.DeleteAgent(ctx, agent.ID); err != nil {
		t.Fatalf("Failed to delete agent: %v", err)
	}
	if _, err := stores.Agents.GetAgent(ctx, agent.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := stores.Agents.DeleteAgent(ctx, agent.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestAgentDocuments(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	agent, err := stores.Agents.AddAgent(ctx, &core.Agent{Name: "Archivist", MetaPrompt: "Keep records.", Knowledge: true})
	if err != nil {
		t.Fatalf("Failed to add agent: %v", err)
	}

	doc := &core.KnowledgeDocument{
		FileName:    "notes.txt",
		ContentType: "text/plain",
		RawBytes:    []byte("hello"),
	}
	if err := stores.Agents.AddDocument(ctx, agent.ID, doc); err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}
	if doc.SizeBytes != 5 {
		t.Fatalf("Expected SizeBytes 5, got %d", doc.SizeBytes)
	}

	got, err := stores.Agents.GetDocument(ctx, agent.ID, "notes.txt")
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if string(got.RawBytes) != "hello" {
		t.Fatalf("Expected 'hello', got '%s'", got.RawBytes)
	}

	docs, err := stores.Agents.ListDocuments(ctx, agent.ID)
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(docs))
	}

	// Adding a document to a missing agent fails
	if err := stores.Agents.AddDocument(ctx, core.NewAgentID(), doc); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for missing agent, got %v", err)
	}

	if err := stores.Agents.DeleteDocument(ctx, agent.ID, "notes.txt"); err != nil {
		t.Fatalf("Failed to delete document: %v", err)
	}
	if _, err := stores.Agents.GetDocument(ctx, agent.ID, "notes.txt"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestAgentDeleteRemovesDocuments(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	agent, err := stores.Agents.AddAgent(ctx, &core.Agent{Name: "Clerk", MetaPrompt: "File things.", Knowledge: true})
	if err != nil {
		t.Fatalf("Failed to add agent: %v", err)
	}
	if err := stores.Agents.AddDocument(ctx, agent.ID, &core.KnowledgeDocument{
		FileName: "a.txt",
		RawBytes: []byte("a"),
	}); err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}

	if err := stores.Agents.DeleteAgent(ctx, agent.ID); err != nil {
		t.Fatalf("Failed to delete agent: %v", err)
	}
	if _, err := stores.Agents.GetDocument(ctx, agent.ID, "a.txt"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected documents gone with their agent, got %v", err)
	}
}

func TestWorkspaceBasics(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	agent, err := stores.Agents.AddAgent(ctx, &core.Agent{Name: "Member", MetaPrompt: "Help."})
	if err != nil {
		t.Fatalf("Failed to add agent: %v", err)
	}

	ws, err := stores.Workspaces.AddWorkspace(ctx, &core.Workspace{Name: "Research"})
	if err != nil {
		t.Fatalf("Failed to add workspace: %v", err)
	}
	if ws.ID == "" {
		t.Fatal("Expected generated ID")
	}

	if err := stores.Workspaces.AssignAgent(ctx, ws.ID, agent.ID); err != nil {
		t.Fatalf("Failed to assign agent: %v", err)
	}
	// Assign is idempotent
	if err := stores.Workspaces.AssignAgent(ctx, ws.ID, agent.ID); err != nil {
		t.Fatalf("Failed to re-assign agent: %v", err)
	}

	got, err := stores.Workspaces.FindWorkspaceByName(ctx, "research")
	if err != nil {
		t.Fatalf("Failed to find workspace: %v", err)
	}
	if len(got.AgentIDs) != 1 {
		t.Fatalf("Expected 1 member, got %d", len(got.AgentIDs))
	}

	if err := stores.Workspaces.UnassignAgent(ctx, ws.ID, agent.ID); err != nil {
		t.Fatalf("Failed to unassign agent: %v", err)
	}
	got, err = stores.Workspaces.GetWorkspace(ctx, ws.ID)
	if err != nil {
		t.Fatalf("Failed to get workspace: %v", err)
	}
	if len(got.AgentIDs) != 0 {
		t.Fatalf("Expected no members, got %d", len(got.AgentIDs))
	}

	// Deleting the workspace leaves the agent alone
	if err := stores.Workspaces.DeleteWorkspace(ctx, ws.ID); err != nil {
		t.Fatalf("Failed to delete workspace: %v", err)
	}
	if _, err := stores.Agents.GetAgent(ctx, agent.ID); err != nil {
		t.Fatalf("Expected member agent to survive workspace deletion: %v", err)
	}
}
