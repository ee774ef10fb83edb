package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a unique identifier for derived entities such as vector records.
// It is generated using content-based hashing so identical content
// produces identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// AgentID is the stable identifier of a configured agent.
type AgentID string

// NewAgentID generates a new unique AgentID.
func NewAgentID() AgentID {
	return AgentID(uuid.New().String())
}

// WorkspaceID is the stable identifier of a workspace.
type WorkspaceID string

// NewWorkspaceID generates a new unique WorkspaceID.
func NewWorkspaceID() WorkspaceID {
	return WorkspaceID(uuid.New().String())
}

// Agent is a configured persona: a meta-prompt plus an optional knowledge
// base of ingested documents. The agent's ID doubles as the key of its
// vector collection.
type Agent struct {
	ID          AgentID
	Name        string
	Description string
	MetaPrompt  string
	Knowledge   bool // true once at least one document has been ingested
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// Workspace is a named group of agents available for orchestrated delegation.
type Workspace struct {
	ID         WorkspaceID
	Name       string
	AgentIDs   []AgentID
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// KnowledgeDocument is a raw uploaded file owned by an agent.
// It is immutable once stored and removed together with its vector records.
type KnowledgeDocument struct {
	FileName    string
	ContentType string
	RawBytes    []byte
	SizeBytes   int64
	UploadedAt  time.Time
}

// TextChunk is a bounded-size slice of extracted document text.
// Chunks are ephemeral: produced by the splitter and consumed by the
// embedding step, never persisted on their own.
type TextChunk struct {
	SequenceIndex     int
	Text              string
	SourceDescription string
}

// VectorRecord is one embedded chunk stored in an agent's collection.
type VectorRecord struct {
	Id          ID
	FileName    string // source document, used for targeted removal
	Vector      []float32
	Text        string
	Description string
	InsertedAt  time.Time
}

// RecordID derives the deterministic ID of a vector record from its
// owning agent, source file, and chunk position. Re-ingesting the same
// document overwrites the same records instead of accumulating copies.
func RecordID(agentID AgentID, fileName string, sequenceIndex int) ID {
	return IDFromContent(fmt.Sprintf("%s/%s#%d", agentID, fileName, sequenceIndex))
}

// Role identifies the author of a conversation turn.
type Role int

const (
	// RoleUser represents the human side of the conversation. Delegate
	// responses are also fed back to the router as user turns.
	RoleUser Role = iota + 1
	// RoleAssistant represents the model side of the conversation.
	RoleAssistant
)

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// ConversationTurn is a single message in an orchestration conversation.
// Turns are append-only for the lifetime of one orchestrator invocation.
type ConversationTurn struct {
	Role    Role
	Content string
}

// SearchResult is a vector store hit with its similarity score.
type SearchResult struct {
	Record *VectorRecord
	Score  float32
}
