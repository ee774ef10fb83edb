package search

import "github.com/poiesic/agentspace/core"

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results.
type RetrievalMonitor interface {
	Start(agentID core.AgentID, query string)
	AfterEmbedding(vector []float32)
	AfterNearest(results []*core.SearchResult)
	DroppedEmptyHit(record *core.VectorRecord)
	Finish(hits []*core.SearchResult, context string)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.AgentID, _ string)             {}
func (n *noopMonitor) AfterEmbedding(_ []float32)                 {}
func (n *noopMonitor) AfterNearest(_ []*core.SearchResult)        {}
func (n *noopMonitor) DroppedEmptyHit(_ *core.VectorRecord)       {}
func (n *noopMonitor) Finish(_ []*core.SearchResult, _ string)    {}
