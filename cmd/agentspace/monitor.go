package main

import (
	"fmt"
	"io"

	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/search"
)

// traceMonitor prints each retrieval step, for the search --verbose flag.
type traceMonitor struct {
	out io.Writer
}

var _ search.RetrievalMonitor = (*traceMonitor)(nil)

func (m *traceMonitor) Start(agentID core.AgentID, query string) {
	fmt.Fprintf(m.out, "retrieve: agent=%s query=%q\n", agentID, query)
}

func (m *traceMonitor) AfterEmbedding(vector []float32) {
	fmt.Fprintf(m.out, "embedded query: %d dimensions\n", len(vector))
}

func (m *traceMonitor) AfterNearest(results []*core.SearchResult) {
	fmt.Fprintf(m.out, "nearest: %d hit(s)\n", len(results))
	for i, result := range results {
		fmt.Fprintf(m.out, "  %d. score=%.4f id=%d file=%s\n",
			i+1, result.Score, result.Record.Id, result.Record.FileName)
	}
}

func (m *traceMonitor) DroppedEmptyHit(record *core.VectorRecord) {
	fmt.Fprintf(m.out, "dropped empty hit: id=%d file=%s\n", record.Id, record.FileName)
}

func (m *traceMonitor) Finish(hits []*core.SearchResult, context string) {
	fmt.Fprintf(m.out, "retrieved %d chunk(s), %d characters of context\n", len(hits), len(context))
}
