// Package ingestion provides pipeline orchestration for turning uploaded
// documents into searchable knowledge.
//
// The Pipeline type manages the ingestion workflow for an agent's documents:
//   - Extracting plain text from the uploaded bytes
//   - Splitting the text into bounded chunks
//   - Embedding the chunks in one batch
//   - Writing vector records and the source document to storage
//
// Writes to one agent's collection are serialized; batch ingestion of
// multiple documents runs extraction and embedding concurrently using a
// worker pool. A failed document never leaves partial records behind.
package ingestion
