// Package extract converts uploaded knowledge documents into plain text.
//
// Extraction dispatches on the file extension and is the boundary where
// unsupported uploads are rejected. Empty content is never an error here:
// an empty string means "nothing to index" and the ingestion pipeline
// treats it as a no-op.
package extract
