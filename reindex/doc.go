// Package reindex re-embeds stored knowledge with a new or updated
// embedding model.
//
// This package supports batch processing of an agent's vector records,
// progress tracking, and retry logic with exponential backoff. Rebuilding
// a collection allows the replacement model to use a different
// dimensionality than the one it replaces.
package reindex
