// Package mock provides test doubles for the ai interfaces.
//
// Mocks default to deterministic behavior (hash-derived embeddings, canned
// chat replies) and accept function fields for custom behavior injection.
package mock
