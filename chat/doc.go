// Package chat answers questions as a single agent.
//
// The Service type combines an agent's meta prompt with knowledge retrieved
// from its collection, then completes the conversation with the chat model.
// Agents without knowledge answer from their meta prompt alone.
package chat
