// Package openai implements the ai interfaces using OpenAI-compatible
// HTTP APIs through langchaingo. It works with any service exposing the
// OpenAI wire format: Ollama, LocalAI, vLLM, or OpenAI itself.
package openai
