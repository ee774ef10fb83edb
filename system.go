// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package agentspace

import (
	"io"
	"log/slog"

	"github.com/poiesic/agentspace/ai"
	"github.com/poiesic/agentspace/ai/openai"
	"github.com/poiesic/agentspace/chat"
	"github.com/poiesic/agentspace/ingestion"
	"github.com/poiesic/agentspace/orchestrate"
	"github.com/poiesic/agentspace/reindex"
	"github.com/poiesic/agentspace/search"
	"github.com/poiesic/agentspace/storage"
	"github.com/poiesic/agentspace/storage/badger"
)

// System wires the storage backend, AI provider, and the services built on
// them into one handle. It is the entry point for embedding agentspace in a
// host application.
type System struct {
	stores   *badger.Stores
	provider ai.Provider
	logger   *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
}

// WithAIConfig overrides the default AI provider configuration.
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies a pre-built AI provider, bypassing the OpenAI
// provider construction. Useful for tests.
func WithProvider(provider ai.Provider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// NewSystem opens the database at filePath and builds the system on it.
func NewSystem(filePath string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	stores, err := badger.NewStores(filePath)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			stores.Close()
			return nil, err
		}
	}

	return &System{
		stores:   stores,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider and the storage backend.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.stores.Close(); err != nil {
		s.logger.Error("error closing storage", "err", err)
		return err
	}
	return nil
}

// Agents exposes the agent repository.
func (s *System) Agents() storage.AgentRepository {
	return s.stores.Agents
}

// Workspaces exposes the workspace repository.
func (s *System) Workspaces() storage.WorkspaceRepository {
	return s.stores.Workspaces
}

// Vectors exposes the vector store.
func (s *System) Vectors() storage.VectorStore {
	return s.stores.Vectors
}

// NewIngestionPipeline builds an ingestion pipeline over the system's stores.
func (s *System) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(s.stores.Agents, s.stores.Vectors, s.provider.Embedder(), opts...)
}

// NewRetriever builds a knowledge retriever over the system's vector store.
func (s *System) NewRetriever(opts ...search.Option) (*search.Retriever, error) {
	return search.NewRetriever(s.stores.Vectors, s.provider.Embedder(), opts...)
}

// NewChatService builds a single-agent chat service.
func (s *System) NewChatService(opts ...chat.Option) (*chat.Service, error) {
	retriever, err := s.NewRetriever()
	if err != nil {
		return nil, err
	}
	return chat.NewService(s.stores.Agents, retriever, s.provider.ChatModel(), opts...)
}

// NewOrchestratorLoop builds the workspace routing loop. The chat service
// doubles as the delegated agents' chat capability.
func (s *System) NewOrchestratorLoop(opts ...orchestrate.Option) (*orchestrate.Loop, error) {
	service, err := s.NewChatService()
	if err != nil {
		return nil, err
	}
	return orchestrate.NewLoop(s.stores.Agents, s.provider.ChatModel(), service, opts...)
}

// NewReindexer builds a reindexer writing progress to the given writer.
func (s *System) NewReindexer(config *reindex.Config, progress io.Writer) *reindex.Reindexer {
	return reindex.NewReindexer(s.stores.Vectors, s.provider.Embedder(), config, progress)
}
