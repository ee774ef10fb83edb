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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/agentspace"
	"github.com/poiesic/agentspace/ai"
	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/reindex"
	"github.com/poiesic/agentspace/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "agentspace",
		Usage: "Knowledge-backed agents and orchestrated workspaces",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:     "db",
				Aliases:  []string{"d"},
				Usage:    "Path to BadgerDB database directory",
				Required: true,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:  "agent",
				Usage: "Manage agents",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Create a new agent",
						Action: agentAddCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "name",
								Aliases:  []string{"n"},
								Usage:    "Agent name, unique within the database",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "description",
								Usage: "One-line description shown to the workspace router",
							},
							&cli.StringFlag{
								Name:     "prompt",
								Aliases:  []string{"p"},
								Usage:    "Meta prompt establishing the agent's persona",
								Required: true,
							},
						},
					},
					{
						Name:   "list",
						Usage:  "List all agents",
						Action: agentListCommand,
					},
					{
						Name:   "show",
						Usage:  "Show an agent and its documents",
						Action: agentShowCommand,
						Flags:  []cli.Flag{agentNameFlag()},
					},
					{
						Name:   "update",
						Usage:  "Update an agent's description or prompt",
						Action: agentUpdateCommand,
						Flags: []cli.Flag{
							agentNameFlag(),
							&cli.StringFlag{
								Name:  "rename",
								Usage: "New agent name",
							},
							&cli.StringFlag{
								Name:  "description",
								Usage: "New description",
							},
							&cli.StringFlag{
								Name:    "prompt",
								Aliases: []string{"p"},
								Usage:   "New meta prompt",
							},
						},
					},
					{
						Name:   "remove",
						Usage:  "Delete an agent, its documents, and its vectors",
						Action: agentRemoveCommand,
						Flags:  []cli.Flag{agentNameFlag()},
					},
				},
			},
			{
				Name:  "workspace",
				Usage: "Manage workspaces",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Create a new workspace",
						Action: workspaceAddCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "name",
								Aliases:  []string{"n"},
								Usage:    "Workspace name, unique within the database",
								Required: true,
							},
						},
					},
					{
						Name:   "list",
						Usage:  "List all workspaces and their members",
						Action: workspaceListCommand,
					},
					{
						Name:   "remove",
						Usage:  "Delete a workspace (member agents are kept)",
						Action: workspaceRemoveCommand,
						Flags:  []cli.Flag{workspaceNameFlag()},
					},
					{
						Name:   "assign",
						Usage:  "Add an agent to a workspace",
						Action: workspaceAssignCommand,
						Flags:  []cli.Flag{workspaceNameFlag(), agentNameFlag()},
					},
					{
						Name:   "unassign",
						Usage:  "Remove an agent from a workspace",
						Action: workspaceUnassignCommand,
						Flags:  []cli.Flag{workspaceNameFlag(), agentNameFlag()},
					},
				},
			},
			{
				Name:      "ingest",
				Usage:     "Ingest document files into an agent's knowledge base",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags:     append([]cli.Flag{agentNameFlag()}, embeddingFlags()...),
			},
			{
				Name:   "forget",
				Usage:  "Remove a document and its vectors from an agent",
				Action: forgetCommand,
				Flags: []cli.Flag{
					agentNameFlag(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "File name of the document to remove",
						Required: true,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Query an agent's knowledge base directly",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					agentNameFlag(),
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of chunks to retrieve",
						Value: search.DefaultTopK,
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Trace each retrieval step on stderr",
					},
				}, embeddingFlags()...),
			},
			{
				Name:      "ask",
				Usage:     "Ask a single agent a question",
				ArgsUsage: "MESSAGE",
				Action:    askCommand,
				Flags:     append([]cli.Flag{agentNameFlag()}, aiFlags()...),
			},
			{
				Name:      "orchestrate",
				Usage:     "Send a request to a workspace's routing agent",
				ArgsUsage: "MESSAGE",
				Action:    orchestrateCommand,
				Flags:     append([]cli.Flag{workspaceNameFlag()}, aiFlags()...),
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed stored knowledge with the configured embedding model",
				Action: reindexCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "agent",
						Aliases: []string{"a"},
						Usage:   "Agent name (omit with --all to reindex every collection)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Reindex every collection in the database",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				}, embeddingFlags()...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func agentNameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "agent",
		Aliases:  []string{"a"},
		Usage:    "Agent name",
		Required: true,
	}
}

func workspaceNameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "workspace",
		Aliases:  []string{"w"},
		Usage:    "Workspace name",
		Required: true,
	}
}

// embeddingFlags covers commands that only need the embedding service.
func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "token",
			Usage: "API token for the AI services",
			Value: "none",
		},
	}
}

// aiFlags covers commands that need both embedding and chat services.
func aiFlags() []cli.Flag {
	return append(embeddingFlags(),
		&cli.StringFlag{
			Name:  "chat-host",
			Usage: "Chat completion service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model name",
			Value: "qwen2.5:3b",
		},
		&cli.Float64Flag{
			Name:  "temperature",
			Usage: "Chat sampling temperature",
			Value: 0.0,
		},
	)
}

// openSystem builds a System from the command-line flags. Commands that never
// touch the AI services still get a provider wired with the defaults; the
// underlying clients connect lazily, so no network traffic happens until an
// embedding or completion is actually requested.
func openSystem(c *cli.Context) (*agentspace.System, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	opts := []ai.ConfigOption{}
	if host := c.String("embedding-host"); host != "" {
		opts = append(opts, ai.WithEmbeddingHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if host := c.String("chat-host"); host != "" {
		opts = append(opts, ai.WithChatHost(host))
	}
	if model := c.String("chat-model"); model != "" {
		opts = append(opts, ai.WithChatModel(model))
	}
	if token := c.String("token"); token != "" {
		opts = append(opts, ai.WithToken(token))
	}
	if c.IsSet("temperature") {
		opts = append(opts, ai.WithTemperature(c.Float64("temperature")))
	}

	aiConfig := ai.NewConfig(opts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	system, err := agentspace.NewSystem(dbPath, agentspace.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return system, nil
}

func agentAddCommand(c *cli.Context) error {
	ctx := context.Background()

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	agent, err := system.Agents().AddAgent(ctx, &core.Agent{
		Name:        c.String("name"),
		Description: c.String("description"),
		MetaPrompt:  c.String("prompt"),
	})
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	fmt.Printf("Created agent %q (%s)\n", agent.Name, agent.ID)
	return nil
}

func agentListCommand(c *cli.Context) error {
	ctx := context.Background()

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	agents, err := system.Agents().ListAgents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list agents: %w", err)
	}

	if len(agents) == 0 {
		fmt.Println("No agents.")
		return nil
	}
	for _, agent := range agents {
		knowledge := "no knowledge"
		if agent.Knowledge {
			knowledge = "has knowledge"
		}
		fmt.Printf("%s  %s  (%s)\n", agent.ID, agent.Name, knowledge)
	}
	return nil
}

func agentShowCommand(c *cli.Context) error {
	ctx := context.Background()

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	agent, err := system.Agents().FindAgentByName(ctx, c.String("agent"))
	if err != nil {
		return fmt.Errorf("failed to find agent: %w", err)
	}

	fmt.Printf("ID:          %s\n", agent.ID)
	fmt.Printf("Name:        %s\n", agent.Name)
	fmt.Printf("Description: %s\n", agent.Description)
	fmt.Printf("Prompt:      %s\n", agent.MetaPrompt)
	fmt.Printf("Created:     %s\n", agent.InsertedAt.Format(time.RFC3339))
	fmt.Printf("Updated:     %s\n", agent.UpdatedAt.Format(time.RFC3339))

	docs, err := system.Agents().ListDocuments(ctx, agent.ID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	fmt.Printf("Documents:   %d\n", len(docs))
	for _, doc := range docs {
		fmt.Printf("  %s  (%d bytes, uploaded %s)\n",
			doc.FileName, doc.SizeBytes, doc.UploadedAt.Format(time.RFC3339))
	}
	return nil
}

func agentUpdateCommand(c *cli.Context) error {
	ctx := context.Background()

	if !c.IsSet("rename") && !c.IsSet("description") && !c.IsSet("prompt") {
		return fmt.Errorf("nothing to update: pass --rename, --description, or --prompt")
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	agent, err := system.Agents().FindAgentByName(ctx, c.String("agent"))
	if err != nil {
		return fmt.Errorf("failed to find agent: %w", err)
	}

	if c.IsSet("rename") {
		agent.Name = c.String("rename")
	}
	if c.IsSet("description") {
		agent.Description = c.String("description")
	}
	if c.IsSet("prompt") {
		agent.MetaPrompt = c.String("prompt")
	}

	if _, err := system.Agents().UpdateAgent(ctx, agent); err != nil {
		return fmt.Errorf("failed to update agent: %w", err)
	}

	fmt.Printf("Updated agent %q\n", agent.Name)
	return nil
}

func agentRemoveCommand(c *cli.Context) error {
	ctx := context.Background()

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	agent, err := system.Agents().FindAgentByName(ctx, c.String("agent"))
	if err != nil {
		return fmt.Errorf("failed to find agent: %w", err)
	}

	pipeline, err := system.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	if err := pipeline.RemoveAgent(ctx, agent.ID); err != nil {
		return fmt.Errorf("failed to remove agent: %w", err)
	}

	fmt.Printf("Removed agent %q\n", agent.Name)
	return nil
}

func workspaceAddCommand(c *cli.Context) error {
	ctx := context.Background()

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	workspace, err := system.Workspaces().AddWorkspace(ctx, &core.Workspace{
		Name: c.String("name"),
	})
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	fmt.Printf("Created workspace %q (%s)\n", workspace.Name, workspace.ID)
	return nil
}

func workspaceListCommand(c *cli.Context) error {
	ctx := context.Background()

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	workspaces, err := system.Workspaces().ListWorkspaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}

	if len(workspaces) == 0 {
		fmt.Println("No workspaces.")
		return nil
	}
	for _, workspace := range workspaces {
		fmt.Printf("%s  %s  (%d members)\n", workspace.ID, workspace.Name, len(workspace.AgentIDs))
		for _, agentID := range workspace.AgentIDs {
			agent, err := system.Agents().GetAgent(ctx, agentID)
			if err != nil {
				fmt.Printf("  %s  (unavailable)\n", agentID)
				continue
			}
			fmt.Printf("  %s  %s\n", agent.ID, agent.Name)
		}
	}
	return nil
}

func workspaceRemoveCommand(c *cli.Context) error {
	ctx := context.Background()

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	workspace, err := system.Workspaces().FindWorkspaceByName(ctx, c.String("workspace"))
	if err != nil {
		return fmt.Errorf("failed to find workspace: %w", err)
	}

	if err := system.Workspaces().DeleteWorkspace(ctx, workspace.ID); err != nil {
		return fmt.Errorf("failed to remove workspace: %w", err)
	}

	fmt.Printf("Removed workspace %q\n", workspace.Name)
	return nil
}

func workspaceAssignCommand(c *cli.Context) error {
	ctx := context.Background()

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	workspace, err := system.Workspaces().FindWorkspaceByName(ctx, c.String("workspace"))
	if err != nil {
		return fmt.Errorf("failed to find workspace: %w", err)
	}
	agent, err := system.Agents().FindAgentByName(ctx, c.String("agent"))
	if err != nil {
		return fmt.Errorf("failed to find agent: %w", err)
	}

	if err := system.Workspaces().AssignAgent(ctx, workspace.ID, agent.ID); err != nil {
		return fmt.Errorf("failed to assign agent: %w", err)
	}

	fmt.Printf("Assigned %q to %q\n", agent.Name, workspace.Name)
	return nil
}

func workspaceUnassignCommand(c *cli.Context) error {
	ctx := context.Background()

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	workspace, err := system.Workspaces().FindWorkspaceByName(ctx, c.String("workspace"))
	if err != nil {
		return fmt.Errorf("failed to find workspace: %w", err)
	}
	agent, err := system.Agents().FindAgentByName(ctx, c.String("agent"))
	if err != nil {
		return fmt.Errorf("failed to find agent: %w", err)
	}

	if err := system.Workspaces().UnassignAgent(ctx, workspace.ID, agent.ID); err != nil {
		return fmt.Errorf("failed to unassign agent: %w", err)
	}

	fmt.Printf("Unassigned %q from %q\n", agent.Name, workspace.Name)
	return nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("at least one file argument is required")
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	agent, err := system.Agents().FindAgentByName(ctx, c.String("agent"))
	if err != nil {
		return fmt.Errorf("failed to find agent: %w", err)
	}

	docs := make([]*core.KnowledgeDocument, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		docs = append(docs, &core.KnowledgeDocument{
			FileName: filepath.Base(path),
			RawBytes: raw,
		})
	}

	pipeline, err := system.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	count, err := pipeline.IngestBatch(ctx, agent.ID, docs)
	fmt.Fprintf(os.Stderr, "Ingested %d chunks from %d file(s) into %q\n", count, len(docs), agent.Name)
	if err != nil {
		return fmt.Errorf("ingestion finished with errors: %w", err)
	}
	return nil
}

func forgetCommand(c *cli.Context) error {
	ctx := context.Background()

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	agent, err := system.Agents().FindAgentByName(ctx, c.String("agent"))
	if err != nil {
		return fmt.Errorf("failed to find agent: %w", err)
	}

	pipeline, err := system.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	fileName := c.String("file")
	if err := pipeline.RemoveDocument(ctx, agent.ID, fileName); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	fmt.Printf("Removed %q from %q\n", fileName, agent.Name)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a query argument is required")
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	agent, err := system.Agents().FindAgentByName(ctx, c.String("agent"))
	if err != nil {
		return fmt.Errorf("failed to find agent: %w", err)
	}

	retriever, err := system.NewRetriever(search.WithTopK(c.Int("top-k")))
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	var monitor search.RetrievalMonitor
	if c.Bool("verbose") {
		monitor = &traceMonitor{out: os.Stderr}
	}

	knowledge, err := retriever.RetrieveWithMonitor(ctx, agent.ID, query, monitor)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if knowledge == "" {
		fmt.Fprintln(os.Stderr, "No matching knowledge.")
		return nil
	}
	fmt.Println(knowledge)
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if message == "" {
		return fmt.Errorf("a message argument is required")
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	service, err := system.NewChatService()
	if err != nil {
		return fmt.Errorf("failed to create chat service: %w", err)
	}

	answer, err := service.AnswerByName(ctx, c.String("agent"), nil, message)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	fmt.Println(answer)
	return nil
}

func orchestrateCommand(c *cli.Context) error {
	ctx := context.Background()

	message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if message == "" {
		return fmt.Errorf("a message argument is required")
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	workspace, err := system.Workspaces().FindWorkspaceByName(ctx, c.String("workspace"))
	if err != nil {
		return fmt.Errorf("failed to find workspace: %w", err)
	}

	loop, err := system.NewOrchestratorLoop()
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer loop.Release()

	reply, err := loop.Run(ctx, workspace, message)
	if err != nil {
		return fmt.Errorf("orchestration failed: %w", err)
	}

	fmt.Println(reply)
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	agentName := c.String("agent")
	all := c.Bool("all")
	if agentName == "" && !all {
		return fmt.Errorf("either --agent or --all is required")
	}
	if agentName != "" && all {
		return fmt.Errorf("--agent and --all are mutually exclusive")
	}

	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	reindexer := system.NewReindexer(reindexConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if all {
		if err := reindexer.RunAll(ctx); err != nil {
			return fmt.Errorf("reindexing failed: %w", err)
		}
		return nil
	}

	agent, err := system.Agents().FindAgentByName(ctx, agentName)
	if err != nil {
		return fmt.Errorf("failed to find agent: %w", err)
	}
	if err := reindexer.Run(ctx, agent.ID); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
