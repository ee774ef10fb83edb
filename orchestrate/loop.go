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


package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/agentspace/ai"
	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/storage"
)

// MaxLoops bounds how many routing evaluations one query may consume.
const MaxLoops = 10

const (
	// InvalidFormatResponse is returned when the router produces output
	// that matches neither protocol shape.
	InvalidFormatResponse = "I could not interpret the routing decision, so I have to stop here. Please try rephrasing your request."

	// LoopLimitResponse is returned when the loop limit is reached
	// without a final answer.
	LoopLimitResponse = "I reached the delegation limit without arriving at a final answer. Please try a more specific request."
)

// AgentChatInvoker is the capability to run one agent's own chat turn.
// chat.Service satisfies it.
type AgentChatInvoker interface {
	Answer(ctx context.Context, agentID core.AgentID, history []core.ConversationTurn, message string) (string, error)
}

// Loop runs the bounded routing state machine over a workspace.
//
// Each iteration asks the router to either answer the user directly or
// delegate an instruction to one member agent. Delegate output is fed back
// into the conversation so the router can build on it. The loop is strictly
// sequential; only the member agent prefetch at startup runs concurrently.
type Loop struct {
	agents  storage.AgentRepository
	router  ai.ChatModel
	invoker AgentChatInvoker
	pool    *ants.Pool
	logger  *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop) error

// WithPoolSize sets the worker pool size for the member prefetch.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(l *Loop) error {
		if size < 1 {
			size = 1
		}
		if l.pool != nil {
			l.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		l.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoop creates a new orchestration loop.
func NewLoop(
	agents storage.AgentRepository,
	router ai.ChatModel,
	invoker AgentChatInvoker,
	opts ...Option,
) (*Loop, error) {
	if agents == nil {
		return nil, ErrAgentRepositoryRequired
	}
	if router == nil {
		return nil, ErrRouterRequired
	}
	if invoker == nil {
		return nil, ErrInvokerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	l := &Loop{
		agents:  agents,
		router:  router,
		invoker: invoker,
		pool:    pool,
		logger:  slog.Default().With("component", "orchestrate"),
	}

	for _, opt := range opts {
		if optErr := opt(l); optErr != nil {
			l.Release()
			return nil, optErr
		}
	}

	return l, nil
}

// Run answers a user message on behalf of a workspace.
//
// Recoverable routing conditions (malformed router output, loop limit,
// delegation to a missing agent) produce defined reply strings, never
// errors. Errors from the router or a delegated agent are fatal and
// propagate immediately.
func (l *Loop) Run(ctx context.Context, workspace *core.Workspace, message string) (string, error) {
	if workspace == nil {
		return "", ErrWorkspaceRequired
	}

	members, err := l.fetchMembers(ctx, workspace)
	if err != nil {
		return "", err
	}
	systemPrompt := buildSystemPrompt(members)

	byName := make(map[string]*core.Agent, len(members))
	for _, agent := range members {
		byName[strings.ToLower(agent.Name)] = agent
	}

	// The conversation so far, excluding the message being sent this turn
	var history []core.ConversationTurn
	effective := message

	for iteration := 0; iteration < MaxLoops; iteration++ {
		raw, err := l.router.Complete(ctx, systemPrompt, history, effective)
		if err != nil {
			return "", fmt.Errorf("routing iteration %d: %w", iteration+1, err)
		}

		// Preserve router self-context across loops
		history = append(history,
			core.ConversationTurn{Role: core.RoleUser, Content: effective},
			core.ConversationTurn{Role: core.RoleAssistant, Content: raw},
		)

		decision := ParseDecision(raw)
		switch decision.Type {
		case DecisionResponse:
			l.logger.Info("router responded", "workspace", workspace.ID, "iterations", iteration+1)
			return decision.Content, nil

		case DecisionUnparseable:
			l.logger.Warn("unparseable router output",
				"workspace", workspace.ID, "iteration", iteration+1, "raw", raw)
			return InvalidFormatResponse, nil

		case DecisionDelegate:
			agent, ok := byName[strings.ToLower(decision.AgentName)]
			if !ok {
				l.logger.Warn("delegate target not found",
					"workspace", workspace.ID, "agent", decision.AgentName)
				history = append(history, core.ConversationTurn{
					Role:    core.RoleUser,
					Content: fmt.Sprintf("Agent %q is not available in this workspace.", decision.AgentName),
				})
				effective = decision.Instruction
				continue
			}

			agentResponse, err := l.invoker.Answer(ctx, agent.ID, nil, decision.Instruction)
			if err != nil {
				return "", fmt.Errorf("delegating to %s: %w", agent.Name, err)
			}

			history = append(history, core.ConversationTurn{
				Role:    core.RoleUser,
				Content: fmt.Sprintf("[%s]: %s", agent.Name, agentResponse),
			})
			effective = decision.Instruction
		}
	}

	l.logger.Warn("loop limit reached", "workspace", workspace.ID)
	return LoopLimitResponse, nil
}

// Release releases the worker pool.
// The loop should not be used after calling Release.
func (l *Loop) Release() {
	if l.pool != nil {
		l.pool.Release()
	}
}

// fetchMembers loads the workspace's agents concurrently, preserving the
// workspace's member order.
func (l *Loop) fetchMembers(ctx context.Context, workspace *core.Workspace) ([]*core.Agent, error) {
	members := make([]*core.Agent, len(workspace.AgentIDs))
	errs := make([]error, len(workspace.AgentIDs))

	var wg sync.WaitGroup
	for i, id := range workspace.AgentIDs {
		i, id := i, id
		wg.Add(1)
		if err := l.pool.Submit(func() {
			defer wg.Done()
			members[i], errs[i] = l.agents.GetAgent(ctx, id)
		}); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	result := make([]*core.Agent, 0, len(members))
	for i, agent := range members {
		if errs[i] != nil {
			// A stale member reference should not break the workspace
			if errors.Is(errs[i], storage.ErrNotFound) {
				l.logger.Warn("workspace references missing agent",
					"workspace", workspace.ID, "agent", workspace.AgentIDs[i])
				continue
			}
			return nil, errs[i]
		}
		result = append(result, agent)
	}
	return result, nil
}

// buildSystemPrompt lists every member agent so the router can choose one.
func buildSystemPrompt(members []*core.Agent) string {
	var b strings.Builder
	b.WriteString("You are the routing agent for a workspace. ")
	b.WriteString("Decide whether to answer the user yourself or delegate to one of these agents:\n\n")
	for _, agent := range members {
		fmt.Fprintf(&b, "%s: %s\n", agent.Name, agent.Description)
	}
	b.WriteString("\nReply with exactly one JSON object and nothing else. To delegate:\n")
	b.WriteString(`{"type": "delegate", "agentName": "<name>", "instruction": "<text>"}`)
	b.WriteString("\nTo answer the user directly:\n")
	b.WriteString(`{"type": "response", "content": "<text>"}`)
	return b.String()
}
