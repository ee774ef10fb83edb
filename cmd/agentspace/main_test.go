package main

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestReindexCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "agentspace",
		Commands: []*cli.Command{
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

	t.Run("requires either agent or all", func(t *testing.T) {
		args := []string{"agentspace", "reindex"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--agent or --all")
	})

	t.Run("agent and all are mutually exclusive", func(t *testing.T) {
		args := []string{"agentspace", "reindex", "--agent", "helper", "--all"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})

	t.Run("embedding-host has default value", func(t *testing.T) {
		cmd := app.Commands[0]
		var hostFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "embedding-host" {
				hostFlag = f
				break
			}
		}
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})

	t.Run("batch-size has default value of 100", func(t *testing.T) {
		cmd := app.Commands[0]
		var batchFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "batch-size" {
				batchFlag = f
				break
			}
		}
		require.NotNil(t, batchFlag)
		assert.Equal(t, 100, batchFlag.Value)
	})

	t.Run("max-retries has default value of 3", func(t *testing.T) {
		cmd := app.Commands[0]
		var retriesFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "max-retries" {
				retriesFlag = f
				break
			}
		}
		require.NotNil(t, retriesFlag)
		assert.Equal(t, 3, retriesFlag.Value)
	})
}

func TestReindexCommandValidation(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "agentspace",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "db",
					Aliases: []string{"d"},
				},
			},
			Commands: []*cli.Command{
				{
					Name:   "reindex",
					Action: reindexCommand,
					Flags: append([]cli.Flag{
						&cli.StringFlag{Name: "agent", Aliases: []string{"a"}},
						&cli.BoolFlag{Name: "all"},
						&cli.IntFlag{Name: "batch-size", Value: 100},
						&cli.IntFlag{Name: "report-interval", Value: 100},
						&cli.IntFlag{Name: "max-retries", Value: 3},
						&cli.DurationFlag{Name: "retry-delay", Value: 1 * time.Second},
					}, embeddingFlags()...),
				},
			},
		}
	}

	t.Run("zero batch-size fails", func(t *testing.T) {
		args := []string{"agentspace", "--db", t.TempDir(), "reindex", "--all", "--batch-size", "0"}
		err := newApp().Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch-size")
	})

	t.Run("zero report-interval fails", func(t *testing.T) {
		args := []string{"agentspace", "--db", t.TempDir(), "reindex", "--all", "--report-interval", "0"}
		err := newApp().Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "report-interval")
	})

	t.Run("zero max-retries fails", func(t *testing.T) {
		args := []string{"agentspace", "--db", t.TempDir(), "reindex", "--all", "--max-retries", "0"}
		err := newApp().Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max-retries")
	})
}

func TestIngestCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "agentspace",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Action: ingestCommand,
				Flags:  append([]cli.Flag{agentNameFlag()}, embeddingFlags()...),
			},
		},
	}

	t.Run("missing agent flag fails", func(t *testing.T) {
		args := []string{"agentspace", "--db", "/tmp/test", "ingest", "notes.txt"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "agent")
	})

	t.Run("missing file arguments fail", func(t *testing.T) {
		args := []string{"agentspace", "--db", "/tmp/test", "ingest", "--agent", "helper"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file")
	})
}

func TestSharedFlagBuilders(t *testing.T) {
	t.Run("embedding flags carry defaults", func(t *testing.T) {
		flags := embeddingFlags()
		require.Len(t, flags, 3)

		host, ok := flags[0].(*cli.StringFlag)
		require.True(t, ok)
		assert.Equal(t, "embedding-host", host.Name)
		assert.Equal(t, "http://localhost:11434/v1", host.Value)

		model, ok := flags[1].(*cli.StringFlag)
		require.True(t, ok)
		assert.Equal(t, "embedding-model", model.Name)
		assert.Equal(t, "embeddinggemma", model.Value)
	})

	t.Run("ai flags extend embedding flags with chat settings", func(t *testing.T) {
		flags := aiFlags()
		require.Len(t, flags, 6)

		names := make([]string, 0, len(flags))
		for _, flag := range flags {
			names = append(names, flag.Names()[0])
		}
		assert.Contains(t, names, "chat-host")
		assert.Contains(t, names, "chat-model")
		assert.Contains(t, names, "temperature")
	})

	t.Run("agent flag is required", func(t *testing.T) {
		flag, ok := agentNameFlag().(*cli.StringFlag)
		require.True(t, ok)
		assert.Equal(t, "agent", flag.Name)
		assert.True(t, flag.Required)
	})

	t.Run("workspace flag is required", func(t *testing.T) {
		flag, ok := workspaceNameFlag().(*cli.StringFlag)
		require.True(t, ok)
		assert.Equal(t, "workspace", flag.Name)
		assert.True(t, flag.Required)
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		testCases := []string{
			"DEBUG",
			"Info",
			"WaRn",
			"ERROR",
		}

		for _, tc := range testCases {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		assert.Contains(t, err.Error(), "invalid")
	})

	t.Run("default log level is info", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				level := c.String("log-level")
				assert.Equal(t, "info", level)
				return nil
			},
		}

		err := app.Run([]string{"test"})
		require.NoError(t, err)
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				level := c.String("log-level")
				assert.Equal(t, "debug", level)
				return nil
			},
		}

		err := app.Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
