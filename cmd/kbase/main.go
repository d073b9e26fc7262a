// Copyright 2026 Oxbridge Economics
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
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	knowledgebase "github.com/oxbridge-econ/knowledge-base"
	"github.com/oxbridge-econ/knowledge-base/ai"
	"github.com/oxbridge-econ/knowledge-base/core"
	"github.com/oxbridge-econ/knowledge-base/ingestion"
	"github.com/oxbridge-econ/knowledge-base/tasks"
)

func main() {
	app := &cli.App{
		Name:   "kbase",
		Usage:  "Document ingestion pipeline for the knowledge base",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest files into the knowledge base",
				ArgsUsage: "FILE...",
				Action:    ingestCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Owner of the ingested documents",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:    "topic",
						Aliases: []string{"t"},
						Usage:   "Relevance topic; repeat for several. Chunks matching none are dropped",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Abort the run after this long",
						Value: 30 * time.Minute,
					},
				),
			},
			{
				Name:      "status",
				Usage:     "Show the status of an ingestion task",
				ArgsUsage: "TASK_ID",
				Action:    statusCommand,
				Flags:     storeFlags(),
			},
			{
				Name:      "tasks",
				Usage:     "List a user's ingestion task history",
				ArgsUsage: "USER_ID",
				Action:    tasksCommand,
				Flags:     storeFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// storeFlags are shared by every command that opens the knowledge base.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL for all AI services",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
		&cli.StringFlag{
			Name:  "vision-model",
			Usage: "Vision OCR model name",
		},
		&cli.StringFlag{
			Name:  "classifier-model",
			Usage: "Relevance classifier model name",
		},
	}
}

func openKnowledgeBase(c *cli.Context) (*knowledgebase.KnowledgeBase, error) {
	var configOpts []ai.ConfigOption
	if host := c.String("ai-host"); host != "" {
		configOpts = append(configOpts, ai.WithHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("vision-model"); model != "" {
		configOpts = append(configOpts, ai.WithVisionModel(model))
	}
	if model := c.String("classifier-model"); model != "" {
		configOpts = append(configOpts, ai.WithClassifierModel(model))
	}

	return knowledgebase.New(c.String("db"),
		knowledgebase.WithAIConfig(ai.NewConfig(configOpts...)))
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no files given")
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	userId := c.String("user")
	items := make([]*ingestion.RawItem, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		name := filepath.Base(path)
		items = append(items, &ingestion.RawItem{
			Name:      name,
			MediaType: mime.TypeByExtension(filepath.Ext(name)),
			Data:      data,
			Ref:       core.SourceRef{Service: "file", UserId: userId, SourceId: name},
			// Uploads of the same filename replace by chunk id alone.
			SkipDelete: true,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	src := ingestion.NewSliceSource("file", items...)
	tracker := tasks.NewProgressTracker(os.Stderr, len(items), 1)
	task, err := kb.Ingest(ctx, userId, core.TaskKindManual, src, c.StringSlice("topic"), nil,
		ingestion.OrchestratorWithProgress(tracker))
	if err != nil {
		return err
	}
	fmt.Printf("Task %s started for %d file(s)\n", task.Id, len(items))

	// The run is asynchronous; poll until it reaches a terminal state.
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("ingestion timed out; check `kbase status %s`", task.Id)
		case <-time.After(200 * time.Millisecond):
		}

		status, err := kb.Status(ctx, task.Id)
		if err != nil {
			return err
		}
		if status.Terminal() {
			fmt.Printf("Task %s: %s\n", task.Id, status)
			if status == core.TaskStatusFailed {
				os.Exit(1)
			}
			return nil
		}
	}
}

func statusCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one task id")
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	status, err := kb.Status(context.Background(), c.Args().First())
	if err != nil {
		return err
	}
	fmt.Println(status)
	return nil
}

func tasksCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one user id")
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	history, err := kb.Tasks(context.Background(), c.Args().First())
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("no tasks")
		return nil
	}

	for _, task := range history {
		line := fmt.Sprintf("%s  %-12s %-8s processed=%d  %s",
			task.Id, task.Status, task.Service, task.Processed,
			task.UpdatedAt.Format(time.RFC3339))
		if task.Error != "" {
			line += "  error=" + task.Error
		}
		fmt.Println(line)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
