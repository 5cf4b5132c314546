package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"reqdoc/internal/config"
	"reqdoc/internal/document"
	"reqdoc/internal/llm"
	"reqdoc/internal/normalize"
	"reqdoc/internal/pipeline"
	"reqdoc/internal/server"
	"reqdoc/internal/storage"
	"reqdoc/internal/uml"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "reqdoc",
		Short: "AI-powered requirements documentation pipeline",
	}
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(breakdownCmd)
}

// initGenerator builds the pipeline from configuration.
func initGenerator(ctx context.Context, cfg *config.Config) (*pipeline.Generator, error) {
	if cfg.AI.APIKey == "" {
		return nil, fmt.Errorf("AI API key not configured")
	}

	completer, err := llm.NewCompleter(ctx, llm.Options{
		Provider:    cfg.AI.Provider,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		BaseURL:     cfg.AI.BaseURL,
		Temperature: cfg.AI.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create completer: %w", err)
	}

	resolver := uml.NewResolver(cfg.UML.PrimaryServer, cfg.UML.FallbackServer, cfg.UML.Format)
	return pipeline.NewGenerator(completer, resolver), nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		gen, err := initGenerator(ctx, cfg)
		if err != nil {
			log.Fatalf("Setup failed: %v\nCheck your config.yaml and API keys.", err)
		}

		store, err := storage.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		srv := server.NewServer(gen, store)
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		fmt.Printf("🚀 reqdoc listening on %s (provider: %s, model: %s)\n", addr, cfg.AI.Provider, cfg.AI.Model)
		if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate [file|-]",
	Short: "Generate a requirements document set from a business requirements file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		requirements, err := readRequirements(args)
		if err != nil {
			log.Fatalf("Failed to read requirements: %v", err)
		}

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		gen, err := initGenerator(ctx, cfg)
		if err != nil {
			log.Fatalf("Setup failed: %v", err)
		}

		fmt.Println("✍️  Generating documentation...")
		doc, err := gen.GenerateDocument(ctx, requirements)
		if err != nil {
			var fe *normalize.FormatError
			if errors.As(err, &fe) {
				fmt.Println("⚠️  Model output was unrecoverable, using the default document.")
				doc = gen.FallbackDocument(requirements)
			} else {
				log.Fatalf("Generation failed: %v", err)
			}
		}

		store, err := storage.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		id, err := store.SaveDocument(ctx, doc)
		if err != nil {
			log.Fatalf("Failed to save document: %v", err)
		}

		out, _ := json.MarshalIndent(doc, "", "  ")
		fmt.Println(string(out))
		fmt.Printf("✅ Document saved with id %s (database: %s)\n", id, cfg.Storage.Path)
	},
}

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <document-id> [member...]",
	Short: "Break a stored document down into tasks, optionally assigning them",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		gen, err := initGenerator(ctx, cfg)
		if err != nil {
			log.Fatalf("Setup failed: %v", err)
		}

		store, err := storage.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		doc, err := store.GetDocument(ctx, args[0])
		if err != nil {
			log.Fatalf("Document %s not found: %v", args[0], err)
		}

		fmt.Println("🔨 Breaking the document down into tasks...")
		tasks, err := gen.BreakdownTasks(ctx, doc)
		if err != nil {
			fmt.Printf("⚠️  Breakdown failed (%v), using default tasks.\n", err)
			tasks = document.DefaultTasks()
		}

		if members := args[1:]; len(members) > 0 {
			tasks = gen.AssignTasks(ctx, tasks, members)
		}

		if err := store.SaveTasks(ctx, doc.ID, tasks); err != nil {
			log.Fatalf("Failed to save tasks: %v", err)
		}

		out, _ := json.MarshalIndent(tasks, "", "  ")
		fmt.Println(string(out))
		fmt.Printf("✅ %d tasks saved for document %s.\n", len(tasks), doc.ID)
	},
}

func readRequirements(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
