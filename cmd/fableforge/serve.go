package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fableforge/fableforge/internal/domain/services"
	"github.com/fableforge/fableforge/internal/infrastructure/config"
	"github.com/fableforge/fableforge/internal/infrastructure/llm"
	"github.com/fableforge/fableforge/internal/infrastructure/relationaldb/sqlite"
	"github.com/fableforge/fableforge/internal/server"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the GraphQL API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fableforge.yaml", "path to config file")
	return cmd
}

func runServe(ctx context.Context, configPath string) error {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	store, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	typeSvc := services.NewEntityTypeService(store)
	if err := typeSvc.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seeding entity types: %w", err)
	}

	generator, err := llm.NewGenerator(cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating generation client: %w", err)
	}

	entitySvc := services.NewEntityService(store, generator, cfg.LLM.Timeout())

	srv, err := server.New(entitySvc, typeSvc, logger, cfg.Server)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	logger.Info("starting fableforge",
		"db", store.Path(),
		"provider", cfg.LLM.Provider,
	)
	return srv.Run(ctx)
}
