// Package server hosts the GraphQL API over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"github.com/fableforge/fableforge/internal/domain/services"
	"github.com/fableforge/fableforge/internal/infrastructure/config"
)

// Server wires the parsed GraphQL schema to an HTTP listener.
type Server struct {
	schema *graphql.Schema
	logger *slog.Logger
	cfg    config.ServerConfig
}

// New parses the schema against the root resolver.
func New(entitySvc *services.EntityService, typeSvc *services.EntityTypeService, logger *slog.Logger, cfg config.ServerConfig) (*Server, error) {
	schema, err := graphql.ParseSchema(Schema, NewResolver(entitySvc, typeSvc))
	if err != nil {
		return nil, fmt.Errorf("parsing graphql schema: %w", err)
	}
	return &Server{
		schema: schema,
		logger: logger,
		cfg:    cfg,
	}, nil
}

// Router builds the gin engine with the GraphQL endpoint and health check.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(corsMiddleware(s.cfg.AllowedOrigins))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	graphqlHandler := gin.WrapH(&relay.Handler{Schema: s.schema})
	r.POST("/graphql", graphqlHandler)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

// corsMiddleware handles preflight and origin headers for the configured
// origins.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	allowAll := false
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			if allowAll {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
