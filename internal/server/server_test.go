package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fableforge/fableforge/internal/domain/mocks"
	"github.com/fableforge/fableforge/internal/domain/services"
	"github.com/fableforge/fableforge/internal/infrastructure/config"
)

func setupServer(t *testing.T, cfg config.ServerConfig) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := mocks.NewStore()
	entitySvc := services.NewEntityService(store, &mocks.Generator{}, 0)
	typeSvc := services.NewEntityTypeService(store)

	srv, err := New(entitySvc, typeSvc, slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
	require.NoError(t, err)
	return srv
}

func TestServer_Healthz(t *testing.T) {
	srv := setupServer(t, config.ServerConfig{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestServer_GraphQLEndpoint(t *testing.T) {
	srv := setupServer(t, config.ServerConfig{})

	body := `{"query": "{ entityTypes { id name } }"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data": {"entityTypes": []}}`, w.Body.String())
}

func TestServer_CORS(t *testing.T) {
	srv := setupServer(t, config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_CORS_DisallowedOrigin(t *testing.T) {
	srv := setupServer(t, config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	req.Header.Set("Origin", "http://evil.example")
	srv.Router().ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
