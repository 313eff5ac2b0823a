package server

import (
	"net/http/httptest"
	"testing"
	"turnovers/config"
	"turnovers/internal/app"
	"turnovers/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *AppServer {
	t.Helper()

	cfg := config.Config{GeneralVersion: "1.2.3", ServerPort: 8280, Environment: "test"}
	server, err := New(&app.App{
		Config:     cfg,
		Middleware: middleware.New(cfg),
	})
	require.NoError(t, err)
	return server
}

func TestServer_HealthWithSecurityHeaders(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.FiberApp.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
	assert.Equal(t, "TurnoversServer/1.2.3", resp.Header.Get("Server"))
}

func TestServer_Listen_InvalidPort(t *testing.T) {
	server := newTestServer(t)
	assert.Error(t, server.Listen(0))
}
