package server

import (
	"context"
	"fmt"
	"time"
	"turnovers/config"
	"turnovers/internal/app"
	"turnovers/internal/handlers"
	"turnovers/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogs "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/helmet/v2"
)

const (
	// Form posts and JSON bodies are small; 64 KiB leaves room for long extras lists.
	bodyLimit       = 64 * 1024
	accessLogFormat = "${time} ${locals:" + middleware.TraceIDLocalKey + "} ${status} - ${latency} ${method} ${path}\n"
)

type AppServer struct {
	FiberApp *fiber.App
	log      logger.Logger
}

func New(app *app.App) (*AppServer, error) {
	log := logger.New("server").Function("New")

	server := fiber.New(fiberConfig(app.Config))
	useMiddleware(server, app)

	if err := handlers.Router(server, app); err != nil {
		return nil, log.Err("failed to initialize handlers", err)
	}

	log.Info("Server initialized", "environment", app.Config.Environment)

	return &AppServer{FiberApp: server, log: log}, nil
}

func fiberConfig(cfg config.Config) fiber.Config {
	development := cfg.Environment == "development"

	return fiber.Config{
		ServerHeader:            "TurnoversServer/" + cfg.GeneralVersion,
		AppName:                 "turnovers_server",
		BodyLimit:               bodyLimit,
		EnableTrustedProxyCheck: true,
		ReadTimeout:             15 * time.Second,
		WriteTimeout:            30 * time.Second,
		IdleTimeout:             2 * time.Minute,
		DisableStartupMessage:   !development,
		EnablePrintRoutes:       development,
	}
}

// useMiddleware installs the chain shared by the API and the page. Recovery
// and tracing come first so every later handler logs under a trace ID.
func useMiddleware(server *fiber.App, app *app.App) {
	server.Use(
		cors.New(cors.Config{
			AllowOrigins:  app.Config.CorsAllowOrigins,
			AllowMethods:  "GET, POST, PUT, PATCH, OPTIONS",
			AllowHeaders:  "Origin, Content-Type, Accept, " + middleware.TraceIDHeader,
			ExposeHeaders: middleware.TraceIDHeader + ", Content-Disposition",
			MaxAge:        300,
		}),
		recover.New(),
		app.Middleware.TraceID(),
		fiberLogs.New(fiberLogs.Config{Format: accessLogFormat}),
		app.Middleware.RequestLogger(),
		compress.New(),
		helmet.New(helmet.Config{
			XSSProtection:             "1; mode=block",
			ContentTypeNosniff:        "nosniff",
			XFrameOptions:             "DENY",
			ReferrerPolicy:            "same-origin",
			CrossOriginEmbedderPolicy: "require-corp",
			CrossOriginOpenerPolicy:   "same-origin",
			CrossOriginResourcePolicy: "same-origin",
			OriginAgentCluster:        "?1",
			XDNSPrefetchControl:       "off",
			XDownloadOptions:          "noopen",
			XPermittedCrossDomain:     "none",
			// The page sets its own policy in middleware.PageSecurity.
			ContentSecurityPolicy: "",
		}),
	)
}

func (s *AppServer) Listen(port int) error {
	if port <= 0 {
		return s.log.Function("Listen").Error("invalid port", "port", port)
	}

	s.log.Function("Listen").Info("Starting server", "port", port)
	return s.FiberApp.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *AppServer) Shutdown(ctx context.Context) error {
	return s.FiberApp.ShutdownWithContext(ctx)
}
