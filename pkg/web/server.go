// Package web serves the chat page and its JSON API over HTTP.
package web

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chatbridge/pkg/transcript"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

//go:embed static/index.html
var indexHTML []byte

const shutdownTimeout = 5 * time.Second

// Server wraps the Fiber app.
type Server struct {
	app *fiber.App
}

// NewServer builds the app and registers all routes.
func NewServer(bridge Completer, tr *transcript.Transcript) *Server {
	if tr == nil {
		tr = transcript.New()
	}
	app := fiber.New(fiber.Config{
		AppName:               "chatbridge",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())

	Register(app, NewChatHandler(bridge, tr))
	return &Server{app: app}
}

// Register wires all HTTP routes onto the given Fiber app.
func Register(app *fiber.App, chatHandler *ChatHandler) {
	app.Get("/", Index)

	api := app.Group("/api")
	api.Get("/health", Health)
	api.Post("/chat", chatHandler.Chat)
	api.Get("/history", chatHandler.History)
}

// App exposes the underlying Fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("web_server_listening", "addr", addr)
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("web_server_stopped", "addr", addr)
	return nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	if status >= fiber.StatusInternalServerError {
		slog.Error("web_request_failed", "path", c.Path(), "error", err)
	}
	return writeError(c, status, err.Error())
}
