// Package server wires the agent HTTP service together.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/zqn-cloud/jarvis/internal/profile"
	"github.com/zqn-cloud/jarvis/plugin/ai"
	"github.com/zqn-cloud/jarvis/plugin/ai/reminder"
	"github.com/zqn-cloud/jarvis/plugin/ai/schedule"
	"github.com/zqn-cloud/jarvis/plugin/ai/timeout"
	"github.com/zqn-cloud/jarvis/server/backend"
	apiv1 "github.com/zqn-cloud/jarvis/server/router/api/v1"
)

type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
}

// NewServer builds the LLM adapter, backend client, parser and reminder generator
// from the profile and registers the agent routes.
func NewServer(_ context.Context, profile *profile.Profile) (*Server, error) {
	s := &Server{Profile: profile}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	s.echoServer = echoServer

	aiConfig := ai.NewConfigFromProfile(profile)
	if err := aiConfig.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid LLM configuration")
	}
	llm, err := ai.NewLLMService(&aiConfig.LLM)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create LLM service")
	}

	backendClient := backend.NewClient(profile.APIBase, profile.APIToken, timeout.BackendTimeout)
	parser := schedule.NewParser(llm, profile.Location())
	generator := reminder.NewGenerator(backendClient, reminder.NewWeatherProvider(aiConfig.Weather))

	apiV1Service := apiv1.NewAPIV1Service(profile, parser, backendClient, generator)
	apiV1Service.RegisterRoutes(echoServer)

	return s, nil
}

// Start listens on the profile's address and serves until Shutdown.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}
	s.echoServer.Listener = listener

	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, timeout.ShutdownTimeout)
	defer cancel()

	slog.Info("server shutting down")
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	slog.Info("server stopped properly", "at", time.Now().Format(time.RFC3339))
}
