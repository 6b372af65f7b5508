package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/zqn-cloud/jarvis/internal/observability"
	"github.com/zqn-cloud/jarvis/internal/profile"
	"github.com/zqn-cloud/jarvis/plugin/ai/reminder"
	"github.com/zqn-cloud/jarvis/plugin/ai/schedule"
	"github.com/zqn-cloud/jarvis/server/backend"
	agentmiddleware "github.com/zqn-cloud/jarvis/server/middleware"
)

// Backend is the part of the Jarvis backend the agent endpoints use.
type Backend interface {
	TaskContext(ctx context.Context, utterance string) (*backend.TypeContext, error)
	CreateTask(ctx context.Context, intent *schedule.Intent) (json.RawMessage, error)
	EventContext(ctx context.Context, utterance string) (*backend.TypeContext, error)
	CreateEvent(ctx context.Context, intent *schedule.Intent) (json.RawMessage, error)
	CalendarTypeContext(ctx context.Context, utterance string) (*backend.ColorContext, error)
	CreateCalendarType(ctx context.Context, ct *schedule.CalendarType) (json.RawMessage, error)
	PublishReminders(ctx context.Context, digest *reminder.Digest) (json.RawMessage, error)
}

// ReminderGenerator builds the daily digest.
type ReminderGenerator interface {
	Generate(ctx context.Context, today time.Time) (*reminder.Digest, error)
}

// APIV1Service serves the agent endpoints.
type APIV1Service struct {
	Profile   *profile.Profile
	Parser    *schedule.Parser
	Backend   Backend
	Reminders ReminderGenerator

	limiter *agentmiddleware.RateLimiter
	metrics *observability.Metrics
}

func NewAPIV1Service(profile *profile.Profile, parser *schedule.Parser, backend Backend, reminders ReminderGenerator) *APIV1Service {
	return &APIV1Service{
		Profile:   profile,
		Parser:    parser,
		Backend:   backend,
		Reminders: reminders,
		limiter:   agentmiddleware.NewRateLimiter(profile.RateLimitRPS, profile.RateLimitBurst),
		metrics:   observability.NewMetrics(),
	}
}

// RegisterRoutes registers the agent endpoints with the given Echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: func(_ string) (bool, error) {
			return true, nil
		},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("64K"))

	e.GET("/health", s.Health)
	e.GET("/stats", s.Stats)

	agent := e.Group("", s.limiter.Middleware())
	agent.POST("/parse-task", s.observe("parse_task", s.ParseTask))
	agent.POST("/parse-event", s.observe("parse_event", s.ParseEvent))
	agent.POST("/parse-calendar-type", s.observe("parse_calendar_type", s.ParseCalendarType))
	agent.POST("/generate-reminders", s.observe("generate_reminders", s.GenerateReminders))
}

// observe wraps a handler with a request id, a completion log line and metrics.
func (s *APIV1Service) observe(operation string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		rc := observability.NewRequestContextWithID(nil, req.Header.Get(echo.HeaderXRequestID), operation)
		c.Response().Header().Set(echo.HeaderXRequestID, rc.RequestID)
		c.SetRequest(req.WithContext(observability.WithRequestContext(req.Context(), rc)))

		err := next(c)
		s.metrics.Record(operation, rc.Duration(), err != nil)
		if err != nil {
			aiErr := toAIError(err)
			if aiErr.HTTPStatus() < http.StatusInternalServerError {
				rc.Warn("request rejected", append(errorAttrs(aiErr, rc), slog.String("error", err.Error()))...)
			} else {
				rc.Error("request failed", err, errorAttrs(aiErr, rc)...)
			}
			return aiErr
		}
		rc.Info("request completed", durationAttr(rc))
		return nil
	}
}
