package v1

import (
	"encoding/json"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/zqn-cloud/jarvis/internal/observability"
	"github.com/zqn-cloud/jarvis/plugin/ai/schedule"
	aierrors "github.com/zqn-cloud/jarvis/server/internal/errors"
)

// TextInput is the body of the parse endpoints.
type TextInput struct {
	UserInput string `json:"user_input"`
}

// healthTimeLayout is an ISO 8601 timestamp with microseconds and a numeric offset.
const healthTimeLayout = "2006-01-02T15:04:05.000000-07:00"

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Time    string `json:"time"`
	Version string `json:"version,omitempty"`
}

// Health reports liveness and the service clock in the configured time zone.
func (s *APIV1Service) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Time:    time.Now().In(s.Profile.Location()).Format(healthTimeLayout),
		Version: s.Profile.Version,
	})
}

// Stats reports request counters per operation.
func (s *APIV1Service) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.metrics.Snapshot())
}

// ParseTask fetches the category options, parses a task for today and forwards it.
func (s *APIV1Service) ParseTask(c echo.Context) error {
	input, err := bindUserInput(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	tc, err := s.Backend.TaskContext(ctx, input)
	if err != nil {
		return err
	}
	intent, err := s.Parser.ParseTask(ctx, schedule.TaskRequest{
		Utterance:  input,
		Categories: tc.AvailableTypes,
	})
	if err != nil {
		return err
	}
	out, err := s.Backend.CreateTask(ctx, intent)
	if err != nil {
		return err
	}
	return forward(c, out)
}

// ParseEvent fetches the category options and current date, parses an event and forwards it.
func (s *APIV1Service) ParseEvent(c echo.Context) error {
	input, err := bindUserInput(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	tc, err := s.Backend.EventContext(ctx, input)
	if err != nil {
		return err
	}
	intent, err := s.Parser.ParseEvent(ctx, schedule.EventRequest{
		Utterance:   input,
		Categories:  tc.AvailableTypes,
		CurrentDate: tc.CurrentDate,
	})
	if err != nil {
		return err
	}
	out, err := s.Backend.CreateEvent(ctx, intent)
	if err != nil {
		return err
	}
	return forward(c, out)
}

// ParseCalendarType fetches the color options, parses a calendar type and forwards it.
func (s *APIV1Service) ParseCalendarType(c echo.Context) error {
	input, err := bindUserInput(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	cc, err := s.Backend.CalendarTypeContext(ctx, input)
	if err != nil {
		return err
	}
	ct, err := s.Parser.ParseCalendarType(ctx, schedule.CalendarTypeRequest{
		Utterance: input,
		Colors:    cc.AvailableColors,
	})
	if err != nil {
		return err
	}
	out, err := s.Backend.CreateCalendarType(ctx, ct)
	if err != nil {
		return err
	}
	return forward(c, out)
}

// GenerateReminders builds today's digest and forwards it.
func (s *APIV1Service) GenerateReminders(c echo.Context) error {
	ctx := c.Request().Context()

	digest, err := s.Reminders.Generate(ctx, s.today())
	if err != nil {
		return err
	}
	out, err := s.Backend.PublishReminders(ctx, digest)
	if err != nil {
		return err
	}
	return forward(c, out)
}

func (s *APIV1Service) today() time.Time {
	if s.Parser != nil {
		return s.Parser.Today()
	}
	return time.Now().In(s.Profile.Location())
}

// bindUserInput reads and validates {"user_input": "..."}.
func bindUserInput(c echo.Context) (string, error) {
	var in TextInput
	if err := c.Bind(&in); err != nil {
		return "", aierrors.InvalidArgument("请求体必须是包含 user_input 的 JSON")
	}
	if rc, ok := observability.FromContext(c.Request().Context()); ok {
		rc.InputLength = utf8.RuneCountInString(in.UserInput)
	}
	if err := schedule.ValidateUtterance(in.UserInput); err != nil {
		return "", aierrors.InvalidArgument(err.Error())
	}
	return in.UserInput, nil
}

// forward answers with the backend's body as is.
func forward(c echo.Context, body json.RawMessage) error {
	if len(body) == 0 {
		body = json.RawMessage("null")
	}
	return c.JSONBlob(http.StatusOK, body)
}
