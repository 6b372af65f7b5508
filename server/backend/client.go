// Package backend is the HTTP client for the Jarvis backend, which owns accounts,
// calendar types, events and locations.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/zqn-cloud/jarvis/internal/observability"
	"github.com/zqn-cloud/jarvis/plugin/ai/reminder"
	"github.com/zqn-cloud/jarvis/plugin/ai/schedule"
	"github.com/zqn-cloud/jarvis/plugin/ai/timeout"
	aierrors "github.com/zqn-cloud/jarvis/server/internal/errors"
)

// Backend endpoints, relative to the API base.
const (
	PathParseTask         = "/agent/parse-task"
	PathParseEvent        = "/agent/parse-event"
	PathParseCalendarType = "/agent/parse-calendar-type"
	PathReminderContext   = "/agent/reminder-context"
	PathGenerateReminders = "/agent/generate-reminders"
	PathCommute           = "/location/commute"
)

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 4096

// TypeContext is the backend's answer to a parse-task or parse-event context request.
type TypeContext struct {
	AvailableTypes []schedule.CategoryOption `json:"available_types"`
	// Date is set for tasks, CurrentDate for events.
	Date        string `json:"date"`
	CurrentDate string `json:"current_date"`
}

// ColorContext is the backend's answer to a parse-calendar-type context request.
type ColorContext struct {
	AvailableColors []schedule.ColorOption `json:"available_colors"`
}

type userInput struct {
	UserInput string `json:"user_input"`
}

// Client calls the Jarvis backend with a static bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client. A non-positive timeout means timeout.BackendTimeout.
func NewClient(baseURL, token string, t time.Duration) *Client {
	if t <= 0 {
		t = timeout.BackendTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: t},
	}
}

// TaskContext fetches the calendar types offered for a new task.
func (c *Client) TaskContext(ctx context.Context, utterance string) (*TypeContext, error) {
	var out TypeContext
	if err := c.do(ctx, http.MethodPost, PathParseTask, userInput{utterance}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTask forwards a validated task intent and returns the backend's answer.
func (c *Client) CreateTask(ctx context.Context, intent *schedule.Intent) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, PathParseTask, intent, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EventContext fetches the calendar types and current date for a new event.
func (c *Client) EventContext(ctx context.Context, utterance string) (*TypeContext, error) {
	var out TypeContext
	if err := c.do(ctx, http.MethodPost, PathParseEvent, userInput{utterance}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEvent forwards a validated event intent and returns the backend's answer.
func (c *Client) CreateEvent(ctx context.Context, intent *schedule.Intent) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, PathParseEvent, intent, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CalendarTypeContext fetches the colors a new calendar type may use.
func (c *Client) CalendarTypeContext(ctx context.Context, utterance string) (*ColorContext, error) {
	var out ColorContext
	if err := c.do(ctx, http.MethodPost, PathParseCalendarType, userInput{utterance}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCalendarType forwards a validated calendar type and returns the backend's answer.
func (c *Client) CreateCalendarType(ctx context.Context, ct *schedule.CalendarType) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, PathParseCalendarType, ct, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReminderContext fetches the location and event snapshot for the digest.
func (c *Client) ReminderContext(ctx context.Context) (*reminder.Context, error) {
	var out reminder.Context
	if err := c.do(ctx, http.MethodGet, PathReminderContext, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Commute fetches the home to school commute.
func (c *Client) Commute(ctx context.Context) (*reminder.CommutePlan, error) {
	var out reminder.CommutePlan
	if err := c.do(ctx, http.MethodGet, PathCommute, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PublishReminders forwards the digest and returns the backend's answer.
func (c *Client) PublishReminders(ctx context.Context, digest *reminder.Digest) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, PathGenerateReminders, digest, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do sends one request and decodes the response, unwrapping a top-level "data" field.
// Every failure is an *aierrors.AIError: TIMEOUT when the call ran out of time,
// UPSTREAM_FAILURE otherwise.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return aierrors.Wrap(errors.Wrap(err, "failed to encode request"), aierrors.ErrCodeInternal, "请求编码失败")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return aierrors.Wrap(errors.Wrap(err, "failed to build request"), aierrors.ErrCodeInternal, "请求构建失败")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		cause := errors.Wrapf(err, "%s %s", method, path)
		if aierrors.IsTimeout(err) {
			return aierrors.Timeout("调用后端超时", cause)
		}
		return aierrors.UpstreamFailure(0, fmt.Sprintf("调用后端失败: %v", err), cause)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return aierrors.UpstreamFailure(0, "读取后端响应失败", errors.Wrap(err, "failed to read response"))
	}
	observability.Logger(ctx).Debug("backend call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return aierrors.UpstreamFailure(resp.StatusCode, truncateBody(raw), nil)
	}

	data, err := unwrapData(raw)
	if err != nil {
		return aierrors.UpstreamFailure(0, "后端返回非JSON: "+truncateBody(raw), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return aierrors.UpstreamFailure(0, "后端返回格式错误", errors.Wrapf(err, "failed to decode %s", path))
	}
	return nil
}

// unwrapData returns the "data" member of an object body, or the body itself.
func unwrapData(raw []byte) (json.RawMessage, error) {
	if !json.Valid(raw) {
		return nil, errors.New("response is not valid JSON")
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if data, ok := envelope["data"]; ok {
			return data, nil
		}
	}
	return raw, nil
}

func truncateBody(raw []byte) string {
	if len(raw) > maxErrorBody {
		return string(raw[:maxErrorBody]) + "..."
	}
	return string(raw)
}
