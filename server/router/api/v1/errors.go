package v1

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zqn-cloud/jarvis/internal/observability"
	"github.com/zqn-cloud/jarvis/plugin/ai"
	"github.com/zqn-cloud/jarvis/plugin/ai/schedule"
	aierrors "github.com/zqn-cloud/jarvis/server/internal/errors"
)

// ErrorResponse is the body of every failed agent request.
type ErrorResponse struct {
	Detail    string             `json:"detail"`
	Code      aierrors.ErrorCode `json:"code,omitempty"`
	RequestID string             `json:"request_id,omitempty"`
}

// toAIError classifies any handler error into a coded error.
func toAIError(err error) *aierrors.AIError {
	if aiErr, ok := aierrors.As(err); ok {
		return aiErr
	}

	var invalid *ai.InvalidJSONError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &invalid):
		return aierrors.LLMInvalidOutput(invalid.Content, err)
	case errors.Is(err, ai.ErrInvalidJSON):
		return aierrors.LLMInvalidOutput("", err)
	case aierrors.IsTimeout(err):
		return aierrors.Timeout("请求超时", err)
	case errors.Is(err, ai.ErrLLMUnavailable):
		return aierrors.LLMUnavailable(err.Error(), err)
	case errors.Is(err, schedule.ErrEmptyInput), errors.Is(err, schedule.ErrInputTooLong):
		return aierrors.InvalidArgument(err.Error())
	case errors.Is(err, schedule.ErrNoColorOptions):
		return aierrors.UpstreamFailure(0, "后端未提供可选颜色", err)
	case errors.As(err, &httpErr):
		if httpErr.Code < http.StatusInternalServerError {
			return aierrors.InvalidArgument(fmt.Sprint(httpErr.Message))
		}
		return aierrors.Wrap(err, aierrors.ErrCodeInternal, fmt.Sprint(httpErr.Message))
	default:
		return aierrors.Wrap(err, aierrors.ErrCodeInternal, "内部错误")
	}
}

// detail renders the user-facing message, including the raw LLM content when present.
func detail(aiErr *aierrors.AIError) string {
	if content, ok := aiErr.Context["content"].(string); ok && content != "" {
		return aiErr.Message + ": " + content
	}
	return aiErr.Message
}

// handleError is the Echo error handler. Routing errors (404, 405) keep their status;
// everything else is classified through toAIError.
func (s *APIV1Service) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && (httpErr.Code == http.StatusNotFound || httpErr.Code == http.StatusMethodNotAllowed) {
		_ = c.JSON(httpErr.Code, ErrorResponse{Detail: fmt.Sprint(httpErr.Message)})
		return
	}

	aiErr := toAIError(err)
	resp := ErrorResponse{
		Detail:    detail(aiErr),
		Code:      aiErr.Code,
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	}
	if writeErr := c.JSON(aiErr.HTTPStatus(), resp); writeErr != nil {
		slog.Error("failed to write error response", "error", writeErr)
	}
}

func errorAttrs(aiErr *aierrors.AIError, rc *observability.RequestContext) []slog.Attr {
	return []slog.Attr{
		slog.String(observability.LogFieldErrorCode, string(aiErr.Code)),
		slog.Int(observability.LogFieldStatus, aiErr.HTTPStatus()),
		durationAttr(rc),
	}
}

func durationAttr(rc *observability.RequestContext) slog.Attr {
	return slog.Int64(observability.LogFieldDuration, rc.DurationMs())
}
