package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContext_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	rc := NewRequestContext(logger, "parse_task")
	_, err := uuid.Parse(rc.RequestID)
	require.NoError(t, err)

	rc.Info("request completed", slog.Int64(LogFieldDuration, 12))
	rc.Error("request failed", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "request_id="+rc.RequestID)
	assert.Contains(t, out, "operation=parse_task")
	assert.Contains(t, out, "duration_ms=12")
	assert.Contains(t, out, "error=boom")
}

func TestNewRequestContextWithID(t *testing.T) {
	rc := NewRequestContextWithID(nil, "abc", "health")
	assert.Equal(t, "abc", rc.RequestID)
	assert.NotNil(t, rc.Logger)

	rc = NewRequestContextWithID(nil, "", "health")
	assert.NotEmpty(t, rc.RequestID)
}

func TestRequestContext_RoundTripThroughContext(t *testing.T) {
	rc := NewRequestContext(nil, "parse_event")
	ctx := WithRequestContext(context.Background(), rc)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, rc, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}

func TestLogger_TagsRequest(t *testing.T) {
	var buf bytes.Buffer
	rc := NewRequestContextWithID(slog.New(slog.NewTextHandler(&buf, nil)), "req-1", "parse_event")
	ctx := WithRequestContext(context.Background(), rc)

	Logger(ctx).Warn("discarding malformed event date", "date", "明天")

	out := buf.String()
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "operation=parse_event")
	assert.Contains(t, out, "date=明天")
}

func TestLogger_OutsideRequest(t *testing.T) {
	assert.Same(t, slog.Default(), Logger(context.Background()))
}

func TestRequestContext_InputLength(t *testing.T) {
	var buf bytes.Buffer
	rc := NewRequestContext(slog.New(slog.NewTextHandler(&buf, nil)), "parse_task")

	rc.Warn("request rejected")
	assert.NotContains(t, buf.String(), "input_length")

	rc.InputLength = 6
	rc.Info("request completed")
	assert.Contains(t, buf.String(), "input_length=6")
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.Record("parse_task", 100*time.Millisecond, false)
	m.Record("parse_task", 300*time.Millisecond, true)
	m.Record("generate_reminders", 50*time.Millisecond, false)

	s := m.Snapshot()
	assert.Equal(t, int64(3), s.RequestTotal)
	assert.Equal(t, int64(1), s.RequestFailed)
	assert.InDelta(t, 66.67, s.SuccessRate(), 0.01)

	require.Len(t, s.Operations, 2)
	assert.Equal(t, OperationSnapshot{Operation: "generate_reminders", ExecutionCount: 1, AverageDuration: 50}, s.Operations[0])
	assert.Equal(t, OperationSnapshot{Operation: "parse_task", ExecutionCount: 2, ErrorCount: 1, AverageDuration: 200}, s.Operations[1])
}

func TestMetrics_EmptySuccessRate(t *testing.T) {
	assert.InDelta(t, 100.0, NewMetrics().Snapshot().SuccessRate(), 1e-9)
}
