// Package schedule turns free-text scheduling requests into validated intents.
//
// The LLM only drafts fields. Every value it returns is treated as untrusted:
// categories and colors are coerced into the options offered for the request,
// and times are always resolved deterministically from the utterance.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/zqn-cloud/jarvis/internal/observability"
	"github.com/zqn-cloud/jarvis/plugin/ai"
	"github.com/zqn-cloud/jarvis/plugin/ai/aitime"
	"github.com/zqn-cloud/jarvis/plugin/ai/timeout"
)

const (
	// MaxInputLength bounds the utterance length in runes.
	MaxInputLength = 500

	// DefaultCalendarTypeName is used when the draft carries no name.
	DefaultCalendarTypeName = "默认类型"

	dateLayout = "2006-01-02"
)

var (
	ErrEmptyInput     = errors.New("user_input 不能为空")
	ErrInputTooLong   = fmt.Errorf("user_input 超过 %d 个字符", MaxInputLength)
	ErrNoColorOptions = errors.New("没有可选的颜色")
)

// DefaultWindow is the window used when nothing in the utterance names a time.
var DefaultWindow = aitime.TimeWindow{Start: "18:00", End: "19:00"}

// Intent is a validated task or event ready to be forwarded to the backend.
type Intent struct {
	Title     string `json:"title"`
	Date      string `json:"date,omitempty"`
	IsAllDay  bool   `json:"is_all_day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
	TypeID    string `json:"type_id"`
}

// CalendarType is a validated calendar type ready to be forwarded to the backend.
type CalendarType struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TaskRequest carries one parse-task call.
type TaskRequest struct {
	Utterance  string
	Categories []CategoryOption
}

// EventRequest carries one parse-event call.
// CurrentDate is the backend's notion of today (YYYY-MM-DD); it may be empty.
type EventRequest struct {
	Utterance   string
	Categories  []CategoryOption
	CurrentDate string
}

// CalendarTypeRequest carries one parse-calendar-type call.
type CalendarTypeRequest struct {
	Utterance string
	Colors    []ColorOption
}

// Parser assembles intents from an LLM draft and the deterministic time resolvers.
type Parser struct {
	llm      ai.JSONCompleter
	location *time.Location
	resolver aitime.Resolver
	now      func() time.Time
}

// NewParser creates a parser. location defines "today"; nil means UTC.
func NewParser(llm ai.JSONCompleter, location *time.Location) *Parser {
	if location == nil {
		location = time.UTC
	}
	return &Parser{
		llm:      llm,
		location: location,
		resolver: aitime.Chain{aitime.Extractor, aitime.Keywords, aitime.Fixed(DefaultWindow)},
		now:      time.Now,
	}
}

// Today returns the reference date in the parser's location.
func (p *Parser) Today() time.Time {
	t := p.now().In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location)
}

// ParseTask builds a task intent. The date is always today.
func (p *Parser) ParseTask(ctx context.Context, req TaskRequest) (*Intent, error) {
	if err := ValidateUtterance(req.Utterance); err != nil {
		return nil, err
	}

	draft, err := p.llm.CompleteJSON(ctx, buildTaskPrompt(req.Utterance, req.Categories))
	if err != nil {
		return nil, fmt.Errorf("parse task: %w", err)
	}

	intent := p.assemble(draft, req.Utterance, req.Categories)
	intent.Date = p.Today().Format(dateLayout)

	observability.Logger(ctx).Info("parsed task",
		"user_input", truncate(req.Utterance),
		"type_id", intent.TypeID,
		"window", intent.StartTime+"-"+intent.EndTime,
	)
	return intent, nil
}

// ParseEvent builds an event intent. A missing or malformed draft date falls back
// to the backend's current date, then to the parser's today.
func (p *Parser) ParseEvent(ctx context.Context, req EventRequest) (*Intent, error) {
	if err := ValidateUtterance(req.Utterance); err != nil {
		return nil, err
	}

	currentDate := req.CurrentDate
	if currentDate == "" {
		currentDate = p.Today().Format(dateLayout)
	}

	draft, err := p.llm.CompleteJSON(ctx, buildEventPrompt(req.Utterance, currentDate, req.Categories))
	if err != nil {
		return nil, fmt.Errorf("parse event: %w", err)
	}

	intent := p.assemble(draft, req.Utterance, req.Categories)
	intent.Date = currentDate
	if proposed := stringField(draft, "date"); proposed != "" {
		if _, err := time.Parse(dateLayout, proposed); err == nil {
			intent.Date = proposed
		} else {
			observability.Logger(ctx).Warn("discarding malformed event date", "date", proposed)
		}
	}

	observability.Logger(ctx).Info("parsed event",
		"user_input", truncate(req.Utterance),
		"date", intent.Date,
		"type_id", intent.TypeID,
		"window", intent.StartTime+"-"+intent.EndTime,
	)
	return intent, nil
}

// ParseCalendarType builds a calendar type whose color is one of req.Colors.
func (p *Parser) ParseCalendarType(ctx context.Context, req CalendarTypeRequest) (*CalendarType, error) {
	if err := ValidateUtterance(req.Utterance); err != nil {
		return nil, err
	}
	if len(req.Colors) == 0 {
		return nil, ErrNoColorOptions
	}

	draft, err := p.llm.CompleteJSON(ctx, buildCalendarTypePrompt(req.Utterance, req.Colors))
	if err != nil {
		return nil, fmt.Errorf("parse calendar type: %w", err)
	}

	name := stringField(draft, "name")
	if name == "" {
		name = DefaultCalendarTypeName
	}
	result := &CalendarType{
		Name:  name,
		Color: PickColor(stringField(draft, "color"), req.Utterance, req.Colors),
	}

	observability.Logger(ctx).Info("parsed calendar type",
		"user_input", truncate(req.Utterance),
		"draft_color", stringField(draft, "color"),
		"color", result.Color,
	)
	return result, nil
}

// assemble applies the category and time rules shared by tasks and events.
// The draft's own times are never used.
func (p *Parser) assemble(draft map[string]any, utterance string, categories []CategoryOption) *Intent {
	window, _ := p.resolver.Resolve(utterance)
	return &Intent{
		Title:     stringField(draft, "title"),
		IsAllDay:  false,
		StartTime: window.Start,
		EndTime:   window.End,
		Location:  stringField(draft, "location"),
		TypeID:    PickCategory(stringField(draft, "type_id"), categories),
	}
}

// ValidateUtterance rejects blank or oversized input before any upstream call.
func ValidateUtterance(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyInput
	}
	if utf8.RuneCountInString(s) > MaxInputLength {
		return ErrInputTooLong
	}
	return nil
}

// stringField reads a string value from a draft; anything else reads as "".
func stringField(draft map[string]any, key string) string {
	s, _ := draft[key].(string)
	return s
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= timeout.MaxTruncateLength {
		return s
	}
	return string([]rune(s)[:timeout.MaxTruncateLength]) + "..."
}
