package progress

import (
	"log/slog"
	"sync"

	"shortform/internal/logging"
)

// Step identifies a pipeline phase in the step-indexed event stream.
type Step int

const (
	StepSegmenting Step = iota + 1
	StepSynthesizing
	StepAligning
	StepMatching
	StepRendering
	StepMuxing
)

// TotalSteps is the number of reportable pipeline phases.
const TotalSteps = 6

func (s Step) String() string {
	switch s {
	case StepSegmenting:
		return "segmenting"
	case StepSynthesizing:
		return "synthesizing"
	case StepAligning:
		return "aligning"
	case StepMatching:
		return "matching"
	case StepRendering:
		return "rendering"
	case StepMuxing:
		return "muxing"
	default:
		return "unknown"
	}
}

// Event is one progress update. Percent is scoped to the current step.
type Event struct {
	Step       Step              `json:"step"`
	TotalSteps int               `json:"totalSteps"`
	Percent    float64           `json:"progress"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
}

// Sink consumes progress events. Transport is the sink's concern; the
// pipeline only publishes.
type Sink interface {
	Publish(Event)
}

// Func adapts a function to the Sink interface.
type Func func(Event)

func (f Func) Publish(event Event) { f(event) }

// Nop discards all events.
type Nop struct{}

func (Nop) Publish(Event) {}

// Fanout publishes each event to every wrapped sink.
type Fanout []Sink

func (f Fanout) Publish(event Event) {
	for _, sink := range f {
		if sink != nil {
			sink.Publish(event)
		}
	}
}

// LogSink writes events as structured debug logs.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Publish(event Event) {
	if s.Logger == nil {
		return
	}
	s.Logger.Debug("progress",
		logging.String("step", event.Step.String()),
		logging.Int("step_index", int(event.Step)),
		logging.Float64("percent", event.Percent),
		logging.String("message", event.Message),
	)
}

// Memory retains the most recent event per step; used by the status API.
type Memory struct {
	mu     sync.Mutex
	events map[Step]Event
}

func NewMemory() *Memory {
	return &Memory{events: make(map[Step]Event)}
}

func (m *Memory) Publish(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.Step] = event
}

// Snapshot returns the latest event per step in step order.
func (m *Memory) Snapshot() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]Event, 0, len(m.events))
	for step := StepSegmenting; step <= StepMuxing; step++ {
		if event, ok := m.events[step]; ok {
			events = append(events, event)
		}
	}
	return events
}

// Reporter is the stage-facing helper bound to a single step.
type Reporter struct {
	sink Sink
	step Step
}

// NewReporter binds a sink to a step. A nil sink yields a reporter that
// discards everything, so stages never nil-check.
func NewReporter(sink Sink, step Step) Reporter {
	if sink == nil {
		sink = Nop{}
	}
	return Reporter{sink: sink, step: step}
}

// Report publishes a percent/message update for the bound step.
func (r Reporter) Report(percent float64, message string) {
	r.ReportDetails(percent, message, nil)
}

// ReportDetails publishes an update with extra key/value context.
func (r Reporter) ReportDetails(percent float64, message string, details map[string]string) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	r.sink.Publish(Event{
		Step:       r.step,
		TotalSteps: TotalSteps,
		Percent:    percent,
		Message:    message,
		Details:    details,
	})
}
