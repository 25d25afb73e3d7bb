package domain

import "time"

// EventType discriminates the members of the stream event union.
type EventType string

const (
	EventServer   EventType = "server"
	EventQuestion EventType = "question"
	EventProgress EventType = "progress"
	EventDone     EventType = "done"
)

// Diagnostic stage names carried by server events. These are telemetry; the
// correctness-relevant events are question, progress and done.
const (
	StageReceived       = "received"
	StagePromptBuilt    = "prompt-built"
	StageStreamOpen     = "stream-open"
	StageChunk          = "chunk"
	StageInvalid        = "invalid-question"
	StageDuplicate      = "duplicate-question"
	StageBulkTopup      = "bulk-topup"
	StageSingleRecovery = "single-recovery"
	StageFiller         = "synthetic-filler"
	StageError          = "error"
)

// StreamEvent is one unit of generation progress. Exactly one line of the
// NDJSON response per event. Ordering: every question event at index k is
// immediately followed by a progress event with Completed >= k; done is
// always last.
type StreamEvent struct {
	Type      EventType     `json:"type"`
	Stage     string        `json:"stage,omitempty"`
	T         int64         `json:"t,omitempty"`
	Detail    string        `json:"detail,omitempty"`
	Index     int           `json:"index,omitempty"`
	Question  *QuestionUnit `json:"question,omitempty"`
	Completed int           `json:"completed,omitempty"`
	Total     int           `json:"total,omitempty"`
}

// ServerEvent builds a diagnostic lifecycle event stamped with the current
// time in unix milliseconds.
func ServerEvent(stage, detail string) StreamEvent {
	return StreamEvent{Type: EventServer, Stage: stage, Detail: detail, T: time.Now().UnixMilli()}
}

func QuestionEvent(index int, q *QuestionUnit) StreamEvent {
	return StreamEvent{Type: EventQuestion, Index: index, Question: q}
}

func ProgressEvent(completed, total int) StreamEvent {
	return StreamEvent{Type: EventProgress, Completed: completed, Total: total}
}

func DoneEvent() StreamEvent {
	return StreamEvent{Type: EventDone}
}

// EventSink receives events as they are produced. Implementations must not
// block indefinitely; a failed delivery (caller gone) should be swallowed so
// the generation run can still finish.
type EventSink interface {
	Emit(ev StreamEvent)
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(ev StreamEvent)

func (f SinkFunc) Emit(ev StreamEvent) { f(ev) }

// DiscardSink drops every event. Used by the synchronous generation path.
var DiscardSink EventSink = SinkFunc(func(StreamEvent) {})

// FilterDiagnostics wraps a sink so server events are dropped. Tests use
// this to assert on the question/progress/done sequence alone.
func FilterDiagnostics(next EventSink) EventSink {
	return SinkFunc(func(ev StreamEvent) {
		if ev.Type == EventServer {
			return
		}
		next.Emit(ev)
	})
}
