package transport

import (
	"bufio"
	"encoding/json"
	"sync"

	"github.com/PranavPrasannaV/satapp/internal/domain"

	"go.uber.org/zap"
)

// NDJSONSink serializes each StreamEvent as one minified JSON line and
// flushes it immediately, so a caller reading incrementally sees progress
// as it happens rather than one batch at the end.
//
// A write or flush failure means the caller is gone. Per the cancellation
// model, the sink then goes quiet and swallows every later event; the
// generation run itself is allowed to finish.
type NDJSONSink struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closed bool
	logger *zap.Logger
}

// NewNDJSONSink wraps a buffered writer. A nil logger disables logging.
func NewNDJSONSink(w *bufio.Writer, logger *zap.Logger) *NDJSONSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NDJSONSink{w: w, logger: logger}
}

// Emit implements domain.EventSink.
func (s *NDJSONSink) Emit(ev domain.StreamEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	line, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("Failed to marshal stream event", zap.Error(err), zap.String("type", string(ev.Type)))
		return
	}

	if _, err := s.w.Write(append(line, '\n')); err != nil {
		s.logger.Warn("Client disconnected, muting event stream", zap.Error(err))
		s.closed = true
		return
	}
	if err := s.w.Flush(); err != nil {
		s.logger.Warn("Client disconnected during flush, muting event stream", zap.Error(err))
		s.closed = true
	}
}
