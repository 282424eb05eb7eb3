package events

import (
	"context"
	"log/slog"
	"sync"
)

// Emitter stores registered handlers in memory and dispatches events to them.
type Emitter struct {
	handlers []Handler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewEmitter creates a new Emitter with no handlers.
func NewEmitter(logger *slog.Logger) *Emitter {
	return &Emitter{
		handlers: make([]Handler, 0),
		logger:   logger.With("component", "progress_emitter"),
	}
}

// Register adds a handler. Handlers are called in registration order.
func (e *Emitter) Register(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered progress handler", "handler_count", len(e.handlers))
}

// Emit publishes the event to all registered handlers.
// If any handler returns an error, the event is still sent to all other
// handlers, and the first error encountered is returned.
func (e *Emitter) Emit(ctx context.Context, event ProgressEvent) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.ErrorContext(ctx, "progress handler failed",
				"error", err,
				"handler_index", i,
				"run_id", event.RunID,
				"video_id", event.VideoID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// LogHandler writes every progress event to a structured logger.
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a LogHandler. Intermediate events are logged at
// debug level and the final event of each video at info.
func NewLogHandler(logger *slog.Logger) *LogHandler {
	return &LogHandler{logger: logger.With("component", "progress")}
}

// HandleEvent implements Handler.
func (h *LogHandler) HandleEvent(ctx context.Context, event ProgressEvent) error {
	level := slog.LevelDebug
	msg := "batch progress"
	if event.Done() {
		level = slog.LevelInfo
		msg = "video complete"
	}

	h.logger.Log(ctx, level, msg,
		"run_id", event.RunID,
		"video_id", event.VideoID,
		"video", event.VideoIndex+1,
		"videos", event.VideoCount,
		"completed", event.Completed,
		"total", event.Total)
	return nil
}

var (
	_ Handler = (*LogHandler)(nil)
	_ Handler = HandlerFunc(nil)
)
