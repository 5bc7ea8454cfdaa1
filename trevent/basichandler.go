package trevent

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const timestampFormat = "2006-01-02 15:04:05"

// BasicHandler is a Trellis event handler that prints timestamped event
// messages to an io.Writer.
type BasicHandler struct {
	w       io.Writer
	min     slog.Level
	details bool
	mu      *sync.Mutex
}

// NewBasicHandler returns a BasicHandler that will write to w.
// Events below the provided minimum level will be ignored.
//
// Event details are printed beneath the message when the minimum level is
// debug.
func NewBasicHandler(w io.Writer, min slog.Level) BasicHandler {
	return BasicHandler{
		w:       w,
		min:     min,
		details: min <= slog.LevelDebug,
		mu:      new(sync.Mutex),
	}
}

// Name returns a name for the handler.
func (h BasicHandler) Name() string {
	return "basic"
}

// Handle processes the given event record.
func (h BasicHandler) Handle(r Record) error {
	if r.Level() < h.min {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := fmt.Fprintf(h.w, "%s: %-6s %s\n", r.Time().Local().Format(timestampFormat), r.Level().String()+":", r.Message()); err != nil {
		return err
	}
	if details := r.Details(); h.details && details != "" {
		for line := range strings.Lines(details) {
			if _, err := fmt.Fprintf(h.w, "    %s\n", strings.TrimSuffix(line, "\n")); err != nil {
				return err
			}
		}
	}
	return nil
}
