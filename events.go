package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/trellisforge/trellis-build/trevent"
	"github.com/trellisforge/trellis-build/trmetrics"
)

// newRecorder returns an event recorder that prints events to the console
// and, where possible, sends them to the system event log. If log is
// non-nil, events are also written to it as JSON. If metrics is non-nil,
// events are also passed to it.
func newRecorder(verbose bool, log io.Writer, metrics *trmetrics.Handler) trevent.Recorder {
	min := slog.LevelInfo
	if verbose {
		min = slog.LevelDebug
	}

	handlers := trevent.MultiHandler{trevent.NewBasicHandler(os.Stdout, min)}

	// Attempt to use a system event handler, but carry on regardless if it
	// doesn't work out. The most likely reason it won't work is if the
	// running process isn't elevated.
	if system, err := newSystemHandler(); err == nil {
		handlers = append(handlers, system)
	}

	if log != nil {
		handlers = append(handlers, trevent.LoggedHandler{
			Handler: slog.NewJSONHandler(log, &slog.HandlerOptions{Level: min}),
		})
	}

	if metrics != nil {
		handlers = append(handlers, metrics)
	}

	if len(handlers) == 1 {
		return trevent.Recorder{Handler: handlers[0]}
	}
	return trevent.Recorder{Handler: handlers}
}
