//go:build windows

package trevent

import (
	"fmt"
	"log/slog"

	"golang.org/x/sys/windows/registry"
	"golang.org/x/sys/windows/svc/eventlog"
)

const eventSource = "Trellis"

// Event IDs written to the Windows application log.
const (
	infoEventID    = 100
	warningEventID = 200
	errorEventID   = 300
)

// WindowsHandler is a Trellis event handler that sends events to the
// Windows application event log.
type WindowsHandler struct {
	elog *eventlog.Log
}

// NewWindowsHandler returns a WindowsHandler that sends events to the
// Windows event log. Registering the event source requires elevation the
// first time it is used on a machine.
func NewWindowsHandler() (WindowsHandler, error) {
	registered, err := IsWindowsEventSourceRegistered(eventSource)
	if err != nil {
		return WindowsHandler{}, err
	}

	if !registered {
		const eventTypes = eventlog.Error | eventlog.Warning | eventlog.Info
		if err := eventlog.InstallAsEventCreate(eventSource, eventTypes); err != nil {
			return WindowsHandler{}, fmt.Errorf("failed to register event log source for \"%s\": %w", eventSource, err)
		}
	}

	elog, err := eventlog.Open(eventSource)
	if err != nil {
		return WindowsHandler{}, fmt.Errorf("failed to open event log source for \"%s\": %w", eventSource, err)
	}
	return WindowsHandler{elog: elog}, nil
}

// Name returns a name for the handler.
func (h WindowsHandler) Name() string {
	return "windows-application-log"
}

// Handle processes the given event record. Debug events are dropped.
func (h WindowsHandler) Handle(r Record) error {
	err := h.write(r.Level(), messageWithDetails(r))

	// If we failed to log the event, try again without the message details.
	if err != nil && r.Details() != "" {
		h.write(r.Level(), r.Message())
	}

	return err
}

func (h WindowsHandler) write(level slog.Level, msg string) error {
	switch {
	case level >= slog.LevelError:
		return h.elog.Error(errorEventID, msg)
	case level >= slog.LevelWarn:
		return h.elog.Warning(warningEventID, msg)
	case level >= slog.LevelInfo:
		return h.elog.Info(infoEventID, msg)
	default:
		return nil
	}
}

// Close releases any resources consumed by the Windows event handler.
func (h WindowsHandler) Close() error {
	return h.elog.Close()
}

// IsWindowsEventSourceRegistered checks to see whether an event log with the
// given source name has been registered.
func IsWindowsEventSourceRegistered(source string) (bool, error) {
	const keyName = `SYSTEM\CurrentControlSet\Services\EventLog\Application`

	key, err := registry.OpenKey(registry.LOCAL_MACHINE, keyName+`\`+source, registry.QUERY_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return false, nil
		}
		return false, err
	}
	defer key.Close()

	return true, nil
}

func messageWithDetails(r Record) string {
	message := r.Message()
	if details := r.Details(); details != "" {
		return fmt.Sprintf("%s\n\n%s", message, details)
	}
	return message
}
