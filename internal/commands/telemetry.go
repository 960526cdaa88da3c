package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-edxml/internal/logging"
	"github.com/goliatone/go-edxml/pkg/interfaces"
)

// TelemetryStatus classifies how a command run ended.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes one command run. Logger already carries Fields.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry is invoked once after every command run.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs completions at Info, interrupted runs at Warn and
// failures at Error.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := info.Logger
		if entry == nil {
			entry = logging.WithFields(logger, info.Fields)
		}
		duration := info.Duration.Milliseconds()
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Info("edxml.command.completed", "duration_ms", duration)
		case TelemetryStatusContextError:
			entry.Warn("edxml.command.interrupted", "duration_ms", duration, "error", info.Error)
		default:
			entry.Error("edxml.command.failed", "duration_ms", duration, "error", info.Error)
		}
	}
}
