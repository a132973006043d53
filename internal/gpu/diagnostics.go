package gpu

import (
	"github.com/sirupsen/logrus"
)

type Severity int

const (
	SeverityVerbose Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityVerbose:
		return "verbose"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// DiagnosticsSink receives validation and debug messages from the graphics
// driver. Kind is a free-form category such as "validation" or "performance".
type DiagnosticsSink interface {
	Diagnostic(severity Severity, kind string, message string)
}

// LogrusSink forwards driver messages to a logrus logger, choosing the log level
// from the message severity.
type LogrusSink struct {
	Log logrus.FieldLogger
}

func (s LogrusSink) Diagnostic(severity Severity, kind string, message string) {
	entry := s.Log.WithFields(logrus.Fields{
		"source": "vulkan",
		"kind":   kind,
	})

	switch severity {
	case SeverityError:
		entry.Error(message)
	case SeverityWarning:
		entry.Warn(message)
	case SeverityInfo:
		entry.Info(message)
	default:
		entry.Debug(message)
	}
}

// NopSink discards every message.
type NopSink struct{}

func (NopSink) Diagnostic(Severity, string, string) {}
