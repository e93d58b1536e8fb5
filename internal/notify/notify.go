package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Severity classifies a user-facing notification.
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Notifier reports outcomes to the shopper. The engine calls it but owns no
// presentation logic.
type Notifier interface {
	Notify(severity Severity, message string)
}

// Console writes notifications as plain lines, one per notification.
type Console struct {
	mu  sync.Mutex
	Out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{Out: out}
}

func (c *Console) Notify(severity Severity, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.Out, "[%s] %s\n", severity, message)
}

// Zap routes notifications into the structured log, for non-interactive use.
type Zap struct {
	Logger *zap.Logger
}

func (z Zap) Notify(severity Severity, message string) {
	field := zap.String("severity", severity.String())
	switch severity {
	case Warning:
		z.Logger.Warn(message, field)
	case Error:
		z.Logger.Error(message, field)
	default:
		z.Logger.Info(message, field)
	}
}

// Recorder captures notifications for tests.
type Recorder struct {
	mu      sync.Mutex
	Entries []Entry
}

type Entry struct {
	Severity Severity
	Message  string
}

func (r *Recorder) Notify(severity Severity, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, Entry{Severity: severity, Message: message})
}
