package mocks

import (
	"fmt"
	"strings"
	"sync"

	"github.com/user/stillcut/pkg/ports"
)

// LogEntry records one logged message.
type LogEntry struct {
	Level     string
	Component string
	Message   string
}

// Logger is a mock implementation of ports.Logger that records every
// message for verification. WithComponent children share the parent's
// entry list.
type Logger struct {
	mu        *sync.Mutex
	component string
	entries   *[]LogEntry
}

// NewLogger creates a new recording logger.
func NewLogger() *Logger {
	entries := make([]LogEntry, 0)
	return &Logger{mu: &sync.Mutex{}, entries: &entries}
}

func (m *Logger) log(level, msg string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.entries = append(*m.entries, LogEntry{
		Level:     level,
		Component: m.component,
		Message:   fmt.Sprintf(msg, args...),
	})
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.log("debug", msg, args...) }
func (m *Logger) Info(msg string, args ...interface{})  { m.log("info", msg, args...) }
func (m *Logger) Warn(msg string, args ...interface{})  { m.log("warn", msg, args...) }
func (m *Logger) Error(msg string, args ...interface{}) { m.log("error", msg, args...) }

func (m *Logger) WithComponent(component string) ports.Logger {
	return &Logger{mu: m.mu, component: component, entries: m.entries}
}

// Entries returns a copy of the recorded entries.
func (m *Logger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LogEntry, len(*m.entries))
	copy(out, *m.entries)
	return out
}

// HasMessage reports whether any entry at the level contains the
// substring.
func (m *Logger) HasMessage(level, substring string) bool {
	for _, e := range m.Entries() {
		if e.Level == level && strings.Contains(e.Message, substring) {
			return true
		}
	}
	return false
}

var _ ports.Logger = (*Logger)(nil)
