// Package ports defines the interfaces between the pipeline and its
// collaborators: container readers, decoders, converters, encoders,
// sinks, the file system and the logger. Adapters implement them;
// stages and the driver depend only on them.
package ports

// LogLevel is the severity threshold of a logger.
type LogLevel int

const (
	// LevelDebug shows component-internal detail (per-packet, per-frame).
	LevelDebug LogLevel = iota
	// LevelInfo shows pipeline progress.
	LevelInfo
	// LevelWarn shows recoverable problems that do not stop processing.
	LevelWarn
	// LevelError shows problems that abort the run.
	LevelError
	// LevelQuiet suppresses all output.
	LevelQuiet
)

// String returns the level name.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel maps a level name to its LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger is the logging capability handed to every stage and adapter.
// Messages are printf-style; the msg parameter doubles as a
// translation key. Nothing in the pipeline writes to a global logger:
// whoever constructs a component decides where its output goes.
type Logger interface {
	// Debug logs component-internal detail.
	Debug(msg string, args ...interface{})

	// Info logs pipeline progress.
	Info(msg string, args ...interface{})

	// Warn logs a recoverable problem.
	Warn(msg string, args ...interface{})

	// Error logs a problem that aborts the run.
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that prefixes messages with the
	// component name.
	WithComponent(component string) Logger
}
