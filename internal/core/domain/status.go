package domain

import "strings"

// ArtifactStatus represents the reload lifecycle state of a compiled artifact.
type ArtifactStatus string

const (
	// StatusCompiled indicates the live handle reflects the latest source on disk.
	StatusCompiled ArtifactStatus = "compiled"
	// StatusPendingReload indicates a change was detected and a reload is queued.
	StatusPendingReload ArtifactStatus = "pending_reload"
	// StatusCompileFailed indicates the last reload failed and the previous handle is still live.
	StatusCompileFailed ArtifactStatus = "compile_failed"
)

// IsHealthy reports whether the live handle matches the last attempted build.
func (s ArtifactStatus) IsHealthy() bool {
	return s == StatusCompiled
}

// ReloadOutcome classifies what a single reload attempt did.
type ReloadOutcome string

const (
	// OutcomeApplied indicates a new handle was swapped in.
	OutcomeApplied ReloadOutcome = "applied"
	// OutcomeUnchanged indicates the linked source was identical and nothing was recompiled.
	OutcomeUnchanged ReloadOutcome = "unchanged"
	// OutcomeFailed indicates the reload failed and the previous handle was retained.
	OutcomeFailed ReloadOutcome = "failed"
	// OutcomeStale indicates the signal named an artifact that is no longer registered.
	OutcomeStale ReloadOutcome = "stale"
)

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLogLevel converts a configuration string to a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}
