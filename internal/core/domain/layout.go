package domain

import "time"

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "shade.yaml"

	// DefaultPollInterval is the cadence of the modification-time poller.
	DefaultPollInterval = time.Second

	// DefaultFrameInterval is the cadence at which `shade watch` drains reloads.
	DefaultFrameInterval = 16 * time.Millisecond

	// DefaultDebounceWindow is the window used to coalesce file system events.
	DefaultDebounceWindow = 50 * time.Millisecond

	// IncludeDirective is the token that starts an include line.
	IncludeDirective = "#include"

	// UniformPrefix is the token that starts a binding declaration line.
	UniformPrefix = "uniform "
)
