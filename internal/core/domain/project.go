package domain

import (
	"regexp"
	"time"

	"go.trai.ch/zerr"
)

var programNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Program is a named set of stage sources linked into one artifact.
type Program struct {
	Name  string
	Paths []string
}

// Project is the resolved shade.yaml configuration.
type Project struct {
	// Root is the directory containing the config file. Program paths are absolute.
	Root          string
	Backend       string
	PollInterval  time.Duration
	FrameInterval time.Duration
	Watch         bool
	Debounce      time.Duration
	LogFormat     string
	LogLevel      LogLevel
	MetricsAddr   string
	Compiler      Compiler
	Programs      []Program
}

// Compiler configures the external validator run by the command backend.
// Command entries may contain the {stage} placeholder.
type Compiler struct {
	Command []string
	Env     map[string]string
}

// DefaultProject returns a project rooted at root with every default applied.
func DefaultProject(root string) *Project {
	return &Project{
		Root:          root,
		Backend:       BackendNull,
		PollInterval:  DefaultPollInterval,
		FrameInterval: DefaultFrameInterval,
		Watch:         true,
		Debounce:      DefaultDebounceWindow,
		LogFormat:     LogFormatPretty,
		LogLevel:      LogLevelInfo,
	}
}

// Program returns the program with the given name.
func (p *Project) Program(name string) (Program, bool) {
	for _, prog := range p.Programs {
		if prog.Name == name {
			return prog, true
		}
	}
	return Program{}, false
}

// ValidateProgramName checks that name is usable as an artifact name.
func ValidateProgramName(name string) error {
	if !programNamePattern.MatchString(name) {
		return zerr.With(ErrInvalidProgramName, "program", name)
	}
	return nil
}

const (
	// BackendNull is the headless backend that accepts any source.
	BackendNull = "null"
	// BackendNaga is the WGSL backend.
	BackendNaga = "naga"
	// BackendCommand is the backend that validates stages with an external compiler.
	BackendCommand = "command"

	// LogFormatPretty selects the coloured terminal log format.
	LogFormatPretty = "pretty"
	// LogFormatJSON selects JSON log lines.
	LogFormatJSON = "json"
)
