package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrSourceRead is returned when a source file cannot be read.
	ErrSourceRead = zerr.New("failed to read source file")

	// ErrSourceStat is returned when the modification time of a source file is unavailable.
	ErrSourceStat = zerr.New("failed to stat source file")

	// ErrSourceNotFound is returned when a node id does not name a loaded source.
	ErrSourceNotFound = zerr.New("source not found")

	// ErrCyclicInclude is returned when an include chain revisits a file still being resolved.
	ErrCyclicInclude = zerr.New("cyclic include")

	// ErrIncludeNotResolved is returned when linking meets an include that was never resolved.
	ErrIncludeNotResolved = zerr.New("include not resolved")

	// ErrUnknownShaderKind is returned when the shader stage cannot be derived from a path.
	ErrUnknownShaderKind = zerr.New("unknown shader kind")

	// ErrCompileFailed is returned when the backend rejects a stage.
	ErrCompileFailed = zerr.New("shader compilation failed")

	// ErrLinkFailed is returned when the backend cannot link the compiled stages.
	ErrLinkFailed = zerr.New("program link failed")

	// ErrNoSources is returned when an artifact is requested without any source path.
	ErrNoSources = zerr.New("no source paths given")

	// ErrArtifactNotFound is returned when an artifact id is not registered.
	ErrArtifactNotFound = zerr.New("artifact not found")

	// ErrBindingUnbound is returned when setting a binding the backend reported as absent.
	ErrBindingUnbound = zerr.New("binding is not bound")

	// ErrUniformsUnsupported is returned when the backend cannot set binding values.
	ErrUniformsUnsupported = zerr.New("backend does not support setting uniforms")

	// ErrManagerStarted is returned when the poller is started twice.
	ErrManagerStarted = zerr.New("reload poller already started")

	// ErrUnknownBackend is returned when the configuration names an unsupported backend.
	ErrUnknownBackend = zerr.New("unknown backend")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no config file is found.
	ErrConfigNotFound = zerr.New("could not find shade.yaml")

	// ErrInvalidProgramName is returned when a program name contains invalid characters.
	ErrInvalidProgramName = zerr.New("program name can only contain alphanumeric characters, hyphens and underscores")

	// ErrBuildFailed is returned when one or more programs fail their initial build.
	ErrBuildFailed = zerr.New("build failed")
)

// CyclicIncludeError reports an include cycle. Chain lists the paths from the
// first revisited file back to itself.
type CyclicIncludeError struct {
	Chain []string
}

func (e *CyclicIncludeError) Error() string {
	return ErrCyclicInclude.Error() + ": " + strings.Join(e.Chain, " -> ")
}

// Is matches ErrCyclicInclude.
func (e *CyclicIncludeError) Is(target error) bool {
	return target == ErrCyclicInclude
}

// CompileError carries the backend diagnostics of a rejected stage.
type CompileError struct {
	Path string
	Kind ShaderKind
	Log  string
}

func (e *CompileError) Error() string {
	msg := ErrCompileFailed.Error() + ": " + e.Path + " (" + e.Kind.String() + ")"
	if e.Log != "" {
		msg += "\n" + strings.TrimRight(e.Log, "\n")
	}
	return msg
}

// Is matches ErrCompileFailed.
func (e *CompileError) Is(target error) bool {
	return target == ErrCompileFailed
}

// LinkError carries the backend diagnostics of a failed program link.
type LinkError struct {
	Paths []string
	Log   string
}

func (e *LinkError) Error() string {
	msg := ErrLinkFailed.Error() + ": " + strings.Join(e.Paths, ", ")
	if e.Log != "" {
		msg += "\n" + strings.TrimRight(e.Log, "\n")
	}
	return msg
}

// Is matches ErrLinkFailed.
func (e *LinkError) Is(target error) bool {
	return target == ErrLinkFailed
}
