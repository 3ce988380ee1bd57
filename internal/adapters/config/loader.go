// Package config provides the shade.yaml loader.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds shade.yaml in cwd or one of its parents and resolves it.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	root, err := l.DiscoverRoot(cwd)
	if err != nil {
		return nil, err
	}
	return l.LoadFile(filepath.Join(root, domain.ConfigFileName))
}

// DiscoverRoot returns the closest directory at or above cwd holding shade.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	dir := filepath.Clean(cwd)
	for {
		if _, err := os.Stat(filepath.Join(dir, domain.ConfigFileName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
		}
		dir = parent
	}
}

// LoadFile reads and resolves the config file at path.
func (l *Loader) LoadFile(path string) (*domain.Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	// #nosec G304 -- the path is the user's own config file
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", abs)
	}

	var file Shadefile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", abs)
	}

	project, err := l.resolve(filepath.Dir(abs), &file)
	if err != nil {
		return nil, zerr.With(err, "path", abs)
	}
	return project, nil
}

func (l *Loader) resolve(root string, file *Shadefile) (*domain.Project, error) {
	p := domain.DefaultProject(root)

	switch file.Backend {
	case "":
	case domain.BackendNull, domain.BackendNaga, domain.BackendCommand:
		p.Backend = file.Backend
	default:
		return nil, zerr.With(domain.ErrUnknownBackend, "backend", file.Backend)
	}

	if file.Compiler != nil {
		p.Compiler = domain.Compiler{Command: file.Compiler.Command, Env: file.Compiler.Env}
	}
	if p.Backend == domain.BackendCommand && len(p.Compiler.Command) == 0 {
		return nil, zerr.With(zerr.With(domain.ErrConfigParseFailed, "key", "compiler.command"), "reason", "required by the command backend")
	}

	durations := []struct {
		key    string
		value  string
		target *time.Duration
	}{
		{"poll_interval", file.PollInterval, &p.PollInterval},
		{"frame_interval", file.FrameInterval, &p.FrameInterval},
		{"debounce", file.Debounce, &p.Debounce},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil || v <= 0 {
			return nil, zerr.With(zerr.With(domain.ErrConfigParseFailed, "key", d.key), "value", d.value)
		}
		*d.target = v
	}

	if file.Watch != nil {
		p.Watch = *file.Watch
	}

	switch file.LogFormat {
	case "":
	case domain.LogFormatPretty, domain.LogFormatJSON:
		p.LogFormat = file.LogFormat
	default:
		return nil, zerr.With(zerr.With(domain.ErrConfigParseFailed, "key", "log_format"), "value", file.LogFormat)
	}
	if file.LogLevel != "" {
		p.LogLevel = domain.ParseLogLevel(file.LogLevel)
	}
	p.MetricsAddr = file.MetricsAddr

	programs, err := l.resolvePrograms(root, file.Programs)
	if err != nil {
		return nil, err
	}
	p.Programs = programs

	if file.Version == "" {
		l.Logger.Warn(domain.ConfigFileName + " has no version, assuming \"1\"")
	}
	return p, nil
}

// resolvePrograms validates program names and makes their paths absolute.
// Programs are ordered by name.
func (l *Loader) resolvePrograms(root string, programs map[string][]string) ([]domain.Program, error) {
	names := make([]string, 0, len(programs))
	for name := range programs {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]domain.Program, 0, len(names))
	for _, name := range names {
		if err := domain.ValidateProgramName(name); err != nil {
			return nil, err
		}
		paths := programs[name]
		if len(paths) == 0 {
			return nil, zerr.With(domain.ErrNoSources, "program", name)
		}

		resolved := make([]string, len(paths))
		for i, path := range paths {
			if !filepath.IsAbs(path) {
				path = filepath.Join(root, path)
			}
			resolved[i] = filepath.Clean(path)
		}
		out = append(out, domain.Program{Name: name, Paths: resolved})
	}
	return out, nil
}
