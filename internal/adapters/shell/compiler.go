// Package shell runs external shader compilers.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
)

// StagePlaceholder is replaced by the stage name in compiler arguments.
const StagePlaceholder = "{stage}"

// Compiler validates stage text by piping it to an external command.
type Compiler struct {
	command []string
	env     map[string]string
	logger  ports.Logger
}

// NewCompiler creates a Compiler for the configured command.
func NewCompiler(cfg domain.Compiler, logger ports.Logger) *Compiler {
	return &Compiler{
		command: cfg.Command,
		env:     cfg.Env,
		logger:  logger,
	}
}

// Check runs the compiler with text on stdin.
// A non-zero exit is reported as *domain.CompileError carrying the combined output.
// Output of a successful run is logged as warnings.
func (c *Compiler) Check(ctx context.Context, text string, kind domain.ShaderKind) error {
	if len(c.command) == 0 {
		return zerr.With(domain.ErrConfigParseFailed, "key", "compiler.command")
	}

	stage := StageName(kind)
	name := c.command[0]
	args := make([]string, len(c.command)-1)
	for i, arg := range c.command[1:] {
		args[i] = strings.ReplaceAll(arg, StagePlaceholder, stage)
	}

	cmdEnv := resolveEnvironment(os.Environ(), c.env, stage)

	// Resolve the executable using the merged PATH.
	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // user provided command
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Env = cmdEnv
	cmd.Stdin = strings.NewReader(text)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return zerr.With(zerr.Wrap(err, "failed to run compiler"), "command", name)
		}
		return &domain.CompileError{Kind: kind, Log: output.String()}
	}

	for line := range strings.Lines(output.String()) {
		if line = strings.TrimRight(line, "\r\n"); line != "" {
			c.logger.Warn(line)
		}
	}
	return nil
}

// StageName returns the short stage name used by GLSL compilers.
func StageName(kind domain.ShaderKind) string {
	switch kind {
	case domain.KindVertex:
		return "vert"
	case domain.KindFragment:
		return "frag"
	case domain.KindGeometry:
		return "geom"
	case domain.KindCompute:
		return "comp"
	case domain.KindModule:
		return "wgsl"
	default:
		return strings.ToLower(kind.String())
	}
}

// resolveEnvironment merges the system environment with the configured
// overrides. A configured PATH is prepended to the system PATH.
// SHADE_STAGE is always set to the stage being compiled.
func resolveEnvironment(sysEnv []string, overrides map[string]string, stage string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	for k, v := range overrides {
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		envMap[k] = v
	}
	envMap["SHADE_STAGE"] = stage

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "PATH="); ok {
			path = after
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
