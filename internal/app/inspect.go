package app

import (
	"path/filepath"
	"slices"

	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/engine/sourcedb"
)

// Link returns the flattened text of path with every include inlined.
func (a *App) Link(path string) (string, error) {
	db, id, err := a.resolve(path)
	if err != nil {
		return "", err
	}
	return db.Link(id)
}

// Bindings returns the distinct binding names declared by path and its includes,
// in declaration order.
func (a *App) Bindings(path string) ([]string, error) {
	text, err := a.Link(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, name := range sourcedb.ScanBindings(text) {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names, nil
}

// resolve loads path into a fresh source database and resolves its includes.
func (a *App) resolve(path string) (*sourcedb.DB, domain.NodeID, error) {
	db := sourcedb.New(a.fs, a.hasher)
	id, err := db.Load(path)
	if err != nil {
		return nil, 0, err
	}
	if err := db.ResolveIncludes(id); err != nil {
		return nil, 0, err
	}
	return db, id, nil
}

// ShaderEntry describes one stage source found below a directory.
type ShaderEntry struct {
	// Path is relative to the listed directory.
	Path     string
	Kind     domain.ShaderKind
	Includes []string
	Err      error
}

// ListOptions configures List.
type ListOptions struct {
	// Dir is the directory to scan. Empty means the project root.
	Dir     string
	Ignores []string
	ConfigOptions
}

// List finds every stage source below a directory and resolves its includes.
// Files whose includes fail to resolve are listed with their error.
func (a *App) List(opts ListOptions) ([]ShaderEntry, error) {
	dir := opts.Dir
	if dir == "" {
		project, err := a.loadProject(opts.ConfigOptions)
		if err != nil {
			return nil, err
		}
		dir = project.Root
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	db := sourcedb.New(a.fs, a.hasher)
	var entries []ShaderEntry
	for path := range a.walker.WalkShaders(dir, opts.Ignores) {
		kind, _ := domain.KindFromPath(path)
		rel, _ := filepath.Rel(dir, path)
		entry := ShaderEntry{Path: rel, Kind: kind}

		id, err := db.Load(path)
		if err == nil {
			err = db.ResolveIncludes(id)
		}
		if err != nil {
			entry.Err = err
			entries = append(entries, entry)
			continue
		}

		closure, _ := db.Closure(id)
		for _, inc := range closure[1:] {
			src, _ := db.Source(inc)
			incRel, _ := filepath.Rel(dir, src.Path.String())
			entry.Includes = append(entry.Includes, incRel)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
