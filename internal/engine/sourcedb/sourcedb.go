// Package sourcedb tracks shader source files and their include graph.
package sourcedb

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
)

// Watched is one file a build read or tried to read.
// ModTime is that of the cached copy; it is zero when the file is not loaded.
type Watched struct {
	ID      domain.NodeID
	Path    string
	ModTime time.Time
	Loaded  bool
}

// DB owns the graph of loaded sources. It is safe for concurrent use.
type DB struct {
	mu     sync.RWMutex
	fs     ports.FileSystem
	hasher ports.Hasher
	graph  *domain.Graph[domain.SourceFile]
	byPath map[domain.InternedString]domain.NodeID
}

// New creates an empty source database.
func New(fs ports.FileSystem, hasher ports.Hasher) *DB {
	return &DB{
		fs:     fs,
		hasher: hasher,
		graph:  domain.NewGraph[domain.SourceFile](),
		byPath: make(map[domain.InternedString]domain.NodeID),
	}
}

// Load returns the node for path, reading the file on first use.
// An already loaded node is refreshed only when the file on disk is strictly
// newer than the cached copy; the id never changes.
func (db *DB) Load(path string) (domain.NodeID, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrSourceRead.Error()), "path", path)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	return db.loadLocked(filepath.Clean(abs))
}

func (db *DB) loadLocked(abs string) (domain.NodeID, error) {
	key := domain.NewInternedString(abs)

	if id, ok := db.byPath[key]; ok {
		if err := db.refreshLocked(id); err != nil {
			return 0, err
		}
		return id, nil
	}

	src, err := db.read(key)
	if err != nil {
		return 0, err
	}

	id := db.graph.AddNode(src)
	db.byPath[key] = id
	return id, nil
}

// refreshLocked re-reads the node if its file changed on disk.
// The cached node is left untouched on any failure.
func (db *DB) refreshLocked(id domain.NodeID) error {
	cached, _ := db.graph.Node(id)

	modTime, err := db.fs.ModTime(cached.Path.String())
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSourceStat.Error()), "path", cached.Path.String())
	}
	if !cached.IsNewer(modTime) {
		return nil
	}

	src, err := db.read(cached.Path)
	if err != nil {
		return err
	}
	db.graph.Update(id, src)
	return nil
}

func (db *DB) read(path domain.InternedString) (domain.SourceFile, error) {
	data, err := db.fs.ReadFile(path.String())
	if err != nil {
		return domain.SourceFile{}, zerr.With(zerr.Wrap(err, domain.ErrSourceRead.Error()), "path", path.String())
	}

	modTime, err := db.fs.ModTime(path.String())
	if err != nil {
		return domain.SourceFile{}, zerr.With(zerr.Wrap(err, domain.ErrSourceStat.Error()), "path", path.String())
	}

	text := string(data)
	return domain.SourceFile{
		Path:    path,
		Text:    text,
		ModTime: modTime,
		Digest:  db.hasher.Sum(text),
	}, nil
}

// ResolveIncludes loads every file included by id, recursively, and records
// the include edges. Edges to files no longer included are dropped.
// A file that includes itself through any chain fails with *domain.CyclicIncludeError.
func (db *DB) ResolveIncludes(id domain.NodeID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.resolveLocked(id, nil, make(map[domain.NodeID]struct{}))
}

func (db *DB) resolveLocked(id domain.NodeID, stack []domain.NodeID, done map[domain.NodeID]struct{}) error {
	src, ok := db.graph.Node(id)
	if !ok {
		return zerr.With(domain.ErrSourceNotFound, "node", uint64(id))
	}
	if err := db.checkCycle(id, stack); err != nil {
		return err
	}
	if _, ok := done[id]; ok {
		return nil
	}
	stack = append(stack, id)

	var want []domain.NodeID
	for _, line := range src.Lines() {
		include, ok := ParseInclude(line)
		if !ok {
			continue
		}

		target := resolvePath(src.Dir(), include)
		child, err := db.loadLocked(target)
		if err != nil {
			return zerr.With(err, "included_from", src.Path.String())
		}
		if err := db.resolveLocked(child, stack, done); err != nil {
			return err
		}

		db.graph.AddChild(id, child)
		if !slices.Contains(want, child) {
			want = append(want, child)
		}
	}

	for _, child := range db.graph.ChildIDs(id) {
		if !slices.Contains(want, child) {
			db.graph.RemoveChild(id, child)
		}
	}

	done[id] = struct{}{}
	return nil
}

func (db *DB) checkCycle(id domain.NodeID, stack []domain.NodeID) error {
	idx := slices.Index(stack, id)
	if idx < 0 {
		return nil
	}
	chain := make([]string, 0, len(stack)-idx+1)
	for _, n := range stack[idx:] {
		src, _ := db.graph.Node(n)
		chain = append(chain, src.Path.String())
	}
	src, _ := db.graph.Node(id)
	chain = append(chain, src.Path.String())
	return &domain.CyclicIncludeError{Chain: chain}
}

// Link returns the flattened text of id: every line followed by a newline,
// with include directives replaced by the linked text of the included file.
// Includes must have been resolved first.
func (db *DB) Link(id domain.NodeID) (string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var sb strings.Builder
	if err := db.walkLocked(id, nil, &sb, nil); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Closure returns the ids contributing to Link(id), in depth-first order,
// each listed once.
func (db *DB) Closure(id domain.NodeID) ([]domain.NodeID, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var ids []domain.NodeID
	if err := db.walkLocked(id, nil, nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// walkLocked performs the depth-first include traversal shared by Link and Closure.
// Either sink may be nil.
func (db *DB) walkLocked(id domain.NodeID, stack []domain.NodeID, sb *strings.Builder, ids *[]domain.NodeID) error {
	src, ok := db.graph.Node(id)
	if !ok {
		return zerr.With(domain.ErrSourceNotFound, "node", uint64(id))
	}
	if err := db.checkCycle(id, stack); err != nil {
		return err
	}
	stack = append(stack, id)

	if ids != nil && !slices.Contains(*ids, id) {
		*ids = append(*ids, id)
	}

	children := db.graph.ChildIDs(id)
	for _, line := range src.Lines() {
		include, ok := ParseInclude(line)
		if !ok {
			if sb != nil {
				sb.WriteString(line)
				sb.WriteByte('\n')
			}
			continue
		}

		target := domain.NewInternedString(resolvePath(src.Dir(), include))
		child, ok := db.byPath[target]
		if !ok || !slices.Contains(children, child) {
			return zerr.With(zerr.With(domain.ErrIncludeNotResolved, "path", target.String()), "included_from", src.Path.String())
		}
		if err := db.walkLocked(child, stack, sb, ids); err != nil {
			return err
		}
	}
	return nil
}

// Source returns a copy of the loaded source id.
func (db *DB) Source(id domain.NodeID) (domain.SourceFile, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.graph.Node(id)
}

// Lookup returns the node id of an already loaded path.
func (db *DB) Lookup(path string) (domain.NodeID, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, false
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	id, ok := db.byPath[domain.NewInternedString(filepath.Clean(abs))]
	return id, ok
}

// Includes returns the direct includes of id, in first-seen order.
func (db *DB) Includes(id domain.NodeID) []domain.NodeID {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.graph.ChildIDs(id)
}

// Watched returns every file reachable from roots through the include lines
// of the cached texts, roots first, without duplicates. Unlike Closure it
// does not need resolved edges: includes that failed to load are reported
// with Loaded set to false, so a broken build still knows what it depends on.
func (db *DB) Watched(roots []string) []Watched {
	db.mu.RLock()
	defer db.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []Watched

	var visit func(path string)
	visit = func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}

		id, ok := db.byPath[domain.NewInternedString(path)]
		if !ok {
			out = append(out, Watched{Path: path})
			return
		}
		src, _ := db.graph.Node(id)
		out = append(out, Watched{ID: id, Path: path, ModTime: src.ModTime, Loaded: true})

		for _, line := range src.Lines() {
			if include, ok := ParseInclude(line); ok {
				visit(resolvePath(src.Dir(), include))
			}
		}
	}

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		visit(filepath.Clean(abs))
	}
	return out
}

// Remove evicts a source and every edge touching it.
// Artifacts built from it keep their handles; their next reload reloads the file.
func (db *DB) Remove(id domain.NodeID) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	src, ok := db.graph.Node(id)
	if !ok {
		return false
	}
	delete(db.byPath, src.Path)
	db.graph.RemoveNode(id)
	return true
}

// Len returns the number of loaded sources.
func (db *DB) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.graph.Len()
}

func resolvePath(dir, include string) string {
	if filepath.IsAbs(include) {
		return filepath.Clean(include)
	}
	return filepath.Join(dir, include)
}
