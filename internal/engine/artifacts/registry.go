package artifacts

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/engine/sourcedb"
)

// slot holds the live state of one artifact. current is swapped atomically so
// readers never observe a partially updated artifact.
type slot struct {
	current atomic.Pointer[domain.Artifact]

	mu      sync.Mutex
	status  domain.ArtifactStatus
	lastErr error
	// watch lists the files the last build attempt read or tried to read,
	// including attempts that failed.
	watch []sourcedb.Watched
}

func (s *slot) setWatch(watch []sourcedb.Watched) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watch = watch
}

// changed returns the first watched file that is newer on disk than the copy
// the last attempt used. A missing file counts as changed once it appears.
func (s *slot) changed(stat func(path string) (time.Time, bool)) (sourcedb.Watched, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.watch {
		modTime, ok := stat(w.Path)
		if ok && modTime.After(w.ModTime) {
			return w, true
		}
	}
	return sourcedb.Watched{}, false
}

func (s *slot) watches(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.watch, func(w sourcedb.Watched) bool { return w.Path == path })
}

func (s *slot) setStatus(status domain.ArtifactStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.lastErr = err
}

// markPending moves a healthy or failed artifact to pending. The last error is kept.
func (s *slot) markPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = domain.StatusPendingReload
}

func (s *slot) state() (domain.ArtifactStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.lastErr
}

// registry maps artifact ids to slots. Lookups are lock-free.
type registry struct {
	slots sync.Map // domain.ArtifactID -> *slot
	next  atomic.Uint64
}

func (r *registry) add(a *domain.Artifact, watch []sourcedb.Watched) domain.ArtifactID {
	id := domain.ArtifactID(r.next.Add(1))
	a.ID = id
	s := &slot{status: domain.StatusCompiled, watch: watch}
	s.current.Store(a)
	r.slots.Store(id, s)
	return id
}

func (r *registry) slot(id domain.ArtifactID) (*slot, bool) {
	v, ok := r.slots.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*slot), true //nolint:forcetypeassert // only *slot is stored
}

func (r *registry) remove(id domain.ArtifactID) (*slot, bool) {
	v, ok := r.slots.LoadAndDelete(id)
	if !ok {
		return nil, false
	}
	return v.(*slot), true //nolint:forcetypeassert // only *slot is stored
}

// all returns every slot ordered by artifact id.
func (r *registry) all() []*slot {
	var out []*slot
	r.slots.Range(func(_, v any) bool {
		out = append(out, v.(*slot)) //nolint:forcetypeassert // only *slot is stored
		return true
	})
	slices.SortFunc(out, func(a, b *slot) int {
		return cmp.Compare(a.current.Load().ID, b.current.Load().ID)
	})
	return out
}

// snapshot returns every live artifact ordered by id.
func (r *registry) snapshot() []*domain.Artifact {
	slots := r.all()
	out := make([]*domain.Artifact, len(slots))
	for i, s := range slots {
		out[i] = s.current.Load()
	}
	return out
}
