package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/quizflash/internal/logger"
)

// Registry holds the live workspaces keyed by a random ID.
type Registry struct {
	mu    sync.Mutex
	items map[string]*Workspace
	opts  []Option
	now   func() time.Time
	log   *logger.Logger
}

// NewRegistry creates an empty registry. opts are applied to every workspace
// it creates.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		items: map[string]*Workspace{},
		opts:  opts,
		now:   time.Now,
		log:   logger.Default().WithPrefix("workspaces"),
	}
}

func (r *Registry) Create() *Workspace {
	id := uuid.NewString()
	w := New(id, r.opts...)

	r.mu.Lock()
	r.items[id] = w
	n := len(r.items)
	r.mu.Unlock()

	r.log.Debug("created workspace %s (%d live)", id, n)
	return w
}

func (r *Registry) Get(id string) (*Workspace, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.items[id]
	return w, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep closes and forgets workspaces idle for longer than idle.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []*Workspace
	for id, w := range r.items {
		if w.LastActive().Before(cutoff) {
			stale = append(stale, w)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for _, w := range stale {
		w.Close()
	}
	if len(stale) > 0 {
		r.log.Info("evicted %d idle workspaces", len(stale))
	}
	return len(stale)
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep(idle)
		}
	}
}

// Close closes every workspace.
func (r *Registry) Close() {
	r.mu.Lock()
	items := r.items
	r.items = map[string]*Workspace{}
	r.mu.Unlock()

	for _, w := range items {
		w.Close()
	}
}
