package workspace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
	"github.com/motion-studio/briefing-backend/internal/briefing/form"
	"github.com/motion-studio/briefing-backend/internal/briefing/mirror"
	"github.com/motion-studio/briefing-backend/internal/briefing/repository"
)

// DefaultMaxSessions bounds open workspaces when no limit is configured
const DefaultMaxSessions = 256

type entry struct {
	ws       *Workspace
	lastSeen time.Time
}

// Registry maps session tokens to workspaces
type Registry struct {
	gateway     repository.Gateway
	mirror      mirror.Mirror
	ids         *form.IDSource
	maxSessions int
	now         func() time.Time

	mu         sync.Mutex
	workspaces map[string]*entry
}

type RegistryOption func(*Registry)

// WithMaxSessions caps open workspaces; n <= 0 keeps the default
func WithMaxSessions(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.maxSessions = n
		}
	}
}

func withClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(gateway repository.Gateway, m mirror.Mirror, opts ...RegistryOption) *Registry {
	r := &Registry{
		gateway:     gateway,
		mirror:      m,
		ids:         form.NewIDSource(nil),
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		workspaces:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open starts a workspace for s and returns its token. At the session cap the
// least recently used workspace without unsaved edits is logged out to make
// room; if every workspace is Dirty, domain.ErrTooManySessions is returned.
func (r *Registry) Open(ctx context.Context, s domain.Session) (string, View, error) {
	ws := New(r.gateway, r.mirror, r.ids)
	view, err := ws.Start(ctx, s)
	if err != nil {
		return "", View{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.workspaces) >= r.maxSessions && !r.evictOldestLocked() {
		return "", View{}, domain.ErrTooManySessions
	}
	token := uuid.NewString()
	r.workspaces[token] = &entry{ws: ws, lastSeen: r.now()}
	return token, view, nil
}

// Get returns the workspace for token and marks it as used
func (r *Registry) Get(token string) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.workspaces[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e.ws, nil
}

// Close logs the workspace out and forgets token. A Dirty workspace is kept
// and domain.ErrUnsavedChanges returned.
func (r *Registry) Close(token string) error {
	ws, err := r.Get(token)
	if err != nil {
		return err
	}
	if err := ws.Logout(); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.workspaces, token)
	r.mu.Unlock()
	return nil
}

// Sweep forgets workspaces unused for longer than idle and returns how many
// were removed. Dirty workspaces are never swept.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for token, e := range r.workspaces {
		if e.lastSeen.After(cutoff) {
			continue
		}
		if r.releaseLocked(token, e) {
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep(idle) every minute until the returned stop is called
func (r *Registry) StartSweeper(idle time.Duration) (stop func(), err error) {
	c := cron.New()
	_, err = c.AddFunc("@every 1m", func() {
		if n := r.Sweep(idle); n > 0 {
			log.Printf("[info] operation=registry.sweep removed=%d open=%d", n, r.Len())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep job: %w", err)
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}

// Len is the number of open workspaces
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

func (r *Registry) evictOldestLocked() bool {
	tokens := make([]string, 0, len(r.workspaces))
	for token := range r.workspaces {
		tokens = append(tokens, token)
	}
	slices.SortFunc(tokens, func(a, b string) int {
		return r.workspaces[a].lastSeen.Compare(r.workspaces[b].lastSeen)
	})
	for _, token := range tokens {
		if r.releaseLocked(token, r.workspaces[token]) {
			return true
		}
	}
	return false
}

// releaseLocked logs e out and drops it; a workspace that refuses logout stays
func (r *Registry) releaseLocked(token string, e *entry) bool {
	if err := e.ws.Logout(); err != nil && !errors.Is(err, domain.ErrNoSession) {
		return false
	}
	delete(r.workspaces, token)
	return true
}
