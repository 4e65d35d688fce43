// Package tracker implements the unsaved-changes state machine of a briefing
// session.
//
// A tracker is Clean or Dirty. Client edits move it to Dirty, a save that
// completed and reported success moves it to Clean, and anything else leaves it
// where it was. Admin sessions are read-only and never become Dirty.
//
// Every edit bumps a revision. A successful save only cleans the tracker if no
// edit landed after the snapshot it stored was taken.
package tracker

import (
	"sync"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
)

type State int

const (
	Clean State = iota
	Dirty
)

func (s State) String() string {
	if s == Dirty {
		return "dirty"
	}
	return "clean"
}

// Origin says where the working record came from at session start
type Origin int

const (
	OriginBlank Origin = iota
	OriginGateway
	OriginMirror
)

func (o Origin) String() string {
	switch o {
	case OriginGateway:
		return "gateway"
	case OriginMirror:
		return "mirror"
	}
	return "blank"
}

// InitialState maps a load origin to the starting state. Only a record the
// server has never confirmed starts Dirty.
func InitialState(o Origin) State {
	if o == OriginMirror {
		return Dirty
	}
	return Clean
}

type Tracker struct {
	mu       sync.RWMutex
	role     domain.Role
	state    State
	revision uint64
}

func New(role domain.Role, origin Origin) *Tracker {
	t := &Tracker{role: role, state: InitialState(origin)}
	if role == domain.RoleAdmin {
		t.state = Clean
	}
	return t
}

func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func (t *Tracker) IsDirty() bool {
	return t.State() == Dirty
}

// MarkEdited records a field-level edit
func (t *Tracker) MarkEdited() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.role != domain.RoleClient {
		return
	}
	t.revision++
	t.state = Dirty
}

// Revision identifies the edit history seen so far; pass it to SaveFinished
func (t *Tracker) Revision() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.revision
}

// SaveFinished applies the outcome of a store call for the snapshot taken at
// revision. Failures leave the state unchanged.
func (t *Tracker) SaveFinished(revision uint64, err error) {
	if err != nil {
		return
	}
	t.mu.Lock()
	if revision == t.revision {
		t.state = Clean
	}
	t.mu.Unlock()
}

// CanLogout returns domain.ErrUnsavedChanges while a client session is Dirty
func (t *Tracker) CanLogout() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.role == domain.RoleClient && t.state == Dirty {
		return domain.ErrUnsavedChanges
	}
	return nil
}

// ShouldBlockUnload reports whether a page-close or navigation-away signal
// must be suppressed to warn about unsaved edits
func (t *Tracker) ShouldBlockUnload() bool {
	return t.CanLogout() != nil
}
