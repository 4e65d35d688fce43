// Package workspace runs one briefing session: it loads the record for the
// signed-in identity, applies form edits, mirrors every change locally, saves
// through the gateway on request and gates logout on unsaved changes.
package workspace

import (
	"context"
	"errors"
	"sync"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
	"github.com/motion-studio/briefing-backend/internal/briefing/form"
	"github.com/motion-studio/briefing-backend/internal/briefing/mirror"
	"github.com/motion-studio/briefing-backend/internal/briefing/repository"
	"github.com/motion-studio/briefing-backend/internal/briefing/tracker"
	"github.com/motion-studio/briefing-backend/internal/logging"
)

// View is a read-only snapshot of the workspace
type View struct {
	Session  domain.Session      `json:"session"`
	Record   domain.ClientRecord `json:"record"`
	Dirty    bool                `json:"dirty"`
	Saving   bool                `json:"saving"`
	Origin   string              `json:"origin"`
	Progress form.Progress       `json:"progress"`
}

// Workspace is safe for concurrent use. Gateway calls run without holding the
// lock; an epoch counter discards results that belong to an ended session.
type Workspace struct {
	gateway repository.Gateway
	mirror  mirror.Mirror
	ids     *form.IDSource

	mu      sync.Mutex
	epoch   uint64
	session *domain.Session
	tree    *form.Tree
	tracker *tracker.Tracker
	origin  tracker.Origin
	saving  bool
}

func New(gateway repository.Gateway, m mirror.Mirror, ids *form.IDSource) *Workspace {
	if ids == nil {
		ids = form.NewIDSource(nil)
	}
	return &Workspace{gateway: gateway, mirror: m, ids: ids}
}

// Start establishes s and loads its record: gateway first, then the local
// mirror, then a blank record. A Start superseded by a later Start or Logout
// returns domain.ErrStaleLoad and leaves the newer session untouched.
func (w *Workspace) Start(ctx context.Context, s domain.Session) (View, error) {
	logger := logging.NewLogger(ctx)

	w.mu.Lock()
	w.epoch++
	epoch := w.epoch
	w.session = &s
	w.tree = nil
	w.tracker = nil
	w.saving = false
	w.mu.Unlock()

	rec, found, err := w.gateway.Fetch(ctx, s.RecordKey)
	if err != nil {
		logger.LogWarnf("workspace.load", "key=%s gateway fetch failed, trying local mirror: %v", s.RecordKey, err)
		found = false
	}

	origin := tracker.OriginGateway
	if !found {
		origin = tracker.OriginBlank
		rec = domain.BlankRecord()
		if local, ok := w.mirror.Read(s.RecordKey); ok {
			origin = tracker.OriginMirror
			rec = local
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.epoch != epoch {
		logger.LogInfof("workspace.load", "key=%s discarded stale load", s.RecordKey)
		return View{}, domain.ErrStaleLoad
	}

	w.tree = form.NewTree(rec, w.ids)
	w.tracker = tracker.New(s.Role, origin)
	w.origin = origin
	if s.CanEdit() {
		w.tree.Seed()
		w.mirror.Write(s.RecordKey, w.tree.Record())
	}
	logger.LogInfof("workspace.load", "key=%s role=%s origin=%s", s.RecordKey, s.Role, origin)
	return w.viewLocked(), nil
}

// View returns the current snapshot
func (w *Workspace) View() (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tree == nil {
		return View{}, domain.ErrNoSession
	}
	return w.viewLocked(), nil
}

// Progress recomputes completion for the current record
func (w *Workspace) Progress() (form.Progress, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tree == nil {
		return form.Progress{}, domain.ErrNoSession
	}
	return w.tree.Progress(), nil
}

func (w *Workspace) SetProjectOneField(section, field, value string) error {
	return w.edit(func(t *form.Tree) (bool, error) {
		return true, t.SetProjectOneField(section, field, value)
	})
}

func (w *Workspace) AddChallenge() (row domain.ChallengeRow, err error) {
	err = w.edit(func(t *form.Tree) (bool, error) {
		row = t.AddChallenge()
		return true, nil
	})
	return row, err
}

func (w *Workspace) RemoveChallenge(id string) error {
	return w.edit(func(t *form.Tree) (bool, error) {
		return true, t.RemoveChallenge(id)
	})
}

func (w *Workspace) UpdateChallenge(id, field, value string) error {
	return w.edit(func(t *form.Tree) (bool, error) {
		return true, t.UpdateChallenge(id, field, value)
	})
}

// BlurChallenge reports focus leaving field; it may append a row
func (w *Workspace) BlurChallenge(id, field string) (added *domain.ChallengeRow, err error) {
	err = w.edit(func(t *form.Tree) (bool, error) {
		added, err = t.BlurChallenge(id, field)
		return added != nil, err
	})
	return added, err
}

func (w *Workspace) AddIcon() (row domain.IconRow, err error) {
	err = w.edit(func(t *form.Tree) (bool, error) {
		row = t.AddIcon()
		return true, nil
	})
	return row, err
}

func (w *Workspace) RemoveIcon(id string) error {
	return w.edit(func(t *form.Tree) (bool, error) {
		return true, t.RemoveIcon(id)
	})
}

func (w *Workspace) UpdateIcon(id, field, value string) error {
	return w.edit(func(t *form.Tree) (bool, error) {
		return true, t.UpdateIcon(id, field, value)
	})
}

// BlurIcon reports focus leaving field; it may append a row
func (w *Workspace) BlurIcon(id, field string) (added *domain.IconRow, err error) {
	err = w.edit(func(t *form.Tree) (bool, error) {
		added, err = t.BlurIcon(id, field)
		return added != nil, err
	})
	return added, err
}

// edit applies fn for a client session. When fn reports a change the tracker
// goes Dirty and the record is mirrored.
func (w *Workspace) edit(fn func(t *form.Tree) (bool, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tree == nil {
		return domain.ErrNoSession
	}
	if !w.session.CanEdit() {
		return domain.ErrReadOnly
	}
	changed, err := fn(w.tree)
	if err != nil {
		return err
	}
	if changed {
		w.tracker.MarkEdited()
		w.mirror.Write(w.session.RecordKey, w.tree.Record())
	}
	return nil
}

// Save stores the current record. Only one save runs at a time; a failure
// keeps the tracker Dirty and is returned as a *domain.SaveError whose
// Message is meant for the user.
func (w *Workspace) Save(ctx context.Context) error {
	logger := logging.NewLogger(ctx)

	w.mu.Lock()
	if w.tree == nil {
		w.mu.Unlock()
		return domain.ErrNoSession
	}
	if !w.session.CanEdit() {
		w.mu.Unlock()
		return domain.ErrReadOnly
	}
	if w.saving {
		w.mu.Unlock()
		return domain.ErrSaveInProgress
	}
	w.saving = true
	epoch := w.epoch
	key := w.session.RecordKey
	rec := w.tree.Record()
	tr := w.tracker
	revision := tr.Revision()
	w.mu.Unlock()

	err := w.gateway.Store(ctx, key, rec)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.epoch == epoch {
		w.saving = false
	}
	tr.SaveFinished(revision, err)

	if err != nil {
		logger.LogError("workspace.save", err)
		var saveErr *domain.SaveError
		if errors.As(err, &saveErr) {
			return saveErr
		}
		return &domain.SaveError{Message: domain.MsgSaveFailed, Err: err}
	}
	logger.LogInfof("workspace.save", "key=%s saved", key)
	return nil
}

// BeforeUnload reports whether a page-close or navigation signal must be
// suppressed, and why
func (w *Workspace) BeforeUnload() (bool, string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tracker != nil && w.tracker.ShouldBlockUnload() {
		return true, domain.MsgUnsavedChanges
	}
	return false, ""
}

// Logout ends the session. A Dirty client session is refused with
// domain.ErrUnsavedChanges and nothing changes.
func (w *Workspace) Logout() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session == nil {
		return domain.ErrNoSession
	}
	if w.tracker != nil {
		if err := w.tracker.CanLogout(); err != nil {
			return err
		}
	}
	w.epoch++
	w.session = nil
	w.tree = nil
	w.tracker = nil
	w.saving = false
	return nil
}

// Session returns the active session, if any
func (w *Workspace) Session() (domain.Session, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session == nil {
		return domain.Session{}, false
	}
	return *w.session, true
}

func (w *Workspace) viewLocked() View {
	return View{
		Session:  *w.session,
		Record:   w.tree.Record(),
		Dirty:    w.tracker.IsDirty(),
		Saving:   w.saving,
		Origin:   w.origin.String(),
		Progress: w.tree.Progress(),
	}
}
