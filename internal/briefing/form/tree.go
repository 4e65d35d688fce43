// Package form holds the editable briefing record and derives its completion.
// Tree methods are synchronous and not safe for concurrent use; the workspace
// serializes access.
package form

import (
	"fmt"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
)

// Fields whose blur may auto-grow the list
const (
	ChallengeBlurTrigger = "result"
	IconBlurTrigger      = "link"
)

// Tree is the in-memory record plus row id allocation
type Tree struct {
	rec domain.ClientRecord
	ids *IDSource
}

// NewTree takes ownership of a copy of rec
func NewTree(rec domain.ClientRecord, ids *IDSource) *Tree {
	if ids == nil {
		ids = NewIDSource(nil)
	}
	rec = rec.Clone()
	for _, r := range rec.ProjectTwo {
		ids.Observe(r.ID)
	}
	for _, r := range rec.ProjectThree {
		ids.Observe(r.ID)
	}
	return &Tree{rec: rec, ids: ids}
}

// Record returns a deep copy of the current record
func (t *Tree) Record() domain.ClientRecord {
	return t.rec.Clone()
}

// Progress recomputes completion from the current record
func (t *Tree) Progress() Progress {
	return Compute(&t.rec)
}

// Seed gives each empty list one blank row. It reports whether anything changed.
func (t *Tree) Seed() bool {
	changed := false
	if len(t.rec.ProjectTwo) == 0 {
		t.rec.ProjectTwo = append(t.rec.ProjectTwo, domain.NewChallengeRow(t.ids.Next()))
		changed = true
	}
	if len(t.rec.ProjectThree) == 0 {
		t.rec.ProjectThree = append(t.rec.ProjectThree, domain.NewIconRow(t.ids.Next()))
		changed = true
	}
	return changed
}

func (t *Tree) SetProjectOneField(section, field, value string) error {
	return t.rec.ProjectOne.SetField(section, field, value)
}

// AddChallenge appends a default challenge row and returns it
func (t *Tree) AddChallenge() domain.ChallengeRow {
	row := domain.NewChallengeRow(t.ids.Next())
	t.rec.ProjectTwo = append(t.rec.ProjectTwo, row)
	return row
}

func (t *Tree) RemoveChallenge(id string) error {
	i := t.challengeIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: challenge %s", domain.ErrRowNotFound, id)
	}
	t.rec.ProjectTwo = append(t.rec.ProjectTwo[:i], t.rec.ProjectTwo[i+1:]...)
	return nil
}

func (t *Tree) UpdateChallenge(id, field, value string) error {
	i := t.challengeIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: challenge %s", domain.ErrRowNotFound, id)
	}
	row := t.rec.ProjectTwo[i]
	if err := row.SetField(field, value); err != nil {
		return err
	}
	t.rec.ProjectTwo[i] = row
	return nil
}

// BlurChallenge handles focus leaving field of row id. When the row is the last
// one, field is the trigger and name, problem and strategy are all filled, a new
// row is appended and returned.
func (t *Tree) BlurChallenge(id, field string) (*domain.ChallengeRow, error) {
	i := t.challengeIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: challenge %s", domain.ErrRowNotFound, id)
	}
	if field != ChallengeBlurTrigger || i != len(t.rec.ProjectTwo)-1 {
		return nil, nil
	}
	row := t.rec.ProjectTwo[i]
	if row.Name == "" || row.Problem == "" || row.Strategy == "" {
		return nil, nil
	}
	added := t.AddChallenge()
	return &added, nil
}

// AddIcon appends a default icon row and returns it
func (t *Tree) AddIcon() domain.IconRow {
	row := domain.NewIconRow(t.ids.Next())
	t.rec.ProjectThree = append(t.rec.ProjectThree, row)
	return row
}

func (t *Tree) RemoveIcon(id string) error {
	i := t.iconIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: icon %s", domain.ErrRowNotFound, id)
	}
	t.rec.ProjectThree = append(t.rec.ProjectThree[:i], t.rec.ProjectThree[i+1:]...)
	return nil
}

func (t *Tree) UpdateIcon(id, field, value string) error {
	i := t.iconIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: icon %s", domain.ErrRowNotFound, id)
	}
	row := t.rec.ProjectThree[i]
	if err := row.SetField(field, value); err != nil {
		return err
	}
	t.rec.ProjectThree[i] = row
	return nil
}

// BlurIcon is BlurChallenge for icons: the last row with title and elements
// filled grows the list when its link field loses focus.
func (t *Tree) BlurIcon(id, field string) (*domain.IconRow, error) {
	i := t.iconIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: icon %s", domain.ErrRowNotFound, id)
	}
	if field != IconBlurTrigger || i != len(t.rec.ProjectThree)-1 {
		return nil, nil
	}
	row := t.rec.ProjectThree[i]
	if row.Title == "" || row.Elements == "" {
		return nil, nil
	}
	added := t.AddIcon()
	return &added, nil
}

func (t *Tree) challengeIndex(id string) int {
	for i := range t.rec.ProjectTwo {
		if t.rec.ProjectTwo[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Tree) iconIndex(id string) int {
	for i := range t.rec.ProjectThree {
		if t.rec.ProjectThree[i].ID == id {
			return i
		}
	}
	return -1
}
