package domain

// BlankRecord returns a record with every projectOne sub-section present and
// both dynamic lists empty.
func BlankRecord() ClientRecord {
	return ClientRecord{
		ProjectTwo:   []ChallengeRow{},
		ProjectThree: []IconRow{},
	}
}

// NewChallengeRow returns a default-valued challenge row
func NewChallengeRow(id string) ChallengeRow {
	return ChallengeRow{ID: id, BridgeSentence: DefaultBridgeSentence}
}

// NewIconRow returns a default-valued icon row
func NewIconRow(id string) IconRow {
	return IconRow{ID: id, ActionType: ActionLoop}
}

// Clone returns a deep copy so in-flight saves never observe later edits
func (r ClientRecord) Clone() ClientRecord {
	out := ClientRecord{ProjectOne: r.ProjectOne}
	out.ProjectTwo = make([]ChallengeRow, len(r.ProjectTwo))
	copy(out.ProjectTwo, r.ProjectTwo)
	out.ProjectThree = make([]IconRow, len(r.ProjectThree))
	copy(out.ProjectThree, r.ProjectThree)
	return out
}

// Normalize replaces nil lists with empty ones so the JSON shape is stable
func (r *ClientRecord) Normalize() {
	if r.ProjectTwo == nil {
		r.ProjectTwo = []ChallengeRow{}
	}
	if r.ProjectThree == nil {
		r.ProjectThree = []IconRow{}
	}
}
