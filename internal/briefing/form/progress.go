package form

import (
	"math"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
)

// ProjectOneTotal is the fixed projectOne denominator. The schema has 30
// leaves, so percent caps the result at 100.
const ProjectOneTotal = 28

const (
	challengeTrackedFields = 5
	iconTrackedFields      = 3
)

// Progress is the derived completion per project, in percent
type Progress struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
	P3 int `json:"p3"`
}

// Compute derives completion percentages for every section of rec
func Compute(rec *domain.ClientRecord) Progress {
	return Progress{
		P1: ProjectOnePercent(&rec.ProjectOne),
		P2: ChallengesPercent(rec.ProjectTwo),
		P3: IconsPercent(rec.ProjectThree),
	}
}

func ProjectOnePercent(p *domain.ProjectOneData) int {
	_, filled := p.LeafCount()
	return percent(filled, ProjectOneTotal)
}

func ChallengesPercent(rows []domain.ChallengeRow) int {
	if len(rows) == 0 {
		return 0
	}
	filled := 0
	for _, r := range rows {
		filled += countNonEmpty(r.Name, r.Problem, r.Strategy, r.Execution, r.Result)
	}
	return percent(filled, challengeTrackedFields*len(rows))
}

func IconsPercent(rows []domain.IconRow) int {
	if len(rows) == 0 {
		return 0
	}
	filled := 0
	for _, r := range rows {
		filled += countNonEmpty(r.Title, r.Elements, r.Link)
	}
	return percent(filled, iconTrackedFields*len(rows))
}

func percent(filled, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(filled) / float64(total)))
	if p > 100 {
		return 100
	}
	return p
}

func countNonEmpty(values ...string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}
