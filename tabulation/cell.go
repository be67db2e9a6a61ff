// Package tabulation is the scoring engine: the in-memory score ledger, the
// debounced auto-save scheduler, the submit/unlock state machine, and the
// pure rank and aggregation calculators on top of it.
package tabulation

import (
	"time"

	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
)

// Key identifies one ledger cell: one judge's input for one participant on
// one criterion.
type Key struct {
	JudgeID       string
	ParticipantID int
	CriterionID   int
}

type CellKind int

const (
	// CellEmpty means no value has been entered; it displays blank and
	// persists as zero.
	CellEmpty CellKind = iota
	CellValue
	CellLocked
)

// Cell is the tagged per-cell state. Kind distinguishes a cleared cell from a
// genuine zero and an editable value from a locked one, so there is no
// optional-field ambiguity downstream.
type Cell struct {
	Kind     CellKind
	Score    float64
	Rank     int
	LockedAt time.Time
}

func (c Cell) Editable() bool {
	return c.Kind != CellLocked
}

// Effective is the score used for totals and persistence: empty counts as zero.
func (c Cell) Effective() float64 {
	if c.Kind == CellEmpty {
		return 0
	}
	return c.Score
}

// clampScore forces a raw input into the criterion's closed bounds.
func clampScore(v float64, criterion *storage.Criterion) float64 {
	min := criterion.MinScore
	if min < 0 {
		min = 0
	}
	if v < min {
		return min
	}
	if max := criterion.Max(); v > max {
		return max
	}
	return v
}
