package tabulation

import (
	"sort"
	"time"

	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
)

// Ledger is the canonical in-memory state of one judge's scoresheet for one
// category. It is the single source of truth for display and for what gets
// persisted; it owns no synchronization, the enclosing Session does.
type Ledger struct {
	judgeID      string
	category     *storage.Category
	criteria     []*storage.Criterion
	participants []*storage.Participant

	cells  map[Key]Cell
	orders map[string][]int
	locked bool
}

func NewLedger(judgeID string, category *storage.Category, criteria []*storage.Criterion, participants []*storage.Participant) *Ledger {
	sorted := make([]*storage.Criterion, len(criteria))
	copy(sorted, criteria)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].ID < sorted[j].ID
	})

	l := &Ledger{
		judgeID:      judgeID,
		category:     category,
		criteria:     sorted,
		participants: participants,
		cells:        make(map[Key]Cell),
		orders:       make(map[string][]int),
	}

	// Seed every cell empty so totals and persistence see a full grid.
	for _, p := range participants {
		for _, cr := range sorted {
			l.cells[l.key(p.ID, cr.ID)] = Cell{Kind: CellEmpty}
		}
	}
	return l
}

func (l *Ledger) key(participantID, criterionID int) Key {
	return Key{JudgeID: l.judgeID, ParticipantID: participantID, CriterionID: criterionID}
}

// LoadCells replays persisted rows into the ledger. A stored zero score comes
// back as an empty cell; the distinction only matters for display. Lock state
// is derived from whether any row carries a lock timestamp.
func (l *Ledger) LoadCells(persisted []*storage.ScoreCell) {
	for _, row := range persisted {
		k := l.key(row.ParticipantID, row.CriterionID)
		if _, ok := l.cells[k]; !ok {
			continue
		}

		cell := Cell{Score: row.Score, Rank: row.Rank}
		switch {
		case row.LockedAt != nil:
			cell.Kind = CellLocked
			cell.LockedAt = *row.LockedAt
			l.locked = true
		case row.Score != 0 || row.Rank != 0:
			cell.Kind = CellValue
		default:
			cell.Kind = CellEmpty
		}
		l.cells[k] = cell
	}

	l.rebuildOrders()
}

// rebuildOrders reconstructs the per-division rank sequences from the ranks
// recorded on the category's first criterion.
func (l *Ledger) rebuildOrders() {
	if l.category.TabularType != storage.TabularTypeRanking || len(l.criteria) == 0 {
		return
	}
	first := l.criteria[0].ID

	for _, division := range l.divisions() {
		type ranked struct {
			participantID int
			rank          int
		}
		var seq []ranked
		for _, p := range FilterDivision(l.participants, division) {
			if cell, ok := l.cells[l.key(p.ID, first)]; ok && cell.Rank > 0 {
				seq = append(seq, ranked{p.ID, cell.Rank})
			}
		}
		if len(seq) == 0 {
			continue
		}
		sort.Slice(seq, func(i, j int) bool { return seq[i].rank < seq[j].rank })
		order := make([]int, len(seq))
		for i, r := range seq {
			order[i] = r.participantID
		}
		l.orders[division] = order
	}
}

func (l *Ledger) divisions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range l.participants {
		if !seen[p.Division] {
			seen[p.Division] = true
			out = append(out, p.Division)
		}
	}
	sort.Strings(out)
	return out
}

func (l *Ledger) Category() *storage.Category        { return l.category }
func (l *Ledger) Criteria() []*storage.Criterion     { return l.criteria }
func (l *Ledger) Participants() []*storage.Participant { return l.participants }
func (l *Ledger) Locked() bool                       { return l.locked }

func (l *Ledger) criterion(id int) *storage.Criterion {
	for _, cr := range l.criteria {
		if cr.ID == id {
			return cr
		}
	}
	return nil
}

func (l *Ledger) participant(id int) *storage.Participant {
	for _, p := range l.participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (l *Ledger) Get(participantID, criterionID int) (Cell, bool) {
	cell, ok := l.cells[l.key(participantID, criterionID)]
	return cell, ok
}

// Set records a score after clamping it into the criterion bounds. It is a
// no-op returning ErrSheetLocked while the sheet is submitted.
func (l *Ledger) Set(participantID, criterionID int, score float64) (Cell, error) {
	if l.locked {
		return Cell{}, ErrSheetLocked
	}
	criterion := l.criterion(criterionID)
	if criterion == nil {
		return Cell{}, ErrUnknownCriterion
	}
	if l.participant(participantID) == nil {
		return Cell{}, ErrUnknownParticipant
	}

	k := l.key(participantID, criterionID)
	cell := l.cells[k]
	cell.Kind = CellValue
	cell.Score = clampScore(score, criterion)
	l.cells[k] = cell
	return cell, nil
}

// Clear empties a cell. It displays blank but persists as zero.
func (l *Ledger) Clear(participantID, criterionID int) (Cell, error) {
	if l.locked {
		return Cell{}, ErrSheetLocked
	}
	k := l.key(participantID, criterionID)
	if _, ok := l.cells[k]; !ok {
		return Cell{}, ErrUnknownParticipant
	}
	cell := Cell{Kind: CellEmpty}
	l.cells[k] = cell
	return cell, nil
}

// Total sums the participant's effective scores across the category criteria.
// A participant with no criteria or no entries totals zero.
func (l *Ledger) Total(participantID int) float64 {
	var sum float64
	for _, cr := range l.criteria {
		if cell, ok := l.cells[l.key(participantID, cr.ID)]; ok {
			sum += cell.Effective()
		}
	}
	return sum
}

// Totals returns every participant total within one division.
func (l *Ledger) Totals(division string) map[int]float64 {
	totals := make(map[int]float64)
	for _, p := range FilterDivision(l.participants, division) {
		totals[p.ID] = l.Total(p.ID)
	}
	return totals
}

// Order returns the recorded rank sequence for a division, nil when the judge
// has never reordered it.
func (l *Ledger) Order(division string) []int {
	order, ok := l.orders[division]
	if !ok {
		return nil
	}
	out := make([]int, len(order))
	copy(out, order)
	return out
}

// Reorder replaces a division's sequence and reassigns every member's rank to
// its 1-based position, recorded on the category's first criterion. The order
// must be a permutation of the division's participants.
func (l *Ledger) Reorder(division string, order []int) ([]Key, error) {
	if l.locked {
		return nil, ErrSheetLocked
	}
	if len(l.criteria) == 0 {
		return nil, ErrUnknownCriterion
	}

	members := FilterDivision(l.participants, division)
	if len(order) != len(members) {
		return nil, ErrBadOrder
	}
	allowed := make(map[int]bool, len(members))
	for _, p := range members {
		allowed[p.ID] = true
	}
	seen := make(map[int]bool, len(order))
	for _, id := range order {
		if !allowed[id] || seen[id] {
			return nil, ErrBadOrder
		}
		seen[id] = true
	}

	first := l.criteria[0].ID
	keys := make([]Key, 0, len(order))
	for i, participantID := range order {
		k := l.key(participantID, first)
		cell := l.cells[k]
		cell.Kind = CellValue
		cell.Rank = i + 1
		l.cells[k] = cell
		keys = append(keys, k)
	}

	l.orders[division] = append([]int(nil), order...)
	return keys, nil
}

// Lock marks every cell of the sheet as submitted at ts.
func (l *Ledger) Lock(ts time.Time) {
	for k, cell := range l.cells {
		cell.Kind = CellLocked
		cell.LockedAt = ts
		l.cells[k] = cell
	}
	l.locked = true
}

// Unlock clears the lock on every cell; values survive, cleared cells go back
// to empty.
func (l *Ledger) Unlock() {
	for k, cell := range l.cells {
		cell.LockedAt = time.Time{}
		if cell.Score != 0 || cell.Rank != 0 {
			cell.Kind = CellValue
		} else {
			cell.Kind = CellEmpty
		}
		l.cells[k] = cell
	}
	l.locked = false
}

// Row materializes one cell as its persistence payload.
func (l *Ledger) Row(k Key, now time.Time) *storage.ScoreCell {
	cell := l.cells[k]
	row := &storage.ScoreCell{
		JudgeID:       k.JudgeID,
		SortKey:       storage.ScoreSortKey(l.category.ID, k.CriterionID, k.ParticipantID),
		CategoryID:    l.category.ID,
		CriterionID:   k.CriterionID,
		ParticipantID: k.ParticipantID,
		Score:         cell.Effective(),
		Rank:          cell.Rank,
		UpdatedAt:     now,
	}
	if cell.Kind == CellLocked {
		ts := cell.LockedAt
		row.LockedAt = &ts
	}
	return row
}

// Rows materializes the whole sheet for a batch write.
func (l *Ledger) Rows(now time.Time) []*storage.ScoreCell {
	rows := make([]*storage.ScoreCell, 0, len(l.cells))
	for _, p := range l.participants {
		for _, cr := range l.criteria {
			rows = append(rows, l.Row(l.key(p.ID, cr.ID), now))
		}
	}
	return rows
}
