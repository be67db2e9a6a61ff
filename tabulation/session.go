package tabulation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/blutech18/LDCU-Tabulation-sub001/logging"
	"github.com/blutech18/LDCU-Tabulation-sub001/metrics"
	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
)

// Session is one judge's live scoring session for one category. It owns the
// ledger, the auto-save scheduler and the lock machine, and serializes all
// access; every engine operation names its judge and category explicitly
// through the session, there is no ambient identity.
type Session struct {
	mu sync.Mutex

	judgeID  string
	category *storage.Category
	ledger   *Ledger
	autosave *AutoSave
	lock     *LockMachine

	scores   storage.ScoreStorage
	activity storage.ActivityStorage
	now      func() time.Time
}

// SessionStores bundles the remote-store handles a session needs.
type SessionStores struct {
	Scores       storage.ScoreStorage
	Participants storage.ParticipantStorage
	Criteria     storage.CriterionStorage
	Categories   storage.CategoryStorage
	Activity     storage.ActivityStorage
}

// LoadSession fetches the category, its criteria, the active participants,
// the judge's persisted cells and the judge's audit history in parallel, then
// derives the lock state from the lock timestamps and the submit records.
func LoadSession(ctx context.Context, judgeID string, categoryID int, stores SessionStores, autosaveDelay time.Duration) (*Session, error) {
	var (
		category     *storage.Category
		criteria     []*storage.Criterion
		participants []*storage.Participant
		cells        []*storage.ScoreCell
		history      []*storage.ActivityRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		category, err = stores.Categories.Get(gctx, categoryID)
		return err
	})
	g.Go(func() (err error) {
		criteria, err = stores.Criteria.GetByCategory(gctx, categoryID)
		return err
	})
	g.Go(func() (err error) {
		participants, err = stores.Participants.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		cells, err = stores.Scores.GetByJudgeCategory(gctx, judgeID, categoryID)
		return err
	})
	g.Go(func() (err error) {
		history, err = stores.Activity.GetByJudge(gctx, judgeID)
		return err
	})
	if err := g.Wait(); err != nil {
		logging.Log.Errorf("SESSION: load for judge %s category %d failed: %v", judgeID, categoryID, err)
		return nil, err
	}

	active := make([]*storage.Participant, 0, len(participants))
	for _, p := range participants {
		if p.Active {
			active = append(active, p)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Number < active[j].Number })

	ledger := NewLedger(judgeID, category, criteria, active)
	ledger.LoadCells(cells)

	scoped := make([]*storage.ActivityRecord, 0, len(history))
	for _, record := range history {
		if record.CategoryID == categoryID {
			scoped = append(scoped, record)
		}
	}

	return &Session{
		judgeID:  judgeID,
		category: category,
		ledger:   ledger,
		autosave: NewAutoSave(stores.Scores, autosaveDelay),
		lock:     DeriveLockMachine(cells, scoped),
		scores:   stores.Scores,
		activity: stores.Activity,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Session) JudgeID() string             { return s.judgeID }
func (s *Session) Category() *storage.Category { return s.category }

// SetScore records one cell edit and arms its debounced save. Once the sheet
// has ever been submitted, a genuine value change is audited even if the
// sheet is currently unlocked.
func (s *Session) SetScore(participantID, criterionID int, score float64) (Cell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, _ := s.ledger.Get(participantID, criterionID)
	cell, err := s.ledger.Set(participantID, criterionID, score)
	if err != nil {
		return Cell{}, err
	}

	key := Key{JudgeID: s.judgeID, ParticipantID: participantID, CriterionID: criterionID}
	s.autosave.Schedule(key, s.ledger.Row(key, s.now()))

	if s.lock.EverSubmitted() && old.Effective() != cell.Effective() {
		s.appendActivity(storage.ActivityScoreChange, fmt.Sprintf(
			"participant %d criterion %d: %.2f -> %.2f", participantID, criterionID, old.Effective(), cell.Effective()))
	}
	return cell, nil
}

// ClearScore empties a cell; it displays blank and persists as zero.
func (s *Session) ClearScore(participantID, criterionID int) (Cell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, _ := s.ledger.Get(participantID, criterionID)
	cell, err := s.ledger.Clear(participantID, criterionID)
	if err != nil {
		return Cell{}, err
	}

	key := Key{JudgeID: s.judgeID, ParticipantID: participantID, CriterionID: criterionID}
	s.autosave.Schedule(key, s.ledger.Row(key, s.now()))

	if s.lock.EverSubmitted() && old.Effective() != 0 {
		s.appendActivity(storage.ActivityScoreChange, fmt.Sprintf(
			"participant %d criterion %d: %.2f -> cleared", participantID, criterionID, old.Effective()))
	}
	return cell, nil
}

// Reorder commits a drag-drop sequence for one division: every member's rank
// becomes its 1-based position and the affected rows are written immediately,
// bypassing the debounce.
func (s *Session) Reorder(ctx context.Context, division string, order []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.ledger.Reorder(division, order)
	if err != nil {
		return err
	}

	now := s.now()
	rows := make([]*storage.ScoreCell, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, s.ledger.Row(key, now))
	}
	if err := s.autosave.FlushAll(ctx, rows); err != nil {
		return err
	}

	if s.lock.EverSubmitted() {
		s.appendActivity(storage.ActivityRankChange, fmt.Sprintf(
			"division %q reordered to %v", division, order))
	}
	return nil
}

// Submit locks the whole sheet: every cell gets the same lock timestamp and
// is written in one batch, then an audit record summarizing the totals at
// submission time is appended. Edits are rejected until Unlock.
//
// The batch is not transactional. If it fails the in-memory transition is
// rolled back so a plain retry works; the persisted truth is whatever subset
// landed, and the next load derives state from that.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	everBefore := s.lock.EverSubmitted()
	if err := s.lock.Submit(); err != nil {
		metrics.LockTransitions.WithLabelValues("submit", "rejected").Inc()
		return err
	}

	now := s.now()
	s.ledger.Lock(now)
	if err := s.autosave.FlushAll(ctx, s.ledger.Rows(now)); err != nil {
		s.ledger.Unlock()
		s.lock.revertSubmit(everBefore)
		metrics.LockTransitions.WithLabelValues("submit", "error").Inc()
		return err
	}

	metrics.LockTransitions.WithLabelValues("submit", "ok").Inc()
	s.appendActivity(storage.ActivitySubmit, s.summarize())
	logging.Log.Infof("LOCK: judge %s submitted category %d", s.judgeID, s.category.ID)
	return nil
}

// Unlock reopens the sheet: every persisted cell's lock timestamp is cleared
// in one batch and the unlock is audited with the affected participant set.
func (s *Session) Unlock(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Unlock(); err != nil {
		metrics.LockTransitions.WithLabelValues("unlock", "rejected").Inc()
		return err
	}

	if err := s.scores.ClearLocks(ctx, s.judgeID, s.category.ID); err != nil {
		s.lock.revertUnlock()
		metrics.LockTransitions.WithLabelValues("unlock", "error").Inc()
		return err
	}
	s.ledger.Unlock()

	metrics.LockTransitions.WithLabelValues("unlock", "ok").Inc()
	var ids []string
	for _, p := range s.ledger.Participants() {
		ids = append(ids, fmt.Sprintf("%d", p.ID))
	}
	s.appendActivity(storage.ActivityUnlock, "unlocked; participants "+strings.Join(ids, ","))
	logging.Log.Infof("LOCK: judge %s unlocked category %d", s.judgeID, s.category.ID)
	return nil
}

func (s *Session) summarize() string {
	var b strings.Builder
	for _, division := range s.ledger.divisions() {
		standings := s.standingsLocked(division)
		for _, st := range standings {
			if b.Len() > 0 {
				b.WriteString("; ")
			}
			if st.Rank > 0 {
				fmt.Fprintf(&b, "participant %d total %.2f rank %d", st.ParticipantID, st.Value, st.Rank)
			} else {
				fmt.Fprintf(&b, "participant %d unranked", st.ParticipantID)
			}
		}
	}
	return b.String()
}

// standingsLocked computes the judge's current standings for one division.
// Callers must hold s.mu.
func (s *Session) standingsLocked(division string) []Standing {
	if s.category.TabularType == storage.TabularTypeRanking {
		positions := make(map[int]int)
		first := 0
		if criteria := s.ledger.Criteria(); len(criteria) > 0 {
			first = criteria[0].ID
		}
		for _, p := range FilterDivision(s.ledger.Participants(), division) {
			positions[p.ID] = 0
			if cell, ok := s.ledger.Get(p.ID, first); ok {
				positions[p.ID] = cell.Rank
			}
		}
		return DenseRankPositions(positions)
	}
	return DenseRankScores(s.ledger.Totals(division))
}

// Standings recomputes the judge's ranks for one division on demand; it is a
// pure function of the ledger, nothing is cached.
func (s *Session) Standings(division string) []Standing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.standingsLocked(division)
}

// SheetView is the UI-facing snapshot of a session for one division.
type SheetView struct {
	JudgeID       string
	Category      *storage.Category
	Criteria      []*storage.Criterion
	Participants  []*storage.Participant
	Cells         map[int]map[int]Cell
	Totals        map[int]float64
	Standings     []Standing
	Order         []int
	Locked        bool
	EverSubmitted bool
	Saving        bool
	Unsaved       []Key
}

func (s *Session) Sheet(division string) *SheetView {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants := FilterDivision(s.ledger.Participants(), division)
	cells := make(map[int]map[int]Cell, len(participants))
	for _, p := range participants {
		row := make(map[int]Cell, len(s.ledger.Criteria()))
		for _, cr := range s.ledger.Criteria() {
			if cell, ok := s.ledger.Get(p.ID, cr.ID); ok {
				row[cr.ID] = cell
			}
		}
		cells[p.ID] = row
	}

	return &SheetView{
		JudgeID:       s.judgeID,
		Category:      s.category,
		Criteria:      s.ledger.Criteria(),
		Participants:  participants,
		Cells:         cells,
		Totals:        s.ledger.Totals(division),
		Standings:     s.standingsLocked(division),
		Order:         s.ledger.Order(division),
		Locked:        s.lock.Submitted(),
		EverSubmitted: s.lock.EverSubmitted(),
		Saving:        s.autosave.Saving(),
		Unsaved:       s.autosave.Unsaved(),
	}
}

// Saving reports whether any autosave write is armed or outstanding.
func (s *Session) Saving() bool { return s.autosave.Saving() }

// Close cancels pending autosave timers and waits for in-flight writes.
func (s *Session) Close() { s.autosave.Stop() }

// appendActivity fires the audit write without blocking the scoring flow;
// failures are logged and counted, never surfaced to the judge.
func (s *Session) appendActivity(action, detail string) {
	id, err := gonanoid.New()
	if err != nil {
		logging.Log.Errorf("ACTIVITY: failed to generate record id: %v", err)
		return
	}
	record := &storage.ActivityRecord{
		ID:         id,
		JudgeID:    s.judgeID,
		CategoryID: s.category.ID,
		Action:     action,
		Detail:     detail,
		Timestamp:  s.now(),
	}

	go func() {
		if err := s.activity.Append(context.Background(), record); err != nil {
			logging.Log.Errorf("ACTIVITY: append %s for judge %s failed: %v", action, s.judgeID, err)
			metrics.ActivityAppends.WithLabelValues("error").Inc()
			return
		}
		metrics.ActivityAppends.WithLabelValues("ok").Inc()
	}()
}
