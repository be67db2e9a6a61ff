package tabulation

import (
	"context"
	"sync"
	"time"

	"github.com/blutech18/LDCU-Tabulation-sub001/logging"
	"github.com/blutech18/LDCU-Tabulation-sub001/metrics"
	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
)

// AutoSave debounces score writes per ledger key. Every Schedule call for a
// key re-arms that key's timer with the latest payload; when the timer fires
// the payload is upserted once. Different keys run independent timers, so the
// only ordering guarantee is per key: the last scheduled payload is the one
// that lands.
//
// A failed write is logged and the key is flagged unsaved; nothing retries
// automatically. The in-memory ledger stays the presumed truth until the next
// full reload.
type AutoSave struct {
	store storage.ScoreStorage
	delay time.Duration

	mu       sync.Mutex
	timers   map[Key]*time.Timer
	pending  map[Key]*storage.ScoreCell
	unsaved  map[Key]bool
	inflight int
	wg       sync.WaitGroup
}

func NewAutoSave(store storage.ScoreStorage, delay time.Duration) *AutoSave {
	return &AutoSave{
		store:   store,
		delay:   delay,
		timers:  make(map[Key]*time.Timer),
		pending: make(map[Key]*storage.ScoreCell),
		unsaved: make(map[Key]bool),
	}
}

// Schedule arms (or re-arms) the debounce timer for a key with the latest
// payload. A pending timer for the same key is cancelled and replaced.
func (a *AutoSave) Schedule(key Key, row *storage.ScoreCell) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending[key] = row
	if t, ok := a.timers[key]; ok {
		t.Stop()
	}
	a.timers[key] = time.AfterFunc(a.delay, func() {
		a.fire(key)
	})
}

func (a *AutoSave) fire(key Key) {
	a.mu.Lock()
	row, ok := a.pending[key]
	if !ok {
		a.mu.Unlock()
		return
	}
	delete(a.pending, key)
	delete(a.timers, key)
	a.inflight++
	a.wg.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.wg.Done()
		a.write(context.Background(), key, row)
	}()
}

func (a *AutoSave) write(ctx context.Context, key Key, row *storage.ScoreCell) {
	err := a.store.Upsert(ctx, row)

	a.mu.Lock()
	a.inflight--
	if err != nil {
		a.unsaved[key] = true
	} else {
		delete(a.unsaved, key)
	}
	a.mu.Unlock()

	if err != nil {
		logging.Log.Errorf("AUTOSAVE: upsert for %s/%s failed: %v", row.JudgeID, row.SortKey, err)
		metrics.AutosaveWrites.WithLabelValues("error").Inc()
		return
	}
	metrics.AutosaveWrites.WithLabelValues("ok").Inc()
}

// FlushAll bypasses debouncing: it cancels every armed timer and writes all
// pending payloads plus the given rows immediately in one batch. Manual
// actions (submit, unlock, drag-drop commit) use it.
func (a *AutoSave) FlushAll(ctx context.Context, rows []*storage.ScoreCell) error {
	a.mu.Lock()
	byKey := make(map[Key]*storage.ScoreCell, len(a.pending)+len(rows))
	keys := make(map[Key]bool)
	for key, row := range a.pending {
		if t, ok := a.timers[key]; ok {
			t.Stop()
			delete(a.timers, key)
		}
		delete(a.pending, key)
		byKey[key] = row
		keys[key] = true
	}
	for _, row := range rows {
		key := Key{JudgeID: row.JudgeID, ParticipantID: row.ParticipantID, CriterionID: row.CriterionID}
		byKey[key] = row
		keys[key] = true
	}
	batch := make([]*storage.ScoreCell, 0, len(byKey))
	for _, row := range byKey {
		batch = append(batch, row)
	}
	a.inflight++
	a.mu.Unlock()

	err := a.store.BatchUpsert(ctx, batch)

	a.mu.Lock()
	a.inflight--
	for key := range keys {
		if err != nil {
			a.unsaved[key] = true
		} else {
			delete(a.unsaved, key)
		}
	}
	a.mu.Unlock()

	if err != nil {
		logging.Log.Errorf("AUTOSAVE: flush of %d cells failed: %v", len(batch), err)
		metrics.AutosaveWrites.WithLabelValues("error").Inc()
		return err
	}
	metrics.AutosaveWrites.WithLabelValues("ok").Inc()
	return nil
}

// Saving reports whether any write is armed or outstanding.
func (a *AutoSave) Saving() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inflight > 0 || len(a.pending) > 0
}

// Unsaved lists the keys whose last write failed.
func (a *AutoSave) Unsaved() []Key {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Key, 0, len(a.unsaved))
	for key := range a.unsaved {
		out = append(out, key)
	}
	return out
}

// Stop cancels every armed timer without writing. Pending edits are dropped;
// the caller is shutting the session down.
func (a *AutoSave) Stop() {
	a.mu.Lock()
	for key, t := range a.timers {
		t.Stop()
		delete(a.timers, key)
		delete(a.pending, key)
	}
	a.mu.Unlock()
	a.wg.Wait()
}
