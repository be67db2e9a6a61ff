package tabulation

import "github.com/blutech18/LDCU-Tabulation-sub001/storage"

type LockState int

const (
	StateDraft LockState = iota
	StateSubmitted
)

func (s LockState) String() string {
	if s == StateSubmitted {
		return "submitted"
	}
	return "draft"
}

// LockMachine tracks one judge+category submission lifecycle. The only
// transitions are draft -> submitted (Submit) and submitted -> draft
// (Unlock). EverSubmitted is a one-way flag: once a sheet has been submitted,
// later value changes are audited even after it is unlocked.
type LockMachine struct {
	state         LockState
	everSubmitted bool
}

// DeriveLockMachine reconstructs the machine from persisted state: the sheet
// is submitted when any cell carries a lock timestamp, and it has ever been
// submitted when the sheet's audit history holds a submit record. The history
// keeps EverSubmitted one-way across unlocks and reloads.
func DeriveLockMachine(cells []*storage.ScoreCell, history []*storage.ActivityRecord) *LockMachine {
	m := &LockMachine{}
	for _, cell := range cells {
		if cell.LockedAt != nil {
			m.state = StateSubmitted
			m.everSubmitted = true
			break
		}
	}
	for _, record := range history {
		if record.Action == storage.ActivitySubmit {
			m.everSubmitted = true
			break
		}
	}
	return m
}

func (m *LockMachine) State() LockState    { return m.state }
func (m *LockMachine) Submitted() bool     { return m.state == StateSubmitted }
func (m *LockMachine) EverSubmitted() bool { return m.everSubmitted }

func (m *LockMachine) Submit() error {
	if m.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	m.state = StateSubmitted
	m.everSubmitted = true
	return nil
}

func (m *LockMachine) Unlock() error {
	if m.state != StateSubmitted {
		return ErrNotSubmitted
	}
	m.state = StateDraft
	return nil
}

// revertSubmit undoes a Submit whose persistence failed, restoring the flag
// to whatever it was before the attempt.
func (m *LockMachine) revertSubmit(everBefore bool) {
	m.state = StateDraft
	m.everSubmitted = everBefore
}

// revertUnlock undoes an Unlock whose persistence failed.
func (m *LockMachine) revertUnlock() {
	m.state = StateSubmitted
}
