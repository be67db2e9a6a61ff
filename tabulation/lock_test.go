package tabulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
)

func TestLockMachineTransitions(t *testing.T) {
	t.Run("Happy path - draft submits then unlocks", func(t *testing.T) {
		m := &LockMachine{}
		assert.Equal(t, StateDraft, m.State())
		assert.False(t, m.EverSubmitted())

		require.NoError(t, m.Submit())
		assert.True(t, m.Submitted())
		assert.True(t, m.EverSubmitted())

		require.NoError(t, m.Unlock())
		assert.Equal(t, StateDraft, m.State())
		assert.True(t, m.EverSubmitted(), "EverSubmitted should survive an unlock")
	})

	t.Run("Unhappy path - double submit is rejected", func(t *testing.T) {
		m := &LockMachine{}
		require.NoError(t, m.Submit())
		assert.ErrorIs(t, m.Submit(), ErrAlreadySubmitted)
	})

	t.Run("Unhappy path - unlock of a draft is rejected", func(t *testing.T) {
		m := &LockMachine{}
		assert.ErrorIs(t, m.Unlock(), ErrNotSubmitted)
	})

	t.Run("Happy path - state names", func(t *testing.T) {
		assert.Equal(t, "draft", StateDraft.String())
		assert.Equal(t, "submitted", StateSubmitted.String())
	})
}

func TestDeriveLockMachine(t *testing.T) {
	t.Run("Happy path - lock timestamp means submitted", func(t *testing.T) {
		ts := time.Now().UTC()
		m := DeriveLockMachine([]*storage.ScoreCell{
			{JudgeID: "judge-1", ParticipantID: 1, CriterionID: 11, Score: 10},
			{JudgeID: "judge-1", ParticipantID: 2, CriterionID: 11, Score: 20, LockedAt: &ts},
		}, nil)

		assert.True(t, m.Submitted())
		assert.True(t, m.EverSubmitted())
	})

	t.Run("Happy path - no lock timestamps means draft", func(t *testing.T) {
		m := DeriveLockMachine([]*storage.ScoreCell{
			{JudgeID: "judge-1", ParticipantID: 1, CriterionID: 11, Score: 10},
		}, nil)

		assert.False(t, m.Submitted())
		assert.False(t, m.EverSubmitted())
	})

	t.Run("Happy path - submit record keeps flag set after unlock", func(t *testing.T) {
		m := DeriveLockMachine([]*storage.ScoreCell{
			{JudgeID: "judge-1", ParticipantID: 1, CriterionID: 11, Score: 10},
		}, []*storage.ActivityRecord{
			{JudgeID: "judge-1", CategoryID: 1, Action: storage.ActivitySubmit},
		})

		assert.False(t, m.Submitted(), "Unlocked cells mean a draft state")
		assert.True(t, m.EverSubmitted(), "Submit history should keep the flag set")
	})

	t.Run("Happy path - non-submit history does not set the flag", func(t *testing.T) {
		m := DeriveLockMachine(nil, []*storage.ActivityRecord{
			{JudgeID: "judge-1", CategoryID: 1, Action: storage.ActivityRankChange},
		})
		assert.False(t, m.EverSubmitted())
	})

	t.Run("Edge case - empty sheet is a draft", func(t *testing.T) {
		m := DeriveLockMachine(nil, nil)
		assert.Equal(t, StateDraft, m.State())
	})
}
