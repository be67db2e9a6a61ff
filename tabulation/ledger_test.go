package tabulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
)

func scoringCategory() *storage.Category {
	return &storage.Category{ID: 1, Name: "Talent", TabularType: storage.TabularTypeScoring}
}

func rankingCategory() *storage.Category {
	return &storage.Category{ID: 2, Name: "Best in Uniform", TabularType: storage.TabularTypeRanking}
}

func testCriteria() []*storage.Criterion {
	return []*storage.Criterion{
		{ID: 11, CategoryID: 1, Name: "Execution", Percentage: 50, Order: 1},
		{ID: 12, CategoryID: 1, Name: "Stage Presence", Percentage: 30, Order: 2},
		{ID: 13, CategoryID: 1, Name: "Impact", Percentage: 20, Order: 3},
	}
}

func testParticipants() []*storage.Participant {
	return []*storage.Participant{
		{ID: 1, Name: "Team Aurora", Number: 1, Division: "junior", Active: true},
		{ID: 2, Name: "Team Borealis", Number: 2, Division: "junior", Active: true},
		{ID: 3, Name: "Team Cascade", Number: 3, Division: "senior", Active: true},
	}
}

func TestLedgerSetAndTotals(t *testing.T) {
	l := NewLedger("judge-1", scoringCategory(), testCriteria(), testParticipants())

	t.Run("Happy path - set scores and total them", func(t *testing.T) {
		_, err := l.Set(1, 11, 45)
		require.NoError(t, err)
		_, err = l.Set(1, 12, 25)
		require.NoError(t, err)

		assert.Equal(t, 70.0, l.Total(1))
		assert.Equal(t, 0.0, l.Total(2), "Untouched participant should total zero")
	})

	t.Run("Happy path - value is clamped into criterion bounds", func(t *testing.T) {
		cell, err := l.Set(2, 11, 120)
		require.NoError(t, err)
		assert.Equal(t, 50.0, cell.Score, "Score above the criterion max should clamp down")

		cell, err = l.Set(2, 11, -5)
		require.NoError(t, err)
		assert.Equal(t, 0.0, cell.Score, "Negative score should clamp to zero")
	})

	t.Run("Happy path - totals are scoped to one division", func(t *testing.T) {
		totals := l.Totals("junior")
		assert.Len(t, totals, 2)
		assert.NotContains(t, totals, 3)
	})

	t.Run("Unhappy path - unknown criterion", func(t *testing.T) {
		_, err := l.Set(1, 99, 10)
		assert.ErrorIs(t, err, ErrUnknownCriterion)
	})

	t.Run("Unhappy path - unknown participant", func(t *testing.T) {
		_, err := l.Set(99, 11, 10)
		assert.ErrorIs(t, err, ErrUnknownParticipant)
	})
}

func TestLedgerClear(t *testing.T) {
	l := NewLedger("judge-1", scoringCategory(), testCriteria(), testParticipants())

	_, err := l.Set(1, 11, 30)
	require.NoError(t, err)

	cell, err := l.Clear(1, 11)
	require.NoError(t, err)

	assert.Equal(t, CellEmpty, cell.Kind, "Cleared cell should display blank")
	assert.Equal(t, 0.0, l.Total(1), "Cleared cell should count zero")

	row := l.Row(Key{JudgeID: "judge-1", ParticipantID: 1, CriterionID: 11}, time.Now())
	assert.Equal(t, 0.0, row.Score, "Cleared cell should persist as zero")
}

func TestLedgerLockUnlock(t *testing.T) {
	l := NewLedger("judge-1", scoringCategory(), testCriteria(), testParticipants())
	_, err := l.Set(1, 11, 40)
	require.NoError(t, err)

	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	l.Lock(ts)

	t.Run("Unhappy path - locked sheet rejects edits", func(t *testing.T) {
		_, err := l.Set(1, 12, 20)
		assert.ErrorIs(t, err, ErrSheetLocked)
		_, err = l.Clear(1, 11)
		assert.ErrorIs(t, err, ErrSheetLocked)
	})

	t.Run("Happy path - every row carries the lock timestamp", func(t *testing.T) {
		rows := l.Rows(time.Now())
		require.NotEmpty(t, rows)
		for _, row := range rows {
			require.NotNil(t, row.LockedAt)
			assert.Equal(t, ts, *row.LockedAt)
		}
	})

	t.Run("Happy path - unlock keeps values and reopens edits", func(t *testing.T) {
		l.Unlock()

		cell, ok := l.Get(1, 11)
		require.True(t, ok)
		assert.Equal(t, CellValue, cell.Kind)
		assert.Equal(t, 40.0, cell.Score)

		empty, ok := l.Get(2, 11)
		require.True(t, ok)
		assert.Equal(t, CellEmpty, empty.Kind, "Cell that was empty before submit should go back to empty")

		_, err := l.Set(1, 12, 20)
		assert.NoError(t, err)
	})
}

func TestLedgerLoadCells(t *testing.T) {
	t.Run("Happy path - persisted zero loads as empty", func(t *testing.T) {
		l := NewLedger("judge-1", scoringCategory(), testCriteria(), testParticipants())
		l.LoadCells([]*storage.ScoreCell{
			{JudgeID: "judge-1", CategoryID: 1, CriterionID: 11, ParticipantID: 1, Score: 0},
			{JudgeID: "judge-1", CategoryID: 1, CriterionID: 12, ParticipantID: 1, Score: 33},
		})

		empty, _ := l.Get(1, 11)
		assert.Equal(t, CellEmpty, empty.Kind)
		value, _ := l.Get(1, 12)
		assert.Equal(t, CellValue, value.Kind)
		assert.Equal(t, 33.0, value.Score)
		assert.False(t, l.Locked())
	})

	t.Run("Happy path - lock timestamp derives the locked state", func(t *testing.T) {
		l := NewLedger("judge-1", scoringCategory(), testCriteria(), testParticipants())
		ts := time.Now().UTC()
		l.LoadCells([]*storage.ScoreCell{
			{JudgeID: "judge-1", CategoryID: 1, CriterionID: 11, ParticipantID: 1, Score: 20, LockedAt: &ts},
		})

		assert.True(t, l.Locked())
		cell, _ := l.Get(1, 11)
		assert.Equal(t, CellLocked, cell.Kind)
	})

	t.Run("Edge case - rows outside the grid are ignored", func(t *testing.T) {
		l := NewLedger("judge-1", scoringCategory(), testCriteria(), testParticipants())
		l.LoadCells([]*storage.ScoreCell{
			{JudgeID: "judge-1", CategoryID: 1, CriterionID: 99, ParticipantID: 1, Score: 10},
		})
		assert.Equal(t, 0.0, l.Total(1))
	})
}

func TestLedgerReorder(t *testing.T) {
	criteria := []*storage.Criterion{
		{ID: 21, CategoryID: 2, Name: "Placement", Percentage: 100, Order: 1},
	}

	t.Run("Happy path - new order assigns 1-based ranks on the first criterion", func(t *testing.T) {
		l := NewLedger("judge-1", rankingCategory(), criteria, testParticipants())

		keys, err := l.Reorder("junior", []int{2, 1})
		require.NoError(t, err)
		assert.Len(t, keys, 2)

		first, _ := l.Get(2, 21)
		assert.Equal(t, 1, first.Rank)
		second, _ := l.Get(1, 21)
		assert.Equal(t, 2, second.Rank)
		assert.Equal(t, []int{2, 1}, l.Order("junior"))
	})

	t.Run("Unhappy path - order must be a permutation of the division", func(t *testing.T) {
		l := NewLedger("judge-1", rankingCategory(), criteria, testParticipants())

		_, err := l.Reorder("junior", []int{1})
		assert.ErrorIs(t, err, ErrBadOrder, "Missing member should be rejected")

		_, err = l.Reorder("junior", []int{1, 1})
		assert.ErrorIs(t, err, ErrBadOrder, "Duplicate member should be rejected")

		_, err = l.Reorder("junior", []int{1, 3})
		assert.ErrorIs(t, err, ErrBadOrder, "Member from another division should be rejected")
	})

	t.Run("Happy path - order survives a save and reload", func(t *testing.T) {
		l := NewLedger("judge-1", rankingCategory(), criteria, testParticipants())
		_, err := l.Reorder("junior", []int{2, 1})
		require.NoError(t, err)

		reloaded := NewLedger("judge-1", rankingCategory(), criteria, testParticipants())
		reloaded.LoadCells(l.Rows(time.Now()))

		assert.Equal(t, []int{2, 1}, reloaded.Order("junior"))
	})
}
