package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreSortKey(t *testing.T) {
	assert.Equal(t, "cat#1#crit#11#p#3", ScoreSortKey(1, 11, 3))
}

func TestMemoryScoreStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Happy path - upsert is idempotent per key", func(t *testing.T) {
		s := NewMemoryScoreStorage()
		for _, score := range []float64{10, 20, 30} {
			require.NoError(t, s.Upsert(ctx, &ScoreCell{
				JudgeID: "judge-1", SortKey: ScoreSortKey(1, 11, 1),
				CategoryID: 1, CriterionID: 11, ParticipantID: 1, Score: score,
			}))
		}

		cells, err := s.GetByJudgeCategory(ctx, "judge-1", 1)
		require.NoError(t, err)
		require.Len(t, cells, 1, "Repeated upserts should keep one row")
		assert.Equal(t, 30.0, cells[0].Score, "Last payload wins")
	})

	t.Run("Happy path - clear locks is scoped to one judge and category", func(t *testing.T) {
		s := NewMemoryScoreStorage()
		ts := time.Now().UTC()
		require.NoError(t, s.BatchUpsert(ctx, []*ScoreCell{
			{JudgeID: "judge-1", SortKey: ScoreSortKey(1, 11, 1), CategoryID: 1, CriterionID: 11, ParticipantID: 1, LockedAt: &ts},
			{JudgeID: "judge-2", SortKey: ScoreSortKey(1, 11, 1), CategoryID: 1, CriterionID: 11, ParticipantID: 1, LockedAt: &ts},
		}))

		require.NoError(t, s.ClearLocks(ctx, "judge-1", 1))

		mine, err := s.GetByJudgeCategory(ctx, "judge-1", 1)
		require.NoError(t, err)
		assert.Nil(t, mine[0].LockedAt)

		theirs, err := s.GetByJudgeCategory(ctx, "judge-2", 1)
		require.NoError(t, err)
		assert.NotNil(t, theirs[0].LockedAt, "Another judge's lock should survive")
	})

	t.Run("Happy path - category scan spans judges", func(t *testing.T) {
		s := NewMemoryScoreStorage()
		require.NoError(t, s.BatchUpsert(ctx, []*ScoreCell{
			{JudgeID: "judge-1", SortKey: ScoreSortKey(1, 11, 1), CategoryID: 1, CriterionID: 11, ParticipantID: 1, Score: 10},
			{JudgeID: "judge-2", SortKey: ScoreSortKey(1, 11, 1), CategoryID: 1, CriterionID: 11, ParticipantID: 1, Score: 20},
			{JudgeID: "judge-1", SortKey: ScoreSortKey(2, 21, 1), CategoryID: 2, CriterionID: 21, ParticipantID: 1, Score: 5},
		}))

		cells, err := s.GetByCategory(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, cells, 2)
	})
}
