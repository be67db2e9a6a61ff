package tabulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
)

func TestDenseRankScores(t *testing.T) {
	t.Run("Happy path - ties share a rank, next distinct takes the following integer", func(t *testing.T) {
		standings := DenseRankScores(map[int]float64{
			1: 90,
			2: 90,
			3: 80,
		})

		assert.Len(t, standings, 3)
		assert.Equal(t, 1, standings[0].Rank, "First tied total should rank 1")
		assert.Equal(t, 1, standings[1].Rank, "Second tied total should rank 1")
		assert.Equal(t, 2, standings[2].Rank, "Next distinct total should rank 2, not 3")
		assert.Equal(t, 3, standings[2].ParticipantID)
	})

	t.Run("Happy path - descending order with deterministic tie-break", func(t *testing.T) {
		standings := DenseRankScores(map[int]float64{
			5: 70,
			2: 85,
			9: 85,
		})

		assert.Equal(t, 2, standings[0].ParticipantID, "Tied totals should order by participant id")
		assert.Equal(t, 9, standings[1].ParticipantID)
		assert.Equal(t, 5, standings[2].ParticipantID)
		assert.Equal(t, 2, standings[2].Rank)
	})

	t.Run("Edge case - all-zero field stays unranked", func(t *testing.T) {
		standings := DenseRankScores(map[int]float64{
			1: 0,
			2: 0,
			3: 0,
		})

		assert.Len(t, standings, 3)
		for _, s := range standings {
			assert.Equal(t, 0, s.Rank, "Untouched sheet should not be ranked as a three-way tie")
		}
	})

	t.Run("Edge case - empty input", func(t *testing.T) {
		assert.Empty(t, DenseRankScores(nil))
	})
}

func TestDenseRankPositions(t *testing.T) {
	t.Run("Happy path - position 1 places first", func(t *testing.T) {
		standings := DenseRankPositions(map[int]int{
			1: 2,
			2: 1,
			3: 3,
		})

		assert.Equal(t, 2, standings[0].ParticipantID)
		assert.Equal(t, 1, standings[0].Rank)
		assert.Equal(t, 1, standings[1].ParticipantID)
		assert.Equal(t, 2, standings[1].Rank)
		assert.Equal(t, 3, standings[2].ParticipantID)
		assert.Equal(t, 3, standings[2].Rank)
	})

	t.Run("Edge case - unrecorded positions sort last and stay unranked", func(t *testing.T) {
		standings := DenseRankPositions(map[int]int{
			1: 1,
			2: 0,
			3: 2,
		})

		assert.Equal(t, 2, standings[2].ParticipantID, "Unrecorded position should be last")
		assert.Equal(t, 0, standings[2].Rank)
		assert.Equal(t, 1, standings[0].Rank)
		assert.Equal(t, 2, standings[1].Rank)
	})

	t.Run("Edge case - nothing recorded means nobody is ranked", func(t *testing.T) {
		standings := DenseRankPositions(map[int]int{1: 0, 2: 0})
		for _, s := range standings {
			assert.Equal(t, 0, s.Rank)
		}
	})
}

func TestRanksByParticipant(t *testing.T) {
	ranks := RanksByParticipant([]Standing{
		{ParticipantID: 1, Rank: 1},
		{ParticipantID: 2, Rank: 0},
		{ParticipantID: 3, Rank: 2},
	})

	assert.Equal(t, map[int]int{1: 1, 3: 2}, ranks, "Unranked entries should be omitted")
}

func TestFilterDivision(t *testing.T) {
	participants := []*storage.Participant{
		{ID: 1, Division: "junior"},
		{ID: 2, Division: "senior"},
		{ID: 3, Division: "junior"},
	}

	t.Run("Happy path - selects one division", func(t *testing.T) {
		filtered := FilterDivision(participants, "junior")
		assert.Len(t, filtered, 2)
		assert.Equal(t, 1, filtered[0].ID)
		assert.Equal(t, 3, filtered[1].ID)
	})

	t.Run("Edge case - empty division selects everyone", func(t *testing.T) {
		assert.Len(t, FilterDivision(participants, ""), 3)
	})

	t.Run("Edge case - unknown division selects nobody", func(t *testing.T) {
		assert.Empty(t, FilterDivision(participants, "open"))
	})
}
