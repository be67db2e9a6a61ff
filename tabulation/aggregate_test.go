package tabulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
)

func cell(judgeID string, categoryID, criterionID, participantID int, score float64, rank int) *storage.ScoreCell {
	return &storage.ScoreCell{
		JudgeID:       judgeID,
		SortKey:       storage.ScoreSortKey(categoryID, criterionID, participantID),
		CategoryID:    categoryID,
		CriterionID:   criterionID,
		ParticipantID: participantID,
		Score:         score,
		Rank:          rank,
	}
}

// Two judges, three participants, one scoring category with two criteria
// (max 60 and 40). Judge A totals: P1=90, P2=80, P3=60. Judge B totals:
// P1=80, P2=85, P3=50.
func twoJudgeCells() []*storage.ScoreCell {
	return []*storage.ScoreCell{
		cell("judge-a", 1, 11, 1, 55, 0), cell("judge-a", 1, 12, 1, 35, 0),
		cell("judge-a", 1, 11, 2, 50, 0), cell("judge-a", 1, 12, 2, 30, 0),
		cell("judge-a", 1, 11, 3, 40, 0), cell("judge-a", 1, 12, 3, 20, 0),
		cell("judge-b", 1, 11, 1, 50, 0), cell("judge-b", 1, 12, 1, 30, 0),
		cell("judge-b", 1, 11, 2, 50, 0), cell("judge-b", 1, 12, 2, 35, 0),
		cell("judge-b", 1, 11, 3, 30, 0), cell("judge-b", 1, 12, 3, 20, 0),
	}
}

func TestBuildJudgeSheets(t *testing.T) {
	participants := testParticipants()
	category := scoringCategory()

	t.Run("Happy path - totals and dense ranks per judge", func(t *testing.T) {
		sheets := BuildJudgeSheets(category, participants, twoJudgeCells())
		require.Len(t, sheets, 2)

		judgeA := sheets[0]
		assert.Equal(t, "judge-a", judgeA.JudgeID)
		assert.Equal(t, 90.0, judgeA.Totals[1])
		assert.Equal(t, map[int]int{1: 1, 2: 2, 3: 3}, judgeA.Ranks)

		judgeB := sheets[1]
		assert.Equal(t, 85.0, judgeB.Totals[2])
		assert.Equal(t, map[int]int{2: 1, 1: 2, 3: 3}, judgeB.Ranks)
	})

	t.Run("Happy path - ranking category uses recorded positions", func(t *testing.T) {
		cells := []*storage.ScoreCell{
			cell("judge-a", 2, 21, 1, 0, 2),
			cell("judge-a", 2, 21, 2, 0, 1),
			cell("judge-a", 2, 21, 3, 0, 3),
		}
		sheets := BuildJudgeSheets(rankingCategory(), participants, cells)
		require.Len(t, sheets, 1)
		assert.Equal(t, map[int]int{2: 1, 1: 2, 3: 3}, sheets[0].Ranks)
	})

	t.Run("Edge case - cells for other categories or participants are ignored", func(t *testing.T) {
		cells := []*storage.ScoreCell{
			cell("judge-a", 1, 11, 1, 50, 0),
			cell("judge-a", 9, 91, 1, 99, 0),
			cell("judge-a", 1, 11, 42, 99, 0),
		}
		sheets := BuildJudgeSheets(category, participants, cells)
		require.Len(t, sheets, 1)
		assert.Equal(t, 50.0, sheets[0].Totals[1])
	})
}

func TestCategoryStandingsRankBased(t *testing.T) {
	participants := testParticipants()
	data := CategoryData{Category: scoringCategory(), Cells: twoJudgeCells()}

	standings := CategoryStandings(RankBasedAggregator{}, data, participants)
	require.Len(t, standings, 3)

	// P1 ranks {1,2} -> 1.5, P2 ranks {2,1} -> 1.5, P3 ranks {3,3} -> 3.
	assert.Equal(t, 1, standings[0].ParticipantID)
	assert.Equal(t, 1.5, standings[0].Value)
	assert.Equal(t, 1, standings[0].Rank)

	assert.Equal(t, 2, standings[1].ParticipantID)
	assert.Equal(t, 1.5, standings[1].Value)
	assert.Equal(t, 1, standings[1].Rank, "Tied averages should share rank 1")

	assert.Equal(t, 3, standings[2].ParticipantID)
	assert.Equal(t, 3.0, standings[2].Value)
	assert.Equal(t, 2, standings[2].Rank, "Next distinct average should take rank 2")
}

func TestCategoryStandingsScoreBased(t *testing.T) {
	participants := testParticipants()

	t.Run("Happy path - averages raw totals, higher places first", func(t *testing.T) {
		data := CategoryData{Category: scoringCategory(), Cells: twoJudgeCells()}
		standings := CategoryStandings(ScoreBasedAggregator{}, data, participants)
		require.Len(t, standings, 3)

		// P1 (90+80)/2=85, P2 (80+85)/2=82.5, P3 (60+50)/2=55.
		assert.Equal(t, 1, standings[0].ParticipantID)
		assert.Equal(t, 85.0, standings[0].Value)
		assert.Equal(t, 2, standings[1].ParticipantID)
		assert.Equal(t, 82.5, standings[1].Value)
		assert.Equal(t, 3, standings[2].ParticipantID)
		assert.Equal(t, 3, standings[2].Rank)
	})

	t.Run("Edge case - ranking category contributes nothing in score mode", func(t *testing.T) {
		data := CategoryData{Category: rankingCategory(), Cells: []*storage.ScoreCell{
			cell("judge-a", 2, 21, 1, 0, 1),
			cell("judge-a", 2, 21, 2, 0, 2),
		}}
		standings := CategoryStandings(ScoreBasedAggregator{}, data, participants)
		for _, s := range standings {
			assert.Equal(t, 0, s.Rank, "Ranking categories carry no scores to average")
		}
	})

	t.Run("Edge case - an untouched judge sheet is excluded from the average", func(t *testing.T) {
		cells := append(twoJudgeCells(),
			cell("judge-c", 1, 11, 1, 0, 0),
			cell("judge-c", 1, 12, 1, 0, 0),
		)
		data := CategoryData{Category: scoringCategory(), Cells: cells}
		standings := CategoryStandings(ScoreBasedAggregator{}, data, participants)

		assert.Equal(t, 85.0, standings[0].Value, "All-zero sheet should not drag the average down")
	})
}

func TestCategoryAveragesCompletedExclusion(t *testing.T) {
	participants := testParticipants()
	completed := &storage.Category{ID: 1, Name: "Talent", TabularType: storage.TabularTypeScoring, Completed: true}

	averages := CategoryAverages(RankBasedAggregator{}, CategoryData{Category: completed, Cells: twoJudgeCells()}, participants)
	assert.Empty(t, averages, "Completed category should contribute nothing for anyone")
}

func TestFinalStandings(t *testing.T) {
	participants := testParticipants()

	t.Run("Happy path - averages category contributions", func(t *testing.T) {
		// Second scoring category where only judge A scored, reversing P1 and P3.
		second := &storage.Category{ID: 3, Name: "Production", TabularType: storage.TabularTypeScoring}
		secondCells := []*storage.ScoreCell{
			cell("judge-a", 3, 31, 1, 40, 0),
			cell("judge-a", 3, 31, 2, 60, 0),
			cell("judge-a", 3, 31, 3, 80, 0),
		}

		standings := FinalStandings(RankBasedAggregator{}, []CategoryData{
			{Category: scoringCategory(), Cells: twoJudgeCells()},
			{Category: second, Cells: secondCells},
		}, participants)
		require.Len(t, standings, 3)

		// P1 (1.5+3)/2=2.25, P2 (1.5+2)/2=1.75, P3 (3+1)/2=2.
		byID := make(map[int]Standing)
		for _, s := range standings {
			byID[s.ParticipantID] = s
		}
		assert.Equal(t, 1.75, byID[2].Value)
		assert.Equal(t, 1, byID[2].Rank)
		assert.Equal(t, 2.0, byID[3].Value)
		assert.Equal(t, 2, byID[3].Rank)
		assert.Equal(t, 2.25, byID[1].Value)
		assert.Equal(t, 3, byID[1].Rank)
	})

	t.Run("Happy path - completed category drops out of numerator and denominator", func(t *testing.T) {
		completed := &storage.Category{ID: 3, Name: "Production", TabularType: storage.TabularTypeScoring, Completed: true}
		standings := FinalStandings(RankBasedAggregator{}, []CategoryData{
			{Category: scoringCategory(), Cells: twoJudgeCells()},
			{Category: completed, Cells: []*storage.ScoreCell{cell("judge-a", 3, 31, 3, 100, 0)}},
		}, participants)

		byID := make(map[int]Standing)
		for _, s := range standings {
			byID[s.ParticipantID] = s
		}
		assert.Equal(t, 1.5, byID[1].Value, "Average should equal the non-completed category alone")
		assert.Equal(t, 3.0, byID[3].Value)
	})

	t.Run("Edge case - participant with no contributions stays unranked", func(t *testing.T) {
		standings := FinalStandings(RankBasedAggregator{}, []CategoryData{
			{Category: scoringCategory(), Cells: nil},
		}, participants)
		for _, s := range standings {
			assert.Equal(t, 0, s.Rank)
		}
	})
}

func TestAggregatorForMode(t *testing.T) {
	assert.Equal(t, "score", AggregatorForMode("score").Mode())
	assert.Equal(t, "rank", AggregatorForMode("rank").Mode())
	assert.Equal(t, "rank", AggregatorForMode("").Mode(), "Unrecognized mode should default to rank-based")
	assert.True(t, AggregatorForMode("rank").Ascending())
	assert.False(t, AggregatorForMode("score").Ascending())
}
