package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutils "github.com/blutech18/LDCU-Tabulation-sub001/api/controllers/testing"
	"github.com/blutech18/LDCU-Tabulation-sub001/api/models"
	"github.com/blutech18/LDCU-Tabulation-sub001/logging"
	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
)

func setupResultsTest(t *testing.T, defaultMode string) (*storage.MemoryScoreStorage, *storage.MemoryCategoryStorage, *gin.Engine) {
	t.Helper()
	logging.Log = logrus.New()

	scores := storage.NewMemoryScoreStorage()
	participants := storage.NewMemoryParticipantStorage()
	categories := storage.NewMemoryCategoryStorage()

	ctx := context.Background()
	require.NoError(t, categories.Create(ctx, &storage.Category{
		ID: 1, Name: "Talent", TabularType: storage.TabularTypeScoring, Order: 1,
	}))
	for i, name := range []string{"Team Aurora", "Team Borealis", "Team Cascade"} {
		require.NoError(t, participants.Create(ctx, &storage.Participant{
			ID: i + 1, Name: name, Number: i + 1, Division: "junior", Active: true,
		}))
	}
	require.NoError(t, participants.Create(ctx, &storage.Participant{
		ID: 4, Name: "Team Drift", Number: 4, Division: "senior", Active: true,
	}))

	// Judge A totals: P1=90, P2=80, P3=60. Judge B totals: P1=80, P2=85, P3=50.
	seed := []struct {
		judge       string
		criterion   int
		participant int
		score       float64
	}{
		{"judge-a", 11, 1, 55}, {"judge-a", 12, 1, 35},
		{"judge-a", 11, 2, 50}, {"judge-a", 12, 2, 30},
		{"judge-a", 11, 3, 40}, {"judge-a", 12, 3, 20},
		{"judge-b", 11, 1, 50}, {"judge-b", 12, 1, 30},
		{"judge-b", 11, 2, 50}, {"judge-b", 12, 2, 35},
		{"judge-b", 11, 3, 30}, {"judge-b", 12, 3, 20},
	}
	for _, s := range seed {
		require.NoError(t, scores.Upsert(ctx, &storage.ScoreCell{
			JudgeID:       s.judge,
			SortKey:       storage.ScoreSortKey(1, s.criterion, s.participant),
			CategoryID:    1,
			CriterionID:   s.criterion,
			ParticipantID: s.participant,
			Score:         s.score,
		}))
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewResultsController(scores, participants, categories, defaultMode).RegisterRoutes(r)

	return scores, categories, r
}

func TestCategoryResults(t *testing.T) {
	_, _, router := setupResultsTest(t, "rank")

	t.Run("Happy path - rank-based averages of per-judge dense ranks", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/results/category/1", nil, nil)
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.CategoryResultsResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))

		assert.Equal(t, 1, response.CategoryID)
		assert.Equal(t, "rank", response.Mode)
		require.Len(t, response.Results, 4)

		// P1 ranks {1,2} -> 1.5, P2 ranks {2,1} -> 1.5, P3 ranks {3,3} -> 3.
		assert.Equal(t, 1.5, response.Results[0].Average)
		assert.Equal(t, 1, response.Results[0].Rank)
		assert.Equal(t, 1.5, response.Results[1].Average)
		assert.Equal(t, 1, response.Results[1].Rank, "Tied averages should share rank 1")
		assert.Equal(t, 3, response.Results[2].ParticipantID)
		assert.Equal(t, 2, response.Results[2].Rank)
		assert.False(t, response.Results[3].Ranked, "Participant with no scores should be unranked")
	})

	t.Run("Happy path - score mode averages raw totals", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/results/category/1?mode=score", nil, nil)
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.CategoryResultsResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))

		assert.Equal(t, "score", response.Mode)
		assert.Equal(t, 1, response.Results[0].ParticipantID)
		assert.Equal(t, 85.0, response.Results[0].Average)
		assert.Equal(t, 82.5, response.Results[1].Average)
	})

	t.Run("Happy path - division filter scopes the field", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/results/category/1?division=senior", nil, nil)
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.CategoryResultsResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		require.Len(t, response.Results, 1)
		assert.Equal(t, 4, response.Results[0].ParticipantID)
	})

	t.Run("Unhappy path - unknown category", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/results/category/99", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("Unhappy path - invalid category id", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/results/category/abc", nil, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestDefaultMode(t *testing.T) {
	_, _, router := setupResultsTest(t, "score")

	t.Run("Happy path - configured default applies when mode is omitted", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/results/category/1", nil, nil)
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.CategoryResultsResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))

		assert.Equal(t, "score", response.Mode)
		assert.Equal(t, 85.0, response.Results[0].Average)
	})

	t.Run("Happy path - explicit mode overrides the default", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/results/category/1?mode=rank", nil, nil)
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.CategoryResultsResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		assert.Equal(t, "rank", response.Mode)
	})

	t.Run("Happy path - final results honor the default too", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/results/final", nil, nil)
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.FinalResultsResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
		assert.Equal(t, "score", response.Mode)
	})
}

func TestFinalResults(t *testing.T) {
	scores, categories, router := setupResultsTest(t, "rank")
	ctx := context.Background()

	t.Run("Happy path - single category final mirrors the category result", func(t *testing.T) {
		res := testutils.PerformRequest(router, http.MethodGet, "/api/results/final", nil, nil)
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.FinalResultsResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))

		require.Len(t, response.Results, 4)
		assert.Equal(t, 1.5, response.Results[0].Average)
		assert.Equal(t, 1, response.Results[0].Rank)
	})

	t.Run("Happy path - completed category is excluded from the average", func(t *testing.T) {
		require.NoError(t, categories.Create(ctx, &storage.Category{
			ID: 2, Name: "Production", TabularType: storage.TabularTypeScoring, Completed: true, Order: 2,
		}))
		require.NoError(t, scores.Upsert(ctx, &storage.ScoreCell{
			JudgeID: "judge-a", SortKey: storage.ScoreSortKey(2, 21, 3),
			CategoryID: 2, CriterionID: 21, ParticipantID: 3, Score: 100,
		}))

		res := testutils.PerformRequest(router, http.MethodGet, "/api/results/final", nil, nil)
		assert.Equal(t, http.StatusOK, res.Code)

		var response models.FinalResultsResponse
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))

		byID := make(map[int]models.ResultEntry)
		for _, entry := range response.Results {
			byID[entry.ParticipantID] = entry
		}
		assert.Equal(t, 3.0, byID[3].Average, "Completed category should not move the aggregate")
	})
}
