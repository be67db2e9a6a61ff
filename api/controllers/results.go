package controllers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blutech18/LDCU-Tabulation-sub001/api/models"
	"github.com/blutech18/LDCU-Tabulation-sub001/logging"
	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
	"github.com/blutech18/LDCU-Tabulation-sub001/tabulation"
)

// ResultsController serves category and final standings. Results are a pure
// function of whatever is persisted right now: every request refetches and
// recomputes, nothing is cached.
type ResultsController struct {
	scores       storage.ScoreStorage
	participants storage.ParticipantStorage
	categories   storage.CategoryStorage
	defaultMode  string
}

func NewResultsController(scores storage.ScoreStorage, participants storage.ParticipantStorage, categories storage.CategoryStorage, defaultMode string) *ResultsController {
	return &ResultsController{
		scores:       scores,
		participants: participants,
		categories:   categories,
		defaultMode:  defaultMode,
	}
}

// mode resolves the aggregation mode for a request, falling back to the
// configured default when the query parameter is absent.
func (c *ResultsController) mode(g *gin.Context) string {
	if mode := g.Query("mode"); mode != "" {
		return mode
	}
	return c.defaultMode
}

func (c *ResultsController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/results")

	group.GET("/category/:category", c.categoryResults)
	group.GET("/final", c.finalResults)
}

func (c *ResultsController) activeParticipants(g *gin.Context, division string) ([]*storage.Participant, bool) {
	participants, err := c.participants.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("RESULT: failed to load participants: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load participants"})
		return nil, false
	}

	var active []*storage.Participant
	for _, p := range participants {
		if p.Active {
			active = append(active, p)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Number < active[j].Number })
	return tabulation.FilterDivision(active, division), true
}

// categoryResults godoc
// @Summary Compute one category's standings
// @Description Averages each judge's contribution per participant and dense-ranks the averages
// @Tags results
// @Produce json
// @Param category path int true "Category ID"
// @Param mode query string false "Aggregation mode: rank (default) or score"
// @Param division query string false "Division filter"
// @Success 200 {object} models.CategoryResultsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/results/category/{category} [get]
func (c *ResultsController) categoryResults(g *gin.Context) {
	categoryID, err := strconv.Atoi(g.Param("category"))
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid category id"})
		return
	}

	category, err := c.categories.Get(g.Request.Context(), categoryID)
	if err != nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "category not found"})
		return
	}

	division := g.Query("division")
	participants, ok := c.activeParticipants(g, division)
	if !ok {
		return
	}

	cells, err := c.scores.GetByCategory(g.Request.Context(), categoryID)
	if err != nil {
		logging.Log.Errorf("RESULT: failed to load cells for category %d: %v", categoryID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load scores"})
		return
	}

	agg := tabulation.AggregatorForMode(c.mode(g))
	standings := tabulation.CategoryStandings(agg, tabulation.CategoryData{
		Category: category,
		Cells:    cells,
	}, participants)

	g.JSON(http.StatusOK, &models.CategoryResultsResponse{
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Mode:         agg.Mode(),
		Division:     division,
		Results:      models.TransformResultEntries(standings, participants),
	})
}

// finalResults godoc
// @Summary Compute the overall event standings
// @Description Averages category contributions per participant across all non-completed categories and dense-ranks the result
// @Tags results
// @Produce json
// @Param mode query string false "Aggregation mode: rank (default) or score"
// @Param division query string false "Division filter"
// @Success 200 {object} models.FinalResultsResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/results/final [get]
func (c *ResultsController) finalResults(g *gin.Context) {
	division := g.Query("division")
	participants, ok := c.activeParticipants(g, division)
	if !ok {
		return
	}

	categories, err := c.categories.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("RESULT: failed to load categories: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load categories"})
		return
	}

	cells, err := c.scores.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("RESULT: failed to load score cells: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load scores"})
		return
	}

	cellsByCategory := make(map[int][]*storage.ScoreCell)
	for _, cell := range cells {
		cellsByCategory[cell.CategoryID] = append(cellsByCategory[cell.CategoryID], cell)
	}

	data := make([]tabulation.CategoryData, 0, len(categories))
	for _, category := range categories {
		data = append(data, tabulation.CategoryData{
			Category: category,
			Cells:    cellsByCategory[category.ID],
		})
	}

	agg := tabulation.AggregatorForMode(c.mode(g))
	standings := tabulation.FinalStandings(agg, data, participants)

	g.JSON(http.StatusOK, &models.FinalResultsResponse{
		Mode:     agg.Mode(),
		Division: division,
		Results:  models.TransformResultEntries(standings, participants),
	})
}
