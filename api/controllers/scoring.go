package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blutech18/LDCU-Tabulation-sub001/api/models"
	"github.com/blutech18/LDCU-Tabulation-sub001/logging"
	"github.com/blutech18/LDCU-Tabulation-sub001/tabulation"
)

// ScoringController is the judge-facing surface: reading a scoresheet,
// entering scores, committing drag-drop orders, and the submit/unlock
// transitions. All of it is scoped by the judge and category in the path.
type ScoringController struct {
	sessions *tabulation.Manager
}

func NewScoringController(sessions *tabulation.Manager) *ScoringController {
	return &ScoringController{sessions: sessions}
}

func (c *ScoringController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/sheet")

	group.GET("/:judge/:category", c.getSheet)
	group.PUT("/:judge/:category/score", c.putScore)
	group.POST("/:judge/:category/order", c.reorder)
	group.POST("/:judge/:category/submit", c.submit)
	group.POST("/:judge/:category/unlock", c.unlock)
	group.POST("/:judge/:category/refresh", c.refresh)
}

func (c *ScoringController) session(g *gin.Context) (*tabulation.Session, bool) {
	judgeID := g.Param("judge")
	categoryID, err := strconv.Atoi(g.Param("category"))
	if err != nil || judgeID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid judge or category"})
		return nil, false
	}

	session, err := c.sessions.Session(g.Request.Context(), judgeID, categoryID)
	if err != nil {
		logging.Log.Errorf("SCORE: failed to load session for judge %s category %d: %v", judgeID, categoryID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load scoresheet"})
		return nil, false
	}
	return session, true
}

// getSheet godoc
// @Summary Get a judge's scoresheet for a category
// @Description Returns cells, totals, current ranks and the locked/saving flags
// @Tags scoring
// @Produce json
// @Param judge path string true "Judge ID"
// @Param category path int true "Category ID"
// @Param division query string false "Division filter"
// @Success 200 {object} models.SheetResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/sheet/{judge}/{category} [get]
func (c *ScoringController) getSheet(g *gin.Context) {
	session, ok := c.session(g)
	if !ok {
		return
	}
	view := session.Sheet(g.Query("division"))
	g.JSON(http.StatusOK, models.TransformSheetView(view))
}

// putScore godoc
// @Summary Enter or clear one score cell
// @Description Clamps the value into the criterion bounds and arms the debounced auto-save; a null score clears the cell
// @Tags scoring
// @Accept json
// @Produce json
// @Param judge path string true "Judge ID"
// @Param category path int true "Category ID"
// @Param entry body models.ScoreEntryRequest true "Score entry"
// @Success 200 {object} models.CellResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Sheet is locked"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/sheet/{judge}/{category}/score [put]
func (c *ScoringController) putScore(g *gin.Context) {
	session, ok := c.session(g)
	if !ok {
		return
	}

	var req models.ScoreEntryRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	var cell tabulation.Cell
	var err error
	if req.Score == nil {
		cell, err = session.ClearScore(req.ParticipantID, req.CriterionID)
	} else {
		cell, err = session.SetScore(req.ParticipantID, req.CriterionID, *req.Score)
	}
	if err != nil {
		writeScoreError(g, err)
		return
	}
	g.JSON(http.StatusOK, models.TransformCell(cell))
}

// reorder godoc
// @Summary Commit a drag-drop rank order
// @Description Reassigns every member's rank to its 1-based position and writes the affected rows immediately
// @Tags scoring
// @Accept json
// @Produce json
// @Param judge path string true "Judge ID"
// @Param category path int true "Category ID"
// @Param order body models.ReorderRequest true "New order"
// @Success 200 {object} models.SheetResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Sheet is locked"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/sheet/{judge}/{category}/order [post]
func (c *ScoringController) reorder(g *gin.Context) {
	session, ok := c.session(g)
	if !ok {
		return
	}

	var req models.ReorderRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request format"})
		return
	}

	if err := session.Reorder(g.Request.Context(), req.Division, req.Order); err != nil {
		writeScoreError(g, err)
		return
	}
	g.JSON(http.StatusOK, models.TransformSheetView(session.Sheet(req.Division)))
}

// submit godoc
// @Summary Submit (lock) a judge's scoresheet
// @Description Writes every cell with a lock timestamp in one batch and appends an audit record
// @Tags scoring
// @Produce json
// @Param judge path string true "Judge ID"
// @Param category path int true "Category ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Already submitted"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/sheet/{judge}/{category}/submit [post]
func (c *ScoringController) submit(g *gin.Context) {
	session, ok := c.session(g)
	if !ok {
		return
	}

	if err := session.Submit(g.Request.Context()); err != nil {
		writeScoreError(g, err)
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "scoresheet submitted"})
}

// unlock godoc
// @Summary Unlock a submitted scoresheet
// @Description Clears the lock timestamp on every affected cell and appends an audit record
// @Tags scoring
// @Produce json
// @Param judge path string true "Judge ID"
// @Param category path int true "Category ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Not submitted"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/sheet/{judge}/{category}/unlock [post]
func (c *ScoringController) unlock(g *gin.Context) {
	session, ok := c.session(g)
	if !ok {
		return
	}

	if err := session.Unlock(g.Request.Context()); err != nil {
		writeScoreError(g, err)
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "scoresheet unlocked"})
}

// refresh godoc
// @Summary Drop the cached session and reload from storage
// @Description The explicit reload path; there is no live subscription to other judges' writes
// @Tags scoring
// @Produce json
// @Param judge path string true "Judge ID"
// @Param category path int true "Category ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/sheet/{judge}/{category}/refresh [post]
func (c *ScoringController) refresh(g *gin.Context) {
	judgeID := g.Param("judge")
	categoryID, err := strconv.Atoi(g.Param("category"))
	if err != nil || judgeID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid judge or category"})
		return
	}
	c.sessions.Invalidate(judgeID, categoryID)
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "session refreshed"})
}

func writeScoreError(g *gin.Context, err error) {
	switch {
	case errors.Is(err, tabulation.ErrSheetLocked),
		errors.Is(err, tabulation.ErrAlreadySubmitted),
		errors.Is(err, tabulation.ErrNotSubmitted):
		g.JSON(http.StatusConflict, &models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, tabulation.ErrUnknownCriterion),
		errors.Is(err, tabulation.ErrUnknownParticipant),
		errors.Is(err, tabulation.ErrBadOrder):
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: err.Error()})
	default:
		logging.Log.Errorf("SCORE: operation failed: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "operation failed"})
	}
}
