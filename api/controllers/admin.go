package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/blutech18/LDCU-Tabulation-sub001/api/models"
	"github.com/blutech18/LDCU-Tabulation-sub001/api/transport"
	"github.com/blutech18/LDCU-Tabulation-sub001/logging"
	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
)

// AdminController exposes the audit trail to the activity-log viewer. Records
// are produced by submit/unlock/score-change events and are read-only here.
type AdminController struct {
	activityStorage storage.ActivityStorage
}

func NewAdminController(s storage.ActivityStorage) *AdminController {
	return &AdminController{activityStorage: s}
}

func (c *AdminController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/admin", transport.AdminAuthMiddleware())

	group.GET("/activity", c.listActivity)
	group.GET("/activity/:judge", c.listActivityByJudge)
}

// @Security AdminToken
// listActivity godoc
// @Summary List all judge activity records
// @Tags admin
// @Produce json
// @Success 200 {array} models.ActivityResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/activity [get]
func (c *AdminController) listActivity(g *gin.Context) {
	records, err := c.activityStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to list activity records: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Timestamp.Before(records[j].Timestamp) })

	responses := make([]models.ActivityResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, models.TransformActivityFromStorage(r))
	}
	logging.Log.Infof("ADMIN: listed %d activity records", len(responses))
	g.JSON(http.StatusOK, responses)
}

// @Security AdminToken
// listActivityByJudge godoc
// @Summary List one judge's activity records
// @Tags admin
// @Produce json
// @Param judge path string true "Judge ID"
// @Success 200 {array} models.ActivityResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/activity/{judge} [get]
func (c *AdminController) listActivityByJudge(g *gin.Context) {
	judgeID := g.Param("judge")
	if judgeID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "judge is required"})
		return
	}

	records, err := c.activityStorage.GetByJudge(g.Request.Context(), judgeID)
	if err != nil {
		logging.Log.Errorf("ADMIN: failed to list activity for judge %s: %v", judgeID, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Timestamp.Before(records[j].Timestamp) })

	responses := make([]models.ActivityResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, models.TransformActivityFromStorage(r))
	}
	g.JSON(http.StatusOK, responses)
}
