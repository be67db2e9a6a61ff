package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blutech18/LDCU-Tabulation-sub001/api/models"
	"github.com/blutech18/LDCU-Tabulation-sub001/api/transport"
	"github.com/blutech18/LDCU-Tabulation-sub001/logging"
	"github.com/blutech18/LDCU-Tabulation-sub001/storage"
)

type CriterionMetaController struct {
	storage storage.CriterionStorage
}

func NewCriterionMetaController(s storage.CriterionStorage) *CriterionMetaController {
	return &CriterionMetaController{storage: s}
}

func (c *CriterionMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/criteria")

	group.GET("", c.getAll)
	group.GET("/category/:id", c.getByCategory)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
	group.DELETE("/:id", transport.AdminAuthMiddleware(), c.delete)
}

// @Summary Get all criteria
// @Tags Meta/Criteria
// @Produce json
// @Success 200 {array} models.CriterionResponse
// @Failure 500 {object} map[string]string
// @Router /api/meta/criteria [get]
func (c *CriterionMetaController) getAll(g *gin.Context) {
	criteria, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to get all criteria: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.CriterionResponse, 0, len(criteria))
	for _, cr := range criteria {
		responses = append(responses, models.TransformCriterionFromStorage(cr))
	}
	g.JSON(http.StatusOK, responses)
}

// @Summary Get the criteria of one category
// @Tags Meta/Criteria
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {array} models.CriterionResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/criteria/category/{id} [get]
func (c *CriterionMetaController) getByCategory(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}
	criteria, err := c.storage.GetByCategory(g.Request.Context(), id)
	if err != nil {
		logging.Log.Errorf("META: failed to get criteria for category %d: %v", id, err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.CriterionResponse, 0, len(criteria))
	for _, cr := range criteria {
		responses = append(responses, models.TransformCriterionFromStorage(cr))
	}
	g.JSON(http.StatusOK, responses)
}

// @Security AdminToken
// @Summary Create a criterion
// @Tags Meta/Criteria
// @Accept json
// @Produce json
// @Param criterion body models.CriterionCreateRequest true "Criterion object"
// @Success 200 {object} models.CriterionResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/criteria [post]
func (c *CriterionMetaController) create(g *gin.Context) {
	var req models.CriterionCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid create criterion request: %v", err)
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.Name == "" || req.Percentage <= 0 {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request, name and positive percentage required"})
		return
	}

	criterion := &storage.Criterion{
		ID:         req.ID,
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Percentage: req.Percentage,
		MinScore:   req.MinScore,
		MaxScore:   req.MaxScore,
		Order:      req.Order,
	}

	if err := c.storage.Create(g.Request.Context(), criterion); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			logging.Log.Warnf("META: criterion with ID %d already exists", req.ID)
			g.JSON(http.StatusConflict, gin.H{"error": "criterion with ID already exists"})
			return
		}

		logging.Log.Errorf("META: failed to create criterion: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformCriterionFromStorage(criterion))
}

// @Security AdminToken
// @Summary Delete a criterion
// @Tags Meta/Criteria
// @Produce json
// @Param id path int true "Criterion ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/criteria/{id} [delete]
func (c *CriterionMetaController) delete(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid criterion id"})
		return
	}
	if err := c.storage.Delete(g.Request.Context(), id); err != nil {
		logging.Log.Errorf("META: failed to delete criterion: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, gin.H{"message": "criterion deleted"})
}
