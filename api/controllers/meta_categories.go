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

type CategoryMetaController struct {
	storage storage.CategoryStorage
}

func NewCategoryMetaController(s storage.CategoryStorage) *CategoryMetaController {
	return &CategoryMetaController{storage: s}
}

func (c *CategoryMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/categories")

	group.GET("", c.getAll)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
	group.PUT("/:id", transport.AdminAuthMiddleware(), c.update)
	group.DELETE("/:id", transport.AdminAuthMiddleware(), c.delete)
}

// @Summary Get all categories
// @Tags Meta/Categories
// @Produce json
// @Success 200 {array} models.CategoryResponse
// @Failure 500 {object} map[string]string
// @Router /api/meta/categories [get]
func (c *CategoryMetaController) getAll(g *gin.Context) {
	categories, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to get all categories: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		responses = append(responses, models.TransformCategoryFromStorage(cat))
	}
	g.JSON(http.StatusOK, responses)
}

// @Security AdminToken
// @Summary Create a category
// @Tags Meta/Categories
// @Accept json
// @Produce json
// @Param category body models.CategoryCreateRequest true "Category object"
// @Success 200 {object} models.CategoryResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/categories [post]
func (c *CategoryMetaController) create(g *gin.Context) {
	var req models.CategoryCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid create category request: %v", err)
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.Name == "" {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request empty name"})
		return
	}
	tabularType := req.TabularType
	if tabularType == "" {
		tabularType = storage.TabularTypeScoring
	}
	if tabularType != storage.TabularTypeScoring && tabularType != storage.TabularTypeRanking {
		g.JSON(http.StatusBadRequest, gin.H{"error": "tabularType must be scoring or ranking"})
		return
	}

	category := &storage.Category{
		ID:          req.ID,
		Name:        req.Name,
		TabularType: tabularType,
		Order:       req.Order,
	}

	if err := c.storage.Create(g.Request.Context(), category); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			logging.Log.Warnf("META: category with ID %d already exists", req.ID)
			g.JSON(http.StatusConflict, gin.H{"error": "category with ID already exists"})
			return
		}

		logging.Log.Errorf("META: failed to create category: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformCategoryFromStorage(category))
}

// @Security AdminToken
// @Summary Update an existing category
// @Description Also flips the completion flag that excludes the category from aggregation
// @Tags Meta/Categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param category body models.CategoryUpdateRequest true "Category update object"
// @Success 200 {object} models.CategoryResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/categories/{id} [put]
func (c *CategoryMetaController) update(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	var req models.CategoryUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid update category request: %v", err)
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Name == "" {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request empty name"})
		return
	}

	category := &storage.Category{
		ID:          id,
		Name:        req.Name,
		TabularType: req.TabularType,
		Completed:   req.Completed,
		Order:       req.Order,
	}

	if err := c.storage.Update(g.Request.Context(), category); err != nil {
		logging.Log.Errorf("META: failed to update category: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformCategoryFromStorage(category))
}

// @Security AdminToken
// @Summary Delete a category
// @Tags Meta/Categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/categories/{id} [delete]
func (c *CategoryMetaController) delete(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}
	if err := c.storage.Delete(g.Request.Context(), id); err != nil {
		logging.Log.Errorf("META: failed to delete category: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
