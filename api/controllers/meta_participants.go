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

// ParticipantMetaController is the administration boundary for participants;
// the tabulation engine itself only ever reads them.
type ParticipantMetaController struct {
	storage storage.ParticipantStorage
}

func NewParticipantMetaController(s storage.ParticipantStorage) *ParticipantMetaController {
	return &ParticipantMetaController{storage: s}
}

func (c *ParticipantMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/participants")

	group.GET("", c.getAll)
	group.GET("/:id", transport.AdminAuthMiddleware(), c.get)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
	group.PUT("/:id", transport.AdminAuthMiddleware(), c.update)
	group.DELETE("/:id", transport.AdminAuthMiddleware(), c.delete)
}

// @Summary Get all participants
// @Tags Meta/Participants
// @Produce json
// @Success 200 {array} models.ParticipantResponse
// @Failure 500 {object} map[string]string
// @Router /api/meta/participants [get]
func (c *ParticipantMetaController) getAll(g *gin.Context) {
	participants, err := c.storage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to get all participants: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		responses = append(responses, models.TransformParticipantFromStorage(p))
	}
	g.JSON(http.StatusOK, responses)
}

// @Security AdminToken
// @Summary Get a participant by ID
// @Tags Meta/Participants
// @Produce json
// @Param id path int true "Participant ID"
// @Success 200 {object} models.ParticipantResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/participants/{id} [get]
func (c *ParticipantMetaController) get(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid participant id"})
		return
	}
	participant, err := c.storage.Get(g.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			g.JSON(http.StatusNotFound, gin.H{"error": "participant not found"})
			return
		}
		logging.Log.Errorf("META: failed to get participant: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformParticipantFromStorage(participant))
}

// @Security AdminToken
// @Summary Create a participant
// @Tags Meta/Participants
// @Accept json
// @Produce json
// @Param participant body models.ParticipantCreateRequest true "Participant object"
// @Success 200 {object} models.ParticipantResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/participants [post]
func (c *ParticipantMetaController) create(g *gin.Context) {
	var req models.ParticipantCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid create participant request: %v", err)
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.Name == "" {
		logging.Log.Errorf("META: invalid create participant request: %v", req)
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request empty name"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	participant := &storage.Participant{
		ID:       req.ID,
		Name:     req.Name,
		Number:   req.Number,
		Division: req.Division,
		Active:   active,
	}

	if err := c.storage.Create(g.Request.Context(), participant); err != nil {
		if errors.Is(err, storage.ErrItemWithIDAlreadyExists) {
			logging.Log.Warnf("META: participant with ID %d already exists", req.ID)
			g.JSON(http.StatusConflict, gin.H{"error": "participant with ID already exists"})
			return
		}

		logging.Log.Errorf("META: failed to create participant: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformParticipantFromStorage(participant))
}

// @Security AdminToken
// @Summary Update an existing participant
// @Tags Meta/Participants
// @Accept json
// @Produce json
// @Param id path int true "Participant ID"
// @Param participant body models.ParticipantUpdateRequest true "Participant update object"
// @Success 200 {object} models.ParticipantResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/participants/{id} [put]
func (c *ParticipantMetaController) update(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid participant id"})
		return
	}

	var req models.ParticipantUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		logging.Log.Errorf("META: invalid update participant request: %v", err)
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Name == "" {
		logging.Log.Errorf("META: invalid update participant request: %v", req)
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid request empty name"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	participant := &storage.Participant{
		ID:       id,
		Name:     req.Name,
		Number:   req.Number,
		Division: req.Division,
		Active:   active,
	}

	if err := c.storage.Update(g.Request.Context(), participant); err != nil {
		logging.Log.Errorf("META: failed to update participant: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, models.TransformParticipantFromStorage(participant))
}

// @Security AdminToken
// @Summary Delete a participant
// @Tags Meta/Participants
// @Produce json
// @Param id path int true "Participant ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/meta/participants/{id} [delete]
func (c *ParticipantMetaController) delete(g *gin.Context) {
	id, err := strconv.Atoi(g.Param("id"))
	if err != nil {
		g.JSON(http.StatusBadRequest, gin.H{"error": "invalid participant id"})
		return
	}
	if err := c.storage.Delete(g.Request.Context(), id); err != nil {
		logging.Log.Errorf("META: failed to delete participant: %v", err)
		g.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.JSON(http.StatusOK, gin.H{"message": "participant deleted"})
}
