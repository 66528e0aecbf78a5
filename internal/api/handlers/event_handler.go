package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tempohub/tempohub-service/internal/catalog"
	"github.com/tempohub/tempohub-service/internal/models"
)

type EventHandler struct {
	catalog *catalog.Service
	logger  *zap.Logger
}

// ListEventsResponse is the body of GET /events.
type ListEventsResponse struct {
	Events   []models.Event `json:"events"`
	Total    int            `json:"total"`
	Query    string         `json:"query"`
	Category string         `json:"category"`
}

func NewEventHandler(service *catalog.Service, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		catalog: service,
		logger:  logger.Named("event_handler"),
	}
}

func (h *EventHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": catalog.Categories()})
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	filter := catalog.Filter{
		Query:    c.Query("q"),
		Category: c.DefaultQuery("category", catalog.CategoryAll),
	}
	if filter.Category == "" {
		filter.Category = catalog.CategoryAll
	}

	events, err := h.catalog.List(c.Request.Context(), filter)
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ListEventsResponse{
		Events:   events,
		Total:    len(events),
		Query:    filter.Query,
		Category: filter.Category,
	})
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.catalog.Create(c.Request.Context(), req)
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}

	h.logger.Info("Event created via API",
		zap.String("event_id", event.ID),
		zap.String("user_id", viewerID(c)),
	)
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) PreviewEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.catalog.Preview(c.Request.Context(), req)
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *EventHandler) Register(c *gin.Context) {
	status, err := h.catalog.Register(c.Request.Context(), c.Param("id"), viewerID(c))
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *EventHandler) GetRegistration(c *gin.Context) {
	status, err := h.catalog.Registration(c.Request.Context(), c.Param("id"), viewerID(c))
	if err != nil {
		respondWithDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
