package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/lineup-api/internal/domain/event"
	"github.com/gravadigital/lineup-api/internal/logger"
	"github.com/gravadigital/lineup-api/internal/response"
	"github.com/gravadigital/lineup-api/internal/storage/postgres"
	"github.com/gravadigital/lineup-api/internal/validation"
)

type EventHandler struct {
	eventRepo postgres.EventRepository
	venueRepo postgres.VenueRepository
	log       *log.Logger
}

func NewEventHandler(eventRepo postgres.EventRepository, venueRepo postgres.VenueRepository) *EventHandler {
	return &EventHandler{
		eventRepo: eventRepo,
		venueRepo: venueRepo,
		log:       logger.Handler("event"),
	}
}

type CreateEventRequest struct {
	Name        string `json:"name" binding:"required"`
	VenueID     string `json:"venue_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	TicketURL   string `json:"ticket_url"`
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		response.BadRequestError(c, "venue_id must be a valid UUID")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.BadRequestError(c, "date must be in YYYY-MM-DD format")
		return
	}

	if err := validation.ValidateClockTime(req.StartTime, "start_time"); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	if err := validation.ValidateClockTime(req.EndTime, "end_time"); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	if _, err := h.venueRepo.GetByID(req.VenueID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "Venue not found")
			return
		}
		response.BadRequestError(c, err.Error())
		return
	}

	e := event.NewManualEvent(req.Name, venueID, date, req.StartTime, req.EndTime)
	e.Description = req.Description
	e.ImageURL = req.ImageURL
	e.TicketURL = req.TicketURL

	if err := h.eventRepo.Create(e); err != nil {
		h.log.Error("failed to create event", "error", err)
		response.InternalServerError(c, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, e)
}

// GetEvents handles GET /api/events with optional venue_id, status,
// date_from and date_to filters
func (h *EventHandler) GetEvents(c *gin.Context) {
	filter := postgres.EventFilter{
		VenueID: c.Query("venue_id"),
		Status:  c.Query("status"),
	}

	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			response.BadRequestError(c, "date_from must be in YYYY-MM-DD format")
			return
		}
		filter.DateFrom = &t
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			response.BadRequestError(c, "date_to must be in YYYY-MM-DD format")
			return
		}
		filter.DateTo = &t
	}

	events, err := h.eventRepo.List(filter)
	if err != nil {
		h.log.Error("failed to list events", "error", err)
		response.BadRequestError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// GetEvent handles GET /api/events/:event_id
func (h *EventHandler) GetEvent(c *gin.Context) {
	e, err := h.eventRepo.GetByID(c.Param("event_id"))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "Event not found")
			return
		}
		response.BadRequestError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, e)
}

type UpdateEventRequest struct {
	Name        string `json:"name" binding:"required"`
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	TicketURL   string `json:"ticket_url"`
}

// UpdateEvent handles PUT /api/events/:event_id. The venue, workflow
// status and external linkage are not editable here.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	existing, err := h.eventRepo.GetByID(c.Param("event_id"))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "Event not found")
			return
		}
		response.BadRequestError(c, err.Error())
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.BadRequestError(c, "date must be in YYYY-MM-DD format")
		return
	}

	existing.Name = req.Name
	existing.Date = date
	existing.StartTime = req.StartTime
	existing.EndTime = req.EndTime
	existing.Description = req.Description
	existing.ImageURL = req.ImageURL
	existing.TicketURL = req.TicketURL

	if err := existing.Validate(); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	if err := h.eventRepo.Update(existing); err != nil {
		h.log.Error("failed to update event", "event_id", existing.ID, "error", err)
		response.InternalServerError(c, "Failed to update event")
		return
	}

	c.JSON(http.StatusOK, existing)
}

// DeleteEvent handles DELETE /api/events/:event_id. The run of show,
// if any, goes with it via the foreign key cascade.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventRepo.Delete(c.Param("event_id")); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "Event not found")
			return
		}
		h.log.Error("failed to delete event", "error", err)
		response.InternalServerError(c, "Failed to delete event")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Event deleted", nil)
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateEventStatus handles PATCH /api/events/:event_id/status
func (h *EventHandler) UpdateEventStatus(c *gin.Context) {
	existing, err := h.eventRepo.GetByID(c.Param("event_id"))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "Event not found")
			return
		}
		response.BadRequestError(c, err.Error())
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	newStatus, valid := event.StatusFromString(req.Status)
	if !valid {
		response.BadRequestError(c, "Invalid status: "+req.Status)
		return
	}

	if err := existing.UpdateStatus(newStatus); err != nil {
		response.ConflictError(c, err.Error())
		return
	}

	if err := h.eventRepo.Update(existing); err != nil {
		h.log.Error("failed to update event status", "event_id", existing.ID, "error", err)
		response.InternalServerError(c, "Failed to update event status")
		return
	}

	c.JSON(http.StatusOK, existing)
}
