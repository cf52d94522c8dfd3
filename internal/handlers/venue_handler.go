package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/lineup-api/internal/domain/venue"
	"github.com/gravadigital/lineup-api/internal/logger"
	"github.com/gravadigital/lineup-api/internal/response"
	"github.com/gravadigital/lineup-api/internal/storage/postgres"
	"github.com/gravadigital/lineup-api/internal/ticketmaster"
)

type VenueHandler struct {
	venueRepo postgres.VenueRepository
	tm        *ticketmaster.Client
	log       *log.Logger
}

func NewVenueHandler(venueRepo postgres.VenueRepository, tm *ticketmaster.Client) *VenueHandler {
	return &VenueHandler{
		venueRepo: venueRepo,
		tm:        tm,
		log:       logger.Handler("venue"),
	}
}

type VenueRequest struct {
	Name              string `json:"name" binding:"required"`
	Address           string `json:"address" binding:"required"`
	City              string `json:"city" binding:"required"`
	State             string `json:"state" binding:"required"`
	ZipCode           string `json:"zip_code" binding:"required"`
	Capacity          *int   `json:"capacity"`
	Description       string `json:"description"`
	ContactEmail      string `json:"contact_email" binding:"required"`
	ContactPhone      string `json:"contact_phone"`
	ImageURL          string `json:"image_url"`
	IsActive          *bool  `json:"is_active"`
	TicketmasterID    string `json:"ticketmaster_id"`
	EventSourceURL    string `json:"event_source_url"`
	AutoImportEnabled bool   `json:"auto_import_enabled"`
}

func (r *VenueRequest) apply(v *venue.Venue) {
	v.Name = r.Name
	v.Address = r.Address
	v.City = r.City
	v.State = r.State
	v.ZipCode = r.ZipCode
	v.Capacity = r.Capacity
	v.Description = r.Description
	v.ContactEmail = r.ContactEmail
	v.ContactPhone = r.ContactPhone
	v.ImageURL = r.ImageURL
	v.IsActive = r.IsActive == nil || *r.IsActive
	v.TicketmasterID = r.TicketmasterID
	v.EventSourceURL = r.EventSourceURL
	v.AutoImportEnabled = r.AutoImportEnabled
}

// CreateVenue handles POST /api/venues
func (h *VenueHandler) CreateVenue(c *gin.Context) {
	var req VenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	v := &venue.Venue{}
	req.apply(v)

	if err := v.Validate(); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	if err := h.venueRepo.Create(v); err != nil {
		h.log.Error("failed to create venue", "error", err)
		response.InternalServerError(c, "Failed to create venue")
		return
	}

	c.JSON(http.StatusCreated, v)
}

// GetVenues handles GET /api/venues
func (h *VenueHandler) GetVenues(c *gin.Context) {
	venues, err := h.venueRepo.GetAll()
	if err != nil {
		h.log.Error("failed to list venues", "error", err)
		response.InternalServerError(c, "Failed to list venues")
		return
	}

	c.JSON(http.StatusOK, gin.H{"venues": venues, "count": len(venues)})
}

// GetVenue handles GET /api/venues/:venue_id
func (h *VenueHandler) GetVenue(c *gin.Context) {
	v, err := h.venueRepo.GetByID(c.Param("venue_id"))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "Venue not found")
			return
		}
		response.BadRequestError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, v)
}

// UpdateVenue handles PUT /api/venues/:venue_id
func (h *VenueHandler) UpdateVenue(c *gin.Context) {
	existing, err := h.venueRepo.GetByID(c.Param("venue_id"))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "Venue not found")
			return
		}
		response.BadRequestError(c, err.Error())
		return
	}

	var req VenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	req.apply(existing)

	if err := existing.Validate(); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	if err := h.venueRepo.Update(existing); err != nil {
		h.log.Error("failed to update venue", "venue_id", existing.ID, "error", err)
		response.InternalServerError(c, "Failed to update venue")
		return
	}

	c.JSON(http.StatusOK, existing)
}

// DeleteVenue handles DELETE /api/venues/:venue_id
func (h *VenueHandler) DeleteVenue(c *gin.Context) {
	if err := h.venueRepo.Delete(c.Param("venue_id")); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "Venue not found")
			return
		}
		h.log.Error("failed to delete venue", "error", err)
		response.InternalServerError(c, "Failed to delete venue")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Venue deleted", nil)
}

// SearchTicketmasterVenues handles GET /api/venues/ticketmaster-search.
// Admins use it to find the external id to link a venue with.
func (h *VenueHandler) SearchTicketmasterVenues(c *gin.Context) {
	params := ticketmaster.VenueSearchParams{
		Keyword:    c.Query("keyword"),
		City:       c.Query("city"),
		StateCode:  c.Query("state_code"),
		PostalCode: c.Query("postal_code"),
	}
	if size := c.Query("size"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 1 {
			response.BadRequestError(c, "size must be a positive integer")
			return
		}
		params.Size = n
	}

	if params.Keyword == "" && params.City == "" && params.PostalCode == "" {
		response.BadRequestError(c, "at least one of keyword, city or postal_code is required")
		return
	}

	venues, err := h.tm.SearchVenues(c.Request.Context(), params)
	if err != nil {
		h.log.Error("ticketmaster venue search failed", "error", err)
		response.InternalServerError(c, "Venue search failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"venues": venues, "count": len(venues)})
}
