package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/lineup-api/internal/importer"
	"github.com/gravadigital/lineup-api/internal/logger"
	"github.com/gravadigital/lineup-api/internal/response"
	"github.com/gravadigital/lineup-api/internal/storage/postgres"
)

type ImportHandler struct {
	orchestrator *importer.Orchestrator
	venueRepo    postgres.VenueRepository
	log          *log.Logger
}

func NewImportHandler(orchestrator *importer.Orchestrator, venueRepo postgres.VenueRepository) *ImportHandler {
	return &ImportHandler{
		orchestrator: orchestrator,
		venueRepo:    venueRepo,
		log:          logger.Handler("import"),
	}
}

// RunImport handles POST /api/imports/run. It serves both the
// scheduled trigger and the admin's manual one; the run is synchronous
// and replies with the per-venue results.
func (h *ImportHandler) RunImport(c *gin.Context) {
	results, err := h.orchestrator.RunAll(c.Request.Context())
	if err != nil {
		h.log.Error("import run failed", "error", err)
		response.InternalServerError(c, "Import run failed")
		return
	}

	totalImported, totalUpdated, totalErrors := 0, 0, 0
	for _, r := range results {
		totalImported += r.EventsImported
		totalUpdated += r.EventsUpdated
		totalErrors += len(r.Errors)
	}

	c.JSON(http.StatusOK, gin.H{
		"results":         results,
		"venues":          len(results),
		"events_imported": totalImported,
		"events_updated":  totalUpdated,
		"errors":          totalErrors,
	})
}

// RunVenueImport handles POST /api/venues/:venue_id/import for a
// single-venue manual run
func (h *ImportHandler) RunVenueImport(c *gin.Context) {
	v, err := h.venueRepo.GetByID(c.Param("venue_id"))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "Venue not found")
			return
		}
		response.BadRequestError(c, err.Error())
		return
	}

	if !v.ImportReady() {
		response.BadRequestError(c, "Venue has no Ticketmaster link or auto-import is disabled")
		return
	}

	result := h.orchestrator.RunVenue(c.Request.Context(), v)
	c.JSON(http.StatusOK, result)
}
