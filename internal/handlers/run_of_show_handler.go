package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/lineup-api/internal/domain/schedule"
	"github.com/gravadigital/lineup-api/internal/logger"
	"github.com/gravadigital/lineup-api/internal/middleware"
	"github.com/gravadigital/lineup-api/internal/response"
	"github.com/gravadigital/lineup-api/internal/storage/postgres"
)

// assignRetries is how many times an assignment mutation re-reads and
// retries after losing a version race
const assignRetries = 1

type RunOfShowHandler struct {
	rosRepo   postgres.RunOfShowRepository
	eventRepo postgres.EventRepository
	djRepo    postgres.DJRepository
	log       *log.Logger
}

func NewRunOfShowHandler(rosRepo postgres.RunOfShowRepository, eventRepo postgres.EventRepository, djRepo postgres.DJRepository) *RunOfShowHandler {
	return &RunOfShowHandler{
		rosRepo:   rosRepo,
		eventRepo: eventRepo,
		djRepo:    djRepo,
		log:       logger.Handler("run_of_show"),
	}
}

// GetRunOfShow handles GET /api/events/:event_id/run-of-show. The
// schedule is created empty on first access so clients never see a 404
// for an existing event.
func (h *RunOfShowHandler) GetRunOfShow(c *gin.Context) {
	eventID := c.Param("event_id")

	e, err := h.eventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "Event not found")
			return
		}
		response.BadRequestError(c, err.Error())
		return
	}

	ros, err := h.rosRepo.GetByEventID(eventID)
	if errors.Is(err, postgres.ErrNotFound) {
		ros = schedule.NewRunOfShow(e.ID)
		if createErr := h.rosRepo.Create(ros); createErr != nil {
			// A concurrent first access may have created it already
			if errors.Is(createErr, postgres.ErrConflict) {
				ros, err = h.rosRepo.GetByEventID(eventID)
			} else {
				err = createErr
			}
		} else {
			err = nil
		}
	}
	if err != nil {
		h.log.Error("failed to load run of show", "event_id", eventID, "error", err)
		response.InternalServerError(c, "Failed to load run of show")
		return
	}

	c.JSON(http.StatusOK, runOfShowView(ros))
}

type ReplaceRunOfShowRequest struct {
	TimeSlots schedule.TimeSlots `json:"time_slots" binding:"required"`
	Version   int64              `json:"version" binding:"required"`
}

// ReplaceRunOfShow handles PUT /api/events/:event_id/run-of-show. The
// whole slot document is replaced; the submitted version must match
// the stored one.
func (h *RunOfShowHandler) ReplaceRunOfShow(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		response.BadRequestError(c, "event_id must be a valid UUID")
		return
	}

	var req ReplaceRunOfShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	slots := schedule.NormalizeIDs(req.TimeSlots)
	if err := slots.Validate(); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	ros, err := h.rosRepo.ReplaceTimeSlots(eventID, slots, req.Version)
	if err != nil {
		h.replyReplaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, runOfShowView(ros))
}

// DeleteRunOfShow handles DELETE /api/events/:event_id/run-of-show
func (h *RunOfShowHandler) DeleteRunOfShow(c *gin.Context) {
	if err := h.rosRepo.DeleteByEventID(c.Param("event_id")); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "Run of show not found")
			return
		}
		h.log.Error("failed to delete run of show", "error", err)
		response.InternalServerError(c, "Failed to delete run of show")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Run of show deleted", nil)
}

type AssignDJRequest struct {
	DJID string `json:"dj_id" binding:"required"`
}

// AssignDJ handles POST /api/events/:event_id/run-of-show/slots/:slot_id/djs.
// A lost version race is retried once against the fresh document.
func (h *RunOfShowHandler) AssignDJ(c *gin.Context) {
	eventID := c.Param("event_id")
	slotID, err := uuid.Parse(c.Param("slot_id"))
	if err != nil {
		response.BadRequestError(c, "slot_id must be a valid UUID")
		return
	}

	var req AssignDJRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}
	djID, err := uuid.Parse(req.DJID)
	if err != nil {
		response.BadRequestError(c, "dj_id must be a valid UUID")
		return
	}

	if _, err := h.djRepo.GetByID(req.DJID); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "DJ not found")
			return
		}
		response.BadRequestError(c, err.Error())
		return
	}

	h.mutateSlots(c, eventID, func(ros *schedule.RunOfShow) (schedule.TimeSlots, error) {
		return ros.WithAssignment(slotID, djID)
	})
}

// RemoveDJ handles DELETE /api/events/:event_id/run-of-show/slots/:slot_id/djs/:dj_id
func (h *RunOfShowHandler) RemoveDJ(c *gin.Context) {
	eventID := c.Param("event_id")
	slotID, err := uuid.Parse(c.Param("slot_id"))
	if err != nil {
		response.BadRequestError(c, "slot_id must be a valid UUID")
		return
	}
	djID, err := uuid.Parse(c.Param("dj_id"))
	if err != nil {
		response.BadRequestError(c, "dj_id must be a valid UUID")
		return
	}

	h.mutateSlots(c, eventID, func(ros *schedule.RunOfShow) (schedule.TimeSlots, error) {
		return ros.WithoutAssignment(slotID, djID)
	})
}

// DeleteSlot handles DELETE /api/events/:event_id/run-of-show/slots/:slot_id
func (h *RunOfShowHandler) DeleteSlot(c *gin.Context) {
	eventID := c.Param("event_id")
	slotID, err := uuid.Parse(c.Param("slot_id"))
	if err != nil {
		response.BadRequestError(c, "slot_id must be a valid UUID")
		return
	}

	h.mutateSlots(c, eventID, func(ros *schedule.RunOfShow) (schedule.TimeSlots, error) {
		return ros.WithoutSlot(slotID)
	})
}

// MyBookings handles GET /api/djs/me/bookings for the authenticated DJ
func (h *RunOfShowHandler) MyBookings(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil || claims.DJID == "" {
		response.ForbiddenError(c, "No DJ profile linked to this account")
		return
	}
	djID, err := uuid.Parse(claims.DJID)
	if err != nil {
		response.ForbiddenError(c, "No DJ profile linked to this account")
		return
	}

	bookings, err := h.rosRepo.BookingsForDJ(djID)
	if err != nil {
		h.log.Error("failed to load dj bookings", "dj_id", djID, "error", err)
		response.InternalServerError(c, "Failed to load bookings")
		return
	}
	if bookings == nil {
		bookings = []postgres.DJBooking{}
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// mutateSlots applies a slot-level mutation to the current document
// and replaces it, retrying once on a version conflict
func (h *RunOfShowHandler) mutateSlots(c *gin.Context, eventID string, mutate func(*schedule.RunOfShow) (schedule.TimeSlots, error)) {
	for attempt := 0; ; attempt++ {
		ros, err := h.rosRepo.GetByEventID(eventID)
		if err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				response.NotFoundError(c, "Run of show not found")
				return
			}
			response.BadRequestError(c, err.Error())
			return
		}

		slots, err := mutate(ros)
		if err != nil {
			h.replyMutationError(c, err)
			return
		}

		updated, err := h.rosRepo.ReplaceTimeSlots(ros.EventID, slots, ros.Version)
		if errors.Is(err, postgres.ErrVersionConflict) && attempt < assignRetries {
			continue
		}
		if err != nil {
			h.replyReplaceError(c, err)
			return
		}

		c.JSON(http.StatusOK, runOfShowView(updated))
		return
	}
}

// replyMutationError maps domain mutation failures to HTTP statuses
func (h *RunOfShowHandler) replyMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, schedule.ErrSlotNotFound):
		response.NotFoundError(c, "Slot not found")
	case errors.Is(err, schedule.ErrAssignmentNotFound):
		response.NotFoundError(c, "Assignment not found")
	case errors.Is(err, schedule.ErrAlreadyAssigned):
		response.ConflictError(c, err.Error())
	default:
		response.BadRequestError(c, err.Error())
	}
}

// replyReplaceError maps replace failures to HTTP statuses
func (h *RunOfShowHandler) replyReplaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, postgres.ErrNotFound):
		response.NotFoundError(c, "Run of show not found")
	case errors.Is(err, postgres.ErrVersionConflict):
		response.ConflictError(c, "Run of show was modified concurrently, reload and retry")
	case errors.Is(err, schedule.ErrOverlappingSlots),
		errors.Is(err, schedule.ErrSlotCapacity),
		errors.Is(err, schedule.ErrDuplicateDJ):
		response.ConflictError(c, err.Error())
	default:
		h.log.Error("failed to replace run of show", "error", err)
		response.BadRequestError(c, err.Error())
	}
}

// runOfShowView renders the aggregate with slots in display order
func runOfShowView(ros *schedule.RunOfShow) gin.H {
	return gin.H{
		"id":         ros.ID,
		"event_id":   ros.EventID,
		"time_slots": ros.TimeSlots.Sorted(),
		"version":    ros.Version,
		"created_at": ros.CreatedAt,
		"updated_at": ros.UpdatedAt,
	}
}
