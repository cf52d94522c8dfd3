package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/gravadigital/lineup-api/internal/domain/dj"
	"github.com/gravadigital/lineup-api/internal/logger"
	"github.com/gravadigital/lineup-api/internal/response"
	"github.com/gravadigital/lineup-api/internal/storage/postgres"
)

type DJHandler struct {
	djRepo  postgres.DJRepository
	rosRepo postgres.RunOfShowRepository
	log     *log.Logger
}

func NewDJHandler(djRepo postgres.DJRepository, rosRepo postgres.RunOfShowRepository) *DJHandler {
	return &DJHandler{
		djRepo:  djRepo,
		rosRepo: rosRepo,
		log:     logger.Handler("dj"),
	}
}

type DJRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required"`
	Genres   []string `json:"genres" binding:"required"`
	Bio      string   `json:"bio"`
	Phone    string   `json:"phone"`
	IsActive *bool    `json:"is_active"`
	Rating   *float64 `json:"rating"`
	ImageURL string   `json:"image_url"`
}

func (r *DJRequest) apply(d *dj.DJ) {
	d.Name = r.Name
	d.Email = r.Email
	d.Genres = pq.StringArray(r.Genres)
	d.Bio = r.Bio
	d.Phone = r.Phone
	d.IsActive = r.IsActive == nil || *r.IsActive
	d.Rating = r.Rating
	d.ImageURL = r.ImageURL
}

// CreateDJ handles POST /api/djs
func (h *DJHandler) CreateDJ(c *gin.Context) {
	var req DJRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	d := &dj.DJ{}
	req.apply(d)

	if err := d.Validate(); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	if err := h.djRepo.Create(d); err != nil {
		if errors.Is(err, postgres.ErrDuplicateEmail) {
			response.ConflictError(c, "A DJ with this email already exists")
			return
		}
		h.log.Error("failed to create dj", "error", err)
		response.InternalServerError(c, "Failed to create DJ")
		return
	}

	c.JSON(http.StatusCreated, d)
}

// GetDJs handles GET /api/djs. Booking counts are computed from the
// stored schedules on every read.
func (h *DJHandler) GetDJs(c *gin.Context) {
	djs, err := h.djRepo.GetAll()
	if err != nil {
		h.log.Error("failed to list djs", "error", err)
		response.InternalServerError(c, "Failed to list DJs")
		return
	}

	counts, err := h.djRepo.BookingCounts()
	if err != nil {
		h.log.Error("failed to count bookings", "error", err)
		response.InternalServerError(c, "Failed to list DJs")
		return
	}
	for _, d := range djs {
		d.BookingCount = counts[d.ID]
	}

	c.JSON(http.StatusOK, gin.H{"djs": djs, "count": len(djs)})
}

// GetDJ handles GET /api/djs/:dj_id
func (h *DJHandler) GetDJ(c *gin.Context) {
	d, err := h.djRepo.GetByID(c.Param("dj_id"))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "DJ not found")
			return
		}
		response.BadRequestError(c, err.Error())
		return
	}

	counts, err := h.djRepo.BookingCounts()
	if err == nil {
		d.BookingCount = counts[d.ID]
	}

	c.JSON(http.StatusOK, d)
}

// UpdateDJ handles PUT /api/djs/:dj_id
func (h *DJHandler) UpdateDJ(c *gin.Context) {
	existing, err := h.djRepo.GetByID(c.Param("dj_id"))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "DJ not found")
			return
		}
		response.BadRequestError(c, err.Error())
		return
	}

	var req DJRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	req.apply(existing)

	if err := existing.Validate(); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	if err := h.djRepo.Update(existing); err != nil {
		if errors.Is(err, postgres.ErrDuplicateEmail) {
			response.ConflictError(c, "A DJ with this email already exists")
			return
		}
		h.log.Error("failed to update dj", "dj_id", existing.ID, "error", err)
		response.InternalServerError(c, "Failed to update DJ")
		return
	}

	c.JSON(http.StatusOK, existing)
}

// DeleteDJ handles DELETE /api/djs/:dj_id
func (h *DJHandler) DeleteDJ(c *gin.Context) {
	if err := h.djRepo.Delete(c.Param("dj_id")); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			response.NotFoundError(c, "DJ not found")
			return
		}
		h.log.Error("failed to delete dj", "error", err)
		response.InternalServerError(c, "Failed to delete DJ")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "DJ deleted", nil)
}
