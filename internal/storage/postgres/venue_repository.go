package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/lineup-api/internal/domain/venue"
	"github.com/gravadigital/lineup-api/internal/logger"
)

// PostgresVenueRepository implements VenueRepository using GORM
type PostgresVenueRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresVenueRepository creates a new PostgreSQL venue repository
func NewPostgresVenueRepository(db *gorm.DB) *PostgresVenueRepository {
	return &PostgresVenueRepository{
		db:  db,
		log: logger.Repository("venue"),
	}
}

func (r *PostgresVenueRepository) Create(v *venue.Venue) error {
	r.log.Debug("creating venue", "name", v.Name, "city", v.City)

	if err := v.Validate(); err != nil {
		return fmt.Errorf("venue validation failed: %w", err)
	}

	if err := r.db.Create(v).Error; err != nil {
		r.log.Error("failed to create venue", "error", err, "name", v.Name)
		return fmt.Errorf("failed to create venue: %w", err)
	}

	r.log.Info("venue created", "venue_id", v.ID, "name", v.Name)
	return nil
}

func (r *PostgresVenueRepository) GetByID(id string) (*venue.Venue, error) {
	venueID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid venue ID format: %w", err)
	}

	var v venue.Venue
	if err := r.db.First(&v, "id = ?", venueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		r.log.Error("failed to retrieve venue", "venue_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve venue: %w", err)
	}

	return &v, nil
}

func (r *PostgresVenueRepository) GetAll() ([]*venue.Venue, error) {
	var venues []*venue.Venue
	if err := r.db.Order("name asc").Find(&venues).Error; err != nil {
		r.log.Error("failed to list venues", "error", err)
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}

	r.log.Debug("venues retrieved", "count", len(venues))
	return venues, nil
}

func (r *PostgresVenueRepository) Update(v *venue.Venue) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("venue validation failed: %w", err)
	}

	result := r.db.Model(&venue.Venue{}).Where("id = ?", v.ID).Select("*").
		Omit("id", "created_at").Updates(v)
	if result.Error != nil {
		r.log.Error("failed to update venue", "venue_id", v.ID, "error", result.Error)
		return fmt.Errorf("failed to update venue: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.log.Info("venue updated", "venue_id", v.ID)
	return nil
}

func (r *PostgresVenueRepository) Delete(id string) error {
	venueID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid venue ID format: %w", err)
	}

	result := r.db.Delete(&venue.Venue{}, "id = ?", venueID)
	if result.Error != nil {
		r.log.Error("failed to delete venue", "venue_id", id, "error", result.Error)
		return fmt.Errorf("failed to delete venue: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.log.Info("venue deleted", "venue_id", id)
	return nil
}

// GetImportReady returns all venues configured for automatic imports:
// auto-import enabled and a linked Ticketmaster venue id
func (r *PostgresVenueRepository) GetImportReady() ([]*venue.Venue, error) {
	var venues []*venue.Venue
	err := r.db.
		Where("auto_import_enabled = ? AND ticketmaster_id <> ''", true).
		Order("name asc").
		Find(&venues).Error
	if err != nil {
		r.log.Error("failed to list import-ready venues", "error", err)
		return nil, fmt.Errorf("failed to list import-ready venues: %w", err)
	}

	r.log.Debug("import-ready venues retrieved", "count", len(venues))
	return venues, nil
}

// MarkImported stamps the venue's last import date
func (r *PostgresVenueRepository) MarkImported(id uuid.UUID, at time.Time) error {
	result := r.db.Model(&venue.Venue{}).Where("id = ?", id).
		Update("last_import_date", at)
	if result.Error != nil {
		r.log.Error("failed to stamp last import date", "venue_id", id, "error", result.Error)
		return fmt.Errorf("failed to stamp last import date: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
