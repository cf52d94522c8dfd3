package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/lineup-api/internal/domain/event"
	"github.com/gravadigital/lineup-api/internal/logger"
)

// PostgresEventRepository implements EventRepository using GORM
type PostgresEventRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresEventRepository creates a new PostgreSQL event repository
func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{
		db:  db,
		log: logger.Repository("event"),
	}
}

func (r *PostgresEventRepository) Create(e *event.Event) error {
	r.log.Debug("creating event", "name", e.Name, "venue_id", e.VenueID, "date", e.Date.Format("2006-01-02"))

	if err := e.Validate(); err != nil {
		return fmt.Errorf("event validation failed: %w", err)
	}

	if err := r.db.Create(e).Error; err != nil {
		r.log.Error("failed to create event", "error", err, "name", e.Name)
		return fmt.Errorf("failed to create event: %w", err)
	}

	r.log.Info("event created", "event_id", e.ID, "name", e.Name, "source", e.ExternalSource)
	return nil
}

func (r *PostgresEventRepository) GetByID(id string) (*event.Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format: %w", err)
	}

	var e event.Event
	if err := r.db.First(&e, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		r.log.Error("failed to retrieve event", "event_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve event: %w", err)
	}

	return &e, nil
}

func (r *PostgresEventRepository) List(filter EventFilter) ([]*event.Event, error) {
	query := r.db.Model(&event.Event{})

	if filter.VenueID != "" {
		venueID, err := uuid.Parse(filter.VenueID)
		if err != nil {
			return nil, fmt.Errorf("invalid venue ID format: %w", err)
		}
		query = query.Where("venue_id = ?", venueID)
	}
	if filter.Status != "" {
		if _, ok := event.StatusFromString(filter.Status); !ok {
			return nil, fmt.Errorf("invalid status filter: %s", filter.Status)
		}
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", filter.DateFrom.Format("2006-01-02"))
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", filter.DateTo.Format("2006-01-02"))
	}

	var events []*event.Event
	if err := query.Order("date asc, start_time asc").Find(&events).Error; err != nil {
		r.log.Error("failed to list events", "error", err)
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	r.log.Debug("events retrieved", "count", len(events))
	return events, nil
}

func (r *PostgresEventRepository) Update(e *event.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("event validation failed: %w", err)
	}

	result := r.db.Model(&event.Event{}).Where("id = ?", e.ID).Select("*").
		Omit("id", "created_at").Updates(e)
	if result.Error != nil {
		r.log.Error("failed to update event", "event_id", e.ID, "error", result.Error)
		return fmt.Errorf("failed to update event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.log.Info("event updated", "event_id", e.ID, "status", e.Status)
	return nil
}

func (r *PostgresEventRepository) Delete(id string) error {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid event ID format: %w", err)
	}

	result := r.db.Delete(&event.Event{}, "id = ?", eventID)
	if result.Error != nil {
		r.log.Error("failed to delete event", "event_id", id, "error", result.Error)
		return fmt.Errorf("failed to delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.log.Info("event deleted", "event_id", id)
	return nil
}

// GetByTicketmasterID looks up an event by its external Ticketmaster id
func (r *PostgresEventRepository) GetByTicketmasterID(tmID string) (*event.Event, error) {
	var e event.Event
	err := r.db.Where("external_ids->>'ticketmaster' = ?", tmID).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		r.log.Error("failed to retrieve event by ticketmaster id", "tm_id", tmID, "error", err)
		return nil, fmt.Errorf("failed to retrieve event by ticketmaster id: %w", err)
	}

	return &e, nil
}

// FindManualCandidates returns manually created events at a venue on a
// given day that are not yet linked to any external source. These are
// the candidates for fuzzy matching during import reconciliation.
func (r *PostgresEventRepository) FindManualCandidates(venueID uuid.UUID, date time.Time) ([]*event.Event, error) {
	var events []*event.Event
	err := r.db.
		Where("venue_id = ?", venueID).
		Where("date = ?", date.Format("2006-01-02")).
		Where("external_source = ?", event.SourceManual.String()).
		Where("(external_ids->>'ticketmaster') IS NULL").
		Find(&events).Error
	if err != nil {
		r.log.Error("failed to find manual match candidates", "venue_id", venueID, "error", err)
		return nil, fmt.Errorf("failed to find manual match candidates: %w", err)
	}

	return events, nil
}
