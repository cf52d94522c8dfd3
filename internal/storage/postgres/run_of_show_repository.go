package postgres

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/lineup-api/internal/domain/schedule"
	"github.com/gravadigital/lineup-api/internal/logger"
)

// PostgresRunOfShowRepository implements RunOfShowRepository using GORM
type PostgresRunOfShowRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresRunOfShowRepository creates a new PostgreSQL run-of-show repository
func NewPostgresRunOfShowRepository(db *gorm.DB) *PostgresRunOfShowRepository {
	return &PostgresRunOfShowRepository{
		db:  db,
		log: logger.Repository("run_of_show"),
	}
}

func (r *PostgresRunOfShowRepository) Create(ros *schedule.RunOfShow) error {
	r.log.Debug("creating run of show", "event_id", ros.EventID)

	if err := ros.TimeSlots.Validate(); err != nil {
		return fmt.Errorf("run of show validation failed: %w", err)
	}

	if err := r.db.Create(ros).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		r.log.Error("failed to create run of show", "event_id", ros.EventID, "error", err)
		return fmt.Errorf("failed to create run of show: %w", err)
	}

	r.log.Info("run of show created", "run_of_show_id", ros.ID, "event_id", ros.EventID)
	return nil
}

func (r *PostgresRunOfShowRepository) GetByEventID(eventID string) (*schedule.RunOfShow, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format: %w", err)
	}

	var ros schedule.RunOfShow
	if err := r.db.First(&ros, "event_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		r.log.Error("failed to retrieve run of show", "event_id", eventID, "error", err)
		return nil, fmt.Errorf("failed to retrieve run of show: %w", err)
	}

	return &ros, nil
}

// ReplaceTimeSlots swaps the whole slot document in one conditional
// update. The write only lands when the stored version still matches
// expectedVersion; a lost race surfaces as ErrVersionConflict so the
// caller can re-read and retry.
func (r *PostgresRunOfShowRepository) ReplaceTimeSlots(eventID uuid.UUID, slots schedule.TimeSlots, expectedVersion int64) (*schedule.RunOfShow, error) {
	if err := slots.Validate(); err != nil {
		return nil, fmt.Errorf("run of show validation failed: %w", err)
	}

	result := r.db.Model(&schedule.RunOfShow{}).
		Where("event_id = ? AND version = ?", eventID, expectedVersion).
		Updates(map[string]interface{}{
			"time_slots": slots,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		r.log.Error("failed to replace time slots", "event_id", eventID, "error", result.Error)
		return nil, fmt.Errorf("failed to replace time slots: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&schedule.RunOfShow{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check run of show existence: %w", err)
		}
		if count == 0 {
			return nil, ErrNotFound
		}
		r.log.Warn("version conflict on run of show replace", "event_id", eventID, "expected_version", expectedVersion)
		return nil, ErrVersionConflict
	}

	var ros schedule.RunOfShow
	if err := r.db.First(&ros, "event_id = ?", eventID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload run of show: %w", err)
	}

	r.log.Info("time slots replaced", "event_id", eventID, "slots", len(slots), "version", ros.Version)
	return &ros, nil
}

func (r *PostgresRunOfShowRepository) DeleteByEventID(eventID string) error {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid event ID format: %w", err)
	}

	result := r.db.Delete(&schedule.RunOfShow{}, "event_id = ?", id)
	if result.Error != nil {
		r.log.Error("failed to delete run of show", "event_id", eventID, "error", result.Error)
		return fmt.Errorf("failed to delete run of show: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.log.Info("run of show deleted", "event_id", eventID)
	return nil
}

// BookingsForDJ returns every slot assignment held by the DJ, joined
// with the event and venue context for the dashboard. Slots are
// unpacked from the jsonb documents server-side so only matching rows
// travel back.
func (r *PostgresRunOfShowRepository) BookingsForDJ(djID uuid.UUID) ([]DJBooking, error) {
	rows, err := r.db.Raw(`
        SELECT e.id, e.name, e.date, v.name AS venue_name, slot, assignment
        FROM run_of_shows ros
        JOIN events e ON e.id = ros.event_id
        JOIN venues v ON v.id = e.venue_id,
             jsonb_array_elements(ros.time_slots) AS slot,
             jsonb_array_elements(slot->'dj_assignments') AS assignment
        WHERE assignment->>'dj_id' = ?
        ORDER BY e.date ASC, slot->>'start_time' ASC
    `, djID.String()).Rows()
	if err != nil {
		r.log.Error("failed to list dj bookings", "dj_id", djID, "error", err)
		return nil, fmt.Errorf("failed to list dj bookings: %w", err)
	}
	defer rows.Close()

	var bookings []DJBooking
	for rows.Next() {
		var b DJBooking
		var slotJSON, assignmentJSON []byte
		if err := rows.Scan(&b.EventID, &b.EventName, &b.EventDate, &b.VenueName, &slotJSON, &assignmentJSON); err != nil {
			return nil, fmt.Errorf("failed to scan dj booking: %w", err)
		}
		if err := unmarshalBooking(slotJSON, assignmentJSON, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dj bookings: %w", err)
	}

	r.log.Debug("dj bookings retrieved", "dj_id", djID, "count", len(bookings))
	return bookings, nil
}

func unmarshalBooking(slotJSON, assignmentJSON []byte, b *DJBooking) error {
	if err := json.Unmarshal(slotJSON, &b.Slot); err != nil {
		return fmt.Errorf("failed to decode booking slot: %w", err)
	}
	// The slot copy keeps only the assignment that belongs to this DJ
	b.Slot.DJAssignments = nil
	if err := json.Unmarshal(assignmentJSON, &b.Assignment); err != nil {
		return fmt.Errorf("failed to decode booking assignment: %w", err)
	}
	return nil
}
