package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/lineup-api/internal/domain/dj"
	"github.com/gravadigital/lineup-api/internal/logger"
)

// PostgresDJRepository implements DJRepository using GORM
type PostgresDJRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresDJRepository creates a new PostgreSQL DJ repository
func NewPostgresDJRepository(db *gorm.DB) *PostgresDJRepository {
	return &PostgresDJRepository{
		db:  db,
		log: logger.Repository("dj"),
	}
}

func (r *PostgresDJRepository) Create(d *dj.DJ) error {
	r.log.Debug("creating dj", "name", d.Name, "email", d.Email)

	if err := d.Validate(); err != nil {
		return fmt.Errorf("dj validation failed: %w", err)
	}

	if err := r.db.Create(d).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		r.log.Error("failed to create dj", "error", err, "email", d.Email)
		return fmt.Errorf("failed to create dj: %w", err)
	}

	r.log.Info("dj created", "dj_id", d.ID, "name", d.Name)
	return nil
}

func (r *PostgresDJRepository) GetByID(id string) (*dj.DJ, error) {
	djID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid dj ID format: %w", err)
	}

	var d dj.DJ
	if err := r.db.First(&d, "id = ?", djID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		r.log.Error("failed to retrieve dj", "dj_id", id, "error", err)
		return nil, fmt.Errorf("failed to retrieve dj: %w", err)
	}

	return &d, nil
}

func (r *PostgresDJRepository) GetByEmail(email string) (*dj.DJ, error) {
	var d dj.DJ
	if err := r.db.First(&d, "email = lower(?)", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		r.log.Error("failed to retrieve dj by email", "error", err)
		return nil, fmt.Errorf("failed to retrieve dj by email: %w", err)
	}

	return &d, nil
}

func (r *PostgresDJRepository) GetAll() ([]*dj.DJ, error) {
	var djs []*dj.DJ
	if err := r.db.Order("name asc").Find(&djs).Error; err != nil {
		r.log.Error("failed to list djs", "error", err)
		return nil, fmt.Errorf("failed to list djs: %w", err)
	}

	r.log.Debug("djs retrieved", "count", len(djs))
	return djs, nil
}

func (r *PostgresDJRepository) Update(d *dj.DJ) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("dj validation failed: %w", err)
	}

	result := r.db.Model(&dj.DJ{}).Where("id = ?", d.ID).Select("*").
		Omit("id", "created_at").Updates(d)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		r.log.Error("failed to update dj", "dj_id", d.ID, "error", result.Error)
		return fmt.Errorf("failed to update dj: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.log.Info("dj updated", "dj_id", d.ID)
	return nil
}

func (r *PostgresDJRepository) Delete(id string) error {
	djID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid dj ID format: %w", err)
	}

	result := r.db.Delete(&dj.DJ{}, "id = ?", djID)
	if result.Error != nil {
		r.log.Error("failed to delete dj", "dj_id", id, "error", result.Error)
		return fmt.Errorf("failed to delete dj: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.log.Info("dj deleted", "dj_id", id)
	return nil
}

// BookingCounts returns the number of run-of-show assignments per DJ,
// counted directly from the stored slot documents
func (r *PostgresDJRepository) BookingCounts() (map[uuid.UUID]int, error) {
	rows, err := r.db.Raw(`
        SELECT (assignment->>'dj_id')::uuid AS dj_id, COUNT(*) AS bookings
        FROM run_of_shows,
             jsonb_array_elements(time_slots) AS slot,
             jsonb_array_elements(slot->'dj_assignments') AS assignment
        WHERE assignment->>'status' <> 'cancelled'
        GROUP BY dj_id
    `).Rows()
	if err != nil {
		r.log.Error("failed to count dj bookings", "error", err)
		return nil, fmt.Errorf("failed to count dj bookings: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var djID uuid.UUID
		var bookings int
		if err := rows.Scan(&djID, &bookings); err != nil {
			return nil, fmt.Errorf("failed to scan booking count: %w", err)
		}
		counts[djID] = bookings
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read booking counts: %w", err)
	}

	return counts, nil
}
