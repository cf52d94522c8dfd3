package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/lineup-api/internal/domain/common"
)

// Event represents a scheduled occurrence at one venue on one calendar
// day. Start and end times are local wall-clock HH:MM strings, not
// absolute instants.
type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name        string    `json:"name" gorm:"not null"`
	VenueID     uuid.UUID `json:"venue_id" gorm:"type:uuid;not null;index:idx_events_venue_date"`
	Date        time.Time `json:"date" gorm:"type:date;not null;index:idx_events_venue_date"`
	StartTime   string    `json:"start_time" gorm:"not null"`
	EndTime     string    `json:"end_time" gorm:"not null"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status" gorm:"type:event_status;not null;default:'draft';index"`
	ImageURL    string    `json:"image_url,omitempty"`
	TicketURL   string    `json:"ticket_url,omitempty"`

	// External sync tracking
	ExternalSource Source            `json:"external_source" gorm:"type:event_source;not null;default:'manual';index"`
	ExternalIDs    ExternalIDs       `json:"external_ids" gorm:"type:jsonb"`
	ExternalURL    string            `json:"external_url,omitempty"`
	LastSyncedAt   *time.Time        `json:"last_synced_at,omitempty"`
	Ticketmaster   *TicketmasterData `json:"ticketmaster_data,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Event) TableName() string {
	return "events"
}

// BeforeCreate sets a UUID before creating the record
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewManualEvent creates an admin-entered event in the draft state
func NewManualEvent(name string, venueID uuid.UUID, date time.Time, startTime, endTime string) *Event {
	return &Event{
		ID:             uuid.New(),
		Name:           name,
		VenueID:        venueID,
		Date:           date,
		StartTime:      startTime,
		EndTime:        endTime,
		Status:         StatusDraft,
		ExternalSource: SourceManual,
	}
}

// StartMinutes returns the start time as minutes since midnight
func (e *Event) StartMinutes() (int, error) {
	return common.ParseClock(e.StartTime)
}

// Validate checks if the event data is valid
func (e *Event) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	if e.VenueID == uuid.Nil {
		return fmt.Errorf("venue_id is required")
	}
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if !common.IsClock(e.StartTime) {
		return fmt.Errorf("start_time must be a time in HH:MM format")
	}
	if !common.IsClock(e.EndTime) {
		return fmt.Errorf("end_time must be a time in HH:MM format")
	}
	if e.ExternalSource == SourceManual && e.ExternalIDs.Ticketmaster != "" {
		return fmt.Errorf("manual events cannot carry a ticketmaster id")
	}
	return nil
}

// CanTransitionTo checks if the event can move to a new workflow status.
// The workflow is forward-only; cancelled is reachable from any
// non-terminal state.
func (e *Event) CanTransitionTo(newStatus Status) bool {
	if newStatus == StatusCancelled {
		return e.Status != StatusCompleted && e.Status != StatusCancelled
	}

	transitions := map[Status][]Status{
		StatusDraft:               {StatusRosDraft},
		StatusImported:            {StatusRosDraft},
		StatusRosDraft:            {StatusRosComplete},
		StatusRosComplete:         {StatusPendingConfirmation},
		StatusPendingConfirmation: {StatusConfirmed},
		StatusConfirmed:           {StatusCompleted},
	}

	for _, allowed := range transitions[e.Status] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

// UpdateStatus updates the workflow status if the transition is valid
func (e *Event) UpdateStatus(newStatus Status) error {
	if !e.CanTransitionTo(newStatus) {
		return fmt.Errorf("cannot transition from %s to %s", e.Status, newStatus)
	}
	e.Status = newStatus
	return nil
}
