package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/lineup-api/internal/domain/dj"
	"github.com/gravadigital/lineup-api/internal/domain/event"
	"github.com/gravadigital/lineup-api/internal/domain/schedule"
	"github.com/gravadigital/lineup-api/internal/domain/user"
	"github.com/gravadigital/lineup-api/internal/domain/venue"
)

// VenueRepository defines the persistence operations for venues
type VenueRepository interface {
	Create(v *venue.Venue) error
	GetByID(id string) (*venue.Venue, error)
	GetAll() ([]*venue.Venue, error)
	Update(v *venue.Venue) error
	Delete(id string) error
	GetImportReady() ([]*venue.Venue, error)
	MarkImported(id uuid.UUID, at time.Time) error
}

// DJRepository defines the persistence operations for DJs
type DJRepository interface {
	Create(d *dj.DJ) error
	GetByID(id string) (*dj.DJ, error)
	GetByEmail(email string) (*dj.DJ, error)
	GetAll() ([]*dj.DJ, error)
	Update(d *dj.DJ) error
	Delete(id string) error
	BookingCounts() (map[uuid.UUID]int, error)
}

// EventFilter narrows event listings
type EventFilter struct {
	VenueID  string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// EventRepository defines the persistence operations for events
type EventRepository interface {
	Create(e *event.Event) error
	GetByID(id string) (*event.Event, error)
	List(filter EventFilter) ([]*event.Event, error)
	Update(e *event.Event) error
	Delete(id string) error
	GetByTicketmasterID(tmID string) (*event.Event, error)
	FindManualCandidates(venueID uuid.UUID, date time.Time) ([]*event.Event, error)
}

// DJBooking is one assignment joined with its event and slot context,
// as shown on the DJ dashboard
type DJBooking struct {
	EventID    uuid.UUID             `json:"event_id"`
	EventName  string                `json:"event_name"`
	EventDate  time.Time             `json:"event_date"`
	VenueName  string                `json:"venue_name"`
	Slot       schedule.TimeSlot     `json:"slot"`
	Assignment schedule.DJAssignment `json:"assignment"`
}

// RunOfShowRepository defines the persistence operations for run-of-show aggregates
type RunOfShowRepository interface {
	Create(r *schedule.RunOfShow) error
	GetByEventID(eventID string) (*schedule.RunOfShow, error)
	ReplaceTimeSlots(eventID uuid.UUID, slots schedule.TimeSlots, expectedVersion int64) (*schedule.RunOfShow, error)
	DeleteByEventID(eventID string) error
	BookingsForDJ(djID uuid.UUID) ([]DJBooking, error)
}

// UserRepository defines the persistence operations for users
type UserRepository interface {
	Create(u *user.User) error
	GetByID(id string) (*user.User, error)
	GetByEmail(email string) (*user.User, error)
}
