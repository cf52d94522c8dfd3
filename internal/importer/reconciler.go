package importer

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/lineup-api/internal/domain/common"
	"github.com/gravadigital/lineup-api/internal/domain/event"
	"github.com/gravadigital/lineup-api/internal/logger"
	"github.com/gravadigital/lineup-api/internal/storage/postgres"
	"github.com/gravadigital/lineup-api/internal/ticketmaster"
)

// matchWindowMinutes is how far apart two start times may be for a
// manual event to count as the same show as an imported one
const matchWindowMinutes = 120

// EventStore is the slice of event persistence the reconciler needs
type EventStore interface {
	Create(e *event.Event) error
	Update(e *event.Event) error
	GetByTicketmasterID(tmID string) (*event.Event, error)
	FindManualCandidates(venueID uuid.UUID, date time.Time) ([]*event.Event, error)
}

// Outcome says what the reconciler did with one external event
type Outcome int

const (
	// OutcomeImported means a new event row was created
	OutcomeImported Outcome = iota
	// OutcomeUpdated means an existing row absorbed the external data
	OutcomeUpdated
)

// Reconciler merges events from the external feed into the local
// event table without losing local workflow state
type Reconciler struct {
	events EventStore
	log    *log.Logger
	now    func() time.Time
}

// NewReconciler creates a reconciler over the given event store
func NewReconciler(events EventStore) *Reconciler {
	return &Reconciler{
		events: events,
		log:    logger.Importer(),
		now:    time.Now,
	}
}

// Reconcile folds one external event into the local table. Resolution
// order: an event already linked to this external id is refreshed in
// place; otherwise a manually entered event at the same venue on the
// same day starting within the match window absorbs the external data;
// otherwise a new event is created.
func (r *Reconciler) Reconcile(tm *ticketmaster.Event, venueID uuid.UUID) (Outcome, error) {
	mapped, err := MapEvent(tm, venueID, r.now())
	if err != nil {
		return 0, err
	}

	existing, err := r.events.GetByTicketmasterID(tm.ID)
	if err != nil && !errors.Is(err, postgres.ErrNotFound) {
		return 0, fmt.Errorf("failed to look up event by external id: %w", err)
	}

	if existing != nil {
		// Local workflow progress survives the refresh; an event still
		// sitting in imported simply stays there
		r.refresh(existing, mapped)
		if err := r.events.Update(existing); err != nil {
			return 0, fmt.Errorf("failed to update imported event: %w", err)
		}
		r.log.Debug("event refreshed from feed", "event_id", existing.ID, "tm_id", tm.ID)
		return OutcomeUpdated, nil
	}

	manual, err := r.findManualMatch(venueID, mapped.Date, mapped.StartTime)
	if err != nil {
		return 0, err
	}
	if manual != nil {
		r.refresh(manual, mapped)
		// The admin's workflow status always wins on a first-time link
		if err := r.events.Update(manual); err != nil {
			return 0, fmt.Errorf("failed to link manual event: %w", err)
		}
		r.log.Info("manual event linked to feed", "event_id", manual.ID, "tm_id", tm.ID)
		return OutcomeUpdated, nil
	}

	if err := r.events.Create(mapped); err != nil {
		return 0, fmt.Errorf("failed to create imported event: %w", err)
	}
	r.log.Debug("event imported from feed", "event_id", mapped.ID, "tm_id", tm.ID)
	return OutcomeImported, nil
}

// refresh copies the freshly mapped external data onto an existing
// event while keeping its identity and workflow status
func (r *Reconciler) refresh(dst, src *event.Event) {
	status := dst.Status

	dst.Name = src.Name
	dst.VenueID = src.VenueID
	dst.Date = src.Date
	dst.StartTime = src.StartTime
	dst.EndTime = src.EndTime
	dst.Description = src.Description
	dst.ImageURL = src.ImageURL
	dst.TicketURL = src.TicketURL
	dst.ExternalSource = src.ExternalSource
	dst.ExternalIDs = src.ExternalIDs
	dst.ExternalURL = src.ExternalURL
	dst.LastSyncedAt = src.LastSyncedAt
	dst.Ticketmaster = src.Ticketmaster

	dst.Status = status
}

// findManualMatch scans the manually entered events at the venue on
// the same day for one starting within the match window
func (r *Reconciler) findManualMatch(venueID uuid.UUID, date time.Time, startTime string) (*event.Event, error) {
	candidates, err := r.events.FindManualCandidates(venueID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to find manual candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	start, err := common.ParseClock(startTime)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		candidateStart, err := candidate.StartMinutes()
		if err != nil {
			continue
		}
		diff := start - candidateStart
		if diff < 0 {
			diff = -diff
		}
		if diff <= matchWindowMinutes {
			return candidate, nil
		}
	}
	return nil, nil
}
