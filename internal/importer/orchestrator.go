package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/lineup-api/internal/domain/venue"
	"github.com/gravadigital/lineup-api/internal/logger"
	"github.com/gravadigital/lineup-api/internal/metrics"
	"github.com/gravadigital/lineup-api/internal/ticketmaster"
)

// VenueStore is the slice of venue persistence the orchestrator needs
type VenueStore interface {
	GetImportReady() ([]*venue.Venue, error)
	MarkImported(id uuid.UUID, at time.Time) error
}

// EventFeed fetches pages of upcoming events for one external venue
type EventFeed interface {
	VenueEvents(ctx context.Context, params ticketmaster.EventSearchParams) (*ticketmaster.EventPage, error)
}

// Options tunes an import run
type Options struct {
	// DaysAhead is how far into the future to fetch events
	DaysAhead int
	// VenueDelay spaces out feed requests between venues
	VenueDelay time.Duration
	// PageSize is the feed page size
	PageSize int
}

// VenueImportResult is the per-venue outcome of an import run. A venue
// with errors still reports whatever it managed to import.
type VenueImportResult struct {
	VenueID        uuid.UUID `json:"venue_id"`
	VenueName      string    `json:"venue_name"`
	EventsImported int       `json:"events_imported"`
	EventsUpdated  int       `json:"events_updated"`
	Errors         []string  `json:"errors"`
}

// Orchestrator runs imports across all import-ready venues, one venue
// at a time
type Orchestrator struct {
	venues     VenueStore
	feed       EventFeed
	reconciler *Reconciler
	opts       Options
	log        *log.Logger
	now        func() time.Time
	sleep      func(time.Duration)
}

// NewOrchestrator creates an import orchestrator
func NewOrchestrator(venues VenueStore, feed EventFeed, reconciler *Reconciler, opts Options) *Orchestrator {
	if opts.DaysAhead <= 0 {
		opts.DaysAhead = 90
	}
	if opts.VenueDelay <= 0 {
		opts.VenueDelay = 500 * time.Millisecond
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 200
	}

	return &Orchestrator{
		venues:     venues,
		feed:       feed,
		reconciler: reconciler,
		opts:       opts,
		log:        logger.Importer(),
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// RunAll imports events for every import-ready venue. Venues are
// processed sequentially with a delay in between so the feed is not
// hammered; one venue failing does not stop the run.
func (o *Orchestrator) RunAll(ctx context.Context) ([]VenueImportResult, error) {
	venues, err := o.venues.GetImportReady()
	if err != nil {
		return nil, fmt.Errorf("failed to load import-ready venues: %w", err)
	}

	o.log.Info("starting import run", "venues", len(venues), "days_ahead", o.opts.DaysAhead)

	results := make([]VenueImportResult, 0, len(venues))
	for i, v := range venues {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if i > 0 {
			o.sleep(o.opts.VenueDelay)
		}

		result := o.RunVenue(ctx, v)
		results = append(results, result)
		metrics.ImportVenuesProcessed.Inc()

		o.log.Info("venue import finished",
			"venue", v.Name,
			"imported", result.EventsImported,
			"updated", result.EventsUpdated,
			"errors", len(result.Errors))
	}

	o.log.Info("import run complete", "venues", len(results))
	return results, nil
}

// RunVenue imports events for a single venue. Failures on individual
// events are collected rather than aborting the batch.
func (o *Orchestrator) RunVenue(ctx context.Context, v *venue.Venue) VenueImportResult {
	result := VenueImportResult{
		VenueID:   v.ID,
		VenueName: v.Name,
		Errors:    []string{},
	}

	if !v.ImportReady() {
		result.Errors = append(result.Errors, "no Ticketmaster venue ID found")
		return result
	}

	events, err := o.fetchAll(ctx, v.TicketmasterID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("error fetching events: %v", err))
		metrics.ImportErrors.Inc()
		return result
	}

	o.log.Debug("feed events fetched", "venue", v.Name, "count", len(events))

	for i := range events {
		outcome, err := o.reconciler.Reconcile(&events[i], v.ID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error processing event %s: %v", events[i].Name, err))
			metrics.ImportErrors.Inc()
			continue
		}
		switch outcome {
		case OutcomeImported:
			result.EventsImported++
			metrics.ImportEventsImported.Inc()
		case OutcomeUpdated:
			result.EventsUpdated++
			metrics.ImportEventsUpdated.Inc()
		}
	}

	if err := o.venues.MarkImported(v.ID, o.now()); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("error stamping last import date: %v", err))
	}

	return result
}

// fetchAll pages through the feed until the last page
func (o *Orchestrator) fetchAll(ctx context.Context, tmVenueID string) ([]ticketmaster.Event, error) {
	start, end := ticketmaster.DateRange(o.opts.DaysAhead)

	var all []ticketmaster.Event
	for page := 0; ; page++ {
		result, err := o.feed.VenueEvents(ctx, ticketmaster.EventSearchParams{
			VenueID:       tmVenueID,
			StartDateTime: start,
			EndDateTime:   end,
			Size:          o.opts.PageSize,
			Page:          page,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, result.Events...)
		if page+1 >= result.TotalPages || len(result.Events) == 0 {
			break
		}
	}
	return all, nil
}
