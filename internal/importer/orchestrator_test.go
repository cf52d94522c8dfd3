package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/lineup-api/internal/domain/venue"
	"github.com/gravadigital/lineup-api/internal/ticketmaster"
)

type fakeVenueStore struct {
	venues  []*venue.Venue
	stamped map[uuid.UUID]time.Time
}

func (s *fakeVenueStore) GetImportReady() ([]*venue.Venue, error) {
	return s.venues, nil
}

func (s *fakeVenueStore) MarkImported(id uuid.UUID, at time.Time) error {
	if s.stamped == nil {
		s.stamped = make(map[uuid.UUID]time.Time)
	}
	s.stamped[id] = at
	return nil
}

// fakeFeed serves canned pages keyed by external venue id
type fakeFeed struct {
	pages map[string][][]ticketmaster.Event
	err   error
	calls []ticketmaster.EventSearchParams
}

func (f *fakeFeed) VenueEvents(_ context.Context, params ticketmaster.EventSearchParams) (*ticketmaster.EventPage, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	pages := f.pages[params.VenueID]
	if params.Page >= len(pages) {
		return &ticketmaster.EventPage{TotalPages: len(pages)}, nil
	}
	return &ticketmaster.EventPage{
		Events:     pages[params.Page],
		TotalPages: len(pages),
	}, nil
}

func importVenue(name, tmID string) *venue.Venue {
	return &venue.Venue{
		ID:                uuid.New(),
		Name:              name,
		TicketmasterID:    tmID,
		AutoImportEnabled: true,
	}
}

func feedEvents(t *testing.T, docs ...string) []ticketmaster.Event {
	t.Helper()
	out := make([]ticketmaster.Event, 0, len(docs))
	for _, doc := range docs {
		out = append(out, *feedEvent(t, doc))
	}
	return out
}

func testOrchestrator(venues VenueStore, feed EventFeed, store EventStore) *Orchestrator {
	o := NewOrchestrator(venues, feed, testReconciler(store), Options{})
	o.now = func() time.Time { return mapNow }
	o.sleep = func(time.Duration) {}
	return o
}

func TestRunVenueImportsAndStamps(t *testing.T) {
	store := newFakeEventStore()
	venues := &fakeVenueStore{}
	v := importVenue("Basement", "KovZ1")
	feed := &fakeFeed{pages: map[string][][]ticketmaster.Event{
		"KovZ1": {feedEvents(t,
			`{"id": "tm-1", "name": "Friday", "dates": {"start": {"localDate": "2026-03-06", "localTime": "22:00"}}}`,
			`{"id": "tm-2", "name": "Saturday", "dates": {"start": {"localDate": "2026-03-07", "localTime": "23:00"}}}`,
		)},
	}}

	o := testOrchestrator(venues, feed, store)
	result := o.RunVenue(context.Background(), v)

	assert.Equal(t, 2, result.EventsImported)
	assert.Equal(t, 0, result.EventsUpdated)
	assert.Empty(t, result.Errors)
	assert.Equal(t, mapNow, venues.stamped[v.ID], "a run stamps the venue's last import date")
}

func TestRunVenueCollectsPerEventErrors(t *testing.T) {
	store := newFakeEventStore()
	venues := &fakeVenueStore{}
	v := importVenue("Basement", "KovZ1")
	feed := &fakeFeed{pages: map[string][][]ticketmaster.Event{
		"KovZ1": {feedEvents(t,
			`{"id": "tm-1", "name": "Broken", "dates": {}}`,
			`{"id": "tm-2", "name": "Fine", "dates": {"start": {"localDate": "2026-03-07", "localTime": "23:00"}}}`,
		)},
	}}

	o := testOrchestrator(venues, feed, store)
	result := o.RunVenue(context.Background(), v)

	assert.Equal(t, 1, result.EventsImported, "one bad event does not sink the batch")
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Broken")
}

func TestRunVenueWithoutExternalID(t *testing.T) {
	v := importVenue("Basement", "")
	o := testOrchestrator(&fakeVenueStore{}, &fakeFeed{}, newFakeEventStore())

	result := o.RunVenue(context.Background(), v)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "no Ticketmaster venue ID found", result.Errors[0])
	assert.Equal(t, 0, result.EventsImported)
}

func TestRunVenueFeedFailure(t *testing.T) {
	v := importVenue("Basement", "KovZ1")
	feed := &fakeFeed{err: errors.New("upstream 503")}
	venues := &fakeVenueStore{}
	o := testOrchestrator(venues, feed, newFakeEventStore())

	result := o.RunVenue(context.Background(), v)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "error fetching events")
}

func TestRunVenuePagesThroughFeed(t *testing.T) {
	store := newFakeEventStore()
	pageOne := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		pageOne = append(pageOne, fmt.Sprintf(
			`{"id": "tm-a%d", "name": "Event A%d", "dates": {"start": {"localDate": "2026-03-06", "localTime": "22:00"}}}`, i, i))
	}
	feed := &fakeFeed{pages: map[string][][]ticketmaster.Event{
		"KovZ1": {
			feedEvents(t, pageOne...),
			feedEvents(t, `{"id": "tm-b0", "name": "Event B0", "dates": {"start": {"localDate": "2026-03-08", "localTime": "22:00"}}}`),
		},
	}}

	v := importVenue("Basement", "KovZ1")
	o := testOrchestrator(&fakeVenueStore{}, feed, store)
	result := o.RunVenue(context.Background(), v)

	assert.Equal(t, 4, result.EventsImported)
	require.Len(t, feed.calls, 2)
	assert.Equal(t, 0, feed.calls[0].Page)
	assert.Equal(t, 1, feed.calls[1].Page)
	assert.Equal(t, "KovZ1", feed.calls[0].VenueID)
	assert.NotEmpty(t, feed.calls[0].StartDateTime)
}

func TestRunAllProcessesEveryVenue(t *testing.T) {
	store := newFakeEventStore()
	a := importVenue("Basement", "KovZ1")
	b := importVenue("Rooftop", "KovZ2")
	venues := &fakeVenueStore{venues: []*venue.Venue{a, b}}
	feed := &fakeFeed{pages: map[string][][]ticketmaster.Event{
		"KovZ1": {feedEvents(t, `{"id": "tm-1", "name": "Friday", "dates": {"start": {"localDate": "2026-03-06", "localTime": "22:00"}}}`)},
		"KovZ2": {feedEvents(t, `{"id": "tm-2", "name": "Saturday", "dates": {"start": {"localDate": "2026-03-07", "localTime": "22:00"}}}`)},
	}}

	slept := 0
	o := testOrchestrator(venues, feed, store)
	o.sleep = func(time.Duration) { slept++ }

	results, err := o.RunAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].EventsImported)
	assert.Equal(t, 1, results[1].EventsImported)
	assert.Equal(t, 1, slept, "the delay runs between venues, not before the first")
	assert.Len(t, venues.stamped, 2)
}

func TestRunAllStopsOnCancelledContext(t *testing.T) {
	venues := &fakeVenueStore{venues: []*venue.Venue{importVenue("Basement", "KovZ1")}}
	o := testOrchestrator(venues, &fakeFeed{}, newFakeEventStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := o.RunAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
