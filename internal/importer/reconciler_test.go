package importer

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/lineup-api/internal/domain/event"
	"github.com/gravadigital/lineup-api/internal/storage/postgres"
	"github.com/gravadigital/lineup-api/internal/ticketmaster"
)

// fakeEventStore is an in-memory EventStore
type fakeEventStore struct {
	events  map[uuid.UUID]*event.Event
	failOn  string
	creates int
	updates int
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[uuid.UUID]*event.Event)}
}

func (s *fakeEventStore) Create(e *event.Event) error {
	if s.failOn != "" && e.Name == s.failOn {
		return errors.New("storage unavailable")
	}
	cp := *e
	s.events[e.ID] = &cp
	s.creates++
	return nil
}

func (s *fakeEventStore) Update(e *event.Event) error {
	if _, ok := s.events[e.ID]; !ok {
		return postgres.ErrNotFound
	}
	cp := *e
	s.events[e.ID] = &cp
	s.updates++
	return nil
}

func (s *fakeEventStore) GetByTicketmasterID(tmID string) (*event.Event, error) {
	for _, e := range s.events {
		if e.ExternalIDs.Ticketmaster == tmID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (s *fakeEventStore) FindManualCandidates(venueID uuid.UUID, date time.Time) ([]*event.Event, error) {
	var out []*event.Event
	for _, e := range s.events {
		if e.VenueID == venueID &&
			e.Date.Format("2006-01-02") == date.Format("2006-01-02") &&
			e.ExternalSource == event.SourceManual &&
			e.ExternalIDs.Ticketmaster == "" {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeEventStore) byTMID(t *testing.T, tmID string) *event.Event {
	t.Helper()
	e, err := s.GetByTicketmasterID(tmID)
	require.NoError(t, err)
	return e
}

func testReconciler(store EventStore) *Reconciler {
	r := NewReconciler(store)
	r.now = func() time.Time { return mapNow }
	return r
}

// feedEventDoc builds a minimal feed event document
func feedEventDoc(t *testing.T, id, name, localDate, localTime string) *ticketmaster.Event {
	t.Helper()
	doc := fmt.Sprintf(`{
        "id": %q,
        "name": %q,
        "dates": {"start": {"localDate": %q, "localTime": %q}}
    }`, id, name, localDate, localTime)
	return feedEvent(t, doc)
}

func TestReconcileCreatesNewEvent(t *testing.T) {
	store := newFakeEventStore()
	r := testReconciler(store)
	venueID := uuid.New()

	tm := feedEventDoc(t, "tm-1", "Warehouse Friday", "2026-03-06", "22:00")

	outcome, err := r.Reconcile(tm, venueID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeImported, outcome)
	assert.Equal(t, 1, store.creates)

	created := store.byTMID(t, "tm-1")
	assert.Equal(t, event.StatusImported, created.Status)
	assert.Equal(t, venueID, created.VenueID)
}

func TestReconcileIsIdempotent(t *testing.T) {
	store := newFakeEventStore()
	r := testReconciler(store)
	venueID := uuid.New()
	tm := feedEventDoc(t, "tm-1", "Warehouse Friday", "2026-03-06", "22:00")

	first, err := r.Reconcile(tm, venueID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeImported, first)

	second, err := r.Reconcile(tm, venueID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, second)

	assert.Equal(t, 1, store.creates, "the second pass must not duplicate the event")
	assert.Equal(t, 1, store.updates)
}

func TestReconcileRefreshPreservesWorkflowStatus(t *testing.T) {
	store := newFakeEventStore()
	r := testReconciler(store)
	venueID := uuid.New()
	tm := feedEventDoc(t, "tm-1", "Warehouse Friday", "2026-03-06", "22:00")

	_, err := r.Reconcile(tm, venueID)
	require.NoError(t, err)

	// The admin moves the event forward between import runs
	linked := store.byTMID(t, "tm-1")
	linked.Status = event.StatusConfirmed
	require.NoError(t, store.Update(linked))
	store.updates = 0

	renamed := feedEventDoc(t, "tm-1", "Warehouse Friday (Rescheduled)", "2026-03-06", "23:00")
	outcome, err := r.Reconcile(renamed, venueID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)

	refreshed := store.byTMID(t, "tm-1")
	assert.Equal(t, event.StatusConfirmed, refreshed.Status, "workflow progress survives the refresh")
	assert.Equal(t, "Warehouse Friday (Rescheduled)", refreshed.Name)
	assert.Equal(t, "23:00", refreshed.StartTime)
}

func TestReconcileLinksManualEventWithinWindow(t *testing.T) {
	store := newFakeEventStore()
	r := testReconciler(store)
	venueID := uuid.New()

	manual := event.NewManualEvent("Friday Night", venueID,
		time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), "21:00", "03:00")
	manual.Status = event.StatusRosDraft
	require.NoError(t, store.Create(manual))
	store.creates = 0

	// Feed start 22:00 is 60 minutes from the manual 21:00
	tm := feedEventDoc(t, "tm-1", "Warehouse Friday", "2026-03-06", "22:00")
	outcome, err := r.Reconcile(tm, venueID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, 0, store.creates, "the manual event absorbs the feed data instead of a new row")

	linked := store.byTMID(t, "tm-1")
	assert.Equal(t, manual.ID, linked.ID)
	assert.Equal(t, event.StatusRosDraft, linked.Status, "the manual event keeps its workflow status")
	assert.Equal(t, event.SourceTicketmaster, linked.ExternalSource)
}

func TestReconcileMatchWindowBoundary(t *testing.T) {
	cases := []struct {
		name       string
		manualTime string
		feedTime   string
		linked     bool
	}{
		{"exactly 120 minutes apart links", "20:00", "22:00", true},
		{"121 minutes apart creates a new event", "19:59", "22:00", false},
		{"feed earlier than manual also links", "23:00", "21:30", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeEventStore()
			r := testReconciler(store)
			venueID := uuid.New()

			manual := event.NewManualEvent("Friday Night", venueID,
				time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), tc.manualTime, "04:00")
			require.NoError(t, store.Create(manual))
			store.creates = 0

			tm := feedEventDoc(t, "tm-1", "Warehouse Friday", "2026-03-06", tc.feedTime)
			outcome, err := r.Reconcile(tm, venueID)
			require.NoError(t, err)

			if tc.linked {
				assert.Equal(t, OutcomeUpdated, outcome)
				assert.Equal(t, 0, store.creates)
			} else {
				assert.Equal(t, OutcomeImported, outcome)
				assert.Equal(t, 1, store.creates)
			}
		})
	}
}

func TestReconcileIgnoresManualEventOnOtherDay(t *testing.T) {
	store := newFakeEventStore()
	r := testReconciler(store)
	venueID := uuid.New()

	manual := event.NewManualEvent("Thursday Night", venueID,
		time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), "22:00", "04:00")
	require.NoError(t, store.Create(manual))
	store.creates = 0

	tm := feedEventDoc(t, "tm-1", "Warehouse Friday", "2026-03-06", "22:00")
	outcome, err := r.Reconcile(tm, venueID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeImported, outcome)
}

func TestReconcileUnmappableEvent(t *testing.T) {
	store := newFakeEventStore()
	r := testReconciler(store)

	tm := feedEvent(t, `{"id": "tm-9", "name": "No Date"}`)
	_, err := r.Reconcile(tm, uuid.New())
	assert.ErrorIs(t, err, ErrUnmappableEvent)
	assert.Equal(t, 0, store.creates)
}
