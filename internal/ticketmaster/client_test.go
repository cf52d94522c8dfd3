package ticketmaster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
}

func TestSearchVenues(t *testing.T) {
	var gotQuery url.Values
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.Equal(t, "/venues.json", r.URL.Path)
		w.Write([]byte(`{
            "_embedded": {"venues": [
                {"id": "KovZ1", "name": "The Basement", "city": {"name": "Brooklyn"}}
            ]},
            "page": {"size": 20, "totalElements": 1, "totalPages": 1, "number": 0}
        }`))
	})

	venues, err := c.SearchVenues(context.Background(), VenueSearchParams{
		Keyword: "basement",
		City:    "Brooklyn",
		Size:    20,
	})
	require.NoError(t, err)
	require.Len(t, venues, 1)
	assert.Equal(t, "KovZ1", venues[0].ID)
	assert.Equal(t, "The Basement", venues[0].Name)

	assert.Equal(t, "test-key", gotQuery.Get("apikey"))
	assert.Equal(t, "basement", gotQuery.Get("keyword"))
	assert.Equal(t, "Brooklyn", gotQuery.Get("city"))
	assert.Equal(t, "20", gotQuery.Get("size"))
}

func TestSearchVenuesEmptyResult(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page": {"size": 20, "totalElements": 0, "totalPages": 0, "number": 0}}`))
	})

	venues, err := c.SearchVenues(context.Background(), VenueSearchParams{Keyword: "nowhere"})
	require.NoError(t, err)
	assert.Empty(t, venues)
}

func TestVenueEvents(t *testing.T) {
	var gotQuery url.Values
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.Equal(t, "/events.json", r.URL.Path)
		w.Write([]byte(`{
            "_embedded": {"events": [
                {"id": "tm-1", "name": "Warehouse Friday", "dates": {"start": {"localDate": "2026-03-06", "localTime": "22:00:00"}}}
            ]},
            "page": {"size": 200, "totalElements": 250, "totalPages": 2, "number": 1}
        }`))
	})

	page, err := c.VenueEvents(context.Background(), EventSearchParams{
		VenueID:       "KovZ1",
		StartDateTime: "2026-03-01T00:00:00Z",
		EndDateTime:   "2026-05-30T00:00:00Z",
		Size:          200,
		Page:          1,
	})
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	assert.Equal(t, "tm-1", page.Events[0].ID)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 250, page.TotalElements)

	assert.Equal(t, "KovZ1", gotQuery.Get("venueId"))
	assert.Equal(t, "date,asc", gotQuery.Get("sort"))
	assert.Equal(t, "2026-03-01T00:00:00Z", gotQuery.Get("startDateTime"))
	assert.Equal(t, "1", gotQuery.Get("page"))
}

func TestVenueEventsRequiresVenueID(t *testing.T) {
	c := NewClient(Config{APIKey: "test-key"})
	_, err := c.VenueEvents(context.Background(), EventSearchParams{})
	assert.Error(t, err)
}

func TestEventByID(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/tm-1.json", r.URL.Path)
		w.Write([]byte(`{"id": "tm-1", "name": "Warehouse Friday"}`))
	})

	e, err := c.EventByID(context.Background(), "tm-1")
	require.NoError(t, err)
	assert.Equal(t, "Warehouse Friday", e.Name)
}

func TestClientNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.EventByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientUpstreamError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"fault": "rate limit exceeded"}`))
	})

	_, err := c.EventByID(context.Background(), "tm-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestClientRequiresAPIKey(t *testing.T) {
	c := NewClient(Config{})
	_, err := c.EventByID(context.Background(), "tm-1")
	assert.Error(t, err)
}

func TestFormatDateTime(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	instant := time.Date(2026, 3, 6, 22, 30, 0, 0, loc)
	assert.Equal(t, "2026-03-07T03:30:00Z", FormatDateTime(instant))
}

func TestDateRange(t *testing.T) {
	start, end := DateRange(90)

	s, err := time.Parse("2006-01-02T15:04:05Z", start)
	require.NoError(t, err)
	e, err := time.Parse("2006-01-02T15:04:05Z", end)
	require.NoError(t, err)

	assert.InDelta(t, 90*24, e.Sub(s).Hours(), 1)
}
