package importer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/lineup-api/internal/domain/event"
	"github.com/gravadigital/lineup-api/internal/ticketmaster"
)

// feedEvent decodes a Discovery API JSON document into a feed event,
// the same way the client does
func feedEvent(t *testing.T, doc string) *ticketmaster.Event {
	t.Helper()
	var e ticketmaster.Event
	require.NoError(t, json.Unmarshal([]byte(doc), &e))
	return &e
}

var mapNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestMapEventFull(t *testing.T) {
	tm := feedEvent(t, `{
        "id": "tm-1",
        "name": "Warehouse Friday",
        "url": "https://tickets.example/tm-1",
        "info": "Doors at ten",
        "dates": {
            "start": {"localDate": "2026-03-06", "localTime": "22:00:00", "dateTime": "2026-03-07T03:00:00Z"},
            "status": {"code": "onsale"}
        },
        "images": [
            {"ratio": "4_3", "url": "https://img/fallback.jpg", "width": 2000, "height": 1500, "fallback": true},
            {"ratio": "16_9", "url": "https://img/wide-small.jpg", "width": 640, "height": 360, "fallback": false},
            {"ratio": "16_9", "url": "https://img/wide-big.jpg", "width": 1920, "height": 1080, "fallback": false},
            {"ratio": "3_2", "url": "https://img/huge.jpg", "width": 4000, "height": 3000, "fallback": false}
        ],
        "priceRanges": [{"type": "standard", "currency": "USD", "min": 20, "max": 60}],
        "classifications": [{"primary": true, "genre": {"id": "g1", "name": "Dance/Electronic"}, "subGenre": {"id": "sg1", "name": "House"}}],
        "promoter": {"id": "p1", "name": "Night Shift"},
        "ageRestrictions": {"legalAgeEnforced": true},
        "seatmap": {"staticUrl": "https://maps/tm-1.png"}
    }`)

	venueID := uuid.New()
	e, err := MapEvent(tm, venueID, mapNow)
	require.NoError(t, err)

	assert.Equal(t, "Warehouse Friday", e.Name)
	assert.Equal(t, venueID, e.VenueID)
	assert.Equal(t, "2026-03-07", e.Date.Format("2006-01-02"), "the precise instant wins over the local date")
	assert.Equal(t, "22:00", e.StartTime, "the venue-local time wins over the instant")
	assert.Equal(t, "02:00", e.EndTime, "no end in the feed means start plus four hours")
	assert.Equal(t, "Doors at ten", e.Description)
	assert.Equal(t, event.StatusImported, e.Status)
	assert.Equal(t, event.SourceTicketmaster, e.ExternalSource)
	assert.Equal(t, "tm-1", e.ExternalIDs.Ticketmaster)
	assert.Equal(t, "https://tickets.example/tm-1", e.TicketURL)
	assert.Equal(t, "https://img/wide-big.jpg", e.ImageURL, "16:9 beats larger ratios, size breaks the tie")
	require.NotNil(t, e.LastSyncedAt)
	assert.Equal(t, mapNow, *e.LastSyncedAt)

	require.NotNil(t, e.Ticketmaster)
	assert.Equal(t, "onsale", e.Ticketmaster.Status)
	require.Len(t, e.Ticketmaster.PriceRanges, 1)
	assert.Equal(t, 20.0, e.Ticketmaster.PriceRanges[0].Min)
	require.NotNil(t, e.Ticketmaster.Genre)
	assert.Equal(t, "Dance/Electronic", e.Ticketmaster.Genre.Name)
	require.NotNil(t, e.Ticketmaster.Promoter)
	assert.Equal(t, "Night Shift", e.Ticketmaster.Promoter.Name)
	assert.Equal(t, "Legal age enforced", e.Ticketmaster.AgeRestrictions)
	assert.Equal(t, "https://maps/tm-1.png", e.Ticketmaster.SeatmapURL)

	assert.NoError(t, e.Validate())
}

func TestMapEventDateOnly(t *testing.T) {
	tm := feedEvent(t, `{
        "id": "tm-2",
        "name": "TBA Night",
        "dates": {"start": {"localDate": "2026-04-10"}}
    }`)

	e, err := MapEvent(tm, uuid.New(), mapNow)
	require.NoError(t, err)
	assert.Equal(t, "2026-04-10", e.Date.Format("2006-01-02"))
	assert.Equal(t, "20:00", e.StartTime, "no time in the feed defaults the start")
	assert.Equal(t, "00:00", e.EndTime)
}

func TestMapEventTimeFromInstant(t *testing.T) {
	tm := feedEvent(t, `{
        "id": "tm-3",
        "name": "Instant Only",
        "dates": {"start": {"dateTime": "2026-04-11T01:30:00Z"}}
    }`)

	e, err := MapEvent(tm, uuid.New(), mapNow)
	require.NoError(t, err)
	assert.Equal(t, "01:30", e.StartTime, "the clock is read straight from the instant string")
	assert.Equal(t, "05:30", e.EndTime)
}

func TestMapEventExplicitEnd(t *testing.T) {
	tm := feedEvent(t, `{
        "id": "tm-4",
        "name": "All Nighter",
        "dates": {
            "start": {"localDate": "2026-04-12", "localTime": "23:00"},
            "end": {"localDate": "2026-04-13", "localTime": "03:30:00"}
        }
    }`)

	e, err := MapEvent(tm, uuid.New(), mapNow)
	require.NoError(t, err)
	assert.Equal(t, "23:00", e.StartTime)
	assert.Equal(t, "03:30", e.EndTime)
}

func TestMapEventNoDate(t *testing.T) {
	for _, doc := range []string{
		`{"id": "tm-5", "name": "No Dates"}`,
		`{"id": "tm-6", "name": "Empty Start", "dates": {"start": {}}}`,
	} {
		_, err := MapEvent(feedEvent(t, doc), uuid.New(), mapNow)
		assert.ErrorIs(t, err, ErrUnmappableEvent, doc)
	}
}

func TestMapEventFallbackOnlyImages(t *testing.T) {
	tm := feedEvent(t, `{
        "id": "tm-7",
        "name": "Fallback Art",
        "dates": {"start": {"localDate": "2026-04-14"}},
        "images": [{"ratio": "16_9", "url": "https://img/f.jpg", "width": 100, "height": 56, "fallback": true}]
    }`)

	e, err := MapEvent(tm, uuid.New(), mapNow)
	require.NoError(t, err)
	assert.Empty(t, e.ImageURL, "fallback renditions are never used")
}

func TestMapEventDescriptionFallsBackToPleaseNote(t *testing.T) {
	tm := feedEvent(t, `{
        "id": "tm-8",
        "name": "Note Only",
        "pleaseNote": "No re-entry",
        "dates": {"start": {"localDate": "2026-04-15"}}
    }`)

	e, err := MapEvent(tm, uuid.New(), mapNow)
	require.NoError(t, err)
	assert.Equal(t, "No re-entry", e.Description)
}

func TestAddHoursWrapsMidnight(t *testing.T) {
	assert.Equal(t, "02:00", addHours("22:00", 4))
	assert.Equal(t, "23:30", addHours("19:30", 4))
	assert.Equal(t, "00:00", addHours("20:00", 4))
}
