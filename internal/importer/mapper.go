// Package importer pulls upcoming events from Ticketmaster for every
// venue configured for auto-import and reconciles them against the
// events already on file.
package importer

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/lineup-api/internal/domain/event"
	"github.com/gravadigital/lineup-api/internal/ticketmaster"
)

// ErrUnmappableEvent marks an external event that carries no usable
// date and therefore cannot become a local event
var ErrUnmappableEvent = errors.New("importer: event has no valid date")

// defaultStartTime is assumed when the feed gives no start time at all
const defaultStartTime = "20:00"

// defaultDurationHours pads events whose feed entry has no end time
const defaultDurationHours = 4

var isoTimeRx = regexp.MustCompile(`T(\d{2}):(\d{2})`)

// MapEvent converts a Discovery API event into a local event row for
// the given venue. The returned event always has status imported and
// carries the full provenance payload.
func MapEvent(tm *ticketmaster.Event, venueID uuid.UUID, now time.Time) (*event.Event, error) {
	date, err := extractDate(tm)
	if err != nil {
		return nil, err
	}

	startTime := extractStartTime(tm)
	endTime := extractEndTime(tm, startTime)

	e := &event.Event{
		ID:             uuid.New(),
		Name:           tm.Name,
		VenueID:        venueID,
		Date:           date,
		StartTime:      startTime,
		EndTime:        endTime,
		Description:    description(tm),
		Status:         event.StatusImported,
		ImageURL:       pickImage(tm.Images),
		TicketURL:      tm.URL,
		ExternalSource: event.SourceTicketmaster,
		ExternalIDs:    event.ExternalIDs{Ticketmaster: tm.ID},
		ExternalURL:    tm.URL,
		LastSyncedAt:   &now,
		Ticketmaster:   provenance(tm),
	}
	return e, nil
}

// extractDate resolves the calendar day the event happens on. The
// precise instant wins over the date-only field; an event with neither
// is unmappable.
func extractDate(tm *ticketmaster.Event) (time.Time, error) {
	if tm.Dates == nil || tm.Dates.Start == nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrUnmappableEvent, tm.ID)
	}

	start := tm.Dates.Start
	if start.DateTime != "" {
		t, err := time.Parse(time.RFC3339, start.DateTime)
		if err == nil {
			return t, nil
		}
	}
	if start.LocalDate != "" {
		t, err := time.Parse("2006-01-02", start.LocalDate)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s", ErrUnmappableEvent, tm.ID)
}

// extractStartTime resolves the HH:MM start. The venue-local time wins
// over the UTC instant; with neither present the default applies.
func extractStartTime(tm *ticketmaster.Event) string {
	if tm.Dates == nil || tm.Dates.Start == nil {
		return defaultStartTime
	}
	return clockFrom(tm.Dates.Start.DateTime, tm.Dates.Start.LocalTime)
}

// extractEndTime uses the feed's explicit end time when present,
// otherwise assumes the default duration past the start
func extractEndTime(tm *ticketmaster.Event, startTime string) string {
	if tm.Dates != nil && tm.Dates.End != nil && tm.Dates.End.LocalTime != "" {
		return clockFrom(tm.Dates.End.DateTime, tm.Dates.End.LocalTime)
	}
	return addHours(startTime, defaultDurationHours)
}

// clockFrom normalizes a feed time to HH:MM. localTime may arrive as
// "19:00:00" or "19:00"; dateTime is a full ISO 8601 instant.
func clockFrom(dateTime, localTime string) string {
	if localTime != "" {
		parts := strings.Split(localTime, ":")
		if len(parts) >= 2 {
			h, errH := strconv.Atoi(parts[0])
			m, errM := strconv.Atoi(parts[1])
			if errH == nil && errM == nil {
				return fmt.Sprintf("%02d:%02d", h, m)
			}
		}
		return localTime
	}
	if dateTime != "" {
		if m := isoTimeRx.FindStringSubmatch(dateTime); m != nil {
			return m[1] + ":" + m[2]
		}
	}
	return defaultStartTime
}

// addHours shifts an HH:MM clock forward, wrapping past midnight
func addHours(clock string, hours int) string {
	parts := strings.Split(clock, ":")
	h, _ := strconv.Atoi(parts[0])
	m := 0
	if len(parts) > 1 {
		m, _ = strconv.Atoi(parts[1])
	}
	return fmt.Sprintf("%02d:%02d", (h+hours)%24, m)
}

func description(tm *ticketmaster.Event) string {
	if tm.Info != "" {
		return tm.Info
	}
	return tm.PleaseNote
}

// pickImage chooses the best artwork rendition: non-fallback images
// only, 16:9 preferred, then the largest by pixel area
func pickImage(images []ticketmaster.Image) string {
	candidates := make([]ticketmaster.Image, 0, len(images))
	for _, img := range images {
		if !img.Fallback {
			candidates = append(candidates, img)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if (a.Ratio == "16_9") != (b.Ratio == "16_9") {
			return a.Ratio == "16_9"
		}
		return a.Width*a.Height > b.Width*b.Height
	})
	return candidates[0].URL
}

// provenance copies the display-only Ticketmaster payload onto the event
func provenance(tm *ticketmaster.Event) *event.TicketmasterData {
	data := &event.TicketmasterData{
		Status: tm.StatusCode(),
	}

	for _, pr := range tm.PriceRanges {
		data.PriceRanges = append(data.PriceRanges, event.PriceRange{
			Type:     pr.Type,
			Currency: pr.Currency,
			Min:      pr.Min,
			Max:      pr.Max,
		})
	}

	if tm.Sales != nil {
		sales := &event.SalesDates{}
		if tm.Sales.Public != nil {
			sales.Public = &event.SaleWindow{
				StartDateTime: parseInstant(tm.Sales.Public.StartDateTime),
				EndDateTime:   parseInstant(tm.Sales.Public.EndDateTime),
			}
		}
		for _, ps := range tm.Sales.Presales {
			sales.Presales = append(sales.Presales, event.SaleWindow{
				Name:          ps.Name,
				StartDateTime: parseInstant(ps.StartDateTime),
				EndDateTime:   parseInstant(ps.EndDateTime),
			})
		}
		data.SalesDates = sales
	}

	for _, img := range tm.Images {
		data.Images = append(data.Images, event.Image{
			URL:    img.URL,
			Width:  img.Width,
			Height: img.Height,
			Ratio:  img.Ratio,
		})
	}

	if c := tm.PrimaryClassification(); c != nil {
		if c.Genre != nil {
			data.Genre = &event.Classification{ID: c.Genre.ID, Name: c.Genre.Name}
		}
		if c.SubGenre != nil {
			data.SubGenre = &event.Classification{ID: c.SubGenre.ID, Name: c.SubGenre.Name}
		}
	}

	if tm.Promoter != nil {
		data.Promoter = &event.Promoter{ID: tm.Promoter.ID, Name: tm.Promoter.Name}
	} else if len(tm.Promoters) > 0 {
		data.Promoter = &event.Promoter{ID: tm.Promoters[0].ID, Name: tm.Promoters[0].Name}
	}

	if tm.AgeRestrictions != nil && tm.AgeRestrictions.LegalAgeEnforced {
		data.AgeRestrictions = "Legal age enforced"
	}
	if tm.Accessibility != nil {
		data.Accessibility = tm.Accessibility.Info
	}
	if tm.Seatmap != nil {
		data.SeatmapURL = tm.Seatmap.StaticURL
	}

	return data
}

func parseInstant(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
