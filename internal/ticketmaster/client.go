// Package ticketmaster is a thin client for the Ticketmaster Discovery
// API v2. It only covers the venue and event lookups the importer
// needs.
package ticketmaster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/lineup-api/internal/logger"
)

// DefaultBaseURL is the production Discovery API endpoint
const DefaultBaseURL = "https://app.ticketmaster.com/discovery/v2"

// ErrNotFound is returned when the API reports no such resource
var ErrNotFound = errors.New("ticketmaster: resource not found")

// Client calls the Discovery API. All methods take a context; the
// underlying http.Client enforces a request timeout on top of it.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *log.Logger
}

// Config holds the client settings
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a Discovery API client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: logger.Ticketmaster(),
	}
}

// VenueSearchParams narrows a venue search
type VenueSearchParams struct {
	Keyword    string
	City       string
	StateCode  string
	PostalCode string
	Size       int
}

// SearchVenues looks up venues matching the given filters
func (c *Client) SearchVenues(ctx context.Context, params VenueSearchParams) ([]Venue, error) {
	q := url.Values{}
	if params.Keyword != "" {
		q.Set("keyword", params.Keyword)
	}
	if params.City != "" {
		q.Set("city", params.City)
	}
	if params.StateCode != "" {
		q.Set("stateCode", params.StateCode)
	}
	if params.PostalCode != "" {
		q.Set("postalCode", params.PostalCode)
	}
	if params.Size > 0 {
		q.Set("size", strconv.Itoa(params.Size))
	}

	var result searchResponse
	if err := c.get(ctx, "/venues.json", q, &result); err != nil {
		return nil, err
	}

	if result.Embedded == nil {
		return []Venue{}, nil
	}
	return result.Embedded.Venues, nil
}

// EventPage is one page of a venue's upcoming events
type EventPage struct {
	Events        []Event
	TotalPages    int
	TotalElements int
}

// EventSearchParams narrows an event search to one venue and window
type EventSearchParams struct {
	VenueID       string
	StartDateTime string
	EndDateTime   string
	Size          int
	Page          int
}

// VenueEvents fetches one page of events for a venue, sorted by date
// ascending
func (c *Client) VenueEvents(ctx context.Context, params EventSearchParams) (*EventPage, error) {
	if params.VenueID == "" {
		return nil, fmt.Errorf("venue id is required")
	}

	q := url.Values{}
	q.Set("venueId", params.VenueID)
	q.Set("sort", "date,asc")
	if params.StartDateTime != "" {
		q.Set("startDateTime", params.StartDateTime)
	}
	if params.EndDateTime != "" {
		q.Set("endDateTime", params.EndDateTime)
	}
	if params.Size > 0 {
		q.Set("size", strconv.Itoa(params.Size))
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}

	var result searchResponse
	if err := c.get(ctx, "/events.json", q, &result); err != nil {
		return nil, err
	}

	page := &EventPage{Events: []Event{}}
	if result.Embedded != nil {
		page.Events = result.Embedded.Events
	}
	if result.Page != nil {
		page.TotalPages = result.Page.TotalPages
		page.TotalElements = result.Page.TotalElements
	}
	return page, nil
}

// EventByID fetches a single event. Returns ErrNotFound for unknown ids.
func (c *Client) EventByID(ctx context.Context, eventID string) (*Event, error) {
	var event Event
	if err := c.get(ctx, "/events/"+url.PathEscape(eventID)+".json", url.Values{}, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// get performs an authenticated GET and decodes the JSON response
func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("ticketmaster api key is not configured")
	}
	q.Set("apikey", c.apiKey)

	reqURL := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.log.Debug("discovery api request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discovery api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discovery api error: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// FormatDateTime renders an instant the way the Discovery API expects:
// ISO 8601 UTC without milliseconds
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// DateRange returns the [now, now+days] window as API-formatted strings
func DateRange(days int) (startDateTime, endDateTime string) {
	now := time.Now()
	return FormatDateTime(now), FormatDateTime(now.AddDate(0, 0, days))
}
