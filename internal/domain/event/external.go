package event

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ExternalIDs maps each external source to the event id it uses.
// Stored as a jsonb column.
type ExternalIDs struct {
	Ticketmaster string `json:"ticketmaster,omitempty"`
	Posh         string `json:"posh,omitempty"`
}

// Value implements the driver.Valuer interface for jsonb serialization
func (e ExternalIDs) Value() (driver.Value, error) {
	return json.Marshal(e)
}

// Scan implements the sql.Scanner interface for jsonb deserialization
func (e *ExternalIDs) Scan(value interface{}) error {
	if value == nil {
		*e = ExternalIDs{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into ExternalIDs", value)
		}
	}
	return json.Unmarshal(b, e)
}

// PriceRange is one ticket price band reported by Ticketmaster
type PriceRange struct {
	Type     string  `json:"type,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// SaleWindow is a sale period with start and end instants
type SaleWindow struct {
	Name          string     `json:"name,omitempty"`
	StartDateTime *time.Time `json:"start_date_time,omitempty"`
	EndDateTime   *time.Time `json:"end_date_time,omitempty"`
}

// SalesDates groups the public sale window and any presales
type SalesDates struct {
	Public   *SaleWindow  `json:"public,omitempty"`
	Presales []SaleWindow `json:"presales,omitempty"`
}

// Image is one artwork rendition offered by Ticketmaster
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Ratio  string `json:"ratio,omitempty"`
}

// Classification is a named genre classification
type Classification struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Promoter identifies the promoter of an event
type Promoter struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// TicketmasterData is the provenance payload carried verbatim from the
// Discovery API for display. It plays no part in matching logic.
type TicketmasterData struct {
	Status          string          `json:"status,omitempty"`
	PriceRanges     []PriceRange    `json:"price_ranges,omitempty"`
	SalesDates      *SalesDates     `json:"sales_dates,omitempty"`
	Images          []Image         `json:"images,omitempty"`
	Genre           *Classification `json:"genre,omitempty"`
	SubGenre        *Classification `json:"sub_genre,omitempty"`
	Promoter        *Promoter       `json:"promoter,omitempty"`
	AgeRestrictions string          `json:"age_restrictions,omitempty"`
	Accessibility   string          `json:"accessibility,omitempty"`
	SeatmapURL      string          `json:"seatmap_url,omitempty"`
}

// Value implements the driver.Valuer interface for jsonb serialization
func (t TicketmasterData) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements the sql.Scanner interface for jsonb deserialization
func (t *TicketmasterData) Scan(value interface{}) error {
	if value == nil {
		*t = TicketmasterData{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into TicketmasterData", value)
		}
	}
	return json.Unmarshal(b, t)
}
