package ticketmaster

// Venue is a venue record from the Discovery API
type Venue struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	URL        string `json:"url,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	City       *struct {
		Name string `json:"name"`
	} `json:"city,omitempty"`
	State *struct {
		Name      string `json:"name"`
		StateCode string `json:"stateCode"`
	} `json:"state,omitempty"`
	Country *struct {
		Name        string `json:"name"`
		CountryCode string `json:"countryCode"`
	} `json:"country,omitempty"`
	Address *struct {
		Line1 string `json:"line1"`
		Line2 string `json:"line2,omitempty"`
	} `json:"address,omitempty"`
	Location *struct {
		Longitude string `json:"longitude"`
		Latitude  string `json:"latitude"`
	} `json:"location,omitempty"`
}

// Image is one rendition of an event's artwork
type Image struct {
	Ratio    string `json:"ratio"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Fallback bool   `json:"fallback"`
}

// EventDates carries the start/end timing block of an event. All
// local fields are venue-local wall clock values; DateTime is UTC.
type EventDates struct {
	Start *struct {
		LocalDate      string `json:"localDate"`
		LocalTime      string `json:"localTime,omitempty"`
		DateTime       string `json:"dateTime,omitempty"`
		DateTBD        bool   `json:"dateTBD"`
		DateTBA        bool   `json:"dateTBA"`
		TimeTBA        bool   `json:"timeTBA"`
		NoSpecificTime bool   `json:"noSpecificTime"`
	} `json:"start,omitempty"`
	End *struct {
		LocalDate   string `json:"localDate"`
		LocalTime   string `json:"localTime,omitempty"`
		DateTime    string `json:"dateTime,omitempty"`
		Approximate bool   `json:"approximate"`
	} `json:"end,omitempty"`
	Timezone string `json:"timezone,omitempty"`
	Status   *struct {
		Code string `json:"code"`
	} `json:"status,omitempty"`
}

// Classification holds the genre taxonomy of an event
type Classification struct {
	Primary bool `json:"primary"`
	Segment *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"segment,omitempty"`
	Genre *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"genre,omitempty"`
	SubGenre *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"subGenre,omitempty"`
}

// PriceRange is one advertised price band
type PriceRange struct {
	Type     string  `json:"type"`
	Currency string  `json:"currency"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Sales holds the public sale window and any presales
type Sales struct {
	Public *struct {
		StartDateTime string `json:"startDateTime"`
		StartTBD      bool   `json:"startTBD"`
		StartTBA      bool   `json:"startTBA"`
		EndDateTime   string `json:"endDateTime"`
	} `json:"public,omitempty"`
	Presales []struct {
		StartDateTime string `json:"startDateTime"`
		EndDateTime   string `json:"endDateTime"`
		Name          string `json:"name"`
	} `json:"presales,omitempty"`
}

// Promoter identifies the event promoter
type Promoter struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Event is an event record from the Discovery API
type Event struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	URL             string           `json:"url"`
	Images          []Image          `json:"images,omitempty"`
	Sales           *Sales           `json:"sales,omitempty"`
	Dates           *EventDates      `json:"dates,omitempty"`
	Classifications []Classification `json:"classifications,omitempty"`
	Promoter        *Promoter        `json:"promoter,omitempty"`
	Promoters       []Promoter       `json:"promoters,omitempty"`
	Info            string           `json:"info,omitempty"`
	PleaseNote      string           `json:"pleaseNote,omitempty"`
	PriceRanges     []PriceRange     `json:"priceRanges,omitempty"`
	Seatmap         *struct {
		StaticURL string `json:"staticUrl"`
	} `json:"seatmap,omitempty"`
	Accessibility *struct {
		Info string `json:"info,omitempty"`
	} `json:"accessibility,omitempty"`
	AgeRestrictions *struct {
		LegalAgeEnforced bool `json:"legalAgeEnforced"`
	} `json:"ageRestrictions,omitempty"`
}

// searchResponse is the paged envelope the Discovery API wraps results in
type searchResponse struct {
	Embedded *struct {
		Events []Event `json:"events,omitempty"`
		Venues []Venue `json:"venues,omitempty"`
	} `json:"_embedded,omitempty"`
	Page *struct {
		Size          int `json:"size"`
		TotalElements int `json:"totalElements"`
		TotalPages    int `json:"totalPages"`
		Number        int `json:"number"`
	} `json:"page,omitempty"`
}

// PrimaryClassification returns the primary classification, falling
// back to the first one listed
func (e *Event) PrimaryClassification() *Classification {
	for i := range e.Classifications {
		if e.Classifications[i].Primary {
			return &e.Classifications[i]
		}
	}
	if len(e.Classifications) > 0 {
		return &e.Classifications[0]
	}
	return nil
}

// StatusCode returns the event's sale status code, empty when unknown
func (e *Event) StatusCode() string {
	if e.Dates != nil && e.Dates.Status != nil {
		return e.Dates.Status.Code
	}
	return ""
}
