package dj

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Genre is one of the musical genres a DJ plays
type Genre string

const (
	GenreOpenFormat  Genre = "open_format"
	GenreHouse       Genre = "house"
	GenreTech        Genre = "tech"
	GenreAfrohouse   Genre = "afrohouse"
	GenreTechno      Genre = "techno"
	GenreProgressive Genre = "progressive"
	GenreDeepHouse   Genre = "deep_house"
	GenreBass        Genre = "bass"
	GenreHipHop      Genre = "hip_hop"
	GenreRnB         Genre = "rnb"
)

// ValidGenres lists every accepted genre value
var ValidGenres = []Genre{
	GenreOpenFormat, GenreHouse, GenreTech, GenreAfrohouse, GenreTechno,
	GenreProgressive, GenreDeepHouse, GenreBass, GenreHipHop, GenreRnB,
}

// IsValid reports whether g is a known genre
func (g Genre) IsValid() bool {
	for _, v := range ValidGenres {
		if g == v {
			return true
		}
	}
	return false
}

// DJ represents a performer that can be booked into time slots
type DJ struct {
	ID       uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name     string         `json:"name" gorm:"not null"`
	Email    string         `json:"email" gorm:"not null;uniqueIndex"`
	Genres   pq.StringArray `json:"genres" gorm:"type:text[];not null"`
	Bio      string         `json:"bio,omitempty"`
	Phone    string         `json:"phone,omitempty"`
	IsActive bool           `json:"is_active" gorm:"not null;default:true"`
	Rating   *float64       `json:"rating,omitempty"`
	ImageURL string         `json:"image_url,omitempty"`

	// BookingCount is computed from stored run-of-show documents on
	// read; it is never persisted.
	BookingCount int `json:"booking_count" gorm:"-"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (DJ) TableName() string {
	return "djs"
}

// BeforeCreate sets a UUID and normalizes the email before creating the record
func (d *DJ) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.Email = strings.ToLower(d.Email)
	return nil
}

// Validate checks if the DJ data is valid
func (d *DJ) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Email == "" {
		return fmt.Errorf("email is required")
	}
	if len(d.Genres) == 0 {
		return fmt.Errorf("at least one genre is required")
	}
	for _, g := range d.Genres {
		if !Genre(g).IsValid() {
			return fmt.Errorf("invalid genre: %s", g)
		}
	}
	if d.Rating != nil && (*d.Rating < 0 || *d.Rating > 5) {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	return nil
}
