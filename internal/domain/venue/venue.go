package venue

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Venue represents a nightlife venue that hosts events
type Venue struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name         string    `json:"name" gorm:"not null"`
	Address      string    `json:"address" gorm:"not null"`
	City         string    `json:"city" gorm:"not null"`
	State        string    `json:"state" gorm:"not null"`
	ZipCode      string    `json:"zip_code" gorm:"not null"`
	Capacity     *int      `json:"capacity,omitempty"`
	Description  string    `json:"description,omitempty"`
	ContactEmail string    `json:"contact_email" gorm:"not null"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`

	// External event source configuration. TicketmasterID is the
	// Discovery API venue id this venue is linked to.
	TicketmasterID    string     `json:"ticketmaster_id,omitempty" gorm:"index"`
	EventSourceURL    string     `json:"event_source_url,omitempty"`
	AutoImportEnabled bool       `json:"auto_import_enabled" gorm:"not null;default:false;index"`
	LastImportDate    *time.Time `json:"last_import_date,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Venue) TableName() string {
	return "venues"
}

// BeforeCreate sets a UUID before creating the record
func (v *Venue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// ImportReady reports whether this venue is configured for automatic
// event imports
func (v *Venue) ImportReady() bool {
	return v.AutoImportEnabled && v.TicketmasterID != ""
}

// Validate checks if the venue data is valid
func (v *Venue) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("name is required")
	}
	if v.Address == "" {
		return fmt.Errorf("address is required")
	}
	if v.City == "" {
		return fmt.Errorf("city is required")
	}
	if v.State == "" {
		return fmt.Errorf("state is required")
	}
	if v.ContactEmail == "" {
		return fmt.Errorf("contact_email is required")
	}
	if v.Capacity != nil && *v.Capacity < 1 {
		return fmt.Errorf("capacity must be at least 1")
	}
	return nil
}
