package event

import (
	"database/sql/driver"
	"fmt"
)

// Status represents the workflow status of an event
type Status byte

const (
	StatusDraft Status = iota
	StatusImported
	StatusRosDraft
	StatusRosComplete
	StatusPendingConfirmation
	StatusConfirmed
	StatusCompleted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusImported:
		return "imported"
	case StatusRosDraft:
		return "ros_draft"
	case StatusRosComplete:
		return "ros_complete"
	case StatusPendingConfirmation:
		return "pending_confirmation"
	case StatusConfirmed:
		return "confirmed"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// StatusFromString converts a string to a Status
func StatusFromString(s string) (Status, bool) {
	switch s {
	case "draft":
		return StatusDraft, true
	case "imported":
		return StatusImported, true
	case "ros_draft":
		return StatusRosDraft, true
	case "ros_complete":
		return StatusRosComplete, true
	case "pending_confirmation":
		return StatusPendingConfirmation, true
	case "confirmed":
		return StatusConfirmed, true
	case "completed":
		return StatusCompleted, true
	case "cancelled":
		return StatusCancelled, true
	default:
		return StatusDraft, false
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status: %s", str)
	}
	*s = status
	return nil
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value interface{}) error {
	if value == nil {
		*s = StatusDraft
		return nil
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Status", value)
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// Source identifies where an event record originated
type Source byte

const (
	SourceManual Source = iota
	SourceTicketmaster
	SourcePosh
)

func (s Source) String() string {
	switch s {
	case SourceManual:
		return "manual"
	case SourceTicketmaster:
		return "ticketmaster"
	case SourcePosh:
		return "posh"
	default:
		return "unknown"
	}
}

// SourceFromString converts a string to a Source
func SourceFromString(s string) (Source, bool) {
	switch s {
	case "manual":
		return SourceManual, true
	case "ticketmaster":
		return SourceTicketmaster, true
	case "posh":
		return SourcePosh, true
	default:
		return SourceManual, false
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Source) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Source) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	source, valid := SourceFromString(str)
	if !valid {
		return fmt.Errorf("invalid source: %s", str)
	}
	*s = source
	return nil
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Source) Scan(value interface{}) error {
	if value == nil {
		*s = SourceManual
		return nil
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Source", value)
	}

	source, valid := SourceFromString(str)
	if !valid {
		return fmt.Errorf("invalid source value: %s", str)
	}
	*s = source
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Source) Value() (driver.Value, error) {
	return s.String(), nil
}
