package schedule

import "fmt"

// SlotType classifies a time slot within the run of show
type SlotType string

const (
	SlotOpener       SlotType = "opener"
	SlotMain         SlotType = "main"
	SlotCloser       SlotType = "closer"
	SlotSpecialGuest SlotType = "special_guest"
)

// IsValid reports whether t is a known slot type
func (t SlotType) IsValid() bool {
	switch t {
	case SlotOpener, SlotMain, SlotCloser, SlotSpecialGuest:
		return true
	default:
		return false
	}
}

// AssignmentStatus is the confirmation workflow state of a DJ assignment
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentConfirmed AssignmentStatus = "confirmed"
	AssignmentDeclined  AssignmentStatus = "declined"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// IsValid reports whether s is a known assignment status
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentPending, AssignmentConfirmed, AssignmentDeclined, AssignmentCancelled:
		return true
	default:
		return false
	}
}

// UnmarshalJSON rejects unknown status strings instead of storing them
func (s *AssignmentStatus) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	if str == "" {
		*s = AssignmentPending
		return nil
	}
	v := AssignmentStatus(str)
	if !v.IsValid() {
		return fmt.Errorf("invalid assignment status: %s", str)
	}
	*s = v
	return nil
}
