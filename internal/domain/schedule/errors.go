package schedule

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors for the schedule invariants. The typed errors below
// unwrap to these so callers can branch with errors.Is while still
// getting the offending slot in the message.
var (
	ErrOverlappingSlots   = errors.New("time slots cannot overlap")
	ErrSlotCapacity       = errors.New("slot capacity exceeded")
	ErrDuplicateDJ        = errors.New("dj appears more than once in slot")
	ErrAlreadyAssigned    = errors.New("dj is already assigned to this slot")
	ErrSlotNotFound       = errors.New("time slot not found")
	ErrAssignmentNotFound = errors.New("dj assignment not found")
)

// OverlapError identifies the conflicting pair of slots
type OverlapError struct {
	SlotA string
	SlotB string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("time slots %q and %q overlap", e.SlotA, e.SlotB)
}

func (e *OverlapError) Unwrap() error { return ErrOverlappingSlots }

// CapacityError reports a slot holding more assignments than max_djs allows
type CapacityError struct {
	Slot  string
	Max   int
	Count int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("slot %q holds %d assignments, max is %d", e.Slot, e.Count, e.Max)
}

func (e *CapacityError) Unwrap() error { return ErrSlotCapacity }

// DuplicateAssignmentError reports a DJ listed twice in the same slot
type DuplicateAssignmentError struct {
	Slot string
	DJID uuid.UUID
}

func (e *DuplicateAssignmentError) Error() string {
	return fmt.Sprintf("dj %s appears more than once in slot %q", e.DJID, e.Slot)
}

func (e *DuplicateAssignmentError) Unwrap() error { return ErrDuplicateDJ }

// AlreadyAssignedError reports an assign attempt for a DJ that already
// holds an assignment in the slot
type AlreadyAssignedError struct {
	Slot string
	DJID uuid.UUID
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("dj %s is already assigned to slot %q", e.DJID, e.Slot)
}

func (e *AlreadyAssignedError) Unwrap() error { return ErrAlreadyAssigned }
