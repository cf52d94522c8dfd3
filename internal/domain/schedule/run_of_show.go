// Package schedule models the run of show for an event: the ordered
// set of performance time slots and the DJ assignments inside them.
package schedule

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/lineup-api/internal/domain/common"
)

// DJAssignment links one DJ to one time slot, with its own
// confirmation workflow state. The DJ is referenced by id only and
// resolved through the repository at read time.
type DJAssignment struct {
	DJID               uuid.UUID        `json:"dj_id"`
	Status             AssignmentStatus `json:"status"`
	NotificationSent   bool             `json:"notification_sent"`
	NotificationSentAt *time.Time       `json:"notification_sent_at,omitempty"`
	ConfirmedAt        *time.Time       `json:"confirmed_at,omitempty"`
	Notes              string           `json:"notes,omitempty"`
}

// NewAssignment creates a pending, un-notified assignment for a DJ
func NewAssignment(djID uuid.UUID) DJAssignment {
	return DJAssignment{
		DJID:   djID,
		Status: AssignmentPending,
	}
}

// TimeSlot is a bounded time window within an event reserved for one
// or more performers. Start and end are HH:MM wall-clock strings; the
// interval is half-open [start, end), and an end at or before the
// start means the slot runs past midnight.
type TimeSlot struct {
	ID            uuid.UUID      `json:"id"`
	SlotName      string         `json:"slot_name"`
	SlotType      SlotType       `json:"slot_type"`
	StartTime     string         `json:"start_time"`
	EndTime       string         `json:"end_time"`
	MaxDJs        *int           `json:"max_djs,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	DJAssignments []DJAssignment `json:"dj_assignments"`
}

// Interval returns the slot boundaries as minutes since midnight. An
// end at or before the start is pushed into the next day so overnight
// slots compare correctly.
func (s *TimeSlot) Interval() (start, end int, err error) {
	start, err = common.ParseClock(s.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err = common.ParseClock(s.EndTime)
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		end += 24 * 60
	}
	return start, end, nil
}

// HasDJ reports whether the DJ already holds an assignment in this slot
func (s *TimeSlot) HasDJ(djID uuid.UUID) bool {
	for _, a := range s.DJAssignments {
		if a.DJID == djID {
			return true
		}
	}
	return false
}

// Validate checks the slot's own invariants: well-formed times, the
// capacity bound, and no DJ appearing twice.
func (s *TimeSlot) Validate() error {
	if s.SlotName == "" {
		return fmt.Errorf("slot_name is required")
	}
	if !s.SlotType.IsValid() {
		return fmt.Errorf("invalid slot_type: %s", s.SlotType)
	}
	if _, _, err := s.Interval(); err != nil {
		return err
	}
	if s.MaxDJs != nil {
		if *s.MaxDJs < 1 {
			return fmt.Errorf("max_djs must be at least 1")
		}
		if len(s.DJAssignments) > *s.MaxDJs {
			return &CapacityError{Slot: s.SlotName, Max: *s.MaxDJs, Count: len(s.DJAssignments)}
		}
	}
	seen := make(map[uuid.UUID]struct{}, len(s.DJAssignments))
	for _, a := range s.DJAssignments {
		if a.DJID == uuid.Nil {
			return fmt.Errorf("dj_id is required on assignments")
		}
		if _, dup := seen[a.DJID]; dup {
			return &DuplicateAssignmentError{Slot: s.SlotName, DJID: a.DJID}
		}
		seen[a.DJID] = struct{}{}
	}
	return nil
}

// TimeSlots is the slot collection of one run of show, stored as a
// single jsonb document so the aggregate is always replaced whole.
type TimeSlots []TimeSlot

// Value implements the driver.Valuer interface for jsonb serialization
func (t TimeSlots) Value() (driver.Value, error) {
	if t == nil {
		t = TimeSlots{}
	}
	return json.Marshal(t)
}

// Scan implements the sql.Scanner interface for jsonb deserialization
func (t *TimeSlots) Scan(value interface{}) error {
	if value == nil {
		*t = TimeSlots{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into TimeSlots", value)
		}
	}
	return json.Unmarshal(b, t)
}

// Validate checks the cross-slot invariant: no two slots may have
// overlapping half-open intervals. Per-slot invariants are checked
// first so the caller gets the most specific error available.
func (t TimeSlots) Validate() error {
	for i := range t {
		if err := t[i].Validate(); err != nil {
			return err
		}
	}
	for i := range t {
		aStart, aEnd, _ := t[i].Interval()
		for j := i + 1; j < len(t); j++ {
			bStart, bEnd, _ := t[j].Interval()
			if aStart < bEnd && bStart < aEnd {
				return &OverlapError{SlotA: t[i].SlotName, SlotB: t[j].SlotName}
			}
		}
	}
	return nil
}

// Sorted returns the slots ordered by start time ascending for
// display. Storage order is insertion order and carries no meaning.
func (t TimeSlots) Sorted() TimeSlots {
	out := make(TimeSlots, len(t))
	copy(out, t)
	sort.SliceStable(out, func(i, j int) bool {
		a, _, _ := out[i].Interval()
		b, _, _ := out[j].Interval()
		return a < b
	})
	return out
}

// RunOfShow is the full schedule for one event. Exactly one exists per
// event; Version guards whole-aggregate replacement against concurrent
// editors.
type RunOfShow struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex"`
	TimeSlots TimeSlots `json:"time_slots" gorm:"type:jsonb;not null"`
	Version   int64     `json:"version" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (RunOfShow) TableName() string {
	return "run_of_shows"
}

// BeforeCreate sets a UUID before creating the record
func (r *RunOfShow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// NewRunOfShow creates an empty schedule for an event
func NewRunOfShow(eventID uuid.UUID) *RunOfShow {
	return &RunOfShow{
		ID:        uuid.New(),
		EventID:   eventID,
		TimeSlots: TimeSlots{},
		Version:   1,
	}
}

// SlotByID finds a slot in the aggregate by id
func (r *RunOfShow) SlotByID(slotID uuid.UUID) (*TimeSlot, bool) {
	for i := range r.TimeSlots {
		if r.TimeSlots[i].ID == slotID {
			return &r.TimeSlots[i], true
		}
	}
	return nil, false
}

// WithAssignment returns a copy of the slot collection with a new
// pending assignment appended to the target slot. Fails with
// ErrAlreadyAssigned before the write when the DJ already holds an
// assignment in that slot, and with ErrSlotNotFound for an unknown
// slot id. The returned set still has to pass Validate on replace.
func (r *RunOfShow) WithAssignment(slotID, djID uuid.UUID) (TimeSlots, error) {
	out := r.cloneSlots()
	for i := range out {
		if out[i].ID != slotID {
			continue
		}
		if out[i].HasDJ(djID) {
			return nil, &AlreadyAssignedError{Slot: out[i].SlotName, DJID: djID}
		}
		out[i].DJAssignments = append(out[i].DJAssignments, NewAssignment(djID))
		return out, nil
	}
	return nil, ErrSlotNotFound
}

// WithoutAssignment returns a copy of the slot collection with the
// DJ's assignment removed from the target slot
func (r *RunOfShow) WithoutAssignment(slotID, djID uuid.UUID) (TimeSlots, error) {
	out := r.cloneSlots()
	for i := range out {
		if out[i].ID != slotID {
			continue
		}
		kept := out[i].DJAssignments[:0:0]
		for _, a := range out[i].DJAssignments {
			if a.DJID != djID {
				kept = append(kept, a)
			}
		}
		if len(kept) == len(out[i].DJAssignments) {
			return nil, ErrAssignmentNotFound
		}
		out[i].DJAssignments = kept
		return out, nil
	}
	return nil, ErrSlotNotFound
}

// WithoutSlot returns a copy of the slot collection with the target
// slot removed
func (r *RunOfShow) WithoutSlot(slotID uuid.UUID) (TimeSlots, error) {
	out := r.cloneSlots()
	for i := range out {
		if out[i].ID == slotID {
			return append(out[:i], out[i+1:]...), nil
		}
	}
	return nil, ErrSlotNotFound
}

func (r *RunOfShow) cloneSlots() TimeSlots {
	out := make(TimeSlots, len(r.TimeSlots))
	copy(out, r.TimeSlots)
	for i := range out {
		assignments := make([]DJAssignment, len(out[i].DJAssignments))
		copy(assignments, out[i].DJAssignments)
		out[i].DJAssignments = assignments
	}
	return out
}

// NormalizeIDs assigns ids to slots that arrived without one, so
// clients can submit new slots inline with the replace payload
func NormalizeIDs(slots TimeSlots) TimeSlots {
	for i := range slots {
		if slots[i].ID == uuid.Nil {
			slots[i].ID = uuid.New()
		}
		if slots[i].DJAssignments == nil {
			slots[i].DJAssignments = []DJAssignment{}
		}
	}
	return slots
}
