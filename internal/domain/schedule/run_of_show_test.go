package schedule

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slot(name string, start, end string) TimeSlot {
	return TimeSlot{
		ID:            uuid.New(),
		SlotName:      name,
		SlotType:      SlotMain,
		StartTime:     start,
		EndTime:       end,
		DJAssignments: []DJAssignment{},
	}
}

func TestTimeSlotInterval(t *testing.T) {
	s := slot("main", "22:00", "23:30")
	start, end, err := s.Interval()
	require.NoError(t, err)
	assert.Equal(t, 22*60, start)
	assert.Equal(t, 23*60+30, end)
}

func TestTimeSlotIntervalOvernight(t *testing.T) {
	s := slot("closer", "23:00", "02:00")
	start, end, err := s.Interval()
	require.NoError(t, err)
	assert.Equal(t, 23*60, start)
	assert.Equal(t, 26*60, end, "an end at or before the start runs into the next day")
}

func TestTimeSlotIntervalBadClock(t *testing.T) {
	s := slot("main", "25:00", "26:00")
	_, _, err := s.Interval()
	assert.Error(t, err)
}

func TestValidateRejectsOverlap(t *testing.T) {
	slots := TimeSlots{
		slot("opener", "21:00", "23:00"),
		slot("main", "22:00", "01:00"),
	}

	err := slots.Validate()
	require.Error(t, err)

	var overlap *OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.ErrorIs(t, err, ErrOverlappingSlots)
	assert.Equal(t, "opener", overlap.SlotA)
	assert.Equal(t, "main", overlap.SlotB)
}

func TestValidateAllowsTouchingSlots(t *testing.T) {
	slots := TimeSlots{
		slot("opener", "21:00", "23:00"),
		slot("main", "23:00", "01:00"),
		slot("closer", "01:00", "04:00"),
	}
	assert.NoError(t, slots.Validate(), "half-open intervals may share a boundary")
}

func TestValidateOvernightOverlap(t *testing.T) {
	slots := TimeSlots{
		slot("main", "22:00", "02:00"),
		slot("late", "23:30", "01:00"),
	}
	assert.ErrorIs(t, slots.Validate(), ErrOverlappingSlots)
}

// TestValidateOverlapProperty cross-checks the validator against a
// brute-force pairwise oracle on random slot sets
func TestValidateOverlapProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 500; trial++ {
		n := 2 + rng.Intn(5)
		slots := make(TimeSlots, 0, n)
		for i := 0; i < n; i++ {
			start := rng.Intn(24 * 60)
			length := 30 + rng.Intn(6*60)
			end := (start + length) % (24 * 60)
			slots = append(slots, slot(
				fmt.Sprintf("slot-%d", i),
				fmt.Sprintf("%02d:%02d", start/60, start%60),
				fmt.Sprintf("%02d:%02d", end/60, end%60),
			))
		}

		oracle := false
		for i := range slots {
			aStart, aEnd, err := slots[i].Interval()
			require.NoError(t, err)
			for j := i + 1; j < len(slots); j++ {
				bStart, bEnd, err := slots[j].Interval()
				require.NoError(t, err)
				if aStart < bEnd && bStart < aEnd {
					oracle = true
				}
			}
		}

		err := slots.Validate()
		if oracle {
			assert.ErrorIs(t, err, ErrOverlappingSlots, "trial %d: oracle found an overlap", trial)
		} else {
			assert.NoError(t, err, "trial %d: oracle found no overlap", trial)
		}
	}
}

func TestValidateCapacity(t *testing.T) {
	max := 2
	s := slot("main", "22:00", "02:00")
	s.MaxDJs = &max
	s.DJAssignments = []DJAssignment{
		NewAssignment(uuid.New()),
		NewAssignment(uuid.New()),
	}
	assert.NoError(t, s.Validate())

	s.DJAssignments = append(s.DJAssignments, NewAssignment(uuid.New()))
	err := s.Validate()
	require.Error(t, err)

	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.ErrorIs(t, err, ErrSlotCapacity)
	assert.Equal(t, 2, capErr.Max)
	assert.Equal(t, 3, capErr.Count)
}

func TestValidateDuplicateDJ(t *testing.T) {
	djID := uuid.New()
	s := slot("main", "22:00", "02:00")
	s.DJAssignments = []DJAssignment{NewAssignment(djID), NewAssignment(djID)}

	err := s.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateDJ)
}

func TestWithAssignment(t *testing.T) {
	djID := uuid.New()
	s := slot("main", "22:00", "02:00")
	ros := NewRunOfShow(uuid.New())
	ros.TimeSlots = TimeSlots{s}

	slots, err := ros.WithAssignment(s.ID, djID)
	require.NoError(t, err)
	require.Len(t, slots[0].DJAssignments, 1)
	assert.Equal(t, djID, slots[0].DJAssignments[0].DJID)
	assert.Equal(t, AssignmentPending, slots[0].DJAssignments[0].Status)

	assert.Empty(t, ros.TimeSlots[0].DJAssignments, "the aggregate itself stays untouched")
}

func TestWithAssignmentAlreadyAssigned(t *testing.T) {
	djID := uuid.New()
	s := slot("main", "22:00", "02:00")
	s.DJAssignments = []DJAssignment{NewAssignment(djID)}
	ros := NewRunOfShow(uuid.New())
	ros.TimeSlots = TimeSlots{s}

	_, err := ros.WithAssignment(s.ID, djID)
	assert.ErrorIs(t, err, ErrAlreadyAssigned)
}

func TestWithAssignmentUnknownSlot(t *testing.T) {
	ros := NewRunOfShow(uuid.New())
	ros.TimeSlots = TimeSlots{slot("main", "22:00", "02:00")}

	_, err := ros.WithAssignment(uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestWithoutAssignment(t *testing.T) {
	djID := uuid.New()
	other := uuid.New()
	s := slot("main", "22:00", "02:00")
	s.DJAssignments = []DJAssignment{NewAssignment(djID), NewAssignment(other)}
	ros := NewRunOfShow(uuid.New())
	ros.TimeSlots = TimeSlots{s}

	slots, err := ros.WithoutAssignment(s.ID, djID)
	require.NoError(t, err)
	require.Len(t, slots[0].DJAssignments, 1)
	assert.Equal(t, other, slots[0].DJAssignments[0].DJID)

	_, err = ros.WithoutAssignment(s.ID, uuid.New())
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestWithoutSlot(t *testing.T) {
	a := slot("opener", "21:00", "23:00")
	b := slot("main", "23:00", "02:00")
	ros := NewRunOfShow(uuid.New())
	ros.TimeSlots = TimeSlots{a, b}

	slots, err := ros.WithoutSlot(a.ID)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, b.ID, slots[0].ID)

	_, err = ros.WithoutSlot(uuid.New())
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestSorted(t *testing.T) {
	slots := TimeSlots{
		slot("closer", "02:00", "04:00"),
		slot("opener", "21:00", "23:00"),
		slot("main", "23:00", "02:00"),
	}

	sorted := slots.Sorted()
	assert.Equal(t, "closer", sorted[0].SlotName, "02:00 reads as early morning, not late night")
	assert.Equal(t, "opener", sorted[1].SlotName)
	assert.Equal(t, "main", sorted[2].SlotName)

	assert.Equal(t, "closer", slots[0].SlotName, "original order is preserved")
}

func TestNormalizeIDs(t *testing.T) {
	keep := uuid.New()
	slots := TimeSlots{
		{SlotName: "new", SlotType: SlotOpener, StartTime: "21:00", EndTime: "23:00"},
		{ID: keep, SlotName: "existing", SlotType: SlotMain, StartTime: "23:00", EndTime: "02:00"},
	}

	out := NormalizeIDs(slots)
	assert.NotEqual(t, uuid.Nil, out[0].ID)
	assert.Equal(t, keep, out[1].ID)
	assert.NotNil(t, out[0].DJAssignments)
}

func TestAssignmentStatusUnmarshal(t *testing.T) {
	var s AssignmentStatus
	require.NoError(t, s.UnmarshalJSON([]byte(`"confirmed"`)))
	assert.Equal(t, AssignmentConfirmed, s)

	require.NoError(t, s.UnmarshalJSON([]byte(`""`)))
	assert.Equal(t, AssignmentPending, s, "empty status defaults to pending")

	assert.Error(t, s.UnmarshalJSON([]byte(`"performing"`)))
}
