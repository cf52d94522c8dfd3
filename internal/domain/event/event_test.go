package event

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manualEvent() *Event {
	return NewManualEvent("Friday Night", uuid.New(), time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), "22:00", "04:00")
}

func TestNewManualEvent(t *testing.T) {
	e := manualEvent()
	assert.Equal(t, StatusDraft, e.Status)
	assert.Equal(t, SourceManual, e.ExternalSource)
	assert.NoError(t, e.Validate())
}

func TestValidateRejectsBadTimes(t *testing.T) {
	e := manualEvent()
	e.StartTime = "27:00"
	assert.Error(t, e.Validate())

	e = manualEvent()
	e.EndTime = "4am"
	assert.Error(t, e.Validate())
}

func TestValidateManualEventCannotCarryExternalID(t *testing.T) {
	e := manualEvent()
	e.ExternalIDs.Ticketmaster = "tm-123"
	assert.Error(t, e.Validate())

	e.ExternalSource = SourceTicketmaster
	assert.NoError(t, e.Validate())
}

func TestWorkflowTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusRosDraft, true},
		{StatusImported, StatusRosDraft, true},
		{StatusRosDraft, StatusRosComplete, true},
		{StatusRosComplete, StatusPendingConfirmation, true},
		{StatusPendingConfirmation, StatusConfirmed, true},
		{StatusConfirmed, StatusCompleted, true},

		{StatusDraft, StatusConfirmed, false},
		{StatusRosComplete, StatusRosDraft, false},
		{StatusCompleted, StatusDraft, false},
		{StatusImported, StatusRosComplete, false},
	}

	for _, tc := range cases {
		e := manualEvent()
		e.Status = tc.from
		assert.Equal(t, tc.allowed, e.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCancellationReachableFromNonTerminalStates(t *testing.T) {
	for _, from := range []Status{StatusDraft, StatusImported, StatusRosDraft, StatusRosComplete, StatusPendingConfirmation, StatusConfirmed} {
		e := manualEvent()
		e.Status = from
		assert.True(t, e.CanTransitionTo(StatusCancelled), "from %s", from)
	}

	for _, from := range []Status{StatusCompleted, StatusCancelled} {
		e := manualEvent()
		e.Status = from
		assert.False(t, e.CanTransitionTo(StatusCancelled), "from %s", from)
	}
}

func TestUpdateStatus(t *testing.T) {
	e := manualEvent()
	require.NoError(t, e.UpdateStatus(StatusRosDraft))
	assert.Equal(t, StatusRosDraft, e.Status)

	err := e.UpdateStatus(StatusCompleted)
	assert.Error(t, err)
	assert.Equal(t, StatusRosDraft, e.Status, "failed transition leaves status unchanged")
}

func TestStatusRoundTrip(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusImported, StatusRosDraft, StatusRosComplete, StatusPendingConfirmation, StatusConfirmed, StatusCompleted, StatusCancelled} {
		parsed, ok := StatusFromString(s.String())
		require.True(t, ok, s.String())
		assert.Equal(t, s, parsed)
	}

	_, ok := StatusFromString("archived")
	assert.False(t, ok)
}

func TestStatusJSON(t *testing.T) {
	b, err := StatusPendingConfirmation.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"pending_confirmation"`, string(b))

	var s Status
	require.NoError(t, s.UnmarshalJSON([]byte(`"ros_complete"`)))
	assert.Equal(t, StatusRosComplete, s)

	assert.Error(t, s.UnmarshalJSON([]byte(`"archived"`)))
}

func TestSourceScan(t *testing.T) {
	var s Source
	require.NoError(t, s.Scan("ticketmaster"))
	assert.Equal(t, SourceTicketmaster, s)

	require.NoError(t, s.Scan([]byte("posh")))
	assert.Equal(t, SourcePosh, s)

	assert.Error(t, s.Scan("spotify"))
}
