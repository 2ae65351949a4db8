package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(h, m int) time.Time {
	return time.Date(2030, 1, 1, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name       string
		aS, aE     time.Time
		bS, bE     time.Time
		wantResult bool
	}{
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"partial tail", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"partial head", at(10, 30), at(11, 30), at(10, 0), at(11, 0), true},
		{"contained", at(10, 0), at(12, 0), at(10, 15), at(10, 45), true},
		{"containing", at(10, 15), at(10, 45), at(10, 0), at(12, 0), true},
		{"touching after", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"touching before", at(11, 0), at(12, 0), at(10, 0), at(11, 0), false},
		{"disjoint", at(8, 0), at(9, 0), at(10, 0), at(11, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantResult, Overlaps(tt.aS, tt.aE, tt.bS, tt.bE))
			// symmetric
			assert.Equal(t, tt.wantResult, Overlaps(tt.bS, tt.bE, tt.aS, tt.aE))
		})
	}
}

func TestReservationStatus(t *testing.T) {
	assert.True(t, StatusPending.Blocking())
	assert.True(t, StatusConfirmed.Blocking())
	assert.False(t, StatusCanceled.Blocking())
	assert.False(t, StatusCompleted.Blocking())

	assert.True(t, StatusCanceled.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.False(t, StatusPending.Terminal())

	assert.False(t, ReservationStatus("pendente").Valid())
}

func TestStatusChangedAction(t *testing.T) {
	assert.Equal(t, "status_changed_from_pending_to_confirmed", StatusChangedAction(StatusPending, StatusConfirmed))
}

func TestTransitionPolicy(t *testing.T) {
	strict := TransitionPolicy{}
	lenient := TransitionPolicy{AllowRevertToPending: true}

	assert.True(t, strict.Allowed(StatusPending, StatusConfirmed))
	assert.True(t, strict.Allowed(StatusPending, StatusCanceled))
	assert.True(t, strict.Allowed(StatusPending, StatusCompleted))
	assert.True(t, strict.Allowed(StatusConfirmed, StatusCompleted))
	assert.False(t, strict.Allowed(StatusConfirmed, StatusPending))
	assert.True(t, lenient.Allowed(StatusConfirmed, StatusPending))

	for _, from := range []ReservationStatus{StatusCanceled, StatusCompleted} {
		assert.Empty(t, lenient.Targets(from), "terminal %s", from)
	}
	assert.False(t, lenient.Allowed(StatusPending, StatusPending))
	assert.False(t, lenient.Allowed(StatusPending, ReservationStatus("archived")))
	assert.Equal(t, []ReservationStatus{StatusConfirmed, StatusCanceled, StatusCompleted}, strict.Targets(StatusPending))
}

func TestSpaceBookable(t *testing.T) {
	assert.True(t, Space{Status: SpaceActive, IsAvailable: true}.Bookable())
	assert.False(t, Space{Status: SpaceActive, IsAvailable: false}.Bookable())
	assert.False(t, Space{Status: SpaceMaintenance, IsAvailable: true}.Bookable())

	mgr := uint64(7)
	assert.True(t, Space{ManagerID: &mgr}.ManagedBy(7))
	assert.False(t, Space{}.ManagedBy(7))
}
