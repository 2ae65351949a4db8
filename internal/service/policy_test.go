package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/space-reservation/internal/apperr"
	"github.com/iliyamo/space-reservation/internal/model"
	"github.com/iliyamo/space-reservation/internal/repository"
)

func TestPolicyAuthorize(t *testing.T) {
	mgr := manager.ID
	other := uint64(77)
	tests := []struct {
		name    string
		policy  Policy
		actor   model.Actor
		subject *Subject
		allowed bool
	}{
		{"anonymous", PolicyCreateReservation, model.Actor{}, nil, false},
		{"unknown role", PolicyCreateReservation, model.Actor{ID: 1, Role: "owner"}, nil, false},
		{"regular creates", PolicyCreateReservation, user1, nil, true},
		{"regular lists all", PolicyListReservations, user1, nil, false},
		{"manager lists all", PolicyListReservations, manager, nil, true},
		{"manager reads all history", PolicyReadAllHistory, manager, nil, false},
		{"owner reads reservation", PolicyReadReservation, user1, &Subject{UserID: user1.ID}, true},
		{"stranger reads reservation", PolicyReadReservation, user2, &Subject{UserID: user1.ID}, false},
		{"manager reads reservation", PolicyReadReservation, manager, &Subject{UserID: user1.ID}, true},
		{"space manager edits", PolicyManageSpace, manager, &Subject{ManagerID: &mgr}, true},
		{"other manager edits", PolicyManageSpace, manager, &Subject{ManagerID: &other}, false},
		{"manager edits unowned space", PolicyManageSpace, manager, &Subject{}, false},
		{"admin edits any space", PolicyManageSpace, admin, &Subject{ManagerID: &other}, true},
		{"regular edits own-managed space", PolicyManageSpace, model.Actor{ID: other, Role: model.RoleRegular}, &Subject{ManagerID: &other}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.subject == nil {
				err = tt.policy.Authorize(tt.actor)
			} else {
				err = tt.policy.AuthorizeOn(tt.actor, *tt.subject)
			}
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				requireKind(t, err, apperr.KindForbidden)
			}
		})
	}
}

func TestOverlapCheckerFiltersCandidates(t *testing.T) {
	store := newMemStore()
	a := store.seed(model.Reservation{SpaceID: 1, StartTime: clock(10, 0), EndTime: clock(11, 0), Status: model.StatusConfirmed})
	store.seed(model.Reservation{SpaceID: 1, StartTime: clock(10, 0), EndTime: clock(11, 0), Status: model.StatusCanceled})
	store.seed(model.Reservation{SpaceID: 1, StartTime: clock(10, 0), EndTime: clock(11, 0), Status: model.StatusCompleted})
	store.seed(model.Reservation{SpaceID: 2, StartTime: clock(10, 0), EndTime: clock(11, 0), Status: model.StatusPending})
	store.seed(model.Reservation{SpaceID: 1, StartTime: clock(11, 0), EndTime: clock(12, 0), Status: model.StatusPending})

	var c OverlapChecker
	check := func(start, end time.Time, exclude uint64) []model.Reservation {
		var out []model.Reservation
		require.NoError(t, store.WithinTx(context.Background(), func(tx repository.ReservationTx) error {
			var err error
			out, err = c.Conflicts(context.Background(), tx, 1, start, end, exclude)
			return err
		}))
		return out
	}

	got := check(clock(10, 30), clock(10, 45), 0)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	assert.Empty(t, check(clock(10, 30), clock(10, 45), a.ID))
	assert.Empty(t, check(clock(9, 0), clock(10, 0), 0))
	assert.Len(t, check(clock(9, 0), clock(13, 0), 0), 2)
}
