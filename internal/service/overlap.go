package service

import (
	"context"
	"time"

	"github.com/iliyamo/space-reservation/internal/model"
	"github.com/iliyamo/space-reservation/internal/repository"
)

// OverlapChecker finds active reservations that intersect a window.  It
// must run on the same unit of work as the write it guards, after the space
// lock is held.
type OverlapChecker struct{}

// Conflicts returns the pending/confirmed reservations of spaceID that share
// an instant with [start, end), skipping excludeID (0 excludes nothing).
// Candidates come from the store's window query and are re-checked here so
// the half-open rule does not depend on the SQL.
func (OverlapChecker) Conflicts(ctx context.Context, tx repository.ReservationTx, spaceID uint64, start, end time.Time, excludeID uint64) ([]model.Reservation, error) {
	candidates, err := tx.ReservationsInWindow(ctx, spaceID, start, end)
	if err != nil {
		return nil, err
	}
	var out []model.Reservation
	for _, r := range candidates {
		if r.ID == excludeID || r.SpaceID != spaceID {
			continue
		}
		if r.Status.Blocking() && r.Overlaps(start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

// HasConflict reports whether any reservation blocks [start, end).
func (c OverlapChecker) HasConflict(ctx context.Context, tx repository.ReservationTx, spaceID uint64, start, end time.Time, excludeID uint64) (bool, error) {
	conflicts, err := c.Conflicts(ctx, tx, spaceID, start, end, excludeID)
	return len(conflicts) > 0, err
}
