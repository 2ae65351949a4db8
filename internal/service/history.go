package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/space-reservation/internal/model"
	"github.com/iliyamo/space-reservation/internal/repository"
)

// HistoryRecorder writes the audit row for each lifecycle transition.  It is
// the only writer of reservation_history.
type HistoryRecorder struct{}

// Created records the creation of r.
func (HistoryRecorder) Created(ctx context.Context, tx repository.ReservationTx, r model.Reservation, actor model.Actor, at time.Time) error {
	return record(ctx, tx, r.ID, model.ActionCreated, actor,
		fmt.Sprintf("Reservation created by user %d", actor.ID), at)
}

// StatusChanged records a from -> to status transition of r.
func (HistoryRecorder) StatusChanged(ctx context.Context, tx repository.ReservationTx, r model.Reservation, from, to model.ReservationStatus, actor model.Actor, at time.Time) error {
	return record(ctx, tx, r.ID, model.StatusChangedAction(from, to), actor,
		fmt.Sprintf("Reservation status updated by %s (ID: %d)", actor.Role, actor.ID), at)
}

// Cancelled records the cancellation of r by actor.
func (HistoryRecorder) Cancelled(ctx context.Context, tx repository.ReservationTx, r model.Reservation, actor model.Actor, at time.Time) error {
	return record(ctx, tx, r.ID, model.ActionCancelled, actor,
		fmt.Sprintf("Reservation cancelled by %s (ID: %d)", actor.Role, actor.ID), at)
}

func record(ctx context.Context, tx repository.ReservationTx, reservationID uint64, action string, actor model.Actor, details string, at time.Time) error {
	uid := actor.ID
	h := model.ReservationHistory{
		ReservationID: reservationID,
		Action:        action,
		ActionUser:    &uid,
		Details:       details,
		ActionDate:    at,
	}
	if err := tx.AppendHistory(ctx, &h); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}
