package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/space-reservation/internal/model"
)

const reservationColumns = `id, space_id, user_id, start_time, end_time, status, created_at`

func scanReservation(s scanner) (model.Reservation, error) {
	var r model.Reservation
	err := s.Scan(&r.ID, &r.SpaceID, &r.UserID, &r.StartTime, &r.EndTime, &r.Status, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNotFound
	}
	return r, err
}

// reservationDetailQuery joins a reservation with the space and the user
// that owns it.  Callers append WHERE/ORDER BY.
const reservationDetailQuery = `SELECT r.id, r.space_id, r.user_id, r.start_time, r.end_time, r.status, r.created_at,
       s.id, s.name, s.type, u.id, u.name, u.email
FROM reservations r
JOIN spaces s ON s.id = r.space_id
JOIN users u ON u.id = r.user_id`

func scanReservationDetail(s scanner) (model.ReservationDetail, error) {
	var d model.ReservationDetail
	err := s.Scan(
		&d.ID, &d.SpaceID, &d.UserID, &d.StartTime, &d.EndTime, &d.Status, &d.CreatedAt,
		&d.Space.ID, &d.Space.Name, &d.Space.Type,
		&d.User.ID, &d.User.Name, &d.User.Email,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	return d, err
}

// GetReservation loads one reservation with its space and owner.
func (s *Store) GetReservation(ctx context.Context, id uint64) (model.ReservationDetail, error) {
	row := s.db.QueryRowContext(ctx, reservationDetailQuery+` WHERE r.id = ?`, id)
	return scanReservationDetail(row)
}

// ListReservationsByUser returns the user's reservations, newest window first.
func (s *Store) ListReservationsByUser(ctx context.Context, userID uint64) ([]model.ReservationDetail, error) {
	return s.listReservations(ctx, reservationDetailQuery+` WHERE r.user_id = ? ORDER BY r.start_time DESC, r.id DESC`, userID)
}

// ListReservations returns every reservation, newest window first.
func (s *Store) ListReservations(ctx context.Context) ([]model.ReservationDetail, error) {
	return s.listReservations(ctx, reservationDetailQuery+` ORDER BY r.start_time DESC, r.id DESC`)
}

// CountActiveReservations counts the pending/confirmed reservations of a space.
func (s *Store) CountActiveReservations(ctx context.Context, spaceID uint64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE space_id = ? AND status IN (?, ?)`,
		spaceID, model.StatusPending, model.StatusConfirmed).Scan(&n)
	return n, err
}

func (s *Store) listReservations(ctx context.Context, q string, args ...any) ([]model.ReservationDetail, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ReservationDetail{}
	for rows.Next() {
		d, err := scanReservationDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
