package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/space-reservation/internal/model"
)

const historyColumns = `id, reservation_id, action, action_user, details, action_date`

// ListHistory returns the audit trail of one reservation in the order it
// was written.
func (s *Store) ListHistory(ctx context.Context, reservationID uint64) ([]model.ReservationHistory, error) {
	return s.listHistory(ctx,
		`SELECT `+historyColumns+` FROM reservation_history WHERE reservation_id = ? ORDER BY action_date ASC, id ASC`,
		reservationID)
}

// ListAllHistory returns every history record, most recent first.
func (s *Store) ListAllHistory(ctx context.Context) ([]model.ReservationHistory, error) {
	return s.listHistory(ctx,
		`SELECT `+historyColumns+` FROM reservation_history ORDER BY action_date DESC, id DESC`)
}

func (s *Store) listHistory(ctx context.Context, q string, args ...any) ([]model.ReservationHistory, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ReservationHistory{}
	for rows.Next() {
		var (
			h       model.ReservationHistory
			actor   sql.NullInt64
			details sql.NullString
		)
		if err := rows.Scan(&h.ID, &h.ReservationID, &h.Action, &actor, &details, &h.ActionDate); err != nil {
			return nil, err
		}
		if actor.Valid {
			id := uint64(actor.Int64)
			h.ActionUser = &id
		}
		h.Details = details.String
		out = append(out, h)
	}
	return out, rows.Err()
}
