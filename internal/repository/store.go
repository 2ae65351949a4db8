package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/space-reservation/internal/model"
)

// ReservationTx is the set of reads and writes available to the lifecycle
// engine inside one unit of work.  Lock* methods take row locks that are held
// until the unit of work ends.
type ReservationTx interface {
	// LockSpace locks the space row.  Every admission for the same space
	// queues behind this lock, which makes check-then-insert race free.
	LockSpace(ctx context.Context, spaceID uint64) (model.Space, error)
	// ReservationsInWindow returns the pending/confirmed reservations of the
	// space whose window intersects [start, end).
	ReservationsInWindow(ctx context.Context, spaceID uint64, start, end time.Time) ([]model.Reservation, error)
	InsertReservation(ctx context.Context, r *model.Reservation) error
	LockReservation(ctx context.Context, id uint64) (model.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id uint64, status model.ReservationStatus) error
	AppendHistory(ctx context.Context, h *model.ReservationHistory) error
}

// Store is the reservation store: the transactional unit of work used by the
// lifecycle engine plus the read queries behind the reservation endpoints.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// WithinTx runs fn inside a database transaction.  The transaction commits
// when fn returns nil and rolls back on any error or panic.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ReservationTx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&sqlTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// sqlTx implements ReservationTx over *sql.Tx.
type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) LockSpace(ctx context.Context, spaceID uint64) (model.Space, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+spaceColumns+` FROM spaces WHERE id = ? FOR UPDATE`, spaceID)
	return scanSpace(row)
}

func (t *sqlTx) ReservationsInWindow(ctx context.Context, spaceID uint64, start, end time.Time) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE space_id = ? AND status IN (?, ?) AND start_time < ? AND end_time > ?
	           ORDER BY start_time FOR UPDATE`
	rows, err := t.tx.QueryContext(ctx, q, spaceID,
		model.StatusPending, model.StatusConfirmed, end.UTC(), start.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (t *sqlTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO reservations (space_id, user_id, start_time, end_time, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.SpaceID, r.UserID, r.StartTime.UTC(), r.EndTime.UTC(), r.Status, r.CreatedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = uint64(id)
	return nil
}

func (t *sqlTx) LockReservation(ctx context.Context, id uint64) (model.Reservation, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = ? FOR UPDATE`, id)
	return scanReservation(row)
}

func (t *sqlTx) UpdateReservationStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (t *sqlTx) AppendHistory(ctx context.Context, h *model.ReservationHistory) error {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO reservation_history (reservation_id, action, action_user, details, action_date) VALUES (?, ?, ?, ?, ?)`,
		h.ReservationID, h.Action, h.ActionUser, h.Details, h.ActionDate.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
