package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/space-reservation/internal/model"
)

const spaceColumns = `id, name, type, capacity, price, description, image_url, manager_id, is_available, status, created_at, updated_at`

// SpaceRepo provides CRUD operations for spaces.
type SpaceRepo struct {
	db *sql.DB
}

func NewSpaceRepo(db *sql.DB) *SpaceRepo { return &SpaceRepo{db: db} }

func scanSpace(s scanner) (model.Space, error) {
	var (
		sp        model.Space
		desc, img sql.NullString
		manager   sql.NullInt64
	)
	err := s.Scan(&sp.ID, &sp.Name, &sp.Type, &sp.Capacity, &sp.Price, &desc, &img,
		&manager, &sp.IsAvailable, &sp.Status, &sp.CreatedAt, &sp.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sp, ErrNotFound
	}
	if err != nil {
		return sp, err
	}
	sp.Description = desc.String
	sp.ImageURL = img.String
	if manager.Valid {
		id := uint64(manager.Int64)
		sp.ManagerID = &id
	}
	return sp, nil
}

// Create inserts the space and fills in its generated ID.
func (r *SpaceRepo) Create(ctx context.Context, sp *model.Space) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO spaces (name, type, capacity, price, description, image_url, manager_id, is_available, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sp.Name, sp.Type, sp.Capacity, sp.Price, nullString(sp.Description), nullString(sp.ImageURL),
		sp.ManagerID, sp.IsAvailable, sp.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	sp.ID = uint64(id)
	return nil
}

func (r *SpaceRepo) GetByID(ctx context.Context, id uint64) (model.Space, error) {
	return scanSpace(r.db.QueryRowContext(ctx, `SELECT `+spaceColumns+` FROM spaces WHERE id = ?`, id))
}

func (r *SpaceRepo) List(ctx context.Context) ([]model.Space, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+spaceColumns+` FROM spaces ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Space{}
	for rows.Next() {
		sp, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// Update overwrites every mutable column of the space.
func (r *SpaceRepo) Update(ctx context.Context, sp model.Space) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE spaces SET name = ?, type = ?, capacity = ?, price = ?, description = ?, image_url = ?,
		        manager_id = ?, is_available = ?, status = ?
		 WHERE id = ?`,
		sp.Name, sp.Type, sp.Capacity, sp.Price, nullString(sp.Description), nullString(sp.ImageURL),
		sp.ManagerID, sp.IsAvailable, sp.Status, sp.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteIfIdle removes a space that has never been reserved.  Reservations
// are kept for audit in every state, so a space with any reservation row,
// canceled or completed ones included, yields ErrConflict and nothing is
// removed.  The space row is locked first so that no reservation can be
// admitted between the check and the delete.
func (r *SpaceRepo) DeleteIfIdle(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	var locked uint64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM spaces WHERE id = ? FOR UPDATE`, id).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	var reserved int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE space_id = ?`, id).Scan(&reserved); err != nil {
		return err
	}
	if reserved > 0 {
		return ErrConflict
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM spaces WHERE id = ?`, id)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// requireAffected maps "no row matched" to ErrNotFound.  The DSN sets
// clientFoundRows so MySQL counts matched rows, not changed ones.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
