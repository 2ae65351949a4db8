package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/space-reservation/internal/model"
)

const resourceColumns = `id, name, description, available_quantity, created_at, updated_at`

// ResourceRepo provides CRUD operations for resources.
type ResourceRepo struct {
	db *sql.DB
}

func NewResourceRepo(db *sql.DB) *ResourceRepo { return &ResourceRepo{db: db} }

func scanResource(s scanner) (model.Resource, error) {
	var (
		res  model.Resource
		desc sql.NullString
	)
	err := s.Scan(&res.ID, &res.Name, &desc, &res.AvailableQuantity, &res.CreatedAt, &res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNotFound
	}
	res.Description = desc.String
	return res, err
}

func (r *ResourceRepo) Create(ctx context.Context, res *model.Resource) error {
	out, err := r.db.ExecContext(ctx,
		`INSERT INTO resources (name, description, available_quantity) VALUES (?, ?, ?)`,
		res.Name, nullString(res.Description), res.AvailableQuantity)
	if err != nil {
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

func (r *ResourceRepo) GetByID(ctx context.Context, id uint64) (model.Resource, error) {
	return scanResource(r.db.QueryRowContext(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id))
}

func (r *ResourceRepo) List(ctx context.Context) ([]model.Resource, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+resourceColumns+` FROM resources ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *ResourceRepo) Update(ctx context.Context, res model.Resource) error {
	out, err := r.db.ExecContext(ctx,
		`UPDATE resources SET name = ?, description = ?, available_quantity = ? WHERE id = ?`,
		res.Name, nullString(res.Description), res.AvailableQuantity, res.ID)
	if err != nil {
		return err
	}
	return requireAffected(out)
}

// Delete removes the resource; its space associations cascade.
func (r *ResourceRepo) Delete(ctx context.Context, id uint64) error {
	out, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(out)
}
