package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/space-reservation/internal/model"
)

// SpaceResourceRepo manages the space_resources association table.
type SpaceResourceRepo struct {
	db *sql.DB
}

func NewSpaceResourceRepo(db *sql.DB) *SpaceResourceRepo { return &SpaceResourceRepo{db: db} }

// Upsert adds the association or overwrites its quantity.  created reports
// whether a new row was inserted.
func (r *SpaceResourceRepo) Upsert(ctx context.Context, sr model.SpaceResource) (created bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	var n int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM space_resources WHERE space_id = ? AND resource_id = ? FOR UPDATE`,
		sr.SpaceID, sr.ResourceID).Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE space_resources SET quantity = ? WHERE space_id = ? AND resource_id = ?`,
			sr.Quantity, sr.SpaceID, sr.ResourceID)
		return false, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO space_resources (space_id, resource_id, quantity) VALUES (?, ?, ?)`,
		sr.SpaceID, sr.ResourceID, sr.Quantity)
	return err == nil, err
}

// ListBySpace returns the resources offered by a space with resource details.
func (r *SpaceResourceRepo) ListBySpace(ctx context.Context, spaceID uint64) ([]model.SpaceResource, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sr.space_id, sr.resource_id, sr.quantity,
		        rs.id, rs.name, rs.description, rs.available_quantity, rs.created_at, rs.updated_at
		 FROM space_resources sr
		 JOIN resources rs ON rs.id = sr.resource_id
		 WHERE sr.space_id = ?
		 ORDER BY rs.name, rs.id`, spaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.SpaceResource{}
	for rows.Next() {
		var (
			sr   model.SpaceResource
			res  model.Resource
			desc sql.NullString
		)
		if err := rows.Scan(&sr.SpaceID, &sr.ResourceID, &sr.Quantity,
			&res.ID, &res.Name, &desc, &res.AvailableQuantity, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		res.Description = desc.String
		sr.Resource = &res
		out = append(out, sr)
	}
	return out, rows.Err()
}

func (r *SpaceResourceRepo) Delete(ctx context.Context, spaceID, resourceID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM space_resources WHERE space_id = ? AND resource_id = ?`, spaceID, resourceID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
