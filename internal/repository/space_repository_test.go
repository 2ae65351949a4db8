package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/space-reservation/internal/model"
)

func TestDeleteIfIdle(t *testing.T) {
	tests := []struct {
		name     string
		reserved int
		wantErr  error
	}{
		{"unreserved space is deleted", 0, nil},
		{"active reservations block delete", 2, ErrConflict},
		{"canceled reservation blocks delete", 1, ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM spaces WHERE id = ? FOR UPDATE")).WithArgs(5).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
			mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations WHERE space_id = ?")).WithArgs(5).
				WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(tt.reserved))
			if tt.wantErr == nil {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM spaces WHERE id = ?")).WithArgs(5).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			err = NewSpaceRepo(db).DeleteIfIdle(context.Background(), 5)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			// Any statement touching reservations or their history would be
			// unexpected here and fail the call above.
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDeleteIfIdleMissingSpace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM spaces")).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	assert.ErrorIs(t, NewSpaceRepo(db).DeleteIfIdle(context.Background(), 5), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpaceUpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE spaces SET")).WillReturnResult(sqlmock.NewResult(0, 0))
	err = NewSpaceRepo(db).Update(context.Background(), model.Space{ID: 1, Name: "x", Status: model.SpaceActive})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSpaceResourceUpsert(t *testing.T) {
	for _, existing := range []int{0, 1} {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FROM space_resources WHERE space_id = ? AND resource_id = ? FOR UPDATE")).
			WithArgs(1, 2).
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(existing))
		if existing == 0 {
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO space_resources")).WithArgs(1, 2, 4).
				WillReturnResult(sqlmock.NewResult(0, 1))
		} else {
			mock.ExpectExec(regexp.QuoteMeta("UPDATE space_resources SET quantity = ?")).WithArgs(4, 1, 2).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		created, err := NewSpaceResourceRepo(db).Upsert(context.Background(), model.SpaceResource{SpaceID: 1, ResourceID: 2, Quantity: 4})
		require.NoError(t, err)
		assert.Equal(t, existing == 0, created)
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	}
}
