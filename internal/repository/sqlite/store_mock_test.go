package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/hurtle-auth/internal/model"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return New(db), mock
}

func TestStore_GetByIdentifier_Mocked(t *testing.T) {
	id := uuid.New()
	accountColumns := []string{"id", "identifier", "display_name", "password_hash", "created_at", "updated_at"}

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
		check   func(t *testing.T, acc model.Account)
	}{
		{
			name: "found with link",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM accounts a WHERE a.identifier = \?`).
					WithArgs("a@x.com").
					WillReturnRows(sqlmock.NewRows(accountColumns).
						AddRow(id.String(), "a@x.com", "A", nil, int64(1700000000000), int64(1700000000000)))
				mock.ExpectQuery(`SELECT provider, provider_user_id, created_at FROM provider_links`).
					WithArgs(id.String()).
					WillReturnRows(sqlmock.NewRows([]string{"provider", "provider_user_id", "created_at"}).
						AddRow(model.ProviderGoogle, "g1", int64(1700000000000)))
			},
			check: func(t *testing.T, acc model.Account) {
				assert.Equal(t, id, acc.ID)
				assert.Nil(t, acc.PasswordHash)
				require.Len(t, acc.Links, 1)
				assert.Equal(t, "g1", acc.Links[0].ProviderUserID)
				assert.Equal(t, int64(1700000000000), acc.CreatedAt.UnixMilli())
			},
		},
		{
			name: "no rows",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM accounts a`).WithArgs("a@x.com").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: model.ErrNotFound,
		},
		{
			name: "driver failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM accounts a`).WithArgs("a@x.com").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
		{
			name: "corrupt id",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM accounts a`).WithArgs("a@x.com").
					WillReturnRows(sqlmock.NewRows(accountColumns).
						AddRow("not-a-uuid", "a@x.com", "A", "hash", int64(0), int64(0)))
			},
			wantErr: errors.New("failed to parse account id"),
		},
		{
			name: "links query failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM accounts a`).WithArgs("a@x.com").
					WillReturnRows(sqlmock.NewRows(accountColumns).
						AddRow(id.String(), "a@x.com", "A", "hash", int64(0), int64(0)))
				mock.ExpectQuery(`SELECT provider, provider_user_id, created_at FROM provider_links`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tt.setup(mock)

			acc, err := store.GetByIdentifier(context.Background(), "a@x.com")
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(err, tt.wantErr) {
					return
				}
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			tt.check(t, acc)
		})
	}
}

func TestStore_Create_Mocked(t *testing.T) {
	acc := model.Account{
		ID:         uuid.New(),
		Identifier: "a@x.com",
		Links:      []model.ProviderLink{{Provider: model.ProviderGoogle, ProviderUserID: "g1"}},
	}

	t.Run("begin fails", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

		_, err := store.Create(context.Background(), acc)
		require.ErrorIs(t, err, sql.ErrConnDone)
	})

	t.Run("link insert fails and rolls back", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO accounts`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO provider_links`).
			WithArgs(acc.ID.String(), model.ProviderGoogle, "g1", sqlmock.AnyArg()).
			WillReturnError(errors.New("disk I/O error"))
		mock.ExpectRollback()

		_, err := store.Create(context.Background(), acc)
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrConflict)
	})

	t.Run("unique violation message maps to conflict", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO accounts`).
			WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: accounts.identifier (2067)"))
		mock.ExpectRollback()

		_, err := store.Create(context.Background(), acc)
		require.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("commit fails", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO accounts`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO provider_links`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(sql.ErrConnDone)

		_, err := store.Create(context.Background(), acc)
		require.ErrorIs(t, err, sql.ErrConnDone)
	})
}
