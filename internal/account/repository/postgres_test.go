package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftconnect/backend/internal/account/domain"
)

var accountColumnNames = []string{
	"id", "name", "email", "password_hash", "phone", "role", "profile_completed",
	"address", "has_location", "longitude", "latitude", "service_ids", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return NewPostgresRepository(mock), mock
}

func TestPostgresRepository_GetByEmail(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantNil   bool
		wantErr   bool
	}{
		{
			name: "found with location",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(accountColumnNames).
					AddRow("a1", "Jane", "jane@x.com", "hash", "+15551234567", "professional", true,
						"1 Main St", true, -73.98, 40.75, []string{"s1"}, testNow, testNow)
				mock.ExpectQuery(`SELECT .+ FROM accounts WHERE email = \$1`).
					WithArgs("jane@x.com").
					WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .+ FROM accounts WHERE email = \$1`).
					WithArgs("jane@x.com").
					WillReturnRows(pgxmock.NewRows(accountColumnNames))
			},
			wantNil: true,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .+ FROM accounts WHERE email = \$1`).
					WithArgs("jane@x.com").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			tt.setupMock(mock)

			got, err := repo.GetByEmail(context.Background(), "jane@x.com")
			switch {
			case tt.wantErr:
				require.Error(t, err)
				assert.Contains(t, err.Error(), "connection refused")
			case tt.wantNil:
				require.NoError(t, err)
				assert.Nil(t, got)
			default:
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, domain.RoleProfessional, got.Role)
				require.NotNil(t, got.Location)
				assert.Equal(t, 40.75, got.Location.Latitude)
				assert.Equal(t, []string{"s1"}, got.ServicesOffered)
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestPostgresRepository_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		a := newProfessional("a1", "jane@x.com")
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs("a1", "Jane", "jane@x.com", "hash", "+15551234567", "professional", false,
				"", false, 0.0, 0.0, []string{}, testNow, testNow).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.Create(context.Background(), a))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs(anyArgs(14)...).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		err := repo.Create(context.Background(), newProfessional("a1", "jane@x.com"))
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepository_UpdateProfile(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`UPDATE accounts SET`).
		WithArgs("a1", "1 Main St", true, -73.98, 40.75, []string{"s1"}, testNow).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE accounts SET`).
		WithArgs("ghost", "1 Main St", true, -73.98, 40.75, []string{"s1"}, testNow).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	p := domain.Profile{
		Address:    "1 Main St",
		Location:   &domain.Location{Longitude: -73.98, Latitude: 40.75},
		ServiceIDs: []string{"s1"},
		UpdatedAt:  testNow,
	}
	require.NoError(t, repo.UpdateProfile(context.Background(), "a1", p))
	assert.ErrorIs(t, repo.UpdateProfile(context.Background(), "ghost", p), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListServices(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := pgxmock.NewRows([]string{"id", "professional_id", "name", "type", "rate", "description", "position", "created_at"}).
		AddRow("s1", "a1", "Plumbing", "repair", 50.0, "...", 0, testNow).
		AddRow("s2", "a1", "Tiling", "repair", 40.0, "", 1, testNow)
	mock.ExpectQuery(`SELECT .+ FROM services WHERE professional_id = \$1 ORDER BY position`).
		WithArgs("a1").
		WillReturnRows(rows)

	got, err := repo.ListServices(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Tiling", got[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CompleteProfile(t *testing.T) {
	services := []*domain.Service{
		{ID: "s1", ProfessionalID: "a1", Name: "Plumbing", Type: "repair", Rate: 50, Description: "...", Position: 0, CreatedAt: testNow},
	}
	p := domain.Profile{Address: "1 Main St", ServiceIDs: []string{"s1"}, UpdatedAt: testNow}
	profileArgs := []any{"a1", "1 Main St", false, 0.0, 0.0, []string{"s1"}, testNow}

	expectServiceInsert := func(mock pgxmock.PgxPoolIface) *pgxmock.ExpectedExec {
		return mock.ExpectExec(`INSERT INTO services`).
			WithArgs("s1", "a1", "Plumbing", "repair", 50.0, "...", 0, testNow)
	}

	t.Run("commits", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		expectServiceInsert(mock).WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`UPDATE accounts SET .+ WHERE id = \$1 AND profile_completed = FALSE`).
			WithArgs(profileArgs...).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.CompleteProfile(context.Background(), "a1", p, services))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on service failure", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		expectServiceInsert(mock).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.CompleteProfile(context.Background(), "a1", p, services)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when account missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		expectServiceInsert(mock).WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`UPDATE accounts SET`).
			WithArgs(profileArgs...).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectQuery(`SELECT profile_completed FROM accounts WHERE id = \$1`).
			WithArgs("a1").
			WillReturnRows(pgxmock.NewRows([]string{"profile_completed"}))
		mock.ExpectRollback()

		err := repo.CompleteProfile(context.Background(), "a1", p, services)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when another writer completed first", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		expectServiceInsert(mock).WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`UPDATE accounts SET`).
			WithArgs(profileArgs...).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectQuery(`SELECT profile_completed FROM accounts WHERE id = \$1`).
			WithArgs("a1").
			WillReturnRows(pgxmock.NewRows([]string{"profile_completed"}).AddRow(true))
		mock.ExpectRollback()

		err := repo.CompleteProfile(context.Background(), "a1", p, services)
		assert.ErrorIs(t, err, domain.ErrProfileAlreadyCompleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}
