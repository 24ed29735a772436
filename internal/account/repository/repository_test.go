package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftconnect/backend/internal/account/domain"
	"craftconnect/backend/internal/db"
	"craftconnect/backend/internal/db/migrate"
)

var testNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newProfessional(id, email string) *domain.Account {
	return &domain.Account{
		ID:              id,
		Name:            "Jane",
		Email:           email,
		PasswordHash:    "hash",
		Phone:           "+15551234567",
		Role:            domain.RoleProfessional,
		ServicesOffered: []string{},
		CreatedAt:       testNow,
		UpdatedAt:       testNow,
	}
}

func newSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.db")
	require.NoError(t, migrate.Run("sqlite://"+path, "up"))
	conn, err := db.OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewSQLiteRepository(conn)
}

// repositoryContract covers the behaviour shared by every Repository.
func repositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, newProfessional("a1", "jane@x.com")))

		got, err := repo.GetByEmail(ctx, "jane@x.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "a1", got.ID)
		assert.Equal(t, domain.RoleProfessional, got.Role)
		assert.False(t, got.ProfileCompleted)
		assert.Nil(t, got.Location)
		assert.Empty(t, got.ServicesOffered)
		assert.True(t, got.CreatedAt.Equal(testNow))

		byID, err := repo.GetByID(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "jane@x.com", byID.Email)
	})

	t.Run("missing returns nil", func(t *testing.T) {
		repo := newRepo(t)
		a, err := repo.GetByEmail(ctx, "nobody@x.com")
		require.NoError(t, err)
		assert.Nil(t, a)
		a, err = repo.GetByID(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, a)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, newProfessional("a1", "jane@x.com")))
		err := repo.Create(ctx, newProfessional("a2", "jane@x.com"))
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("invalid account", func(t *testing.T) {
		repo := newRepo(t)
		bad := newProfessional("", "jane@x.com")
		assert.Error(t, repo.Create(ctx, bad))
	})

	t.Run("services and profile", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, newProfessional("a1", "jane@x.com")))
		for i, name := range []string{"Plumbing", "Tiling"} {
			require.NoError(t, repo.CreateService(ctx, &domain.Service{
				ID: name + "-id", ProfessionalID: "a1", Name: name, Type: "repair",
				Rate: 50, Description: "...", Position: i, CreatedAt: testNow,
			}))
		}
		services, err := repo.ListServices(ctx, "a1")
		require.NoError(t, err)
		require.Len(t, services, 2)
		assert.Equal(t, "Plumbing", services[0].Name)
		assert.Equal(t, "Tiling", services[1].Name)

		loc := &domain.Location{Longitude: -73.98, Latitude: 40.75}
		require.NoError(t, repo.UpdateProfile(ctx, "a1", domain.Profile{
			Address:    "1 Main St",
			Location:   loc,
			ServiceIDs: []string{"Plumbing-id", "Tiling-id"},
			UpdatedAt:  testNow.Add(time.Hour),
		}))
		got, err := repo.GetByID(ctx, "a1")
		require.NoError(t, err)
		assert.True(t, got.ProfileCompleted)
		assert.Equal(t, "1 Main St", got.Address)
		require.NotNil(t, got.Location)
		assert.Equal(t, *loc, *got.Location)
		assert.Equal(t, []string{"Plumbing-id", "Tiling-id"}, got.ServicesOffered)

		require.NoError(t, repo.DeleteService(ctx, "Tiling-id"))
		services, err = repo.ListServices(ctx, "a1")
		require.NoError(t, err)
		assert.Len(t, services, 1)
	})

	t.Run("update missing account", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.UpdateProfile(ctx, "ghost", domain.Profile{UpdatedAt: testNow})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMemoryRepository(t *testing.T) {
	repositoryContract(t, func(t *testing.T) Repository { return NewMemoryRepository() })
}

func TestSQLiteRepository(t *testing.T) {
	repositoryContract(t, func(t *testing.T) Repository { return newSQLiteRepo(t) })
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	require.NoError(t, repo.Create(ctx, newProfessional("a1", "jane@x.com")))

	got, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	got.Name = "Mallory"
	got.ServicesOffered = append(got.ServicesOffered, "x")

	again, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", again.Name)
	assert.Empty(t, again.ServicesOffered)
}

func TestSQLiteRepository_CompleteProfileIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)
	require.NoError(t, repo.Create(ctx, newProfessional("a1", "jane@x.com")))

	services := []*domain.Service{
		{ID: "s1", ProfessionalID: "a1", Name: "Plumbing", Type: "repair", Rate: 50, Position: 0, CreatedAt: testNow},
		{ID: "s1", ProfessionalID: "a1", Name: "Duplicate id", Type: "repair", Rate: 10, Position: 1, CreatedAt: testNow},
	}
	err := repo.CompleteProfile(ctx, "a1", domain.Profile{ServiceIDs: []string{"s1", "s1"}, UpdatedAt: testNow}, services)
	require.Error(t, err)

	listed, err := repo.ListServices(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, listed, "first insert must be rolled back")
	got, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, got.ProfileCompleted)

	services[1].ID = "s2"
	require.NoError(t, repo.CompleteProfile(ctx, "a1", domain.Profile{
		Address: "1 Main St", ServiceIDs: []string{"s1", "s2"}, UpdatedAt: testNow,
	}, services))
	got, err = repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, got.ProfileCompleted)
	assert.Equal(t, []string{"s1", "s2"}, got.ServicesOffered)
}

func TestSQLiteRepository_CompleteProfileOnlyOnce(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)
	require.NoError(t, repo.Create(ctx, newProfessional("a1", "jane@x.com")))

	first := []*domain.Service{{ID: "s1", ProfessionalID: "a1", Name: "Plumbing", Type: "repair", Rate: 50, CreatedAt: testNow}}
	require.NoError(t, repo.CompleteProfile(ctx, "a1", domain.Profile{Address: "1 Main St", ServiceIDs: []string{"s1"}, UpdatedAt: testNow}, first))

	second := []*domain.Service{{ID: "s2", ProfessionalID: "a1", Name: "Tiling", Type: "repair", Rate: 40, CreatedAt: testNow}}
	err := repo.CompleteProfile(ctx, "a1", domain.Profile{Address: "elsewhere", ServiceIDs: []string{"s2"}, UpdatedAt: testNow}, second)
	require.ErrorIs(t, err, domain.ErrProfileAlreadyCompleted)

	listed, err := repo.ListServices(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "s1", listed[0].ID)
	got, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", got.Address)
}

func TestSQLiteRepository_CompleteProfileMissingAccount(t *testing.T) {
	repo := newSQLiteRepo(t)
	err := repo.CompleteProfile(context.Background(), "ghost", domain.Profile{UpdatedAt: testNow}, nil)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSQLiteRepository_ServiceRequiresAccount(t *testing.T) {
	repo := newSQLiteRepo(t)
	err := repo.CreateService(context.Background(), &domain.Service{
		ID: "s1", ProfessionalID: "ghost", Name: "x", Type: "y", CreatedAt: testNow,
	})
	assert.Error(t, err, "foreign key should reject unknown professional")
}
