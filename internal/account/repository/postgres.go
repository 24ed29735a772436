package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"craftconnect/backend/internal/account/domain"
)

// pgxPool is the subset of *pgxpool.Pool used by the repository.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const accountColumns = `id, name, email, password_hash, phone, role, profile_completed,
	address, has_location, longitude, latitude, service_ids, created_at, updated_at`

const (
	insertServiceSQL = `INSERT INTO services (id, professional_id, name, type, rate, description, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	updateProfileSQL = `UPDATE accounts SET address = $2, has_location = $3, longitude = $4, latitude = $5,
		service_ids = $6, profile_completed = TRUE, updated_at = $7 WHERE id = $1`
	completeProfileSQL = updateProfileSQL + ` AND profile_completed = FALSE`
)

type PostgresRepository struct {
	pool pgxPool
}

// NewPostgresRepository returns an account repository backed by the given pool.
func NewPostgresRepository(pool pgxPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetByID returns the account for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, oops.With("operation", "get account by id").With("account_id", id).Wrap(err)
	}
	return a, nil
}

// GetByEmail returns the account with the given email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, oops.With("operation", "get account by email").Wrap(err)
	}
	return a, nil
}

// Create persists the account. The account must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	hasLoc, lon, lat := locationArgs(a.Location)
	_, err := r.pool.Exec(ctx,
		`INSERT INTO accounts (`+accountColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.Phone, string(a.Role), a.ProfileCompleted,
		a.Address, hasLoc, lon, lat, serviceIDs(a.ServicesOffered), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return oops.With("operation", "create account").With("account_id", a.ID).Wrap(err)
	}
	return nil
}

// UpdateProfile overwrites the profile fields of the account (last write wins).
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, p domain.Profile) error {
	hasLoc, lon, lat := locationArgs(p.Location)
	tag, err := r.pool.Exec(ctx, updateProfileSQL, id, p.Address, hasLoc, lon, lat, serviceIDs(p.ServiceIDs), p.UpdatedAt)
	if err != nil {
		return oops.With("operation", "update profile").With("account_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateService(ctx context.Context, s *domain.Service) error {
	_, err := r.pool.Exec(ctx, insertServiceSQL,
		s.ID, s.ProfessionalID, s.Name, s.Type, s.Rate, s.Description, s.Position, s.CreatedAt)
	if err != nil {
		return oops.With("operation", "create service").With("account_id", s.ProfessionalID).Wrap(err)
	}
	return nil
}

func (r *PostgresRepository) DeleteService(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id); err != nil {
		return oops.With("operation", "delete service").With("service_id", id).Wrap(err)
	}
	return nil
}

func (r *PostgresRepository) ListServices(ctx context.Context, professionalID string) ([]*domain.Service, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, professional_id, name, type, rate, description, position, created_at
		 FROM services WHERE professional_id = $1 ORDER BY position`, professionalID)
	if err != nil {
		return nil, oops.With("operation", "list services").With("account_id", professionalID).Wrap(err)
	}
	defer rows.Close()

	var out []*domain.Service
	for rows.Next() {
		s := &domain.Service{}
		if err := rows.Scan(&s.ID, &s.ProfessionalID, &s.Name, &s.Type, &s.Rate, &s.Description, &s.Position, &s.CreatedAt); err != nil {
			return nil, oops.With("operation", "scan service row").Wrap(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate services").Wrap(err)
	}
	return out, nil
}

// CompleteProfile inserts the services and updates the account in one transaction.
// The update only matches an incomplete profile, so concurrent completions from separate
// processes leave exactly one set of services; the loser gets ErrProfileAlreadyCompleted.
func (r *PostgresRepository) CompleteProfile(ctx context.Context, accountID string, p domain.Profile, services []*domain.Service) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return oops.With("operation", "begin complete profile").With("account_id", accountID).Wrap(err)
	}
	rollback := func(cause error) error {
		_ = tx.Rollback(ctx)
		return cause
	}
	for _, s := range services {
		if _, err := tx.Exec(ctx, insertServiceSQL,
			s.ID, s.ProfessionalID, s.Name, s.Type, s.Rate, s.Description, s.Position, s.CreatedAt); err != nil {
			return rollback(oops.With("operation", "create service").With("account_id", accountID).Wrap(err))
		}
	}
	hasLoc, lon, lat := locationArgs(p.Location)
	tag, err := tx.Exec(ctx, completeProfileSQL, accountID, p.Address, hasLoc, lon, lat, serviceIDs(p.ServiceIDs), p.UpdatedAt)
	if err != nil {
		return rollback(oops.With("operation", "update profile").With("account_id", accountID).Wrap(err))
	}
	if tag.RowsAffected() == 0 {
		var completed bool
		err := tx.QueryRow(ctx, `SELECT profile_completed FROM accounts WHERE id = $1`, accountID).Scan(&completed)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return rollback(domain.ErrNotFound)
		case err != nil:
			return rollback(oops.With("operation", "check profile state").With("account_id", accountID).Wrap(err))
		}
		return rollback(domain.ErrProfileAlreadyCompleted)
	}
	if err := tx.Commit(ctx); err != nil {
		return oops.With("operation", "commit complete profile").With("account_id", accountID).Wrap(err)
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a      domain.Account
		role   string
		hasLoc bool
		lon    float64
		lat    float64
	)
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Phone, &role, &a.ProfileCompleted,
		&a.Address, &hasLoc, &lon, &lat, &a.ServicesOffered, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Role = domain.Role(role)
	if hasLoc {
		a.Location = &domain.Location{Longitude: lon, Latitude: lat}
	}
	if a.ServicesOffered == nil {
		a.ServicesOffered = []string{}
	}
	return &a, nil
}

func locationArgs(loc *domain.Location) (bool, float64, float64) {
	if loc == nil {
		return false, 0, 0
	}
	return true, loc.Longitude, loc.Latitude
}

// serviceIDs never returns nil so the NOT NULL array column gets '{}'.
func serviceIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
