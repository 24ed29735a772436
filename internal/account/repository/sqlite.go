package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"craftconnect/backend/internal/account/domain"
)

// sqlExecer is satisfied by *sql.DB and *sql.Tx.
type sqlExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const (
	sqliteInsertServiceSQL = `INSERT INTO services (id, professional_id, name, type, rate, description, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	sqliteUpdateProfileSQL = `UPDATE accounts SET address = ?, has_location = ?, longitude = ?, latitude = ?,
		service_ids = ?, profile_completed = 1, updated_at = ? WHERE id = ?`
	sqliteCompleteProfileSQL = sqliteUpdateProfileSQL + ` AND profile_completed = 0`
)

// SQLiteRepository stores accounts in SQLite. Timestamps are RFC 3339 text and
// service ids a JSON array.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns an account repository using db.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	a, err := sqliteScanAccount(r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query account by id: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	a, err := sqliteScanAccount(r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query account by email: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, a *domain.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	ids, err := encodeIDs(a.ServicesOffered)
	if err != nil {
		return err
	}
	hasLoc, lon, lat := locationArgs(a.Location)
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.Phone, string(a.Role), a.ProfileCompleted,
		a.Address, hasLoc, lon, lat, ids, formatTime(a.CreatedAt), formatTime(a.UpdatedAt))
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, id string, p domain.Profile) error {
	return sqliteUpdateProfile(ctx, r.db, sqliteUpdateProfileSQL, id, p)
}

func (r *SQLiteRepository) CreateService(ctx context.Context, s *domain.Service) error {
	return sqliteInsertService(ctx, r.db, s)
}

func (r *SQLiteRepository) DeleteService(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListServices(ctx context.Context, professionalID string) ([]*domain.Service, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, professional_id, name, type, rate, description, position, created_at
		 FROM services WHERE professional_id = ? ORDER BY position`, professionalID)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	defer rows.Close()

	var out []*domain.Service
	for rows.Next() {
		s := &domain.Service{}
		var created string
		if err := rows.Scan(&s.ID, &s.ProfessionalID, &s.Name, &s.Type, &s.Rate, &s.Description, &s.Position, &created); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		if s.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CompleteProfile inserts the services and updates the account in one transaction.
func (r *SQLiteRepository) CompleteProfile(ctx context.Context, accountID string, p domain.Profile, services []*domain.Service) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin complete profile: %w", err)
	}
	for _, s := range services {
		if err := sqliteInsertService(ctx, tx, s); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := sqliteUpdateProfile(ctx, tx, sqliteCompleteProfileSQL, accountID, p); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			var completed bool
			switch qerr := tx.QueryRowContext(ctx, `SELECT profile_completed FROM accounts WHERE id = ?`, accountID).Scan(&completed); {
			case qerr == nil:
				err = domain.ErrProfileAlreadyCompleted
			case !errors.Is(qerr, sql.ErrNoRows):
				err = fmt.Errorf("check profile state: %w", qerr)
			}
		}
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit complete profile: %w", err)
	}
	return nil
}

func sqliteInsertService(ctx context.Context, db sqlExecer, s *domain.Service) error {
	_, err := db.ExecContext(ctx, sqliteInsertServiceSQL,
		s.ID, s.ProfessionalID, s.Name, s.Type, s.Rate, s.Description, s.Position, formatTime(s.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func sqliteUpdateProfile(ctx context.Context, db sqlExecer, query, id string, p domain.Profile) error {
	ids, err := encodeIDs(p.ServiceIDs)
	if err != nil {
		return err
	}
	hasLoc, lon, lat := locationArgs(p.Location)
	res, err := db.ExecContext(ctx, query, p.Address, hasLoc, lon, lat, ids, formatTime(p.UpdatedAt), id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func sqliteScanAccount(row *sql.Row) (*domain.Account, error) {
	var (
		a                domain.Account
		role             string
		hasLoc           bool
		lon, lat         float64
		ids              string
		created, updated string
	)
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Phone, &role, &a.ProfileCompleted,
		&a.Address, &hasLoc, &lon, &lat, &ids, &created, &updated)
	if err != nil {
		return nil, err
	}
	a.Role = domain.Role(role)
	if hasLoc {
		a.Location = &domain.Location{Longitude: lon, Latitude: lat}
	}
	if err := json.Unmarshal([]byte(ids), &a.ServicesOffered); err != nil {
		return nil, fmt.Errorf("decode service ids: %w", err)
	}
	if a.ServicesOffered == nil {
		a.ServicesOffered = []string{}
	}
	if a.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &a, nil
}

func encodeIDs(ids []string) (string, error) {
	b, err := json.Marshal(serviceIDs(ids))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func isSQLiteUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
