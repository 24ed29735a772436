// Package db opens the account database selected by DATABASE_URL.
package db

import (
	"fmt"
	"strings"
)

// Driver names returned by DriverFor.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DriverFor maps a DATABASE_URL to a driver. An empty URL selects the in-memory repository.
func DriverFor(databaseURL string) (string, error) {
	u := strings.TrimSpace(databaseURL)
	switch {
	case u == "":
		return DriverMemory, nil
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(u, "sqlite://"):
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL scheme in %q", redact(u))
	}
}

// SQLitePath returns the file path of a sqlite:// URL.
func SQLitePath(databaseURL string) string {
	return strings.TrimPrefix(strings.TrimSpace(databaseURL), "sqlite://")
}

// redact drops everything before the host so credentials do not end up in errors.
func redact(u string) string {
	if i := strings.LastIndex(u, "@"); i >= 0 {
		if j := strings.Index(u, "://"); j >= 0 && j < i {
			return u[:j+3] + "***" + u[i:]
		}
	}
	return u
}
