// Package storage defines the persistence contract shared by the SQLite,
// PostgreSQL and Redis backends.
package storage

import (
	"errors"
	"net/url"
	"strings"
)

// ErrNotInitialized is returned by Load when the backing store has never been initialized.
var ErrNotInitialized = errors.New("storage not initialized, run 'frog init' first")

// Backend identifies a storage implementation.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
)

// DetectBackend picks a backend from a --db value. URLs select PostgreSQL or
// Redis; anything else is a SQLite file path.
func DetectBackend(target string) Backend {
	t := strings.ToLower(strings.TrimSpace(target))
	switch {
	case strings.HasPrefix(t, "postgres://"), strings.HasPrefix(t, "postgresql://"):
		return BackendPostgres
	case strings.HasPrefix(t, "redis://"), strings.HasPrefix(t, "rediss://"):
		return BackendRedis
	default:
		return BackendSQLite
	}
}

// Redact hides any password in a URL-style target so it can be logged.
func Redact(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.User == nil {
		return target
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
