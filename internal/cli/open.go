package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/eatthefrog/internal/config"
	"github.com/julianstephens/eatthefrog/internal/storage"
	"github.com/julianstephens/eatthefrog/internal/storage/postgres"
	"github.com/julianstephens/eatthefrog/internal/storage/redis"
	"github.com/julianstephens/eatthefrog/internal/storage/sqlite"
)

// OpenStore picks a backend for target. Targets typed on the command line or
// kept in config files must not embed a PostgreSQL password; secrets read
// from the keyring or environment are trusted.
func OpenStore(target string, trusted bool) (storage.Provider, error) {
	switch storage.DetectBackend(target) {
	case storage.BackendPostgres:
		if _, err := postgres.ValidateConnString(target); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, err
			}
			if !trusted {
				return nil, fmt.Errorf("%w; store it with 'frog keyring set' or export FROG_DB_CONNECTION instead", err)
			}
		}
		return postgres.New(target), nil
	case storage.BackendRedis:
		return redis.New(target), nil
	default:
		return sqlite.NewStore(config.ExpandPath(target)), nil
	}
}
