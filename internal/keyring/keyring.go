// Package keyring keeps connection secrets (database DSN, broker URL) in the
// OS keyring so they never land in config files or shell history.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/eatthefrog/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored for the account.
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring can't be reached.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Account names a secret stored under the frog service.
type Account string

const (
	Database Account = constants.DefaultKeyringUser
	Broker   Account = constants.BrokerKeyringUser
)

// ParseAccount maps a user-facing name to an Account.
func ParseAccount(name string) (Account, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "db", "database", string(Database):
		return Database, nil
	case "broker", "amqp", string(Broker):
		return Broker, nil
	default:
		return "", fmt.Errorf("unknown keyring account %q (want database or broker)", name)
	}
}

// Get returns the secret stored for account.
func Get(account Account) (string, error) {
	secret, err := keyring.Get(constants.AppName, string(account))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores secret for account, replacing any existing value.
func Set(account Account, secret string) error {
	if strings.TrimSpace(secret) == "" {
		return fmt.Errorf("%s secret cannot be empty", account)
	}
	if err := keyring.Set(constants.AppName, string(account), secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes the secret for account.
func Delete(account Account) error {
	err := keyring.Delete(constants.AppName, string(account))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// Lookup returns the secret for account, or "" when none is stored or the
// keyring is unavailable.
func Lookup(account Account) string {
	secret, err := Get(account)
	if err != nil {
		return ""
	}
	return secret
}

// IsAvailable makes a best-effort check that the OS keyring works.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
