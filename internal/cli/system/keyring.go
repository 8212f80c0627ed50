package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/keyring"
	"github.com/julianstephens/eatthefrog/internal/storage"
	"github.com/julianstephens/eatthefrog/internal/storage/postgres"
)

// KeyringSetCmd stores a connection secret in the OS keyring.
type KeyringSetCmd struct {
	Account string `help:"Which secret to store: database or broker." default:"database"`
	Secret  string `arg:"" help:"Database connection string or AMQP broker URL."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	account, err := keyring.ParseAccount(cmd.Account)
	if err != nil {
		return err
	}

	switch account {
	case keyring.Database:
		if err := validateDatabaseSecret(cmd.Secret); err != nil {
			return err
		}
	case keyring.Broker:
		if !strings.HasPrefix(cmd.Secret, "amqp://") && !strings.HasPrefix(cmd.Secret, "amqps://") {
			return errors.New("broker URL must start with amqp:// or amqps://")
		}
	}

	if err := keyring.Set(account, cmd.Secret); err != nil {
		return err
	}

	fmt.Printf("✓ %s secret stored successfully in OS keyring\n", account)
	if account == keyring.Database {
		fmt.Println("  frog will use it whenever --db is not given")
	}
	return nil
}

func validateDatabaseSecret(secret string) error {
	isDSN := strings.Contains(secret, "host=")
	switch storage.DetectBackend(secret) {
	case storage.BackendRedis:
		return nil
	case storage.BackendSQLite:
		if !isDSN {
			return errors.New("connection string must be a PostgreSQL or Redis connection string")
		}
	}

	if _, err := postgres.ValidateConnString(secret); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
		fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
	}
	return nil
}

// KeyringGetCmd prints a stored secret with its password masked.
type KeyringGetCmd struct {
	Account string `help:"Which secret to show: database or broker." default:"database"`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	account, err := keyring.ParseAccount(cmd.Account)
	if err != nil {
		return err
	}
	secret, err := keyring.Get(account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s secret found in keyring. Use 'frog keyring set' to store one", account)
		}
		return err
	}

	fmt.Printf("%s secret retrieved from keyring:\n", account)
	fmt.Println(maskPassword(secret))
	return nil
}

// KeyringDeleteCmd removes a stored secret.
type KeyringDeleteCmd struct {
	Account string `help:"Which secret to delete: database or broker." default:"database"`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	account, err := keyring.ParseAccount(cmd.Account)
	if err != nil {
		return err
	}
	if err := keyring.Delete(account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s secret found in keyring", account)
		}
		return err
	}
	fmt.Printf("✓ %s secret deleted from OS keyring\n", account)
	return nil
}

// KeyringStatusCmd reports keyring availability and which secrets are stored.
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Println("✓ OS keyring is available")

	for _, account := range []keyring.Account{keyring.Database, keyring.Broker} {
		if _, err := keyring.Get(account); err == nil {
			fmt.Printf("✓ %s secret is stored\n", account)
		} else {
			fmt.Printf("ℹ No %s secret stored\n", account)
		}
	}
	return nil
}

// maskPassword hides the password in URL or key=value connection strings.
func maskPassword(connStr string) string {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" && u.User != nil {
		if _, ok := u.User.Password(); ok {
			return strings.Replace(u.Redacted(), "xxxxx", "****", 1)
		}
		return connStr
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}
	return connStr
}
