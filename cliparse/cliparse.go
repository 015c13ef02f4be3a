package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	UserKeySalt    string
	BootstrapAdmin string
	EnvFile        string
}

// ParseFlags validates flags and fills the rest from the environment.
// An optional dotenv file is loaded first; variables already present in the
// process environment are not overridden by it.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("rnd-tracker", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (postgres DSN or sqlite file)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.UserKeySalt, "user-salt", "", "User key salt (prefer env)")
	fs.StringVar(&cfg.BootstrapAdmin, "bootstrap-admin", "", "Email of the admin created when no users exist")
	fs.StringVar(&cfg.EnvFile, "env-file", ".env", "Dotenv file loaded when present")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", cfg.EnvFile, err)
		}
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.UserKeySalt == "" {
		cfg.UserKeySalt = os.Getenv("USER_KEY_SALT")
	}
	if cfg.UserKeySalt == "" {
		return Config{}, errors.New("USER_KEY_SALT required")
	}

	if cfg.BootstrapAdmin == "" {
		cfg.BootstrapAdmin = os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	}

	return cfg, nil
}
