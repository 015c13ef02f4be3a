// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file or PostgreSQL DSN (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - UserKeySalt: Secret for user key HMAC (required)
  - BootstrapAdmin: Email of the first admin (optional)
  - EnvFile: Dotenv file read before the environment (default: .env)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-user-salt       User key salt
	-bootstrap-admin First admin email
	-env-file        Dotenv file

# Environment Variables

Flags fall back to environment variables:

	PORT                  → -p
	DATABASE_URL          → -d
	DATABASE_TYPE         → -t
	USER_KEY_SALT         → -user-salt
	BOOTSTRAP_ADMIN_EMAIL → -bootstrap-admin

CLI flags take precedence over environment variables, and the process
environment takes precedence over the dotenv file. A missing dotenv file is
ignored.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - DATABASE_TYPE is not sqlite or postgres
  - USER_KEY_SALT is missing
  - PORT is not a number
*/
package cliparse
