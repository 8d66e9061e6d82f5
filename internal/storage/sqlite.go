package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (and creates if needed) the SQLite database at path and
// ensures required tables exist.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Basic health check + apply a few safe pragmas.
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, "PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign_keys: %w", err)
	}
	if _, err := db.ExecContext(pctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if err := BootstrapSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// BootstrapSQLite creates tables/indexes if missing.
func BootstrapSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cards (
  id             TEXT PRIMARY KEY,
  user_id        TEXT,
  holder_name    TEXT,
  reference      TEXT,
  card_reference TEXT,
  status         TEXT NOT NULL DEFAULT 'pending',
  card_number    TEXT,
  masked_pan     TEXT,
  first_six      TEXT,
  last_four      TEXT,
  expiry         TEXT,
  expiry_month   TEXT,
  expiry_year    TEXT,
  cvv            TEXT,
  balance        INTEGER,
  created_at     TEXT NOT NULL,
  updated_at     TEXT
);`,
		`CREATE TABLE IF NOT EXISTS card_addresses (
  card_id     TEXT PRIMARY KEY REFERENCES cards(id) ON DELETE CASCADE,
  street      TEXT,
  city        TEXT,
  state       TEXT,
  country     TEXT,
  postal_code TEXT,
  updated_at  TEXT
);`,
		`CREATE TABLE IF NOT EXISTS accounts (
  id             TEXT PRIMARY KEY,
  user_id        TEXT,
  provider_ref   TEXT,
  currency       TEXT NOT NULL,
  status         TEXT NOT NULL DEFAULT 'pending',
  account_holder TEXT,
  bank_name      TEXT,
  account_number TEXT,
  routing_number TEXT,
  account_type   TEXT,
  meta           JSON,
  created_at     TEXT NOT NULL,
  updated_at     TEXT
);`,
		`CREATE TABLE IF NOT EXISTS transactions (
  id         TEXT PRIMARY KEY,
  user_id    TEXT,
  reference  TEXT,
  status     TEXT NOT NULL DEFAULT 'pending',
  amount     INTEGER,
  currency   TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT
);`,
		`CREATE TABLE IF NOT EXISTS webhook_deliveries (
  id          TEXT PRIMARY KEY,
  delivery_id TEXT NOT NULL,
  event       TEXT NOT NULL,
  reference   TEXT,
  outcome     TEXT NOT NULL,
  received_at TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS cards_reference_idx ON cards(reference);`,
		`CREATE INDEX IF NOT EXISTS cards_card_reference_idx ON cards(card_reference);`,
		`CREATE INDEX IF NOT EXISTS accounts_provider_ref_idx ON accounts(provider_ref);`,
		`CREATE INDEX IF NOT EXISTS transactions_reference_idx ON transactions(reference);`,
		`CREATE INDEX IF NOT EXISTS webhook_deliveries_delivery_id_idx ON webhook_deliveries(delivery_id);`,
		`CREATE INDEX IF NOT EXISTS webhook_deliveries_received_at_idx ON webhook_deliveries(received_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap sqlite: %w", err)
		}
	}
	return nil
}
