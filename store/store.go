package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"cryptoai/utils/db"
	"cryptoai/utils/db/tx"
)

// Store owns the SQLite connection shared by the repositories. All reads and
// writes go through the jet query builder; writes that must be atomic run in
// a db.Transaction.
type Store struct {
	Database *db.Database
	Tx       tx.TxExtension
}

func NewStore(path string, inMemory bool) (*Store, error) {
	var dsn string
	if inMemory {
		dsn = ":memory:?_busy_timeout=5000&_foreign_keys=on"
	} else {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database dir %q: %w", dir, err)
			}
		}
		dsn = fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on", path)
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// single writer keeps ledger transactions strictly serialized
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enable sqlite WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("set sqlite synchronous level: %w", err)
	}

	database := &db.Database{DbForJet: conn}
	s := &Store{
		Database: database,
		Tx:       tx.TxExtension{Sqlite: database},
	}
	if err := s.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies the schema. Statements are idempotent so startup always
// runs them.
func (s *Store) Migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id      TEXT PRIMARY KEY,
			email   TEXT NOT NULL UNIQUE,
			balance REAL NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS trades (
			id              TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL REFERENCES users(id),
			pair            TEXT NOT NULL,
			type            TEXT NOT NULL CHECK (type IN ('BUY','SELL')),
			price           REAL NOT NULL,
			amount          REAL NOT NULL CHECK (amount > 0),
			status          TEXT NOT NULL,
			source          TEXT NOT NULL,
			idempotency_key TEXT,
			timestamp       TIMESTAMP NOT NULL,
			UNIQUE (user_id, idempotency_key)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_user_time ON trades (user_id, timestamp DESC);`,
		`CREATE TABLE IF NOT EXISTS strategies (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			pair       TEXT NOT NULL,
			buy_at     REAL,
			sell_at    REAL,
			amount     REAL NOT NULL CHECK (amount > 0),
			active     BOOLEAN NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL,
			CHECK ((buy_at IS NULL) <> (sell_at IS NULL))
		);`,
		`CREATE INDEX IF NOT EXISTS idx_strategies_active ON strategies (active, user_id);`,
		`CREATE TABLE IF NOT EXISTS positions (
			user_id TEXT NOT NULL REFERENCES users(id),
			pair    TEXT NOT NULL,
			amount  REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, pair)
		);`,
	}
	for _, stmt := range statements {
		if _, err := s.Database.DbForJet.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s.Database == nil || s.Database.DbForJet == nil {
		return nil
	}
	return s.Database.DbForJet.Close()
}
