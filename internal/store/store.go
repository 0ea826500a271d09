// Package store provides the durable, identity-namespaced local cache backing
// the client core. Every record is keyed by (identity, bucket) so switching
// accounts on the same device never leaks state between identities.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Buckets holding one JSON record per identity.
const (
	BucketOnboardingData     = "onboardingData"
	BucketOnboardingComplete = "onboardingComplete"
	BucketXPData             = "xpData"
	BucketSignupSynced       = "signupSynced"
	BucketSession            = "session"
)

// localIdentity namespaces device-level records (the active session) that
// exist before any user identity is resolved.
const localIdentity = "_local"

// ErrNotFound is returned when no record exists for an (identity, bucket) pair.
var ErrNotFound = errors.New("store: record not found")

// Store wraps the sqlite cache database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path and ensures the
// schema exists. The parent directory is created if missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite: serialize writers
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			identity   TEXT NOT NULL,
			bucket     TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (identity, bucket)
		);
		CREATE TABLE IF NOT EXISTS reward_grants (
			identity   TEXT NOT NULL,
			category   TEXT NOT NULL,
			threshold  INTEGER NOT NULL,
			granted_at TIMESTAMP NOT NULL,
			PRIMARY KEY (identity, category, threshold)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate cache schema: %w", err)
	}
	return nil
}

// Put stores value (JSON-encoded) under (identity, bucket), replacing any
// previous record.
func (s *Store) Put(ctx context.Context, identity, bucket string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", bucket, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (identity, bucket, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (identity, bucket) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		identity, bucket, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to put %s record: %w", bucket, err)
	}
	return nil
}

// Get loads the record under (identity, bucket) into out.
// Returns ErrNotFound when no record exists.
func (s *Store) Get(ctx context.Context, identity, bucket string, out any) error {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM records WHERE identity = ? AND bucket = ?`,
		identity, bucket,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get %s record: %w", bucket, err)
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("failed to decode %s record: %w", bucket, err)
	}
	return nil
}

// Delete removes the record under (identity, bucket). Deleting a missing
// record is not an error.
func (s *Store) Delete(ctx context.Context, identity, bucket string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE identity = ? AND bucket = ?`,
		identity, bucket,
	)
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", bucket, err)
	}
	return nil
}

// ClearIdentity removes every record and reward grant belonging to identity.
// Called on logout so a later login on the same device starts clean.
func (s *Store) ClearIdentity(ctx context.Context, identity string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin clear transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE identity = ?`, identity); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reward_grants WHERE identity = ?`, identity); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear reward grants: %w", err)
	}
	return tx.Commit()
}

// TryGrant records the (category, threshold) milestone for identity and
// reports whether this call was the first to do so. The INSERT OR IGNORE makes
// the check-and-set atomic under concurrent evaluators.
func (s *Store) TryGrant(ctx context.Context, identity, category string, threshold int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO reward_grants (identity, category, threshold, granted_at)
		 VALUES (?, ?, ?, ?)`,
		identity, category, threshold, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to record reward grant: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read grant result: %w", err)
	}
	return n == 1, nil
}

// RevokeGrant removes the (category, threshold) milestone row for identity so
// a later TryGrant can succeed again. Revoking a missing row is not an error.
func (s *Store) RevokeGrant(ctx context.Context, identity, category string, threshold int) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM reward_grants WHERE identity = ? AND category = ? AND threshold = ?`,
		identity, category, threshold,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke reward grant: %w", err)
	}
	return nil
}

// GrantedCount returns how many milestones have been granted to identity.
func (s *Store) GrantedCount(ctx context.Context, identity string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reward_grants WHERE identity = ?`, identity,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count reward grants: %w", err)
	}
	return n, nil
}

// PutLocal stores a device-level record not tied to a user identity.
func (s *Store) PutLocal(ctx context.Context, bucket string, value any) error {
	return s.Put(ctx, localIdentity, bucket, value)
}

// GetLocal loads a device-level record.
func (s *Store) GetLocal(ctx context.Context, bucket string, out any) error {
	return s.Get(ctx, localIdentity, bucket, out)
}

// DeleteLocal removes a device-level record.
func (s *Store) DeleteLocal(ctx context.Context, bucket string) error {
	return s.Delete(ctx, localIdentity, bucket)
}
