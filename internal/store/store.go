// Package store persists accounts and their expense snapshot history in
// SQLite. It is the only owner of account state.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"billwise/internal/core"

	"golang.org/x/crypto/bcrypt"
	sqlite "modernc.org/sqlite"
)

// dummyHash keeps credential verification on the bcrypt path even when the
// account does not exist, so unknown users and wrong passwords are not
// distinguishable by response timing.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateAccount hashes the password with a per-account salt and inserts a
// new account with an empty snapshot history. Returns
// core.ErrDuplicateAccount when the username is taken; existing state is
// left untouched.
func (s *SQLiteStore) CreateAccount(ctx context.Context, username, password string) error {
	if err := core.ValidateUsername(username); err != nil {
		return err
	}
	if err := core.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO accounts (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, string(hash), time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateAccount
		}
		return fmt.Errorf("insert account: %w", err)
	}

	slog.InfoContext(ctx, "Account created", "username", username)
	return nil
}

// VerifyCredentials compares the supplied password against the stored hash.
// Unknown accounts and wrong passwords both return
// core.ErrInvalidCredentials; no distinction is surfaced.
func (s *SQLiteStore) VerifyCredentials(ctx context.Context, username, password string) error {
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash FROM accounts WHERE username = ?`, username).Scan(&hash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return core.ErrInvalidCredentials
	case err != nil:
		return fmt.Errorf("query account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return core.ErrInvalidCredentials
	}
	return nil
}

// GetAccount returns the stored account or core.ErrUnknownAccount.
func (s *SQLiteStore) GetAccount(ctx context.Context, username string) (core.Account, error) {
	var a core.Account
	err := s.db.QueryRowContext(ctx,
		`SELECT username, password_hash, created_at FROM accounts WHERE username = ?`,
		username).Scan(&a.Username, &a.PasswordHash, &a.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return core.Account{}, core.ErrUnknownAccount
	case err != nil:
		return core.Account{}, fmt.Errorf("query account: %w", err)
	}
	return a, nil
}

// AppendSnapshot appends one immutable snapshot to the account's history.
// Accounts exist only through CreateAccount: appending to a missing account
// fails with core.ErrUnknownAccount instead of creating one.
func (s *SQLiteStore) AppendSnapshot(ctx context.Context, username string, snap core.Snapshot) (int64, error) {
	if err := snap.Validate(); err != nil {
		return 0, fmt.Errorf("validate snapshot: %w", err)
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE username = ?)`, username).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check account: %w", err)
	}
	if !exists {
		return 0, core.ErrUnknownAccount
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (username, fees, food, transport, stationary, other, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		username,
		snap[core.CategoryFees],
		snap[core.CategoryFood],
		snap[core.CategoryTransport],
		snap[core.CategoryStationary],
		snap[core.CategoryOther],
		time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot id: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot appended",
		"username", username,
		"snapshot_id", id,
		"total", snap.Total())

	return id, nil
}

// ListSnapshots returns the account's full snapshot history in append order.
// An account with no uploads yields an empty slice.
func (s *SQLiteStore) ListSnapshots(ctx context.Context, username string) ([]core.SnapshotRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, fees, food, transport, stationary, other, created_at
		 FROM snapshots WHERE username = ? ORDER BY id ASC`, username)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []core.SnapshotRecord
	for rows.Next() {
		rec := core.SnapshotRecord{Totals: core.NewSnapshot()}
		var fees, food, transport, stationary, other int64
		if err := rows.Scan(&rec.ID, &rec.Username, &fees, &food, &transport, &stationary, &other, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		rec.Totals[core.CategoryFees] = fees
		rec.Totals[core.CategoryFood] = food
		rec.Totals[core.CategoryTransport] = transport
		rec.Totals[core.CategoryStationary] = stationary
		rec.Totals[core.CategoryOther] = other
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}

// GetSnapshot returns a single stored snapshot by id.
func (s *SQLiteStore) GetSnapshot(ctx context.Context, id int64) (core.SnapshotRecord, error) {
	rec := core.SnapshotRecord{Totals: core.NewSnapshot()}
	var fees, food, transport, stationary, other int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, fees, food, transport, stationary, other, created_at
		 FROM snapshots WHERE id = ?`, id).
		Scan(&rec.ID, &rec.Username, &fees, &food, &transport, &stationary, &other, &rec.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return core.SnapshotRecord{}, fmt.Errorf("snapshot %d not found", id)
	case err != nil:
		return core.SnapshotRecord{}, fmt.Errorf("query snapshot: %w", err)
	}
	rec.Totals[core.CategoryFees] = fees
	rec.Totals[core.CategoryFood] = food
	rec.Totals[core.CategoryTransport] = transport
	rec.Totals[core.CategoryStationary] = stationary
	rec.Totals[core.CategoryOther] = other
	return rec, nil
}

// RefreshSummary recomputes the account's lifetime per-category totals from
// its snapshot history. Called by the summary worker after each upload.
func (s *SQLiteStore) RefreshSummary(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO account_summary
		   (username, fees, food, transport, stationary, other, snapshot_count, updated_at)
		 SELECT ?,
		        COALESCE(SUM(fees), 0),
		        COALESCE(SUM(food), 0),
		        COALESCE(SUM(transport), 0),
		        COALESCE(SUM(stationary), 0),
		        COALESCE(SUM(other), 0),
		        COUNT(*),
		        ?
		 FROM snapshots WHERE username = ?`,
		username, time.Now().UTC(), username)
	if err != nil {
		return fmt.Errorf("refresh summary: %w", err)
	}

	slog.InfoContext(ctx, "Account summary refreshed", "username", username)
	return nil
}

// GetSummary returns the precomputed lifetime totals and snapshot count for
// an account. ok is false when the worker has not produced a row yet.
func (s *SQLiteStore) GetSummary(ctx context.Context, username string) (totals core.Snapshot, count int64, ok bool, err error) {
	totals = core.NewSnapshot()
	var fees, food, transport, stationary, other int64
	err = s.db.QueryRowContext(ctx,
		`SELECT fees, food, transport, stationary, other, snapshot_count
		 FROM account_summary WHERE username = ?`, username).
		Scan(&fees, &food, &transport, &stationary, &other, &count)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return totals, 0, false, nil
	case err != nil:
		return nil, 0, false, fmt.Errorf("query summary: %w", err)
	}
	totals[core.CategoryFees] = fees
	totals[core.CategoryFood] = food
	totals[core.CategoryTransport] = transport
	totals[core.CategoryStationary] = stationary
	totals[core.CategoryOther] = other
	return totals, count, true, nil
}

// isUniqueViolation reports whether err is a SQLite primary key or unique
// constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		// SQLITE_CONSTRAINT_PRIMARYKEY (1555) or SQLITE_CONSTRAINT_UNIQUE (2067)
		return se.Code() == 1555 || se.Code() == 2067
	}
	return false
}
