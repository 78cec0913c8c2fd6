// Package sqlite implements the account store on an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dtroode/hurtle-auth/database"
	"github.com/dtroode/hurtle-auth/internal/model"
)

const dsnPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

var _ model.AccountStore = (*Store)(nil)

// Store implements model.AccountStore over SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the database file at path and applies bundled migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := sql.Open("sqlite", filepath.Clean(path)+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// SQLite allows one writer; a single connection serializes transactions
	// instead of failing them with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if err := database.Migrate(ctx, db, database.DialectSQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return New(db), nil
}

// New wraps an already migrated database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const selectAccount = `SELECT a.id, a.identifier, a.display_name, a.password_hash, a.created_at, a.updated_at
	FROM accounts a`

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	account, err := s.getOne(ctx, selectAccount+` WHERE a.id = ?`, id.String())
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}
	return account, nil
}

func (s *Store) GetByIdentifier(ctx context.Context, identifier string) (model.Account, error) {
	account, err := s.getOne(ctx, selectAccount+` WHERE a.identifier = ?`, identifier)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get account by identifier: %w", err)
	}
	return account, nil
}

func (s *Store) GetByProviderLink(ctx context.Context, provider, providerUserID string) (model.Account, error) {
	query := selectAccount + `
	JOIN provider_links l ON l.account_id = a.id
	WHERE l.provider = ? AND l.provider_user_id = ?`

	account, err := s.getOne(ctx, query, provider, providerUserID)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get account by provider link: %w", err)
	}
	return account, nil
}

// Create inserts the account and its links in one transaction.
func (s *Store) Create(ctx context.Context, account model.Account) (model.Account, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var hash sql.NullString
	if account.PasswordHash != nil {
		hash = sql.NullString{String: *account.PasswordHash, Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO accounts (id, identifier, display_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		account.ID.String(), account.Identifier, account.DisplayName, hash,
		toMillis(account.CreatedAt), toMillis(account.UpdatedAt),
	)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to insert account: %w", translate(err))
	}

	for _, link := range account.Links {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO provider_links (account_id, provider, provider_user_id, created_at)
			VALUES (?, ?, ?, ?)`,
			account.ID.String(), link.Provider, link.ProviderUserID, toMillis(link.CreatedAt),
		)
		if err != nil {
			return model.Account{}, fmt.Errorf("failed to insert provider link: %w", translate(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Account{}, fmt.Errorf("failed to commit account: %w", translate(err))
	}

	return account, nil
}

func (s *Store) getOne(ctx context.Context, query string, args ...any) (model.Account, error) {
	var (
		id                   string
		hash                 sql.NullString
		createdAt, updatedAt int64
		account              model.Account
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&id, &account.Identifier, &account.DisplayName, &hash, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, err
	}

	account.ID, err = uuid.Parse(id)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to parse account id %q: %w", id, err)
	}
	if hash.Valid {
		account.PasswordHash = &hash.String
	}
	account.CreatedAt = fromMillis(createdAt)
	account.UpdatedAt = fromMillis(updatedAt)

	account.Links, err = s.links(ctx, id)
	if err != nil {
		return model.Account{}, err
	}

	return account, nil
}

func (s *Store) links(ctx context.Context, accountID string) ([]model.ProviderLink, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT provider, provider_user_id, created_at FROM provider_links
		WHERE account_id = ? ORDER BY created_at, provider`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query provider links: %w", err)
	}
	defer rows.Close()

	var links []model.ProviderLink
	for rows.Next() {
		var (
			link      model.ProviderLink
			createdAt int64
		)
		if err := rows.Scan(&link.Provider, &link.ProviderUserID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan provider link: %w", err)
		}
		link.CreatedAt = fromMillis(createdAt)
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate provider links: %w", err)
	}

	return links, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// translate maps unique and primary key violations to model.ErrConflict.
func translate(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %w", model.ErrConflict, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
