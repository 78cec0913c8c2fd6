package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/hurtle-auth/internal/model"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

const selectAccount = `SELECT a.id, a.identifier, a.display_name, a.password_hash, a.created_at, a.updated_at
			  FROM accounts a`

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	account, err := r.getOne(ctx, selectAccount+` WHERE a.id = $1`, id)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) GetByIdentifier(ctx context.Context, identifier string) (model.Account, error) {
	account, err := r.getOne(ctx, selectAccount+` WHERE a.identifier = $1`, identifier)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get account by identifier: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) GetByProviderLink(ctx context.Context, provider, providerUserID string) (model.Account, error) {
	query := selectAccount + `
			  JOIN provider_links l ON l.account_id = a.id
			  WHERE l.provider = $1 AND l.provider_user_id = $2`

	account, err := r.getOne(ctx, query, provider, providerUserID)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get account by provider link: %w", err)
	}
	return account, nil
}

// Create inserts the account and its links in one transaction.
func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO accounts (id, identifier, display_name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID, account.Identifier, account.DisplayName, account.PasswordHash,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to insert account: %w", translate(err))
	}

	for _, link := range account.Links {
		_, err = tx.Exec(ctx,
			`INSERT INTO provider_links (account_id, provider, provider_user_id, created_at)
			 VALUES ($1, $2, $3, $4)`,
			account.ID, link.Provider, link.ProviderUserID, link.CreatedAt,
		)
		if err != nil {
			return model.Account{}, fmt.Errorf("failed to insert provider link: %w", translate(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Account{}, fmt.Errorf("failed to commit account: %w", translate(err))
	}

	return account, nil
}

func (r *AccountRepository) getOne(ctx context.Context, query string, args ...any) (model.Account, error) {
	var account model.Account
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&account.ID, &account.Identifier, &account.DisplayName, &account.PasswordHash,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, err
	}

	links, err := r.links(ctx, account.ID)
	if err != nil {
		return model.Account{}, err
	}
	account.Links = links

	return account, nil
}

func (r *AccountRepository) links(ctx context.Context, accountID uuid.UUID) ([]model.ProviderLink, error) {
	rows, err := r.db.Query(ctx,
		`SELECT provider, provider_user_id, created_at FROM provider_links
		 WHERE account_id = $1 ORDER BY created_at, provider`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query provider links: %w", err)
	}

	links, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ProviderLink, error) {
		var l model.ProviderLink
		err := row.Scan(&l.Provider, &l.ProviderUserID, &l.CreatedAt)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan provider links: %w", err)
	}

	return links, nil
}

// translate maps unique violations to model.ErrConflict.
func translate(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %w", model.ErrConflict, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
