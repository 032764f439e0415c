// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const accountColumns = `id, account_number, owner_id, kind, balance, status, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row scanner) (domain.Account, error) {
	var (
		a                    domain.Account
		number, kind, status string
		parseErr             error
	)

	if err := row.Scan(
		&a.ID,
		&number,
		&a.OwnerID,
		&kind,
		&a.Balance,
		&status,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return domain.Account{}, err
	}

	if a.Number, parseErr = domain.ParseAccountNumber(number); parseErr != nil {
		return domain.Account{}, fmt.Errorf("account %d: %w", a.ID, parseErr)
	}

	if a.Kind, parseErr = domain.ParseAccountKind(kind); parseErr != nil {
		return domain.Account{}, fmt.Errorf("account %d: %w", a.ID, parseErr)
	}

	if a.Status, parseErr = domain.ParseAccountStatus(status); parseErr != nil {
		return domain.Account{}, fmt.Errorf("account %d: %w", a.ID, parseErr)
	}

	return a, nil
}

// mapError converts driver errors into domain errors.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAccountNotFound
	}

	if dbpkg.IsRetryable(err) {
		return domain.ErrConflict
	}

	switch dbpkg.Constraint(err) {
	case "accounts_balance_check":
		return domain.ErrInsufficientBalance
	case "accounts_account_number_key":
		return domain.ErrAccountNumberExists
	}

	return errorspkg.ErrInternal
}

const createQuery = `
INSERT INTO
    accounts (account_number, owner_id, kind, balance, status, created_at, updated_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + accountColumns

const updateQuery = `
UPDATE accounts
SET balance = $1, status = $2, updated_at = $3
WHERE id = $4
RETURNING ` + accountColumns

// Save inserts a new account or updates balance, status and updated_at of an existing one.
// Number, owner and kind never change once persisted.
func (r *RepoPGS) Save(ctx context.Context, a domain.Account) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var row *sql.Row
	if a.ID == 0 {
		row = r.db.QueryRowContext(ctx, createQuery,
			a.Number.String(),
			a.OwnerID,
			a.Kind.String(),
			a.Balance,
			a.Status.String(),
			a.CreatedAt,
			a.UpdatedAt,
		)
	} else {
		row = r.db.QueryRowContext(ctx, updateQuery,
			a.Balance,
			a.Status.String(),
			a.UpdatedAt,
			a.ID,
		)
	}

	saved, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Msgf("Save(ctx context.Context, %+v)", a)
		return domain.Account{}, mapError(err)
	}

	return saved, nil
}

const getQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1
`

// FindByID returns the account with the given id.
func (r *RepoPGS) FindByID(ctx context.Context, id int64) (domain.Account, error) {
	return r.findOne(ctx, getQuery, id)
}

const getForUpdateQuery = getQuery + `FOR UPDATE`

// FindByIDForUpdate returns the account with the given id and locks its row
// until the surrounding transaction ends. Outside a transaction the lock is
// released immediately.
func (r *RepoPGS) FindByIDForUpdate(ctx context.Context, id int64) (domain.Account, error) {
	return r.findOne(ctx, getForUpdateQuery, id)
}

const getByNumberQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE account_number = $1
`

// FindByNumber returns the account with the given account number.
func (r *RepoPGS) FindByNumber(ctx context.Context, number domain.AccountNumber) (domain.Account, error) {
	return r.findOne(ctx, getByNumberQuery, number.String())
}

func (r *RepoPGS) findOne(ctx context.Context, query string, arg interface{}) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Err(err).Interface("arg", arg).Send()
		} else {
			l.Error().Err(err).Interface("arg", arg).Send()
		}

		return domain.Account{}, mapError(err)
	}

	return a, nil
}

const listByOwnerQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE owner_id = $1
ORDER BY id
`

// ListByOwner returns the accounts of the given owner.
func (r *RepoPGS) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Account, error) {
	return r.list(ctx, listByOwnerQuery, ownerID)
}

const listAllQuery = `
SELECT ` + accountColumns + `
FROM accounts
ORDER BY id
`

// ListAll returns every account.
func (r *RepoPGS) ListAll(ctx context.Context) ([]domain.Account, error) {
	return r.list(ctx, listAllQuery)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...interface{}) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, mapError(err)
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
