// Package transactionrepo manages the append-only repository layer of transactions.
package transactionrepo

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

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const transactionColumns = `id, from_account_id, to_account_id, amount, kind, status, description, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row scanner) (domain.Transaction, error) {
	var (
		t            domain.Transaction
		from, to     sql.NullInt64
		kind, status string
		parseErr     error
	)

	if err := row.Scan(
		&t.ID,
		&from,
		&to,
		&t.Amount,
		&kind,
		&status,
		&t.Description,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return domain.Transaction{}, err
	}

	t.FromAccountID = from.Int64
	t.ToAccountID = to.Int64

	if t.Kind, parseErr = domain.ParseTransactionKind(kind); parseErr != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %d: %w", t.ID, parseErr)
	}

	if t.Status, parseErr = domain.ParseTransactionStatus(status); parseErr != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %d: %w", t.ID, parseErr)
	}

	return t, nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrTransactionNotFound
	}

	if dbpkg.IsRetryable(err) {
		return domain.ErrConflict
	}

	switch dbpkg.Constraint(err) {
	case "transactions_from_account_id_fkey":
		return domain.ErrSourceAccountNotFound
	case "transactions_to_account_id_fkey":
		return domain.ErrDestinationAccountNotFound
	case "transactions_amount_check":
		return domain.ErrInvalidAmount
	case "transactions_description_check":
		return domain.ErrInvalidDescription
	}

	return errorspkg.ErrInternal
}

const createQuery = `
INSERT INTO
    transactions (from_account_id, to_account_id, amount, kind, status, description, created_at, updated_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + transactionColumns

// Save appends the transaction and then returns it. Records are never updated.
func (r *RepoPGS) Save(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if t.ID != 0 {
		l.Error().Int64("id", t.ID).Msg("transactions are append-only")
		return domain.Transaction{}, errorspkg.ErrInternal
	}

	row := r.db.QueryRowContext(ctx, createQuery,
		nullID(t.FromAccountID),
		nullID(t.ToAccountID),
		t.Amount,
		t.Kind.String(),
		t.Status.String(),
		t.Description,
		t.CreatedAt,
		t.UpdatedAt,
	)

	saved, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Msgf("Save(ctx context.Context, %+v)", t)
		return domain.Transaction{}, mapError(err)
	}

	return saved, nil
}

const getQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE id = $1
`

// FindByID returns the transaction with the given id.
func (r *RepoPGS) FindByID(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		l.Info().Err(err).Int64("id", id).Send()
		return domain.Transaction{}, mapError(err)
	}

	return t, nil
}

const listByAccountQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE from_account_id = $1 OR to_account_id = $1
ORDER BY created_at DESC, id DESC
`

// ListByAccount returns the transactions touching the account, most recent first.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	return r.list(ctx, listByAccountQuery, accountID)
}

const listAllQuery = `
SELECT ` + transactionColumns + `
FROM transactions
ORDER BY created_at DESC, id DESC
`

// ListAll returns every transaction, most recent first.
func (r *RepoPGS) ListAll(ctx context.Context) ([]domain.Transaction, error) {
	return r.list(ctx, listAllQuery)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...interface{}) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, mapError(err)
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
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
