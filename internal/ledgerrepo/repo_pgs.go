// Package ledgerrepo provides the PostgreSQL unit of work spanning accounts and transactions.
package ledgerrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS gives access to account and transaction repositories, either
// directly on the connection pool or scoped to a database transaction.
type RepoPGS struct {
	conn         *sql.DB
	accounts     *accountrepo.RepoPGS
	transactions *transactionrepo.RepoPGS
}

// NewRepoPGS returns ledger RepoPGS with connection to start transactions.
func NewRepoPGS(conn *sql.DB) *RepoPGS {
	return &RepoPGS{
		conn:         conn,
		accounts:     accountrepo.NewRepoPGS(conn),
		transactions: transactionrepo.NewRepoPGS(conn),
	}
}

// Accounts returns the account repository bound to the connection pool.
func (r *RepoPGS) Accounts() domain.AccountStore { return r.accounts }

// Transactions returns the transaction repository bound to the connection pool.
func (r *RepoPGS) Transactions() domain.TransactionStore { return r.transactions }

type txStores struct {
	accounts     *accountrepo.RepoPGS
	transactions *transactionrepo.RepoPGS
}

func (s txStores) Accounts() domain.AccountStore         { return s.accounts }
func (s txStores) Transactions() domain.TransactionStore { return s.transactions }

// ExecTx runs fn within a single database transaction.
//
// Rows read with FindByIDForUpdate stay locked until commit or rollback.
// Serialization failures and deadlocks are reported as domain.ErrConflict.
func (r *RepoPGS) ExecTx(ctx context.Context, fn func(ctx context.Context, s domain.Stores) error) error {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	stores := txStores{
		accounts:     accountrepo.NewRepoPGS(tx),
		transactions: transactionrepo.NewRepoPGS(tx),
	}

	if err := fn(ctx, stores); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()

		if dbpkg.IsRetryable(err) {
			return domain.ErrConflict
		}

		return errorspkg.ErrInternal
	}

	return nil
}
