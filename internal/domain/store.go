package domain

import "context"

// AccountStore provides durable lookup and persistence of accounts.
type AccountStore interface {
	// FindByID returns ErrAccountNotFound for unknown ids.
	FindByID(ctx context.Context, id int64) (Account, error)
	// FindByIDForUpdate is FindByID that also guards the account against
	// concurrent writers until the surrounding unit of work ends.
	FindByIDForUpdate(ctx context.Context, id int64) (Account, error)
	FindByNumber(ctx context.Context, number AccountNumber) (Account, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Account, error)
	ListAll(ctx context.Context) ([]Account, error)
	// Save inserts the account when its ID is zero and updates balance,
	// status and UpdatedAt otherwise.
	Save(ctx context.Context, account Account) (Account, error)
}

// TransactionStore provides append-only persistence of transactions.
type TransactionStore interface {
	Save(ctx context.Context, t Transaction) (Transaction, error)
	// FindByID returns ErrTransactionNotFound for unknown ids.
	FindByID(ctx context.Context, id int64) (Transaction, error)
	// ListByAccount returns the transactions touching the account, most recent first.
	ListByAccount(ctx context.Context, accountID int64) ([]Transaction, error)
	// ListAll returns every transaction, most recent first.
	ListAll(ctx context.Context) ([]Transaction, error)
}

// Stores groups the account and transaction stores.
type Stores interface {
	Accounts() AccountStore
	Transactions() TransactionStore
}

// UnitOfWork runs fn with stores whose writes commit together iff fn returns nil.
//
// ExecTx returns ErrConflict when the work lost a race with a concurrent writer;
// in that case nothing was committed.
type UnitOfWork interface {
	ExecTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}
