package memstore

import (
	"context"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// committedAccounts reads committed state and commits every Save on its own.
type committedAccounts struct{ s *Store }

func (r committedAccounts) FindByID(_ context.Context, id int64) (domain.Account, error) {
	v, ok := r.s.committed(id)
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return v.account, nil
}

func (r committedAccounts) FindByIDForUpdate(ctx context.Context, id int64) (domain.Account, error) {
	return r.FindByID(ctx, id)
}

func (r committedAccounts) FindByNumber(_ context.Context, number domain.AccountNumber) (domain.Account, error) {
	v, ok := r.s.committedByNumber(number)
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return v.account, nil
}

func (r committedAccounts) ListByOwner(_ context.Context, ownerID int64) ([]domain.Account, error) {
	all := r.s.committedAccounts()
	sortAccounts(all)

	items := []domain.Account{}
	for _, a := range all {
		if a.OwnerID == ownerID {
			items = append(items, a)
		}
	}

	return items, nil
}

func (r committedAccounts) ListAll(_ context.Context) ([]domain.Account, error) {
	items := r.s.committedAccounts()
	sortAccounts(items)

	return items, nil
}

func (r committedAccounts) Save(ctx context.Context, a domain.Account) (domain.Account, error) {
	var saved domain.Account

	err := r.s.ExecTx(ctx, func(ctx context.Context, st domain.Stores) error {
		var err error
		saved, err = st.Accounts().Save(ctx, a)

		return err
	})
	if err != nil {
		return domain.Account{}, err
	}

	return saved, nil
}

// committedTransactions reads committed state and commits every Save on its own.
type committedTransactions struct{ s *Store }

func (r committedTransactions) Save(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	var saved domain.Transaction

	err := r.s.ExecTx(ctx, func(ctx context.Context, st domain.Stores) error {
		var err error
		saved, err = st.Transactions().Save(ctx, t)

		return err
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	return saved, nil
}

func (r committedTransactions) FindByID(_ context.Context, id int64) (domain.Transaction, error) {
	t, ok := r.s.committedTransaction(id)
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	return t, nil
}

func (r committedTransactions) ListByAccount(_ context.Context, accountID int64) ([]domain.Transaction, error) {
	all := r.s.committedTransactions()
	sortTransactions(all)

	items := []domain.Transaction{}
	for _, t := range all {
		if t.FromAccountID == accountID || t.ToAccountID == accountID {
			items = append(items, t)
		}
	}

	return items, nil
}

func (r committedTransactions) ListAll(_ context.Context) ([]domain.Transaction, error) {
	items := r.s.committedTransactions()
	sortTransactions(items)

	return items, nil
}
