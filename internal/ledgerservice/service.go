// Package ledgerservice implements the ledger engine: it moves money between
// accounts and appends the transaction records describing every movement.
package ledgerservice

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/retrypkg"
)

// Repo provides the stores and the unit of work needed by the ledger engine.
type Repo interface {
	domain.UnitOfWork
	domain.Stores
}

// Config holds the engine settings.
type Config struct {
	// Retry bounds the re-execution of a unit of work that lost a race
	// with a concurrent writer.
	Retry retrypkg.Policy
}

// Service facilitates ledger service layer logic.
type Service struct {
	repo  Repo
	retry retrypkg.Policy
	now   func() time.Time
}

// New returns ledger service struct to manage money movements.
func New(repo Repo, cfg Config) *Service {
	return &Service{
		repo:  repo,
		retry: cfg.Retry,
		now:   now,
	}
}

// now is truncated to the precision of a Postgres timestamp.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Deposit adds amount to the destination account.
func (s *Service) Deposit(ctx context.Context, toAccountID int64, amount moneypkg.Money, description string) (domain.Transaction, error) {
	return s.Execute(ctx, domain.TransactionRequest{
		Kind:        domain.TransactionKindDeposit,
		ToAccountID: toAccountID,
		Amount:      amount,
		Description: description,
	})
}

// Withdraw takes amount from the source account.
func (s *Service) Withdraw(ctx context.Context, fromAccountID int64, amount moneypkg.Money, description string) (domain.Transaction, error) {
	return s.Execute(ctx, domain.TransactionRequest{
		Kind:          domain.TransactionKindWithdrawal,
		FromAccountID: fromAccountID,
		Amount:        amount,
		Description:   description,
	})
}

// Transfer moves amount from the source to the destination account.
func (s *Service) Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount moneypkg.Money, description string) (domain.Transaction, error) {
	return s.Execute(ctx, domain.TransactionRequest{
		Kind:          domain.TransactionKindTransfer,
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        amount,
		Description:   description,
	})
}

// Execute validates req, applies it to the referenced accounts and returns the
// persisted completed record. Either the record and every balance change are
// committed together or nothing is.
func (s *Service) Execute(ctx context.Context, req domain.TransactionRequest) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	if err := req.Validate(); err != nil {
		l.Info().Err(err).Interface("request", req).Send()
		return domain.Transaction{}, err
	}

	var result domain.Transaction

	err := retrypkg.Do(ctx, s.retry, domain.IsConflict,
		func() error {
			var err error
			result, err = s.apply(ctx, req)

			return err
		},
		func(err error, attempt int) {
			l.Warn().Err(err).Int("attempt", attempt).Msg("retrying transaction")
		},
	)
	if err != nil {
		return domain.Transaction{}, s.classify(ctx, err)
	}

	return result, nil
}

// apply runs req inside a single unit of work.
func (s *Service) apply(ctx context.Context, req domain.TransactionRequest) (domain.Transaction, error) {
	var saved domain.Transaction

	err := s.repo.ExecTx(ctx, func(ctx context.Context, st domain.Stores) error {
		accounts, err := lockAccounts(ctx, st.Accounts(), req.FromAccountID, req.ToAccountID)
		if err != nil {
			return err
		}

		changed, err := s.move(req, accounts)
		if err != nil {
			return err
		}

		saved, err = st.Transactions().Save(ctx, req.Complete(s.now()))
		if err != nil {
			return err
		}

		for _, a := range changed {
			if _, err := st.Accounts().Save(ctx, a); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	return saved, nil
}

// lockAccounts loads the referenced accounts in ascending id order, so two
// units of work touching the same pair never wait on each other in a cycle.
// A zero id is skipped.
func lockAccounts(ctx context.Context, store domain.AccountStore, fromID, toID int64) (map[int64]domain.Account, error) {
	ids := make([]int64, 0, 2)
	for _, id := range []int64{fromID, toID} {
		if id != 0 {
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	accounts := make(map[int64]domain.Account, len(ids))

	for _, id := range ids {
		a, err := store.FindByIDForUpdate(ctx, id)

		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			continue
		case err != nil:
			return nil, err
		}

		accounts[id] = a
	}

	// The source role is reported first regardless of lock order.
	if _, ok := accounts[fromID]; fromID != 0 && !ok {
		return nil, domain.ErrSourceAccountNotFound
	}

	if _, ok := accounts[toID]; toID != 0 && !ok {
		return nil, domain.ErrDestinationAccountNotFound
	}

	return accounts, nil
}

// move checks the account rules for req and returns the accounts with their new balances.
func (s *Service) move(req domain.TransactionRequest, accounts map[int64]domain.Account) ([]domain.Account, error) {
	from, hasFrom := accounts[req.FromAccountID]
	to, hasTo := accounts[req.ToAccountID]

	if hasFrom && !from.IsActive() {
		return nil, domain.ErrSourceAccountNotActive
	}

	if hasTo && !to.IsActive() {
		return nil, domain.ErrDestinationAccountNotActive
	}

	if hasFrom && from.Balance.LessThan(req.Amount) {
		return nil, domain.ErrInsufficientBalance
	}

	now := s.now()
	changed := make([]domain.Account, 0, 2)

	if hasFrom {
		balance, err := from.Balance.Sub(req.Amount)
		if err != nil {
			return nil, domain.ErrInsufficientBalance
		}

		if from, err = from.WithBalance(balance, now); err != nil {
			return nil, err
		}

		changed = append(changed, from)
	}

	if hasTo {
		balance, err := to.Balance.Add(req.Amount)
		if err != nil {
			// The destination balance would leave the decimal(15,2) range.
			return nil, domain.ErrInvalidAmount
		}

		if to, err = to.WithBalance(balance, now); err != nil {
			return nil, err
		}

		changed = append(changed, to)
	}

	return changed, nil
}

// classify passes domain errors through and hides everything else behind ErrInternal.
func (s *Service) classify(ctx context.Context, err error) error {
	l := zerolog.Ctx(ctx)

	switch {
	case domain.IsValidation(err), domain.IsNotFound(err), domain.IsRuleViolation(err):
		l.Info().Err(err).Send()
		return err
	case errors.Is(err, errorspkg.ErrInternal):
		return err
	}

	l.Error().Err(err).Send()

	return errorspkg.ErrInternal
}

// GetTransaction returns the transaction with the given id.
func (s *Service) GetTransaction(ctx context.Context, id int64) (domain.Transaction, error) {
	t, err := s.repo.Transactions().FindByID(ctx, id)
	if err != nil {
		return domain.Transaction{}, s.classify(ctx, err)
	}

	return t, nil
}

// ListAccountTransactions returns the transactions touching the account, most recent first.
func (s *Service) ListAccountTransactions(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	if _, err := s.repo.Accounts().FindByID(ctx, accountID); err != nil {
		return nil, s.classify(ctx, err)
	}

	items, err := s.repo.Transactions().ListByAccount(ctx, accountID)
	if err != nil {
		return nil, s.classify(ctx, err)
	}

	return items, nil
}

// ListTransactions returns every transaction, most recent first.
func (s *Service) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	items, err := s.repo.Transactions().ListAll(ctx)
	if err != nil {
		return nil, s.classify(ctx, err)
	}

	return items, nil
}
