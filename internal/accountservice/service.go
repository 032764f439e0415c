// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/retrypkg"
)

// maxNumberAttempts bounds the draws of a free account number.
const maxNumberAttempts = 5

// Repo provides data access layer interface needed by account service layer.
type Repo interface {
	domain.UnitOfWork
	domain.Stores
}

// NumberGenerator draws new account numbers.
type NumberGenerator interface {
	Generate() (domain.AccountNumber, error)
}

// Config holds the account service settings.
type Config struct {
	Numbers NumberGenerator
	Retry   retrypkg.Policy
}

// Service facilitates account service layer logic.
type Service struct {
	repo    Repo
	numbers NumberGenerator
	retry   retrypkg.Policy
	now     func() time.Time
}

// New returns account service struct to manage account bussines logic.
func New(repo Repo, cfg Config) *Service {
	return &Service{
		repo:    repo,
		numbers: cfg.Numbers,
		retry:   cfg.Retry,
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Open creates an active account of the given kind holding initialDeposit.
func (s *Service) Open(ctx context.Context, ownerID int64, kind domain.AccountKind, initialDeposit moneypkg.Money) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	if ownerID <= 0 {
		return domain.Account{}, domain.ErrInvalidOwner
	}

	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number, err := s.numbers.Generate()
		if err != nil {
			l.Error().Err(err).Send()
			return domain.Account{}, errorspkg.ErrInternal
		}

		account, err := domain.NewAccount(number, ownerID, kind, initialDeposit, s.now())
		if err != nil {
			l.Info().Err(err).Send()
			return domain.Account{}, err
		}

		saved, err := s.repo.Accounts().Save(ctx, account)
		if errors.Is(err, domain.ErrAccountNumberExists) {
			l.Warn().Str("account_number", number.String()).Int("attempt", attempt).Msg("account number taken")
			continue
		}

		if err != nil {
			return domain.Account{}, classify(ctx, err)
		}

		return saved, nil
	}

	l.Error().Int("attempts", maxNumberAttempts).Msg("no free account number")

	return domain.Account{}, errorspkg.ErrInternal
}

// Get returns account for the given account ID.
func (s *Service) Get(ctx context.Context, id int64) (domain.Account, error) {
	account, err := s.repo.Accounts().FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, classify(ctx, err)
	}

	return account, nil
}

// GetByNumber returns account for the given account number.
func (s *Service) GetByNumber(ctx context.Context, number string) (domain.Account, error) {
	n, err := domain.ParseAccountNumber(number)
	if err != nil {
		return domain.Account{}, err
	}

	account, err := s.repo.Accounts().FindByNumber(ctx, n)
	if err != nil {
		return domain.Account{}, classify(ctx, err)
	}

	return account, nil
}

// ListByOwner returns accounts that are owned by the given owner.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Account, error) {
	accounts, err := s.repo.Accounts().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, classify(ctx, err)
	}

	return accounts, nil
}

// List returns every account.
func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.Accounts().ListAll(ctx)
	if err != nil {
		return nil, classify(ctx, err)
	}

	return accounts, nil
}

// ChangeStatus moves the account to status following the account status machine.
func (s *Service) ChangeStatus(ctx context.Context, id int64, status domain.AccountStatus) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	if !status.Valid() {
		return domain.Account{}, domain.ErrInvalidAccountStatus
	}

	var result domain.Account

	err := retrypkg.Do(ctx, s.retry, domain.IsConflict,
		func() error {
			return s.repo.ExecTx(ctx, func(ctx context.Context, st domain.Stores) error {
				account, err := st.Accounts().FindByIDForUpdate(ctx, id)
				if err != nil {
					return err
				}

				if account.Status == status {
					result = account
					return nil
				}

				changed, err := account.WithStatus(status, s.now())
				if err != nil {
					return err
				}

				result, err = st.Accounts().Save(ctx, changed)

				return err
			})
		},
		func(err error, attempt int) {
			l.Warn().Err(err).Int("attempt", attempt).Msg("retrying status change")
		},
	)
	if err != nil {
		return domain.Account{}, classify(ctx, err)
	}

	return result, nil
}

func classify(ctx context.Context, err error) error {
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
