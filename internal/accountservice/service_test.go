package accountservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/memstore"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/retrypkg"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// sequence hands out the given numbers in order.
type sequence struct {
	numbers []domain.AccountNumber
	err     error
}

func (g *sequence) Generate() (domain.AccountNumber, error) {
	if g.err != nil {
		return "", g.err
	}

	n := g.numbers[0]
	if len(g.numbers) > 1 {
		g.numbers = g.numbers[1:]
	}

	return n, nil
}

func newTestService(store *memstore.Store, numbers ...domain.AccountNumber) *Service {
	s := New(store, Config{
		Numbers: &sequence{numbers: numbers},
		Retry:   retrypkg.Policy{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond},
	})
	s.now = func() time.Time { return testNow }

	return s
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		ownerID       int64
		kind          domain.AccountKind
		deposit       string
		checkResponse func(t *testing.T, account domain.Account, err error)
	}{
		{
			name:    "OK",
			ownerID: 7,
			kind:    domain.AccountKindSavings,
			deposit: "100.00",
			checkResponse: func(t *testing.T, account domain.Account, err error) {
				require.NoError(t, err)
				require.NotZero(t, account.ID)
				require.Equal(t, domain.AccountNumber("1234-5678-9012-0001"), account.Number)
				require.Equal(t, int64(7), account.OwnerID)
				require.Equal(t, domain.AccountKindSavings, account.Kind)
				require.Equal(t, domain.AccountStatusActive, account.Status)
				require.Equal(t, "100.00", account.Balance.String())
				require.Equal(t, testNow, account.CreatedAt)
			},
		},
		{
			name:    "ZeroDeposit",
			ownerID: 7,
			kind:    domain.AccountKindChecking,
			deposit: "0",
			checkResponse: func(t *testing.T, account domain.Account, err error) {
				require.NoError(t, err)
				require.True(t, account.Balance.IsZero())
			},
		},
		{
			name:    "NegativeDeposit",
			ownerID: 7,
			kind:    domain.AccountKindChecking,
			deposit: "-1",
			checkResponse: func(t *testing.T, account domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidInitialDeposit)
				require.Empty(t, account)
			},
		},
		{
			name:    "InvalidKind",
			ownerID: 7,
			deposit: "1",
			checkResponse: func(t *testing.T, account domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAccountKind)
			},
		},
		{
			name:    "InvalidOwner",
			ownerID: 0,
			kind:    domain.AccountKindChecking,
			deposit: "1",
			checkResponse: func(t *testing.T, account domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidOwner)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			s := newTestService(memstore.New(), "1234-5678-9012-0001")

			account, err := s.Open(ctx, tc.ownerID, tc.kind, moneypkg.MustParse(tc.deposit))
			tc.checkResponse(t, account, err)
		})
	}
}

func TestOpenRetriesTakenNumbers(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	s := newTestService(store, "1234-5678-9012-0001", "1234-5678-9012-0001", "1234-5678-9012-0002")

	first, err := s.Open(ctx, 1, domain.AccountKindSavings, moneypkg.Zero)
	require.NoError(t, err)

	second, err := s.Open(ctx, 1, domain.AccountKindSavings, moneypkg.Zero)
	require.NoError(t, err)
	require.Equal(t, domain.AccountNumber("1234-5678-9012-0002"), second.Number)
	require.NotEqual(t, first.ID, second.ID)

	// Only taken numbers remain.
	_, err = s.Open(ctx, 1, domain.AccountKindSavings, moneypkg.Zero)
	require.ErrorIs(t, err, errorspkg.ErrInternal)
}

func TestOpenGeneratorFailure(t *testing.T) {
	s := New(memstore.New(), Config{Numbers: &sequence{err: errors.New("entropy")}})

	_, err := s.Open(context.Background(), 1, domain.AccountKindSavings, moneypkg.Zero)
	require.ErrorIs(t, err, errorspkg.ErrInternal)
}

func TestLookups(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	s := newTestService(store, "1234-5678-9012-0001", "1234-5678-9012-0002", "1234-5678-9012-0003")

	a1, err := s.Open(ctx, 1, domain.AccountKindSavings, moneypkg.Zero)
	require.NoError(t, err)
	a2, err := s.Open(ctx, 1, domain.AccountKindChecking, moneypkg.Zero)
	require.NoError(t, err)
	a3, err := s.Open(ctx, 2, domain.AccountKindChecking, moneypkg.Zero)
	require.NoError(t, err)

	got, err := s.Get(ctx, a1.ID)
	require.NoError(t, err)
	require.Equal(t, a1, got)

	_, err = s.Get(ctx, 999)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	got, err = s.GetByNumber(ctx, "1234-5678-9012-0002")
	require.NoError(t, err)
	require.Equal(t, a2, got)

	_, err = s.GetByNumber(ctx, "1234-5678")
	require.ErrorIs(t, err, domain.ErrInvalidAccountNumber)

	_, err = s.GetByNumber(ctx, "9999-9999-9999-9999")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	owned, err := s.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []domain.Account{a1, a2}, owned)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.Account{a1, a2, a3}, all)
}

func TestChangeStatus(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name       string
		balance    string
		steps      []domain.AccountStatus
		wantErr    error
		wantStatus domain.AccountStatus
	}{
		{
			name:       "FreezeAndActivate",
			balance:    "10",
			steps:      []domain.AccountStatus{domain.AccountStatusFrozen, domain.AccountStatusActive},
			wantStatus: domain.AccountStatusActive,
		},
		{
			name:       "SameStatus",
			balance:    "10",
			steps:      []domain.AccountStatus{domain.AccountStatusActive},
			wantStatus: domain.AccountStatusActive,
		},
		{
			name:       "CloseZeroBalance",
			balance:    "0",
			steps:      []domain.AccountStatus{domain.AccountStatusClosed},
			wantStatus: domain.AccountStatusClosed,
		},
		{
			name:       "CloseNonZeroBalance",
			balance:    "25",
			steps:      []domain.AccountStatus{domain.AccountStatusClosed},
			wantErr:    domain.ErrNonZeroBalance,
			wantStatus: domain.AccountStatusActive,
		},
		{
			name:       "ReopenClosed",
			balance:    "0",
			steps:      []domain.AccountStatus{domain.AccountStatusClosed, domain.AccountStatusActive},
			wantErr:    domain.ErrAccountClosed,
			wantStatus: domain.AccountStatusClosed,
		},
		{
			name:       "InvalidStatus",
			balance:    "0",
			steps:      []domain.AccountStatus{domain.AccountStatus(0)},
			wantErr:    domain.ErrInvalidAccountStatus,
			wantStatus: domain.AccountStatusActive,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			store := memstore.New()
			s := newTestService(store, "1234-5678-9012-0001")

			account, err := s.Open(ctx, 1, domain.AccountKindSavings, moneypkg.MustParse(tc.balance))
			require.NoError(t, err)

			s.now = func() time.Time { return testNow.Add(time.Hour) }

			for _, status := range tc.steps {
				if _, err = s.ChangeStatus(ctx, account.ID, status); err != nil {
					break
				}
			}

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}

			got, err := s.Get(ctx, account.ID)
			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, got.Status)
		})
	}

	t.Run("UnknownAccount", func(t *testing.T) {
		s := newTestService(memstore.New(), "1234-5678-9012-0001")

		_, err := s.ChangeStatus(ctx, 999, domain.AccountStatusFrozen)
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("RefreshesUpdatedAt", func(t *testing.T) {
		s := newTestService(memstore.New(), "1234-5678-9012-0001")

		account, err := s.Open(ctx, 1, domain.AccountKindSavings, moneypkg.Zero)
		require.NoError(t, err)

		later := testNow.Add(time.Hour)
		s.now = func() time.Time { return later }

		frozen, err := s.ChangeStatus(ctx, account.ID, domain.AccountStatusFrozen)
		require.NoError(t, err)
		require.Equal(t, later, frozen.UpdatedAt)
		require.Equal(t, testNow, frozen.CreatedAt)
	})
}
