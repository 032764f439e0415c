//go:build integration

package transactionrepo_test

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

var (
	dbDriver string
	dbSource string
	ctx      context.Context
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	logger := middleware.CreateLogger(config)
	ctx = logger.WithContext(context.Background())

	os.Exit(m.Run())
}

var compareTransactions = []cmp.Option{
	cmp.Comparer(func(a, b moneypkg.Money) bool { return a.Equal(b) }),
	cmpopts.EquateApproxTime(time.Millisecond),
}

func completed(kind domain.TransactionKind, from, to int64, at time.Time) domain.Transaction {
	return domain.TransactionRequest{
		Kind:          kind,
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        randompkg.MoneyBetween(1, 100),
		Description:   randompkg.Description(),
	}.Complete(at)
}

func TestSave(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC().Truncate(time.Microsecond)

	testCases := []struct {
		name    string
		build   func(from, to domain.Account) domain.Transaction
		wantErr error
	}{
		{
			name: "Deposit",
			build: func(_, to domain.Account) domain.Transaction {
				return completed(domain.TransactionKindDeposit, 0, to.ID, now)
			},
		},
		{
			name: "Withdrawal",
			build: func(from, _ domain.Account) domain.Transaction {
				return completed(domain.TransactionKindWithdrawal, from.ID, 0, now)
			},
		},
		{
			name: "Transfer",
			build: func(from, to domain.Account) domain.Transaction {
				return completed(domain.TransactionKindTransfer, from.ID, to.ID, now)
			},
		},
		{
			name: "ErrSourceAccountNotFound",
			build: func(_, to domain.Account) domain.Transaction {
				return completed(domain.TransactionKindTransfer, to.ID+1_000_000, to.ID, now)
			},
			wantErr: domain.ErrSourceAccountNotFound,
		},
		{
			name: "ErrDestinationAccountNotFound",
			build: func(from, _ domain.Account) domain.Transaction {
				return completed(domain.TransactionKindTransfer, from.ID, from.ID+1_000_000, now)
			},
			wantErr: domain.ErrDestinationAccountNotFound,
		},
		{
			name: "ErrInvalidAmount",
			build: func(from, to domain.Account) domain.Transaction {
				tr := completed(domain.TransactionKindTransfer, from.ID, to.ID, now)
				tr.Amount = moneypkg.Money{}
				return tr
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "ErrInvalidDescription",
			build: func(from, to domain.Account) domain.Transaction {
				tr := completed(domain.TransactionKindTransfer, from.ID, to.ID, now)
				tr.Description = ""
				return tr
			},
			wantErr: domain.ErrInvalidDescription,
		},
		{
			name: "AppendOnly",
			build: func(from, to domain.Account) domain.Transaction {
				tr := completed(domain.TransactionKindTransfer, from.ID, to.ID, now)
				tr.ID = 1
				return tr
			},
			wantErr: errorspkg.ErrInternal,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tx := integrationtest.SetupTX(t, dbDriver, dbSource)
			from := integrationtest.SeedAccount(t, tx, "100")
			to := integrationtest.SeedAccount(t, tx, "100")

			want := tc.build(from, to)

			got, err := transactionrepo.NewRepoPGS(tx).Save(ctx, want)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("repo.Save(ctx, %+v) error = %v, want %v", want, err, tc.wantErr)
			}

			if tc.wantErr != nil {
				return
			}

			if got.ID == 0 {
				t.Errorf("repo.Save(ctx, %+v) returned zero id", want)
			}

			ignoreID := cmpopts.IgnoreFields(domain.Transaction{}, "ID")
			if diff := cmp.Diff(want, got, append(compareTransactions, ignoreID)...); diff != "" {
				t.Errorf("repo.Save() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindByID(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	repo := transactionrepo.NewRepoPGS(tx)
	account := integrationtest.SeedAccount(t, tx, "100")

	want, err := repo.Save(ctx, completed(domain.TransactionKindDeposit, 0, account.ID, time.Now().UTC()))
	if err != nil {
		t.Fatalf("repo.Save() returned error: %v", err)
	}

	got, err := repo.FindByID(ctx, want.ID)
	if err != nil {
		t.Fatalf("repo.FindByID(ctx, %d) returned error: %v", want.ID, err)
	}

	if diff := cmp.Diff(want, got, compareTransactions...); diff != "" {
		t.Errorf("repo.FindByID() mismatch (-want +got):\n%s", diff)
	}

	if _, err := repo.FindByID(ctx, want.ID+1_000_000); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("repo.FindByID(unknown) error = %v, want %v", err, domain.ErrTransactionNotFound)
	}
}

func TestListByAccount(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	repo := transactionrepo.NewRepoPGS(tx)
	a := integrationtest.SeedAccount(t, tx, "100")
	b := integrationtest.SeedAccount(t, tx, "100")
	other := integrationtest.SeedAccount(t, tx, "100")

	start := time.Now().UTC().Truncate(time.Microsecond)

	inputs := []domain.Transaction{
		completed(domain.TransactionKindDeposit, 0, a.ID, start),
		completed(domain.TransactionKindTransfer, a.ID, b.ID, start.Add(time.Second)),
		completed(domain.TransactionKindWithdrawal, b.ID, 0, start.Add(2*time.Second)),
		completed(domain.TransactionKindDeposit, 0, other.ID, start.Add(3*time.Second)),
		completed(domain.TransactionKindTransfer, b.ID, a.ID, start.Add(4*time.Second)),
	}

	saved := make([]domain.Transaction, 0, len(inputs))

	for _, in := range inputs {
		s, err := repo.Save(ctx, in)
		if err != nil {
			t.Fatalf("repo.Save(ctx, %+v) returned error: %v", in, err)
		}

		saved = append(saved, s)
	}

	got, err := repo.ListByAccount(ctx, a.ID)
	if err != nil {
		t.Fatalf("repo.ListByAccount(ctx, %d) returned error: %v", a.ID, err)
	}

	want := []domain.Transaction{saved[4], saved[1], saved[0]}
	if diff := cmp.Diff(want, got, compareTransactions...); diff != "" {
		t.Errorf("repo.ListByAccount() mismatch (-want +got):\n%s", diff)
	}

	empty, err := repo.ListByAccount(ctx, a.ID+1_000_000)
	if err != nil {
		t.Fatalf("repo.ListByAccount(unknown) returned error: %v", err)
	}

	if len(empty) != 0 {
		t.Errorf("repo.ListByAccount(unknown) = %v, want empty", empty)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("repo.ListAll(ctx) returned error: %v", err)
	}

	if len(all) < len(saved) {
		t.Errorf("len(repo.ListAll()) = %d, want at least %d", len(all), len(saved))
	}

	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Fatalf("repo.ListAll() is not ordered most recent first at %d", i)
		}
	}
}
