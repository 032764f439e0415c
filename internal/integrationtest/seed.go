package integrationtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

var seq uint32

// AccountNumber returns an account number unique within the test binary.
func AccountNumber() domain.AccountNumber {
	n := atomic.AddUint32(&seq, 1)

	return domain.AccountNumber(fmt.Sprintf("%04d-%04d-%04d-%04d",
		randompkg.Intn(10_000), randompkg.Intn(10_000), n/10_000%10_000, n%10_000))
}

// SeedAccount creates an active checking account with the given balance.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface, balance string) domain.Account {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)

	a, err := domain.NewAccount(AccountNumber(), randompkg.OwnerID(), domain.AccountKindChecking, moneypkg.MustParse(balance), now)
	if err != nil {
		t.Fatalf("domain.NewAccount() returned error: %v", err)
	}

	saved, err := accountrepo.NewRepoPGS(db).Save(context.Background(), a)
	if err != nil {
		t.Fatalf("accountRepo.Save(context.Background(), %+v) returned error: %v", a, err)
	}

	return saved
}
