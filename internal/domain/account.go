// Package domain provides definitions of all ledger entities.
package domain

import (
	"time"

	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

// AccountKind is the product type of an account. Immutable after creation.
type AccountKind int

// Account kinds.
const (
	_ AccountKind = iota
	AccountKindSavings
	AccountKindChecking
)

var accountKindNames = map[AccountKind]string{
	AccountKindSavings:  "savings",
	AccountKindChecking: "checking",
}

// ParseAccountKind returns the AccountKind named s.
func ParseAccountKind(s string) (AccountKind, error) {
	for k, name := range accountKindNames {
		if name == s {
			return k, nil
		}
	}

	return 0, ErrInvalidAccountKind
}

// Valid reports whether k is a known kind.
func (k AccountKind) Valid() bool {
	_, ok := accountKindNames[k]
	return ok
}

func (k AccountKind) String() string {
	if name, ok := accountKindNames[k]; ok {
		return name
	}

	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k AccountKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, ErrInvalidAccountKind
	}

	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *AccountKind) UnmarshalText(b []byte) error {
	parsed, err := ParseAccountKind(string(b))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}

// AccountStatus governs which operations are legal on an account.
type AccountStatus int

// Account statuses. Closed is terminal.
const (
	_ AccountStatus = iota
	AccountStatusActive
	AccountStatusFrozen
	AccountStatusClosed
)

var accountStatusNames = map[AccountStatus]string{
	AccountStatusActive: "active",
	AccountStatusFrozen: "frozen",
	AccountStatusClosed: "closed",
}

// ParseAccountStatus returns the AccountStatus named s.
func ParseAccountStatus(s string) (AccountStatus, error) {
	for st, name := range accountStatusNames {
		if name == s {
			return st, nil
		}
	}

	return 0, ErrInvalidAccountStatus
}

// Valid reports whether s is a known status.
func (s AccountStatus) Valid() bool {
	_, ok := accountStatusNames[s]
	return ok
}

func (s AccountStatus) String() string {
	if name, ok := accountStatusNames[s]; ok {
		return name
	}

	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s AccountStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, ErrInvalidAccountStatus
	}

	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *AccountStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseAccountStatus(string(b))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// Account is an immutable snapshot of an account.
//
// Changes are expressed by the With* methods, which return a new snapshot.
// ID is zero until the account is persisted.
type Account struct {
	ID        int64          `json:"id"`
	Number    AccountNumber  `json:"account_number"`
	OwnerID   int64          `json:"owner_id"`
	Kind      AccountKind    `json:"kind"`
	Balance   moneypkg.Money `json:"balance"`
	Status    AccountStatus  `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewAccount returns a new active account holding initialDeposit.
func NewAccount(number AccountNumber, ownerID int64, kind AccountKind, initialDeposit moneypkg.Money, now time.Time) (Account, error) {
	if _, err := ParseAccountNumber(number.String()); err != nil {
		return Account{}, err
	}

	if !kind.Valid() {
		return Account{}, ErrInvalidAccountKind
	}

	if initialDeposit.IsNegative() {
		return Account{}, ErrInvalidInitialDeposit
	}

	return Account{
		Number:    number,
		OwnerID:   ownerID,
		Kind:      kind,
		Balance:   initialDeposit,
		Status:    AccountStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsActive reports whether the account accepts money movements.
func (a Account) IsActive() bool { return a.Status == AccountStatusActive }

// WithBalance returns a copy of a holding balance.
func (a Account) WithBalance(balance moneypkg.Money, now time.Time) (Account, error) {
	if balance.IsNegative() {
		return Account{}, ErrInsufficientBalance
	}

	a.Balance = balance
	a.UpdatedAt = now

	return a, nil
}

// WithStatus returns a copy of a transitioned to status.
//
// Active and frozen move freely between each other. Closing requires a zero balance.
// Closed accounts accept no further transitions. Transitioning to the current status is a no-op.
func (a Account) WithStatus(status AccountStatus, now time.Time) (Account, error) {
	if !status.Valid() {
		return Account{}, ErrInvalidAccountStatus
	}

	if a.Status == status {
		return a, nil
	}

	switch a.Status {
	case AccountStatusClosed:
		return Account{}, ErrAccountClosed
	case AccountStatusActive, AccountStatusFrozen:
	default:
		return Account{}, ErrInvalidAccountStatus
	}

	if status == AccountStatusClosed && !a.Balance.IsZero() {
		return Account{}, ErrNonZeroBalance
	}

	a.Status = status
	a.UpdatedAt = now

	return a, nil
}

// Freeze returns a frozen copy of a.
func (a Account) Freeze(now time.Time) (Account, error) {
	return a.WithStatus(AccountStatusFrozen, now)
}

// Activate returns an active copy of a.
func (a Account) Activate(now time.Time) (Account, error) {
	return a.WithStatus(AccountStatusActive, now)
}

// Close returns a closed copy of a.
func (a Account) Close(now time.Time) (Account, error) {
	return a.WithStatus(AccountStatusClosed, now)
}
