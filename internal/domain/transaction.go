package domain

import (
	"time"
	"unicode/utf8"

	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

// MaxDescriptionLength is the maximum number of characters in a transaction description.
const MaxDescriptionLength = 500

// TransactionKind is the kind of money movement.
type TransactionKind int

// Transaction kinds.
const (
	_ TransactionKind = iota
	TransactionKindDeposit
	TransactionKindWithdrawal
	TransactionKindTransfer
)

var transactionKindNames = map[TransactionKind]string{
	TransactionKindDeposit:    "deposit",
	TransactionKindWithdrawal: "withdrawal",
	TransactionKindTransfer:   "transfer",
}

// ParseTransactionKind returns the TransactionKind named s.
func ParseTransactionKind(s string) (TransactionKind, error) {
	for k, name := range transactionKindNames {
		if name == s {
			return k, nil
		}
	}

	return 0, ErrInvalidTransactionKind
}

// Valid reports whether k is a known kind.
func (k TransactionKind) Valid() bool {
	_, ok := transactionKindNames[k]
	return ok
}

func (k TransactionKind) String() string {
	if name, ok := transactionKindNames[k]; ok {
		return name
	}

	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k TransactionKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, ErrInvalidTransactionKind
	}

	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TransactionKind) UnmarshalText(b []byte) error {
	parsed, err := ParseTransactionKind(string(b))
	if err != nil {
		return err
	}

	*k = parsed

	return nil
}

// TransactionStatus is the outcome of a transaction.
type TransactionStatus int

// Transaction statuses.
const (
	_ TransactionStatus = iota
	TransactionStatusPending
	TransactionStatusCompleted
	TransactionStatusFailed
	TransactionStatusCancelled
)

var transactionStatusNames = map[TransactionStatus]string{
	TransactionStatusPending:   "pending",
	TransactionStatusCompleted: "completed",
	TransactionStatusFailed:    "failed",
	TransactionStatusCancelled: "cancelled",
}

// ParseTransactionStatus returns the TransactionStatus named s.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	for st, name := range transactionStatusNames {
		if name == s {
			return st, nil
		}
	}

	return 0, ErrInvalidTransactionStatus
}

// Valid reports whether s is a known status.
func (s TransactionStatus) Valid() bool {
	_, ok := transactionStatusNames[s]
	return ok
}

func (s TransactionStatus) String() string {
	if name, ok := transactionStatusNames[s]; ok {
		return name
	}

	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s TransactionStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, ErrInvalidTransactionStatus
	}

	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TransactionStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseTransactionStatus(string(b))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// Transaction is an immutable ledger entry. Account ids are zero when absent:
// deposits have only ToAccountID, withdrawals only FromAccountID, transfers both.
type Transaction struct {
	ID            int64             `json:"id"`
	FromAccountID int64             `json:"from_account_id,omitempty"`
	ToAccountID   int64             `json:"to_account_id,omitempty"`
	Amount        moneypkg.Money    `json:"amount"` // always positive
	Kind          TransactionKind   `json:"kind"`
	Status        TransactionStatus `json:"status"`
	Description   string            `json:"description"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// TransactionRequest is the input of the ledger engine.
type TransactionRequest struct {
	Kind          TransactionKind
	FromAccountID int64
	ToAccountID   int64
	Amount        moneypkg.Money
	Description   string
}

// Validate checks the request without touching any store.
func (r TransactionRequest) Validate() error {
	if !r.Kind.Valid() {
		return ErrInvalidTransactionKind
	}

	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	switch r.Kind {
	case TransactionKindDeposit:
		if r.ToAccountID == 0 {
			return ErrMissingDestination
		}
		if r.FromAccountID != 0 {
			return ErrUnexpectedSource
		}
	case TransactionKindWithdrawal:
		if r.FromAccountID == 0 {
			return ErrMissingSource
		}
		if r.ToAccountID != 0 {
			return ErrUnexpectedDestination
		}
	case TransactionKindTransfer:
		if r.FromAccountID == 0 || r.ToAccountID == 0 {
			return ErrMissingAccount
		}
		if r.FromAccountID == r.ToAccountID {
			return ErrSelfTransfer
		}
	}

	if n := utf8.RuneCountInString(r.Description); n < 1 || n > MaxDescriptionLength {
		return ErrInvalidDescription
	}

	return nil
}

// Complete returns the completed, not yet persisted, record of r.
func (r TransactionRequest) Complete(now time.Time) Transaction {
	return Transaction{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
		Kind:          r.Kind,
		Status:        TransactionStatusCompleted,
		Description:   r.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
