package domain

import "errors"

// Validation errors. They are detected before any store access.
var (
	// ErrInvalidAmount indicates that the amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidInitialDeposit indicates a negative opening balance.
	ErrInvalidInitialDeposit = errors.New("initial deposit must not be negative")
	// ErrMissingDestination indicates a deposit without a destination account.
	ErrMissingDestination = errors.New("deposit requires a destination account")
	// ErrMissingSource indicates a withdrawal without a source account.
	ErrMissingSource = errors.New("withdrawal requires a source account")
	// ErrMissingAccount indicates a transfer without both accounts.
	ErrMissingAccount = errors.New("transfer requires both source and destination accounts")
	// ErrUnexpectedSource indicates a deposit that names a source account.
	ErrUnexpectedSource = errors.New("deposit must not have a source account")
	// ErrUnexpectedDestination indicates a withdrawal that names a destination account.
	ErrUnexpectedDestination = errors.New("withdrawal must not have a destination account")
	// ErrSelfTransfer indicates a transfer whose source and destination are the same account.
	ErrSelfTransfer = errors.New("cannot transfer to the same account")
	// ErrInvalidDescription indicates a description outside of 1-500 characters.
	ErrInvalidDescription = errors.New("description must be 1-500 characters")
	// ErrInvalidTransactionKind indicates an unknown transaction kind.
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	// ErrInvalidTransactionStatus indicates an unknown transaction status.
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
	// ErrInvalidAccountKind indicates an unknown account kind.
	ErrInvalidAccountKind = errors.New("invalid account kind")
	// ErrInvalidAccountStatus indicates an unknown account status.
	ErrInvalidAccountStatus = errors.New("invalid account status")
	// ErrInvalidAccountNumber indicates an account number not matching NNNN-NNNN-NNNN-NNNN.
	ErrInvalidAccountNumber = errors.New("invalid account number format")
	// ErrInvalidOwner indicates a non-positive owner id.
	ErrInvalidOwner = errors.New("owner id must be positive")
)

// Not-found errors.
var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrSourceAccountNotFound indicates that the source account is not found.
	ErrSourceAccountNotFound = errors.New("source account not found")
	// ErrDestinationAccountNotFound indicates that the destination account is not found.
	ErrDestinationAccountNotFound = errors.New("destination account not found")
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Rule violations.
var (
	// ErrSourceAccountNotActive indicates that the source account is frozen or closed.
	ErrSourceAccountNotActive = errors.New("source account is not active")
	// ErrDestinationAccountNotActive indicates that the destination account is frozen or closed.
	ErrDestinationAccountNotActive = errors.New("destination account is not active")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrAccountClosed indicates a status change of a closed account.
	ErrAccountClosed = errors.New("account is closed")
	// ErrNonZeroBalance indicates an attempt to close an account holding money.
	ErrNonZeroBalance = errors.New("cannot close account with non-zero balance")
)

var (
	// ErrConflict indicates a transient concurrent-update conflict. The unit of work
	// that returned it had no effect and may be retried.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrAccountNumberExists indicates that the generated account number is taken.
	ErrAccountNumberExists = errors.New("account number already exists")
)

var (
	validationErrors = []error{
		ErrInvalidAmount,
		ErrInvalidInitialDeposit,
		ErrMissingDestination,
		ErrMissingSource,
		ErrMissingAccount,
		ErrUnexpectedSource,
		ErrUnexpectedDestination,
		ErrSelfTransfer,
		ErrInvalidDescription,
		ErrInvalidTransactionKind,
		ErrInvalidTransactionStatus,
		ErrInvalidAccountKind,
		ErrInvalidAccountStatus,
		ErrInvalidAccountNumber,
		ErrInvalidOwner,
	}
	notFoundErrors = []error{
		ErrAccountNotFound,
		ErrSourceAccountNotFound,
		ErrDestinationAccountNotFound,
		ErrTransactionNotFound,
	}
	ruleViolationErrors = []error{
		ErrSourceAccountNotActive,
		ErrDestinationAccountNotActive,
		ErrInsufficientBalance,
		ErrAccountClosed,
		ErrNonZeroBalance,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// IsValidation reports whether err is a client input failure.
func IsValidation(err error) bool { return isAny(err, validationErrors) }

// IsNotFound reports whether err names an unknown account or transaction.
func IsNotFound(err error) bool { return isAny(err, notFoundErrors) }

// IsRuleViolation reports whether err is a business rule failure.
func IsRuleViolation(err error) bool { return isAny(err, ruleViolationErrors) }

// IsConflict reports whether err is a retryable concurrent-update conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
