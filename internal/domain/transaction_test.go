package domain

import (
	"strings"
	"testing"

	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/stretchr/testify/require"
)

func TestTransactionRequestValidate(t *testing.T) {
	amount := moneypkg.MustParse("50")

	testCases := []struct {
		name    string
		req     TransactionRequest
		wantErr error
	}{
		{
			name: "Deposit",
			req:  TransactionRequest{Kind: TransactionKindDeposit, ToAccountID: 1, Amount: amount, Description: "salary"},
		},
		{
			name: "Withdrawal",
			req:  TransactionRequest{Kind: TransactionKindWithdrawal, FromAccountID: 1, Amount: amount, Description: "atm"},
		},
		{
			name: "Transfer",
			req:  TransactionRequest{Kind: TransactionKindTransfer, FromAccountID: 1, ToAccountID: 2, Amount: amount, Description: "rent"},
		},
		{
			name:    "UnknownKind",
			req:     TransactionRequest{ToAccountID: 1, Amount: amount, Description: "x"},
			wantErr: ErrInvalidTransactionKind,
		},
		{
			name:    "ZeroAmount",
			req:     TransactionRequest{Kind: TransactionKindDeposit, ToAccountID: 1, Description: "x"},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "NegativeAmount",
			req:     TransactionRequest{Kind: TransactionKindDeposit, ToAccountID: 1, Amount: moneypkg.MustParse("-1"), Description: "x"},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "DepositWithoutDestination",
			req:     TransactionRequest{Kind: TransactionKindDeposit, Amount: amount, Description: "x"},
			wantErr: ErrMissingDestination,
		},
		{
			name:    "DepositWithSource",
			req:     TransactionRequest{Kind: TransactionKindDeposit, FromAccountID: 2, ToAccountID: 1, Amount: amount, Description: "x"},
			wantErr: ErrUnexpectedSource,
		},
		{
			name:    "WithdrawalWithoutSource",
			req:     TransactionRequest{Kind: TransactionKindWithdrawal, Amount: amount, Description: "x"},
			wantErr: ErrMissingSource,
		},
		{
			name:    "WithdrawalWithDestination",
			req:     TransactionRequest{Kind: TransactionKindWithdrawal, FromAccountID: 1, ToAccountID: 2, Amount: amount, Description: "x"},
			wantErr: ErrUnexpectedDestination,
		},
		{
			name:    "TransferWithoutDestination",
			req:     TransactionRequest{Kind: TransactionKindTransfer, FromAccountID: 1, Amount: amount, Description: "x"},
			wantErr: ErrMissingAccount,
		},
		{
			name:    "TransferWithoutSource",
			req:     TransactionRequest{Kind: TransactionKindTransfer, ToAccountID: 1, Amount: amount, Description: "x"},
			wantErr: ErrMissingAccount,
		},
		{
			name:    "SelfTransfer",
			req:     TransactionRequest{Kind: TransactionKindTransfer, FromAccountID: 3, ToAccountID: 3, Amount: amount, Description: "x"},
			wantErr: ErrSelfTransfer,
		},
		{
			name:    "EmptyDescription",
			req:     TransactionRequest{Kind: TransactionKindDeposit, ToAccountID: 1, Amount: amount},
			wantErr: ErrInvalidDescription,
		},
		{
			name:    "LongDescription",
			req:     TransactionRequest{Kind: TransactionKindDeposit, ToAccountID: 1, Amount: amount, Description: strings.Repeat("a", 501)},
			wantErr: ErrInvalidDescription,
		},
		{
			name: "MaxMultibyteDescription",
			req:  TransactionRequest{Kind: TransactionKindDeposit, ToAccountID: 1, Amount: amount, Description: strings.Repeat("ü", 500)},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tc.wantErr)
			require.True(t, IsValidation(err))
		})
	}
}

func TestComplete(t *testing.T) {
	req := TransactionRequest{
		Kind:          TransactionKindTransfer,
		FromAccountID: 1,
		ToAccountID:   2,
		Amount:        moneypkg.MustParse("50"),
		Description:   "rent",
	}

	got := req.Complete(testNow)

	require.Zero(t, got.ID)
	require.Equal(t, TransactionStatusCompleted, got.Status)
	require.Equal(t, req.Kind, got.Kind)
	require.Equal(t, int64(1), got.FromAccountID)
	require.Equal(t, int64(2), got.ToAccountID)
	require.True(t, req.Amount.Equal(got.Amount))
	require.Equal(t, testNow, got.CreatedAt)
	require.Equal(t, testNow, got.UpdatedAt)
}

func TestErrorClasses(t *testing.T) {
	require.True(t, IsNotFound(ErrSourceAccountNotFound))
	require.True(t, IsRuleViolation(ErrInsufficientBalance))
	require.True(t, IsRuleViolation(ErrDestinationAccountNotActive))
	require.True(t, IsConflict(ErrConflict))
	require.False(t, IsValidation(ErrInsufficientBalance))
	require.False(t, IsNotFound(ErrConflict))
}

func TestParseTransactionEnums(t *testing.T) {
	for _, name := range []string{"deposit", "withdrawal", "transfer"} {
		kind, err := ParseTransactionKind(name)
		require.NoError(t, err)
		require.Equal(t, name, kind.String())
	}

	for _, name := range []string{"pending", "completed", "failed", "cancelled"} {
		status, err := ParseTransactionStatus(name)
		require.NoError(t, err)
		require.Equal(t, name, status.String())
	}

	_, err := ParseTransactionKind("refund")
	require.ErrorIs(t, err, ErrInvalidTransactionKind)
}
