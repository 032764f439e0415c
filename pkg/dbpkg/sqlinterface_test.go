package dbpkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	require.True(t, IsRetryable(&pq.Error{Code: "40001"}))
	require.True(t, IsRetryable(fmt.Errorf("commit: %w", &pq.Error{Code: "40P01"})))
	require.False(t, IsRetryable(&pq.Error{Code: "23505"}))
	require.False(t, IsRetryable(errors.New("boom")))
	require.False(t, IsRetryable(nil))
}

func TestConstraint(t *testing.T) {
	require.Equal(t, "accounts_balance_check", Constraint(&pq.Error{Constraint: "accounts_balance_check"}))
	require.Empty(t, Constraint(errors.New("boom")))
}
