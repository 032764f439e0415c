// Package randompkg provides functionality for generating random identifiers and test data.
package randompkg

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/go-petr/pet-ledger/pkg/moneypkg"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Intn is a shortcut for generating a random integer in [0, max) using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Int64Between generates a random integer in [min, max].
func Int64Between(min, max int64) int64 {
	return min + Intn(int(max-min+1))
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// OwnerID generates a random owner id.
func OwnerID() int64 {
	return Int64Between(1, 1_000_000)
}

// MoneyBetween generates a random amount of money in [min, max] whole units.
func MoneyBetween(min, max int64) moneypkg.Money {
	m, err := moneypkg.NewFromMinorUnits(Int64Between(min*100, max*100))
	if err != nil {
		panic(err)
	}

	return m
}

// Description generates a random transaction description.
func Description() string {
	return "payment " + String(12)
}
