package domain

import (
	"fmt"
	"regexp"

	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

var (
	accountNumberPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{4}$`)
	segmentPattern       = regexp.MustCompile(`^\d{4}$`)
)

// AccountNumber is a BANK-BRANCH-TYPECODE-SEQ identifier, e.g. 1234-5678-9012-0042.
// A non-empty AccountNumber is always well formed.
type AccountNumber string

// ParseAccountNumber validates s and returns it as an AccountNumber.
func ParseAccountNumber(s string) (AccountNumber, error) {
	if !accountNumberPattern.MatchString(s) {
		return "", ErrInvalidAccountNumber
	}

	return AccountNumber(s), nil
}

func (n AccountNumber) String() string { return string(n) }

// Default account number segments.
const (
	DefaultBankCode   = "1234"
	DefaultBranchCode = "5678"
	DefaultTypeCode   = "9012"
)

// AccountNumberGenerator combines fixed bank, branch and type segments with a random sequence.
type AccountNumberGenerator struct {
	bankCode   string
	branchCode string
	typeCode   string
}

// NewAccountNumberGenerator returns a generator after validating every fixed segment.
func NewAccountNumberGenerator(bankCode, branchCode, typeCode string) (AccountNumberGenerator, error) {
	for _, segment := range []string{bankCode, branchCode, typeCode} {
		if !segmentPattern.MatchString(segment) {
			return AccountNumberGenerator{}, fmt.Errorf("%w: segment %q is not 4 digits", ErrInvalidAccountNumber, segment)
		}
	}

	return AccountNumberGenerator{
		bankCode:   bankCode,
		branchCode: branchCode,
		typeCode:   typeCode,
	}, nil
}

// Generate returns a new account number with a random sequence segment.
func (g AccountNumberGenerator) Generate() (AccountNumber, error) {
	seq := randompkg.Intn(10_000)

	return ParseAccountNumber(fmt.Sprintf("%s-%s-%s-%04d", g.bankCode, g.branchCode, g.typeCode, seq))
}
