package chain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const SolDecimals = 9

var ErrInvalidAmount = errors.New("invalid amount")

// UiToBaseUnits converts a decimal amount such as "0.1" into integer base units
// of a token with the given decimals. Amounts with more fractional digits than
// decimals, negative amounts and values above uint64 are rejected.
func UiToBaseUnits(amount string, decimals uint8) (uint64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" || strings.ContainsAny(amount, "/eE+") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	r, ok := new(big.Rat).SetString(amount)
	if !ok || r.Sign() < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	r.Mul(r, new(big.Rat).SetInt(pow10(decimals)))
	if !r.IsInt() {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, amount, decimals)
	}
	if !r.Num().IsUint64() {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidAmount, amount)
	}

	return r.Num().Uint64(), nil
}

// BaseUnitsToUi is the inverse of UiToBaseUnits, without trailing zeros.
func BaseUnitsToUi(value uint64, decimals uint8) string {
	r := new(big.Rat).SetFrac(new(big.Int).SetUint64(value), pow10(decimals))
	s := r.FloatString(int(decimals))
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}

	return s
}

func SolToLamports(sol string) (uint64, error) {
	return UiToBaseUnits(sol, SolDecimals)
}

func LamportsToSol(lamports uint64) string {
	return BaseUnitsToUi(lamports, SolDecimals)
}

func pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}
