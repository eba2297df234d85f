package chain

import (
	"errors"
	"strings"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrInvalidAddress      = errors.New("invalid address")
	ErrInvalidRecipient    = errors.New("Recipient address is not valid")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("Insufficient sol balance")
	ErrInvalidTransaction  = errors.New("invalid transaction")
)

// ParseAddress decodes a base58 account address. Program derived addresses are accepted.
func ParseAddress(s string) (solana.PublicKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return solana.PublicKey{}, ErrInvalidAddress
	}
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, ErrInvalidAddress
	}

	return pk, nil
}

// ParseWalletAddress only accepts keys that can sign, i.e. points on the ed25519 curve.
func ParseWalletAddress(s string) (solana.PublicKey, error) {
	pk, err := ParseAddress(s)
	if err != nil || !pk.IsOnCurve() {
		return solana.PublicKey{}, ErrInvalidRecipient
	}

	return pk, nil
}
