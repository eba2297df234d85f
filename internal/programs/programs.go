// Package programs lists and decodes accounts owned by the course programs.
package programs

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"solana-course/internal/pkg/chain"
)

type Decoded[T any] struct {
	Address solana.PublicKey
	Value   T
}

// DecodeAccounts keeps the order of accounts and skips those with no data or data decode rejects.
func DecodeAccounts[T any](accounts rpc.GetProgramAccountsResult, decode func([]byte) (T, error)) []Decoded[T] {
	res := make([]Decoded[T], 0, len(accounts))
	for _, acc := range accounts {
		if acc == nil || acc.Account == nil || acc.Account.Data == nil {
			continue
		}
		data := acc.Account.Data.GetBinary()
		if len(data) == 0 {
			continue
		}
		v, err := decode(data)
		if err != nil {
			continue
		}
		res = append(res, Decoded[T]{Address: acc.Pubkey, Value: v})
	}

	return res
}

func FetchDecoded[T any](ctx context.Context, client *chain.Client, program solana.PublicKey, decode func([]byte) (T, error)) ([]Decoded[T], error) {
	accounts, err := client.RPC().GetProgramAccountsWithOpts(ctx, program, &rpc.GetProgramAccountsOpts{
		Commitment: client.Commitment(),
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		return nil, fmt.Errorf("GetProgramAccounts (%s): %s", program, err)
	}

	return DecodeAccounts(accounts, decode), nil
}
