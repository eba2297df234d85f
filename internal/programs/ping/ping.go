package ping

import (
	"github.com/gagliardetto/solana-go"
)

var (
	ProgramID   = solana.MustPublicKeyFromBase58("ChT1B39WKLS8qUrkLvFDXMhEJ4F1XZzwUNHUt4AU9aVa")
	DataAccount = solana.MustPublicKeyFromBase58("Ah9K7dQ8EHaZqcAsgBW8w37yN2eAy3koFmUn4x3CJtod")
)

// NewPingInstruction increments the counter held by DataAccount. It carries no data.
func NewPingInstruction() *solana.GenericInstruction {
	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(DataAccount).WRITE(),
		},
		[]byte{},
	)
}
