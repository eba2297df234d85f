// Package transfer builds a system program transfer by hand, without the system program helpers.
package transfer

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const instructionTransfer uint32 = 2

type payload struct {
	Instruction uint32
	Lamports    uint64
}

func EncodeData(lamports uint64) ([]byte, error) {
	data, err := bin.MarshalBorsh(payload{Instruction: instructionTransfer, Lamports: lamports})
	if err != nil {
		return nil, fmt.Errorf("MarshalBorsh: %s", err)
	}

	return data, nil
}

func NewTransferInstruction(from, to solana.PublicKey, lamports uint64) (*solana.GenericInstruction, error) {
	data, err := EncodeData(lamports)
	if err != nil {
		return nil, err
	}

	return solana.NewInstruction(
		solana.SystemProgramID,
		solana.AccountMetaSlice{
			solana.Meta(from).WRITE().SIGNER(),
			solana.Meta(to).WRITE(),
		},
		data,
	), nil
}
