// Package studentintro talks to the student intro program: one intro account per wallet.
package studentintro

import (
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var ProgramID = solana.MustPublicKeyFromBase58("HdE95RSVsdb315jfJtaykXhXY478h53X6okDupVfY9yf")

const variantAddIntro uint8 = 0

var (
	ErrUninitialized = errors.New("intro account is not initialized")
	ErrInvalidIntro  = errors.New("invalid intro")
)

type Intro struct {
	Name    string `json:"name" csv:"name"`
	Message string `json:"message" csv:"message"`
}

type addIntroPayload struct {
	Variant uint8
	Name    string
	Message string
}

type introAccount struct {
	Initialized bool
	Name        string
	Message     string
}

func (i Intro) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidIntro)
	}
	if i.Message == "" {
		return fmt.Errorf("%w: empty message", ErrInvalidIntro)
	}

	return nil
}

func (i Intro) Serialize() ([]byte, error) {
	return bin.MarshalBorsh(addIntroPayload{
		Variant: variantAddIntro,
		Name:    i.Name,
		Message: i.Message,
	})
}

func Deserialize(data []byte) (Intro, error) {
	var acc introAccount
	err := bin.NewBorshDecoder(data).Decode(&acc)
	if err != nil {
		return Intro{}, fmt.Errorf("decode intro: %s", err)
	}
	if !acc.Initialized {
		return Intro{}, ErrUninitialized
	}

	return Intro{Name: acc.Name, Message: acc.Message}, nil
}

func FindIntroAddress(wallet solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{wallet.Bytes()}, ProgramID)
}

func NewAddIntroInstruction(wallet solana.PublicKey, i Intro) (*solana.GenericInstruction, solana.PublicKey, error) {
	err := i.Validate()
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	pda, _, err := FindIntroAddress(wallet)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("FindIntroAddress: %s", err)
	}
	data, err := i.Serialize()
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("Serialize: %s", err)
	}

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(wallet).SIGNER(),
			solana.Meta(pda).WRITE(),
			solana.Meta(solana.SystemProgramID),
		},
		data,
	), pda, nil
}
