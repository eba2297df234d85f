// Package movie talks to the movie review program: one review account per wallet and title.
package movie

import (
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var ProgramID = solana.MustPublicKeyFromBase58("CenYq6bDRB7p73EjsPEpiYN7uveyPUTdXkDkgUduboaN")

const (
	variantAddReview uint8 = 0

	MinRating = 1
	MaxRating = 5
)

var (
	ErrUninitialized = errors.New("review account is not initialized")
	ErrInvalidReview = errors.New("invalid review")
)

type Review struct {
	Title       string `json:"title" csv:"title"`
	Rating      uint8  `json:"rating" csv:"rating"`
	Description string `json:"description" csv:"description"`
}

type addReviewPayload struct {
	Variant     uint8
	Title       string
	Rating      uint8
	Description string
}

type reviewAccount struct {
	Initialized bool
	Rating      uint8
	Title       string
	Description string
}

func (r Review) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidReview)
	}
	// the title is a PDA seed
	if len(r.Title) > solana.MaxSeedLength {
		return fmt.Errorf("%w: title longer than %d bytes", ErrInvalidReview, solana.MaxSeedLength)
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidReview, MinRating, MaxRating)
	}
	if r.Description == "" {
		return fmt.Errorf("%w: empty description", ErrInvalidReview)
	}

	return nil
}

// Serialize encodes the add review instruction data.
func (r Review) Serialize() ([]byte, error) {
	return bin.MarshalBorsh(addReviewPayload{
		Variant:     variantAddReview,
		Title:       r.Title,
		Rating:      r.Rating,
		Description: r.Description,
	})
}

// Deserialize decodes a review account. Trailing account space is ignored.
func Deserialize(data []byte) (Review, error) {
	var acc reviewAccount
	err := bin.NewBorshDecoder(data).Decode(&acc)
	if err != nil {
		return Review{}, fmt.Errorf("decode review: %s", err)
	}
	if !acc.Initialized {
		return Review{}, ErrUninitialized
	}

	return Review{Title: acc.Title, Rating: acc.Rating, Description: acc.Description}, nil
}

func FindReviewAddress(wallet solana.PublicKey, title string) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{wallet.Bytes(), []byte(title)}, ProgramID)
}

func NewAddReviewInstruction(wallet solana.PublicKey, r Review) (*solana.GenericInstruction, solana.PublicKey, error) {
	err := r.Validate()
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	pda, _, err := FindReviewAddress(wallet, r.Title)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("FindReviewAddress: %s", err)
	}
	data, err := r.Serialize()
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
