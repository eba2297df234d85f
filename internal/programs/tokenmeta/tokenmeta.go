// Package tokenmeta encodes the token metadata program instructions used for fungible tokens and NFTs
// and decodes metadata accounts.
package tokenmeta

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var ProgramID = solana.TokenMetadataProgramID

const (
	discriminatorCreateMasterEditionV3   uint8 = 17
	discriminatorCreateMetadataAccountV3 uint8 = 33

	// KeyMetadataV1 is the account key of metadata accounts.
	KeyMetadataV1 uint8 = 4

	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxUriLength    = 200
	MaxCreators     = 5
)

type (
	Creator struct {
		Address  solana.PublicKey
		Verified bool
		Share    uint8
	}

	Collection struct {
		Verified bool
		Key      solana.PublicKey
	}

	Uses struct {
		UseMethod uint8
		Remaining uint64
		Total     uint64
	}

	DataV2 struct {
		Name                 string
		Symbol               string
		Uri                  string
		SellerFeeBasisPoints uint16
		Creators             *[]Creator  `bin:"optional"`
		Collection           *Collection `bin:"optional"`
		Uses                 *Uses       `bin:"optional"`
	}

	collectionDetails struct {
		Variant uint8
		Size    uint64
	}

	createMetadataAccountV3Args struct {
		Discriminator     uint8
		Data              DataV2
		IsMutable         bool
		CollectionDetails *collectionDetails `bin:"optional"`
	}

	createMasterEditionV3Args struct {
		Discriminator uint8
		MaxSupply     *uint64 `bin:"optional"`
	}
)

type CreateMetadataAccounts struct {
	// Metadata is derived from Mint when zero.
	Metadata        solana.PublicKey
	Mint            solana.PublicKey
	MintAuthority   solana.PublicKey
	Payer           solana.PublicKey
	UpdateAuthority solana.PublicKey
}

type CreateMasterEditionAccounts struct {
	// Edition and Metadata are derived from Mint when zero.
	Edition         solana.PublicKey
	Metadata        solana.PublicKey
	Mint            solana.PublicKey
	UpdateAuthority solana.PublicKey
	MintAuthority   solana.PublicKey
	Payer           solana.PublicKey
}

func FindMetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress([][]byte{
		[]byte("metadata"),
		ProgramID.Bytes(),
		mint.Bytes(),
	}, ProgramID)

	return pda, err
}

func FindMasterEditionAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress([][]byte{
		[]byte("metadata"),
		ProgramID.Bytes(),
		mint.Bytes(),
		[]byte("edition"),
	}, ProgramID)

	return pda, err
}

func (d DataV2) Validate() error {
	if d.Name == "" || len(d.Name) > MaxNameLength {
		return fmt.Errorf("name must be 1-%d bytes", MaxNameLength)
	}
	if len(d.Symbol) > MaxSymbolLength {
		return fmt.Errorf("symbol longer than %d bytes", MaxSymbolLength)
	}
	if len(d.Uri) > MaxUriLength {
		return fmt.Errorf("uri longer than %d bytes", MaxUriLength)
	}
	if d.SellerFeeBasisPoints > 10000 {
		return fmt.Errorf("seller fee %d exceeds 10000 basis points", d.SellerFeeBasisPoints)
	}
	if d.Creators != nil {
		creators := *d.Creators
		if len(creators) > MaxCreators {
			return fmt.Errorf("more than %d creators", MaxCreators)
		}
		total := 0
		for _, c := range creators {
			total += int(c.Share)
		}
		if len(creators) > 0 && total != 100 {
			return fmt.Errorf("creator shares add up to %d, expected 100", total)
		}
	}

	return nil
}

func NewCreateMetadataAccountV3Instruction(accounts CreateMetadataAccounts, data DataV2, isMutable bool) (*solana.GenericInstruction, error) {
	err := data.Validate()
	if err != nil {
		return nil, err
	}
	if accounts.Metadata.IsZero() {
		accounts.Metadata, err = FindMetadataAddress(accounts.Mint)
		if err != nil {
			return nil, fmt.Errorf("FindMetadataAddress: %s", err)
		}
	}

	payload, err := bin.MarshalBorsh(createMetadataAccountV3Args{
		Discriminator: discriminatorCreateMetadataAccountV3,
		Data:          data,
		IsMutable:     isMutable,
	})
	if err != nil {
		return nil, fmt.Errorf("MarshalBorsh: %s", err)
	}

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(accounts.Metadata).WRITE(),
			solana.Meta(accounts.Mint),
			solana.Meta(accounts.MintAuthority).SIGNER(),
			solana.Meta(accounts.Payer).WRITE().SIGNER(),
			solana.Meta(accounts.UpdateAuthority),
			solana.Meta(solana.SystemProgramID),
		},
		payload,
	), nil
}

// NewCreateMasterEditionV3Instruction turns a mint with supply 1 into an NFT. Nil maxSupply means unlimited prints.
func NewCreateMasterEditionV3Instruction(accounts CreateMasterEditionAccounts, maxSupply *uint64) (*solana.GenericInstruction, error) {
	var err error
	if accounts.Edition.IsZero() {
		accounts.Edition, err = FindMasterEditionAddress(accounts.Mint)
		if err != nil {
			return nil, fmt.Errorf("FindMasterEditionAddress: %s", err)
		}
	}
	if accounts.Metadata.IsZero() {
		accounts.Metadata, err = FindMetadataAddress(accounts.Mint)
		if err != nil {
			return nil, fmt.Errorf("FindMetadataAddress: %s", err)
		}
	}

	payload, err := bin.MarshalBorsh(createMasterEditionV3Args{
		Discriminator: discriminatorCreateMasterEditionV3,
		MaxSupply:     maxSupply,
	})
	if err != nil {
		return nil, fmt.Errorf("MarshalBorsh: %s", err)
	}

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(accounts.Edition).WRITE(),
			solana.Meta(accounts.Mint).WRITE(),
			solana.Meta(accounts.UpdateAuthority).SIGNER(),
			solana.Meta(accounts.MintAuthority).SIGNER(),
			solana.Meta(accounts.Payer).WRITE().SIGNER(),
			solana.Meta(accounts.Metadata).WRITE(),
			solana.Meta(solana.TokenProgramID),
			solana.Meta(solana.SystemProgramID),
			solana.Meta(solana.SysVarRentPubkey),
		},
		payload,
	), nil
}
