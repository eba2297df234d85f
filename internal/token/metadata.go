package token

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"

	"solana-course/internal/programs/tokenmeta"
)

type MintWithMetadata struct {
	Mint               solana.PublicKey
	Metadata           solana.PublicKey
	DestinationAccount solana.PublicKey
	Signature          solana.Signature
}

type CreatedNFT struct {
	Mint         solana.PublicKey
	Metadata     solana.PublicKey
	Edition      solana.PublicKey
	TokenAccount solana.PublicKey
	Signature    solana.Signature
}

// CreateMetadata attaches metadata to an existing mint. mintAuthority must sign.
func (s *Service) CreateMetadata(ctx context.Context, payer solana.PrivateKey, mint solana.PublicKey, mintAuthority solana.PrivateKey, data tokenmeta.DataV2) (solana.PublicKey, solana.Signature, error) {
	metadata, err := tokenmeta.FindMetadataAddress(mint)
	if err != nil {
		return metadata, solana.Signature{}, fmt.Errorf("FindMetadataAddress: %s", err)
	}

	ix, err := tokenmeta.NewCreateMetadataAccountV3Instruction(tokenmeta.CreateMetadataAccounts{
		Metadata:        metadata,
		Mint:            mint,
		MintAuthority:   mintAuthority.PublicKey(),
		Payer:           payer.PublicKey(),
		UpdateAuthority: mintAuthority.PublicKey(),
	}, data, true)
	if err != nil {
		return metadata, solana.Signature{}, fmt.Errorf("CreateMetadataAccountV3: %s", err)
	}

	sig, err := s.client.SendAndConfirm(ctx, []solana.Instruction{ix}, payer, mintAuthority)
	if err != nil {
		return metadata, sig, fmt.Errorf("create metadata: %s", err)
	}

	return metadata, sig, nil
}

// CreateMintWithMetadata creates the mint, its metadata and, when missing, the associated
// account of destinationOwner in one transaction. payer becomes mint, freeze and update authority.
func (s *Service) CreateMintWithMetadata(ctx context.Context, payer solana.PrivateKey, data tokenmeta.DataV2, decimals uint8, destinationOwner solana.PublicKey) (res MintWithMetadata, err error) {
	mint, err := solana.NewRandomPrivateKey()
	if err != nil {
		return res, fmt.Errorf("NewRandomPrivateKey: %s", err)
	}
	res.Mint = mint.PublicKey()
	authority := payer.PublicKey()

	ixs, err := s.mintInstructions(ctx, authority, res.Mint, authority, &authority, decimals)
	if err != nil {
		return res, err
	}

	res.Metadata, err = tokenmeta.FindMetadataAddress(res.Mint)
	if err != nil {
		return res, fmt.Errorf("FindMetadataAddress: %s", err)
	}
	metadataIx, err := tokenmeta.NewCreateMetadataAccountV3Instruction(tokenmeta.CreateMetadataAccounts{
		Metadata:        res.Metadata,
		Mint:            res.Mint,
		MintAuthority:   authority,
		Payer:           authority,
		UpdateAuthority: authority,
	}, data, true)
	if err != nil {
		return res, fmt.Errorf("CreateMetadataAccountV3: %s", err)
	}
	ixs = append(ixs, metadataIx)

	// a fresh mint has no associated accounts, the lookup only guards reruns against a known mint
	var ataIx solana.Instruction
	res.DestinationAccount, ataIx, err = s.associatedAccountInstruction(ctx, authority, res.Mint, destinationOwner)
	if err != nil {
		return res, err
	}
	if ataIx != nil {
		ixs = append(ixs, ataIx)
	}

	res.Signature, err = s.client.SendAndConfirm(ctx, ixs, payer, mint)
	if err != nil {
		return res, fmt.Errorf("create mint with metadata: %s", err)
	}

	return res, nil
}

// CreateNFT mints a single token with zero decimals to payer, then locks the supply with a master edition.
// Without creators payer is recorded as the only, verified creator.
func (s *Service) CreateNFT(ctx context.Context, payer solana.PrivateKey, data tokenmeta.DataV2) (res CreatedNFT, err error) {
	mint, err := solana.NewRandomPrivateKey()
	if err != nil {
		return res, fmt.Errorf("NewRandomPrivateKey: %s", err)
	}
	res.Mint = mint.PublicKey()
	authority := payer.PublicKey()
	if data.Creators == nil {
		data.Creators = &[]tokenmeta.Creator{{Address: authority, Verified: true, Share: 100}}
	}

	ixs, err := s.mintInstructions(ctx, authority, res.Mint, authority, &authority, 0)
	if err != nil {
		return res, err
	}

	var ataIx solana.Instruction
	res.TokenAccount, ataIx, err = s.associatedAccountInstruction(ctx, authority, res.Mint, authority)
	if err != nil {
		return res, err
	}
	if ataIx != nil {
		ixs = append(ixs, ataIx)
	}

	mintToIx, err := token.NewMintToInstruction(1, res.Mint, res.TokenAccount, authority, nil).ValidateAndBuild()
	if err != nil {
		return res, fmt.Errorf("MintTo: %s", err)
	}
	ixs = append(ixs, mintToIx)

	res.Metadata, err = tokenmeta.FindMetadataAddress(res.Mint)
	if err != nil {
		return res, fmt.Errorf("FindMetadataAddress: %s", err)
	}
	res.Edition, err = tokenmeta.FindMasterEditionAddress(res.Mint)
	if err != nil {
		return res, fmt.Errorf("FindMasterEditionAddress: %s", err)
	}

	metadataIx, err := tokenmeta.NewCreateMetadataAccountV3Instruction(tokenmeta.CreateMetadataAccounts{
		Metadata:        res.Metadata,
		Mint:            res.Mint,
		MintAuthority:   authority,
		Payer:           authority,
		UpdateAuthority: authority,
	}, data, true)
	if err != nil {
		return res, fmt.Errorf("CreateMetadataAccountV3: %s", err)
	}

	maxSupply := uint64(0)
	editionIx, err := tokenmeta.NewCreateMasterEditionV3Instruction(tokenmeta.CreateMasterEditionAccounts{
		Edition:         res.Edition,
		Metadata:        res.Metadata,
		Mint:            res.Mint,
		UpdateAuthority: authority,
		MintAuthority:   authority,
		Payer:           authority,
	}, &maxSupply)
	if err != nil {
		return res, fmt.Errorf("CreateMasterEditionV3: %s", err)
	}
	ixs = append(ixs, metadataIx, editionIx)

	res.Signature, err = s.client.SendAndConfirm(ctx, ixs, payer, mint)
	if err != nil {
		return res, fmt.Errorf("create nft: %s", err)
	}

	return res, nil
}
