// Package token creates, mints, transfers and burns SPL tokens and NFTs.
package token

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"

	"solana-course/internal/pkg/chain"
)

var ErrNotTokenAccount = errors.New("account is not owned by the token program")

type Service struct {
	client *chain.Client
}

func NewService(client *chain.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Client() *chain.Client {
	return s.client
}

// mintInstructions allocates a rent exempt mint account and initializes it.
func (s *Service) mintInstructions(ctx context.Context, payer, mint, mintAuthority solana.PublicKey, freezeAuthority *solana.PublicKey, decimals uint8) ([]solana.Instruction, error) {
	rent, err := s.client.RPC().GetMinimumBalanceForRentExemption(ctx, token.MINT_SIZE, s.client.Commitment())
	if err != nil {
		return nil, fmt.Errorf("GetMinimumBalanceForRentExemption: %s", err)
	}

	createAccount, err := system.NewCreateAccountInstruction(rent, token.MINT_SIZE, solana.TokenProgramID, payer, mint).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("CreateAccount: %s", err)
	}

	builder := token.NewInitializeMint2InstructionBuilder().
		SetDecimals(decimals).
		SetMintAuthority(mintAuthority).
		SetMintAccount(mint)
	if freezeAuthority != nil {
		builder.SetFreezeAuthority(*freezeAuthority)
	}
	initMint, err := builder.ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("InitializeMint2: %s", err)
	}

	return []solana.Instruction{createAccount, initMint}, nil
}

// CreateMint creates a new mint and returns its address.
func (s *Service) CreateMint(ctx context.Context, payer solana.PrivateKey, mintAuthority solana.PublicKey, freezeAuthority *solana.PublicKey, decimals uint8) (solana.PublicKey, solana.Signature, error) {
	mint, err := solana.NewRandomPrivateKey()
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, fmt.Errorf("NewRandomPrivateKey: %s", err)
	}

	ixs, err := s.mintInstructions(ctx, payer.PublicKey(), mint.PublicKey(), mintAuthority, freezeAuthority, decimals)
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, err
	}

	sig, err := s.client.SendAndConfirm(ctx, ixs, payer, mint)
	if err != nil {
		return solana.PublicKey{}, sig, fmt.Errorf("create mint: %s", err)
	}

	return mint.PublicKey(), sig, nil
}

func (s *Service) GetMint(ctx context.Context, mint solana.PublicKey) (m token.Mint, err error) {
	acc, err := s.client.AccountInfo(ctx, mint)
	if err != nil {
		return m, fmt.Errorf("mint %s: %w", mint, err)
	}
	if !acc.Owner.Equals(solana.TokenProgramID) {
		return m, fmt.Errorf("mint %s: %w", mint, ErrNotTokenAccount)
	}

	return decodeMint(acc.Data.GetBinary())
}

func decodeMint(data []byte) (m token.Mint, err error) {
	err = bin.NewBinDecoder(data).Decode(&m)
	if err != nil {
		return m, fmt.Errorf("decode mint: %s", err)
	}

	return m, nil
}

func decodeTokenAccount(data []byte) (a token.Account, err error) {
	err = bin.NewBinDecoder(data).Decode(&a)
	if err != nil {
		return a, fmt.Errorf("decode token account: %s", err)
	}

	return a, nil
}

func AssociatedAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("FindAssociatedTokenAddress: %s", err)
	}

	return ata, nil
}

// associatedAccountInstruction returns nil when the associated account of owner already exists.
func (s *Service) associatedAccountInstruction(ctx context.Context, payer, mint, owner solana.PublicKey) (solana.PublicKey, solana.Instruction, error) {
	ata, err := AssociatedAddress(owner, mint)
	if err != nil {
		return ata, nil, err
	}
	exists, err := s.client.AccountExists(ctx, ata)
	if err != nil {
		return ata, nil, err
	}
	if exists {
		return ata, nil, nil
	}

	ix, err := associatedtokenaccount.NewCreateInstruction(payer, owner, mint).ValidateAndBuild()
	if err != nil {
		return ata, nil, fmt.Errorf("CreateAssociatedTokenAccount: %s", err)
	}

	return ata, ix, nil
}

// GetOrCreateAssociatedAccount returns the associated token account of owner, creating it when missing.
func (s *Service) GetOrCreateAssociatedAccount(ctx context.Context, payer solana.PrivateKey, mint, owner solana.PublicKey) (ata solana.PublicKey, created bool, err error) {
	ata, ix, err := s.associatedAccountInstruction(ctx, payer.PublicKey(), mint, owner)
	if err != nil || ix == nil {
		return ata, false, err
	}

	_, err = s.client.SendAndConfirm(ctx, []solana.Instruction{ix}, payer)
	if err != nil {
		return ata, false, fmt.Errorf("create associated account: %s", err)
	}

	return ata, true, nil
}

// MintTo mints uiAmount tokens, scaled by the mint decimals, into destination.
func (s *Service) MintTo(ctx context.Context, payer solana.PrivateKey, mint, destination solana.PublicKey, authority solana.PrivateKey, uiAmount string) (solana.Signature, error) {
	amount, err := s.baseUnits(ctx, mint, uiAmount)
	if err != nil {
		return solana.Signature{}, err
	}

	ix, err := token.NewMintToInstruction(amount, mint, destination, authority.PublicKey(), nil).ValidateAndBuild()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("MintTo: %s", err)
	}

	return s.client.SendAndConfirm(ctx, []solana.Instruction{ix}, payer, authority)
}

func (s *Service) Transfer(ctx context.Context, payer solana.PrivateKey, mint, source, destination solana.PublicKey, owner solana.PrivateKey, uiAmount string) (solana.Signature, error) {
	amount, err := s.baseUnits(ctx, mint, uiAmount)
	if err != nil {
		return solana.Signature{}, err
	}

	ix, err := token.NewTransferInstruction(amount, source, destination, owner.PublicKey(), nil).ValidateAndBuild()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("Transfer: %s", err)
	}

	return s.client.SendAndConfirm(ctx, []solana.Instruction{ix}, payer, owner)
}

func (s *Service) Burn(ctx context.Context, payer solana.PrivateKey, mint, account solana.PublicKey, owner solana.PrivateKey, uiAmount string) (solana.Signature, error) {
	amount, err := s.baseUnits(ctx, mint, uiAmount)
	if err != nil {
		return solana.Signature{}, err
	}

	ix, err := token.NewBurnInstruction(amount, account, mint, owner.PublicKey(), nil).ValidateAndBuild()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("Burn: %s", err)
	}

	return s.client.SendAndConfirm(ctx, []solana.Instruction{ix}, payer, owner)
}

func (s *Service) baseUnits(ctx context.Context, mint solana.PublicKey, uiAmount string) (uint64, error) {
	m, err := s.GetMint(ctx, mint)
	if err != nil {
		return 0, err
	}

	return chain.UiToBaseUnits(uiAmount, m.Decimals)
}
