package token

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"math/rand"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-course/internal/pkg/chain"
	"solana-course/internal/pkg/chain/chaintest"
	"solana-course/internal/programs/tokenmeta"
)

func newService(t *testing.T) (*Service, *chaintest.Fake, solana.PrivateKey) {
	t.Helper()
	f := chaintest.New()
	payer, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	return NewService(chaintest.NewClient(f)), f, payer
}

func setMint(t *testing.T, f *chaintest.Fake, mint solana.PublicKey, decimals uint8, authority solana.PublicKey) {
	t.Helper()
	data, err := bin.MarshalBin(&token.Mint{
		MintAuthority: &authority,
		Decimals:      decimals,
		IsInitialized: true,
	})
	require.NoError(t, err)
	f.SetAccount(mint, solana.TokenProgramID, data)
}

func tokenAccount(t *testing.T, address, mint, owner solana.PublicKey, amount uint64) *rpc.TokenAccount {
	t.Helper()
	data, err := bin.MarshalBin(&token.Account{
		Mint:   mint,
		Owner:  owner,
		Amount: amount,
	})
	require.NoError(t, err)

	return &rpc.TokenAccount{
		Pubkey:  address,
		Account: rpc.Account{Owner: solana.TokenProgramID, Data: rpc.DataBytesOrJSONFromBytes(data)},
	}
}

func programIDs(tx *solana.Transaction) []solana.PublicKey {
	out := make([]solana.PublicKey, 0, len(tx.Message.Instructions))
	for _, ix := range tx.Message.Instructions {
		out = append(out, tx.Message.AccountKeys[ix.ProgramIDIndex])
	}

	return out
}

func TestCreateMint(t *testing.T) {
	s, f, payer := newService(t)

	mint, sig, err := s.CreateMint(context.Background(), payer, payer.PublicKey(), nil, 2)
	require.NoError(t, err)
	require.False(t, mint.IsZero())

	tx := f.LastSent()
	require.NotNil(t, tx)
	assert.Equal(t, sig, tx.Signatures[0])
	assert.Len(t, tx.Signatures, 2)
	assert.Equal(t, []solana.PublicKey{solana.SystemProgramID, solana.TokenProgramID}, programIDs(tx))
	assert.Contains(t, tx.Message.AccountKeys, mint)
}

func TestMintToScalesByDecimals(t *testing.T) {
	s, f, payer := newService(t)
	mint := solana.NewWallet().PublicKey()
	setMint(t, f, mint, 2, payer.PublicKey())
	dest := solana.NewWallet().PublicKey()

	_, err := s.MintTo(context.Background(), payer, mint, dest, payer, "1.5")
	require.NoError(t, err)

	tx := f.LastSent()
	require.Len(t, tx.Message.Instructions, 1)
	data := tx.Message.Instructions[0].Data
	require.Len(t, data, 9)
	assert.Equal(t, byte(token.Instruction_MintTo), data[0])
	assert.Equal(t, uint64(150), binary.LittleEndian.Uint64(data[1:]))
}

func TestMintToRejectsPrecision(t *testing.T) {
	s, f, payer := newService(t)
	mint := solana.NewWallet().PublicKey()
	setMint(t, f, mint, 2, payer.PublicKey())

	_, err := s.MintTo(context.Background(), payer, mint, solana.NewWallet().PublicKey(), payer, "0.001")
	require.ErrorIs(t, err, chain.ErrInvalidAmount)
	assert.Zero(t, f.SentCount())
}

func TestGetMintErrors(t *testing.T) {
	s, f, _ := newService(t)
	missing := solana.NewWallet().PublicKey()

	_, err := s.GetMint(context.Background(), missing)
	require.ErrorIs(t, err, chain.ErrAccountNotFound)

	foreign := solana.NewWallet().PublicKey()
	f.SetAccount(foreign, solana.SystemProgramID, make([]byte, token.MINT_SIZE))
	_, err = s.GetMint(context.Background(), foreign)
	require.ErrorIs(t, err, ErrNotTokenAccount)
}

func TestTransferAndBurn(t *testing.T) {
	s, f, payer := newService(t)
	mint := solana.NewWallet().PublicKey()
	setMint(t, f, mint, 2, payer.PublicKey())
	src, dst := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()

	_, err := s.Transfer(context.Background(), payer, mint, src, dst, payer, "69")
	require.NoError(t, err)
	data := f.LastSent().Message.Instructions[0].Data
	assert.Equal(t, byte(token.Instruction_Transfer), data[0])
	assert.Equal(t, uint64(6900), binary.LittleEndian.Uint64(data[1:]))

	_, err = s.Burn(context.Background(), payer, mint, src, payer, "25")
	require.NoError(t, err)
	data = f.LastSent().Message.Instructions[0].Data
	assert.Equal(t, byte(token.Instruction_Burn), data[0])
	assert.Equal(t, uint64(2500), binary.LittleEndian.Uint64(data[1:]))
}

func TestGetOrCreateAssociatedAccount(t *testing.T) {
	s, f, payer := newService(t)
	mint := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	ata, created, err := s.GetOrCreateAssociatedAccount(context.Background(), payer, mint, owner)
	require.NoError(t, err)
	require.True(t, created)
	expected, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	assert.Equal(t, expected, ata)
	assert.Equal(t, []solana.PublicKey{solana.SPLAssociatedTokenAccountProgramID}, programIDs(f.LastSent()))

	f.SetAccount(ata, solana.TokenProgramID, make([]byte, 165))
	_, created, err = s.GetOrCreateAssociatedAccount(context.Background(), payer, mint, owner)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, f.SentCount())
}

func TestCreateMintWithMetadata(t *testing.T) {
	s, f, payer := newService(t)
	dest := solana.NewWallet().PublicKey()

	res, err := s.CreateMintWithMetadata(context.Background(), payer, tokenmeta.DataV2{
		Name:   "Course Token",
		Symbol: "CRS",
		Uri:    "https://example.com/token.json",
	}, 2, dest)
	require.NoError(t, err)
	require.Equal(t, 1, f.SentCount())

	tx := f.LastSent()
	assert.Len(t, tx.Signatures, 2)
	assert.Equal(t, []solana.PublicKey{
		solana.SystemProgramID,
		solana.TokenProgramID,
		tokenmeta.ProgramID,
		solana.SPLAssociatedTokenAccountProgramID,
	}, programIDs(tx))

	metadata, err := tokenmeta.FindMetadataAddress(res.Mint)
	require.NoError(t, err)
	assert.Equal(t, metadata, res.Metadata)
	ata, err := AssociatedAddress(dest, res.Mint)
	require.NoError(t, err)
	assert.Equal(t, ata, res.DestinationAccount)
}

func TestCreateNFT(t *testing.T) {
	s, f, payer := newService(t)

	res, err := s.CreateNFT(context.Background(), payer, tokenmeta.DataV2{
		Name:                 "Course NFT",
		Symbol:               "CNFT",
		Uri:                  "https://example.com/nft.json",
		SellerFeeBasisPoints: 500,
	})
	require.NoError(t, err)

	tx := f.LastSent()
	assert.Equal(t, res.Signature, tx.Signatures[0])
	assert.Equal(t, []solana.PublicKey{
		solana.SystemProgramID,
		solana.TokenProgramID,
		solana.SPLAssociatedTokenAccountProgramID,
		solana.TokenProgramID,
		tokenmeta.ProgramID,
		tokenmeta.ProgramID,
	}, programIDs(tx))

	edition, err := tokenmeta.FindMasterEditionAddress(res.Mint)
	require.NoError(t, err)
	assert.Equal(t, edition, res.Edition)

	mintTo := tx.Message.Instructions[3].Data
	assert.Equal(t, uint64(1), binary.LittleEndian.Uint64(mintTo[1:]))
}

func TestCreateNFTSendFailure(t *testing.T) {
	s, f, payer := newService(t)
	f.OnSend = func(*solana.Transaction) error { return errors.New("blockhash expired") }

	_, err := s.CreateNFT(context.Background(), payer, tokenmeta.DataV2{Name: "x", Uri: "https://example.com/x.json"})
	require.ErrorContains(t, err, "blockhash expired")
}

func TestTokenBalances(t *testing.T) {
	s, f, payer := newService(t)
	owner := payer.PublicKey()
	mintA, mintB := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	setMint(t, f, mintA, 2, owner)
	setMint(t, f, mintB, 0, owner)
	accA, accB := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	f.TokenAccounts[owner] = []*rpc.TokenAccount{
		tokenAccount(t, accA, mintA, owner, 7500),
		tokenAccount(t, accB, mintB, owner, 1),
		{Pubkey: solana.NewWallet().PublicKey(), Account: rpc.Account{Data: rpc.DataBytesOrJSONFromBytes([]byte{1, 2})}},
	}

	balances, err := s.TokenBalances(context.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, []TokenBalance{
		{Account: accA.String(), Mint: mintA.String(), Amount: "7500", Decimals: 2, UiAmount: chain.BaseUnitsToUi(7500, 2)},
		{Account: accB.String(), Mint: mintB.String(), Amount: "1", Decimals: 0, UiAmount: chain.BaseUnitsToUi(1, 0)},
	}, balances)
}

func setMetadata(t *testing.T, f *chaintest.Fake, mint solana.PublicKey, name, uri string) solana.PublicKey {
	t.Helper()
	pda, err := tokenmeta.FindMetadataAddress(mint)
	require.NoError(t, err)
	data, err := bin.MarshalBorsh(&tokenmeta.Metadata{
		Key:  tokenmeta.KeyMetadataV1,
		Mint: mint,
		Data: tokenmeta.Data{Name: name + "\x00\x00", Symbol: "NFT", Uri: uri},
	})
	require.NoError(t, err)
	f.SetAccount(pda, tokenmeta.ProgramID, data)

	return pda
}

type fetcher map[string]tokenmeta.OffChainMetadata

func (f fetcher) FetchJSON(_ context.Context, uri string, v any) error {
	meta, ok := f[uri]
	if !ok {
		return errors.New("not found")
	}
	*(v.(*tokenmeta.OffChainMetadata)) = meta

	return nil
}

func TestFindNFTsByOwner(t *testing.T) {
	s, f, payer := newService(t)
	owner := payer.PublicKey()

	nftMint, fungibleMint, bareMint := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	setMint(t, f, nftMint, 0, owner)
	setMint(t, f, fungibleMint, 2, owner)
	setMint(t, f, bareMint, 0, owner)
	pda := setMetadata(t, f, nftMint, "Course NFT", "https://example.com/1.json")
	setMetadata(t, f, fungibleMint, "Course Token", "https://example.com/2.json")

	nftAcc := solana.NewWallet().PublicKey()
	f.TokenAccounts[owner] = []*rpc.TokenAccount{
		tokenAccount(t, nftAcc, nftMint, owner, 1),
		tokenAccount(t, solana.NewWallet().PublicKey(), fungibleMint, owner, 1),
		tokenAccount(t, solana.NewWallet().PublicKey(), bareMint, owner, 1),
		tokenAccount(t, solana.NewWallet().PublicKey(), nftMint, owner, 0),
	}

	nfts, err := s.FindNFTsByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, nfts, 1)
	assert.Equal(t, NFT{
		Mint:         nftMint,
		Metadata:     pda,
		TokenAccount: nftAcc,
		Name:         "Course NFT",
		Symbol:       "NFT",
		Uri:          "https://example.com/1.json",
	}, nfts[0])

	LoadOffChain(context.Background(), fetcher{"https://example.com/1.json": {Name: "Course NFT", Image: "https://example.com/1.png"}}, nfts)
	require.NotNil(t, nfts[0].OffChain)
	assert.Equal(t, "https://example.com/1.png", nfts[0].OffChain.Image)
}

func TestFindNFTsByOwnerEmpty(t *testing.T) {
	s, _, payer := newService(t)

	nfts, err := s.FindNFTsByOwner(context.Background(), payer.PublicKey())
	require.NoError(t, err)
	assert.Empty(t, nfts)
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, Page(items, 1, 0))
	assert.Equal(t, []int{10, 11}, Page(items, 2, 9))
	assert.Equal(t, []int{1, 2}, Page(items, -3, 2))
	assert.Empty(t, Page(items, 3, 9))
	assert.Equal(t, []int{11}, Page(items, 11, 1))
	assert.Empty(t, Page(items, 12, 1))
	assert.Empty(t, Page([]int{}, 1, 9))
}

func TestPageHugeValues(t *testing.T) {
	items := []int{1, 2, 3}

	assert.NotPanics(t, func() {
		assert.Empty(t, Page(items, 1024819115206086202, 9))
		assert.Empty(t, Page(items, math.MaxInt, math.MaxInt))
		assert.Equal(t, items, Page(items, 1, math.MaxInt))
	})
}

func TestSample(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	r := rand.New(rand.NewSource(1))

	got := Sample(items, 3, r)
	assert.Len(t, got, 3)
	assert.Subset(t, items, got)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, items)

	assert.ElementsMatch(t, items, Sample(items, 10, r))
}
