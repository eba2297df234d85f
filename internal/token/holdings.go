package token

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"solana-course/internal/pkg/chain"
	"solana-course/internal/pkg/log"
	"solana-course/internal/programs/tokenmeta"
)

// getMultipleAccounts accepts at most this many keys per call.
const multipleAccountsLimit = 100

type (
	TokenBalance struct {
		Account  string `json:"account" csv:"account"`
		Mint     string `json:"mint" csv:"mint"`
		Amount   string `json:"amount" csv:"amount"`
		Decimals uint8  `json:"decimals" csv:"decimals"`
		UiAmount string `json:"ui_amount" csv:"ui_amount"`
	}

	NFT struct {
		Mint         solana.PublicKey            `json:"mint"`
		Metadata     solana.PublicKey            `json:"metadata"`
		TokenAccount solana.PublicKey            `json:"token_account"`
		Name         string                      `json:"name"`
		Symbol       string                      `json:"symbol"`
		Uri          string                      `json:"uri"`
		OffChain     *tokenmeta.OffChainMetadata `json:"off_chain,omitempty"`
	}

	// MetadataFetcher loads the off-chain JSON an NFT uri points to.
	MetadataFetcher interface {
		FetchJSON(ctx context.Context, uri string, v any) error
	}

	holding struct {
		address solana.PublicKey
		account token.Account
	}
)

func (s *Service) holdings(ctx context.Context, owner solana.PublicKey) ([]holding, error) {
	res, err := s.client.RPC().GetTokenAccountsByOwner(ctx, owner,
		&rpc.GetTokenAccountsConfig{ProgramId: &solana.TokenProgramID},
		&rpc.GetTokenAccountsOpts{Commitment: s.client.Commitment(), Encoding: solana.EncodingBase64},
	)
	if err != nil {
		return nil, fmt.Errorf("GetTokenAccountsByOwner: %s", err)
	}

	out := make([]holding, 0, len(res.Value))
	for _, ta := range res.Value {
		if ta == nil || ta.Account.Data == nil {
			continue
		}
		acc, err := decodeTokenAccount(ta.Account.Data.GetBinary())
		if err != nil {
			log.Logger.Chain.Debugf("skip token account %s: %s", ta.Pubkey, err)
			continue
		}
		out = append(out, holding{address: ta.Pubkey, account: acc})
	}

	return out, nil
}

// getMultipleAccounts keeps the order of keys, missing accounts are nil.
func (s *Service) getMultipleAccounts(ctx context.Context, keys []solana.PublicKey) ([]*rpc.Account, error) {
	out := make([]*rpc.Account, 0, len(keys))
	for _, chunk := range solana.PublicKeySlice(keys).Split(multipleAccountsLimit) {
		res, err := s.client.RPC().GetMultipleAccountsWithOpts(ctx, chunk, &rpc.GetMultipleAccountsOpts{
			Commitment: s.client.Commitment(),
			Encoding:   solana.EncodingBase64,
		})
		if err != nil {
			return nil, fmt.Errorf("GetMultipleAccounts: %s", err)
		}
		if len(res.Value) != len(chunk) {
			return nil, fmt.Errorf("GetMultipleAccounts: got %d accounts for %d keys", len(res.Value), len(chunk))
		}
		out = append(out, res.Value...)
	}

	return out, nil
}

// TokenBalances lists every token account of owner with the amount scaled by its mint decimals.
func (s *Service) TokenBalances(ctx context.Context, owner solana.PublicKey) ([]TokenBalance, error) {
	hs, err := s.holdings(ctx, owner)
	if err != nil {
		return nil, err
	}

	mints := make([]solana.PublicKey, 0, len(hs))
	seen := make(map[solana.PublicKey]int, len(hs))
	for _, h := range hs {
		if _, ok := seen[h.account.Mint]; ok {
			continue
		}
		seen[h.account.Mint] = len(mints)
		mints = append(mints, h.account.Mint)
	}

	accounts, err := s.getMultipleAccounts(ctx, mints)
	if err != nil {
		return nil, err
	}
	decimals := make([]uint8, len(mints))
	for i, acc := range accounts {
		if acc == nil || acc.Data == nil {
			continue
		}
		m, err := decodeMint(acc.Data.GetBinary())
		if err != nil {
			log.Logger.Chain.Debugf("mint %s: %s", mints[i], err)
			continue
		}
		decimals[i] = m.Decimals
	}

	out := make([]TokenBalance, 0, len(hs))
	for _, h := range hs {
		d := decimals[seen[h.account.Mint]]
		out = append(out, TokenBalance{
			Account:  h.address.String(),
			Mint:     h.account.Mint.String(),
			Amount:   fmt.Sprint(h.account.Amount),
			Decimals: d,
			UiAmount: chain.BaseUnitsToUi(h.account.Amount, d),
		})
	}

	return out, nil
}

// FindNFTsByOwner returns holdings of exactly one token whose mint has a metadata account.
func (s *Service) FindNFTsByOwner(ctx context.Context, owner solana.PublicKey) ([]NFT, error) {
	hs, err := s.holdings(ctx, owner)
	if err != nil {
		return nil, err
	}

	candidates := make([]holding, 0, len(hs))
	for _, h := range hs {
		if h.account.Amount == 1 {
			candidates = append(candidates, h)
		}
	}
	if len(candidates) == 0 {
		return []NFT{}, nil
	}

	keys := make([]solana.PublicKey, 0, 2*len(candidates))
	for _, h := range candidates {
		pda, err := tokenmeta.FindMetadataAddress(h.account.Mint)
		if err != nil {
			return nil, fmt.Errorf("FindMetadataAddress: %s", err)
		}
		keys = append(keys, h.account.Mint, pda)
	}

	accounts, err := s.getMultipleAccounts(ctx, keys)
	if err != nil {
		return nil, err
	}

	out := make([]NFT, 0, len(candidates))
	for i, h := range candidates {
		mintAcc, metaAcc := accounts[2*i], accounts[2*i+1]
		if mintAcc == nil || metaAcc == nil || mintAcc.Data == nil || metaAcc.Data == nil {
			continue
		}
		m, err := decodeMint(mintAcc.Data.GetBinary())
		if err != nil || m.Decimals != 0 {
			continue
		}
		meta, err := tokenmeta.DecodeMetadata(metaAcc.Data.GetBinary())
		if err != nil {
			log.Logger.Chain.Debugf("metadata of %s: %s", h.account.Mint, err)
			continue
		}
		out = append(out, NFT{
			Mint:         h.account.Mint,
			Metadata:     keys[2*i+1],
			TokenAccount: h.address,
			Name:         meta.Data.Name,
			Symbol:       meta.Data.Symbol,
			Uri:          meta.Data.Uri,
		})
	}

	return out, nil
}

// LoadOffChain fills OffChain for every NFT with a uri. Failed fetches are logged and left empty.
func LoadOffChain(ctx context.Context, fetcher MetadataFetcher, nfts []NFT) {
	for i := range nfts {
		if nfts[i].Uri == "" {
			continue
		}
		var meta tokenmeta.OffChainMetadata
		err := fetcher.FetchJSON(ctx, nfts[i].Uri, &meta)
		if err != nil {
			log.Logger.Chain.Warnf("off-chain metadata of %s: %s", nfts[i].Mint, err)
			continue
		}
		nfts[i].OffChain = &meta
	}
}
