// Package chaintest provides an in-memory cluster for tests.
package chaintest

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"solana-course/internal/pkg/chain"
)

type Airdrop struct {
	Account  solana.PublicKey
	Lamports uint64
}

// Fake answers RPC calls from its maps. Missing balances are zero, missing accounts are rpc.ErrNotFound.
type Fake struct {
	mu sync.Mutex

	Balances        map[solana.PublicKey]uint64
	Accounts        map[solana.PublicKey]*rpc.Account
	ProgramAccounts map[solana.PublicKey]rpc.GetProgramAccountsResult
	TokenAccounts   map[solana.PublicKey][]*rpc.TokenAccount
	Statuses        map[solana.Signature]*rpc.SignatureStatusesResult
	Blockhash       solana.Hash
	RentExemption   uint64

	Sent     []*solana.Transaction
	Airdrops []Airdrop

	// Err is returned by every call when set.
	Err error
	// OnSend runs for every submitted transaction before it is recorded.
	OnSend func(tx *solana.Transaction) error

	counter uint64
}

var _ chain.RPCClient = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		Balances:        map[solana.PublicKey]uint64{},
		Accounts:        map[solana.PublicKey]*rpc.Account{},
		ProgramAccounts: map[solana.PublicKey]rpc.GetProgramAccountsResult{},
		TokenAccounts:   map[solana.PublicKey][]*rpc.TokenAccount{},
		Statuses:        map[solana.Signature]*rpc.SignatureStatusesResult{},
		Blockhash:       solana.HashFromBytes([]byte("fake-blockhash-fake-blockhash-32")),
		RentExemption:   1_461_600,
	}
}

// NewClient wraps f into a chain.Client which polls without delay.
func NewClient(f *Fake) *chain.Client {
	c := chain.NewClient(f, rpc.CommitmentConfirmed, "devnet")
	c.PollInterval = time.Millisecond
	c.ConfirmWithin = time.Second

	return c
}

func (f *Fake) SetAccount(pk, owner solana.PublicKey, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Accounts[pk] = &rpc.Account{
		Lamports: f.RentExemption,
		Owner:    owner,
		Data:     rpc.DataBytesOrJSONFromBytes(data),
	}
}

func (f *Fake) SentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.Sent)
}

func (f *Fake) LastSent() *solana.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.Sent) == 0 {
		return nil
	}
	return f.Sent[len(f.Sent)-1]
}

func (f *Fake) GetBalance(_ context.Context, account solana.PublicKey, _ rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	v, ok := f.Balances[account]
	if !ok && f.Accounts[account] != nil {
		v = f.Accounts[account].Lamports
	}

	return &rpc.GetBalanceResult{Value: v}, nil
}

func (f *Fake) GetAccountInfoWithOpts(_ context.Context, account solana.PublicKey, _ *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	acc, ok := f.Accounts[account]
	if !ok {
		return nil, rpc.ErrNotFound
	}

	return &rpc.GetAccountInfoResult{Value: acc}, nil
}

func (f *Fake) GetMultipleAccountsWithOpts(_ context.Context, accounts []solana.PublicKey, _ *rpc.GetMultipleAccountsOpts) (*rpc.GetMultipleAccountsResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	res := &rpc.GetMultipleAccountsResult{Value: make([]*rpc.Account, len(accounts))}
	for i, pk := range accounts {
		res.Value[i] = f.Accounts[pk]
	}

	return res, nil
}

func (f *Fake) GetProgramAccountsWithOpts(_ context.Context, program solana.PublicKey, _ *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	return f.ProgramAccounts[program], nil
}

func (f *Fake) GetTokenAccountsByOwner(_ context.Context, owner solana.PublicKey, _ *rpc.GetTokenAccountsConfig, _ *rpc.GetTokenAccountsOpts) (*rpc.GetTokenAccountsResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	return &rpc.GetTokenAccountsResult{Value: f.TokenAccounts[owner]}, nil
}

func (f *Fake) GetMinimumBalanceForRentExemption(_ context.Context, _ uint64, _ rpc.CommitmentType) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}

	return f.RentExemption, nil
}

func (f *Fake) GetLatestBlockhash(_ context.Context, _ rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	return &rpc.GetLatestBlockhashResult{Value: &rpc.LatestBlockhashResult{Blockhash: f.Blockhash, LastValidBlockHeight: 100}}, nil
}

// GetSignatureStatuses reports every signature as confirmed unless Statuses says otherwise.
func (f *Fake) GetSignatureStatuses(_ context.Context, _ bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	res := &rpc.GetSignatureStatusesResult{Value: make([]*rpc.SignatureStatusesResult, len(sigs))}
	for i, sig := range sigs {
		if st, ok := f.Statuses[sig]; ok {
			res.Value[i] = st
			continue
		}
		res.Value[i] = &rpc.SignatureStatusesResult{ConfirmationStatus: rpc.ConfirmationStatusConfirmed}
	}

	return res, nil
}

func (f *Fake) RequestAirdrop(_ context.Context, account solana.PublicKey, lamports uint64, _ rpc.CommitmentType) (solana.Signature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return solana.Signature{}, f.Err
	}

	f.Balances[account] += lamports
	f.Airdrops = append(f.Airdrops, Airdrop{Account: account, Lamports: lamports})

	return f.nextSignature(), nil
}

func (f *Fake) SendTransactionWithOpts(_ context.Context, tx *solana.Transaction, _ rpc.TransactionOpts) (solana.Signature, error) {
	if f.OnSend != nil {
		if err := f.OnSend(tx); err != nil {
			return solana.Signature{}, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return solana.Signature{}, f.Err
	}

	f.Sent = append(f.Sent, tx)
	if len(tx.Signatures) > 0 {
		return tx.Signatures[0], nil
	}

	return f.nextSignature(), nil
}

func (f *Fake) nextSignature() (sig solana.Signature) {
	f.counter++
	binary.LittleEndian.PutUint64(sig[:8], f.counter)

	return sig
}
