package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"solana-course/internal/pkg/config_types"
	"solana-course/internal/pkg/log"
)

const (
	explorerUrl = "https://explorer.solana.com"

	defaultPollInterval  = 500 * time.Millisecond
	defaultConfirmWithin = 90 * time.Second
)

type (
	Client struct {
		rpc             RPCClient
		commitment      rpc.CommitmentType
		explorerCluster string

		PollInterval  time.Duration
		ConfirmWithin time.Duration
	}

	Balance struct {
		Address    solana.PublicKey `json:"address"`
		Lamports   uint64           `json:"lamports"`
		Sol        string           `json:"sol"`
		Executable bool             `json:"executable"`
	}

	AirdropResult struct {
		Signature *solana.Signature
		Lamports  uint64
	}

	UnsignedTransaction struct {
		Transaction string      `json:"transaction"`
		Blockhash   solana.Hash `json:"blockhash"`
	}
)

func NewClient(r RPCClient, commitment rpc.CommitmentType, explorerCluster string) *Client {
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}

	return &Client{
		rpc:             r,
		commitment:      commitment,
		explorerCluster: explorerCluster,
		PollInterval:    defaultPollInterval,
		ConfirmWithin:   defaultConfirmWithin,
	}
}

func NewClientFromConfig(cfg config_types.ClusterConfig) *Client {
	return NewClient(NewRPC(cfg.RpcUrl, cfg.RpcTimeout), cfg.Commitment.Type(), cfg.ExplorerCluster)
}

func (c *Client) RPC() RPCClient {
	return c.rpc
}

func (c *Client) Commitment() rpc.CommitmentType {
	return c.commitment
}

func (c *Client) Lamports(ctx context.Context, pk solana.PublicKey) (uint64, error) {
	res, err := c.rpc.GetBalance(ctx, pk, c.commitment)
	if err != nil {
		return 0, fmt.Errorf("GetBalance: %s", reformatSolanaRpcError(err))
	}

	return res.Value, nil
}

// Balance reports the SOL balance and whether the account holds a program.
// A missing account is ErrAccountNotFound.
func (c *Client) Balance(ctx context.Context, pk solana.PublicKey) (b Balance, err error) {
	b.Address = pk
	b.Lamports, err = c.Lamports(ctx, pk)
	if err != nil {
		return b, err
	}

	info, err := c.AccountInfo(ctx, pk)
	if err != nil {
		return b, err
	}
	b.Executable = info.Executable
	b.Sol = LamportsToSol(b.Lamports)

	return b, nil
}

func (c *Client) AccountInfo(ctx context.Context, pk solana.PublicKey) (*rpc.Account, error) {
	res, err := c.rpc.GetAccountInfoWithOpts(ctx, pk, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitment,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetAccountInfo: %s", reformatSolanaRpcError(err))
	}

	return res.Value, nil
}

// AccountExists treats any lookup error other than a missing account as fatal.
func (c *Client) AccountExists(ctx context.Context, pk solana.PublicKey) (bool, error) {
	_, err := c.AccountInfo(ctx, pk)
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// AirdropIfRequired requests amount lamports from the faucet when the balance is below minBalance.
func (c *Client) AirdropIfRequired(ctx context.Context, pk solana.PublicKey, amount, minBalance uint64) (res AirdropResult, err error) {
	res.Lamports, err = c.Lamports(ctx, pk)
	if err != nil {
		return res, err
	}
	if res.Lamports >= minBalance {
		return res, nil
	}

	log.Logger.Chain.Infof("Balance of %s is %s SOL, requesting airdrop of %s SOL", pk, LamportsToSol(res.Lamports), LamportsToSol(amount))
	sig, err := c.rpc.RequestAirdrop(ctx, pk, amount, c.commitment)
	if err != nil {
		return res, fmt.Errorf("RequestAirdrop: %s", reformatSolanaRpcError(err))
	}
	err = c.WaitForConfirmation(ctx, sig)
	if err != nil {
		return res, fmt.Errorf("airdrop: %s", err)
	}
	res.Signature = &sig

	res.Lamports, err = c.Lamports(ctx, pk)
	if err != nil {
		return res, err
	}

	return res, nil
}

// NewSignedTransaction wraps instructions into a transaction paid by payer and signs it with payer and signers.
func (c *Client) NewSignedTransaction(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, signers ...solana.PrivateKey) (*solana.Transaction, error) {
	blockhash, err := c.latestBlockhash(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payer.PublicKey()))
	if err != nil {
		return nil, fmt.Errorf("NewTransaction: %s", err)
	}

	keys := append([]solana.PrivateKey{payer}, signers...)
	_, err = tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		for i := range keys {
			if keys[i].PublicKey().Equals(pk) {
				return &keys[i]
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Sign: %s", err)
	}

	return tx, nil
}

// SendAndConfirm signs, submits and waits until the transaction reaches the client commitment.
func (c *Client) SendAndConfirm(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, signers ...solana.PrivateKey) (solana.Signature, error) {
	tx, err := c.NewSignedTransaction(ctx, instructions, payer, signers...)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := c.send(ctx, tx)
	if err != nil {
		return sig, err
	}

	err = c.WaitForConfirmation(ctx, sig)
	if err != nil {
		return sig, err
	}

	return sig, nil
}

// BuildUnsigned returns a base64 transaction for an external wallet to sign.
func (c *Client) BuildUnsigned(ctx context.Context, instructions []solana.Instruction, feePayer solana.PublicKey) (res UnsignedTransaction, err error) {
	res.Blockhash, err = c.latestBlockhash(ctx)
	if err != nil {
		return res, err
	}

	tx, err := solana.NewTransaction(instructions, res.Blockhash, solana.TransactionPayer(feePayer))
	if err != nil {
		return res, fmt.Errorf("NewTransaction: %s", err)
	}
	res.Transaction, err = tx.ToBase64()
	if err != nil {
		return res, fmt.Errorf("ToBase64: %s", err)
	}

	return res, nil
}

// SendRaw submits a transaction already signed by a wallet.
func (c *Client) SendRaw(ctx context.Context, encoded string) (solana.Signature, error) {
	tx, err := solana.TransactionFromBase64(encoded)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: TransactionFromBase64: %s", ErrInvalidTransaction, err)
	}
	err = tx.VerifySignatures()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: VerifySignatures: %s", ErrInvalidTransaction, err)
	}

	return c.send(ctx, tx)
}

// WaitForConfirmation polls the signature status until the client commitment is reached,
// the transaction fails or ConfirmWithin elapses.
func (c *Client) WaitForConfirmation(ctx context.Context, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, c.ConfirmWithin)
	defer cancel()

	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	for {
		res, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			log.Logger.Chain.Debugf("GetSignatureStatuses %s: %s", sig, reformatSolanaRpcError(err))
		} else if res != nil && len(res.Value) > 0 && res.Value[0] != nil {
			status := res.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed: %v", sig, status.Err)
			}
			if c.reached(status.ConfirmationStatus) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("transaction %s not confirmed: %s", sig, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) reached(status rpc.ConfirmationStatusType) bool {
	switch c.commitment {
	case rpc.CommitmentFinalized:
		return status == rpc.ConfirmationStatusFinalized
	case rpc.CommitmentProcessed:
		return status != ""
	default:
		return status == rpc.ConfirmationStatusConfirmed || status == rpc.ConfirmationStatusFinalized
	}
}

func (c *Client) send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return sig, fmt.Errorf("SendTransaction: %s", reformatSolanaRpcError(err))
	}
	log.Logger.Chain.Debugf("Transaction submitted: %s", c.ExplorerTxURL(sig))

	return sig, nil
}

func (c *Client) latestBlockhash(ctx context.Context) (solana.Hash, error) {
	res, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("GetLatestBlockhash: %s", reformatSolanaRpcError(err))
	}
	if res == nil || res.Value == nil {
		return solana.Hash{}, errors.New("GetLatestBlockhash: empty result")
	}

	return res.Value.Blockhash, nil
}

func (c *Client) ExplorerTxURL(sig solana.Signature) string {
	return c.explorerURL("tx", sig.String())
}

func (c *Client) ExplorerAddressURL(pk solana.PublicKey) string {
	return c.explorerURL("address", pk.String())
}

func (c *Client) explorerURL(kind, id string) string {
	if c.explorerCluster == "" || c.explorerCluster == "mainnet-beta" {
		return fmt.Sprintf("%s/%s/%s", explorerUrl, kind, id)
	}

	return fmt.Sprintf("%s/%s/%s?cluster=%s", explorerUrl, kind, id, c.explorerCluster)
}
