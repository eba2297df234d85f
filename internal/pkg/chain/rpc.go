package chain

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/klauspost/compress/gzhttp"
)

var (
	defaultMaxIdleConnsPerHost = 4
	defaultTimeout             = 10 * time.Second
	defaultKeepAlive           = 100 * time.Second
)

// RPCClient is the part of *rpc.Client used across the repo.
type RPCClient interface {
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
	GetMultipleAccountsWithOpts(ctx context.Context, accounts []solana.PublicKey, opts *rpc.GetMultipleAccountsOpts) (*rpc.GetMultipleAccountsResult, error)
	GetProgramAccountsWithOpts(ctx context.Context, program solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error)
	GetTokenAccountsByOwner(ctx context.Context, owner solana.PublicKey, conf *rpc.GetTokenAccountsConfig, opts *rpc.GetTokenAccountsOpts) (*rpc.GetTokenAccountsResult, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64, commitment rpc.CommitmentType) (uint64, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	RequestAirdrop(ctx context.Context, account solana.PublicKey, lamports uint64, commitment rpc.CommitmentType) (solana.Signature, error)
	SendTransactionWithOpts(ctx context.Context, transaction *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
}

var _ RPCClient = (*rpc.Client)(nil)

func newHTTPTransport(timeout time.Duration) *http.Transport {
	return &http.Transport{
		IdleConnTimeout:     timeout,
		MaxConnsPerHost:     defaultMaxIdleConnsPerHost,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		Proxy:               http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: defaultKeepAlive,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		TLSHandshakeTimeout: timeout,
	}
}

// NewRPC creates a cluster client with a gzip aware transport. Zero timeout means defaultTimeout.
func NewRPC(url string, timeout time.Duration) *rpc.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	jsonrpcClient := jsonrpc.NewClientWithOpts(url, &jsonrpc.RPCClientOpts{HTTPClient: &http.Client{
		Timeout:   timeout,
		Transport: gzhttp.Transport(newHTTPTransport(timeout)),
	}})

	return rpc.NewWithCustomRPCClient(jsonrpcClient)
}

func reformatSolanaRpcError(err error) error {
	if err == nil {
		return nil
	}
	rpcErr, ok := err.(*jsonrpc.RPCError)
	if !ok {
		return err
	}

	return fmt.Errorf("rpcErr: code %d %s", rpcErr.Code, rpcErr.Message)
}
