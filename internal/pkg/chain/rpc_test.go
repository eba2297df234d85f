package chain

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/require"
)

func TestReformatSolanaRpcError(t *testing.T) {
	require.NoError(t, reformatSolanaRpcError(nil))

	plain := errors.New("dial tcp: refused")
	require.Equal(t, plain, reformatSolanaRpcError(plain))

	err := reformatSolanaRpcError(&jsonrpc.RPCError{Code: -32002, Message: "Transaction simulation failed"})
	require.EqualError(t, err, "rpcErr: code -32002 Transaction simulation failed")
}
