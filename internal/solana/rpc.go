package solana

import "context"

// RPCClient defines the Solana RPC HTTP interface used by the trade flow.
type RPCClient interface {
	// SendTransaction submits a signed, base64-encoded transaction and
	// returns its signature.
	SendTransaction(ctx context.Context, txBase64 string) (string, error)

	// GetLatestBlockhash returns the latest blockhash and the last block
	// height at which it is valid.
	GetLatestBlockhash(ctx context.Context) (Blockhash, error)

	// GetSignatureStatuses returns the confirmation status for each
	// signature. A nil entry means the signature is unknown to the cluster.
	GetSignatureStatuses(ctx context.Context, signatures []string) ([]*SignatureStatus, error)

	// GetBlockHeight returns the current block height.
	GetBlockHeight(ctx context.Context) (uint64, error)
}
