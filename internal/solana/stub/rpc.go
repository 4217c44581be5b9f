package stub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"solana-token-desk/internal/solana"
)

// ErrSendFailed is returned by RPCClient.SendTransaction when configured
// to fail.
var ErrSendFailed = errors.New("send failed")

// RPCClient implements solana.RPCClient for testing.
type RPCClient struct {
	mu sync.Mutex

	// Signature is returned by SendTransaction.
	Signature string
	// FailSend makes SendTransaction return ErrSendFailed.
	FailSend bool
	// Blockhash is returned by GetLatestBlockhash.
	Blockhash solana.Blockhash
	// BlockHeight is returned by GetBlockHeight and incremented by
	// HeightStep on each call.
	BlockHeight uint64
	HeightStep  uint64
	// Statuses maps signature to the status returned by
	// GetSignatureStatuses. StatusAfterPolls delays the status for that
	// many polls, simulating confirmation latency.
	Statuses         map[string]*solana.SignatureStatus
	StatusAfterPolls int

	// Sent records every transaction passed to SendTransaction.
	Sent  []string
	polls int
}

// NewRPCClient creates a stub with a valid blockhash and signature.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Signature: "StubSignature1111111111111111111111111111111111111111111111111111111111111111111111111",
		Blockhash: solana.Blockhash{
			Blockhash:            "StubBlockhash111111111111111111111111111111",
			LastValidBlockHeight: 1000,
		},
		BlockHeight: 100,
		Statuses:    make(map[string]*solana.SignatureStatus),
	}
}

// SendTransaction records the transaction and returns the configured
// signature.
func (c *RPCClient) SendTransaction(_ context.Context, txBase64 string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailSend {
		return "", ErrSendFailed
	}
	if txBase64 == "" {
		return "", fmt.Errorf("transaction is required")
	}
	c.Sent = append(c.Sent, txBase64)
	return c.Signature, nil
}

// GetLatestBlockhash returns the configured blockhash.
func (c *RPCClient) GetLatestBlockhash(_ context.Context) (solana.Blockhash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Blockhash, nil
}

// GetSignatureStatuses returns configured statuses, delayed by
// StatusAfterPolls.
func (c *RPCClient) GetSignatureStatuses(_ context.Context, signatures []string) ([]*solana.SignatureStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.polls++
	statuses := make([]*solana.SignatureStatus, len(signatures))
	if c.polls <= c.StatusAfterPolls {
		return statuses, nil
	}
	for i, sig := range signatures {
		statuses[i] = c.Statuses[sig]
	}
	return statuses, nil
}

// GetBlockHeight returns the configured height, advancing it by HeightStep.
func (c *RPCClient) GetBlockHeight(_ context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := c.BlockHeight
	c.BlockHeight += c.HeightStep
	return h, nil
}

// Confirm registers a confirmed status for a signature.
func (c *RPCClient) Confirm(signature string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Statuses[signature] = &solana.SignatureStatus{
		ConfirmationStatus: "confirmed",
	}
}

// Fail registers a failed status for a signature.
func (c *RPCClient) Fail(signature string, txErr interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Statuses[signature] = &solana.SignatureStatus{
		ConfirmationStatus: "confirmed",
		Err:                txErr,
	}
}
