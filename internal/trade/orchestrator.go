// Package trade runs a prediction-market order attempt through its full
// lifecycle: create the order upstream, have the wallet sign the returned
// transaction, broadcast it, and wait for confirmation.
package trade

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"solana-token-desk/internal/domain"
	"solana-token-desk/internal/observability"
	"solana-token-desk/internal/solana"
)

// State is one step of a trade attempt. Transitions are linear with no
// loopback; a failed attempt requires a fresh Execute call.
type State string

const (
	StateIdle              State = "idle"
	StateCreatingOrder     State = "creating-order"
	StateAwaitingSignature State = "awaiting-signature"
	StateSubmitting        State = "submitting"
	StateConfirming        State = "confirming"
	StateSuccess           State = "success"
	StateFailed            State = "failed"
)

// ErrAttemptInFlight is returned when Execute is called while a previous
// attempt is still running.
var ErrAttemptInFlight = errors.New("trade attempt already in flight")

// OrderCreator creates an order upstream and returns the unsigned
// transaction. Satisfied by predictions.Client.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req domain.PMOrderRequest) (domain.PMOrder, error)
}

// Signer signs a serialized transaction. Satisfied by the browser wallet
// bridge in production and by fakes in tests.
type Signer interface {
	Sign(ctx context.Context, tx []byte) ([]byte, error)
}

// Result is the outcome of a successful attempt.
type Result struct {
	Signature string
	Order     domain.PMOrder
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWSClient enables WebSocket-based confirmation instead of polling.
func WithWSClient(ws solana.WSClient) Option {
	return func(o *Orchestrator) {
		o.ws = ws
	}
}

// WithPollInterval sets the status poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.pollInterval = d
	}
}

// WithConfirmTimeout sets the hard deadline for confirmation.
func WithConfirmTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.confirmTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator drives one trade attempt at a time.
type Orchestrator struct {
	orders OrderCreator
	rpc    solana.RPCClient
	signer Signer
	ws     solana.WSClient

	pollInterval   time.Duration
	confirmTimeout time.Duration
	logger         *zap.Logger

	mu    sync.Mutex
	state State
	busy  bool
}

// NewOrchestrator builds an orchestrator in the idle state.
func NewOrchestrator(orders OrderCreator, rpc solana.RPCClient, signer Signer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		orders:         orders,
		rpc:            rpc,
		signer:         signer,
		pollInterval:   2 * time.Second,
		confirmTimeout: 90 * time.Second,
		logger:         zap.NewNop(),
		state:          StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the state of the current or last attempt.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
	o.logger.Debug("trade state", zap.String("state", string(s)))
}

// Execute runs one attempt end to end. A zero contract count never starts
// an attempt or touches the network. Only one attempt may be in flight.
func (o *Orchestrator) Execute(ctx context.Context, req domain.PMOrderRequest) (Result, error) {
	if req.Contracts <= 0 {
		return Result{}, fmt.Errorf("contract count must be positive")
	}
	if err := solana.ValidatePubkey(req.OwnerPubkey); err != nil {
		return Result{}, fmt.Errorf("owner pubkey: %w", err)
	}
	if req.MarketID == "" {
		return Result{}, fmt.Errorf("market id is required")
	}

	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return Result{}, ErrAttemptInFlight
	}
	o.busy = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.busy = false
		o.mu.Unlock()
	}()

	res, err := o.run(ctx, req)
	if err != nil {
		o.setState(StateFailed)
		observability.RecordTradeAttempt(string(StateFailed))
		return Result{}, err
	}
	o.setState(StateSuccess)
	observability.RecordTradeAttempt(string(StateSuccess))
	return res, nil
}

// SubmitSigned broadcasts an externally signed transaction and waits for
// confirmation. This covers the browser-wallet flow, where order creation
// and signing happen client-side and the server only sees the signed blob.
func (o *Orchestrator) SubmitSigned(ctx context.Context, signedTxBase64 string, meta *domain.TxMeta) (string, error) {
	if signedTxBase64 == "" {
		return "", fmt.Errorf("signed transaction is required")
	}
	if _, err := base64.StdEncoding.DecodeString(signedTxBase64); err != nil {
		return "", fmt.Errorf("decode transaction: %w", err)
	}

	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return "", ErrAttemptInFlight
	}
	o.busy = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.busy = false
		o.mu.Unlock()
	}()

	o.setState(StateSubmitting)
	signature, err := o.rpc.SendTransaction(ctx, signedTxBase64)
	if err != nil {
		o.setState(StateFailed)
		observability.RecordTradeAttempt(string(StateFailed))
		return "", fmt.Errorf("send transaction: %w", err)
	}

	o.setState(StateConfirming)
	if err := o.confirm(ctx, signature, meta); err != nil {
		o.setState(StateFailed)
		observability.RecordTradeAttempt(string(StateFailed))
		return "", err
	}

	o.setState(StateSuccess)
	observability.RecordTradeAttempt(string(StateSuccess))
	return signature, nil
}

func (o *Orchestrator) run(ctx context.Context, req domain.PMOrderRequest) (Result, error) {
	o.setState(StateCreatingOrder)
	order, err := o.orders.CreateOrder(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("create order: %w", err)
	}
	if order.Transaction == "" {
		return Result{}, fmt.Errorf("order response carried no transaction")
	}

	o.setState(StateAwaitingSignature)
	raw, err := base64.StdEncoding.DecodeString(order.Transaction)
	if err != nil {
		return Result{}, fmt.Errorf("decode transaction: %w", err)
	}
	if o.signer == nil {
		return Result{}, fmt.Errorf("no signer configured")
	}
	signed, err := o.signer.Sign(ctx, raw)
	if err != nil {
		return Result{}, fmt.Errorf("sign transaction: %w", err)
	}

	o.setState(StateSubmitting)
	signature, err := o.rpc.SendTransaction(ctx, base64.StdEncoding.EncodeToString(signed))
	if err != nil {
		return Result{}, fmt.Errorf("send transaction: %w", err)
	}

	o.setState(StateConfirming)
	if err := o.confirm(ctx, signature, order.TxMeta); err != nil {
		return Result{}, err
	}

	o.logger.Info("trade confirmed",
		zap.String("signature", signature),
		zap.String("market", req.MarketID))

	return Result{Signature: signature, Order: order}, nil
}

// confirm waits for the signature to reach confirmed commitment, bounded
// by blockhash expiry and a hard deadline.
func (o *Orchestrator) confirm(ctx context.Context, signature string, meta *domain.TxMeta) error {
	ctx, cancel := context.WithTimeout(ctx, o.confirmTimeout)
	defer cancel()

	if o.ws != nil {
		if err := o.confirmViaWS(ctx, signature, meta); !errors.Is(err, errWSUnavailable) {
			return err
		}
		// Fall through to polling when the subscription could not be set up
	}
	return o.confirmViaPolling(ctx, signature, meta)
}

var errWSUnavailable = errors.New("ws subscription unavailable")

func (o *Orchestrator) confirmViaWS(ctx context.Context, signature string, meta *domain.TxMeta) error {
	ch, err := o.ws.SubscribeSignature(ctx, signature)
	if err != nil {
		o.logger.Warn("signature subscribe failed, falling back to polling", zap.Error(err))
		return errWSUnavailable
	}

	expiry := time.NewTicker(o.pollInterval)
	defer expiry.Stop()

	for {
		select {
		case notif, ok := <-ch:
			if !ok {
				return errWSUnavailable
			}
			if notif.Err != nil {
				return fmt.Errorf("transaction failed on chain: %v", notif.Err)
			}
			return nil
		case <-expiry.C:
			if expired, err := o.blockhashExpired(ctx, meta); err == nil && expired {
				return fmt.Errorf("blockhash expired before confirmation")
			}
		case <-ctx.Done():
			return fmt.Errorf("confirmation timed out: %w", ctx.Err())
		}
	}
}

func (o *Orchestrator) confirmViaPolling(ctx context.Context, signature string, meta *domain.TxMeta) error {
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for {
		statuses, err := o.rpc.GetSignatureStatuses(ctx, []string{signature})
		if err == nil && len(statuses) == 1 && statuses[0] != nil {
			status := statuses[0]
			if status.Failed() {
				return fmt.Errorf("transaction failed on chain: %v", status.Err)
			}
			if status.Confirmed() {
				return nil
			}
		}

		if expired, err := o.blockhashExpired(ctx, meta); err == nil && expired {
			return fmt.Errorf("blockhash expired before confirmation")
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return fmt.Errorf("confirmation timed out: %w", ctx.Err())
		}
	}
}

func (o *Orchestrator) blockhashExpired(ctx context.Context, meta *domain.TxMeta) (bool, error) {
	if meta == nil || meta.LastValidBlockHeight == 0 {
		return false, nil
	}
	height, err := o.rpc.GetBlockHeight(ctx)
	if err != nil {
		return false, err
	}
	return height > meta.LastValidBlockHeight, nil
}
