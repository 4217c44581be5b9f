package solana

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ValidatePubkey checks that s is a well-formed Solana wallet address:
// base58, 32 bytes, and a point on the ed25519 curve. Program-derived
// addresses are off-curve and rejected here on purpose, since only wallet
// keys can sign orders.
func ValidatePubkey(s string) error {
	if s == "" {
		return fmt.Errorf("pubkey is empty")
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("pubkey is not base58: %w", err)
	}
	if len(decoded) != 32 {
		return fmt.Errorf("pubkey is %d bytes, want 32", len(decoded))
	}
	if !isOnCurve(decoded) {
		return fmt.Errorf("pubkey is not on the ed25519 curve")
	}
	return nil
}

// ValidateSignature checks that s is a well-formed transaction signature:
// base58 and 64 bytes.
func ValidateSignature(s string) error {
	if s == "" {
		return fmt.Errorf("signature is empty")
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("signature is not base58: %w", err)
	}
	if len(decoded) != 64 {
		return fmt.Errorf("signature is %d bytes, want 64", len(decoded))
	}
	return nil
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
