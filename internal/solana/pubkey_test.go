package solana

import "testing"

func TestValidatePubkey(t *testing.T) {
	// System program: on-curve, 32 bytes of zeros
	if err := ValidatePubkey("11111111111111111111111111111111"); err != nil {
		t.Errorf("system program should validate: %v", err)
	}

	// Wrapped SOL mint
	if err := ValidatePubkey("So11111111111111111111111111111111111111112"); err != nil {
		t.Errorf("wSOL mint should validate: %v", err)
	}

	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not base58", "not-a-pubkey!!"},
		{"too short", "abc"},
		{"wrong length", "1111111111111111111111111111111111111111111111111111111111111111"},
	}
	for _, tc := range cases {
		if err := ValidatePubkey(tc.input); err == nil {
			t.Errorf("%s: expected error for %q", tc.name, tc.input)
		}
	}
}

func TestValidateSignature(t *testing.T) {
	// 64 bytes of zeros in base58
	valid := "1111111111111111111111111111111111111111111111111111111111111111"
	if err := ValidateSignature(valid); err != nil {
		t.Errorf("64-byte signature should validate: %v", err)
	}

	if err := ValidateSignature(""); err == nil {
		t.Error("expected error for empty signature")
	}
	if err := ValidateSignature("So11111111111111111111111111111111111111112"); err == nil {
		t.Error("expected error for 32-byte value")
	}
	if err := ValidateSignature("!!!"); err == nil {
		t.Error("expected error for non-base58 value")
	}
}
