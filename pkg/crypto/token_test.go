package crypto

import (
	"encoding/base64"
	"testing"
)

// Requirement: generated identifiers carry 256 bits of entropy and pair with
// their SHA-256 storage hash.
func TestGenerateHashedToken(t *testing.T) {
	pair, err := GenerateHashedToken()
	if err != nil {
		t.Fatalf("GenerateHashedToken() error = %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(pair.Token)
	if err != nil {
		t.Fatalf("token is not URL-safe base64: %v", err)
	}
	if len(raw) != DefaultTokenLength {
		t.Errorf("token length = %d bytes, want %d", len(raw), DefaultTokenLength)
	}

	if pair.Hash != HashToken(pair.Token) {
		t.Error("Hash should be the SHA-256 of Token")
	}
	if pair.Hash == pair.Token {
		t.Error("hash must differ from the raw token")
	}
}

// Requirement: two generated identifiers never collide in practice.
func TestGenerateHashedToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		pair, err := GenerateHashedToken()
		if err != nil {
			t.Fatalf("GenerateHashedToken() error = %v", err)
		}
		if seen[pair.Token] {
			t.Fatal("duplicate token generated")
		}
		seen[pair.Token] = true
	}
}

// Requirement: verification matches only the original identifier.
func TestVerifyToken(t *testing.T) {
	pair, err := GenerateHashedToken()
	if err != nil {
		t.Fatalf("GenerateHashedToken() error = %v", err)
	}

	tests := []struct {
		name    string
		token   string
		hash    string
		want    bool
		wantErr bool
	}{
		{name: "matching pair", token: pair.Token, hash: pair.Hash, want: true},
		{name: "wrong token", token: pair.Token + "x", hash: pair.Hash, want: false},
		{name: "empty token", token: "", hash: pair.Hash, wantErr: true},
		{name: "empty hash", token: pair.Token, hash: "", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := VerifyToken(test.token, test.hash)
			if (err != nil) != test.wantErr {
				t.Fatalf("VerifyToken() error = %v, wantErr %v", err, test.wantErr)
			}
			if err == nil && got != test.want {
				t.Errorf("VerifyToken() = %v, want %v", got, test.want)
			}
		})
	}
}

// Requirement: hashing is deterministic and hex-encoded.
func TestHashToken(t *testing.T) {
	first := HashToken("some-token")
	second := HashToken("some-token")
	if first != second {
		t.Error("HashToken should be deterministic")
	}
	if len(first) != 64 {
		t.Errorf("hash length = %d, want 64 hex characters", len(first))
	}
	if HashToken("other-token") == first {
		t.Error("different tokens should hash differently")
	}
}
