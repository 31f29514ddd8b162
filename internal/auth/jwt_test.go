package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewTokenManager("test-secret-key", time.Hour)

	token, err := m.Generate(42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if token == "" {
		t.Fatal("Generate returned empty token")
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret-key", -time.Hour)

	token, err := m.Generate(42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	_, err = m.Validate(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate expired token: err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-one", time.Hour)
	verifier := NewTokenManager("secret-two", time.Hour)

	token, err := issuer.Generate(42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := verifier.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate with wrong secret: err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	m := NewTokenManager("test-secret-key", time.Hour)
	for _, in := range []string{"", "not.a.token", "a.b"} {
		if _, err := m.Validate(in); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate(%q): err = %v, want ErrInvalidToken", in, err)
		}
	}
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"valid", "Bearer abc123", "abc123", nil},
		{"missing header", "", "", ErrMissingToken},
		{"wrong scheme", "Basic abc123", "", ErrInvalidToken},
		{"no token", "Bearer", "", ErrInvalidToken},
		{"too many parts", "Bearer a b", "", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearer(tt.header)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseBearer(%q): err = %v, want %v", tt.header, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBearer(%q): %v", tt.header, err)
			}
			if got != tt.want {
				t.Errorf("ParseBearer(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
