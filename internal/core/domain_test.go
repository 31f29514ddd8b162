package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Type:        TypeExpense,
		Category:    "Food & Dining",
		Description: "Lunch",
		Amount:      Money{Cents: 1500},
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"valid", func(tx *Transaction) {}, nil},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"empty description", func(tx *Transaction) { tx.Description = "  " }, ErrEmptyDescription},
		{"empty category", func(tx *Transaction) { tx.Category = "" }, ErrEmptyCategory},
		{"zero amount", func(tx *Transaction) { tx.Amount.Cents = 0 }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount.Cents = -100 }, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("description too long", func(t *testing.T) {
		tx := valid
		tx.Description = strings.Repeat("x", 201)
		if err := tx.Validate(); err == nil {
			t.Error("Validate() = nil, want error for 201-char description")
		}
	})
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "Ada", "ada@example.com", "secret1", nil},
		{"short name", "A", "ada@example.com", "secret1", ErrShortName},
		{"bad email", "Ada", "not-an-email", "secret1", ErrInvalidEmail},
		{"short password", "Ada", "ada@example.com", "12345", ErrShortPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.userName, tt.email, tt.password)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRegistration() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRegistration() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	u := User{
		ID:           1,
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$secret",
		Currency:     "USD",
		CreatedAt:    time.Now(),
	}

	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "secret") {
		t.Errorf("serialized user leaks password hash: %s", out)
	}
}

func TestUserPublic(t *testing.T) {
	u := User{ID: 7, Name: "Ada", Email: "ada@example.com", PasswordHash: "h", Currency: "EUR"}
	p := u.Public()
	want := PublicUser{ID: 7, Name: "Ada", Email: "ada@example.com", Currency: "EUR"}
	if p != want {
		t.Errorf("Public() = %+v, want %+v", p, want)
	}
}
