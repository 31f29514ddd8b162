package core

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

type (
	TransactionType string

	Money struct {
		Cents int64
	}

	// User is an account holder. PasswordHash never leaves the backend.
	User struct {
		ID           int64     `json:"id"`
		Name         string    `json:"name"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"-"`
		Currency     string    `json:"currency"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	// PublicUser is the subset of User exposed over the API and cached by clients.
	PublicUser struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email,omitempty"`
		Currency string `json:"currency,omitempty"`
	}

	Transaction struct {
		ID          int64           `json:"id"`
		UserID      int64           `json:"userId"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	// LookupRow is an immutable reference row (transaction types and categories).
	LookupRow struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrShortName        = errors.New("name must be at least 2 characters")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrShortPassword    = errors.New("password must be at least 6 characters")
)

// Valid reports whether t is one of the fixed transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return t.Amount.Validate()
}

// Public strips the credential fields for API responses and client caches.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Currency: u.Currency}
}

// ValidateRegistration checks the registration payload before any hashing
// or persistence happens.
func ValidateRegistration(name, email, password string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return ErrShortName
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	if len(password) < 6 {
		return ErrShortPassword
	}
	return nil
}
