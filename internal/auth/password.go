package auth

import (
	"errors"
	"sync"
	"unicode/utf8"

	apperrors "tenant-portal-backend/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum number of characters a password must have
const MinPasswordLength = 8

// PasswordHasher hashes and verifies passwords with bcrypt
type PasswordHasher struct {
	cost int

	decoyOnce sync.Once
	decoy     []byte
}

// NewPasswordHasher creates a hasher; a cost outside bcrypt's range falls back to bcrypt.DefaultCost
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// CheckPolicy enforces the minimum length policy
func CheckPolicy(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return apperrors.ErrWeakPassword
	}
	return nil
}

// Hash checks the policy and returns the bcrypt hash of password
func (h *PasswordHasher) Hash(password string) (string, error) {
	if err := CheckPolicy(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyDecoy spends the same bcrypt work as Verify against a throwaway hash at the
// hasher's cost. Unknown-user lookups call it so they take as long as a wrong password.
func (h *PasswordHasher) VerifyDecoy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.decoyHash(), []byte(password))
}

func (h *PasswordHasher) decoyHash() []byte {
	h.decoyOnce.Do(func() {
		h.decoy, _ = bcrypt.GenerateFromPassword([]byte("decoy-password-hash"), h.cost)
	})
	return h.decoy
}

// Verify compares a plaintext password with a stored hash
func (h *PasswordHasher) Verify(hash, password string) error {
	if hash == "" {
		return errors.New("password hash is empty")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return err
	}
	return nil
}
