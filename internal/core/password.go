package core

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest input bcrypt hashes without truncation.
const maxPasswordBytes = 72

type PasswordHasher struct {
	cost int

	// dummy is compared against when the user does not exist so that a
	// missing account takes as long to reject as a wrong password.
	dummy []byte
}

func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, err
	}

	return &PasswordHasher{cost, dummy}, nil
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password cannot be empty", ErrInvalid)
	}

	if len(password) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password cannot be longer than %d bytes", ErrInvalid, maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Compare reports whether password matches hash. bcrypt compares the
// derived keys in constant time. Input past maxPasswordBytes never matches
// since bcrypt would ignore the tail.
func (h *PasswordHasher) Compare(hash, password string) bool {
	if len(password) > maxPasswordBytes {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CompareDummy burns one bcrypt comparison and always fails.
func (h *PasswordHasher) CompareDummy(password string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))

	return false
}
