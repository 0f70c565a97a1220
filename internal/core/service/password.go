package service

import "golang.org/x/crypto/bcrypt"

// PasswordHasher turns a plaintext password into its stored form.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// PlainPasswords stores passwords exactly as submitted.
type PlainPasswords struct{}

func (PlainPasswords) Hash(password string) (string, error) {
	return password, nil
}

// BcryptPasswords stores bcrypt hashes. Cost 0 selects bcrypt.DefaultCost.
type BcryptPasswords struct {
	Cost int
}

func (b BcryptPasswords) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NewPasswordHasher selects the hasher configured by PASSWORD_HASHING.
func NewPasswordHasher(hash bool) PasswordHasher {
	if hash {
		return BcryptPasswords{}
	}
	return PlainPasswords{}
}
