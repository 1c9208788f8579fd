package account

import (
	"context"
	"errors"
)

// Account is the stored identity record. Usernames are opaque, case-sensitive
// UTF-8 strings compared byte for byte, never trimmed or normalized.
type Account struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// Profile is what a successful authentication returns, never the hash
type Profile struct {
	Username string
	Email    string
}

const MaxUsernameLength = 250

var ErrStoreUnavailable = errors.New("account store unavailable")
var ErrUsernameTaken = errors.New("that username is taken already")
var ErrHashingFailed = errors.New("password hashing failed")
var ErrStoreWriteFailed = errors.New("failed to store new account")
var ErrAuthFailed = errors.New("no matching account found")
var ErrInvalidUsername = errors.New("invalid username")
var ErrInvalidEmail = errors.New("invalid email")
var ErrPasswordTooShort = errors.New("password is too short")

// ErrUsernameNotUnique is returned by Repository.Add when the key already exists
var ErrUsernameNotUnique = errors.New("account with this username already exists")

type Service interface {
	// Lookup returns the stored account, found is false when there is none
	Lookup(ctx context.Context, username string) (*Account, bool, error)
	Register(ctx context.Context, username string, email string, password string) error
	// Authenticate returns ErrAuthFailed both for unknown users and wrong passwords
	Authenticate(ctx context.Context, username string, password string) (*Profile, error)
}

type Repository interface {
	Find(ctx context.Context, username string) (*Account, bool, error)
	// Add inserts the account only if its username is absent, ErrUsernameNotUnique otherwise
	Add(ctx context.Context, account *Account) error
}

type PasswordHasher interface {
	Hash(ctx context.Context, password string, cost int) (string, error)
	// Verify compares in constant time, mismatch is (false, nil)
	Verify(ctx context.Context, password string, hash string) (bool, error)
}
