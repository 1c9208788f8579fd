package password

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kuvalkin/accounts/internal/support/pool"
)

// BcryptHasher runs bcrypt on a bounded pool so concurrent logins
// cant take every CPU.
type BcryptHasher struct {
	pool    *pool.Pool
	timeout time.Duration
}

func NewBcryptHasher(workers int, timeout time.Duration) (*BcryptHasher, error) {
	p, err := pool.NewPool(&workers)
	if err != nil {
		return nil, fmt.Errorf("cant create hashing pool: %w", err)
	}

	return &BcryptHasher{pool: p, timeout: timeout}, nil
}

func (h *BcryptHasher) Hash(ctx context.Context, password string, cost int) (string, error) {
	localCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var hash []byte
	var hashErr error

	err := h.pool.Run(localCtx, func() {
		hash, hashErr = bcrypt.GenerateFromPassword([]byte(password), cost)
	})
	if err != nil {
		return "", fmt.Errorf("hash task failed: %w", err)
	}

	if hashErr != nil {
		return "", fmt.Errorf("bcrypt error: %w", hashErr)
	}

	return string(hash), nil
}

func (h *BcryptHasher) Verify(ctx context.Context, password string, hash string) (bool, error) {
	localCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var compareErr error

	err := h.pool.Run(localCtx, func() {
		compareErr = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	})
	if err != nil {
		return false, fmt.Errorf("verify task failed: %w", err)
	}

	if compareErr != nil {
		if errors.Is(compareErr, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}

		return false, fmt.Errorf("bcrypt error: %w", compareErr)
	}

	return true, nil
}

func (h *BcryptHasher) Close() error {
	h.pool.Release()

	return nil
}
