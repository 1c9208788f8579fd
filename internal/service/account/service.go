package account

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kuvalkin/accounts/internal/support/event"
	"github.com/kuvalkin/accounts/internal/support/log"
)

type Options struct {
	HashCost          int
	MinPasswordLength int
}

func NewService(repo Repository, hasher PasswordHasher, options *Options) (Service, error) {
	if repo == nil || hasher == nil {
		return nil, errors.New("repository and hasher are required")
	}

	if options == nil || options.HashCost <= 0 {
		return nil, fmt.Errorf("invalid options: %+v", options)
	}

	return &service{
		repo:              repo,
		hasher:            hasher,
		hashCost:          options.HashCost,
		minPasswordLength: options.MinPasswordLength,
		logger:            log.Logger().Named("accountService"),
	}, nil
}

type service struct {
	repo              Repository
	hasher            PasswordHasher
	hashCost          int
	minPasswordLength int
	logger            *zap.SugaredLogger
}

func (s *service) Lookup(ctx context.Context, username string) (*Account, bool, error) {
	if !validUsername(username) {
		return nil, false, ErrInvalidUsername
	}

	acc, found, err := s.repo.Find(ctx, username)
	if err != nil {
		s.logger.Errorw("failed to lookup account by username", "username", username, "error", err)

		return nil, false, ErrStoreUnavailable
	}

	if !found {
		return nil, false, nil
	}

	return acc, true, nil
}

func (s *service) Register(ctx context.Context, username string, email string, password string) error {
	localLogger := s.logger.WithLazy("username", username)

	_, found, err := s.Lookup(ctx, username)
	if err != nil {
		return err
	}

	if found {
		localLogger.Debug("username is taken")

		return ErrUsernameTaken
	}

	if !utf8.ValidString(email) {
		return ErrInvalidEmail
	}

	if len(password) < s.minPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(ctx, password, s.hashCost)
	if err != nil {
		localLogger.Errorw("failed to hash password", "error", err)

		return ErrHashingFailed
	}

	if hash == "" {
		localLogger.Error("hasher returned empty hash")

		return ErrHashingFailed
	}

	err = s.repo.Add(ctx, &Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrUsernameNotUnique) {
			// registered concurrently between lookup and insert
			localLogger.Debug("username was taken by a concurrent registration")

			return ErrUsernameTaken
		}

		localLogger.Errorw("failed to insert new account", "error", err)

		return ErrStoreWriteFailed
	}

	event.Publish(event.AccountRegistered, username)

	return nil
}

func (s *service) Authenticate(ctx context.Context, username string, password string) (*Profile, error) {
	localLogger := s.logger.WithLazy("username", username)

	acc, found, err := s.Lookup(ctx, username)
	if err != nil {
		if errors.Is(err, ErrInvalidUsername) {
			return nil, ErrAuthFailed
		}

		return nil, err
	}

	if !found {
		localLogger.Debug("account not found")

		return nil, ErrAuthFailed
	}

	passed, err := s.hasher.Verify(ctx, password, acc.PasswordHash)
	if err != nil {
		localLogger.Errorw("failed to verify password", "error", err)

		return nil, ErrHashingFailed
	}

	if !passed {
		localLogger.Debug("password mismatch")

		return nil, ErrAuthFailed
	}

	return &Profile{
		Username: acc.Username,
		Email:    acc.Email,
	}, nil
}

// validUsername accepts any non-empty UTF-8 string up to MaxUsernameLength bytes.
// Stores keep strings as text, invalid bytes would not survive a round trip.
func validUsername(username string) bool {
	return username != "" && len(username) <= MaxUsernameLength && utf8.ValidString(username)
}
