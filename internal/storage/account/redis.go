package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kuvalkin/accounts/internal/service/account"
)

type redisRepo struct {
	client    *goredis.Client
	keyPrefix string
	timeout   time.Duration
}

// NewRedisRepository keeps every account as a JSON value under <envName>_Users:<username>
func NewRedisRepository(client *goredis.Client, envName string, timeout time.Duration) account.Repository {
	return &redisRepo{
		client:    client,
		keyPrefix: KeyPrefix(envName),
		timeout:   timeout,
	}
}

func KeyPrefix(envName string) string {
	return envName + "_Users:"
}

func (r *redisRepo) Find(ctx context.Context, username string) (*account.Account, bool, error) {
	localCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data, err := r.client.Get(localCtx, r.keyPrefix+username).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("get error: %w", err)
	}

	acc := &account.Account{}
	if err := json.Unmarshal(data, acc); err != nil {
		return nil, false, fmt.Errorf("corrupted record: %w", err)
	}

	return acc, true, nil
}

func (r *redisRepo) Add(ctx context.Context, acc *account.Account) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	localCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	created, err := r.client.SetNX(localCtx, r.keyPrefix+acc.Username, data, 0).Result()
	if err != nil {
		return fmt.Errorf("setnx error: %w", err)
	}

	if !created {
		return account.ErrUsernameNotUnique
	}

	return nil
}
