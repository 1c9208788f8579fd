package account

import (
	"context"
	"sync"

	"github.com/kuvalkin/accounts/internal/service/account"
)

type memoryRepo struct {
	mutex   sync.RWMutex
	storage map[string]account.Account
}

func NewInMemoryRepository() account.Repository {
	return &memoryRepo{
		storage: make(map[string]account.Account),
	}
}

func (m *memoryRepo) Find(_ context.Context, username string) (*account.Account, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	value, ok := m.storage[username]
	if !ok {
		return nil, false, nil
	}

	return &value, true, nil
}

func (m *memoryRepo) Add(_ context.Context, acc *account.Account) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.storage[acc.Username]; exists {
		return account.ErrUsernameNotUnique
	}

	m.storage[acc.Username] = *acc

	return nil
}
