package account

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Find(ctx context.Context, username string) (*Account, bool, error) {
	args := m.Called(ctx, username)

	acc, _ := args.Get(0).(*Account)

	return acc, args.Bool(1), args.Error(2)
}

func (m *mockRepository) Add(ctx context.Context, account *Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

type mockHasher struct {
	mock.Mock
}

func (m *mockHasher) Hash(ctx context.Context, password string, cost int) (string, error) {
	args := m.Called(ctx, password, cost)

	return args.String(0), args.Error(1)
}

func (m *mockHasher) Verify(ctx context.Context, password string, hash string) (bool, error) {
	args := m.Called(ctx, password, hash)

	return args.Bool(0), args.Error(1)
}

// mapRepository is a minimal insert-if-absent store, kept here so the package
// tests do not import storage
type mapRepository struct {
	mutex sync.Mutex
	data  map[string]Account
}

func newMapRepository() *mapRepository {
	return &mapRepository{data: make(map[string]Account)}
}

func (r *mapRepository) Find(_ context.Context, username string) (*Account, bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	acc, ok := r.data[username]
	if !ok {
		return nil, false, nil
	}

	return &acc, true, nil
}

func (r *mapRepository) Add(_ context.Context, account *Account) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.data[account.Username]; ok {
		return ErrUsernameNotUnique
	}

	r.data[account.Username] = *account

	return nil
}

// plainHasher prefixes the password, good enough to check the service never stores plaintext
type plainHasher struct{}

func (plainHasher) Hash(_ context.Context, password string, _ int) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Verify(_ context.Context, password string, hash string) (bool, error) {
	return hash == "hashed:"+password, nil
}
