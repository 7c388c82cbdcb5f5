package identity

import (
	"context"
	"sync"

	"github.com/yopay/yopay/internal/money"
	"github.com/yopay/yopay/internal/wallet"
)

type memoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	users   map[string]User
	wallets *wallet.MemoryStore
}

// NewMemoryRepository builds an in-memory user store for testing. Wallets for
// registered users land in the given wallet store.
func NewMemoryRepository(wallets *wallet.MemoryStore) Repository {
	return &memoryRepository{users: make(map[string]User), wallets: wallets}
}

func (r *memoryRepository) Create(_ context.Context, user User, walletCurrency money.Currency) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Login]; exists {
		return User{}, ErrLoginTaken
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.Login] = user
	if r.wallets != nil {
		r.wallets.Put(wallet.Wallet{UserID: user.ID, Currency: walletCurrency}, user.Login)
	}
	return user, nil
}

func (r *memoryRepository) FindByLogin(_ context.Context, login string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[login]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}
