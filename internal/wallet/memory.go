package wallet

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// MemoryStore is a concurrency-safe in-memory wallet store for unit tests.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	wallets map[int64]Wallet
	byLogin map[string]int64
	byUser  map[int64]int64
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		wallets: make(map[int64]Wallet),
		byLogin: make(map[string]int64),
		byUser:  make(map[int64]int64),
	}
}

// Put registers a wallet under the owner's login, assigning an id when the
// wallet has none. It returns the stored wallet.
func (s *MemoryStore) Put(w Wallet, login string) Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == 0 {
		s.nextID++
		w.ID = s.nextID
	} else if w.ID > s.nextID {
		s.nextID = w.ID
	}
	s.wallets[w.ID] = w
	s.byLogin[login] = w.ID
	s.byUser[w.UserID] = w.ID
	return w
}

func (s *MemoryStore) ByUserID(_ context.Context, userID int64) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUser[userID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return s.wallets[id], nil
}

func (s *MemoryStore) ByLogin(_ context.Context, login string) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byLogin[login]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return s.wallets[id], nil
}

func (s *MemoryStore) ByID(_ context.Context, walletID int64) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (s *MemoryStore) Adjust(_ context.Context, walletID int64, delta decimal.Decimal) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	w.Amount = w.Amount.Add(delta)
	s.wallets[walletID] = w
	return w, nil
}
