package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Store keeps one cart per user for the life of the process. Carts are not
// persisted anywhere; sign-out and checkout drop them.
type Store struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[uuid.UUID]*Cart)}
}

// Get returns the user's cart, creating an empty one on first use.
func (s *Store) Get(userID uuid.UUID) *Cart {
	s.mu.RLock()
	c, ok := s.carts[userID]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[userID]; ok {
		return c
	}
	c = New()
	s.carts[userID] = c
	return c
}

// Drop discards the user's cart entirely.
func (s *Store) Drop(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
