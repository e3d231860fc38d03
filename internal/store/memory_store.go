package store

import (
	"context"
	"strconv"
	"sync"

	perrors "github.com/abgdnv/inventory/internal/errors"
)

var _ ProductStore = (*MemoryStore)(nil)

// MemoryStore implements ProductStore in process memory. Products keep insertion order.
type MemoryStore struct {
	mu     sync.RWMutex
	order  []string
	byID   map[string]Product
	byName map[string]string
	nextID int
}

// NewMemoryStore creates an empty in-memory ProductStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]Product),
		byName: make(map[string]string),
		nextID: 1,
	}
}

func (s *MemoryStore) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.byID[id])
	}
	return list, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	return &p, nil
}

func (s *MemoryStore) FindByName(_ context.Context, name string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[name]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	p := s.byID[id]
	return &p, nil
}

// Create inserts a product unless the name is taken. The check and the insert share one lock.
func (s *MemoryStore) Create(_ context.Context, name string, inventory int64) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[name]; exists {
		return nil, perrors.ErrProductExists
	}
	product := Product{
		ID:        strconv.Itoa(s.nextID),
		Name:      name,
		Inventory: inventory,
	}
	s.nextID++
	s.byID[product.ID] = product
	s.byName[name] = product.ID
	s.order = append(s.order, product.ID)

	return &product, nil
}

func (s *MemoryStore) UpdateInventory(_ context.Context, id string, inventory int64) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	p.Inventory = inventory
	s.byID[id] = p
	return &p, nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
