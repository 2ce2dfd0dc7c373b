package store

import (
	"context"
	"fmt"
	"sync"
)

// Mem implements Store in memory. It is safe for concurrent use and is
// the store of choice for tests and embedding.
type Mem struct {
	mu      sync.RWMutex
	objects map[Hash][]byte
	refs    map[string]Hash
}

// NewMem creates an empty in-memory store.
func NewMem() *Mem {
	return &Mem{
		objects: make(map[Hash][]byte),
		refs:    make(map[string]Hash),
	}
}

// Len returns the number of stored objects.
func (s *Mem) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Get retrieves an object by identifier.
func (s *Mem) Get(ctx context.Context, id Hash) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.objects[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("object %s: %w", id, ErrNotFound)
	}
	return data, nil
}

// Put stores an object and returns its identifier.
func (s *Mem) Put(ctx context.Context, data []byte) (Hash, error) {
	id := HashBytes(data)
	s.mu.Lock()
	if _, ok := s.objects[id]; !ok {
		cp := make([]byte, len(data))
		copy(cp, data)
		s.objects[id] = cp
	}
	s.mu.Unlock()
	return id, nil
}

// Has checks whether an object exists.
func (s *Mem) Has(ctx context.Context, id Hash) (bool, error) {
	s.mu.RLock()
	_, ok := s.objects[id]
	s.mu.RUnlock()
	return ok, nil
}

// GetMulti retrieves multiple objects.
func (s *Mem) GetMulti(ctx context.Context, ids []Hash) (map[Hash][]byte, error) {
	result := make(map[Hash][]byte, len(ids))
	for _, id := range ids {
		data, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		result[id] = data
	}
	return result, nil
}

// PutMulti stores multiple objects.
func (s *Mem) PutMulti(ctx context.Context, objects map[Hash][]byte) error {
	for _, data := range objects {
		if _, err := s.Put(ctx, data); err != nil {
			return err
		}
	}
	return nil
}

// GetRef retrieves the identifier a ref points at.
func (s *Mem) GetRef(name string) (Hash, error) {
	s.mu.RLock()
	id, ok := s.refs[name]
	s.mu.RUnlock()
	if !ok {
		return ZeroHash, fmt.Errorf("ref %s: %w", name, ErrNotFound)
	}
	return id, nil
}

// PutRef points a ref at an identifier.
func (s *Mem) PutRef(name string, id Hash) error {
	s.mu.Lock()
	s.refs[name] = id
	s.mu.Unlock()
	return nil
}
