package otp

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryRepository builds an in-memory OTP store for testing. The map
// key is the uid, so supersession holds by construction.
func NewMemoryRepository() Repository {
	return &memoryRepository{records: make(map[string]Record)}
}

func (r *memoryRepository) Upsert(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.UID] = rec
	return nil
}

func (r *memoryRepository) Find(_ context.Context, uid string) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[uid]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (r *memoryRepository) Delete(_ context.Context, uid, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[uid]
	if !ok || rec.Code != code {
		return false, nil
	}
	delete(r.records, uid)
	return true, nil
}
