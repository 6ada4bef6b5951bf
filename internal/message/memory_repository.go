package message

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	messages []Message
}

// NewMemoryRepository builds an in-memory delivery log for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Insert(_ context.Context, m Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
	return nil
}

func (r *memoryRepository) ListByUID(_ context.Context, uid string) ([]Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]Message, 0)
	for _, m := range r.messages {
		if m.UID == uid {
			matched = append(matched, m)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}
