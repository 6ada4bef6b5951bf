package credit

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu       sync.RWMutex
	requests map[string]Request
}

// NewMemoryRepository builds an in-memory credit store for testing. The
// eligibility checks in Insert run under a single lock hold, mirroring the
// atomic conditional insert of the Postgres implementation.
func NewMemoryRepository() Repository {
	return &memoryRepository{requests: make(map[string]Request)}
}

func (r *memoryRepository) Insert(_ context.Context, req Request, cooldownStart time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.requests {
		if existing.UID != req.UID {
			continue
		}
		if existing.Status.Blocking() {
			return "", ErrActiveRequestExists
		}
	}
	for _, existing := range r.requests {
		if existing.UID == req.UID && existing.Status == StatusRejected && !existing.OTPIssuedAt.Before(cooldownStart) {
			return "", ErrCooldownActive
		}
	}

	r.requests[req.ID] = req
	return req.ID, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if req, ok := r.requests[id]; ok {
		return &req, nil
	}
	return nil, nil
}

func (r *memoryRepository) FindBlocking(_ context.Context, uid string) (*Request, error) {
	return r.findFirst(func(req Request) bool {
		return req.UID == uid && req.Status.Blocking()
	})
}

func (r *memoryRepository) FindRejectedSince(_ context.Context, uid string, since time.Time) (*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var newest *Request
	for _, req := range r.requests {
		if req.UID != uid || req.Status != StatusRejected || req.OTPIssuedAt.Before(since) {
			continue
		}
		if newest == nil || req.OTPIssuedAt.After(newest.OTPIssuedAt) {
			req := req
			newest = &req
		}
	}
	return newest, nil
}

func (r *memoryRepository) FindActive(_ context.Context, uid string) (*Request, error) {
	return r.findFirst(func(req Request) bool {
		return req.UID == uid && req.Status == StatusActive
	})
}

func (r *memoryRepository) SetExtensionRequested(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return errors.New("credit request not found")
	}
	req.ExtensionRequested = true
	r.requests[id] = req
	return nil
}

func (r *memoryRepository) UpdateDecision(_ context.Context, id string, status Status, approvedAmount *float64) (*Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	req.Status = status
	if approvedAmount != nil {
		req.ApprovedAmount = approvedAmount
	}
	r.requests[id] = req
	return &req, nil
}

func (r *memoryRepository) ListByUID(_ context.Context, uid string) ([]Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	requests := make([]Request, 0)
	for _, req := range r.requests {
		if req.UID == uid {
			requests = append(requests, req)
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

func (r *memoryRepository) findFirst(pred func(Request) bool) (*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, req := range r.requests {
		if pred(req) {
			req := req
			return &req, nil
		}
	}
	return nil, nil
}
