package user

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryRepository builds an in-memory user store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[string]User)}
}

func (r *memoryRepository) Create(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[u.UID]; exists {
		return errors.New("user exists")
	}
	r.users[u.UID] = u
	return nil
}

func (r *memoryRepository) FindByUID(_ context.Context, uid string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[uid]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	return r.findFirst(func(u User) bool { return u.Email == email })
}

func (r *memoryRepository) FindByDocument(_ context.Context, documentNumber string) (*User, error) {
	return r.findFirst(func(u User) bool { return u.DocumentNumber == documentNumber })
}

func (r *memoryRepository) FindMatching(_ context.Context, documentNumber, phoneNumber, email string) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []User
	for _, u := range r.users {
		if u.DocumentNumber == documentNumber || u.PhoneNumber == phoneNumber || u.Email == email {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

func (r *memoryRepository) UpdateProfile(_ context.Context, uid string, personal *PersonalInfo, professional *ProfessionalInfo) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return nil, nil
	}
	u.PersonalInfo = personal
	u.ProfessionalInfo = professional
	r.users[uid] = u
	return &u, nil
}

func (r *memoryRepository) UpdateBankAccount(_ context.Context, uid string, account BankAccount) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return nil, nil
	}
	u.BankAccount = &account
	r.users[uid] = u
	return &u, nil
}

func (r *memoryRepository) Search(_ context.Context, f Filter) ([]User, error) {
	matched := r.match(f)
	if f.Skip >= len(matched) {
		return []User{}, nil
	}
	matched = matched[f.Skip:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func (r *memoryRepository) Count(_ context.Context, f Filter) (int, error) {
	return len(r.match(f)), nil
}

func (r *memoryRepository) match(f Filter) []User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	term := strings.ToLower(f.SearchTerm)
	matched := make([]User, 0)
	for _, u := range r.users {
		if u.Admin {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(u.Username), term) &&
			!strings.Contains(strings.ToLower(u.Email), term) &&
			!strings.Contains(strings.ToLower(u.DocumentNumber), term) {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].UID < matched[j].UID })
	return matched
}

func (r *memoryRepository) findFirst(pred func(User) bool) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if pred(u) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}
