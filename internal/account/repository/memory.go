package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"craftconnect/backend/internal/account/domain"
)

// MemoryRepository keeps accounts in process memory. It does not implement ProfileCompleter,
// so profile completion against it uses compensating deletes.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	byEmail  map[string]string
	services map[string]*domain.Service
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[string]*domain.Account),
		byEmail:  make(map[string]string),
		services: make(map[string]*domain.Service),
	}
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	c.ServicesOffered = slices.Clone(a.ServicesOffered)
	if c.ServicesOffered == nil {
		c.ServicesOffered = []string{}
	}
	if a.Location != nil {
		loc := *a.Location
		c.Location = &loc
	}
	return &c
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	return cloneAccount(a), nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return cloneAccount(r.accounts[id]), nil
}

func (r *MemoryRepository) Create(ctx context.Context, a *domain.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[a.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	r.accounts[a.ID] = cloneAccount(a)
	r.byEmail[a.Email] = a.ID
	return nil
}

func (r *MemoryRepository) UpdateProfile(ctx context.Context, id string, p domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Address = p.Address
	a.Location = nil
	if p.Location != nil {
		loc := *p.Location
		a.Location = &loc
	}
	a.ServicesOffered = slices.Clone(p.ServiceIDs)
	a.ProfileCompleted = true
	a.UpdatedAt = p.UpdatedAt
	return nil
}

func (r *MemoryRepository) CreateService(ctx context.Context, s *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[s.ProfessionalID]; !ok {
		return domain.ErrNotFound
	}
	c := *s
	r.services[s.ID] = &c
	return nil
}

func (r *MemoryRepository) DeleteService(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.services, id)
	return nil
}

func (r *MemoryRepository) ListServices(ctx context.Context, professionalID string) ([]*domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Service
	for _, s := range r.services {
		if s.ProfessionalID == professionalID {
			c := *s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// Len returns the number of stored accounts.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}
