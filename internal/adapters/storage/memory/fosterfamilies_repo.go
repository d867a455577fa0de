package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"rescue-office/internal/domain/fosterfamilies"
)

type fosterFamiliesRepo struct {
	mu      sync.RWMutex
	byID    map[string]fosterfamilies.FosterFamily
	byEmail map[string]string // email -> id, espeja la constraint de unicidad
}

func NewFosterFamiliesRepo() fosterfamilies.Repository {
	return &fosterFamiliesRepo{
		byID:    make(map[string]fosterfamilies.FosterFamily),
		byEmail: make(map[string]string),
	}
}

func (r *fosterFamiliesRepo) Create(ctx context.Context, f fosterfamilies.FosterFamily) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(f.ID) == "" {
		return errors.New("foster family id required")
	}
	if _, taken := r.byEmail[f.Email]; taken {
		return fosterfamilies.ErrEmailAlreadyUsed
	}

	r.byID[f.ID] = f
	r.byEmail[f.Email] = f.ID
	return nil
}

func (r *fosterFamiliesRepo) Update(ctx context.Context, f fosterfamilies.FosterFamily) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.byID[f.ID]
	if !exists {
		return fosterfamilies.ErrNotFound
	}
	if otherID, taken := r.byEmail[f.Email]; taken && otherID != f.ID {
		return fosterfamilies.ErrEmailAlreadyUsed
	}

	delete(r.byEmail, current.Email)
	r.byID[f.ID] = f
	r.byEmail[f.Email] = f.ID
	return nil
}

func (r *fosterFamiliesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, exists := r.byID[id]
	if !exists {
		return fosterfamilies.ErrNotFound
	}
	delete(r.byEmail, f.Email)
	delete(r.byID, id)
	return nil
}

func (r *fosterFamiliesRepo) GetByID(ctx context.Context, id string) (fosterfamilies.FosterFamily, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return fosterfamilies.FosterFamily{}, fosterfamilies.ErrNotFound
	}
	return f, nil
}

func (r *fosterFamiliesRepo) List(ctx context.Context) ([]fosterfamilies.FosterFamily, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fosterfamilies.FosterFamily, 0, len(r.byID))
	for _, f := range r.byID {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
