package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"rescue-office/internal/domain/animals"
)

type animalsRepo struct {
	mu     sync.RWMutex
	byID   map[string]animals.Animal
	drafts map[string]animals.Draft // por owner_user_id
}

func NewAnimalsRepo() animals.Repository {
	return &animalsRepo{
		byID:   make(map[string]animals.Animal),
		drafts: make(map[string]animals.Draft),
	}
}

func (r *animalsRepo) GetDraft(ctx context.Context, ownerUserID string) (animals.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drafts[ownerUserID]
	if !ok {
		return animals.Draft{}, animals.ErrDraftNotFound
	}
	return d, nil
}

func (r *animalsRepo) SaveDraft(ctx context.Context, d animals.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(d.OwnerUserID) == "" {
		return errors.New("owner user id required")
	}
	r.drafts[d.OwnerUserID] = d
	return nil
}

// PromoteDraft simula la transacción: bajo el mismo lock, o se insertan
// el animal y se borra el draft, o no pasa nada.
func (r *animalsRepo) PromoteDraft(ctx context.Context, a animals.Animal, ownerUserID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drafts[ownerUserID]; !ok {
		return animals.ErrDraftNotFound
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("animal already exists")
	}

	r.byID[a.ID] = a
	delete(r.drafts, ownerUserID)
	return nil
}

func (r *animalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *animalsRepo) Update(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return animals.ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *animalsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return animals.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *animalsRepo) ListByStatus(ctx context.Context, status animals.Status) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if a.Status == status {
			out = append(out, a)
		}
	}
	sortAnimals(out)
	return out, nil
}

func (r *animalsRepo) List(ctx context.Context) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sortAnimals(out)
	return out, nil
}

// Orden estable por created_at asc (solo para consistencia en dev)
func sortAnimals(out []animals.Animal) {
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
}
