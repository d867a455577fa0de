package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"rescue-office/internal/domain/invoices"
)

type invoicesRepo struct {
	mu       sync.RWMutex
	byID     map[string]invoices.Invoice
	byNumber map[string]string
}

func NewInvoicesRepo() invoices.Repository {
	return &invoicesRepo{
		byID:     make(map[string]invoices.Invoice),
		byNumber: make(map[string]string),
	}
}

func (r *invoicesRepo) Create(ctx context.Context, inv invoices.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(inv.ID) == "" {
		return errors.New("invoice id required")
	}
	if _, taken := r.byNumber[inv.Number]; taken {
		return invoices.ErrNumberAlreadyUsed
	}

	r.byID[inv.ID] = inv
	r.byNumber[inv.Number] = inv.ID
	return nil
}

// UpdateStatus devuelve el status previo leído bajo el mismo lock que la
// escritura, igual que la versión transaccional de Postgres.
func (r *invoicesRepo) UpdateStatus(ctx context.Context, id string, status invoices.Status, paidAt *time.Time, updatedAt time.Time) (invoices.Invoice, invoices.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return invoices.Invoice{}, "", invoices.ErrNotFound
	}

	previous := current.Status
	current.Status = status
	// paid→paid no pisa la fecha de pago original
	if !(previous == invoices.StatusPaid && status == invoices.StatusPaid) {
		current.PaidAt = paidAt
	}
	current.UpdatedAt = updatedAt
	r.byID[id] = current

	return current, previous, nil
}

func (r *invoicesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, exists := r.byID[id]
	if !exists {
		return invoices.ErrNotFound
	}
	delete(r.byNumber, inv.Number)
	delete(r.byID, id)
	return nil
}

func (r *invoicesRepo) GetByID(ctx context.Context, id string) (invoices.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.byID[id]
	if !ok {
		return invoices.Invoice{}, invoices.ErrNotFound
	}
	return inv, nil
}

func (r *invoicesRepo) ListByExhibitor(ctx context.Context, exhibitorID string) ([]invoices.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]invoices.Invoice, 0)
	for _, inv := range r.byID {
		if inv.ExhibitorID == exhibitorID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
