package memory

import (
	"context"
	"testing"
	"time"

	"rescue-office/internal/domain/invoices"
)

func TestUpdateStatusKeepsOriginalPaidAt(t *testing.T) {
	repo := NewInvoicesRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, invoices.Invoice{
		ID:          "inv-1",
		ExhibitorID: "exh-1",
		Number:      "2026-001",
		AmountCents: 15000,
		Status:      invoices.StatusPending,
		CreatedAt:   time.Now(),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	first := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	inv, previous, err := repo.UpdateStatus(ctx, "inv-1", invoices.StatusPaid, &first, first)
	if err != nil {
		t.Fatalf("pending→paid: %v", err)
	}
	if previous != invoices.StatusPending {
		t.Fatalf("previous = %s, quería pending", previous)
	}
	if inv.PaidAt == nil || !inv.PaidAt.Equal(first) {
		t.Fatalf("paidAt = %v, quería %v", inv.PaidAt, first)
	}

	// paid→paid conserva la fecha de pago original
	later := first.Add(48 * time.Hour)
	inv, previous, err = repo.UpdateStatus(ctx, "inv-1", invoices.StatusPaid, &later, later)
	if err != nil {
		t.Fatalf("paid→paid: %v", err)
	}
	if previous != invoices.StatusPaid {
		t.Fatalf("previous = %s, quería paid", previous)
	}
	if inv.PaidAt == nil || !inv.PaidAt.Equal(first) {
		t.Fatalf("paidAt tras paid→paid = %v, quería %v", inv.PaidAt, first)
	}
	if !inv.UpdatedAt.Equal(later) {
		t.Fatalf("updatedAt = %v, quería %v", inv.UpdatedAt, later)
	}
}
