package invoices

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"rescue-office/internal/platform/logger"
	"rescue-office/internal/platform/postcommit"
	"rescue-office/internal/ports/notify"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("invoice not found")
	ErrNumberAlreadyUsed = errors.New("invoice number already used")
)

type Service struct {
	repo     Repository
	notifier notify.Notifier // puede ser nil
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, notifier notify.Notifier, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type CreateInput struct {
	ExhibitorID string
	Number      string
	AmountCents int64
	DueDate     time.Time
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Invoice, error) {
	exhibitorID := strings.TrimSpace(in.ExhibitorID)
	number := strings.TrimSpace(in.Number)

	if exhibitorID == "" || number == "" {
		return Invoice{}, ErrInvalidInput
	}
	if in.AmountCents <= 0 || in.DueDate.IsZero() {
		return Invoice{}, ErrInvalidInput
	}

	now := s.now()
	inv := Invoice{
		ID:          uuid.NewString(),
		ExhibitorID: exhibitorID,
		Number:      number,
		AmountCents: in.AmountCents,
		DueDate:     in.DueDate,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

// UpdateStatus escribe la transición y, solo cuando el status previo no era
// paid y el nuevo sí, despacha exactamente una notificación invoice-paid.
// paid → paid (no-op) y cualquier otra transición no notifican nada.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Invoice{}, ErrInvalidInput
	}
	if !status.Valid() {
		return Invoice{}, ErrInvalidInput
	}

	now := s.now()
	var paidAt *time.Time
	if status == StatusPaid {
		paidAt = &now
	}

	inv, previous, err := s.repo.UpdateStatus(ctx, id, status, paidAt, now)
	if err != nil {
		return Invoice{}, err
	}

	if previous != StatusPaid && status == StatusPaid {
		postcommit.Run(ctx, s.log, postcommit.Hook{
			Name: "notify.invoice-paid",
			Run: func(ctx context.Context) error {
				if s.notifier == nil {
					return nil
				}
				return s.notifier.Send(ctx, notify.Event{
					Type:        notify.EventInvoicePaid,
					AggregateID: inv.ID,
					Data: map[string]any{
						"exhibitor_id": inv.ExhibitorID,
						"number":       inv.Number,
						"amount_cents": inv.AmountCents,
					},
				})
			},
		})
	}

	return inv, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Invoice{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByExhibitor(ctx context.Context, exhibitorID string) ([]Invoice, error) {
	exhibitorID = strings.TrimSpace(exhibitorID)
	if exhibitorID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByExhibitor(ctx, exhibitorID)
}
