package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("catalog entry not found")
	ErrAlreadyExist       = errors.New("catalog entry already exists")
	ErrMaxCountBelowUsage = errors.New("max count below current usage")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// availabilityRatio es el único lugar donde se calcula el ratio: lo usan
// divisores y tamaños de stand, tanto el fetch individual como el listado.
// max == 0 define ratio 0 (no hay capacidad, no hay división por cero).
func availabilityRatio(used, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(used) / float64(max)
}

// --- divider types ---

type DividerTypeInput struct {
	Label    string
	MaxCount int
}

func (s *Service) CreateDividerType(ctx context.Context, in DividerTypeInput) (DividerType, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" || in.MaxCount < 0 {
		return DividerType{}, ErrInvalidInput
	}

	now := s.now()
	d := DividerType{
		ID:        uuid.NewString(),
		Label:     label,
		MaxCount:  in.MaxCount,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateDividerType(ctx, d); err != nil {
		return DividerType{}, err
	}
	return d, nil
}

func (s *Service) UpdateDividerType(ctx context.Context, id string, in DividerTypeInput) (DividerTypeAvailability, error) {
	id = strings.TrimSpace(id)
	label := strings.TrimSpace(in.Label)
	if id == "" || label == "" || in.MaxCount < 0 {
		return DividerTypeAvailability{}, ErrInvalidInput
	}

	current, err := s.repo.GetDividerType(ctx, id)
	if err != nil {
		return DividerTypeAvailability{}, err
	}

	d := current.DividerType
	d.Label = label
	d.MaxCount = in.MaxCount
	d.UpdatedAt = s.now()

	if err := s.repo.UpdateDividerType(ctx, d); err != nil {
		return DividerTypeAvailability{}, err
	}
	return s.GetDividerType(ctx, id)
}

func (s *Service) GetDividerType(ctx context.Context, id string) (DividerTypeAvailability, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return DividerTypeAvailability{}, ErrInvalidInput
	}

	u, err := s.repo.GetDividerType(ctx, id)
	if err != nil {
		return DividerTypeAvailability{}, err
	}
	return toDividerAvailability(u), nil
}

func (s *Service) ListDividerTypes(ctx context.Context) ([]DividerTypeAvailability, error) {
	items, err := s.repo.ListDividerTypes(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]DividerTypeAvailability, 0, len(items))
	for _, u := range items {
		out = append(out, toDividerAvailability(u))
	}
	return out, nil
}

// --- stand sizes ---

type StandSizeInput struct {
	Label      string
	MaxCount   int
	PriceCents int64
}

func (s *Service) CreateStandSize(ctx context.Context, in StandSizeInput) (StandSize, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" || in.MaxCount < 0 || in.PriceCents < 0 {
		return StandSize{}, ErrInvalidInput
	}

	now := s.now()
	st := StandSize{
		ID:         uuid.NewString(),
		Label:      label,
		MaxCount:   in.MaxCount,
		PriceCents: in.PriceCents,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.CreateStandSize(ctx, st); err != nil {
		return StandSize{}, err
	}
	return st, nil
}

func (s *Service) UpdateStandSize(ctx context.Context, id string, in StandSizeInput) (StandSizeAvailability, error) {
	id = strings.TrimSpace(id)
	label := strings.TrimSpace(in.Label)
	if id == "" || label == "" || in.MaxCount < 0 || in.PriceCents < 0 {
		return StandSizeAvailability{}, ErrInvalidInput
	}

	current, err := s.repo.GetStandSize(ctx, id)
	if err != nil {
		return StandSizeAvailability{}, err
	}

	st := current.StandSize
	st.Label = label
	st.MaxCount = in.MaxCount
	st.PriceCents = in.PriceCents
	st.UpdatedAt = s.now()

	if err := s.repo.UpdateStandSize(ctx, st); err != nil {
		return StandSizeAvailability{}, err
	}
	return s.GetStandSize(ctx, id)
}

func (s *Service) GetStandSize(ctx context.Context, id string) (StandSizeAvailability, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return StandSizeAvailability{}, ErrInvalidInput
	}

	u, err := s.repo.GetStandSize(ctx, id)
	if err != nil {
		return StandSizeAvailability{}, err
	}
	return toStandAvailability(u), nil
}

func (s *Service) ListStandSizes(ctx context.Context) ([]StandSizeAvailability, error) {
	items, err := s.repo.ListStandSizes(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StandSizeAvailability, 0, len(items))
	for _, u := range items {
		out = append(out, toStandAvailability(u))
	}
	return out, nil
}

func toDividerAvailability(u DividerTypeUsage) DividerTypeAvailability {
	return DividerTypeAvailability{
		DividerType:       u.DividerType,
		UsedCount:         u.UsedCount,
		AvailabilityRatio: availabilityRatio(u.UsedCount, u.MaxCount),
	}
}

func toStandAvailability(u StandSizeUsage) StandSizeAvailability {
	return StandSizeAvailability{
		StandSize:         u.StandSize,
		UsedCount:         u.UsedCount,
		AvailabilityRatio: availabilityRatio(u.UsedCount, u.MaxCount),
	}
}
