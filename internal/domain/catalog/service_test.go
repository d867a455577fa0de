package catalog

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testRepo struct {
	dividers map[string]DividerType
	stands   map[string]StandSize

	// uso agregado por id, como lo calcularía el adapter
	dividerUsage map[string]int
	standUsage   map[string]int
}

func newTestRepo() *testRepo {
	return &testRepo{
		dividers:     map[string]DividerType{},
		stands:       map[string]StandSize{},
		dividerUsage: map[string]int{},
		standUsage:   map[string]int{},
	}
}

func (r *testRepo) CreateDividerType(_ context.Context, d DividerType) error {
	for _, existing := range r.dividers {
		if existing.Label == d.Label {
			return ErrAlreadyExist
		}
	}
	r.dividers[d.ID] = d
	return nil
}

func (r *testRepo) UpdateDividerType(_ context.Context, d DividerType) error {
	if _, ok := r.dividers[d.ID]; !ok {
		return ErrNotFound
	}
	if d.MaxCount < r.dividerUsage[d.ID] {
		return ErrMaxCountBelowUsage
	}
	r.dividers[d.ID] = d
	return nil
}

func (r *testRepo) GetDividerType(_ context.Context, id string) (DividerTypeUsage, error) {
	d, ok := r.dividers[id]
	if !ok {
		return DividerTypeUsage{}, ErrNotFound
	}
	return DividerTypeUsage{DividerType: d, UsedCount: r.dividerUsage[id]}, nil
}

func (r *testRepo) ListDividerTypes(_ context.Context) ([]DividerTypeUsage, error) {
	var out []DividerTypeUsage
	for id, d := range r.dividers {
		out = append(out, DividerTypeUsage{DividerType: d, UsedCount: r.dividerUsage[id]})
	}
	return out, nil
}

func (r *testRepo) CreateStandSize(_ context.Context, s StandSize) error {
	for _, existing := range r.stands {
		if existing.Label == s.Label {
			return ErrAlreadyExist
		}
	}
	r.stands[s.ID] = s
	return nil
}

func (r *testRepo) UpdateStandSize(_ context.Context, s StandSize) error {
	if _, ok := r.stands[s.ID]; !ok {
		return ErrNotFound
	}
	if s.MaxCount < r.standUsage[s.ID] {
		return ErrMaxCountBelowUsage
	}
	r.stands[s.ID] = s
	return nil
}

func (r *testRepo) GetStandSize(_ context.Context, id string) (StandSizeUsage, error) {
	s, ok := r.stands[id]
	if !ok {
		return StandSizeUsage{}, ErrNotFound
	}
	return StandSizeUsage{StandSize: s, UsedCount: r.standUsage[id]}, nil
}

func (r *testRepo) ListStandSizes(_ context.Context) ([]StandSizeUsage, error) {
	var out []StandSizeUsage
	for id, s := range r.stands {
		out = append(out, StandSizeUsage{StandSize: s, UsedCount: r.standUsage[id]})
	}
	return out, nil
}

func newTestService(repo *testRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestDividerTypeRatioZeroCapacity(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	d, err := svc.CreateDividerType(context.Background(), DividerTypeInput{Label: "grille", MaxCount: 0})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.dividerUsage[d.ID] = 0

	got, err := svc.GetDividerType(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AvailabilityRatio != 0 {
		t.Fatalf("ratio con max_count 0 = %v, quería 0", got.AvailabilityRatio)
	}
}

func TestDividerTypeRatioFromAggregatedUsage(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	d, err := svc.CreateDividerType(context.Background(), DividerTypeInput{Label: "grille", MaxCount: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// tres stands usando la grille entre todos
	repo.dividerUsage[d.ID] = 3

	got, err := svc.GetDividerType(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UsedCount != 3 {
		t.Fatalf("used = %d, quería 3", got.UsedCount)
	}
	if got.AvailabilityRatio != 0.3 {
		t.Fatalf("ratio = %v, quería 0.3", got.AvailabilityRatio)
	}
}

func TestStandSizeRatio(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	st, err := svc.CreateStandSize(context.Background(), StandSizeInput{Label: "3x3", MaxCount: 4, PriceCents: 15000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.standUsage[st.ID] = 4

	got, err := svc.GetStandSize(context.Background(), st.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AvailabilityRatio != 1 {
		t.Fatalf("ratio = %v, quería 1", got.AvailabilityRatio)
	}
}

func TestUpdateDividerTypeBelowUsage(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	d, err := svc.CreateDividerType(context.Background(), DividerTypeInput{Label: "grille", MaxCount: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.dividerUsage[d.ID] = 5

	_, err = svc.UpdateDividerType(context.Background(), d.ID, DividerTypeInput{Label: "grille", MaxCount: 3})
	if !errors.Is(err, ErrMaxCountBelowUsage) {
		t.Fatalf("err = %v, quería ErrMaxCountBelowUsage", err)
	}

	// bajar hasta el uso exacto sí se permite
	got, err := svc.UpdateDividerType(context.Background(), d.ID, DividerTypeInput{Label: "grille", MaxCount: 5})
	if err != nil {
		t.Fatalf("update al uso exacto: %v", err)
	}
	if got.AvailabilityRatio != 1 {
		t.Fatalf("ratio = %v, quería 1", got.AvailabilityRatio)
	}
}

func TestUpdateStandSizeBelowUsage(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	st, err := svc.CreateStandSize(context.Background(), StandSizeInput{Label: "3x3", MaxCount: 5, PriceCents: 15000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// dos expositores ya reservaron este tamaño
	repo.standUsage[st.ID] = 2

	_, err = svc.UpdateStandSize(context.Background(), st.ID, StandSizeInput{Label: "3x3", MaxCount: 1, PriceCents: 15000})
	if !errors.Is(err, ErrMaxCountBelowUsage) {
		t.Fatalf("err = %v, quería ErrMaxCountBelowUsage", err)
	}

	got, err := svc.UpdateStandSize(context.Background(), st.ID, StandSizeInput{Label: "3x3", MaxCount: 2, PriceCents: 15000})
	if err != nil {
		t.Fatalf("update al uso exacto: %v", err)
	}
	if got.AvailabilityRatio != 1 {
		t.Fatalf("ratio = %v, quería 1", got.AvailabilityRatio)
	}
}

func TestCreateDividerTypeDuplicateLabel(t *testing.T) {
	svc := newTestService(newTestRepo())

	if _, err := svc.CreateDividerType(context.Background(), DividerTypeInput{Label: "grille", MaxCount: 2}); err != nil {
		t.Fatalf("primer create: %v", err)
	}
	_, err := svc.CreateDividerType(context.Background(), DividerTypeInput{Label: "grille", MaxCount: 2})
	if !errors.Is(err, ErrAlreadyExist) {
		t.Fatalf("err = %v, quería ErrAlreadyExist", err)
	}
}

func TestCreateCatalogValidation(t *testing.T) {
	svc := newTestService(newTestRepo())

	if _, err := svc.CreateDividerType(context.Background(), DividerTypeInput{Label: "  ", MaxCount: 2}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("label vacío: err = %v", err)
	}
	if _, err := svc.CreateDividerType(context.Background(), DividerTypeInput{Label: "grille", MaxCount: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("max negativo: err = %v", err)
	}
	if _, err := svc.CreateStandSize(context.Background(), StandSizeInput{Label: "3x3", MaxCount: 2, PriceCents: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("precio negativo: err = %v", err)
	}
}
