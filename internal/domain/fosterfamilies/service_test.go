package fosterfamilies

import (
	"context"
	"errors"
	"testing"
	"time"

	"rescue-office/internal/domain/animals"
	"rescue-office/internal/platform/logger"
)

// -------------------------
// Fake repo (in-memory)
// -------------------------

type testRepo struct {
	byID    map[string]FosterFamily
	byEmail map[string]string // email -> id
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:    map[string]FosterFamily{},
		byEmail: map[string]string{},
	}
}

func (r *testRepo) Create(ctx context.Context, f FosterFamily) error {
	if _, used := r.byEmail[f.Email]; used {
		// mismo mapeo que hace el adapter postgres sobre el unique
		return ErrEmailAlreadyUsed
	}
	r.byID[f.ID] = f
	r.byEmail[f.Email] = f.ID
	return nil
}

func (r *testRepo) Update(ctx context.Context, f FosterFamily) error {
	current, ok := r.byID[f.ID]
	if !ok {
		return ErrNotFound
	}
	if id, used := r.byEmail[f.Email]; used && id != f.ID {
		return ErrEmailAlreadyUsed
	}
	delete(r.byEmail, current.Email)
	r.byID[f.ID] = f
	r.byEmail[f.Email] = f.ID
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	f, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, f.Email)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (FosterFamily, error) {
	f, ok := r.byID[id]
	if !ok {
		return FosterFamily{}, ErrNotFound
	}
	return f, nil
}

func (r *testRepo) List(ctx context.Context) ([]FosterFamily, error) {
	out := make([]FosterFamily, 0, len(r.byID))
	for _, f := range r.byID {
		out = append(out, f)
	}
	return out, nil
}

func validInput() Input {
	return Input{
		DisplayName:   "Famille Dupont",
		Email:         "dupont@example.com",
		City:          "Meaux",
		ZipCode:       "77100",
		Availability:  AvailabilityAvailable,
		SpeciesToHost: []animals.Species{animals.SpeciesCat, animals.SpeciesDog},
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DuplicateEmail(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, logger.Nop())

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}

	in := validInput()
	in.DisplayName = "Otra familia"
	in.Email = "DUPONT@example.com" // el email se normaliza a lower

	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, ErrEmailAlreadyUsed) {
		t.Fatalf("expected ErrEmailAlreadyUsed, got %v", err)
	}
}

func TestService_Create_MissingSpeciesToHost(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, logger.Nop())

	in := validInput()
	in.SpeciesToHost = nil

	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, ErrMissingSpeciesToHost) {
		t.Fatalf("expected ErrMissingSpeciesToHost, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected no write")
	}
}

func TestService_Create_NormalizesAvailabilityExpiration(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, logger.Nop())

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	future := now.Add(30 * 24 * time.Hour)

	// availability unknown fuerza expiración a nil aunque venga seteada
	in := validInput()
	in.Availability = AvailabilityUnknown
	in.AvailabilityExpiresAt = &future

	f, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if f.AvailabilityExpiresAt != nil {
		t.Fatalf("expected expiration cleared for unknown availability")
	}
}

func TestService_Create_RejectsPastExpiration(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, logger.Nop())

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	past := now.Add(-time.Hour)

	in := validInput()
	in.AvailabilityExpiresAt = &past

	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, ErrInvalidAvailabilityDate) {
		t.Fatalf("expected ErrInvalidAvailabilityDate, got %v", err)
	}
}

func TestService_Update_RevalidatesInvariants(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, logger.Nop())

	f, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	in := validInput()
	in.SpeciesToHost = []animals.Species{}

	_, err = svc.Update(context.Background(), f.ID, in)
	if !errors.Is(err, ErrMissingSpeciesToHost) {
		t.Fatalf("expected ErrMissingSpeciesToHost on update, got %v", err)
	}

	// la fila no cambió
	got, _ := repo.GetByID(context.Background(), f.ID)
	if len(got.SpeciesToHost) != 2 {
		t.Fatalf("expected row untouched, got %#v", got.SpeciesToHost)
	}
}

func TestService_NormalizeSpecies_DedupesAndRejectsUnknown(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, logger.Nop())

	in := validInput()
	in.SpeciesToHost = []animals.Species{animals.SpeciesCat, animals.SpeciesCat, animals.SpeciesDog}

	f, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(f.SpeciesToHost) != 2 {
		t.Fatalf("expected dedup to 2 species, got %#v", f.SpeciesToHost)
	}

	in2 := validInput()
	in2.Email = "otra@example.com"
	in2.SpeciesToHost = []animals.Species{"dragon"}
	if _, err := svc.Create(context.Background(), in2); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown species, got %v", err)
	}
}
