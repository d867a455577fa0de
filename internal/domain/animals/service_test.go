package animals

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rescue-office/internal/platform/logger"
	"rescue-office/internal/ports/search"
)

// -------------------------
// Fakes (in-memory)
// -------------------------

type testRepo struct {
	drafts  map[string]Draft
	animals map[string]Animal

	failPromote bool
	failUpdate  bool
}

func newTestRepo() *testRepo {
	return &testRepo{
		drafts:  map[string]Draft{},
		animals: map[string]Animal{},
	}
}

func (r *testRepo) GetDraft(ctx context.Context, ownerUserID string) (Draft, error) {
	d, ok := r.drafts[ownerUserID]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	return d, nil
}

func (r *testRepo) SaveDraft(ctx context.Context, d Draft) error {
	r.drafts[d.OwnerUserID] = d
	return nil
}

func (r *testRepo) PromoteDraft(ctx context.Context, a Animal, ownerUserID string) error {
	if _, ok := r.drafts[ownerUserID]; !ok {
		return ErrDraftNotFound
	}
	if r.failPromote {
		// simula el fallo del insert: nada queda escrito
		return errors.New("db: insert failed")
	}
	r.animals[a.ID] = a
	delete(r.drafts, ownerUserID)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Animal, error) {
	a, ok := r.animals[id]
	if !ok {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) Update(ctx context.Context, a Animal) error {
	if r.failUpdate {
		return errors.New("db: update failed")
	}
	if _, ok := r.animals[a.ID]; !ok {
		return ErrNotFound
	}
	r.animals[a.ID] = a
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.animals[id]; !ok {
		return ErrNotFound
	}
	delete(r.animals, id)
	return nil
}

func (r *testRepo) ListByStatus(ctx context.Context, status Status) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, a := range r.animals {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) List(ctx context.Context) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, a := range r.animals {
		out = append(out, a)
	}
	return out, nil
}

type testIndex struct {
	saved   []search.Record
	deleted []string
	fail    bool
}

func (i *testIndex) Save(ctx context.Context, index string, rec search.Record) error {
	if i.fail {
		return errors.New("index: 503")
	}
	i.saved = append(i.saved, rec)
	return nil
}

func (i *testIndex) Delete(ctx context.Context, index string, id string) error {
	if i.fail {
		return errors.New("index: 503")
	}
	i.deleted = append(i.deleted, id)
	return nil
}

func (i *testIndex) Search(ctx context.Context, index, query string, filters map[string]string) ([]search.Record, error) {
	return nil, nil
}

type testStorage struct {
	mu      sync.Mutex
	deleted []string
	failOn  map[string]bool
}

func (s *testStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	return path, nil
}

func (s *testStorage) PublicURL(path string) string { return path }

func (s *testStorage) Delete(ctx context.Context, path string) error {
	// DeleteAll borra en paralelo
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, path)
	if s.failOn[path] {
		return errors.New("cdn: 500")
	}
	return nil
}

// -------------------------
// Helpers
// -------------------------

func seedDraft(t *testing.T, repo *testRepo, owner string, pickUp time.Time) {
	t.Helper()
	repo.drafts[owner] = Draft{
		OwnerUserID:    owner,
		Name:           "Mirza",
		Species:        SpeciesCat,
		Breed:          BreedEuropean,
		Color:          ColorTricolor,
		Status:         StatusOpenToAdoption,
		PickUpDate:     &pickUp,
		PickUpLocation: "Meaux",
		Avatar:         "animals/mirza/avatar.jpg",
		Pictures:       []string{"animals/mirza/1.jpg"},
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_CreateFromDraft_PromotesAndIndexes(t *testing.T) {
	repo := newTestRepo()
	idx := &testIndex{}
	svc := NewService(repo, idx, nil, logger.Nop())

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedDraft(t, repo, "user-1", now.Add(-48*time.Hour))

	a, err := svc.CreateFromDraft(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CreateFromDraft error: %v", err)
	}

	if _, ok := repo.drafts["user-1"]; ok {
		t.Fatalf("expected draft to be deleted after promotion")
	}
	if _, ok := repo.animals[a.ID]; !ok {
		t.Fatalf("expected animal row to exist")
	}
	if a.CreatedAt != now || a.UpdatedAt != now {
		t.Fatalf("expected timestamps from injected now")
	}
	if len(idx.saved) != 1 || idx.saved[0].ID != a.ID {
		t.Fatalf("expected index save for %s, got %#v", a.ID, idx.saved)
	}
}

func TestService_CreateFromDraft_AtomicOnInsertFailure(t *testing.T) {
	repo := newTestRepo()
	repo.failPromote = true
	idx := &testIndex{}
	svc := NewService(repo, idx, nil, logger.Nop())

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	seedDraft(t, repo, "user-1", now.Add(-48*time.Hour))

	if _, err := svc.CreateFromDraft(context.Background(), "user-1"); err == nil {
		t.Fatalf("expected error")
	}

	// el draft sigue ahí y el índice no vio nada
	if _, ok := repo.drafts["user-1"]; !ok {
		t.Fatalf("expected draft to survive failed promotion")
	}
	if len(repo.animals) != 0 {
		t.Fatalf("expected no animal rows, got %d", len(repo.animals))
	}
	if len(idx.saved) != 0 {
		t.Fatalf("expected no index writes, got %#v", idx.saved)
	}
}

func TestService_CreateFromDraft_Validation(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil, logger.Nop())

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	past := now.Add(-48 * time.Hour)

	// sin avatar
	seedDraft(t, repo, "user-1", past)
	d := repo.drafts["user-1"]
	d.Avatar = ""
	repo.drafts["user-1"] = d

	if _, err := svc.CreateFromDraft(context.Background(), "user-1"); !errors.Is(err, ErrMissingAvatar) {
		t.Fatalf("expected ErrMissingAvatar, got %v", err)
	}

	// raza que no corresponde a la especie
	seedDraft(t, repo, "user-2", past)
	d = repo.drafts["user-2"]
	d.Breed = BreedLabrador // gato con raza de perro
	repo.drafts["user-2"] = d

	if _, err := svc.CreateFromDraft(context.Background(), "user-2"); !errors.Is(err, ErrBreedNotForSpecies) {
		t.Fatalf("expected ErrBreedNotForSpecies, got %v", err)
	}

	// fecha de recogida en el futuro
	seedDraft(t, repo, "user-3", now.Add(24*time.Hour))
	if _, err := svc.CreateFromDraft(context.Background(), "user-3"); !errors.Is(err, ErrInvalidPickUpDate) {
		t.Fatalf("expected ErrInvalidPickUpDate, got %v", err)
	}

	// nada se escribió en ningún caso
	if len(repo.animals) != 0 {
		t.Fatalf("expected no writes, got %d animals", len(repo.animals))
	}
}

func TestService_SaveDraftProfile_RejectsBreedMismatch(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil, logger.Nop())

	_, err := svc.SaveDraftProfile(context.Background(), "user-1", ProfileInput{
		Name:    "Rex",
		Species: SpeciesCat,
		Breed:   BreedBeagle,
	})
	if !errors.Is(err, ErrBreedNotForSpecies) {
		t.Fatalf("expected ErrBreedNotForSpecies, got %v", err)
	}
	if len(repo.drafts) != 0 {
		t.Fatalf("expected no draft saved")
	}
}

func TestService_Update_IndexFailureDoesNotFailOperation(t *testing.T) {
	repo := newTestRepo()
	idx := &testIndex{fail: true}
	svc := NewService(repo, idx, nil, logger.Nop())

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.animals["a-1"] = Animal{
		ID:         "a-1",
		Name:       "Mirza",
		Species:    SpeciesCat,
		Status:     StatusOpenToAdoption,
		PickUpDate: now.Add(-24 * time.Hour),
		Avatar:     "animals/a-1/avatar.jpg",
	}

	newStatus := StatusReserved
	a, err := svc.Update(context.Background(), "a-1", UpdateInput{Status: &newStatus})
	if err != nil {
		t.Fatalf("Update must not fail when the index is down: %v", err)
	}
	if a.Status != StatusReserved {
		t.Fatalf("expected status reserved, got %s", a.Status)
	}
	if repo.animals["a-1"].Status != StatusReserved {
		t.Fatalf("expected committed row to keep the update")
	}
}

func TestService_Delete_CleansIndexAndImages(t *testing.T) {
	repo := newTestRepo()
	idx := &testIndex{}
	st := &testStorage{failOn: map[string]bool{"animals/a-1/1.jpg": true}}
	svc := NewService(repo, idx, st, logger.Nop())

	repo.animals["a-1"] = Animal{
		ID:       "a-1",
		Name:     "Mirza",
		Species:  SpeciesCat,
		Avatar:   "animals/a-1/avatar.jpg",
		Pictures: []string{"animals/a-1/1.jpg", "animals/a-1/2.jpg"},
	}

	if err := svc.Delete(context.Background(), "a-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	if len(repo.animals) != 0 {
		t.Fatalf("expected row deleted")
	}
	if len(idx.deleted) != 1 || idx.deleted[0] != "a-1" {
		t.Fatalf("expected index delete for a-1, got %v", idx.deleted)
	}
	// settle all: las 3 referencias se intentaron aunque una falló
	if len(st.deleted) != 3 {
		t.Fatalf("expected 3 image delete attempts, got %v", st.deleted)
	}
}
