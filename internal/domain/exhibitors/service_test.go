package exhibitors

import (
	"context"
	"errors"
	"testing"
	"time"

	"rescue-office/internal/platform/logger"
	"rescue-office/internal/ports/notify"
)

// -------------------------
// Fakes (in-memory)
// -------------------------

type testRepo struct {
	apps       map[string]Application
	exhibitors map[string]Exhibitor
}

func newTestRepo() *testRepo {
	return &testRepo{
		apps:       map[string]Application{},
		exhibitors: map[string]Exhibitor{},
	}
}

func (r *testRepo) CreateApplication(ctx context.Context, app Application) error {
	for _, existing := range r.apps {
		if existing.ContactEmail == app.ContactEmail {
			return ErrEmailAlreadyUsed
		}
		if existing.StructureURL == app.StructureURL {
			return ErrURLAlreadyUsed
		}
	}
	r.apps[app.ID] = app
	return nil
}

func (r *testRepo) GetApplication(ctx context.Context, id string) (Application, error) {
	app, ok := r.apps[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

func (r *testRepo) ListApplications(ctx context.Context) ([]Application, error) {
	out := make([]Application, 0, len(r.apps))
	for _, app := range r.apps {
		out = append(out, app)
	}
	return out, nil
}

func (r *testRepo) UpdateApplicationStatus(ctx context.Context, id string, status ApplicationStatus, refusalMessage *string, updatedAt time.Time, candidate Exhibitor) (Application, bool, error) {
	app, ok := r.apps[id]
	if !ok {
		return Application{}, false, ErrNotFound
	}

	app.Status = status
	app.RefusalMessage = refusalMessage
	app.UpdatedAt = updatedAt

	promoted := false
	if status == StatusValidated && app.ExhibitorID == nil {
		candidate.Name = app.StructureName
		candidate.Stand.StandSizeID = app.DesiredStandSizeID
		candidate.Stand.DividerID = app.DesiredDividerID
		candidate.Stand.DividerCount = app.DividerCount
		candidate.Stand.TableCount = app.TableCount
		r.exhibitors[candidate.ID] = candidate
		app.ExhibitorID = &candidate.ID
		promoted = true
	}

	r.apps[id] = app
	return app, promoted, nil
}

func (r *testRepo) GetExhibitor(ctx context.Context, id string) (Exhibitor, error) {
	e, ok := r.exhibitors[id]
	if !ok {
		return Exhibitor{}, ErrExhibitorNotFound
	}
	return e, nil
}

func (r *testRepo) ListExhibitors(ctx context.Context) ([]Exhibitor, error) {
	out := make([]Exhibitor, 0, len(r.exhibitors))
	for _, e := range r.exhibitors {
		out = append(out, e)
	}
	return out, nil
}

type testNotifier struct {
	events []notify.Event
	fail   bool
}

func (n *testNotifier) Send(ctx context.Context, e notify.Event) error {
	if n.fail {
		return errors.New("smtp: down")
	}
	n.events = append(n.events, e)
	return nil
}

func submit(t *testing.T, svc *Service) Application {
	t.Helper()
	app, err := svc.SubmitApplication(context.Background(), ApplicationInput{
		ContactFirstName: "Ana",
		ContactLastName:  "García",
		ContactEmail:     "ana@refugio.org",
		StructureName:    "Refugio Patitas",
		StructureURL:     "https://refugio-patitas.org",
		DividerCount:     3,
		TableCount:       1,
	})
	if err != nil {
		t.Fatalf("SubmitApplication error: %v", err)
	}
	return app
}

// -------------------------
// Tests
// -------------------------

func TestService_UpdateStatus_RefusalRequiresMessage(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, logger.Nop())

	app := submit(t, svc)

	_, err := svc.UpdateStatus(context.Background(), app.ID, StatusRefused, nil)
	if !errors.Is(err, ErrMissingRefusalMessage) {
		t.Fatalf("expected ErrMissingRefusalMessage, got %v", err)
	}

	empty := "   "
	_, err = svc.UpdateStatus(context.Background(), app.ID, StatusRefused, &empty)
	if !errors.Is(err, ErrMissingRefusalMessage) {
		t.Fatalf("expected ErrMissingRefusalMessage for blank message, got %v", err)
	}

	// nada se escribió
	got, _ := repo.GetApplication(context.Background(), app.ID)
	if got.Status != StatusUntreated {
		t.Fatalf("expected status untreated (no write), got %s", got.Status)
	}
}

func TestService_UpdateStatus_NormalizesRefusalMessage(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, logger.Nop())

	app := submit(t, svc)

	msg := "no hay lugar este año"
	refused, err := svc.UpdateStatus(context.Background(), app.ID, StatusRefused, &msg)
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if refused.RefusalMessage == nil || *refused.RefusalMessage != msg {
		t.Fatalf("expected refusal message kept, got %v", refused.RefusalMessage)
	}

	// pasar a otro status fuerza el mensaje a nil aunque venga seteado
	leftover := "esto no debería quedar"
	waitlisted, err := svc.UpdateStatus(context.Background(), app.ID, StatusWaitlisted, &leftover)
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if waitlisted.RefusalMessage != nil {
		t.Fatalf("expected refusal message cleared, got %q", *waitlisted.RefusalMessage)
	}
}

func TestService_UpdateStatus_PromotesExactlyOnce(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, logger.Nop())

	app := submit(t, svc)

	first, err := svc.UpdateStatus(context.Background(), app.ID, StatusValidated, nil)
	if err != nil {
		t.Fatalf("UpdateStatus #1 error: %v", err)
	}
	if first.ExhibitorID == nil {
		t.Fatalf("expected exhibitor created on validation")
	}
	firstID := *first.ExhibitorID

	// segunda validación: no debe crear otro agregado
	second, err := svc.UpdateStatus(context.Background(), app.ID, StatusValidated, nil)
	if err != nil {
		t.Fatalf("UpdateStatus #2 error: %v", err)
	}
	if second.ExhibitorID == nil || *second.ExhibitorID != firstID {
		t.Fatalf("expected same exhibitor id, got %v", second.ExhibitorID)
	}
	if len(repo.exhibitors) != 1 {
		t.Fatalf("expected exactly 1 exhibitor, got %d", len(repo.exhibitors))
	}

	// el agregado hereda los datos de la candidatura
	e := repo.exhibitors[firstID]
	if e.Name != "Refugio Patitas" || e.Stand.DividerCount != 3 {
		t.Fatalf("expected aggregate built from application, got %#v", e)
	}
}

func TestService_UpdateStatus_NotifiesBestEffort(t *testing.T) {
	repo := newTestRepo()
	n := &testNotifier{}
	svc := NewService(repo, n, logger.Nop())

	app := submit(t, svc)

	if _, err := svc.UpdateStatus(context.Background(), app.ID, StatusWaitlisted, nil); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if len(n.events) != 1 || n.events[0].Type != notify.EventApplicationStatusUpdated {
		t.Fatalf("expected 1 status-updated event, got %#v", n.events)
	}

	// notifier caído: la operación igual pasa
	n.fail = true
	app2, err := svc.UpdateStatus(context.Background(), app.ID, StatusValidated, nil)
	if err != nil {
		t.Fatalf("UpdateStatus must not fail when notifier is down: %v", err)
	}
	if app2.Status != StatusValidated {
		t.Fatalf("expected committed status, got %s", app2.Status)
	}
}

func TestService_SubmitApplication_UniquenessMapping(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, logger.Nop())

	submit(t, svc)

	_, err := svc.SubmitApplication(context.Background(), ApplicationInput{
		ContactEmail:  "ana@refugio.org",
		StructureName: "Otro refugio",
		StructureURL:  "https://otro.org",
	})
	if !errors.Is(err, ErrEmailAlreadyUsed) {
		t.Fatalf("expected ErrEmailAlreadyUsed, got %v", err)
	}

	_, err = svc.SubmitApplication(context.Background(), ApplicationInput{
		ContactEmail:  "otra@refugio.org",
		StructureName: "Otro refugio",
		StructureURL:  "https://refugio-patitas.org",
	})
	if !errors.Is(err, ErrURLAlreadyUsed) {
		t.Fatalf("expected ErrURLAlreadyUsed, got %v", err)
	}
}
