package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"rescue-office/internal/domain/exhibitors"
)

// ExhibitorsRepo se exporta como tipo concreto porque el repo de catálogo
// en memoria lee sus configuraciones de stand para calcular el uso.
type ExhibitorsRepo struct {
	mu           sync.RWMutex
	applications map[string]exhibitors.Application
	exhibitors   map[string]exhibitors.Exhibitor
	byEmail      map[string]string
	byURL        map[string]string
}

func NewExhibitorsRepo() *ExhibitorsRepo {
	return &ExhibitorsRepo{
		applications: make(map[string]exhibitors.Application),
		exhibitors:   make(map[string]exhibitors.Exhibitor),
		byEmail:      make(map[string]string),
		byURL:        make(map[string]string),
	}
}

func (r *ExhibitorsRepo) CreateApplication(ctx context.Context, app exhibitors.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(app.ID) == "" {
		return errors.New("application id required")
	}
	if _, taken := r.byEmail[app.ContactEmail]; taken {
		return exhibitors.ErrEmailAlreadyUsed
	}
	if _, taken := r.byURL[app.StructureURL]; taken {
		return exhibitors.ErrURLAlreadyUsed
	}

	r.applications[app.ID] = app
	r.byEmail[app.ContactEmail] = app.ID
	r.byURL[app.StructureURL] = app.ID
	return nil
}

func (r *ExhibitorsRepo) GetApplication(ctx context.Context, id string) (exhibitors.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.applications[id]
	if !ok {
		return exhibitors.Application{}, exhibitors.ErrNotFound
	}
	return app, nil
}

func (r *ExhibitorsRepo) ListApplications(ctx context.Context) ([]exhibitors.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]exhibitors.Application, 0, len(r.applications))
	for _, app := range r.applications {
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateApplicationStatus reproduce la transacción de Postgres bajo un solo
// lock: status, refusal message y, como mucho una vez, la promoción.
func (r *ExhibitorsRepo) UpdateApplicationStatus(ctx context.Context, id string, status exhibitors.ApplicationStatus, refusalMessage *string, updatedAt time.Time, candidate exhibitors.Exhibitor) (exhibitors.Application, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.applications[id]
	if !ok {
		return exhibitors.Application{}, false, exhibitors.ErrNotFound
	}

	current.Status = status
	current.RefusalMessage = refusalMessage
	current.UpdatedAt = updatedAt

	promoted := false
	if status == exhibitors.StatusValidated && current.ExhibitorID == nil {
		candidate.ApplicationID = current.ID
		candidate.Name = current.StructureName
		candidate.Stand.StandSizeID = current.DesiredStandSizeID
		candidate.Stand.DividerID = current.DesiredDividerID
		candidate.Stand.DividerCount = current.DividerCount
		candidate.Stand.TableCount = current.TableCount
		candidate.CreatedAt = updatedAt
		candidate.UpdatedAt = updatedAt

		r.exhibitors[candidate.ID] = candidate
		current.ExhibitorID = &candidate.ID
		promoted = true
	}

	r.applications[id] = current
	return current, promoted, nil
}

func (r *ExhibitorsRepo) GetExhibitor(ctx context.Context, id string) (exhibitors.Exhibitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.exhibitors[id]
	if !ok {
		return exhibitors.Exhibitor{}, exhibitors.ErrExhibitorNotFound
	}
	return e, nil
}

func (r *ExhibitorsRepo) ListExhibitors(ctx context.Context) ([]exhibitors.Exhibitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]exhibitors.Exhibitor, 0, len(r.exhibitors))
	for _, e := range r.exhibitors {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// standConfigurations devuelve una copia de las configuraciones de stand
// actuales; lo usa el repo de catálogo para agregar el uso.
func (r *ExhibitorsRepo) standConfigurations() []exhibitors.StandConfiguration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]exhibitors.StandConfiguration, 0, len(r.exhibitors))
	for _, e := range r.exhibitors {
		out = append(out, e.Stand)
	}
	return out
}
