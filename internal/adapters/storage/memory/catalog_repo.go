package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"rescue-office/internal/domain/catalog"
)

type catalogRepo struct {
	mu       sync.RWMutex
	dividers map[string]catalog.DividerType
	stands   map[string]catalog.StandSize

	// el uso sale de las configuraciones de stand de los expositores,
	// igual que el LEFT JOIN en Postgres
	exhibitors *ExhibitorsRepo
}

func NewCatalogRepo(exhibitors *ExhibitorsRepo) catalog.Repository {
	return &catalogRepo{
		dividers:   make(map[string]catalog.DividerType),
		stands:     make(map[string]catalog.StandSize),
		exhibitors: exhibitors,
	}
}

func (r *catalogRepo) CreateDividerType(ctx context.Context, d catalog.DividerType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(d.ID) == "" {
		return errors.New("divider type id required")
	}
	for _, existing := range r.dividers {
		if existing.Label == d.Label {
			return catalog.ErrAlreadyExist
		}
	}
	r.dividers[d.ID] = d
	return nil
}

func (r *catalogRepo) UpdateDividerType(ctx context.Context, d catalog.DividerType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.dividers[d.ID]; !exists {
		return catalog.ErrNotFound
	}
	for id, existing := range r.dividers {
		if id != d.ID && existing.Label == d.Label {
			return catalog.ErrAlreadyExist
		}
	}
	if d.MaxCount < r.dividerUsage(d.ID) {
		return catalog.ErrMaxCountBelowUsage
	}
	r.dividers[d.ID] = d
	return nil
}

func (r *catalogRepo) GetDividerType(ctx context.Context, id string) (catalog.DividerTypeUsage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.dividers[id]
	if !ok {
		return catalog.DividerTypeUsage{}, catalog.ErrNotFound
	}
	return catalog.DividerTypeUsage{DividerType: d, UsedCount: r.dividerUsage(id)}, nil
}

func (r *catalogRepo) ListDividerTypes(ctx context.Context) ([]catalog.DividerTypeUsage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.DividerTypeUsage, 0, len(r.dividers))
	for id, d := range r.dividers {
		out = append(out, catalog.DividerTypeUsage{DividerType: d, UsedCount: r.dividerUsage(id)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *catalogRepo) CreateStandSize(ctx context.Context, s catalog.StandSize) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("stand size id required")
	}
	for _, existing := range r.stands {
		if existing.Label == s.Label {
			return catalog.ErrAlreadyExist
		}
	}
	r.stands[s.ID] = s
	return nil
}

func (r *catalogRepo) UpdateStandSize(ctx context.Context, s catalog.StandSize) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stands[s.ID]; !exists {
		return catalog.ErrNotFound
	}
	for id, existing := range r.stands {
		if id != s.ID && existing.Label == s.Label {
			return catalog.ErrAlreadyExist
		}
	}
	if s.MaxCount < r.standUsage(s.ID) {
		return catalog.ErrMaxCountBelowUsage
	}
	r.stands[s.ID] = s
	return nil
}

func (r *catalogRepo) GetStandSize(ctx context.Context, id string) (catalog.StandSizeUsage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stands[id]
	if !ok {
		return catalog.StandSizeUsage{}, catalog.ErrNotFound
	}
	return catalog.StandSizeUsage{StandSize: s, UsedCount: r.standUsage(id)}, nil
}

func (r *catalogRepo) ListStandSizes(ctx context.Context) ([]catalog.StandSizeUsage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.StandSizeUsage, 0, len(r.stands))
	for id, s := range r.stands {
		out = append(out, catalog.StandSizeUsage{StandSize: s, UsedCount: r.standUsage(id)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *catalogRepo) dividerUsage(dividerID string) int {
	if r.exhibitors == nil {
		return 0
	}
	used := 0
	for _, stand := range r.exhibitors.standConfigurations() {
		if stand.DividerID == dividerID {
			used += stand.DividerCount
		}
	}
	return used
}

func (r *catalogRepo) standUsage(standSizeID string) int {
	if r.exhibitors == nil {
		return 0
	}
	used := 0
	for _, stand := range r.exhibitors.standConfigurations() {
		if stand.StandSizeID == standSizeID {
			used++
		}
	}
	return used
}
