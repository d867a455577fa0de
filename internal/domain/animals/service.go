package animals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"rescue-office/internal/platform/logger"
	"rescue-office/internal/platform/postcommit"
	"rescue-office/internal/ports/images"
	"rescue-office/internal/ports/search"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("animal not found")
	ErrDraftNotFound      = errors.New("draft not found")
	ErrProfileIncomplete  = errors.New("draft profile incomplete")
	ErrMissingAvatar      = errors.New("avatar is required")
	ErrBreedNotForSpecies = errors.New("breed does not match species")
	ErrInvalidPickUpDate  = errors.New("invalid pick-up date")
)

// Service es el delegate del módulo: valida, normaliza, escribe en una
// transacción (vía Repository) y despacha efectos post-commit best-effort.
type Service struct {
	repo    Repository
	index   search.Index   // puede ser nil (modo dev sin búsqueda)
	storage images.Storage // puede ser nil
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, index search.Index, storage images.Storage, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		index:   index,
		storage: storage,
		log:     log,
		now:     time.Now,
	}
}

// --- draft (creación multi-paso) ---

type ProfileInput struct {
	Name        string
	Species     Species
	Breed       Breed
	Color       Color
	Description string
}

func (s *Service) SaveDraftProfile(ctx context.Context, ownerUserID string, in ProfileInput) (Draft, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Draft{}, ErrInvalidInput
	}
	if in.Species != "" && !in.Species.Valid() {
		return Draft{}, ErrInvalidInput
	}
	if in.Breed != "" {
		if in.Species == "" || !BreedForSpecies(in.Breed, in.Species) {
			return Draft{}, ErrBreedNotForSpecies
		}
	}

	d, err := s.loadOrInitDraft(ctx, ownerUserID)
	if err != nil {
		return Draft{}, err
	}

	d.Name = strings.TrimSpace(in.Name)
	d.Species = in.Species
	d.Breed = in.Breed
	d.Color = in.Color
	d.Description = strings.TrimSpace(in.Description)
	d.UpdatedAt = s.now()

	if err := s.repo.SaveDraft(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

type PicturesInput struct {
	Avatar   string
	Pictures []string
}

func (s *Service) SaveDraftPictures(ctx context.Context, ownerUserID string, in PicturesInput) (Draft, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Draft{}, ErrInvalidInput
	}

	d, err := s.loadOrInitDraft(ctx, ownerUserID)
	if err != nil {
		return Draft{}, err
	}

	d.Avatar = strings.TrimSpace(in.Avatar)
	d.Pictures = cleanRefs(in.Pictures)
	d.UpdatedAt = s.now()

	if err := s.repo.SaveDraft(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

type SituationInput struct {
	Status         Status
	PickUpDate     *time.Time
	PickUpLocation string
}

func (s *Service) SaveDraftSituation(ctx context.Context, ownerUserID string, in SituationInput) (Draft, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Draft{}, ErrInvalidInput
	}
	if in.Status != "" && !in.Status.Valid() {
		return Draft{}, ErrInvalidInput
	}

	d, err := s.loadOrInitDraft(ctx, ownerUserID)
	if err != nil {
		return Draft{}, err
	}

	d.Status = in.Status
	d.PickUpDate = in.PickUpDate
	d.PickUpLocation = strings.TrimSpace(in.PickUpLocation)
	d.UpdatedAt = s.now()

	if err := s.repo.SaveDraft(ctx, d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

func (s *Service) GetDraft(ctx context.Context, ownerUserID string) (Draft, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Draft{}, ErrInvalidInput
	}
	return s.repo.GetDraft(ctx, ownerUserID)
}

// CreateFromDraft valida el draft completo y lo promueve: inserta el Animal
// y borra el Draft en la misma transacción. El índice se sincroniza después
// del commit; si falla, el animal ya existe igual.
func (s *Service) CreateFromDraft(ctx context.Context, ownerUserID string) (Animal, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Animal{}, ErrInvalidInput
	}

	d, err := s.repo.GetDraft(ctx, ownerUserID)
	if err != nil {
		return Animal{}, err
	}

	if err := validateDraft(d, s.now()); err != nil {
		return Animal{}, err
	}

	now := s.now()
	a := Animal{
		ID:             uuid.NewString(),
		Name:           d.Name,
		Species:        d.Species,
		Breed:          d.Breed,
		Color:          d.Color,
		Status:         d.Status,
		PickUpDate:     *d.PickUpDate,
		PickUpLocation: d.PickUpLocation,
		Avatar:         d.Avatar,
		Pictures:       d.Pictures,
		Description:    d.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.PromoteDraft(ctx, a, ownerUserID); err != nil {
		return Animal{}, err
	}

	postcommit.Run(ctx, s.log, s.indexSaveHook(a))
	return a, nil
}

// --- animal ya creado ---

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name           *string
	Species        *Species
	Breed          *Breed
	Color          *Color
	Status         *Status
	PickUpDate     *time.Time
	PickUpLocation *string
	Avatar         *string
	Pictures       []string // nil = no tocar
	Description    *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}

	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		a.Species = *in.Species
	}
	if in.Breed != nil {
		a.Breed = *in.Breed
	}
	if in.Color != nil {
		a.Color = *in.Color
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if in.PickUpDate != nil {
		a.PickUpDate = *in.PickUpDate
	}
	if in.PickUpLocation != nil {
		a.PickUpLocation = strings.TrimSpace(*in.PickUpLocation)
	}
	if in.Avatar != nil {
		a.Avatar = strings.TrimSpace(*in.Avatar)
	}
	if in.Pictures != nil {
		a.Pictures = cleanRefs(in.Pictures)
	}
	if in.Description != nil {
		a.Description = strings.TrimSpace(*in.Description)
	}

	// mismos invariantes que en la creación, siempre
	if err := validateAnimal(a, s.now()); err != nil {
		return Animal{}, err
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}

	postcommit.Run(ctx, s.log, s.indexSaveHook(a))
	return a, nil
}

// Delete borra la fila y después, best-effort, la entrada del índice y las
// imágenes asociadas (settle all: un fallo individual no frena el resto).
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	refs := append([]string{a.Avatar}, a.Pictures...)
	postcommit.Run(ctx, s.log,
		s.indexDeleteHook(id),
		postcommit.Hook{
			Name: "images.delete-all",
			Run: func(ctx context.Context) error {
				for _, err := range images.DeleteAll(ctx, s.storage, refs) {
					s.log.Warn("image cleanup failed", map[string]any{
						"animal_id": id,
						"err":       err.Error(),
					})
				}
				return nil
			},
		},
	)
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByStatus(ctx context.Context, status Status) ([]Animal, error) {
	if !status.Valid() {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByStatus(ctx, status)
}

func (s *Service) List(ctx context.Context) ([]Animal, error) {
	return s.repo.List(ctx)
}

// Search consulta el índice hosteado (autocomplete del back-office).
func (s *Service) Search(ctx context.Context, query string) ([]search.Record, error) {
	if s.index == nil {
		return nil, nil
	}
	return s.index.Search(ctx, search.IndexAnimals, strings.TrimSpace(query), nil)
}

// --- helpers ---

func (s *Service) loadOrInitDraft(ctx context.Context, ownerUserID string) (Draft, error) {
	d, err := s.repo.GetDraft(ctx, ownerUserID)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, ErrDraftNotFound) {
		return Draft{}, err
	}
	now := s.now()
	return Draft{OwnerUserID: ownerUserID, CreatedAt: now, UpdatedAt: now}, nil
}

func validateDraft(d Draft, now time.Time) error {
	if d.Name == "" || d.Species == "" {
		return ErrProfileIncomplete
	}
	if d.PickUpDate == nil {
		return ErrInvalidPickUpDate
	}

	a := Animal{
		Name:           d.Name,
		Species:        d.Species,
		Breed:          d.Breed,
		Status:         d.Status,
		PickUpDate:     *d.PickUpDate,
		PickUpLocation: d.PickUpLocation,
		Avatar:         d.Avatar,
	}
	return validateAnimal(a, now)
}

func validateAnimal(a Animal, now time.Time) error {
	if a.Name == "" {
		return ErrProfileIncomplete
	}
	if !a.Species.Valid() {
		return ErrProfileIncomplete
	}
	if a.Breed != "" && !BreedForSpecies(a.Breed, a.Species) {
		return ErrBreedNotForSpecies
	}
	if !a.Status.Valid() {
		return ErrInvalidInput
	}
	if a.PickUpDate.IsZero() || a.PickUpDate.After(now) {
		// la fecha de recogida ya pasó por definición
		return ErrInvalidPickUpDate
	}
	if a.Avatar == "" {
		return ErrMissingAvatar
	}
	return nil
}

func cleanRefs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, ref := range in {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		out = append(out, ref)
	}
	return out
}

func (s *Service) indexSaveHook(a Animal) postcommit.Hook {
	return postcommit.Hook{
		Name: "search.save-animal",
		Run: func(ctx context.Context) error {
			if s.index == nil {
				return nil
			}
			return s.index.Save(ctx, search.IndexAnimals, search.Record{
				ID: a.ID,
				Fields: map[string]any{
					"name":            a.Name,
					"species":         string(a.Species),
					"breed":           string(a.Breed),
					"status":          string(a.Status),
					"pickup_location": a.PickUpLocation,
				},
			})
		},
	}
}

func (s *Service) indexDeleteHook(id string) postcommit.Hook {
	return postcommit.Hook{
		Name: "search.delete-animal",
		Run: func(ctx context.Context) error {
			if s.index == nil {
				return nil
			}
			return s.index.Delete(ctx, search.IndexAnimals, id)
		},
	}
}
