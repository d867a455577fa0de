package fosterfamilies

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"rescue-office/internal/domain/animals"
	"rescue-office/internal/platform/logger"
	"rescue-office/internal/platform/postcommit"
	"rescue-office/internal/ports/search"
)

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrNotFound                = errors.New("foster family not found")
	ErrEmailAlreadyUsed        = errors.New("email already used")
	ErrMissingSpeciesToHost    = errors.New("species to host must not be empty")
	ErrInvalidAvailabilityDate = errors.New("invalid availability expiration date")
)

type Service struct {
	repo  Repository
	index search.Index // puede ser nil
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, index search.Index, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  repo,
		index: index,
		log:   log,
		now:   time.Now,
	}
}

type Input struct {
	DisplayName string
	Email       string
	Phone       string

	Address string
	City    string
	ZipCode string

	Availability          Availability
	AvailabilityExpiresAt *time.Time

	SpeciesAlreadyPresent []animals.Species
	SpeciesToHost         []animals.Species

	Comments string
}

func (s *Service) Create(ctx context.Context, in Input) (FosterFamily, error) {
	f, err := s.buildFromInput(FosterFamily{}, in)
	if err != nil {
		return FosterFamily{}, err
	}

	now := s.now()
	f.ID = uuid.NewString()
	f.CreatedAt = now
	f.UpdatedAt = now

	if err := s.repo.Create(ctx, f); err != nil {
		return FosterFamily{}, err
	}

	postcommit.Run(ctx, s.log, s.indexSaveHook(f))
	return f, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (FosterFamily, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return FosterFamily{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return FosterFamily{}, err
	}

	f, err := s.buildFromInput(current, in)
	if err != nil {
		return FosterFamily{}, err
	}
	f.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, f); err != nil {
		return FosterFamily{}, err
	}

	postcommit.Run(ctx, s.log, s.indexSaveHook(f))
	return f, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	postcommit.Run(ctx, s.log, postcommit.Hook{
		Name: "search.delete-foster-family",
		Run: func(ctx context.Context) error {
			if s.index == nil {
				return nil
			}
			return s.index.Delete(ctx, search.IndexFosterFamilies, id)
		},
	})
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (FosterFamily, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return FosterFamily{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]FosterFamily, error) {
	return s.repo.List(ctx)
}

// buildFromInput aplica validate + normalize sobre la base (vacía en create,
// la fila actual en update). Invariantes que el schema no puede expresar:
// species-to-host no vacío, expiración coherente con availability.
func (s *Service) buildFromInput(base FosterFamily, in Input) (FosterFamily, error) {
	f := base

	f.DisplayName = strings.TrimSpace(in.DisplayName)
	f.Email = strings.ToLower(strings.TrimSpace(in.Email))
	f.Phone = strings.TrimSpace(in.Phone)
	f.Address = strings.TrimSpace(in.Address)
	f.City = strings.TrimSpace(in.City)
	f.ZipCode = strings.TrimSpace(in.ZipCode)
	f.Comments = strings.TrimSpace(in.Comments)

	if f.DisplayName == "" || f.Email == "" {
		return FosterFamily{}, ErrInvalidInput
	}

	availability := in.Availability
	if availability == "" {
		availability = AvailabilityUnknown
	}
	if !availability.Valid() {
		return FosterFamily{}, ErrInvalidInput
	}
	f.Availability = availability

	// normalize: la expiración no significa nada con availability unknown
	f.AvailabilityExpiresAt = in.AvailabilityExpiresAt
	if availability == AvailabilityUnknown {
		f.AvailabilityExpiresAt = nil
	}
	if f.AvailabilityExpiresAt != nil && !f.AvailabilityExpiresAt.After(s.now()) {
		return FosterFamily{}, ErrInvalidAvailabilityDate
	}

	toHost, err := normalizeSpecies(in.SpeciesToHost)
	if err != nil {
		return FosterFamily{}, err
	}
	if len(toHost) == 0 {
		return FosterFamily{}, ErrMissingSpeciesToHost
	}
	f.SpeciesToHost = toHost

	present, err := normalizeSpecies(in.SpeciesAlreadyPresent)
	if err != nil {
		return FosterFamily{}, err
	}
	f.SpeciesAlreadyPresent = present

	return f, nil
}

func normalizeSpecies(in []animals.Species) ([]animals.Species, error) {
	seen := map[animals.Species]struct{}{}
	out := make([]animals.Species, 0, len(in))

	for _, sp := range in {
		if sp == "" {
			continue
		}
		if !sp.Valid() {
			return nil, ErrInvalidInput
		}
		if _, ok := seen[sp]; ok {
			continue
		}
		seen[sp] = struct{}{}
		out = append(out, sp)
	}
	return out, nil
}

func (s *Service) indexSaveHook(f FosterFamily) postcommit.Hook {
	return postcommit.Hook{
		Name: "search.save-foster-family",
		Run: func(ctx context.Context) error {
			if s.index == nil {
				return nil
			}
			toHost := make([]string, 0, len(f.SpeciesToHost))
			for _, sp := range f.SpeciesToHost {
				toHost = append(toHost, string(sp))
			}
			return s.index.Save(ctx, search.IndexFosterFamilies, search.Record{
				ID: f.ID,
				Fields: map[string]any{
					"display_name":    f.DisplayName,
					"city":            f.City,
					"zip_code":        f.ZipCode,
					"availability":    string(f.Availability),
					"species_to_host": toHost,
				},
			})
		},
	}
}
