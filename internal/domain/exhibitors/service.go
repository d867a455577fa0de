package exhibitors

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
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("application not found")
	ErrExhibitorNotFound     = errors.New("exhibitor not found")
	ErrEmailAlreadyUsed      = errors.New("contact email already used")
	ErrURLAlreadyUsed        = errors.New("structure url already used")
	ErrMissingRefusalMessage = errors.New("refusal requires a message")
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

type ApplicationInput struct {
	ContactFirstName string
	ContactLastName  string
	ContactEmail     string

	StructureName string
	StructureURL  string

	DesiredStandSizeID string
	DesiredDividerID   string
	DividerCount       int
	TableCount         int
}

func (s *Service) SubmitApplication(ctx context.Context, in ApplicationInput) (Application, error) {
	email := strings.ToLower(strings.TrimSpace(in.ContactEmail))
	structureName := strings.TrimSpace(in.StructureName)
	structureURL := strings.TrimSpace(in.StructureURL)

	if email == "" || structureName == "" || structureURL == "" {
		return Application{}, ErrInvalidInput
	}
	if in.DividerCount < 0 || in.TableCount < 0 {
		return Application{}, ErrInvalidInput
	}

	now := s.now()
	app := Application{
		ID:                 uuid.NewString(),
		ContactFirstName:   strings.TrimSpace(in.ContactFirstName),
		ContactLastName:    strings.TrimSpace(in.ContactLastName),
		ContactEmail:       email,
		StructureName:      structureName,
		StructureURL:       structureURL,
		DesiredStandSizeID: strings.TrimSpace(in.DesiredStandSizeID),
		DesiredDividerID:   strings.TrimSpace(in.DesiredDividerID),
		DividerCount:       in.DividerCount,
		TableCount:         in.TableCount,
		Status:             StatusUntreated,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// UpdateStatus valida y normaliza antes de escribir:
// - refused exige mensaje (se corta acá, sin tocar la base),
// - cualquier otro status fuerza el mensaje a nil, venga lo que venga.
// La promoción a Exhibitor pasa como candidato al repo, que decide
// dentro de la transacción (exhibitor_id null) si lo crea o no.
func (s *Service) UpdateStatus(ctx context.Context, id string, status ApplicationStatus, refusalMessage *string) (Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Application{}, ErrInvalidInput
	}
	if !status.Valid() {
		return Application{}, ErrInvalidInput
	}

	// validate
	if status == StatusRefused {
		if refusalMessage == nil || strings.TrimSpace(*refusalMessage) == "" {
			return Application{}, ErrMissingRefusalMessage
		}
		msg := strings.TrimSpace(*refusalMessage)
		refusalMessage = &msg
	} else {
		// normalize
		refusalMessage = nil
	}

	now := s.now()

	app, promoted, err := s.repo.UpdateApplicationStatus(ctx, id, status, refusalMessage, now, s.buildCandidate(id, now))
	if err != nil {
		return Application{}, err
	}

	if promoted {
		s.log.Info("application promoted to exhibitor", map[string]any{
			"application_id": app.ID,
			"exhibitor_id":   deref(app.ExhibitorID),
		})
	}

	postcommit.Run(ctx, s.log, postcommit.Hook{
		Name: "notify.application-status-updated",
		Run: func(ctx context.Context) error {
			if s.notifier == nil {
				return nil
			}
			return s.notifier.Send(ctx, notify.Event{
				Type:        notify.EventApplicationStatusUpdated,
				AggregateID: app.ID,
				Data: map[string]any{
					"status":         string(app.Status),
					"contact_email":  app.ContactEmail,
					"structure_name": app.StructureName,
				},
			})
		},
	})

	return app, nil
}

func (s *Service) GetApplication(ctx context.Context, id string) (Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Application{}, ErrInvalidInput
	}
	return s.repo.GetApplication(ctx, id)
}

func (s *Service) ListApplications(ctx context.Context) ([]Application, error) {
	return s.repo.ListApplications(ctx)
}

func (s *Service) GetExhibitor(ctx context.Context, id string) (Exhibitor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Exhibitor{}, ErrInvalidInput
	}
	return s.repo.GetExhibitor(ctx, id)
}

func (s *Service) ListExhibitors(ctx context.Context) ([]Exhibitor, error) {
	return s.repo.ListExhibitors(ctx)
}

// buildCandidate genera el agregado con IDs frescos. Si el repo decide no
// promover (status distinto o exhibitor_id ya seteado), se descarta.
func (s *Service) buildCandidate(applicationID string, now time.Time) Exhibitor {
	return Exhibitor{
		ID:            uuid.NewString(),
		ApplicationID: applicationID,
		Profile:       Profile{ID: uuid.NewString()},
		Stand:         StandConfiguration{ID: uuid.NewString()},
		Documents:     Documents{ID: uuid.NewString(), FolderID: uuid.NewString()},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
