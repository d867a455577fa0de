package fosterfamilies

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rescue-office/internal/domain/animals"
	"rescue-office/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/foster-families", func(fr chi.Router) {
		fr.Get("/", listFamiliesHandler(svc))
		fr.Post("/", createFamilyHandler(svc))
		fr.Get("/{familyID}", getFamilyHandler(svc))
		fr.Put("/{familyID}", updateFamilyHandler(svc))
		fr.Delete("/{familyID}", deleteFamilyHandler(svc))
	})
}

type familyRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`

	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`

	Availability          string `json:"availability"`
	AvailabilityExpiresAt string `json:"availability_expires_at"` // YYYY-MM-DD opcional

	SpeciesAlreadyPresent []string `json:"species_already_present"`
	SpeciesToHost         []string `json:"species_to_host"`

	Comments string `json:"comments"`
}

type familyResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`

	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`

	Availability          string     `json:"availability"`
	AvailabilityExpiresAt *time.Time `json:"availability_expires_at,omitempty"`

	SpeciesAlreadyPresent []string `json:"species_already_present"`
	SpeciesToHost         []string `json:"species_to_host"`

	Comments  string    `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (req familyRequest) toInput() (Input, error) {
	var expires *time.Time
	if req.AvailabilityExpiresAt != "" {
		t, err := time.Parse("2006-01-02", req.AvailabilityExpiresAt)
		if err != nil {
			return Input{}, err
		}
		expires = &t
	}

	return Input{
		DisplayName:           req.DisplayName,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Address:               req.Address,
		City:                  req.City,
		ZipCode:               req.ZipCode,
		Availability:          Availability(req.Availability),
		AvailabilityExpiresAt: expires,
		SpeciesAlreadyPresent: toSpecies(req.SpeciesAlreadyPresent),
		SpeciesToHost:         toSpecies(req.SpeciesToHost),
		Comments:              req.Comments,
	}, nil
}

func createFamilyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req familyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		in, err := req.toInput()
		if err != nil {
			http.Error(w, "availability_expires_at must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		f, err := svc.Create(r.Context(), in)
		if err != nil {
			writeFamilyError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toFamilyResponse(f))
	}
}

func updateFamilyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req familyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		in, err := req.toInput()
		if err != nil {
			http.Error(w, "availability_expires_at must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		f, err := svc.Update(r.Context(), chi.URLParam(r, "familyID"), in)
		if err != nil {
			writeFamilyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFamilyResponse(f))
	}
}

func getFamilyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := svc.GetByID(r.Context(), chi.URLParam(r, "familyID"))
		if err != nil {
			writeFamilyError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFamilyResponse(f))
	}
}

func listFamiliesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeFamilyError(w, err)
			return
		}

		out := make([]familyResponse, 0, len(items))
		for _, f := range items {
			out = append(out, toFamilyResponse(f))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteFamilyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "familyID")); err != nil {
			writeFamilyError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeFamilyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrEmailAlreadyUsed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrMissingSpeciesToHost),
		errors.Is(err, ErrInvalidAvailabilityDate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toFamilyResponse(f FosterFamily) familyResponse {
	return familyResponse{
		ID:                    f.ID,
		DisplayName:           f.DisplayName,
		Email:                 f.Email,
		Phone:                 f.Phone,
		Address:               f.Address,
		City:                  f.City,
		ZipCode:               f.ZipCode,
		Availability:          string(f.Availability),
		AvailabilityExpiresAt: f.AvailabilityExpiresAt,
		SpeciesAlreadyPresent: fromSpecies(f.SpeciesAlreadyPresent),
		SpeciesToHost:         fromSpecies(f.SpeciesToHost),
		Comments:              f.Comments,
		CreatedAt:             f.CreatedAt,
		UpdatedAt:             f.UpdatedAt,
	}
}

func toSpecies(in []string) []animals.Species {
	out := make([]animals.Species, 0, len(in))
	for _, s := range in {
		out = append(out, animals.Species(s))
	}
	return out
}

func fromSpecies(in []animals.Species) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
