package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"rescue-office/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Get("/", listAnimalsHandler(svc))
		ar.Get("/search", searchAnimalsHandler(svc))
		ar.Post("/", createAnimalHandler(svc))

		// creación multi-paso: draft por usuario
		ar.Route("/draft", func(dr chi.Router) {
			dr.Get("/", getDraftHandler(svc))
			dr.Put("/profile", saveDraftProfileHandler(svc))
			dr.Put("/pictures", saveDraftPicturesHandler(svc))
			dr.Put("/situation", saveDraftSituationHandler(svc))
		})

		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Patch("/{animalID}", updateAnimalHandler(svc))
		ar.Delete("/{animalID}", deleteAnimalHandler(svc))
	})
}

type draftProfileRequest struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type draftPicturesRequest struct {
	Avatar   string   `json:"avatar"`
	Pictures []string `json:"pictures"`
}

type draftSituationRequest struct {
	Status         string `json:"status"`
	PickUpDate     string `json:"pick_up_date"` // YYYY-MM-DD
	PickUpLocation string `json:"pick_up_location"`
}

type draftResponse struct {
	OwnerUserID    string     `json:"owner_user_id"`
	Name           string     `json:"name"`
	Species        string     `json:"species"`
	Breed          string     `json:"breed"`
	Color          string     `json:"color"`
	Description    string     `json:"description"`
	Avatar         string     `json:"avatar"`
	Pictures       []string   `json:"pictures"`
	Status         string     `json:"status"`
	PickUpDate     *time.Time `json:"pick_up_date,omitempty"`
	PickUpLocation string     `json:"pick_up_location"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type animalResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Species        string    `json:"species"`
	Breed          string    `json:"breed"`
	Color          string    `json:"color"`
	Status         string    `json:"status"`
	PickUpDate     time.Time `json:"pick_up_date"`
	PickUpLocation string    `json:"pick_up_location"`
	Avatar         string    `json:"avatar"`
	Pictures       []string  `json:"pictures"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type updateAnimalRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name           *string  `json:"name"`
	Species        *string  `json:"species"`
	Breed          *string  `json:"breed"`
	Color          *string  `json:"color"`
	Status         *string  `json:"status"`
	PickUpDate     *string  `json:"pick_up_date"` // YYYY-MM-DD
	PickUpLocation *string  `json:"pick_up_location"`
	Avatar         *string  `json:"avatar"`
	Pictures       []string `json:"pictures"`
	Description    *string  `json:"description"`
}

func saveDraftProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req draftProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.SaveDraftProfile(r.Context(), claims.UserID, ProfileInput{
			Name:        req.Name,
			Species:     Species(req.Species),
			Breed:       Breed(req.Breed),
			Color:       Color(req.Color),
			Description: req.Description,
		})
		if err != nil {
			writeAnimalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDraftResponse(d))
	}
}

func saveDraftPicturesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req draftPicturesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.SaveDraftPictures(r.Context(), claims.UserID, PicturesInput{
			Avatar:   req.Avatar,
			Pictures: req.Pictures,
		})
		if err != nil {
			writeAnimalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDraftResponse(d))
	}
}

func saveDraftSituationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req draftSituationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var pickUp *time.Time
		if strings.TrimSpace(req.PickUpDate) != "" {
			t, err := time.Parse("2006-01-02", req.PickUpDate)
			if err != nil {
				http.Error(w, "pick_up_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			pickUp = &t
		}

		d, err := svc.SaveDraftSituation(r.Context(), claims.UserID, SituationInput{
			Status:         Status(req.Status),
			PickUpDate:     pickUp,
			PickUpLocation: req.PickUpLocation,
		})
		if err != nil {
			writeAnimalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDraftResponse(d))
	}
}

func getDraftHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		d, err := svc.GetDraft(r.Context(), claims.UserID)
		if err != nil {
			writeAnimalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDraftResponse(d))
	}
}

func createAnimalHandler(svc *Service) http.HandlerFunc {
	// POST /animals promueve el draft del usuario autenticado
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.CreateFromDraft(r.Context(), claims.UserID)
		if err != nil {
			writeAnimalError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeAnimalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			items []Animal
			err   error
		)
		if st := strings.TrimSpace(r.URL.Query().Get("status")); st != "" {
			items, err = svc.ListByStatus(r.Context(), Status(st))
		} else {
			items, err = svc.List(r.Context())
		}
		if err != nil {
			writeAnimalError(w, err)
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func searchAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := svc.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			http.Error(w, "search unavailable", http.StatusBadGateway)
			return
		}

		type hit struct {
			ID     string         `json:"id"`
			Fields map[string]any `json:"fields"`
		}
		out := make([]hit, 0, len(recs))
		for _, rec := range recs {
			out = append(out, hit{ID: rec.ID, Fields: rec.Fields})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateAnimalRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			PickUpLocation: req.PickUpLocation,
			Avatar:         req.Avatar,
			Pictures:       req.Pictures,
			Description:    req.Description,
			Name:           req.Name,
		}
		if req.Species != nil {
			sp := Species(*req.Species)
			in.Species = &sp
		}
		if req.Breed != nil {
			b := Breed(*req.Breed)
			in.Breed = &b
		}
		if req.Color != nil {
			c := Color(*req.Color)
			in.Color = &c
		}
		if req.Status != nil {
			st := Status(*req.Status)
			in.Status = &st
		}
		if req.PickUpDate != nil {
			t, err := time.Parse("2006-01-02", *req.PickUpDate)
			if err != nil {
				http.Error(w, "pick_up_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.PickUpDate = &t
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "animalID"), in)
		if err != nil {
			writeAnimalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "animalID")); err != nil {
			writeAnimalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeAnimalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDraftNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrProfileIncomplete),
		errors.Is(err, ErrMissingAvatar),
		errors.Is(err, ErrBreedNotForSpecies),
		errors.Is(err, ErrInvalidPickUpDate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toDraftResponse(d Draft) draftResponse {
	return draftResponse{
		OwnerUserID:    d.OwnerUserID,
		Name:           d.Name,
		Species:        string(d.Species),
		Breed:          string(d.Breed),
		Color:          string(d.Color),
		Description:    d.Description,
		Avatar:         d.Avatar,
		Pictures:       d.Pictures,
		Status:         string(d.Status),
		PickUpDate:     d.PickUpDate,
		PickUpLocation: d.PickUpLocation,
		UpdatedAt:      d.UpdatedAt,
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:             a.ID,
		Name:           a.Name,
		Species:        string(a.Species),
		Breed:          string(a.Breed),
		Color:          string(a.Color),
		Status:         string(a.Status),
		PickUpDate:     a.PickUpDate,
		PickUpLocation: a.PickUpLocation,
		Avatar:         a.Avatar,
		Pictures:       a.Pictures,
		Description:    a.Description,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
