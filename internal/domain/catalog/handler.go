package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rescue-office/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/show/dividers", func(dr chi.Router) {
		dr.Get("/", listDividerTypesHandler(svc))
		dr.Post("/", createDividerTypeHandler(svc))
		dr.Get("/{dividerID}", getDividerTypeHandler(svc))
		dr.Put("/{dividerID}", updateDividerTypeHandler(svc))
	})

	r.Route("/show/stand-sizes", func(sr chi.Router) {
		sr.Get("/", listStandSizesHandler(svc))
		sr.Post("/", createStandSizeHandler(svc))
		sr.Get("/{standSizeID}", getStandSizeHandler(svc))
		sr.Put("/{standSizeID}", updateStandSizeHandler(svc))
	})
}

type dividerTypeRequest struct {
	Label    string `json:"label"`
	MaxCount int    `json:"max_count"`
}

type standSizeRequest struct {
	Label      string `json:"label"`
	MaxCount   int    `json:"max_count"`
	PriceCents int64  `json:"price_cents"`
}

type dividerTypeResponse struct {
	ID                string    `json:"id"`
	Label             string    `json:"label"`
	MaxCount          int       `json:"max_count"`
	UsedCount         int       `json:"used_count"`
	AvailabilityRatio float64   `json:"availability_ratio"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type standSizeResponse struct {
	ID                string    `json:"id"`
	Label             string    `json:"label"`
	MaxCount          int       `json:"max_count"`
	PriceCents        int64     `json:"price_cents"`
	UsedCount         int       `json:"used_count"`
	AvailabilityRatio float64   `json:"availability_ratio"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func createDividerTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req dividerTypeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.CreateDividerType(r.Context(), DividerTypeInput{Label: req.Label, MaxCount: req.MaxCount})
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		// recién creado: uso 0
		writeJSON(w, http.StatusCreated, dividerTypeResponse{
			ID: d.ID, Label: d.Label, MaxCount: d.MaxCount,
			CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
		})
	}
}

func updateDividerTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req dividerTypeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.UpdateDividerType(r.Context(), chi.URLParam(r, "dividerID"), DividerTypeInput{Label: req.Label, MaxCount: req.MaxCount})
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDividerResponse(d))
	}
}

func getDividerTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetDividerType(r.Context(), chi.URLParam(r, "dividerID"))
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDividerResponse(d))
	}
}

func listDividerTypesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListDividerTypes(r.Context())
		if err != nil {
			writeCatalogError(w, err)
			return
		}

		out := make([]dividerTypeResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDividerResponse(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createStandSizeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req standSizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		st, err := svc.CreateStandSize(r.Context(), StandSizeInput{
			Label: req.Label, MaxCount: req.MaxCount, PriceCents: req.PriceCents,
		})
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, standSizeResponse{
			ID: st.ID, Label: st.Label, MaxCount: st.MaxCount, PriceCents: st.PriceCents,
			CreatedAt: st.CreatedAt, UpdatedAt: st.UpdatedAt,
		})
	}
}

func updateStandSizeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req standSizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		st, err := svc.UpdateStandSize(r.Context(), chi.URLParam(r, "standSizeID"), StandSizeInput{
			Label: req.Label, MaxCount: req.MaxCount, PriceCents: req.PriceCents,
		})
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStandResponse(st))
	}
}

func getStandSizeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.GetStandSize(r.Context(), chi.URLParam(r, "standSizeID"))
		if err != nil {
			writeCatalogError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStandResponse(st))
	}
}

func listStandSizesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListStandSizes(r.Context())
		if err != nil {
			writeCatalogError(w, err)
			return
		}

		out := make([]standSizeResponse, 0, len(items))
		for _, st := range items {
			out = append(out, toStandResponse(st))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrAlreadyExist):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrMaxCountBelowUsage):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toDividerResponse(d DividerTypeAvailability) dividerTypeResponse {
	return dividerTypeResponse{
		ID:                d.ID,
		Label:             d.Label,
		MaxCount:          d.MaxCount,
		UsedCount:         d.UsedCount,
		AvailabilityRatio: d.AvailabilityRatio,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func toStandResponse(st StandSizeAvailability) standSizeResponse {
	return standSizeResponse{
		ID:                st.ID,
		Label:             st.Label,
		MaxCount:          st.MaxCount,
		PriceCents:        st.PriceCents,
		UsedCount:         st.UsedCount,
		AvailabilityRatio: st.AvailabilityRatio,
		CreatedAt:         st.CreatedAt,
		UpdatedAt:         st.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
