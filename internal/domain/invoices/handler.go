package invoices

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
	r.Route("/show/invoices", func(ir chi.Router) {
		ir.Post("/", createInvoiceHandler(svc))
		ir.Get("/", listInvoicesHandler(svc))
		ir.Get("/{invoiceID}", getInvoiceHandler(svc))
		ir.Patch("/{invoiceID}/status", updateInvoiceStatusHandler(svc))
		ir.Delete("/{invoiceID}", deleteInvoiceHandler(svc))
	})
}

type createInvoiceRequest struct {
	ExhibitorID string `json:"exhibitor_id"`
	Number      string `json:"number"`
	AmountCents int64  `json:"amount_cents"`
	DueDate     string `json:"due_date"` // YYYY-MM-DD
}

type invoiceStatusRequest struct {
	Status string `json:"status"`
}

type invoiceResponse struct {
	ID          string     `json:"id"`
	ExhibitorID string     `json:"exhibitor_id"`
	Number      string     `json:"number"`
	AmountCents int64      `json:"amount_cents"`
	DueDate     time.Time  `json:"due_date"`
	Status      string     `json:"status"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func createInvoiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createInvoiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			http.Error(w, "due_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		inv, err := svc.Create(r.Context(), CreateInput{
			ExhibitorID: req.ExhibitorID,
			Number:      req.Number,
			AmountCents: req.AmountCents,
			DueDate:     due,
		})
		if err != nil {
			writeInvoiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toInvoiceResponse(inv))
	}
}

func updateInvoiceStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req invoiceStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		inv, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "invoiceID"), Status(req.Status))
		if err != nil {
			writeInvoiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
	}
}

func getInvoiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		inv, err := svc.GetByID(r.Context(), chi.URLParam(r, "invoiceID"))
		if err != nil {
			writeInvoiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
	}
}

func listInvoicesHandler(svc *Service) http.HandlerFunc {
	// Listado por expositor: /show/invoices?exhibitor_id=...
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		exhibitorID := strings.TrimSpace(r.URL.Query().Get("exhibitor_id"))
		items, err := svc.ListByExhibitor(r.Context(), exhibitorID)
		if err != nil {
			writeInvoiceError(w, err)
			return
		}

		out := make([]invoiceResponse, 0, len(items))
		for _, inv := range items {
			out = append(out, toInvoiceResponse(inv))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteInvoiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "invoiceID")); err != nil {
			writeInvoiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeInvoiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNumberAlreadyUsed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toInvoiceResponse(inv Invoice) invoiceResponse {
	return invoiceResponse{
		ID:          inv.ID,
		ExhibitorID: inv.ExhibitorID,
		Number:      inv.Number,
		AmountCents: inv.AmountCents,
		DueDate:     inv.DueDate,
		Status:      string(inv.Status),
		PaidAt:      inv.PaidAt,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
