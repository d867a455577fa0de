package exhibitors

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rescue-office/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/show/applications", func(ar chi.Router) {
		// el formulario público del salón postea acá
		ar.Post("/", submitApplicationHandler(svc))

		ar.Get("/", listApplicationsHandler(svc))
		ar.Get("/{applicationID}", getApplicationHandler(svc))
		ar.Patch("/{applicationID}/status", updateApplicationStatusHandler(svc))
	})

	r.Route("/show/exhibitors", func(er chi.Router) {
		er.Get("/", listExhibitorsHandler(svc))
		er.Get("/{exhibitorID}", getExhibitorHandler(svc))
	})
}

type applicationRequest struct {
	ContactFirstName string `json:"contact_first_name"`
	ContactLastName  string `json:"contact_last_name"`
	ContactEmail     string `json:"contact_email"`

	StructureName string `json:"structure_name"`
	StructureURL  string `json:"structure_url"`

	DesiredStandSizeID string `json:"desired_stand_size_id"`
	DesiredDividerID   string `json:"desired_divider_id"`
	DividerCount       int    `json:"divider_count"`
	TableCount         int    `json:"table_count"`
}

type statusRequest struct {
	Status         string  `json:"status"`
	RefusalMessage *string `json:"refusal_message"`
}

type applicationResponse struct {
	ID string `json:"id"`

	ContactFirstName string `json:"contact_first_name"`
	ContactLastName  string `json:"contact_last_name"`
	ContactEmail     string `json:"contact_email"`

	StructureName string `json:"structure_name"`
	StructureURL  string `json:"structure_url"`

	DesiredStandSizeID string `json:"desired_stand_size_id"`
	DesiredDividerID   string `json:"desired_divider_id"`
	DividerCount       int    `json:"divider_count"`
	TableCount         int    `json:"table_count"`

	Status         string  `json:"status"`
	RefusalMessage *string `json:"refusal_message,omitempty"`
	ExhibitorID    *string `json:"exhibitor_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type exhibitorResponse struct {
	ID            string `json:"id"`
	ApplicationID string `json:"application_id"`
	Name          string `json:"name"`

	Profile struct {
		Description string   `json:"description"`
		LogoPath    string   `json:"logo_path"`
		Links       []string `json:"links"`
	} `json:"profile"`

	Stand struct {
		StandSizeID  string `json:"stand_size_id"`
		DividerID    string `json:"divider_id"`
		DividerCount int    `json:"divider_count"`
		TableCount   int    `json:"table_count"`
	} `json:"stand"`

	DocumentsFolderID string `json:"documents_folder_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func submitApplicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req applicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		app, err := svc.SubmitApplication(r.Context(), ApplicationInput{
			ContactFirstName:   req.ContactFirstName,
			ContactLastName:    req.ContactLastName,
			ContactEmail:       req.ContactEmail,
			StructureName:      req.StructureName,
			StructureURL:       req.StructureURL,
			DesiredStandSizeID: req.DesiredStandSizeID,
			DesiredDividerID:   req.DesiredDividerID,
			DividerCount:       req.DividerCount,
			TableCount:         req.TableCount,
		})
		if err != nil {
			writeExhibitorError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toApplicationResponse(app))
	}
}

func updateApplicationStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		app, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "applicationID"), ApplicationStatus(req.Status), req.RefusalMessage)
		if err != nil {
			writeExhibitorError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toApplicationResponse(app))
	}
}

func getApplicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		app, err := svc.GetApplication(r.Context(), chi.URLParam(r, "applicationID"))
		if err != nil {
			writeExhibitorError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toApplicationResponse(app))
	}
}

func listApplicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetClaims(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListApplications(r.Context())
		if err != nil {
			writeExhibitorError(w, err)
			return
		}

		out := make([]applicationResponse, 0, len(items))
		for _, app := range items {
			out = append(out, toApplicationResponse(app))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getExhibitorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.GetExhibitor(r.Context(), chi.URLParam(r, "exhibitorID"))
		if err != nil {
			writeExhibitorError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toExhibitorResponse(e))
	}
}

func listExhibitorsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListExhibitors(r.Context())
		if err != nil {
			writeExhibitorError(w, err)
			return
		}

		out := make([]exhibitorResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toExhibitorResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeExhibitorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrExhibitorNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrEmailAlreadyUsed), errors.Is(err, ErrURLAlreadyUsed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrMissingRefusalMessage):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toApplicationResponse(app Application) applicationResponse {
	return applicationResponse{
		ID:                 app.ID,
		ContactFirstName:   app.ContactFirstName,
		ContactLastName:    app.ContactLastName,
		ContactEmail:       app.ContactEmail,
		StructureName:      app.StructureName,
		StructureURL:       app.StructureURL,
		DesiredStandSizeID: app.DesiredStandSizeID,
		DesiredDividerID:   app.DesiredDividerID,
		DividerCount:       app.DividerCount,
		TableCount:         app.TableCount,
		Status:             string(app.Status),
		RefusalMessage:     app.RefusalMessage,
		ExhibitorID:        app.ExhibitorID,
		CreatedAt:          app.CreatedAt,
		UpdatedAt:          app.UpdatedAt,
	}
}

func toExhibitorResponse(e Exhibitor) exhibitorResponse {
	var out exhibitorResponse
	out.ID = e.ID
	out.ApplicationID = e.ApplicationID
	out.Name = e.Name
	out.Profile.Description = e.Profile.Description
	out.Profile.LogoPath = e.Profile.LogoPath
	out.Profile.Links = e.Profile.Links
	out.Stand.StandSizeID = e.Stand.StandSizeID
	out.Stand.DividerID = e.Stand.DividerID
	out.Stand.DividerCount = e.Stand.DividerCount
	out.Stand.TableCount = e.Stand.TableCount
	out.DocumentsFolderID = e.Documents.FolderID
	out.CreatedAt = e.CreatedAt
	out.UpdatedAt = e.UpdatedAt
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
