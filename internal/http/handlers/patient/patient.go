// Package patient contains all HTTP handlers related to the Patient resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Each exported function takes the dependencies (the Service) once at
// startup and returns the http.HandlerFunc that runs on every request:
//
//	router.HandleFunc("POST /create", patient.New(svc))
//
// Register wires the full route table onto a mux.
package patient

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/patients-api/internal/patients"
	"github.com/aanand-mishra/patients-api/internal/types"
	"github.com/aanand-mishra/patients-api/internal/utils/response"
)

// Service is what the handlers need from the query service.
// *patients.Service satisfies it.
type Service interface {
	ListAll() (map[string]types.PatientView, error)
	Get(id string) (types.PatientView, error)
	SortBy(field, order string) ([]types.PatientView, error)
	Create(p types.Patient) (types.PatientView, error)
	Update(id string, u types.PatientUpdate) (types.PatientView, error)
	Delete(id string) (types.PatientView, error)
}

// Register maps every patient route onto router.
//
// Route table:
//
//	GET    /                 → banner
//	GET    /view             → all patients keyed by id
//	GET    /patient/{id}     → one patient
//	GET    /sort             → patients ordered by ?sort_by=height|weight|bmi&order=asc|desc
//	POST   /create           → create a patient
//	PUT    /edit/{id}        → partial update
//	DELETE /delete/{id}      → delete and return the removed patient
func Register(router *http.ServeMux, svc Service) {
	router.HandleFunc("GET /{$}", Root())
	router.HandleFunc("GET /view", GetList(svc))
	router.HandleFunc("GET /patient/{id}", GetByID(svc))
	router.HandleFunc("GET /sort", Sort(svc))
	router.HandleFunc("POST /create", New(svc))
	router.HandleFunc("PUT /edit/{id}", Update(svc))
	router.HandleFunc("DELETE /delete/{id}", Delete(svc))
}

// writeJSON writes data and logs when it cannot be encoded. The status line
// is already on the wire by then, so the log is the only trace left.
func writeJSON(w http.ResponseWriter, status int, data any) {
	if err := response.WriteJSON(w, status, data); err != nil {
		slog.Error("failed to encode response",
			slog.Int("status", status),
			slog.String("error", err.Error()))
	}
}

// writeError maps service errors onto status codes:
//
//	validation / invalid argument → 400
//	not found                     → 404
//	conflict                      → 409
//	anything else (storage)       → 500
func writeError(w http.ResponseWriter, err error) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, response.ValidationError(verr))
	case errors.Is(err, patients.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, response.GeneralError(err))
	case errors.Is(err, patients.ErrNotFound):
		writeJSON(w, http.StatusNotFound, response.GeneralError(err))
	case errors.Is(err, patients.ErrConflict):
		writeJSON(w, http.StatusConflict, response.GeneralError(err))
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError,
			response.GeneralError(errors.New("internal storage error")))
	}
}

// decodeBody decodes the JSON request body into v. On failure it writes the
// 400 response itself and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)

	if errors.Is(err, io.EOF) {
		// io.EOF means the body was completely empty — nothing to decode.
		writeJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return false
	}
	if err != nil {
		// Malformed JSON, wrong types, etc.
		writeJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}
	return true
}

// Root handles GET /
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, response.Message{Message: "Patient Management API Running"})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /create
//
// Request body (JSON), every field required:
//
//	{ "id": "P001", "name": "Ananya", "city": "Guwahati", "age": 28,
//	  "gender": "female", "height": 165, "weight": 90 }
//
// 201 Created with the stored patient plus bmi and verdict.
// 400 on an empty or malformed body or a failed constraint, 409 if the id
// is already taken.
// ─────────────────────────────────────────────────────────────────────────────
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a patient")

		var p types.Patient
		if !decodeBody(w, r, &p) {
			return
		}

		created, err := svc.Create(p)
		if err != nil {
			writeError(w, err)
			return
		}

		slog.Info("patient created", slog.String("id", created.ID))
		writeJSON(w, http.StatusCreated, created)
	}
}

// GetByID handles GET /patient/{id}
func GetByID(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a patient", slog.String("id", id))

		p, err := svc.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, p)
	}
}

// GetList handles GET /view and returns an object keyed by patient id.
// An empty store yields {} (not null).
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all patients")

		all, err := svc.ListAll()
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, all)
	}
}

// Sort handles GET /sort?sort_by=bmi&order=desc
// order is optional and defaults to asc.
func Sort(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		field, order := q.Get("sort_by"), q.Get("order")
		slog.Info("sorting patients", slog.String("sort_by", field), slog.String("order", order))

		sorted, err := svc.SortBy(field, order)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, sorted)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /edit/{id}
// Changes only the fields present in the body:
//
//	{ "weight": 72.5 }
//
// A field sent as null is rejected (every field is mandatory). The id can be
// echoed back but not changed. 200 OK with the merged patient.
// ─────────────────────────────────────────────────────────────────────────────
func Update(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a patient", slog.String("id", id))

		var u types.PatientUpdate
		if !decodeBody(w, r, &u) {
			return
		}

		updated, err := svc.Update(id, u)
		if err != nil {
			writeError(w, err)
			return
		}

		slog.Info("patient updated", slog.String("id", id))
		writeJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /delete/{id} and echoes the removed patient.
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a patient", slog.String("id", id))

		removed, err := svc.Delete(id)
		if err != nil {
			writeError(w, err)
			return
		}

		slog.Info("patient deleted", slog.String("id", id))
		writeJSON(w, http.StatusOK, removed)
	}
}
