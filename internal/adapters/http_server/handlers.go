// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"travel_console/internal/app"
	"travel_console/internal/domain"
)

type Handlers struct{ C *app.Console }

// problem is the error banner payload. Detail is the message to show.
type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		mountScreen(r, h.C.Cities, func(f app.Filter) func(domain.City) bool { return f.Cities() }, h.C.Cities.Create)
		mountScreen(r, h.C.Hotels, func(f app.Filter) func(domain.Hotel) bool { return f.Hotels() }, h.C.Hotels.Create)
		mountScreen(r, h.C.Contacts, func(f app.Filter) func(domain.Contact) bool { return f.Contacts() }, h.C.Contacts.Create)
		mountScreen(r, h.C.Languages, func(f app.Filter) func(domain.Language) bool { return f.Languages() }, h.C.CreateLanguage)

		r.Post("/users", h.createUser)
		r.Get("/bulk-runs", h.listRuns)
		r.Get("/bulk-runs/{id}", h.getRun)
		r.Post("/bulk-runs/{id}/retry", h.retryRun)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string, fields map[string]string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Fields: fields}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the error taxonomy onto a status and banner message.
func writeError(w http.ResponseWriter, err error) {
	msg, fields := domain.Message(err), domain.FieldErrors(err)
	var ae *domain.APIError
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid input", msg, fields)
	case errors.Is(err, domain.ErrBusy):
		writeProblem(w, http.StatusConflict, "Busy", msg, nil)
	case errors.Is(err, domain.ErrUnauthorized):
		log.Error().Err(err).Msg("backoffice rejected the console token")
		writeProblem(w, http.StatusBadGateway, "Upstream credentials rejected", domain.GenericMessage, nil)
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", msg, nil)
	case errors.As(err, &ae) && ae.Status >= 500:
		writeProblem(w, http.StatusBadGateway, "Upstream error", msg, fields)
	case errors.As(err, &ae) && (ae.Status == http.StatusBadRequest || ae.Status == http.StatusUnprocessableEntity):
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid input", msg, fields)
	case errors.As(err, &ae):
		writeProblem(w, ae.Status, http.StatusText(ae.Status), msg, fields)
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "The record no longer exists.", nil)
	case errors.Is(err, domain.ErrNetwork):
		writeProblem(w, http.StatusBadGateway, "Upstream unreachable", msg, nil)
	default:
		log.Error().Err(err).Msg("unhandled console error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", domain.GenericMessage, nil)
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), nil)
		return false
	}
	return true
}

func (h *Handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var in domain.NewUser
	if !decode(w, r, &in) {
		return
	}
	u, err := h.C.CreateUser(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handlers) listRuns(w http.ResponseWriter, r *http.Request) {
	if h.C.Journal == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "bulk journal is disabled", nil)
		return
	}
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200", nil)
			return
		}
		limit = l
	}
	runs, err := h.C.Journal.ListRuns(r.Context(), r.URL.Query().Get("resource"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": runs})
}

func (h *Handlers) getRun(w http.ResponseWriter, r *http.Request) {
	if h.C.Journal == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "bulk journal is disabled", nil)
		return
	}
	run, err := h.C.Journal.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *Handlers) retryRun(w http.ResponseWriter, r *http.Request) {
	res, err := h.C.RetryRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bulkResponse(res))
}
