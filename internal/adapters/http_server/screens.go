package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"travel_console/internal/app"
	"travel_console/internal/domain"
)

type listResponse[T any] struct {
	State   app.State `json:"state"`
	Items   []T       `json:"items"`
	Total   int       `json:"total"`
	Visible int       `json:"visible"`
}

type bulkRequest struct {
	IDs    []string `json:"ids"`
	Active *bool    `json:"active"`
}

type bulkBody struct {
	app.BulkResult
	Message string `json:"message,omitempty"`
}

func bulkResponse(res app.BulkResult) bulkBody {
	return bulkBody{BulkResult: res, Message: res.Summary()}
}

func filterFrom(r *http.Request) app.Filter {
	q := r.URL.Query()
	return app.Filter{
		Search: q.Get("q"),
		Status: app.ParseStatus(q.Get("status")),
		CityID: q.Get("city"),
		Type:   q.Get("type"),
	}
}

// mountScreen registers the list/detail/form/toggle/bulk/delete routes of one
// screen under /{name}.
func mountScreen[T domain.Entity[T]](
	r chi.Router,
	s *app.Screen[T],
	pred func(app.Filter) func(T) bool,
	create func(context.Context, T) (T, error),
) {
	r.Route("/"+s.Name(), func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			if err := s.EnsureLoaded(r.Context()); err != nil {
				writeError(w, err)
				return
			}
			all := s.Items()
			items := app.Apply(all, pred(filterFrom(r)))
			writeJSON(w, http.StatusOK, listResponse[T]{State: app.StateReady, Items: items, Total: len(all), Visible: len(items)})
		})

		r.Post("/reload", func(w http.ResponseWriter, r *http.Request) {
			if err := s.Load(r.Context()); err != nil {
				writeError(w, err)
				return
			}
			items := s.Items()
			writeJSON(w, http.StatusOK, listResponse[T]{State: app.StateReady, Items: items, Total: len(items), Visible: len(items)})
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var in T
			if !decode(w, r, &in) {
				return
			}
			if err := s.EnsureLoaded(r.Context()); err != nil {
				writeError(w, err)
				return
			}
			out, err := create(r.Context(), in)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, out)
		})

		r.Post("/bulk", func(w http.ResponseWriter, r *http.Request) {
			var in bulkRequest
			if !decode(w, r, &in) {
				return
			}
			if in.Active == nil {
				writeProblem(w, http.StatusBadRequest, "Invalid input", "active is required", nil)
				return
			}
			if err := s.EnsureLoaded(r.Context()); err != nil {
				writeError(w, err)
				return
			}
			res, err := s.Reconcile(r.Context(), in.IDs, *in.Active)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, bulkResponse(res))
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := s.EnsureLoaded(r.Context()); err != nil {
				writeError(w, err)
				return
			}
			v, ok := s.Get(chi.URLParam(r, "id"))
			if !ok {
				writeError(w, domain.ErrNotFound)
				return
			}
			writeJSON(w, http.StatusOK, v)
		})

		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			var in T
			if !decode(w, r, &in) {
				return
			}
			out, err := s.Update(r.Context(), chi.URLParam(r, "id"), in)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, out)
		})

		r.Post("/{id}/toggle", func(w http.ResponseWriter, r *http.Request) {
			if err := s.EnsureLoaded(r.Context()); err != nil {
				writeError(w, err)
				return
			}
			out, err := s.Toggle(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, out)
		})

		// two-step delete: ask for a token, then DELETE with it
		r.Post("/{id}/delete-request", func(w http.ResponseWriter, r *http.Request) {
			if err := s.EnsureLoaded(r.Context()); err != nil {
				writeError(w, err)
				return
			}
			tok, err := s.RequestDelete(chi.URLParam(r, "id"))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"token": tok})
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			q := r.URL.Query()
			var err error
			switch {
			case q.Get("token") != "":
				err = s.ConfirmDelete(r.Context(), id, q.Get("token"))
			case q.Get("confirm") == "true":
				err = s.Delete(r.Context(), id)
			default:
				writeProblem(w, http.StatusPreconditionRequired, "Confirmation required",
					"Deleting is permanent. Confirm to continue.", nil)
				return
			}
			if err != nil {
				writeError(w, err)
				return
			}
			if q.Get("from") == "detail" {
				writeJSON(w, http.StatusOK, map[string]string{"redirect": "/" + s.Name()})
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}
