// Package backofficetest runs an in-memory stand-in for the upstream admin
// API, for tests of the console against real HTTP.
package backofficetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Server keeps each collection as ordered JSON objects keyed by id ("code"
// for languages). Responses are wrapped in {"data": ...}.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	data    map[string][]map[string]any
	fail    map[string]int // "resource/id" -> status for PUT/DELETE
	listErr map[string]int
	puts    map[string]int
	seq     int
}

func New() *Server {
	s := &Server{
		data:    map[string][]map[string]any{},
		fail:    map[string]int{},
		listErr: map[string]int{},
		puts:    map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

func keyField(resource string) string {
	if resource == "languages" {
		return "code"
	}
	return "id"
}

// Seed appends records to resource.
func (s *Server) Seed(resource string, records ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[resource] = append(s.data[resource], records...)
}

// Fail makes PUT and DELETE of resource/id answer status.
func (s *Server) Fail(resource, id string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[resource+"/"+id] = status
}

func (s *Server) FailList(resource string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr[resource] = status
}

// Puts returns how many PUTs resource/id received.
func (s *Server) Puts(resource, id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts[resource+"/"+id]
}

// Record returns the stored record, or nil.
func (s *Server) Record(resource, id string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(resource, id); i >= 0 {
		return s.data[resource][i]
	}
	return nil
}

func (s *Server) find(resource, id string) int {
	k := keyField(resource)
	for i, rec := range s.data[resource] {
		if fmt.Sprint(rec[k]) == id {
			return i
		}
	}
	return -1
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 2 && parts[0] == "auth" && parts[1] == "users" && r.Method == http.MethodPost {
		var u map[string]any
		_ = json.NewDecoder(r.Body).Decode(&u)
		delete(u, "password")
		u["id"] = "u-1"
		reply(w, http.StatusCreated, map[string]any{"data": u})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resource := parts[0]
	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		if st := s.listErr[resource]; st != 0 {
			reply(w, st, map[string]any{"message": "list unavailable"})
			return
		}
		out := s.data[resource]
		if out == nil {
			out = []map[string]any{}
		}
		reply(w, http.StatusOK, map[string]any{"data": out})

	case len(parts) == 1 && r.Method == http.MethodPost:
		var rec map[string]any
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			reply(w, http.StatusBadRequest, map[string]any{"message": "bad json"})
			return
		}
		k := keyField(resource)
		if k == "code" {
			if s.find(resource, fmt.Sprint(rec[k])) >= 0 {
				reply(w, http.StatusConflict, map[string]any{"message": "duplicate", "errors": map[string]any{"code": []string{"has already been taken"}}})
				return
			}
		} else {
			s.seq++
			rec[k] = fmt.Sprintf("%s-%d", resource, s.seq)
		}
		s.data[resource] = append(s.data[resource], rec)
		reply(w, http.StatusCreated, map[string]any{"data": rec})

	case len(parts) == 2:
		id := parts[1]
		i := s.find(resource, id)
		if i < 0 {
			reply(w, http.StatusNotFound, map[string]any{"message": "not found"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			reply(w, http.StatusOK, map[string]any{"data": s.data[resource][i]})
		case http.MethodPut:
			s.puts[resource+"/"+id]++
			if st := s.fail[resource+"/"+id]; st != 0 {
				reply(w, st, map[string]any{"message": "update rejected"})
				return
			}
			var rec map[string]any
			if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
				reply(w, http.StatusBadRequest, map[string]any{"message": "bad json"})
				return
			}
			// the server wants the full record, not a patch
			if _, ok := rec["name"]; !ok {
				reply(w, http.StatusUnprocessableEntity, map[string]any{"message": "name is required", "errors": map[string]any{"name": "required"}})
				return
			}
			rec[keyField(resource)] = s.data[resource][i][keyField(resource)]
			s.data[resource][i] = rec
			reply(w, http.StatusOK, map[string]any{"data": rec})
		case http.MethodDelete:
			if st := s.fail[resource+"/"+id]; st != 0 {
				reply(w, st, map[string]any{"message": "delete rejected"})
				return
			}
			s.data[resource] = append(s.data[resource][:i:i], s.data[resource][i+1:]...)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
