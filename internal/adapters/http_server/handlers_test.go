package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_console/internal/adapters/backoffice"
	"travel_console/internal/adapters/backoffice/backofficetest"
	server "travel_console/internal/adapters/http_server"
	"travel_console/internal/app"
	"travel_console/internal/domain"
)

func newConsole(t *testing.T) (*httptest.Server, *backofficetest.Server) {
	t.Helper()
	up := backofficetest.New()
	t.Cleanup(up.Close)

	cl, err := backoffice.New(up.URL, "tok", 1000)
	require.NoError(t, err)
	c := app.NewConsole(app.Backend{
		Cities:    cl.Cities(),
		Hotels:    cl.Hotels(),
		Contacts:  cl.Contacts(),
		Languages: cl.Languages(),
		Users:     cl,
	}, app.ConsoleConfig{Workers: 4})

	srv := server.New(zerolog.Nop(), 5*time.Second)
	srv.MountHandlers(&server.Handlers{C: c})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts, up
}

func do(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res, out
}

func seedCities(up *backofficetest.Server) {
	up.Seed("cities",
		map[string]any{"id": "A", "name": map[string]any{"en": "Agadir"}, "active": false},
		map[string]any{"id": "B", "name": map[string]any{"en": "Beirut", "fr": "Beyrouth"}, "active": true},
		map[string]any{"id": "C", "name": map[string]any{"en": "Cairo"}, "active": false},
	)
}

func TestListAndFilter(t *testing.T) {
	ts, up := newConsole(t)
	seedCities(up)

	res, body := do(t, http.MethodGet, ts.URL+"/v1/cities", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ready", body["state"])
	assert.EqualValues(t, 3, body["total"])

	_, body = do(t, http.MethodGet, ts.URL+"/v1/cities?q=beyr&status=active", nil)
	assert.EqualValues(t, 1, body["visible"])
	items := body["items"].([]any)
	assert.Equal(t, "B", items[0].(map[string]any)["id"])
}

func TestListLoadError(t *testing.T) {
	ts, up := newConsole(t)
	up.FailList("hotels", http.StatusForbidden)

	res, body := do(t, http.MethodGet, ts.URL+"/v1/hotels", nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "list unavailable", body["detail"])
}

func TestListUpstreamRejectsToken(t *testing.T) {
	ts, up := newConsole(t)
	up.FailList("hotels", http.StatusUnauthorized)

	res, body := do(t, http.MethodGet, ts.URL+"/v1/hotels", nil)
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	assert.Equal(t, domain.GenericMessage, body["detail"])
}

func TestBulkScenario(t *testing.T) {
	ts, up := newConsole(t)
	seedCities(up)
	up.Fail("cities", "C", http.StatusInternalServerError)

	res, body := do(t, http.MethodPost, ts.URL+"/v1/cities/bulk", map[string]any{"ids": []string{"A", "B", "C"}, "active": true})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "1 activated, 1 failed.", body["message"])
	assert.Equal(t, 0, up.Puts("cities", "B"), "already-active record gets no request")
	assert.Equal(t, 1, up.Puts("cities", "A"))

	_, body = do(t, http.MethodGet, ts.URL+"/v1/cities?status=active", nil)
	var active []string
	for _, it := range body["items"].([]any) {
		active = append(active, it.(map[string]any)["id"].(string))
	}
	assert.ElementsMatch(t, []string{"A", "B"}, active)
}

func TestBulkRequiresTarget(t *testing.T) {
	ts, _ := newConsole(t)
	res, _ := do(t, http.MethodPost, ts.URL+"/v1/cities/bulk", map[string]any{"ids": []string{"A"}})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestToggleSendsFullPayload(t *testing.T) {
	ts, up := newConsole(t)
	seedCities(up)

	res, body := do(t, http.MethodPost, ts.URL+"/v1/cities/B/toggle", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, false, body["active"])
	rec := up.Record("cities", "B")
	assert.Equal(t, "Beyrouth", rec["name"].(map[string]any)["fr"])
}

func TestCreateValidationBlocksRequest(t *testing.T) {
	ts, up := newConsole(t)

	res, body := do(t, http.MethodPost, ts.URL+"/v1/cities", map[string]any{"name": map[string]any{"en": "", "fr": " "}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, app.MsgNameRequired, body["detail"])
	assert.Nil(t, up.Record("cities", "cities-1"))

	res, body = do(t, http.MethodPost, ts.URL+"/v1/cities", map[string]any{"name": map[string]any{"ar": "دبي"}, "active": true})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "cities-1", body["id"])
}

func TestLanguageConflict(t *testing.T) {
	ts, up := newConsole(t)
	up.Seed("languages", map[string]any{"code": "fr", "name": "French", "active": true})

	res, body := do(t, http.MethodPost, ts.URL+"/v1/languages", map[string]any{"code": "FR", "name": "Français"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, app.MsgLanguageConflict, body["detail"])
}

func TestDeleteFlow(t *testing.T) {
	ts, up := newConsole(t)
	seedCities(up)
	do(t, http.MethodGet, ts.URL+"/v1/cities", nil)

	res, _ := do(t, http.MethodDelete, ts.URL+"/v1/cities/A", nil)
	assert.Equal(t, http.StatusPreconditionRequired, res.StatusCode)
	assert.NotNil(t, up.Record("cities", "A"))

	res, body := do(t, http.MethodDelete, ts.URL+"/v1/cities/A?confirm=true&from=detail", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "/cities", body["redirect"])
	assert.Nil(t, up.Record("cities", "A"))

	_, body = do(t, http.MethodPost, ts.URL+"/v1/cities/B/delete-request", nil)
	tok := body["token"].(string)
	res, _ = do(t, http.MethodDelete, ts.URL+"/v1/cities/B?token="+tok, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	_, body = do(t, http.MethodGet, ts.URL+"/v1/cities", nil)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "C", items[0].(map[string]any)["id"])
}

func TestCreateUserRestrictedRole(t *testing.T) {
	ts, _ := newConsole(t)

	res, body := do(t, http.MethodPost, ts.URL+"/v1/users", map[string]any{
		"name": "Root", "email": "root@example.com", "password": "supersecret", "role": "admin",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, body["fields"], "role")

	res, body = do(t, http.MethodPost, ts.URL+"/v1/users", map[string]any{
		"name": "Ana", "email": "ana@example.com", "password": "supersecret", "role": "viewer",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "u-1", body["id"])
	assert.Equal(t, "viewer", body["role"])
}

func TestBulkRunsDisabledWithoutJournal(t *testing.T) {
	ts, _ := newConsole(t)
	res, _ := do(t, http.MethodGet, ts.URL+"/v1/bulk-runs/x", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
