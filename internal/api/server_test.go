package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nerrad567/device-template-core/internal/auth"
	"github.com/nerrad567/device-template-core/internal/template"
)

const testSchema = `
CREATE TABLE templates (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant     TEXT NOT NULL,
    label      TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE template_attrs (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    template_id  INTEGER NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
    label        TEXT NOT NULL,
    type         TEXT NOT NULL,
    value_type   TEXT NOT NULL,
    static_value TEXT,
    UNIQUE (template_id, label)
);
`

const testSecret = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	server *httptest.Server
	token  string
	auth   *auth.Manager
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	authMgr := auth.NewManager(testSecret, time.Hour)
	manager := template.NewManager(template.NewSQLiteRepository(db), nil, nil)
	hub := NewHub(nil)
	t.Cleanup(hub.Close)

	srv := New(Config{}, Deps{
		Manager: manager,
		Auth:    authMgr,
		Hub:     hub,
		HealthChecks: map[string]HealthCheck{
			"database": func(ctx context.Context) error { return db.PingContext(ctx) },
		},
	})

	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)

	token, err := authMgr.GenerateToken("admin")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	return &testEnv{server: ts, token: token, auth: authMgr}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	return e.doAs(t, e.token, method, path, body)
}

func (e *testEnv) doAs(t *testing.T, token, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp, decoded
}

const sensorPayload = `{"label":"SensorModel","attrs":[{"label":"temperature","type":"dynamic","value_type":"float"},{"label":"model-id","type":"static","value_type":"string","static_value":"model-001"}]}`

func (e *testEnv) createSensor(t *testing.T) int64 {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/api/v1/templates/", sensorPayload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d, body = %v", resp.StatusCode, body)
	}
	view, ok := body["template"].(map[string]any)
	if !ok {
		t.Fatalf("create response missing template: %v", body)
	}
	return int64(view["id"].(float64))
}

func TestAuthentication(t *testing.T) {
	env := setupEnv(t)

	t.Run("missing token", func(t *testing.T) {
		resp, _ := env.doAs(t, "", http.MethodGet, "/api/v1/templates/", "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		resp, _ := env.doAs(t, "nope", http.MethodGet, "/api/v1/templates/", "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("health is public", func(t *testing.T) {
		resp, body := env.doAs(t, "", http.MethodGet, "/api/v1/health", "")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		if body["status"] != "ok" {
			t.Errorf("health status = %v", body["status"])
		}
	})
}

func TestCreateTemplate(t *testing.T) {
	env := setupEnv(t)

	t.Run("valid payload", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPost, "/api/v1/templates/?attr_format=split", sensorPayload)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
		}
		if body["result"] != "ok" {
			t.Errorf("result = %v, want ok", body["result"])
		}
		view := body["template"].(map[string]any)
		config := view["config_attrs"].([]any)
		data := view["data_attrs"].([]any)
		if len(config) != 1 || config[0].(map[string]any)["label"] != "model-id" {
			t.Errorf("config_attrs = %v", config)
		}
		if len(data) != 1 || data[0].(map[string]any)["label"] != "temperature" {
			t.Errorf("data_attrs = %v", data)
		}
		if _, present := view["attrs"]; present {
			t.Error("split view must omit combined attrs key")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, "/api/v1/templates/", `{"label":`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("duplicate attribute labels", func(t *testing.T) {
		payload := `{"label":"Bad","attrs":[{"label":"x","type":"dynamic","value_type":"float"},{"label":"x","type":"dynamic","value_type":"integer"}]}`
		resp, _ := env.do(t, http.MethodPost, "/api/v1/templates/", payload)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestGetTemplate(t *testing.T) {
	env := setupEnv(t)
	id := env.createSensor(t)

	t.Run("found", func(t *testing.T) {
		resp, body := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/templates/%d?attr_format=single", id), "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if body["label"] != "SensorModel" {
			t.Errorf("label = %v", body["label"])
		}
		if attrs := body["attrs"].([]any); len(attrs) != 2 {
			t.Errorf("attrs = %v", attrs)
		}
	})

	t.Run("not found", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/api/v1/templates/9999", "")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("non-integer id", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/api/v1/templates/abc", "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("other tenant cannot see it", func(t *testing.T) {
		otherToken, err := env.auth.GenerateToken("other")
		if err != nil {
			t.Fatalf("generating token: %v", err)
		}
		resp, _ := env.doAs(t, otherToken, http.MethodGet, fmt.Sprintf("/api/v1/templates/%d", id), "")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestListTemplates(t *testing.T) {
	env := setupEnv(t)
	env.createSensor(t)

	t.Run("default listing", func(t *testing.T) {
		resp, body := env.do(t, http.MethodGet, "/api/v1/templates/", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		templates := body["templates"].([]any)
		if len(templates) != 1 {
			t.Errorf("templates = %v", templates)
		}
		pagination := body["pagination"].(map[string]any)
		if pagination["total"].(float64) != 1 {
			t.Errorf("total = %v", pagination["total"])
		}
	})

	t.Run("attr filter", func(t *testing.T) {
		resp, body := env.do(t, http.MethodGet, "/api/v1/templates/?attr=model-id%3Dmodel-001", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if len(body["templates"].([]any)) != 1 {
			t.Errorf("templates = %v", body["templates"])
		}
	})

	t.Run("malformed attr filter", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/api/v1/templates/?attr=no-equals", "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("out of range page is empty ok", func(t *testing.T) {
		resp, body := env.do(t, http.MethodGet, "/api/v1/templates/?page_number=5&per_page=1", "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if len(body["templates"].([]any)) != 0 {
			t.Errorf("templates = %v, want empty", body["templates"])
		}
	})
}

func TestUpdateTemplate(t *testing.T) {
	env := setupEnv(t)
	id := env.createSensor(t)

	payload := `{"label":"SensorModelV2","attrs":[{"label":"humidity","type":"dynamic","value_type":"float"}]}`
	resp, body := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/templates/%d", id), payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["result"] != "ok" || body["updated"] != true {
		t.Errorf("body = %v", body)
	}

	_, got := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/templates/%d?attr_format=single", id), "")
	if got["label"] != "SensorModelV2" {
		t.Errorf("label after update = %v", got["label"])
	}
	if attrs := got["attrs"].([]any); len(attrs) != 1 {
		t.Errorf("attrs after update = %v, want full replacement", attrs)
	}

	t.Run("unknown id", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPut, "/api/v1/templates/9999", payload)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestDeleteTemplate(t *testing.T) {
	env := setupEnv(t)
	id := env.createSensor(t)

	resp, body := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/templates/%d", id), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["result"] != "ok" || body["removed"] != true {
		t.Errorf("body = %v", body)
	}

	resp, _ = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/templates/%d", id), "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteAllTemplates(t *testing.T) {
	env := setupEnv(t)
	env.createSensor(t)
	env.createSensor(t)

	resp, body := env.do(t, http.MethodDelete, "/api/v1/templates/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["result"] != "ok" {
		t.Errorf("body = %v", body)
	}

	_, list := env.do(t, http.MethodGet, "/api/v1/templates/", "")
	if len(list["templates"].([]any)) != 0 {
		t.Errorf("templates after delete all = %v", list["templates"])
	}
}
