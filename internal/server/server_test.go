package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleLog = `2026-02-17 12:00:00.000 [Error] [Enrollment] [Thread:1] [Context:] join failed
2026-02-17 12:00:01.000 [Warning] [Setup] [Thread:2] [Context:] retrying
2026-02-17 12:00:02.000 [Information] [Setup] [Thread:2] [Context:] done
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(path, []byte(sampleLog), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(path, "0")
	if err := s.Reload(); err != nil {
		t.Fatal(err)
	}
	return s
}

func doJSON(t *testing.T, s *Server, method, url, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.engine.ServeHTTP(rr, req)

	var parsed map[string]any
	if rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("invalid JSON response: %v\nraw: %s", err, rr.Body.String())
		}
	}
	return rr, parsed
}

func TestRecordsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rr, body := doJSON(t, s, http.MethodGet, "/api/records", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := body["total"].(float64); got != 3 {
		t.Errorf("expected 3 total records, got %v", got)
	}
	records := body["records"].([]any)
	if len(records) != 3 {
		t.Errorf("expected 3 visible records, got %d", len(records))
	}
}

func TestLevelFilterEndpoint(t *testing.T) {
	s := newTestServer(t)

	// Deselect everything, then re-select Error only.
	rr, _ := doJSON(t, s, http.MethodPut, "/api/filters/level", `{"all": false}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	rr, body := doJSON(t, s, http.MethodPut, "/api/filters/level", `{"name": "Error", "selected": true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := body["visible"].(float64); got != 1 {
		t.Errorf("expected 1 visible record with only Error selected, got %v", got)
	}

	rr, _ = doJSON(t, s, http.MethodPut, "/api/filters/level", `{"name": "Bogus", "selected": true}`)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown level, got %d", rr.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t)

	rr, body := doJSON(t, s, http.MethodPut, "/api/filters/search", `{"text": "RETRY"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := body["visible"].(float64); got != 1 {
		t.Errorf("expected 1 case-insensitive match, got %v", got)
	}
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rr, body := doJSON(t, s, http.MethodGet, "/api/stats", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body["format"] != "Standard" {
		t.Errorf("expected Standard format, got %v", body["format"])
	}
	if got := body["skippedLines"].(float64); got != 0 {
		t.Errorf("expected 0 skipped lines, got %v", got)
	}
}

func TestFiltersSurviveReload(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPut, "/api/filters/level", `{"name": "Warning", "selected": false}`)

	// Append a line with a new level and reload.
	extra := "2026-02-17 12:00:03.000 [Debug] [Setup] [Thread:2] [Context:] trace\n"
	if err := os.WriteFile(s.path, []byte(sampleLog+extra), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err != nil {
		t.Fatal(err)
	}

	_, body := doJSON(t, s, http.MethodGet, "/api/filters", "")
	levels := body["levels"].([]any)
	byName := make(map[string]bool)
	for _, v := range levels {
		o := v.(map[string]any)
		byName[o["name"].(string)] = o["selected"].(bool)
	}
	if byName["Warning"] {
		t.Error("Warning deselection must survive the reload")
	}
	if byName["Debug"] {
		t.Error("Debug must come in unselected against a partial prior state")
	}
	if !byName["Error"] {
		t.Error("Error selection must survive the reload")
	}
}
