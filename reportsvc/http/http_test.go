package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestHealthEndpoint(t *testing.T) {
	s := NewServer(zerolog.Nop())
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()

	s.Mux.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestTabulateEndpointRejectsGET(t *testing.T) {
	s := NewServer(zerolog.Nop())
	req := httptest.NewRequest("GET", "/tabulate", nil)
	rec := httptest.NewRecorder()

	s.Mux.ServeHTTP(rec, req)

	if rec.Code != 405 {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body["error"] != "tabulate requires POST" {
		t.Errorf("error message = %q, want %q", body["error"], "tabulate requires POST")
	}
}

func TestTabulateEndpointRejectsUnknownNormalizationKey(t *testing.T) {
	s := NewServer(zerolog.Nop())
	body := []byte(`{
		"candidates": [{"name":"A","candidate_type":"regular"}],
		"ballots": [],
		"normalization": {"bogus_key": true}
	}`)
	req := httptest.NewRequest("POST", "/tabulate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.Mux.ServeHTTP(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
	}
}

func TestTabulateEndpointReturnsReport(t *testing.T) {
	s := NewServer(zerolog.Nop())
	body := []byte(`{
		"candidates": [{"name":"A","candidate_type":"regular"}, {"name":"B","candidate_type":"regular"}],
		"ballots": [
			{"id":"1","choices":[{"kind":"vote","candidate":0}]},
			{"id":"2","choices":[{"kind":"vote","candidate":0}]},
			{"id":"3","choices":[{"kind":"vote","candidate":1}]}
		],
		"normalization": {"skip_undervote": true, "overvote_policy": "exhaust", "duplicate_policy": "skip"},
		"tabulation_options": {"tie_break_mode": "lexicographic_by_id", "winning_threshold": "majority"}
	}`)
	req := httptest.NewRequest("POST", "/tabulate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.Mux.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var report map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if report["ballot_count"].(float64) != 3 {
		t.Errorf("ballot_count = %v, want 3", report["ballot_count"])
	}
}
