package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/cabinet-ia/patrimoine/backend/internal/model/profile"
	sessionService "github.com/cabinet-ia/patrimoine/backend/internal/service/session"
)

func setupRouter() *chi.Mux {
	sessions := sessionService.NewService(profile.NewMemoryStore(profile.Seed()))
	handler := New(sessions)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestCreateSessionEmptyBody(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var out struct {
		ID string `json:"id"`
	}
	json.Unmarshal(resp.Body.Bytes(), &out)
	if out.ID == "" {
		t.Fatal("expected a session id")
	}
}

func TestCreateSessionWithProfile(t *testing.T) {
	r := setupRouter()

	body := bytes.NewReader([]byte(`{"profileId":"chef-entreprise"}`))
	req := httptest.NewRequest(http.MethodPost, "/session", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateSessionUnknownProfile(t *testing.T) {
	r := setupRouter()

	body := bytes.NewReader([]byte(`{"profileId":"astronaute"}`))
	req := httptest.NewRequest(http.MethodPost, "/session", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCreateSessionMalformedBody(t *testing.T) {
	r := setupRouter()

	body := bytes.NewReader([]byte(`{not json`))
	req := httptest.NewRequest(http.MethodPost, "/session", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
