package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/candidhq/intake/internal/auth"
	"github.com/candidhq/intake/internal/core/config"
	"github.com/candidhq/intake/internal/core/domain"
	"github.com/candidhq/intake/internal/infra/blob"
	"github.com/candidhq/intake/internal/infra/storage/memory"
	"github.com/candidhq/intake/internal/intake/countries"
)

// =============================================================================
// Harness
// =============================================================================

type recordingMailer struct {
	mu       sync.Mutex
	received []string
	changed  []string
}

func (m *recordingMailer) ApplicationReceived(app *domain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received = append(m.received, app.ID)
	return nil
}

func (m *recordingMailer) StatusChanged(app *domain.Application, previous domain.ApplicationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changed = append(m.changed, app.ID)
	return nil
}

type testEnv struct {
	server *Server
	repo   *memory.ApplicationRepo
	mailer *recordingMailer
	authFn func(t *testing.T) string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	authSvc := auth.NewService(config.AdminConfig{
		Email:        "admin@example.com",
		PasswordHash: hash,
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
	})

	blobs, err := blob.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}

	repo := memory.NewApplicationRepo(memory.NewMemoryStorage())
	mailer := &recordingMailer{}
	srv := NewServer(config.ServerConfig{}, repo, blobs, countries.NewRegistry(), authSvc, mailer, nil)

	env := &testEnv{server: srv, repo: repo, mailer: mailer}
	env.authFn = func(t *testing.T) string {
		token, err := authSvc.Login("admin@example.com", "s3cret")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		return token
	}
	return env
}

type formValues map[string]string

func multipartBody(t *testing.T, values formValues, withCV bool) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range values {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField failed: %v", err)
		}
	}
	if withCV {
		part, err := w.CreateFormFile("cv", "cv.pdf")
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		part.Write([]byte("%PDF-1.4 test"))
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func validValues() formValues {
	return formValues{
		"full_name":  "Ana Horvat",
		"email":      "ana@example.com",
		"country":    "HR",
		"phone":      "95 1234567",
		"position":   "Backend Engineer",
		"cover_note": "Hello!",
		"channels":   "LinkedIn",
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

// =============================================================================
// Intake endpoint
// =============================================================================

func TestSubmit_Accepted(t *testing.T) {
	env := newTestEnv(t)

	body, ct := multipartBody(t, validValues(), true)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
	req.Header.Set("Content-Type", ct)

	rec := env.do(req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode(t, rec)
	if resp["success"] != true {
		t.Errorf("Expected success=true, got %v", resp)
	}
	id, _ := resp["id"].(string)
	if id == "" {
		t.Fatal("Expected application id in response")
	}

	app, err := env.repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("Expected persisted application: %v", err)
	}
	if app.Status != domain.StatusReceived {
		t.Errorf("Expected status received, got %s", app.Status)
	}
	if app.CVKey == "" || !strings.HasPrefix(app.CVKey, "cv/") {
		t.Errorf("Expected stored CV key, got %q", app.CVKey)
	}
}

func TestSubmit_MissingEmail(t *testing.T) {
	env := newTestEnv(t)

	values := validValues()
	delete(values, "email")
	body, ct := multipartBody(t, values, true)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
	req.Header.Set("Content-Type", ct)

	rec := env.do(req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	resp := decode(t, rec)
	msg, _ := resp["message"].(string)
	if !strings.HasPrefix(msg, "⚠") {
		t.Errorf("Expected validation marker prefix, got %q", msg)
	}
	if !strings.Contains(msg, "Email") {
		t.Errorf("Expected message referencing Email, got %q", msg)
	}
	if resp["field"] != "email" {
		t.Errorf("Expected failing field email, got %v", resp["field"])
	}
}

func TestSubmit_MissingCV(t *testing.T) {
	env := newTestEnv(t)

	body, ct := multipartBody(t, validValues(), false)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
	req.Header.Set("Content-Type", ct)

	rec := env.do(req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSubmit_DuplicateKeepsLegacyMessage(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 2; i++ {
		body, ct := multipartBody(t, validValues(), true)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
		req.Header.Set("Content-Type", ct)
		rec := env.do(req)

		if i == 0 {
			if rec.Code != http.StatusCreated {
				t.Fatalf("Expected first submission to succeed, got %d", rec.Code)
			}
			continue
		}
		if rec.Code != http.StatusConflict {
			t.Fatalf("Expected 409 on duplicate, got %d", rec.Code)
		}
		resp := decode(t, rec)
		msg, _ := resp["message"].(string)
		if !strings.Contains(msg, "ya aplicó anteriormente") {
			t.Errorf("Expected legacy duplicate marker in message, got %q", msg)
		}
	}
}

// =============================================================================
// Admin endpoints
// =============================================================================

func seed(t *testing.T, env *testEnv) string {
	t.Helper()
	body, ct := multipartBody(t, validValues(), true)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
	req.Header.Set("Content-Type", ct)
	rec := env.do(req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Seed submission failed: %d", rec.Code)
	}
	return decode(t, rec)["id"].(string)
}

func TestAdmin_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/applications", nil)
	if rec := env.do(req); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/applications", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	if rec := env.do(req); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with bad token, got %d", rec.Code)
	}
}

func TestAdmin_ListAndFilter(t *testing.T) {
	env := newTestEnv(t)
	seed(t, env)
	token := env.authFn(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/applications?status=received", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := env.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode(t, rec)
	if resp["total"] != float64(1) {
		t.Errorf("Expected total 1, got %v", resp["total"])
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/applications?status=bogus", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if rec := env.do(req); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown status, got %d", rec.Code)
	}
}

func TestAdmin_StatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	id := seed(t, env)
	token := env.authFn(t)

	patch := func(status string) *httptest.ResponseRecorder {
		body := bytes.NewBufferString(`{"status":"` + status + `"}`)
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/applications/"+id+"/status", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		return env.do(req)
	}

	// received -> hired is illegal.
	if rec := patch("hired"); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for illegal transition, got %d", rec.Code)
	}

	// received -> reviewing is legal.
	if rec := patch("reviewing"); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	app, err := env.repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if app.Status != domain.StatusReviewing {
		t.Errorf("Expected status reviewing, got %s", app.Status)
	}
}

func TestAdmin_ExportCSV(t *testing.T) {
	env := newTestEnv(t)
	seed(t, env)
	token := env.authFn(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/applications/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := env.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Expected text/csv, got %s", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header plus one row, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "ana@example.com") {
		t.Errorf("Expected row with candidate email, got %q", lines[1])
	}
}

func TestCountries_Endpoint(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/countries", nil)
	rec := env.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"+385"`) {
		t.Errorf("Expected Croatia in country list, got %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := env.do(req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}
