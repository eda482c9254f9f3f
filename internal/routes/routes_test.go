package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"equipment-logbook/internal/access"
	"equipment-logbook/internal/config"
	"equipment-logbook/internal/jwt"
	"equipment-logbook/internal/lending"
	"equipment-logbook/internal/logbook"
	"equipment-logbook/internal/nonce"
	"equipment-logbook/internal/storage"
)

type testAPI struct {
	engine *gin.Engine
	svc    *logbook.Service
	store  storage.Provider
}

func newTestAPI(t *testing.T, limiter *IPRateLimiter) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	store, err := storage.NewProvider(ctx, &config.Storage{
		Driver: config.DriverSQLite,
		SQLite: &config.SQLiteStorage{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	admins, err := access.NewRegistry(store, config.FallbackAdmin{Username: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	nonces := nonce.NewMemoryStore()
	t.Cleanup(nonces.Close)
	issuer, err := jwt.NewIssuer("test-secret", time.Hour, nonces)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	svc := logbook.NewService(store, admins, nil, logbook.Options{
		Location: time.UTC,
		Now:      func() time.Time { return now },
	})

	r := gin.New()
	r.Use(ErrorHandler())
	Register(r, &Server{
		Logbook:   svc,
		Admins:    admins,
		Issuer:    issuer,
		DB:        store,
		Export:    config.Export{Filename: "logbook"},
		LabelSize: 128,
		Login:     limiter,
	})
	return &testAPI{engine: r, svc: svc, store: store}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testAPI) login(t *testing.T) string {
	t.Helper()
	w := a.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil || res.Token == "" {
		t.Fatalf("login response %s: %v", w.Body.String(), err)
	}
	return res.Token
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorStruct {
	t.Helper()
	var e errorStruct
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return e
}

func hasCode(e errorStruct, code string) bool {
	for _, c := range e.Code {
		if c == code {
			return true
		}
	}
	return false
}

func TestLoginLogout(t *testing.T) {
	a := newTestAPI(t, nil)

	w := a.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", w.Code)
	}
	if e := decodeError(t, w); !hasCode(e, "AUTH_INVALID_CREDENTIALS") || e.Succeed {
		t.Errorf("unexpected error body %+v", e)
	}

	if w := a.do(http.MethodGet, "/api/auth/status", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("status without token: expected 401, got %d", w.Code)
	}

	token := a.login(t)
	w = a.do(http.MethodGet, "/api/auth/status", token, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"username":"admin"`) {
		t.Fatalf("status: %d %s", w.Code, w.Body.String())
	}

	if w := a.do(http.MethodPost, "/api/auth/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}
	w = a.do(http.MethodGet, "/api/auth/status", token, nil)
	if w.Code != http.StatusUnauthorized || !hasCode(decodeError(t, w), "AUTH_INVALID_NONCE") {
		t.Fatalf("token must be revoked after logout: %d %s", w.Code, w.Body.String())
	}
}

func TestLoginRateLimited(t *testing.T) {
	a := newTestAPI(t, NewIPRateLimiter(1, 1))
	a.login(t)

	w := a.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "secret"})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestRequestWorkflow(t *testing.T) {
	a := newTestAPI(t, nil)
	token := a.login(t)

	w := a.do(http.MethodPost, "/api/requests", "", lending.Request{
		Requestor: "Dana", Purpose: "survey", BorrowDate: "2026-10-15", ReturnDate: "2026-10-16",
	})
	if w.Code != http.StatusBadRequest || !hasCode(decodeError(t, w), "VALIDATION_FAILED") {
		t.Fatalf("empty items: %d %s", w.Code, w.Body.String())
	}

	w = a.do(http.MethodPost, "/api/requests", "", lending.Request{
		Requestor: "Dana", Purpose: "survey", BorrowDate: "2026-10-15", ReturnDate: "2026-10-16",
		Items: []string{"Drone", "Tripod"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", w.Code, w.Body.String())
	}
	var created []lending.LogEntry
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || len(created) != 2 {
		t.Fatalf("created %s: %v", w.Body.String(), err)
	}
	id := created[0].ID

	w = a.do(http.MethodGet, "/api/logs?q=tripod", "", nil)
	var found []lending.LogEntry
	if err := json.Unmarshal(w.Body.Bytes(), &found); err != nil || len(found) != 1 || found[0].Item != "Tripod" {
		t.Fatalf("search: %s", w.Body.String())
	}

	path := "/api/logs/" + id + "/status"
	if w := a.do(http.MethodPatch, path, "", gin.H{"status": "BORROWED", "confirm": true}); w.Code != http.StatusUnauthorized {
		t.Fatalf("status change needs a session, got %d", w.Code)
	}

	w = a.do(http.MethodPatch, path, token, gin.H{"status": "BORROWED"})
	if w.Code != http.StatusPreconditionRequired {
		t.Fatalf("unconfirmed change: expected 428, got %d", w.Code)
	}
	if e := decodeError(t, w); !strings.Contains(e.Message, "Drone") || !hasCode(e, "CONFIRMATION_REQUIRED") {
		t.Errorf("prompt should be returned: %+v", e)
	}

	w = a.do(http.MethodPatch, path, token, gin.H{"status": "BORROWED", "confirm": true})
	var entry lending.LogEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entry); w.Code != http.StatusOK || err != nil {
		t.Fatalf("confirmed change: %d %s", w.Code, w.Body.String())
	}
	if entry.Status != lending.StatusBorrowed || entry.ClearedBy != "admin" {
		t.Errorf("unexpected entry %+v", entry)
	}

	w = a.do(http.MethodDelete, "/api/logs/"+id+"?confirm=true", token, nil)
	if w.Code != http.StatusConflict || !hasCode(decodeError(t, w), "PRECONDITION_FAILED") {
		t.Fatalf("deleting a borrowed entry: %d %s", w.Code, w.Body.String())
	}

	if w := a.do(http.MethodDelete, "/api/logs/missing?confirm=true", token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing entry: expected 404, got %d", w.Code)
	}

	w = a.do(http.MethodPost, "/api/logs/approve-today", token, gin.H{"confirm": true})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"approved":1`) {
		t.Fatalf("approve today: %d %s", w.Code, w.Body.String())
	}

	w = a.do(http.MethodGet, "/api/dashboard", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"itemsOnLoan":2`) {
		t.Fatalf("dashboard: %d %s", w.Code, w.Body.String())
	}
}

func TestExportCSV(t *testing.T) {
	a := newTestAPI(t, nil)
	a.do(http.MethodPost, "/api/requests", "", lending.Request{
		Requestor: "Dana", Purpose: "survey, north", BorrowDate: "2026-10-15", ReturnDate: "2026-10-16",
		Items: []string{"Drone"},
	})

	w := a.do(http.MethodGet, "/api/logs/export.csv", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "logbook-2026-10-15.csv") {
		t.Errorf("Content-Disposition %q", cd)
	}
	want := "Requestor,Item,Purpose,Borrow Date,Return Date,Status,Cleared By\n" +
		"Dana,Drone,\"survey, north\",10/15/2026,10/16/2026,PENDING,\n"
	if got := w.Body.String(); got != want {
		t.Errorf("csv:\n%q\nwant\n%q", got, want)
	}
}

func TestEquipmentAndLabels(t *testing.T) {
	a := newTestAPI(t, nil)
	token := a.login(t)

	w := a.do(http.MethodPost, "/api/equipment", token, gin.H{"name": "Drone"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing image url: expected 400, got %d", w.Code)
	}
	w = a.do(http.MethodPost, "/api/equipment", token, gin.H{"name": "Drone", "imageUrl": "https://img/drone"})
	var item lending.EquipmentItem
	if err := json.Unmarshal(w.Body.Bytes(), &item); w.Code != http.StatusCreated || err != nil {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}

	w = a.do(http.MethodGet, "/api/equipment/"+item.ID+"/label.png", "", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("label: %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("label is not a PNG")
	}
	if w := a.do(http.MethodGet, "/api/equipment/"+item.ID+"/label.png?size=0", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("invalid size: expected 400, got %d", w.Code)
	}
	if w := a.do(http.MethodGet, "/api/equipment/nope/label.png", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown equipment: expected 404, got %d", w.Code)
	}

	if w := a.do(http.MethodDelete, "/api/equipment/"+item.ID, token, nil); w.Code != http.StatusPreconditionRequired {
		t.Errorf("unconfirmed delete: expected 428, got %d", w.Code)
	}
	if w := a.do(http.MethodDelete, "/api/equipment/"+item.ID+"?confirm=true", token, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", w.Code)
	}
}

func TestAdminsAPI(t *testing.T) {
	a := newTestAPI(t, nil)
	token := a.login(t)

	if w := a.do(http.MethodGet, "/api/admins", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("admins are protected, got %d", w.Code)
	}
	w := a.do(http.MethodPost, "/api/admins", token, gin.H{"username": "admin", "password": "x"})
	if w.Code != http.StatusConflict {
		t.Fatalf("fallback username: expected 409, got %d", w.Code)
	}
	w = a.do(http.MethodPost, "/api/admins", token, gin.H{"username": "kim", "password": "pw"})
	if w.Code != http.StatusCreated || strings.Contains(w.Body.String(), "passwordHash") {
		t.Fatalf("create admin: %d %s", w.Code, w.Body.String())
	}

	w = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "kim", "password": "pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("stored admin login: %d", w.Code)
	}
	w = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "Kim", "password": "pw"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("usernames are case sensitive, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t, nil)
	w := a.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}
