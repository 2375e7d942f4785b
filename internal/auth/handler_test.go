package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/nippo-cloud/nippo/internal/shared"
)

type memoryRepo struct {
	accounts map[string]*Account
	sessions map[string]int64
}

func newMemoryRepo(accounts ...*Account) *memoryRepo {
	repo := &memoryRepo{
		accounts: make(map[string]*Account),
		sessions: make(map[string]int64),
	}
	for _, acc := range accounts {
		repo.accounts[acc.Email] = acc
	}
	return repo
}

func (r *memoryRepo) FindByEmail(ctx context.Context, email string) (*Account, error) {
	acc, ok := r.accounts[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return acc, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id int64) (*Account, error) {
	for _, acc := range r.accounts {
		if acc.ID == id {
			return acc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) CreateSession(ctx context.Context, id string, employeeID int64, expiresAt time.Time, ip, ua string) error {
	r.sessions[id] = employeeID
	return nil
}

func (r *memoryRepo) DeleteSession(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

var _ Repository = (*memoryRepo)(nil)

type commitWriter struct {
	http.ResponseWriter
	sess          *shared.Session
	manager       *shared.SessionManager
	ctx           context.Context
	req           *http.Request
	headerWritten bool
}

func (w *commitWriter) WriteHeader(statusCode int) {
	if !w.headerWritten {
		w.headerWritten = true
		_ = w.manager.Commit(w.ctx, w.ResponseWriter, w.req, w.sess)
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *commitWriter) Write(data []byte) (int, error) {
	if !w.headerWritten {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}

func newTestServer(t *testing.T, repo Repository) *httptest.Server {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := shared.NewSessionManager(client, "nippo_session", "test-secret", time.Hour, false)
	csrf := shared.NewCSRFManager("csrf-secret")

	service := NewService(repo)
	handler := NewHandler(discardLogger(), service, sessions, csrf)
	mw := Middleware{Service: service, Logger: discardLogger()}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessions.Load(req.Context(), req)
			if err != nil {
				t.Fatalf("load session: %v", err)
			}
			ctx := shared.ContextWithSession(req.Context(), sess)
			wrapped := &commitWriter{ResponseWriter: w, sess: sess, manager: sessions, ctx: ctx, req: req.WithContext(ctx)}
			next.ServeHTTP(wrapped, req.WithContext(ctx))
		})
	})
	r.Use(mw.WithActor)
	r.Route("/auth", handler.MountRoutes)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func salesAccount(t *testing.T) *Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &Account{
		ID:           1,
		Name:         "営業 太郎",
		Email:        "sales1@example.co.jp",
		PasswordHash: string(hash),
		Role:         "sales",
		IsActive:     true,
	}
}

func TestLoginAndSessionRoundtrip(t *testing.T) {
	srv := newTestServer(t, newMemoryRepo(salesAccount(t)))

	resp, err := http.Post(srv.URL+"/auth/login", "application/json",
		strings.NewReader(`{"email":"sales1@example.co.jp","password":"password123"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: %d", resp.StatusCode)
	}

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "nippo_session" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected session cookie")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/auth/session", nil)
	req.AddCookie(cookie)
	sessResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	defer sessResp.Body.Close()

	var body struct {
		Actor *struct {
			EmployeeID int64  `json:"employee_id"`
			Role       string `json:"role"`
		} `json:"actor"`
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.NewDecoder(sessResp.Body).Decode(&body); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if body.Actor == nil || body.Actor.EmployeeID != 1 || body.Actor.Role != "sales" {
		t.Fatalf("unexpected actor: %+v", body.Actor)
	}
	if body.CSRFToken == "" {
		t.Fatal("expected csrf token")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t, newMemoryRepo(salesAccount(t)))

	cases := []string{
		`{"email":"sales1@example.co.jp","password":"wrongpass1"}`,
		`{"email":"nobody@example.co.jp","password":"password123"}`,
	}
	for _, payload := range cases {
		resp, err := http.Post(srv.URL+"/auth/login", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		var body struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		resp.Body.Close()
		// Identical status and code for unknown account and bad password.
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status: %d", resp.StatusCode)
		}
		if body.Error.Code != "INVALID_CREDENTIALS" {
			t.Fatalf("code: %s", body.Error.Code)
		}
	}
}

func TestAnonymousSessionHasNoActor(t *testing.T) {
	srv := newTestServer(t, newMemoryRepo(salesAccount(t)))

	resp, err := http.Get(srv.URL + "/auth/session")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Actor     json.RawMessage `json:"actor"`
		CSRFToken string          `json:"csrf_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(body.Actor) != "null" {
		t.Fatalf("expected null actor, got %s", body.Actor)
	}
	if body.CSRFToken == "" {
		t.Fatal("anonymous sessions still need a csrf token for login")
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	repo := newMemoryRepo(salesAccount(t))
	srv := newTestServer(t, repo)

	resp, err := http.Post(srv.URL+"/auth/login", "application/json",
		strings.NewReader(`{"email":"sales1@example.co.jp","password":"password123"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	resp.Body.Close()
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "nippo_session" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected session cookie")
	}
	if len(repo.sessions) != 1 {
		t.Fatalf("expected session audit row, got %d", len(repo.sessions))
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/auth/logout", nil)
	req.AddCookie(cookie)
	logoutResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	logoutResp.Body.Close()
	if logoutResp.StatusCode != http.StatusOK {
		t.Fatalf("logout status: %d", logoutResp.StatusCode)
	}
	if len(repo.sessions) != 0 {
		t.Fatalf("expected session audit row removed, got %d", len(repo.sessions))
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/auth/session", nil)
	req.AddCookie(cookie)
	sessResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	defer sessResp.Body.Close()
	var body struct {
		Actor json.RawMessage `json:"actor"`
	}
	if err := json.NewDecoder(sessResp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(body.Actor) != "null" {
		t.Fatalf("expected actor cleared after logout, got %s", body.Actor)
	}
}
