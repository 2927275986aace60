package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	intconfig "backoffice/internal/config"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/http/handlers"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore answers every unit of work with err without touching any store.
type stubStore struct{ err error }

func (s stubStore) Do(context.Context, func(tx services.Tx) error) error { return s.err }

type users struct {
	mu  sync.Mutex
	all []models.User
}

func (u *users) Create(_ context.Context, user *models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, other := range u.all {
		if other.Email == user.Email {
			return domain.ConflictError{Resource: "user", Msg: "email already registered"}
		}
	}
	user.ID = int64(len(u.all) + 1)
	u.all = append(u.all, *user)
	return nil
}

func (u *users) GetByEmail(_ context.Context, email string) (models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, other := range u.all {
		if other.Email == strings.ToLower(strings.TrimSpace(email)) {
			return other, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

func (u *users) Count(context.Context) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.all), nil
}

func newTestRouter(t *testing.T, storeErr error) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := intconfig.Env{JWTSecret: "router-secret", JWTTTL: time.Hour, AgencyName: "Atlas Voyages", Currency: "TND"}
	handlers.Configure(handlers.Deps{Store: stubStore{err: storeErr}, Users: &users{}, Env: env})
	return NewRouter(env)
}

func do(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// login registers the account and returns its bearer token.
func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/auth/register", "", map[string]string{"name": "Staff", "email": email, "password": "s3cret-pass"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthAndRequestID(t *testing.T) {
	r := newTestRouter(t, nil)
	w := do(r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	health := decode(t, w)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "Atlas Voyages", health["agency"])
	assert.Equal(t, "TND", health["currency"])

	w = do(r, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r := newTestRouter(t, nil)
	w := do(r, http.MethodGet, "/api/clients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/api/clients", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	r := newTestRouter(t, nil)
	token := login(t, r, "nadia@agency.tn")

	w := do(r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.RoleAdmin, decode(t, w)["role"])

	w = do(r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nadia@agency.tn", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListResponseShape(t *testing.T) {
	r := newTestRouter(t, nil)
	token := login(t, r, "nadia@agency.tn")

	w := do(r, http.MethodGet, "/api/clients?page=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, []any{}, body["items"])
	assert.EqualValues(t, 2, body["page"])
	assert.EqualValues(t, 50, body["pageSize"])
}

func TestDomainErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		storeErr error
		method   string
		path     string
		body     any
		status   int
		code     string
	}{
		{"not found", domain.NotFoundError{Resource: "client", ID: 7}, http.MethodGet, "/api/clients/7", nil, http.StatusNotFound, "not_found"},
		{"user error", domain.UserError{Action: "confirm", Msg: "reservation has no travelers"}, http.MethodPost, "/api/reservations/3/confirm", nil, http.StatusUnprocessableEntity, "user_error"},
		{"conflict", domain.ConflictError{Resource: "client", Msg: "still referenced"}, http.MethodDelete, "/api/clients/3", nil, http.StatusConflict, "conflict"},
		{"validation before store", nil, http.MethodPost, "/api/clients", map[string]string{"phone": "+216 20 000 000"}, http.StatusBadRequest, "validation_error"},
		{"bad id", nil, http.MethodGet, "/api/trips/abc", nil, http.StatusBadRequest, "invalid_id"},
		{"bad date", nil, http.MethodGet, "/api/cash?start_date=04/05/2026", nil, http.StatusBadRequest, "invalid_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(t, tc.storeErr)
			token := login(t, r, "nadia@agency.tn")

			w := do(r, tc.method, tc.path, token, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, tc.code, decode(t, w)["code"])
		})
	}
}

func TestRecomputeIsAdminOnly(t *testing.T) {
	r := newTestRouter(t, nil)
	admin := login(t, r, "nadia@agency.tn")
	agent := login(t, r, "youssef@agency.tn")

	w := do(r, http.MethodPost, "/api/cash/recompute", agent, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPost, "/api/cash/recompute", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)
	_ = do(r, http.MethodGet, "/api/health", "", nil)

	w := do(r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "backoffice_http_requests_total")
}

func TestRoutesListing(t *testing.T) {
	r := newTestRouter(t, nil)
	w := do(r, http.MethodGet, "/api/routes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count  int `json:"count"`
		Routes []struct {
			Method string `json:"method"`
			Path   string `json:"path"`
		} `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, len(r.Routes()), body.Count)
	require.Len(t, body.Routes, body.Count)
	for i := 1; i < len(body.Routes); i++ {
		prev, cur := body.Routes[i-1], body.Routes[i]
		assert.True(t, prev.Path < cur.Path || (prev.Path == cur.Path && prev.Method <= cur.Method), "%v before %v", prev, cur)
	}
	assert.Contains(t, w.Body.String(), `"path":"/api/cash/recompute"`)
}
