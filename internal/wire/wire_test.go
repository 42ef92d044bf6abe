package wire

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"film-catalog/internal/data/entity"
	"film-catalog/internal/data/repository/memory"
	"film-catalog/internal/events"
	"film-catalog/internal/usecase"
	"film-catalog/pkg/cache"
	"film-catalog/pkg/metrics"
	"film-catalog/pkg/utils"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testApp struct {
	t      *testing.T
	store  *memory.Store
	router http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := memory.New()
	disabled, err := cache.NewRedisClient("", "", 0)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	config := &utils.Config{
		App:        utils.AppConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Moderation: utils.ModerationConfig{AutoHideThreshold: 2},
		Redis:      utils.RedisConfig{TTL: time.Minute},
	}

	app := Wiring(usecase.Dependencies{
		Repo:      store.Repository(),
		Tx:        store.Transactor(),
		Cache:     disabled,
		Publisher: events.NoopPublisher{},
		Metrics:   metrics.NewWithRegistry(reg, reg),
	}, config, zaptest.NewLogger(t))

	return &testApp{t: t, store: store, router: app.Router}
}

// login seeds a user with a live session and returns its user ID and bearer token.
func (a *testApp) login(role entity.UserRole) (uuid.UUID, string) {
	id := uuid.New()
	now := time.Now()
	a.store.SeedUser(entity.User{
		Row:        entity.Row{ID: id, CreatedAt: now},
		Username:   "u-" + id.String()[:8],
		Email:      id.String()[:8] + "@example.com",
		Role:       role,
	})
	token := uuid.New()
	a.store.SeedSession(entity.Session{
		Row:        entity.Row{ID: uuid.New(), CreatedAt: now},
		UserID:     id,
		Token:      token,
		ExpiresAt:  now.Add(time.Hour),
	})
	return id, token.String()
}

func (a *testApp) movie() string {
	id := uuid.New()
	a.store.SeedMovie(entity.Movie{
		Row:         entity.Row{ID: id, CreatedAt: time.Now()},
		Title:       "Stalker",
		ReleaseYear: 1979,
	})
	return id.String()
}

func (a *testApp) do(method, path, token string, body any) (*httptest.ResponseRecorder, utils.Response) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var resp utils.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func reviewBody() map[string]any {
	return map[string]any{
		"content": "A slow walk into the Zone.",
		"scores": map[string]int{
			"direction": 9, "screenplay": 8, "cinematography": 10, "general": 9,
		},
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	rec, _ := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	app := newTestApp(t)
	movieID := app.movie()

	rec, _ := app.do(http.MethodPost, "/api/movies/"+movieID+"/watched", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = app.do(http.MethodPost, "/api/movies/"+movieID+"/watched", "not-a-session", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReviewLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	movieID := app.movie()
	authorID, author := app.login(entity.RoleUser)
	reviewPath := "/api/reviews/" + authorID.String() + "/" + movieID

	rec, _ := app.do(http.MethodPost, "/api/movies/"+movieID+"/reviews", author, reviewBody())
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "review before watching")

	rec, _ = app.do(http.MethodPost, "/api/movies/"+movieID+"/watched", author, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = app.do(http.MethodPost, "/api/movies/"+movieID+"/reviews", author, reviewBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = app.do(http.MethodPost, "/api/movies/"+movieID+"/reviews", author, reviewBody())
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = app.do(http.MethodGet, reviewPath, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, fan := app.login(entity.RoleUser)
	rec, _ = app.do(http.MethodPost, reviewPath+"/like", fan, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = app.do(http.MethodDelete, "/api/movies/"+movieID+"/watched", author, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "unwatch a reviewed movie")

	rec, _ = app.do(http.MethodDelete, reviewPath, fan, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = app.do(http.MethodDelete, reviewPath, author, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = app.do(http.MethodGet, reviewPath, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReviewValidation(t *testing.T) {
	app := newTestApp(t)
	movieID := app.movie()
	_, author := app.login(entity.RoleUser)

	rec, _ := app.do(http.MethodPost, "/api/movies/"+movieID+"/watched", author, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := reviewBody()
	body["scores"] = map[string]int{"direction": 11, "screenplay": 8, "cinematography": 10, "general": 9}
	rec, resp := app.do(http.MethodPost, "/api/movies/"+movieID+"/reviews", author, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotNil(t, resp.Errors)

	rec, _ = app.do(http.MethodPost, "/api/reviews/not-a-key/"+movieID+"/like", author, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFlagsAutoHideAndAdminRoutes(t *testing.T) {
	app := newTestApp(t)
	movieID := app.movie()
	authorID, author := app.login(entity.RoleUser)
	_, admin := app.login(entity.RoleAdmin)
	reviewPath := "/api/reviews/" + authorID.String() + "/" + movieID
	flag := map[string]string{"reason": "spoilers"}

	app.do(http.MethodPost, "/api/movies/"+movieID+"/watched", author, nil)
	rec, _ := app.do(http.MethodPost, "/api/movies/"+movieID+"/reviews", author, reviewBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = app.do(http.MethodPost, reviewPath+"/flags", author, flag)
	assert.Equal(t, http.StatusForbidden, rec.Code, "self flag")

	_, first := app.login(entity.RoleUser)
	rec, _ = app.do(http.MethodPost, reviewPath+"/flags", first, flag)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = app.do(http.MethodPost, reviewPath+"/flags", first, flag)
	assert.Equal(t, http.StatusConflict, rec.Code)

	_, second := app.login(entity.RoleUser)
	rec, _ = app.do(http.MethodPost, reviewPath+"/flags", second, flag)
	require.Equal(t, http.StatusCreated, rec.Code)

	// threshold of 2 reached: hidden from the public, visible to author and admin
	rec, _ = app.do(http.MethodGet, reviewPath, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = app.do(http.MethodGet, reviewPath, author, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = app.do(http.MethodGet, reviewPath, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = app.do(http.MethodGet, "/api/admin/reviews/flagged?min_flags=2", author, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := app.do(http.MethodGet, "/api/admin/reviews/flagged?min_flags=2", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Len(t, page["data"], 1)

	rec, _ = app.do(http.MethodPost, "/api/admin"+strings.TrimPrefix(reviewPath, "/api")+"/hide", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "already hidden")

	rec, _ = app.do(http.MethodPost, "/api/admin"+strings.TrimPrefix(reviewPath, "/api")+"/unhide", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = app.do(http.MethodGet, reviewPath, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWatchlistRoutes(t *testing.T) {
	app := newTestApp(t)
	movieID := app.movie()
	ownerID, owner := app.login(entity.RoleUser)
	_, stranger := app.login(entity.RoleUser)

	rec, resp := app.do(http.MethodPost, "/api/watchlists", owner, map[string]string{"name": "Weekend"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	listPath := "/api/watchlists/" + created["id"].(string)

	rec, _ = app.do(http.MethodPost, listPath+"/movies", stranger, map[string]string{"movie_id": movieID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	for range 2 {
		rec, _ = app.do(http.MethodPost, listPath+"/movies", owner, map[string]string{"movie_id": movieID})
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec, resp = app.do(http.MethodGet, listPath+"/movies/"+movieID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp.Data.(map[string]any)["contains"])

	rec, _ = app.do(http.MethodPost, listPath+"/movies/"+movieID+"/watched", owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = app.do(http.MethodDelete, listPath+"/movies", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, resp.Data.(map[string]any)["removed"])

	rec, resp = app.do(http.MethodGet, "/api/users/"+ownerID.String()+"/watchlists", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.(map[string]any)["data"], 1)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)

	rec, _ := app.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "film_catalog_reviews_created_total")
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/watchlists", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListFlaggedRejectsBadThreshold(t *testing.T) {
	app := newTestApp(t)
	_, admin := app.login(entity.RoleAdmin)

	rec, _ := app.do(http.MethodGet, "/api/admin/reviews/flagged?min_flags=0", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = app.do(http.MethodGet, "/api/admin/reviews/flagged?min_flags=many", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
