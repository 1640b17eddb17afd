package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobtrack/jobtrack/internal/config"
	"github.com/jobtrack/jobtrack/internal/models"
	"github.com/jobtrack/jobtrack/internal/oidc"
	"github.com/jobtrack/jobtrack/internal/sessions"
	"github.com/jobtrack/jobtrack/internal/tokens"
	"github.com/jobtrack/jobtrack/internal/users"
	"github.com/jobtrack/jobtrack/pkg/middleware"
)

// fake user repo
type fakeUserRepo struct {
	bySub map[string]*models.User
}

func (f *fakeUserRepo) UpsertByEmail(ctx context.Context, u *models.User) (*models.User, error) {
	if f.bySub == nil {
		f.bySub = map[string]*models.User{}
	}
	for _, existing := range f.bySub {
		if existing.Email == u.Email {
			existing.Name = u.Name
			existing.UpdatedAt = time.Now().UTC()
			return existing, nil
		}
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.bySub[u.Sub] = u
	return u, nil
}

func (f *fakeUserRepo) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return f.bySub[sub], nil
}

// fake sessions repo
type fakeSessionsRepo struct {
	store map[string]*sessions.Session
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *sessions.Session) error {
	if f.store == nil {
		f.store = map[string]*sessions.Session{}
	}
	f.store[s.RefreshToken] = s
	return nil
}
func (f *fakeSessionsRepo) GetByRefresh(ctx context.Context, refresh string) (*sessions.Session, error) {
	s, ok := f.store[refresh]
	if !ok {
		return nil, nil
	}
	return s, nil
}
func (f *fakeSessionsRepo) DeleteByRefresh(ctx context.Context, refresh string) error {
	delete(f.store, refresh)
	return nil
}

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Environment = "development"
	cfg.Auth.JWTSecret = "auth-test-secret-32-bytes-xxxxxx"
	cfg.Auth.AccessTokenTTL = 15 * time.Minute
	cfg.Auth.RefreshTokenTTL = 7 * 24 * time.Hour
	cfg.Auth.SignInLinkTTL = 15 * time.Minute
	return cfg
}

func newAuthRouter(cfg *config.Config) (*gin.Engine, *AuthHandler) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(cfg,
		users.NewService(&fakeUserRepo{}),
		sessions.NewService(&fakeSessionsRepo{}),
		sessions.NewMemoryLinkStore(),
		sessions.NewBlacklist(nil),
	)
	r := gin.New()
	rg := r.Group("/")
	h.Register(rg)
	return r, h
}

func postJSON(t *testing.T, r *gin.Engine, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignInLinkFlow(t *testing.T) {
	cfg := testAuthConfig()
	r, _ := newAuthRouter(cfg)

	// development mode echoes the token so the flow is testable end to end
	w := postJSON(t, r, "/auth/link", `{"email":"Alice@Example.COM","name":"Alice"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var linkResp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &linkResp))
	require.NotEmpty(t, linkResp["token"])

	w = postJSON(t, r, "/auth/verify", fmt.Sprintf(`{"token":"%s","name":"Alice"}`, linkResp["token"]), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var verifyResp struct {
		AccessToken  string      `json:"accessToken"`
		RefreshToken string      `json:"refreshToken"`
		ExpiresIn    int         `json:"expiresIn"`
		User         models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verifyResp))
	assert.NotEmpty(t, verifyResp.AccessToken)
	assert.NotEmpty(t, verifyResp.RefreshToken)
	assert.Equal(t, 900, verifyResp.ExpiresIn)
	assert.Equal(t, "alice@example.com", verifyResp.User.Email)
	assert.NotEmpty(t, verifyResp.User.Sub)

	// the minted access token passes the HS256 verifier
	ver := tokens.NewVerifier(cfg.Auth.JWTSecret)
	tok, err := ver.Verify(context.Background(), verifyResp.AccessToken)
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	assert.Equal(t, verifyResp.User.Sub, claims["sub"])

	// a consumed link cannot be replayed
	w = postJSON(t, r, "/auth/verify", fmt.Sprintf(`{"token":"%s"}`, linkResp["token"]), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestLink_ProductionHidesToken(t *testing.T) {
	cfg := testAuthConfig()
	cfg.Server.Environment = "production"
	r, _ := newAuthRouter(cfg)

	w := postJSON(t, r, "/auth/link", `{"email":"a@b.c"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp["token"])
	assert.NotEmpty(t, resp["message"])
}

func TestRequestLink_RejectsBadEmail(t *testing.T) {
	r, _ := newAuthRouter(testAuthConfig())

	w := postJSON(t, r, "/auth/link", `{"email":"not-an-email"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/auth/link", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerify_InvalidToken(t *testing.T) {
	r, _ := newAuthRouter(testAuthConfig())

	w := postJSON(t, r, "/auth/verify", `{"token":"deadbeef"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh(t *testing.T) {
	cfg := testAuthConfig()
	gin.SetMode(gin.TestMode)
	userRepo := &fakeUserRepo{}
	uSvc := users.NewService(userRepo)
	sSvc := sessions.NewService(&fakeSessionsRepo{})
	h := NewAuthHandler(cfg, uSvc, sSvc, sessions.NewMemoryLinkStore(), sessions.NewBlacklist(nil))
	r := gin.New()
	h.Register(r.Group("/"))

	u, err := uSvc.UpsertByEmail(context.Background(), "a@b.c", "Alice")
	require.NoError(t, err)
	rt, err := sSvc.CreateSession(context.Background(), u.Sub, time.Hour)
	require.NoError(t, err)

	w := postJSON(t, r, "/auth/refresh", fmt.Sprintf(`{"refreshToken":"%s"}`, rt), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["accessToken"])

	w = postJSON(t, r, "/auth/refresh", `{"refreshToken":"does-not-exist"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_DeletesRefreshSession(t *testing.T) {
	cfg := testAuthConfig()
	gin.SetMode(gin.TestMode)
	sSvc := sessions.NewService(&fakeSessionsRepo{})
	h := NewAuthHandler(cfg, users.NewService(&fakeUserRepo{}), sSvc, sessions.NewMemoryLinkStore(), sessions.NewBlacklist(nil))
	r := gin.New()
	h.Register(r.Group("/"))

	rt, err := sSvc.CreateSession(context.Background(), "sub-1", time.Hour)
	require.NoError(t, err)

	exp := time.Now().Add(2 * time.Minute).Unix()
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"sub":"sub-1","exp":%d}`, exp)))
	access := "hdr." + payload + ".sig"

	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer "+access)
	w := postJSON(t, r, "/auth/logout", fmt.Sprintf(`{"refreshToken":"%s"}`, rt), hdr)
	require.Equal(t, http.StatusOK, w.Code)

	sess, err := sSvc.ValidateRefresh(context.Background(), rt)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestMe(t *testing.T) {
	cfg := testAuthConfig()
	gin.SetMode(gin.TestMode)
	uSvc := users.NewService(&fakeUserRepo{})
	h := NewAuthHandler(cfg, uSvc, sessions.NewService(&fakeSessionsRepo{}), sessions.NewMemoryLinkStore(), sessions.NewBlacklist(nil))

	u, err := uSvc.UpsertByEmail(context.Background(), "a@b.c", "Alice")
	require.NoError(t, err)
	access, err := tokens.GenerateAccessToken(cfg, u, time.Minute)
	require.NoError(t, err)

	r := gin.New()
	authed := r.Group("/", middleware.AuthMiddleware(tokens.NewVerifier(cfg.Auth.JWTSecret), nil))
	authed.GET("/me", h.Me)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, u.Sub, got.Sub)

	// no token
	req = httptest.NewRequest("GET", "/me", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_ExternallyVerifiedSubjectIsUpserted(t *testing.T) {
	cfg := testAuthConfig()
	gin.SetMode(gin.TestMode)
	uSvc := users.NewService(users.NewMemoryUserRepository())
	h := NewAuthHandler(cfg, uSvc, sessions.NewService(&fakeSessionsRepo{}), sessions.NewMemoryLinkStore(), sessions.NewBlacklist(nil))

	// bearer mode: tokens come from an external provider, no prior user row
	r := gin.New()
	authed := r.Group("/", middleware.AuthMiddleware(oidc.NewInsecureVerifier(), nil))
	authed.GET("/me", h.Me)

	bearer := func(claims string) string {
		return "hdr." + base64.RawURLEncoding.EncodeToString([]byte(claims)) + ".sig"
	}
	get := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get(bearer(`{"sub":"oidc-sub-1","email":"Carol@Example.com","name":"Carol"}`))
	require.Equal(t, http.StatusOK, w.Code)
	var got models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "oidc-sub-1", got.Sub)
	assert.Equal(t, "carol@example.com", got.Email)

	// row persisted, second request resolves by subject
	u, err := uSvc.GetBySub(context.Background(), "oidc-sub-1")
	require.NoError(t, err)
	require.NotNil(t, u)
	w = get(bearer(`{"sub":"oidc-sub-1","email":"carol@example.com"}`))
	assert.Equal(t, http.StatusOK, w.Code)

	// claims without an email cannot be upserted
	w = get(bearer(`{"sub":"oidc-sub-2"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParseExpFromJWT(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"s1","exp":1700000000}`))
	expTime, err := parseExpFromJWT("hdr." + payload + ".sig")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), expTime.Unix())

	noExp := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"s2"}`))
	_, err = parseExpFromJWT("hdr." + noExp + ".sig")
	assert.Error(t, err)

	_, err = parseExpFromJWT("not-a-jwt")
	assert.Error(t, err)
}
