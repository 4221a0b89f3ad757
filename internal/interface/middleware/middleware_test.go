package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/infrastructure/memory"
	"github.com/oksasatya/storefront/pkg/helpers"
)

type authFixture struct {
	store   *memory.Store
	users   *application.UserService
	cookies *helpers.Manager
	router  *gin.Engine
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	users := application.NewUserService(store.Users(), helpers.NewJWTManager("secret", time.Hour), nil)
	cookies := helpers.NewCookie("token", "", false, "strict")

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Auth(users, cookies, nil), func(c *gin.Context) {
		u := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "password": u.Password, "ctx_id": c.GetString(CtxUserIDKey)})
	})
	r.GET("/admin", Auth(users, cookies, nil), RequireRole(entity.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return &authFixture{store: store, users: users, cookies: cookies, router: r}
}

func (f *authFixture) login(t *testing.T, email string, role entity.Role) (string, string) {
	t.Helper()
	hash, err := helpers.HashPassword("password1")
	require.NoError(t, err)
	u := &entity.User{Name: "T", Email: email, Password: hash, Role: role}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	_, sess, err := f.users.Login(context.Background(), email, "password1", application.ClientInfo{})
	require.NoError(t, err)
	return u.ID, sess.Token
}

func (f *authFixture) do(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
		Success bool   `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Message
}

func clearedCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" && c.Value == "" && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestAuth_MissingCookie(t *testing.T) {
	f := newAuthFixture(t)
	rec := f.do("/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "not authorized, no token", messageOf(t, rec))
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuth_TamperedTokenClearsCookie(t *testing.T) {
	f := newAuthFixture(t)
	_, token := f.login(t, "a@x.com", entity.RoleUser)

	rec := f.do("/me", token+"tampered")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "not authorized, invalid token", messageOf(t, rec))
	assert.True(t, clearedCookie(rec))
}

func TestAuth_DeletedUserClearsCookie(t *testing.T) {
	f := newAuthFixture(t)
	id, token := f.login(t, "a@x.com", entity.RoleUser)
	f.store.DeleteUser(id)

	rec := f.do("/me", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "user not found", messageOf(t, rec))
	assert.True(t, clearedCookie(rec))
}

func TestAuth_AttachesSanitizedUser(t *testing.T) {
	f := newAuthFixture(t)
	id, token := f.login(t, "a@x.com", entity.RoleUser)

	rec := f.do("/me", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, id, body["id"])
	assert.Equal(t, id, body["ctx_id"])
	assert.Empty(t, body["password"])
}

func TestRequireRole(t *testing.T) {
	f := newAuthFixture(t)
	_, userToken := f.login(t, "u@x.com", entity.RoleUser)
	_, adminToken := f.login(t, "admin@x.com", entity.RoleAdmin)

	rec := f.do("/admin", userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "access denied", messageOf(t, rec))

	rec = f.do("/admin", adminToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do("/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type failingResolver struct{}

func (failingResolver) ResolveSession(context.Context, string) (*entity.User, error) {
	return nil, errors.New("db down")
}

func TestAuth_StoreFailureIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cookies := helpers.NewCookie("token", "", false, "lax")
	r := gin.New()
	r.GET("/me", Auth(failingResolver{}, cookies, nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "x"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, clearedCookie(rec))
}

func TestRequestIDAndRealIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), RealIP())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, ClientIP(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "203.0.113.5", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	fixed := "3f8a2a53-8c9e-4b1c-9d53-2f7a1d0e6b11"
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", fixed)
	req.Header.Set("CF-Connecting-IP", "198.51.100.4")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, fixed, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "198.51.100.4", rec.Body.String())
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
