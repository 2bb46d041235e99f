package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veloracart/ecommerce-api/auth"
	"github.com/veloracart/ecommerce-api/models"
	"github.com/veloracart/ecommerce-api/ratelimit"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(policy string) *gin.Engine {
	r := gin.New()
	grp := r.Group("/admin", ValidateToken(testSecret), RequirePolicy(policy))
	grp.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "user_id": c.GetString("user_id")})
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	w := doGet(protectedRouter("admin"), "/admin/ping", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGarbageTokenIsUnauthorized(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "not-a-jwt")
	w := httptest.NewRecorder()
	protectedRouter("admin").ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCustomerRoleIsForbidden(t *testing.T) {
	token, err := auth.IssueToken(testSecret, "u1", models.RoleCustomer)
	require.NoError(t, err)

	w := doGet(protectedRouter("admin"), "/admin/ping", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRolePassesThrough(t *testing.T) {
	token, err := auth.IssueToken(testSecret, "u1", models.RoleAdmin)
	require.NoError(t, err)

	w := doGet(protectedRouter("admin"), "/admin/ping", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
	assert.Contains(t, w.Body.String(), "u1")
}

func TestManagerAllowedOnAdminButNotUserManagement(t *testing.T) {
	token, err := auth.IssueToken(testSecret, "u1", models.RoleManager)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(protectedRouter("admin"), "/admin/ping", token).Code)
	assert.Equal(t, http.StatusForbidden, doGet(protectedRouter("admin.users"), "/admin/ping", token).Code)
}

func TestWrongSecretIsUnauthorized(t *testing.T) {
	token, err := auth.IssueToken("other-secret", "u1", models.RoleAdmin)
	require.NoError(t, err)

	w := doGet(protectedRouter("admin"), "/admin/ping", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimitRejectsWithRetryAfter(t *testing.T) {
	start := time.Now()
	clock := start
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), ratelimit.DefaultConfig()).
		WithClock(func() time.Time { return clock })

	r := gin.New()
	r.GET("/login", RateLimit(limiter, ratelimit.ClassAuth), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		w := doGet(r, "/login", "")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := doGet(r, "/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	clock = start.Add(16 * time.Minute)
	assert.Equal(t, http.StatusOK, doGet(r, "/login", "").Code, "window expiry resets the counter")
}

func TestAPIKeyGate(t *testing.T) {
	r := gin.New()
	r.POST("/maintenance/cleanup-reservations", ValidateAPIKey("sekrit"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/maintenance/cleanup-reservations", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/maintenance/cleanup-reservations", nil)
	req.Header.Set("X-API-KEY", "sekrit")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
