package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/logistics/internal/infrastructure/auth"
	"github.com/erp/logistics/internal/infrastructure/config"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func newTestTokenPair(t *testing.T, jwtService *auth.JWTService, role string) (*auth.TokenPair, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "testuser",
		Role:     role,
	}
	pair, err := jwtService.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair, input
}

func serveWithToken(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func okRouter(mw ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw...)
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/test", handler)
	router.GET("/health", handler)
	router.GET("/api/auth/login", handler)
	router.GET("/public/docs", handler)
	return router
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	pair, input := newTestTokenPair(t, jwtService, "manager")

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, input.UserID.String(), GetJWTUserID(c))
		assert.Equal(t, input.TenantID.String(), GetJWTTenantID(c))
		assert.Equal(t, "testuser", GetJWTUsername(c))
		assert.Equal(t, "manager", GetJWTRole(c))
		assert.Equal(t, input.UserID.String(), logger.GetUserID(c.Request.Context()))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rec := serveWithToken(router, "/test", "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	jwtService := newTestJWTService()
	pair, _ := newTestTokenPair(t, jwtService, "staff")

	expiredService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
	})
	expired, _ := newTestTokenPair(t, expiredService, "staff")

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "ERR_UNAUTHORIZED"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "ERR_TOKEN_INVALID"},
		{"empty token", "Bearer ", "ERR_TOKEN_INVALID"},
		{"garbage token", "Bearer not.a.jwt", "ERR_TOKEN_INVALID"},
		{"refresh token as access", "Bearer " + pair.RefreshToken, "ERR_TOKEN_INVALID"},
		{"expired token", "Bearer " + expired.AccessToken, "ERR_TOKEN_EXPIRED"},
	}

	router := okRouter(JWTAuthMiddleware(jwtService))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveWithToken(router, "/test", tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}
}

func TestJWTAuthMiddleware_RevokedToken(t *testing.T) {
	jwtService := newTestJWTService()
	store := auth.NewMemoryRevocationStore()
	pair, input := newTestTokenPair(t, jwtService, "staff")

	cfg := DefaultJWTConfig(jwtService)
	cfg.Revocation = store
	router := okRouter(JWTAuthMiddlewareWithConfig(cfg))

	assert.Equal(t, http.StatusOK, serveWithToken(router, "/test", "Bearer "+pair.AccessToken).Code)

	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, store.Revoke(context.Background(), claims.ID, time.Minute))

	rec := serveWithToken(router, "/test", "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_TOKEN_REVOKED")

	t.Run("user wide revocation", func(t *testing.T) {
		fresh, err := jwtService.GenerateTokenPair(input)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, serveWithToken(router, "/test", "Bearer "+fresh.AccessToken).Code)

		require.NoError(t, store.RevokeUser(context.Background(), input.UserID.String(), time.Hour))
		rec := serveWithToken(router, "/test", "Bearer "+fresh.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	jwtService := newTestJWTService()

	router := okRouter(JWTAuthMiddleware(jwtService))
	assert.Equal(t, http.StatusOK, serveWithToken(router, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serveWithToken(router, "/api/auth/login", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serveWithToken(router, "/test", "").Code)

	cfg := DefaultJWTConfig(jwtService)
	cfg.SkipPathPrefixes = []string{"/public/"}
	router = okRouter(JWTAuthMiddlewareWithConfig(cfg))
	assert.Equal(t, http.StatusOK, serveWithToken(router, "/public/docs", "").Code)
}

func TestJWTGetters_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTTenantID(c))
	assert.Empty(t, GetJWTUsername(c))
	assert.Empty(t, GetJWTRole(c))
}
