package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDefaultTenant = "00000000-0000-0000-0000-000000000001"

func tenantRouter(pre ...gin.HandlerFunc) (*gin.Engine, *string) {
	var seen string
	router := gin.New()
	router.Use(pre...)
	router.Use(TenantMiddleware(testDefaultTenant))
	handler := func(c *gin.Context) {
		seen = GetTenantID(c)
		c.Status(http.StatusOK)
	}
	router.GET("/test", handler)
	router.GET("/health", handler)
	return router, &seen
}

func TestTenantMiddleware_Resolution(t *testing.T) {
	headerTenant := uuid.NewString()
	jwtTenant := uuid.NewString()

	t.Run("default tenant", func(t *testing.T) {
		router, seen := tenantRouter()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, testDefaultTenant, *seen)
	})

	t.Run("header", func(t *testing.T) {
		router, seen := tenantRouter()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(TenantHeaderKey, headerTenant)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, headerTenant, *seen)
	})

	t.Run("jwt overrides header", func(t *testing.T) {
		router, seen := tenantRouter(func(c *gin.Context) {
			c.Set(JWTTenantIDKey, jwtTenant)
			c.Next()
		})
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(TenantHeaderKey, headerTenant)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, jwtTenant, *seen)
	})

	t.Run("invalid header", func(t *testing.T) {
		router, _ := tenantRouter()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(TenantHeaderKey, "not-a-uuid")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid tenant ID format")
	})

	t.Run("skip path", func(t *testing.T) {
		router, seen := tenantRouter()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(TenantHeaderKey, "not-a-uuid")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, *seen)
	})
}

func TestTenantMiddleware_ContextPropagation(t *testing.T) {
	router := gin.New()
	router.Use(TenantMiddleware(testDefaultTenant))
	router.GET("/test", func(c *gin.Context) {
		assert.Equal(t, testDefaultTenant, logger.GetTenantID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetTenantAndUserUUID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	id, err := GetTenantUUID(c)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, id)

	user, err := GetUserUUID(c)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, user)

	tenant := uuid.New()
	userID := uuid.New()
	c.Set(TenantIDKey, tenant.String())
	c.Set(JWTUserIDKey, userID.String())

	id, err = GetTenantUUID(c)
	require.NoError(t, err)
	assert.Equal(t, tenant, id)

	user, err = GetUserUUID(c)
	require.NoError(t, err)
	assert.Equal(t, userID, user)

	c.Set(JWTUserIDKey, "bad")
	_, err = GetUserUUID(c)
	assert.Error(t, err)
}
