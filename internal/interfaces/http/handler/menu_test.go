package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	menuapp "github.com/erp/logistics/internal/application/menu"
	"github.com/erp/logistics/internal/domain/identity"
	"github.com/erp/logistics/internal/domain/menu"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMenuRouter(repo *mockMenuRepo, role identity.Role) *gin.Engine {
	h := NewMenuCodeHandler(menuapp.NewService(repo))
	router := authAs(testTenantID, uuid.New(), role)
	router.POST("/menu-codes", h.Create)
	router.GET("/menu-codes/:id", h.GetByID)
	router.DELETE("/menu-codes/:id", h.Delete)
	return router
}

func TestMenuCodeHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		repo := new(mockMenuRepo)
		repo.On("ExistsByCode", mock.Anything, testTenantID, "SO_LIST").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*menu.MenuCode")).Return(nil)

		w := httptest.NewRecorder()
		body := `{"code":"so_list","name":"Sales orders","path":"/sales/orders","section":"sales","order":1}`
		req := httptest.NewRequest(http.MethodPost, "/menu-codes", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		newMenuRouter(repo, identity.RoleStaff).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "SO_LIST", data["code"])
		assert.Equal(t, true, data["is_active"])
	})

	t.Run("duplicate code is a bad request", func(t *testing.T) {
		repo := new(mockMenuRepo)
		repo.On("ExistsByCode", mock.Anything, testTenantID, "SO_LIST").Return(true, nil)

		w := httptest.NewRecorder()
		body := `{"code":"SO_LIST","name":"Sales orders","path":"/sales/orders","section":"sales"}`
		req := httptest.NewRequest(http.MethodPost, "/menu-codes", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		newMenuRouter(repo, identity.RoleStaff).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_ALREADY_EXISTS", resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "already exists")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing fields", func(t *testing.T) {
		repo := new(mockMenuRepo)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/menu-codes", strings.NewReader(`{"code":"X"}`))
		req.Header.Set("Content-Type", "application/json")
		newMenuRouter(repo, identity.RoleStaff).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_VALIDATION", decodeResponse(t, w).Error.Code)
	})
}

func TestMenuCodeHandler_GetByID(t *testing.T) {
	t.Run("bad id", func(t *testing.T) {
		w := httptest.NewRecorder()
		newMenuRouter(new(mockMenuRepo), identity.RoleStaff).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/menu-codes/nope", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockMenuRepo)
		id := uuid.New()
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, id).Return(nil, shared.NewNotFoundError("menu code"))

		w := httptest.NewRecorder()
		newMenuRouter(repo, identity.RoleStaff).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/menu-codes/"+id.String(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "ERR_NOT_FOUND", decodeResponse(t, w).Error.Code)
	})
}

func TestMenuCodeHandler_Delete(t *testing.T) {
	t.Run("soft delete deactivates", func(t *testing.T) {
		repo := new(mockMenuRepo)
		m, err := menu.NewMenuCode(testTenantID, "PO_LIST", "Purchase orders", "/purchasing/orders", menu.SectionPurchasing, 2)
		require.NoError(t, err)
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, m.ID).Return(m, nil)
		repo.On("SaveWithLock", mock.Anything, m).Return(nil)

		w := httptest.NewRecorder()
		newMenuRouter(repo, identity.RoleStaff).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/menu-codes/"+m.ID.String(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, m.IsActive)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, false, data["hard"])
		repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("hard delete needs admin", func(t *testing.T) {
		repo := new(mockMenuRepo)
		w := httptest.NewRecorder()
		newMenuRouter(repo, identity.RoleManager).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/menu-codes/"+uuid.NewString()+"?hard=true", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("hard delete by admin", func(t *testing.T) {
		repo := new(mockMenuRepo)
		id := uuid.New()
		repo.On("DeleteForTenant", mock.Anything, testTenantID, id).Return(nil)

		w := httptest.NewRecorder()
		newMenuRouter(repo, identity.RoleAdmin).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/menu-codes/"+id.String()+"?hard=true", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		repo.AssertExpectations(t)
	})
}
