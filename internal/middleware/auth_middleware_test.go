package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bigsparsh/inventraX/internal/models"
	"github.com/bigsparsh/inventraX/pkg/utils"

	"github.com/gin-gonic/gin"
)

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	authed := engine.Group("", AuthMiddleware())
	authed.GET("/read", RequirePermission(models.ActionRead), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString("userID")})
	})
	authed.DELETE("/mutate", RequirePermission(models.ActionDelete), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	authed.DELETE("/admin-only", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.GenerateToken("user-1", "user@example.com", role, "User")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	return token
}

func TestAuthMiddlewareRejectsMissingAndMalformedTokens(t *testing.T) {
	utils.InitJWT("test-secret")
	engine := newProtectedRouter()

	if w := doRequest(t, engine, http.MethodGet, "/read", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a token, got %d", w.Code)
	}
	if w := doRequest(t, engine, http.MethodGet, "/read", "not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a malformed token, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/read", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a non-Bearer scheme, got %d", w.Code)
	}
}

func TestStaffCannotMutate(t *testing.T) {
	utils.InitJWT("test-secret")
	engine := newProtectedRouter()
	token := tokenFor(t, "STAFF")

	if w := doRequest(t, engine, http.MethodGet, "/read", token); w.Code != http.StatusOK {
		t.Errorf("Expected STAFF to read, got %d", w.Code)
	}
	if w := doRequest(t, engine, http.MethodDelete, "/mutate", token); w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for STAFF on a mutating route, got %d", w.Code)
	}
}

func TestManagerAndAdminCanMutate(t *testing.T) {
	utils.InitJWT("test-secret")
	engine := newProtectedRouter()

	for _, role := range []string{"ADMIN", "MANAGER"} {
		if w := doRequest(t, engine, http.MethodDelete, "/mutate", tokenFor(t, role)); w.Code != http.StatusOK {
			t.Errorf("Expected %s to mutate, got %d", role, w.Code)
		}
	}
}

func TestRequireRoleRestrictsToNamedRoles(t *testing.T) {
	utils.InitJWT("test-secret")
	engine := newProtectedRouter()

	if w := doRequest(t, engine, http.MethodDelete, "/admin-only", tokenFor(t, "ADMIN")); w.Code != http.StatusOK {
		t.Errorf("Expected ADMIN on admin-only route, got %d", w.Code)
	}
	for _, role := range []string{"MANAGER", "STAFF"} {
		if w := doRequest(t, engine, http.MethodDelete, "/admin-only", tokenFor(t, role)); w.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for %s on admin-only route, got %d", role, w.Code)
		}
	}
}

func TestUnknownRoleIsDeniedEverywhere(t *testing.T) {
	utils.InitJWT("test-secret")
	engine := newProtectedRouter()
	token := tokenFor(t, "SUPERUSER")

	if w := doRequest(t, engine, http.MethodGet, "/read", token); w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for an unknown role, got %d", w.Code)
	}
}
