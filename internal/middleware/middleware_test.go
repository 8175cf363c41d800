package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/kulupportal/internal/entity"
	userRepo "anoa.com/kulupportal/internal/modules/user/repository"
	"anoa.com/kulupportal/internal/policy"
	"anoa.com/kulupportal/internal/testutil"
	"anoa.com/kulupportal/pkg/logger"
	"anoa.com/kulupportal/pkg/metrics"
	"anoa.com/kulupportal/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	tokens := token.NewService("secret", time.Hour)
	auth := NewAuthMiddleware(userRepo.NewUserRepository(db), tokens)

	u := testutil.CreateUser(t, db, "Lead One", entity.RoleLead, entity.StatusApproved)

	r := gin.New()
	r.Use(auth.RequireAuth())
	r.GET("/me", func(c *gin.Context) {
		caller := CallerFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": caller.ID.String(), "role": caller.Role, "user_id": c.GetString(UserIDKey)})
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Body.String(), `"kind":"unauthorized"`)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer invalid")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		tok, err := tokens.Generate(uuid.New())
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid bearer", func(t *testing.T) {
		tok, err := tokens.Generate(u.ID)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"role":"LEAD"`)
		require.Contains(t, w.Body.String(), u.ID.String())
	})

	t.Run("query token and fresh role", func(t *testing.T) {
		// a role change is visible on the next request without a new token
		require.NoError(t, db.Model(&entity.User{}).Where("id = ?", u.ID).Update("role", entity.RoleManagement).Error)

		tok, err := tokens.Generate(u.ID)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me?token="+tok, nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"role":"MANAGEMENT"`)
	})
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	tokens := token.NewService("secret", time.Hour)
	auth := NewAuthMiddleware(userRepo.NewUserRepository(db), tokens)
	u := testutil.CreateUser(t, db, "Member A", entity.RoleMember, entity.StatusApproved)

	r := gin.New()
	r.Use(auth.OptionalAuth())
	r.GET("/feed", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"authenticated": CallerFrom(c).Authenticated()})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feed", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	tok, err := tokens.Generate(u.ID)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.JSONEq(t, `{"authenticated":true}`, w.Body.String())
}

func TestRequireCapabilityCountsDenials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := metrics.NewRegistry()

	withRole := func(role entity.Role) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(CallerKey, policy.Caller{ID: uuid.New(), Role: role})
			c.Next()
		}
	}

	r := gin.New()
	r.Use(Metrics(reg))
	r.GET("/lead", withRole(entity.RoleLead), RequireCapability(policy.CanCreateProject), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/mgmt", withRole(entity.RoleManagement), RequireCapability(policy.CanCreateProject), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lead", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), `"kind":"forbidden"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mgmt", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	denials, err := promtestutil.GatherAndCount(reg.Gatherer(), "authz_denials_total")
	require.NoError(t, err)
	require.Equal(t, 1, denials)

	requests, err := promtestutil.GatherAndCount(reg.Gatherer(), "http_requests_total")
	require.NoError(t, err)
	require.Equal(t, 2, requests)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(logger.RequestIDKey).(string)
		c.String(http.StatusOK, id)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "abc-123", w.Body.String())
	require.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)

	require.NotNil(t, logger.WithContext(context.Background()))
}
