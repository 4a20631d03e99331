package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"storefront-service/internal/models"
	"storefront-service/internal/services"
	"storefront-service/pkg/common"
)

type stubResolver map[string]services.Actor

func (s stubResolver) ResolveActor(ctx context.Context, token string) (*services.Actor, error) {
	actor, ok := s[token]
	if !ok {
		return nil, common.ErrUnauthorized("Invalid or expired token")
	}
	return &actor, nil
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mw := NewMiddleware(stubResolver{
		"admin":     {UserID: "u1", Role: models.RoleAdmin},
		"customer":  {UserID: "u2", Role: models.RoleCustomer},
		"affiliate": {UserID: "u3", Role: models.RoleAffiliate, AffiliateID: "a3", AffiliateStatus: models.AffiliateStatusActive},
	})

	r := gin.New()
	r.GET("/admin", mw.Authenticate(), RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/affiliate", mw.Authenticate(), RequireAffiliate(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/unauthenticated", RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name           string
		path           string
		header         string
		cookie         string
		expectedStatus int
	}{
		{name: "No Token", path: "/admin", expectedStatus: http.StatusUnauthorized},
		{name: "Unknown Token", path: "/admin", header: "Bearer nope", expectedStatus: http.StatusUnauthorized},
		{name: "Malformed Header", path: "/admin", header: "Token admin", expectedStatus: http.StatusUnauthorized},
		{name: "Admin", path: "/admin", header: "Bearer admin", expectedStatus: http.StatusOK},
		{name: "Lowercase Scheme", path: "/admin", header: "bearer admin", expectedStatus: http.StatusOK},
		{name: "Cookie Token", path: "/admin", cookie: "admin", expectedStatus: http.StatusOK},
		{name: "Customer On Admin", path: "/admin", header: "Bearer customer", expectedStatus: http.StatusForbidden},
		{name: "Affiliate", path: "/affiliate", header: "Bearer affiliate", expectedStatus: http.StatusOK},
		{name: "Admin Without Affiliate Record", path: "/affiliate", header: "Bearer admin", expectedStatus: http.StatusForbidden},
		{name: "Role Check Without Authenticate", path: "/unauthenticated", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "auth_token", Value: tt.cookie})
			}

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("BEARER  abc "))
	assert.Equal(t, "", bearerToken("Bearer "))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken(""))
}
