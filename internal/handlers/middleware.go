package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-service/internal/services"
	"storefront-service/pkg/common"
)

const actorKey = "actor"

// ActorResolver turns a bearer token into the calling Actor.
type ActorResolver interface {
	ResolveActor(ctx context.Context, token string) (*services.Actor, error)
}

type Middleware struct {
	Identity ActorResolver
}

func NewMiddleware(identity ActorResolver) *Middleware {
	return &Middleware{Identity: identity}
}

// Authenticate resolves the identity once per request from the Authorization
// header (or the auth_token cookie) and stores it on the context.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie("auth_token")
		}

		actor, err := m.Identity.ResolveActor(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(actorKey, *actor)
		c.Next()
	}
}

// RequireRole lets the request through only when the actor has one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			respondError(c, common.ErrUnauthorized("Authentication required"))
			c.Abort()
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		respondError(c, common.ErrForbidden("You do not have access to this resource"))
		c.Abort()
	}
}

// RequireAffiliate admits callers that own an affiliate record, active or not.
// Operations that need an active affiliate enforce it in the service.
func RequireAffiliate() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			respondError(c, common.ErrUnauthorized("Authentication required"))
			c.Abort()
			return
		}
		if actor.AffiliateID == "" {
			respondError(c, common.ErrForbidden("An affiliate account is required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentActor(c *gin.Context) (services.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return services.Actor{}, false
	}
	actor, ok := v.(services.Actor)
	return actor, ok
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func respondError(c *gin.Context, err error) {
	res := common.ToErrorResponse(err)
	if res.Status == http.StatusInternalServerError {
		c.Error(err)
	}
	c.JSON(res.Status, res)
}
