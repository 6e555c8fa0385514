package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fitdesk/coachpay/pkg/config"
	"github.com/fitdesk/coachpay/pkg/response"
	"github.com/fitdesk/coachpay/pkg/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const actorContextKey = "actor"

// AdminAuthMiddleware validates the Bearer token on admin routes and puts
// the authenticated actor into the request context for audit attribution.
// With no secret configured (local dev) the X-Admin-ID header is trusted
// instead.
func AdminAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminJWTSecret == "" {
			id := c.GetHeader("X-Admin-ID")
			if id == "" {
				id = "dev-admin"
			}
			setActor(c, types.Actor{ID: id, Type: types.ActorTypeAdmin})
			c.Next()
			return
		}

		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == "" || raw == c.GetHeader("Authorization") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing bearer token"))
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.AdminJWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid token"))
			return
		}

		actorID := "unknown"
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, ok := claims["sub"].(string); ok && sub != "" {
				actorID = sub
			}
		}
		setActor(c, types.Actor{ID: actorID, Type: types.ActorTypeAdmin})
		c.Next()
	}
}

func setActor(c *gin.Context, a types.Actor) {
	c.Set(actorContextKey, a)
	// actor_id feeds log enrichment alongside trace_id
	c.Set("actor_id", a.ID)
}

// ActorFrom returns the authenticated actor placed by AdminAuthMiddleware.
func ActorFrom(c *gin.Context) types.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if a, ok := v.(types.Actor); ok {
			return a
		}
	}
	return types.Actor{ID: "unknown", Type: types.ActorTypeAdmin}
}
