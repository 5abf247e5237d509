package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"devconnector/internal/auth"
	"devconnector/internal/domain"
)

// requireAuth verifies the request token and attaches the caller's identity
// to the request context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(h.authHeader))
		if token == "" {
			if bearer, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
				token = strings.TrimSpace(bearer)
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
			return
		}

		userID, err := h.tokens.Verify(token)
		if err != nil {
			h.logger.WithError(err).Debug("rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token is not valid"})
			return
		}

		ctx := auth.WithIdentity(c.Request.Context(), auth.Identity{UserID: userID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// callerID returns the identity set by requireAuth.
func callerID(c *gin.Context) (domain.ID, bool) {
	identity, ok := auth.IdentityFromContext(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
		return "", false
	}
	return identity.UserID, true
}
