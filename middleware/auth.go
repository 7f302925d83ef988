package middleware

import (
	"net/http"
	"strings"

	"storefront/models"
	"storefront/services"
	"storefront/utils"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Authenticate reads an optional bearer token. Requests without an Authorization
// header continue anonymously; a header that does not hold a valid token is rejected.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := utils.ValidateToken(tokenParts[1], secret)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(identityKey, &models.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		})
		c.Next()
	}
}

// Authorize applies the access policy for op before the handler reads the body.
func Authorize(op services.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := services.Authorize(CurrentIdentity(c), op); err != nil {
			status := http.StatusForbidden
			if models.KindOf(err) == models.KindUnauthorized {
				status = http.StatusUnauthorized
			}
			abort(c, status, err.Error())
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns nil for anonymous requests.
func CurrentIdentity(c *gin.Context) *models.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*models.Identity)
	return id
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Success: false,
		Message: message,
	})
}
