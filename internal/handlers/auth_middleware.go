package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/repositories"
	"github.com/devtrail/bootcamp-service/internal/utils"
)

// AuthMiddleware authenticates requests with the service's own session
// tokens, read from the Authorization header or the token cookie.
type AuthMiddleware struct {
	jwtSecret string
	userRepo  repositories.UserRepository
}

func NewAuthMiddleware(jwtSecret string, userRepo repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret, userRepo: userRepo}
}

// RequireAuth rejects the request unless it carries a valid session token
// for an existing user. The loaded user is stored in the context as "user".
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			abortUnauthorized(c)
			return
		}

		userID, err := utils.ParseSessionToken(m.jwtSecret, raw)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		user, err := m.userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// RequireRoles rejects authenticated users whose role is not in the list.
func (m *AuthMiddleware) RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user")
		if !exists {
			abortUnauthorized(c)
			return
		}
		user, ok := value.(*models.User)
		if !ok {
			abortUnauthorized(c)
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, models.NewErrorResponse(
			"User role "+string(user.Role)+" is not authorized to access this route"))
	}
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil && cookie != "none" {
		return cookie
	}
	return ""
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewErrorResponse("Not authorized to access this route"))
}
