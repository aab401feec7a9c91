package middlewares

import (
	"net/http"

	"Warbler/api/auth"
	"Warbler/api/models"
	"Warbler/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TokenAuthMiddleware rejects requests without a valid token for an
// existing user.
func TokenAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := authenticate(db, c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": http.StatusUnauthorized,
				"error":  "Unauthorized",
			})
			return
		}

		httpctx.SetCurrentUser(c, user)
		c.Next()
	}
}

// OptionalAuthMiddleware records the user when a valid token is present and
// lets anonymous requests through.
func OptionalAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := authenticate(db, c); ok {
			httpctx.SetCurrentUser(c, user)
		}
		c.Next()
	}
}

// authenticate loads the token's user once; handlers read it back through
// httpctx.CurrentUser.
func authenticate(db *gorm.DB, c *gin.Context) (*models.User, bool) {
	userID, err := auth.ExtractTokenID(c.Request)
	if err != nil {
		return nil, false
	}

	user, err := models.FindUserByID(db, userID)
	if err != nil {
		return nil, false
	}
	return user, true
}

// CORSMiddleware allows credentialed requests from the configured origins.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Authorization, Content-Length, X-CSRF-Token, X-Request-ID, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods",
			"POST, GET, OPTIONS, PUT, PATCH, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
