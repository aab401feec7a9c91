package httpctx

import (
	"Warbler/api/models"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey    = "userID"
	userKey      = "user"
	requestIDKey = "requestID"
)

// CurrentUserID retrieves the authenticated user ID from Gin context if present.
func CurrentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	uid, ok := val.(uint)
	return uid, ok && uid != 0
}

func SetCurrentUserID(c *gin.Context, userID uint) {
	c.Set(userIDKey, userID)
}

// CurrentUser returns the user loaded by the auth middleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok && user != nil
}

// SetCurrentUser records the authenticated user and its ID.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
	SetCurrentUserID(c, user.ID)
}

func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func SetRequestID(c *gin.Context, id string) {
	c.Set(requestIDKey, id)
}
