package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"Warbler/api/auth"
	"Warbler/api/forms"
	"Warbler/api/models"
	"Warbler/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 100
	maxListLimit     = 100
)

// currentUser returns the user the auth middleware loaded, falling back to
// the database when only an ID is on the context. It answers 401 when the
// token outlived its account.
func (server *Server) currentUser(c *gin.Context) (*models.User, bool) {
	if user, ok := httpctx.CurrentUser(c); ok {
		return user, true
	}

	userID, ok := httpctx.CurrentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	user, err := models.FindUserByID(server.DB, userID)
	if errors.Is(err, models.ErrUserNotFound) {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	if err != nil {
		server.internalError(c, err)
		return nil, false
	}
	return user, true
}

// userFromParam resolves the :id path parameter, answering 404 when
// nothing matches.
func (server *Server) userFromParam(c *gin.Context) (*models.User, bool) {
	user, err := models.FindUserByIdentifier(server.DB, c.Param("id"))
	if errors.Is(err, models.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return nil, false
	}
	if err != nil {
		server.internalError(c, err)
		return nil, false
	}
	return user, true
}

func (server *Server) messageFromParam(c *gin.Context) (*models.Message, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "Message not found")
		return nil, false
	}

	msg, err := models.FindMessageByID(server.DB, uint(id))
	if errors.Is(err, models.ErrMessageNotFound) {
		respondError(c, http.StatusNotFound, "Message not found")
		return nil, false
	}
	if err != nil {
		server.internalError(c, err)
		return nil, false
	}
	return msg, true
}

func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func respond(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, gin.H{
		"status":   status,
		"response": payload,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"status": status,
		"error":  message,
	})
}

func validationError(c *gin.Context, errs []forms.FieldError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"status": http.StatusUnprocessableEntity,
		"error":  "Validation failed",
		"errors": errs,
	})
}

func (server *Server) internalError(c *gin.Context, err error) {
	server.Logger.Error().Err(err).
		Str("request_id", httpctx.RequestID(c)).
		Str("path", c.FullPath()).
		Msg("request failed")
	respondError(c, http.StatusInternalServerError, "Internal server error")
}

func (server *Server) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(auth.TTL().Seconds()), "/",
		server.Config.Auth.CookieDomain, server.Config.Auth.SecureCookie, true)
}

func (server *Server) clearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/",
		server.Config.Auth.CookieDomain, server.Config.Auth.SecureCookie, true)
}
