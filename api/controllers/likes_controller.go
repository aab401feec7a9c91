package controllers

import (
	"errors"
	"net/http"

	"Warbler/api/forms"
	"Warbler/api/models"
	"Warbler/api/monitoring"
	"Warbler/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// AddLike toggles the current user's like on a message and tells the
// client where to go next.
func (server *Server) AddLike(c *gin.Context) {
	user, ok := server.currentUser(c)
	if !ok {
		return
	}

	var form forms.AddLikesForm
	if errs := forms.Bind(c, &form); errs != nil {
		validationError(c, errs)
		return
	}

	msg, err := models.FindMessageByID(server.DB, form.ID)
	if errors.Is(err, models.ErrMessageNotFound) {
		respondError(c, http.StatusNotFound, "Message not found")
		return
	}
	if err != nil {
		server.internalError(c, err)
		return
	}

	liked, err := user.ToggleLike(server.DB, msg)
	if errors.Is(err, models.ErrOwnMessage) {
		respondError(c, http.StatusForbidden, "You cannot like your own message")
		return
	}
	if err != nil {
		server.internalError(c, err)
		return
	}

	count, err := msg.LikeCount(server.DB)
	if err != nil {
		server.internalError(c, err)
		return
	}

	action := "unlike"
	if liked {
		action = "like"
	}
	monitoring.LikesToggled.WithLabelValues(action).Inc()
	invalidateTimelines(user.ID, 0)

	respond(c, http.StatusOK, gin.H{
		"liked":    liked,
		"likes":    count,
		"redirect": form.Update,
	})
}

// GetUserLikes lists the messages :id has liked.
func (server *Server) GetUserLikes(c *gin.Context) {
	user, ok := server.userFromParam(c)
	if !ok {
		return
	}

	messages, err := user.LikedMessages(server.DB)
	if err != nil {
		server.internalError(c, err)
		return
	}

	viewerID, _ := httpctx.CurrentUserID(c)
	dtos, err := messagesToDTO(server.DB, viewerID, messages)
	if err != nil {
		server.internalError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": userToDTO(user), "likes": dtos})
}
