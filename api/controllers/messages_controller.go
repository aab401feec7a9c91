package controllers

import (
	"errors"
	"net/http"

	"Warbler/api/forms"
	"Warbler/api/models"
	"Warbler/api/monitoring"
	"Warbler/api/sqlerr"
	"Warbler/api/utils/formaterror"
	"Warbler/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// CreateMessage posts a message as the current user.
func (server *Server) CreateMessage(c *gin.Context) {
	user, ok := server.currentUser(c)
	if !ok {
		return
	}

	var form forms.MessageForm
	if errs := forms.Bind(c, &form); errs != nil {
		validationError(c, errs)
		return
	}

	msg := models.Message{Text: form.Text, UserID: user.ID}
	if err := msg.Create(server.DB); err != nil {
		if errors.Is(err, sqlerr.ErrIntegrity) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  "Validation failed",
				"errors": formaterror.FormatError(err),
			})
			return
		}
		server.internalError(c, err)
		return
	}
	msg.User = *user

	monitoring.MessagesPosted.Inc()
	invalidateAuthorTimelines(server.DB, user)

	dtos, err := messagesToDTO(server.DB, user.ID, []models.Message{msg})
	if err != nil {
		server.internalError(c, err)
		return
	}
	respond(c, http.StatusCreated, dtos[0])
}

// GetMessage shows one message with its author and like count.
func (server *Server) GetMessage(c *gin.Context) {
	msg, ok := server.messageFromParam(c)
	if !ok {
		return
	}

	viewerID, _ := httpctx.CurrentUserID(c)
	dtos, err := messagesToDTO(server.DB, viewerID, []models.Message{*msg})
	if err != nil {
		server.internalError(c, err)
		return
	}
	respond(c, http.StatusOK, dtos[0])
}

// DeleteMessage lets the author remove their own message.
func (server *Server) DeleteMessage(c *gin.Context) {
	user, ok := server.currentUser(c)
	if !ok {
		return
	}
	msg, ok := server.messageFromParam(c)
	if !ok {
		return
	}

	if msg.UserID != user.ID {
		respondError(c, http.StatusForbidden, "Access unauthorized.")
		return
	}

	if err := msg.Delete(server.DB); err != nil {
		if errors.Is(err, models.ErrMessageNotFound) {
			respondError(c, http.StatusNotFound, "Message not found")
			return
		}
		server.internalError(c, err)
		return
	}

	invalidateAuthorTimelines(server.DB, user)
	respond(c, http.StatusOK, "Message deleted")
}
