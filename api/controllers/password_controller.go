package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"Warbler/api/forms"
	"Warbler/api/models"

	"github.com/gin-gonic/gin"
)

const forgotPasswordReply = "If that email is registered, a reset link is on its way."

// ForgotPassword emails a reset link. The reply is the same whether or not
// the address is registered.
func (server *Server) ForgotPassword(c *gin.Context) {
	var form forms.ForgotPasswordForm
	if errs := forms.Bind(c, &form); errs != nil {
		validationError(c, errs)
		return
	}

	user, err := models.FindUserByEmail(server.DB, form.Email)
	if errors.Is(err, models.ErrUserNotFound) {
		respond(c, http.StatusOK, forgotPasswordReply)
		return
	}
	if err != nil {
		server.internalError(c, err)
		return
	}

	reset, err := models.IssueResetToken(server.DB, user.Email, server.Config.Mail.ResetTokenTTL)
	if err != nil {
		server.internalError(c, err)
		return
	}

	link := server.Config.Mail.ResetURL + "?token=" + url.QueryEscape(reset.Token)
	if err := server.Mailer.SendPasswordReset(c.Request.Context(), user.Username, user.Email, link); err != nil {
		server.Logger.Error().Err(err).Uint("user_id", user.ID).Msg("sending password reset email")
	}

	respond(c, http.StatusOK, forgotPasswordReply)
}

// ResetPassword consumes a reset token and sets the new password.
func (server *Server) ResetPassword(c *gin.Context) {
	var form forms.ResetPasswordForm
	if errs := forms.Bind(c, &form); errs != nil {
		validationError(c, errs)
		return
	}

	user, err := models.ConsumeResetToken(server.DB, form.Token, form.NewPassword)
	if errors.Is(err, models.ErrInvalidResetToken) {
		respondError(c, http.StatusBadRequest, "Reset link is invalid or has expired")
		return
	}
	if errors.Is(err, models.ErrInvalidPassword) {
		validationError(c, []forms.FieldError{{Field: "new_password", Error: err.Error()}})
		return
	}
	if err != nil {
		server.internalError(c, err)
		return
	}

	server.Logger.Info().Uint("user_id", user.ID).Msg("password reset")
	respond(c, http.StatusOK, "Password updated")
}
