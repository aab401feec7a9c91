package controllers

import (
	"errors"
	"net/http"

	"Warbler/api/auth"
	"Warbler/api/forms"
	"Warbler/api/models"
	"Warbler/api/monitoring"
	"Warbler/api/sqlerr"
	"Warbler/api/utils/formaterror"

	"github.com/gin-gonic/gin"
)

// Signup creates the account and signs the new user in.
func (server *Server) Signup(c *gin.Context) {
	var form forms.UserAddForm
	if errs := forms.Bind(c, &form); errs != nil {
		validationError(c, errs)
		return
	}

	user, err := models.Signup(server.DB, models.SignupParams{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		ImageURL: form.ImageURL,
	})
	if err != nil {
		if errors.Is(err, sqlerr.ErrIntegrity) {
			c.JSON(http.StatusConflict, gin.H{
				"status": http.StatusConflict,
				"error":  "Username already taken",
				"errors": formaterror.FormatError(err),
			})
			return
		}
		if errors.Is(err, models.ErrInvalidPassword) {
			validationError(c, []forms.FieldError{{Field: "password", Error: err.Error()}})
			return
		}
		server.internalError(c, err)
		return
	}

	monitoring.SignupSuccess.Inc()
	server.Logger.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user signed up")
	server.signIn(c, http.StatusCreated, user)
}

// Login exchanges a username and password for a token.
func (server *Server) Login(c *gin.Context) {
	var form forms.LoginForm
	if errs := forms.Bind(c, &form); errs != nil {
		monitoring.LoginFailure.WithLabelValues("validation").Inc()
		validationError(c, errs)
		return
	}

	user, err := models.Authenticate(server.DB, form.Username, form.Password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		monitoring.LoginFailure.WithLabelValues("invalid_credentials").Inc()
		respondError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}
	if err != nil {
		monitoring.LoginFailure.WithLabelValues("error").Inc()
		server.internalError(c, err)
		return
	}

	monitoring.LoginSuccess.Inc()
	server.signIn(c, http.StatusOK, user)
}

// Logout clears the token cookie. Bearer tokens simply expire.
func (server *Server) Logout(c *gin.Context) {
	server.clearTokenCookie(c)
	respond(c, http.StatusOK, "You have successfully logged out.")
}

func (server *Server) signIn(c *gin.Context, status int, user *models.User) {
	token, err := auth.CreateToken(user.ID)
	if err != nil {
		server.internalError(c, err)
		return
	}

	server.setTokenCookie(c, token)
	respond(c, status, AuthDTO{Token: token, User: profileToDTO(user)})
}
