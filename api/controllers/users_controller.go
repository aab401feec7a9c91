package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"Warbler/api/forms"
	"Warbler/api/models"
	"Warbler/api/sqlerr"
	"Warbler/api/utils/fileformat"
	"Warbler/api/utils/formaterror"
	"Warbler/api/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// ListUsers searches users by username; without q it lists everyone.
func (server *Server) ListUsers(c *gin.Context) {
	users, err := models.SearchUsers(server.DB, c.Query("q"), parseLimit(c))
	if err != nil {
		server.internalError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"users": usersToDTO(users)})
}

// GetUser shows a profile with its counters and latest messages.
func (server *Server) GetUser(c *gin.Context) {
	user, ok := server.userFromParam(c)
	if !ok {
		return
	}

	stats, err := user.Stats(server.DB)
	if err != nil {
		server.internalError(c, err)
		return
	}

	messages, err := user.Messages(server.DB, timelineLimit)
	if err != nil {
		server.internalError(c, err)
		return
	}
	for i := range messages {
		messages[i].User = *user
	}

	viewerID, loggedIn := httpctx.CurrentUserID(c)
	dtos, err := messagesToDTO(server.DB, viewerID, messages)
	if err != nil {
		server.internalError(c, err)
		return
	}

	detail := UserDetailDTO{UserDTO: userToDTO(user), Stats: stats, Messages: dtos}
	if loggedIn && viewerID != user.ID {
		viewer := &models.User{ID: viewerID}
		if detail.IsFollowing, err = viewer.IsFollowing(server.DB, user); err != nil {
			server.internalError(c, err)
			return
		}
		if detail.IsFollowedBy, err = viewer.IsFollowedBy(server.DB, user); err != nil {
			server.internalError(c, err)
			return
		}
	}

	respond(c, http.StatusOK, detail)
}

// GetProfile returns the current user's editable profile.
func (server *Server) GetProfile(c *gin.Context) {
	user, ok := server.currentUser(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, profileToDTO(user))
}

// UpdateProfile saves the edit form once the current password checks out.
func (server *Server) UpdateProfile(c *gin.Context) {
	user, ok := server.currentUser(c)
	if !ok {
		return
	}

	var form forms.EditUserForm
	if errs := forms.Bind(c, &form); errs != nil {
		validationError(c, errs)
		return
	}

	if !user.CheckPassword(form.Password) {
		respondError(c, http.StatusUnauthorized, "Wrong password, please try again.")
		return
	}

	err := user.UpdateProfile(server.DB, models.ProfileUpdate{
		Username:       form.Username,
		Email:          form.Email,
		ImageURL:       form.ImageURL,
		HeaderImageURL: form.HeaderImageURL,
		Bio:            form.Bio,
		Location:       form.Location,
	})
	if err != nil {
		if errors.Is(err, sqlerr.ErrIntegrity) {
			c.JSON(http.StatusConflict, gin.H{
				"status": http.StatusConflict,
				"error":  "Username or email already taken",
				"errors": formaterror.FormatError(err),
			})
			return
		}
		server.internalError(c, err)
		return
	}

	// username and avatar are embedded in cached timelines
	invalidateAllTimelines()
	respond(c, http.StatusOK, profileToDTO(user))
}

// UpdateProfileImage uploads the multipart "file" field and stores its URL
// as the avatar, or as the header image with ?kind=header.
func (server *Server) UpdateProfileImage(c *gin.Context) {
	user, ok := server.currentUser(c)
	if !ok {
		return
	}

	if server.Images == nil {
		respondError(c, http.StatusServiceUnavailable, "Image uploads are not configured")
		return
	}

	header := false
	switch c.DefaultQuery("kind", "avatar") {
	case "avatar":
	case "header":
		header = true
	default:
		respondError(c, http.StatusBadRequest, "kind must be avatar or header")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		validationError(c, []forms.FieldError{{Field: "file", Error: "is required"}})
		return
	}

	maxBytes := server.Config.Storage.MaxImageBytes
	if fileHeader.Size > maxBytes {
		respondError(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Image must not exceed %d KB", maxBytes/1024))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		server.internalError(c, err)
		return
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		server.internalError(c, err)
		return
	}
	if int64(len(body)) > maxBytes {
		respondError(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Image must not exceed %d KB", maxBytes/1024))
		return
	}

	contentType := http.DetectContentType(body)
	ext, ok := fileformat.ImageExtension(contentType)
	if !ok {
		validationError(c, []forms.FieldError{{Field: "file", Error: "must be a JPEG, PNG, GIF or WebP image"}})
		return
	}

	key := fmt.Sprintf("users/%d/%s", user.ID, fileformat.UniqueFormat("image"+ext))
	url, err := server.Images.Put(c.Request.Context(), key, body, contentType)
	if err != nil {
		server.internalError(c, err)
		return
	}

	if err := user.SetImage(server.DB, header, url); err != nil {
		server.internalError(c, err)
		return
	}

	if !header {
		invalidateAllTimelines()
	}
	respond(c, http.StatusOK, profileToDTO(user))
}

// DeleteUser removes the current account and everything it owns.
func (server *Server) DeleteUser(c *gin.Context) {
	user, ok := server.currentUser(c)
	if !ok {
		return
	}

	if err := user.Delete(server.DB); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		server.internalError(c, err)
		return
	}

	server.Logger.Info().Uint("user_id", user.ID).Msg("user deleted")
	server.clearTokenCookie(c)
	invalidateAllTimelines()
	respond(c, http.StatusOK, "User deleted")
}
