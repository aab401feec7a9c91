package controllers

import (
	"errors"
	"net/http"

	"Warbler/api/models"
	"Warbler/api/monitoring"

	"github.com/gin-gonic/gin"
)

// FollowUser makes the current user follow :id.
func (server *Server) FollowUser(c *gin.Context) {
	requestor, ok := server.currentUser(c)
	if !ok {
		return
	}
	target, ok := server.userFromParam(c)
	if !ok {
		return
	}

	created, err := requestor.Follow(server.DB, target)
	if errors.Is(err, models.ErrSelfFollow) {
		respondError(c, http.StatusBadRequest, "You cannot follow yourself")
		return
	}
	if err != nil {
		server.internalError(c, err)
		return
	}

	if !created {
		respond(c, http.StatusOK, "Already following user")
		return
	}

	monitoring.FollowsChanged.WithLabelValues("follow").Inc()
	invalidateTimelines(requestor.ID)
	respond(c, http.StatusCreated, "User followed successfully")
}

// UnfollowUser removes the follow edge from the current user to :id.
func (server *Server) UnfollowUser(c *gin.Context) {
	requestor, ok := server.currentUser(c)
	if !ok {
		return
	}
	target, ok := server.userFromParam(c)
	if !ok {
		return
	}

	removed, err := requestor.Unfollow(server.DB, target)
	if err != nil {
		server.internalError(c, err)
		return
	}

	if !removed {
		respond(c, http.StatusOK, "Not following user")
		return
	}

	monitoring.FollowsChanged.WithLabelValues("unfollow").Inc()
	invalidateTimelines(requestor.ID)
	respond(c, http.StatusOK, "User unfollowed successfully")
}

// GetFollowing lists the users :id follows.
func (server *Server) GetFollowing(c *gin.Context) {
	user, ok := server.userFromParam(c)
	if !ok {
		return
	}

	following, err := user.Following(server.DB)
	if err != nil {
		server.internalError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": userToDTO(user), "following": usersToDTO(following)})
}

// GetFollowers lists the users following :id.
func (server *Server) GetFollowers(c *gin.Context) {
	user, ok := server.userFromParam(c)
	if !ok {
		return
	}

	followers, err := user.Followers(server.DB)
	if err != nil {
		server.internalError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": userToDTO(user), "followers": usersToDTO(followers)})
}
