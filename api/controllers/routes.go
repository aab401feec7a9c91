package controllers

import (
	"Warbler/api/middlewares"
	"Warbler/api/monitoring"
)

func (s *Server) initializeRoutes() {
	optionalAuth := middlewares.OptionalAuthMiddleware(s.DB)
	requireAuth := middlewares.TokenAuthMiddleware(s.DB)
	// one limiter shared by every credential route
	authLimit := middlewares.LoginRateLimitMiddleware(s.Config.RateLimit)

	s.Router.GET("/", optionalAuth, s.Home)
	s.Router.GET("/health", s.Health)
	s.Router.GET("/metrics", monitoring.Handler())

	s.Router.POST("/signup", authLimit, s.Signup)
	s.Router.POST("/login", authLimit, s.Login)
	s.Router.POST("/logout", s.Logout)

	s.Router.POST("/password/forgot", authLimit, s.ForgotPassword)
	s.Router.POST("/password/reset", authLimit, s.ResetPassword)

	users := s.Router.Group("/users")
	{
		users.GET("", s.ListUsers)
		users.GET("/profile", requireAuth, s.GetProfile)
		users.PATCH("/profile", requireAuth, s.UpdateProfile)
		users.PUT("/profile/image", requireAuth, s.UpdateProfileImage)
		users.DELETE("/delete", requireAuth, s.DeleteUser)

		users.POST("/follow/:id", requireAuth, s.FollowUser)
		users.POST("/stop-following/:id", requireAuth, s.UnfollowUser)
		users.POST("/add_like", requireAuth, s.AddLike)

		users.GET("/:id", optionalAuth, s.GetUser)
		users.GET("/:id/following", requireAuth, s.GetFollowing)
		users.GET("/:id/followers", requireAuth, s.GetFollowers)
		users.GET("/:id/likes", requireAuth, s.GetUserLikes)
	}

	messages := s.Router.Group("/messages")
	{
		messages.POST("/new", requireAuth, s.CreateMessage)
		messages.GET("/:id", optionalAuth, s.GetMessage)
		messages.POST("/:id/delete", requireAuth, s.DeleteMessage)
	}
}
