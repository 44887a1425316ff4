package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/alumnet/alumnet-backend/internal/handler"
	"github.com/alumnet/alumnet-backend/internal/middleware"
)

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	Auth       *handler.AuthHandler
	Profile    *handler.ProfileHandler
	Photo      *handler.PhotoHandler // nil when no object storage is configured
	Directory  *handler.DirectoryHandler
	Job        *handler.JobHandler
	Connection *handler.ConnectionHandler
	Message    *handler.MessageHandler
	Dashboard  *handler.DashboardHandler
	WS         *handler.WSHandler
}

// Setup configures the /api/v1 routes and the realtime endpoint.
// session must run before RequireAuth; it resolves the caller but never rejects.
func Setup(router *gin.Engine, h *Handlers, session gin.HandlerFunc, extra ...gin.HandlerFunc) {
	api := router.Group("/api/v1", append([]gin.HandlerFunc{session}, extra...)...)
	authed := middleware.RequireAuth()

	// Accounts
	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", authed, h.Auth.Me)

	// Profiles (contact fields filtered per viewer)
	profiles := api.Group("/profiles")
	profiles.GET("/me", authed, h.Profile.GetMyProfile)
	profiles.PUT("/me", authed, h.Profile.UpdateMyProfile)
	if h.Photo != nil {
		profiles.POST("/me/photo", authed, h.Photo.UploadPhoto)
	}
	profiles.GET("/:id", h.Profile.GetProfile)

	api.GET("/directory", h.Directory.Search)

	// Job board
	jobs := api.Group("/jobs")
	jobs.GET("", h.Job.ListJobs)
	jobs.GET("/mine", authed, h.Job.ListMyJobs)
	jobs.POST("", authed, h.Job.CreateJob)
	jobs.PUT("/:id", authed, h.Job.UpdateJob)
	jobs.DELETE("/:id", authed, h.Job.DeactivateJob)

	// Connections, addressed by the other member's ID
	connections := api.Group("/connections", authed)
	{
		connections.GET("/requests", h.Connection.PendingRequests)
		connections.POST("/:userId", h.Connection.Connect)
		connections.DELETE("/:userId", h.Connection.Remove)
		connections.GET("/:userId/status", h.Connection.Status)
		connections.POST("/:userId/accept", h.Connection.Accept)
		connections.POST("/:userId/reject", h.Connection.Reject)
	}

	// Messaging between accepted connections
	conversations := api.Group("/conversations", authed)
	{
		conversations.GET("", h.Message.ListConversations)
		conversations.GET("/:connectionId/messages", h.Message.GetMessages)
		conversations.POST("/:connectionId/messages", h.Message.SendMessage)
		conversations.POST("/:connectionId/read", h.Message.MarkRead)
	}

	api.GET("/dashboard", authed, h.Dashboard.Stats)

	router.GET("/ws", session, h.WS.Connect)
}

// SetupDocs mounts the Swagger UI at /swagger/index.html
func SetupDocs(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
