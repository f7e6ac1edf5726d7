// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/Laisfaustt/ProjetoCamali/internal/application/container"
	"github.com/Laisfaustt/ProjetoCamali/internal/presentation/http/handlers"
	"github.com/Laisfaustt/ProjetoCamali/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Serve stored avatars and other blobs directly from disk.
	r.Static("/media", container.Blobs.Root())

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)
	journalHandlers := handlers.NewJournalHandlers(container.JournalService, container.Broadcaster, container.Logger)
	historyHandlers := handlers.NewHistoryHandlers(container.HistoryService, container.Logger)
	profileHandlers := handlers.NewProfileHandlers(container.ProfileService, container.Logger)
	rosterHandlers := handlers.NewRosterHandlers(container.RosterService, container.ProfileService, container.Logger)
	chatHandlers := handlers.NewChatHandlers(container.ChatService, container.Logger)

	api := r.Group("/api/v1")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandlers.PostSignup)
		auth.POST("/login", authHandlers.PostLogin)
		auth.POST("/password-reset", authHandlers.PostPasswordReset)
		auth.POST("/password-reset/confirm", authHandlers.PostPasswordResetConfirm)
	}
	api.GET("/moods", journalHandlers.GetMoods)

	// Authenticated routes
	session := api.Group("")
	session.Use(middleware.RequireSession())
	{
		journal := session.Group("/journal")
		{
			journal.GET("/today", journalHandlers.GetToday)
			journal.POST("/moods", journalHandlers.PostMood)
			journal.POST("/jar-bounds", journalHandlers.PostJarBounds)
			journal.GET("/stream", journalHandlers.GetStream)
		}

		history := session.Group("/history")
		{
			history.GET("/:year", historyHandlers.GetYear)
			history.GET("/:year/:month", historyHandlers.GetMonth)
			history.GET("/:year/:month/days/:day", historyHandlers.GetDay)
		}

		profile := session.Group("/profile")
		{
			profile.GET("", profileHandlers.GetProfile)
			profile.PUT("", profileHandlers.PutProfile)
			profile.POST("/avatar", profileHandlers.PostAvatar)
			profile.POST("/questionnaire", profileHandlers.PostQuestionnaire)
		}

		chat := session.Group("/chat")
		{
			chat.GET("/:roomId/messages", chatHandlers.GetMessages)
			chat.GET("/:roomId/ws", chatHandlers.GetWebsocket)
		}

		// Advisor-only routes
		students := session.Group("/students")
		students.Use(middleware.RequireAdvisor())
		{
			students.GET("", rosterHandlers.GetStudents)
			students.GET("/stream", rosterHandlers.GetStudentsStream)
			students.GET("/:id", rosterHandlers.GetStudent)
			students.PUT("/:id/notes", rosterHandlers.PutStudentNotes)
		}
	}

	return r
}
