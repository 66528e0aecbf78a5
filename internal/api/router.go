// Package api exposes TempoHub's public JSON API.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/tempohub/tempohub-service/internal/api/handlers"
	"github.com/tempohub/tempohub-service/internal/auth"
	"github.com/tempohub/tempohub-service/internal/catalog"
	"github.com/tempohub/tempohub-service/internal/community"
)

// Services are the domain services behind the API.
type Services struct {
	Catalog   *catalog.Service
	Auth      *auth.Service
	Community *community.Service
}

// Options tune the HTTP layer.
type Options struct {
	AllowedOrigins []string
	Debug          bool
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc Services, opts Options, logger *zap.Logger) *gin.Engine {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger = logger.Named("api")

	r := gin.New()
	r.Use(requestLogger(logger))
	r.Use(requestMetrics())
	r.Use(recovery(logger))

	eventHandler := handlers.NewEventHandler(svc.Catalog, logger)
	authHandler := handlers.NewAuthHandler(svc.Auth, logger)
	communityHandler := handlers.NewCommunityHandler(svc.Community, logger)

	requireAuth := handlers.RequireAuth(svc.Auth)
	optionalAuth := handlers.OptionalAuth(svc.Auth)

	api := r.Group("/api/v1")
	{
		api.GET("/categories", eventHandler.GetCategories)

		events := api.Group("/events")
		{
			events.GET("", eventHandler.ListEvents)
			events.GET("/:id", eventHandler.GetEvent)
			events.POST("", requireAuth, eventHandler.CreateEvent)
			events.POST("/preview", requireAuth, eventHandler.PreviewEvent)
			events.POST("/:id/register", requireAuth, eventHandler.Register)
			events.GET("/:id/registration", requireAuth, eventHandler.GetRegistration)
		}

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.SignUp)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/me", requireAuth, authHandler.Me)
		}

		social := api.Group("/community")
		{
			social.GET("/feed", optionalAuth, communityHandler.GetFeed)
			social.POST("/posts", requireAuth, communityHandler.CreatePost)
			social.POST("/posts/:id/like", requireAuth, communityHandler.ToggleLike)
			social.GET("/chats", communityHandler.ListChats)
			social.GET("/chats/:id", communityHandler.GetChat)
			social.POST("/chats/:id/messages", requireAuth, communityHandler.SendMessage)
			social.POST("/chats/:id/read", requireAuth, communityHandler.MarkRead)
			social.GET("/groups", optionalAuth, communityHandler.ListGroups)
			social.POST("/groups/:id/join", requireAuth, communityHandler.JoinGroup)
			social.POST("/groups/:id/leave", requireAuth, communityHandler.LeaveGroup)
			social.GET("/updates", communityHandler.ListUpdates)
			social.GET("/suggestions", communityHandler.ListSuggestions)
			social.GET("/profile", communityHandler.GetProfile)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		handlers.RespondWithError(c, http.StatusNotFound, "Not found")
	})

	return r
}

// NewHandler wraps the router with CORS handling for the browser front end.
func NewHandler(svc Services, opts Options, logger *zap.Logger) http.Handler {
	router := NewRouter(svc, opts, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	})
	return c.Handler(router)
}
