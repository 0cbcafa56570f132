package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/wavelinehq/waveline/internal/config"
	"github.com/wavelinehq/waveline/internal/handlers"
	"github.com/wavelinehq/waveline/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	postHandler *handlers.PostHandler,
	moderationHandler *handlers.ModerationHandler,
) {
	api := app.Group("/api")

	// Health (public)
	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Everything below requires an authenticated principal.
	protected := api.Group("", middleware.JWTProtected(cfg))

	// Users and the social graph
	protected.Get("/users/:id", userHandler.GetProfile)
	protected.Put("/users/me", userHandler.UpdateProfile)
	protected.Post("/users/:id/follow", userHandler.FollowToggle)
	protected.Get("/users/:id/posts", postHandler.GetUserPosts)

	// Posts and engagement
	protected.Get("/feed", postHandler.GetFeed)
	protected.Post("/posts", postHandler.CreatePost)
	protected.Get("/posts/:id", postHandler.GetPost)
	protected.Delete("/posts/:id", postHandler.DeletePost)
	protected.Post("/posts/:id/like", postHandler.LikeToggle)
	protected.Post("/posts/:id/replies", postHandler.ReplyToPost)
	protected.Delete("/posts/:id/replies/:replyId", postHandler.DeleteReply)
	protected.Post("/replies/:id/like", postHandler.LikeToggleReply)

	// User-submitted reports
	protected.Post("/posts/:id/report", moderationHandler.SubmitReport)

	// Admin moderation panel
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db))
	admin.Get("/moderation/reports", moderationHandler.ListReports)
	admin.Put("/moderation/reports/:id", moderationHandler.ResolveReport)
	admin.Put("/users/:id/freeze", userHandler.FreezeToggle)
}
