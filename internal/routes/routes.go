package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/learnloop/learnloop-backend/internal/config"
	"github.com/learnloop/learnloop-backend/internal/handlers"
	"github.com/learnloop/learnloop-backend/internal/middleware"
	"github.com/learnloop/learnloop-backend/internal/visibility"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	postHandler *handlers.PostHandler,
	feedHandler *handlers.FeedHandler,
	reportHandler *handlers.ReportHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
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
	auth.Post("/verify", authHandler.VerifyEmail)

	// Account routes (JWT required)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Post("/auth/verify/resend", middleware.JWTProtected(cfg), authHandler.ResendVerification)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)
	api.Get("/me", middleware.JWTProtected(cfg), authHandler.Me)
	api.Put("/me", middleware.JWTProtected(cfg), authHandler.UpdateMe)
	api.Get("/me/saved", middleware.JWTProtected(cfg), feedHandler.Saved)

	// Discovery reads — public with optional auth, so hidden content
	// resolves per viewer
	read := api.Group("", middleware.OptionalAuth(cfg))
	read.Get("/feed", feedHandler.Home)
	read.Get("/topics", feedHandler.Topics)
	read.Get("/topics/:topic", feedHandler.Topic)
	read.Get("/posts/:id", postHandler.Get)
	read.Get("/posts/:id/comments", feedHandler.Comments)
	read.Get("/users/:id", feedHandler.Profile)
	read.Get("/users/:id/posts", feedHandler.AuthorPosts)

	// Content writes (JWT required)
	api.Post("/posts", middleware.JWTProtected(cfg), postHandler.Create)
	api.Put("/posts/:id", middleware.JWTProtected(cfg), postHandler.Update)
	api.Delete("/posts/:id", middleware.JWTProtected(cfg), postHandler.Delete)
	api.Post("/posts/:id/comments", middleware.JWTProtected(cfg), postHandler.CreateComment)
	api.Delete("/comments/:id", middleware.JWTProtected(cfg), postHandler.DeleteComment)
	api.Post("/posts/:id/vote", middleware.JWTProtected(cfg), postHandler.Vote)
	api.Post("/comments/:id/vote", middleware.JWTProtected(cfg), postHandler.VoteComment)
	api.Post("/posts/:id/save", middleware.JWTProtected(cfg), postHandler.Save)

	// Report submission: 10/hour per user, keyed on the authenticated
	// user rather than the IP
	reportLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Hour,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID, err := visibility.GetUserID(c); err == nil {
				return userID.String()
			}
			return c.IP()
		},
	})
	api.Post("/reports", middleware.JWTProtected(cfg), reportLimiter, reportHandler.Create)

	// Admin moderation panel
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/reports", reportHandler.List)
	admin.Get("/reports/:id", reportHandler.Detail)
	admin.Post("/reports/:id/unhide", reportHandler.Unhide)
	admin.Post("/reports/:id/dismiss", reportHandler.Dismiss)
}
