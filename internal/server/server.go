// Package server assembles the Fiber application: middleware, services
// and every route.
package server

import (
	"strings"
	"time"

	"fintrack-backend/config"
	"fintrack-backend/internal/ai"
	"fintrack-backend/internal/apperr"
	"fintrack-backend/internal/auth"
	"fintrack-backend/internal/cards"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/finance"
	"fintrack-backend/internal/funds"
	"fintrack-backend/internal/handlers"
	"fintrack-backend/internal/mailer"
	"fintrack-backend/internal/middleware"
	"fintrack-backend/internal/models"
	"fintrack-backend/internal/repository"
	"fintrack-backend/internal/social"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Auth endpoints accept this many requests per IP per minute.
const authRequestsPerMinute = 30

// Deps are the collaborators built by the caller. Google and LoginLimiter
// are optional.
type Deps struct {
	Config       *config.Config
	DB           *gorm.DB
	Mailer       mailer.Mailer
	LLM          ai.Completer
	Google       auth.IdentityVerifier
	LoginLimiter auth.LoginLimiter
}

// New builds the application with all routes registered.
func New(deps Deps) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    12 << 20,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Server.AllowedOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowCredentials: true,
		MaxAge:           300,
	}))
	app.Use(middleware.RequestLogger())

	// Repositories
	userRepo := repository.NewUserRepository(deps.DB)
	tokenRepo := repository.NewTokenRepository(deps.DB)
	blogRepo := repository.NewBlogRepository(deps.DB)
	commentRepo := repository.NewCommentRepository(deps.DB)
	likeRepo := repository.NewLikeRepository(deps.DB)
	uow := database.NewUnitOfWork(deps.DB)

	// Services
	tokens := auth.NewTokenService(tokenRepo, userRepo, cfg.Auth)
	authService := auth.NewAuthService(userRepo, tokens, deps.Mailer, cfg)
	if deps.Google != nil {
		authService.WithGoogleVerifier(deps.Google)
	}
	if deps.LoginLimiter != nil {
		authService.WithLoginLimiter(deps.LoginLimiter)
	}

	authHandler := handlers.NewAuthHandler(authService, cfg)
	usersHandler := handlers.NewUsersHandler(userRepo)
	blogHandler := handlers.NewBlogHandler(social.NewBlogService(uow, blogRepo, commentRepo, likeRepo))
	commentHandler := handlers.NewCommentHandler(social.NewCommentService(uow, commentRepo, blogRepo, likeRepo))
	likeHandler := handlers.NewLikeHandler(social.NewLikeService(uow, likeRepo, blogRepo, commentRepo))
	expenseHandler := handlers.NewExpenseHandler(finance.NewExpenseService(repository.NewExpenseRepository(deps.DB)))
	incomeHandler := handlers.NewIncomeHandler(finance.NewIncomeService(repository.NewIncomeRepository(deps.DB)))
	cardHandler := handlers.NewCardHandler(cards.NewService(repository.NewStatementRepository(deps.DB), deps.LLM))
	fundHandler := handlers.NewFundHandler(funds.NewService(deps.LLM))
	healthHandler := handlers.NewHealthHandler(deps.DB)

	protected := middleware.Protected(tokens)

	// Health check routes
	app.Get("/health", healthHandler.Health)
	app.Get("/ready", healthHandler.Ready)

	// Auth routes
	authGroup := app.Group("/auth", limiter.New(limiter.Config{
		Max:        authRequestsPerMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return apperr.TooManyRequests("Too many requests, please try again later")
		},
	}))
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh-token", authHandler.RefreshToken)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/google", authHandler.Google)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Get("/me", protected, authHandler.GetMe)
	authGroup.Get("/:provider/login", authHandler.BeginOAuth)
	authGroup.Get("/:provider/callback", authHandler.OAuthCallback)

	// User routes
	users := app.Group("/users", protected)
	users.Get("/", middleware.RequireRole(models.RoleAdmin), usersHandler.ListUsers)
	users.Put("/me", usersHandler.UpdateMe)
	users.Delete("/me", usersHandler.DeleteMe)
	users.Get("/:id", usersHandler.GetUser)

	// Blog routes
	blogs := app.Group("/blogs")
	blogs.Get("/", blogHandler.List)
	blogs.Get("/slug/:slug", blogHandler.GetBySlug)
	blogs.Get("/user/me", protected, blogHandler.ListMine)
	blogs.Get("/:id", blogHandler.Get)
	blogs.Post("/", protected, blogHandler.Create)
	blogs.Put("/:id", protected, blogHandler.Update)
	blogs.Patch("/:id/status", protected, blogHandler.SetStatus)
	blogs.Delete("/:id", protected, blogHandler.Delete)

	// Comment routes
	comments := app.Group("/comments")
	comments.Get("/blog/:blogId", commentHandler.ListByBlog)
	comments.Post("/", protected, commentHandler.Create)
	comments.Put("/:id", protected, commentHandler.Update)
	comments.Delete("/:id", protected, commentHandler.Delete)

	// Like routes
	likes := app.Group("/likes", protected)
	likes.Post("/toggle", likeHandler.Toggle)
	likes.Get("/status", likeHandler.Status)

	// Ledger routes
	expenses := app.Group("/expenses", protected)
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/", expenseHandler.List)
	expenses.Get("/stats", expenseHandler.Stats)
	expenses.Get("/:id", expenseHandler.Get)
	expenses.Put("/:id", expenseHandler.Update)
	expenses.Delete("/:id", expenseHandler.Delete)

	incomes := app.Group("/incomes", protected)
	incomes.Post("/", incomeHandler.Create)
	incomes.Get("/", incomeHandler.List)
	incomes.Get("/stats", incomeHandler.Stats)
	incomes.Get("/:id", incomeHandler.Get)
	incomes.Put("/:id", incomeHandler.Update)
	incomes.Delete("/:id", incomeHandler.Delete)

	// Card routes
	cardRoutes := app.Group("/cards", protected)
	cardRoutes.Post("/recommend", cardHandler.Recommend)
	cardRoutes.Post("/upload-statement", cardHandler.UploadStatement)
	cardRoutes.Get("/statements", cardHandler.ListStatements)

	// Fund routes
	fundRoutes := app.Group("/funds")
	fundRoutes.Get("/", fundHandler.List)
	fundRoutes.Post("/recommend", protected, fundHandler.Recommend)
	fundRoutes.Post("/compare", fundHandler.Compare)
	fundRoutes.Post("/sip-calculator", fundHandler.SIP)
	fundRoutes.Post("/lumpsum-calculator", fundHandler.LumpSum)
	fundRoutes.Get("/:fundId", fundHandler.Get)
	fundRoutes.Get("/:fundId/performance", fundHandler.Performance)
	fundRoutes.Get("/:fundId/holdings", fundHandler.Holdings)

	return app
}
