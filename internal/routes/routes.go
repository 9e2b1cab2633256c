// Package routes defines the API routing configuration.
// It wires repositories, services and handlers and applies the
// authentication and rate-limit middleware per route group.
package routes

import (
	"giftwise/internal/config"
	"giftwise/internal/dates"
	"giftwise/internal/handlers"
	"giftwise/internal/middleware"
	"giftwise/internal/models"
	"giftwise/internal/ratelimit"
	"giftwise/internal/repositories"
	"giftwise/internal/services/auth"
	"giftwise/internal/services/catalog"
	"giftwise/internal/services/ledger"
	"giftwise/internal/services/notification"
	"giftwise/internal/services/occasions"
	"giftwise/internal/services/payment"
	"giftwise/internal/services/scheduler"
	"giftwise/internal/services/user"

	"github.com/gofiber/fiber/v2"
)

// Services groups the long-lived services main needs a handle on after
// route setup (currently just the gift pipeline).
type Services struct {
	Pipeline *scheduler.Service
}

// SetupRoutes configures all application routes and returns the wired
// background services.
func SetupRoutes(app *fiber.App) *Services {
	// Repositories
	walletRepo := repositories.NewWalletRepository(repositories.DB)
	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)
	recipientRepo := repositories.NewRecipientRepository(repositories.DB, repositories.CacheService)
	scheduleRepo := repositories.NewScheduleRepository(repositories.DB)

	// Services
	engine := dates.NewEngine(nil)
	ledgerService := ledger.NewService(
		walletRepo,
		repositories.CacheService,
		ledger.Config{
			DefaultCurrency:  config.GetEnv("LEDGER_CURRENCY", ""),
			MaxDepositAmount: config.GetFloatEnv("LEDGER_MAX_DEPOSIT", 0),
			MinDepositAmount: config.GetFloatEnv("LEDGER_MIN_DEPOSIT", 0),
		},
		ledger.NewPrometheusCollector(nil),
	)
	userService := user.NewService(userRepo)
	authService := auth.NewService(userService, userRepo, ledgerService)
	occasionService := occasions.NewService(recipientRepo, engine)
	paymentService := payment.NewService(
		ledgerService,
		payment.NewStripeCharger(config.GetEnv("STRIPE_SECRET_KEY", "")),
	)
	catalogClient := catalog.NewClient(
		config.GetEnv("CATALOG_BASE_URL", "http://localhost:9090"),
		config.GetEnv("CATALOG_API_KEY", ""),
	)
	pipeline := scheduler.NewService(
		scheduleRepo,
		recipientRepo,
		ledgerService,
		catalogClient,
		notification.NewLogNotifier(),
		engine,
		config.GetEnv("PIPELINE_CRON", scheduler.DefaultCronSpec),
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	walletHandler := handlers.NewWalletHandler(ledgerService, paymentService)
	recipientHandler := handlers.NewRecipientHandler(recipientRepo, occasionService)
	occasionHandler := handlers.NewOccasionHandler(occasionService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleRepo, recipientRepo, pipeline)

	limiter := ratelimit.NewLimiter()

	api := app.Group("/api",
		middleware.RateLimit(limiter, ratelimit.PolicyAPI, "api"))

	// Public endpoints
	api.Post("/register",
		middleware.RateLimit(limiter, ratelimit.PolicyAuth, "auth"), authHandler.Register)
	api.Post("/login",
		middleware.RateLimit(limiter, ratelimit.PolicyAuth, "auth"), authHandler.Login)
	api.Post("/refresh",
		middleware.RateLimit(limiter, ratelimit.PolicyAuth, "auth"), authHandler.Refresh)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Giftwise API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", handlers.HealthCheck)

	// Protected routes
	authMiddleware := middleware.NewAuthMiddleware(userRepo)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.Logout)
	protected.Get("/me", userHandler.Me)
	protected.Post("/change-password",
		middleware.HasPermission(models.PermissionChangePassword),
		middleware.RateLimit(limiter, ratelimit.PolicyForms, "forms"),
		userHandler.ChangePassword)

	wallet := protected.Group("/wallet")
	wallet.Get("/", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetWallet)
	wallet.Get("/balance", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetBalance)
	wallet.Get("/transactions", middleware.HasPermission(models.PermissionWalletRead), walletHandler.ListTransactions)
	wallet.Post("/topup",
		middleware.HasPermission(models.PermissionWalletWrite),
		middleware.RateLimit(limiter, ratelimit.PolicyPayment, "payment"),
		walletHandler.TopUp)

	recipients := protected.Group("/recipients")
	recipients.Get("/", middleware.HasPermission(models.PermissionRecipientRead), recipientHandler.List)
	recipients.Post("/",
		middleware.HasPermission(models.PermissionRecipientWrite),
		middleware.RateLimit(limiter, ratelimit.PolicyForms, "forms"),
		recipientHandler.Create)
	recipients.Post("/import",
		middleware.HasPermission(models.PermissionRecipientWrite),
		middleware.RateLimit(limiter, ratelimit.PolicyForms, "forms"),
		recipientHandler.ImportContacts)
	recipients.Get("/:id", middleware.HasPermission(models.PermissionRecipientRead), recipientHandler.Get)
	recipients.Put("/:id", middleware.HasPermission(models.PermissionRecipientWrite), recipientHandler.Update)
	recipients.Delete("/:id", middleware.HasPermission(models.PermissionRecipientWrite), recipientHandler.Delete)
	recipients.Post("/:id/occasions",
		middleware.HasPermission(models.PermissionRecipientWrite),
		middleware.RateLimit(limiter, ratelimit.PolicyForms, "forms"),
		recipientHandler.AddOccasion)
	recipients.Delete("/:id/occasions/:occasionID",
		middleware.HasPermission(models.PermissionRecipientWrite), recipientHandler.DeleteOccasion)

	protected.Get("/occasions/upcoming",
		middleware.HasPermission(models.PermissionRecipientRead), occasionHandler.Upcoming)
	protected.Get("/occasions/calendar.ics",
		middleware.HasPermission(models.PermissionRecipientRead), occasionHandler.Calendar)

	schedules := protected.Group("/schedules")
	schedules.Get("/", middleware.HasPermission(models.PermissionScheduleRead), scheduleHandler.List)
	schedules.Post("/",
		middleware.HasPermission(models.PermissionScheduleWrite),
		middleware.RateLimit(limiter, ratelimit.PolicyForms, "forms"),
		scheduleHandler.Create)
	schedules.Delete("/:id", middleware.HasPermission(models.PermissionScheduleWrite), scheduleHandler.Cancel)

	// Admin routes
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminOnly)
	admin.Post("/pipeline/run",
		middleware.HasPermission(models.PermissionWriteAdmin), scheduleHandler.RunPipeline)

	return &Services{Pipeline: pipeline}
}
