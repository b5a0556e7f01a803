package routes

import (
	"bankhub/internal/adapters/http/handlers"
	"bankhub/internal/adapters/http/middleware"
	"bankhub/internal/adapters/persistence/repositories"
	"bankhub/internal/config"
	"bankhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	repaymentRepo := repositories.NewRepaymentRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(db, userRepo, customerRepo, accountRepo)
	accountService := services.NewAccountService(db, accountRepo, customerRepo, transactionRepo, cfg.Bank.GateDeposits)
	transactionService := services.NewTransactionService(db, transactionRepo, accountRepo)
	loanService := services.NewLoanService(db, loanRepo, repaymentRepo, customerRepo, settingsRepo)
	settingsService := services.NewSettingsService(settingsRepo)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	loanHandler := handlers.NewLoanHandler(loanService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Account balances and statements are user specific
	apiV1.Use(middleware.NoCacheHeaders())

	// User management routes (Admin only)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	setupUserRoutes(userRoutes, userHandler)

	// Savings account routes (Customer only)
	accountRoutes := apiV1.Group("/accounts")
	accountRoutes.Use(middleware.AuthMiddleware(cfg))
	accountRoutes.Use(middleware.CustomerOnly())
	setupAccountRoutes(accountRoutes, accountHandler)

	// Transaction approval queue (Admin only)
	transactionRoutes := apiV1.Group("/transactions")
	transactionRoutes.Use(middleware.AuthMiddleware(cfg))
	transactionRoutes.Use(middleware.AdminOnly())
	setupTransactionRoutes(transactionRoutes, transactionHandler)

	// Loan routes
	loanRoutes := apiV1.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	setupLoanRoutes(loanRoutes, loanHandler)

	// Loan settings routes
	settingsRoutes := apiV1.Group("/settings")
	settingsRoutes.Use(middleware.AuthMiddleware(cfg))
	setupSettingsRoutes(settingsRoutes, settingsHandler)

	// Dashboard routes
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Get("/", dashboardHandler.Get)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes. There is no public
// registration: all accounts are created here by an admin. Profile and
// password routes are open to every authenticated user.
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/profile", handler.GetProfile)
	router.Put("/change-password", middleware.StrictRateLimiter(), handler.ChangePassword)

	admin := router.Group("", middleware.AdminOnly())
	admin.Post("/", handler.CreateUser)
	admin.Get("/", handler.ListUsers)
	admin.Get("/:id", handler.GetUser)
	admin.Put("/:id/role", handler.SetRole)
	admin.Delete("/:id", handler.DeleteUser)
}

// setupAccountRoutes configures savings account routes
func setupAccountRoutes(router fiber.Router, handler *handlers.AccountHandler) {
	router.Get("/balance", handler.Balance)
	router.Get("/transactions", handler.Statement)
	router.Post("/deposit", handler.Deposit)
	router.Post("/withdraw", handler.Withdraw)
}

// setupTransactionRoutes configures the admin approval queue routes
func setupTransactionRoutes(router fiber.Router, handler *handlers.TransactionHandler) {
	router.Get("/pending", handler.ListPending)
	router.Put("/:id/approve", handler.Approve)
	router.Put("/:id/reject", handler.Reject)
}

// setupLoanRoutes configures loan routes. Per-operation authorization is
// enforced in the service layer; route-level guards only narrow the groups.
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Post("/apply", middleware.CustomerOnly(), handler.Apply)
	router.Get("/my", middleware.CustomerOnly(), handler.GetMyLoans)
	router.Get("/", middleware.StaffOrAdmin(), handler.List)
	router.Get("/:id", handler.GetByID)
	router.Put("/:id/approve", middleware.StaffOrAdmin(), handler.Approve)
	router.Put("/:id/reject", middleware.StaffOrAdmin(), handler.Reject)
	router.Post("/:id/repayments", middleware.CustomerOnly(), handler.Repay)
	router.Get("/:id/repayments", handler.Repayments)
}

// setupSettingsRoutes configures loan settings routes
func setupSettingsRoutes(router fiber.Router, handler *handlers.SettingsHandler) {
	router.Get("/loan", handler.Get)
	router.Put("/loan", middleware.AdminOnly(), handler.Update)
}
