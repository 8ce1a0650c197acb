package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/handlers"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	mailService := services.NewMailService(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)
	cartService := services.NewCartService(db)
	wishlistService := services.NewWishlistService(db)
	orderService := services.NewOrderService(db)
	returnService := services.NewReturnService(db, mailService)

	authHandler := handlers.NewAuthHandler(db, cfg)
	resetHandler := handlers.NewPasswordResetHandler(db, mailService)
	catalogHandler := handlers.NewCatalogHandler(db)
	productHandler := handlers.NewProductHandler(db, mailService)
	reviewHandler := handlers.NewReviewHandler(db)
	cartHandler := handlers.NewCartHandler(cartService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	orderHandler := handlers.NewOrderHandler(db, orderService)
	returnHandler := handlers.NewReturnHandler(db, returnService)
	profileHandler := handlers.NewProfileHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", resetHandler.ForgotPassword)
	auth.Post("/verify-reset-code", resetHandler.VerifyResetCode)
	auth.Post("/reset-password", resetHandler.ResetPassword)

	// Public catalog routes
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Get("/:id/reviews", reviewHandler.ListProductReviews)

	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Get("/:id", catalogHandler.GetCategory)

	// Cart routes serve both authenticated users and cookie-identified
	// browsers, so authentication is optional here.
	cart := api.Group("/cart", middleware.OptionalAuthMiddleware(cfg))
	cart.Get("/", cartHandler.Fetch)
	cart.Post("/items/:productID", cartHandler.AddProduct)
	cart.Delete("/items/:productID", cartHandler.RemoveProduct)

	// Authenticated routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	wishlist := protected.Group("/wishlist")
	wishlist.Get("/", wishlistHandler.Get)
	wishlist.Post("/items/:productID", wishlistHandler.AddProduct)
	wishlist.Delete("/items/:productID", wishlistHandler.RemoveProduct)
	wishlist.Post("/items/:productID/move-to-cart", wishlistHandler.MoveToCart)

	protected.Post("/orders", orderHandler.PlaceOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Post("/orders/:id/cancel", orderHandler.CancelOrder)

	protected.Post("/returns", returnHandler.SubmitReturn)

	protected.Post("/products/:id/reviews", reviewHandler.CreateReview)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Get("/profile/addresses", profileHandler.ListAddresses)
	protected.Post("/profile/addresses", profileHandler.CreateAddress)
	protected.Put("/profile/addresses/:id", profileHandler.UpdateAddress)
	protected.Delete("/profile/addresses/:id", profileHandler.DeleteAddress)
	protected.Get("/profile/billing", profileHandler.ListBillingInfos)
	protected.Post("/profile/billing", profileHandler.CreateBillingInfo)
	protected.Delete("/profile/billing/:id", profileHandler.DeleteBillingInfo)

	// Product manager routes
	managed := protected.Group("", middleware.RequireRoles(models.RoleProductManager, models.RoleAdmin))
	managed.Post("/products", productHandler.CreateProduct)
	managed.Put("/products/:id", productHandler.UpdateProduct)
	managed.Delete("/products/:id", productHandler.DeleteProduct)
	managed.Patch("/products/:id/stock", productHandler.SetStock)
	managed.Post("/categories", catalogHandler.CreateCategory)
	managed.Put("/categories/:id", catalogHandler.UpdateCategory)
	managed.Delete("/categories/:id", catalogHandler.DeleteCategory)
	managed.Get("/reviews/pending", reviewHandler.ListPendingReviews)
	managed.Post("/reviews/:id/:action", reviewHandler.ModerateReview)
	managed.Get("/deliveries", orderHandler.ListDeliveries)
	managed.Patch("/deliveries/:id/status", orderHandler.UpdateDeliveryStatus)

	// Sales manager routes
	sales := protected.Group("", middleware.RequireRoles(models.RoleSalesManager, models.RoleAdmin))
	sales.Patch("/products/:id/discount", productHandler.SetDiscount)
	sales.Get("/returns/pending", returnHandler.ListPending)
	sales.Post("/returns/:id/approve", returnHandler.ApproveReturn)
	sales.Post("/returns/:id/reject", returnHandler.RejectReturn)
	sales.Get("/reports/revenue", adminHandler.RevenueReport)

	// Admin routes
	admin := protected.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Patch("/users/:id/role", adminHandler.UpdateUserRole)
}
