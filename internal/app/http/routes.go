package routes

import (
	artistsapi "artmarket-app/internal/api/artists"
	artworksapi "artmarket-app/internal/api/artworks"
	authapi "artmarket-app/internal/api/auth"
	categoriesapi "artmarket-app/internal/api/categories"
	checkoutapi "artmarket-app/internal/api/checkout"
	paymentsapi "artmarket-app/internal/api/payments"
	transactionsapi "artmarket-app/internal/api/transactions"
	usersapi "artmarket-app/internal/api/users"
	"artmarket-app/internal/app/http/middleware"
	"artmarket-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles the handlers that carry injected dependencies.
type Handlers struct {
	Categories   *categoriesapi.Handler
	Checkout     *checkoutapi.Handler
	Transactions *transactionsapi.Handler
	Payments     *paymentsapi.Handler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// provider callback authenticates with its own token, not a user JWT
	r.POST("/api/payments/webhook", h.Payments.Webhook)

	public := r.Group("/api")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/auth/register", authapi.Register)
	public.POST("/auth/login", authapi.Login)
	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	public.GET("/categories", h.Categories.ListCategories)
	public.GET("/categories/:id", h.Categories.GetCategoryByID)

	public.GET("/artworks", artworksapi.ListArtworks)
	public.GET("/artworks/:id", artworksapi.GetArtworkByID)
	public.GET("/artworks/:id/availability", artworksapi.GetArtworkAvailability)

	public.GET("/artists", artistsapi.ListArtists)
	public.GET("/artists/:id", artistsapi.GetArtistByID)
	public.GET("/artists/:id/artworks", artistsapi.GetArtistArtworks)

	// Authenticated
	auth := r.Group("/api")
	auth.Use(middleware.AuthMiddleware())

	auth.GET("/users/me", usersapi.GetCurrentUser)
	auth.PUT("/users/me", usersapi.UpdateCurrentUser)
	auth.POST("/auth/change-password", authapi.ChangePassword)

	auth.POST("/checkout", h.Checkout.Checkout)

	auth.POST("/transactions", h.Transactions.CreateTransaction)
	auth.GET("/transactions", transactionsapi.ListTransactions)
	auth.GET("/transactions/:id", transactionsapi.GetTransactionByID)
	auth.PUT("/transactions/:id", middleware.RequireRole(users.RoleAdmin), transactionsapi.UpdateTransactionStatus)
	auth.DELETE("/transactions/:id", transactionsapi.DeleteTransaction)

	auth.POST("/payments/invoice", h.Payments.CreateInvoice)
	auth.GET("/payments/:invoiceNumber/status", h.Payments.GetPaymentStatus)

	// Artists (and admins) manage the catalog
	artist := auth.Group("/")
	artist.Use(middleware.RequireRole(users.RoleArtist, users.RoleAdmin))
	artist.POST("/artworks", artworksapi.CreateArtwork)
	artist.PUT("/artworks/:id", artworksapi.UpdateArtwork)
	artist.DELETE("/artworks/:id", artworksapi.DeleteArtwork)

	// Admin routes
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(users.RoleAdmin))
	admin.GET("/users", usersapi.ListAllUsers)
	admin.GET("/users/:id", usersapi.GetUserByID)
	admin.PUT("/users/:id", usersapi.UpdateUser)
	admin.DELETE("/users/:id", usersapi.DeleteUser)

	admin.POST("/categories", h.Categories.CreateCategory)
	admin.PUT("/categories/:id", h.Categories.UpdateCategory)
	admin.DELETE("/categories/:id", h.Categories.DeleteCategory)
}
