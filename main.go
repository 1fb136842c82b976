package main

import (
	"context"
	"os"
	"time"

	"artmarket-app/config"
	"artmarket-app/database"
	artworksapi "artmarket-app/internal/api/artworks"
	categoriesapi "artmarket-app/internal/api/categories"
	checkoutapi "artmarket-app/internal/api/checkout"
	paymentsapi "artmarket-app/internal/api/payments"
	transactionsapi "artmarket-app/internal/api/transactions"
	routes "artmarket-app/internal/app/http"
	"artmarket-app/internal/logger"
	"artmarket-app/internal/metrics"
	"artmarket-app/internal/payment"
	"artmarket-app/internal/service"
	"artmarket-app/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()
	metrics.Register()

	log := logger.New(os.Stdout)

	store := service.NewGormStore(database.DB)
	orderService := service.NewOrderService(store, log)
	artworksapi.UseAvailability(orderService)

	paymentClient := payment.NewClient(payment.Config{
		BaseURL:   config.PAYMENT_BASE_URL,
		APIKey:    config.PAYMENT_API_KEY,
		AccountID: config.PAYMENT_ACCOUNT_ID,
		ProductID: config.PAYMENT_PRODUCT_ID,
	})

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Callback-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Handlers{
		Categories:   categoriesapi.NewHandler(categoriesapi.NewGormStore(database.DB)),
		Checkout:     checkoutapi.NewHandler(orderService),
		Transactions: transactionsapi.NewHandler(orderService),
		Payments:     paymentsapi.NewHandler(paymentClient, orderService),
	})

	// backstop for missed provider webhooks
	if interval := pollInterval(); interval > 0 && paymentClient.Configured() {
		poller := worker.NewPaymentPoller(orderService, paymentClient, interval, log)
		go poller.Start(context.Background())
	}

	r.Run(":" + config.PORT)
}

func pollInterval() time.Duration {
	if config.PAYMENT_POLL_INTERVAL == "" {
		return 0
	}
	d, err := time.ParseDuration(config.PAYMENT_POLL_INTERVAL)
	if err != nil {
		return 0
	}
	return d
}
