package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trendora/config"
	"trendora/controllers"
	_ "trendora/docs"
	"trendora/jobs"
	"trendora/middleware"
	"trendora/repositories"
	"trendora/routes"
	"trendora/services"

	"github.com/gin-gonic/gin"
)

// @title Trendora API
// @version 1.0
// @description E-commerce backend: catalog, cart, checkout, reviews, subscriptions.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadConfig()

	if config.AppConfig.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	config.ConnectDB()
	defer config.CloseDB()

	rdb := config.NewRedisClient()
	defer config.CloseRedis(rdb)

	productRepo := repositories.NewProductRepository(config.DB)
	cartRepo := repositories.NewCartRepository(config.DB)
	orderRepo := repositories.NewOrderRepository(config.DB)
	reviewRepo := repositories.NewReviewRepository(config.DB)
	addressRepo := repositories.NewAddressRepository(config.DB)
	userRepo := repositories.NewUserRepository(config.DB)
	likeRepo := repositories.NewLikeRepository(config.DB)
	categoryRepo := repositories.NewCategoryRepository(config.DB)
	subscriptionRepo := repositories.NewSubscriptionRepository(config.DB)
	activityRepo := repositories.NewActivityRepository(config.DB)
	trialRepo := repositories.NewTrialRepository(config.DB)
	trialProductRepo := repositories.NewTrialProductRepository(config.DB)

	tasks := services.NewTaskQueue(4, 256, 3, 5*time.Second)
	defer tasks.Close()

	var mailer services.Mailer
	if emailSvc, err := services.NewEmailService(); err != nil {
		log.Printf("Email disabled: %v", err)
	} else {
		mailer = emailSvc
	}

	var imageSvc *services.ImageService
	if svc, err := services.NewImageService(); err != nil {
		log.Printf("Image uploads disabled: %v", err)
	} else {
		imageSvc = svc
	}

	provider := services.NewStripeProvider(config.AppConfig.StripeSecretKey, config.AppConfig.StripeWebhookSecret)
	oracle := services.NewOpenAIOracle(config.AppConfig.OpenAIAPIKey)

	pricer := services.NewPricer(config.AppConfig.CargoFreeThreshold, config.AppConfig.CargoFlatFee)
	cartSvc := services.NewCartService(cartRepo, productRepo, pricer)
	checkoutSvc := services.NewCheckoutService(cartRepo, productRepo, orderRepo, addressRepo, userRepo, tasks, mailer)
	reviewSvc := services.NewReviewService(reviewRepo, orderRepo, productRepo, tasks, config.AppConfig.ReviewCommentLimit)
	likeSvc := services.NewLikeService(likeRepo, productRepo, tasks)
	authSvc := services.NewAuthService(userRepo, cartRepo, subscriptionRepo)
	categorySvc := services.NewCategoryService(categoryRepo, rdb, config.AppConfig.CategoryCacheTTL)
	catalogSvc := services.NewCatalogService(productRepo, activityRepo, categorySvc)
	orderSvc := services.NewOrderService(orderRepo)
	addressSvc := services.NewAddressService(addressRepo)
	paymentSvc := services.NewPaymentService(cartSvc, provider)
	subscriptionSvc := services.NewSubscriptionService(subscriptionRepo, userRepo, provider)
	suggestionSvc := services.NewSuggestionService(productRepo, orderRepo, reviewRepo, activityRepo, oracle)
	trialSvc := services.NewTrialService(trialRepo, trialProductRepo, subscriptionRepo, categorySvc)

	scheduler := jobs.NewScheduler(orderRepo, productRepo, activityRepo)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	routes.SetupRoutes(router, routes.Controllers{
		Auth:         controllers.NewAuthController(authSvc),
		Cart:         controllers.NewCartController(cartSvc),
		Product:      controllers.NewProductController(catalogSvc, imageSvc),
		Category:     controllers.NewCategoryController(categorySvc),
		Order:        controllers.NewOrderController(orderSvc, checkoutSvc),
		Payment:      controllers.NewPaymentController(paymentSvc, checkoutSvc, subscriptionSvc, provider),
		Review:       controllers.NewReviewController(reviewSvc),
		Like:         controllers.NewLikeController(likeSvc),
		Address:      controllers.NewAddressController(addressSvc),
		Suggestion:   controllers.NewSuggestionController(suggestionSvc),
		Subscription: controllers.NewSubscriptionController(subscriptionSvc),
		Trial:        controllers.NewTrialController(trialSvc),
	})

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.Port)
		log.Printf("Swagger UI: http://localhost:%s/swagger/index.html", config.AppConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
