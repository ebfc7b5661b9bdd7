package routes

import (
	"trendora/controllers"
	"trendora/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Controllers bundles everything SetupRoutes wires into the router.
type Controllers struct {
	Auth         *controllers.AuthController
	Cart         *controllers.CartController
	Product      *controllers.ProductController
	Category     *controllers.CategoryController
	Order        *controllers.OrderController
	Payment      *controllers.PaymentController
	Review       *controllers.ReviewController
	Like         *controllers.LikeController
	Address      *controllers.AddressController
	Suggestion   *controllers.SuggestionController
	Subscription *controllers.SubscriptionController
	Trial        *controllers.TrialController
}

func SetupRoutes(router *gin.Engine, ctrl Controllers) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.POST("/auth/register", ctrl.Auth.Register)
	router.POST("/auth/login", ctrl.Auth.Login)

	router.GET("/categories", ctrl.Category.GetRootCategories)
	router.GET("/categories/:id/children", ctrl.Category.GetChildren)

	// Browsing works anonymously; a valid token additionally records the
	// activity that feeds trending searches and suggestions.
	browse := router.Group("/")
	browse.Use(middleware.OptionalAuthMiddleware())
	{
		browse.GET("/products", ctrl.Product.GetAllProducts)
		browse.GET("/products/search", ctrl.Product.SearchProducts)
		browse.GET("/products/deals", ctrl.Product.GetDeals)
		browse.GET("/products/best-of/:period", ctrl.Product.GetBestOf)
		browse.GET("/products/trending-searches", ctrl.Product.GetTrendingSearches)
		browse.GET("/products/:id", ctrl.Product.GetProductByID)
		browse.GET("/products/:id/reviews", ctrl.Review.ListProductReviews)

		browse.GET("/trial-products", ctrl.Trial.GetAllTrialProducts)
		browse.GET("/trial-products/search", ctrl.Trial.SearchTrialProducts)
		browse.GET("/trial-products/latest", ctrl.Trial.GetLatestTrialProducts)
		browse.GET("/trial-products/:id", ctrl.Trial.GetTrialProductByID)
	}

	// Provider webhook authenticates by signature, not bearer token.
	router.POST("/payments/webhook", ctrl.Payment.HandleWebhook)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("/auth/profile", ctrl.Auth.GetProfile)
		auth.GET("/auth/profile/details", ctrl.Auth.GetProfileDetails)

		auth.GET("/cart", ctrl.Cart.GetCart)
		auth.POST("/cart/items", ctrl.Cart.AddItem)
		auth.POST("/cart/items/decrement", ctrl.Cart.DecrementItem)
		auth.DELETE("/cart/items/:productId", ctrl.Cart.RemoveItem)

		auth.POST("/payments/intent", ctrl.Payment.CreatePaymentIntent)

		auth.GET("/orders", ctrl.Order.ListOrders)
		auth.GET("/orders/:id", ctrl.Order.GetOrderByID)
		auth.GET("/orders/by-payment/:paymentIntentId", ctrl.Order.GetOrderByPaymentIntent)
		auth.POST("/orders/:id/cancel", ctrl.Order.CancelOrder)
		auth.GET("/orders/:id/reviewable", ctrl.Review.ReviewableProducts)

		auth.POST("/reviews", ctrl.Review.CreateReview)
		auth.DELETE("/reviews/:id", ctrl.Review.DeleteReview)

		auth.POST("/likes", ctrl.Like.LikeProduct)
		auth.DELETE("/likes/:productId", ctrl.Like.UnlikeProduct)

		auth.POST("/addresses", ctrl.Address.CreateAddress)
		auth.GET("/addresses", ctrl.Address.ListAddresses)
		auth.PATCH("/addresses/:id/default", ctrl.Address.SetDefaultAddress)
		auth.DELETE("/addresses/:id", ctrl.Address.DeleteAddress)

		auth.GET("/suggestions", ctrl.Suggestion.GetSuggestions)

		auth.POST("/subscriptions", ctrl.Subscription.Subscribe)
		auth.GET("/subscriptions", ctrl.Subscription.ListSubscriptions)
		auth.DELETE("/subscriptions/:id", ctrl.Subscription.CancelSubscription)

		auth.POST("/trials", ctrl.Trial.StartTrial)
		auth.GET("/trials/active", ctrl.Trial.GetActiveTrial)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/products", ctrl.Product.CreateProduct)
		admin.PATCH("/products/:id", ctrl.Product.UpdateProduct)
		admin.DELETE("/products/:id", ctrl.Product.DeleteProduct)

		admin.PATCH("/orders/:id/status", ctrl.Order.UpdateOrderStatus)
	}
}
