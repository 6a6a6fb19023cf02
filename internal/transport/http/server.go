package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "shopy/internal/app"
	"shopy/internal/bootstrap"
	"shopy/internal/cache"
	rabbitmqClient "shopy/internal/platform/rabbitmq"
	"shopy/internal/repository"
	"shopy/internal/transport/http/handler"
	"shopy/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	productRepo := repository.NewProductRepository(app.MySQL)
	orderRepo := repository.NewOrderRepository(app.MySQL)

	catalogCache := cache.NewCatalogCache(
		app.Redis,
		time.Duration(app.Config.Redis.CatalogTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.CatalogDirtyTTLSeconds)*time.Second,
	)
	eventPublisher := rabbitmqClient.NewCatalogEventPublisher(app.MQConn, app.Config.RabbitMQ.CatalogEventQueue)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	catalogService := appsvc.NewCatalogService(productRepo, eventPublisher, catalogCache)
	orderService := appsvc.NewOrderService(orderRepo, productRepo)
	dashboardService := appsvc.NewDashboardService(orderRepo, productRepo, userRepo)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)
	assistantHandler := handler.NewAssistantHandler(app.Assistant)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	authJWT := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authJWT, authHandler.Me)
	authGroup.PUT("/me", authJWT, authHandler.UpdateProfile)
	authGroup.POST("/password", authJWT, authHandler.ChangePassword)

	// Storefront browsing and the chat widget are open to anonymous visitors.
	v1.GET("/products", productHandler.List)
	v1.GET("/products/:id", productHandler.Get)
	v1.POST("/assistant/query", assistantHandler.Query)

	orderGroup := v1.Group("/orders")
	orderGroup.Use(authJWT)
	orderGroup.POST("", orderHandler.Checkout)
	orderGroup.GET("", orderHandler.ListMine)
	orderGroup.GET("/:id", orderHandler.GetMine)

	adminGroup := v1.Group("/admin")
	adminGroup.Use(authJWT, middleware.RequireAdmin())
	adminGroup.GET("/dashboard", dashboardHandler.Metrics)
	adminGroup.POST("/products", productHandler.Create)
	adminGroup.PUT("/products/:id", productHandler.Update)
	adminGroup.DELETE("/products/:id", productHandler.Delete)
	adminGroup.GET("/orders", orderHandler.ListAll)
	adminGroup.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	adminGroup.POST("/assistant/reindex", assistantHandler.Reindex)

	return router
}
