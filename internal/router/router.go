// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agrifresh/agrifresh-backend/internal/chat"
	"github.com/agrifresh/agrifresh-backend/internal/config"
	"github.com/agrifresh/agrifresh-backend/internal/handlers"
	"github.com/agrifresh/agrifresh-backend/internal/middleware"
	"github.com/agrifresh/agrifresh-backend/internal/nlu"
	"github.com/agrifresh/agrifresh-backend/internal/repository"
	"github.com/agrifresh/agrifresh-backend/internal/services"
	"github.com/agrifresh/agrifresh-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Repositories
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// Services and chat core
	authService := services.NewAuthService(db, cfg)
	classifier := nlu.NewClient(cfg.NLU.BaseURL, time.Duration(cfg.NLU.TimeoutSeconds)*time.Second)
	dispatcher := chat.NewDispatcher(productRepo, orderRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productRepo)
	chatHandler := handlers.NewChatHandler(classifier, dispatcher, chatRepo, cfg)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)

			protected := products.Group("")
			protected.Use(middleware.AuthRequired(), middleware.FarmerRequired())
			{
				protected.GET("/mine", productHandler.GetMyListings)
			}
		}

		// Chat routes
		chatRoutes := v1.Group("/chat")
		{
			// The WS handshake authenticates via query token, not the
			// Authorization header.
			chatRoutes.GET("/ws", chatHandler.Connect)
			chatRoutes.GET("/history/:session_id", middleware.AuthRequired(), chatHandler.GetHistory)
		}
	}

	return r
}
