package main

import (
	"context"
	"log"
	"os"
	"strings"

	_ "backoffice/docs" // swagger docs
	"backoffice/internal/audit"
	"backoffice/internal/database"
	"backoffice/internal/handler"
	"backoffice/internal/middleware"
	"backoffice/internal/repository"
	"backoffice/internal/service"
	"backoffice/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title           Backoffice API
// @version         1.0
// @description     Admin backoffice with role based access control and an immutable activity log.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "postgres")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub for the live activity feed
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	recorder := audit.NewRecorder(activityRepo, wsHub)
	secret := middleware.GetJWTSecret()

	seedService := service.NewSeedService(roleRepo, userRepo, txManager)
	if err := seedService.Seed(context.Background()); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	userService := service.NewUserService(userRepo, roleRepo, tokenRepo, recorder)
	roleService := service.NewRoleService(roleRepo, userRepo, txManager, recorder)
	activityService := service.NewActivityService(activityRepo)
	authService := service.NewAuthService(userRepo, tokenRepo, recorder, secret)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, secret)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	activityHandler := handler.NewActivityHandler(activityService, wsHub)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(envOr("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173"), ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""), authMiddleware)
	userHandler.RegisterRoutes(router.Group(""), authMiddleware)
	roleHandler.RegisterRoutes(router.Group(""), authMiddleware)
	activityHandler.RegisterRoutes(router.Group(""), authMiddleware)

	port := envOr("PORT", "8080")

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
