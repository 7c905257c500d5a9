package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"interventions/internal/clients/stock"
	"interventions/internal/clients/technician"
	"interventions/internal/config"
	"interventions/internal/database"
	"interventions/internal/middleware"
	"interventions/internal/modules/auth"
	"interventions/internal/modules/intervention"
	jwtsvc "interventions/internal/pkg/jwt"
	"interventions/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	interventionRepo := repository.NewInterventionRepository(db)

	stockClient := stock.New(cfg.StockServiceURL)
	technicianClient := technician.New(cfg.TechServiceURL)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	interventionService := intervention.NewService(interventionRepo, stockClient, technicianClient)
	interventionHandler := intervention.NewHandler(interventionService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Interventions GMAO",
			"version": "1.0.0",
			"status":  "operational",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "interventions-service"})
	})

	api := r.Group("/api")
	{
		// public
		authHandler.RegisterRoutes(api)

		// protected
		protected := api.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			interventionHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
