package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/hduce/eagle_bank_api/cmd/docs"
	portssvc "github.com/hduce/eagle_bank_api/internal/core/ports/services"
	"github.com/hduce/eagle_bank_api/internal/dto"
	"github.com/hduce/eagle_bank_api/internal/middleware"
	"github.com/hduce/eagle_bank_api/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container interfaces.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) error {
	if err := dto.RegisterCustomValidators(); err != nil {
		return err
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public routes: registration and login, rate limited per client IP.
	rate, err := limiter.NewRateFromFormatted(cfg.LoginRateLimit)
	if err != nil {
		return err
	}
	loginLimiter := limiter.New(memory.NewStore(), rate)

	public := r.Group("/api/v1", middleware.RateLimit(loginLimiter))
	registerPublicUserRoutes(public, services.User)
	registerAuthRoutes(public, services.Auth)

	// Authenticated API surface.
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	registerUserRoutes(v1, services.User)
	registerAccountRoutes(v1, services.Account)
	registerTransactionRoutes(v1, services.Transaction)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		// no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
