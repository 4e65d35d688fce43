package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/motion-studio/briefing-backend/config"
	httpapi "github.com/motion-studio/briefing-backend/internal/api/http"
	"github.com/motion-studio/briefing-backend/internal/api/http/middleware"
	"github.com/motion-studio/briefing-backend/internal/auth"
	briefinghttp "github.com/motion-studio/briefing-backend/internal/briefing/http"
	"github.com/motion-studio/briefing-backend/internal/briefing/repository"
	"github.com/motion-studio/briefing-backend/internal/briefing/workspace"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Backend        string
	AllowedOrigins []string
	GatewayAPIKey  string
	// LoginRate is attempts per minute per client IP; 0 disables throttling
	LoginRate  int
	LoginBurst int

	Store    repository.Gateway
	Pinger   repository.Pinger
	Gate     *auth.Gate
	Registry *workspace.Registry
}

// SetGinMode switches gin to release mode in production
func SetGinMode(app config.AppConfig) {
	if app.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Backend, dep.Pinger)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")

	gw := api.Group("")
	gw.Use(middleware.APIKeyMiddleware(dep.GatewayAPIKey))
	briefinghttp.NewGatewayHandler(dep.Store).Register(gw)

	var loginGuards []gin.HandlerFunc
	if dep.LoginRate > 0 {
		limiter := middleware.NewClientRateLimiter(rate.Every(time.Minute/time.Duration(dep.LoginRate)), dep.LoginBurst)
		loginGuards = append(loginGuards, limiter.Middleware())
	}
	briefinghttp.New(dep.Gate, dep.Registry).Register(api, loginGuards...)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.APIKeyHeader, middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
