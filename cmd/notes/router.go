package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/gonotes/handlers"
	"github.com/gogotex/gonotes/internal/config"
	"github.com/gogotex/gonotes/internal/note/handler"
	"github.com/gogotex/gonotes/internal/note/repository"
	"github.com/gogotex/gonotes/internal/note/service"
	"github.com/gogotex/gonotes/internal/revocation"
	"github.com/gogotex/gonotes/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// deps are the runtime collaborators the router is built from.
type deps struct {
	store       repository.Store
	verifier    middleware.Verifier
	redis       *redis.Client
	revocations *revocation.List
	checks      map[string]handlers.Check
	started     time.Time
}

func newRouter(cfg *config.Config, d deps) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.LogRequest(), middleware.RequestMetrics(), middleware.Cors(cfg.Server.AllowedOrigins))

	handlers.RegisterHealth(r, d.checks, d.started)
	handlers.RegisterSwagger(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// the limiter sits behind auth on protected routes so it keys on the user
	guards := handler.Guards{Protected: []gin.HandlerFunc{middleware.AuthMiddleware(d.verifier, d.revocations)}}
	if cfg.RateLimit.Enabled {
		limiter := middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		if cfg.RateLimit.UseRedis && d.redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			limiter = middleware.RedisRateLimitMiddleware(d.redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win)
		}
		guards.Public = append(guards.Public, limiter)
		guards.Protected = append(guards.Protected, limiter)
	}

	handler.New(service.New(d.store)).RegisterRoutes(r, guards)
	handlers.NewAuthHandler(d.revocations).Register(r, guards.Protected...)
	return r
}
