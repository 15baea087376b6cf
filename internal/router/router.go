package router

import (
	"fmt"
	"strings"

	"github.com/homeclean-next/internal/cache"
	"github.com/homeclean-next/internal/config"
	publichandlers "github.com/homeclean-next/internal/http/handlers/public"
	"github.com/homeclean-next/internal/http/response"
	"github.com/homeclean-next/internal/i18n"
	"github.com/homeclean-next/internal/logger"
	"github.com/homeclean-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "hc"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	registerRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:register", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 服务目录（公开）
		apiV1.GET("/services", handler.ListServices)
		apiV1.GET("/services/:id", handler.GetService)

		// 用户认证
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, registerRule, KeyByIP), handler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), handler.UserLogin)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserAuthService))
		{
			user.GET("/me", handler.GetCurrentUser)

			user.GET("/cart/items", handler.ListCartItems)
			user.GET("/cart/summary", handler.GetCartSummary)
			user.POST("/cart/items", handler.AddCartItem)
			user.PUT("/cart/items/:id", handler.UpdateCartItem)
			user.DELETE("/cart/items/:id", handler.RemoveCartItem)
			user.DELETE("/cart/clear", handler.ClearCart)

			user.POST("/service-bookings", handler.CreateBooking)
			user.GET("/service-bookings", handler.ListBookings)
			user.GET("/service-bookings/:id", handler.GetBooking)
			user.POST("/service-bookings/:id/cancel", handler.CancelBooking)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, i18n.T(i18n.ResolveLocale(c), "error.not_found"))
	})

	return r
}
