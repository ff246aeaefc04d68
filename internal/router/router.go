package router

import (
	"fmt"
	"strings"

	"github.com/boxorder-next/internal/cache"
	"github.com/boxorder-next/internal/config"
	adminhandlers "github.com/boxorder-next/internal/http/handlers/admin"
	publichandlers "github.com/boxorder-next/internal/http/handlers/public"
	"github.com/boxorder-next/internal/http/response"
	"github.com/boxorder-next/internal/i18n"
	"github.com/boxorder-next/internal/logger"
	"github.com/boxorder-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "boxorder"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxRequests,
	}
	formRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:box_form", redisPrefix),
		WindowSeconds: cfg.Security.FormRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.FormRateLimit.MaxRequests,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.L()))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		public.Use(OptionalJWTAuthMiddleware(c.AuthService))
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/captcha", publicHandler.GetImageCaptcha)
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/cart", publicHandler.GetCart)

			form := public.Group("/box-orders")
			form.Use(RateLimitMiddleware(redisClient, formRule, KeyBySessionOrIP))
			{
				form.POST("/submit", publicHandler.SubmitBoxOrder)
				form.POST("/checkout", publicHandler.CheckoutBoxOrder)
			}
		}

		apiV1.POST("/admin/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(c.AuthService))
		admin.Use(AdminRBACMiddleware(c.AuthzService))
		{
			admin.GET("/me", adminHandler.GetAdminMe)

			admin.GET("/box-orders", adminHandler.ListBoxOrders)
			admin.POST("/box-orders", adminHandler.CreateBoxOrder)
			admin.GET("/box-orders/:id", adminHandler.GetBoxOrder)
			admin.PUT("/box-orders/:id/boxes", adminHandler.UpdateBoxOrderBoxes)
			admin.GET("/box-orders/:id/history", adminHandler.GetBoxOrderHistory)
			admin.GET("/box-orders/:id/packing-list", adminHandler.GetBoxOrderPackingList)
			admin.GET("/box-orders/:id/collecting-list", adminHandler.GetBoxOrderCollectingList)
			admin.PATCH("/box-orders/:id/fulfillment", adminHandler.UpdateBoxOrderFulfillment)

			admin.GET("/settings/box-order", adminHandler.GetBoxOrderSetting)
			admin.PUT("/settings/box-order", adminHandler.UpdateBoxOrderSetting)

			admin.GET("/customers", adminHandler.ListCustomers)
			admin.GET("/customers/:id", adminHandler.GetCustomer)
			admin.GET("/products", adminHandler.ListProducts)
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, response.CodeNotFound, i18n.T(i18n.ResolveLocale(ctx), "error.not_found"))
	})
	return r
}
