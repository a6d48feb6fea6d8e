package router

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cellar-market/internal/authz"
	"github.com/cellar-market/internal/cache"
	"github.com/cellar-market/internal/config"
	adminhandlers "github.com/cellar-market/internal/http/handlers/admin"
	publichandlers "github.com/cellar-market/internal/http/handlers/public"
	"github.com/cellar-market/internal/http/response"
	"github.com/cellar-market/internal/logger"
	"github.com/cellar-market/internal/metrics"
	"github.com/cellar-market/internal/provider"

	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/运维分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisClient := cache.Client()
	cartRule := RateLimitRule{
		Prefix:        cache.Key("rate", "cart"),
		WindowSeconds: cfg.Security.CartRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CartRateLimit.MaxRequests,
		Message:       "too many cart updates, retry in %d seconds",
	}
	registerRule := RateLimitRule{
		Prefix:        cache.Key("rate", "register"),
		WindowSeconds: cfg.Security.RegisterRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.RegisterRateLimit.MaxRequests,
		Message:       "too many sign-up attempts, retry in %d seconds",
	}
	cartLimiter := RateLimitMiddleware(redisClient, cartRule, KeyByParam("userId"))
	userGuard := UserJWTAuthMiddleware(cfg.UserJWT)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(metrics.GinMiddleware(cfg.Metrics.Path))
		r.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 目录接口
		apiV1.GET("/wines", publicHandler.ListWines)
		apiV1.GET("/wines/search", publicHandler.SearchWines)
		apiV1.GET("/wines/filter", publicHandler.FilterWines)
		apiV1.GET("/wines/:id", publicHandler.GetWine)
		apiV1.GET("/recommendations/:userId", publicHandler.GetRecommendations)
		apiV1.GET("/regions", publicHandler.GetRegions)
		apiV1.GET("/varieties", publicHandler.GetVarieties)

		// 购物车接口
		cart := apiV1.Group("/cart/:userId")
		cart.Use(userGuard)
		{
			cart.GET("", publicHandler.GetCart)
			cart.DELETE("", cartLimiter, publicHandler.ClearCart)
			cart.POST("/items", cartLimiter, publicHandler.AddCartItem)
			cart.PUT("/items/:wineId", cartLimiter, publicHandler.UpdateCartItem)
			cart.DELETE("/items/:wineId", cartLimiter, publicHandler.RemoveCartItem)
		}

		// 用户接口
		apiV1.POST("/users", RateLimitMiddleware(redisClient, registerRule, KeyByIPAndJSONField("email")), publicHandler.RegisterUser)
		user := apiV1.Group("/users/:id")
		user.Use(userGuard)
		{
			user.GET("", publicHandler.GetUser)
			user.PUT("", publicHandler.UpdateUser)
			user.GET("/saved-wines", publicHandler.ListSavedWines)
			user.POST("/saved-wines", publicHandler.SaveWine)
			user.DELETE("/saved-wines/:wineKey", publicHandler.RemoveSavedWine)
		}

		// 运维接口
		admin := apiV1.Group("/admin")
		authorized := admin.Use(AdminTokenMiddleware(cfg.Admin.Operators), AdminRBACMiddleware(c.AuthzService))
		{
			authorized.POST("/catalog/reload", adminHandler.ReloadCatalog)
			authorized.GET("/cart-events", adminHandler.GetCartEvents)
			authorized.GET("/authz/me", adminHandler.GetAuthzMe)
			authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
			authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminPermissionCatalog(r))
			})
		}
	}

	// 健康检查
	r.GET("/healthz", func(ctx *gin.Context) {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthPingTimeout)
		defer cancel()
		status := gin.H{"status": "ok", "catalog_size": c.CatalogService.Size()}
		if err := cache.Ping(pingCtx); err != nil {
			status["status"] = "degraded"
			status["redis"] = err.Error()
			ctx.JSON(http.StatusServiceUnavailable, status)
			return
		}
		ctx.JSON(http.StatusOK, status)
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog 列出运维路由对应的权限点，供配置角色时参考
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 || segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
