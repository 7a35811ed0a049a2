// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"github.com/gin-gonic/gin"

	"linkup_dm_server/internal/handler"
	"linkup_dm_server/internal/infrastructure/middleware"
)

// Router 路由管理器
// 持有 Handler 聚合实例，通过方法注册各模块路由
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 httpserver.Init() 中调用
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// WebSocket 路由不经过 JWT 中间件：
	// 浏览器 WebSocket 无法自定义请求头，凭证在网关握手时单独验证
	rt.RegisterWebSocketRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.JWTAuth())
	rt.RegisterMessageRoutes(authed)
}
