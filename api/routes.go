/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers, service/init.go
 */

package api

import (
	"dqcheck-service/api/controllers"
	apimiddleware "dqcheck-service/api/middleware"
	"dqcheck-service/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 元数据查询
	r.Route("/meta", func(r chi.Router) {
		metaController := controllers.NewMetaController()
		r.Get("/metrics", metaController.GetMetricDefinitions)
		r.Get("/actions", metaController.GetActions)
		r.Get("/comparators", metaController.GetComparators)
	})

	// 质量检查
	r.Route("/checks", func(r chi.Router) {
		checkController := controllers.NewCheckController(service.GlobalCheckService)

		r.Get("/", checkController.ListChecks)
		r.Get("/executions", checkController.ListExecutions)

		// 手动触发需要API密钥
		r.With(apimiddleware.ApiKeyAuth(service.GlobalApiKeyService.ValidateApiKey)).
			Post("/{metric}/run", checkController.RunCheck)
	})
}
