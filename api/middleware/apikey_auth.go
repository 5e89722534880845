/*
 * @module api/middleware/apikey_auth
 * @description API密钥鉴权中间件，校验请求头中的密钥有效性
 * @architecture 中间件模式 - HTTP请求拦截和验证
 * @stateFlow 密钥提取 -> 密钥校验 -> 上下文注入 -> 下一个处理器
 * @rules 未启用鉴权时直接放行；密钥从 X-API-Key 或 Authorization Bearer 头提取
 * @dependencies net/http, github.com/go-chi/render
 * @refs service/auth/apikey_service.go, api/routes.go
 */

package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"

	"dqcheck-service/service/models"

	"github.com/go-chi/render"
)

// ContextKey 上下文键类型
type ContextKey string

// ApiKeyInfoKey 密钥信息在上下文中的键
const ApiKeyInfoKey ContextKey = "api_key_info"

// KeyValidator 密钥校验函数
type KeyValidator func(keyValue string) (*models.ApiKey, error)

// authErrorResponse 鉴权失败响应结构
type authErrorResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

// ApiKeyAuth 创建API密钥鉴权中间件
// API_AUTH_ENABLED 不为 true 时中间件直接放行，便于本地开发
func ApiKeyAuth(validator KeyValidator) func(http.Handler) http.Handler {
	enabled := os.Getenv("API_AUTH_ENABLED") == "true"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}

			keyValue := extractApiKey(r)
			if keyValue == "" {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, authErrorResponse{Status: 401, Msg: "缺少API密钥"})
				return
			}

			apiKey, err := validator(keyValue)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, authErrorResponse{Status: 401, Msg: "API密钥校验失败: " + err.Error()})
				return
			}

			ctx := context.WithValue(r.Context(), ApiKeyInfoKey, apiKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractApiKey 从请求头提取API密钥
func extractApiKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}

	authorization := r.Header.Get("Authorization")
	if strings.HasPrefix(authorization, "Bearer ") {
		return strings.TrimPrefix(authorization, "Bearer ")
	}

	return ""
}
