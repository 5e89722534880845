/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, httptest
 * @refs service/models
 */

package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"dqcheck-service/service/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.CheckExecution{},
		&models.ApiKey{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	tables := []string{
		"check_executions",
		"api_keys",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// CheckExecutionOption 执行记录选项函数类型
type CheckExecutionOption func(*models.CheckExecution)

// WithMetricName 设置执行记录的指标名
func WithMetricName(name string) CheckExecutionOption {
	return func(e *models.CheckExecution) {
		e.MetricName = name
	}
}

// WithStatus 设置执行记录的状态
func WithStatus(status string) CheckExecutionOption {
	return func(e *models.CheckExecution) {
		e.Status = status
	}
}

// CreateCheckExecution 创建检查执行记录
func (f *TestDataFactory) CreateCheckExecution(opts ...CheckExecutionOption) *models.CheckExecution {
	passed := true
	execution := &models.CheckExecution{
		MetricName:  "row_count",
		Status:      models.CheckStatusSuccess,
		MetricValue: 12,
		Passed:      &passed,
		SourceCount: 2,
		Duration:    5,
	}

	for _, opt := range opts {
		opt(execution)
	}

	if err := f.DB.Create(execution).Error; err != nil {
		panic(fmt.Sprintf("failed to create check execution: %v", err))
	}
	return execution
}

// RecordedPush 网关测试服务器记录的一次推送
type RecordedPush struct {
	Method string
	Path   string
	Body   []byte
}

// GatewayServer 推送网关测试服务器
type GatewayServer struct {
	Server *httptest.Server

	mu     sync.Mutex
	pushes []RecordedPush
}

// NewGatewayServer 创建推送网关测试服务器，记录收到的全部推送请求
func NewGatewayServer() *GatewayServer {
	gs := &GatewayServer{}
	gs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		gs.mu.Lock()
		gs.pushes = append(gs.pushes, RecordedPush{
			Method: r.Method,
			Path:   r.URL.Path,
			Body:   body,
		})
		gs.mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	return gs
}

// Pushes 返回已记录的推送请求
func (gs *GatewayServer) Pushes() []RecordedPush {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	out := make([]RecordedPush, len(gs.pushes))
	copy(out, gs.pushes)
	return out
}

// Close 关闭测试服务器
func (gs *GatewayServer) Close() {
	gs.Server.Close()
}
