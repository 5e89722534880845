/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、检查配置加载和各服务的组装
 * @architecture 分层架构 - 服务层
 * @stateFlow 应用启动时执行初始化流程
 * @rules 数据库和检查配置就绪后才提供API服务
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs api/routes.go, main.go
 */

package service

import (
	"fmt"
	"log"
	"os"

	"dqcheck-service/service/auth"
	"dqcheck-service/service/checker"
	"dqcheck-service/service/config"
	"dqcheck-service/service/database"
	"dqcheck-service/service/distributed_lock"
	"dqcheck-service/service/meta"
	"dqcheck-service/service/scheduler"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB                     *gorm.DB
	GlobalCatalog          *config.Catalog
	GlobalCheckService     *checker.Service
	GlobalSchedulerService *scheduler.CheckScheduler
	GlobalApiKeyService    *auth.ApiKeyService
)

func init() {
	initDatabase()
	runMigrations()
	loadCatalog()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		// 使用分离的环境变量构建连接字符串
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "postgres")
		dbname := getEnvWithDefault("DB_NAME", "postgres")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 运行数据库迁移
func runMigrations() {
	if err := database.AutoMigrate(DB); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
	log.Println("数据库表结构迁移完成")
}

// loadCatalog 加载检查配置目录
func loadCatalog() {
	configDir := getEnvWithDefault("CONFIG_DIR", "./config")

	// 指标定义文件存在时覆盖内置定义
	metricsFile := configDir + "/" + config.MetricsFileName
	if _, err := os.Stat(metricsFile); err == nil {
		if err := meta.LoadMetricDefinitions(metricsFile); err != nil {
			log.Fatalf("指标定义加载失败: %v", err)
		}
	}

	var err error
	GlobalCatalog, err = config.Load(configDir)
	if err != nil {
		log.Fatalf("检查配置加载失败: %v", err)
	}

	log.Printf("检查配置加载完成, 检查数: %d, 连接数: %d",
		len(GlobalCatalog.Checks), len(GlobalCatalog.Connections))
}

// initServices 初始化服务
func initServices() {
	GlobalCheckService = checker.NewService(GlobalCatalog, DB)
	GlobalApiKeyService = auth.NewApiKeyService(DB)

	GlobalSchedulerService = scheduler.NewCheckScheduler(GlobalCheckService)

	// 多实例部署时通过Redis分布式锁防止调度重复执行
	if os.Getenv("ENABLE_DISTRIBUTED_LOCK") == "true" {
		lock, err := distributed_lock.NewRedisLock()
		if err != nil {
			log.Printf("分布式锁初始化失败，调度将不加锁运行: %v", err)
		} else {
			GlobalSchedulerService.SetDistributedLock(lock)
		}
	}

	if err := GlobalSchedulerService.StartScheduler(); err != nil {
		log.Fatalf("检查调度器启动失败: %v", err)
	}
}
