/*
 * @module service/database/migrate
 * @description 数据库表结构迁移，负责检查执行记录和API密钥表的自动迁移
 * @architecture 分层架构 - 数据访问层
 * @stateFlow 应用启动 -> 自动迁移 -> 提供服务
 * @rules 迁移失败阻止服务启动
 * @dependencies gorm.io/gorm
 * @refs service/init.go, service/models
 */

package database

import (
	"fmt"

	"dqcheck-service/service/models"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移所有模型
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.CheckExecution{},
		&models.ApiKey{},
	); err != nil {
		return fmt.Errorf("表结构迁移失败: %w", err)
	}
	return nil
}
