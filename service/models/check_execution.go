/*
 * @module service/models/check_execution
 * @description 质量检查执行记录模型定义，保存每次检查的指标值、比较结果和错误信息
 * @architecture 分层架构 - 数据模型层
 * @stateFlow 检查执行 -> 记录写入 -> 历史查询
 * @rules 执行记录只增不改，作为质量检查的审计历史
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/checker/checker.go, api/controllers/check_controller.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 检查执行状态
const (
	CheckStatusSuccess = "success"
	CheckStatusFailed  = "failed"
)

// CheckExecution 质量检查执行记录
type CheckExecution struct {
	ID           string         `gorm:"type:uuid;primary_key" json:"id"`
	MetricName   string         `gorm:"not null;index" json:"metric_name"`
	Status       string         `gorm:"not null" json:"status"` // success/failed
	MetricValue  float64        `json:"metric_value"`
	Passed       *bool          `json:"passed,omitempty"`
	Attributes   JSONBStringMap `gorm:"type:jsonb" json:"attributes"`
	SourceCount  int            `json:"source_count"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Duration     int64          `json:"duration_ms"` // 毫秒
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// TableName 指定表名
func (CheckExecution) TableName() string {
	return "check_executions"
}

// BeforeCreate 创建前钩子
func (e *CheckExecution) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
