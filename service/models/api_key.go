/*
 * @module service/models/api_key
 * @description API密钥模型定义，密钥值仅保存bcrypt哈希
 * @architecture 分层架构 - 数据模型层
 * @stateFlow 密钥创建 -> 哈希存储 -> 请求校验 -> 过期/禁用
 * @rules 明文密钥只在创建时返回一次，库中不落明文
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/auth/apikey_service.go, api/middleware/apikey_auth.go
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApiKey API访问密钥
type ApiKey struct {
	ID           string     `gorm:"type:uuid;primary_key" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	KeyPrefix    string     `gorm:"not null;index" json:"key_prefix"` // 密钥前8位，用于快速定位
	KeyValueHash string     `gorm:"not null" json:"-"`
	IsEnabled    bool       `gorm:"not null;default:true" json:"is_enabled"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (ApiKey) TableName() string {
	return "api_keys"
}

// BeforeCreate 创建前钩子
func (k *ApiKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.New().String()
	}
	return nil
}

// IsValid 密钥当前是否可用
func (k *ApiKey) IsValid() bool {
	if !k.IsEnabled {
		return false
	}
	if k.ExpiresAt != nil && time.Now().After(*k.ExpiresAt) {
		return false
	}
	return true
}
