/*
 * @module service/auth/apikey_service
 * @description API密钥服务，提供密钥的创建、校验和禁用，密钥值仅以bcrypt哈希落库
 * @architecture 分层架构 - 业务服务层
 * @stateFlow 密钥创建 -> 明文一次性返回 -> 请求按前缀定位并比对哈希 -> 过期/禁用失效
 * @rules 明文密钥只在创建时返回一次，校验按前缀缩小候选范围后逐一比对
 * @dependencies gorm.io/gorm, golang.org/x/crypto/bcrypt, github.com/google/uuid
 * @refs service/models/api_key.go, api/middleware/apikey_auth.go
 */

package auth

import (
	"fmt"
	"strings"
	"time"

	"dqcheck-service/service/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 密钥前缀长度，用于快速定位候选密钥
const keyPrefixLength = 8

// ApiKeyService API密钥服务
type ApiKeyService struct {
	db *gorm.DB
}

// NewApiKeyService 创建API密钥服务实例
func NewApiKeyService(db *gorm.DB) *ApiKeyService {
	return &ApiKeyService{db: db}
}

// CreateApiKey 创建API密钥，返回的明文密钥只此一次，之后无法再取回
func (s *ApiKeyService) CreateApiKey(name string, expiresAt *time.Time) (string, *models.ApiKey, error) {
	if name == "" {
		return "", nil, fmt.Errorf("密钥名称不能为空")
	}

	keyValue := "dqk_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	hashedKey, err := bcrypt.GenerateFromPassword([]byte(keyValue), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("密钥哈希失败: %w", err)
	}

	apiKey := &models.ApiKey{
		Name:         name,
		KeyPrefix:    keyValue[:keyPrefixLength],
		KeyValueHash: string(hashedKey),
		IsEnabled:    true,
		ExpiresAt:    expiresAt,
	}

	if err := s.db.Create(apiKey).Error; err != nil {
		return "", nil, fmt.Errorf("保存API密钥失败: %w", err)
	}

	return keyValue, apiKey, nil
}

// ValidateApiKey 校验API密钥，返回命中的密钥记录
func (s *ApiKeyService) ValidateApiKey(keyValue string) (*models.ApiKey, error) {
	if len(keyValue) < keyPrefixLength {
		return nil, fmt.Errorf("API密钥格式无效")
	}

	// 按前缀定位候选密钥，避免全表bcrypt比对
	var candidates []models.ApiKey
	if err := s.db.Where("key_prefix = ?", keyValue[:keyPrefixLength]).Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("查询API密钥失败: %w", err)
	}

	for i := range candidates {
		key := &candidates[i]
		if err := bcrypt.CompareHashAndPassword([]byte(key.KeyValueHash), []byte(keyValue)); err == nil {
			if !key.IsValid() {
				return nil, fmt.Errorf("API密钥已禁用或过期")
			}
			return key, nil
		}
	}

	return nil, fmt.Errorf("API密钥无效")
}

// DisableApiKey 禁用API密钥
func (s *ApiKeyService) DisableApiKey(id string) error {
	result := s.db.Model(&models.ApiKey{}).Where("id = ?", id).Update("is_enabled", false)
	if result.Error != nil {
		return fmt.Errorf("禁用API密钥失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("API密钥不存在: %s", id)
	}
	return nil
}

// ListApiKeys 列出全部API密钥
func (s *ApiKeyService) ListApiKeys() ([]models.ApiKey, error) {
	var keys []models.ApiKey
	if err := s.db.Order("created_at DESC").Find(&keys).Error; err != nil {
		return nil, fmt.Errorf("查询API密钥列表失败: %w", err)
	}
	return keys, nil
}
