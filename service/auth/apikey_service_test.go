/*
 * @module service/auth/apikey_service_test
 * @description API密钥服务单元测试，使用内存数据库
 * @architecture 单元测试 - 测试密钥创建、校验和禁用流程
 * @stateFlow 创建密钥 -> 明文校验 -> 禁用/过期失效验证
 * @rules 明文密钥只在创建时可见，落库的只有哈希
 * @dependencies testing, testify, testutil
 * @refs apikey_service.go
 */

package auth

import (
	"strings"
	"testing"
	"time"

	"dqcheck-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiKeyService_CreateAndValidate(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	service := NewApiKeyService(tdb.DB)

	keyValue, apiKey, err := service.CreateApiKey("scheduler", nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(keyValue, "dqk_"))
	assert.Equal(t, keyValue[:8], apiKey.KeyPrefix)
	// 落库的是哈希，不是明文
	assert.NotEqual(t, keyValue, apiKey.KeyValueHash)
	assert.True(t, apiKey.IsEnabled)

	validated, err := service.ValidateApiKey(keyValue)
	require.NoError(t, err)
	assert.Equal(t, apiKey.ID, validated.ID)
	assert.Equal(t, "scheduler", validated.Name)
}

func TestApiKeyService_CreateApiKey_EmptyName(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	service := NewApiKeyService(tdb.DB)

	_, _, err := service.CreateApiKey("", nil)
	require.Error(t, err)
}

func TestApiKeyService_ValidateApiKey_Invalid(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	service := NewApiKeyService(tdb.DB)

	_, _, err := service.CreateApiKey("scheduler", nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		keyValue string
	}{
		{name: "too short", keyValue: "dqk"},
		{name: "unknown prefix", keyValue: "dqk_00000000000000000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateApiKey(tt.keyValue)
			assert.Error(t, err)
		})
	}
}

func TestApiKeyService_DisabledKeyRejected(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	service := NewApiKeyService(tdb.DB)

	keyValue, apiKey, err := service.CreateApiKey("ops", nil)
	require.NoError(t, err)

	require.NoError(t, service.DisableApiKey(apiKey.ID))

	_, err = service.ValidateApiKey(keyValue)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "禁用")
}

func TestApiKeyService_ExpiredKeyRejected(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	service := NewApiKeyService(tdb.DB)

	expired := time.Now().Add(-time.Hour)
	keyValue, _, err := service.CreateApiKey("temporary", &expired)
	require.NoError(t, err)

	_, err = service.ValidateApiKey(keyValue)
	require.Error(t, err)
}

func TestApiKeyService_DisableApiKey_NotFound(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	service := NewApiKeyService(tdb.DB)

	err := service.DisableApiKey("missing-id")
	require.Error(t, err)
}

func TestApiKeyService_ListApiKeys(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	service := NewApiKeyService(tdb.DB)

	_, _, err := service.CreateApiKey("first", nil)
	require.NoError(t, err)
	_, _, err = service.CreateApiKey("second", nil)
	require.NoError(t, err)

	keys, err := service.ListApiKeys()
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}
