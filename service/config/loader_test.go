/*
 * @module service/config/loader_test
 * @description 检查配置加载器单元测试，使用临时目录构造配置文件
 * @architecture 单元测试 - 测试YAML解析和源顺序保持
 * @stateFlow 写入临时配置文件 -> 加载 -> 验证解析结果
 * @rules 重点覆盖 sources 的文档顺序保持和必填字段校验
 * @dependencies testing, testify
 * @refs loader.go
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConnections(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConnectionsFileName), `
primary:
  host: primary-db
  port: 5432
  user: dq
  password: secret
  database: sales
  sslmode: disable
replica:
  host: replica-db
  user: dq
  database: sales
`)

	connections, err := LoadConnections(filepath.Join(dir, ConnectionsFileName))
	require.NoError(t, err)
	require.Len(t, connections, 2)

	assert.Equal(t, "primary-db", connections["primary"].Host)
	assert.Equal(t, 5432, connections["primary"].Port)
	assert.Equal(t, "disable", connections["primary"].SSLMode)
	assert.Equal(t, "replica-db", connections["replica"].Host)
	// 未填写的字段保持零值
	assert.Equal(t, 0, connections["replica"].Port)
}

func TestLoadConnections_MissingFile(t *testing.T) {
	_, err := LoadConnections(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}

func TestLoadChecksFile_SourceOrderPreserved(t *testing.T) {
	dir := t.TempDir()
	// 源按文档书写顺序遍历，字母序故意打乱
	writeFile(t, filepath.Join(dir, ChecksFileName), `
prefix: Sales
gateway: http://pushgateway:9091
checks:
  row_count:
    schedule: "0 0 * * * *"
    attributes:
      table: orders
      threshold: "10"
    sources:
      zulu:
        connection: primary
      alpha:
        connection: replica
        table: orders_replica
      mike:
        connection: primary
`)

	checksFile, err := LoadChecksFile(filepath.Join(dir, ChecksFileName))
	require.NoError(t, err)

	assert.Equal(t, "Sales", checksFile.Prefix)
	assert.Equal(t, "http://pushgateway:9091", checksFile.Gateway)

	check, exists := checksFile.Checks["row_count"]
	require.True(t, exists)
	assert.Equal(t, "0 0 * * * *", check.Schedule)
	assert.Equal(t, "orders", check.Attributes["table"])

	require.Len(t, check.Sources, 3)
	assert.Equal(t, "zulu", check.Sources[0].Name)
	assert.Equal(t, "alpha", check.Sources[1].Name)
	assert.Equal(t, "mike", check.Sources[2].Name)
	assert.Equal(t, "orders_replica", check.Sources[1].Attributes["table"])
}

func TestLoadChecksFile_MissingPrefix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ChecksFileName), `
gateway: http://pushgateway:9091
checks: {}
`)

	_, err := LoadChecksFile(filepath.Join(dir, ChecksFileName))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefix")
}

func TestLoadChecksFile_UnknownField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ChecksFileName), `
prefix: sales
checks:
  row_count:
    schedule: "0 0 * * * *"
    unexpected_field: true
`)

	_, err := LoadChecksFile(filepath.Join(dir, ChecksFileName))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected_field")
}

func TestLoadQueryTemplate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "metrics", "row_count", "metric.sql"),
		"SELECT count(*) FROM {table}\n")

	// 指标名大小写不敏感，目录按小写查找
	template, err := LoadQueryTemplate(dir, "ROW_COUNT")
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM {table}\n", template)
}

func TestLoadQueryTemplate_Missing(t *testing.T) {
	_, err := LoadQueryTemplate(t.TempDir(), "row_count")
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConnectionsFileName), `
primary:
  host: primary-db
  user: dq
  database: sales
`)
	writeFile(t, filepath.Join(dir, ChecksFileName), `
prefix: sales
checks:
  row_count:
    attributes:
      threshold: "10"
    sources:
      main:
        connection: primary
`)

	catalog, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, catalog.BaseDir)
	assert.Equal(t, "sales", catalog.Prefix)
	assert.Empty(t, catalog.Gateway)
	assert.Contains(t, catalog.Checks, "row_count")
	assert.Contains(t, catalog.Connections, "primary")
}
