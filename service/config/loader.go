/*
 * @module service/config/loader
 * @description 检查配置加载器，负责连接定义、检查定义和查询模板文件的读取与解析
 * @architecture 分层架构 - 配置层
 * @stateFlow 应用启动 -> 读取配置目录 -> 解析YAML/SQL -> 提供只读配置
 * @rules 源的遍历顺序必须保持YAML文档中的书写顺序；配置解析失败阻止启动
 * @dependencies gopkg.in/yaml.v3
 * @refs service/checker/checker.go, service/init.go
 */

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// 配置目录内的固定文件名
const (
	ConnectionsFileName = "connections.yml"
	ChecksFileName      = "checks.yml"
	MetricsFileName     = "metrics_description.yml"
	queryFileName       = "metric.sql"
	metricsDirName      = "metrics"
)

// ConnectionParams 命名数据库连接参数
type ConnectionParams struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// Source 单个查询目标：命名连接引用加上一组查询模板属性
type Source struct {
	Name       string
	Attributes map[string]string
}

// CheckConfig 单个检查的配置：全局属性、有序的源列表和可选的调度表达式
type CheckConfig struct {
	Schedule   string
	Attributes map[string]string
	Sources    []Source
}

// UnmarshalYAML 自定义解码，保持 sources 映射的文档书写顺序
func (c *CheckConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("检查配置必须是映射结构")
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		switch keyNode.Value {
		case "schedule":
			if err := valueNode.Decode(&c.Schedule); err != nil {
				return fmt.Errorf("解析 schedule 失败: %w", err)
			}
		case "attributes":
			if err := valueNode.Decode(&c.Attributes); err != nil {
				return fmt.Errorf("解析 attributes 失败: %w", err)
			}
		case "sources":
			sources, err := decodeOrderedSources(valueNode)
			if err != nil {
				return err
			}
			c.Sources = sources
		default:
			return fmt.Errorf("检查配置包含未知字段: %s", keyNode.Value)
		}
	}

	return nil
}

// decodeOrderedSources 将 sources 映射按文档顺序解码成切片
func decodeOrderedSources(node *yaml.Node) ([]Source, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("sources 必须是映射结构")
	}

	sources := make([]Source, 0, len(node.Content)/2)
	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		attrs := make(map[string]string)
		if err := valueNode.Decode(&attrs); err != nil {
			return nil, fmt.Errorf("解析源 %s 的属性失败: %w", keyNode.Value, err)
		}

		sources = append(sources, Source{
			Name:       keyNode.Value,
			Attributes: attrs,
		})
	}

	return sources, nil
}

// ChecksFile checks.yml 的顶层结构
type ChecksFile struct {
	Prefix  string                  `yaml:"prefix"`
	Gateway string                  `yaml:"gateway"`
	Checks  map[string]*CheckConfig `yaml:"checks"`
}

// Catalog 加载完成的全部检查配置
type Catalog struct {
	BaseDir     string
	Prefix      string
	Gateway     string
	Checks      map[string]*CheckConfig
	Connections map[string]ConnectionParams
}

// LoadConnections 加载命名连接定义
func LoadConnections(filePath string) (map[string]ConnectionParams, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取连接配置文件失败: %w", err)
	}

	connections := make(map[string]ConnectionParams)
	if err := yaml.Unmarshal(content, &connections); err != nil {
		return nil, fmt.Errorf("解析连接配置文件失败: %w", err)
	}

	return connections, nil
}

// LoadChecksFile 加载检查定义
func LoadChecksFile(filePath string) (*ChecksFile, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取检查配置文件失败: %w", err)
	}

	var checksFile ChecksFile
	if err := yaml.Unmarshal(content, &checksFile); err != nil {
		return nil, fmt.Errorf("解析检查配置文件失败: %w", err)
	}

	if checksFile.Prefix == "" {
		return nil, fmt.Errorf("检查配置缺少 prefix 字段")
	}

	return &checksFile, nil
}

// LoadQueryTemplate 加载指标对应的查询模板
// 模板位于 <baseDir>/metrics/<指标名小写>/metric.sql
func LoadQueryTemplate(baseDir, metricName string) (string, error) {
	filePath := filepath.Join(baseDir, metricsDirName, strings.ToLower(metricName), queryFileName)
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("读取查询模板文件失败: %w", err)
	}
	return string(content), nil
}

// Load 加载配置目录下的全部检查配置
func Load(baseDir string) (*Catalog, error) {
	connections, err := LoadConnections(filepath.Join(baseDir, ConnectionsFileName))
	if err != nil {
		return nil, err
	}

	checksFile, err := LoadChecksFile(filepath.Join(baseDir, ChecksFileName))
	if err != nil {
		return nil, err
	}

	return &Catalog{
		BaseDir:     baseDir,
		Prefix:      checksFile.Prefix,
		Gateway:     checksFile.Gateway,
		Checks:      checksFile.Checks,
		Connections: connections,
	}, nil
}
