/*
 * @module service/checker/service
 * @description 检查服务，基于已加载的检查配置按需构造检查器并提供执行历史查询
 * @architecture 分层架构 - 业务服务层
 * @stateFlow 接收检查请求 -> 读取配置 -> 构造检查器 -> 执行 -> 查询历史
 * @rules 每次检查请求构造全新的检查器实例，配置在进程内只读
 * @dependencies gorm.io/gorm
 * @refs service/checker/checker.go, service/config/loader.go, api/controllers/check_controller.go
 */

package checker

import (
	"context"
	"fmt"
	"log/slog"

	"dqcheck-service/service/config"
	"dqcheck-service/service/meta"
	"dqcheck-service/service/models"

	"gorm.io/gorm"
)

// Service 检查服务
type Service struct {
	catalog *config.Catalog
	db      *gorm.DB
	logger  *slog.Logger
}

// CheckSummary 已配置检查的摘要信息
type CheckSummary struct {
	MetricName    string   `json:"metric_name"`
	Action        string   `json:"action"`
	Comparator    string   `json:"comparator"`
	Documentation string   `json:"documentation"`
	Schedule      string   `json:"schedule,omitempty"`
	Sources       []string `json:"sources"`
}

// NewService 创建检查服务实例
func NewService(catalog *config.Catalog, db *gorm.DB) *Service {
	return &Service{
		catalog: catalog,
		db:      db,
		logger:  slog.Default(),
	}
}

// Catalog 返回已加载的检查配置
func (s *Service) Catalog() *config.Catalog {
	return s.catalog
}

// RunCheck 执行一次指定指标的检查
// overrides 中的属性覆盖配置文件中的全局属性，用于手动触发时临时调整阈值等
func (s *Service) RunCheck(ctx context.Context, metricName string, overrides map[string]string) (*CheckResult, error) {
	checkConfig, exists := s.catalog.Checks[metricName]
	if !exists {
		return nil, fmt.Errorf("检查配置不存在: %s", metricName)
	}

	queryTemplate, err := config.LoadQueryTemplate(s.catalog.BaseDir, metricName)
	if err != nil {
		return nil, err
	}

	attrs := checkConfig.Attributes
	if len(overrides) > 0 {
		attrs = MergeAttributes(checkConfig.Attributes, overrides)
	}

	chk, err := NewChecker(CheckerOptions{
		MetricName:    metricName,
		Prefix:        s.catalog.Prefix,
		Attributes:    attrs,
		Sources:       checkConfig.Sources,
		Connections:   s.catalog.Connections,
		Gateway:       s.catalog.Gateway,
		QueryTemplate: queryTemplate,
		Logger:        s.logger,
		DB:            s.db,
	})
	if err != nil {
		return nil, err
	}

	return chk.Check(ctx)
}

// ListChecks 列出全部已配置的检查
func (s *Service) ListChecks() ([]CheckSummary, error) {
	summaries := make([]CheckSummary, 0, len(s.catalog.Checks))
	for metricName, checkConfig := range s.catalog.Checks {
		definition, err := meta.GetMetricDefinition(metricName)
		if err != nil {
			return nil, err
		}

		sourceNames := make([]string, 0, len(checkConfig.Sources))
		for _, source := range checkConfig.Sources {
			sourceNames = append(sourceNames, source.Name)
		}

		summaries = append(summaries, CheckSummary{
			MetricName:    metricName,
			Action:        definition.Action,
			Comparator:    definition.Comparator,
			Documentation: definition.Documentation,
			Schedule:      checkConfig.Schedule,
			Sources:       sourceNames,
		})
	}
	return summaries, nil
}

// ListExecutions 分页查询检查执行历史，metricName 为空时查询全部
func (s *Service) ListExecutions(metricName string, page, size int) ([]models.CheckExecution, int64, error) {
	if s.db == nil {
		return nil, 0, fmt.Errorf("执行历史存储未启用")
	}

	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	query := s.db.Model(&models.CheckExecution{})
	if metricName != "" {
		query = query.Where("metric_name = ?", metricName)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计执行记录失败: %w", err)
	}

	var executions []models.CheckExecution
	if err := query.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&executions).Error; err != nil {
		return nil, 0, fmt.Errorf("查询执行记录失败: %w", err)
	}

	return executions, total, nil
}
