/*
 * @module service/checker/checker
 * @description 质量检查器，编排单次检查的完整流程：逐源查询、动作归约、网关推送、比较器评估
 * @architecture 分层架构 - 业务服务层
 * @stateFlow 解析指标定义 -> 逐源渲染并执行查询 -> 动作归约指标值 -> 可选网关推送 -> 比较器评估 -> 记录结果
 * @rules 单线程顺序执行，任一环节失败立即终止本次检查，不做重试和部分成功处理
 * @dependencies gorm.io/gorm, dqcheck-service/monitor_client
 * @refs service/checker/actions.go, service/checker/comparators.go, service/config/loader.go
 */

package checker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dqcheck-service/monitor_client"
	"dqcheck-service/service/config"
	"dqcheck-service/service/meta"
	"dqcheck-service/service/models"

	"gorm.io/gorm"
)

// CheckerOptions 检查器构造参数
type CheckerOptions struct {
	MetricName    string
	Prefix        string
	Attributes    map[string]string
	Sources       []config.Source
	Connections   map[string]config.ConnectionParams
	Gateway       string
	QueryTemplate string
	Logger        *slog.Logger
	DB            *gorm.DB
}

// Checker 质量检查器，每次检查调用都应使用新构造的实例
type Checker struct {
	metricName    string
	prefix        string
	attributes    map[string]string
	sources       []config.Source
	connections   map[string]config.ConnectionParams
	gateway       string
	queryTemplate string
	definition    *meta.MetricDefinition
	logger        *slog.Logger
	db            *gorm.DB
	fetchFn       func(ctx context.Context, params config.ConnectionParams, query string) (ResultSet, error)
}

// CheckResult 单次检查的结果
type CheckResult struct {
	MetricName      string        `json:"metric_name"`
	MetricValue     float64       `json:"metric_value"`
	Passed          bool          `json:"passed"`
	SourceRowCounts []int         `json:"source_row_counts"`
	Duration        time.Duration `json:"duration"`
}

// NewChecker 创建质量检查器，在构造阶段解析指标定义
// 未指定网关地址时回退到 PUSH_GATEWAY_URL 环境变量配置的地址
func NewChecker(opts CheckerOptions) (*Checker, error) {
	if opts.MetricName == "" {
		return nil, fmt.Errorf("指标名不能为空")
	}

	definition, err := meta.GetMetricDefinition(opts.MetricName)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gateway := opts.Gateway
	if gateway == "" {
		gateway = monitor_client.GetGatewayUrl()
	}

	return &Checker{
		metricName:    opts.MetricName,
		prefix:        strings.ToLower(opts.Prefix),
		attributes:    opts.Attributes,
		sources:       opts.Sources,
		connections:   opts.Connections,
		gateway:       gateway,
		queryTemplate: opts.QueryTemplate,
		definition:    definition,
		logger:        logger,
		db:            opts.DB,
		fetchFn:       fetchAll,
	}, nil
}

// MergeAttributes 合并两组属性，override 中的键覆盖 base 中的同名键
func MergeAttributes(base, override map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

// Check 执行一次完整的质量检查
func (c *Checker) Check(ctx context.Context) (*CheckResult, error) {
	startTime := time.Now()

	c.logger.Info("开始质量检查",
		"metric", c.metricName,
		"gateway_metric", c.gatewayMetricName(),
		"source_count", len(c.sources),
		"attributes", c.attributes)

	// 逐源查询，结果集顺序与源配置顺序一致
	resultSets := make([]ResultSet, 0, len(c.sources))
	rowCounts := make([]int, 0, len(c.sources))
	for _, source := range c.sources {
		resultSet, err := c.querySource(ctx, source)
		if err != nil {
			c.recordFailure(startTime, err)
			return nil, err
		}
		resultSets = append(resultSets, resultSet)
		rowCounts = append(rowCounts, len(resultSet))
	}

	// 动作归约
	action, err := LookupAction(c.definition.Action)
	if err != nil {
		c.recordFailure(startTime, err)
		return nil, err
	}

	metricValue, err := action(resultSets)
	if err != nil {
		err = fmt.Errorf("动作 %s 执行失败: %w", c.definition.Action, err)
		c.recordFailure(startTime, err)
		return nil, err
	}
	c.logger.Info("指标值计算完成", "metric", c.metricName, "value", metricValue)

	// 网关推送，未配置网关时跳过，推送失败终止本次检查
	if c.gateway != "" {
		if err := c.pushMetric(ctx, metricValue); err != nil {
			c.recordFailure(startTime, err)
			return nil, err
		}
	}

	// 比较器评估，输入为全局属性加指标值
	comparator, err := LookupComparator(c.definition.Comparator)
	if err != nil {
		c.recordFailure(startTime, err)
		return nil, err
	}

	passed, err := comparator(c.attributes, metricValue)
	if err != nil {
		err = fmt.Errorf("比较器 %s 执行失败: %w", c.definition.Comparator, err)
		c.recordFailure(startTime, err)
		return nil, err
	}

	c.logger.Info("比较结果",
		"metric", c.metricName,
		"comparator", c.definition.Comparator,
		"value", metricValue,
		"passed", passed)
	// TODO: 比较结果未通过时接入告警通道

	result := &CheckResult{
		MetricName:      c.metricName,
		MetricValue:     metricValue,
		Passed:          passed,
		SourceRowCounts: rowCounts,
		Duration:        time.Since(startTime),
	}

	// 执行记录写入失败视为本次检查失败，不计入成功指标
	if err := c.saveExecution(result); err != nil {
		checkRunsTotal.WithLabelValues(c.metricName, models.CheckStatusFailed).Inc()
		return nil, err
	}

	checkRunsTotal.WithLabelValues(c.metricName, models.CheckStatusSuccess).Inc()
	checkValueGauge.WithLabelValues(c.metricName).Set(metricValue)
	if passed {
		checkPassedGauge.WithLabelValues(c.metricName).Set(1)
	} else {
		checkPassedGauge.WithLabelValues(c.metricName).Set(0)
	}
	checkDuration.WithLabelValues(c.metricName).Observe(result.Duration.Seconds())

	return result, nil
}

// querySource 对单个源渲染模板并执行查询
func (c *Checker) querySource(ctx context.Context, source config.Source) (ResultSet, error) {
	// 全局属性与源属性合并，源属性优先
	attrs := MergeAttributes(c.attributes, source.Attributes)

	query, err := RenderTemplate(c.queryTemplate, attrs)
	if err != nil {
		return nil, fmt.Errorf("渲染源 %s 的查询模板失败: %w", source.Name, err)
	}
	c.logger.Debug("渲染查询完成", "metric", c.metricName, "source", source.Name, "query", query)

	connName, exists := attrs[meta.SourceAttributeConnection]
	if !exists || connName == "" {
		return nil, fmt.Errorf("源 %s 未指定 %s 属性", source.Name, meta.SourceAttributeConnection)
	}

	connParams, exists := c.connections[connName]
	if !exists {
		return nil, fmt.Errorf("源 %s 引用的连接 %s 不存在", source.Name, connName)
	}

	resultSet, err := c.fetchFn(ctx, connParams, query)
	if err != nil {
		return nil, fmt.Errorf("查询源 %s 失败: %w", source.Name, err)
	}

	return resultSet, nil
}

// pushMetric 将指标值作为gauge推送到监控网关
func (c *Checker) pushMetric(ctx context.Context, value float64) error {
	err := monitor_client.PushMetric(ctx, c.gateway, c.prefix, c.gatewayMetricName(), c.definition.Documentation, value)
	if err != nil {
		return fmt.Errorf("推送指标 %s 到网关失败: %w", c.gatewayMetricName(), err)
	}

	c.logger.Info("指标已推送到网关",
		"metric", c.gatewayMetricName(),
		"value", value,
		"job", c.prefix,
		"gateway", c.gateway)
	return nil
}

// gatewayMetricName 推送到网关的指标名，统一小写
func (c *Checker) gatewayMetricName() string {
	return strings.ToLower(c.metricName)
}

// recordFailure 记录失败的检查执行
func (c *Checker) recordFailure(startTime time.Time, runErr error) {
	checkRunsTotal.WithLabelValues(c.metricName, models.CheckStatusFailed).Inc()

	if c.db == nil {
		return
	}

	execution := &models.CheckExecution{
		MetricName:   c.metricName,
		Status:       models.CheckStatusFailed,
		Attributes:   models.JSONBStringMap(c.attributes),
		SourceCount:  len(c.sources),
		ErrorMessage: runErr.Error(),
		Duration:     time.Since(startTime).Milliseconds(),
	}

	// 失败记录尽力写入，不覆盖检查本身的错误
	if err := c.db.Create(execution).Error; err != nil {
		c.logger.Error("保存失败执行记录失败", "metric", c.metricName, "error", err)
	}
}

// saveExecution 保存成功的检查执行记录
func (c *Checker) saveExecution(result *CheckResult) error {
	if c.db == nil {
		return nil
	}

	passed := result.Passed
	execution := &models.CheckExecution{
		MetricName:  c.metricName,
		Status:      models.CheckStatusSuccess,
		MetricValue: result.MetricValue,
		Passed:      &passed,
		Attributes:  models.JSONBStringMap(c.attributes),
		SourceCount: len(c.sources),
		Duration:    result.Duration.Milliseconds(),
	}

	if err := c.db.Create(execution).Error; err != nil {
		return fmt.Errorf("保存检查执行记录失败: %w", err)
	}
	return nil
}
