/*
 * @module service/meta/metrics
 * @description 质量指标元数据定义，维护指标名到动作/比较器/文档说明的静态映射
 * @architecture 元数据层
 * @stateFlow 进程启动时加载一次，运行期间只读
 * @rules 指标定义在进程生命周期内不可变，未注册的指标名查找返回明确错误
 * @dependencies gopkg.in/yaml.v3
 * @refs service/checker/checker.go, service/checker/actions.go
 */

package meta

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MetricDefinition 质量指标定义
type MetricDefinition struct {
	Action        string `yaml:"action" json:"action"`
	Comparator    string `yaml:"comparator" json:"comparator"`
	Documentation string `yaml:"prometheus_documentation" json:"prometheus_documentation"`
}

// MetricDefinitions 内置指标定义表，可被 metrics_description.yml 覆盖
var MetricDefinitions = map[string]*MetricDefinition{
	"row_count": {
		Action:        "sum_counts",
		Comparator:    "greater_than",
		Documentation: "各数据源行数统计之和",
	},
	"table_diff": {
		Action:        "diff_counts",
		Comparator:    "less_than",
		Documentation: "两个数据源行数统计的绝对差值",
	},
	"null_ratio": {
		Action:        "first_value",
		Comparator:    "less_than",
		Documentation: "目标字段空值占比",
	},
	"duplicate_count": {
		Action:        "sum_counts",
		Comparator:    "equals",
		Documentation: "主键重复记录数",
	},
}

// GetMetricDefinition 按名称查找指标定义
func GetMetricDefinition(name string) (*MetricDefinition, error) {
	definition, exists := MetricDefinitions[name]
	if !exists {
		return nil, fmt.Errorf("指标定义不存在: %s", name)
	}
	return definition, nil
}

// LoadMetricDefinitions 从 YAML 文件加载指标定义，与内置定义合并（文件优先）
// 仅在启动阶段调用一次，之后指标定义表视为只读
func LoadMetricDefinitions(filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("读取指标定义文件失败: %w", err)
	}

	loaded := make(map[string]*MetricDefinition)
	if err := yaml.Unmarshal(content, &loaded); err != nil {
		return fmt.Errorf("解析指标定义文件失败: %w", err)
	}

	for name, definition := range loaded {
		if definition.Action == "" || definition.Comparator == "" {
			return fmt.Errorf("指标 %s 定义不完整: action 和 comparator 不能为空", name)
		}
		MetricDefinitions[name] = definition
	}

	return nil
}

// MetricNames 返回当前已注册的指标名列表
func MetricNames() []string {
	names := make([]string, 0, len(MetricDefinitions))
	for name := range MetricDefinitions {
		names = append(names, name)
	}
	return names
}
