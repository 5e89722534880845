/*
 * @module service/checker/actions
 * @description 动作注册中心与内置动作实现，动作将各源的查询结果集归约为一个标量指标值
 * @architecture 注册中心模式 - 按名称解析动作函数
 * @stateFlow 启动注册内置动作 -> 检查执行时按名称查找 -> 归约结果集
 * @rules 未注册的动作名返回明确的解析错误；动作接收的结果集顺序与源配置顺序一致
 * @dependencies github.com/spf13/cast
 * @refs service/checker/checker.go, service/meta/metrics.go
 */

package checker

import (
	"fmt"
	"math"
	"sync"

	"dqcheck-service/service/meta"

	"github.com/spf13/cast"
)

// Row 一行查询结果，列值保持查询返回的列顺序
type Row []interface{}

// ResultSet 单个源的完整查询结果，行保持查询返回顺序
type ResultSet []Row

// ActionFunc 动作函数：接收按源配置顺序排列的结果集，返回一个标量指标值
type ActionFunc func(results []ResultSet) (float64, error)

var (
	actionsMu sync.RWMutex
	actions   = map[string]ActionFunc{}
)

func init() {
	mustRegisterAction("sum_counts", sumCounts)
	mustRegisterAction("row_count", rowCount)
	mustRegisterAction("first_value", firstValue)
	mustRegisterAction("diff_counts", diffCounts)
}

// mustRegisterAction 注册内置动作，内置名重复属于编码错误，直接panic
func mustRegisterAction(name string, fn ActionFunc) {
	if err := RegisterAction(name, fn); err != nil {
		panic(err)
	}
}

// RegisterAction 注册动作函数，重名注册返回错误
func RegisterAction(name string, fn ActionFunc) error {
	actionsMu.Lock()
	defer actionsMu.Unlock()

	if _, exists := actions[name]; exists {
		return fmt.Errorf("动作 %s 已经注册", name)
	}
	actions[name] = fn
	return nil
}

// LookupAction 按名称查找动作函数
func LookupAction(name string) (ActionFunc, error) {
	actionsMu.RLock()
	defer actionsMu.RUnlock()

	fn, exists := actions[name]
	if !exists {
		return nil, fmt.Errorf("命名空间 %s 中不存在名称 %s", meta.NamespaceActions, name)
	}
	return fn, nil
}

// ActionNames 返回已注册的动作名列表
func ActionNames() []string {
	actionsMu.RLock()
	defer actionsMu.RUnlock()

	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	return names
}

// sumCounts 对所有源的所有行取首列数值求和
func sumCounts(results []ResultSet) (float64, error) {
	var total float64
	for i, resultSet := range results {
		for _, row := range resultSet {
			value, err := firstColumn(row)
			if err != nil {
				return 0, fmt.Errorf("第 %d 个源的结果集无效: %w", i+1, err)
			}
			total += value
		}
	}
	return total, nil
}

// rowCount 统计所有源返回的总行数
func rowCount(results []ResultSet) (float64, error) {
	var total float64
	for _, resultSet := range results {
		total += float64(len(resultSet))
	}
	return total, nil
}

// firstValue 取第一个源第一行首列的数值
func firstValue(results []ResultSet) (float64, error) {
	if len(results) == 0 || len(results[0]) == 0 {
		return 0, fmt.Errorf("第一个源的结果集为空")
	}
	return firstColumn(results[0][0])
}

// diffCounts 两个源各自求和后取绝对差值，要求恰好两个源
func diffCounts(results []ResultSet) (float64, error) {
	if len(results) != 2 {
		return 0, fmt.Errorf("diff_counts 需要恰好两个源, 实际 %d 个", len(results))
	}

	sums := make([]float64, 2)
	for i, resultSet := range results {
		for _, row := range resultSet {
			value, err := firstColumn(row)
			if err != nil {
				return 0, fmt.Errorf("第 %d 个源的结果集无效: %w", i+1, err)
			}
			sums[i] += value
		}
	}

	return math.Abs(sums[0] - sums[1]), nil
}

// firstColumn 取一行的首列并转换为数值
func firstColumn(row Row) (float64, error) {
	if len(row) == 0 {
		return 0, fmt.Errorf("结果行不包含任何列")
	}

	value, err := cast.ToFloat64E(row[0])
	if err != nil {
		return 0, fmt.Errorf("首列值 %v 不是数值: %w", row[0], err)
	}
	return value, nil
}
