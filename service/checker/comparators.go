/*
 * @module service/checker/comparators
 * @description 比较器注册中心与内置比较器实现，比较器依据检查属性判断指标值是否通过阈值
 * @architecture 注册中心模式 - 按名称解析比较器函数
 * @stateFlow 启动注册内置比较器 -> 检查执行时按名称查找 -> 评估指标值
 * @rules 未注册的比较器名返回明确的解析错误；阈值属性缺失或非数值时评估失败
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

// ComparatorFunc 比较器函数：接收检查的全局属性和指标值，返回是否通过
type ComparatorFunc func(attrs map[string]string, metric float64) (bool, error)

var (
	comparatorsMu sync.RWMutex
	comparators   = map[string]ComparatorFunc{}
)

func init() {
	mustRegisterComparator("greater_than", greaterThan)
	mustRegisterComparator("less_than", lessThan)
	mustRegisterComparator("equals", equals)
	mustRegisterComparator("within_range", withinRange)
}

// mustRegisterComparator 注册内置比较器，内置名重复属于编码错误，直接panic
func mustRegisterComparator(name string, fn ComparatorFunc) {
	if err := RegisterComparator(name, fn); err != nil {
		panic(err)
	}
}

// RegisterComparator 注册比较器函数，重名注册返回错误
func RegisterComparator(name string, fn ComparatorFunc) error {
	comparatorsMu.Lock()
	defer comparatorsMu.Unlock()

	if _, exists := comparators[name]; exists {
		return fmt.Errorf("比较器 %s 已经注册", name)
	}
	comparators[name] = fn
	return nil
}

// LookupComparator 按名称查找比较器函数
func LookupComparator(name string) (ComparatorFunc, error) {
	comparatorsMu.RLock()
	defer comparatorsMu.RUnlock()

	fn, exists := comparators[name]
	if !exists {
		return nil, fmt.Errorf("命名空间 %s 中不存在名称 %s", meta.NamespaceComparators, name)
	}
	return fn, nil
}

// ComparatorNames 返回已注册的比较器名列表
func ComparatorNames() []string {
	comparatorsMu.RLock()
	defer comparatorsMu.RUnlock()

	names := make([]string, 0, len(comparators))
	for name := range comparators {
		names = append(names, name)
	}
	return names
}

// greaterThan 指标值大于 threshold 属性时通过
func greaterThan(attrs map[string]string, metric float64) (bool, error) {
	threshold, err := requireFloatAttr(attrs, "threshold")
	if err != nil {
		return false, err
	}
	return metric > threshold, nil
}

// lessThan 指标值小于 threshold 属性时通过
func lessThan(attrs map[string]string, metric float64) (bool, error) {
	threshold, err := requireFloatAttr(attrs, "threshold")
	if err != nil {
		return false, err
	}
	return metric < threshold, nil
}

// equals 指标值与 expected 属性相等时通过，可用 tolerance 属性指定允许误差
func equals(attrs map[string]string, metric float64) (bool, error) {
	expected, err := requireFloatAttr(attrs, "expected")
	if err != nil {
		return false, err
	}

	tolerance := 0.0
	if raw, exists := attrs["tolerance"]; exists {
		tolerance, err = cast.ToFloat64E(raw)
		if err != nil {
			return false, fmt.Errorf("属性 tolerance 的值 %s 不是数值: %w", raw, err)
		}
	}

	return math.Abs(metric-expected) <= tolerance, nil
}

// withinRange 指标值落在 [min, max] 闭区间内时通过
func withinRange(attrs map[string]string, metric float64) (bool, error) {
	minValue, err := requireFloatAttr(attrs, "min")
	if err != nil {
		return false, err
	}
	maxValue, err := requireFloatAttr(attrs, "max")
	if err != nil {
		return false, err
	}

	return metric >= minValue && metric <= maxValue, nil
}

// requireFloatAttr 取必填数值属性
func requireFloatAttr(attrs map[string]string, key string) (float64, error) {
	raw, exists := attrs[key]
	if !exists {
		return 0, fmt.Errorf("比较器缺少必要属性: %s", key)
	}

	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, fmt.Errorf("属性 %s 的值 %s 不是数值: %w", key, raw, err)
	}
	return value, nil
}
