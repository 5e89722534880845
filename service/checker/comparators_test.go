/*
 * @module service/checker/comparators_test
 * @description 比较器注册中心与内置比较器单元测试，不依赖数据库
 * @architecture 单元测试 - 测试名称解析和阈值评估语义
 * @stateFlow 准备属性和指标值 -> 执行比较器 -> 验证通过与否
 * @rules 覆盖阈值属性缺失、非数值属性和边界值等情况
 * @dependencies testing
 * @refs comparators.go
 */

package checker

import "testing"

func TestLookupComparator(t *testing.T) {
	tests := []struct {
		name           string
		comparatorName string
		expectError    bool
	}{
		{name: "builtin greater_than", comparatorName: "greater_than", expectError: false},
		{name: "builtin less_than", comparatorName: "less_than", expectError: false},
		{name: "builtin equals", comparatorName: "equals", expectError: false},
		{name: "builtin within_range", comparatorName: "within_range", expectError: false},
		{name: "unknown comparator", comparatorName: "no_such_comparator", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := LookupComparator(tt.comparatorName)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if fn == nil {
				t.Errorf("expected non-nil comparator function")
			}
		})
	}
}

func TestRegisterComparator_Duplicate(t *testing.T) {
	name := "test_duplicate_comparator"
	fn := func(attrs map[string]string, metric float64) (bool, error) { return true, nil }

	if err := RegisterComparator(name, fn); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := RegisterComparator(name, fn); err == nil {
		t.Errorf("expected error on duplicate registration")
	}
}

func TestMustRegisterComparator_DuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on duplicate builtin name")
		}
	}()

	mustRegisterComparator("greater_than", greaterThan)
}

func TestGreaterThan(t *testing.T) {
	tests := []struct {
		name        string
		attrs       map[string]string
		metric      float64
		expected    bool
		expectError bool
	}{
		{
			name:     "above threshold",
			attrs:    map[string]string{"threshold": "10"},
			metric:   12,
			expected: true,
		},
		{
			name:     "equal to threshold is not greater",
			attrs:    map[string]string{"threshold": "10"},
			metric:   10,
			expected: false,
		},
		{
			name:     "below threshold",
			attrs:    map[string]string{"threshold": "10"},
			metric:   9.5,
			expected: false,
		},
		{
			name:        "missing threshold",
			attrs:       map[string]string{},
			metric:      12,
			expectError: true,
		},
		{
			name:        "non numeric threshold",
			attrs:       map[string]string{"threshold": "ten"},
			metric:      12,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed, err := greaterThan(tt.attrs, tt.metric)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if passed != tt.expected {
				t.Errorf("expected passed=%v, got %v", tt.expected, passed)
			}
		})
	}
}

func TestLessThan(t *testing.T) {
	tests := []struct {
		name     string
		attrs    map[string]string
		metric   float64
		expected bool
	}{
		{name: "below threshold", attrs: map[string]string{"threshold": "0.05"}, metric: 0.01, expected: true},
		{name: "equal to threshold is not less", attrs: map[string]string{"threshold": "0.05"}, metric: 0.05, expected: false},
		{name: "above threshold", attrs: map[string]string{"threshold": "0.05"}, metric: 0.2, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed, err := lessThan(tt.attrs, tt.metric)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if passed != tt.expected {
				t.Errorf("expected passed=%v, got %v", tt.expected, passed)
			}
		})
	}
}

func TestEquals(t *testing.T) {
	tests := []struct {
		name        string
		attrs       map[string]string
		metric      float64
		expected    bool
		expectError bool
	}{
		{
			name:     "exact match",
			attrs:    map[string]string{"expected": "0"},
			metric:   0,
			expected: true,
		},
		{
			name:     "mismatch without tolerance",
			attrs:    map[string]string{"expected": "0"},
			metric:   1,
			expected: false,
		},
		{
			name:     "within tolerance",
			attrs:    map[string]string{"expected": "100", "tolerance": "5"},
			metric:   103,
			expected: true,
		},
		{
			name:     "outside tolerance",
			attrs:    map[string]string{"expected": "100", "tolerance": "5"},
			metric:   106,
			expected: false,
		},
		{
			name:        "missing expected",
			attrs:       map[string]string{"tolerance": "5"},
			metric:      100,
			expectError: true,
		},
		{
			name:        "non numeric tolerance",
			attrs:       map[string]string{"expected": "100", "tolerance": "loose"},
			metric:      100,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed, err := equals(tt.attrs, tt.metric)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if passed != tt.expected {
				t.Errorf("expected passed=%v, got %v", tt.expected, passed)
			}
		})
	}
}

func TestWithinRange(t *testing.T) {
	attrs := map[string]string{"min": "10", "max": "20"}

	tests := []struct {
		name     string
		metric   float64
		expected bool
	}{
		{name: "inside range", metric: 15, expected: true},
		{name: "lower bound inclusive", metric: 10, expected: true},
		{name: "upper bound inclusive", metric: 20, expected: true},
		{name: "below range", metric: 9.9, expected: false},
		{name: "above range", metric: 20.1, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed, err := withinRange(attrs, tt.metric)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if passed != tt.expected {
				t.Errorf("expected passed=%v, got %v", tt.expected, passed)
			}
		})
	}

	t.Run("missing bounds", func(t *testing.T) {
		if _, err := withinRange(map[string]string{"min": "10"}, 15); err == nil {
			t.Errorf("expected error when max is missing")
		}
	})
}
