/*
 * @module service/checker/template
 * @description 查询模板渲染，将命名占位符替换为属性值
 * @architecture 工具层
 * @stateFlow 模板读取 -> 占位符替换 -> 生成最终查询
 * @rules 未提供对应属性的占位符导致渲染失败，不允许留空；{{ 和 }} 为字面量转义
 * @dependencies strings
 * @refs service/checker/checker.go, service/config/loader.go
 */

package checker

import (
	"fmt"
	"strings"
)

// RenderTemplate 渲染查询模板
// 模板中的 {name} 被替换为 attrs[name]，值按原样代入不做任何引用处理
func RenderTemplate(template string, attrs map[string]string) (string, error) {
	var builder strings.Builder
	builder.Grow(len(template))

	for i := 0; i < len(template); {
		switch template[i] {
		case '{':
			// {{ 转义为字面量 {
			if i+1 < len(template) && template[i+1] == '{' {
				builder.WriteByte('{')
				i += 2
				continue
			}

			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("查询模板存在未闭合的占位符")
			}

			name := template[i+1 : i+1+end]
			if name == "" {
				return "", fmt.Errorf("查询模板存在空占位符")
			}

			value, exists := attrs[name]
			if !exists {
				return "", fmt.Errorf("查询模板占位符 %s 缺少对应属性", name)
			}

			builder.WriteString(value)
			i += end + 2
		case '}':
			// }} 转义为字面量 }
			if i+1 < len(template) && template[i+1] == '}' {
				builder.WriteByte('}')
				i += 2
				continue
			}
			return "", fmt.Errorf("查询模板存在未配对的 }")
		default:
			builder.WriteByte(template[i])
			i++
		}
	}

	return builder.String(), nil
}
