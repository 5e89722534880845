/*
 * @module service/checker/fetch
 * @description 源查询执行，按连接参数建立PostgreSQL连接并取回完整结果集
 * @architecture 数据访问层 - 作用域内获取和释放连接
 * @stateFlow 建立连接 -> 执行查询 -> 读取全部行 -> 关闭连接
 * @rules 每次调用独占一个连接，无论查询成败连接都在返回前释放；不做重试
 * @dependencies database/sql, github.com/lib/pq
 * @refs service/checker/checker.go, service/config/loader.go
 */

package checker

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dqcheck-service/service/config"

	_ "github.com/lib/pq" // PostgreSQL驱动
)

const fetchConnTimeout = 30 * time.Second

// fetchAll 对指定连接执行一条查询并取回全部行
// 行内列值保持查询返回顺序，[]byte 统一转为 string
func fetchAll(ctx context.Context, params config.ConnectionParams, query string) (ResultSet, error) {
	connStr, err := buildConnectionString(params)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("创建数据库连接失败: %w", err)
	}
	defer db.Close()

	// 单查询用途，不维持连接池
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	queryCtx, cancel := context.WithTimeout(ctx, fetchConnTimeout)
	defer cancel()

	rows, err := db.QueryContext(queryCtx, query)
	if err != nil {
		return nil, fmt.Errorf("执行查询失败: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("获取列信息失败: %w", err)
	}

	resultSet := make(ResultSet, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("扫描行数据失败: %w", err)
		}

		row := make(Row, len(columns))
		for i, val := range values {
			if b, ok := val.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = val
			}
		}
		resultSet = append(resultSet, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("读取数据时发生错误: %w", err)
	}

	return resultSet, nil
}

// buildConnectionString 构建连接字符串，所有值按 keyword/value 规则加引号
func buildConnectionString(params config.ConnectionParams) (string, error) {
	var parts []string

	if params.Host == "" {
		return "", fmt.Errorf("主机地址不能为空")
	}
	parts = append(parts, fmt.Sprintf("host=%s", quoteConnValue(params.Host)))

	if params.Port > 0 {
		parts = append(parts, fmt.Sprintf("port=%d", params.Port))
	}

	if params.Database == "" {
		return "", fmt.Errorf("数据库名不能为空")
	}
	parts = append(parts, fmt.Sprintf("dbname=%s", quoteConnValue(params.Database)))

	if params.User == "" {
		return "", fmt.Errorf("用户名不能为空")
	}
	parts = append(parts, fmt.Sprintf("user=%s", quoteConnValue(params.User)))

	if params.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", quoteConnValue(params.Password)))
	}

	if params.SSLMode != "" {
		parts = append(parts, fmt.Sprintf("sslmode=%s", quoteConnValue(params.SSLMode)))
	}

	return strings.Join(parts, " "), nil
}

// quoteConnValue 为连接参数值加单引号，反斜杠和单引号需要转义
// 含空格或特殊字符的密码等值不加引号会破坏连接串
func quoteConnValue(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}
