/*
 * @module service/meta/datasource
 * @description 数据源相关元数据定义，包括源属性保留键和注册命名空间
 * @architecture 元数据层
 * @stateFlow 静态元数据定义
 * @rules 保留键和命名空间在进程生命周期内不可变
 * @dependencies 无
 * @refs service/config/loader.go, service/checker/checker.go
 */

package meta

// 源属性保留键：指定该源使用哪个命名连接
const SourceAttributeConnection = "connection"

// 动作与比较器的固定命名空间，用于解析错误提示
const (
	NamespaceActions     = "actions"
	NamespaceComparators = "comparators"
)
