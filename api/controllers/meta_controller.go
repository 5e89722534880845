/*
 * @module api/controllers/meta_controller
 * @description 元数据控制器，提供指标定义、动作和比较器名称的查询
 * @architecture 分层架构 - 控制器层
 * @stateFlow HTTP请求处理流程
 * @rules 元数据只读，仅提供查询接口
 * @dependencies dqcheck-service/service/meta, dqcheck-service/service/checker
 * @refs service/meta/metrics.go, service/checker/actions.go
 */

package controllers

import (
	"net/http"

	"dqcheck-service/service/checker"
	"dqcheck-service/service/meta"

	"github.com/go-chi/render"
)

// MetaController 元数据控制器
type MetaController struct{}

// NewMetaController 创建元数据控制器实例
func NewMetaController() *MetaController {
	return &MetaController{}
}

// GetMetricDefinitions 获取指标定义表
// @Summary 获取指标定义
// @Description 获取全部已注册的指标定义
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse "查询成功"
// @Router /meta/metrics [get]
func (c *MetaController) GetMetricDefinitions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse("查询指标定义成功", meta.MetricDefinitions))
}

// GetActions 获取已注册的动作名列表
// @Summary 获取动作列表
// @Description 获取动作命名空间中全部已注册的名称
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]string} "查询成功"
// @Router /meta/actions [get]
func (c *MetaController) GetActions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse("查询动作列表成功", checker.ActionNames()))
}

// GetComparators 获取已注册的比较器名列表
// @Summary 获取比较器列表
// @Description 获取比较器命名空间中全部已注册的名称
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]string} "查询成功"
// @Router /meta/comparators [get]
func (c *MetaController) GetComparators(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse("查询比较器列表成功", checker.ComparatorNames()))
}
