/*
 * @module api/controllers/check_controller
 * @description 质量检查控制器，提供检查的手动触发、配置查询和执行历史分页查询
 * @architecture 分层架构 - 控制器层
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式
 * @dependencies dqcheck-service/service/checker, github.com/go-chi/chi/v5
 * @refs service/checker/service.go, service/models/check_execution.go
 */

package controllers

import (
	"net/http"
	"strconv"

	"dqcheck-service/service/checker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// CheckController 质量检查控制器
type CheckController struct {
	checkService *checker.Service
}

// NewCheckController 创建质量检查控制器实例
func NewCheckController(checkService *checker.Service) *CheckController {
	return &CheckController{
		checkService: checkService,
	}
}

// RunCheckRequest 手动触发检查的请求体，属性覆盖配置中的全局属性
type RunCheckRequest struct {
	Attributes map[string]string `json:"attributes,omitempty"`
}

// ListChecks 获取已配置的检查列表
// @Summary 获取检查列表
// @Description 列出全部已配置的质量检查及其动作、比较器和调度信息
// @Tags 质量检查
// @Produce json
// @Success 200 {object} APIResponse{data=[]checker.CheckSummary} "查询成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /checks [get]
func (c *CheckController) ListChecks(w http.ResponseWriter, r *http.Request) {
	summaries, err := c.checkService.ListChecks()
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("查询检查列表失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("查询检查列表成功", summaries))
}

// RunCheck 手动触发一次检查
// @Summary 触发质量检查
// @Description 立即执行一次指定指标的质量检查，请求体中的属性覆盖配置属性
// @Tags 质量检查
// @Accept json
// @Produce json
// @Param metric path string true "指标名"
// @Param request body RunCheckRequest false "属性覆盖"
// @Success 200 {object} APIResponse{data=checker.CheckResult} "检查完成"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 404 {object} APIResponse "检查不存在"
// @Failure 500 {object} APIResponse "检查执行失败"
// @Router /checks/{metric}/run [post]
func (c *CheckController) RunCheck(w http.ResponseWriter, r *http.Request) {
	metricName := chi.URLParam(r, "metric")
	if metricName == "" {
		render.JSON(w, r, BadRequestResponse("指标名不能为空", nil))
		return
	}

	var req RunCheckRequest
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
			return
		}
	}

	if _, exists := c.checkService.Catalog().Checks[metricName]; !exists {
		render.JSON(w, r, NotFoundResponse("检查不存在", nil))
		return
	}

	result, err := c.checkService.RunCheck(r.Context(), metricName, req.Attributes)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("检查执行失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("检查执行完成", result))
}

// ListExecutions 分页查询检查执行历史
// @Summary 查询执行历史
// @Description 分页查询检查执行历史，可按指标名筛选
// @Tags 质量检查
// @Produce json
// @Param metric query string false "指标名筛选"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse "查询成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /checks/executions [get]
func (c *CheckController) ListExecutions(w http.ResponseWriter, r *http.Request) {
	metricName := r.URL.Query().Get("metric")

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size < 1 {
		size = 10
	}

	executions, total, err := c.checkService.ListExecutions(metricName, page, size)
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("查询执行历史失败", err))
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: 0,
		Msg:    "查询执行历史成功",
		Data:   executions,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}
