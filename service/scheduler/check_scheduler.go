/*
 * @module service/scheduler/check_scheduler
 * @description 质量检查调度器，按配置的cron表达式定时触发检查执行
 * @architecture 分层架构 - 服务层
 * @stateFlow 启动调度器 -> 注册检查任务 -> 定时触发 -> 执行检查
 * @rules 调度器只负责触发，单次检查内部仍然是顺序执行；支持分布式锁防止多实例重复执行
 * @dependencies github.com/robfig/cron/v3, service/distributed_lock
 * @refs service/checker/service.go, service/init.go
 */

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dqcheck-service/service/checker"
	"dqcheck-service/service/distributed_lock"

	"github.com/robfig/cron/v3"
)

// 单次调度执行的锁有效期
const scheduledCheckLockTTL = 10 * time.Minute

// CheckScheduler 质量检查调度器
type CheckScheduler struct {
	service          *checker.Service
	cron             *cron.Cron
	ctx              context.Context
	cancel           context.CancelFunc
	schedulerStarted bool
	distributedLock  distributed_lock.DistributedLock
}

// NewCheckScheduler 创建质量检查调度器
func NewCheckScheduler(service *checker.Service) *CheckScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New(cron.WithSeconds())

	return &CheckScheduler{
		service: service,
		cron:    c,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetDistributedLock 设置分布式锁
func (cs *CheckScheduler) SetDistributedLock(lock distributed_lock.DistributedLock) {
	cs.distributedLock = lock
	if lock != nil {
		slog.Info("质量检查调度器已启用分布式锁")
	}
}

// StartScheduler 启动调度器，注册所有配置了schedule的检查
func (cs *CheckScheduler) StartScheduler() error {
	if cs.schedulerStarted {
		return fmt.Errorf("调度器已经启动")
	}

	slog.Info("启动质量检查调度器")

	registered := 0
	for metricName, checkConfig := range cs.service.Catalog().Checks {
		if checkConfig.Schedule == "" {
			continue
		}

		name := metricName
		if _, err := cs.cron.AddFunc(checkConfig.Schedule, func() {
			cs.runScheduledCheck(name)
		}); err != nil {
			return fmt.Errorf("注册检查 %s 的调度任务失败: %w", metricName, err)
		}

		slog.Info("已注册调度检查", "metric", metricName, "schedule", checkConfig.Schedule)
		registered++
	}

	cs.cron.Start()
	cs.schedulerStarted = true
	slog.Info("质量检查调度器启动完成", "scheduled_checks", registered)

	return nil
}

// StopScheduler 停止调度器
func (cs *CheckScheduler) StopScheduler() {
	if !cs.schedulerStarted {
		return
	}

	cs.cancel()
	stopCtx := cs.cron.Stop()
	<-stopCtx.Done()

	cs.schedulerStarted = false
	slog.Info("质量检查调度器已停止")
}

// runScheduledCheck 执行一次调度触发的检查
func (cs *CheckScheduler) runScheduledCheck(metricName string) {
	ctx, cancel := context.WithTimeout(cs.ctx, scheduledCheckLockTTL)
	defer cancel()

	// 多实例部署时通过分布式锁保证同一检查只在一个实例上运行
	if cs.distributedLock != nil {
		acquired, err := cs.distributedLock.TryLock(ctx, metricName, scheduledCheckLockTTL)
		if err != nil {
			slog.Error("获取调度锁失败", "metric", metricName, "error", err)
			return
		}
		if !acquired {
			slog.Debug("检查已由其他实例执行，跳过", "metric", metricName)
			return
		}
		defer func() {
			if err := cs.distributedLock.Unlock(ctx, metricName); err != nil {
				slog.Error("释放调度锁失败", "metric", metricName, "error", err)
			}
		}()
	}

	result, err := cs.service.RunCheck(ctx, metricName, nil)
	if err != nil {
		slog.Error("调度检查执行失败", "metric", metricName, "error", err)
		return
	}

	slog.Info("调度检查执行完成",
		"metric", metricName,
		"value", result.MetricValue,
		"passed", result.Passed,
		"duration", result.Duration)
}
