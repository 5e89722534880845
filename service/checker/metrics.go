/*
 * @module service/checker/metrics
 * @description 检查器自身的本地指标，通过 /metrics 端点暴露检查运行统计
 * @architecture 可观测层
 * @stateFlow 检查执行 -> 更新本地指标 -> Prometheus 抓取
 * @rules 本地指标与网关推送相互独立，网关未配置时本地指标仍然更新
 * @dependencies github.com/prometheus/client_golang
 * @refs main.go, service/checker/checker.go
 */

package checker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dq_check_runs_total",
		Help: "质量检查运行总次数",
	}, []string{"metric", "status"})

	checkValueGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dq_check_value",
		Help: "最近一次质量检查的指标值",
	}, []string{"metric"})

	checkPassedGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dq_check_passed",
		Help: "最近一次质量检查是否通过(1通过/0未通过)",
	}, []string{"metric"})

	checkDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dq_check_duration_seconds",
		Help:    "质量检查执行耗时",
		Buckets: prometheus.DefBuckets,
	}, []string{"metric"})
)
