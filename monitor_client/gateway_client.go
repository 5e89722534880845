package monitor_client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/common/model"
)

// 推送网关推送的gauge固定携带的实例标签
const InstanceLabel = "dq"

var GatewayUrl = ""
var client = &http.Client{
	Timeout: 30 * time.Second,
}

func init() {
	if envUrl := os.Getenv("PUSH_GATEWAY_URL"); envUrl != "" {
		GatewayUrl = envUrl
	}
}

// SetGatewayUrl 设置推送网关的 URL（用于测试）
func SetGatewayUrl(url string) {
	GatewayUrl = url
}

// GetGatewayUrl 获取当前推送网关的 URL
func GetGatewayUrl() string {
	return GatewayUrl
}

// PushMetric 向推送网关推送一个gauge指标
// 指标以 instance=dq 标签标注，归属在 job 任务名下；推送失败返回错误不吞掉
func PushMetric(ctx context.Context, gateway, job, name, help string, value float64) error {
	if gateway == "" {
		return errors.New("推送网关地址不能为空")
	}
	if job == "" {
		return errors.New("任务名不能为空")
	}
	if !model.IsValidMetricName(model.LabelValue(name)) {
		return fmt.Errorf("非法的指标名: %s", name)
	}

	registry := prometheus.NewRegistry()
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}, []string{"instance"})

	if err := registry.Register(gauge); err != nil {
		return fmt.Errorf("注册指标失败: %w", err)
	}
	gauge.WithLabelValues(InstanceLabel).Set(value)

	pusher := push.New(gateway, job).
		Gatherer(registry).
		Client(client)

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("推送指标到网关失败: %w", err)
	}

	return nil
}
