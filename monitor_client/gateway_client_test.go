package monitor_client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPushMetric(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotBody   []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := PushMetric(context.Background(), server.URL, "sales", "row_count", "各数据源行数统计之和", 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("expected PUT, got %s", gotMethod)
	}
	if gotPath != "/metrics/job/sales" {
		t.Errorf("unexpected push path: %s", gotPath)
	}
	if !bytes.Contains(gotBody, []byte("row_count")) {
		t.Errorf("push body does not contain metric name")
	}
	if !bytes.Contains(gotBody, []byte(InstanceLabel)) {
		t.Errorf("push body does not contain instance label value")
	}
}

func TestPushMetric_Validation(t *testing.T) {
	tests := []struct {
		name    string
		gateway string
		job     string
		metric  string
	}{
		{name: "empty gateway", gateway: "", job: "sales", metric: "row_count"},
		{name: "empty job", gateway: "http://localhost:9091", job: "", metric: "row_count"},
		{name: "invalid metric name", gateway: "http://localhost:9091", job: "sales", metric: "row count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PushMetric(context.Background(), tt.gateway, tt.job, tt.metric, "", 1)
			if err == nil {
				t.Errorf("expected error but got nil")
			}
		})
	}
}

func TestPushMetric_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	err := PushMetric(context.Background(), server.URL, "sales", "row_count", "", 12)
	if err == nil {
		t.Errorf("expected error on gateway failure")
	}
}

func TestSetGatewayUrl(t *testing.T) {
	original := GetGatewayUrl()
	defer SetGatewayUrl(original)

	SetGatewayUrl("http://pushgateway.test:9091")
	if GetGatewayUrl() != "http://pushgateway.test:9091" {
		t.Errorf("unexpected gateway url: %s", GetGatewayUrl())
	}
}
