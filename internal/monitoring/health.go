// Package monitoring serves the operational HTTP surface: liveness, a
// detailed status report and the Prometheus scrape endpoint.
package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/23skdu/arbalest/internal/logger"
	"github.com/23skdu/arbalest/internal/metrics"
	"github.com/23skdu/arbalest/internal/ov"
)

var log = logger.Component("monitoring")

// HealthStatus is the JSON body served on /status.
type HealthStatus struct {
	Status    string        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Uptime    time.Duration `json:"uptime"`
	System    SystemInfo    `json:"system"`
	Engine    EngineInfo    `json:"engine"`
}

// SystemInfo reports process-level figures.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Arch         string `json:"arch"`
	NumCPU       int    `json:"num_cpu"`
	MemoryMB     int    `json:"memory_mb"`
	MemoryUsedMB int    `json:"memory_used_mb"`
}

// EngineInfo reports inference engine state.
type EngineInfo struct {
	ModelLoaded   bool   `json:"model_loaded"`
	ModelPath     string `json:"model_path"`
	Device        string `json:"device"`
	InferCount    int64  `json:"infer_count"`
	RequestCount  int64  `json:"request_count"`
	NativeBytes   int64  `json:"native_bytes"`
	LastInference string `json:"last_inference,omitempty"`
}

// HealthMonitor serves the health endpoints for one service process.
type HealthMonitor struct {
	startTime time.Time
	server    *http.Server

	mu            sync.RWMutex
	modelLoaded   bool
	modelPath     string
	device        string
	lastInference time.Time
}

func NewHealthMonitor() *HealthMonitor {
	return &HealthMonitor{startTime: time.Now()}
}

// SetModel records which model is serving and on which device. Called once
// after compilation succeeds.
func (hm *HealthMonitor) SetModel(path, device string) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.modelLoaded = true
	hm.modelPath = path
	hm.device = device
}

// RecordInference marks the last successful inference time.
func (hm *HealthMonitor) RecordInference() {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.lastInference = time.Now()
}

// Start serves the endpoints on addr. Blocks until the server exits.
func (hm *HealthMonitor) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", hm.handleHealth)
	mux.HandleFunc("/healthz", hm.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/status", hm.handleStatus)

	hm.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("health monitor starting", "addr", addr)
	return hm.server.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (hm *HealthMonitor) Stop(ctx context.Context) error {
	if hm.server != nil {
		return hm.server.Shutdown(ctx)
	}
	return nil
}

func (hm *HealthMonitor) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := hm.getStatus()

	w.Header().Set("Content-Type", "application/json")
	if status.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(map[string]string{
		"status":    status.Status,
		"timestamp": status.Timestamp.Format(time.RFC3339),
	})
}

func (hm *HealthMonitor) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(hm.getStatus())
}

func (hm *HealthMonitor) getStatus() HealthStatus {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	status := "healthy"
	if !hm.modelLoaded {
		status = "starting"
	}

	engine := EngineInfo{
		ModelLoaded:  hm.modelLoaded,
		ModelPath:    hm.modelPath,
		Device:       hm.device,
		InferCount:   metrics.InferCount(),
		RequestCount: metrics.RequestCount(),
		NativeBytes:  ov.NativeAllocatedBytes(),
	}
	if !hm.lastInference.IsZero() {
		engine.LastInference = hm.lastInference.Format(time.RFC3339)
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Uptime:    time.Since(hm.startTime),
		System:    systemInfo(),
		Engine:    engine,
	}
}

func systemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemInfo{
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
		NumCPU:       runtime.NumCPU(),
		MemoryMB:     int(m.Sys / 1024 / 1024),
		MemoryUsedMB: int(m.Alloc / 1024 / 1024),
	}
}
