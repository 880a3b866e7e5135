package metrics

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	totalInfers   atomic.Int64
	totalRequests atomic.Int64
)

var (
	InferDuration = promauto.NewSummary(prometheus.SummaryOpts{
		Name: "arbalest_infer_duration_seconds",
		Help: "Duration of synchronous inference passes",
	})

	InfersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbalest_infers_total",
		Help: "Total number of completed inference passes",
	})

	CompileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "arbalest_compile_duration_seconds",
		Help:    "Time to compile a network for a device",
		Buckets: prometheus.DefBuckets,
	}, []string{"device"})

	BridgeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arbalest_bridge_errors_total",
		Help: "Native bridge calls that returned a failing status",
	}, []string{"operation", "status"})

	NativeMemoryAllocated = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arbalest_native_memory_allocated_bytes",
		Help: "Current bytes of engine-allocated blob memory",
	})

	BlobBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arbalest_blob_size_bytes",
		Help:    "Distribution of blob byte lengths crossing the bridge",
		Buckets: []float64{1024, 16384, 262144, 1048576, 4194304, 16777216, 67108864},
	})

	InferRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbalest_infer_requests_total",
		Help: "Total number of inference requests created",
	})

	NetworksLoadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbalest_networks_loaded_total",
		Help: "Total number of networks read from model files",
	})
)

func RecordInfer(duration time.Duration) {
	InfersTotal.Inc()
	totalInfers.Add(1)
	InferDuration.Observe(duration.Seconds())
}

func RecordCompile(device string, duration time.Duration) {
	CompileDuration.WithLabelValues(device).Observe(duration.Seconds())
}

func RecordBridgeError(operation string, code int32) {
	BridgeErrors.WithLabelValues(operation, fmt.Sprintf("%d", code)).Inc()
}

func RecordNativeMemory(bytes int64) {
	NativeMemoryAllocated.Set(float64(bytes))
}

func RecordBlobBytes(n int64) {
	BlobBytes.Observe(float64(n))
}

func RecordRequestCreated() {
	InferRequestsTotal.Inc()
	totalRequests.Add(1)
}

func RecordNetworkLoaded() {
	NetworksLoadedTotal.Inc()
}

// InferCount returns the number of inference passes recorded since start.
func InferCount() int64 { return totalInfers.Load() }

// RequestCount returns the number of inference requests created since start.
func RequestCount() int64 { return totalRequests.Load() }
