package models

import "time"

// ServerStatsResponse contains server runtime statistics.
type ServerStatsResponse struct {
	Uptime        string           `json:"uptime"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	StartTime     time.Time        `json:"start_time"`
	GoRoutines    int              `json:"goroutines"`
	MemoryAllocMB float64          `json:"memory_alloc_mb"`
	NumCPU        int              `json:"num_cpu"`
	DNSStats      DNSStatsResponse `json:"dns"`
	System        *SystemStats     `json:"system,omitempty"`
}

// DNSStatsResponse contains DNS query statistics.
type DNSStatsResponse struct {
	QueriesTotal uint64  `json:"queries_total"`
	ResponsesNX  uint64  `json:"responses_nxdomain"`
	ResponsesErr uint64  `json:"responses_error"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// SystemStats contains host-level statistics. Fields are best effort:
// absent when the platform does not expose them.
type SystemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemUsedMB     float64 `json:"mem_used_mb"`
	MemTotalMB    float64 `json:"mem_total_mb"`
	MemPercent    float64 `json:"mem_percent"`
	HostUptimeSec uint64  `json:"host_uptime_seconds"`
}
