package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/delvedns/delvedns/internal/api/models"
)

// Stats returns runtime statistics: process memory and goroutines, DNS
// query counters, and best-effort host statistics.
func (h *Handler) Stats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)

	resp := models.ServerStatsResponse{
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		StartTime:     h.startTime,
		GoRoutines:    runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
		NumCPU:        runtime.NumCPU(),
	}

	if fn := h.GetDNSStatsFunc(); fn != nil {
		s := fn()
		resp.DNSStats = models.DNSStatsResponse{
			QueriesTotal: s.QueriesTotal,
			ResponsesNX:  s.ResponsesNX,
			ResponsesErr: s.ResponsesErr,
			AvgLatencyMs: s.AvgLatencyMs,
		}
	}

	resp.System = systemStats()

	c.JSON(http.StatusOK, resp)
}

// systemStats gathers host statistics. Any probe failure drops the
// whole section rather than reporting partial numbers.
func systemStats() *models.SystemStats {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil
	}
	sys := &models.SystemStats{
		MemUsedMB:  float64(vm.Used) / 1024 / 1024,
		MemTotalMB: float64(vm.Total) / 1024 / 1024,
		MemPercent: vm.UsedPercent,
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		sys.CPUPercent = pct[0]
	}
	if up, err := host.Uptime(); err == nil {
		sys.HostUptimeSec = up
	}
	return sys
}
