package httpapi

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

const bytesPerMB = 1024 * 1024

// MemoryInfo holds system and process memory figures in megabytes
type MemoryInfo struct {
	TotalMB     float64 `json:"total_mb"`
	AvailableMB float64 `json:"available_mb"`
	UsedPercent float64 `json:"used_percent"`
	ProcessMB   float64 `json:"process_mb"`
	// ChildProcesses counts running yt-dlp/ffmpeg children
	ChildProcesses int `json:"child_processes"`
}

// HealthResponse is the body of GET /v1/health
type HealthResponse struct {
	Status          string  `json:"status"`
	Version         string  `json:"version"`
	Uptime          string  `json:"uptime"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	Goroutines      int     `json:"goroutines"`
	ActiveDownloads int     `json:"active_downloads"`
	// FinishedDownloads counts tasks still held in memory after they ended
	FinishedDownloads int        `json:"finished_downloads"`
	Memory            MemoryInfo `json:"memory"`
}

// HealthOutput is the output for GET /v1/health
type HealthOutput struct {
	Body HealthResponse
}

// Health reports liveness with memory and download figures
func (s *Server) Health(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	uptime := time.Since(s.startTime)

	active, finished := 0, 0
	for _, t := range s.deps.Downloads.GetAllTasks() {
		switch {
		case t.Status.IsActive():
			active++
		case t.Status.IsFinished():
			finished++
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:            "healthy",
			Version:           s.version,
			Uptime:            uptime.Round(time.Second).String(),
			UptimeSeconds:     uptime.Seconds(),
			Goroutines:        runtime.NumGoroutine(),
			ActiveDownloads:   active,
			FinishedDownloads: finished,
			Memory:            memoryInfo(ctx),
		},
	}, nil
}

// memoryInfo collects what it can; missing figures stay zero
func memoryInfo(ctx context.Context) MemoryInfo {
	info := MemoryInfo{}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil && vm != nil {
		info.TotalMB = float64(vm.Total) / bytesPerMB
		info.AvailableMB = float64(vm.Available) / bytesPerMB
		info.UsedPercent = vm.UsedPercent
	}

	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return info
	}
	if mi, err := proc.MemoryInfoWithContext(ctx); err == nil && mi != nil {
		info.ProcessMB = float64(mi.RSS) / bytesPerMB
	}
	if children, err := proc.ChildrenWithContext(ctx); err == nil {
		info.ChildProcesses = len(children)
	}
	return info
}
