package helpers

import (
	"math"
	"os"

	"golang.org/x/sys/unix"
)

type DiskStats struct {
	TotalBytes  uint64  `json:"total_bytes"`
	UsedBytes   uint64  `json:"used_bytes"`
	FreeBytes   uint64  `json:"free_bytes"`
	TotalGB     float64 `json:"total_gb"`
	UsedGB      float64 `json:"used_gb"`
	FreeGB      float64 `json:"free_gb"`
	UsedPercent float64 `json:"used_percent"`
}

// GetDiskStats reports filesystem usage for the given path, falling back to
// the working directory when the path does not exist. Errors degrade to an
// all-zero report instead of failing the request.
func GetDiskStats(path string) DiskStats {
	if _, err := os.Stat(path); err != nil {
		if cwd, err := os.Getwd(); err == nil {
			path = cwd
		}
	}

	var fs unix.Statfs_t
	if err := unix.Statfs(path, &fs); err != nil {
		return DiskStats{}
	}

	total := fs.Blocks * uint64(fs.Bsize)
	free := fs.Bavail * uint64(fs.Bsize)
	used := total - free

	stats := DiskStats{
		TotalBytes: total,
		UsedBytes:  used,
		FreeBytes:  free,
		TotalGB:    round2(float64(total) / (1 << 30)),
		UsedGB:     round2(float64(used) / (1 << 30)),
		FreeGB:     round2(float64(free) / (1 << 30)),
	}
	if total > 0 {
		stats.UsedPercent = round2(float64(used) / float64(total) * 100)
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
