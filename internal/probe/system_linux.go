//go:build linux

package probe

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// linuxCollector gathers system readings from /proc and /sys. Each reading
// degrades independently: a failed source logs at debug level and leaves
// the field at zero rather than failing the whole sample.
type linuxCollector struct {
	logger *zap.Logger
}

var _ SystemCollector = (*linuxCollector)(nil)

func newPlatformCollector(logger *zap.Logger) SystemCollector {
	return &linuxCollector{logger: logger}
}

func (c *linuxCollector) Collect(ctx context.Context) SystemStats {
	var s SystemStats

	cpu, err := c.collectCPU(ctx)
	if err != nil {
		c.logger.Debug("cpu reading failed", zap.Error(err))
	} else {
		s.CPUPercent = cpu
	}

	ram, err := collectMemory()
	if err != nil {
		c.logger.Debug("memory reading failed", zap.Error(err))
	} else {
		s.RAMPercent = ram
	}

	disk, err := collectRootDisk()
	if err != nil {
		c.logger.Debug("disk reading failed", zap.Error(err))
	} else {
		s.DiskPercent = disk
	}

	temp, err := collectTemperature()
	if err != nil {
		c.logger.Debug("temperature reading failed", zap.Error(err))
	} else {
		s.TemperatureCelsius = temp
	}

	// GPU utilization has no portable kernel interface; it stays zero
	// unless a future vendor-specific reader fills it in.
	return s
}

// collectCPU reads /proc/stat twice with a 200ms delta to calculate usage.
func (c *linuxCollector) collectCPU(ctx context.Context) (float64, error) {
	idle1, total1, err := readCPUStat()
	if err != nil {
		return 0, fmt.Errorf("first /proc/stat read: %w", err)
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(200 * time.Millisecond):
	}

	idle2, total2, err := readCPUStat()
	if err != nil {
		return 0, fmt.Errorf("second /proc/stat read: %w", err)
	}

	idleDelta := idle2 - idle1
	totalDelta := total2 - total1
	if totalDelta == 0 {
		return 0, nil
	}

	pct := (1.0 - float64(idleDelta)/float64(totalDelta)) * 100.0
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, nil
}

func readCPUStat() (idle, total uint64, err error) {
	data, err := os.ReadFile("/proc/stat")
	if err != nil {
		return 0, 0, err
	}
	return parseProcStat(string(data))
}

// parseProcStat extracts idle and total CPU ticks from the aggregate cpu
// line. Fields: user nice system idle iowait irq softirq steal.
func parseProcStat(content string) (idle, total uint64, err error) {
	for _, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return 0, 0, fmt.Errorf("unexpected /proc/stat cpu line: %q", line)
		}
		var sum, idleVal uint64
		for i := 1; i < len(fields); i++ {
			v, parseErr := strconv.ParseUint(fields[i], 10, 64)
			if parseErr != nil {
				continue
			}
			sum += v
			if i == 4 { // idle
				idleVal = v
			}
			if i == 5 { // iowait counts as idle
				idleVal += v
			}
		}
		return idleVal, sum, nil
	}
	return 0, 0, fmt.Errorf("/proc/stat has no aggregate cpu line")
}

func collectMemory() (float64, error) {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return 0, err
	}
	return parseMeminfo(string(data))
}

// parseMeminfo returns used-memory percentage. MemAvailable is the
// kernel's best estimate of usable memory (3.14+); fall back to
// MemFree + Buffers + Cached on older kernels.
func parseMeminfo(content string) (float64, error) {
	fields := make(map[string]uint64)
	for _, line := range strings.Split(content, "\n") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		valStr := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(parts[1]), "kB"))
		v, parseErr := strconv.ParseUint(valStr, 10, 64)
		if parseErr != nil {
			continue
		}
		fields[strings.TrimSpace(parts[0])] = v
	}

	memTotal, ok := fields["MemTotal"]
	if !ok || memTotal == 0 {
		return 0, fmt.Errorf("MemTotal not found in /proc/meminfo")
	}

	memAvailable, ok := fields["MemAvailable"]
	if !ok {
		memAvailable = fields["MemFree"] + fields["Buffers"] + fields["Cached"]
	}
	if memAvailable > memTotal {
		memAvailable = memTotal
	}

	return float64(memTotal-memAvailable) / float64(memTotal) * 100.0, nil
}

// collectRootDisk reports usage of the root filesystem only. Game assets
// live there in the common case and one number keeps the snapshot flat.
func collectRootDisk() (float64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs("/", &stat); err != nil {
		return 0, err
	}
	total := float64(stat.Blocks) * float64(stat.Bsize)
	if total == 0 {
		return 0, fmt.Errorf("statfs reported zero total blocks")
	}
	free := float64(stat.Bavail) * float64(stat.Bsize)
	return (total - free) / total * 100.0, nil
}

// collectTemperature reads the first thermal zone that exposes a sane
// value. Readings are in millidegrees Celsius.
func collectTemperature() (float64, error) {
	zones, err := os.ReadDir("/sys/class/thermal")
	if err != nil {
		return 0, err
	}
	for _, zone := range zones {
		if !strings.HasPrefix(zone.Name(), "thermal_zone") {
			continue
		}
		data, readErr := os.ReadFile("/sys/class/thermal/" + zone.Name() + "/temp")
		if readErr != nil {
			continue
		}
		milli, parseErr := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
		if parseErr != nil || milli <= 0 {
			continue
		}
		return float64(milli) / 1000.0, nil
	}
	return 0, fmt.Errorf("no readable thermal zone")
}
