package entropy

import (
	"context"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/elastic/gosigar"
	"github.com/google/uuid"

	"drawforge/ports"
)

// Pool source counts. The static pool is collected once per batch, the
// dynamic pool fresh per draw.
const (
	StaticPoolSize  = 9
	DynamicPoolSize = 12
)

// SystemCollector assembles entropy pools from host and process telemetry.
// It never fails: any source that cannot be read is replaced by a
// fixed-format fallback string carrying the current nanosecond clock, so the
// slot still contributes bytes.
type SystemCollector struct {
	weather ports.WeatherPort
	started time.Time
	counter atomic.Uint64
}

// NewSystemCollector creates a collector. The weather port supplies the one
// remote source of the static pool.
func NewSystemCollector(weather ports.WeatherPort) *SystemCollector {
	return &SystemCollector{
		weather: weather,
		started: time.Now(),
	}
}

// StaticPool collects the slow-changing sources, including exactly one
// weather fingerprint slot.
func (c *SystemCollector) StaticPool(ctx context.Context) []string {
	return []string{
		randomToken(32),
		uuid.New().String(),
		hostname(),
		platformString(),
		nodeID(),
		strconv.Itoa(runtime.NumCPU()),
		filesystemList(),
		environmentDigest(),
		c.weather.Fingerprint(ctx),
	}
}

// DynamicPool collects sources expected to differ on every call, even within
// one millisecond: wall and monotonic clocks, load telemetry, one-shot random
// bits, and a process-local counter.
func (c *SystemCollector) DynamicPool() []string {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return []string{
		strconv.FormatInt(time.Now().UnixNano(), 10),
		monotonicDigest(c.started),
		strconv.Itoa(os.Getpid()),
		loadAverage(),
		memoryPercent(),
		diskPercent("/"),
		randomToken(32),
		strconv.Itoa(time.Now().Nanosecond()),
		strconv.Itoa(runtime.NumGoroutine()),
		cpuTimesTotal(),
		strconv.FormatUint(memStats.TotalAlloc, 10),
		strconv.FormatUint(c.counter.Add(1), 10),
	}
}

// randomToken returns n bytes from the OS entropy source, hex-encoded.
func randomToken(n int) string {
	buf := make([]byte, n)
	if _, err := crand.Read(buf); err != nil {
		return fallback("random")
	}
	return hex.EncodeToString(buf)
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return fallback("hostname")
	}
	return name
}

func platformString() string {
	return strings.Join([]string{runtime.GOOS, runtime.GOARCH, runtime.Version()}, "/")
}

// nodeID contributes the hardware (MAC) address uuid derives its node
// identifier from.
func nodeID() string {
	return hex.EncodeToString(uuid.NodeID())
}

func filesystemList() string {
	var fsList gosigar.FileSystemList
	if err := fsList.Get(); err != nil {
		return fallback("fslist")
	}
	var sb strings.Builder
	for _, fs := range fsList.List {
		sb.WriteString(fs.DevName)
		sb.WriteString(fs.DirName)
		sb.WriteString(fs.SysTypeName)
	}
	return sb.String()
}

// environmentDigest hashes the sorted process environment so ordering
// differences between runs do not leak into the slot.
func environmentDigest() string {
	env := os.Environ()
	sort.Strings(env)
	sum := sha256.Sum256([]byte(strings.Join(env, "\x00")))
	return hex.EncodeToString(sum[:])
}

// monotonicDigest hashes the nanoseconds elapsed since collector creation,
// a high-resolution counter in the spirit of a perf counter read.
func monotonicDigest(started time.Time) string {
	elapsed := strconv.FormatInt(time.Since(started).Nanoseconds(), 10)
	sum := sha256.Sum256([]byte(elapsed))
	return hex.EncodeToString(sum[:])
}

func loadAverage() string {
	var load gosigar.LoadAverage
	if err := load.Get(); err != nil {
		return fallback("load")
	}
	return fmt.Sprintf("%.2f:%.2f:%.2f", load.One, load.Five, load.Fifteen)
}

func memoryPercent() string {
	var mem gosigar.Mem
	if err := mem.Get(); err != nil || mem.Total == 0 {
		return fallback("mem")
	}
	return strconv.FormatFloat(float64(mem.ActualUsed)/float64(mem.Total)*100, 'f', 2, 64)
}

func diskPercent(path string) string {
	var usage gosigar.FileSystemUsage
	if err := usage.Get(path); err != nil {
		return fallback("disk")
	}
	return strconv.FormatFloat(usage.UsePercent(), 'f', 2, 64)
}

func cpuTimesTotal() string {
	var cpu gosigar.Cpu
	if err := cpu.Get(); err != nil {
		return fallback("cpu")
	}
	return strconv.FormatUint(cpu.Total(), 10)
}

// fallback produces the fixed-format replacement for an unreadable source.
func fallback(source string) string {
	return fmt.Sprintf("%s_unavailable_%d", source, time.Now().UnixNano())
}

var _ ports.EntropyPort = (*SystemCollector)(nil)
