package profiler

import (
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// Stats is the cost of one measured run.
type Stats struct {
	Name       string
	Bytes      int64         // bytes reported written by the run
	Elapsed    time.Duration // wall time of the run
	Allocs     uint64        // heap objects allocated during the run
	AllocBytes uint64        // heap bytes allocated during the run
	GCs        uint32        // garbage collections that completed during the run
}

// Throughput returns Bytes per second of Elapsed, or 0 for an instantaneous run.
//
// Returns:
//   - float64: bytes per second
func (s Stats) Throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Bytes) / s.Elapsed.Seconds()
}

// String formats the stats the way the profiler logs them.
func (s Stats) String() string {
	return fmt.Sprintf("%s: %s in %v (%s/s) | Allocs: %d (%s) | GC: %d",
		s.Name, humanize.Bytes(uint64(max(s.Bytes, 0))), s.Elapsed.Round(time.Microsecond),
		humanize.Bytes(uint64(s.Throughput())), s.Allocs, humanize.Bytes(s.AllocBytes), s.GCs)
}

// Profiler tracks table write throughput and memory statistics.
// Call Record after each write and Tick periodically; stats are logged at a
// configurable interval.
type Profiler struct {
	logger         logrus.FieldLogger
	writeCount     int
	byteCount      int64
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	now            func() time.Time
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second and the
// logger to the logrus standard logger.
//
// Parameters:
//   - opts: variadic list of ProfilerBuilderOption functions to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(opts ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		logger:         logrus.StandardLogger(),
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Record adds one completed write of n bytes to the current interval.
//
// Parameters:
//   - n: the number of bytes written
func (p *Profiler) Record(n int64) {
	p.writeCount++
	p.byteCount += n
}

// Tick logs write rate, throughput, heap usage, allocation rate and GC pauses when
// the update interval has elapsed, then starts a new interval.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	gcCount := p.memStats.NumGC
	lastPauseUs, maxPauseUs := pauses(&p.memStats, p.lastGCCount)

	p.logger.WithFields(logrus.Fields{
		"writes":     p.writeCount,
		"throughput": humanize.Bytes(uint64(float64(p.byteCount)/elapsed.Seconds())) + "/s",
		"heap":       humanize.Bytes(p.memStats.Alloc),
		"alloc_rate": humanize.Bytes(uint64(float64(allocDelta)/elapsed.Seconds())) + "/s",
		"gc":         gcCount,
		"gc_last_us": lastPauseUs,
		"gc_max_us":  maxPauseUs,
	}).Infof("[Profiler] Writes: %.2f/s", float64(p.writeCount)/elapsed.Seconds())

	p.writeCount = 0
	p.byteCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Measure runs fn once and reports what it cost. The bytes fn returns are also
// recorded against the current interval.
//
// Parameters:
//   - name: a label for the run
//   - fn: the work to measure, returning the bytes it wrote
//
// Returns:
//   - Stats: the cost of the run
//   - error: the error returned by fn
func (p *Profiler) Measure(name string, fn func() (int64, error)) (Stats, error) {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := p.now()

	n, err := fn()

	elapsed := p.now().Sub(start)
	runtime.ReadMemStats(&after)
	p.Record(n)

	s := Stats{
		Name:       name,
		Bytes:      n,
		Elapsed:    elapsed,
		Allocs:     after.Mallocs - before.Mallocs,
		AllocBytes: after.TotalAlloc - before.TotalAlloc,
		GCs:        after.NumGC - before.NumGC,
	}
	p.logger.Debugf("[Profiler] %s", s)
	return s, err
}

// pauses returns the last GC pause and the longest pause since sinceGC, in
// microseconds. PauseNs is a circular buffer of the last 256 pauses.
func pauses(m *runtime.MemStats, sinceGC uint32) (lastUs, maxUs uint64) {
	gcCount := m.NumGC
	if gcCount == 0 {
		return 0, 0
	}
	lastUs = m.PauseNs[(gcCount-1)%256] / 1000

	startIdx := sinceGC
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		if pause := m.PauseNs[i%256] / 1000; pause > maxUs {
			maxUs = pause
		}
	}
	return lastUs, maxUs
}
