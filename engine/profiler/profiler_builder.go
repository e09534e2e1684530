package profiler

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ProfilerBuilderOption is a functional option used to configure a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithLogger sets the logger stats are written to.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - ProfilerBuilderOption: a function that sets the logger
func WithLogger(logger logrus.FieldLogger) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.logger = logger
	}
}

// WithUpdateInterval sets how often Tick logs.
//
// Parameters:
//   - d: the interval between log lines
//
// Returns:
//   - ProfilerBuilderOption: a function that sets the update interval
func WithUpdateInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// WithClock replaces time.Now.
//
// Parameters:
//   - now: the clock function
//
// Returns:
//   - ProfilerBuilderOption: a function that sets the clock
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}
