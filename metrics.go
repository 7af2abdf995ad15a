package uindex

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordBuild is called once after a build attempt.
	RecordBuild(duration time.Duration, err error)

	// RecordCount is called after each count operation.
	RecordCount(duration time.Duration, err error)

	// RecordLocate is called after each locate operation.
	// results is the number of verified matches returned.
	RecordLocate(results int, duration time.Duration, err error)

	// RecordSnapshot is called after each serialize or deserialize.
	RecordSnapshot(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(time.Duration, error)       {}
func (NoopMetricsCollector) RecordCount(time.Duration, error)       {}
func (NoopMetricsCollector) RecordLocate(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSnapshot(time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and benchmarks without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildTotalNanos  atomic.Int64
	CountCount       atomic.Int64
	CountErrors      atomic.Int64
	CountTotalNanos  atomic.Int64
	LocateCount      atomic.Int64
	LocateErrors     atomic.Int64
	LocateResults    atomic.Int64
	LocateTotalNanos atomic.Int64
	SnapshotCount    atomic.Int64
	SnapshotErrors   atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordCount implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCount(duration time.Duration, err error) {
	b.CountCount.Add(1)
	b.CountTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CountErrors.Add(1)
	}
}

// RecordLocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLocate(results int, duration time.Duration, err error) {
	b.LocateCount.Add(1)
	b.LocateResults.Add(int64(results))
	b.LocateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LocateErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}
