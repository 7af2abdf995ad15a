package uindex

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/uindex/persistence"
	"github.com/hupe1980/uindex/skeleton"
)

type options struct {
	logger      *Logger
	metrics     MetricsCollector
	skeleton    skeleton.Type
	compression persistence.Compression
	parallelism int
}

// Option configures Build and Read behavior.
type Option func(*options)

// WithSkeleton selects the exact-match structure built over the token
// sequence. The default is the sparse suffix array.
func WithSkeleton(t skeleton.Type) Option {
	return func(o *options) {
		o.skeleton = t
	}
}

// WithCompression selects the section codec used when the index is
// serialized. The default is zstd.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithParallelism bounds the number of goroutines used during build for
// minimizer key precomputation. Values below 2 disable parallelism. The
// built index is identical for every setting.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:      NoopLogger(),
		metrics:     NoopMetricsCollector{},
		skeleton:    skeleton.TypeSuffixArray,
		compression: persistence.CompressionZstd,
		parallelism: runtime.GOMAXPROCS(0),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
