package gostructs

import "go.uber.org/zap"

// Option configures the optional, non-structural settings of a structure.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger a structure reports its lifecycle events to.
// Passing nil keeps the default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func applyOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
