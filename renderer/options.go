package renderer

import "go.uber.org/zap"

type options struct {
	log *zap.Logger
}

// Option configures a pass at construction.
type Option func(*options)

// WithLogger sets the logger a pass reports through. The default discards.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
