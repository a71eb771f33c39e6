package catalog

import "go.uber.org/zap"

// Option is a functional option for configuring a Processor via NewProcessor.
type Option func(*processorConfig)

type processorConfig struct {
	log *zap.Logger
}

// WithLogger sets the logger the processor reports progress and
// configuration oddities to. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *processorConfig) {
		if log != nil {
			c.log = log
		}
	}
}
