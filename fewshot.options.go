package fewshot

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring composite templates, the
// registry, and the graph-QA chain.
type Option func(*config)

// config holds the shared ambient configuration.
type config struct {
	separator string
	logger    *zap.Logger
}

// defaultConfig returns the default configuration.
func defaultConfig() *config {
	return &config{
		separator: DefaultExampleSeparator,
		logger:    zap.NewNop(),
	}
}

func (c *config) apply(opts []Option) *config {
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithExampleSeparator sets the separator between prefix, example fragments,
// and suffix in string-mode output.
// Default: "\n\n"
func WithExampleSeparator(sep string) Option {
	return func(c *config) {
		c.separator = sep
	}
}

// WithLogger sets the logger.
// Default: zap.NewNop()
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
