package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	input  string
	output string
	watch  bool
	stdout io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithInput sets the path of the full switch configuration.
func WithInput(path string) Option {
	return func(a *application) {
		a.input = path
	}
}

// WithOutput sets the output path. Empty means stdout.
func WithOutput(path string) Option {
	return func(a *application) {
		a.output = path
	}
}

// WithWatch keeps the application running and re-filters on input changes.
func WithWatch(enabled bool) Option {
	return func(a *application) {
		a.watch = enabled
	}
}

// WithStdout replaces the stream used when no output path is set.
func WithStdout(w io.Writer) Option {
	return func(a *application) {
		a.stdout = w
	}
}
