package cmd

// Options holds the shared command-line options for the collabsweep CLI.
type Options struct {
	Format     string
	ConfigPath string // Explicit config file; empty loads global then local
	Verbosity  int
	DryRun     bool
	TUI        *bool // nil = auto-detect, true = force TUI, false = disable TUI
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the report format (table, json, none).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithConfigPath loads configuration from path instead of the default locations.
func WithConfigPath(path string) Option {
	return func(o *Options) {
		o.ConfigPath = path
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithDryRun reports eligible issues without demoting anyone.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}
