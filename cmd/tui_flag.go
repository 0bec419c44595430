package cmd

import (
	"fmt"
	"strconv"

	"github.com/spiffcs/collabsweep/internal/output"
	"github.com/spiffcs/collabsweep/internal/tui"
)

const tuiAuto = "auto"

// tuiFlag is the --tui flag. A nil Options.TUI means auto-detect, so a bare
// --tui forces the display on and --tui=false turns it off.
type tuiFlag struct {
	opts *Options
}

func newTUIFlag(opts *Options) *tuiFlag {
	return &tuiFlag{opts: opts}
}

func (f *tuiFlag) String() string {
	if f.opts.TUI == nil {
		return tuiAuto
	}
	return strconv.FormatBool(*f.opts.TUI)
}

func (f *tuiFlag) Set(s string) error {
	if s == tuiAuto {
		f.opts.TUI = nil
		return nil
	}
	switch s {
	case "yes":
		s = "true"
	case "no":
		s = "false"
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid value %q: use true, false, or %s", s, tuiAuto)
	}
	f.opts.TUI = &v
	return nil
}

func (f *tuiFlag) Type() string     { return "bool" }
func (f *tuiFlag) IsBoolFlag() bool { return true }

// shouldUseTUI decides whether the sweep renders the progress display.
// Verbose logging and a JSON report on stdout both need a plain stream, so
// they win over --tui.
func shouldUseTUI(opts *Options, format output.Format) bool {
	if opts.Verbosity > 0 || format == output.FormatJSON {
		return false
	}
	if opts.TUI != nil {
		return *opts.TUI
	}
	return tui.ShouldUseTUI()
}
