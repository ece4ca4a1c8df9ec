package logo

import (
	"io"
	"io/ioutil"

	"github.com/BlairLeduc/pico-logo/internal/conio"
)

// Option configures an Interp under construction.
type Option interface{ apply(in *Interp) }

// Options combines options into one.
func Options(opts ...Option) Option { return options(opts) }

type options []Option

func (opts options) apply(in *Interp) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(in)
		}
	}
}

var defaultOptions = Options(
	WithOutput(ioutil.Discard),
)

type optionFunc func(in *Interp)

func (f optionFunc) apply(in *Interp) { f(in) }

// WithConsole supplies the line I/O collaborator wholesale.
func WithConsole(c Console) Option {
	return optionFunc(func(in *Interp) { in.console = c })
}

// WithInput reads lines from r through a plain buffered console; the
// reader does not identify as a keyboard, so prompts are suppressed.
func WithInput(r io.Reader) Option {
	return optionFunc(func(in *Interp) {
		if c, ok := in.console.(*conio.Console); ok {
			c.SetReader(r)
			return
		}
		in.console = conio.New(r, ioutil.Discard)
	})
}

// WithOutput writes console output to w.
func WithOutput(w io.Writer) Option {
	return optionFunc(func(in *Interp) {
		if c, ok := in.console.(*conio.Console); ok {
			c.SetWriter(w)
			return
		}
		in.console = conio.New(nil, w)
	})
}

// WithTee duplicates console output to w, transcript style.
func WithTee(w io.Writer) Option {
	return optionFunc(func(in *Interp) {
		if c, ok := in.console.(*conio.Console); ok {
			c.Tee(w)
		}
	})
}

// WithHardware supplies the pollable condition flags.
func WithHardware(hw Hardware) Option {
	return optionFunc(func(in *Interp) { in.hardware = hw })
}

// WithStorage supplies the stream opener behind the load primitive.
func WithStorage(st Storage) Option {
	return optionFunc(func(in *Interp) { in.storage = st })
}

// WithNodeLimit caps the arena at n nodes, words and pairs combined;
// exceeding it halts with an out of space error. Zero means unlimited.
func WithNodeLimit(n int) Option {
	return optionFunc(func(in *Interp) { in.nodeLimit = n })
}

// WithFrameLimit caps the call chain depth. Zero means unlimited.
func WithFrameLimit(n int) Option {
	return optionFunc(func(in *Interp) { in.frameLimit = n })
}

// WithDefinitions controls whether this interpreter's sessions accept
// to...end procedure definitions.
func WithDefinitions(allowed bool) Option {
	return optionFunc(func(in *Interp) { in.defsOK = allowed })
}

// WithLogf enables evaluator trace logging.
func WithLogf(logf func(mess string, args ...interface{})) Option {
	return optionFunc(func(in *Interp) { in.logf = logf })
}
