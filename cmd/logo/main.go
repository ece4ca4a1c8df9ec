package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/peterh/liner"
	"golang.org/x/term"

	logo "github.com/BlairLeduc/pico-logo"
	"github.com/BlairLeduc/pico-logo/internal/conio"
)

const historyFile = ".pico_logo_history"

func main() {
	ctx := context.Background()

	var timeout time.Duration
	var trace bool
	var nodeLimit, frameLimit int
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.IntVar(&nodeLimit, "node-limit", 0, "cap workspace nodes")
	flag.IntVar(&frameLimit, "frame-limit", 0, "cap procedure call depth")
	flag.Parse()

	hw := newSignals()
	defer hw.stop()

	console, closeConsole := newConsole()
	defer closeConsole()

	opts := []logo.Option{
		logo.WithConsole(console),
		logo.WithHardware(hw),
		logo.WithStorage(dirStorage{}),
	}
	if trace {
		opts = append(opts, logo.WithLogf(log.Printf))
	}
	if nodeLimit != 0 {
		opts = append(opts, logo.WithNodeLimit(nodeLimit))
	}
	if frameLimit != 0 {
		opts = append(opts, logo.WithFrameLimit(frameLimit))
	}
	in := logo.New(opts...)

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	for _, name := range flag.Args() {
		res, err := in.Execute(`load "` + name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
			os.Exit(1)
		}
		if res.Status != logo.StatusNone {
			fmt.Fprintln(os.Stderr, res.Message(in))
			os.Exit(1)
		}
	}

	if err := in.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		os.Exit(1)
	}
}

// newConsole picks the front-end: a liner-backed editor with history on a
// real terminal, a plain pipe console otherwise.
func newConsole() (logo.Console, func()) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return conio.New(os.Stdin, os.Stdout), func() {}
	}

	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	lc := &linerConsole{ln: ln}
	return lc, func() {
		if histPath != "" {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}
		_ = ln.Close()
	}
}

// linerConsole adapts a liner editor to the interpreter's console. Liner
// owns the terminal during reads; writes go straight to stdout between
// them.
type linerConsole struct {
	ln *liner.State
}

func (lc *linerConsole) ReadLine(prompt string) (string, error) {
	line, err := lc.ln.Prompt(prompt)
	switch {
	case err == nil:
		if line != "" {
			lc.ln.AppendHistory(line)
		}
		return line, nil
	case errors.Is(err, liner.ErrPromptAborted):
		return "", logo.ErrInterrupted
	case errors.Is(err, io.EOF):
		fmt.Println()
		return "", io.EOF
	default:
		return "", err
	}
}

func (lc *linerConsole) WriteString(s string) error {
	_, err := os.Stdout.WriteString(s)
	return err
}

func (lc *linerConsole) Flush() error     { return nil }
func (lc *linerConsole) IsKeyboard() bool { return true }
func (lc *linerConsole) IsScreen() bool   { return true }

// signals latches SIGINT as the interrupt flag and SIGTSTP as the pause
// flag, polled by the interpreter between instructions.
type signals struct {
	interrupt atomic.Bool
	pause     atomic.Bool
	ch        chan os.Signal
}

func newSignals() *signals {
	hw := &signals{ch: make(chan os.Signal, 1)}
	signal.Notify(hw.ch, os.Interrupt, syscall.SIGTSTP)
	go func() {
		for sig := range hw.ch {
			if sig == syscall.SIGTSTP {
				hw.pause.Store(true)
			} else {
				hw.interrupt.Store(true)
			}
		}
	}()
	return hw
}

func (hw *signals) stop() {
	signal.Stop(hw.ch)
	close(hw.ch)
}

func (hw *signals) PollInterrupt() bool { return hw.interrupt.Swap(false) }
func (hw *signals) PollPause() bool     { return hw.pause.Swap(false) }
func (hw *signals) Frozen() bool        { return false }

// dirStorage resolves load names against the working directory.
type dirStorage struct{}

func (dirStorage) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Clean(name))
}
