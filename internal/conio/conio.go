// Package conio provides the stream-backed console used by default: line
// reads over any io.Reader and flush-aware writes over any io.Writer. A
// stream console never identifies as a keyboard or screen, so the
// interpreter suppresses prompts on it.
package conio

import (
	"bufio"
	"io"
	"strings"
)

// Console adapts a reader/writer pair to the interpreter's line I/O
// surface.
type Console struct {
	in  *bufio.Reader
	out WriteFlusher
}

// New builds a Console over r and w; either may be nil for an empty
// reader or discarded writes.
func New(r io.Reader, w io.Writer) *Console {
	c := &Console{}
	c.SetReader(r)
	c.SetWriter(w)
	return c
}

// SetReader replaces the input stream.
func (c *Console) SetReader(r io.Reader) {
	if r == nil {
		r = strings.NewReader("")
	}
	c.in = bufio.NewReader(r)
}

// SetWriter replaces the output stream, flushing any prior one.
func (c *Console) SetWriter(w io.Writer) {
	if c.out != nil {
		c.out.Flush()
	}
	c.out = NewWriteFlusher(w)
}

// Tee duplicates all output to w.
func (c *Console) Tee(w io.Writer) {
	c.out = MultiWriteFlusher(c.out, NewWriteFlusher(w))
}

// ReadLine returns the next input line without its terminator. The prompt
// is ignored: a stream reader has no one to prompt. Pending output is
// flushed first so piped sessions interleave correctly.
func (c *Console) ReadLine(prompt string) (string, error) {
	if err := c.out.Flush(); err != nil {
		return "", err
	}
	line, err := c.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// WriteString appends to the output stream.
func (c *Console) WriteString(s string) error {
	_, err := io.WriteString(c.out, s)
	return err
}

// Flush forces buffered output out.
func (c *Console) Flush() error { return c.out.Flush() }

// IsKeyboard reports whether reads come from an interactive keyboard.
func (c *Console) IsKeyboard() bool { return false }

// IsScreen reports whether writes land on an interactive screen.
func (c *Console) IsScreen() bool { return false }
