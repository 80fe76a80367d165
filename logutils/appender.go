package logutils

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Appender is a surface human readable lines are appended to.
type Appender interface {
	Append(line string)
}

// WriterAppender writes every line followed by a newline.
type WriterAppender struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterAppender(w io.Writer) *WriterAppender {
	return &WriterAppender{w: w}
}

func (a *WriterAppender) Append(line string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, _ = fmt.Fprintln(a.w, line)
}

// ZapAppender turns every line into an INFO entry.
type ZapAppender struct {
	logger *zap.Logger
}

func NewZapAppender(logger *zap.Logger) *ZapAppender {
	return &ZapAppender{logger: logger}
}

func (a *ZapAppender) Append(line string) {
	a.logger.Info(line)
}

// MemoryAppender keeps lines in memory.
type MemoryAppender struct {
	mu    sync.Mutex
	lines []string
}

func (a *MemoryAppender) Append(line string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lines = append(a.lines, line)
}

// Lines returns a copy of the appended lines.
func (a *MemoryAppender) Lines() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string{}, a.lines...)
}

// MultiAppender appends to every member in order.
type MultiAppender []Appender

func (m MultiAppender) Append(line string) {
	for _, a := range m {
		a.Append(line)
	}
}
