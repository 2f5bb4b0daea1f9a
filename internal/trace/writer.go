package trace

import (
	"io"
	"os"
	"sync"
)

// Writer streams every allowed event to an io.Writer.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func NewWriter(w io.Writer, level Level, format Format) *Writer {
	if format == FormatAuto {
		format = FormatText
	}
	return &Writer{w: w, level: level, format: format}
}

// Emit writes ev. Write errors are ignored; a broken trace never fails a run.
func (t *Writer) Emit(ev *Event) {
	if !t.level.Allows(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	line := AppendEvent(nil, ev, t.format)
	t.mu.Lock()
	_, _ = t.w.Write(line)
	t.mu.Unlock()
}

func (t *Writer) Level() Level { return t.level }

func (t *Writer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes the underlying writer unless it is stdout or stderr.
func (t *Writer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if t.w == os.Stdout || t.w == os.Stderr {
		return nil
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type tee struct {
	level   Level
	tracers []Tracer
}

// Tee sends each event to every tracer. Its level is the highest of theirs.
func Tee(tracers ...Tracer) Tracer {
	t := &tee{tracers: tracers}
	for _, tr := range tracers {
		t.level = max(t.level, tr.Level())
	}
	return t
}

func (t *tee) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *tee) Level() Level { return t.level }

func (t *tee) Flush() error {
	var first error
	for _, tr := range t.tracers {
		if err := tr.Flush(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t *tee) Close() error {
	var first error
	for _, tr := range t.tracers {
		if err := tr.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RingOf returns the ring buffer behind t, if there is one.
func RingOf(t Tracer) (*Ring, bool) {
	switch v := t.(type) {
	case *Ring:
		return v, true
	case *tee:
		for _, tr := range v.tracers {
			if r, ok := RingOf(tr); ok {
				return r, true
			}
		}
	}
	return nil, false
}
