package console

import (
	"bytes"
	"sync"
)

// LineWriter buffers writes and hands every complete line to emit without its
// trailing newline. zap writes one entry per call, so in practice each Write
// emits exactly one line.
type LineWriter struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	emit func(line string)
}

// NewLineWriter creates a LineWriter calling emit for every line.
func NewLineWriter(emit func(line string)) *LineWriter {
	return &LineWriter{emit: emit}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(w.buf.Next(i + 1))
		w.emit(line[:len(line)-1])
	}
	return len(p), nil
}

// Sync emits any partial line still buffered.
func (w *LineWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
	return nil
}
