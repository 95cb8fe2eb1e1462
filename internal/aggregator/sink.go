package aggregator

import (
	"io"
	"sync"
)

// WriterSink adapts an io.Writer into a line sink, serializing writes so a
// shared writer stays safe under interleaved emission.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink wraps w. The sink never buffers beyond the current call.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// WriteLine writes one line followed by a newline.
func (s *WriterSink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, line+"\n")
	return err
}
