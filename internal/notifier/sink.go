package notifier

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Sink receives formatted reports.
type Sink interface {
	Publish(ctx context.Context, text string) error
}

// WriterSink prints reports to a writer such as stdout.
type WriterSink struct {
	mu sync.Mutex
	W  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink { return &WriterSink{W: w} }

func (s *WriterSink) Publish(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.W, text)
	return err
}
