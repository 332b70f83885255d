package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter serializes writes from concurrent producers and flushes
// buffered destinations after every write so progress lines appear promptly.
type FlushingWriter struct {
	mutex       sync.Mutex
	destination io.Writer
}

// NewFlushingWriter wraps destination. Nil destinations and writers that are
// already wrapped are returned unchanged.
func NewFlushingWriter(destination io.Writer) io.Writer {
	switch destination.(type) {
	case nil, *FlushingWriter:
		return destination
	}
	return &FlushingWriter{destination: destination}
}

// Write forwards data to the destination and flushes it when supported.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	written, writeError := writer.destination.Write(data)
	if writeError != nil {
		return written, writeError
	}
	if flushable, supportsFlush := writer.destination.(flusher); supportsFlush {
		return written, flushable.Flush()
	}
	return written, nil
}
