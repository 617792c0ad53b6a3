// Package storage loads configuration documents from disk and emits the
// filtered result to a file or stream.
package storage

import (
	"io"
	"os"
)

// Sink receives an encoded document.
type Sink interface {
	// Write replaces whatever the sink held with content.
	Write(content []byte) error
	// String names the sink for logs.
	String() string
}

// FileSink writes to a path, replacing the file atomically.
type FileSink struct {
	Path string
}

func (s FileSink) Write(content []byte) error { return WriteFile(s.Path, content) }

func (s FileSink) String() string { return s.Path }

// StreamSink writes to an io.Writer such as stdout.
type StreamSink struct {
	W io.Writer
}

func (s StreamSink) Write(content []byte) error {
	_, err := s.W.Write(content)
	return err
}

func (s StreamSink) String() string { return "stdout" }

// NewSink returns a FileSink for path, or a StreamSink over stdout when path
// is empty. A nil stdout means os.Stdout.
func NewSink(path string, stdout io.Writer) Sink {
	if path != "" {
		return FileSink{Path: path}
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	return StreamSink{W: stdout}
}
