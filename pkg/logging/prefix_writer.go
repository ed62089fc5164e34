package logging

import (
	"bytes"
	"io"
)

// PrefixWriter wraps an io.Writer and adds a prefix to each complete line.
type PrefixWriter struct {
	prefix  []byte
	writer  io.Writer
	pending bytes.Buffer
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

// Write implements io.Writer. Partial lines are buffered until the
// terminating newline arrives, so a prefix is never split across writes.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	pw.pending.Write(p)

	for {
		raw := pw.pending.Bytes()
		idx := bytes.IndexByte(raw, '\n')
		if idx < 0 {
			break
		}

		line := pw.pending.Next(idx + 1)
		if _, err := pw.writer.Write(pw.prefix); err != nil {
			return 0, err
		}
		if _, err := pw.writer.Write(line); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}
