package executors

import "io"

// limitedWriter keeps the first max bytes and discards the rest without failing the child.
type limitedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if l.written >= l.max {
		l.truncated = true
		return n, nil
	}
	if remaining := l.max - l.written; int64(n) > remaining {
		l.truncated = true
		written, err := l.w.Write(p[:remaining])
		l.written += int64(written)
		return n, err
	}
	written, err := l.w.Write(p)
	l.written += int64(written)
	return written, err
}
