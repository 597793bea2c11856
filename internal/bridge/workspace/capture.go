package workspace

import "bytes"

// BinaryPlaceholder replaces output that contains a NUL byte.
const BinaryPlaceholder = "[Binary Content]"

// sniffLen is how much leading output is scanned for NUL bytes, as git does.
const sniffLen = 8000

// capture is an io.Writer that keeps at most limit bytes of a stream.
// Writes never fail so the child process is not blocked by a full pipe.
type capture struct {
	buf     bytes.Buffer
	limit   int
	sniffed int

	binary  bool
	dropped bool
}

func newCapture(limit int) *capture {
	return &capture{limit: limit}
}

func (c *capture) Write(p []byte) (int, error) {
	if c.binary {
		return len(p), nil
	}
	if c.sniff(p) {
		c.binary = true
		c.buf.Reset()
		return len(p), nil
	}

	keep := min(len(p), max(c.limit-c.buf.Len(), 0))
	if keep < len(p) {
		c.dropped = true
	}
	c.buf.Write(p[:keep])
	return len(p), nil
}

// sniff reports whether the unscanned prefix of p contains a NUL byte.
func (c *capture) sniff(p []byte) bool {
	if c.sniffed >= sniffLen {
		return false
	}
	window := p[:min(len(p), sniffLen-c.sniffed)]
	c.sniffed += len(window)
	return bytes.IndexByte(window, 0) >= 0
}

func (c *capture) String() string {
	if c.binary {
		return BinaryPlaceholder
	}
	return c.buf.String()
}
