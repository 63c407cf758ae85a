package listener

import (
	"bytes"
	"io"
)

// lineConn normalizes line endings on a connection. Reads turn "\r\n" and a
// lone "\r" into "\n"; telnet clients send the former and ssh clients with a
// pty the latter. Writes turn "\n" into "\r\n".
type lineConn struct {
	rw     io.ReadWriter
	lastCR bool
}

func newLineConn(rw io.ReadWriter) *lineConn {
	return &lineConn{rw: rw}
}

func (c *lineConn) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)

	// Output never outgrows input, so p is rewritten in place.
	out := 0
	for _, b := range p[:n] {
		switch {
		case b == '\n' && c.lastCR:
			// The "\r" already became the line break.
		case b == '\r':
			p[out] = '\n'
			out++
		default:
			p[out] = b
			out++
		}
		c.lastCR = b == '\r'
	}
	return out, err
}

func (c *lineConn) Write(p []byte) (int, error) {
	if _, err := c.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
