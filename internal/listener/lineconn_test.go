package listener

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/pixil98/go-testutil"
)

type bufferConn struct {
	in  io.Reader
	out bytes.Buffer
}

func (c *bufferConn) Read(p []byte) (int, error) { return c.in.Read(p) }
func (c *bufferConn) Write(p []byte) (int, error) { return c.out.Write(p) }

func TestLineConn_Read(t *testing.T) {
	tests := map[string]struct {
		input string
		exp   string
	}{
		"telnet line":  {input: "John_Smith\r\n", exp: "John_Smith\n"},
		"ssh pty line": {input: "secret\r", exp: "secret\n"},
		"plain line":   {input: "hello\n", exp: "hello\n"},
		"mixed":        {input: "a\r\nb\rc\n", exp: "a\nb\nc\n"},
		"blank lines":  {input: "\r\n\r\n", exp: "\n\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for mode, r := range map[string]io.Reader{
				"whole":    strings.NewReader(tt.input),
				"one byte": iotest.OneByteReader(strings.NewReader(tt.input)),
			} {
				data, err := io.ReadAll(newLineConn(&bufferConn{in: r}))
				if err != nil {
					t.Fatalf("%s: unexpected error: %v", mode, err)
				}
				testutil.AssertEqual(t, mode, string(data), tt.exp)
			}
		})
	}
}

func TestLineConn_Write(t *testing.T) {
	conn := &bufferConn{in: strings.NewReader("")}
	rw := newLineConn(conn)

	n, err := rw.Write([]byte("one\ntwo\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "n", n, 8)
	testutil.AssertEqual(t, "written", conn.out.String(), "one\r\ntwo\r\n")
}
