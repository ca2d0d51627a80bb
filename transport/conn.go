// Package transport wraps an accepted net.Conn into a line-oriented
// connection handle. The original protocol assumed one receive yields one
// chat line; explicit newline framing removes that assumption.
package transport

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"
)

// Conn owns the send/receive/close primitives for one peer.
//
// Writes are serialized by a mutex: a directed message may arrive from the
// router while the owning session is mid-broadcast, and both reach the same
// handle through a registry snapshot. Close is idempotent, the cleanup path
// may race with an in-progress send.
type Conn struct {
	conn      net.Conn
	reader    *bufio.Reader
	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func NewConn(c net.Conn) *Conn {
	return &Conn{conn: c, reader: bufio.NewReader(c)}
}

// SendLine writes one newline-terminated line to the peer.
func (c *Conn) SendLine(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := io.WriteString(c.conn, line+"\n")
	return err
}

// ReadLine blocks until the next line arrives. An orderly close surfaces
// as io.EOF; a trailing unterminated fragment is delivered before it.
func (c *Conn) ReadLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *Conn) RemoteAddr() string {
	if addr := c.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "unknown"
}
