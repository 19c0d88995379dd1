package transport

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"time"

	"alien_rfid_go/internal/protocol/alien"
)

// DefaultTCPPort is the reader's factory command port.
const DefaultTCPPort = 4001

// TCPChannel is a Channel over one reader TCP session.
type TCPChannel struct {
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
}

// DialTCP connects to host:port. A non-positive port selects the
// factory default.
func DialTCP(host string, port int, timeout time.Duration) (*TCPChannel, error) {
	if port <= 0 {
		port = DefaultTCPPort
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", alien.ErrConnection, addr, err)
	}
	return &TCPChannel{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		timeout: timeout,
	}, nil
}

func (c *TCPChannel) Write(p []byte) (int, error) {
	_ = c.conn.SetWriteDeadline(deadline(c.timeout))
	n, err := c.conn.Write(p)
	if err != nil {
		return n, wrapNetErr("write", err)
	}
	return n, nil
}

func (c *TCPChannel) ReadUntil(delim byte) (string, error) {
	_ = c.conn.SetReadDeadline(deadline(c.timeout))
	data, err := c.reader.ReadString(delim)
	if err != nil {
		return data, wrapNetErr("read", err)
	}
	return data, nil
}

func (c *TCPChannel) SetTimeout(d time.Duration) {
	c.timeout = d
}

func (c *TCPChannel) Close() error {
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", alien.ErrConnection, err)
	}
	return nil
}

func deadline(timeout time.Duration) time.Time {
	if timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(timeout)
}

func wrapNetErr(op string, err error) error {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %v", alien.ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %v", alien.ErrConnection, op, err)
}
