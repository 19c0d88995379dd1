package transport

import (
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"

	"alien_rfid_go/internal/protocol/alien"
)

// DefaultBaud is the reader's factory line speed (8N1, no handshake).
const DefaultBaud = 115200

// SerialChannel is a Channel over a local serial link.
type SerialChannel struct {
	port    serial.Port
	timeout time.Duration
}

// OpenSerial opens device at baud (factory default when non-positive)
// with 8 data bits, 1 stop bit, no parity and no handshake, and purges
// any stale buffered bytes before first use.
func OpenSerial(device string, baud int, timeout time.Duration) (*SerialChannel, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", alien.ErrConnection, device, err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("%w: purge %s: %v", alien.ErrConnection, device, err)
	}
	return &SerialChannel{port: port, timeout: timeout}, nil
}

func (c *SerialChannel) Write(p []byte) (int, error) {
	n, err := c.port.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: write: %v", alien.ErrConnection, err)
	}
	return n, nil
}

func (c *SerialChannel) ReadUntil(delim byte) (string, error) {
	var data strings.Builder
	buf := make([]byte, 1)
	end := time.Now().Add(c.timeout)

	for {
		remaining := time.Until(end)
		if remaining <= 0 {
			return data.String(), fmt.Errorf("%w: read: no delimiter within %s", alien.ErrTimeout, c.timeout)
		}
		_ = c.port.SetReadTimeout(remaining)

		n, err := c.port.Read(buf)
		if err != nil {
			return data.String(), fmt.Errorf("%w: read: %v", alien.ErrConnection, err)
		}
		if n == 0 {
			// The driver consumed the whole remaining window.
			return data.String(), fmt.Errorf("%w: read: no delimiter within %s", alien.ErrTimeout, c.timeout)
		}
		data.WriteByte(buf[0])
		if buf[0] == delim {
			return data.String(), nil
		}
	}
}

func (c *SerialChannel) SetTimeout(d time.Duration) {
	c.timeout = d
}

func (c *SerialChannel) Close() error {
	if err := c.port.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", alien.ErrConnection, err)
	}
	return nil
}
