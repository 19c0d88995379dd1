package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alien_rfid_go/internal/protocol/alien"
)

func TestTCPChannelRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 64)
		if _, err := conn.Read(buf); err != nil {
			return
		}
		_, _ = conn.Write([]byte("get Mask\r\nMask = All Tags\r\n\x00"))
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	ch, err := DialTCP("127.0.0.1", port, time.Second)
	require.NoError(t, err)
	defer ch.Close()

	_, err = ch.Write(alien.Command("get Mask"))
	require.NoError(t, err)

	raw, err := ch.ReadUntil(alien.Terminator)
	require.NoError(t, err)
	assert.Contains(t, raw, "Mask = All Tags")
	assert.Equal(t, alien.Terminator, raw[len(raw)-1])
}

func TestTCPChannelReadTimeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		// Hold the connection open without ever responding.
		defer conn.Close()
		time.Sleep(500 * time.Millisecond)
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	ch, err := DialTCP("127.0.0.1", port, 50*time.Millisecond)
	require.NoError(t, err)
	defer ch.Close()

	_, err = ch.ReadUntil(alien.Terminator)
	assert.ErrorIs(t, err, alien.ErrTimeout)
}

func TestDialTCPRefused(t *testing.T) {
	// Grab a port and close it again so nothing listens there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	_, err = DialTCP("127.0.0.1", port, 200*time.Millisecond)
	assert.ErrorIs(t, err, alien.ErrConnection)
}
