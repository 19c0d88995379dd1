package transport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alien_rfid_go/internal/protocol/alien"
)

func roundTrip(t *testing.T, emu *Emulator, command string) string {
	t.Helper()
	_, err := emu.Write(alien.Command(command))
	require.NoError(t, err)
	raw, err := emu.ReadUntil(alien.Terminator)
	require.NoError(t, err)
	return raw
}

func TestEmulatorEchoesCommand(t *testing.T) {
	emu := NewEmulator()
	raw := roundTrip(t, emu, "get PersistTime")
	assert.True(t, strings.HasPrefix(raw, "get PersistTime\r\n"))
	assert.Contains(t, raw, "PersistTime = 5")
	assert.True(t, strings.HasSuffix(raw, string(alien.Terminator)))
}

func TestEmulatorSetUpdatesTable(t *testing.T) {
	emu := NewEmulator()
	roundTrip(t, emu, "set AcquireMode = Global Scroll")

	value, ok := emu.Setting("acquiremode")
	require.True(t, ok)
	assert.Equal(t, "Global Scroll", value)
}

func TestEmulatorUnknownSetting(t *testing.T) {
	emu := NewEmulator()
	raw := roundTrip(t, emu, "get Frobnicate")
	assert.Contains(t, raw, "Error")
}

func TestEmulatorTagListGatedOnAntennaZero(t *testing.T) {
	emu := NewEmulator()

	raw := roundTrip(t, emu, "get TagList")
	assert.Contains(t, raw, "Tag:8000 8004 3306 5081")

	roundTrip(t, emu, "set AntennaSequence = 1")
	raw = roundTrip(t, emu, "get TagList")
	assert.Contains(t, raw, alien.NoTagsMarker)
}

func TestEmulatorReadWithNothingPendingTimesOut(t *testing.T) {
	emu := NewEmulator()
	_, err := emu.ReadUntil(alien.Terminator)
	assert.ErrorIs(t, err, alien.ErrTimeout)
}

func TestEmulatorLoginHandshake(t *testing.T) {
	emu := NewEmulatorWithAuth("alien", "password")

	_, err := emu.Write([]byte("alien\r\n"))
	require.NoError(t, err)
	prompt, err := emu.ReadUntil('>')
	require.NoError(t, err)
	assert.Equal(t, alien.PasswordPrompt, prompt)

	_, err = emu.Write([]byte("password\r\n"))
	require.NoError(t, err)
	banner, err := emu.ReadUntil('>')
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(banner, alien.Banner+">"))
}
