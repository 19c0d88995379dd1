package sdk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alien_rfid_go/internal/protocol/alien"
	"alien_rfid_go/internal/transport"
)

func newTestClient(t *testing.T) (*Client, *transport.Emulator) {
	t.Helper()
	emu := transport.NewEmulator()
	client, err := NewClient(emu, Config{})
	require.NoError(t, err)
	return client, emu
}

func TestNewClientForcesTextTagListFormat(t *testing.T) {
	_, emu := newTestClient(t)
	format, ok := emu.Setting("TagListFormat")
	require.True(t, ok)
	assert.Equal(t, "Text", format)
}

func TestNewClientLogin(t *testing.T) {
	emu := transport.NewEmulatorWithAuth("alien", "password")
	client, err := NewClient(emu, Config{Login: "alien", Password: "password"})
	require.NoError(t, err)

	value, err := client.Get("PersistTime")
	require.NoError(t, err)
	assert.Equal(t, "5", value)
}

func TestNewClientLoginRejected(t *testing.T) {
	emu := transport.NewEmulatorWithAuth("alien", "password")
	_, err := NewClient(emu, Config{Login: "alien", Password: "wrong"})
	assert.ErrorIs(t, err, alien.ErrAuth)
}

func TestNewClientToleratesUnknownInitialSettings(t *testing.T) {
	emu := transport.NewEmulator()
	_, err := NewClient(emu, Config{
		Settings: map[string]any{
			"NotAReaderSetting": "whatever",
			"PersistTime":       2,
		},
	})
	require.NoError(t, err)

	value, _ := emu.Setting("PersistTime")
	assert.Equal(t, "2", value)
}

func TestSetCollectsPerKeyFailures(t *testing.T) {
	client, emu := newTestClient(t)

	failures, err := client.Set(map[string]any{
		"Bogus":       1,
		"PersistTime": 7,
	})
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "unknown setting")

	value, _ := emu.Setting("PersistTime")
	assert.Equal(t, "7", value)
}

func TestSetCollectsEncodeFailures(t *testing.T) {
	client, emu := newTestClient(t)

	failures, err := client.Set(map[string]any{
		"Mask":        "not-hex",
		"PersistTime": 7,
	})
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "not hex")

	value, _ := emu.Setting("PersistTime")
	assert.Equal(t, "7", value)
}

func TestSetRejectsReadOnlySetting(t *testing.T) {
	client, _ := newTestClient(t)
	failures, err := client.Set(map[string]any{"ReaderVersion": "nope"})
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "read-only")
}

func TestSetAndGetAreCaseInsensitive(t *testing.T) {
	client, _ := newTestClient(t)

	for _, name := range []string{"PersistTime", "PERSISTTIME", "persisttime"} {
		failures, err := client.Set(map[string]any{name: 9})
		require.NoError(t, err)
		require.Empty(t, failures, "set via %q", name)

		value, err := client.Get(name)
		require.NoError(t, err)
		assert.Equal(t, "9", value, "get via %q", name)
	}
}

func TestGetAllAbortsOnUnknownSetting(t *testing.T) {
	client, _ := newTestClient(t)
	_, err := client.GetAll("PersistTime", "Bogus", "AcquireMode")
	assert.ErrorIs(t, err, alien.ErrUnknownSetting)
}

func TestGetAllReturnsDecodedValues(t *testing.T) {
	client, _ := newTestClient(t)
	values, err := client.GetAll("PersistTime", "Mask", "AntennaSequence")
	require.NoError(t, err)
	assert.Equal(t, "5", values["PersistTime"])
	assert.Equal(t, "", values["Mask"])
	assert.Equal(t, []string{"0"}, values["AntennaSequence"])
}

func TestMaskSetGetRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)

	failures, err := client.Set(map[string]any{"Mask": "8000800433065081"})
	require.NoError(t, err)
	require.Empty(t, failures)

	value, err := client.Get("Mask")
	require.NoError(t, err)
	assert.Equal(t, "8000800433065081/64", value)
}

func TestAntennaSequenceSetGetRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)

	cases := []struct {
		value []int
		want  []string
	}{
		{[]int{0}, []string{"0"}},
		{[]int{1, 0}, []string{"1", "0"}},
		{[]int{1}, []string{"1"}},
	}
	for _, tc := range cases {
		failures, err := client.Set(map[string]any{"AntennaSequence": tc.value})
		require.NoError(t, err)
		require.Empty(t, failures)

		value, err := client.Get("AntennaSequence")
		require.NoError(t, err)
		assert.Equal(t, tc.want, value, "sequence %v", tc.value)
	}
}

func TestTimeSetGetRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	at := time.Date(2010, 6, 20, 10, 16, 12, 0, time.UTC)

	failures, err := client.Set(map[string]any{"Time": at})
	require.NoError(t, err)
	require.Empty(t, failures)

	value, err := client.Get("Time")
	require.NoError(t, err)
	assert.Equal(t, at.Unix(), value)
}

func TestVersion(t *testing.T) {
	client, _ := newTestClient(t)

	info, err := client.Version()
	require.NoError(t, err)
	assert.Equal(t, "RFID-Alien-Reader-Test", info.ReaderType)
	assert.Equal(t, "0.001", info.Software)
	assert.Equal(t, transport.EmulatorVersion, info.String)

	raw, err := client.Get("ReaderVersionString")
	require.NoError(t, err)
	assert.Equal(t, transport.EmulatorVersion, raw)
}

func TestReadTags(t *testing.T) {
	client, _ := newTestClient(t)

	tags, err := client.ReadTags()
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "8000800433065081", tags[0].ID)
	assert.Equal(t, 0, tags[0].Antenna)
	assert.Equal(t, "1", tags[0].Attrs["count"])
}

func TestReadTagsEmptyOffAntennaZero(t *testing.T) {
	client, _ := newTestClient(t)

	failures, err := client.Set(map[string]any{"AntennaSequence": []int{1}})
	require.NoError(t, err)
	require.Empty(t, failures)

	tags, err := client.ReadTags()
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestReadTagsWithNumReads(t *testing.T) {
	client, _ := newTestClient(t)
	tags, err := client.ReadTagsWith(nil, 3)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestReadTagsWithOverridesRevertsState(t *testing.T) {
	client, emu := newTestClient(t)

	tags, err := client.ReadTagsWith(map[string]any{"AntennaSequence": []int{1}}, 0)
	require.NoError(t, err)
	assert.Empty(t, tags)

	sequence, _ := emu.Setting("AntennaSequence")
	assert.Equal(t, "0", sequence)

	tags, err = client.ReadTags()
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestPushPopOverridesRestoresValue(t *testing.T) {
	client, emu := newTestClient(t)

	require.NoError(t, client.PushOverrides(map[string]any{"PersistTime": 9}))
	value, _ := emu.Setting("PersistTime")
	assert.Equal(t, "9", value)

	require.NoError(t, client.PopOverrides())
	value, _ = emu.Setting("PersistTime")
	assert.Equal(t, "5", value)
}

func TestPushOverridesNested(t *testing.T) {
	client, emu := newTestClient(t)

	require.NoError(t, client.PushOverrides(map[string]any{"PersistTime": 9}))
	require.NoError(t, client.PushOverrides(map[string]any{"PersistTime": 11}))

	require.NoError(t, client.PopOverrides())
	value, _ := emu.Setting("PersistTime")
	assert.Equal(t, "9", value)

	require.NoError(t, client.PopOverrides())
	value, _ = emu.Setting("PersistTime")
	assert.Equal(t, "5", value)
}

func TestPopOverridesWithoutPushPanics(t *testing.T) {
	client, _ := newTestClient(t)
	assert.Panics(t, func() { _ = client.PopOverrides() })
}

func TestPushOverridesApplyFailureRestoresState(t *testing.T) {
	client, emu := newTestClient(t)

	// PersistTime sorts before ReaderVersion, so it takes effect before
	// the read-only key fails the apply; the failure must undo it.
	err := client.PushOverrides(map[string]any{
		"PersistTime":   9,
		"ReaderVersion": "nope",
	})
	require.Error(t, err)

	value, _ := emu.Setting("PersistTime")
	assert.Equal(t, "5", value)
	assert.Panics(t, func() { _ = client.PopOverrides() })
}

func TestPushOverridesUnknownSettingFails(t *testing.T) {
	client, _ := newTestClient(t)
	err := client.PushOverrides(map[string]any{"Bogus": 1})
	require.ErrorIs(t, err, alien.ErrUnknownSetting)
	// The failed push must not leave a stale snapshot behind.
	assert.Panics(t, func() { _ = client.PopOverrides() })
}

func TestSleepAndWakeTags(t *testing.T) {
	client, _ := newTestClient(t)
	assert.NoError(t, client.SleepTags(nil))
	assert.NoError(t, client.WakeTags(nil))
}

func TestSleepTagsWithMaskOverride(t *testing.T) {
	client, _ := newTestClient(t)

	require.NoError(t, client.SleepTags(map[string]any{"Mask": "8000/16"}))

	// The pre-call mask was all-tags; the restore must decode back to it.
	value, err := client.Get("Mask")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestDebugAndTimeoutAreLocal(t *testing.T) {
	client, _ := newTestClient(t)

	failures, err := client.Set(map[string]any{"Debug": true})
	require.NoError(t, err)
	require.Empty(t, failures)
	value, err := client.Get("Debug")
	require.NoError(t, err)
	assert.Equal(t, true, value)

	failures, err = client.Set(map[string]any{"Timeout": 5 * time.Second})
	require.NoError(t, err)
	require.Empty(t, failures)
	value, err = client.Get("Timeout")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, value)
}

func TestRebootSendsWithoutReading(t *testing.T) {
	client, _ := newTestClient(t)
	assert.NoError(t, client.Reboot())
}

func TestTagOrderingAndEquality(t *testing.T) {
	tags := []Tag{{ID: "FFFF"}, {ID: "0001"}}
	SortTags(tags)
	assert.Equal(t, "0001", tags[0].ID)
	assert.True(t, Tag{ID: "0001", Antenna: 3}.Equal(Tag{ID: "0001"}))
}
