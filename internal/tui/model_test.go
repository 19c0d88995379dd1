package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alien_rfid_go/sdk"
)

func TestMergeCountsRepeatedReads(t *testing.T) {
	m := NewModel(nil, "test")

	m.merge([]sdk.Tag{{ID: "AAAA", Antenna: 0}, {ID: "BBBB", Antenna: 1}})
	m.merge([]sdk.Tag{{ID: "AAAA", Antenna: 0}})

	require.Len(t, m.order, 2)
	assert.Equal(t, 2, m.rows["AAAA"].Reads)
	assert.Equal(t, 1, m.rows["BBBB"].Reads)
	assert.Equal(t, []string{"AAAA", "BBBB"}, m.order)
}

func TestPollDoneSchedulesNextTick(t *testing.T) {
	m := NewModel(nil, "test")

	updated, cmd := m.Update(pollDoneMsg{Tags: []sdk.Tag{{ID: "AAAA"}}})
	next, ok := updated.(Model)
	require.True(t, ok)
	assert.Equal(t, 1, next.polls)
	assert.NotNil(t, cmd)
}

func TestPollErrorIsKeptForView(t *testing.T) {
	m := NewModel(nil, "test")

	updated, _ := m.Update(pollDoneMsg{Err: assert.AnError})
	next := updated.(Model)
	assert.Equal(t, assert.AnError, next.lastErr)
	assert.Empty(t, next.order)
}
