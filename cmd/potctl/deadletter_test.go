package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PotSettle_Go/internal/event"
)

func writeDeadLetters(t *testing.T, path string, evts ...event.Event) {
	t.Helper()
	w, err := event.NewDeadLetterWriter(path)
	require.NoError(t, err)
	for _, evt := range evts {
		require.NoError(t, w.Write(evt, 4, errors.New("store down")))
	}
	require.NoError(t, w.Close())
}

func TestDeadLetterList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dl.jsonl")
	writeDeadLetters(t, path,
		event.NewPotEvent(event.PotCreated, "pot-1", "alice", ""),
		event.New(event.PenaltyApplied, event.PenaltyPayloadV1{PotID: "pot-1", Participant: "bob"}),
	)

	out, err := execute("deadletter", "list", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "TYPE")
	assert.Contains(t, out, string(event.PotCreated))
	assert.Contains(t, out, string(event.PenaltyApplied))
	assert.Contains(t, out, "store down")
}

func TestDeadLetterList_MissingFileIsEmpty(t *testing.T) {
	out, err := execute("deadletter", "list", "--file", filepath.Join(t.TempDir(), "none.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, "TIME  TYPE  ATTEMPTS  LAST ERROR\n", out)
}

func TestDeadLetterReplay_NothingToDo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dl.jsonl")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	out, err := execute("deadletter", "replay", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to replay")
}

func TestRewriteDeadLetters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dl.jsonl")
	writeDeadLetters(t, path,
		event.New(event.SweepCompleted, nil),
		event.New(event.LedgerCleared, nil),
	)
	entries, err := loadDeadLetters(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, rewriteDeadLetters(path, entries[1:]))

	kept, err := loadDeadLetters(path)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, event.LedgerCleared, kept[0].Event.Type)

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.Empty(t, matches)
}
