package storage

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephenjayakar/lt-web-sub000/model"
	"github.com/stephenjayakar/lt-web-sub000/script"
)

func testStore(t *testing.T) *SaveStore {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewSaveStore(mr.Addr(), slog.Default())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveStoreRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	snap := Snapshot{
		SlotID:   uuid.New(),
		LevelNid: "ch5",
		Suspended: &SuspendedEvent{
			PrefabNid: "ambush",
			State: script.State{
				PC:     7,
				Locals: map[string]any{"favor": float64(10)},
			},
		},
		GameVars:  model.Vars{"chapters_cleared": float64(2)},
		LevelVars: model.Vars{"ambush_sprung": true},
		FiredOnce: map[string]bool{"intro": true},
	}
	require.NoError(t, store.Save(ctx, snap))

	got, err := store.Load(ctx, snap.SlotID)
	require.NoError(t, err)

	assert.Equal(t, snap.SlotID, got.SlotID)
	assert.Equal(t, snap.LevelNid, got.LevelNid)
	require.NotNil(t, got.Suspended)
	assert.Equal(t, "ambush", got.Suspended.PrefabNid)
	assert.Equal(t, 7, got.Suspended.State.PC)
	assert.Equal(t, snap.Suspended.State.Locals, got.Suspended.State.Locals)
	assert.Equal(t, snap.GameVars, got.GameVars)
	assert.Equal(t, snap.LevelVars, got.LevelVars)
	assert.Equal(t, snap.FiredOnce, got.FiredOnce)
	assert.WithinDuration(t, time.Now().UTC(), got.SavedAt, time.Minute)
}

func TestSaveStoreOverwrite(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	slot := uuid.New()

	require.NoError(t, store.Save(ctx, Snapshot{SlotID: slot, LevelNid: "ch1"}))
	require.NoError(t, store.Save(ctx, Snapshot{SlotID: slot, LevelNid: "ch2"}))

	got, err := store.Load(ctx, slot)
	require.NoError(t, err)
	assert.Equal(t, "ch2", got.LevelNid)
}

func TestSaveStoreLoadMissing(t *testing.T) {
	store := testStore(t)

	_, err := store.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveStoreDelete(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	slot := uuid.New()

	require.NoError(t, store.Save(ctx, Snapshot{SlotID: slot}))
	require.NoError(t, store.Delete(ctx, slot))

	_, err := store.Load(ctx, slot)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op, not an error.
	assert.NoError(t, store.Delete(ctx, slot))
}
