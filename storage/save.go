// Package storage persists save-slot snapshots: a suspended event run, the
// variable stores, and the fired-once set. Restoring a snapshot against
// the same script sources reproduces identical subsequent behavior.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/stephenjayakar/lt-web-sub000/model"
	"github.com/stephenjayakar/lt-web-sub000/script"
)

// ErrNotFound is returned when a save slot does not exist.
var ErrNotFound = errors.New("save slot not found")

// SuspendedEvent is an in-progress cutscene captured mid-run.
type SuspendedEvent struct {
	PrefabNid string       `json:"prefabNid"`
	State     script.State `json:"state"`
}

// Snapshot is one save slot's scripting state.
type Snapshot struct {
	SlotID    uuid.UUID       `json:"slotId"`
	LevelNid  string          `json:"levelNid,omitempty"`
	Suspended *SuspendedEvent `json:"suspended,omitempty"`
	GameVars  model.Vars      `json:"gameVars,omitempty"`
	LevelVars model.Vars      `json:"levelVars,omitempty"`
	FiredOnce map[string]bool `json:"firedOnce,omitempty"`
	SavedAt   time.Time       `json:"savedAt"`
}

// SaveStore keeps snapshots in Redis, one key per slot.
type SaveStore struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewSaveStore(addr string, logger *slog.Logger) *SaveStore {
	return &SaveStore{
		rdb:    redis.NewClient(&redis.Options{Addr: addr}),
		logger: logger,
	}
}

func slotKey(slotID uuid.UUID) string {
	return fmt.Sprintf("save:%s", slotID.String())
}

func (s *SaveStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Save writes the snapshot, stamping SavedAt.
func (s *SaveStore) Save(ctx context.Context, snap Snapshot) error {
	snap.SavedAt = time.Now().UTC()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, slotKey(snap.SlotID), data, 0).Err(); err != nil {
		s.logger.Error("save slot write failed", "slot", snap.SlotID, "error", err)
		return fmt.Errorf("write save slot: %w", err)
	}
	s.logger.Debug("save slot written", "slot", snap.SlotID, "level", snap.LevelNid)
	return nil
}

// Load reads a snapshot. A missing slot is ErrNotFound, not a redis error.
func (s *SaveStore) Load(ctx context.Context, slotID uuid.UUID) (*Snapshot, error) {
	data, err := s.rdb.Get(ctx, slotKey(slotID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		s.logger.Error("save slot read failed", "slot", slotID, "error", err)
		return nil, fmt.Errorf("read save slot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Delete removes a slot. Deleting a missing slot is not an error.
func (s *SaveStore) Delete(ctx context.Context, slotID uuid.UUID) error {
	if err := s.rdb.Del(ctx, slotKey(slotID)).Err(); err != nil {
		return fmt.Errorf("delete save slot: %w", err)
	}
	return nil
}

func (s *SaveStore) Close() error {
	if err := s.rdb.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}
	return nil
}
