package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"

	"github.com/stephenjayakar/lt-web-sub000/event"
	"github.com/stephenjayakar/lt-web-sub000/model"
	"github.com/stephenjayakar/lt-web-sub000/script"
	"github.com/stephenjayakar/lt-web-sub000/storage"
)

// config is the driver's environment configuration.
type config struct {
	ScriptsDir string `env:"SCRIPTS_DIR" envDefault:"./scripts"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	RedisAddr  string `env:"REDIS_ADDR"` // empty disables save persistence
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to parse config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	slog.Info("starting event script driver", "scriptsDir", cfg.ScriptsDir)

	prefabs, err := loadPrefabs(cfg.ScriptsDir)
	if err != nil {
		slog.Error("failed to load scripts", "error", err)
		os.Exit(1)
	}
	slog.Info("scripts loaded", "count", len(prefabs))

	game := &model.GameState{
		LevelNid:  "debug",
		TurnCount: 1,
		GameVars:  model.Vars{},
		LevelVars: model.Vars{},
	}
	mgr := event.NewManager(game)
	mgr.RegisterAll(prefabs)

	// Dry-run: fire level_start and drain the full command stream, one
	// command per iteration the way the host loop would.
	mgr.Trigger(event.Trigger{Type: event.TriggerLevelStart, LevelNid: game.LevelNid},
		script.Context{Game: game})

	for mgr.HasPendingWork() {
		cmd := mgr.FetchNextCommand()
		if cmd == nil {
			mgr.DequeueCompleted()
			continue
		}
		slog.Info("command", "kind", cmd.Kind, "args", strings.Join(cmd.Args, "|"))
	}

	if cfg.RedisAddr != "" {
		saveSnapshot(cfg.RedisAddr, game, mgr)
	}
	slog.Info("done")
}

// saveSnapshot persists the post-run scripting state to a fresh save slot.
func saveSnapshot(addr string, game *model.GameState, mgr *event.Manager) {
	store := storage.NewSaveStore(addr, slog.Default())
	defer store.Close()

	ctx := context.Background()
	if err := store.Ping(ctx); err != nil {
		slog.Error("redis unreachable, skipping save", "addr", addr, "error", err)
		return
	}
	snap := storage.Snapshot{
		SlotID:    uuid.New(),
		LevelNid:  game.LevelNid,
		GameVars:  game.GameVars,
		LevelVars: game.LevelVars,
		FiredOnce: mgr.FiredOnce(),
	}
	if err := store.Save(ctx, snap); err != nil {
		slog.Error("save failed", "error", err)
		return
	}
	slog.Info("state saved", "slot", snap.SlotID)
}

// loadPrefabs reads every *.json prefab in dir.
func loadPrefabs(dir string) ([]*event.Prefab, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	var prefabs []*event.Prefab
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var p event.Prefab
		if err := json.Unmarshal(data, &p); err != nil {
			slog.Warn("skipping unparseable prefab", "path", path, "error", err)
			continue
		}
		prefabs = append(prefabs, &p)
	}
	return prefabs, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
