package event

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/stephenjayakar/lt-web-sub000/model"
	"github.com/stephenjayakar/lt-web-sub000/script"
)

// Manager owns the prefab registry, the fired-once set, and the execution
// queue. Single-threaded by design: the host game loop drives it with
// synchronous calls, once per rendered frame, so no locking is needed.
type Manager struct {
	game      *model.GameState
	prefabs   []*Prefab // registration order preserved for priority ties
	firedOnce map[string]bool
	queue     []*Instance
}

func NewManager(game *model.GameState) *Manager {
	return &Manager{
		game:      game,
		firedOnce: make(map[string]bool),
	}
}

// Register adds a prefab to the registry. Registration order breaks
// priority ties at dispatch.
func (m *Manager) Register(p *Prefab) {
	m.prefabs = append(m.prefabs, p)
}

func (m *Manager) RegisterAll(prefabs []*Prefab) {
	for _, p := range prefabs {
		m.Register(p)
	}
}

// Trigger dispatches a stimulus: every registered prefab whose trigger
// type and scope match, whose fire-once budget remains, and whose
// activation condition passes gets an executable instance appended to the
// queue. Reports whether anything was enqueued.
func (m *Manager) Trigger(trig Trigger, ctx script.Context) bool {
	fired := false
	for _, p := range m.candidates(trig) {
		if p.OnlyOnce && m.firedOnce[p.Nid] {
			continue
		}
		merged := m.mergeContext(ctx, trig)
		if !script.EvalCondition(p.Condition, merged) {
			continue
		}
		if p.OnlyOnce {
			m.firedOnce[p.Nid] = true
		}
		in := newInstance(p, merged)
		if in.empty() {
			slog.Debug("matched prefab has no commands", "prefab", p.Nid)
			continue
		}
		slog.Debug("event fired", "prefab", p.Nid, "instance", in.ID,
			"trigger", trig.Type, "priority", p.Priority)
		m.queue = append(m.queue, in)
		fired = true
	}
	return fired
}

// ShouldTrigger reports whether the stimulus would fire anything, without
// firing it. Used for UI affordances ("can I talk to this NPC now").
func (m *Manager) ShouldTrigger(trig Trigger, ctx script.Context) bool {
	for _, p := range m.candidates(trig) {
		if p.OnlyOnce && m.firedOnce[p.Nid] {
			continue
		}
		if script.EvalCondition(p.Condition, m.mergeContext(ctx, trig)) {
			return true
		}
	}
	return false
}

// candidates filters by trigger type and scope, sorted by descending
// priority with registration order preserved on ties.
func (m *Manager) candidates(trig Trigger) []*Prefab {
	var out []*Prefab
	for _, p := range m.prefabs {
		if p.Trigger != trig.Type {
			continue
		}
		if p.LevelNid != "" && p.LevelNid != trig.LevelNid {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

func (m *Manager) mergeContext(ctx script.Context, trig Trigger) script.Context {
	if ctx.Game == nil {
		ctx.Game = m.game
	}
	return ctx.Merge(trig.Context())
}

// FetchNextCommand advances the queue head only, guaranteeing at most one
// active cutscene stream. Returns nil when the queue is empty or the head
// is exhausted; the host then calls DequeueCompleted.
func (m *Manager) FetchNextCommand() *script.Command {
	if len(m.queue) == 0 {
		return nil
	}
	return m.queue[0].FetchNextCommand()
}

// HasPendingWork reports whether any instance is queued.
func (m *Manager) HasPendingWork() bool {
	return len(m.queue) > 0
}

// Head returns the active instance, or nil. Exposed for save suspension.
func (m *Manager) Head() *Instance {
	if len(m.queue) == 0 {
		return nil
	}
	return m.queue[0]
}

// DequeueCompleted pops exhausted instances off the queue head.
func (m *Manager) DequeueCompleted() {
	for len(m.queue) > 0 && m.queue[0].Done() {
		slog.Debug("event complete", "prefab", m.queue[0].PrefabNid, "instance", m.queue[0].ID)
		m.queue = m.queue[1:]
	}
}

// Clear force-terminates everything queued (level transition, game over).
// Instances hold no external resources, so dropping them is safe.
func (m *Manager) Clear() {
	m.queue = nil
}

// Reset clears the fired-once set (new game).
func (m *Manager) Reset() {
	m.firedOnce = make(map[string]bool)
}

// FiredOnce returns a copy of the fired-once set for persistence.
func (m *Manager) FiredOnce() map[string]bool {
	out := make(map[string]bool, len(m.firedOnce))
	for k, v := range m.firedOnce {
		out[k] = v
	}
	return out
}

// RestoreFiredOnce replaces the fired-once set from a save file.
func (m *Manager) RestoreFiredOnce(fired map[string]bool) {
	m.firedOnce = make(map[string]bool, len(fired))
	for k, v := range fired {
		m.firedOnce[k] = v
	}
}

// ResumeInstance rebuilds a suspended indented-dialect run from saved
// state and puts it at the queue head so it finishes before anything else.
func (m *Manager) ResumeInstance(prefabNid string, st script.State, ctx script.Context) error {
	var prefab *Prefab
	for _, p := range m.prefabs {
		if p.Nid == prefabNid {
			prefab = p
			break
		}
	}
	if prefab == nil {
		return fmt.Errorf("resume event: unknown prefab %q", prefabNid)
	}
	if ctx.Game == nil {
		ctx.Game = m.game
	}
	in := restoredInstance(prefab, st, ctx)
	m.queue = append([]*Instance{in}, m.queue...)
	return nil
}
