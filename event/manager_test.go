package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephenjayakar/lt-web-sub000/model"
	"github.com/stephenjayakar/lt-web-sub000/script"
)

func testGame() *model.GameState {
	return &model.GameState{
		LevelNid:  "ch5",
		TurnCount: 1,
		Units: []*model.Unit{
			{Nid: "Eirika", Name: "Eirika", Team: "player"},
			{Nid: "Valter", Name: "Valter", Team: "enemy"},
		},
		GameVars:  model.Vars{},
		LevelVars: model.Vars{},
	}
}

func speakPrefab(nid string, priority int) *Prefab {
	return &Prefab{
		Nid:      nid,
		Trigger:  TriggerTurnChange,
		Priority: priority,
		Source:   []string{"s;" + nid},
	}
}

// drainAll plays the host loop: advance the head, dequeue exhausted
// instances, until the queue empties.
func drainAll(m *Manager) []*script.Command {
	var out []*script.Command
	for m.HasPendingWork() {
		cmd := m.FetchNextCommand()
		if cmd == nil {
			m.DequeueCompleted()
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func TestTriggerFiltersByTypeAndScope(t *testing.T) {
	game := testGame()
	m := NewManager(game)
	m.RegisterAll([]*Prefab{
		{Nid: "right", Trigger: TriggerTurnChange, Source: []string{"s;right"}},
		{Nid: "wrong-type", Trigger: TriggerUnitDeath, Source: []string{"s;wrong"}},
		{Nid: "wrong-level", Trigger: TriggerTurnChange, LevelNid: "ch9", Source: []string{"s;wrong"}},
		{Nid: "scoped-right", Trigger: TriggerTurnChange, LevelNid: "ch5", Source: []string{"s;scoped"}},
	})

	fired := m.Trigger(Trigger{Type: TriggerTurnChange, LevelNid: "ch5"}, script.Context{})
	require.True(t, fired)

	cmds := drainAll(m)
	require.Len(t, cmds, 2)
	assert.Equal(t, "right", cmds[0].Args[0])
	assert.Equal(t, "scoped", cmds[1].Args[0])
}

func TestTriggerPriorityOrder(t *testing.T) {
	m := NewManager(testGame())
	m.RegisterAll([]*Prefab{
		speakPrefab("low", 10),
		speakPrefab("tie-a", 50),
		speakPrefab("high", 90),
		speakPrefab("tie-b", 50),
	})

	m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{})
	cmds := drainAll(m)

	require.Len(t, cmds, 4)
	got := []string{cmds[0].Args[0], cmds[1].Args[0], cmds[2].Args[0], cmds[3].Args[0]}
	// Descending priority, registration order on ties.
	assert.Equal(t, []string{"high", "tie-a", "tie-b", "low"}, got)
}

func TestTriggerFireOnce(t *testing.T) {
	m := NewManager(testGame())
	p := speakPrefab("once", 0)
	p.OnlyOnce = true
	m.Register(p)

	require.True(t, m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{}))
	assert.Len(t, drainAll(m), 1)

	assert.False(t, m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{}),
		"second satisfying trigger must not fire a fire-once prefab")
	assert.Empty(t, drainAll(m))
}

func TestTriggerFireOnceFalseCheckDoesNotConsume(t *testing.T) {
	game := testGame()
	m := NewManager(game)
	p := speakPrefab("gated", 0)
	p.OnlyOnce = true
	p.Condition = "game.turncount >= 3"
	m.Register(p)

	// False at first check: emits nothing, budget intact.
	assert.False(t, m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{}))

	// Once true: fires exactly once.
	game.TurnCount = 3
	assert.True(t, m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{}))
	assert.Len(t, drainAll(m), 1)

	// Later true re-check: nothing further.
	assert.False(t, m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{}))
}

func TestTriggerConditionSeesTriggerUnit(t *testing.T) {
	game := testGame()
	m := NewManager(game)
	m.Register(&Prefab{
		Nid:       "boss-death",
		Trigger:   TriggerUnitDeath,
		Condition: "unit.nid == 'Valter'",
		Source:    []string{"s;narrator;The boss falls."},
	})

	assert.False(t, m.Trigger(Trigger{Type: TriggerUnitDeath, Unit: game.GetUnit("Eirika")}, script.Context{}))
	assert.True(t, m.Trigger(Trigger{Type: TriggerUnitDeath, Unit: game.GetUnit("Valter")}, script.Context{}))
}

func TestShouldTriggerDoesNotFire(t *testing.T) {
	m := NewManager(testGame())
	p := speakPrefab("talk", 0)
	p.OnlyOnce = true
	m.Register(p)

	assert.True(t, m.ShouldTrigger(Trigger{Type: TriggerTurnChange}, script.Context{}))
	assert.False(t, m.HasPendingWork(), "query variant must not enqueue")
	// The fire-once budget is untouched.
	assert.True(t, m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{}))
}

func TestQueueHeadOnlyAdvances(t *testing.T) {
	m := NewManager(testGame())
	m.RegisterAll([]*Prefab{
		{Nid: "first", Trigger: TriggerTurnChange, Priority: 1,
			Source: []string{"s;first;a", "s;first;b"}},
		{Nid: "second", Trigger: TriggerTurnChange,
			Source: []string{"s;second;a"}},
	})
	m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{})

	// All of the head's commands come out before the second instance's.
	cmds := drainAll(m)
	require.Len(t, cmds, 3)
	assert.Equal(t, "first", cmds[0].Args[0])
	assert.Equal(t, "first", cmds[1].Args[0])
	assert.Equal(t, "second", cmds[2].Args[0])
}

func TestEmptyInstanceNotEnqueued(t *testing.T) {
	m := NewManager(testGame())
	m.Register(&Prefab{
		Nid:     "comments-only",
		Trigger: TriggerTurnChange,
		Source:  []string{"# nothing here", ""},
	})
	assert.False(t, m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{}))
	assert.False(t, m.HasPendingWork())
}

func TestIndentedWithoutCommandsNotEnqueued(t *testing.T) {
	m := NewManager(testGame())
	m.Register(&Prefab{
		Nid:     "bookkeeping-only",
		Trigger: TriggerTurnChange,
		Source: []string{
			script.DialectSentinel,
			"# nothing visible happens here",
			"x = 1",
		},
	})
	assert.False(t, m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{}))
	assert.False(t, m.HasPendingWork())
}

func TestInstanceIdentity(t *testing.T) {
	m := NewManager(testGame())
	m.RegisterAll([]*Prefab{
		speakPrefab("first", 1),
		speakPrefab("second", 0),
	})
	m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{})

	first := m.Head()
	require.NotNil(t, first)
	assert.NotEqual(t, uuid.Nil, first.ID)

	for m.FetchNextCommand() != nil {
	}
	m.DequeueCompleted()

	second := m.Head()
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestClearDropsQueue(t *testing.T) {
	m := NewManager(testGame())
	m.Register(speakPrefab("doomed", 0))
	m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{})
	require.True(t, m.HasPendingWork())

	m.Clear()
	assert.False(t, m.HasPendingWork())
}

func TestResetClearsFiredOnce(t *testing.T) {
	m := NewManager(testGame())
	p := speakPrefab("once", 0)
	p.OnlyOnce = true
	m.Register(p)

	m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{})
	drainAll(m)
	require.False(t, m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{}))

	m.Reset()
	assert.True(t, m.Trigger(Trigger{Type: TriggerTurnChange}, script.Context{}),
		"reset must restore the fire-once budget")
}

func TestIndentedPrefabInstance(t *testing.T) {
	m := NewManager(testGame())
	m.Register(&Prefab{
		Nid:     "cutscene",
		Trigger: TriggerLevelStart,
		Source: []string{
			script.DialectSentinel,
			"if game.turncount == 1:",
			"    $speak;narrator;It begins.",
			"else:",
			"    $speak;narrator;It continues.",
		},
	})
	m.Trigger(Trigger{Type: TriggerLevelStart}, script.Context{})

	cmds := drainAll(m)
	require.Len(t, cmds, 1)
	assert.Equal(t, script.KindSpeak, cmds[0].Kind)
	assert.Equal(t, "It begins.", cmds[0].Args[1])
}

func TestSuspendAndResumeInstance(t *testing.T) {
	game := testGame()
	prefab := &Prefab{
		Nid:     "long-scene",
		Trigger: TriggerLevelStart,
		Source: []string{
			script.DialectSentinel,
			"$speak;narrator;part one",
			"$speak;narrator;part two",
			"$speak;narrator;part three",
		},
	}

	m := NewManager(game)
	m.Register(prefab)
	m.Trigger(Trigger{Type: TriggerLevelStart}, script.Context{})

	first := m.FetchNextCommand()
	require.NotNil(t, first)
	assert.Equal(t, "part one", first.Args[1])

	st, ok := m.Head().Save()
	require.True(t, ok)

	// A fresh manager (new process, post-load) resumes from the snapshot.
	m2 := NewManager(game)
	m2.Register(prefab)
	require.NoError(t, m2.ResumeInstance("long-scene", st, script.Context{}))

	cmds := drainAll(m2)
	require.Len(t, cmds, 2)
	assert.Equal(t, "part two", cmds[0].Args[1])
	assert.Equal(t, "part three", cmds[1].Args[1])

	assert.Error(t, m2.ResumeInstance("nonexistent", st, script.Context{}))
}
