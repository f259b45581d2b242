package script

import (
	"testing"

	"github.com/stephenjayakar/lt-web-sub000/model"
)

func testContext() Context {
	game := &model.GameState{
		LevelNid:  "ch2",
		TurnCount: 5,
		Units: []*model.Unit{
			{Nid: "Eirika", Name: "Eirika", Team: "player", HP: 16, MaxHP: 16},
			{Nid: "Bone", Name: "Bone", Team: "enemy", HP: 0, MaxHP: 20, Dead: true},
		},
		GameVars:  model.Vars{"chapters_cleared": 2},
		LevelVars: model.Vars{"ambush_sprung": true},
	}
	return Context{
		Game:   game,
		Unit:   game.Units[0],
		Locals: map[string]any{"favor": 10},
	}
}

func TestResolveLiterals(t *testing.T) {
	ctx := Context{}
	tests := []struct {
		ref  string
		want any
	}{
		{"'player'", "player"},
		{`"hi there"`, "hi there"},
		{"42", 42},
		{"-3", -3},
		{"2.5", 2.5},
		{"true", true},
		{"True", true},
		{"False", false},
		{"None", nil},
	}
	for _, tt := range tests {
		got, ok := ctx.Resolve(tt.ref)
		if !ok {
			t.Errorf("Resolve(%q) did not resolve", tt.ref)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestResolveDotted(t *testing.T) {
	ctx := testContext()
	tests := []struct {
		ref  string
		want any
	}{
		{"unit.team", "player"},
		{"unit.name", "Eirika"},
		{"unit.max_hp", 16}, // snake_case convention
		{"game.turncount", 5}, // underscore-blind fold
		{"game.turn_count", 5},
		{"game.level_nid", "ch2"},
		{"favor", 10},             // local variable
		{"chapters_cleared", 2},   // game-scoped store
		{"ambush_sprung", true},   // level-scoped store
		{"unit.alive", true},      // method fallback
	}
	for _, tt := range tests {
		got, ok := ctx.Resolve(tt.ref)
		if !ok {
			t.Errorf("Resolve(%q) did not resolve", tt.ref)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestResolveAbsent(t *testing.T) {
	ctx := testContext()
	for _, ref := range []string{"", "unit.mana", "unit2.team", "nosuchvar", "game.units.bogus"} {
		if v, ok := ctx.Resolve(ref); ok {
			t.Errorf("Resolve(%q) = %v, expected absence", ref, v)
		}
	}
}

func TestResolveOrderLocalShadowsStore(t *testing.T) {
	ctx := testContext()
	ctx.Locals["chapters_cleared"] = 99
	got, ok := ctx.Resolve("chapters_cleared")
	if !ok || got != 99 {
		t.Errorf("expected local to shadow game store, got (%v, %v)", got, ok)
	}
}

func TestMergeTriggerWins(t *testing.T) {
	base := testContext()
	bone := base.Game.GetUnit("Bone")
	merged := base.Merge(Context{Unit: bone})
	if merged.Unit != bone {
		t.Error("expected merged unit to come from the overriding context")
	}
	if merged.Game != base.Game {
		t.Error("expected game root to survive the merge")
	}
}
