// Package event matches runtime triggers against authored script prefabs
// and runs the survivors through a FIFO execution queue, one command per
// host tick.
package event

import (
	"github.com/stephenjayakar/lt-web-sub000/model"
	"github.com/stephenjayakar/lt-web-sub000/script"
)

// Prefab is the authored, immutable definition of one event script. Loaded
// once and registered with the manager; never mutated at runtime.
type Prefab struct {
	Nid       string   `json:"nid"`
	Trigger   string   `json:"trigger"`
	LevelNid  string   `json:"levelNid,omitempty"` // empty = any level
	Condition string   `json:"condition,omitempty"`
	Priority  int      `json:"priority,omitempty"` // higher fires first
	OnlyOnce  bool     `json:"onlyOnce,omitempty"`
	Source    []string `json:"source"`
}

// Trigger is a transient runtime stimulus dispatched to find matching
// prefabs. The raiser supplies whichever references the event concerns;
// they win over dispatch-time context on conflict.
type Trigger struct {
	Type     string
	LevelNid string
	Unit     *model.Unit
	Unit2    *model.Unit
	Position *model.Position
	Region   *model.Region
	Item     *model.Item
	Locals   map[string]any
}

// Context wraps the trigger's references as an evaluation context.
func (t Trigger) Context() script.Context {
	return script.Context{
		Unit:     t.Unit,
		Unit2:    t.Unit2,
		Position: t.Position,
		Region:   t.Region,
		Item:     t.Item,
		Locals:   t.Locals,
	}
}

// Conventional trigger types. Matching is by string equality — the set is
// open, this list documents the names the host raises.
const (
	TriggerLevelStart      = "level_start"
	TriggerLevelEnd        = "level_end"
	TriggerTurnChange      = "turn_change"
	TriggerEnemyTurnChange = "enemy_turn_change"
	TriggerUnitDeath       = "unit_death"
	TriggerUnitWait        = "unit_wait"
	TriggerUnitSelect      = "unit_select"
	TriggerUnitTalk        = "unit_talk"
	TriggerRegionInteract  = "region_interact"
	TriggerCombatStart     = "combat_start"
	TriggerCombatEnd       = "combat_end"
	TriggerItemUse         = "item_use"
	TriggerGameOver        = "game_over"
)
