package model

// Vars is a string-keyed variable store. Two instances exist per game: one
// game-scoped (persists across levels and into save files) and one
// level-scoped (reset on level transition). Injected explicitly so tests
// can construct isolated contexts.
type Vars map[string]any

// Get returns the value and whether the key exists.
func (v Vars) Get(key string) (any, bool) {
	if v == nil {
		return nil, false
	}
	val, ok := v[key]
	return val, ok
}

func (v Vars) Set(key string, value any) {
	if v != nil {
		v[key] = value
	}
}

func (v Vars) Delete(key string) {
	delete(v, key)
}

// GameState is the live game snapshot scripts evaluate against.
type GameState struct {
	LevelNid  string              `json:"levelNid"`
	TurnCount int                 `json:"turncount"`
	Mode      string              `json:"mode,omitempty"`
	Units     []*Unit             `json:"units"`
	Regions   []*Region           `json:"regions,omitempty"`
	Items     []*Item             `json:"items,omitempty"`
	Alliances map[string][]string `json:"alliances,omitempty"` // team → allied teams
	GameVars  Vars                `json:"gameVars,omitempty"`
	LevelVars Vars                `json:"levelVars,omitempty"`
}

// GetUnit looks a unit up by nid. Returns nil when absent.
func (g *GameState) GetUnit(nid string) *Unit {
	if g == nil {
		return nil
	}
	for _, u := range g.Units {
		if u.Nid == nid {
			return u
		}
	}
	return nil
}

// GetRegion looks a region up by nid. Returns nil when absent.
func (g *GameState) GetRegion(nid string) *Region {
	if g == nil {
		return nil
	}
	for _, r := range g.Regions {
		if r.Nid == nid {
			return r
		}
	}
	return nil
}

// GetItem looks an item up by nid. Returns nil when absent.
func (g *GameState) GetItem(nid string) *Item {
	if g == nil {
		return nil
	}
	for _, it := range g.Items {
		if it.Nid == nid {
			return it
		}
	}
	return nil
}

// UnitAt returns the living unit occupying pos, or nil.
func (g *GameState) UnitAt(pos Position) *Unit {
	if g == nil {
		return nil
	}
	for _, u := range g.Units {
		if u.Alive() && u.Position != nil && *u.Position == pos {
			return u
		}
	}
	return nil
}

// CheckDead reports whether the unit is dead. A unit that no longer exists
// counts as dead: death scripts commonly run after the unit is removed.
func (g *GameState) CheckDead(nid string) bool {
	u := g.GetUnit(nid)
	return u == nil || u.Dead
}

// CheckAlive reports whether the unit exists and is alive.
func (g *GameState) CheckAlive(nid string) bool {
	return g.GetUnit(nid).Alive()
}

// AreAllied reports whether two teams are the same or declared allies.
func (g *GameState) AreAllied(a, b string) bool {
	if a == b {
		return true
	}
	if g == nil {
		return false
	}
	for _, t := range g.Alliances[a] {
		if t == b {
			return true
		}
	}
	for _, t := range g.Alliances[b] {
		if t == a {
			return true
		}
	}
	return false
}

// LivingCount returns the number of living units on a team.
func (g *GameState) LivingCount(team string) int {
	if g == nil {
		return 0
	}
	n := 0
	for _, u := range g.Units {
		if u.Team == team && u.Alive() {
			n++
		}
	}
	return n
}
