// Package model holds the game-state collaborator types consumed by the
// scripting engine. Everything here is plain data with small accessors;
// lookups return zero values or explicit absence, never panic, so scripts
// dispatched before the game is fully initialized degrade gracefully.
package model

// Position is a board coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Unit is one actor on the board.
type Unit struct {
	Nid      string    `json:"nid"`
	Name     string    `json:"name"`
	Team     string    `json:"team"`
	Klass    string    `json:"klass"`
	Level    int       `json:"level"`
	HP       int       `json:"hp"`
	MaxHP    int       `json:"maxHp"`
	Dead     bool      `json:"dead"`
	Position *Position `json:"position,omitempty"` // nil when off-board
	Tags     []string  `json:"tags,omitempty"`
}

// Alive reports whether the unit is on the board and not dead.
func (u *Unit) Alive() bool { return u != nil && !u.Dead }

func (u *Unit) HasTag(tag string) bool {
	if u == nil {
		return false
	}
	for _, t := range u.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Region is a rectangular area of the board with a type tag
// (event, status, shop, ...) and an optional interaction condition.
type Region struct {
	Nid       string   `json:"nid"`
	Type      string   `json:"type"`
	Position  Position `json:"position"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Condition string   `json:"condition,omitempty"`
}

// Contains reports whether p falls inside the region's rectangle.
func (r *Region) Contains(p Position) bool {
	return p.X >= r.Position.X && p.X < r.Position.X+r.Width &&
		p.Y >= r.Position.Y && p.Y < r.Position.Y+r.Height
}

// Item is an inventory item, owned by a unit or by the convoy ("").
type Item struct {
	Nid       string `json:"nid"`
	Name      string `json:"name"`
	Owner     string `json:"owner,omitempty"`
	Uses      int    `json:"uses"`
	Droppable bool   `json:"droppable,omitempty"`
}
