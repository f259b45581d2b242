package script

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/stephenjayakar/lt-web-sub000/model"
)

// Context carries everything a script reference can resolve against: the
// fixed roots supplied per dispatch, the instance's local variables, and
// the two persistent variable stores. Pure reads only.
type Context struct {
	Game     *model.GameState
	Unit     *model.Unit // primary actor
	Unit2    *model.Unit // secondary actor
	Region   *model.Region
	Item     *model.Item
	Position *model.Position
	Locals   map[string]any
}

// Merge returns a copy of the context with non-nil fields of other taking
// precedence. Trigger-supplied references win over dispatch-time defaults.
func (c Context) Merge(other Context) Context {
	out := c
	if other.Game != nil {
		out.Game = other.Game
	}
	if other.Unit != nil {
		out.Unit = other.Unit
	}
	if other.Unit2 != nil {
		out.Unit2 = other.Unit2
	}
	if other.Region != nil {
		out.Region = other.Region
	}
	if other.Item != nil {
		out.Item = other.Item
	}
	if other.Position != nil {
		out.Position = other.Position
	}
	if other.Locals != nil {
		merged := make(map[string]any, len(c.Locals)+len(other.Locals))
		for k, v := range c.Locals {
			merged[k] = v
		}
		for k, v := range other.Locals {
			merged[k] = v
		}
		out.Locals = merged
	}
	return out
}

// Resolve evaluates a textual reference: a literal, or a dotted path rooted
// at a context root, a local variable, or one of the variable stores (in
// that order). Absence is not an error — ok is simply false.
func (c Context) Resolve(ref string) (any, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, false
	}
	if v, ok := parseLiteral(ref); ok {
		return v, true
	}

	parts := strings.Split(ref, ".")
	root, ok := c.resolveRoot(parts[0])
	if !ok {
		return nil, false
	}
	v := root
	for _, part := range parts[1:] {
		v, ok = lookupAttr(v, part)
		if !ok {
			return nil, false
		}
	}
	return v, true
}

func (c Context) resolveRoot(name string) (any, bool) {
	switch name {
	case "game":
		if c.Game != nil {
			return c.Game, true
		}
		return nil, false
	case "unit":
		if c.Unit != nil {
			return c.Unit, true
		}
		return nil, false
	case "unit2":
		if c.Unit2 != nil {
			return c.Unit2, true
		}
		return nil, false
	case "region":
		if c.Region != nil {
			return c.Region, true
		}
		return nil, false
	case "item":
		if c.Item != nil {
			return c.Item, true
		}
		return nil, false
	case "position":
		if c.Position != nil {
			return c.Position, true
		}
		return nil, false
	}
	if v, ok := c.Locals[name]; ok {
		return v, true
	}
	if c.Game != nil {
		if v, ok := c.Game.GameVars.Get(name); ok {
			return v, true
		}
		if v, ok := c.Game.LevelVars.Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

// parseLiteral recognizes quoted strings, integers, floats, and the
// boolean/null spellings of both the host language and the mimicked one.
func parseLiteral(s string) (any, bool) {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1], true
		}
	}
	switch s {
	case "true", "True":
		return true, true
	case "false", "False":
		return false, true
	case "None", "nil":
		return nil, true
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return nil, false
}

// lookupAttr fetches one field from a map or struct, trying the name as
// written and its snake_case→CamelCase form, then an underscore-blind
// case fold. Exported no-arg methods are tried after fields.
func lookupAttr(v any, name string) (any, bool) {
	if v == nil {
		return nil, false
	}
	if m, ok := v.(map[string]any); ok {
		if val, ok := m[name]; ok {
			return val, true
		}
		camel := snakeToCamel(name)
		if val, ok := m[camel]; ok {
			return val, true
		}
		want := foldKey(name)
		for k, val := range m {
			if foldKey(k) == want {
				return val, true
			}
		}
		return nil, false
	}
	if m, ok := v.(model.Vars); ok {
		return lookupAttr(map[string]any(m), name)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		if f := findField(rv, name); f.IsValid() {
			return f.Interface(), true
		}
	}

	// Method fallback, on both value and pointer receivers.
	if m, ok := findMethod(reflect.ValueOf(v), name); ok {
		return m, true
	}
	return nil, false
}

func findField(rv reflect.Value, name string) reflect.Value {
	t := rv.Type()
	camel := snakeToCamel(name)
	if f, ok := t.FieldByName(camel); ok && f.IsExported() {
		return rv.FieldByIndex(f.Index)
	}
	want := foldKey(name)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && foldKey(f.Name) == want {
			return rv.Field(i)
		}
	}
	return reflect.Value{}
}

func findMethod(rv reflect.Value, name string) (any, bool) {
	want := foldKey(name)
	t := rv.Type()
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if foldKey(m.Name) != want {
			continue
		}
		if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
			return nil, false
		}
		out := rv.Method(i).Call(nil)
		return out[0].Interface(), true
	}
	return nil, false
}

// snakeToCamel converts turn_count → TurnCount.
func snakeToCamel(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// foldKey lowercases and strips underscores so turncount, turn_count and
// TurnCount all compare equal.
func foldKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}
