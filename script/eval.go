package script

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"

	"github.com/stephenjayakar/lt-web-sub000/model"
)

// evalExpr rewrites and evaluates one expression against a fresh env built
// from the locals, the helper library, and the live game roots. Expressions
// come from authored scripts, so they are compiled per call — scripts may
// rebind the same text against different locals between calls.
func evalExpr(src string, ctx Context, locals map[string]any) (any, error) {
	rewritten := RewriteExpr(src)
	env := buildEnv(ctx, locals)
	program, err := expr.Compile(rewritten, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("eval %q: %w", src, err)
	}
	return out, nil
}

// buildEnv assembles the evaluation namespace: locals first, then the
// helper library and game roots, which shadow any local of the same name.
func buildEnv(ctx Context, locals map[string]any) map[string]any {
	env := make(map[string]any, len(locals)+16)
	for k, v := range locals {
		env[k] = v
	}

	// min/max, sum, sort, and the predicate forms of any/all are engine
	// builtins; only the helpers the engine lacks are bound here.
	env["range"] = exprRange
	env["enumerate"] = exprEnumerate
	env["zip"] = exprZip
	env["floordiv"] = exprFloorDiv
	env["length"] = func(v any) int { return len(toSlice(v)) }

	// Game roots are exposed as map views so scripts keep the mimicked
	// language's lowercase member spelling. Views are rebuilt per call, so
	// state mutations between calls are always visible.
	if ctx.Game != nil {
		env["game"] = gameView(ctx.Game)
		env["get_unit"] = func(nid string) map[string]any {
			return unitView(ctx.Game.GetUnit(nid))
		}
		env["v"] = func(key string) any {
			val, _ := ctx.Game.GameVars.Get(key)
			return val
		}
		env["lv"] = func(key string) any {
			val, _ := ctx.Game.LevelVars.Get(key)
			return val
		}
	}
	if ctx.Unit != nil {
		env["unit"] = unitView(ctx.Unit)
	}
	if ctx.Unit2 != nil {
		env["unit2"] = unitView(ctx.Unit2)
	}
	if ctx.Region != nil {
		env["region"] = regionView(ctx.Region)
	}
	if ctx.Item != nil {
		env["item"] = itemView(ctx.Item)
	}
	if ctx.Position != nil {
		env["position"] = positionView(*ctx.Position)
	}
	return env
}

func gameView(g *model.GameState) map[string]any {
	units := make([]any, len(g.Units))
	for i, u := range g.Units {
		units[i] = unitView(u)
	}
	return map[string]any{
		"level_nid": g.LevelNid,
		"turncount": g.TurnCount,
		"mode":      g.Mode,
		"units":     units,
	}
}

func unitView(u *model.Unit) map[string]any {
	if u == nil {
		return nil
	}
	view := map[string]any{
		"nid":    u.Nid,
		"name":   u.Name,
		"team":   u.Team,
		"klass":  u.Klass,
		"level":  u.Level,
		"hp":     u.HP,
		"max_hp": u.MaxHP,
		"dead":   u.Dead,
		"tags":   u.Tags,
	}
	if u.Position != nil {
		view["position"] = positionView(*u.Position)
	}
	return view
}

func regionView(r *model.Region) map[string]any {
	return map[string]any{
		"nid":       r.Nid,
		"type":      r.Type,
		"position":  positionView(r.Position),
		"width":     r.Width,
		"height":    r.Height,
		"condition": r.Condition,
	}
}

func itemView(it *model.Item) map[string]any {
	return map[string]any{
		"nid":       it.Nid,
		"name":      it.Name,
		"owner":     it.Owner,
		"uses":      it.Uses,
		"droppable": it.Droppable,
	}
}

func positionView(p model.Position) map[string]any {
	return map[string]any{"x": p.X, "y": p.Y}
}

// exprRange mirrors the mimicked language: range(stop), range(start, stop),
// range(start, stop, step).
func exprRange(args ...int) []any {
	start, stop, step := 0, 0, 1
	switch len(args) {
	case 1:
		stop = args[0]
	case 2:
		start, stop = args[0], args[1]
	case 3:
		start, stop, step = args[0], args[1], args[2]
	}
	if step == 0 {
		return nil
	}
	var out []any
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	return out
}

func exprEnumerate(v any) []any {
	items := toSlice(v)
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = []any{i, item}
	}
	return out
}

func exprZip(a, b any) []any {
	as, bs := toSlice(a), toSlice(b)
	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i] = []any{as[i], bs[i]}
	}
	return out
}

func exprFloorDiv(a, b any) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok || bf == 0 {
		return 0
	}
	return int(math.Floor(af / bf))
}
