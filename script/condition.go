package script

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
)

// EvalCondition evaluates a free-form boolean activation condition against
// a context. Precedence, lowest to highest: or → and → not → parens →
// named predicates → comparison → bare truthy reference.
//
// Anything unparseable or unresolvable evaluates true with a logged
// warning. False would silently skip authored content on a typo, which is
// judged worse than occasionally firing unintended content.
func EvalCondition(cond string, ctx Context) bool {
	cond = strings.TrimSpace(cond)
	switch cond {
	case "", "true", "True", "1":
		return true
	case "false", "False", "0":
		return false
	}

	if parts := splitLogical(cond, "or"); len(parts) > 1 {
		for _, p := range parts {
			if EvalCondition(p, ctx) {
				return true
			}
		}
		return false
	}
	if parts := splitLogical(cond, "and"); len(parts) > 1 {
		for _, p := range parts {
			if !EvalCondition(p, ctx) {
				return false
			}
		}
		return true
	}
	if rest, ok := strings.CutPrefix(cond, "not "); ok {
		return !EvalCondition(rest, ctx)
	}
	if strings.HasPrefix(cond, "not(") {
		return !EvalCondition(cond[len("not"):], ctx)
	}
	if inner, ok := stripOuterParens(cond); ok {
		return EvalCondition(inner, ctx)
	}

	if v, ok := evalPredicate(cond, ctx); ok {
		return truthy(v)
	}

	if left, op, right, ok := splitComparison(cond); ok {
		return evalComparison(left, op, right, ctx)
	}

	// Bare reference.
	v, ok := evalOperand(cond, ctx)
	if !ok {
		slog.Warn("condition did not resolve, failing open", "condition", cond)
		return true
	}
	return truthy(v)
}

// splitLogical splits on a logical keyword at the top level, outside quotes
// and parentheses. Returns nil when the keyword does not occur there.
func splitLogical(s, word string) []string {
	token := " " + word + " "
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0 && c == ' ' && strings.HasPrefix(s[i:], token):
			parts = append(parts, s[start:i])
			i += len(token) - 1
			start = i + 1
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return append(parts, s[start:])
}

// stripOuterParens unwraps "(...)" only when the opening paren matches the
// final closing one.
func stripOuterParens(s string) (string, bool) {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return "", false
	}
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return "", false
			}
		}
	}
	return s[1 : len(s)-1], true
}

var comparisonOps = []string{"==", "!=", ">=", "<=", ">", "<"}

// splitComparison finds the leftmost comparison operator outside quotes and
// parens. Two-character operators are checked first so ">=" never splits
// as ">".
func splitComparison(s string) (left, op, right string, ok bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			continue
		case c == '\'' || c == '"':
			quote = c
			continue
		case c == '(':
			depth++
			continue
		case c == ')':
			depth--
			continue
		}
		if depth != 0 {
			continue
		}
		for _, cand := range comparisonOps {
			if strings.HasPrefix(s[i:], cand) {
				return strings.TrimSpace(s[:i]), cand,
					strings.TrimSpace(s[i+len(cand):]), true
			}
		}
	}
	return "", "", "", false
}

func evalComparison(left, op, right string, ctx Context) bool {
	lv, lok := evalOperand(left, ctx)
	rv, rok := evalOperand(right, ctx)
	if !lok || !rok {
		slog.Warn("comparison side did not resolve, failing open",
			"left", left, "op", op, "right", right)
		return true
	}

	lf, lNum := toFloat(lv)
	rf, rNum := toFloat(rv)
	if lNum && rNum {
		switch op {
		case "==":
			return lf == rf
		case "!=":
			return lf != rf
		case ">=":
			return lf >= rf
		case "<=":
			return lf <= rf
		case ">":
			return lf > rf
		case "<":
			return lf < rf
		}
	}

	ls, rs := stringify(lv), stringify(rv)
	switch op {
	case "==":
		return ls == rs
	case "!=":
		return ls != rs
	case ">=":
		return ls >= rs
	case "<=":
		return ls <= rs
	case ">":
		return ls > rs
	case "<":
		return ls < rs
	}
	return true
}

// evalOperand resolves one comparison side: a predicate call that yields a
// value, or a reference/literal through the resolver.
func evalOperand(s string, ctx Context) (any, bool) {
	s = strings.TrimSpace(s)
	if v, ok := evalPredicate(s, ctx); ok {
		return v, true
	}
	return ctx.Resolve(s)
}

// evalPredicate recognizes the named predicate calls of the condition
// dialect. ok is false when s is not a call to a known predicate.
func evalPredicate(s string, ctx Context) (any, bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return nil, false
	}
	name := s[:open]
	args := splitArgs(s[open+1 : len(s)-1])

	switch name {
	case "dead":
		if len(args) != 1 || ctx.Game == nil {
			return nil, false
		}
		return ctx.Game.CheckDead(argString(args[0], ctx)), true
	case "pair":
		if len(args) != 2 {
			return nil, false
		}
		// A missing actor means the pair is definitively not active;
		// this is a real false, not an unresolvable reference.
		if ctx.Unit == nil || ctx.Unit2 == nil {
			return false, true
		}
		a, b := argString(args[0], ctx), argString(args[1], ctx)
		return (ctx.Unit.Nid == a && ctx.Unit2.Nid == b) ||
			(ctx.Unit.Nid == b && ctx.Unit2.Nid == a), true
	case "default_pair":
		if len(args) < 1 {
			return nil, false
		}
		if ctx.Unit == nil {
			return false, true
		}
		if ctx.Unit.Nid != argString(args[0], ctx) {
			return false, true
		}
		if ctx.Unit2 != nil {
			for _, ex := range args[1:] {
				if ctx.Unit2.Nid == argString(ex, ctx) {
					return false, true
				}
			}
		}
		return true, true
	case "alive":
		if len(args) != 1 || ctx.Game == nil {
			return nil, false
		}
		return ctx.Game.LivingCount(argString(args[0], ctx)), true
	}
	return nil, false
}

// splitArgs splits a predicate argument list on commas outside quotes.
func splitArgs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var args []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			args = append(args, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(args, strings.TrimSpace(s[start:]))
}

// argString resolves a predicate argument, letting authors write either a
// quoted literal, a reference, or a bare unit nid.
func argString(arg string, ctx Context) string {
	if v, ok := ctx.Resolve(arg); ok {
		return stringify(v)
	}
	return arg
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}

// truthy converts a resolved value to a boolean the way the condition
// dialect expects: absence handled by callers, emptiness is false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case float64:
		return t != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer:
		return !rv.IsNil()
	}
	return true
}
