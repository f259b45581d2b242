package script

import "testing"

func TestRewriteExpr(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"passthrough", "unit.hp > 10 and flag", "unit.hp > 10 and flag"},
		{"membership passthrough", "'Seth' in party", "'Seth' in party"},
		{"negated membership passthrough", "x not in visited", "x not in visited"},
		{"true literal", "flag == True", "flag == true"},
		{"false literal", "False or ready", "false or ready"},
		{"none literal", "target == None", "target == nil"},
		{"quoted words untouched", "name == 'True None'", "name == 'True None'"},
		{"word boundary respected", "Trueness + None_x", "Trueness + None_x"},
		{"power operator", "2 ** 10", "2 ^ 10"},
		{"power in quotes untouched", "'2 ** 10'", "'2 ** 10'"},
		{"floor division", "hp // 2", "floordiv(hp, 2)"},
		{"floor division dotted", "unit.hp // 4", "floordiv(unit.hp, 4)"},
		{"floor division grouped", "(a + b) // 2", "floordiv((a + b), 2)"},
		{"floor division in expression", "1 + hp // 2", "1 + floordiv(hp, 2)"},
		{"fstring", `f"level {n} start"`, `("level " + string(n) + " start")`},
		{"fstring single quotes", "f'{who} falls'", "('' + string(who) + ' falls')"},
		{"fstring no holes", `f"plain"`, `("plain")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RewriteExpr(tt.in); got != tt.want {
				t.Errorf("RewriteExpr(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Chained floor division exceeds the textual transform: the first pair is
// rewritten and the rest is left for the evaluator to reject at runtime.
func TestRewriteFloorDivChainedIsPartial(t *testing.T) {
	got := RewriteExpr("8 // 2 // 2")
	if got != "floordiv(8, 2) // 2" {
		t.Errorf("chained floor division rewrote to %q", got)
	}
}
