package script

import (
	"regexp"
	"strings"
)

// RewriteExpr converts the script dialect's foreign syntactic sugar into
// the grammar the expression engine understands. These are best-effort
// textual transforms, not grammar-aware: unusual nesting (a chained floor
// division inside an f-string, say) may not translate. Evaluation failures
// downstream are logged, never fatal.
//
// `and`/`or`/`not` keyword forms and membership tests (`x in y`,
// `x not in y`) pass through untouched — the engine accepts those
// spellings natively.
func RewriteExpr(src string) string {
	src = rewriteFStrings(src)
	src = replaceWordOutsideQuotes(src, "True", "true")
	src = replaceWordOutsideQuotes(src, "False", "false")
	src = replaceWordOutsideQuotes(src, "None", "nil")
	src = replaceOutsideQuotes(src, "**", "^")
	src = rewriteFloorDiv(src)
	return src
}

// floorDivPattern captures simple operands: names, dotted/indexed chains,
// numbers, or a single non-nested parenthesized group. The left operand
// must not start mid-identifier, so rewritten output is never re-matched.
var floorDivPattern = regexp.MustCompile(`(^|[^\w.\[\]])([\w.\[\]]+|\([^()]*\))\s*//\s*([\w.\[\]]+|\([^()]*\))`)

func rewriteFloorDiv(src string) string {
	for strings.Contains(src, "//") {
		next := floorDivPattern.ReplaceAllString(src, "${1}floordiv($2, $3)")
		if next == src {
			break // operands too complex for the textual transform
		}
		src = next
	}
	return src
}

// rewriteFStrings expands f"a {x} b" into ("a " + string(x) + " b").
func rewriteFStrings(src string) string {
	var b strings.Builder
	for i := 0; i < len(src); {
		if src[i] == 'f' && i+1 < len(src) && (src[i+1] == '"' || src[i+1] == '\'') {
			quote := src[i+1]
			end := findStringEnd(src, i+2, quote)
			if end > 0 {
				b.WriteString(expandTemplate(src[i+2:end], quote))
				i = end + 1
				continue
			}
		}
		b.WriteByte(src[i])
		i++
	}
	return b.String()
}

func findStringEnd(src string, start int, quote byte) int {
	for i := start; i < len(src); i++ {
		if src[i] == quote {
			return i
		}
	}
	return -1
}

func expandTemplate(body string, quote byte) string {
	var parts []string
	var lit strings.Builder
	flush := func() {
		parts = append(parts, string(quote)+lit.String()+string(quote))
		lit.Reset()
	}
	for i := 0; i < len(body); {
		if body[i] == '{' {
			close := strings.IndexByte(body[i:], '}')
			if close > 0 {
				flush()
				parts = append(parts, "string("+body[i+1:i+close]+")")
				i += close + 1
				continue
			}
		}
		lit.WriteByte(body[i])
		i++
	}
	flush()
	return "(" + strings.Join(parts, " + ") + ")"
}

// replaceWordOutsideQuotes substitutes whole-word occurrences, leaving
// quoted literals alone.
func replaceWordOutsideQuotes(src, word, repl string) string {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(src); {
		c := src[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			b.WriteByte(c)
			i++
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			b.WriteByte(c)
			i++
			continue
		}
		if strings.HasPrefix(src[i:], word) &&
			!isWordByte(src, i-1) && !isWordByte(src, i+len(word)) {
			b.WriteString(repl)
			i += len(word)
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

func replaceOutsideQuotes(src, old, repl string) string {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(src); {
		c := src[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			b.WriteByte(c)
			i++
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			b.WriteByte(c)
			i++
			continue
		}
		if strings.HasPrefix(src[i:], old) {
			b.WriteString(repl)
			i += len(old)
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

func isWordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
