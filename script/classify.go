package script

import (
	"regexp"
	"strings"
)

// DialectSentinel marks a source as indented-dialect on its first line.
const DialectSentinel = "#pyev1"

// commandPrefix marks a command line inside the indented dialect.
const commandPrefix = "$"

// indentUnit is the quantization of leading whitespace: one nesting level
// per four spaces. A tab counts as one level.
const indentUnit = 4

// IsIndentedDialect reports whether the source carries the dialect sentinel.
func IsIndentedDialect(sourceLines []string) bool {
	return len(sourceLines) > 0 && strings.TrimSpace(sourceLines[0]) == DialectSentinel
}

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineCommand
	lineIf
	lineElif
	lineElse
	lineFor
	lineWhile
	lineAssign
	lineExpr
)

// line is one classified source line. Classification happens once, up
// front; execution only reads these.
type line struct {
	kind     lineKind
	indent   int
	text     string // trimmed content
	cond     string // if / elif / while condition
	loopVar  string // for target
	iterable string // for iterable expression
	target   string // assignment target
	value    string // assignment right-hand side
}

var (
	ifPattern    = regexp.MustCompile(`^if\s+(.+?)\s*:$`)
	elifPattern  = regexp.MustCompile(`^elif\s+(.+?)\s*:$`)
	elsePattern  = regexp.MustCompile(`^else\s*:$`)
	forPattern   = regexp.MustCompile(`^for\s+(\w+)\s+in\s+(.+?)\s*:$`)
	whilePattern = regexp.MustCompile(`^while\s+(.+?)\s*:$`)
)

// classify tags every source line. The slice is index-aligned with the
// input so a saved program counter stays valid against the same source.
func classify(sourceLines []string) []line {
	lines := make([]line, len(sourceLines))
	for idx, raw := range sourceLines {
		lines[idx] = classifyLine(raw, idx == 0)
	}
	return lines
}

func classifyLine(raw string, first bool) line {
	trimmed := strings.TrimSpace(raw)
	ln := line{indent: indentOf(raw), text: trimmed}

	switch {
	case trimmed == "":
		ln.kind = lineBlank
	case first && trimmed == DialectSentinel:
		ln.kind = lineComment
	case strings.HasPrefix(trimmed, commentMarker):
		ln.kind = lineComment
	case strings.HasPrefix(trimmed, commandPrefix):
		ln.kind = lineCommand
		ln.text = trimmed[len(commandPrefix):]
	case ifPattern.MatchString(trimmed):
		ln.kind = lineIf
		ln.cond = ifPattern.FindStringSubmatch(trimmed)[1]
	case elifPattern.MatchString(trimmed):
		ln.kind = lineElif
		ln.cond = elifPattern.FindStringSubmatch(trimmed)[1]
	case elsePattern.MatchString(trimmed):
		ln.kind = lineElse
	case forPattern.MatchString(trimmed):
		m := forPattern.FindStringSubmatch(trimmed)
		ln.kind = lineFor
		ln.loopVar, ln.iterable = m[1], m[2]
	case whilePattern.MatchString(trimmed):
		ln.kind = lineWhile
		ln.cond = whilePattern.FindStringSubmatch(trimmed)[1]
	default:
		if target, value, ok := splitAssignment(trimmed); ok {
			ln.kind = lineAssign
			ln.target, ln.value = target, value
		} else {
			ln.kind = lineExpr
		}
	}
	return ln
}

// splitAssignment detects `VAR = EXPR` without misparsing ==, !=, <=, >=.
func splitAssignment(s string) (target, value string, ok bool) {
	var quote byte
	depth := 0
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
		case c == '=' && depth == 0:
			if i+1 < len(s) && s[i+1] == '=' {
				i++ // ==
				continue
			}
			if i > 0 && (s[i-1] == '!' || s[i-1] == '<' || s[i-1] == '>' || s[i-1] == '=') {
				continue
			}
			target = strings.TrimSpace(s[:i])
			value = strings.TrimSpace(s[i+1:])
			if isIdentifier(target) && value != "" {
				return target, value, true
			}
			return "", "", false
		}
	}
	return "", "", false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isWordByte(s, i) {
			return false
		}
	}
	return s[0] < '0' || s[0] > '9'
}

// indentOf returns the nesting depth of a line's leading whitespace.
func indentOf(raw string) int {
	spaces := 0
	units := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case ' ':
			spaces++
			if spaces == indentUnit {
				units++
				spaces = 0
			}
		case '\t':
			units++
			spaces = 0
		default:
			return units
		}
	}
	return units
}
