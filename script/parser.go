package script

import (
	"log/slog"
	"strings"
)

const (
	commentMarker = "#"
	delimiter     = ';'
)

// ParseLine turns one flat-dialect source line into a Command. Returns nil
// for blank lines, comments, and tags that remain unknown after alias
// resolution — typos drop the line rather than failing the script.
func ParseLine(line string) *Command {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, commentMarker) {
		return nil
	}

	fields := splitFields(trimmed)
	kind, ok := ResolveKind(fields[0])
	if !ok {
		slog.Debug("unknown command tag dropped", "tag", fields[0], "line", trimmed)
		return nil
	}

	cmd := &Command{Kind: kind}
	for _, f := range fields[1:] {
		if flag, ok := parseFlag(f); ok {
			cmd.Flags = append(cmd.Flags, flag)
		} else {
			cmd.Args = append(cmd.Args, f)
		}
	}
	return cmd
}

// splitFields splits on the delimiter, honoring a backslash escape so
// dialogue text can contain literal semicolons.
func splitFields(line string) []string {
	var fields []string
	var b strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			if r != delimiter {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == delimiter:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if escaped {
		b.WriteByte('\\')
	}
	fields = append(fields, b.String())
	return fields
}

// parseFlag recognizes trailing FLAG(name) fields that authors attach to
// commands for presentation hints (e.g. FLAG(no_block) on speak).
func parseFlag(field string) (string, bool) {
	if strings.HasPrefix(field, "FLAG(") && strings.HasSuffix(field, ")") {
		return field[len("FLAG(") : len(field)-1], true
	}
	return "", false
}
