package script

import (
	"log/slog"
	"reflect"
	"strings"
)

// whileLimit bounds runaway while loops. Hitting it aborts the loop with a
// warning and the script continues past it.
const whileLimit = 10000

// Interpreter executes one indented-dialect script pull-style: the host
// calls FetchNextCommand once per tick and gets at most one command back.
// Control flow (conditions, loops, assignments) executes eagerly inside a
// call because it has no host-visible effect; command lines drain to the
// host one per call.
type Interpreter struct {
	source  []string
	lines   []line
	pc      int
	locals  map[string]any
	pending []*Command
	ctx     Context
}

// State is the resumable part of an interpreter: program counter plus
// local bindings. Restoring it against the same immutable source lines
// reproduces identical subsequent behavior, so an in-progress cutscene
// survives save/reload.
type State struct {
	PC     int            `json:"pc"`
	Locals map[string]any `json:"locals"`
}

// NewInterpreter classifies the source once and starts at the top.
func NewInterpreter(sourceLines []string, ctx Context) *Interpreter {
	return &Interpreter{
		source: sourceLines,
		lines:  classify(sourceLines),
		locals: make(map[string]any),
		ctx:    ctx,
	}
}

// Restore rebuilds an interpreter from saved state and the same source.
// State arrives from save files, so an out-of-range program counter is
// treated as an exhausted script rather than trusted.
func Restore(st State, sourceLines []string, ctx Context) *Interpreter {
	i := NewInterpreter(sourceLines, ctx)
	i.pc = st.PC
	if st.PC < 0 || st.PC > len(i.lines) {
		slog.Warn("restored program counter out of range, treating script as exhausted",
			"pc", st.PC, "lines", len(i.lines))
		i.pc = len(i.lines)
	}
	if st.Locals != nil {
		i.locals = st.Locals
	}
	return i
}

// Save captures the resumable state. Call it between commands (after the
// pending queue has drained); commands staged by an eager loop body are
// not part of the snapshot.
func (i *Interpreter) Save() State {
	if len(i.pending) > 0 {
		slog.Warn("saving with staged commands pending, they are not part of the snapshot",
			"pending", len(i.pending))
	}
	locals := make(map[string]any, len(i.locals))
	for k, v := range i.locals {
		locals[k] = v
	}
	return State{PC: i.pc, Locals: locals}
}

// FetchNextCommand advances the script until a command is available and
// returns it. Returns nil when the script is exhausted.
func (i *Interpreter) FetchNextCommand() *Command {
	for len(i.pending) == 0 && i.pc < len(i.lines) {
		i.step()
	}
	if len(i.pending) == 0 {
		return nil
	}
	cmd := i.pending[0]
	i.pending = i.pending[1:]
	return cmd
}

// Done reports whether the script has nothing further to emit.
func (i *Interpreter) Done() bool {
	return len(i.pending) == 0 && i.pc >= len(i.lines)
}

// MayEmit reports whether the source contains any command lines at all.
// A script without them can never produce a command, whatever its control
// flow does.
func (i *Interpreter) MayEmit() bool {
	for _, ln := range i.lines {
		if ln.kind == lineCommand {
			return true
		}
	}
	return false
}

// step executes the line at the program counter. Command bodies under an
// if branch run lazily (the pc simply moves into the body); for and while
// bodies run eagerly since each pass needs the loop bookkeeping that only
// exists during this call.
func (i *Interpreter) step() {
	ln := i.lines[i.pc]
	switch ln.kind {
	case lineBlank, lineComment:
		i.pc++
	case lineCommand:
		if cmd := i.parseCommand(ln.text); cmd != nil {
			i.pending = append(i.pending, cmd)
		}
		i.pc++
	case lineIf:
		bodyStart, _, after, taken := i.selectBranch(i.pc)
		if taken {
			i.pc = bodyStart
		} else {
			i.pc = after
		}
	case lineElif, lineElse:
		// Reached by falling out of an executed sibling branch: the rest
		// of the chain is dead.
		i.pc = i.blockEnd(i.pc)
	case lineFor:
		i.execFor(i.pc)
		i.pc = i.blockEnd(i.pc)
	case lineWhile:
		i.execWhile(i.pc)
		i.pc = i.blockEnd(i.pc)
	case lineAssign:
		i.execAssign(ln)
		i.pc++
	case lineExpr:
		if _, err := evalExpr(ln.text, i.ctx, i.locals); err != nil {
			slog.Warn("expression failed", "expr", ln.text, "error", err)
		}
		i.pc++
	}
}

// runBlock executes [start, end) eagerly, nested control flow included.
func (i *Interpreter) runBlock(start, end int) {
	for j := start; j < end; {
		ln := i.lines[j]
		switch ln.kind {
		case lineBlank, lineComment:
			j++
		case lineCommand:
			if cmd := i.parseCommand(ln.text); cmd != nil {
				i.pending = append(i.pending, cmd)
			}
			j++
		case lineIf:
			bodyStart, bodyEnd, after, taken := i.selectBranch(j)
			if taken {
				i.runBlock(bodyStart, bodyEnd)
			}
			j = after
		case lineElif, lineElse:
			j = i.blockEnd(j)
		case lineFor:
			i.execFor(j)
			j = i.blockEnd(j)
		case lineWhile:
			i.execWhile(j)
			j = i.blockEnd(j)
		case lineAssign:
			i.execAssign(ln)
			j++
		case lineExpr:
			if _, err := evalExpr(ln.text, i.ctx, i.locals); err != nil {
				slog.Warn("expression failed", "expr", ln.text, "error", err)
			}
			j++
		}
	}
}

// selectBranch walks an if/elif/else chain starting at pos, evaluating
// conditions in written order until one passes. At most one branch is
// chosen; conditions past it are never evaluated. Returns the chosen body
// range, the index just past the whole chain, and whether a branch passed.
func (i *Interpreter) selectBranch(pos int) (bodyStart, bodyEnd, after int, taken bool) {
	depth := i.lines[pos].indent
	idx := pos
	chosenStart, chosenEnd := -1, -1
	for idx < len(i.lines) {
		ln := i.lines[idx]
		end := i.blockEnd(idx)
		if chosenStart < 0 {
			pass := false
			switch ln.kind {
			case lineIf, lineElif:
				pass = i.evalTruthy(ln.cond)
			case lineElse:
				pass = true
			}
			if pass {
				chosenStart, chosenEnd = idx+1, end
			}
		}
		idx = end
		if ln.kind == lineElse || idx >= len(i.lines) {
			break
		}
		next := i.lines[idx]
		if next.indent != depth || (next.kind != lineElif && next.kind != lineElse) {
			break
		}
	}
	if chosenStart >= 0 {
		return chosenStart, chosenEnd, idx, true
	}
	return 0, 0, idx, false
}

// blockEnd returns the index just past the body of the header line at pos:
// all contiguous following lines with strictly greater indentation, with
// blanks and comments always belonging to the body.
func (i *Interpreter) blockEnd(pos int) int {
	depth := i.lines[pos].indent
	j := pos + 1
	for j < len(i.lines) {
		ln := i.lines[j]
		if ln.kind != lineBlank && ln.kind != lineComment && ln.indent <= depth {
			break
		}
		j++
	}
	return j
}

// execFor evaluates the iterable once and runs the body once per produced
// value. A non-iterable result skips the body with no error.
func (i *Interpreter) execFor(pos int) {
	ln := i.lines[pos]
	bodyStart, bodyEnd := pos+1, i.blockEnd(pos)

	v, err := evalExpr(ln.iterable, i.ctx, i.locals)
	if err != nil {
		slog.Warn("loop iterable failed", "expr", ln.iterable, "error", err)
		return
	}
	items, ok := iterate(v)
	if !ok {
		slog.Warn("loop iterable is not iterable", "expr", ln.iterable)
		return
	}
	for _, item := range items {
		i.locals[ln.loopVar] = item
		i.runBlock(bodyStart, bodyEnd)
	}
}

// execWhile re-evaluates the condition before each pass, bounded by
// whileLimit against authoring mistakes.
func (i *Interpreter) execWhile(pos int) {
	ln := i.lines[pos]
	bodyStart, bodyEnd := pos+1, i.blockEnd(pos)

	for iter := 0; i.evalTruthy(ln.cond); iter++ {
		if iter >= whileLimit {
			slog.Warn("while loop exceeded iteration ceiling, aborting loop",
				"condition", ln.cond, "limit", whileLimit)
			return
		}
		i.runBlock(bodyStart, bodyEnd)
	}
}

func (i *Interpreter) execAssign(ln line) {
	v, err := evalExpr(ln.value, i.ctx, i.locals)
	if err != nil {
		slog.Warn("assignment failed", "target", ln.target, "expr", ln.value, "error", err)
		return
	}
	i.locals[ln.target] = v
}

// evalTruthy evaluates a control-flow condition. Failures log and count as
// false: the branch is skipped, the script continues.
func (i *Interpreter) evalTruthy(cond string) bool {
	v, err := evalExpr(cond, i.ctx, i.locals)
	if err != nil {
		slog.Warn("condition failed", "condition", cond, "error", err)
		return false
	}
	return truthy(v)
}

// parseCommand builds a Command from a command line's text (prefix already
// stripped), interpolating {expr} spans inside arguments.
func (i *Interpreter) parseCommand(text string) *Command {
	fields := splitFields(text)
	kind, ok := ResolveKind(strings.TrimSpace(fields[0]))
	if !ok {
		slog.Debug("unknown command tag dropped", "tag", fields[0])
		return nil
	}
	cmd := &Command{Kind: kind}
	for _, f := range fields[1:] {
		if flag, ok := parseFlag(f); ok {
			cmd.Flags = append(cmd.Flags, flag)
		} else {
			cmd.Args = append(cmd.Args, i.interpolate(f))
		}
	}
	return cmd
}

// interpolate evaluates {expr} spans inside a command argument and splices
// the results in as text. A failing span is left as written.
func (i *Interpreter) interpolate(arg string) string {
	if !strings.ContainsRune(arg, '{') {
		return arg
	}
	var b strings.Builder
	for pos := 0; pos < len(arg); {
		if arg[pos] == '{' {
			close := strings.IndexByte(arg[pos:], '}')
			if close > 0 {
				src := arg[pos+1 : pos+close]
				if v, err := evalExpr(src, i.ctx, i.locals); err == nil {
					b.WriteString(stringify(v))
					pos += close + 1
					continue
				} else {
					slog.Warn("interpolation failed", "expr", src, "error", err)
				}
			}
		}
		b.WriteByte(arg[pos])
		pos++
	}
	return b.String()
}

// iterate adapts an evaluated value for for-loop consumption: slices and
// arrays element-wise, strings per character.
func iterate(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if s, ok := v.(string); ok {
		out := make([]any, 0, len(s))
		for _, r := range s {
			out = append(out, string(r))
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for idx := 0; idx < rv.Len(); idx++ {
			out[idx] = rv.Index(idx).Interface()
		}
		return out, true
	}
	return nil, false
}

// toSlice is iterate without the iterability verdict.
func toSlice(v any) []any {
	items, _ := iterate(v)
	return items
}
