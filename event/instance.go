package event

import (
	"github.com/google/uuid"

	"github.com/stephenjayakar/lt-web-sub000/script"
)

// Instance is one run of a prefab: either a pre-parsed flat-dialect command
// list with a cursor, or a live indented-dialect interpreter. Destroyed
// when its command stream is exhausted. Instances hold no external
// resources, so dropping one needs no cleanup.
type Instance struct {
	ID        uuid.UUID
	PrefabNid string

	interp   *script.Interpreter
	commands []*script.Command
	idx      int
}

func newInstance(p *Prefab, ctx script.Context) *Instance {
	in := &Instance{ID: uuid.New(), PrefabNid: p.Nid}
	if script.IsIndentedDialect(p.Source) {
		in.interp = script.NewInterpreter(p.Source, ctx)
		return in
	}
	for _, line := range p.Source {
		if cmd := script.ParseLine(line); cmd != nil {
			in.commands = append(in.commands, cmd)
		}
	}
	return in
}

// restoredInstance resumes a suspended indented-dialect run.
func restoredInstance(p *Prefab, st script.State, ctx script.Context) *Instance {
	return &Instance{
		ID:        uuid.New(),
		PrefabNid: p.Nid,
		interp:    script.Restore(st, p.Source, ctx),
	}
}

// FetchNextCommand returns the instance's next command in program order,
// or nil when the stream is exhausted.
func (in *Instance) FetchNextCommand() *script.Command {
	if in.interp != nil {
		return in.interp.FetchNextCommand()
	}
	if in.idx >= len(in.commands) {
		return nil
	}
	cmd := in.commands[in.idx]
	in.idx++
	return cmd
}

// Done reports whether the instance has nothing further to emit.
func (in *Instance) Done() bool {
	if in.interp != nil {
		return in.interp.Done()
	}
	return in.idx >= len(in.commands)
}

// empty reports an instance that would never emit anything; such instances
// are not enqueued.
func (in *Instance) empty() bool {
	if in.interp != nil {
		return in.interp.Done() || !in.interp.MayEmit()
	}
	return len(in.commands) == 0
}

// Save captures resumable state. Only indented-dialect instances are
// resumable; ok is false for flat command lists.
func (in *Instance) Save() (script.State, bool) {
	if in.interp == nil {
		return script.State{}, false
	}
	return in.interp.Save(), true
}
