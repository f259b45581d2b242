package script

import (
	"reflect"
	"testing"
)

func TestParseLineAlias(t *testing.T) {
	cmd := ParseLine("s;Hello")
	if cmd == nil {
		t.Fatal("ParseLine returned nil for aliased speak")
	}
	if cmd.Kind != KindSpeak {
		t.Errorf("expected kind %q, got %q", KindSpeak, cmd.Kind)
	}
	if !reflect.DeepEqual(cmd.Args, []string{"Hello"}) {
		t.Errorf("expected args [Hello], got %v", cmd.Args)
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want *Command
	}{
		{"blank", "   ", nil},
		{"comment", "# set up the ambush", nil},
		{"unknown tag dropped", "frobnicate;Eirika", nil},
		{"canonical tag", "kill_unit;Bob", &Command{Kind: KindKillUnit, Args: []string{"Bob"}}},
		{"alias kill", "kill;Bob", &Command{Kind: KindKillUnit, Args: []string{"Bob"}}},
		{"multiple args", "add_unit;Eirika;2,3;west", &Command{Kind: KindAddUnit, Args: []string{"Eirika", "2,3", "west"}}},
		{"escaped delimiter", `s;Wait\; don't go!`, &Command{Kind: KindSpeak, Args: []string{"Wait; don't go!"}}},
		{"flag split from args", "s;Seth;We ride.;FLAG(no_block)", &Command{Kind: KindSpeak, Args: []string{"Seth", "We ride."}, Flags: []string{"no_block"}}},
		{"empty trailing arg kept", "wait;", &Command{Kind: KindWait, Args: []string{""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLine(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestResolveKind(t *testing.T) {
	if k, ok := ResolveKind("u"); !ok || k != KindAddPortrait {
		t.Errorf("alias u: got (%q, %v)", k, ok)
	}
	if _, ok := ResolveKind("not_a_command"); ok {
		t.Error("expected unknown tag to fail resolution")
	}
	// Every alias must target a canonical kind.
	for alias, kind := range aliases {
		if !validKinds[kind] {
			t.Errorf("alias %q targets %q, which is not in the vocabulary", alias, kind)
		}
	}
}
