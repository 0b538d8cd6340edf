package node

import (
	"math/rand"
	"testing"
)

type sequence []float64

func (s *sequence) Float64() float64 {
	v := (*s)[0]
	*s = (*s)[1:]
	return v
}

func TestSynthesizeFixed(t *testing.T) {
	seq := sequence{0.25, 0.75}
	cmd := Synthesize(&seq)
	want := Command{1.25, 0, 0, 0, 0, 1.25}
	if cmd != want {
		t.Fatalf("Synthesize: wrong command: %v vs %v", cmd, want)
	}
	if len(seq) != 0 {
		t.Fatalf("Synthesize: should draw exactly 2 values, %d left", len(seq))
	}
}

func TestSynthesizeExtremes(t *testing.T) {
	low := sequence{0, 0}
	if cmd := Synthesize(&low); cmd[LinearX] != 1.0 || cmd[AngularZ] != -2.5 {
		t.Fatalf("Synthesize: wrong low bounds: %v", cmd)
	}
	high := sequence{0.9999999, 0.9999999}
	if cmd := Synthesize(&high); cmd[LinearX] >= 2.0 || cmd[AngularZ] >= 2.5 {
		t.Fatalf("Synthesize: upper bounds not exclusive: %v", cmd)
	}
}

func TestSynthesizeBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10000; i++ {
		cmd := Synthesize(rng)
		if cmd[LinearX] < 1.0 || cmd[LinearX] >= 2.0 {
			t.Fatalf("Synthesize: LinearX out of range: %v", cmd)
		}
		if cmd[AngularZ] < -2.5 || cmd[AngularZ] >= 2.5 {
			t.Fatalf("Synthesize: AngularZ out of range: %v", cmd)
		}
		if cmd[LinearY] != 0 || cmd[LinearZ] != 0 || cmd[AngularX] != 0 || cmd[AngularY] != 0 {
			t.Fatalf("Synthesize: non-zero fixed component: %v", cmd)
		}
	}
}

func TestParseInputID(t *testing.T) {
	cases := map[string]InputID{
		"turtle_pose": InputTurtlePose,
		"tick":        InputTick,
		"TICK":        InputUnknown,
		" tick":       InputUnknown,
		"":            InputUnknown,
	}
	for id, want := range cases {
		if got := ParseInputID(id); got != want {
			t.Fatalf("ParseInputID(%q): wrong id: %v vs %v", id, got, want)
		}
	}
}

func TestEventKindTags(t *testing.T) {
	for _, k := range []EventKind{EventInput, EventStop, EventInputClosed, EventError} {
		if ParseEventKind(k.String()) != k {
			t.Fatalf("ParseEventKind: %s did not round-trip", k)
		}
	}
	if ParseEventKind("whatever") != EventOther {
		t.Fatalf("ParseEventKind: unknown tag should be OTHER")
	}
}
