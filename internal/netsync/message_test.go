package netsync

import (
	"errors"
	"testing"

	"xiangqi/internal/xiangqi"
)

func TestMoveWireFormat(t *testing.T) {
	mv := xiangqi.NewMove(xiangqi.Pos{Row: 2, Col: 1}, xiangqi.Pos{Row: 2, Col: 4})
	line, err := Encode(MoveMessage(mv))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	const want = `{"type":"move","from":[2,1],"to":[2,4]}` + "\n"
	if string(line) != want {
		t.Fatalf("wire: got %q want %q", line, want)
	}

	var lb LineBuffer
	lines := lb.Feed(line)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	msg, err := Decode(lines[0])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, ok := msg.Move()
	if !ok || !got.Same(mv) {
		t.Fatalf("round trip: got %+v want %+v", got, mv)
	}
}

func TestDecodeRejectsBadLines(t *testing.T) {
	bad := []string{
		`{"type":"move","from":[2,1]}`,
		`{"type":"move","from":[2,1],"to":[12,4]}`,
		`{"type":"move","from":[2,1],"to":[2,`,
		`{"type":"teleport"}`,
		`{"type":"move","from":[2],"to":[2,4]}`,
		`{"type":"move","from":[2,1],"to":[2,4,7]}`,
		`{"type":"move","from":[2],"to":[2,4,7]}`,
		`{"type":"move","from":[],"to":[2,4]}`,
		`{"type":"move","from":null,"to":[2,4]}`,
		`not json`,
	}
	for _, line := range bad {
		if _, err := Decode([]byte(line)); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%q: expected ErrMalformed, got %v", line, err)
		}
	}
	for _, line := range []string{`{"type":"hello"}`, `{"type":"disconnect"}`, `{"type":"error","message":"boom"}`} {
		if _, err := Decode([]byte(line)); err != nil {
			t.Fatalf("%q: %v", line, err)
		}
	}
}

func TestLineBufferReassemblesPartialReads(t *testing.T) {
	var lb LineBuffer
	if got := lb.Feed([]byte(`{"type":"hel`)); len(got) != 0 {
		t.Fatalf("partial line must wait for newline")
	}
	got := lb.Feed([]byte("lo\"}\n\n{\"type\":\"disc"))
	if len(got) != 1 || string(got[0]) != `{"type":"hello"}` {
		t.Fatalf("got %q", got)
	}
	if lb.Pending() == 0 {
		t.Fatalf("tail should stay buffered")
	}
	got = lb.Feed([]byte("onnect\"}\n"))
	if len(got) != 1 || string(got[0]) != `{"type":"disconnect"}` {
		t.Fatalf("got %q", got)
	}
}

func TestLineBufferDropsOverlongGarbage(t *testing.T) {
	var lb LineBuffer
	junk := make([]byte, maxLineLen+1)
	for i := range junk {
		junk[i] = 'x'
	}
	lb.Feed(junk)
	if lb.Pending() != 0 {
		t.Fatalf("overlong line should be dropped")
	}
	got := lb.Feed([]byte("tail\n{\"type\":\"hello\"}\n"))
	if len(got) != 2 {
		t.Fatalf("expected garbage tail and hello, got %q", got)
	}
	if _, err := Decode(got[0]); err == nil {
		t.Fatalf("tail of dropped line should not parse")
	}
}
