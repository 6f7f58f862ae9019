package xiangqi

import "testing"

func mustDecode(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := DecodePosition(fen)
	if err != nil {
		t.Fatalf("decode %q failed: %v", fen, err)
	}
	return pos
}

func destinations(moves []Move) map[Pos]bool {
	out := make(map[Pos]bool, len(moves))
	for _, mv := range moves {
		out[mv.ToPos()] = true
	}
	return out
}

func emptyWith(stm Side, pieces map[Pos]Piece) *Position {
	pos := NewEmptyPosition(stm)
	for at, pc := range pieces {
		pos.Put(at, pc)
	}
	return pos
}
