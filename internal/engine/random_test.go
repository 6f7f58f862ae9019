package engine

import (
	"testing"

	"xiangqi/internal/xiangqi"
)

func TestRandomBotIsRoughlyUniform(t *testing.T) {
	// 红方只有帅一步 + 仕四步，共 5 个合法着法
	pos := decode(t, "3k5/9/9/9/9/9/9/9/4A4/4K4 w")
	legal := pos.GenerateLegalMoves(xiangqi.Red)
	if len(legal) != 5 {
		t.Fatalf("fixture should have 5 legal moves, got %d", len(legal))
	}

	bot := NewRandomBot(42)
	const trials = 1000
	counts := make(map[xiangqi.Move]int)
	for i := 0; i < trials; i++ {
		mv, ok := bot.Move(pos)
		if !ok {
			t.Fatalf("bot found no move")
		}
		counts[xiangqi.Move{From: mv.From, To: mv.To}]++
		pos.UndoLast()
	}

	expected := trials / len(legal)
	for _, mv := range legal {
		got := counts[xiangqi.Move{From: mv.From, To: mv.To}]
		if got < expected*7/10 || got > expected*13/10 {
			t.Fatalf("move %v picked %d times, expected about %d", mv, got, expected)
		}
	}
}

func TestRandomBotNoMoves(t *testing.T) {
	pos := decode(t, "R3k4/8R/9/9/9/9/9/9/9/3K5 b")
	if _, ok := NewRandomBot(1).Move(pos); ok {
		t.Fatalf("bot should report no move on a mated position")
	}
	if len(pos.History) != 0 {
		t.Fatalf("bot must not mutate when it has no move")
	}
}
