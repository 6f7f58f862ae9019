package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"xiangqi/internal/engine"
	"xiangqi/internal/xiangqi"
)

// TestCase 一个局面及其全部合法着法，给前端或别的实现做对拍
type TestCase struct {
	FEN        string      `json:"fen"`
	ToMove     int         `json:"to_move"`
	InCheck    bool        `json:"in_check"`
	LegalMoves [][2][2]int `json:"legal_moves"`
}

func toPair(p xiangqi.Pos) [2]int { return [2]int{p.Row, p.Col} }

func main() {
	numGames := flag.Int("games", 10, "random games to sample")
	maxMoves := flag.Int("maxmoves", 300, "ply cap per game")
	seed := flag.Int64("seed", 1, "random seed")
	out := flag.String("out", "move_gen_test_data.json", "output file")
	flag.Parse()

	bot := engine.NewRandomBot(*seed)
	var testCases []TestCase

	for g := 0; g < *numGames; g++ {
		pos := xiangqi.NewInitialPosition()
		for moveCount := 0; moveCount < *maxMoves; moveCount++ {
			legalMoves := pos.GenerateLegalMoves(pos.SideToMove)
			tc := TestCase{
				FEN:        pos.Encode(),
				ToMove:     int(pos.SideToMove),
				InCheck:    pos.IsInCheck(pos.SideToMove),
				LegalMoves: make([][2][2]int, 0, len(legalMoves)),
			}
			for _, mv := range legalMoves {
				tc.LegalMoves = append(tc.LegalMoves, [2][2]int{toPair(mv.FromPos()), toPair(mv.ToPos())})
			}
			testCases = append(testCases, tc)

			if pos.IsGameOver() {
				break
			}
			if _, ok := bot.Move(pos); !ok {
				break
			}
		}
	}

	file, _ := json.MarshalIndent(testCases, "", "  ")
	if err := os.WriteFile(*out, file, 0644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %d test cases from %d random games to %s\n", len(testCases), *numGames, *out)
}
