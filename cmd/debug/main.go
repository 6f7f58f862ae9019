package main

import (
	"flag"
	"fmt"
	"os"

	"xiangqi/internal/engine"
	"xiangqi/internal/xiangqi"
)

func main() {
	fen := flag.String("fen", xiangqi.InitialFEN, "position to inspect")
	depth := flag.Int("depth", 0, "run a search at this depth")
	flag.Parse()

	pos, err := xiangqi.DecodePosition(*fen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(pos.String())
	fmt.Println("FEN:", pos.Encode())
	fmt.Println("Pseudo legal moves:", len(pos.GeneratePseudoMovesForSide(pos.SideToMove)))
	legal := pos.GenerateLegalMoves(pos.SideToMove)
	fmt.Println("Legal moves:", len(legal))
	fmt.Printf("In check: %v  Outcome: %+v\n", pos.IsInCheck(pos.SideToMove), pos.Outcome())

	if *depth > 0 && len(legal) > 0 {
		res := engine.NewEngine().Search(pos, pos.SideToMove, *depth)
		fmt.Printf("Best %v->%v score %d nodes %d in %v\n",
			res.Move.FromPos(), res.Move.ToPos(), res.Score, res.Nodes, res.Elapsed)
	}
}
