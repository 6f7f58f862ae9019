package main

import (
	"fmt"
	"io"
	"time"

	"xiangqi/internal/selfplay"
)

// printReport 按难度打印引擎（红）对随机 bot（黑）的战绩
func printReport(w io.Writer, rep *selfplay.Report) {
	fmt.Fprintf(w, "\n=== Random (Black) vs Alpha-Beta (Red) ===\n")
	for _, t := range rep.Tallies {
		n := t.Games()
		if n == 0 {
			continue
		}
		avgPlies := float64(t.Plies) / float64(n)
		avgTime := t.Duration / time.Duration(n)
		fmt.Fprintf(w, "%-7s win %d  loss %d  draw %d  | win rate %.0f%%  avg plies %.1f  avg time %v\n",
			t.Difficulty, t.Wins, t.Losses, t.Draws,
			100*float64(t.Wins)/float64(n), avgPlies, avgTime.Round(time.Millisecond))
	}
}
