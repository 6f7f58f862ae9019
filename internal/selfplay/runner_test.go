package selfplay

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"xiangqi/internal/engine"
	"xiangqi/internal/game"
)

func smallRunner(t *testing.T) *Runner {
	return &Runner{
		Games:        2,
		Difficulties: []engine.Difficulty{engine.Easy, engine.Medium},
		MaxPlies:     16,
		Seed:         42,
		Settings: game.Settings{
			Depths:    engine.Depths{Easy: 1, Medium: 1, Hard: 2},
			DepthStep: 1,
			DepthMax:  2,
			Threshold: 3,
		},
		Log: zaptest.NewLogger(t).Sugar(),
	}
}

func TestRunnerTallies(t *testing.T) {
	rep, err := smallRunner(t).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rep.Tallies) != 2 || len(rep.Records) != 4 {
		t.Fatalf("got %d tallies, %d records", len(rep.Tallies), len(rep.Records))
	}
	for i, tl := range rep.Tallies {
		if tl.Games() != 2 {
			t.Fatalf("tally %d: %d games", i, tl.Games())
		}
	}
	if rep.Tallies[0].Difficulty != engine.Easy || rep.Records[0].Difficulty != "easy" || rep.Records[3].Difficulty != "medium" {
		t.Fatalf("records out of order")
	}
	for _, rec := range rep.Records {
		if rec.Plies < 1 || rec.Plies > 16 {
			t.Fatalf("plies %d outside (0,16]", rec.Plies)
		}
		if rec.Result == ResultDraw && rec.Reason == "" {
			t.Fatalf("draw without reason: %+v", rec)
		}
		if rec.GameID == "" || rec.FinalFEN == "" || rec.BaseDepth != 1 {
			t.Fatalf("incomplete record %+v", rec)
		}
		if rec.Nodes == 0 {
			t.Fatalf("engine never searched: %+v", rec)
		}
	}
}

func TestRunnerIsReproducible(t *testing.T) {
	a, err := smallRunner(t).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := smallRunner(t).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for i := range a.Records {
		ra, rb := a.Records[i], b.Records[i]
		if ra.FinalFEN != rb.FinalFEN || ra.Result != rb.Result || ra.Plies != rb.Plies {
			t.Fatalf("game %d differs: %+v vs %+v", i, ra, rb)
		}
	}
}

func TestRunnerRejectsBadInput(t *testing.T) {
	r := smallRunner(t)
	r.Games = 0
	if _, err := r.Run(context.Background()); err == nil {
		t.Fatalf("zero games should fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := smallRunner(t).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled run: %v", err)
	}
}

func TestParquetRoundTrip(t *testing.T) {
	rep, err := smallRunner(t).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	path := filepath.Join(t.TempDir(), "games.parquet")
	if err := WriteParquet(path, rep.Records, 2); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadParquet(path, 2)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(rep.Records) {
		t.Fatalf("read %d rows, wrote %d", len(got), len(rep.Records))
	}
	for i := range got {
		if got[i] != rep.Records[i] {
			t.Fatalf("row %d: got %+v want %+v", i, got[i], rep.Records[i])
		}
	}
}
