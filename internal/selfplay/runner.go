package selfplay

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"xiangqi/internal/engine"
	"xiangqi/internal/game"
	"xiangqi/internal/xiangqi"
)

const (
	ResultWin  = "win"
	ResultLoss = "loss"
	ResultDraw = "draw"

	// 走满 MaxPlies 还没分出胜负
	ReasonMaxPlies = "max_plies"
)

// Runner 随机 bot（黑）对 alpha-beta 引擎（红）。每个难度下 Games 局，
// 不同难度并行跑，每个 goroutine 只碰自己的棋盘。
type Runner struct {
	Games        int
	Difficulties []engine.Difficulty
	MaxPlies     int
	Seed         int64
	Settings     game.Settings
	Log          *zap.SugaredLogger
}

// Tally 引擎视角的胜负和统计
type Tally struct {
	Difficulty engine.Difficulty
	Wins       int
	Losses     int
	Draws      int
	Plies      int
	Duration   time.Duration
}

func (t Tally) Games() int { return t.Wins + t.Losses + t.Draws }

type Report struct {
	Tallies []Tally
	Records []GameRecord
}

func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.Games < 1 {
		return nil, fmt.Errorf("games must be positive, got %d", r.Games)
	}
	diffs := r.Difficulties
	if len(diffs) == 0 {
		diffs = []engine.Difficulty{engine.Easy, engine.Medium, engine.Hard}
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	tallies := make([]Tally, len(diffs))
	records := make([][]GameRecord, len(diffs))

	g, ctx := errgroup.WithContext(ctx)
	for i, diff := range diffs {
		i, diff := i, diff
		g.Go(func() error {
			tallies[i] = Tally{Difficulty: diff}
			for n := 0; n < r.Games; n++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				seed := r.Seed + int64(i)*1_000_003 + int64(n)
				rec, err := r.playOne(diff, seed)
				if err != nil {
					return fmt.Errorf("%v game %d: %w", diff, n+1, err)
				}
				tallies[i].add(rec)
				records[i] = append(records[i], rec)
				log.Infow("game finished", "difficulty", diff.String(), "game", n+1,
					"result", rec.Result, "reason", rec.Reason, "plies", rec.Plies, "ms", rec.DurationMs)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{Tallies: tallies}
	for _, rs := range records {
		rep.Records = append(rep.Records, rs...)
	}
	return rep, nil
}

func (t *Tally) add(rec GameRecord) {
	switch rec.Result {
	case ResultWin:
		t.Wins++
	case ResultLoss:
		t.Losses++
	default:
		t.Draws++
	}
	t.Plies += int(rec.Plies)
	t.Duration += time.Duration(rec.DurationMs) * time.Millisecond
}

func (r *Runner) playOne(diff engine.Difficulty, seed int64) (GameRecord, error) {
	settings := r.Settings
	settings.Seed = seed
	settings.Log = nil
	s, err := game.NewSession(settings, game.ModeBotVsEngine, xiangqi.NoSide, diff)
	if err != nil {
		return GameRecord{}, err
	}
	dc := s.Depth()
	rec := GameRecord{
		GameID:     uuid.NewString(),
		Difficulty: diff.String(),
		BaseDepth:  int32(dc.Default),
		MaxDepth:   int32(dc.Default),
	}

	start := time.Now()
	for r.MaxPlies <= 0 || len(s.Pos.History) < r.MaxPlies {
		if s.Outcome().Over {
			break
		}
		mover := s.CurrentPlayer()
		if _, err := s.Step(); err != nil {
			return rec, err
		}
		if mover == xiangqi.Red && s.LastSearch != nil {
			rec.Nodes += s.LastSearch.Nodes
			if d := dc.Current(); d > dc.Default {
				rec.Escalations++
				if int32(d) > rec.MaxDepth {
					rec.MaxDepth = int32(d)
				}
			}
		}
	}
	rec.DurationMs = time.Since(start).Milliseconds()
	rec.Plies = int32(len(s.Pos.History))
	rec.FinalFEN = s.Pos.Encode()

	out := s.Outcome()
	switch {
	case !out.Over:
		rec.Result, rec.Reason = ResultDraw, ReasonMaxPlies
	case out.Winner == xiangqi.Red:
		rec.Result, rec.Reason = ResultWin, string(out.Reason)
	case out.Winner == xiangqi.Black:
		rec.Result, rec.Reason = ResultLoss, string(out.Reason)
	default:
		rec.Result, rec.Reason = ResultDraw, string(out.Reason)
	}
	return rec, nil
}
