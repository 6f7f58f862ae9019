package game

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"xiangqi/internal/engine"
	"xiangqi/internal/netsync"
	"xiangqi/internal/xiangqi"
)

func testSettings(t *testing.T) Settings {
	return Settings{
		Depths:          engine.Depths{Easy: 1, Medium: 1, Hard: 2},
		DepthStep:       1,
		DepthMax:        3,
		Threshold:       3,
		Seed:            7,
		NetPollInterval: 20 * time.Millisecond,
		Log:             zaptest.NewLogger(t).Sugar(),
	}
}

func at(r, c int) xiangqi.Pos { return xiangqi.Pos{Row: r, Col: c} }

func TestNewSessionValidation(t *testing.T) {
	if _, err := NewSession(testSettings(t), ModeVsEngine, xiangqi.NoSide, engine.Easy); err == nil {
		t.Fatalf("vs engine without side should fail")
	}
	if _, err := NewSession(testSettings(t), ModeLocal, xiangqi.Red, engine.Difficulty(9)); err == nil {
		t.Fatalf("bad difficulty should fail")
	}
	s, err := NewSession(testSettings(t), ModeLocal, xiangqi.Red, 0)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if s.Player != xiangqi.NoSide || s.Difficulty != engine.Medium {
		t.Fatalf("local session: player %v difficulty %v", s.Player, s.Difficulty)
	}
	if s.CurrentPlayer() != xiangqi.Red || s.InCheck() || s.Outcome().Over {
		t.Fatalf("fresh game state wrong")
	}
}

func TestClickSelectsAndMoves(t *testing.T) {
	s, _ := NewSession(testSettings(t), ModeLocal, xiangqi.NoSide, engine.Easy)

	if moved, err := s.Click(at(5, 4)); moved || err != nil || s.Selected != nil {
		t.Fatalf("empty click: moved=%v err=%v sel=%v", moved, err, s.Selected)
	}
	if _, err := s.Click(at(0, 1)); err != nil || s.Selected != nil {
		t.Fatalf("clicking opponent piece must not select")
	}
	s.Click(at(9, 1))
	if s.Selected == nil || *s.Selected != at(9, 1) {
		t.Fatalf("horse not selected: %v", s.Selected)
	}
	s.Click(at(9, 0))
	if s.Selected == nil || *s.Selected != at(9, 0) {
		t.Fatalf("reselect failed: %v", s.Selected)
	}
	s.Click(at(9, 0))
	if s.Selected != nil {
		t.Fatalf("second click should deselect")
	}

	s.Click(at(9, 1))
	moved, err := s.Click(at(7, 2))
	if !moved || err != nil {
		t.Fatalf("move: moved=%v err=%v", moved, err)
	}
	if s.CurrentPlayer() != xiangqi.Black || s.Pos.PieceAt(at(7, 2)).Type() != xiangqi.PieceHorse {
		t.Fatalf("board not updated:\n%s", s.Pos)
	}

	s.Click(at(0, 0))
	if _, err := s.Click(at(4, 0)); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("chariot through soldier: %v", err)
	}
	if s.Selected != nil || len(s.Pos.History) != 1 {
		t.Fatalf("illegal click must clear selection and leave board alone")
	}
}

func TestVsEngineTurns(t *testing.T) {
	s, _ := NewSession(testSettings(t), ModeVsEngine, xiangqi.Red, engine.Easy)

	if moved, err := s.Step(); moved || err != nil {
		t.Fatalf("engine must wait for the human: moved=%v err=%v", moved, err)
	}
	if _, err := s.Play(xiangqi.NewMove(at(9, 0), at(5, 0))); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected illegal move, got %v", err)
	}
	if _, err := s.Play(horseShuffle[0]); err != nil {
		t.Fatalf("play: %v", err)
	}
	if _, err := s.Play(horseShuffle[1]); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("human played engine side: %v", err)
	}

	moved, err := s.Step()
	if !moved || err != nil {
		t.Fatalf("engine step: moved=%v err=%v", moved, err)
	}
	if s.CurrentPlayer() != xiangqi.Red || len(s.Pos.History) != 2 || s.LastSearch == nil {
		t.Fatalf("after engine reply: side %v plies %d", s.CurrentPlayer(), len(s.Pos.History))
	}

	n, err := s.Undo()
	if err != nil || n != 2 {
		t.Fatalf("undo: n=%d err=%v", n, err)
	}
	if len(s.Pos.History) != 0 || s.Pos.Hash != xiangqi.NewInitialPosition().Hash {
		t.Fatalf("undo did not restore the opening")
	}
	if _, err := s.Undo(); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("undo on empty history: %v", err)
	}
}

func TestEngineAsRedMovesFirst(t *testing.T) {
	s, _ := NewSession(testSettings(t), ModeVsEngine, xiangqi.Black, engine.Easy)
	if s.HumanToMove() {
		t.Fatalf("black player must wait for red engine")
	}
	if moved, _ := s.Step(); !moved {
		t.Fatalf("engine did not open")
	}
	if !s.HumanToMove() {
		t.Fatalf("human should be to move")
	}
}

func TestBotVsEngineAlternates(t *testing.T) {
	s, _ := NewSession(testSettings(t), ModeBotVsEngine, xiangqi.NoSide, engine.Easy)
	if _, err := s.Play(horseShuffle[0]); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("no human in bot games: %v", err)
	}
	for i := 0; i < 6; i++ {
		if s.Outcome().Over {
			break
		}
		mover := s.CurrentPlayer()
		moved, err := s.Step()
		if !moved || err != nil {
			t.Fatalf("step %d: moved=%v err=%v", i, moved, err)
		}
		if s.CurrentPlayer() == mover {
			t.Fatalf("step %d did not pass the turn", i)
		}
	}
	if s.LastSearch == nil {
		t.Fatalf("engine never searched")
	}
}

func TestFinishedGameRejectsMoves(t *testing.T) {
	s, _ := NewSession(testSettings(t), ModeLocal, xiangqi.NoSide, engine.Easy)
	pos, err := xiangqi.DecodePosition("R3k4/8R/9/9/9/9/9/9/9/3K5 b")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	s.Pos = pos
	out := s.Outcome()
	if !out.Over || out.Winner != xiangqi.Red || out.Reason != xiangqi.ReasonCheckmate {
		t.Fatalf("outcome %+v", out)
	}
	if _, err := s.Click(at(0, 4)); !errors.Is(err, ErrGameOver) {
		t.Fatalf("click after mate: %v", err)
	}
	if _, err := s.EngineTurn(); !errors.Is(err, ErrGameOver) {
		t.Fatalf("engine after mate: %v", err)
	}
	if _, err := s.RandomTurn(); !errors.Is(err, ErrGameOver) {
		t.Fatalf("bot after mate: %v", err)
	}
	if moved, err := s.Step(); moved || err != nil {
		t.Fatalf("step after mate: %v %v", moved, err)
	}
}

func stepUntil(t *testing.T, s *Session, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not reached")
		}
		s.Step()
		time.Sleep(5 * time.Millisecond)
	}
}

func TestOnlineGame(t *testing.T) {
	settings := testSettings(t)
	settings.Log = zap.NewNop().Sugar()

	host, _ := NewSession(settings, ModeLocal, xiangqi.NoSide, engine.Easy)
	guest, _ := NewSession(settings, ModeLocal, xiangqi.NoSide, engine.Easy)
	defer host.CloseOnline()
	defer guest.CloseOnline()

	if _, err := host.Host(0); err != nil {
		t.Fatalf("host: %v", err)
	}
	if host.Mode != ModeOnline || host.Player != xiangqi.Red || host.Ready() {
		t.Fatalf("host state before peer: mode %v player %v", host.Mode, host.Player)
	}
	if _, err := host.Play(horseShuffle[0]); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("host moved before the peer joined: %v", err)
	}

	if err := guest.Join("127.0.0.1", host.HostPort()); err != nil {
		t.Fatalf("join: %v", err)
	}
	if guest.Player != xiangqi.Black || !guest.Ready() {
		t.Fatalf("guest not ready")
	}
	stepUntil(t, host, host.Ready)

	// 对端发来的非法着法直接丢弃
	host.net.Send(netsync.MoveMessage(xiangqi.NewMove(at(9, 0), at(5, 0))))
	stepUntil(t, guest, func() bool { return guest.Desyncs == 1 })
	if len(guest.Pos.History) != 0 {
		t.Fatalf("illegal remote move was applied")
	}

	if _, err := host.Play(horseShuffle[0]); err != nil {
		t.Fatalf("host play: %v", err)
	}
	stepUntil(t, guest, func() bool { return len(guest.Pos.History) == 1 })
	if guest.Pos.Hash != host.Pos.Hash {
		t.Fatalf("boards diverged after red move")
	}

	if _, err := guest.Play(horseShuffle[1]); err != nil {
		t.Fatalf("guest play: %v", err)
	}
	stepUntil(t, host, func() bool { return len(host.Pos.History) == 2 })
	if guest.Pos.Hash != host.Pos.Hash {
		t.Fatalf("boards diverged after black move")
	}

	guest.CloseOnline()
	stepUntil(t, host, func() bool { return host.PeerGone })
	if host.Ready() || host.HumanToMove() {
		t.Fatalf("host should stop after peer left")
	}
}

func TestJoinFailure(t *testing.T) {
	settings := testSettings(t)
	settings.Log = zap.NewNop().Sugar()
	s, _ := NewSession(settings, ModeLocal, xiangqi.NoSide, engine.Easy)

	scout, _ := NewSession(settings, ModeLocal, xiangqi.NoSide, engine.Easy)
	if _, err := scout.Host(0); err != nil {
		t.Fatalf("host: %v", err)
	}
	port := scout.HostPort()
	scout.CloseOnline()

	if err := s.Join("127.0.0.1", port); !errors.Is(err, ErrOffline) {
		t.Fatalf("join closed port: %v", err)
	}
	if s.Online() || s.Mode != ModeLocal {
		t.Fatalf("failed join must leave the session offline")
	}
}

func TestEngineTurnEscalatesAfterRepetition(t *testing.T) {
	s, _ := NewSession(testSettings(t), ModeLocal, xiangqi.NoSide, engine.Easy)
	for i := 0; i < 2; i++ {
		for _, mv := range horseShuffle {
			if _, err := s.Play(mv); err != nil {
				t.Fatalf("play %v: %v", mv, err)
			}
		}
	}
	if !s.Pos.IsRepeatingState(xiangqi.Red, 3) {
		t.Fatalf("shuffle should repeat the opening three times")
	}

	res, err := s.EngineTurn()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	if res.Depth != 2 {
		t.Fatalf("search depth %d, want escalated 2", res.Depth)
	}
	if s.Depth().CurrentThreshold() != 6 || len(s.Pos.History) != 9 {
		t.Fatalf("threshold %d plies %d", s.Depth().CurrentThreshold(), len(s.Pos.History))
	}
}
