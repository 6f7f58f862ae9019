package game

import (
	"errors"
	"sync"
	"testing"

	"xiangqi/internal/engine"
	"xiangqi/internal/xiangqi"
)

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(testSettings(t))
	s, err := m.NewGame(ModeLocal, xiangqi.NoSide, engine.Easy)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if s.ID == "" || m.Len() != 1 {
		t.Fatalf("session not registered")
	}
	got, err := m.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("get: %v", err)
	}
	if _, err := m.Get("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("missing id: %v", err)
	}
	if err := m.With("nope", func(*Session) error { return nil }); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("with missing id: %v", err)
	}
	m.Delete(s.ID)
	if m.Len() != 0 {
		t.Fatalf("delete failed")
	}
}

func TestManagerSerialisesSessionAccess(t *testing.T) {
	m := NewManager(testSettings(t))
	s, _ := m.NewGame(ModeLocal, xiangqi.NoSide, engine.Easy)

	// 两个 goroutine 抢着走同一步，只有一个能成功
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.With(s.ID, func(s *Session) error {
				_, err := s.Play(horseShuffle[0])
				return err
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else if !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("unexpected error %v", err)
		}
	}
	if ok != 1 || len(s.Pos.History) != 1 {
		t.Fatalf("expected exactly one move, got %d ok and %d plies", ok, len(s.Pos.History))
	}
}
