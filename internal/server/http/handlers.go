package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"xiangqi/internal/engine"
	"xiangqi/internal/game"
	"xiangqi/internal/xiangqi"
)

// Handler 把会话动词挂到 /api/* 上
type Handler struct {
	games *game.Manager
	log   *zap.SugaredLogger
}

func NewHandler(games *game.Manager, log *zap.SugaredLogger) *Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handler{games: games, log: log}
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, "bad json")
			return
		}
	}
	mode, err := game.ParseMode(req.Mode)
	if err != nil || mode == game.ModeOnline {
		h.writeError(w, http.StatusBadRequest, "bad mode")
		return
	}
	diff, err := engine.ParseDifficulty(req.Difficulty)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	player := xiangqi.NoSide
	if mode == game.ModeVsEngine {
		player = xiangqi.Red
		if strings.EqualFold(req.Player, "black") {
			player = xiangqi.Black
		}
	}

	s, err := h.games.NewGame(mode, player, diff)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Infow("new game", "id", s.ID, "mode", mode.String(), "difficulty", diff.String())

	var resp StateResponse
	h.games.With(s.ID, func(s *game.Session) error {
		resp = snapshot(s)
		return nil
	})
	writeJSON(w, resp)
}

func (h *Handler) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if !req.Move.valid() {
		h.writeError(w, http.StatusBadRequest, "move off board")
		return
	}

	var resp StateResponse
	err := h.games.With(req.GameID, func(s *game.Session) error {
		if _, err := s.Play(dtoToMove(req.Move)); err != nil {
			return err
		}
		resp = snapshot(s)
		return nil
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, resp)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	var resp StateResponse
	err := h.games.With(req.GameID, func(s *game.Session) error {
		resp = snapshot(s)
		return nil
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, resp)
}

// ai_move：引擎替当前走子方落子。人机模式下不能替人走。
func (h *Handler) handleAiMove(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	var resp AiMoveResponse
	err := h.games.With(req.GameID, func(s *game.Session) error {
		if s.Mode == game.ModeVsEngine && s.HumanToMove() {
			return game.ErrNotYourTurn
		}
		res, err := s.EngineTurn()
		if err != nil {
			return err
		}
		resp = AiMoveResponse{
			StateResponse: snapshot(s),
			BestMove:      moveToDTO(res.Move),
			Score:         res.Score,
			Depth:         res.Depth,
			Nodes:         res.Nodes,
			TimeMs:        res.Elapsed.Milliseconds(),
		}
		return nil
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, resp)
}

func (h *Handler) handleRandomMove(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	var resp RandomMoveResponse
	err := h.games.With(req.GameID, func(s *game.Session) error {
		if s.Mode == game.ModeVsEngine && s.HumanToMove() {
			return game.ErrNotYourTurn
		}
		mv, err := s.RandomTurn()
		if err != nil {
			return err
		}
		resp = RandomMoveResponse{StateResponse: snapshot(s), Move: moveToDTO(mv)}
		return nil
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, resp)
}

func (h *Handler) handleUndo(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	var resp UndoResponse
	err := h.games.With(req.GameID, func(s *game.Session) error {
		n, err := s.Undo()
		if err != nil {
			return err
		}
		resp = UndoResponse{StateResponse: snapshot(s), Undone: n}
		return nil
	})
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, resp)
}

func snapshot(s *game.Session) StateResponse {
	pos := s.Pos
	out := s.Outcome()
	resp := StateResponse{
		GameID:     s.ID,
		Position:   pos.Encode(),
		ToMove:     sideToInt(pos.SideToMove),
		Mode:       s.Mode.String(),
		Player:     sideToInt(s.Player),
		InCheck:    s.InCheck(),
		LegalMoves: []MoveDTO{},
		Status:     "ongoing",
		Winner:     sideToInt(out.Winner),
	}
	if out.Over {
		resp.Status = string(out.Reason)
	} else {
		resp.LegalMoves = movesToDTO(pos.GenerateLegalMoves(pos.SideToMove))
	}
	if last, ok := pos.LastMove(); ok {
		dto := moveToDTO(last.Move)
		resp.LastMove = &dto
	}
	return resp
}

func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrIllegalMove):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrNotYourTurn), errors.Is(err, game.ErrNoHistory):
		h.writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Errorw("request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.log.Warnw("write error response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
