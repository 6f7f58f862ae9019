package httpserver

import "xiangqi/internal/xiangqi"

// 前端用的招法结构，坐标是 [row, col]
type MoveDTO struct {
	From [2]int `json:"from"`
	To   [2]int `json:"to"`
}

func dtoToMove(m MoveDTO) xiangqi.Move {
	return xiangqi.NewMove(xiangqi.Pos{Row: m.From[0], Col: m.From[1]}, xiangqi.Pos{Row: m.To[0], Col: m.To[1]})
}

func (m MoveDTO) valid() bool {
	return xiangqi.Pos{Row: m.From[0], Col: m.From[1]}.Valid() && xiangqi.Pos{Row: m.To[0], Col: m.To[1]}.Valid()
}

func moveToDTO(m xiangqi.Move) MoveDTO {
	f, t := m.FromPos(), m.ToPos()
	return MoveDTO{From: [2]int{f.Row, f.Col}, To: [2]int{t.Row, t.Col}}
}

func movesToDTO(ms []xiangqi.Move) []MoveDTO {
	out := make([]MoveDTO, len(ms))
	for i, m := range ms {
		out[i] = moveToDTO(m)
	}
	return out
}

func sideToInt(s xiangqi.Side) int {
	switch s {
	case xiangqi.Red:
		return 0
	case xiangqi.Black:
		return 1
	default:
		return -1
	}
}

// NewGame 请求；全部可选，默认本地双人
type NewGameRequest struct {
	Mode       string `json:"mode"`       // local / vs_engine / bot_vs_engine
	Player     string `json:"player"`     // red / black，人机时人类执哪方
	Difficulty string `json:"difficulty"` // easy / medium / hard
}

// 大部分请求只带 game_id
type GameRequest struct {
	GameID string `json:"game_id"`
}

type PlayRequest struct {
	GameID string  `json:"game_id"`
	Move   MoveDTO `json:"move"`
}

// 所有接口都返回当前盘面
type StateResponse struct {
	GameID     string    `json:"game_id"`
	Position   string    `json:"position"` // FEN
	ToMove     int       `json:"to_move"`  // 0=红, 1=黑
	Mode       string    `json:"mode"`
	Player     int       `json:"player"` // -1 表示没有固定执子方
	InCheck    bool      `json:"in_check"`
	LegalMoves []MoveDTO `json:"legal_moves"`
	LastMove   *MoveDTO  `json:"last_move,omitempty"`
	Status     string    `json:"status"` // ongoing / checkmate / stalemate / repetition
	Winner     int       `json:"winner"`
}

type AiMoveResponse struct {
	StateResponse
	BestMove MoveDTO `json:"best_move"`
	Score    int     `json:"score"`
	Depth    int     `json:"depth"`
	Nodes    int64   `json:"nodes"`
	TimeMs   int64   `json:"time_ms"`
}

type RandomMoveResponse struct {
	StateResponse
	Move MoveDTO `json:"move"`
}

type UndoResponse struct {
	StateResponse
	Undone int `json:"undone"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
