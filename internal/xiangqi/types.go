package xiangqi

type Side int8

const (
	NoSide Side = -1
	Red    Side = 0
	Black  Side = 1
)

func (s Side) String() string {
	switch s {
	case Red:
		return "red"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// Opponent 返回对方；NoSide 原样返回
func (s Side) Opponent() Side {
	return opposite(s)
}

type PieceType int8

const (
	PieceNone     PieceType = iota
	PieceGeneral            // 帅 / 将
	PieceAdvisor            // 仕 / 士
	PieceElephant           // 相 / 象
	PieceHorse              // 马
	PieceChariot            // 车
	PieceCannon             // 炮
	PieceSoldier            // 兵 / 卒
)

var pieceTypeNames = [...]string{"none", "general", "advisor", "elephant", "horse", "chariot", "cannon", "soldier"}

func (pt PieceType) String() string {
	if pt < 0 || int(pt) >= len(pieceTypeNames) {
		return "unknown"
	}
	return pieceTypeNames[pt]
}

type Piece int8 // 0=空；>0 红；<0 黑；abs=PieceType

func MakePiece(side Side, pt PieceType) Piece {
	if pt == PieceNone || side == NoSide {
		return 0
	}
	if side == Red {
		return Piece(pt)
	}
	return -Piece(pt)
}

func (p Piece) Type() PieceType {
	if p < 0 {
		return PieceType(-p)
	}
	return PieceType(p)
}

func (p Piece) Side() Side {
	if p == 0 {
		return NoSide
	}
	if p > 0 {
		return Red
	}
	return Black
}

// Pos 对外坐标 (row, col)，网络消息和 HTTP 都用它
type Pos struct {
	Row int
	Col int
}

func (p Pos) Valid() bool { return onBoard(p.Row, p.Col) }

func (p Pos) Square() int { return indexOf(p.Row, p.Col) }

func PosOf(sq int) Pos { return Pos{Row: rowOf(sq), Col: colOf(sq)} }

type Board struct {
	Squares [NumSquares]Piece
}

type Move struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Score int `json:"-"` // 用于搜索排序，不进行 JSON 序列化
}

func NewMove(from, to Pos) Move {
	return Move{From: from.Square(), To: to.Square()}
}

func (m Move) FromPos() Pos { return PosOf(m.From) }
func (m Move) ToPos() Pos   { return PosOf(m.To) }

// Same 只比较起止格，忽略排序分
func (m Move) Same(o Move) bool { return m.From == o.From && m.To == o.To }

// MoveRecord 悔棋和重复局面判断都靠它
type MoveRecord struct {
	Move     Move
	Piece    Piece
	Captured Piece
	PrevHash uint64
}

type trailEntry struct {
	Hash uint64
	Side Side
}

// Position = 棋盘 + 轮到谁走 + 走子历史
type Position struct {
	Board      Board
	SideToMove Side
	Hash       uint64
	History    []MoveRecord

	// trail[0] 是初始局面，之后每走一步追加一项
	trail []trailEntry
}
