package xiangqi

import (
	"strings"
)

const (
	Rows       = 10
	Cols       = 9
	NumSquares = Rows * Cols

	// 黑方在上 (0..4)，红方在下 (5..9)
	RiverRow = 5
)

func indexOf(row, col int) int { return row*Cols + col }
func rowOf(sq int) int         { return sq / Cols }
func colOf(sq int) int         { return sq % Cols }

func onBoard(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

func opposite(side Side) Side {
	if side == Red {
		return Black
	}
	if side == Black {
		return Red
	}
	return NoSide
}

// 兵的前进方向：红向上(-1)，黑向下(+1)
func soldierDir(side Side) int {
	if side == Red {
		return -1
	}
	if side == Black {
		return +1
	}
	return 0
}

// 是否在本方半场（象不能过河）
func ownHalf(side Side, row int) bool {
	if side == Red {
		return row >= RiverRow
	}
	if side == Black {
		return row < RiverRow
	}
	return false
}

// 是否在九宫
func inPalace(side Side, row, col int) bool {
	if col < 3 || col > 5 {
		return false
	}
	if side == Black {
		return row >= 0 && row <= 2
	}
	if side == Red {
		return row >= Rows-3 && row <= Rows-1
	}
	return false
}

var letterToPieceType = map[rune]PieceType{
	'k': PieceGeneral,
	'a': PieceAdvisor,
	'b': PieceElephant,
	'n': PieceHorse,
	'r': PieceChariot,
	'c': PieceCannon,
	'p': PieceSoldier,
}

var pieceTypeToLetter = [...]rune{'.', 'k', 'a', 'b', 'n', 'r', 'c', 'p'}

func pieceToChar(p Piece) rune {
	if p == 0 {
		return '.'
	}
	pt := p.Type()
	if int(pt) >= len(pieceTypeToLetter) {
		return '.'
	}
	base := pieceTypeToLetter[pt]
	if p.Side() == Red {
		return base - 'a' + 'A'
	}
	return base
}

const InitialFEN = "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR w"

func NewInitialPosition() *Position {
	pos, err := DecodePosition(InitialFEN)
	if err != nil {
		panic("InitialFEN 无法解析: " + err.Error())
	}
	return pos
}

// NewEmptyPosition 空棋盘，测试和残局摆子用
func NewEmptyPosition(stm Side) *Position {
	pos := &Position{SideToMove: stm}
	pos.resetTrail()
	return pos
}

// Put 摆子，会重算哈希并清空历史
func (p *Position) Put(at Pos, pc Piece) {
	p.Board.Squares[at.Square()] = pc
	p.History = nil
	p.resetTrail()
}

func (p *Position) resetTrail() {
	p.Hash = p.CalculateHash()
	p.trail = append(p.trail[:0], trailEntry{Hash: p.Hash, Side: p.SideToMove})
}

// String 打印棋盘，终端版用
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for c := 0; c < Cols; c++ {
		sb.WriteByte(byte('0' + c))
	}
	sb.WriteByte('\n')
	for r := 0; r < Rows; r++ {
		sb.WriteByte(byte('0' + r))
		sb.WriteByte(' ')
		for c := 0; c < Cols; c++ {
			sb.WriteRune(pieceToChar(p.Board.Squares[indexOf(r, c)]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
