package xiangqi

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrInvalidFEN = errors.New("invalid FEN")

// Encode 从黑方底线（第 0 行）写到红方底线，行间用“/”，连续空位写成数字，
// 最后空格加走子方 w 或 b。
func (p *Position) Encode() string {
	rows := make([]string, Rows)
	for r := range rows {
		rows[r] = p.encodeRow(r)
	}
	stm := "w"
	if p.SideToMove == Black {
		stm = "b"
	}
	return strings.Join(rows, "/") + " " + stm
}

func (p *Position) encodeRow(r int) string {
	var sb strings.Builder
	gap := 0
	for c := 0; c < Cols; c++ {
		pc := p.Board.Squares[indexOf(r, c)]
		if pc == 0 {
			gap++
			continue
		}
		if gap > 0 {
			fmt.Fprint(&sb, gap)
			gap = 0
		}
		sb.WriteRune(pieceToChar(pc))
	}
	if gap > 0 {
		fmt.Fprint(&sb, gap)
	}
	return sb.String()
}

// DecodePosition 解析 Encode 的格式；走子方也接受 r 表示红方
func DecodePosition(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: want board and side, got %q", ErrInvalidFEN, fen)
	}
	rows := strings.Split(fields[0], "/")
	if len(rows) != Rows {
		return nil, fmt.Errorf("%w: %d rows", ErrInvalidFEN, len(rows))
	}

	pos := &Position{}
	for r, row := range rows {
		if err := decodeRow(&pos.Board, r, row); err != nil {
			return nil, err
		}
	}
	switch fields[1] {
	case "w", "r":
		pos.SideToMove = Red
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("%w: side %q", ErrInvalidFEN, fields[1])
	}
	pos.resetTrail()
	return pos, nil
}

func decodeRow(b *Board, r int, row string) error {
	c := 0
	for _, ch := range row {
		if c >= Cols {
			return fmt.Errorf("%w: row %d too long", ErrInvalidFEN, r)
		}
		if ch >= '1' && ch <= '9' {
			c += int(ch - '0')
			continue
		}
		pt, ok := letterToPieceType[unicode.ToLower(ch)]
		if !ok {
			return fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, ch)
		}
		side := Black
		if unicode.IsUpper(ch) {
			side = Red
		}
		b.Squares[indexOf(r, c)] = MakePiece(side, pt)
		c++
	}
	if c != Cols {
		return fmt.Errorf("%w: row %d has %d columns", ErrInvalidFEN, r, c)
	}
	return nil
}
