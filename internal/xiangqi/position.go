package xiangqi

import (
	"errors"
	"fmt"
)

var (
	ErrOffBoard    = errors.New("square off board")
	ErrEmptySquare = errors.New("no piece on source square")
	ErrWrongSide   = errors.New("piece does not belong to side to move")
	ErrOwnCapture  = errors.New("cannot capture own piece")
)

// PieceAt 返回该坐标上的棋子，空或越界返回 0
func (p *Position) PieceAt(at Pos) Piece {
	if !at.Valid() {
		return 0
	}
	return p.Board.Squares[at.Square()]
}

func (p *Position) At(sq int) Piece {
	if sq < 0 || sq >= NumSquares {
		return 0
	}
	return p.Board.Squares[sq]
}

// ApplyMove 直接在当前局面上走子（make）。只做结构检查，合法性由调用方保证。
func (p *Position) ApplyMove(m Move) (MoveRecord, error) {
	if m.From < 0 || m.From >= NumSquares || m.To < 0 || m.To >= NumSquares {
		return MoveRecord{}, fmt.Errorf("%w: %d->%d", ErrOffBoard, m.From, m.To)
	}
	pc := p.Board.Squares[m.From]
	if pc == 0 {
		return MoveRecord{}, fmt.Errorf("%w: %v", ErrEmptySquare, PosOf(m.From))
	}
	if pc.Side() != p.SideToMove {
		return MoveRecord{}, fmt.Errorf("%w: %v", ErrWrongSide, PosOf(m.From))
	}
	captured := p.Board.Squares[m.To]
	if captured != 0 && captured.Side() == pc.Side() {
		return MoveRecord{}, fmt.Errorf("%w: %v", ErrOwnCapture, PosOf(m.To))
	}

	rec := MoveRecord{
		Move:     Move{From: m.From, To: m.To},
		Piece:    pc,
		Captured: captured,
		PrevHash: p.Hash,
	}

	p.Board.Squares[m.To] = pc
	p.Board.Squares[m.From] = 0
	p.SideToMove = opposite(p.SideToMove)

	// 增量 Zobrist：移除 from 的子、移除被吃子（若有）、加入 to 的子、切换走子方。
	h := p.Hash
	h ^= pieceHashKey(pc, m.From)
	if captured != 0 {
		h ^= pieceHashKey(captured, m.To)
	}
	h ^= pieceHashKey(pc, m.To)
	h ^= zobristSide
	p.Hash = h

	p.History = append(p.History, rec)
	p.trail = append(p.trail, trailEntry{Hash: h, Side: p.SideToMove})
	return rec, nil
}

// UndoLast 撤销最后一步（unmake），历史为空时返回 false
func (p *Position) UndoLast() (MoveRecord, bool) {
	n := len(p.History)
	if n == 0 {
		return MoveRecord{}, false
	}
	rec := p.History[n-1]
	p.History = p.History[:n-1]
	p.trail = p.trail[:len(p.trail)-1]

	p.Board.Squares[rec.Move.From] = rec.Piece
	p.Board.Squares[rec.Move.To] = rec.Captured
	p.SideToMove = rec.Piece.Side()
	p.Hash = rec.PrevHash
	return rec, true
}

// LastMove 最近一步，没有则 ok=false
func (p *Position) LastMove() (MoveRecord, bool) {
	if len(p.History) == 0 {
		return MoveRecord{}, false
	}
	return p.History[len(p.History)-1], true
}

// Clone 深拷贝，包括历史
func (p *Position) Clone() *Position {
	np := *p
	np.History = append([]MoveRecord(nil), p.History...)
	np.trail = append([]trailEntry(nil), p.trail...)
	return &np
}

func (p *Position) generalSquare(side Side) int {
	want := MakePiece(side, PieceGeneral)
	for sq, pc := range p.Board.Squares {
		if pc == want {
			return sq
		}
	}
	return -1
}

func (p *Position) GeneralExists(side Side) bool {
	return p.generalSquare(side) != -1
}
