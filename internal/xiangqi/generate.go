package xiangqi

// genPieceMoves 按子力类型分派的唯一入口
func genPieceMoves(p *Position, sq int, moves *[]Move) {
	switch p.Board.Squares[sq].Type() {
	case PieceChariot:
		genChariotMoves(p, sq, moves)
	case PieceCannon:
		genCannonMoves(p, sq, moves)
	case PieceHorse:
		genHorseMoves(p, sq, moves)
	case PieceElephant:
		genElephantMoves(p, sq, moves)
	case PieceAdvisor:
		genAdvisorMoves(p, sq, moves)
	case PieceGeneral:
		genGeneralMoves(p, sq, moves)
	case PieceSoldier:
		genSoldierMoves(p, sq, moves)
	}
}

// CandidateMoves 单个棋子的伪合法走法（不考虑送将）
func (p *Position) CandidateMoves(from Pos) []Move {
	if !from.Valid() {
		return nil
	}
	var moves []Move
	genPieceMoves(p, from.Square(), &moves)
	return moves
}

// GeneratePseudoMovesForSide 生成指定一方的伪合法走法，按格子序号从小到大
func (p *Position) GeneratePseudoMovesForSide(side Side) []Move {
	moves := make([]Move, 0, 64)
	for sq := 0; sq < NumSquares; sq++ {
		pc := p.Board.Squares[sq]
		if pc == 0 || pc.Side() != side {
			continue
		}
		genPieceMoves(p, sq, &moves)
	}
	return moves
}

// GenerateLegalMoves 走一步、看是否被将、再退回，只保留不送将的走法。
// side 可以不是当前走子方。
func (p *Position) GenerateLegalMoves(side Side) []Move {
	if side == NoSide {
		return nil
	}
	var out []Move
	p.withSideToMove(side, func() {
		pseudo := p.GeneratePseudoMovesForSide(side)
		out = make([]Move, 0, len(pseudo))
		for _, mv := range pseudo {
			if _, err := p.ApplyMove(mv); err != nil {
				continue
			}
			safe := !p.IsInCheck(side)
			p.UndoLast()
			if safe {
				out = append(out, mv)
			}
		}
	})
	return out
}

// IsLegal 判断 m 是否在当前走子方的合法走法里
func (p *Position) IsLegal(m Move) bool {
	for _, lm := range p.GenerateLegalMoves(p.SideToMove) {
		if lm.Same(m) {
			return true
		}
	}
	return false
}

func (p *Position) hasLegalMove(side Side) bool {
	return len(p.GenerateLegalMoves(side)) > 0
}

// withSideToMove 临时切换走子方，fn 返回后恢复
func (p *Position) withSideToMove(side Side, fn func()) {
	if p.SideToMove == side {
		fn()
		return
	}
	prevSide, prevHash := p.SideToMove, p.Hash
	p.SideToMove = side
	p.Hash ^= zobristSide
	n := len(p.trail)
	p.trail = append(p.trail, trailEntry{Hash: p.Hash, Side: side})
	defer func() {
		p.SideToMove = prevSide
		p.Hash = prevHash
		p.trail = p.trail[:n]
	}()
	fn()
}
