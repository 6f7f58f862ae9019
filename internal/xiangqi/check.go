package xiangqi

// IsAttacked 判断 sq 这个格子是否被 bySide 这一方攻击。
// 采用走法模拟：只要对方任何一个棋子的伪合法走法能落到这里就算。
func (p *Position) IsAttacked(sq int, bySide Side) bool {
	var moves []Move
	for s := 0; s < NumSquares; s++ {
		pc := p.Board.Squares[s]
		if pc == 0 || pc.Side() != bySide {
			continue
		}
		moves = moves[:0]
		genPieceMoves(p, s, &moves)
		for _, mv := range moves {
			if mv.To == sq {
				return true
			}
		}
	}
	return false
}

// IsInCheck 判断 side 这一方的将是否被将军；将帅对脸时双方都算被将
func (p *Position) IsInCheck(side Side) bool {
	generalSq := p.generalSquare(side)
	if generalSq == -1 {
		return false
	}
	if p.generalsFace() {
		return true
	}
	return p.IsAttacked(generalSq, opposite(side))
}

// generalsFace 两将同列且中间无子
func (p *Position) generalsFace() bool {
	red := p.generalSquare(Red)
	black := p.generalSquare(Black)
	if red == -1 || black == -1 {
		return false
	}
	if colOf(red) != colOf(black) {
		return false
	}
	lo, hi := rowOf(black), rowOf(red)
	if lo > hi {
		lo, hi = hi, lo
	}
	col := colOf(red)
	for r := lo + 1; r < hi; r++ {
		if p.Board.Squares[indexOf(r, col)] != 0 {
			return false
		}
	}
	return true
}
