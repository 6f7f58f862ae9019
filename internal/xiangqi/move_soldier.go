package xiangqi

func genSoldierMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	pc := p.Board.Squares[from]
	if pc == 0 {
		return
	}
	side := pc.Side()

	// 前一格（可以吃子）
	if r := row + soldierDir(side); onBoard(r, col) {
		to := indexOf(r, col)
		if canLand(p, side, to) {
			*moves = append(*moves, Move{From: from, To: to})
		}
	}

	// 过河后多了左右一格，永远不能后退
	if ownHalf(side, row) {
		return
	}
	for _, dc := range [2]int{-1, +1} {
		c := col + dc
		if !onBoard(row, c) {
			continue
		}
		to := indexOf(row, c)
		if canLand(p, side, to) {
			*moves = append(*moves, Move{From: from, To: to})
		}
	}
}
