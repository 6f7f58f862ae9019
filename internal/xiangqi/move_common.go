package xiangqi

var (
	// 上、下、左、右
	rookDirs = [4][2]int{{-1, 0}, {+1, 0}, {0, -1}, {0, +1}}
	// 左上、右上、左下、右下
	bishopDirs = [4][2]int{{-1, -1}, {-1, +1}, {+1, -1}, {+1, +1}}
)

// 落点为空或者是敌子
func canLand(p *Position, side Side, to int) bool {
	dst := p.Board.Squares[to]
	return dst == 0 || dst.Side() != side
}

// 车：横竖随便走，遇子可吃第一个
func genChariotMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range rookDirs {
		r, c := row+d[0], col+d[1]
		for onBoard(r, c) {
			to := indexOf(r, c)
			pc := p.Board.Squares[to]
			if pc == 0 {
				*moves = append(*moves, Move{From: from, To: to})
			} else {
				if pc.Side() != side {
					*moves = append(*moves, Move{From: from, To: to})
				}
				break
			}
			r += d[0]
			c += d[1]
		}
	}
}

// 炮：不吃子时同车，吃子必须隔一个炮架
func genCannonMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range rookDirs {
		r, c := row+d[0], col+d[1]

		// 走子阶段：直到第一个棋子
		for onBoard(r, c) {
			to := indexOf(r, c)
			if p.Board.Squares[to] == 0 {
				*moves = append(*moves, Move{From: from, To: to})
				r += d[0]
				c += d[1]
				continue
			}
			r += d[0]
			c += d[1]
			break
		}

		// 吃子阶段：越过炮架，遇到第一子可吃
		for onBoard(r, c) {
			to := indexOf(r, c)
			pc := p.Board.Squares[to]
			if pc != 0 {
				if pc.Side() != side {
					*moves = append(*moves, Move{From: from, To: to})
				}
				break
			}
			r += d[0]
			c += d[1]
		}
	}
}

// 相：田字，塞象眼不能走，不过河
func genElephantMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range bishopDirs {
		r := row + 2*d[0]
		c := col + 2*d[1]
		if !onBoard(r, c) || !ownHalf(side, r) {
			continue
		}
		if p.Board.Squares[indexOf(row+d[0], col+d[1])] != 0 {
			continue
		}
		to := indexOf(r, c)
		if canLand(p, side, to) {
			*moves = append(*moves, Move{From: from, To: to})
		}
	}
}

// 士：九宫内斜走一格
func genAdvisorMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range bishopDirs {
		r := row + d[0]
		c := col + d[1]
		if !inPalace(side, r, c) {
			continue
		}
		to := indexOf(r, c)
		if canLand(p, side, to) {
			*moves = append(*moves, Move{From: from, To: to})
		}
	}
}

// 将：九宫内上下左右一格。对脸在 check.go 里按将军处理
func genGeneralMoves(p *Position, from int, moves *[]Move) {
	row, col := rowOf(from), colOf(from)
	side := p.Board.Squares[from].Side()
	for _, d := range rookDirs {
		r := row + d[0]
		c := col + d[1]
		if !inPalace(side, r, c) {
			continue
		}
		to := indexOf(r, c)
		if canLand(p, side, to) {
			*moves = append(*moves, Move{From: from, To: to})
		}
	}
}
