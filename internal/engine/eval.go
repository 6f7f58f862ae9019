package engine

import (
	"xiangqi/internal/xiangqi"
)

// ======= 基础子力估值 =======

var pieceValue = [...]int{
	xiangqi.PieceNone:     0,
	xiangqi.PieceGeneral:  0, // 将帅不会被吃，胜负由搜索里的将死分表达
	xiangqi.PieceAdvisor:  120,
	xiangqi.PieceElephant: 120,
	xiangqi.PieceHorse:    270,
	xiangqi.PieceChariot:  600,
	xiangqi.PieceCannon:   285,
	xiangqi.PieceSoldier:  30,
}

const tempoBonus = 5

// Evaluate 材料 + 简单位置分 + 先手，红方视角
func Evaluate(pos *xiangqi.Position) int {
	score := 0
	for sq := 0; sq < xiangqi.NumSquares; sq++ {
		pc := pos.At(sq)
		if pc == 0 {
			continue
		}
		side := pc.Side()
		pt := pc.Type()
		r := sq / xiangqi.Cols
		c := sq % xiangqi.Cols

		val := pieceValue[pt] + piecePositionalBonus(pt, side, r, c)
		if side == xiangqi.Red {
			score += val
		} else {
			score -= val
		}
	}

	if pos.SideToMove == xiangqi.Red {
		score += tempoBonus
	} else {
		score -= tempoBonus
	}
	return score
}

// 从该子一方视角的位置加成
func piecePositionalBonus(pt xiangqi.PieceType, side xiangqi.Side, row, col int) int {
	midCol := xiangqi.Cols / 2
	advance := rankFromSide(side, row)
	centerBonus := 4 - abs(col-midCol) // [0,4]

	switch pt {
	case xiangqi.PieceSoldier:
		b := advance * 4
		if crossedRiver(side, row) {
			b += 40
			if col >= midCol-1 && col <= midCol+1 {
				b += 10
			}
		}
		// 沉底兵基本没用
		if advance == xiangqi.Rows-1 {
			b -= 30
		}
		return b
	case xiangqi.PieceChariot:
		b := centerBonus * 2
		if crossedRiver(side, row) {
			b += 10
		}
		return b
	case xiangqi.PieceHorse:
		b := centerBonus * 5
		if advance >= 3 && advance <= 7 {
			b += 8
		}
		// 边马
		if col == 0 || col == xiangqi.Cols-1 {
			b -= 10
		}
		return b
	case xiangqi.PieceCannon:
		b := centerBonus * 3
		if col == midCol {
			b += 8
		}
		return b
	case xiangqi.PieceGeneral:
		if col == midCol {
			return 6
		}
		return 0
	case xiangqi.PieceAdvisor, xiangqi.PieceElephant:
		if col == midCol {
			return 4
		}
		return 0
	}
	return 0
}

// rankFromSide 从己方底线算起的行数，0..9
func rankFromSide(side xiangqi.Side, row int) int {
	if side == xiangqi.Red {
		return xiangqi.Rows - 1 - row
	}
	return row
}

func crossedRiver(side xiangqi.Side, row int) bool {
	if side == xiangqi.Red {
		return row < xiangqi.RiverRow
	}
	return row >= xiangqi.RiverRow
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
