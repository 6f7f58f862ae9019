package engine

import (
	"fmt"
	"sort"
	"time"

	"xiangqi/internal/xiangqi"
)

const (
	// 一个足够大的值，当成正负无穷
	scoreInf = 1_000_000_000
	// 将死分；减去 ply 让更快的杀棋分更高
	mateScore = 1_000_000
)

// 搜索结果
type SearchResult struct {
	Move    xiangqi.Move  // 最佳着法
	Score   int           // 评估分（正：红方好，负：黑方好）
	Depth   int           // 搜索深度（ply）
	Nodes   int64         // 节点数
	Elapsed time.Duration // 花费时间
}

// IsMate 分数是否代表有杀
func (r SearchResult) IsMate() bool {
	return r.Score >= mateScore-1000 || r.Score <= -(mateScore-1000)
}

// SearchAndApply 搜索 side 的最佳着法并在 pos 上走这一步。
// 对 pos 的可见影响恰好是一次 ApplyMove。
// side 不是走子方或者没有合法着法都属于调用方的 bug，直接 panic。
func (e *Engine) SearchAndApply(pos *xiangqi.Position, side xiangqi.Side, depth int) SearchResult {
	res := e.Search(pos, side, depth)
	if _, err := pos.ApplyMove(res.Move); err != nil {
		panic(fmt.Sprintf("engine: best move %v not applicable: %v", res.Move, err))
	}
	return res
}

// Search 只思考不落子。走法顺序：吃子优先（按被吃子价值降序，稳定排序），
// 其余保持生成顺序；分数相同取先遇到的着法，所以结果可复现。
func (e *Engine) Search(pos *xiangqi.Position, side xiangqi.Side, depth int) SearchResult {
	if side != pos.SideToMove {
		panic(fmt.Sprintf("engine: search for %v but %v to move", side, pos.SideToMove))
	}
	if depth < 1 {
		depth = 1
	}
	start := time.Now()
	e.nodes = 0

	moves := pos.GenerateLegalMoves(side)
	if len(moves) == 0 {
		panic(fmt.Sprintf("engine: search invoked without legal moves (%s)", pos.Encode()))
	}
	orderMoves(pos, moves)

	maximize := side == xiangqi.Red
	alpha, beta := -scoreInf, scoreInf
	bestMove := moves[0]
	bestScore := 0

	for i, mv := range moves {
		mustApply(pos, mv)
		score := e.alphaBeta(pos, depth-1, 1, alpha, beta)
		pos.UndoLast()

		if maximize {
			if i == 0 || score > bestScore {
				bestScore, bestMove = score, mv
			}
			if bestScore > alpha {
				alpha = bestScore
			}
		} else {
			if i == 0 || score < bestScore {
				bestScore, bestMove = score, mv
			}
			if bestScore < beta {
				beta = bestScore
			}
		}
	}

	bestMove.Score = bestScore
	return SearchResult{
		Move:    bestMove,
		Score:   bestScore,
		Depth:   depth,
		Nodes:   e.nodes,
		Elapsed: time.Since(start),
	}
}

// 内部递归：标准 alpha-beta，走子/退子都在同一个 pos 上完成
func (e *Engine) alphaBeta(pos *xiangqi.Position, depth, ply int, alpha, beta int) int {
	e.nodes++
	side := pos.SideToMove

	// 叶子也要先看有没有棋可走，否则困毙会被当成普通局面估值
	moves := pos.GenerateLegalMoves(side)
	if len(moves) == 0 {
		return terminalScore(pos, side, ply)
	}
	if depth <= 0 {
		return e.eval(pos)
	}
	orderMoves(pos, moves)

	if side == xiangqi.Red {
		best := -scoreInf
		for _, mv := range moves {
			mustApply(pos, mv)
			score := e.alphaBeta(pos, depth-1, ply+1, alpha, beta)
			pos.UndoLast()
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if alpha >= beta {
				break
			}
		}
		return best
	}

	best := scoreInf
	for _, mv := range moves {
		mustApply(pos, mv)
		score := e.alphaBeta(pos, depth-1, ply+1, alpha, beta)
		pos.UndoLast()
		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

// terminalScore 无棋可走的一方判负。同一 ply 下将死比困毙多 1 分，
// 更近的胜利分更高：mateScore - 2*ply 为将死，再减 1 为困毙。
func terminalScore(pos *xiangqi.Position, side xiangqi.Side, ply int) int {
	score := mateScore - 2*ply
	if !pos.IsInCheck(side) {
		score--
	}
	if side == xiangqi.Red {
		return -score
	}
	return score
}

func mustApply(pos *xiangqi.Position, mv xiangqi.Move) {
	if _, err := pos.ApplyMove(mv); err != nil {
		panic(fmt.Sprintf("engine: legal move %v rejected: %v", mv, err))
	}
}

// 吃子优先，按被吃子价值降序；稳定排序保证同分时仍按生成顺序
func orderMoves(pos *xiangqi.Position, moves []xiangqi.Move) {
	for i := range moves {
		moves[i].Score = pieceValue[pos.At(moves[i].To).Type()]
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Score > moves[j].Score
	})
}
