package engine

import (
	"math/rand"

	"xiangqi/internal/xiangqi"
)

// RandomBot 在合法着法里均匀随机选一步，用来给搜索当陪练
type RandomBot struct {
	rng *rand.Rand
}

func NewRandomBot(seed int64) *RandomBot {
	return &RandomBot{rng: rand.New(rand.NewSource(seed))}
}

// Choose 只挑不走
func (b *RandomBot) Choose(pos *xiangqi.Position) (xiangqi.Move, bool) {
	moves := pos.GenerateLegalMoves(pos.SideToMove)
	if len(moves) == 0 {
		return xiangqi.Move{}, false
	}
	return moves[b.rng.Intn(len(moves))], true
}

// Move 挑一步并走掉；没有合法着法时返回 false
func (b *RandomBot) Move(pos *xiangqi.Position) (xiangqi.Move, bool) {
	mv, ok := b.Choose(pos)
	if !ok {
		return mv, false
	}
	mustApply(pos, mv)
	return mv, true
}
