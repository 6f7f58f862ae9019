package xiangqi

// 键表在包初始化时生成，任何 Position（包括直接用结构体字面量构造的）都能增量更新哈希。
var (
	zobristPieces [2][PieceSoldier + 1][NumSquares]uint64
	zobristSide   uint64
)

func init() {
	var rng splitMix64 = 0x1F83D9ABFB41BD6B
	for side := range zobristPieces {
		for pt := PieceGeneral; pt <= PieceSoldier; pt++ {
			for sq := range zobristPieces[side][pt] {
				zobristPieces[side][pt][sq] = rng.Uint64()
			}
		}
	}
	zobristSide = rng.Uint64()
}

// splitMix64 固定种子的伪随机序列，保证不同进程哈希一致
type splitMix64 uint64

func (s *splitMix64) Uint64() uint64 {
	*s += 0x9E3779B97F4A7C15
	z := uint64(*s)
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func pieceHashKey(pc Piece, sq int) uint64 {
	pt := pc.Type()
	if pc == 0 || pt < PieceGeneral || pt > PieceSoldier || sq < 0 || sq >= NumSquares {
		return 0
	}
	if pc.Side() == Black {
		return zobristPieces[1][pt][sq]
	}
	return zobristPieces[0][pt][sq]
}

// CalculateHash 从头算一遍：所有棋子的键异或，黑方走时再异或走子键
func (p *Position) CalculateHash() uint64 {
	var h uint64
	for sq, pc := range p.Board.Squares {
		h ^= pieceHashKey(pc, sq)
	}
	if p.SideToMove == Black {
		h ^= zobristSide
	}
	return h
}
