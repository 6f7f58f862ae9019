package xiangqi

const (
	// DefaultRepetitionThreshold 搜索层用来触发加深的重复次数
	DefaultRepetitionThreshold = 3
	// RepetitionDrawCount 同一局面出现这么多次判和
	RepetitionDrawCount = 5
)

type Reason string

const (
	ReasonNone       Reason = ""
	ReasonCheckmate  Reason = "checkmate"
	ReasonStalemate  Reason = "stalemate"
	ReasonRepetition Reason = "repetition"
)

// Outcome 终局信息；Winner 为 NoSide 表示和棋或未结束
type Outcome struct {
	Over   bool
	Winner Side
	Reason Reason
}

func (p *Position) IsCheckmate(side Side) bool {
	return p.IsInCheck(side) && !p.hasLegalMove(side)
}

// IsStalemate 困毙：没被将但无棋可走，本规则下判负
func (p *Position) IsStalemate(side Side) bool {
	return !p.IsInCheck(side) && !p.hasLegalMove(side)
}

func (p *Position) Outcome() Outcome {
	for _, side := range [2]Side{Red, Black} {
		if p.IsCheckmate(side) {
			return Outcome{Over: true, Winner: opposite(side), Reason: ReasonCheckmate}
		}
	}
	if p.IsStalemate(p.SideToMove) {
		return Outcome{Over: true, Winner: opposite(p.SideToMove), Reason: ReasonStalemate}
	}
	if p.RepetitionCount(p.SideToMove) >= RepetitionDrawCount {
		return Outcome{Over: true, Winner: NoSide, Reason: ReasonRepetition}
	}
	return Outcome{Winner: NoSide}
}

func (p *Position) IsGameOver() bool {
	return p.Outcome().Over
}

// windowStart 最近一次吃子之后的第一个 trail 下标；吃子不可逆，之前的局面不会再出现
func (p *Position) windowStart() int {
	for i := len(p.History) - 1; i >= 0; i-- {
		if p.History[i].Captured != 0 {
			return i + 1
		}
	}
	return 0
}

// RepetitionCount 窗口内最近一个轮到 side 走的局面出现了几次（含自身）
func (p *Position) RepetitionCount(side Side) int {
	start := p.windowStart()
	if start >= len(p.trail) {
		return 0
	}
	window := p.trail[start:]

	last := -1
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].Side == side {
			last = i
			break
		}
	}
	if last == -1 {
		return 0
	}
	target := window[last].Hash
	count := 0
	for _, e := range window {
		if e.Hash == target {
			count++
		}
	}
	return count
}

// IsRepeatingState threshold<=0 时用 DefaultRepetitionThreshold
func (p *Position) IsRepeatingState(side Side, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultRepetitionThreshold
	}
	return p.RepetitionCount(side) >= threshold
}
