package game

import "xiangqi/internal/xiangqi"

// 每次升深度时重复阈值跟着加的量
const thresholdStep = 3

// DepthController 管理搜索深度的临时提升：走子方陷入重复时加深，
// 否则回到默认深度。状态只属于调用方，引擎本身是无状态的。
type DepthController struct {
	Default   int
	Step      int
	Max       int
	Threshold int

	current   int
	threshold int
}

func NewDepthController(def, step, max, threshold int) *DepthController {
	if def < 1 {
		def = 1
	}
	if step < 1 {
		step = 1
	}
	if max < def {
		max = def
	}
	if threshold < 2 {
		threshold = xiangqi.DefaultRepetitionThreshold
	}
	d := &DepthController{Default: def, Step: step, Max: max, Threshold: threshold}
	d.Reset()
	return d
}

func (d *DepthController) Reset() {
	d.current = d.Default
	d.threshold = d.Threshold
}

func (d *DepthController) Current() int          { return d.current }
func (d *DepthController) CurrentThreshold() int { return d.threshold }

// Next 在 side 搜索之前调用，返回这次应使用的深度
func (d *DepthController) Next(pos *xiangqi.Position, side xiangqi.Side) int {
	if pos.IsRepeatingState(side, d.threshold) {
		d.current += d.Step
		if d.current > d.Max {
			d.current = d.Max
		}
		d.threshold += thresholdStep
		return d.current
	}
	d.Reset()
	return d.current
}
