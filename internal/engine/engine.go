package engine

import (
	"fmt"
	"strings"

	"xiangqi/internal/xiangqi"
)

// Evaluator 静态评估，红方视角：正数红方好，负数黑方好
type Evaluator func(pos *xiangqi.Position) int

type Engine struct {
	Eval  Evaluator
	nodes int64
}

func NewEngine() *Engine {
	return &Engine{Eval: Evaluate}
}

func (e *Engine) eval(pos *xiangqi.Position) int {
	if e.Eval != nil {
		return e.Eval(pos)
	}
	return Evaluate(pos)
}

// Nodes 上一次搜索访问的节点数
func (e *Engine) Nodes() int64 { return e.nodes }

type Difficulty int

const (
	Easy Difficulty = iota + 1
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "1":
		return Easy, nil
	case "medium", "2", "":
		return Medium, nil
	case "hard", "3":
		return Hard, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// Depths 难度到搜索深度（ply）的映射
type Depths struct {
	Easy   int
	Medium int
	Hard   int
}

var DefaultDepths = Depths{Easy: 2, Medium: 3, Hard: 4}

func (d Depths) For(diff Difficulty) int {
	switch diff {
	case Easy:
		return d.Easy
	case Hard:
		return d.Hard
	default:
		return d.Medium
	}
}
