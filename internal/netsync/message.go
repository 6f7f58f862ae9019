package netsync

import (
	"encoding/json"
	"errors"
	"fmt"

	"xiangqi/internal/xiangqi"
)

type Type string

const (
	TypeMove       Type = "move"
	TypeDisconnect Type = "disconnect"
	TypeError      Type = "error"
	TypeHello      Type = "hello"
)

var ErrMalformed = errors.New("malformed message")

// Coord 线上格式 [row, col]
type Coord [2]int

func CoordOf(p xiangqi.Pos) *Coord { return &Coord{p.Row, p.Col} }

func (c Coord) Pos() xiangqi.Pos { return xiangqi.Pos{Row: c[0], Col: c[1]} }

// UnmarshalJSON 必须恰好两个数；定长数组默认会静默补零或截断
func (c *Coord) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: coordinate: %v", ErrMalformed, err)
	}
	if len(v) != 2 {
		return fmt.Errorf("%w: coordinate needs 2 values, got %d", ErrMalformed, len(v))
	}
	c[0], c[1] = v[0], v[1]
	return nil
}

// Message 一行一条 JSON，按 type 区分
type Message struct {
	Type    Type   `json:"type"`
	From    *Coord `json:"from,omitempty"`
	To      *Coord `json:"to,omitempty"`
	Message string `json:"message,omitempty"`
}

func MoveMessage(m xiangqi.Move) Message {
	return Message{Type: TypeMove, From: CoordOf(m.FromPos()), To: CoordOf(m.ToPos())}
}

func ErrorMessage(err error) Message {
	return Message{Type: TypeError, Message: err.Error()}
}

func HelloMessage() Message      { return Message{Type: TypeHello} }
func DisconnectMessage() Message { return Message{Type: TypeDisconnect} }

// Move 仅对 move 消息有意义
func (m Message) Move() (xiangqi.Move, bool) {
	if m.Type != TypeMove || m.From == nil || m.To == nil {
		return xiangqi.Move{}, false
	}
	return xiangqi.NewMove(m.From.Pos(), m.To.Pos()), true
}

// Encode 带换行结尾
func Encode(m Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Decode 解析一行（不含换行）；解析失败或字段不全都返回 ErrMalformed
func Decode(line []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(line, &m); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch m.Type {
	case TypeMove:
		if m.From == nil || m.To == nil {
			return Message{}, fmt.Errorf("%w: move needs from and to", ErrMalformed)
		}
		if !m.From.Pos().Valid() || !m.To.Pos().Valid() {
			return Message{}, fmt.Errorf("%w: move off board", ErrMalformed)
		}
	case TypeDisconnect, TypeError, TypeHello:
	default:
		return Message{}, fmt.Errorf("%w: unknown type %q", ErrMalformed, m.Type)
	}
	return m, nil
}
