package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"xiangqi/internal/engine"
	"xiangqi/internal/netsync"
	"xiangqi/internal/xiangqi"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrGameOver    = errors.New("game is over")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNoHistory   = errors.New("nothing to undo")
	ErrOffline     = errors.New("no online peer")
)

type Mode int

const (
	ModeLocal       Mode = iota // 两人同屏
	ModeVsEngine                // 人机
	ModeBotVsEngine             // 随机 bot 执黑，引擎执红
	ModeOnline                  // 两台机器对下
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeVsEngine:
		return "vs_engine"
	case ModeBotVsEngine:
		return "bot_vs_engine"
	case ModeOnline:
		return "online"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "local":
		return ModeLocal, nil
	case "vs_engine", "ai":
		return ModeVsEngine, nil
	case "bot_vs_engine", "random_vs_alpha":
		return ModeBotVsEngine, nil
	case "online":
		return ModeOnline, nil
	}
	return ModeLocal, fmt.Errorf("unknown mode %q", s)
}

// Settings 会话共用的可调参数，一般由 bootstrap 配置生成
type Settings struct {
	Depths          engine.Depths
	DepthStep       int
	DepthMax        int
	Threshold       int
	Seed            int64
	NetPollInterval time.Duration
	Log             *zap.SugaredLogger
}

func DefaultSettings() Settings {
	return Settings{
		Depths:          engine.DefaultDepths,
		DepthStep:       1,
		DepthMax:        engine.DefaultDepths.Hard + 2,
		Threshold:       xiangqi.DefaultRepetitionThreshold,
		Seed:            time.Now().UnixNano(),
		NetPollInterval: netsync.DefaultPollInterval,
	}
}

// Session 一局棋的全部上下文：棋盘、模式、引擎、深度控制和可选的网络连接。
// 不是并发安全的；Manager 用会话自带的锁串行化访问。
type Session struct {
	mu sync.Mutex

	ID         string
	Pos        *xiangqi.Position
	Mode       Mode
	Player     xiangqi.Side // 人类执子方；本地对下和 bot 对局为 NoSide
	Difficulty engine.Difficulty
	Selected   *xiangqi.Pos
	LastSearch *engine.SearchResult
	// 对端发来但本地判定不合法而丢弃的着法数
	Desyncs   int
	PeerGone  bool
	CreatedAt time.Time
	UpdatedAt time.Time

	settings  Settings
	log       *zap.SugaredLogger
	engine    *engine.Engine
	bot       *engine.RandomBot
	depth     *DepthController
	net       *netsync.Conn
	peerHello bool
}

func NewSession(settings Settings, mode Mode, player xiangqi.Side, diff engine.Difficulty) (*Session, error) {
	if diff == 0 {
		diff = engine.Medium
	}
	if diff < engine.Easy || diff > engine.Hard {
		return nil, fmt.Errorf("difficulty %d out of range", int(diff))
	}
	switch mode {
	case ModeVsEngine:
		if player != xiangqi.Red && player != xiangqi.Black {
			return nil, fmt.Errorf("vs engine needs a player side, got %v", player)
		}
	case ModeLocal, ModeBotVsEngine, ModeOnline:
		player = xiangqi.NoSide
	default:
		return nil, fmt.Errorf("unknown mode %d", int(mode))
	}
	log := settings.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if settings.Depths == (engine.Depths{}) {
		settings.Depths = engine.DefaultDepths
	}

	now := time.Now()
	s := &Session{
		Mode:       mode,
		Player:     player,
		Difficulty: diff,
		CreatedAt:  now,
		UpdatedAt:  now,
		settings:   settings,
		log:        log,
		engine:     engine.NewEngine(),
		bot:        engine.NewRandomBot(settings.Seed),
	}
	s.depth = s.newDepthController()
	s.Reset()
	return s, nil
}

func (s *Session) newDepthController() *DepthController {
	return NewDepthController(s.settings.Depths.For(s.Difficulty), s.settings.DepthStep, s.settings.DepthMax, s.settings.Threshold)
}

// Reset 回到开局，保留模式、执子方和网络连接
func (s *Session) Reset() {
	s.Pos = xiangqi.NewInitialPosition()
	s.Selected = nil
	s.LastSearch = nil
	s.Desyncs = 0
	s.depth.Reset()
}

func (s *Session) SetDifficulty(d engine.Difficulty) error {
	if d < engine.Easy || d > engine.Hard {
		return fmt.Errorf("difficulty %d out of range", int(d))
	}
	s.Difficulty = d
	s.depth = s.newDepthController()
	return nil
}

// SetEvaluator 换掉引擎的静态评估
func (s *Session) SetEvaluator(ev engine.Evaluator) { s.engine.Eval = ev }

func (s *Session) Depth() *DepthController { return s.depth }

func (s *Session) CurrentPlayer() xiangqi.Side { return s.Pos.SideToMove }

func (s *Session) Outcome() xiangqi.Outcome { return s.Pos.Outcome() }

func (s *Session) InCheck() bool { return s.Pos.IsInCheck(s.Pos.SideToMove) }

// HumanToMove 当前是否轮到本地玩家操作
func (s *Session) HumanToMove() bool {
	switch s.Mode {
	case ModeLocal:
		return true
	case ModeVsEngine:
		return s.Pos.SideToMove == s.Player
	case ModeOnline:
		return s.Ready() && s.Pos.SideToMove == s.Player
	}
	return false
}

// Ready 联机时双方是否都已就位。主机要等到对方的 hello。
func (s *Session) Ready() bool {
	if s.net == nil || !s.net.Connected() || s.PeerGone {
		return false
	}
	return s.net.Role() == netsync.RoleClient || s.peerHello
}

// Online 是否持有网络连接
func (s *Session) Online() bool { return s.net != nil }

// Click 处理一次点击：先选子，再点目标落子。点到己方另一子时改选。
// 返回是否走出了一步。
func (s *Session) Click(at xiangqi.Pos) (bool, error) {
	if !at.Valid() {
		return false, fmt.Errorf("%w: %v", xiangqi.ErrOffBoard, at)
	}
	if s.Pos.IsGameOver() {
		return false, ErrGameOver
	}
	if !s.HumanToMove() {
		return false, ErrNotYourTurn
	}
	pc := s.Pos.PieceAt(at)
	own := pc != 0 && pc.Side() == s.Pos.SideToMove
	if s.Selected == nil {
		if own {
			sel := at
			s.Selected = &sel
		}
		return false, nil
	}
	if own {
		if *s.Selected == at {
			s.Selected = nil
		} else {
			sel := at
			s.Selected = &sel
		}
		return false, nil
	}
	from := *s.Selected
	s.Selected = nil
	if _, err := s.Play(xiangqi.NewMove(from, at)); err != nil {
		return false, err
	}
	return true, nil
}

// Play 本地玩家走一步；联机模式下同时发给对端
func (s *Session) Play(m xiangqi.Move) (xiangqi.MoveRecord, error) {
	if s.Pos.IsGameOver() {
		return xiangqi.MoveRecord{}, ErrGameOver
	}
	if !s.HumanToMove() {
		return xiangqi.MoveRecord{}, ErrNotYourTurn
	}
	if !s.Pos.IsLegal(m) {
		return xiangqi.MoveRecord{}, fmt.Errorf("%w: %v->%v", ErrIllegalMove, m.FromPos(), m.ToPos())
	}
	rec, err := s.Pos.ApplyMove(m)
	if err != nil {
		return rec, err
	}
	s.Selected = nil
	if s.Mode == ModeOnline && !s.net.Send(netsync.MoveMessage(m)) {
		s.log.Warnw("move not delivered", "move", m)
	}
	return rec, nil
}

// EngineTurn 让引擎替当前走子方走一步；深度由 DepthController 决定
func (s *Session) EngineTurn() (engine.SearchResult, error) {
	if s.Pos.IsGameOver() {
		return engine.SearchResult{}, ErrGameOver
	}
	side := s.Pos.SideToMove
	depth := s.depth.Next(s.Pos, side)
	if depth != s.depth.Default {
		s.log.Infow("repetition detected, deepening search", "side", side, "depth", depth, "threshold", s.depth.CurrentThreshold())
	}
	res := s.engine.SearchAndApply(s.Pos, side, depth)
	s.LastSearch = &res
	s.log.Debugw("engine move", "side", side, "move", res.Move, "score", res.Score,
		"depth", res.Depth, "nodes", res.Nodes, "elapsed", res.Elapsed)
	return res, nil
}

// RandomTurn 随机 bot 替当前走子方走一步
func (s *Session) RandomTurn() (xiangqi.Move, error) {
	if s.Pos.IsGameOver() {
		return xiangqi.Move{}, ErrGameOver
	}
	mv, ok := s.bot.Move(s.Pos)
	if !ok {
		return mv, ErrGameOver
	}
	return mv, nil
}

// Undo 悔棋。人机模式下一直退到玩家走子。联机不支持。
func (s *Session) Undo() (int, error) {
	if s.Mode == ModeOnline {
		return 0, fmt.Errorf("undo in online game: %w", ErrNotYourTurn)
	}
	if len(s.Pos.History) == 0 {
		return 0, ErrNoHistory
	}
	n := 0
	for {
		if _, ok := s.Pos.UndoLast(); !ok {
			break
		}
		n++
		if s.Mode != ModeVsEngine || s.Pos.SideToMove == s.Player {
			break
		}
	}
	s.Selected = nil
	s.LastSearch = nil
	return n, nil
}

// Step 主循环的一次迭代：联机时处理一条网络消息，否则轮到电脑就走一步。
// 返回棋盘是否发生了变化。
func (s *Session) Step() (bool, error) {
	if s.Mode == ModeOnline {
		return s.pollNetwork(), nil
	}
	if s.Pos.IsGameOver() {
		return false, nil
	}
	switch s.Mode {
	case ModeVsEngine:
		if s.Pos.SideToMove == s.Player {
			return false, nil
		}
		_, err := s.EngineTurn()
		return err == nil, err
	case ModeBotVsEngine:
		if s.Pos.SideToMove == xiangqi.Black {
			_, err := s.RandomTurn()
			return err == nil, err
		}
		_, err := s.EngineTurn()
		return err == nil, err
	}
	return false, nil
}

func (s *Session) pollNetwork() bool {
	if s.net == nil {
		return false
	}
	msg, ok := s.net.Poll()
	if !ok {
		return false
	}
	switch msg.Type {
	case netsync.TypeHello:
		s.peerHello = true
		s.log.Infow("peer ready")
	case netsync.TypeMove:
		return s.applyRemote(msg)
	case netsync.TypeDisconnect:
		s.log.Infow("peer disconnected")
		s.PeerGone = true
		s.net.Close()
	case netsync.TypeError:
		s.log.Warnw("network error", "message", msg.Message)
		if !s.net.Connected() && s.net.Role() == netsync.RoleClient {
			s.PeerGone = true
		}
	}
	return false
}

// applyRemote 对端着法在本地重新校验，不合法就丢弃
func (s *Session) applyRemote(msg netsync.Message) bool {
	mv, ok := msg.Move()
	if !ok {
		return false
	}
	if s.Pos.IsGameOver() || s.Pos.SideToMove == s.Player || !s.Pos.IsLegal(mv) {
		s.Desyncs++
		s.log.Warnw("ignoring remote move", "from", mv.FromPos(), "to", mv.ToPos(),
			"side_to_move", s.Pos.SideToMove, "desyncs", s.Desyncs)
		return false
	}
	if _, err := s.Pos.ApplyMove(mv); err != nil {
		s.Desyncs++
		s.log.Warnw("remote move rejected", "error", err)
		return false
	}
	return true
}

// Host 开始联机并等待对端，本方执红
func (s *Session) Host(port int) (string, error) {
	s.CloseOnline()
	conn := netsync.NewConn(s.log, netsync.WithPollInterval(s.settings.NetPollInterval))
	ip, err := conn.Host(port)
	if err != nil {
		conn.Close()
		return "", err
	}
	s.attachNet(conn, xiangqi.Red)
	return ip, nil
}

// Join 连接主机，本方执黑
func (s *Session) Join(host string, port int) error {
	s.CloseOnline()
	conn := netsync.NewConn(s.log, netsync.WithPollInterval(s.settings.NetPollInterval))
	if !conn.Connect(host, port) {
		reason := "connect failed"
		if m, ok := conn.Poll(); ok && m.Message != "" {
			reason = m.Message
		}
		conn.Close()
		return fmt.Errorf("join %s:%d: %s: %w", host, port, reason, ErrOffline)
	}
	s.attachNet(conn, xiangqi.Black)
	return nil
}

func (s *Session) attachNet(conn *netsync.Conn, side xiangqi.Side) {
	s.net = conn
	s.Mode = ModeOnline
	s.Player = side
	s.PeerGone = false
	s.peerHello = false
	s.Reset()
}

// HostPort 主机实际监听端口
func (s *Session) HostPort() int {
	if s.net == nil {
		return 0
	}
	return s.net.Port()
}

// CloseOnline 通知对端后断开；没有连接时什么也不做
func (s *Session) CloseOnline() {
	if s.net == nil {
		return
	}
	if s.net.Connected() && !s.PeerGone {
		s.net.Send(netsync.DisconnectMessage())
	}
	s.net.Close()
	s.net = nil
}
