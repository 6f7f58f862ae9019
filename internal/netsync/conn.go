package netsync

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPort = 5555
	// AlternatePort 旧版本用的端口
	AlternatePort = 5000

	DefaultPollInterval = 500 * time.Millisecond
	dialTimeout         = 5 * time.Second
	inboxSize           = 256
	readChunk           = 4096
)

type Role string

const (
	RoleNone   Role = ""
	RoleHost   Role = "host"
	RoleClient Role = "client"
)

var ErrNotConnected = errors.New("not connected")

// Conn 两个对等端之间的一条 TCP 连接。
// 后台 goroutine 只负责读和 accept，解析好的消息放进 inbox；
// 主循环用 Poll 非阻塞地取。
type Conn struct {
	log          *zap.SugaredLogger
	pollInterval time.Duration

	role     Role
	listener *net.TCPListener
	boundIP  string

	mu   sync.Mutex
	conn net.Conn

	inbox     chan Message
	done      chan struct{}
	connected atomic.Bool
	stopped   atomic.Bool
	wg        sync.WaitGroup
}

type Option func(*Conn)

func WithPollInterval(d time.Duration) Option {
	return func(c *Conn) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

func NewConn(log *zap.SugaredLogger, opts ...Option) *Conn {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Conn{
		log:          log,
		pollInterval: DefaultPollInterval,
		inbox:        make(chan Message, inboxSize),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Conn) Role() Role           { return c.role }
func (c *Conn) Connected() bool      { return c.connected.Load() }
func (c *Conn) AdvertisedIP() string { return c.boundIP }

// Port 实际监听端口（Host 传 0 时由系统分配）
func (c *Conn) Port() int {
	if c.listener == nil {
		return 0
	}
	return c.listener.Addr().(*net.TCPAddr).Port
}

// Host 在 0.0.0.0:port 监听并在后台等待一个对端，返回对外显示的地址
func (c *Conn) Host(port int) (string, error) {
	c.role = RoleHost
	c.boundIP = LocalIP()

	l, err := net.ListenTCP("tcp", &net.TCPAddr{Port: port})
	if err != nil {
		err = fmt.Errorf("listen on %d: %w", port, err)
		c.enqueue(ErrorMessage(err))
		return "", err
	}
	c.listener = l
	c.log.Infow("hosting", "ip", c.boundIP, "port", c.Port())

	c.wg.Add(1)
	go c.acceptLoop()
	return c.boundIP, nil
}

func (c *Conn) acceptLoop() {
	defer c.wg.Done()
	for !c.stopped.Load() {
		_ = c.listener.SetDeadline(time.Now().Add(c.pollInterval))
		conn, err := c.listener.Accept()
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if c.stopped.Load() {
				return
			}
			c.log.Warnw("accept failed", "error", err)
			c.enqueue(ErrorMessage(err))
			return
		}
		c.log.Infow("peer connected", "remote", conn.RemoteAddr().String())
		c.attach(conn)
		return
	}
}

// Connect 连接 host:port；失败时返回 false 并把错误放进 inbox，由上层决定是否重试
func (c *Conn) Connect(host string, port int) bool {
	c.role = RoleClient
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		c.log.Warnw("connect failed", "addr", addr, "error", err)
		c.enqueue(ErrorMessage(err))
		return false
	}
	c.log.Infow("connected", "addr", addr)
	c.attach(conn)
	c.Send(HelloMessage())
	return true
}

func (c *Conn) attach(conn net.Conn) {
	c.mu.Lock()
	if c.stopped.Load() {
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.conn = conn
	c.mu.Unlock()
	c.connected.Store(true)

	c.wg.Add(1)
	go c.recvLoop(conn)
}

func (c *Conn) recvLoop(conn net.Conn) {
	defer c.wg.Done()
	var lines LineBuffer
	buf := make([]byte, readChunk)
	for !c.stopped.Load() {
		_ = conn.SetReadDeadline(time.Now().Add(c.pollInterval))
		n, err := conn.Read(buf)
		if n > 0 {
			for _, line := range lines.Feed(buf[:n]) {
				msg, derr := Decode(line)
				if derr != nil {
					c.log.Debugw("dropping line", "error", derr)
					continue
				}
				c.enqueue(msg)
			}
		}
		if err == nil {
			continue
		}
		if isTimeout(err) {
			continue
		}
		if c.stopped.Load() {
			return
		}
		c.connected.Store(false)
		if errors.Is(err, io.EOF) {
			c.log.Infow("peer disconnected")
			c.enqueue(DisconnectMessage())
		} else {
			c.log.Warnw("receive failed", "error", err)
			c.enqueue(ErrorMessage(err))
		}
		return
	}
}

// Send 同步尽力发送；失败记一条 error 消息，不向上抛
func (c *Conn) Send(m Message) bool {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if !c.connected.Load() || conn == nil {
		return false
	}
	payload, err := Encode(m)
	if err != nil {
		c.enqueue(ErrorMessage(err))
		return false
	}
	if _, err := conn.Write(payload); err != nil {
		c.log.Warnw("send failed", "type", m.Type, "error", err)
		c.enqueue(ErrorMessage(err))
		return false
	}
	return true
}

// Poll 非阻塞取一条消息
func (c *Conn) Poll() (Message, bool) {
	select {
	case m := <-c.inbox:
		return m, true
	default:
		return Message{}, false
	}
}

func (c *Conn) enqueue(m Message) {
	select {
	case c.inbox <- m:
	case <-c.done:
	}
}

// Close 置停止标志并关掉 socket，等后台 goroutine 退出
func (c *Conn) Close() {
	if c.stopped.Swap(true) {
		return
	}
	close(c.done)
	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.mu.Unlock()
	if c.listener != nil {
		_ = c.listener.Close()
	}
	c.wg.Wait()
	c.connected.Store(false)
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
