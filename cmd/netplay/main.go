package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"xiangqi/internal/bootstrap"
	"xiangqi/internal/engine"
	"xiangqi/internal/game"
	"xiangqi/internal/xiangqi"
)

const tick = 50 * time.Millisecond

func main() {
	cfgPath := flag.String("config", "config.yaml", "optional config file")
	host := flag.Bool("host", false, "host a game and wait for a peer (plays red)")
	join := flag.String("join", "", "host ip to join (plays black)")
	port := flag.Int("port", 0, "tcp port (default NET_PORT)")
	flag.Parse()

	cfg, err := bootstrap.Setup(*cfgPath)
	if err != nil {
		panic(err)
	}
	log := bootstrap.NewLogger(cfg.LogLevel)
	defer log.Sync()
	if *port == 0 {
		*port = cfg.NetPort
	}

	settings := cfg.GameSettings()
	settings.Log = log
	s, err := game.NewSession(settings, game.ModeLocal, xiangqi.NoSide, engine.Medium)
	if err != nil {
		log.Fatalw("session", "error", err)
	}
	defer s.CloseOnline()

	switch {
	case *host:
		ip, err := s.Host(*port)
		if err != nil {
			log.Fatalw("host", "error", err)
		}
		fmt.Printf("hosting on %s:%d, waiting for opponent...\n", ip, s.HostPort())
	case *join != "":
		if err := s.Join(*join, *port); err != nil {
			log.Fatalw("join", "error", err)
		}
		fmt.Printf("connected to %s:%d, you play black\n", *join, *port)
	default:
		fmt.Fprintln(os.Stderr, "usage: netplay -host | -join <ip>")
		os.Exit(2)
	}

	lines := make(chan string)
	go readLines(lines)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	announced := false
	for {
		select {
		case <-sig:
			return
		case line, ok := <-lines:
			if !ok || line == "quit" {
				return
			}
			handleInput(s, line)
		case <-ticker.C:
			moved, _ := s.Step()
			if !announced && s.Ready() {
				announced = true
				fmt.Println("opponent ready, enter moves as: row col row col")
				printBoard(s)
			}
			if moved {
				printBoard(s)
			}
			if s.PeerGone {
				fmt.Println("opponent left")
				return
			}
		}
	}
}

func readLines(out chan<- string) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		out <- strings.TrimSpace(sc.Text())
	}
	close(out)
}

func handleInput(s *game.Session, line string) {
	if line == "" || line == "board" {
		printBoard(s)
		return
	}
	mv, err := parseMove(line)
	if err != nil {
		fmt.Println(err)
		return
	}
	if _, err := s.Play(mv); err != nil {
		fmt.Println(err)
		return
	}
	printBoard(s)
}

func parseMove(line string) (xiangqi.Move, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) != 4 {
		return xiangqi.Move{}, fmt.Errorf("expected 4 numbers, got %q", line)
	}
	var n [4]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return xiangqi.Move{}, fmt.Errorf("bad number %q", f)
		}
		n[i] = v
	}
	from, to := xiangqi.Pos{Row: n[0], Col: n[1]}, xiangqi.Pos{Row: n[2], Col: n[3]}
	if !from.Valid() || !to.Valid() {
		return xiangqi.Move{}, fmt.Errorf("square off board")
	}
	return xiangqi.NewMove(from, to), nil
}

func printBoard(s *game.Session) {
	fmt.Println(s.Pos.String())
	out := s.Outcome()
	switch {
	case out.Over:
		fmt.Printf("game over: %s, winner %v\n", out.Reason, out.Winner)
	case s.HumanToMove():
		fmt.Printf("your move (%v)%s\n", s.CurrentPlayer(), checkSuffix(s))
	default:
		fmt.Printf("waiting for %v\n", s.CurrentPlayer())
	}
}

func checkSuffix(s *game.Session) string {
	if s.InCheck() {
		return ", in check"
	}
	return ""
}
