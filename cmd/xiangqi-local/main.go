package main

import (
	"flag"
	"os/exec"
	"runtime"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"xiangqi/internal/bootstrap"
	"xiangqi/internal/game"
	httpserver "xiangqi/internal/server/http"
)

func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux / bsd
		cmd = exec.Command("xdg-open", url)
	}

	_ = cmd.Start() // 不阻塞，不关心错误（某些服务器环境可能无图形界面）
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "optional config file")
	webDir := flag.String("web", "", "directory with index.html / js / svg")
	open := flag.Bool("open", false, "open the default browser")
	flag.Parse()

	cfg, err := bootstrap.Setup(*cfgPath)
	if err != nil {
		panic(err)
	}
	log := bootstrap.NewLogger(cfg.LogLevel)
	defer log.Sync()

	settings := cfg.GameSettings()
	settings.Log = log
	h := httpserver.NewHandler(game.NewManager(settings), log)
	srv := httpserver.NewServer(cfg.HttpAddr, httpserver.NewRouter(h, *webDir))

	log.Infow("listening", "addr", cfg.HttpAddr, "web", *webDir)

	if *open && *webDir != "" {
		// 延迟 100ms 打开默认浏览器，否则可能服务器未启动完成
		go func() {
			time.Sleep(100 * time.Millisecond)
			addr := cfg.HttpAddr
			if strings.HasPrefix(addr, ":") {
				addr = "127.0.0.1" + addr
			}
			openBrowser("http://" + addr + "/web/")
		}()
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}
