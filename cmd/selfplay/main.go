package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"xiangqi/internal/bootstrap"
	"xiangqi/internal/engine"
	"xiangqi/internal/selfplay"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "optional config file")
	games := flag.Int("games", 0, "games per difficulty (default SELFPLAY_GAMES)")
	maxPlies := flag.Int("maxplies", 0, "ply cap per game (default SELFPLAY_MAX_PLIES)")
	diffs := flag.String("difficulties", "easy,medium,hard", "comma separated difficulties")
	out := flag.String("out", "", "parquet output path (default SELFPLAY_OUTPUT)")
	seed := flag.Int64("seed", 1, "random bot seed")
	flag.Parse()

	cfg, err := bootstrap.Setup(*cfgPath)
	if err != nil {
		panic(err)
	}
	log := bootstrap.NewLogger(cfg.LogLevel)
	defer log.Sync()

	if *games <= 0 {
		*games = cfg.SelfplayGames
	}
	if *maxPlies <= 0 {
		*maxPlies = cfg.SelfplayMaxPlies
	}
	if *out == "" {
		*out = cfg.SelfplayOutput
	}

	var levels []engine.Difficulty
	for _, s := range strings.Split(*diffs, ",") {
		d, err := engine.ParseDifficulty(strings.TrimSpace(s))
		if err != nil {
			log.Fatalw("bad difficulty", "value", s, "error", err)
		}
		levels = append(levels, d)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := &selfplay.Runner{
		Games:        *games,
		Difficulties: levels,
		MaxPlies:     *maxPlies,
		Seed:         *seed,
		Settings:     cfg.GameSettings(),
		Log:          log,
	}
	rep, err := r.Run(ctx)
	if err != nil {
		log.Fatalw("selfplay failed", "error", err)
	}
	printReport(os.Stdout, rep)

	if *out != "" {
		if err := selfplay.WriteParquet(*out, rep.Records, 4); err != nil {
			log.Fatalw("write parquet", "path", *out, "error", err)
		}
		log.Infow("records written", "path", *out, "rows", len(rep.Records))
	}
}
