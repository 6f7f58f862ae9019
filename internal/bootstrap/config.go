package bootstrap

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"

	"xiangqi/internal/engine"
	"xiangqi/internal/game"
	"xiangqi/internal/netsync"
	"xiangqi/internal/xiangqi"
)

type Config struct {
	NetPort             int    `mapstructure:"NET_PORT"`
	NetPollMs           int    `mapstructure:"NET_POLL_MS"`
	EngineDepthEasy     int    `mapstructure:"ENGINE_DEPTH_EASY"`
	EngineDepthMedium   int    `mapstructure:"ENGINE_DEPTH_MEDIUM"`
	EngineDepthHard     int    `mapstructure:"ENGINE_DEPTH_HARD"`
	EngineDepthStep     int    `mapstructure:"ENGINE_DEPTH_STEP"`
	EngineDepthMax      int    `mapstructure:"ENGINE_DEPTH_MAX"`
	RepetitionThreshold int    `mapstructure:"REPETITION_THRESHOLD"`
	HttpAddr            string `mapstructure:"HTTP_ADDR"`
	LogLevel            string `mapstructure:"LOG_LEVEL"`
	SelfplayGames       int    `mapstructure:"SELFPLAY_GAMES"`
	SelfplayMaxPlies    int    `mapstructure:"SELFPLAY_MAX_PLIES"`
	SelfplayOutput      string `mapstructure:"SELFPLAY_OUTPUT"`
}

var defaults = map[string]any{
	"NET_PORT":             netsync.DefaultPort,
	"NET_POLL_MS":          int(netsync.DefaultPollInterval / time.Millisecond),
	"ENGINE_DEPTH_EASY":    engine.DefaultDepths.Easy,
	"ENGINE_DEPTH_MEDIUM":  engine.DefaultDepths.Medium,
	"ENGINE_DEPTH_HARD":    engine.DefaultDepths.Hard,
	"ENGINE_DEPTH_STEP":    1,
	"ENGINE_DEPTH_MAX":     engine.DefaultDepths.Hard + 2,
	"REPETITION_THRESHOLD": xiangqi.DefaultRepetitionThreshold,
	"HTTP_ADDR":            ":8080",
	"LOG_LEVEL":            "info",
	"SELFPLAY_GAMES":       10,
	"SELFPLAY_MAX_PLIES":   300,
	"SELFPLAY_OUTPUT":      "",
}

// Setup 读取配置：默认值 < 配置文件 < 环境变量。cfgPath 为空或文件不存在时只用默认值和环境变量。
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil && !isMissing(err) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isMissing(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, os.ErrNotExist)
}

func (c *Config) Depths() engine.Depths {
	return engine.Depths{Easy: c.EngineDepthEasy, Medium: c.EngineDepthMedium, Hard: c.EngineDepthHard}
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.NetPollMs) * time.Millisecond
}

// GameSettings 会话参数；Seed 取当前时间
func (c *Config) GameSettings() game.Settings {
	s := game.DefaultSettings()
	s.Depths = c.Depths()
	s.DepthStep = c.EngineDepthStep
	s.DepthMax = c.EngineDepthMax
	s.Threshold = c.RepetitionThreshold
	s.NetPollInterval = c.PollInterval()
	return s
}
