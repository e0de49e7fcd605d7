package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"chessbot/internal/engine"
	"chessbot/internal/server/game"
)

// Tier 是 JSON 里的难度预算
type Tier struct {
	MaxDepth    int `json:"max_depth"`
	TimeLimitMs int `json:"time_limit_ms"`
}

type Config struct {
	Addr            string          `json:"addr"`
	WebDir          string          `json:"web_dir"`
	JournalPath     string          `json:"journal_path"` // 空字符串表示不落盘
	SessionCapacity int             `json:"session_capacity"`
	LogLevel        string          `json:"log_level"`
	LogJSON         bool            `json:"log_json"`
	Difficulties    map[string]Tier `json:"difficulties"`
}

func Default() Config {
	return Config{
		Addr:            ":5000",
		WebDir:          "./web",
		SessionCapacity: game.DefaultCapacity,
		LogLevel:        "info",
	}
}

// Load 读取 JSON 配置，文件里没写的字段保持默认值。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.SessionCapacity <= 0 {
		return fmt.Errorf("session_capacity must be positive, got %d", c.SessionCapacity)
	}
	for name, t := range c.Difficulties {
		if t.MaxDepth <= 0 {
			return fmt.Errorf("difficulty %q: max_depth must be positive", name)
		}
		if t.TimeLimitMs <= 0 {
			return fmt.Errorf("difficulty %q: time_limit_ms must be positive", name)
		}
	}
	return nil
}

// Budgets 在默认难度表上叠加配置里的覆盖项。
func (c Config) Budgets() engine.Difficulties {
	d := engine.DefaultDifficulties()
	for name, t := range c.Difficulties {
		d[name] = engine.Budget{
			MaxDepth:  t.MaxDepth,
			TimeLimit: time.Duration(t.TimeLimitMs) * time.Millisecond,
		}
	}
	return d
}
