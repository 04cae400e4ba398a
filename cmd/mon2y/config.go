package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// episodeConfig is the on-disk shape of a run, mirroring
// original_source arena.rs's ArenaSettings/PlayerSettings/MctsSettings
// (there parsed with serde_json; here with YAML, per the teacher's own
// config conventions).
type episodeConfig struct {
	Game     string         `yaml:"game"`
	Episodes int            `yaml:"episodes"`
	Players  []playerConfig `yaml:"players"`
}

type playerConfig struct {
	Type string      `yaml:"type"` // "random" or "mcts"
	MCTS *mctsConfig `yaml:"mcts,omitempty"`
}

type mctsConfig struct {
	Policy              string  `yaml:"policy"` // "most-visits" or "mean-value"
	ExplorationConstant float64 `yaml:"exploration_constant"`
	Iterations          uint64  `yaml:"iterations"`
	TimeLimitSeconds    float64 `yaml:"time_limit_seconds"`
	Threads             int     `yaml:"threads"`
}

func loadConfig(path string) (episodeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return episodeConfig{}, errors.Wrapf(err, "reading config %s", path)
	}
	var cfg episodeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return episodeConfig{}, errors.Wrapf(err, "parsing config %s", path)
	}
	if cfg.Episodes <= 0 {
		cfg.Episodes = 1
	}
	if len(cfg.Players) == 0 {
		return episodeConfig{}, errors.Errorf("config %s: at least one player is required", path)
	}
	return cfg, nil
}
