package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BotFile is the on-disk shape for running several bots off one YAML
// file (spec.md's "example bots" are out of core scope, but the
// config loader that would feed them is ambient configuration
// plumbing, not a bot itself). Grounded on annel0-mmo-game's
// internal/config.Config/Load (yaml.v3, a Load(path) (*T, error)
// function, env-var fallback for the path itself).
type BotFile struct {
	Bots []BotEntry `yaml:"bots"`
}

// BotEntry describes one bot's connection parameters.
type BotEntry struct {
	Name            string `yaml:"name"`
	Address         string `yaml:"address"`
	Offline         bool   `yaml:"offline"`
	AccessToken     string `yaml:"access_token"`
	ViewDistance    int8   `yaml:"view_distance"`
	PathfindTimeout string `yaml:"pathfind_timeout"`
}

// PathfindTimeoutDuration parses PathfindTimeout, falling back to
// Defaults().PathfindTimeout when unset or unparseable.
func (e BotEntry) PathfindTimeoutDuration() time.Duration {
	if e.PathfindTimeout == "" {
		return Defaults().PathfindTimeout
	}
	d, err := time.ParseDuration(e.PathfindTimeout)
	if err != nil {
		return Defaults().PathfindTimeout
	}
	return d
}

// LoadBotFile reads and parses a YAML bot-roster file. path == "" reads
// from the VIBECLIENT_BOTS environment variable; if that's also unset,
// LoadBotFile returns (nil, nil) rather than an error, since a single-
// bot caller (cmd/bot's default path) never needs one.
func LoadBotFile(path string) (*BotFile, error) {
	if path == "" {
		path = os.Getenv("VIBECLIENT_BOTS")
		if path == "" {
			return nil, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var f BotFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &f, nil
}
