package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Target is one time-of-day topic the bot writes about.
// targets:
//   - name: morning
//     until_hour: 14
//     keyword: Economy Bitcoin Stock Market
//     category: Money
//     folder: money
type Target struct {
	Name      string `yaml:"name"`
	UntilHour int    `yaml:"until_hour"`
	Keyword   string `yaml:"keyword"`
	Category  string `yaml:"category"`
	Folder    string `yaml:"folder"`
}

type TargetsConfig struct {
	Targets []Target `yaml:"targets"`
}

// DefaultTargets is used when no targets file exists.
func DefaultTargets() []Target {
	return []Target{
		{Name: "morning", UntilHour: 14, Keyword: "Economy Bitcoin Stock Market", Category: "Money", Folder: "money"},
		{Name: "evening", UntilHour: 24, Keyword: "AI Technology Tools Gadgets", Category: "Tools", Folder: "tools"},
	}
}

// LoadTargets reads the targets list from a YAML file. A missing file yields
// the defaults.
func LoadTargets(path string) ([]Target, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return DefaultTargets(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg TargetsConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse targets %s: %w", path, err)
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("targets %s: no targets defined", path)
	}
	for i, t := range cfg.Targets {
		if t.Keyword == "" || t.Category == "" {
			return nil, fmt.Errorf("targets %s: entry %d needs keyword and category", path, i)
		}
	}
	return cfg.Targets, nil
}

// SelectTarget returns the first target whose until_hour is after hour. The
// last target catches everything else.
func SelectTarget(targets []Target, hour int) Target {
	for _, t := range targets {
		if hour < t.UntilHour {
			return t
		}
	}
	return targets[len(targets)-1]
}

// FolderMap maps categories to content folders.
func FolderMap(targets []Target) map[string]string {
	m := make(map[string]string, len(targets))
	for _, t := range targets {
		if t.Folder != "" {
			m[t.Category] = t.Folder
		}
	}
	return m
}
