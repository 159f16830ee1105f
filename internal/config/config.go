package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "flow.db"
)

type Keymap struct {
	Quit       string `toml:"quit"`
	Add        string `toml:"add"`
	Edit       string `toml:"edit"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	Toggle     string `toml:"toggle"`
	Delete     string `toml:"delete"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
	MoveTop    string `toml:"move_top"`
	MoveUp     string `toml:"move_up"`
	SwitchView string `toml:"switch_view"`
	Export     string `toml:"export"`
}

type Config struct {
	DBPath         string `toml:"db_path"`
	User           string `toml:"user"`
	RefreshSeconds int    `toml:"refresh_seconds"`
	ExportPath     string `toml:"export_path"`
	Keys           Keymap `toml:"keys"`
}

// ResolveConfigPath prefers the user config dir, falling back to the
// working directory when it cannot be determined.
func ResolveConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(base, "flow", DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.User == "" {
		cfg.User = "default"
	}
	if cfg.RefreshSeconds <= 0 {
		cfg.RefreshSeconds = 30
	}
	if cfg.ExportPath == "" {
		cfg.ExportPath = "flow-export.txt"
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:         DefaultDBName,
		User:           "default",
		RefreshSeconds: 30,
		ExportPath:     "flow-export.txt",
		Keys: Keymap{
			Quit:       "q",
			Add:        "a",
			Edit:       "e",
			Up:         "k",
			Down:       "j",
			Toggle:     " ",
			Delete:     "d",
			Confirm:    "enter",
			Cancel:     "esc",
			MoveTop:    "T",
			MoveUp:     "u",
			SwitchView: "tab",
			Export:     "x",
		},
	}
}
