package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Shell    ShellConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// ShellConfig holds the default shell launch settings.
type ShellConfig struct {
	Program string
	Args    []string
	Type    string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	SingleClickFocus bool `mapstructure:"single_click_focus"`
	ListWidth        int  `mapstructure:"list_width"`
}

// Load reads configuration from file and env. Env var overrides use prefix TERMTABS_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "termtabs", "termtabs.db"))
	v.SetDefault("shell.program", defaultShellProgram())
	v.SetDefault("shell.args", []string{})
	v.SetDefault("shell.type", defaultShellType())
	v.SetDefault("ui.single_click_focus", true)
	v.SetDefault("ui.list_width", 32)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TERMTABS_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "termtabs"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TERMTABS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func defaultShellProgram() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

func defaultShellType() string {
	base := filepath.Base(defaultShellProgram())
	switch base {
	case "bash", "zsh", "fish", "pwsh", "cmd":
		return base
	default:
		return "sh"
	}
}
