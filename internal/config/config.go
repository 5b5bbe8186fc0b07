package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	FileName   = "backup.json"
	HomeMarker = "%HOME%"

	defaultLogFile  = "backup.log"
	defaultIconFile = "backup.ico"
)

type Config struct {
	BackupDirectory   string   `mapstructure:"backup_directory"`
	HomeDirectory     string   `mapstructure:"home_directory"`
	SourceDirectories []string `mapstructure:"source_directories"`
	SourceFiles       []string `mapstructure:"source_files"`
	Debug             bool     `mapstructure:"debug"`
	DryRun            bool     `mapstructure:"dryrun"`
	Notification      bool     `mapstructure:"notification"`

	LogFile        string           `mapstructure:"log_file"`
	IconFile       string           `mapstructure:"icon_file"`
	NotifyDuration time.Duration    `mapstructure:"notify_duration"`
	Schedule       string           `mapstructure:"schedule"`
	Robocopy       RobocopyConfig   `mapstructure:"robocopy"`
	Notifiers      []NotifierConfig `mapstructure:"notifiers"`
	Task           TaskConfig       `mapstructure:"task"`

	// Path is the absolute location the configuration was read from.
	Path string `mapstructure:"-"`
}

type RobocopyConfig struct {
	Path        string `mapstructure:"path"`
	Retries     int    `mapstructure:"retries"`
	WaitSeconds int    `mapstructure:"wait_seconds"`
}

type NotifierConfig struct {
	Type    string `mapstructure:"type"`
	Enabled bool   `mapstructure:"enabled"`

	// Telegram
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type TaskConfig struct {
	Name     string `mapstructure:"name"`
	Template string `mapstructure:"template"`
	Author   string `mapstructure:"author"`
}

func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	dir := filepath.Dir(absPath)

	v := viper.New()
	v.SetConfigFile(absPath)
	v.SetConfigType("json")

	v.SetDefault("dryrun", true)
	v.SetDefault("log_file", filepath.Join(dir, defaultLogFile))
	v.SetDefault("icon_file", filepath.Join(dir, defaultIconFile))
	v.SetDefault("notify_duration", "5s")
	v.SetDefault("robocopy.path", "robocopy")
	v.SetDefault("robocopy.retries", 2)
	v.SetDefault("robocopy.wait_seconds", 10)
	v.SetDefault("task.name", "ScheduledBackup")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Path = absPath
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) normalize() {
	if c.BackupDirectory != "" {
		c.BackupDirectory = filepath.Clean(c.BackupDirectory)
	}
	if c.HomeDirectory != "" {
		c.HomeDirectory = filepath.Clean(c.HomeDirectory)
	}
	if c.Task.Template != "" && !filepath.IsAbs(c.Task.Template) {
		c.Task.Template = filepath.Join(c.Dir(), c.Task.Template)
	}
}

func (c *Config) Validate() error {
	if c.BackupDirectory == "" {
		return fmt.Errorf("backup_directory is required")
	}

	if c.Robocopy.Path == "" {
		return fmt.Errorf("robocopy.path is required")
	}
	if c.Robocopy.Retries < 0 {
		return fmt.Errorf("robocopy.retries must not be negative")
	}
	if c.Robocopy.WaitSeconds < 0 {
		return fmt.Errorf("robocopy.wait_seconds must not be negative")
	}

	if c.Schedule != "" {
		if _, err := cron.NewParser(cronFields).Parse(c.Schedule); err != nil {
			return fmt.Errorf("schedule: %w", err)
		}
	}

	for i, n := range c.Notifiers {
		switch n.Type {
		case "desktop":
		case "telegram":
			if n.Enabled && (n.BotToken == "" || n.ChatID == "") {
				return fmt.Errorf("notifiers[%d]: bot_token and chat_id are required for telegram", i)
			}
		default:
			return fmt.Errorf("notifiers[%d]: unknown type %q", i, n.Type)
		}
	}

	return nil
}

const cronFields = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

// Dir is the directory holding the configuration file.
func (c *Config) Dir() string {
	return filepath.Dir(c.Path)
}

// GetEnabledNotifiers returns the notifiers to use when notification is on.
// Without an explicit list the desktop balloon is used.
func (c *Config) GetEnabledNotifiers() []NotifierConfig {
	if !c.Notification {
		return nil
	}
	if len(c.Notifiers) == 0 {
		return []NotifierConfig{{Type: "desktop", Enabled: true}}
	}

	var enabled []NotifierConfig
	for _, n := range c.Notifiers {
		if n.Enabled {
			enabled = append(enabled, n)
		}
	}
	return enabled
}

// UserHome is the directory %HOME% stands for.
func (c *Config) UserHome(username string) (string, error) {
	if c.HomeDirectory != "" {
		return filepath.Join(c.HomeDirectory, username), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return home, nil
}

func (c *Config) ExpandedDirectories(home string) []string {
	return expandAll(c.SourceDirectories, home)
}

func (c *Config) ExpandedFiles(home string) []string {
	return expandAll(c.SourceFiles, home)
}

// ExpandHome replaces every %HOME% marker in pattern with home.
func ExpandHome(pattern, home string) string {
	return filepath.Clean(strings.ReplaceAll(pattern, HomeMarker, home))
}

func expandAll(patterns []string, home string) []string {
	expanded := make([]string, 0, len(patterns))
	for _, p := range patterns {
		expanded = append(expanded, ExpandHome(p, home))
	}
	return expanded
}
