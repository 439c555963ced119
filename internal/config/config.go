// Package config loads tasktree settings from an optional YAML file and
// TASKTREE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	DB        DBConfig        `mapstructure:"db"`
	Log       LogConfig       `mapstructure:"log"`
	Hierarchy HierarchyConfig `mapstructure:"hierarchy"`
	Events    EventsConfig    `mapstructure:"events"`
}

type DBConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// HierarchyConfig bounds the ancestor walk per node type.
type HierarchyConfig struct {
	TaskMaxHops    int `mapstructure:"task_max_hops" validate:"min=1,max=100000"`
	SubtaskMaxHops int `mapstructure:"subtask_max_hops" validate:"min=1,max=100000"`
}

type EventsConfig struct {
	Log   bool        `mapstructure:"log"`
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig enables pub/sub delivery when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
	Channel  string `mapstructure:"channel" validate:"required_with=Addr"`
}

// Default returns the built-in settings. The database lives under the
// user's home directory.
func Default() Config {
	dbPath := filepath.Join(".tasktree", "tasktree.db")
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".tasktree", "tasktree.db")
	}
	return Config{
		DB:  DBConfig{Path: dbPath},
		Log: LogConfig{Level: "warn", Format: "text"},
		Hierarchy: HierarchyConfig{
			TaskMaxHops:    100,
			SubtaskMaxHops: 1000,
		},
		Events: EventsConfig{
			Redis: RedisConfig{Channel: "tasktree:events"},
		},
	}
}

var validate = validator.New()

// Load reads configuration. An explicit file must exist; otherwise
// ./.tasktree/config.yaml and $HOME/.tasktree/config.yaml are tried and
// may be absent. Environment variables override the file.
func Load(file string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".tasktree")
		v.AddConfigPath("$HOME/.tasktree")
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TASKTREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// TASKTREE_DB names the parent key "db" under AutomaticEnv and would
	// shadow db.path, so the short form is applied as an explicit value.
	if path, ok := os.LookupEnv("TASKTREE_DB"); ok && path != "" {
		if _, long := os.LookupEnv("TASKTREE_DB_PATH"); !long {
			v.Set("db.path", path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and reports every violation at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// SlogLevel maps Log.Level onto slog levels.
func (c Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("db.path", d.DB.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("hierarchy.task_max_hops", d.Hierarchy.TaskMaxHops)
	v.SetDefault("hierarchy.subtask_max_hops", d.Hierarchy.SubtaskMaxHops)
	v.SetDefault("events.log", d.Events.Log)
	v.SetDefault("events.redis.addr", d.Events.Redis.Addr)
	v.SetDefault("events.redis.password", d.Events.Redis.Password)
	v.SetDefault("events.redis.db", d.Events.Redis.DB)
	v.SetDefault("events.redis.channel", d.Events.Redis.Channel)
}
