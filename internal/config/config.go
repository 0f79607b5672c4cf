package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "SCRIPTORIUM"

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Search    SearchConfig    `mapstructure:"search"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Import    ImportConfig    `mapstructure:"import"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	UI        UIConfig        `mapstructure:"ui"`
	Open      OpenConfig      `mapstructure:"open"`
	Keys      KeyBindings     `mapstructure:"keys"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

type SearchConfig struct {
	// Backend is "memory" or "bleve".
	Backend      string `mapstructure:"backend"`
	DefaultLimit int    `mapstructure:"default_limit"`
	MaxLimit     int    `mapstructure:"max_limit"`
	DefaultSort  string `mapstructure:"default_sort"`
}

type RecommendConfig struct {
	Limit int `mapstructure:"limit"`
}

type ImportConfig struct {
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type OpenConfig struct {
	Darwin        Players `mapstructure:"darwin"`
	Linux         Players `mapstructure:"linux"`
	Windows       Players `mapstructure:"windows"`
	DefaultOpener string  `mapstructure:"default_opener"`
}

type Players struct {
	Video []string `mapstructure:"video"`
	Audio []string `mapstructure:"audio"`
	PDF   []string `mapstructure:"pdf"`
}

// KeyBindings configures the browse screen.
type KeyBindings struct {
	Quit      string `mapstructure:"quit"`
	Search    string `mapstructure:"search"`
	Open      string `mapstructure:"open"`
	Recommend string `mapstructure:"recommend"`
	Back      string `mapstructure:"back"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".scriptorium")

	return &Config{
		Database: DatabaseConfig{
			Path:        filepath.Join(dataDir, "catalog.db"),
			Timeout:     1 * time.Second,
			SearchIndex: filepath.Join(dataDir, "index.bleve"),
		},
		Search: SearchConfig{
			Backend:      "memory",
			DefaultLimit: 10,
			MaxLimit:     100,
			DefaultSort:  "relevance",
		},
		Recommend: RecommendConfig{
			Limit: 5,
		},
		Import: ImportConfig{
			HTTPTimeout: 30 * time.Second,
			UserAgent:   "scriptorium/1.0 (https://github.com/pders01/scriptorium)",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "NONE",
			Path:  filepath.Join(dataDir, "scriptorium.log"),
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#C9A227",
				Secondary: "#7F5539",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
		},
		Open: OpenConfig{
			Darwin: Players{
				Video: []string{"iina", "mpv", "vlc"},
				Audio: []string{"mpv", "vlc", "open"},
				PDF:   []string{"preview", "open"},
			},
			Linux: Players{
				Video: []string{"mpv", "vlc", "mplayer"},
				Audio: []string{"mpv", "vlc", "mplayer"},
				PDF:   []string{"zathura", "evince", "xdg-open"},
			},
			Windows: Players{
				Video: []string{"mpv", "vlc"},
				Audio: []string{"mpv", "vlc"},
				PDF:   []string{"start"},
			},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyBindings{
			Quit:      "q",
			Search:    "/",
			Open:      "o",
			Recommend: "r",
			Back:      "esc",
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "scriptorium", "config.toml")
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// setDefaults registers every leaf key so partial sections in a config
// file keep the remaining defaults and env vars can reach nested keys.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.timeout", cfg.Database.Timeout)
	v.SetDefault("database.search_index", cfg.Database.SearchIndex)

	v.SetDefault("search.backend", cfg.Search.Backend)
	v.SetDefault("search.default_limit", cfg.Search.DefaultLimit)
	v.SetDefault("search.max_limit", cfg.Search.MaxLimit)
	v.SetDefault("search.default_sort", cfg.Search.DefaultSort)

	v.SetDefault("recommend.limit", cfg.Recommend.Limit)

	v.SetDefault("import.http_timeout", cfg.Import.HTTPTimeout)
	v.SetDefault("import.user_agent", cfg.Import.UserAgent)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.path", cfg.Log.Path)

	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.secondary", cfg.UI.Colors.Secondary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)
	v.SetDefault("ui.colors.success", cfg.UI.Colors.Success)

	for name, p := range map[string]Players{
		"darwin":  cfg.Open.Darwin,
		"linux":   cfg.Open.Linux,
		"windows": cfg.Open.Windows,
	} {
		v.SetDefault("open."+name+".video", p.Video)
		v.SetDefault("open."+name+".audio", p.Audio)
		v.SetDefault("open."+name+".pdf", p.PDF)
	}
	v.SetDefault("open.default_opener", cfg.Open.DefaultOpener)

	v.SetDefault("keys.quit", cfg.Keys.Quit)
	v.SetDefault("keys.search", cfg.Keys.Search)
	v.SetDefault("keys.open", cfg.Keys.Open)
	v.SetDefault("keys.recommend", cfg.Keys.Recommend)
	v.SetDefault("keys.back", cfg.Keys.Back)
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Log.Path = expandPath(cfg.Log.Path)
}

// ClampLimit applies the search defaults to a caller-supplied page size.
func (c *Config) ClampLimit(limit int) int {
	if limit <= 0 {
		return c.Search.DefaultLimit
	}
	if c.Search.MaxLimit > 0 && limit > c.Search.MaxLimit {
		return c.Search.MaxLimit
	}
	return limit
}

func Save(config *Config, path string) error {
	v := viper.New()

	// durations as strings for TOML readability
	v.Set("database", map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
	})
	v.Set("search", map[string]interface{}{
		"backend":       config.Search.Backend,
		"default_limit": config.Search.DefaultLimit,
		"max_limit":     config.Search.MaxLimit,
		"default_sort":  config.Search.DefaultSort,
	})
	v.Set("recommend", map[string]interface{}{
		"limit": config.Recommend.Limit,
	})
	v.Set("import", map[string]interface{}{
		"http_timeout": config.Import.HTTPTimeout.String(),
		"user_agent":   config.Import.UserAgent,
	})
	v.Set("server", map[string]interface{}{
		"addr":          config.Server.Addr,
		"read_timeout":  config.Server.ReadTimeout.String(),
		"write_timeout": config.Server.WriteTimeout.String(),
	})
	v.Set("log", map[string]interface{}{
		"level": config.Log.Level,
		"path":  config.Log.Path,
	})
	v.Set("ui", map[string]interface{}{
		"colors": map[string]interface{}{
			"primary":   config.UI.Colors.Primary,
			"secondary": config.UI.Colors.Secondary,
			"accent":    config.UI.Colors.Accent,
			"text":      config.UI.Colors.Text,
			"muted":     config.UI.Colors.Muted,
			"error":     config.UI.Colors.Error,
			"success":   config.UI.Colors.Success,
		},
	})
	v.Set("open", map[string]interface{}{
		"darwin":         playersMap(config.Open.Darwin),
		"linux":          playersMap(config.Open.Linux),
		"windows":        playersMap(config.Open.Windows),
		"default_opener": config.Open.DefaultOpener,
	})
	v.Set("keys", map[string]interface{}{
		"quit":      config.Keys.Quit,
		"search":    config.Keys.Search,
		"open":      config.Keys.Open,
		"recommend": config.Keys.Recommend,
		"back":      config.Keys.Back,
	})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func playersMap(p Players) map[string]interface{} {
	return map[string]interface{}{
		"video": p.Video,
		"audio": p.Audio,
		"pdf":   p.PDF,
	}
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
