package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/Bitlatte/docindex/internal/model"
)

// EnvPrefix prefixes every environment override, e.g. DOCINDEX_OUTPUTDIR.
const EnvPrefix = "DOCINDEX"

type Config struct {
	SiteTitle string `mapstructure:"siteTitle"`
	BaseURL   string `mapstructure:"baseURL"`
	OutputDir string `mapstructure:"outputDir"`
	DataDir   string `mapstructure:"dataDir"` // relative to OutputDir unless absolute

	ContentDir  string `mapstructure:"contentDir"`
	SidebarDir  string `mapstructure:"sidebarDir"`
	Registry    string `mapstructure:"registry"` // optional YAML registry table
	Extension   string `mapstructure:"extension"`
	CollateLang string `mapstructure:"collateLang"`

	Articles ArticlesConfig `mapstructure:"articles"`
	Plugins  PluginsConfig  `mapstructure:"plugins"`

	Render RenderConfig `mapstructure:"render"`
	Log    LogConfig    `mapstructure:"log"`
	Serve  ServeConfig  `mapstructure:"serve"`
}

type ArticlesConfig struct {
	Dir          string `mapstructure:"dir"` // below ContentDir
	RecentCount  int    `mapstructure:"recentCount"`
	ListingTitle string `mapstructure:"listingTitle"`
}

// PluginsConfig carries the hand-maintained plugin table.
type PluginsConfig struct {
	RecentCount int                  `mapstructure:"recentCount"`
	Table       []model.PluginRecord `mapstructure:"table"`
}

type RenderConfig struct {
	FenceLanguage  string `mapstructure:"fenceLanguage"`
	FenceClass     string `mapstructure:"fenceClass"`
	HighlightStyle string `mapstructure:"highlightStyle"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServeConfig struct {
	Port     int  `mapstructure:"port"`
	Watch    bool `mapstructure:"watch"`
	Debounce int  `mapstructure:"debounceMillis"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("siteTitle", "Plugin Documentation")
	v.SetDefault("baseURL", "/")
	v.SetDefault("outputDir", "public")
	v.SetDefault("dataDir", "data")
	v.SetDefault("contentDir", "content")
	v.SetDefault("sidebarDir", "sidebars")
	v.SetDefault("registry", "")
	v.SetDefault("extension", ".md")
	v.SetDefault("collateLang", "en")

	v.SetDefault("articles.dir", "articles")
	v.SetDefault("articles.recentCount", 5)
	v.SetDefault("articles.listingTitle", "Articles")
	v.SetDefault("plugins.recentCount", 6)

	v.SetDefault("render.fenceLanguage", "mermaid")
	v.SetDefault("render.fenceClass", "mermaid")
	v.SetDefault("render.highlightStyle", "dracula")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("serve.port", 1313)
	v.SetDefault("serve.watch", true)
	v.SetDefault("serve.debounceMillis", 500)
}

// Load reads the config file (explicit, or ./config.yaml when present),
// overlays DOCINDEX_* environment variables and decodes the result.
// A missing implicit config file is not an error.
func Load(cfgFile string) (Config, string, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return Config{}, "", fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, used, nil
}

// Validate checks the values a regeneration cannot degrade around.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("config: outputDir must not be empty")
	}
	if c.Articles.RecentCount < 0 || c.Plugins.RecentCount < 0 {
		return errors.New("config: recentCount must not be negative")
	}
	if _, err := language.Parse(c.CollateLang); err != nil {
		return fmt.Errorf("config: invalid collateLang %q: %w", c.CollateLang, err)
	}
	return nil
}

// Language is the collation language tag.
func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.CollateLang)
	if err != nil {
		return language.English
	}
	return tag
}

// ArtifactDir is the directory JSON artifacts are written to.
func (c Config) ArtifactDir() string {
	if filepath.IsAbs(c.DataDir) {
		return c.DataDir
	}
	return filepath.Join(c.OutputDir, c.DataDir)
}

// ArtifactPath is the URL path artifacts are served under, relative to BaseURL.
func (c Config) ArtifactPath(name string) string {
	if filepath.IsAbs(c.DataDir) {
		return name
	}
	return filepath.ToSlash(filepath.Join(c.DataDir, name))
}

// ArticlesDir is the scanned articles directory.
func (c Config) ArticlesDir() string {
	return filepath.Join(c.ContentDir, c.Articles.Dir)
}
