package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxPages = 500
	// DefaultRateLimit is one request every two seconds per host.
	DefaultRateLimit = 0.5
)

type Config struct {
	Output         string   `yaml:"output"`
	ImageWorkers   int      `yaml:"image_workers"`
	ChapterWorkers int      `yaml:"chapter_workers"`
	KeepFolders    bool     `yaml:"keep_folders"`
	Debug          bool     `yaml:"debug"`
	AllowExt       []string `yaml:"allow_ext"`

	DefaultURL   string `yaml:"default_url"`
	DefaultRange string `yaml:"default_range"`
	DefaultList  string `yaml:"default_list"`

	Cookie     string `yaml:"cookie"`
	CookieFile string `yaml:"cookie_file"`
	UserAgent  string `yaml:"user_agent"`

	SkipBroken bool `yaml:"skip_broken"`

	// MaxPages bounds how many chapter list pages are read per series.
	MaxPages int `yaml:"max_pages"`
	// RateLimit is requests per second per host; 0 disables limiting.
	RateLimit  float64 `yaml:"rate_limit"`
	Cloudflare bool    `yaml:"cloudflare"`
	CheckJS    bool    `yaml:"check_js"`
}

// Options carries command line values. Zero values leave the file value
// untouched.
type Options struct {
	IgnoreConfig   bool
	Debug          bool
	Output         string
	ImageWorkers   int
	ChapterWorkers int
	KeepFolders    bool
	DefaultURL     string
	DefaultRange   string
	DefaultList    string
	Cookie         string
	CookieFile     string
	UserAgent      string
	SkipBroken     bool
	MaxPages       int
	RateLimit      float64
	Cloudflare     bool
	CheckJS        bool
}

func DefaultConfig() *Config {
	return &Config{
		Output:         ".",
		ImageWorkers:   5,
		ChapterWorkers: 2,
		AllowExt:       []string{"jpg", "jpeg", "png", "webp"},
		MaxPages:       DefaultMaxPages,
		RateLimit:      DefaultRateLimit,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadYAML reads a profile. Keys missing from the file keep their defaults.
func LoadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return c, nil
}

// LoadMerged resolves the active profile and applies opts on top of it. The
// returned string describes where the values came from.
func (s Store) LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	activePath, err := s.ActivePath()
	if errors.Is(err, ErrNoConfig) {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `mangaseek config init` to create an actual config\n", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := LoadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.ImageWorkers != 0 {
		c.ImageWorkers = o.ImageWorkers
	}
	if o.ChapterWorkers != 0 {
		c.ChapterWorkers = o.ChapterWorkers
	}
	c.KeepFolders = c.KeepFolders || o.KeepFolders
	c.Debug = c.Debug || o.Debug
	if o.DefaultURL != "" {
		c.DefaultURL = o.DefaultURL
	}
	if o.DefaultRange != "" {
		c.DefaultRange = o.DefaultRange
	}
	if o.DefaultList != "" {
		c.DefaultList = o.DefaultList
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	c.SkipBroken = c.SkipBroken || o.SkipBroken
	if o.MaxPages != 0 {
		c.MaxPages = o.MaxPages
	}
	if o.RateLimit != 0 {
		c.RateLimit = o.RateLimit
	}
	c.Cloudflare = c.Cloudflare || o.Cloudflare
	c.CheckJS = c.CheckJS || o.CheckJS
}

func normalizeDefaults(c *Config) {
	if c.Output == "" {
		c.Output = "."
	}
	if c.ImageWorkers <= 0 {
		c.ImageWorkers = 5
	}
	if c.ChapterWorkers <= 0 {
		c.ChapterWorkers = 2
	}
	if c.MaxPages <= 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.RateLimit < 0 {
		c.RateLimit = 0
	}
}

// Print writes the non-default looking values, one per line.
func (c *Config) Print(w io.Writer) {
	if c.Output != "" {
		fmt.Fprintf(w, " -output: %s\n", c.Output)
	}
	fmt.Fprintf(w, " -image_workers: %d\n", c.ImageWorkers)
	fmt.Fprintf(w, " -chapter_workers: %d\n", c.ChapterWorkers)
	fmt.Fprintf(w, " -max_pages: %d\n", c.MaxPages)
	if c.RateLimit > 0 {
		fmt.Fprintf(w, " -rate_limit: %g/s\n", c.RateLimit)
	} else {
		fmt.Fprintln(w, " -rate_limit: off")
	}
	if c.KeepFolders {
		fmt.Fprintf(w, " -keep_folders: %t\n", c.KeepFolders)
	}
	if c.Debug {
		fmt.Fprintf(w, " -debug: %t\n", c.Debug)
	}
	if c.DefaultURL != "" {
		fmt.Fprintf(w, " -url: %s\n", c.DefaultURL)
	}
	if c.DefaultRange != "" {
		fmt.Fprintf(w, " -range: %s\n", c.DefaultRange)
	}
	if c.DefaultList != "" {
		fmt.Fprintf(w, " -list: %s\n", c.DefaultList)
	}
	if c.CookieFile != "" {
		fmt.Fprintf(w, " -cookie_file: %s\n", c.CookieFile)
	}
	if c.SkipBroken {
		fmt.Fprintf(w, " -skip_broken: %t\n", c.SkipBroken)
	}
	if c.Cloudflare {
		fmt.Fprintf(w, " -cloudflare: %t\n", c.Cloudflare)
	}
	if c.CheckJS {
		fmt.Fprintf(w, " -check_js: %t\n", c.CheckJS)
	}
	if len(c.AllowExt) > 0 {
		fmt.Fprintf(w, " -allow_ext: %s\n", strings.Join(c.AllowExt, ", "))
	}
}
