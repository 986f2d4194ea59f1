// Package config loads settings from an optional TOML file, then HOLO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/holo-carousel/catalog"
	"github.com/lixenwraith/holo-carousel/render"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "HOLO_"

// Limits and defaults
const (
	DefaultInterval = 5.0
	MinInterval     = 1.0
	MaxInterval     = 60.0

	DefaultZoom = 1.5
	MinZoom     = 0.1
	MaxZoom     = 5.0

	DefaultVolume = 0.5
)

// ErrInvalid marks a setting that cannot be used
var ErrInvalid = errors.New("invalid config")

// cacheSubdir is where the client caches downloaded bundles, relative to the user profile
var cacheSubdir = filepath.Join("AppData", "LocalLow", "VRChat", "VRChat", "Cache-WindowsPlayer")

// Config holds application settings
type Config struct {
	CacheRoot       string            `toml:"cache_root" env:"CACHE_ROOT"`
	Pattern         string            `toml:"pattern" env:"PATTERN"`
	IntervalSeconds float64           `toml:"interval_seconds" env:"INTERVAL_SECONDS"`
	Zoom            float64           `toml:"zoom" env:"ZOOM"`
	FadeSpeed       float64           `toml:"fade_speed" env:"FADE_SPEED"`
	EyeTracking     bool              `toml:"eye_tracking" env:"EYE_TRACKING"`
	Watch           bool              `toml:"watch" env:"WATCH"`
	Skyboxes        map[string]string `toml:"skyboxes" env:"SKYBOXES"` // name -> "#rrggbb"
	Clips           []string          `toml:"clips" env:"CLIPS"`
	Audio           bool              `toml:"audio" env:"AUDIO"`
	Volume          float64           `toml:"volume" env:"VOLUME"`
	Debug           bool              `toml:"debug" env:"DEBUG"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		CacheRoot:       DefaultCacheRoot(),
		Pattern:         catalog.DefaultPattern,
		IntervalSeconds: DefaultInterval,
		Zoom:            DefaultZoom,
		FadeSpeed:       render.DefaultFadeSpeed,
		EyeTracking:     true,
		Skyboxes: map[string]string{
			"dawn":  "#f4a261",
			"noon":  "#8ecae6",
			"dusk":  "#5a3d7a",
			"night": "#0b1026",
		},
		Clips:  []string{"idle", "wave", "dance"},
		Volume: DefaultVolume,
	}
}

// DefaultCacheRoot is the bundle cache under the user profile
func DefaultCacheRoot() string {
	home, err := homedir.Dir()
	if err != nil {
		return cacheSubdir
	}
	return filepath.Join(home, cacheSubdir)
}

// DefaultPath is the config file location under the user config directory
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "holo-carousel", "config.toml"), nil
}

// Load reads path (DefaultPath when empty), applies environment overrides and validates
// A missing file yields the defaults
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			// A skyboxes table in the file replaces the built-in set
			builtin := cfg.Skyboxes
			cfg.Skyboxes = nil
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
			if cfg.Skyboxes == nil {
				cfg.Skyboxes = builtin
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Normalize expands paths, clamps numeric ranges and checks patterns and colors
func (c *Config) Normalize() error {
	if c.CacheRoot == "" {
		c.CacheRoot = DefaultCacheRoot()
	}
	root, err := homedir.Expand(c.CacheRoot)
	if err != nil {
		return fmt.Errorf("%w: cache_root: %v", ErrInvalid, err)
	}
	c.CacheRoot = root

	if c.Pattern == "" {
		c.Pattern = catalog.DefaultPattern
	}
	if _, err := catalog.CompilePattern(c.Pattern); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	c.IntervalSeconds = clamp(orDefault(c.IntervalSeconds, DefaultInterval), MinInterval, MaxInterval)
	c.Zoom = clamp(orDefault(c.Zoom, DefaultZoom), MinZoom, MaxZoom)
	if !(c.FadeSpeed > 0) || math.IsInf(c.FadeSpeed, 1) {
		c.FadeSpeed = render.DefaultFadeSpeed
	}
	c.Volume = clamp(orDefault(c.Volume, DefaultVolume), 0, 1)

	for _, name := range c.SkyboxNames() {
		if _, err := render.ParseHex(c.Skyboxes[name], 1); err != nil {
			return fmt.Errorf("%w: skybox %s: %v", ErrInvalid, name, err)
		}
	}
	return nil
}

// Interval is the rotation interval
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds * float64(time.Second))
}

// SkyboxNames returns skybox names in a stable order
func (c Config) SkyboxNames() []string {
	names := make([]string, 0, len(c.Skyboxes))
	for name := range c.Skyboxes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SkyboxColor returns the parsed color for a configured skybox
func (c Config) SkyboxColor(name string) (render.RGB, bool) {
	hex, ok := c.Skyboxes[name]
	if !ok {
		return render.RGB{}, false
	}
	rgba, err := render.ParseHex(hex, 1)
	if err != nil {
		return render.RGB{}, false
	}
	return rgba.Opaque(), true
}

// orDefault replaces NaN, which every range comparison lets through
func orDefault(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
