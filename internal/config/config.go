package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"weft/internal/geom"
)

// Config holds weft configuration.
type Config struct {
	Files  FilesConfig  `toml:"files"`
	Canvas CanvasConfig `toml:"canvas"`
	Dock   DockConfig   `toml:"dock"`
	Render RenderConfig `toml:"render"`
	Log    LogConfig    `toml:"log"`
}

// FilesConfig controls where canvases are saved.
type FilesConfig struct {
	SaveDirectory string `toml:"save_directory"`
	Confirmations bool   `toml:"confirmations"`
}

// CanvasConfig controls panning, zooming and culling.
type CanvasConfig struct {
	CullBufferPx   float64 `toml:"cull_buffer_px"`
	MinScale       float64 `toml:"min_scale"`
	MaxScale       float64 `toml:"max_scale"`
	ZoomStep       float64 `toml:"zoom_step"`
	PanStepPx      float64 `toml:"pan_step_px"`
	HitThresholdPx float64 `toml:"hit_threshold_px"`
}

// DockConfig controls docked panel placement.
type DockConfig struct {
	MarginPx   float64 `toml:"margin_px"`
	BaseLayer  int     `toml:"base_layer"`
	FocusLayer int     `toml:"focus_layer"`
}

// RenderConfig is the size of one terminal cell in screen pixels.
type RenderConfig struct {
	CellWidthPx  float64 `toml:"cell_width_px"`
	CellHeightPx float64 `toml:"cell_height_px"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Files: FilesConfig{Confirmations: true},
		Canvas: CanvasConfig{
			CullBufferPx:   300,
			MinScale:       0.1,
			MaxScale:       10,
			ZoomStep:       1.1,
			PanStepPx:      40,
			HitThresholdPx: 20,
		},
		Dock:   DockConfig{MarginPx: 56, BaseLayer: 100, FocusLayer: 10000},
		Render: RenderConfig{CellWidthPx: 8, CellHeightPx: 16},
		Log:    LogConfig{Level: "info"},
	}
}

// Dir returns the weft config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "weft")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file. A missing or unreadable file yields defaults.
func Load() *Config {
	cfg, err := LoadFile(Path())
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile reads the config at path. A missing file is not an error. Out of
// range values are replaced with their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil
	}
	return Save(Default())
}

func (c *Config) normalize() {
	d := Default()
	cv := &c.Canvas
	if !geom.IsFinite(cv.CullBufferPx) || cv.CullBufferPx < 0 {
		cv.CullBufferPx = d.Canvas.CullBufferPx
	}
	if !positive(cv.MinScale) || !positive(cv.MaxScale) || cv.MinScale >= cv.MaxScale {
		cv.MinScale, cv.MaxScale = d.Canvas.MinScale, d.Canvas.MaxScale
	}
	if !geom.IsFinite(cv.ZoomStep) || cv.ZoomStep <= 1 {
		cv.ZoomStep = d.Canvas.ZoomStep
	}
	if !positive(cv.PanStepPx) {
		cv.PanStepPx = d.Canvas.PanStepPx
	}
	if !positive(cv.HitThresholdPx) {
		cv.HitThresholdPx = d.Canvas.HitThresholdPx
	}
	if !geom.IsFinite(c.Dock.MarginPx) || c.Dock.MarginPx < 0 {
		c.Dock.MarginPx = d.Dock.MarginPx
	}
	if c.Dock.FocusLayer <= c.Dock.BaseLayer {
		c.Dock.BaseLayer, c.Dock.FocusLayer = d.Dock.BaseLayer, d.Dock.FocusLayer
	}
	if !positive(c.Render.CellWidthPx) || !positive(c.Render.CellHeightPx) {
		c.Render = d.Render
	}
	c.Files.SaveDirectory = expandHome(c.Files.SaveDirectory)
}

// positive reports whether v is a finite number above zero.
func positive(v float64) bool {
	return geom.IsFinite(v) && v > 0
}

func expandHome(p string) string {
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}

// SavePath resolves a canvas file name against the save directory.
func (c *Config) SavePath(filename string) string {
	if c.Files.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	_ = os.MkdirAll(c.Files.SaveDirectory, 0o755)
	return filepath.Join(c.Files.SaveDirectory, filename)
}
