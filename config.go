package raytracer

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the knobs of the interactive tracer and the headless renderer.
type Config struct {
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	Title  string `yaml:"title" toml:"title"`

	// Scene is the fixture name loaded at startup.
	Scene string `yaml:"scene" toml:"scene"`

	MaxDepth int     `yaml:"max_depth" toml:"max_depth"`
	Ambient  float32 `yaml:"ambient" toml:"ambient"`
	Fov      float32 `yaml:"fov" toml:"fov"` // degrees

	CaptureDir    string `yaml:"capture_dir" toml:"capture_dir"`
	CaptureFormat string `yaml:"capture_format" toml:"capture_format"`

	Debug    bool   `yaml:"debug" toml:"debug"`
	Headless bool   `yaml:"headless" toml:"headless"`
	Output   string `yaml:"output" toml:"output"`
}

func DefaultConfig() Config {
	return Config{
		Width:         800,
		Height:        800,
		Title:         "Ray Tracer",
		Scene:         "cornell-room",
		MaxDepth:      3,
		Ambient:       0.1,
		Fov:           60,
		CaptureDir:    ".",
		CaptureFormat: "png",
	}
}

// LoadConfig overlays the file at path onto DefaultConfig. The decoder is
// picked by extension: .yaml/.yml or .toml.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parse toml config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
	return cfg, nil
}

// RegisterFlags binds every field to fs, using the current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "Window width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "Window height in pixels")
	fs.StringVar(&c.Title, "title", c.Title, "Window title")
	fs.StringVar(&c.Scene, "scene", c.Scene, "Fixture loaded at startup")
	fs.IntVar(&c.MaxDepth, "depth", c.MaxDepth, "Maximum reflection depth")
	fs.Func("ambient", "Ambient light factor", func(s string) error {
		var v float32
		if _, err := fmt.Sscanf(s, "%g", &v); err != nil {
			return err
		}
		c.Ambient = v
		return nil
	})
	fs.Func("fov", "Vertical field of view in degrees", func(s string) error {
		var v float32
		if _, err := fmt.Sscanf(s, "%g", &v); err != nil {
			return err
		}
		c.Fov = v
		return nil
	})
	fs.StringVar(&c.CaptureDir, "capture-dir", c.CaptureDir, "Directory for captured frames")
	fs.StringVar(&c.CaptureFormat, "capture-format", c.CaptureFormat, "Capture format: png, bmp or tiff")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging and profiler output")
	fs.BoolVar(&c.Headless, "headless", c.Headless, "Render once on the CPU and exit")
	fs.StringVar(&c.Output, "out", c.Output, "Output image for headless mode")
}

func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", c.Width, c.Height))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max depth must be >= 0, got %d", c.MaxDepth))
	}
	if c.Fov <= 0 || c.Fov >= 180 {
		errs = append(errs, fmt.Errorf("fov must be in (0, 180), got %g", c.Fov))
	}
	switch strings.ToLower(c.CaptureFormat) {
	case "png", "bmp", "tif", "tiff":
	default:
		errs = append(errs, fmt.Errorf("unknown capture format %q", c.CaptureFormat))
	}
	if c.Scene == "" {
		errs = append(errs, errors.New("scene must not be empty"))
	}
	return errors.Join(errs...)
}
