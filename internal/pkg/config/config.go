package config

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed default_config.yaml
var efs embed.FS

// MaxAxes is the number of value axes a single figure can hold.
//
// The first input file owns the left-hand axis, the next ones get extra axes
// stacked on the right-hand side. Input files beyond this count are ignored.
const MaxAxes = 3

// Config holds the configuration for profviz.
type Config struct {
	Name    string
	Outputs Output `mapstructure:"-"`
	Render  Rendering
	Metrics []Metric
	Palette []Color
	Capture Capture

	metricIndex map[MetricName]Metric
	fileIndex   map[string]MetricName
	colorIndex  map[ColorName]Color
}

// GetMetric retrieves a metric definition by its [MetricName].
func (c Config) GetMetric(id MetricName) (Metric, bool) {
	v, ok := c.metricIndex[id]

	return v, ok
}

// GetColor retrieves a palette color by its [ColorName].
func (c Config) GetColor(id ColorName) (Color, bool) {
	v, ok := c.colorIndex[id]

	return v, ok
}

// FindMetricForFile returns the metric whose capture file matches the base
// name of the given path.
//
// The match is exact and case-sensitive: a capture directory prefix is fine,
// a renamed or differently-cased file is not recognized.
func (c Config) FindMetricForFile(pth string) (Metric, bool) {
	id, ok := c.fileIndex[filepath.Base(pth)]
	if !ok {
		return Metric{}, false
	}

	return c.metricIndex[id], true
}

// ColorForAxis returns the palette color assigned to the axis at the given
// position (0-based).
func (c Config) ColorForAxis(index int) (Color, bool) {
	if index < 0 || index >= len(c.Palette) {
		return Color{}, false
	}

	return c.Palette[index], true
}

// EncodeYAML serializes a [Config] to YAML into the provided writer.
//
// Runtime-only fields (Outputs) are excluded from the output.
func (c *Config) EncodeYAML(w io.Writer) error {
	var raw map[string]any

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Squash: true,
		Deep:   true,
		Result: &raw,
	})
	if err != nil {
		return fmt.Errorf("creating mapstructure decoder: %w", err)
	}

	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decoding config to map: %w", err)
	}

	return yaml.NewEncoder(w).Encode(raw)
}

// Rendering holds chart rendering settings (theme, axis label, legend).
type Rendering struct {
	Title      string
	Theme      string
	XAxis      string
	BarWidth   string
	Legend     LegendPosition
	Screenshot Screenshot
}

// Screenshot configures the headless Chrome screenshot used for PNG rendering.
type Screenshot struct {
	Height int64
	Width  int64
	Scale  float64
	Sleep  string
}

// SleepDuration parses the Sleep field as a [time.Duration].
func (s Screenshot) SleepDuration() time.Duration {
	d, err := time.ParseDuration(s.Sleep)
	if d == 0 || err != nil {
		return 0
	}

	return d
}

// LegendPosition controls where the chart legend is displayed.
type LegendPosition string

// Supported legend positions.
const (
	LegendPositionNone   LegendPosition = "none"
	LegendPositionBottom LegendPosition = "bottom"
	LegendPositionTop    LegendPosition = "top"
	LegendPositionLeft   LegendPosition = "left"
	LegendPositionRight  LegendPosition = "right"
)

// Output holds the resolved output file paths for HTML and PNG rendering.
type Output struct {
	HTMLFile string
	PngFile  string
	IsTemp   bool
	Show     bool
}

// Metric defines a capture metric: the file it is read from, its display
// title and how its samples are drawn.
type Metric struct {
	ID    MetricName
	File  string
	Title string
	Kind  SeriesKind
}

// Color is a named palette entry with its hexadecimal RGB value.
type Color struct {
	ID  ColorName
	Hex string
}

// Capture configures where and how the metrics recorder writes capture files.
type Capture struct {
	Dir       string
	RowTuples int
}

// LoadDefaults loads the default configuration from the embedded default_config.yaml.
func LoadDefaults() (*Config, error) {
	return loadDefaults()
}

func loadDefaults() (*Config, error) {
	return load(efs, "default_config.yaml", &Config{})
}

func load(fsys fs.FS, file string, cfg *Config) (*Config, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}

	var raw any
	err = yaml.Unmarshal(content, &raw)
	if err != nil {
		return nil, err
	}

	err = mapstructure.Decode(raw, cfg)
	if err != nil {
		return nil, err
	}

	// build indices and validate unique IDs
	cfg.metricIndex = make(map[MetricName]Metric, len(cfg.Metrics))
	cfg.fileIndex = make(map[string]MetricName, len(cfg.Metrics))
	cfg.colorIndex = make(map[ColorName]Color, len(cfg.Palette))

	if err = cfg.validateMetrics(); err != nil {
		return nil, err
	}

	if err = cfg.validatePalette(); err != nil {
		return nil, err
	}

	cfg.setRenderDefaults()
	cfg.setCaptureDefaults()

	return cfg, nil
}

func (c *Config) validateMetrics() error {
	for i, v := range c.Metrics {
		if v.ID == "" {
			return fmt.Errorf("invalid metrics: empty ID found: metrics[%d]", i)
		}
		if !v.ID.IsValid() {
			return fmt.Errorf("invalid metrics: invalid metric ID: metrics[%d]=%v (should be one of %v)", i, v.ID, AllMetricNames())
		}
		if !v.Kind.IsValid() {
			return fmt.Errorf("invalid metrics: invalid series kind: metrics[%d]=%v (should be one of %v)", i, v.Kind, AllSeriesKinds())
		}
		if v.File == "" {
			return fmt.Errorf("invalid metrics: empty capture file: metrics[%d]", i)
		}
		if v.Title == "" {
			v.Title = titleize(v.ID)
		}
		if _, ok := c.metricIndex[v.ID]; ok {
			return fmt.Errorf("invalid metrics: duplicate ID key found: %s", v.ID)
		}
		if _, ok := c.fileIndex[v.File]; ok {
			return fmt.Errorf("invalid metrics: duplicate capture file found: %s", v.File)
		}

		c.metricIndex[v.ID] = v
		c.fileIndex[v.File] = v.ID
		c.Metrics[i] = v
	}

	return nil
}

func (c *Config) validatePalette() error {
	for i, v := range c.Palette {
		if v.ID == "" {
			return fmt.Errorf("invalid palette: empty ID found: palette[%d]", i)
		}
		if !v.ID.IsValid() {
			return fmt.Errorf("invalid palette: invalid color ID: palette[%d]=%v (should be one of %v)", i, v.ID, AllColorNames())
		}
		if !strings.HasPrefix(v.Hex, "#") {
			return fmt.Errorf("invalid palette: color value should be hexadecimal RGB: palette[%d]=%q", i, v.Hex)
		}
		if _, ok := c.colorIndex[v.ID]; ok {
			return fmt.Errorf("invalid palette: duplicate ID key found: %s", v.ID)
		}

		c.colorIndex[v.ID] = v
	}

	if len(c.Palette) < MaxAxes {
		return fmt.Errorf("invalid palette: need at least %d colors, one per axis, got %d", MaxAxes, len(c.Palette))
	}

	return nil
}

func (c *Config) setRenderDefaults() {
	if c.Render.XAxis == "" {
		c.Render.XAxis = "time (ms)"
	}
	if c.Render.BarWidth == "" {
		c.Render.BarWidth = "0.5"
	}
	if c.Render.Legend == "" {
		c.Render.Legend = LegendPositionNone
	}
	if c.Render.Screenshot.Scale <= 0 {
		c.Render.Screenshot.Scale = 1.0
	}
}

func (c *Config) setCaptureDefaults() {
	if c.Capture.Dir == "" {
		c.Capture.Dir = "metrics"
	}
	if c.Capture.RowTuples <= 0 {
		c.Capture.RowTuples = 100
	}
}

type str interface {
	~string
}

func titleize[T str](in T) string {
	caser := cases.Title(language.English, cases.NoLower) // the case is stateful: cannot declare it globally

	return caser.String(strings.Map(func(r rune) rune {
		switch r {
		case '_', '-':
			return ' '
		default:
			return r
		}
	}, string(in),
	))
}
