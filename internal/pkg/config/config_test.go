package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadDefaults()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "profviz", cfg.Name)

	// verify metrics are loaded
	require.Len(t, cfg.Metrics, 3)

	// verify metric index is populated
	for _, name := range AllMetricNames() {
		_, ok := cfg.GetMetric(name)
		assert.True(t, ok, "expected metric %q in index", name)
	}

	// verify the metric catalog content
	avgFPS, ok := cfg.GetMetric(MetricAvgFPS)
	require.True(t, ok)
	assert.Equal(t, "avg_fps.csv", avgFPS.File)
	assert.Equal(t, "Avg FPS", avgFPS.Title)
	assert.Equal(t, KindLine, avgFPS.Kind)

	frameDelta, ok := cfg.GetMetric(MetricFrameDelta)
	require.True(t, ok)
	assert.Equal(t, "frame_delta.csv", frameDelta.File)
	assert.Equal(t, "Frame Delta (sec)", frameDelta.Title)
	assert.Equal(t, KindLine, frameDelta.Kind)

	events, ok := cfg.GetMetric(MetricEventMarker)
	require.True(t, ok)
	assert.Equal(t, "event_marker.csv", events.File)
	assert.Equal(t, KindEvent, events.Kind)

	// verify the palette, in axis order
	require.Len(t, cfg.Palette, MaxAxes)
	assert.Equal(t, ColorTabBlue, cfg.Palette[0].ID)
	assert.Equal(t, "#1f77b4", cfg.Palette[0].Hex)
	assert.Equal(t, ColorTabRed, cfg.Palette[1].ID)
	assert.Equal(t, "#d62728", cfg.Palette[1].Hex)
	assert.Equal(t, ColorTabGreen, cfg.Palette[2].ID)
	assert.Equal(t, "#2ca02c", cfg.Palette[2].Hex)

	// verify rendering defaults
	assert.Equal(t, "Profiler Metrics", cfg.Render.Title)
	assert.Equal(t, "white", cfg.Render.Theme)
	assert.Equal(t, "time (ms)", cfg.Render.XAxis)
	assert.Equal(t, "0.5", cfg.Render.BarWidth)
	assert.Equal(t, LegendPositionNone, cfg.Render.Legend)
	assert.Equal(t, int64(1080), cfg.Render.Screenshot.Height)
	assert.Equal(t, int64(1920), cfg.Render.Screenshot.Width)
	assert.InDelta(t, 1.0, cfg.Render.Screenshot.Scale, 1e-9)
	assert.Equal(t, time.Second, cfg.Render.Screenshot.SleepDuration())

	// verify capture defaults
	assert.Equal(t, "metrics", cfg.Capture.Dir)
	assert.Equal(t, 100, cfg.Capture.RowTuples)
}

func TestLoadFromFile(t *testing.T) {
	cfg := mustLoadTestConfig(t, minimalValidYAML())

	assert.Len(t, cfg.Metrics, 1)

	_, ok := cfg.GetMetric(MetricAvgFPS)
	assert.True(t, ok, "expected metric avg_fps in index")
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := load(os.DirFS(dir), "nonexistent.yaml", &Config{})
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte(":\n  :\n    - [invalid"), 0o600))

	_, err := load(os.DirFS(dir), "bad.yaml", &Config{})
	require.Error(t, err)
}

func TestMetricName(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "avg_fps", MetricAvgFPS.String())
	})

	t.Run("IsValid", func(t *testing.T) {
		valid := []MetricName{MetricAvgFPS, MetricFrameDelta, MetricEventMarker}
		for _, m := range valid {
			assert.True(t, m.IsValid(), "expected %q to be valid", m)
		}

		invalid := []MetricName{"unknown", "", "AVG_FPS", "avg_fps.csv"}
		for _, m := range invalid {
			assert.False(t, m.IsValid(), "expected %q to be invalid", m)
		}
	})

	t.Run("AllMetricNames", func(t *testing.T) {
		names := AllMetricNames()
		require.Len(t, names, 3)
		for _, n := range names {
			assert.True(t, n.IsValid(), "AllMetricNames() returned invalid name %q", n)
		}
	})
}

func TestSeriesKind(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "line", KindLine.String())
		assert.Equal(t, "event", KindEvent.String())
	})

	t.Run("IsValid", func(t *testing.T) {
		assert.True(t, KindLine.IsValid())
		assert.True(t, KindEvent.IsValid())

		invalid := []SeriesKind{"unknown", "", "bar", "Line"}
		for _, k := range invalid {
			assert.False(t, k.IsValid(), "expected %q to be invalid", k)
		}
	})

	t.Run("AllSeriesKinds", func(t *testing.T) {
		kinds := AllSeriesKinds()
		require.Len(t, kinds, 2)
		for _, k := range kinds {
			assert.True(t, k.IsValid(), "AllSeriesKinds() returned invalid kind %q", k)
		}
	})
}

func TestColorName(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "tab:blue", ColorTabBlue.String())
	})

	t.Run("IsValid", func(t *testing.T) {
		valid := []ColorName{ColorTabBlue, ColorTabRed, ColorTabGreen}
		for _, c := range valid {
			assert.True(t, c.IsValid(), "expected %q to be valid", c)
		}

		invalid := []ColorName{"tab:orange", "", "blue", "TAB:BLUE"}
		for _, c := range invalid {
			assert.False(t, c.IsValid(), "expected %q to be invalid", c)
		}
	})

	t.Run("AllColorNames", func(t *testing.T) {
		names := AllColorNames()
		require.Len(t, names, 3)
		for _, n := range names {
			assert.True(t, n.IsValid(), "AllColorNames() returned invalid name %q", n)
		}
	})
}

func TestFindMetricForFile(t *testing.T) {
	cfg := mustLoadDefaults(t)

	tests := []struct {
		name   string
		path   string
		wantID MetricName
		wantOk bool
	}{
		{
			name:   "bare file name",
			path:   "avg_fps.csv",
			wantID: MetricAvgFPS,
			wantOk: true,
		},
		{
			name:   "file in a capture directory",
			path:   filepath.Join("metrics", "2024-07-01_10_42_00.000", "avg_fps.csv"),
			wantID: MetricAvgFPS,
			wantOk: true,
		},
		{
			name:   "frame delta",
			path:   "frame_delta.csv",
			wantID: MetricFrameDelta,
			wantOk: true,
		},
		{
			name:   "event marker",
			path:   "event_marker.csv",
			wantID: MetricEventMarker,
			wantOk: true,
		},
		{
			name:   "unknown base name",
			path:   "bogus.csv",
			wantOk: false,
		},
		{
			name:   "case mismatch is not recognized",
			path:   "AVG_FPS.csv",
			wantOk: false,
		},
		{
			name:   "renamed capture is not recognized",
			path:   "avg_fps_run2.csv",
			wantOk: false,
		},
		{
			name:   "directory named like a capture file",
			path:   filepath.Join("avg_fps.csv", "data.csv"),
			wantOk: false,
		},
		{
			name:   "empty path",
			path:   "",
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metric, ok := cfg.FindMetricForFile(tt.path)
			require.Equal(t, tt.wantOk, ok, "FindMetricForFile(%q) ok", tt.path)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantID, metric.ID)
		})
	}
}

func TestColorForAxis(t *testing.T) {
	cfg := mustLoadDefaults(t)

	want := []ColorName{ColorTabBlue, ColorTabRed, ColorTabGreen}
	for i, id := range want {
		color, ok := cfg.ColorForAxis(i)
		require.True(t, ok, "expected a color for axis %d", i)
		assert.Equal(t, id, color.ID)
	}

	_, ok := cfg.ColorForAxis(MaxAxes)
	assert.False(t, ok)

	_, ok = cfg.ColorForAxis(-1)
	assert.False(t, ok)
}

func TestGetters(t *testing.T) {
	cfg := mustLoadDefaults(t)

	t.Run("GetMetric found", func(t *testing.T) {
		m, ok := cfg.GetMetric(MetricFrameDelta)
		require.True(t, ok, "expected to find metric 'frame_delta'")
		assert.Equal(t, "Frame Delta (sec)", m.Title)
	})

	t.Run("GetMetric not found", func(t *testing.T) {
		_, ok := cfg.GetMetric("invalid")
		assert.False(t, ok)
	})

	t.Run("GetColor found", func(t *testing.T) {
		c, ok := cfg.GetColor(ColorTabGreen)
		require.True(t, ok, "expected to find color 'tab:green'")
		assert.Equal(t, "#2ca02c", c.Hex)
	})

	t.Run("GetColor not found", func(t *testing.T) {
		_, ok := cfg.GetColor("tab:purple")
		assert.False(t, ok)
	})
}

func TestScreenshotSleepDuration(t *testing.T) {
	tests := []struct {
		sleep string
		want  time.Duration
	}{
		{"1s", time.Second},
		{"250ms", 250 * time.Millisecond},
		{"", 0},
		{"0s", 0},
		{"not-a-duration", 0},
	}

	for _, tt := range tests {
		s := Screenshot{Sleep: tt.sleep}
		assert.Equal(t, tt.want, s.SleepDuration(), "SleepDuration(%q)", tt.sleep)
	}
}

func TestValidationMetrics(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "metric with empty ID",
			yaml: `
metrics:
  - id: ""
    file: avg_fps.csv
    kind: line
` + validPaletteYAML(),
		},
		{
			name: "unknown metric ID",
			yaml: `
metrics:
  - id: max_fps
    file: max_fps.csv
    kind: line
` + validPaletteYAML(),
		},
		{
			name: "unknown series kind",
			yaml: `
metrics:
  - id: avg_fps
    file: avg_fps.csv
    kind: scatter
` + validPaletteYAML(),
		},
		{
			name: "metric without a capture file",
			yaml: `
metrics:
  - id: avg_fps
    kind: line
` + validPaletteYAML(),
		},
		{
			name: "duplicate metric ID",
			yaml: `
metrics:
  - id: avg_fps
    file: avg_fps.csv
    kind: line
  - id: avg_fps
    file: other.csv
    kind: line
` + validPaletteYAML(),
		},
		{
			name: "duplicate capture file",
			yaml: `
metrics:
  - id: avg_fps
    file: avg_fps.csv
    kind: line
  - id: frame_delta
    file: avg_fps.csv
    kind: line
` + validPaletteYAML(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFromString(t, tt.yaml)
			require.Error(t, err)
		})
	}
}

func TestValidationPalette(t *testing.T) {
	const validMetricYAML = `
metrics:
  - id: avg_fps
    file: avg_fps.csv
    kind: line
`

	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "color with empty ID",
			yaml: validMetricYAML + `
palette:
  - id: ""
    hex: "#1f77b4"
  - id: "tab:red"
    hex: "#d62728"
  - id: "tab:green"
    hex: "#2ca02c"
`,
		},
		{
			name: "unknown color ID",
			yaml: validMetricYAML + `
palette:
  - id: "tab:purple"
    hex: "#9467bd"
  - id: "tab:red"
    hex: "#d62728"
  - id: "tab:green"
    hex: "#2ca02c"
`,
		},
		{
			name: "color value not hexadecimal",
			yaml: validMetricYAML + `
palette:
  - id: "tab:blue"
    hex: blue
  - id: "tab:red"
    hex: "#d62728"
  - id: "tab:green"
    hex: "#2ca02c"
`,
		},
		{
			name: "duplicate color ID",
			yaml: validMetricYAML + `
palette:
  - id: "tab:blue"
    hex: "#1f77b4"
  - id: "tab:blue"
    hex: "#d62728"
  - id: "tab:green"
    hex: "#2ca02c"
`,
		},
		{
			name: "not enough colors for the axes",
			yaml: validMetricYAML + `
palette:
  - id: "tab:blue"
    hex: "#1f77b4"
  - id: "tab:red"
    hex: "#d62728"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFromString(t, tt.yaml)
			require.Error(t, err)
		})
	}
}

func TestMetricTitleFallback(t *testing.T) {
	yamlContent := `
metrics:
  - id: frame_delta
    file: frame_delta.csv
    kind: line
` + validPaletteYAML()

	cfg := mustLoadTestConfig(t, yamlContent)

	m, ok := cfg.GetMetric(MetricFrameDelta)
	require.True(t, ok)
	assert.Equal(t, "Frame Delta", m.Title)

	// the Metrics slice is updated along with the index
	assert.Equal(t, "Frame Delta", cfg.Metrics[0].Title)
}

func TestRenderAndCaptureDefaults(t *testing.T) {
	cfg := mustLoadTestConfig(t, minimalValidYAML())

	assert.Equal(t, "time (ms)", cfg.Render.XAxis)
	assert.Equal(t, "0.5", cfg.Render.BarWidth)
	assert.Equal(t, LegendPositionNone, cfg.Render.Legend)
	assert.InDelta(t, 1.0, cfg.Render.Screenshot.Scale, 1e-9)
	assert.Equal(t, "metrics", cfg.Capture.Dir)
	assert.Equal(t, 100, cfg.Capture.RowTuples)
}

func TestEncodeYAML(t *testing.T) {
	cfg := mustLoadDefaults(t)

	buf := bytes.Buffer{}
	require.NoError(t, cfg.EncodeYAML(&buf))

	// the encoded configuration loads back identically
	dir := t.TempDir()
	file := filepath.Join(dir, "encoded.yaml")
	require.NoError(t, os.WriteFile(file, buf.Bytes(), 0o600))

	loaded, err := load(os.DirFS(dir), "encoded.yaml", &Config{})
	require.NoError(t, err)

	assert.Equal(t, cfg.Name, loaded.Name)
	assert.Equal(t, cfg.Metrics, loaded.Metrics)
	assert.Equal(t, cfg.Palette, loaded.Palette)
	assert.Equal(t, cfg.Render, loaded.Render)
	assert.Equal(t, cfg.Capture, loaded.Capture)
}

func TestTitleize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello", "Hello"},
		{"hello-world", "Hello World"},
		{"hello_world", "Hello World"},
		{"avg_fps", "Avg Fps"},
		{"frame_delta", "Frame Delta"},
		{"event_marker", "Event Marker"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, titleize(tt.input))
		})
	}
}

func TestTitleizeMetricName(t *testing.T) {
	assert.Equal(t, "Event Marker", titleize(MetricEventMarker))
}

// helpers

func mustLoadDefaults(t *testing.T) *Config {
	t.Helper()

	cfg, err := LoadDefaults()
	require.NoError(t, err)

	return cfg
}

func loadFromString(t *testing.T, yamlContent string) (*Config, error) {
	t.Helper()

	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yamlContent), 0o600))

	return load(os.DirFS(dir), "config.yaml", &Config{})
}

func mustLoadTestConfig(t *testing.T, yamlContent string) *Config {
	t.Helper()

	cfg, err := loadFromString(t, yamlContent)
	require.NoError(t, err)

	return cfg
}

func minimalValidYAML() string {
	return `
metrics:
  - id: avg_fps
    file: avg_fps.csv
    title: Avg FPS
    kind: line
` + validPaletteYAML()
}

func validPaletteYAML() string {
	return `
palette:
  - id: "tab:blue"
    hex: "#1f77b4"
  - id: "tab:red"
    hex: "#d62728"
  - id: "tab:green"
    hex: "#2ca02c"
`
}
