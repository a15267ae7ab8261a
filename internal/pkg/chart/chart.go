package chart

import (
	"github.com/fredbi/profviz/internal/pkg/config"
	"github.com/fredbi/profviz/internal/pkg/model"
	"github.com/go-echarts/go-echarts/v2/charts"
	echartsopts "github.com/go-echarts/go-echarts/v2/opts"
)

const (
	defaultFontSize      = 12
	axisNameGap          = 32
	annotationSymbolSize = 18

	axisTypeValue = "value"
	axisRight     = "right"
)

// Chart represents a profiler figure: one shared time axis and up to
// [config.MaxAxes] value axes, each drawing its own series.
type Chart struct {
	options

	Axes []model.Axis
}

// NewChart creates a new chart with the given options.
func NewChart(opts ...Option) *Chart {
	return &Chart{
		options: optionsWithDefaults(opts),
	}
}

// AddAxis appends a figure axis to the chart.
//
// The first axis sits on the left-hand side, the next ones on the right.
func (c *Chart) AddAxis(axis model.Axis) {
	c.Axes = append(c.Axes, axis)
}

// Build creates the ECharts chart from the accumulated axes.
//
// Line metrics render as line series against their own value axis. Event
// metrics render as an overlapped bar series of unit pins, with one mark
// point per annotated label.
func (c *Chart) Build() *charts.Line {
	line := charts.NewLine()

	// Title options
	titleOpts := echartsopts.Title{
		Title: c.Title,
	}
	if c.Subtitle != "" {
		titleOpts.Subtitle = c.Subtitle
		titleOpts.SubtitleStyle = &echartsopts.TextStyle{
			FontStyle: "italic",
			FontSize:  defaultFontSize,
		}
	}

	// Legend options
	legendOpts := echartsopts.Legend{
		Show: echartsopts.Bool(c.ShowLegend),
	}
	if c.ShowLegend {
		legendOpts.X = "right"
		legendOpts.Y = "bottom"
	}

	// X-axis options: a single numeric time axis shared by all series
	xAxisOpts := echartsopts.XAxis{
		Name:         c.XAxisLabel,
		Type:         axisTypeValue,
		NameLocation: "center",
		NameGap:      axisNameGap,
		Scale:        echartsopts.Bool(true),
	}

	// Grid options
	gridOpts := echartsopts.Grid{
		Bottom: "100",
		Top:    "100",
	}

	// Toolbox options
	toolboxOpts := echartsopts.Toolbox{
		Left: "right",
		Feature: &echartsopts.ToolBoxFeature{
			SaveAsImage: &echartsopts.ToolBoxFeatureSaveAsImage{
				Title: "Save as image",
			},
		},
	}

	// Apply global options
	line.SetGlobalOptions(
		charts.WithInitializationOpts(echartsopts.Initialization{Theme: c.Theme}),
		charts.WithToolboxOpts(toolboxOpts),
		charts.WithTitleOpts(titleOpts),
		charts.WithLegendOpts(legendOpts),
		charts.WithGridOpts(gridOpts),
		charts.WithXAxisOpts(xAxisOpts),
		charts.WithYAxisOpts(c.yAxisFor(0)),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: "axis",
			AxisPointer: &echartsopts.AxisPointer{
				Type: "cross",
			},
		}),
	)

	// Additional value axes, stacked on the right-hand side
	for i := 1; i < len(c.Axes); i++ {
		line.ExtendYAxis(c.yAxisFor(i))
	}

	for i, axis := range c.Axes {
		switch {
		case axis.Numeric != nil:
			line.AddSeries(axis.Metric.Title, lineData(*axis.Numeric),
				charts.WithLineChartOpts(echartsopts.LineChart{
					YAxisIndex: i,
					ShowSymbol: echartsopts.Bool(false),
				}),
				charts.WithLineStyleOpts(echartsopts.LineStyle{Color: axis.Color.Hex}),
				charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: axis.Color.Hex}),
			)
		case axis.Events != nil:
			line.Overlap(c.eventOverlay(axis, i))
		}
	}

	return line
}

// yAxisFor shapes the value axis for the figure axis at the given position.
//
// All value axes carry the palette color of their series. Event axes hide
// their tick labels: only the pins and their annotations matter.
func (c *Chart) yAxisFor(index int) echartsopts.YAxis {
	if index >= len(c.Axes) {
		return echartsopts.YAxis{Type: axisTypeValue}
	}

	axis := c.Axes[index]
	y := echartsopts.YAxis{
		Type:  axisTypeValue,
		Scale: echartsopts.Bool(true),
		AxisLine: &echartsopts.AxisLine{
			Show: echartsopts.Bool(true),
			LineStyle: &echartsopts.LineStyle{
				Color: axis.Color.Hex,
			},
		},
		AxisLabel: &echartsopts.AxisLabel{
			Color: axis.Color.Hex,
		},
	}

	if index > 0 {
		y.Position = axisRight
		y.SplitLine = &echartsopts.SplitLine{
			Show: echartsopts.Bool(false),
		}
	}

	if axis.Kind() == config.KindEvent {
		// event pins draw from the axis origin, tick labels are suppressed
		y.Scale = echartsopts.Bool(false)
		y.AxisLabel = &echartsopts.AxisLabel{
			Show: echartsopts.Bool(false),
		}

		return y
	}

	y.Name = axis.Metric.Title

	return y
}

// eventOverlay builds the bar series of unit pins for an event axis,
// together with one mark point per annotation.
func (c *Chart) eventOverlay(axis model.Axis, index int) *charts.Bar {
	bar := charts.NewBar()

	data := make([]echartsopts.BarData, 0, axis.Events.Len())
	for i := range axis.Events.Len() {
		data = append(data, echartsopts.BarData{
			Name: axis.Events.Labels[i],
			Value: []interface{}{
				axis.Events.Timestamps[i].Float64(),
				float64(axis.Events.Placeholders[i]),
			},
		})
	}

	// mark points take the color of the bar series item style
	items := make([]echartsopts.MarkPointNameCoordItem, 0, len(axis.Annotations))
	for _, annotation := range axis.Annotations {
		items = append(items, echartsopts.MarkPointNameCoordItem{
			Name: annotation.Label,
			Coordinate: []interface{}{
				annotation.X.Float64(),
				annotation.Y,
			},
		})
	}

	bar.AddSeries(axis.Metric.Title, data,
		charts.WithBarChartOpts(echartsopts.BarChart{
			BarWidth:   c.BarWidth,
			XAxisIndex: 0,
			YAxisIndex: index,
		}),
		charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: axis.Color.Hex}),
		charts.WithMarkPointStyleOpts(echartsopts.MarkPointStyle{
			Symbol:     []string{"pin"},
			SymbolSize: annotationSymbolSize,
			Label: &echartsopts.Label{
				Show:      echartsopts.Bool(true),
				Formatter: "{b}",
				Color:     axis.Color.Hex,
				Position:  axisRight,
			},
		}),
		charts.WithMarkPointNameCoordItemOpts(items...),
	)

	return bar
}

// lineData shapes a numeric series as (time, value) chart points.
func lineData(series model.NumericSeries) []echartsopts.LineData {
	data := make([]echartsopts.LineData, 0, series.Len())

	for i := range series.Len() {
		data = append(data, echartsopts.LineData{
			Value: []interface{}{
				series.Timestamps[i].Float64(),
				series.Values[i].Float64(),
			},
		})
	}

	return data
}
