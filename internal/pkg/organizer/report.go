package organizer

import (
	"github.com/fredbi/profviz/internal/pkg/config"
	"github.com/fredbi/profviz/internal/pkg/model"
)

// Report allows to inspect the contents of composed capture files.
type Report struct {
	NumberOfAxes int          `json:"axes"`
	XLabel       string       `json:"x_label"`
	Sources      []string     `json:"analyzed_files"`
	Entries      []AxisReport `json:"axis_reports"`
}

// AxisReport summarizes the series drawn on one figure axis.
type AxisReport struct {
	File       string            `json:"file"`
	Metric     config.MetricName `json:"metric"`
	Kind       config.SeriesKind `json:"kind"`
	Color      config.ColorName  `json:"color"`
	Samples    int               `json:"samples"`
	TimeSpan   *MinMaxRange      `json:"time_span,omitempty"`
	ValueRange *MinMaxRange      `json:"value_range,omitempty"`
	Labels     []string          `json:"event_labels,omitempty"`
}

// MinMaxRange is the closed interval covered by a series of values.
type MinMaxRange struct {
	Min float64 `json:"min_value"`
	Max float64 `json:"max_value"`
}

// Summarize produces a [Report], which allows for closer inspection of the
// content of a composed figure.
func Summarize(figure *model.Figure) Report {
	r := Report{
		NumberOfAxes: len(figure.Axes),
		XLabel:       figure.XLabel,
		Sources:      figure.Sources,
		Entries:      make([]AxisReport, 0, len(figure.Axes)),
	}

	for i, axis := range figure.Axes {
		entry := AxisReport{
			File:    axis.Metric.File,
			Metric:  axis.Metric.ID,
			Kind:    axis.Metric.Kind,
			Color:   axis.Color.ID,
			Samples: axis.Samples(),
		}
		if i < len(figure.Sources) {
			entry.File = figure.Sources[i]
		}

		switch {
		case axis.Numeric != nil:
			entry.TimeSpan = minMaxOf(axis.Numeric.Timestamps)
			entry.ValueRange = minMaxOf(axis.Numeric.Values)
		case axis.Events != nil:
			entry.TimeSpan = minMaxOf(axis.Events.Timestamps)
			entry.Labels = distinctLabels(axis.Events.Labels)
		}

		r.Entries = append(r.Entries, entry)
	}

	return r
}

func minMaxOf(numbers []model.Number) *MinMaxRange {
	if len(numbers) == 0 {
		return nil
	}

	span := MinMaxRange{
		Min: numbers[0].Float64(),
		Max: numbers[0].Float64(),
	}

	for _, n := range numbers[1:] {
		v := n.Float64()
		if v < span.Min {
			span.Min = v
		}
		if v > span.Max {
			span.Max = v
		}
	}

	return &span
}

// distinctLabels deduplicates event labels, keeping the first-seen order.
func distinctLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	distinct := make([]string, 0, len(labels))

	for _, label := range labels {
		if _, ok := seen[label]; ok {
			continue
		}

		seen[label] = struct{}{}
		distinct = append(distinct, label)
	}

	return distinct
}
