package organizer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fredbi/profviz/internal/pkg/config"
	"github.com/fredbi/profviz/internal/pkg/model"
)

// Event annotation placement.
//
// Each distinct label claims a slot one step below the previous one, starting
// from the top of the unit event pin. STOP labels drop slightly lower than
// their START counterpart so that paired markers remain readable.
const (
	annotationStep     = 0.1
	stopAnnotationDrop = 0.05
)

// InvalidFileError reports an input file whose base name matches no known
// capture metric.
type InvalidFileError struct {
	Path string
}

// Error returns the user-facing message for an unrecognized input file.
func (e *InvalidFileError) Error() string {
	return "Invalid file provided:" + e.Path
}

// ExitCode returns the process exit code conveyed by this error.
func (e *InvalidFileError) ExitCode() int {
	return 3
}

// Organizer composes parsed capture files into a multi-axis figure.
type Organizer struct {
	options

	cfg *config.Config
	l   *slog.Logger
}

// New builds an [Organizer] ready to compose capture files into a figure.
func New(cfg *config.Config, opts ...Option) *Organizer {
	return &Organizer{
		options: optionsWithDefaults(opts),
		cfg:     cfg,
		l:       slog.Default().With(slog.String("module", "organizer")),
	}
}

// Compose parses the given capture files and arranges them into a
// [model.Figure], one axis per file, in argument order.
//
// Files beyond [config.MaxAxes] are ignored. A file whose base name matches
// no capture metric yields an [InvalidFileError].
func (o *Organizer) Compose(files ...string) (*model.Figure, error) {
	if len(files) > config.MaxAxes {
		o.l.Warn("extra input files ignored", slog.Int("ignored", len(files)-config.MaxAxes))
		files = files[:config.MaxAxes]
	}

	figure := &model.Figure{
		XLabel:  o.cfg.Render.XAxis,
		Sources: files,
		Axes:    make([]model.Axis, 0, len(files)),
	}

	for i, file := range files {
		metric, ok := o.cfg.FindMetricForFile(file)
		if !ok {
			return nil, &InvalidFileError{Path: file}
		}

		color, ok := o.cfg.ColorForAxis(i)
		if !ok {
			return nil, fmt.Errorf("no palette color defined for axis %d", i)
		}

		axis, err := o.populateAxis(metric, color, file)
		if err != nil {
			return nil, err
		}

		figure.Axes = append(figure.Axes, axis)
	}

	o.l.Info("composed figure", slog.Int("axes", len(figure.Axes)))

	return figure, nil
}

// populateAxis parses one capture file and shapes it as a figure axis,
// according to the kind of its metric.
func (o *Organizer) populateAxis(metric config.Metric, color config.Color, file string) (model.Axis, error) {
	axis := model.Axis{
		Metric: metric,
		Color:  color,
	}

	switch metric.Kind {
	case config.KindEvent:
		events, err := o.parser.ParseEventFile(file)
		if err != nil {
			return model.Axis{}, err
		}

		axis.Events = &events
		axis.Annotations = placeAnnotations(events)
	default:
		series, err := o.parser.ParseNumericFile(file)
		if err != nil {
			return model.Axis{}, err
		}

		axis.Numeric = &series
	}

	return axis, nil
}

// placeAnnotations computes the label position of every event.
//
// The first occurrence of a label claims the next slot down from the top of
// the event pin, later occurrences of the same label reuse it. Labels
// containing "STOP" drop slightly lower, unless they also contain "START".
func placeAnnotations(events model.EventSeries) []model.Annotation {
	offsets := make(map[string]float64)
	nextOffset := 0.0
	annotations := make([]model.Annotation, 0, events.Len())

	for i := range events.Len() {
		label := events.Labels[i]

		offset, ok := offsets[label]
		if !ok {
			offset = nextOffset
			offsets[label] = offset
			nextOffset += annotationStep
		}

		y := float64(events.Placeholders[i]) - offset
		if strings.Contains(label, "STOP") && !strings.Contains(label, "START") {
			y -= stopAnnotationDrop
		}

		annotations = append(annotations, model.Annotation{
			X:     events.Timestamps[i],
			Y:     y,
			Label: label,
		})
	}

	return annotations
}
