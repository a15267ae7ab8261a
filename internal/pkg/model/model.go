package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fredbi/profviz/internal/pkg/config"
)

// Number is a numeric capture field, either integer or floating point.
//
// The capture dialect decides the form: a field containing a dot is a float,
// any other field is an integer.
type Number struct {
	i       int64
	f       float64
	isFloat bool
}

// ParseNumber interprets a capture field as a [Number].
//
// A field containing a '.' anywhere parses as a float64, all other fields
// parse as a base-10 int64. Surrounding blanks or an exponent without a dot
// are parse errors.
func ParseNumber(field string) (Number, error) {
	if strings.Contains(field, ".") {
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Number{}, fmt.Errorf("parsing %q as float: %w", field, err)
		}

		return FloatNumber(f), nil
	}

	i, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return Number{}, fmt.Errorf("parsing %q as int: %w", field, err)
	}

	return IntNumber(i), nil
}

// IntNumber returns an integer-valued [Number].
func IntNumber(v int64) Number {
	return Number{i: v}
}

// FloatNumber returns a float-valued [Number].
func FloatNumber(v float64) Number {
	return Number{f: v, isFloat: true}
}

// Float64 returns the value as a float64, whatever its capture form.
func (n Number) Float64() float64 {
	if n.isFloat {
		return n.f
	}

	return float64(n.i)
}

// Integer reports whether the value was captured in integer form.
func (n Number) Integer() bool {
	return !n.isFloat
}

// String renders the number back in capture form: integers without a dot,
// floats always with one, so that the value survives a parse round-trip.
func (n Number) String() string {
	if !n.isFloat {
		return strconv.FormatInt(n.i, 10)
	}

	s := strconv.FormatFloat(n.f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// MarshalJSON encodes the number in its capture form, as a JSON number.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// NumericSeries holds the samples of a line metric: one timestamp and one
// numeric value per sample, kept in capture order.
type NumericSeries struct {
	Timestamps []Number
	Values     []Number
}

// Len returns the number of samples in the series.
func (s NumericSeries) Len() int {
	return len(s.Timestamps)
}

// EventSeries holds the samples of an event metric: one timestamp and one
// text label per sample, plus a unit placeholder used to draw the event pin.
type EventSeries struct {
	Timestamps   []Number
	Labels       []string
	Placeholders []int
}

// Len returns the number of events in the series.
func (s EventSeries) Len() int {
	return len(s.Timestamps)
}

// Annotation pins an event label at a position on the figure.
//
// X is the event timestamp on the shared time axis, Y the vertical placement
// of the label relative to the unit placeholder.
type Annotation struct {
	X     Number
	Y     float64
	Label string
}

// Axis is one value axis of the figure, together with the series drawn
// against it.
//
// Exactly one of Numeric or Events is set, according to the metric kind.
type Axis struct {
	Metric      config.Metric
	Color       config.Color
	Numeric     *NumericSeries
	Events      *EventSeries
	Annotations []Annotation
}

// Kind returns the series kind of the axis metric.
func (a Axis) Kind() config.SeriesKind {
	return a.Metric.Kind
}

// Samples returns the number of samples drawn on the axis.
func (a Axis) Samples() int {
	switch {
	case a.Numeric != nil:
		return a.Numeric.Len()
	case a.Events != nil:
		return a.Events.Len()
	default:
		return 0
	}
}

// Figure is a complete multi-axis figure.
//
// All axes share a single horizontal time axis. The first axis sits on the
// left-hand side of the chart, additional axes stack up on the right.
type Figure struct {
	XLabel  string
	Sources []string
	Axes    []Axis
}
