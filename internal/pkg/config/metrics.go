package config

// MetricName identifies a profiler capture metric (e.g. "avg_fps").
type MetricName string

// Capture metrics produced by the game profiler.
const (
	MetricAvgFPS      MetricName = "avg_fps"
	MetricFrameDelta  MetricName = "frame_delta"
	MetricEventMarker MetricName = "event_marker"
)

// String returns the metric name as a plain string.
func (m MetricName) String() string {
	return string(m)
}

// IsValid reports whether the metric name is one of the known capture metrics.
func (m MetricName) IsValid() bool {
	switch m {
	case MetricAvgFPS, MetricFrameDelta, MetricEventMarker:
		return true
	default:
		return false
	}
}

// AllMetricNames returns all known capture metric names.
func AllMetricNames() []MetricName {
	return []MetricName{
		MetricAvgFPS,
		MetricFrameDelta,
		MetricEventMarker,
	}
}

// SeriesKind tells how the samples of a metric are laid out and drawn.
//
// Line metrics hold numeric values plotted against time. Event metrics hold
// text labels pinned at their time of occurrence.
type SeriesKind string

// Supported series kinds.
const (
	KindLine  SeriesKind = "line"
	KindEvent SeriesKind = "event"
)

// String returns the series kind as a plain string.
func (k SeriesKind) String() string {
	return string(k)
}

// IsValid reports whether the series kind is supported.
func (k SeriesKind) IsValid() bool {
	switch k {
	case KindLine, KindEvent:
		return true
	default:
		return false
	}
}

// AllSeriesKinds returns all supported series kinds.
func AllSeriesKinds() []SeriesKind {
	return []SeriesKind{
		KindLine,
		KindEvent,
	}
}
