package chart

// Theme constants from go-echarts.
const (
	ThemeWhite = "white"
)

// Option configures a [Chart].
type Option func(*options)

type options struct {
	Title      string
	Subtitle   string
	XAxisLabel string
	Theme      string
	BarWidth   string
	ShowLegend bool
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(c *options) {
		c.Title = title
	}
}

// WithSubtitle sets the chart subtitle (typically the capture file names).
func WithSubtitle(subtitle string) Option {
	return func(c *options) {
		c.Subtitle = subtitle
	}
}

// WithXAxisLabel sets the label of the shared time axis.
func WithXAxisLabel(xlabel string) Option {
	return func(c *options) {
		c.XAxisLabel = xlabel
	}
}

// WithTheme sets the color theme.
//
// Defaults to the white theme, so that the axis palette colors stand out.
func WithTheme(theme string) Option {
	return func(c *options) {
		if theme == "" {
			return
		}

		c.Theme = theme
	}
}

// WithBarWidth sets the width of the event pins.
func WithBarWidth(width string) Option {
	return func(c *options) {
		if width == "" {
			return
		}

		c.BarWidth = width
	}
}

// WithLegend enables or disables the legend.
func WithLegend(show bool) Option {
	return func(c *options) {
		c.ShowLegend = show
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		Theme:    ThemeWhite,
		BarWidth: "0.5",
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
