package chart

import (
	"log/slog"
	"strings"

	"github.com/fredbi/profviz/internal/pkg/config"
	"github.com/fredbi/profviz/internal/pkg/model"
)

// Builder constructs a chart page from a composed figure.
type Builder struct {
	cfg    *config.Config
	figure *model.Figure
	l      *slog.Logger
}

// New creates a chart [Builder], given a [config.Config] and a composed [model.Figure].
//
// The builder embeds a [slog.Logger] to croak about warnings and issues.
func New(cfg *config.Config, figure *model.Figure) *Builder {
	return &Builder{
		cfg:    cfg,
		figure: figure,
		l:      slog.Default().With(slog.String("module", "chart")),
	}
}

// BuildPage creates a page holding the figure chart.
func (b *Builder) BuildPage() *Page {
	page := NewPage(b.cfg.Render.Title)

	if len(b.figure.Axes) == 0 {
		b.l.Warn("empty figure: no chart added")

		return page
	}

	chart := NewChart(
		WithTitle(b.cfg.Render.Title),
		WithSubtitle(strings.Join(b.figure.Sources, ", ")),
		WithXAxisLabel(b.figure.XLabel),
		WithTheme(b.cfg.Render.Theme),
		WithBarWidth(b.cfg.Render.BarWidth),
		WithLegend(b.cfg.Render.Legend != config.LegendPositionNone), // TODO: configurable legend position
	)

	for _, axis := range b.figure.Axes {
		chart.AddAxis(axis)

		b.l.Info("added axis",
			slog.String("metric_id", axis.Metric.ID.String()),
			slog.String("kind", axis.Kind().String()),
			slog.String("color", axis.Color.ID.String()),
		)
	}

	page.AddChart(chart)
	b.l.Info("added charts", slog.Int("charts", len(page.Charts)))

	return page
}
