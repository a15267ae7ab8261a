package image //nolint:revive // it's okay for an internal package to use this name

import "time"

// Option to tune the figure screenshot.
type Option func(*options)

type options struct {
	Height        int64
	Width         int64
	Scale         float64
	SleepDuration time.Duration
}

// Screenshot defaults: a full-HD viewport at native scale, leaving the chart
// scripts one second to draw.
const (
	defaultHeight int64 = 1080
	defaultWidth  int64 = 1920
	defaultScale        = 1.0
	defaultWait         = time.Second
)

func optionsWithDefaults(opts []Option) options {
	o := options{
		Height:        defaultHeight,
		Width:         defaultWidth,
		Scale:         defaultScale,
		SleepDuration: defaultWait,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithHeight sets the height of the emulated viewport.
//
// Defaults to 1080.
func WithHeight(height int64) Option {
	return func(o *options) {
		if height <= 0 {
			return
		}

		o.Height = height
	}
}

// WithWidth sets the width of the emulated viewport.
//
// Defaults to 1920.
func WithWidth(width int64) Option {
	return func(o *options) {
		if width <= 0 {
			return
		}

		o.Width = width
	}
}

// WithScale sets the device scale factor of the emulated viewport. Values
// above 1 produce a higher-density PNG of the same figure, e.g. 2 for a
// print-quality export.
//
// Defaults to 1.
func WithScale(scale float64) Option {
	return func(o *options) {
		if scale <= 0 {
			return
		}

		o.Scale = scale
	}
}

// WithSleep sets the time left to the chrome headless engine to draw the page
// before the screenshot is taken.
//
// Defaults to 1s.
func WithSleep(sleep time.Duration) Option {
	return func(o *options) {
		if sleep == 0 {
			return
		}

		o.SleepDuration = sleep
	}
}
