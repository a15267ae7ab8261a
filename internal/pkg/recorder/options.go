package recorder

import "time"

// Option to tune the capture recorder.
type Option func(*options)

type options struct {
	root      string
	start     time.Time
	rowTuples int
}

// WithDir overrides the capture root directory from the configuration.
func WithDir(dir string) Option {
	return func(o *options) {
		if dir == "" {
			return
		}

		o.root = dir
	}
}

// WithStart pins the run start time used to name the run directory.
//
// Defaults to [time.Now].
func WithStart(start time.Time) Option {
	return func(o *options) {
		if start.IsZero() {
			return
		}

		o.start = start
	}
}

// WithRowTuples overrides the number of tuples packed on a capture row
// before it wraps.
func WithRowTuples(n int) Option {
	return func(o *options) {
		if n <= 0 {
			return
		}

		o.rowTuples = n
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		start: time.Now(),
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
