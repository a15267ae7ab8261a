package organizer

import (
	"github.com/fredbi/profviz/internal/pkg/parser"
)

// Option configures an [Organizer].
type Option func(*options)

type options struct {
	parser *parser.SeriesParser
}

// WithParser injects a pre-built capture parser, e.g. to share one parser
// across several components.
//
// Defaults to a fresh [parser.SeriesParser].
func WithParser(p *parser.SeriesParser) Option {
	return func(o *options) {
		if p == nil {
			return
		}

		o.parser = p
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		parser: parser.New(),
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
