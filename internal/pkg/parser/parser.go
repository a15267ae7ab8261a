package parser //nolint:revive // it's okay for an internal package to use this name

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fredbi/profviz/internal/pkg/model"
)

// Capture dialect separators.
const (
	tupleSeparator = ";"
	fieldSeparator = ","
)

// placeholderValue is the unit height recorded for every event sample.
const placeholderValue = 1

// ErrMalformedTuple is returned when a capture tuple does not hold exactly
// two comma-separated fields.
var ErrMalformedTuple = errors.New("tuple should hold exactly two comma-separated fields")

// SeriesParser parses profiler capture files.
//
// A capture file packs "timestamp,field" tuples separated by ';' on long
// rows. An empty tuple terminates its row: whatever follows on the same row
// is ignored. The field is either a numeric value (line metrics) or an
// opaque text label (event metrics).
type SeriesParser struct {
	l *slog.Logger
}

// New builds a [SeriesParser] ready to parse capture files.
func New() *SeriesParser {
	return &SeriesParser{
		l: slog.Default().With(slog.String("module", "parser")),
	}
}

// ParseNumericFile parses a line metric capture file into a [model.NumericSeries].
func (p *SeriesParser) ParseNumericFile(file string) (model.NumericSeries, error) {
	reader, err := os.Open(file)
	if err != nil {
		return model.NumericSeries{}, fmt.Errorf("input file %q: %w", file, err)
	}
	defer func() {
		_ = reader.Close()
	}()

	series, err := p.ParseNumeric(reader)
	if err != nil {
		return model.NumericSeries{}, fmt.Errorf("parsing %q: %w", file, err)
	}

	p.l.Info("numeric capture parsed", slog.String("file", file), slog.Int("samples", series.Len()))

	return series, nil
}

// ParseNumeric parses a stream of numeric capture tuples.
//
// Both tuple fields obey the capture number forms: a field containing a dot
// is a float, any other field is an integer.
func (p *SeriesParser) ParseNumeric(r io.Reader) (model.NumericSeries, error) {
	var series model.NumericSeries

	err := scanTuples(r, func(row, index int, first, second string) error {
		ts, err := model.ParseNumber(first)
		if err != nil {
			return fmt.Errorf("row %d, tuple %d: timestamp: %w", row, index, err)
		}

		value, err := model.ParseNumber(second)
		if err != nil {
			return fmt.Errorf("row %d, tuple %d: value: %w", row, index, err)
		}

		series.Timestamps = append(series.Timestamps, ts)
		series.Values = append(series.Values, value)

		return nil
	})
	if err != nil {
		return model.NumericSeries{}, err
	}

	return series, nil
}

// ParseEventFile parses an event metric capture file into a [model.EventSeries].
func (p *SeriesParser) ParseEventFile(file string) (model.EventSeries, error) {
	reader, err := os.Open(file)
	if err != nil {
		return model.EventSeries{}, fmt.Errorf("input file %q: %w", file, err)
	}
	defer func() {
		_ = reader.Close()
	}()

	series, err := p.ParseEvents(reader)
	if err != nil {
		return model.EventSeries{}, fmt.Errorf("parsing %q: %w", file, err)
	}

	p.l.Info("event capture parsed", slog.String("file", file), slog.Int("events", series.Len()))

	return series, nil
}

// ParseEvents parses a stream of event capture tuples.
//
// The timestamp obeys the capture number forms. The label is kept as opaque
// text: no trimming, no unquoting. Every event carries a unit placeholder
// used to draw its pin.
func (p *SeriesParser) ParseEvents(r io.Reader) (model.EventSeries, error) {
	var series model.EventSeries

	err := scanTuples(r, func(row, index int, first, second string) error {
		ts, err := model.ParseNumber(first)
		if err != nil {
			return fmt.Errorf("row %d, tuple %d: timestamp: %w", row, index, err)
		}

		series.Timestamps = append(series.Timestamps, ts)
		series.Labels = append(series.Labels, second)
		series.Placeholders = append(series.Placeholders, placeholderValue)

		return nil
	})
	if err != nil {
		return model.EventSeries{}, err
	}

	return series, nil
}

// scanTuples reads a capture stream and invokes each for every complete
// tuple, in capture order.
//
// Rows are newline-separated. Within a row, tuples are ';'-separated and an
// empty tuple terminates the row. A tuple must hold exactly two
// ','-separated fields, otherwise scanning stops with [ErrMalformedTuple].
//
// Row and tuple indices reported to the callback are 1-based.
func scanTuples(r io.Reader, each func(row, index int, first, second string) error) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading capture: %w", err)
	}

	rowIndex := 0
	for row := range strings.SplitSeq(string(content), "\n") {
		rowIndex++
		row = strings.TrimSuffix(row, "\r")
		if row == "" {
			continue
		}

		tupleIndex := 0
		for tuple := range strings.SplitSeq(row, tupleSeparator) {
			if tuple == "" {
				// an empty tuple ends the row
				break
			}
			tupleIndex++

			fields := strings.Split(tuple, fieldSeparator)
			if len(fields) != 2 {
				return fmt.Errorf("row %d, tuple %d %q: %w", rowIndex, tupleIndex, tuple, ErrMalformedTuple)
			}

			if err := each(rowIndex, tupleIndex, fields[0], fields[1]); err != nil {
				return err
			}
		}
	}

	return nil
}
