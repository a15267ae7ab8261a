// Package recorder writes profiler capture files.
package recorder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fredbi/profviz/internal/pkg/config"
	"github.com/fredbi/profviz/internal/pkg/model"
)

// dirLayout names the per-run capture directory after its start time.
const dirLayout = "2006-01-02_15_04_05.000"

// Recorder appends metric samples to per-run capture files.
//
// Each run creates a fresh directory under the capture root, named after the
// run start time, holding one file per configured metric. Samples append as
// "timestamp,field;" tuples and rows wrap after a configured tuple count.
type Recorder struct {
	options

	cfg    *config.Config
	dir    string
	files  map[config.MetricName]*os.File
	tuples map[config.MetricName]int
	l      *slog.Logger
}

// New creates the per-run capture directory and one capture file per
// configured metric, empty until samples arrive.
func New(cfg *config.Config, opts ...Option) (*Recorder, error) {
	r := &Recorder{
		options: optionsWithDefaults(opts),
		cfg:     cfg,
		files:   make(map[config.MetricName]*os.File, len(cfg.Metrics)),
		tuples:  make(map[config.MetricName]int, len(cfg.Metrics)),
		l:       slog.Default().With(slog.String("module", "recorder")),
	}

	if r.root == "" {
		r.root = cfg.Capture.Dir
	}
	if r.rowTuples <= 0 {
		r.rowTuples = cfg.Capture.RowTuples
	}

	if err := os.MkdirAll(r.root, 0o750); err != nil {
		return nil, fmt.Errorf("creating capture root %q: %w", r.root, err)
	}

	r.dir = filepath.Join(r.root, r.start.Format(dirLayout))
	if err := os.Mkdir(r.dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating run directory %q: %w", r.dir, err)
	}

	for _, metric := range cfg.Metrics {
		f, err := os.Create(filepath.Join(r.dir, metric.File))
		if err != nil {
			_ = r.Close()

			return nil, fmt.Errorf("creating capture file %q: %w", metric.File, err)
		}

		r.files[metric.ID] = f
	}

	r.l.Info("capture started", slog.String("dir", r.dir))

	return r, nil
}

// Dir returns the per-run capture directory.
func (r *Recorder) Dir() string {
	return r.dir
}

// RecordValue appends a numeric sample to the capture file of a line metric.
func (r *Recorder) RecordValue(id config.MetricName, ts, value model.Number) error {
	return r.record(id, ts, value.String())
}

// MarkEvent appends a labeled event to the event marker capture file.
func (r *Recorder) MarkEvent(ts model.Number, label string) error {
	if err := validLabel(label); err != nil {
		return err
	}

	return r.record(config.MetricEventMarker, ts, label)
}

// Run ingests metric samples from a line-oriented feed until EOF.
//
// Each line holds "<metric> <timestamp> <field>", blank-separated. The field
// is a numeric value for line metrics and a label for event metrics. Lines
// with an unknown metric or a wrong shape are skipped with a warning.
func (r *Recorder) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	var ingested, skipped int
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := r.ingestLine(line); err != nil {
			skipped++
			r.l.Warn("sample skipped", slog.String("line", line), slog.String("error", err.Error()))

			continue
		}

		ingested++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading capture feed: %w", err)
	}

	r.l.Info("capture feed done", slog.Int("ingested", ingested), slog.Int("skipped", skipped))

	return nil
}

// Close flushes partial rows and closes every capture file.
func (r *Recorder) Close() error {
	errs := make([]error, 0, len(r.files))

	for id, f := range r.files {
		if f == nil {
			continue
		}

		if r.tuples[id] > 0 {
			if _, err := io.WriteString(f, "\n"); err != nil {
				errs = append(errs, fmt.Errorf("wrapping capture row for %q: %w", id, err))
			}
		}

		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing capture file for %q: %w", id, err))
		}
	}

	return errors.Join(errs...)
}

func (r *Recorder) ingestLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return fmt.Errorf("expected 3 blank-separated fields, got %d", len(fields))
	}

	id := config.MetricName(fields[0])
	metric, ok := r.cfg.GetMetric(id)
	if !ok {
		return fmt.Errorf("unknown metric %q", fields[0])
	}

	ts, err := model.ParseNumber(fields[1])
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}

	if metric.Kind == config.KindEvent {
		if err := validLabel(fields[2]); err != nil {
			return err
		}

		return r.record(id, ts, fields[2])
	}

	value, err := model.ParseNumber(fields[2])
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}

	return r.record(id, ts, value.String())
}

func (r *Recorder) record(id config.MetricName, ts model.Number, field string) error {
	f, ok := r.files[id]
	if !ok {
		return fmt.Errorf("no capture file for metric %q", id)
	}

	if _, err := fmt.Fprintf(f, "%s,%s;", ts.String(), field); err != nil {
		return fmt.Errorf("writing capture tuple: %w", err)
	}

	r.tuples[id]++
	if r.tuples[id] >= r.rowTuples {
		if _, err := io.WriteString(f, "\n"); err != nil {
			return fmt.Errorf("wrapping capture row: %w", err)
		}

		r.tuples[id] = 0
	}

	return nil
}

// validLabel rejects event labels holding capture separators: such a label
// could not be read back.
func validLabel(label string) error {
	if strings.ContainsAny(label, ",;\n\r") {
		return fmt.Errorf("event label %q contains capture separators", label)
	}

	return nil
}
