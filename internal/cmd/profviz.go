// Package cmd owns the implementation details of the CLI command.
package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fredbi/profviz/internal/pkg/chart"
	"github.com/fredbi/profviz/internal/pkg/config"
	"github.com/fredbi/profviz/internal/pkg/image"
	"github.com/fredbi/profviz/internal/pkg/model"
	"github.com/fredbi/profviz/internal/pkg/organizer"
	"github.com/fredbi/profviz/internal/pkg/recorder"
	"github.com/pkg/browser"
)

const exitUsage = 2

// usageError is returned when no capture file is provided.
type usageError struct{}

// Error returns the user-facing usage message.
func (usageError) Error() string {
	return "Usage: profviz [flags] PROFILER_DATA_FILE1.csv [PROFILER_DATA_FILE2.csv] [PROFILER_DATA_FILE3.csv]"
}

// ExitCode returns the process exit code conveyed by this error.
func (usageError) ExitCode() int {
	return exitUsage
}

// Command holds command line flags and executes the profviz command.
//
// The main purpose of this package is to deal with io's: opening and closing
// files, wiring standard streams and mapping errors to exit codes.
//
// All other invoked functionalities deal with streams or file paths.
type Command struct {
	OutputFile string
	Png        bool
	Show       bool
	Report     bool
	Record     bool
	CaptureDir string
	Debug      bool
	L          *slog.Logger
}

// NewCommand builds a CLI command with registered flags and an injected logger.
func NewCommand() *Command {
	// inject a structured logger
	cli := &Command{
		L: slog.Default().With(slog.String("module", "main")),
	}

	cli.registerFlags()

	return cli
}

// Parse command line flags and arguments.
func (*Command) Parse() error {
	return flag.CommandLine.Parse(os.Args[1:])
}

// Fatalf logs an error message then exits. The output is spewed on both stderr and the structured logger output.
func (c *Command) Fatalf(err error) {
	c.L.Error(err.Error())
	log.Fatalf("%v", err)
}

// Exit terminates the process according to the error.
//
// Errors conveying an exit code print their message to standard output and
// exit with that code. Anything else is fatal.
func (c *Command) Exit(err error) {
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		fmt.Println(err.Error())
		os.Exit(coded.ExitCode())
	}

	c.Fatalf(err)
}

// Execute the CLI with flags and extra arguments.
//
// If no argument is passed, command line arguments (i.e. [os.Args]) are used.
func (c *Command) Execute(args ...string) error {
	if args == nil { // passing explicit args allows for testing Execute without altering [os.Args]
		args = c.args()
	}

	if len(args) == 0 && !c.Record {
		return usageError{}
	}

	cfg, cleanup, err := c.prepareConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	if c.Record {
		// ingest a capture feed instead of rendering
		return c.record(cfg)
	}

	// 1. parse the input capture files and compose the figure
	figure, err := c.compose(cfg, args)
	if err != nil {
		return err
	}

	if c.Report {
		// just want to report about the content of the capture files
		return c.report(figure)
	}

	// 2. render the figure
	return c.render(cfg, figure)
}

func (*Command) args() []string {
	return flag.CommandLine.Args()
}

func (c *Command) registerFlags() {
	defaults := Command{
		OutputFile: "",
		Png:        false,
		Show:       false,
		Report:     false,
		Record:     false,
		CaptureDir: "",
		Debug:      false,
	}

	flag.StringVar(&c.OutputFile, "output", defaults.OutputFile, "HTML output file, - for standard output (default: a temporary file)")
	flag.StringVar(&c.OutputFile, "o", defaults.OutputFile, "HTML output file, - for standard output (shorthand)")
	flag.BoolVar(&c.Png, "png", defaults.Png, "enable PNG screenshot output")
	flag.BoolVar(&c.Show, "show", defaults.Show, "open the rendered figure in the system browser")
	flag.BoolVar(&c.Report, "report", defaults.Report, "report capture contents only, no rendering")
	flag.BoolVar(&c.Report, "r", defaults.Report, "report capture contents only, no rendering (shorthand)")
	flag.BoolVar(&c.Record, "record", defaults.Record, "record a capture run from a feed on standard input")
	flag.StringVar(&c.CaptureDir, "capture-dir", defaults.CaptureDir, "capture root directory used by -record")
	flag.BoolVar(&c.Debug, "debug", defaults.Debug, "dump the effective config and the composed figure to standard error")
}

func (c *Command) prepareConfig() (cfg *config.Config, cleanup func(), err error) {
	cfg, err = config.LoadDefaults()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err = c.setConfig(cfg); err != nil {
		return nil, nil, fmt.Errorf("preparing config: %w", err)
	}

	if c.Debug {
		c.dumpConfig(cfg)
	}

	if cfg.Outputs.IsTemp {
		cleanup = func() {
			_ = os.Remove(cfg.Outputs.HTMLFile)
		}

		return cfg, cleanup, nil
	}

	return cfg, func() {}, nil
}

// setConfig applies CLI flag overrides to the configuration.
func (c *Command) setConfig(cfg *config.Config) error {
	if c.CaptureDir != "" {
		cfg.Capture.Dir = c.CaptureDir
	}

	cfg.Outputs.Show = c.Show

	if c.Record || c.Report {
		// no rendering output involved
		return nil
	}

	switch {
	case c.OutputFile == "-":
		cfg.Outputs.HTMLFile = "-"
		if c.Png {
			c.L.Info("set an output file to render a PNG image")
		}
		if c.Show {
			c.L.Info("cannot open the browser when writing to standard output")
			cfg.Outputs.Show = false
		}
	case c.OutputFile != "":
		// an output file is defined: infer the PNG file from the HTML file provided
		cfg.Outputs.HTMLFile = inferHTMLFile(c.OutputFile)
		if c.Png {
			cfg.Outputs.PngFile = inferImageFile(c.OutputFile)
		}
	default:
		// no output file: render to a temporary file, to display or screenshot
		tmp, err := os.CreateTemp("", "profviz.*.html")
		if err != nil {
			return err
		}
		cfg.Outputs.HTMLFile = tmp.Name()
		_ = tmp.Close()

		if c.Png {
			cfg.Outputs.PngFile = "profviz.png"
			if !c.Show {
				// the temporary HTML is removed once the PNG is written
				cfg.Outputs.IsTemp = true
			}
			c.L.Info("HTML generated as a temporary file to produce PNG", slog.String("png", cfg.Outputs.PngFile))
		} else {
			// default display: open the figure like a plot window
			cfg.Outputs.Show = true
		}
	}

	return nil
}

// compose parses the capture files passed as CLI args into a figure.
func (c *Command) compose(cfg *config.Config, args []string) (*model.Figure, error) {
	o := organizer.New(cfg)
	t0 := time.Now()

	figure, err := o.Compose(args...)
	if err != nil {
		return nil, err
	}

	c.L.Info("parsed input captures", slog.Duration("duration", time.Since(t0)))

	if c.Debug {
		spew.Fdump(os.Stderr, figure)
	}

	return figure, nil
}

// render writes the figure as HTML, optionally as a PNG screenshot, and
// optionally opens it in the system browser.
func (c *Command) render(cfg *config.Config, figure *model.Figure) error {
	// 1. build a page with the composed figure
	builder := chart.New(cfg, figure)
	page := builder.BuildPage()

	// 2. render the page as HTML, possibly to stdout, possibly to a temp file
	htmlWriter, htmlCloser, err := getWriter(cfg.Outputs.HTMLFile, "HTML")
	if err != nil {
		return err
	}

	if err := page.Render(htmlWriter); err != nil {
		htmlCloser()

		return fmt.Errorf("rendering page: %w", err)
	}

	htmlCloser()

	// 3. convert the HTML page to a PNG image
	if cfg.Outputs.PngFile != "" {
		if err := c.renderImage(cfg); err != nil {
			return err
		}
	}

	// 4. display the figure
	if cfg.Outputs.Show && cfg.Outputs.HTMLFile != "-" {
		c.L.Info("opening figure", slog.String("html", cfg.Outputs.HTMLFile))

		if err := browser.OpenFile(cfg.Outputs.HTMLFile); err != nil {
			return fmt.Errorf("opening browser: %w", err)
		}
	}

	return nil
}

// renderImage converts the rendered HTML file into a PNG screenshot.
func (c *Command) renderImage(cfg *config.Config) error {
	htmlReader, htmlCloser, err := getReader(cfg.Outputs.HTMLFile, "HTML")
	if err != nil {
		return err
	}
	defer htmlCloser()

	pngWriter, pngCloser, err := getWriter(cfg.Outputs.PngFile, "PNG")
	if err != nil {
		return err
	}
	defer pngCloser()

	r := image.New(
		image.WithHeight(cfg.Render.Screenshot.Height),
		image.WithWidth(cfg.Render.Screenshot.Width),
		image.WithScale(cfg.Render.Screenshot.Scale),
		image.WithSleep(cfg.Render.Screenshot.SleepDuration()),
	)

	if err = r.Render(pngWriter, htmlReader); err != nil {
		return fmt.Errorf("rendering image: %w", err)
	}

	return nil
}

// report produces a report that explores the content of the input captures.
func (*Command) report(figure *model.Figure) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", " ")

	return enc.Encode(organizer.Summarize(figure))
}

// record ingests a capture feed from standard input into a fresh capture
// run, then prints the run directory.
func (*Command) record(cfg *config.Config) error {
	rec, err := recorder.New(cfg)
	if err != nil {
		return fmt.Errorf("starting capture: %w", err)
	}

	if err := rec.Run(os.Stdin); err != nil {
		_ = rec.Close()

		return fmt.Errorf("recording capture: %w", err)
	}

	if err := rec.Close(); err != nil {
		return fmt.Errorf("closing capture: %w", err)
	}

	fmt.Println(rec.Dir())

	return nil
}

func (c *Command) dumpConfig(cfg *config.Config) {
	fmt.Fprintln(os.Stderr, "# effective configuration")

	if err := cfg.EncodeYAML(os.Stderr); err != nil {
		c.L.Warn("config dump failed", slog.String("error", err.Error()))
	}
}

func getReader(file, kind string) (rdr *os.File, cleanup func(), err error) {
	rdr, err = os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = rdr.Close()
	}

	return rdr, cleanup, nil
}

func getWriter(file, kind string) (wrt *os.File, cleanup func(), err error) {
	if file == "-" {
		return os.Stdout, func() {}, nil
	}

	wrt, err = os.Create(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file for writing: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = wrt.Close()
	}

	return wrt, cleanup, nil
}

func inferHTMLFile(base string) string {
	ext := path.Ext(base)
	stem, _ := strings.CutSuffix(base, ext)

	return stem + ".html"
}

func inferImageFile(base string) string {
	ext := path.Ext(base)
	stem, _ := strings.CutSuffix(base, ext)

	return stem + ".png"
}
