package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/digitalcorenz/web2md"
	"github.com/digitalcorenz/web2md/fs"
	"github.com/digitalcorenz/web2md/goquery"
	"github.com/digitalcorenz/web2md/htmltomarkdown"
	web2mdhttp "github.com/digitalcorenz/web2md/http"
	"github.com/digitalcorenz/web2md/mathml"
	"github.com/digitalcorenz/web2md/pipeline"
	"github.com/digitalcorenz/web2md/rod"
	w2mslog "github.com/digitalcorenz/web2md/slog"
	"github.com/mattn/go-isatty"
)

// Version is set at build time.
var Version = "v0.3.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var appErr *web2md.Error
		if errors.As(err, &appErr) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", web2md.ErrorMessage(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin feeds the interactive shell.
	Stdin io.Reader

	// Getenv looks up environment variables.
	Getenv func(string) string

	// Fetcher replaces the HTTP and browser transports when set.
	// Used for end-to-end testing.
	Fetcher web2md.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin:  os.Stdin,
		Getenv: os.Getenv,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:      ctx,
		Stdin:    m.Stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		Terminal: isTerminal(stdout),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("web2md"),
		kong.Description("Download webpages and convert them to Markdown."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Kong prints help but keeps going with exit disabled, so stop here.
	if len(args) > 0 && args[0] == "help" {
		args = []string{"--help"}
	}
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			_, _ = parser.Parse(args)
			return nil
		}
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(ConfigPath(cli.Config, m.Getenv))
	if err != nil {
		return err
	}
	cli.applyGlobals(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	deps.Config = cfg

	deps.Logger = newLogger(cli.Verbose, m.Getenv("WEB2MD_LOG_LEVEL"), stderr)
	deps.Files = fs.NewFileService(cfg.Dir)

	p := &pipeline.Pipeline{
		Extractor: w2mslog.NewLoggingExtractor(goquery.NewExtractor(), deps.Logger),
		Converter: w2mslog.NewLoggingConverter(htmltomarkdown.NewConverter(), deps.Logger),
		Rewriter:  w2mslog.NewLoggingRewriter(mathml.NewRewriter(), deps.Logger),
		Files:     deps.Files,
	}

	if !strings.HasPrefix(kongCtx.Command(), "process") {
		fetcher, err := m.newFetcher(cfg, stderr)
		if err != nil {
			return err
		}
		defer fetcher.Close()
		p.Fetcher = w2mslog.NewLoggingFetcher(fetcher, deps.Logger)
	}
	deps.Pipeline = p

	return kongCtx.Run(deps)
}

func (m *Main) newFetcher(cfg *Config, stderr io.Writer) (web2md.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}

	if cfg.Render {
		opts := []rod.Option{
			rod.WithUserAgent(cfg.UserAgent),
			rod.WithHeaders(cfg.Headers),
		}
		if cfg.Timeout > 0 {
			opts = append(opts, rod.WithFetchTimeout(cfg.Timeout))
		}
		fetcher, err := rod.NewFetcher(opts...)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
			return nil, err
		}
		return fetcher, nil
	}

	opts := []web2mdhttp.Option{
		web2mdhttp.WithUserAgent(cfg.UserAgent),
		web2mdhttp.WithHeaders(cfg.Headers),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, web2mdhttp.WithTimeout(cfg.Timeout))
	}
	return web2mdhttp.NewFetcher(opts...), nil
}

// applyGlobals overrides config file values with global flags that are set.
func (cli *CLI) applyGlobals(cfg *Config) {
	if cli.Render {
		cfg.Render = true
	}
	if cli.Timeout != 0 {
		cfg.Timeout = cli.Timeout
	}
	if cli.UserAgent != "" {
		cfg.UserAgent = cli.UserAgent
	}
	if len(cli.Header) > 0 {
		headers := make(map[string]string, len(cfg.Headers)+len(cli.Header))
		for k, v := range cfg.Headers {
			headers[k] = v
		}
		for k, v := range cli.Header {
			headers[k] = v
		}
		cfg.Headers = headers
	}
	if cli.Dir != "" {
		cfg.Dir = cli.Dir
	}
}

// selectors returns the flag selectors, falling back to the config file.
// A nil result selects web2md.DefaultSelectors.
func (c *Config) selectors(flags []string) []string {
	if len(flags) > 0 {
		return flags
	}
	return c.Selectors
}

// newLogger logs to stderr at info level when verbose is set, or at the
// named level. Otherwise logs are discarded.
func newLogger(verbose bool, level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch {
	case verbose:
		lvl = slog.LevelInfo
	case level != "":
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl = slog.LevelInfo
		}
	default:
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
