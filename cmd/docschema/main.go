package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docschema"
	"github.com/fwojciec/docschema/crawl"
	"github.com/fwojciec/docschema/dns"
	"github.com/fwojciec/docschema/fs"
	"github.com/fwojciec/docschema/goquery"
	dshttp "github.com/fwojciec/docschema/http"
	"github.com/fwojciec/docschema/readability"
	dsslog "github.com/fwojciec/docschema/slog"
	"github.com/fwojciec/docschema/sqlite"
	"github.com/fwojciec/docschema/toml"
	"github.com/fwojciec/docschema/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RecordService docschema.RecordService
	Fetcher       docschema.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docschema"),
		kong.Description("Map web documents to search index records"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docschema --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := toml.Load(cli.ConfigFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", docschema.ErrorMessage(err))
		return err
	}
	if cli.DB != "" {
		cfg.DB = cli.DB
	}
	if cli.Fields != "" {
		cfg.FieldsFile = cli.Fields
	}
	deps.Config = cfg

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps.Fields = docschema.NewFieldSetHolder(nil)
	if cfg.FieldsFile != "" {
		set, err := fs.LoadFieldSet(cfg.FieldsFile)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", docschema.ErrorMessage(err))
			return err
		}
		deps.Fields.Store(set)
	}

	switch cmd {
	case "index", "show", "list", "delete":
		if m.RecordService == nil {
			m.DB = sqlite.NewDB(cfg.DB)
			if err := m.DB.Open(); err != nil {
				fmt.Fprintf(stderr, "Hint: Set DOCSCHEMA_DB to use a different database path\n")
				return fmt.Errorf("failed to open database at %q: %w", cfg.DB, err)
			}
			defer m.Close()
			m.RecordService = sqlite.NewRecordService(m.DB)
		}
		deps.Records = dsslog.NewLoggingRecordService(m.RecordService, logger)
	}

	if cmd == "map" || cmd == "index" {
		indexer, err := m.newIndexer(cfg, deps.Fields, logger, cli.Extractor)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", docschema.ErrorMessage(err))
			return err
		}
		defer indexer.Fetcher.Close()
		deps.Indexer = indexer
	}

	if cmd == "index" && cfg.Watch && cfg.FieldsFile != "" {
		watcher := fs.NewFieldSetWatcher(cfg.FieldsFile, deps.Fields,
			fs.WithReloadHook(dsslog.FieldSetReloadLogger(logger)))
		if err := watcher.Open(); err != nil {
			return fmt.Errorf("failed to watch %q: %w", cfg.FieldsFile, err)
		}
		defer watcher.Close()

		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() { _ = watcher.Run(watchCtx) }()
	}

	return kongCtx.Run(deps)
}

// newIndexer wires the fetch, parse and map pipeline from cfg.
func (m *Main) newIndexer(cfg *toml.Config, fields *docschema.FieldSetHolder, logger *slog.Logger, extractor string) (*crawl.Indexer, error) {
	models, err := cfg.EvaluationModels()
	if err != nil {
		return nil, err
	}

	fetcher := m.Fetcher
	if fetcher == nil {
		opts := []dshttp.Option{dshttp.WithTimeout(time.Duration(cfg.Crawl.Timeout))}
		if cfg.Crawl.UserAgent != "" {
			opts = append(opts, dshttp.WithUserAgent(cfg.Crawl.UserAgent))
		}
		fetcher = dshttp.NewFetcher(opts...)
	}

	ix := &crawl.Indexer{
		Fetcher:     dsslog.NewLoggingFetcher(fetcher, logger),
		Parser:      goquery.NewParser(goquery.WithEvaluationModels(models...)),
		Fields:      fields,
		Resolver:    dsslog.NewLoggingResolver(dns.NewResolver(), logger),
		RateLimiter: crawl.NewDomainLimiter(cfg.Crawl.Rate),
		Concurrency: cfg.Crawl.Concurrency,
		RetryDelays: retryDelays(cfg.Crawl.Retries),
		Logger: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	}

	switch extractor {
	case "trafilatura":
		ix.Extractor = trafilatura.NewExtractor()
	case "readability":
		ix.Extractor = readability.NewExtractor()
	}
	return ix, nil
}

// retryDelays returns n backoff delays doubling from one second.
func retryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, n)
	d := time.Second
	for range n {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}
