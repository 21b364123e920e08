package main

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/olxgpu"
	"github.com/fwojciec/olxgpu/config"
	"github.com/fwojciec/olxgpu/crawl"
	"github.com/fwojciec/olxgpu/csv"
	"github.com/fwojciec/olxgpu/goquery"
	olxhttp "github.com/fwojciec/olxgpu/http"
	"github.com/fwojciec/olxgpu/postgres"
	"github.com/fwojciec/olxgpu/resolve"
	olxslog "github.com/fwojciec/olxgpu/slog"
	"github.com/fwojciec/olxgpu/sqlite"
)

//go:embed gpus.csv
var defaultCatalog []byte

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Config file path. Set before calling Run().
	ConfigPath string

	// Now returns the current time. Used for export file names.
	Now func() time.Time

	// Stdin feeds commands that read input lines.
	Stdin io.Reader

	// Storage closers, set while a command runs.
	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:     defaultDBPath(),
		ConfigPath: config.Path(),
		Now:        time.Now,
		Stdin:      os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Stdin:  m.Stdin,
		Now:    m.Now,
	}

	resolver, err := config.Load(m.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to read config %q: %w", m.ConfigPath, err)
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("olxgpu"),
		kong.Description("Scrape graphics card listings from OLX.pl and resolve them to GPU models."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Resolvers(resolver),
		kong.Vars(vars()),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'olxgpu --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	command := kongCtx.Selected().Name

	deps.Config = cli.Config()
	if command == "scrape" {
		if err := deps.Config.Validate(); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", olxgpu.ErrorMessage(err))
			return err
		}
	}

	if command == "scrape" || command == "resolve" {
		catalog, err := loadCatalog(deps.Config.CatalogPath)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: the catalog is a CSV file with a \"Model\" column")
			return err
		}
		deps.Resolver = resolve.NewResolver(catalog)
	}

	needStore := command == "runs" ||
		(command == "scrape" && !cli.Scrape.NoStore) ||
		(command == "stats" && cli.Stats.Input == "")
	if needStore {
		if err := m.openStore(ctx, cli, deps); err != nil {
			return err
		}
	}

	if command == "scrape" {
		transport := olxhttp.NewFetcher(olxhttp.WithTimeout(cli.Scrape.Timeout))
		fetcher := crawl.NewPoliteFetcher(olxslog.NewLoggingFetcher(transport, deps.Logger), deps.Config)
		fetcher.Logger = func(format string, args ...any) {
			deps.Logger.Debug(fmt.Sprintf(format, args...))
		}
		defer fetcher.Close()

		deps.Crawler = crawl.NewCrawler(deps.Config,
			fetcher,
			goquery.NewPageParser(),
			goquery.NewOfferParser(),
			olxslog.NewLoggingResolver(deps.Resolver, deps.Logger),
		)
	}

	return kongCtx.Run(deps)
}

// openStore connects the run and listing services to PostgreSQL when a DSN
// is configured and to SQLite otherwise.
func (m *Main) openStore(ctx context.Context, cli *CLI, deps *Dependencies) error {
	if cli.Postgres != "" {
		db := postgres.NewDB(cli.Postgres)
		if err := db.Open(ctx); err != nil {
			return fmt.Errorf("failed to open postgres database: %w", err)
		}
		m.closers = append(m.closers, db)
		deps.Runs = postgres.NewRunService(db)
		deps.Listings = postgres.NewListingService(db)
		return nil
	}

	path := m.DBPath
	if cli.DB != "" {
		path = cli.DB
	}
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set OLXGPU_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.closers = append(m.closers, db)
	deps.Runs = sqlite.NewRunService(db)
	deps.Listings = sqlite.NewListingService(db)
	return nil
}

// loadCatalog reads the catalog at path, or the built-in one when path is empty.
func loadCatalog(path string) (*olxgpu.Catalog, error) {
	if path == "" {
		return csv.ReadCatalog(bytes.NewReader(defaultCatalog), "built-in catalog")
	}
	return csv.LoadCatalog(path)
}

func defaultDBPath() string {
	if path := os.Getenv("OLXGPU_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "olxgpu.db"
	}
	dir := filepath.Join(home, ".olxgpu")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "olxgpu.db")
}
