package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"

	"github.com/octobees/localfinds/internal/config"
	"github.com/octobees/localfinds/internal/database"
	"github.com/octobees/localfinds/internal/enrich"
	"github.com/octobees/localfinds/internal/gemini"
	"github.com/octobees/localfinds/internal/ingest/legacy"
	"github.com/octobees/localfinds/internal/ingest/osm"
	"github.com/octobees/localfinds/internal/logger"
	"github.com/octobees/localfinds/internal/repository"
	"github.com/octobees/localfinds/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()
	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	m.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program. Fields left nil are built from configuration in Run.
type Main struct {
	Config     *config.Config
	Logger     *slog.Logger
	Businesses repository.BusinessWriter
	Cleaner    *service.ContactCleaner
	Migrate    func(dsn string) error
	Overpass   osm.Fetcher
	Contacts   legacy.ContactSource
	Summarizer enrich.Summarizer

	pool *pgxpool.Pool
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases the database pool opened by Run.
func (m *Main) Close() {
	if m.pool != nil {
		m.pool.Close()
		m.pool = nil
	}
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
		kong.Name("localfinds"),
		kong.Description("Offline maintenance for the local business directory."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'localfinds --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if err := m.wire(ctx, commandName(kongCtx.Command()), deps, stderr); err != nil {
		return err
	}

	return kongCtx.Run()
}

func (m *Main) wire(ctx context.Context, cmd string, deps *Dependencies, stderr io.Writer) error {
	if m.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: set DATABASE_URL in the environment or a .env file")
			return err
		}
		m.Config = cfg
	}
	if m.Logger == nil {
		m.Logger = logger.New(stderr, m.Config.AppEnv)
	}
	if m.Migrate == nil {
		log := m.Logger
		m.Migrate = func(dsn string) error { return database.Migrate(dsn, log) }
	}
	if m.Cleaner == nil {
		m.Cleaner = service.NewContactCleaner(m.Config.PhoneRegion)
	}

	deps.Config = m.Config
	deps.Logger = m.Logger
	deps.Migrate = m.Migrate
	deps.Cleaner = m.Cleaner

	if cmd == "migrate" {
		return nil
	}

	if m.Businesses == nil {
		pool, err := database.Connect(ctx, m.Config.DatabaseURL)
		if err != nil {
			return err
		}
		m.pool = pool
		m.Businesses = repository.NewPGXBusinessesRepository(pool)
	}
	deps.Businesses = m.Businesses

	switch cmd {
	case "ingest-osm":
		if m.Overpass == nil {
			m.Overpass = osm.NewClient(nil, m.Config.OverpassURL)
		}
		deps.Overpass = m.Overpass
	case "seed-legacy":
		if m.Contacts == nil {
			client, err := legacy.NewClient(nil, m.Config.LegacyContactsURL, m.Config.LegacyContactsKey)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: set LEGACY_CONTACTS_URL and LEGACY_CONTACTS_KEY")
				return err
			}
			m.Contacts = client
		}
		deps.Contacts = m.Contacts
	case "enrich":
		if m.Summarizer == nil {
			client, err := gemini.NewClient(ctx, m.Config.GeminiAPIKey)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: set GEMINI_API_KEY to enable enrichment")
				return err
			}
			m.Summarizer = gemini.NewSummarizer(gemini.ModelsGenerator{Client: client}, m.Config.GeminiModel)
		}
		deps.Summarizer = m.Summarizer
	}
	return nil
}

// commandName strips positional placeholders from a kong command path.
func commandName(path string) string {
	fields := strings.Fields(path)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
