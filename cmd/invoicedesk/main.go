package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jask/invoicedesk/internal/api"
	"github.com/jask/invoicedesk/internal/config"
	"github.com/jask/invoicedesk/internal/database"
	"github.com/jask/invoicedesk/internal/database/repository"
	"github.com/jask/invoicedesk/internal/logger"
	"github.com/jask/invoicedesk/internal/mailer"
	"github.com/jask/invoicedesk/internal/printing"
	"github.com/jask/invoicedesk/internal/secrets"
	"github.com/jask/invoicedesk/internal/server"
	"github.com/jask/invoicedesk/internal/service"
	"github.com/jask/invoicedesk/internal/tui"
)

const usage = `usage: invoicedesk <command> [flags]

commands:
  console   terminal console (default)
  serve     run the REST backend
  migrate   apply database migrations and exit
  seed      insert demo company profiles, clients and products
  config    write the current configuration to the config file
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	cmd, args := "console", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "console":
		err = runConsole(ctx, cfg, args)
	case "serve":
		err = runServe(ctx, cfg, args)
	case "migrate":
		err = runMigrate(cfg)
	case "seed":
		err = runSeed(ctx, cfg, args)
	case "config":
		err = runConfig(cfg)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func runConsole(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("console", flag.ExitOnError)
	baseURL := fs.String("api", cfg.Console.BaseURL, "backend base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// the terminal belongs to the UI, so logs go to a file
	zl, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: "json", Output: cfg.Console.LogFile})
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	client, err := api.New(*baseURL, 2*time.Minute)
	if err != nil {
		return err
	}
	zl.Info("console starting", zap.String("api", client.BaseURL()))

	app := tui.New(ctx, client, tui.OptionsFromConfig(cfg.Console, zl))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func runServe(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Server.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	zl, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	box, err := secrets.LoadOrCreate(cfg.Secrets.KeyFile)
	if err != nil {
		return fmt.Errorf("secrets: %w", err)
	}
	renderer, closeRenderer, err := printing.New(cfg.PDF, zl)
	if err != nil {
		return fmt.Errorf("pdf renderer: %w", err)
	}
	defer closeRenderer()

	presets := repository.NewPresetRepo(db)
	accounts := repository.NewSMTPAccountRepo(db)
	clients := repository.NewClientRepo(db)
	products := repository.NewProductRepo(db)
	invoices := repository.NewInvoiceRepo(db)

	invoiceSvc := &service.InvoiceService{DB: db, Invoices: invoices, Clients: clients, Products: products, Renderer: renderer}
	svcs := server.Services{
		DB:       db,
		Presets:  &service.PresetService{Presets: presets},
		Clients:  &service.ClientService{Clients: clients},
		Products: &service.ProductService{DB: db, Products: products, Invoices: invoices},
		Invoices: invoiceSvc,
		Mail: &service.MailService{
			Accounts: accounts,
			Box:      box,
			Mailer:   mailer.New(cfg.SMTP, zl),
			Invoices: invoiceSvc,
			Currency: cfg.Console.CurrencySymbol,
			Logger:   zl,
		},
	}

	zl.Info("backend configured",
		zap.String("database", cfg.Database.Path),
		zap.String("pdf_engine", cfg.PDF.Engine),
		zap.String("smtp_host", cfg.SMTP.Host),
	)
	return server.Run(ctx, *addr, server.NewRouter(svcs, zl), zl)
}

func runMigrate(cfg config.Config) error {
	if err := migrate(cfg); err != nil {
		return err
	}
	fmt.Println("migrations applied to", cfg.Database.Path)
	return nil
}

func migrate(cfg config.Config) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}
	return database.RunMigrations(cfg.Database.Path)
}

func runSeed(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	reset := fs.Bool("reset", false, "wipe all data before seeding")
	seed := fs.Uint64("seed", 0, "random seed (0 picks one)")
	counts := service.DefaultSeedCounts
	fs.IntVar(&counts.Presets, "presets", counts.Presets, "company profiles to create")
	fs.IntVar(&counts.Clients, "clients", counts.Clients, "clients to create")
	fs.IntVar(&counts.Products, "products", counts.Products, "products to create")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if *reset {
		if err := (&service.MaintenanceService{DB: db}).Reset(ctx); err != nil {
			return err
		}
	}
	repos := service.SeedRepos{
		Presets:  repository.NewPresetRepo(db),
		Clients:  repository.NewClientRepo(db),
		Products: repository.NewProductRepo(db),
	}
	if err := service.Seed(ctx, repos, counts, *seed); err != nil {
		return err
	}
	fmt.Printf("seeded %d company profiles, %d clients, %d products\n", counts.Presets, counts.Clients, counts.Products)
	return nil
}

func runConfig(cfg config.Config) error {
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Println("configuration written")
	return nil
}

// openDatabase migrates then opens the sqlite file, creating its directory.
func openDatabase(cfg config.Config) (*sql.DB, error) {
	if err := migrate(cfg); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}
