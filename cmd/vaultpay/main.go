package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tolucodes/vaultpay/internal/api"
	"github.com/tolucodes/vaultpay/internal/config"
	"github.com/tolucodes/vaultpay/internal/lock"
	"github.com/tolucodes/vaultpay/internal/log"
	"github.com/tolucodes/vaultpay/internal/maplerad"
	"github.com/tolucodes/vaultpay/internal/records"
	"github.com/tolucodes/vaultpay/internal/storage"
	"github.com/tolucodes/vaultpay/internal/tui/watch"
	"github.com/tolucodes/vaultpay/internal/webhook"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "start":
		os.Exit(runStart(args))
	case "watch":
		os.Exit(runWatch(args))
	case "config":
		os.Exit(runConfig(args))
	case "version":
		fmt.Printf("vaultpay version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`vaultpay - Maplerad webhook verification and reconciliation service

Usage:
  vaultpay <command> [flags]

Commands:
  start         Start the webhook and ops servers in foreground
  watch         Real-time delivery monitoring TUI
  config lock   Authorize current config (update integrity hashes)
  config check  Validate config syntax and integrity
  version       Show version information
  help          Show this help message
`)
}

func runStart(args []string) int {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	configPath := fs.String("config", "vaultpay.yaml", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.Service.LogLevel)
	logger := log.WithComponent("main")
	logger.Info("vaultpay starting", "version", version, "config", *configPath)

	pidLock, err := lock.Acquire(lock.PathFor(cfg.Storage.Path))
	if err != nil {
		logger.Error("failed to acquire instance lock", "error", err)
		return 1
	}
	defer pidLock.Release()
	logger.Info("acquired instance lock", "path", pidLock.Path())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := storage.OpenSQLite(ctx, cfg.Storage.Path)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Storage.Path, "error", err)
		return 1
	}
	defer db.Close()
	logger.Info("database opened", "path", cfg.Storage.Path)

	cards := records.NewCardStore(db)
	accounts := records.NewAccountStore(db)
	transactions := records.NewTransactionStore(db)
	deliveries := records.NewDeliveryLog(db)

	provider := maplerad.New(maplerad.Config{
		BaseURL:   cfg.Provider.BaseURL,
		SecretKey: cfg.Provider.SecretKey,
		Timeout:   cfg.Provider.Timeout,
	}, log.WithComponent("maplerad"))

	reconciler := webhook.NewReconciler(provider, cards, accounts, transactions, log.WithComponent("reconcile"))

	webhookServer := webhook.New(webhook.Config{
		Listen:      cfg.Webhook.Listen,
		Path:        cfg.Webhook.Path,
		Secret:      cfg.Webhook.Secret,
		MaxBodySize: cfg.Webhook.MaxBodySize,
		MaxSkew:     cfg.Webhook.MaxSkew,
	}, reconciler, deliveries, log.WithComponent("webhook"))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 2)

	go func() {
		if err := webhookServer.Start(ctx); err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("webhook: %w", err)
		}
	}()

	if cfg.API.Enabled {
		apiServer := api.New(api.Config{
			Listen: cfg.API.Listen,
			APIKey: cfg.API.APIKey,
		}, deliveries, log.WithComponent("api"))
		go func() {
			if err := apiServer.Start(ctx); err != nil && err != context.Canceled {
				errCh <- fmt.Errorf("api: %w", err)
			}
		}()
		logger.Info("API server enabled", "listen", cfg.API.Listen)
	}

	logger.Info("vaultpay running (press Ctrl+C to stop)")

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	case err := <-errCh:
		logger.Error("component failed", "error", err)
		cancel()
		return 1
	}

	logger.Info("vaultpay stopped")
	return 0
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	apiURL := fs.String("api-url", "http://localhost:8081", "Ops API URL")
	apiKey := fs.String("api-key", os.Getenv("VAULTPAY_API_KEY"), "API bearer key")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	if *apiKey == "" {
		fmt.Fprintln(os.Stderr, "Error: API key required. Use --api-key or VAULTPAY_API_KEY env var.")
		return 1
	}

	m := watch.New(*apiURL, *apiKey)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: vaultpay config <lock|check> [flags]")
		return 1
	}

	action := args[0]
	fs := flag.NewFlagSet("config "+action, flag.ExitOnError)
	configPath := fs.String("config", "vaultpay.yaml", "Path to configuration file")
	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	switch action {
	case "lock":
		dir := filepath.Dir(*configPath)
		if err := config.GenerateChecksums(dir, []string{filepath.Base(*configPath)}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate checksums: %v\n", err)
			return 1
		}
		fmt.Printf("Locked %s\n", *configPath)
		return 0
	case "check":
		if _, err := config.Load(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Config check failed: %v\n", err)
			return 1
		}
		fmt.Printf("Config OK: %s\n", *configPath)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", action)
		return 1
	}
}
