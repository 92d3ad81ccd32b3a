package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/cardwatch/cardwatch/internal/api"
	"github.com/cardwatch/cardwatch/internal/config"
	"github.com/cardwatch/cardwatch/internal/database"
	"github.com/cardwatch/cardwatch/internal/models"
	"github.com/cardwatch/cardwatch/internal/services"
	"github.com/cardwatch/cardwatch/internal/store"
)

// app bundles the wired components shared by every subcommand.
type app struct {
	cfg       *config.Config
	watchlist store.WatchlistStore
	prices    store.PriceStore
	checker   *services.Checker
	notifier  *services.WebhookNotifier
	cardDB    *services.CardDatabaseService
	archive   *services.SnapshotService
}

func main() {
	// Missing .env is fine; secrets can come from the real environment.
	_ = godotenv.Load()

	configPath := os.Getenv("CARDWATCH_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	a := buildApp(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	command := ""
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "", "check":
		a.runCheck(ctx)
	case "add":
		a.runAdd(args[1:])
	case "remove":
		a.runRemove(args[1:])
	case "list":
		a.runList()
	case "update":
		a.runUpdate(args[1:])
	case "history":
		a.runHistory(args[1:])
	case "prices":
		a.runPrices()
	case "search":
		a.runSearch(ctx, args[1:])
	case "watch":
		a.runWatch(ctx)
	case "serve":
		a.runServe(ctx)
	case "export":
		a.runExport(args[1:])
	case "shell":
		a.runShell(ctx)
	case "webhook-test":
		if err := a.notifier.TestConnection(ctx); err != nil {
			log.Printf("Webhook test failed: %v", err)
		} else {
			fmt.Println("Webhook connection successful")
		}
	default:
		usage()
	}
}

func buildApp(cfg *config.Config) *app {
	var archive *services.SnapshotService
	if path := cfg.ArchivePath(); path != "" {
		if err := database.Initialize(path); err != nil {
			log.Printf("Price archive unavailable: %v", err)
		} else {
			archive = services.NewSnapshotService()
		}
	}

	watchlist := store.NewFileWatchlistStore(cfg.WatchlistPath())
	prices := store.NewFilePriceStore(cfg.PricesPath())

	var source services.ListingSource
	switch cfg.Source.Provider {
	case "ebay":
		source = services.NewEbayListingSource(os.Getenv("EBAY_API_TOKEN"), cfg.UpstreamTimeout())
	default:
		source = services.NewMockListingSource()
	}

	return &app{
		cfg:       cfg,
		watchlist: watchlist,
		prices:    prices,
		checker:   services.NewChecker(watchlist, prices, source, archive),
		notifier:  services.NewWebhookNotifier(os.Getenv("DISCORD_WEBHOOK_URL")),
		cardDB:    services.NewCardDatabaseService(),
		archive:   archive,
	}
}

func setupLogging(cfg *config.Config) {
	if cfg.Logging.File == "" {
		return
	}
	fileLogger := &lumberjack.Logger{
		Filename:   cfg.Logging.File,
		MaxSize:    cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, fileLogger))
}

// runCheck runs one full check-and-alert pass. Handled per-card failures
// are reported and still exit 0.
func (a *app) runCheck(ctx context.Context) {
	fmt.Println("Checking prices...")

	results, err := a.checker.Run(ctx)
	if err != nil {
		log.Fatalf("Check pass failed: %v", err)
	}

	alerts := services.Alerts(results)
	if len(alerts) == 0 {
		fmt.Println("No deals found today. Keep watching!")
		return
	}

	fmt.Printf("\nDEALS FOUND: %d\n\n", len(alerts))
	for _, alert := range alerts {
		fmt.Println(services.FormatAlert(alert))
		fmt.Println("\n==================================================")
	}

	a.notifier.Dispatch(ctx, alerts)
}

func (a *app) runAdd(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: cardwatch add <card> [maxPrice]")
		return
	}
	card := args[0]
	maxPrice := 100.0
	if len(args) > 1 {
		if v, err := strconv.ParseFloat(args[1], 64); err == nil && v > 0 {
			maxPrice = v
		}
	}

	if err := store.AddToWatchlist(a.watchlist, card, maxPrice); err != nil {
		log.Fatalf("Failed to add to watchlist: %v", err)
	}
	fmt.Printf("Added %q with max price $%.2f\n", card, maxPrice)
}

func (a *app) runRemove(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: cardwatch remove <card>")
		return
	}

	removed, err := store.RemoveFromWatchlist(a.watchlist, args[0])
	if err != nil {
		log.Fatalf("Failed to remove from watchlist: %v", err)
	}
	if removed == nil {
		fmt.Printf("%q not found in watchlist\n", args[0])
		return
	}
	fmt.Printf("Removed %q from watchlist\n", removed.Card)
}

func (a *app) runList() {
	wf, err := a.watchlist.Load()
	if err != nil {
		log.Fatalf("Failed to load watchlist: %v", err)
	}

	fmt.Println("\nWatchlist:")
	for i, item := range wf.Watchlist {
		fmt.Printf("  %d. %s - Max: $%.2f\n", i+1, item.Card, item.MaxPrice)
	}
	fmt.Println()
}

func (a *app) runUpdate(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: cardwatch update <card> <price> [listings]")
		return
	}
	price, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fmt.Printf("invalid price %q\n", args[1])
		return
	}
	listings := 1
	if len(args) > 2 {
		if v, err := strconv.Atoi(args[2]); err == nil {
			listings = v
		}
	}

	if err := store.UpdatePrice(a.prices, args[0], price, listings); err != nil {
		log.Fatalf("Failed to update price: %v", err)
	}
	fmt.Printf("Updated %s: $%.2f (%d listings)\n", args[0], price, listings)

	if a.archive != nil {
		if err := a.archive.Record(args[0], price, listings); err != nil {
			log.Printf("Failed to archive price: %v", err)
		}
	}
}

func (a *app) runHistory(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: cardwatch history <card>")
		return
	}
	card := args[0]

	history, err := store.PriceHistoryFor(a.prices, card)
	if err != nil {
		log.Fatalf("Failed to load price history: %v", err)
	}

	fmt.Printf("\n%s history:\n", card)
	for _, entry := range history {
		fmt.Printf("  %s: $%.2f (%d listings)\n", entry.Date, entry.Price, entry.Listings)
	}
	if a.archive != nil {
		if depth, err := a.archive.Depth(card); err == nil && depth > int64(len(history)) {
			fmt.Printf("  (%d older entries in archive)\n", depth-int64(len(history)))
		}
	}
	fmt.Println()
}

func (a *app) runPrices() {
	ph, err := a.prices.Load()
	if err != nil {
		log.Fatalf("Failed to load price history: %v", err)
	}

	fmt.Println("\nPrice History:")
	for card, rec := range ph {
		fmt.Printf("  %s: $%.2f (%d entries)\n", card, rec.Current, len(rec.History))
	}
	fmt.Println()
}

func (a *app) runSearch(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: cardwatch search <card name>")
		return
	}

	results, err := a.cardDB.SearchWithPrices(ctx, args[0])
	if err != nil {
		log.Printf("Card search failed: %v", err)
		return
	}
	if len(results) == 0 {
		fmt.Println("No cards found.")
		return
	}
	for i, result := range results {
		fmt.Println(services.FormatCardSummary(result, i))
	}
}

// runWatch runs check passes on the interval from the watchlist file until
// interrupted. Passes are strictly sequential.
func (a *app) runWatch(ctx context.Context) {
	wf, err := a.watchlist.Load()
	if err != nil {
		log.Fatalf("Failed to load watchlist: %v", err)
	}

	interval, err := time.ParseDuration(wf.CheckInterval)
	if err != nil || interval <= 0 {
		log.Printf("Invalid check interval %q, using default %s", wf.CheckInterval, models.DefaultCheckInterval)
		interval, _ = time.ParseDuration(models.DefaultCheckInterval)
	}

	log.Printf("Watching %d cards every %v", len(wf.Watchlist), interval)
	a.runCheck(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Watch stopping...")
			return
		case <-ticker.C:
			a.runCheck(ctx)
		}
	}
}

// runServe exposes the HTTP API and metrics until interrupted.
func (a *app) runServe(ctx context.Context) {
	router := api.SetupRouter(a.watchlist, a.prices, a.checker, a.notifier, a.archive, a.cardDB, a.cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:    a.cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on %s", a.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

func (a *app) runExport(args []string) {
	path := "cardwatch-report.xlsx"
	if len(args) > 0 {
		path = args[0]
	}

	wf, err := a.watchlist.Load()
	if err != nil {
		log.Fatalf("Failed to load watchlist: %v", err)
	}
	ph, err := a.prices.Load()
	if err != nil {
		log.Fatalf("Failed to load price history: %v", err)
	}

	if err := services.ExportReport(path, wf, ph); err != nil {
		log.Fatalf("Failed to export report: %v", err)
	}
	fmt.Printf("Report written to %s\n", path)
}

func usage() {
	fmt.Println(`cardwatch - trading-card price watcher

usage: cardwatch [command]

  (no command)              run a check-and-alert pass
  add <card> [maxPrice]     add a card to the watchlist
  remove <card>             remove a card from the watchlist
  list                      show the watchlist
  update <card> <price> [listings]
                            record a price observation manually
  history <card>            show a card's price history
  prices                    show current prices for all tracked cards
  search <card name>        search the card database
  watch                     check on the configured interval
  serve                     run the HTTP API
  export [path]             write an xlsx report
  shell                     interactive menu
  webhook-test              send a test webhook message`)
}
