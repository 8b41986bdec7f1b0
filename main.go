package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/statement-parser/internal/api"
	"github.com/insightdelivered/statement-parser/internal/config"
	"github.com/insightdelivered/statement-parser/internal/extractor"
	"github.com/insightdelivered/statement-parser/internal/logging"
	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/parser"
	"github.com/insightdelivered/statement-parser/internal/writer"
	"github.com/insightdelivered/statement-parser/internal/writer/postgres"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fatalf("Invalid configuration: %v\n", err)
	}

	// CLI flags
	passwordFlag := flag.String("password", "", "Password of the statement PDF(s)")
	formatFlag := flag.String("format", "csv", "Output format: csv or json")
	outputFlag := flag.String("output", "", "Output file path (only with a single input; defaults to input name with .csv/.json)")
	headerFlag := flag.Bool("header", true, "Include card metadata rows in CSV output")
	workersFlag := flag.Int("workers", cfg.Workers, "Number of PDFs parsed concurrently")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of converting files")
	addrFlag := flag.String("addr", cfg.Addr, "Listen address for --serve")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Credit Card Statement Parser

Extracts card details, credit limit and the transaction ledger from
password-protected credit card statement PDFs.

Usage:
  statement-parser [flags] <statement.pdf> [statement2.pdf ...]
  statement-parser --serve [--addr :8000]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert one statement to CSV
  statement-parser --password=SECRET1234 statement.pdf

  # JSON output to a chosen path
  statement-parser --password=SECRET1234 --format=json --output=oct.json statement.pdf

  # Run the HTTP API
  statement-parser --serve --addr=:8080

Environment:
  PARSER_ADDR, PARSER_LOG_LEVEL, PARSER_LOG_JSON, PARSER_MAX_UPLOAD_MB,
  PARSER_X_TOLERANCE, PARSER_WORKERS, PARSER_POSTGRES_DSN (also read from .env)
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-parser v%s\n", version)
		os.Exit(0)
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})

	p := parser.New(extractor.NewPDFLoader(), parser.Options{
		XTolerance: cfg.XTolerance,
		Logger:     &log,
	})

	if *serveFlag {
		if err := serve(cfg, *addrFlag, p, log); err != nil {
			fatalf("Server error: %v\n", err)
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	inputFiles := flag.Args()
	if *outputFlag != "" && len(inputFiles) > 1 {
		fatalf("--output can only be used with a single input file\n")
	}
	if *workersFlag <= 0 {
		fatalf("--workers must be positive\n")
	}

	w, err := writer.New(*formatFlag, *headerFlag)
	if err != nil {
		fatalf("%v\n", err)
	}

	// Each file is an independent parse; they share only the parser.
	var g errgroup.Group
	g.SetLimit(*workersFlag)
	for _, inputPath := range inputFiles {
		inputPath := inputPath // per-iteration copy (go directive is 1.21)
		g.Go(func() error {
			if err := processFile(p, w, inputPath, *passwordFlag, *outputFlag); err != nil {
				return fmt.Errorf("%s: %w", inputPath, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error processing %v\n", err)
		os.Exit(1)
	}
}

func processFile(p parser.Parser, w writer.Writer, inputPath, password, outputPath string) error {
	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	result, err := p.Parse(data, password)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + w.Ext()
	}
	if err := w.WriteToFile(outPath, result); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}

	printSummary(inputPath, outPath, result)
	return nil
}

// printSummary writes the whole summary in one call so that concurrent
// workers do not interleave their lines.
func printSummary(inputPath, outPath string, result *models.StatementResult) {
	var b strings.Builder
	fmt.Fprintf(&b, "Processed: %s\n", inputPath)
	fmt.Fprintf(&b, "  Found %d transaction(s)\n", len(result.Transactions))
	if len(result.Transactions) == 0 {
		b.WriteString("  Warning: No transactions found. The statement layout may not match expected patterns.\n")
	}
	if result.CardName != nil {
		fmt.Fprintf(&b, "  Card: %s\n", *result.CardName)
	}
	if result.CardLast4Digits != nil {
		fmt.Fprintf(&b, "  Card number: XXXX %s\n", *result.CardLast4Digits)
	}
	if result.NameOnCard != nil {
		fmt.Fprintf(&b, "  Name on card: %s\n", *result.NameOnCard)
	}
	if result.CreditLimit != nil {
		fmt.Fprintf(&b, "  Credit limit: %s\n", result.CreditLimit.StringFixed(2))
	}
	debits, credits := result.Totals()
	fmt.Fprintf(&b, "  Debits: %s  Credits: %s\n", debits.StringFixed(2), credits.StringFixed(2))
	fmt.Fprintf(&b, "  Output: %s\n", outPath)
	fmt.Print(b.String())
}

func serve(cfg config.Config, addr string, p parser.Parser, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := &api.Handler{Parser: p, Log: log}
	if cfg.PostgresDSN != "" {
		store, err := postgres.New(ctx, cfg.PostgresDSN, log)
		if err != nil {
			return fmt.Errorf("connecting to PostgreSQL: %w", err)
		}
		defer store.Close()
		h.Store = store
	}

	app := api.NewApp(h, cfg.MaxUploadMB)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		return app.Shutdown()
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
