package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/docuparse/invoice-extract/internal/async"
	"github.com/docuparse/invoice-extract/internal/common"
	"github.com/docuparse/invoice-extract/internal/export"
	"github.com/docuparse/invoice-extract/internal/extract"
	"github.com/docuparse/invoice-extract/internal/ingest"
	"github.com/docuparse/invoice-extract/internal/ocr"
	"github.com/docuparse/invoice-extract/internal/pipeline"
	"github.com/docuparse/invoice-extract/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := common.LoadConfig()

	fs := ff.NewFlagSet("invoice-batch")
	var (
		dir        = fs.StringLong("dir", "", "directory of invoice images to process (required)")
		dbPath     = fs.StringLong("db", cfg.Database.Path, "SQLite database path")
		out        = fs.StringLong("out", "", "output XLSX path (defaults to <dir parent>/invoices.xlsx)")
		workers    = fs.IntLong("workers", cfg.Batch.Workers, "concurrent OCR workers")
		queueSize  = fs.IntLong("queue-size", cfg.Batch.QueueSize, "job queue capacity")
		timeout    = fs.DurationLong("timeout", cfg.Batch.ProcessTimeout, "per-file processing timeout")
		hidden     = fs.BoolLong("include-hidden", "also process hidden files and directories")
		verbose    = fs.BoolLong("verbose", "debug logging")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("INVOICE"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *dir == "" {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: --dir is required")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "invoices.xlsx")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, *dbPath, logger)
	if err != nil {
		logger.Error("failed to open database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)
	invoices := repository.NewInvoiceRepository(db, logger)

	session := ocr.NewSession(ocr.Config{
		Tesseract: cfg.OCR.Tesseract,
		Language:  cfg.OCR.Language,
		PSM:       cfg.OCR.PSM,
		Enhance:   cfg.OCR.Enhance,
		WorkDir:   cfg.OCR.WorkDir,
	}, logger)
	defer session.Close()

	extractor := extract.NewExtractor(extract.DefaultConfig(), logger)
	proc := pipeline.NewProcessor(logger, session, extractor, invoices)

	queue := async.NewProcessorQueue(proc, logger,
		async.WithWorkers(*workers),
		async.WithQueueSize(*queueSize),
		async.WithProcessTimeout(*timeout),
	)

	logger.Info("scanning directory", "dir", *dir)
	paths, stats, err := ingest.CollectFiles(*dir, nil, !*hidden)
	if err != nil {
		logger.Error("failed to scan directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("scan complete",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"failed", stats.Failed,
	)

	for _, p := range paths {
		if err := queue.Enqueue(ctx, async.Job{Path: p, SubmittedAt: time.Now()}); err != nil {
			logger.Error("enqueue failed", "path", p, "error", err)
		}
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), time.Duration(len(paths)+1) * *timeout)
	defer cancel()
	queue.Shutdown(drainCtx)

	svc := export.NewService(invoices, logger)
	xb, err := svc.ExportInvoicesXLSX(context.Background(), nil, nil)
	if err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xb, 0o644); err != nil {
		logger.Error("failed to write workbook", "path", *out, "error", err)
		os.Exit(1)
	}

	logger.Info("batch complete", "files", len(paths), "output", *out)
	fmt.Printf("Processed %d file(s), workbook at %s\n", len(paths), *out)
}
