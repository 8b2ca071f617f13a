package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/docuparse/invoice-extract/internal/common"
	"github.com/docuparse/invoice-extract/internal/entity"
	"github.com/docuparse/invoice-extract/internal/export"
	"github.com/docuparse/invoice-extract/internal/extract"
	"github.com/docuparse/invoice-extract/internal/ocr"
	"github.com/docuparse/invoice-extract/internal/pipeline"
	"github.com/docuparse/invoice-extract/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := common.LoadConfig()

	fs := ff.NewFlagSet("invoice-extract")
	var (
		dbPath    = fs.StringLong("db", "", "save the extracted invoice to this SQLite database")
		xlsxPath  = fs.StringLong("xlsx", "", "also write the invoice as an XLSX workbook at this path")
		tesseract = fs.StringLong("tesseract", cfg.OCR.Tesseract, "tesseract binary")
		lang      = fs.StringLong("lang", cfg.OCR.Language, "recognition language")
		psm       = fs.IntLong("psm", cfg.OCR.PSM, "tesseract page segmentation mode")
		noEnhance = fs.BoolLong("no-enhance", "skip image preprocessing before recognition")
		fromText  = fs.BoolLong("from-text", "treat the input as already-recognized text, skip OCR")
		verbose   = fs.BoolLong("verbose", "debug logging")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("INVOICE"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	args := fs.GetArgs()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "usage: invoice-extract [flags] <image-or-text-file>")
		os.Exit(1)
	}
	input := args[0]

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()

	var invoices repository.InvoiceRepository
	if *dbPath != "" {
		db, err := repository.Open(ctx, *dbPath, logger)
		if err != nil {
			logger.Error("failed to open database", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		defer repository.Close(db, logger)
		invoices = repository.NewInvoiceRepository(db, logger)
	}

	extractor := extract.NewExtractor(extract.DefaultConfig(), logger)

	var inv entity.Invoice
	var err error
	if *fromText {
		inv, err = extractFromText(ctx, extractor, invoices, input)
	} else {
		session := ocr.NewSession(ocr.Config{
			Tesseract: *tesseract,
			Language:  *lang,
			PSM:       *psm,
			Enhance:   cfg.OCR.Enhance && !*noEnhance,
			WorkDir:   cfg.OCR.WorkDir,
		}, logger)
		defer session.Close()

		proc := pipeline.NewProcessor(logger, session, extractor, invoices)
		inv, err = proc.ProcessFile(ctx, input)
	}
	if err != nil {
		logger.Error("extraction failed", "input", input, "error", err)
		os.Exit(1)
	}

	b, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		logger.Error("failed to encode invoice", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(b))

	if *xlsxPath != "" {
		svc := export.NewService(invoices, logger)
		xb, err := svc.InvoiceXLSX(inv)
		if err != nil {
			logger.Error("xlsx export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxPath, xb, 0o644); err != nil {
			logger.Error("failed to write workbook", "path", *xlsxPath, "error", err)
			os.Exit(1)
		}
		logger.Info("workbook written", "path", *xlsxPath)
	}
}

func extractFromText(ctx context.Context, extractor *extract.Extractor, invoices repository.InvoiceRepository, path string) (entity.Invoice, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return entity.Invoice{}, err
	}
	inv := extractor.Extract(string(raw))
	inv.SourcePath = path
	if invoices != nil {
		if err := invoices.Save(ctx, inv); err != nil {
			return inv, err
		}
	}
	return inv, nil
}
