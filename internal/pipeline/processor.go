package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/docuparse/invoice-extract/internal/entity"
	"github.com/docuparse/invoice-extract/internal/extract"
	"github.com/docuparse/invoice-extract/internal/ocr"
	"github.com/docuparse/invoice-extract/internal/repository"
)

// Processor coordinates recognition (image -> text) then extraction
// (text -> normalized invoice), with optional persistence.
type Processor struct {
	logger    *slog.Logger
	session   *ocr.Session
	extractor *extract.Extractor
	invoices  repository.InvoiceRepository // nil disables persistence
	schema    map[string]any
}

func NewProcessor(logger *slog.Logger, session *ocr.Session, extractor *extract.Extractor, invoices repository.InvoiceRepository) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		session:   session,
		extractor: extractor,
		invoices:  invoices,
		schema:    extract.BuildInvoiceJSONSchema(),
	}
}

// ProcessFile runs recognition and extraction for one image. Recognition
// failure is fatal to the document and propagated; extraction always yields
// a best-effort record. The record is schema-checked and stored when a
// repository is configured.
func (p *Processor) ProcessFile(ctx context.Context, path string) (entity.Invoice, error) {
	rec, err := p.session.Recognize(ctx, path)
	if err != nil {
		p.logger.Error("recognition failed", "path", path, "error", err)
		return entity.Invoice{}, err
	}
	p.logger.Debug("recognition stage success",
		"path", path,
		"bytes", len(rec.Text),
		"confidence", rec.Confidence,
		"duration_ms", rec.Duration.Milliseconds(),
	)

	inv := p.extractor.Extract(rec.Text)
	inv.SourcePath = path
	inv.Confidence = rec.Confidence

	if b, err := json.Marshal(inv); err == nil {
		if err := extract.ValidateJSONAgainstSchema(p.schema, b); err != nil {
			p.logger.Warn("extracted record failed schema validation", "path", path, "error", err)
			inv.NeedsReview = true
		}
	}

	if p.invoices != nil {
		if err := p.invoices.Save(ctx, inv); err != nil {
			p.logger.Error("invoice save failed", "path", path, "invoice_id", inv.ID, "error", err)
			return inv, err
		}
	}

	p.logger.Info("processed invoice",
		"path", path,
		"invoice_id", inv.ID,
		"party", inv.Party,
		"invoice_number", inv.InvoiceNumber,
		"items", len(inv.Items),
		"grand_total", inv.GrandTotal,
		"needs_review", inv.NeedsReview,
	)
	return inv, nil
}
