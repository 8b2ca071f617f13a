package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/docuparse/invoice-extract/internal/entity"
	"github.com/docuparse/invoice-extract/internal/repository"
)

// Service is a tiny façade over the invoice repository that produces XLSX
// bytes for exports.
type Service struct {
	invoices repository.InvoiceRepository
	logger   *slog.Logger
}

func NewService(invoices repository.InvoiceRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{invoices: invoices, logger: logger}
}

// ExportInvoicesXLSX returns an XLSX workbook (as bytes) for invoices
// extracted in the given window, one row per line item.
// If only from is provided -> from..today (inclusive).
// If only to is provided   -> beginning..to (inclusive).
// If neither is provided   -> all invoices.
func (s *Service) ExportInvoicesXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	// Normalize dates (date-only, UTC)
	var fromDate, toDate *time.Time
	if from != nil {
		f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		fromDate = &f
	}
	if to != nil {
		t := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, time.UTC)
		toDate = &t
	}
	if fromDate != nil && toDate == nil {
		now := time.Now().UTC()
		t := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
		toDate = &t
	}

	invs, err := s.invoices.List(ctx, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}

	buf, rows, err := buildWorkbook(invs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("export.xlsx.ok",
		"invoices", len(invs),
		"rows", rows,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf, nil
}

// InvoiceXLSX renders a single extracted invoice as a workbook, for the
// one-shot CLI path where no database is involved.
func (s *Service) InvoiceXLSX(inv entity.Invoice) ([]byte, error) {
	buf, _, err := buildWorkbook([]entity.Invoice{inv})
	return buf, err
}

func buildWorkbook(invs []entity.Invoice) ([]byte, int, error) {
	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, 0, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Invoice Number",
		"Party",
		"Invoice Date",
		"Item Code",
		"Item",
		"Quantity",
		"Rate",
		"Amount",
		"Invoice Total",
		"Needs Review",
		"Source File",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, inv := range invs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		writeInvoiceCols := func() {
			write(1, inv.InvoiceNumber)
			write(2, truncate(inv.Party, 60))
			write(3, inv.Date)
			write(9, inv.GrandTotal.String())
			write(10, inv.NeedsReview)
			write(11, inv.SourcePath)
		}

		if len(inv.Items) == 0 {
			writeInvoiceCols()
			row++
			continue
		}
		for _, it := range inv.Items {
			writeInvoiceCols()
			write(4, it.Code)
			write(5, truncate(it.Name, 80))
			write(6, it.Quantity.String())
			write(7, it.Rate.String())
			write(8, it.Amount.String())
			row++
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 18) // invoice number
	_ = f.SetColWidth(sheet, "B", "B", 28) // party
	_ = f.SetColWidth(sheet, "C", "C", 12) // date
	_ = f.SetColWidth(sheet, "D", "D", 10) // code
	_ = f.SetColWidth(sheet, "E", "E", 36) // item
	_ = f.SetColWidth(sheet, "F", "I", 12) // numbers
	_ = f.SetColWidth(sheet, "K", "K", 60) // path

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), row - 2, nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
