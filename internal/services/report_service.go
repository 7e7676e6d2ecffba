package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	apperrors "spendtrack/internal/errors"
)

// reportService generates downloadable transaction reports.
type reportService struct {
	transactions TransactionServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(transactions TransactionServicer) ReportServicer {
	return &reportService{transactions: transactions}
}

var reportColumns = []string{"Date", "Status", "Category", "Amount", "Currency", "Converted", "Description"}

// Generate builds an excel or pdf report of transactions matching the
// filter, with amounts converted into the display currency.
func (s *reportService) Generate(ctx context.Context, filter TransactionFilter, format, displayCurrency string) (*Report, error) {
	views, err := s.transactions.ListTransactionViews(ctx, filter, displayCurrency)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, apperrors.ErrEmptyReport
	}

	stamp := time.Now().Format("2006-01-02")
	switch format {
	case "excel":
		data, err := buildExcel(views)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &Report{
			Filename:    fmt.Sprintf("transactions_%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	case "pdf":
		data, err := buildPDF(views, displayCurrency)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &Report{
			Filename:    fmt.Sprintf("transactions_%s.pdf", stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, apperrors.ErrInvalidReportFormat
	}
}

func buildExcel(views []TransactionView) ([]byte, error) {
	file := excelize.NewFile()
	sheet := "Transactions"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for col, header := range reportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, v := range views {
		values := []interface{}{
			v.Date,
			string(v.Status),
			v.Category,
			v.Amount.StringFixed(2),
			v.Currency,
			v.ConvertedAmount.StringFixed(2),
			v.Description,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildPDF(views []TransactionView, displayCurrency string) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Transaction Report (%s)", displayCurrency))
	pdf.Ln(12)

	widths := []float64{28, 24, 40, 30, 24, 30, 90}

	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range reportColumns {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, v := range views {
		cells := []string{
			v.Date,
			string(v.Status),
			v.Category,
			v.Amount.StringFixed(2),
			v.Currency,
			v.ConvertedAmount.StringFixed(2),
			v.Description,
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 8, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
