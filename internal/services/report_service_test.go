package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/fx"
	"spendtrack/internal/models"
	"spendtrack/internal/testutil"
)

func TestGenerateReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	plans := NewPlanServiceWithClock(db, fixedClock)
	converter := fx.NewClient("http://unused", "", time.Hour)
	transactions := NewTransactionService(db, plans, converter)
	svc := NewReportService(transactions)

	testutil.CreateTestTransaction(t, db, models.TransactionStatusSpent, "ReportFood", decimal.NewFromInt(25))
	category := "ReportFood"
	filter := TransactionFilter{Category: &category}

	t.Run("excel report", func(t *testing.T) {
		report, err := svc.Generate(context.Background(), filter, "excel", "QAR")
		testutil.AssertNoError(t, err)
		if report.ContentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
			t.Errorf("unexpected content type %q", report.ContentType)
		}
		if !strings.HasSuffix(report.Filename, ".xlsx") {
			t.Errorf("unexpected filename %q", report.Filename)
		}
		// xlsx files are zip archives.
		if !bytes.HasPrefix(report.Data, []byte("PK")) {
			t.Error("expected xlsx data to start with a zip header")
		}
	})

	t.Run("pdf report", func(t *testing.T) {
		report, err := svc.Generate(context.Background(), filter, "pdf", "QAR")
		testutil.AssertNoError(t, err)
		if report.ContentType != "application/pdf" {
			t.Errorf("unexpected content type %q", report.ContentType)
		}
		if !bytes.HasPrefix(report.Data, []byte("%PDF")) {
			t.Error("expected pdf header")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := svc.Generate(context.Background(), filter, "csv", "QAR")
		testutil.AssertAppError(t, err, "INVALID_REPORT_FORMAT")
	})

	t.Run("empty result set", func(t *testing.T) {
		missing := "NoSuchCategory"
		_, err := svc.Generate(context.Background(), TransactionFilter{Category: &missing}, "excel", "QAR")
		testutil.AssertAppError(t, err, "EMPTY_REPORT")
	})
}
