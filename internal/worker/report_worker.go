// Package worker keeps per-owner report files in sync with record change
// events.
package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"spese/internal/amqp"
	"spese/internal/export"
	"spese/internal/log"
	"spese/internal/report"
)

// Reporter builds an owner's report from current store contents. Events
// come from other processes, so implementations must not serve cached
// reports.
type Reporter interface {
	Report(ctx context.Context, ownerID int64, currency string, year, month int) (report.Report, error)
}

// ReportWorker rewrites dir/owner-<id><ext> every time an owner's records
// change. Files are replaced atomically so readers never see partial output.
type ReportWorker struct {
	reports  Reporter
	writer   export.Writer
	dir      string
	currency string
	logger   *log.Logger
}

func NewReportWorker(reports Reporter, writer export.Writer, dir, currency string, logger *log.Logger) *ReportWorker {
	return &ReportWorker{
		reports:  reports,
		writer:   writer,
		dir:      dir,
		currency: currency,
		logger:   log.OrDefault(logger, log.ComponentApp).With("worker", "reports"),
	}
}

// HandleRecordsChanged is an amqp consumer handler.
func (w *ReportWorker) HandleRecordsChanged(ctx context.Context, msg *amqp.RecordsChangedMessage) error {
	w.logger.InfoContext(ctx, "Processing records changed message",
		log.FieldOwner, msg.OwnerID,
		log.FieldOperation, msg.Operation,
		log.FieldCount, msg.Count)
	return w.Refresh(ctx, msg.OwnerID)
}

// Refresh rebuilds and writes one owner's report file.
func (w *ReportWorker) Refresh(ctx context.Context, ownerID int64) error {
	r, err := w.reports.Report(ctx, ownerID, w.currency, 0, 0)
	if err != nil {
		return fmt.Errorf("build report for owner %d: %w", ownerID, err)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	path := w.Path(ownerID)

	tmp, err := os.CreateTemp(w.dir, ".report-*")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := w.writer.Write(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}

	w.logger.DebugContext(ctx, "Report written", "path", path, log.FieldOwner, ownerID)
	return nil
}

// Path is where the owner's report is written.
func (w *ReportWorker) Path(ownerID int64) string {
	return filepath.Join(w.dir, fmt.Sprintf("owner-%d%s", ownerID, w.writer.Extension()))
}
