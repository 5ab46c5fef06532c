// Package services holds the record workflows shared by the HTTP API and the
// CLI: normalize, persist, announce and report.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"spese/internal/cache"
	"spese/internal/category"
	"spese/internal/core"
	"spese/internal/importer"
	"spese/internal/log"
	"spese/internal/report"
	"spese/internal/storage"
)

// ErrInvalidRecord wraps validation failures of manually entered records.
var ErrInvalidRecord = errors.New("invalid record")

// EventPublisher announces writes to other processes.
type EventPublisher interface {
	PublishRecordsChanged(ctx context.Context, ownerID int64, operation string, count int) error
}

// RateConverter converts display amounts. Version changes whenever the
// underlying rates change, which invalidates cached reports.
type RateConverter interface {
	report.Converter
	Version() uint64
}

// Options configures a RecordService. Store is required; every other field
// has a usable zero value.
type Options struct {
	Store        storage.RecordStore
	Normalizer   *category.Normalizer
	Rates        RateConverter
	BaseCurrency string
	Events       EventPublisher
	Reports      cache.Cache[report.Report]
	Logger       *log.Logger
}

// RecordService normalizes categories before every write, keeps amounts in
// the base currency and builds reports in any display currency.
type RecordService struct {
	store      storage.RecordStore
	normalizer *category.Normalizer
	rates      RateConverter
	base       string
	events     EventPublisher
	reports    cache.Cache[report.Report]
	logger     *log.Logger

	mu          sync.Mutex
	generations map[int64]uint64
}

func NewRecordService(opts Options) *RecordService {
	if opts.Normalizer == nil {
		opts.Normalizer = category.NewNormalizer(nil)
	}
	base := strings.ToUpper(strings.TrimSpace(opts.BaseCurrency))
	if base == "" {
		base = "USD"
	}
	return &RecordService{
		store:       opts.Store,
		normalizer:  opts.Normalizer,
		rates:       opts.Rates,
		base:        base,
		events:      opts.Events,
		reports:     opts.Reports,
		logger:      log.OrDefault(opts.Logger, log.ComponentRecords),
		generations: make(map[int64]uint64),
	}
}

// BaseCurrency is the currency amounts are stored in.
func (s *RecordService) BaseCurrency() string {
	return s.base
}

// Normalizer exposes the category normalizer used on writes.
func (s *RecordService) Normalizer() *category.Normalizer {
	return s.normalizer
}

// Add validates r, normalizes its category and saves it.
func (s *RecordService) Add(ctx context.Context, ownerID int64, r core.Record) (core.Record, error) {
	if err := r.Validate(); err != nil {
		return core.Record{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	r = s.normalize(ctx, r)

	id, err := s.store.Save(ctx, r, ownerID)
	if err != nil {
		return core.Record{}, fmt.Errorf("save record: %w", err)
	}
	r.ID = core.NewID(id)
	r.OwnerID = ownerID

	s.logger.InfoContext(ctx, "Record added", log.NewFields().
		WithOperation(log.OpCreate).
		WithOwner(ownerID).
		WithRecord(id, r.Name, r.Amount.String(), r.Category).
		ToSlice()...)
	s.changed(ctx, ownerID, log.OpCreate, 1)
	return r, nil
}

// Edit replaces a stored record. It returns core.ErrNotFound when no record
// with r's ID belongs to the owner.
func (s *RecordService) Edit(ctx context.Context, ownerID int64, r core.Record) (core.Record, error) {
	if !r.HasID() {
		return core.Record{}, core.ErrNotFound
	}
	if err := r.Validate(); err != nil {
		return core.Record{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	r = s.normalize(ctx, r)

	ok, err := s.store.Update(ctx, r, ownerID)
	if err != nil {
		return core.Record{}, fmt.Errorf("update record: %w", err)
	}
	if !ok {
		return core.Record{}, core.ErrNotFound
	}
	r.OwnerID = ownerID

	s.changed(ctx, ownerID, log.OpUpdate, 1)
	return r, nil
}

// Remove deletes the owner's record with the given ID.
func (s *RecordService) Remove(ctx context.Context, ownerID, id int64) error {
	ok, err := s.store.Delete(ctx, core.Record{ID: core.NewID(id)}, ownerID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if !ok {
		return core.ErrNotFound
	}
	s.changed(ctx, ownerID, log.OpDelete, 1)
	return nil
}

// Clear deletes every record of the owner.
func (s *RecordService) Clear(ctx context.Context, ownerID int64) error {
	if err := s.store.ClearAll(ctx, ownerID); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	s.changed(ctx, ownerID, log.OpClear, 0)
	return nil
}

// List returns the owner's stored records.
func (s *RecordService) List(ctx context.Context, ownerID int64) ([]core.Record, error) {
	records, err := s.store.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// Import reads CSV from r, normalizes each category and saves the records.
// Parsing happens up front so a malformed file stores nothing. It returns
// how many records were saved, which on a store failure is a prefix of the
// file.
func (s *RecordService) Import(ctx context.Context, ownerID int64, r io.Reader) (int, error) {
	records, err := importer.ReadCSV(r)
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	return s.ImportRecords(ctx, ownerID, records)
}

// ImportRecords saves already parsed records. Unlike Add it does not
// validate: imported dates are kept as written.
func (s *RecordService) ImportRecords(ctx context.Context, ownerID int64, records []core.Record) (int, error) {
	saved := 0
	for _, rec := range records {
		rec = s.normalize(ctx, rec)
		if _, err := s.store.Save(ctx, rec, ownerID); err != nil {
			if saved > 0 {
				s.changed(ctx, ownerID, log.OpImport, saved)
			}
			return saved, fmt.Errorf("import record %q: %w", rec.Name, err)
		}
		saved++
	}

	s.logger.InfoContext(ctx, "Records imported",
		log.FieldOperation, log.OpImport,
		log.FieldOwner, ownerID,
		log.FieldCount, saved)
	if saved > 0 {
		s.changed(ctx, ownerID, log.OpImport, saved)
	}
	return saved, nil
}

// Export writes the owner's records as CSV in the base currency.
func (s *RecordService) Export(ctx context.Context, ownerID int64, w io.Writer) error {
	records, err := s.List(ctx, ownerID)
	if err != nil {
		return err
	}
	if err := importer.WriteCSV(w, records); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// Views lists the owner's records with amounts converted to currency.
// An empty currency means the base currency.
func (s *RecordService) Views(ctx context.Context, ownerID int64, currency string) ([]report.View, error) {
	records, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var conv report.Converter
	if s.rates != nil {
		conv = s.rates
	}
	return report.BuildViews(records, conv, s.base, s.displayCurrency(currency)), nil
}

// Dashboard builds the owner's report in currency. year and month select the
// calendar section and may be zero. Reports are cached until the owner's
// records or the exchange rates change.
func (s *RecordService) Dashboard(ctx context.Context, ownerID int64, currency string, year, month int) (report.Report, error) {
	currency = s.displayCurrency(currency)
	key := s.reportKey(ownerID, currency, year, month)
	if s.reports != nil {
		if r, ok := s.reports.Get(key); ok {
			return r, nil
		}
	}

	r, err := s.Report(ctx, ownerID, currency, year, month)
	if err != nil {
		return report.Report{}, err
	}

	if s.reports != nil {
		s.reports.Set(key, r)
	}
	return r, nil
}

// Report builds the owner's report straight from the store, bypassing the
// report cache. Consumers reacting to writes made by other processes use it,
// since the cache only sees this process's writes.
func (s *RecordService) Report(ctx context.Context, ownerID int64, currency string, year, month int) (report.Report, error) {
	currency = s.displayCurrency(currency)
	views, err := s.Views(ctx, ownerID, currency)
	if err != nil {
		return report.Report{}, err
	}
	return report.Build(views, currency, year, month), nil
}

func (s *RecordService) normalize(ctx context.Context, r core.Record) core.Record {
	m := s.normalizer.Match(r.Category)
	if !m.Exact && m.Category != core.Other && r.Category != "" {
		s.logger.DebugContext(ctx, "Category matched approximately",
			log.FieldRawCat, r.Category,
			log.FieldCategory, m.Category.String(),
			"alias", m.Alias,
			"distance", m.Distance)
	}
	return r.WithCategory(m.Category.String())
}

func (s *RecordService) displayCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return s.base
	}
	return currency
}

func (s *RecordService) reportKey(ownerID int64, currency string, year, month int) string {
	s.mu.Lock()
	gen := s.generations[ownerID]
	s.mu.Unlock()

	var version uint64
	if s.rates != nil {
		version = s.rates.Version()
	}
	return fmt.Sprintf("%d:%d:%d:%s:%d-%d", ownerID, gen, version, currency, year, month)
}

// changed invalidates cached reports and announces the write. Publishing is
// best effort: the write already succeeded.
func (s *RecordService) changed(ctx context.Context, ownerID int64, op string, count int) {
	s.mu.Lock()
	s.generations[ownerID]++
	s.mu.Unlock()

	if s.events == nil {
		s.logger.DebugContext(ctx, "Event publisher not configured, skipping records changed event",
			log.FieldOperation, op)
		return
	}
	if err := s.events.PublishRecordsChanged(ctx, ownerID, op, count); err != nil {
		s.logger.LogError(ctx, "Failed to publish records changed event", err, op,
			log.NewFields().WithOwner(ownerID))
	}
}
