package rates

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"spese/internal/log"
)

// DefaultTimeout bounds a single live refresh attempt.
const DefaultTimeout = 5 * time.Second

// Source fetches current rates against base for the given codes.
type Source interface {
	Fetch(ctx context.Context, base string, codes []string) (*Table, error)
}

// Provider converts amounts using the currently published table.
//
// Conversions read the table through an atomic pointer and never lock.
// Refreshes build a complete new table and publish it in one store, so
// readers see either the old or the new table, never a mix.
type Provider struct {
	table   atomic.Pointer[Table]
	version atomic.Uint64
	source  Source
	timeout time.Duration
	group   singleflight.Group
	logger  *log.Logger
}

// NewProvider returns a provider publishing initial (StaticTable when nil).
// source may be nil, which disables live refresh.
func NewProvider(initial *Table, source Source, timeout time.Duration, logger *log.Logger) *Provider {
	if initial == nil {
		initial = StaticTable()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	p := &Provider{
		source:  source,
		timeout: timeout,
		logger:  log.OrDefault(logger, log.ComponentRates),
	}
	p.table.Store(initial)
	return p
}

// Convert converts amount from one currency to another through the base
// currency: amount / rate[from] * rate[to]. An unknown code is reported in
// the log and the amount is returned unchanged.
func (p *Provider) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	t := p.table.Load()
	fromRate, okFrom := t.Rate(from)
	toRate, okTo := t.Rate(to)
	if !okFrom || !okTo {
		p.logger.Warn("Unknown currency code, amount left unconverted",
			log.FieldOperation, log.OpConvert,
			log.FieldFrom, from,
			log.FieldTo, to)
		return amount
	}
	return amount.Div(fromRate).Mul(toRate)
}

// Table returns the currently published table.
func (p *Provider) Table() *Table {
	return p.table.Load()
}

// Version increases every time a new table is published.
func (p *Provider) Version() uint64 {
	return p.version.Load()
}

// Live reports whether a live source is configured.
func (p *Provider) Live() bool {
	return p.source != nil
}

// Refresh makes a single attempt to fetch live rates. Concurrent calls share
// one attempt. On success the fetched rates are merged over the current
// table and published; on failure the current table stays. It reports
// whether a new table was published and never returns an error.
func (p *Provider) Refresh(ctx context.Context) bool {
	if p.source == nil {
		return false
	}

	v, err, _ := p.group.Do("refresh", func() (any, error) {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		current := p.table.Load()
		fetched, err := p.source.Fetch(ctx, current.Base(), foreignCodes(current))
		if err != nil {
			return nil, err
		}
		if fetched.Base() != current.Base() {
			return nil, fmt.Errorf("live rates based on %s, expected %s", fetched.Base(), current.Base())
		}

		next := current.Merge(fetched)
		p.table.Store(next)
		p.version.Add(1)
		return next, nil
	})
	if err != nil {
		p.logger.WarnContext(ctx, "Live rate refresh failed, keeping last-known rates",
			log.FieldOperation, log.OpRefresh,
			log.FieldError, err)
		return false
	}

	p.logger.InfoContext(ctx, "Exchange rates refreshed",
		log.FieldOperation, log.OpRefresh,
		log.FieldCount, v.(*Table).Len())
	return true
}

// RefreshAsync starts a refresh in the background and returns immediately.
func (p *Provider) RefreshAsync() {
	if p.source == nil {
		return
	}
	go p.Refresh(context.Background())
}

// Run refreshes once immediately and then on every interval until ctx is
// cancelled. Without a live source it returns at once.
func (p *Provider) Run(ctx context.Context, interval time.Duration) error {
	if p.source == nil {
		return nil
	}

	p.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.Refresh(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

func foreignCodes(t *Table) []string {
	codes := make([]string, 0, t.Len())
	for _, code := range t.Codes() {
		if code != t.Base() {
			codes = append(codes, code)
		}
	}
	return codes
}
