package rates

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spese/internal/log"
)

var tolerance = decimal.RequireFromString("0.000000001")

func near(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeSource struct {
	table *Table
	err   error
	calls atomic.Int32
	delay time.Duration
}

func (f *fakeSource) Fetch(ctx context.Context, base string, codes []string) (*Table, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

func TestConvertIdentity(t *testing.T) {
	p := NewProvider(nil, nil, 0, log.Nop())
	amount := dec("123.45")
	for _, code := range p.Table().Codes() {
		if got := p.Convert(amount, code, code); !near(got, amount) {
			t.Fatalf("Convert(%s, %s, %s) = %s", amount, code, code, got)
		}
	}
}

func TestConvertRoundTrip(t *testing.T) {
	p := NewProvider(nil, nil, 0, log.Nop())
	amount := dec("10")
	codes := p.Table().Codes()
	for _, a := range codes {
		for _, b := range codes {
			back := p.Convert(p.Convert(amount, a, b), b, a)
			if !near(back, amount) {
				t.Fatalf("round trip %s->%s->%s = %s", a, b, a, back)
			}
		}
	}
}

func TestConvertTwoHop(t *testing.T) {
	p := NewProvider(nil, nil, 0, log.Nop())
	got := p.Convert(dec("100"), "eur", " GBP ")
	want := dec("100").Div(dec("0.8635001386")).Mul(dec("0.7606401215"))
	if !near(got, want) {
		t.Fatalf("EUR->GBP = %s, want %s", got, want)
	}
	if got := p.Convert(dec("1"), "USD", "JPY"); !near(got, dec("155.5690267085")) {
		t.Fatalf("USD->JPY = %s", got)
	}
}

func TestConvertUnknownCode(t *testing.T) {
	p := NewProvider(nil, nil, 0, log.Nop())
	amount := dec("42.5")
	for _, pair := range [][2]string{{"XXX", "USD"}, {"USD", "XXX"}, {"", "EUR"}} {
		if got := p.Convert(amount, pair[0], pair[1]); !got.Equal(amount) {
			t.Fatalf("Convert with unknown %v = %s, want unchanged", pair, got)
		}
	}
}

func TestRefreshPublishesMergedTable(t *testing.T) {
	src := &fakeSource{table: NewTable("USD", map[string]decimal.Decimal{"EUR": dec("0.9")})}
	p := NewProvider(nil, src, time.Second, log.Nop())

	if !p.Refresh(context.Background()) {
		t.Fatalf("expected refresh to publish")
	}
	if p.Version() != 1 {
		t.Fatalf("version = %d, want 1", p.Version())
	}
	if r, _ := p.Table().Rate("EUR"); !r.Equal(dec("0.9")) {
		t.Fatalf("EUR rate = %s, want 0.9", r)
	}
	if r, ok := p.Table().Rate("JPY"); !ok || !r.Equal(dec("155.5690267085")) {
		t.Fatalf("JPY should keep its fallback rate, got %s %v", r, ok)
	}
}

func TestRefreshFailureKeepsTable(t *testing.T) {
	cases := map[string]*fakeSource{
		"source error":  {err: errors.New("connection refused")},
		"base mismatch": {table: NewTable("EUR", nil)},
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			p := NewProvider(nil, src, time.Second, log.Nop())
			before := p.Table()
			if p.Refresh(context.Background()) {
				t.Fatalf("expected refresh to fail")
			}
			if p.Table() != before || p.Version() != 0 {
				t.Fatalf("table should be unchanged after failure")
			}
		})
	}
}

func TestRefreshIsBoundedByTimeout(t *testing.T) {
	src := &fakeSource{table: NewTable("USD", nil), delay: time.Minute}
	p := NewProvider(nil, src, 20*time.Millisecond, log.Nop())

	start := time.Now()
	if p.Refresh(context.Background()) {
		t.Fatalf("slow source should not publish")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("refresh was not bounded by its timeout")
	}
}

func TestRefreshWithoutSource(t *testing.T) {
	p := NewProvider(nil, nil, 0, log.Nop())
	if p.Live() || p.Refresh(context.Background()) {
		t.Fatalf("refresh without source should be a no-op")
	}
	p.RefreshAsync()
	if err := p.Run(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("Run without source returned %v", err)
	}
}

func TestConcurrentConvertDuringRefresh(t *testing.T) {
	src := &fakeSource{table: NewTable("USD", map[string]decimal.Decimal{"EUR": dec("2")})}
	p := NewProvider(NewTable("USD", map[string]decimal.Decimal{"EUR": dec("1")}), src, time.Second, log.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				got := p.Convert(dec("10"), "USD", "EUR")
				if !got.Equal(dec("10")) && !got.Equal(dec("20")) {
					t.Errorf("observed a rate from neither table: %s", got)
					return
				}
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Refresh(context.Background())
		}()
	}
	wg.Wait()

	if got := p.Convert(dec("10"), "USD", "EUR"); !got.Equal(dec("20")) {
		t.Fatalf("after refresh USD->EUR = %s, want 20", got)
	}
}

func TestRunRefreshesUntilCancelled(t *testing.T) {
	src := &fakeSource{table: NewTable("USD", nil)}
	p := NewProvider(nil, src, time.Second, log.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, 5*time.Millisecond) }()

	deadline := time.Now().Add(2 * time.Second)
	for src.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if src.calls.Load() < 2 {
		t.Fatalf("expected at least two refreshes, got %d", src.calls.Load())
	}
}
