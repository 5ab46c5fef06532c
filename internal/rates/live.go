package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"spese/internal/cache"
	"spese/internal/log"
)

// maxBody caps how much of a live response is read.
const maxBody = 1 << 20

var codePattern = regexp.MustCompile(`^[A-Z]{3}$`)

/*
LiveSource reads rates from a currencyapi.com style endpoint:

	GET {endpoint}?apikey=KEY&base_currency=USD&currencies=EUR,GBP

	{
	    "data": {
	        "EUR": {"code": "EUR", "value": 0.8635},
	        "GBP": {"code": "GBP", "value": 0.7606}
	    }
	}

Any transport error, non-200 status or undecodable body fails the whole
fetch. A single missing or unusable value only defaults that code to 1.
*/
type LiveSource struct {
	endpoint  string
	apiKey    string
	client    *http.Client
	responses cache.Cache[[]byte]
	logger    *log.Logger
}

// NewLiveSource builds a source for endpoint. responses, when not nil,
// keeps decoded payloads per request URL so refreshes inside its TTL do not
// reach the network.
func NewLiveSource(endpoint, apiKey string, timeout time.Duration, responses cache.Cache[[]byte], logger *log.Logger) *LiveSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LiveSource{
		endpoint:  endpoint,
		apiKey:    apiKey,
		client:    &http.Client{Timeout: timeout},
		responses: responses,
		logger:    log.OrDefault(logger, log.ComponentRates),
	}
}

// Fetch implements Source.
func (s *LiveSource) Fetch(ctx context.Context, base string, codes []string) (*Table, error) {
	addr, err := s.requestURL(base, codes)
	if err != nil {
		return nil, err
	}

	var body []byte
	hit := false
	if s.responses != nil {
		body, hit = s.responses.Get(addr)
	}
	if !hit {
		if body, err = s.get(ctx, addr); err != nil {
			return nil, err
		}
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode live rates: %w", err)
	}
	if s.responses != nil && !hit {
		s.responses.Set(addr, body)
	}

	return NewTable(base, s.extract(doc, codes)), nil
}

func (s *LiveSource) requestURL(base string, codes []string) (string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse rates endpoint: %w", err)
	}
	q := u.Query()
	if s.apiKey != "" {
		q.Set("apikey", s.apiKey)
	}
	q.Set("base_currency", normalizeCode(base))
	q.Set("currencies", strings.Join(codes, ","))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *LiveSource) get(ctx context.Context, addr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("build rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch live rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch live rates: %s %s: %s", req.Method, req.URL.Host, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read live rates: %w", err)
	}
	return body, nil
}

func (s *LiveSource) extract(doc any, codes []string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(codes))
	for _, code := range codes {
		code = normalizeCode(code)
		rate, err := valueAt(doc, code)
		if err != nil {
			s.logger.Debug("Live rate field unusable, defaulting to 1",
				log.FieldCurrency, code,
				log.FieldError, err)
			rate = decimal.NewFromInt(1)
		}
		out[code] = rate
	}
	return out
}

// valueAt extracts data.<code>.value as a positive decimal.
func valueAt(doc any, code string) (decimal.Decimal, error) {
	if !codePattern.MatchString(code) {
		return decimal.Zero, fmt.Errorf("invalid currency code %q", code)
	}
	path := "$.data." + code + ".value"
	jval, err := jsonpath.Get(path, doc)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", path, err)
	}
	// jsonpath may wrap a single answer in a list
	if list, ok := jval.([]any); ok && len(list) > 0 {
		jval = list[0]
	}

	var rate decimal.Decimal
	switch v := jval.(type) {
	case float64:
		rate = decimal.NewFromFloat(v)
	case string:
		if rate, err = decimal.NewFromString(strings.TrimSpace(v)); err != nil {
			return decimal.Zero, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return decimal.Zero, fmt.Errorf("%s: not a number: %v", path, jval)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s: non-positive rate %s", path, rate)
	}
	return rate, nil
}
