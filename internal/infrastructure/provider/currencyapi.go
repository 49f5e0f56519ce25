package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"exchanges-service/internal/application"
	"exchanges-service/internal/domain"
	infraconfig "exchanges-service/internal/infrastructure/config"
	"exchanges-service/internal/infrastructure/httpx"

	"github.com/shopspring/decimal"
)

const DefaultCurrencyAPIBase = "https://raw.githubusercontent.com/fawazahmed0/currency-api/1"

// CurrencyAPI fetches rates from the fawazahmed0 currency-api layout:
// GET {base}/{date}/currencies/{from}/{to}.json -> {"date": "...", "<to>": <rate>}.
type CurrencyAPI struct {
	BaseURL string
	Client  *httpx.Client
}

var _ application.RateSource = (*CurrencyAPI)(nil)

func NewCurrencyAPI(baseURL string, timeout time.Duration) *CurrencyAPI {
	if baseURL == "" {
		baseURL = DefaultCurrencyAPIBase
	}
	if timeout <= 0 {
		timeout = infraconfig.DefaultRateTimeout
	}
	return &CurrencyAPI{
		BaseURL: baseURL,
		Client:  &httpx.Client{HTTP: &http.Client{Timeout: timeout}},
	}
}

func (p *CurrencyAPI) GetRate(ctx context.Context, from, to, date string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if date == "" {
		date = application.LatestDate
	}
	key := strings.ToLower(to)

	u, err := url.JoinPath(p.BaseURL, date, "currencies", strings.ToLower(from), key+".json")
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("currencyapi: invalid base url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("currencyapi: create request: %w", err)
	}

	client := p.Client
	if client == nil {
		client = &httpx.Client{HTTP: &http.Client{Timeout: infraconfig.DefaultRateTimeout}}
	}
	var body map[string]json.RawMessage
	if err := client.DoJSON(ctx, req, &body); err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return decimal.Decimal{}, fmt.Errorf("currencyapi: %s/%s at %s: %w", from, to, date, domain.ErrRateUnavailable)
		}
		return decimal.Decimal{}, fmt.Errorf("currencyapi: %w", err)
	}

	raw, ok := body[key]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("currencyapi: %s/%s at %s: %w", from, to, date, domain.ErrRateUnavailable)
	}
	rate, err := parseRate(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("currencyapi: %s/%s: %w: %v", from, to, domain.ErrRateFormat, err)
	}
	return rate, nil
}

// parseRate reads a JSON number literal as a decimal within the domain digit
// bounds. Strings, nulls and non-positive values are rejected.
func parseRate(raw json.RawMessage) (decimal.Decimal, error) {
	d, err := domain.ParseLiteral(string(bytes.TrimSpace(raw)))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("rate %s is not positive", d)
	}
	return d, nil
}
