package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"exchanges-service/internal/application"
	"exchanges-service/internal/domain"
	"exchanges-service/internal/infrastructure/memstore"
	"exchanges-service/internal/infrastructure/provider"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const validBody = `{"createdAt":"2024-01-02T03:04:05Z","currencyFrom":"usd","currencyTo":"EUR","amountFrom":123}`

type rateFunc func(ctx context.Context, from, to, date string) (decimal.Decimal, error)

func (f rateFunc) GetRate(ctx context.Context, from, to, date string) (decimal.Decimal, error) {
	return f(ctx, from, to, date)
}

func setup(rates application.RateSource, store *memstore.Store) http.Handler {
	if rates == nil {
		rates = provider.NewFixed(decimal.NewFromInt(42))
	}
	if store == nil {
		store = memstore.New()
	}
	return NewRouter(NewServer(application.NewExchangeService(rates, store)))
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	h := setup(nil, nil)
	rec := do(h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	require.NotEmpty(t, rec.Header().Get("X-Trace-Id"))
}

func TestHealthz_StoreDown(t *testing.T) {
	store := memstore.New(memstore.WithFailures(fmt.Errorf("%w: refused", domain.ErrStoreUnavailable), nil))
	rec := do(setup(nil, store), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeError(t, rec)
	require.NotContains(t, body, "internalCode")
	require.NotContains(t, rec.Body.String(), "refused")
}

func TestCreateExchange(t *testing.T) {
	store := memstore.New(memstore.WithIDGen(func() string { return "6f1c1f08-5b0e-4d6c-9d6a-2a9f7c0f3e11" }))
	rec := do(setup(nil, store), http.MethodPost, "/exchanges", validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "/exchanges/6f1c1f08-5b0e-4d6c-9d6a-2a9f7c0f3e11", rec.Header().Get("Location"))
	require.JSONEq(t, `{
		"id":"6f1c1f08-5b0e-4d6c-9d6a-2a9f7c0f3e11",
		"createdAt":"2024-01-02T03:04:05Z",
		"currencyFrom":"USD",
		"currencyTo":"EUR",
		"amountFrom":123.00,
		"amountTo":5166.00
	}`, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"amountTo":5166.00`)
	require.Contains(t, rec.Body.String(), `"amountFrom":123.00`)
	require.Equal(t, 1, store.Len())
}

func TestCreateExchange_RoundsToTwoDecimals(t *testing.T) {
	rates := provider.NewFixed(decimal.RequireFromString("0.333"))
	body := `{"createdAt":"2024-01-02T03:04:05Z","currencyFrom":"USD","currencyTo":"EUR","amountFrom":10.005}`
	rec := do(setup(rates, nil), http.MethodPost, "/exchanges", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"amountFrom":10.01`)
	require.Contains(t, rec.Body.String(), `"amountTo":3.33`)
}

func TestCreateExchange_MalformedPayloadNeverReachesStore(t *testing.T) {
	store := memstore.New()
	rec := do(setup(nil, store), http.MethodPost, "/exchanges", `{"wrong":true}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	require.EqualValues(t, 400, body["code"])
	require.EqualValues(t, application.CodeMalformedPayload, body["internalCode"])
	require.NotEmpty(t, body["message"])
	require.Zero(t, store.AddCalls())
}

func TestCreateExchange_BadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
		code application.Code
	}{
		{"invalid utf8", "{\"currencyFrom\":\"\xff\"}", application.CodeInvalidUTF8},
		{"not json", `{"createdAt":`, application.CodeMalformedPayload},
		{"quoted amount", `{"createdAt":"2024-01-02T03:04:05Z","currencyFrom":"USD","currencyTo":"EUR","amountFrom":"1"}`, application.CodeMalformedPayload},
		{"unknown currency", `{"createdAt":"2024-01-02T03:04:05Z","currencyFrom":"ABC","currencyTo":"EUR","amountFrom":1}`, application.CodeUnknownCurrency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memstore.New()
			rec := do(setup(nil, store), http.MethodPost, "/exchanges", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.EqualValues(t, tc.code, decodeError(t, rec)["internalCode"])
			require.Zero(t, store.AddCalls())
		})
	}
}

func TestCreateExchange_DateParam(t *testing.T) {
	var gotDate string
	rates := rateFunc(func(_ context.Context, _, _, date string) (decimal.Decimal, error) {
		gotDate = date
		return decimal.NewFromInt(2), nil
	})
	h := setup(rates, nil)

	rec := do(h, http.MethodPost, "/exchanges?date=2024-03-01", validBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "2024-03-01", gotDate)

	rec = do(h, http.MethodPost, "/exchanges?date=latest", validBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, application.LatestDate, gotDate)

	rec = do(h, http.MethodPost, "/exchanges", validBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, application.LatestDate, gotDate)
}

func TestCreateExchange_InvalidDateParam(t *testing.T) {
	store := memstore.New()
	rec := do(setup(nil, store), http.MethodPost, "/exchanges?date=2024-13-45", validBody)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.EqualValues(t, application.CodeInvalidParameter, decodeError(t, rec)["internalCode"])
	require.Zero(t, store.AddCalls())
}

func TestCreateExchange_RateFailures(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   application.Code
	}{
		{"unavailable", fmt.Errorf("%w: USD/EUR", domain.ErrRateUnavailable), http.StatusBadRequest, application.CodeRateUnavailable},
		{"format", fmt.Errorf("%w: \"abc\"", domain.ErrRateFormat), http.StatusBadRequest, application.CodeRateFormat},
		{"provider", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rates := rateFunc(func(context.Context, string, string, string) (decimal.Decimal, error) {
				return decimal.Decimal{}, tc.err
			})
			store := memstore.New()
			rec := do(setup(rates, store), http.MethodPost, "/exchanges", validBody)
			require.Equal(t, tc.status, rec.Code)
			body := decodeError(t, rec)
			if tc.code == 0 {
				require.NotContains(t, body, "internalCode")
			} else {
				require.EqualValues(t, tc.code, body["internalCode"])
			}
			require.Zero(t, store.AddCalls())
		})
	}
}

func TestCreateExchange_StoreFailures(t *testing.T) {
	rejected := memstore.New(memstore.WithFailures(nil, errors.New("check constraint violated")))
	rec := do(setup(nil, rejected), http.MethodPost, "/exchanges", validBody)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.EqualValues(t, application.CodeStoreRejected, decodeError(t, rec)["internalCode"])
	require.Equal(t, 1, rejected.AddCalls())

	down := memstore.New(memstore.WithFailures(nil, fmt.Errorf("%w: pool closed", domain.ErrStoreUnavailable)))
	rec = do(setup(nil, down), http.MethodPost, "/exchanges", validBody)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotContains(t, rec.Body.String(), "pool closed")
}

func TestGetExchange(t *testing.T) {
	h := setup(nil, nil)
	created := do(h, http.MethodPost, "/exchanges", validBody)
	require.Equal(t, http.StatusCreated, created.Code)

	rec := do(h, http.MethodGet, created.Header().Get("Location"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, created.Body.String(), rec.Body.String())
}

func TestGetExchange_NotFound(t *testing.T) {
	h := setup(nil, nil)
	for _, id := range []string{"nope", "6f1c1f08-5b0e-4d6c-9d6a-2a9f7c0f3e11"} {
		rec := do(h, http.MethodGet, "/exchanges/"+id, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeError(t, rec)
		require.EqualValues(t, 404, body["code"])
		require.NotContains(t, body, "internalCode")
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := do(setup(nil, nil), http.MethodGet, "/quotes", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.EqualValues(t, 404, decodeError(t, rec)["code"])
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(setup(nil, nil), http.MethodDelete, "/exchanges", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	body := decodeError(t, rec)
	require.EqualValues(t, 405, body["code"])
	require.NotContains(t, body, "internalCode")
}

func TestPanicBecomesGeneric500(t *testing.T) {
	rates := rateFunc(func(context.Context, string, string, string) (decimal.Decimal, error) {
		panic("secret detail")
	})
	rec := do(setup(rates, nil), http.MethodPost, "/exchanges", validBody)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	require.EqualValues(t, 500, body["code"])
	require.NotContains(t, body, "internalCode")
	require.NotContains(t, rec.Body.String(), "secret detail")
}

func TestRequestIDPropagates(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	rec := httptest.NewRecorder()
	setup(nil, nil).ServeHTTP(rec, req)
	require.Equal(t, "rid-1", rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := setup(nil, nil)
	require.Equal(t, http.StatusCreated, do(h, http.MethodPost, "/exchanges", validBody).Code)

	rec := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "exchanges_created_total")
}

func TestCreateExchange_OversizedAmountRejectedQuickly(t *testing.T) {
	for _, amount := range []string{"1e20000000", "1e5000000", "1e-20000000"} {
		t.Run(amount, func(t *testing.T) {
			store := memstore.New()
			body := `{"createdAt":"2024-01-02T03:04:05Z","currencyFrom":"USD","currencyTo":"EUR","amountFrom":` + amount + `}`

			start := time.Now()
			rec := do(setup(nil, store), http.MethodPost, "/exchanges", body)
			require.Less(t, time.Since(start), time.Second)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.EqualValues(t, application.CodeMalformedPayload, decodeError(t, rec)["internalCode"])
			require.Less(t, rec.Body.Len(), 512)
			require.Zero(t, store.AddCalls())
		})
	}
}

func TestCreateExchange_LongCurrencyNotEchoed(t *testing.T) {
	long := strings.Repeat("Z", 4096)
	body := `{"createdAt":"2024-01-02T03:04:05Z","currencyFrom":"` + long + `","currencyTo":"EUR","amountFrom":1}`
	rec := do(setup(nil, nil), http.MethodPost, "/exchanges", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.EqualValues(t, application.CodeUnknownCurrency, decodeError(t, rec)["internalCode"])
	require.Less(t, rec.Body.Len(), 256)
}
