package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang-portfolio-ledger/internal/ledger/config"
	"golang-portfolio-ledger/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoinGecko(t *testing.T, handler http.HandlerFunc) (PriceRepository, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{CoinGecko: config.CoinGecko{
		BaseURL:             server.URL,
		Timeout:             2 * time.Second,
		MaxRequestPerMinute: 6000,
		CacheTTL:            time.Minute,
	}}
	return NewCoinGeckoRepository(cfg, logger.NewNop()), &calls
}

func TestCoinID(t *testing.T) {
	assert.Equal(t, "bitcoin", CoinID("btc"))
	assert.Equal(t, "avalanche-2", CoinID("AVAX"))
	assert.Equal(t, "pepe", CoinID("PEPE"))
}

func TestCoinGeckoRepository_GetPrices(t *testing.T) {
	repo, calls := newTestCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin,ethereum,unknowncoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "true", r.URL.Query().Get("include_24hr_change"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"bitcoin": {"usd": 65000.5, "usd_24h_change": 1.25},
			"ethereum": {"usd": 3200}
		}`))
	})

	ctx := context.Background()
	prices, err := repo.GetPrices(ctx, []string{"BTC", "eth", "CASH", "BTC", "UNKNOWNCOIN"})
	require.NoError(t, err)

	require.Len(t, prices, 2)
	assert.Equal(t, 65000.5, prices["BTC"].Price)
	assert.Equal(t, 1.25, prices["BTC"].Change24h)
	assert.Equal(t, 3200.0, prices["ETH"].Price)
	assert.Zero(t, prices["ETH"].Change24h)
	_, found := prices["UNKNOWNCOIN"]
	assert.False(t, found)

	// identical id sets are served from the in-memory cache
	_, err = repo.GetPrices(ctx, []string{"UNKNOWNCOIN", "ETH", "BTC"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestCoinGeckoRepository_GetPricesEmpty(t *testing.T) {
	repo, calls := newTestCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	prices, err := repo.GetPrices(context.Background(), []string{"CASH", ""})
	require.NoError(t, err)
	assert.Empty(t, prices)
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestCoinGeckoRepository_Errors(t *testing.T) {
	t.Run("non-OK status", func(t *testing.T) {
		repo, _ := newTestCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		_, err := repo.GetPrices(context.Background(), []string{"BTC"})
		assert.Error(t, err)
	})

	t.Run("invalid body", func(t *testing.T) {
		repo, _ := newTestCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		})
		_, err := repo.GetPrices(context.Background(), []string{"BTC"})
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		repo, _ := newTestCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := repo.GetPrices(ctx, []string{"BTC"})
		assert.Error(t, err)
	})
}

func TestCoinGeckoRepository_SearchCoins(t *testing.T) {
	repo, _ := newTestCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "sol", r.URL.Query().Get("query"))
		body := `{"coins":[`
		for i := 0; i < 12; i++ {
			if i > 0 {
				body += ","
			}
			body += `{"id":"solana","symbol":"sol","name":"Solana"}`
		}
		body += `]}`
		_, _ = w.Write([]byte(body))
	})

	results, err := repo.SearchCoins(context.Background(), " sol ")
	require.NoError(t, err)
	require.Len(t, results, 10)
	assert.Equal(t, "SOL", results[0].Symbol)
	assert.Equal(t, "solana", results[0].ID)

	empty, err := repo.SearchCoins(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
