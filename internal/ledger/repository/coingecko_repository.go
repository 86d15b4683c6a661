package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"
	"time"

	"golang-portfolio-ledger/internal/ledger/accounting"
	"golang-portfolio-ledger/internal/ledger/config"
	"golang-portfolio-ledger/internal/ledger/dto"
	"golang-portfolio-ledger/pkg/common"
	"golang-portfolio-ledger/pkg/logger"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxSearchResults = 10

// coinIDs maps common tickers to CoinGecko coin ids. Tickers not listed here
// are looked up by their lower-cased symbol.
var coinIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"USDT":  "tether",
	"USDC":  "usd-coin",
	"BNB":   "binancecoin",
	"XRP":   "ripple",
	"ADA":   "cardano",
	"AVAX":  "avalanche-2",
	"DOGE":  "dogecoin",
	"DOT":   "polkadot",
	"MATIC": "matic-network",
	"LINK":  "chainlink",
	"UNI":   "uniswap",
	"ATOM":  "cosmos",
	"LTC":   "litecoin",
	"NEAR":  "near",
	"AAVE":  "aave",
	"FIL":   "filecoin",
	"APT":   "aptos",
	"ARB":   "arbitrum",
	"OP":    "optimism",
	"INJ":   "injective-protocol",
	"SUI":   "sui",
	"STX":   "blockstack",
}

// CoinID returns the CoinGecko id used for a ticker symbol.
func CoinID(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if id, ok := coinIDs[symbol]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// PriceRepository looks up the latest market prices of ticker symbols.
type PriceRepository interface {
	GetPrices(ctx context.Context, symbols []string) (accounting.Prices, error)
	SearchCoins(ctx context.Context, query string) ([]dto.CoinSearchResult, error)
}

type coinGeckoRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	cache          *cache.Cache
}

// NewCoinGeckoRepository creates a price repository backed by the CoinGecko API.
func NewCoinGeckoRepository(cfg *config.Config, log *logger.Logger) PriceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.CoinGecko.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	return &coinGeckoRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.CoinGecko.Timeout,
		},
		requestLimiter: requestLimiter,
		cache:          cache.New(cfg.CoinGecko.CacheTTL, 2*cfg.CoinGecko.CacheTTL),
	}
}

// GetPrices returns a quote for every symbol the provider knows. Unknown
// symbols are absent from the result.
func (r *coinGeckoRepository) GetPrices(ctx context.Context, symbols []string) (accounting.Prices, error) {
	symbolsByID := make(map[string][]string)
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || s == common.CashSymbol {
			continue
		}
		id := CoinID(s)
		if !slices.Contains(symbolsByID[id], s) {
			symbolsByID[id] = append(symbolsByID[id], s)
		}
	}
	prices := make(accounting.Prices)
	if len(symbolsByID) == 0 {
		return prices, nil
	}

	ids := make([]string, 0, len(symbolsByID))
	for id := range symbolsByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	response, err := r.fetchSimplePrice(ctx, ids)
	if err != nil {
		return nil, err
	}

	for id, quote := range response {
		if quote.USD == nil {
			continue
		}
		change := 0.0
		if quote.USD24hChange != nil {
			change = *quote.USD24hChange
		}
		for _, s := range symbolsByID[id] {
			prices[s] = accounting.Quote{Price: *quote.USD, Change24h: change}
		}
	}

	r.log.DebugContext(ctx, "CoinGecko prices fetched",
		logger.IntField("requested", len(ids)),
		logger.IntField("found", len(prices)),
	)
	return prices, nil
}

func (r *coinGeckoRepository) fetchSimplePrice(ctx context.Context, ids []string) (map[string]dto.CoinGeckoPrice, error) {
	key := "simple_price:" + strings.Join(ids, ",")
	if cached, found := r.cache.Get(key); found {
		return cached.(map[string]dto.CoinGeckoPrice), nil
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", "usd")
	query.Set("include_24hr_change", "true")

	body, err := r.sendRequest(ctx, http.MethodGet, r.cfg.CoinGecko.BaseURL+"/simple/price?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var response map[string]dto.CoinGeckoPrice
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode CoinGecko price response: %w", err)
	}

	r.cache.SetDefault(key, response)
	return response, nil
}

// SearchCoins returns the first coins matching query.
func (r *coinGeckoRepository) SearchCoins(ctx context.Context, query string) ([]dto.CoinSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []dto.CoinSearchResult{}, nil
	}

	key := "search:" + strings.ToLower(query)
	if cached, found := r.cache.Get(key); found {
		return cached.([]dto.CoinSearchResult), nil
	}

	body, err := r.sendRequest(ctx, http.MethodGet, r.cfg.CoinGecko.BaseURL+"/search?query="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	var response dto.CoinGeckoSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode CoinGecko search response: %w", err)
	}

	results := make([]dto.CoinSearchResult, 0, maxSearchResults)
	for _, coin := range response.Coins {
		if len(results) >= maxSearchResults {
			break
		}
		results = append(results, dto.CoinSearchResult{
			ID:     coin.ID,
			Symbol: strings.ToUpper(coin.Symbol),
			Name:   coin.Name,
		})
	}

	r.cache.SetDefault(key, results)
	return results, nil
}

func (r *coinGeckoRepository) sendRequest(ctx context.Context, method string, url string) ([]byte, error) {
	fields := []zap.Field{
		zap.String("url", url),
		zap.Int("max_request_per_minute", r.cfg.CoinGecko.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if r.cfg.CoinGecko.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", r.cfg.CoinGecko.APIKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to CoinGecko API", fields...)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		r.log.ErrorContext(ctx, "Received non-OK response from CoinGecko API", fields...)
		return nil, fmt.Errorf("coingecko returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to read response body from CoinGecko API", fields...)
		return nil, err
	}

	return body, nil
}
