package dto

import "time"

// CoinGeckoPrice is one entry of the /simple/price response.
type CoinGeckoPrice struct {
	USD          *float64 `json:"usd"`
	USD24hChange *float64 `json:"usd_24h_change"`
}

// CoinGeckoSearchResponse is the /search response.
type CoinGeckoSearchResponse struct {
	Coins []CoinSearchResult `json:"coins"`
}

// CoinSearchResult is one coin matching a search query.
type CoinSearchResult struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// CachedPrice is the last quote stored for a symbol.
type CachedPrice struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Change24h float64   `json:"change24h"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RefreshResult summarises one price refresh.
type RefreshResult struct {
	Symbols     []string  `json:"symbols"`
	Missing     []string  `json:"missing"`
	Updated     int       `json:"updated"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

// PriceStatusResponse is returned by GET /prices.
type PriceStatusResponse struct {
	LastRefresh *time.Time    `json:"lastRefresh"`
	Prices      []CachedPrice `json:"prices"`
}
