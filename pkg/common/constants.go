package common

const (
	// CashSymbol marks the per-portfolio cash placeholder.
	CashSymbol = "CASH"

	// SummaryPortfolio is the computed, non-persisted view across all portfolios.
	SummaryPortfolio = "summary"

	// RedisKeyLastPrice holds the latest quote of a symbol.
	RedisKeyLastPrice = "last_price:%s"
	// RedisKeyLastPriceIndex is the set of symbols with a cached quote.
	RedisKeyLastPriceIndex = "last_price:symbols"
)
