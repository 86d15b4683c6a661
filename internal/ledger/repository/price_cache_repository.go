package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"golang-portfolio-ledger/internal/ledger/accounting"
	"golang-portfolio-ledger/internal/ledger/dto"
	"golang-portfolio-ledger/pkg/common"

	"github.com/redis/go-redis/v9"
)

// PriceCacheRepository keeps the latest quote of every refreshed symbol.
type PriceCacheRepository interface {
	Save(ctx context.Context, prices accounting.Prices, at time.Time) error
	List(ctx context.Context) ([]dto.CachedPrice, error)
}

// NewPriceCacheRepository creates a Redis-backed price cache. Entries expire
// after ttl.
func NewPriceCacheRepository(client redis.Cmdable, ttl time.Duration) PriceCacheRepository {
	return &priceCacheRepository{client: client, ttl: ttl}
}

type priceCacheRepository struct {
	client redis.Cmdable
	ttl    time.Duration
}

// Save stores each quote in its own hash and records the symbol in the index.
func (r *priceCacheRepository) Save(ctx context.Context, prices accounting.Prices, at time.Time) error {
	if len(prices) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	for symbol, quote := range prices {
		key := fmt.Sprintf(common.RedisKeyLastPrice, symbol)
		pipe.HSet(ctx, key, map[string]interface{}{
			"price":      quote.Price,
			"change_24h": quote.Change24h,
			"timestamp":  at.Unix(),
		})
		pipe.Expire(ctx, key, r.ttl)
		pipe.SAdd(ctx, common.RedisKeyLastPriceIndex, symbol)
	}
	pipe.Expire(ctx, common.RedisKeyLastPriceIndex, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns every cached quote ordered by symbol. Expired entries are
// skipped.
func (r *priceCacheRepository) List(ctx context.Context) ([]dto.CachedPrice, error) {
	symbols, err := r.client.SMembers(ctx, common.RedisKeyLastPriceIndex).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(symbols)

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(symbols))
	for i, symbol := range symbols {
		cmds[i] = pipe.HGetAll(ctx, fmt.Sprintf(common.RedisKeyLastPrice, symbol))
	}
	if len(symbols) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, err
		}
	}

	prices := make([]dto.CachedPrice, 0, len(symbols))
	for i, symbol := range symbols {
		fields := cmds[i].Val()
		if len(fields) == 0 {
			continue
		}
		prices = append(prices, parseCachedPrice(symbol, fields))
	}
	return prices, nil
}

func parseCachedPrice(symbol string, fields map[string]string) dto.CachedPrice {
	price, _ := strconv.ParseFloat(fields["price"], 64)
	change, _ := strconv.ParseFloat(fields["change_24h"], 64)
	ts, _ := strconv.ParseInt(fields["timestamp"], 10, 64)
	return dto.CachedPrice{
		Symbol:    symbol,
		Price:     price,
		Change24h: change,
		UpdatedAt: time.Unix(ts, 0).UTC(),
	}
}
