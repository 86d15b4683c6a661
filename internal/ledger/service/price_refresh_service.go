package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang-portfolio-ledger/internal/ledger/config"
	"golang-portfolio-ledger/internal/ledger/dto"
	"golang-portfolio-ledger/internal/ledger/repository"
	"golang-portfolio-ledger/pkg/logger"

	"github.com/robfig/cron/v3"
)

// ErrPriceUnavailable is returned when the price provider could not be reached.
var ErrPriceUnavailable = errors.New("price lookup unavailable")

// PriceRefreshService keeps position prices current.
type PriceRefreshService interface {
	Start(ctx context.Context)
	Refresh(ctx context.Context) (*dto.RefreshResult, error)
	LastRefresh() *time.Time
	CachedPrices(ctx context.Context) ([]dto.CachedPrice, error)
	SearchCoins(ctx context.Context, query string) ([]dto.CoinSearchResult, error)
}

// NewPriceRefreshService creates a new price refresh service.
func NewPriceRefreshService(cfg *config.Config, ledger LedgerService, priceRepo repository.PriceRepository, priceCache repository.PriceCacheRepository, logger *logger.Logger) PriceRefreshService {
	return &priceRefreshService{
		cfg:        cfg,
		ledger:     ledger,
		priceRepo:  priceRepo,
		priceCache: priceCache,
		logger:     logger,
		now:        time.Now,
	}
}

type priceRefreshService struct {
	cfg        *config.Config
	ledger     LedgerService
	priceRepo  repository.PriceRepository
	priceCache repository.PriceCacheRepository
	logger     *logger.Logger
	now        func() time.Time

	mu          sync.RWMutex
	lastRefresh *time.Time
}

// Start refreshes once right away and then on every configured interval
// until ctx is done.
func (s *priceRefreshService) Start(ctx context.Context) {
	if s.cfg.PriceRefresh.Disabled {
		s.logger.Info("Price refresh disabled")
		return
	}

	c := cron.New()
	spec := fmt.Sprintf("@every %s", s.cfg.PriceRefresh.Interval)
	if _, err := c.AddFunc(spec, func() { s.runScheduled(ctx) }); err != nil {
		s.logger.Error("Failed to schedule price refresh", logger.ErrorField(err), logger.StringField("spec", spec))
		return
	}

	s.logger.Info("Price refresh service starting", logger.StringField("interval", s.cfg.PriceRefresh.Interval.String()))
	c.Start()
	go s.runScheduled(ctx)

	<-ctx.Done()
	s.logger.Info("Price refresh service stopping")
	<-c.Stop().Done()
}

func (s *priceRefreshService) runScheduled(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Warn("Scheduled price refresh failed, keeping previous prices", logger.ErrorField(err))
	}
}

// Refresh fetches prices for every held symbol and applies them to the
// ledger. A lookup failure leaves the ledger untouched.
func (s *priceRefreshService) Refresh(ctx context.Context) (*dto.RefreshResult, error) {
	symbols := s.ledger.Symbols()
	result := &dto.RefreshResult{Symbols: symbols, Missing: []string{}}
	if len(symbols) == 0 {
		result.RefreshedAt = s.markRefreshed()
		return result, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.cfg.PriceRefresh.Timeout)
	defer cancel()
	prices, err := s.priceRepo.GetPrices(lookupCtx, symbols)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPriceUnavailable, err)
	}

	for _, symbol := range symbols {
		if _, ok := prices[symbol]; !ok {
			result.Missing = append(result.Missing, symbol)
		}
	}

	updated, err := s.ledger.ApplyPriceUpdate(ctx, prices)
	if err != nil {
		return nil, err
	}
	result.Updated = updated
	result.RefreshedAt = s.markRefreshed()

	if err := s.priceCache.Save(ctx, prices, result.RefreshedAt); err != nil {
		s.logger.WarnContext(ctx, "Failed to cache prices", logger.ErrorField(err))
	}

	s.logger.DebugContext(ctx, "Prices refreshed",
		logger.IntField("symbols", len(symbols)),
		logger.IntField("updated", updated),
		logger.IntField("missing", len(result.Missing)),
	)
	return result, nil
}

func (s *priceRefreshService) markRefreshed() time.Time {
	now := s.now()
	s.mu.Lock()
	s.lastRefresh = &now
	s.mu.Unlock()
	return now
}

// LastRefresh returns the time of the last successful refresh, if any.
func (s *priceRefreshService) LastRefresh() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastRefresh == nil {
		return nil
	}
	t := *s.lastRefresh
	return &t
}

// CachedPrices returns the quotes stored by earlier refreshes.
func (s *priceRefreshService) CachedPrices(ctx context.Context) ([]dto.CachedPrice, error) {
	return s.priceCache.List(ctx)
}

// SearchCoins looks up coins by name or ticker.
func (s *priceRefreshService) SearchCoins(ctx context.Context, query string) ([]dto.CoinSearchResult, error) {
	results, err := s.priceRepo.SearchCoins(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPriceUnavailable, err)
	}
	return results, nil
}
