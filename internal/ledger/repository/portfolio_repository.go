package repository

import (
	"context"
	"time"

	"golang-portfolio-ledger/internal/entity"
	"golang-portfolio-ledger/internal/ledger/accounting"
	"golang-portfolio-ledger/internal/ledger/dto"

	"gorm.io/gorm"
)

// PortfolioRepository persists ledger operations that touch more than one
// row. Each method runs in a single transaction.
type PortfolioRepository interface {
	Open(ctx context.Context, position, cash entity.Position) error
	Close(ctx context.Context, entry entity.PositionHistory, cash entity.Position) error
	UpdateCash(ctx context.Context, cash entity.Position) error
	UpdatePrices(ctx context.Context, positions []entity.Position) error
	Reset(ctx context.Context, portfolio string) error
	Replace(ctx context.Context, books []accounting.Book) error
}

// NewPortfolioRepository creates a new GORM-based portfolio repository.
func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

type portfolioRepository struct {
	db *gorm.DB
}

func cashUpdate(cash entity.Position) dto.PositionUpdate {
	return dto.PositionUpdate{Amount: &cash.Amount, Invested: &cash.Invested}
}

// Open stores a new position together with the debited cash balance.
func (r *portfolioRepository) Open(ctx context.Context, position, cash entity.Position) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&position).Error; err != nil {
			return err
		}
		return updatePosition(tx, cash.ID, cashUpdate(cash))
	})
}

// Close moves a position into history and credits the cash balance.
func (r *portfolioRepository) Close(ctx context.Context, entry entity.PositionHistory, cash entity.Position) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		if err := deletePosition(tx, entry.ID); err != nil {
			return err
		}
		return updatePosition(tx, cash.ID, cashUpdate(cash))
	})
}

// UpdateCash stores a new cash balance.
func (r *portfolioRepository) UpdateCash(ctx context.Context, cash entity.Position) error {
	return updatePosition(r.db.WithContext(ctx), cash.ID, cashUpdate(cash))
}

// UpdatePrices stores the current price and 24h change of each position.
func (r *portfolioRepository) UpdatePrices(ctx context.Context, positions []entity.Position) error {
	if len(positions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range positions {
			update := dto.PositionUpdate{CurrentPrice: &p.CurrentPrice, Change24h: p.Change24h}
			if err := updatePosition(tx, p.ID, update); err != nil {
				return err
			}
		}
		return nil
	})
}

// Reset drops every position and history entry of a portfolio and recreates
// its zero-balance cash position.
func (r *portfolioRepository) Reset(ctx context.Context, portfolio string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearPortfolio(tx, portfolio); err != nil {
			return err
		}
		return ensureCash(tx, portfolio)
	})
}

// Replace overwrites the stored state of every given book.
func (r *portfolioRepository) Replace(ctx context.Context, books []accounting.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, b := range books {
			if err := clearPortfolio(tx, b.Name); err != nil {
				return err
			}
		}

		// Creation timestamps carry the list order so that reads return
		// rows the way they were written.
		base := time.Now()
		for _, b := range books {
			positions := make([]entity.Position, len(b.Positions))
			for i, p := range b.Positions {
				p.Portfolio = b.Name
				p.CreatedAt = base.Add(time.Duration(i) * time.Microsecond)
				p.UpdatedAt = base
				positions[i] = p
			}
			if len(positions) > 0 {
				if err := tx.Create(&positions).Error; err != nil {
					return err
				}
			}

			history := make([]entity.PositionHistory, len(b.History))
			for i, h := range b.History {
				h.Portfolio = b.Name
				h.CreatedAt = base.Add(-time.Duration(i) * time.Microsecond)
				history[i] = h
			}
			if len(history) > 0 {
				if err := tx.Create(&history).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func clearPortfolio(tx *gorm.DB, portfolio string) error {
	if err := tx.Where("portfolio = ?", portfolio).Delete(&entity.Position{}).Error; err != nil {
		return err
	}
	return tx.Where("portfolio = ?", portfolio).Delete(&entity.PositionHistory{}).Error
}
