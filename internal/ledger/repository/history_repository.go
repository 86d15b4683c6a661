package repository

import (
	"context"

	"golang-portfolio-ledger/internal/entity"

	"gorm.io/gorm"
)

// historyOrder lists the most recently closed positions first.
const historyOrder = "closed_date DESC, created_at DESC, id ASC"

// HistoryRepository defines the interface for closed position data operations.
type HistoryRepository interface {
	List(ctx context.Context, portfolio string) ([]entity.PositionHistory, error)
	Append(ctx context.Context, portfolio string, entry *entity.PositionHistory) error
}

// NewHistoryRepository creates a new GORM-based history repository.
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

type historyRepository struct {
	db *gorm.DB
}

// List returns the closed positions of a portfolio, newest first.
func (r *historyRepository) List(ctx context.Context, portfolio string) ([]entity.PositionHistory, error) {
	var history []entity.PositionHistory
	err := r.db.WithContext(ctx).
		Where("portfolio = ?", portfolio).
		Order(historyOrder).
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// Append stores a closed position.
func (r *historyRepository) Append(ctx context.Context, portfolio string, entry *entity.PositionHistory) error {
	entry.Portfolio = portfolio
	return r.db.WithContext(ctx).Create(entry).Error
}
