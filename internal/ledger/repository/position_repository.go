package repository

import (
	"context"
	"errors"

	"golang-portfolio-ledger/internal/entity"
	"golang-portfolio-ledger/internal/ledger/accounting"
	"golang-portfolio-ledger/internal/ledger/dto"

	"gorm.io/gorm"
)

// positionOrder keeps the cash position first and the rest in the order
// they were opened.
const positionOrder = "is_cash DESC, created_at ASC, id ASC"

// PositionRepository defines the interface for open position data operations.
type PositionRepository interface {
	List(ctx context.Context, portfolio string) ([]entity.Position, error)
	Create(ctx context.Context, portfolio string, position *entity.Position) error
	Update(ctx context.Context, id string, update dto.PositionUpdate) error
	Delete(ctx context.Context, id string) error
	EnsureInitialized(ctx context.Context, portfolio string) error
}

// NewPositionRepository creates a new GORM-based position repository.
func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{db: db}
}

type positionRepository struct {
	db *gorm.DB
}

// List returns the open positions of a portfolio, cash first.
func (r *positionRepository) List(ctx context.Context, portfolio string) ([]entity.Position, error) {
	var positions []entity.Position
	err := r.db.WithContext(ctx).
		Where("portfolio = ?", portfolio).
		Order(positionOrder).
		Find(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}

// Create stores a new position under the given portfolio.
func (r *positionRepository) Create(ctx context.Context, portfolio string, position *entity.Position) error {
	position.Portfolio = portfolio
	return r.db.WithContext(ctx).Create(position).Error
}

// Update changes the mutable fields of a position.
func (r *positionRepository) Update(ctx context.Context, id string, update dto.PositionUpdate) error {
	return updatePosition(r.db.WithContext(ctx), id, update)
}

// Delete removes a position by its ID.
func (r *positionRepository) Delete(ctx context.Context, id string) error {
	return deletePosition(r.db.WithContext(ctx), id)
}

// EnsureInitialized creates the zero-balance cash position of a portfolio
// that has none yet.
func (r *positionRepository) EnsureInitialized(ctx context.Context, portfolio string) error {
	return ensureCash(r.db.WithContext(ctx), portfolio)
}

func updatePosition(db *gorm.DB, id string, update dto.PositionUpdate) error {
	if update.IsEmpty() {
		return nil
	}
	result := db.Model(&entity.Position{}).Where("id = ?", id).Updates(update.Columns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func deletePosition(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&entity.Position{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func ensureCash(db *gorm.DB, portfolio string) error {
	var cash entity.Position
	err := db.Where("portfolio = ? AND is_cash = ?", portfolio, true).Take(&cash).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	cash = accounting.NewCashPosition(portfolio)
	return db.Create(&cash).Error
}
