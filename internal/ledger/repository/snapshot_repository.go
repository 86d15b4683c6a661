package repository

import (
	"context"

	"golang-portfolio-ledger/internal/entity"

	"gorm.io/gorm"
)

// SnapshotRepository defines the interface for archived snapshot operations.
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *entity.LedgerSnapshot) error
	FindAll(ctx context.Context) ([]entity.LedgerSnapshot, error)
	FindByID(ctx context.Context, id uint) (*entity.LedgerSnapshot, error)
}

// NewSnapshotRepository creates a new GORM-based snapshot repository.
func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

type snapshotRepository struct {
	db *gorm.DB
}

// Create archives a snapshot.
func (r *snapshotRepository) Create(ctx context.Context, snapshot *entity.LedgerSnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

// FindAll lists archived snapshots newest first, without their payload.
func (r *snapshotRepository) FindAll(ctx context.Context) ([]entity.LedgerSnapshot, error) {
	var snapshots []entity.LedgerSnapshot
	err := r.db.WithContext(ctx).
		Select("id", "reason", "portfolio", "created_at").
		Order("created_at DESC, id DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// FindByID retrieves an archived snapshot with its payload.
func (r *snapshotRepository) FindByID(ctx context.Context, id uint) (*entity.LedgerSnapshot, error) {
	var snapshot entity.LedgerSnapshot
	if err := r.db.WithContext(ctx).First(&snapshot, id).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}
