package entity

import "time"

// PositionHistory is a closed position. Rows are never updated.
type PositionHistory struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Portfolio    string    `gorm:"not null;index" json:"-"`
	Symbol       string    `gorm:"not null" json:"symbol"`
	Name         string    `gorm:"not null" json:"name"`
	EntryPrice   float64   `gorm:"not null" json:"entryPrice"`
	CurrentPrice float64   `gorm:"not null" json:"currentPrice"`
	ExitPrice    float64   `gorm:"not null" json:"exitPrice"`
	Amount       float64   `gorm:"not null" json:"amount"`
	Invested     float64   `gorm:"not null" json:"invested"`
	PnL          float64   `gorm:"column:pnl;not null" json:"pnl"`
	Note         string    `json:"note"`
	Change24h    *float64  `gorm:"column:change_24h" json:"change24h,omitempty"`
	ClosedDate   string    `gorm:"type:varchar(10);not null;index" json:"closedDate"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"-"`
}

func (PositionHistory) TableName() string {
	return "position_history"
}
