package entity

import "time"

// Position is an open holding of a portfolio, or its cash placeholder.
// For the cash position EntryPrice and CurrentPrice are 1 and Amount equals
// Invested (the spendable balance).
type Position struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Portfolio    string    `gorm:"not null;index" json:"-"`
	Symbol       string    `gorm:"not null" json:"symbol"`
	Name         string    `gorm:"not null" json:"name"`
	EntryPrice   float64   `gorm:"not null" json:"entryPrice"`
	CurrentPrice float64   `gorm:"not null" json:"currentPrice"`
	Amount       float64   `gorm:"not null" json:"amount"`
	Invested     float64   `gorm:"not null" json:"invested"`
	Note         string    `json:"note"`
	IsCash       bool      `gorm:"not null;default:false" json:"isCash"`
	Change24h    *float64  `gorm:"column:change_24h" json:"change24h,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Position) TableName() string {
	return "positions"
}
