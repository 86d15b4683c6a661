package entity

import (
	"time"

	"gorm.io/datatypes"
)

// LedgerSnapshot is an archived export taken before an irreversible
// operation (reset or import).
type LedgerSnapshot struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Reason    string         `gorm:"not null" json:"reason"`
	Portfolio string         `json:"portfolio,omitempty"`
	Data      datatypes.JSON `gorm:"type:jsonb;not null" json:"data,omitempty" swaggertype:"object"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (LedgerSnapshot) TableName() string {
	return "ledger_snapshots"
}
