package dto

import (
	"golang-portfolio-ledger/internal/entity"
	"golang-portfolio-ledger/internal/ledger/accounting"
)

// PortfolioView is everything a dashboard needs to render one portfolio or
// the summary.
type PortfolioView struct {
	Portfolio     string                       `json:"portfolio"`
	ReadOnly      bool                         `json:"readOnly"`
	AvailableCash float64                      `json:"availableCash"`
	Metrics       accounting.Metrics           `json:"metrics"`
	Allocation    []accounting.AllocationSlice `json:"allocation"`
	Positions     []entity.Position            `json:"positions"`
	History       []entity.PositionHistory     `json:"history"`
}

// PortfolioListResponse lists the configured portfolios.
type PortfolioListResponse struct {
	Portfolios []string `json:"portfolios"`
	Summary    string   `json:"summary"`
}
