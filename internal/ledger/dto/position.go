package dto

import (
	"fmt"

	"golang-portfolio-ledger/internal/entity"
	"golang-portfolio-ledger/internal/ledger/accounting"
)

// OpenPositionRequest is the DTO for opening a new position.
type OpenPositionRequest struct {
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	EntryPrice   *float64 `json:"entryPrice"`
	CurrentPrice *float64 `json:"currentPrice"`
	Amount       *float64 `json:"amount"`
	Note         string   `json:"note"`
}

// Validate checks that every required field is present.
func (r OpenPositionRequest) Validate() error {
	switch {
	case r.Symbol == "":
		return fmt.Errorf("%w: symbol is required", accounting.ErrValidation)
	case r.EntryPrice == nil:
		return fmt.Errorf("%w: entryPrice is required", accounting.ErrValidation)
	case r.CurrentPrice == nil:
		return fmt.Errorf("%w: currentPrice is required", accounting.ErrValidation)
	case r.Amount == nil:
		return fmt.Errorf("%w: amount is required", accounting.ErrValidation)
	}
	return nil
}

// ToPosition converts the request into an unfunded position. Call Validate first.
func (r OpenPositionRequest) ToPosition(id string) entity.Position {
	return entity.Position{
		ID:           id,
		Symbol:       r.Symbol,
		Name:         r.Name,
		EntryPrice:   *r.EntryPrice,
		CurrentPrice: *r.CurrentPrice,
		Amount:       *r.Amount,
		Note:         r.Note,
	}
}

// CashRequest is the DTO for deposits and withdrawals.
type CashRequest struct {
	Amount *float64 `json:"amount"`
}

// ResetRequest must carry an explicit confirmation.
type ResetRequest struct {
	Confirm bool `json:"confirm"`
}

// PositionUpdate lists the fields of a stored position that may change
// after it was opened. Nil fields are left as they are.
type PositionUpdate struct {
	CurrentPrice *float64
	Change24h    *float64
	Amount       *float64
	Invested     *float64
}

// IsEmpty reports whether no field is set.
func (u PositionUpdate) IsEmpty() bool {
	return u.CurrentPrice == nil && u.Change24h == nil && u.Amount == nil && u.Invested == nil
}

// Columns maps the set fields to their column names.
func (u PositionUpdate) Columns() map[string]interface{} {
	columns := make(map[string]interface{})
	if u.CurrentPrice != nil {
		columns["current_price"] = *u.CurrentPrice
	}
	if u.Change24h != nil {
		columns["change_24h"] = *u.Change24h
	}
	if u.Amount != nil {
		columns["amount"] = *u.Amount
	}
	if u.Invested != nil {
		columns["invested"] = *u.Invested
	}
	return columns
}

// CloseResponse is returned after a position was closed.
type CloseResponse struct {
	History entity.PositionHistory `json:"history"`
	Cash    entity.Position        `json:"cash"`
}
