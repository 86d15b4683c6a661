// Package accounting holds the ledger rules of a portfolio: opening and
// closing positions, moving cash, applying prices and computing the derived
// metrics. It has no knowledge of storage; callers persist the positions it
// returns.
package accounting

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"golang-portfolio-ledger/internal/entity"
	"golang-portfolio-ledger/pkg/common"
	"golang-portfolio-ledger/pkg/utils"
)

// Quote is the latest price of a symbol.
type Quote struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
}

// Prices maps a ticker symbol to its quote.
type Prices map[string]Quote

// Book is the in-memory state of one portfolio. It always holds exactly one
// cash position.
type Book struct {
	Name      string
	Positions []entity.Position
	History   []entity.PositionHistory
}

// CashPositionID is the id given to the cash position of a fresh portfolio.
func CashPositionID(portfolio string) string {
	return "cash-" + portfolio
}

// NewCashPosition returns a zero-balance cash position.
func NewCashPosition(portfolio string) entity.Position {
	return entity.Position{
		ID:           CashPositionID(portfolio),
		Portfolio:    portfolio,
		Symbol:       common.CashSymbol,
		Name:         "Cash (USD)",
		EntryPrice:   1,
		CurrentPrice: 1,
		Note:         "Available cash",
		IsCash:       true,
	}
}

// NewBook returns an empty portfolio with a zero-balance cash position.
func NewBook(name string) Book {
	return Book{
		Name:      name,
		Positions: []entity.Position{NewCashPosition(name)},
		History:   []entity.PositionHistory{},
	}
}

// RestoreBook builds a book from stored or imported rows and checks the
// invariants a book must hold.
func RestoreBook(name string, positions []entity.Position, history []entity.PositionHistory) (Book, error) {
	seen := make(map[string]bool, len(positions))
	cash := 0
	for _, p := range positions {
		if p.ID == "" {
			return Book{}, fmt.Errorf("%w: portfolio %q has a position without id", ErrFormat, name)
		}
		if seen[p.ID] {
			return Book{}, fmt.Errorf("%w: portfolio %q has duplicate position id %q", ErrFormat, name, p.ID)
		}
		seen[p.ID] = true

		if !finite(p.EntryPrice) || !finite(p.CurrentPrice) || !finite(p.Amount) || !finite(p.Invested) {
			return Book{}, fmt.Errorf("%w: position %q has a non-numeric value", ErrFormat, p.ID)
		}
		if p.IsCash != (p.Symbol == common.CashSymbol) {
			return Book{}, fmt.Errorf("%w: position %q: symbol %s reserved for the cash position", ErrFormat, p.ID, common.CashSymbol)
		}
		if p.IsCash {
			cash++
			if p.Amount != p.Invested {
				return Book{}, fmt.Errorf("%w: cash position %q amount %v differs from invested %v", ErrFormat, p.ID, p.Amount, p.Invested)
			}
			if p.Amount < 0 {
				return Book{}, fmt.Errorf("%w: cash position %q is negative", ErrFormat, p.ID)
			}
			if p.EntryPrice != 1 || p.CurrentPrice != 1 {
				return Book{}, fmt.Errorf("%w: cash position %q must be priced at 1", ErrFormat, p.ID)
			}
		}
	}
	if cash != 1 {
		return Book{}, fmt.Errorf("%w: portfolio %q has %d cash positions, want exactly 1", ErrFormat, name, cash)
	}

	seenHistory := make(map[string]bool, len(history))
	for _, h := range history {
		if h.ID == "" {
			return Book{}, fmt.Errorf("%w: portfolio %q has a history entry without id", ErrFormat, name)
		}
		if seenHistory[h.ID] {
			return Book{}, fmt.Errorf("%w: portfolio %q has duplicate history id %q", ErrFormat, name, h.ID)
		}
		seenHistory[h.ID] = true
	}

	b := Book{
		Name:      name,
		Positions: make([]entity.Position, len(positions)),
		History:   make([]entity.PositionHistory, len(history)),
	}
	copy(b.Positions, positions)
	copy(b.History, history)
	for i := range b.Positions {
		b.Positions[i].Portfolio = name
	}
	for i := range b.History {
		b.History[i].Portfolio = name
	}
	return b, nil
}

// Clone returns a deep copy of the book.
func (b Book) Clone() Book {
	return Book{
		Name:      b.Name,
		Positions: slices.Clone(b.Positions),
		History:   slices.Clone(b.History),
	}
}

func (b *Book) cashIndex() int {
	return slices.IndexFunc(b.Positions, func(p entity.Position) bool { return p.IsCash })
}

// Cash returns the cash position.
func (b Book) Cash() entity.Position {
	if i := b.cashIndex(); i >= 0 {
		return b.Positions[i]
	}
	return NewCashPosition(b.Name)
}

// Position returns the open position with the given id.
func (b Book) Position(id string) (entity.Position, bool) {
	i := slices.IndexFunc(b.Positions, func(p entity.Position) bool { return p.ID == id })
	if i < 0 {
		return entity.Position{}, false
	}
	return b.Positions[i], true
}

// Symbols returns the distinct non-cash symbols in position order.
func (b Book) Symbols() []string {
	var symbols []string
	for _, p := range b.Positions {
		if p.IsCash || slices.Contains(symbols, p.Symbol) {
			continue
		}
		symbols = append(symbols, p.Symbol)
	}
	return symbols
}

// Open funds p from the cash balance and appends it to the open positions.
// p.ID must already be assigned. Nothing changes when an error is returned.
func (b *Book) Open(p entity.Position) (entity.Position, error) {
	p.Symbol = strings.ToUpper(strings.TrimSpace(p.Symbol))
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		p.Name = p.Symbol
	}
	if err := validateNewPosition(p); err != nil {
		return entity.Position{}, err
	}
	if _, exists := b.Position(p.ID); exists {
		return entity.Position{}, fmt.Errorf("%w: position id %q already exists", ErrValidation, p.ID)
	}

	ci := b.cashIndex()
	if ci < 0 {
		return entity.Position{}, fmt.Errorf("%w: portfolio %q has no cash position", ErrFormat, b.Name)
	}

	invested := mul(p.EntryPrice, p.Amount)
	if !finite(invested) || !finite(mul(p.CurrentPrice, p.Amount)) {
		return entity.Position{}, outOfRange("position value")
	}
	cash := &b.Positions[ci]
	if err := b.checkCash(*cash); err != nil {
		return entity.Position{}, err
	}
	if dec(invested).GreaterThan(dec(cash.Amount)) {
		return entity.Position{}, fmt.Errorf("%w: need $%.2f but only $%.2f available", ErrInsufficientFunds, invested, cash.Amount)
	}

	p.Portfolio = b.Name
	p.Invested = invested
	p.IsCash = false
	cash.Amount = sub(cash.Amount, invested)
	cash.Invested = sub(cash.Invested, invested)
	b.Positions = append(b.Positions, p)
	return p, nil
}

func validateNewPosition(p entity.Position) error {
	if p.ID == "" {
		return fmt.Errorf("%w: position id is required", ErrValidation)
	}
	if p.Symbol == "" {
		return fmt.Errorf("%w: symbol is required", ErrValidation)
	}
	if p.Symbol == common.CashSymbol || p.IsCash {
		return fmt.Errorf("%w: symbol %s is reserved", ErrValidation, common.CashSymbol)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"entryPrice", p.EntryPrice},
		{"currentPrice", p.CurrentPrice},
		{"amount", p.Amount},
	} {
		if !finite(f.value) {
			return fmt.Errorf("%w: %s must be a number", ErrValidation, f.name)
		}
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrValidation, f.name)
		}
	}
	return nil
}

// Close moves the position into history at its current price and credits
// the exit value to cash. It returns the history entry and the updated cash
// position.
func (b *Book) Close(id, closedDate string) (entity.PositionHistory, entity.Position, error) {
	idx := slices.IndexFunc(b.Positions, func(p entity.Position) bool { return p.ID == id })
	if idx < 0 {
		return entity.PositionHistory{}, entity.Position{}, fmt.Errorf("%w: position %q in portfolio %q", ErrNotFound, id, b.Name)
	}
	p := b.Positions[idx]
	if p.IsCash {
		return entity.PositionHistory{}, entity.Position{}, fmt.Errorf("%w: cash position %q cannot be closed", ErrNotFound, id)
	}

	ci := b.cashIndex()
	if ci < 0 {
		return entity.PositionHistory{}, entity.Position{}, fmt.Errorf("%w: portfolio %q has no cash position", ErrFormat, b.Name)
	}
	if !finite(p.Amount) || !finite(p.CurrentPrice) || !finite(p.EntryPrice) {
		return entity.PositionHistory{}, entity.Position{}, fmt.Errorf("%w: position %q has a non-numeric value", ErrFormat, p.ID)
	}
	if err := b.checkCash(b.Positions[ci]); err != nil {
		return entity.PositionHistory{}, entity.Position{}, err
	}
	exitValue := mul(p.Amount, p.CurrentPrice)
	pnl := mul(sub(p.CurrentPrice, p.EntryPrice), p.Amount)
	balance := add(b.Positions[ci].Amount, exitValue)
	if !finite(exitValue) || !finite(pnl) || !finite(balance) {
		return entity.PositionHistory{}, entity.Position{}, outOfRange("exit value")
	}
	entry := entity.PositionHistory{
		ID:           p.ID,
		Portfolio:    b.Name,
		Symbol:       p.Symbol,
		Name:         p.Name,
		EntryPrice:   p.EntryPrice,
		CurrentPrice: p.CurrentPrice,
		ExitPrice:    p.CurrentPrice,
		Amount:       p.Amount,
		Invested:     p.Invested,
		PnL:          pnl,
		Note:         p.Note,
		Change24h:    p.Change24h,
		ClosedDate:   closedDate,
	}

	cash := b.Positions[ci]
	cash.Amount = balance
	cash.Invested = add(cash.Invested, exitValue)
	b.Positions[ci] = cash
	b.Positions = slices.Delete(b.Positions, idx, idx+1)
	b.History = append([]entity.PositionHistory{entry}, b.History...)
	return entry, cash, nil
}

// Deposit adds amount to the cash balance.
func (b *Book) Deposit(amount float64) (entity.Position, error) {
	if err := validateCashAmount(amount); err != nil {
		return entity.Position{}, err
	}
	ci := b.cashIndex()
	if ci < 0 {
		return entity.Position{}, fmt.Errorf("%w: portfolio %q has no cash position", ErrFormat, b.Name)
	}
	cash := &b.Positions[ci]
	if err := b.checkCash(*cash); err != nil {
		return entity.Position{}, err
	}
	balance := add(cash.Amount, amount)
	if !finite(balance) {
		return entity.Position{}, outOfRange("cash balance")
	}
	cash.Amount = balance
	cash.Invested = balance
	return *cash, nil
}

// Withdraw removes amount from the cash balance.
func (b *Book) Withdraw(amount float64) (entity.Position, error) {
	if err := validateCashAmount(amount); err != nil {
		return entity.Position{}, err
	}
	ci := b.cashIndex()
	if ci < 0 {
		return entity.Position{}, fmt.Errorf("%w: portfolio %q has no cash position", ErrFormat, b.Name)
	}
	cash := &b.Positions[ci]
	if err := b.checkCash(*cash); err != nil {
		return entity.Position{}, err
	}
	if dec(amount).GreaterThan(dec(cash.Amount)) {
		return entity.Position{}, fmt.Errorf("%w: cannot remove $%.2f, only $%.2f available", ErrInsufficientFunds, amount, cash.Amount)
	}
	cash.Amount = sub(cash.Amount, amount)
	cash.Invested = sub(cash.Invested, amount)
	return *cash, nil
}

func (b *Book) checkCash(cash entity.Position) error {
	if !finite(cash.Amount) || !finite(cash.Invested) {
		return fmt.Errorf("%w: cash balance of %q is not a number", ErrFormat, b.Name)
	}
	return nil
}

func validateCashAmount(amount float64) error {
	if !finite(amount) {
		return fmt.Errorf("%w: amount must be a number", ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	return nil
}

// ApplyPrices sets the current price and 24h change of every non-cash
// position whose symbol has a quote. It returns the positions it touched.
func (b *Book) ApplyPrices(prices Prices) []entity.Position {
	var changed []entity.Position
	for i := range b.Positions {
		p := &b.Positions[i]
		if p.IsCash {
			continue
		}
		q, ok := prices[p.Symbol]
		if !ok || !finite(q.Price) || !finite(q.Change24h) || !finite(p.Amount) || !finite(mul(p.Amount, q.Price)) {
			continue
		}
		p.CurrentPrice = q.Price
		p.Change24h = utils.ToPointer(q.Change24h)
		changed = append(changed, *p)
	}
	return changed
}

// Reset drops every position and history entry and starts over with a
// zero-balance cash position.
func (b *Book) Reset() {
	fresh := NewBook(b.Name)
	b.Positions = fresh.Positions
	b.History = fresh.History
}

// SortHistory orders entries most recent first. Entries closed on the same
// day keep their relative order.
func SortHistory(history []entity.PositionHistory) {
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].ClosedDate > history[j].ClosedDate
	})
}
