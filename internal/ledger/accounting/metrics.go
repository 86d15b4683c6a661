package accounting

import (
	"golang-portfolio-ledger/internal/entity"
	"golang-portfolio-ledger/pkg/common"

	"github.com/shopspring/decimal"
)

// Performer is a symbol and its return in percent.
type Performer struct {
	Symbol string  `json:"symbol"`
	Return float64 `json:"return"`
}

// NoPerformer is reported when no position has a positive return.
var NoPerformer = Performer{Symbol: "-", Return: 0}

// Metrics are the headline figures of a list of positions.
type Metrics struct {
	TotalValue     float64   `json:"totalValue"`
	TotalInvested  float64   `json:"totalInvested"`
	TotalGain      float64   `json:"totalGain"`
	GainPercentage float64   `json:"gainPercentage"`
	BestPerformer  Performer `json:"bestPerformer"`
	TotalAssets    int       `json:"totalAssets"`
}

// AllocationSlice is the share of total value held in one symbol.
type AllocationSlice struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// Summary is the merged, read-only view across portfolios.
type Summary struct {
	Positions  []entity.Position        `json:"positions"`
	History    []entity.PositionHistory `json:"history"`
	Metrics    Metrics                  `json:"metrics"`
	Allocation []AllocationSlice        `json:"allocation"`
}

// PositionReturn is the unrealised return of p in percent. Cash returns 0.
func PositionReturn(p entity.Position) float64 {
	if p.IsCash || p.EntryPrice <= 0 || !finite(p.EntryPrice) || !finite(p.CurrentPrice) {
		return 0
	}
	return dec(p.CurrentPrice).Sub(dec(p.EntryPrice)).Div(dec(p.EntryPrice)).Mul(hundred).InexactFloat64()
}

// ComputeMetrics totals value and invested capital over positions. The gain
// percentage is 0 whenever the invested total is not positive. The best
// performer is the first position with the strictly highest positive return.
func ComputeMetrics(positions []entity.Position) Metrics {
	value := decimal.Zero
	invested := decimal.Zero
	best := NoPerformer
	for _, p := range positions {
		value = value.Add(dec(p.Amount).Mul(dec(p.CurrentPrice)))
		invested = invested.Add(dec(p.Invested))
		if r := PositionReturn(p); r > best.Return {
			best = Performer{Symbol: p.Symbol, Return: r}
		}
	}

	gain := value.Sub(invested)
	percentage := 0.0
	if invested.IsPositive() {
		percentage = gain.Div(invested).Mul(hundred).InexactFloat64()
	}

	return Metrics{
		TotalValue:     value.InexactFloat64(),
		TotalInvested:  invested.InexactFloat64(),
		TotalGain:      gain.InexactFloat64(),
		GainPercentage: percentage,
		BestPerformer:  best,
		TotalAssets:    len(positions),
	}
}

// ComputeAllocation groups current value by symbol, in order of first
// appearance. It is empty when the total value is zero.
func ComputeAllocation(positions []entity.Position) []AllocationSlice {
	total := decimal.Zero
	groups := make(map[string]decimal.Decimal)
	var order []string
	for _, p := range positions {
		v := dec(p.Amount).Mul(dec(p.CurrentPrice))
		total = total.Add(v)
		if _, ok := groups[p.Symbol]; !ok {
			order = append(order, p.Symbol)
		}
		groups[p.Symbol] = groups[p.Symbol].Add(v)
	}

	allocation := []AllocationSlice{}
	if !total.IsPositive() {
		return allocation
	}
	for _, symbol := range order {
		v := groups[symbol]
		allocation = append(allocation, AllocationSlice{
			Name:       symbol,
			Value:      v.InexactFloat64(),
			Percentage: v.Div(total).Mul(hundred).InexactFloat64(),
		})
	}
	return allocation
}

// NewSummaryCash is the display-only cash position of the summary view.
func NewSummaryCash(amount float64) entity.Position {
	return entity.Position{
		ID:           "cash-summary",
		Portfolio:    common.SummaryPortfolio,
		Symbol:       common.CashSymbol,
		Name:         "Cash (USD)",
		EntryPrice:   1,
		CurrentPrice: 1,
		Amount:       amount,
		Invested:     amount,
		Note:         "Combined available cash",
		IsCash:       true,
	}
}

// ComputeSummary merges books into one view: a single synthetic cash position
// holding the combined balance followed by every non-cash position. The best
// performer is the best of each book's own best performer, earlier books
// winning ties.
func ComputeSummary(books ...Book) Summary {
	cash := decimal.Zero
	var nonCash []entity.Position
	history := []entity.PositionHistory{}
	best := NoPerformer
	for i, b := range books {
		for _, p := range b.Positions {
			if p.IsCash {
				cash = cash.Add(dec(p.Amount))
				continue
			}
			nonCash = append(nonCash, p)
		}
		history = append(history, b.History...)

		bookBest := ComputeMetrics(b.Positions).BestPerformer
		if i == 0 || bookBest.Return > best.Return {
			best = bookBest
		}
	}
	SortHistory(history)

	positions := append([]entity.Position{NewSummaryCash(cash.InexactFloat64())}, nonCash...)
	metrics := ComputeMetrics(positions)
	metrics.BestPerformer = best

	return Summary{
		Positions:  positions,
		History:    history,
		Metrics:    metrics,
		Allocation: ComputeAllocation(positions),
	}
}
