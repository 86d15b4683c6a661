package accounting

import (
	"testing"

	"golang-portfolio-ledger/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cashOf(portfolio string, amount float64) entity.Position {
	c := NewCashPosition(portfolio)
	c.Amount, c.Invested = amount, amount
	return c
}

func held(id, symbol string, entry, current, amount float64) entity.Position {
	return entity.Position{
		ID:           id,
		Symbol:       symbol,
		EntryPrice:   entry,
		CurrentPrice: current,
		Amount:       amount,
		Invested:     entry * amount,
	}
}

func TestComputeMetrics(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		m := ComputeMetrics(nil)

		assert.Zero(t, m.TotalValue)
		assert.Zero(t, m.TotalGain)
		assert.Zero(t, m.GainPercentage)
		assert.Equal(t, NoPerformer, m.BestPerformer)
		assert.Equal(t, "-", m.BestPerformer.Symbol)
		assert.Zero(t, m.TotalAssets)
	})

	t.Run("cash only", func(t *testing.T) {
		m := ComputeMetrics([]entity.Position{cashOf("liquid", 1000)})

		assert.Equal(t, 1000.0, m.TotalValue)
		assert.Zero(t, m.TotalGain)
		assert.Zero(t, m.GainPercentage)
		assert.Equal(t, NoPerformer, m.BestPerformer)
		assert.Equal(t, 1, m.TotalAssets)
	})

	t.Run("mixed", func(t *testing.T) {
		positions := []entity.Position{
			cashOf("liquid", 9000),
			held("p1", "BTC", 100, 150, 10),
			held("p2", "ETH", 10, 8, 50),
		}
		m := ComputeMetrics(positions)

		assert.Equal(t, 9000.0+1500+400, m.TotalValue)
		assert.Equal(t, 9000.0+1000+500, m.TotalInvested)
		assert.Equal(t, 400.0, m.TotalGain)
		assert.InDelta(t, 400.0/10500*100, m.GainPercentage, 1e-9)
		assert.Equal(t, Performer{Symbol: "BTC", Return: 50}, m.BestPerformer)
		assert.Equal(t, 3, m.TotalAssets)
	})

	t.Run("ties keep the first position", func(t *testing.T) {
		m := ComputeMetrics([]entity.Position{
			held("p1", "SOL", 10, 20, 1),
			held("p2", "ETH", 10, 20, 1),
		})
		assert.Equal(t, "SOL", m.BestPerformer.Symbol)
	})

	t.Run("all returns negative", func(t *testing.T) {
		m := ComputeMetrics([]entity.Position{
			cashOf("liquid", 10),
			held("p1", "SOL", 10, 5, 1),
		})
		assert.Equal(t, NoPerformer, m.BestPerformer)
	})

	t.Run("non positive invested gives zero percentage", func(t *testing.T) {
		p := held("p1", "BTC", 10, 20, 1)
		p.Invested = 0
		m := ComputeMetrics([]entity.Position{p})
		assert.Equal(t, 20.0, m.TotalGain)
		assert.Zero(t, m.GainPercentage)

		p.Invested = -5
		m = ComputeMetrics([]entity.Position{p})
		assert.Zero(t, m.GainPercentage)
	})
}

func TestComputeAllocation(t *testing.T) {
	t.Run("zero total value", func(t *testing.T) {
		assert.Empty(t, ComputeAllocation(nil))
		assert.Empty(t, ComputeAllocation([]entity.Position{cashOf("liquid", 0)}))
	})

	t.Run("groups by symbol", func(t *testing.T) {
		allocation := ComputeAllocation([]entity.Position{
			cashOf("liquid", 500),
			held("p1", "BTC", 100, 100, 2),
			held("p2", "ETH", 10, 10, 30),
			held("p3", "BTC", 50, 100, 1),
		})

		require.Len(t, allocation, 3)
		assert.Equal(t, "CASH", allocation[0].Name)
		assert.Equal(t, "BTC", allocation[1].Name)
		assert.Equal(t, 300.0, allocation[1].Value)
		assert.Equal(t, "ETH", allocation[2].Name)
		assert.InDelta(t, 300.0/1100*100, allocation[1].Percentage, 1e-9)

		total := 0.0
		for _, s := range allocation {
			total += s.Percentage
		}
		assert.InDelta(t, 100.0, total, 1e-9)
	})
}

func TestComputeSummary(t *testing.T) {
	a := Book{Name: "liquid", Positions: []entity.Position{
		cashOf("liquid", 500),
		held("a1", "BTC", 100, 120, 1),
	}, History: []entity.PositionHistory{{ID: "h1", ClosedDate: "2026-10-01"}}}
	b := Book{Name: "liquid2", Positions: []entity.Position{
		cashOf("liquid2", 300),
		held("b1", "ETH", 10, 15, 2),
	}, History: []entity.PositionHistory{{ID: "h2", ClosedDate: "2026-10-05"}}}

	s := ComputeSummary(a, b)

	require.Len(t, s.Positions, 3)
	cash := s.Positions[0]
	assert.True(t, cash.IsCash)
	assert.Equal(t, "cash-summary", cash.ID)
	assert.Equal(t, 800.0, cash.Amount)
	assert.Equal(t, 800.0, cash.Invested)
	assert.Equal(t, "a1", s.Positions[1].ID)
	assert.Equal(t, "b1", s.Positions[2].ID)

	assert.Equal(t, 800.0+120+30, s.Metrics.TotalValue)
	assert.Equal(t, 800.0+100+20, s.Metrics.TotalInvested)
	assert.Equal(t, 3, s.Metrics.TotalAssets)
	assert.Equal(t, Performer{Symbol: "ETH", Return: 50}, s.Metrics.BestPerformer)

	require.Len(t, s.History, 2)
	assert.Equal(t, "h2", s.History[0].ID)

	require.Len(t, s.Allocation, 3)
	assert.Equal(t, "CASH", s.Allocation[0].Name)

	// the source books are not modified
	assert.Equal(t, 500.0, a.Cash().Amount)
	assert.Equal(t, 300.0, b.Cash().Amount)
}

func TestComputeSummary_BestPerformerTie(t *testing.T) {
	a := Book{Name: "liquid", Positions: []entity.Position{cashOf("liquid", 0), held("a1", "SOL", 10, 20, 1)}}
	b := Book{Name: "liquid2", Positions: []entity.Position{cashOf("liquid2", 0), held("b1", "ETH", 10, 20, 1)}}

	assert.Equal(t, "SOL", ComputeSummary(a, b).Metrics.BestPerformer.Symbol)
	assert.Equal(t, "ETH", ComputeSummary(b, a).Metrics.BestPerformer.Symbol)
}

func TestComputeSummary_Empty(t *testing.T) {
	s := ComputeSummary(NewBook("liquid"), NewBook("liquid2"))

	require.Len(t, s.Positions, 1)
	assert.Zero(t, s.Positions[0].Amount)
	assert.Empty(t, s.Allocation)
	assert.Equal(t, NoPerformer, s.Metrics.BestPerformer)
	assert.Zero(t, s.Metrics.GainPercentage)
}
