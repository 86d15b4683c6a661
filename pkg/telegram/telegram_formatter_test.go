package telegram

import (
	"testing"
	"time"

	"golang-portfolio-ledger/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestFormatClosedPosition(t *testing.T) {
	entry := entity.PositionHistory{
		Symbol:     "BTC",
		EntryPrice: 100,
		ExitPrice:  150,
		Amount:     10,
		Invested:   1000,
		PnL:        500,
		ClosedDate: "2026-10-19",
	}
	cash := entity.Position{Amount: 10500}

	msg := FormatClosedPosition("liquid_2", entry, cash)

	assert.Contains(t, msg, "Position Closed: BTC")
	assert.Contains(t, msg, "liquid\\_2")
	assert.Contains(t, msg, "+$500.00 (50.00%)")
	assert.Contains(t, msg, "Available cash: $10500.00")
	assert.Contains(t, msg, "2026-10-19")

	entry.PnL = -250
	assert.Contains(t, FormatClosedPosition("liquid", entry, cash), "-$250.00 (-25.00%)")
}

func TestFormatPortfolioReset(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	msg := FormatPortfolioReset("liquid", 7, at)
	assert.Contains(t, msg, "Portfolio Reset: liquid")
	assert.Contains(t, msg, "snapshot #7")

	assert.NotContains(t, FormatPortfolioReset("liquid", 0, at), "snapshot #")
}

func TestFormatSnapshotImported(t *testing.T) {
	msg := FormatSnapshotImported([]string{"liquid", "liquid2"}, 3, time.Now())
	assert.Contains(t, msg, "liquid, liquid2")
	assert.Contains(t, msg, "snapshot #3")
}

func TestNewNotifier_WithoutToken(t *testing.T) {
	n, err := NewNotifier("", 0)
	assert.NoError(t, err)
	assert.IsType(t, NopNotifier{}, n)
	assert.NoError(t, n.SendMessage("hello"))
}
