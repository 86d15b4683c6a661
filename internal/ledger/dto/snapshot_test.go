package dto

import (
	"encoding/json"
	"testing"
	"time"

	"golang-portfolio-ledger/internal/entity"
	"golang-portfolio-ledger/internal/ledger/accounting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_MarshalJSON(t *testing.T) {
	positions := []entity.Position{{ID: "cash-liquid", Symbol: "CASH", Name: "Cash (USD)", EntryPrice: 1, CurrentPrice: 1, Amount: 10, Invested: 10, IsCash: true}}
	history := []entity.PositionHistory{}
	s := Snapshot{
		Version:    SnapshotVersion,
		ExportDate: time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC),
		Portfolios: map[string]PortfolioSnapshot{
			"liquid": {Positions: &positions, History: &history},
		},
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.JSONEq(t, `"1.0"`, string(doc["version"]))
	assert.JSONEq(t, `"2026-10-19T08:30:00Z"`, string(doc["exportDate"]))
	assert.JSONEq(t, `[]`, string(doc["liquidHistory"]))
	assert.Contains(t, string(doc["liquidPositions"]), `"isCash":true`)
	assert.Len(t, doc, 4)
}

func TestSnapshot_UnmarshalJSON(t *testing.T) {
	t.Run("recognises portfolio keys", func(t *testing.T) {
		var s Snapshot
		err := json.Unmarshal([]byte(`{
			"liquidPositions": [{"id":"cash-liquid","symbol":"CASH","isCash":true,"amount":5,"invested":5}],
			"liquidHistory": [{"id":"h1","symbol":"BTC","pnl":12.5,"closedDate":"2026-10-01"}],
			"liquid2Positions": [],
			"theme": "dark",
			"exportDate": "2026-10-19T08:30:00Z",
			"version": "1.0"
		}`), &s)
		require.NoError(t, err)

		assert.Equal(t, "1.0", s.Version)
		require.Len(t, s.Portfolios, 2)

		liquid := s.Portfolios["liquid"]
		require.NotNil(t, liquid.Positions)
		require.NotNil(t, liquid.History)
		assert.Equal(t, 5.0, (*liquid.Positions)[0].Amount)
		assert.Equal(t, 12.5, (*liquid.History)[0].PnL)

		liquid2 := s.Portfolios["liquid2"]
		require.NotNil(t, liquid2.Positions)
		assert.Empty(t, *liquid2.Positions)
		assert.Nil(t, liquid2.History)
	})

	t.Run("null list is an empty list", func(t *testing.T) {
		var s Snapshot
		require.NoError(t, json.Unmarshal([]byte(`{"liquidHistory": null, "version":"1.0"}`), &s))
		require.NotNil(t, s.Portfolios["liquid"].History)
		assert.Empty(t, *s.Portfolios["liquid"].History)
	})

	t.Run("malformed", func(t *testing.T) {
		for name, body := range map[string]string{
			"not an object":     `[1,2]`,
			"positions object":  `{"liquidPositions": {"id": "x"}}`,
			"history string":    `{"liquidHistory": "nope"}`,
			"numeric version":   `{"version": 1}`,
			"non-numeric price": `{"liquidPositions": [{"id":"p","amount":"ten"}]}`,
		} {
			t.Run(name, func(t *testing.T) {
				var s Snapshot
				err := json.Unmarshal([]byte(body), &s)
				assert.ErrorIs(t, err, accounting.ErrFormat)
			})
		}
	})
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "monolith-portfolio-2026-10-19.json", FileName(time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC)))
}
