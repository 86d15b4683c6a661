package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang-portfolio-ledger/internal/entity"
	"golang-portfolio-ledger/internal/ledger/accounting"
	"golang-portfolio-ledger/internal/ledger/dto"
	"golang-portfolio-ledger/internal/ledger/service"
	"golang-portfolio-ledger/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLedgerService struct {
	mock.Mock
}

func (m *mockLedgerService) Load(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *mockLedgerService) Portfolios() []string {
	return m.Called().Get(0).([]string)
}

func (m *mockLedgerService) Symbols() []string {
	return m.Called().Get(0).([]string)
}

func (m *mockLedgerService) View(name string) (*dto.PortfolioView, error) {
	args := m.Called(name)
	view, _ := args.Get(0).(*dto.PortfolioView)
	return view, args.Error(1)
}

func (m *mockLedgerService) OpenPosition(ctx context.Context, portfolio string, req dto.OpenPositionRequest) (*entity.Position, error) {
	args := m.Called(ctx, portfolio, req)
	p, _ := args.Get(0).(*entity.Position)
	return p, args.Error(1)
}

func (m *mockLedgerService) ClosePosition(ctx context.Context, portfolio, id string) (*dto.CloseResponse, error) {
	args := m.Called(ctx, portfolio, id)
	resp, _ := args.Get(0).(*dto.CloseResponse)
	return resp, args.Error(1)
}

func (m *mockLedgerService) DepositCash(ctx context.Context, portfolio string, amount float64) (*entity.Position, error) {
	args := m.Called(ctx, portfolio, amount)
	p, _ := args.Get(0).(*entity.Position)
	return p, args.Error(1)
}

func (m *mockLedgerService) WithdrawCash(ctx context.Context, portfolio string, amount float64) (*entity.Position, error) {
	args := m.Called(ctx, portfolio, amount)
	p, _ := args.Get(0).(*entity.Position)
	return p, args.Error(1)
}

func (m *mockLedgerService) ApplyPriceUpdate(ctx context.Context, prices accounting.Prices) (int, error) {
	args := m.Called(ctx, prices)
	return args.Int(0), args.Error(1)
}

func (m *mockLedgerService) Reset(ctx context.Context, portfolio string) (uint, error) {
	args := m.Called(ctx, portfolio)
	return args.Get(0).(uint), args.Error(1)
}

func (m *mockLedgerService) Export(ctx context.Context) (*dto.Snapshot, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*dto.Snapshot)
	return s, args.Error(1)
}

func (m *mockLedgerService) Import(ctx context.Context, snapshot dto.Snapshot) (*dto.ImportResult, error) {
	args := m.Called(ctx, snapshot)
	r, _ := args.Get(0).(*dto.ImportResult)
	return r, args.Error(1)
}

func (m *mockLedgerService) Archives(ctx context.Context) ([]dto.ArchiveResponse, error) {
	args := m.Called(ctx)
	a, _ := args.Get(0).([]dto.ArchiveResponse)
	return a, args.Error(1)
}

func (m *mockLedgerService) Archive(ctx context.Context, id uint) (*entity.LedgerSnapshot, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*entity.LedgerSnapshot)
	return a, args.Error(1)
}

type mockRefreshService struct {
	mock.Mock
}

func (m *mockRefreshService) Start(ctx context.Context) { m.Called(ctx) }

func (m *mockRefreshService) Refresh(ctx context.Context) (*dto.RefreshResult, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*dto.RefreshResult)
	return r, args.Error(1)
}

func (m *mockRefreshService) LastRefresh() *time.Time {
	t, _ := m.Called().Get(0).(*time.Time)
	return t
}

func (m *mockRefreshService) CachedPrices(ctx context.Context) ([]dto.CachedPrice, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]dto.CachedPrice)
	return p, args.Error(1)
}

func (m *mockRefreshService) SearchCoins(ctx context.Context, query string) ([]dto.CoinSearchResult, error) {
	args := m.Called(ctx, query)
	r, _ := args.Get(0).([]dto.CoinSearchResult)
	return r, args.Error(1)
}

func newTestServer(ledger *mockLedgerService, prices *mockRefreshService) *echo.Echo {
	e := echo.New()
	log := logger.NewNop()
	api := e.Group("/api/v1")
	NewPortfolioHandler(ledger, log).RegisterRoutes(api.Group("/portfolios"))
	NewSnapshotHandler(ledger, log).RegisterRoutes(api)
	NewPriceHandler(prices, log).RegisterRoutes(api)
	return e
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: amount", accounting.ErrValidation), http.StatusBadRequest},
		{accounting.ErrReadOnly, http.StatusBadRequest},
		{accounting.ErrFormat, http.StatusBadRequest},
		{accounting.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{accounting.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: write: %w", accounting.ErrPersistence, errors.New("conn reset")), http.StatusServiceUnavailable},
		{service.ErrPriceUnavailable, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, errorStatus(tc.err), tc.err.Error())
	}
}

func TestPortfolioHandler(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		ledger := &mockLedgerService{}
		ledger.On("Portfolios").Return([]string{"liquid", "liquid2"})
		rec := doRequest(newTestServer(ledger, &mockRefreshService{}), http.MethodGet, "/api/v1/portfolios", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"portfolios":["liquid","liquid2"],"summary":"summary"}`, rec.Body.String())
	})

	t.Run("view unknown portfolio", func(t *testing.T) {
		ledger := &mockLedgerService{}
		ledger.On("View", "nope").Return(nil, fmt.Errorf("%w: portfolio %q", accounting.ErrNotFound, "nope"))
		rec := doRequest(newTestServer(ledger, &mockRefreshService{}), http.MethodGet, "/api/v1/portfolios/nope", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, decodeError(t, rec), "nope")
	})

	t.Run("open position", func(t *testing.T) {
		ledger := &mockLedgerService{}
		ledger.On("OpenPosition", mock.Anything, "liquid", mock.MatchedBy(func(req dto.OpenPositionRequest) bool {
			return req.Symbol == "BTC" && *req.Amount == 2
		})).Return(&entity.Position{ID: "p1", Symbol: "BTC", Invested: 200}, nil)

		rec := doRequest(newTestServer(ledger, &mockRefreshService{}), http.MethodPost, "/api/v1/portfolios/liquid/positions",
			`{"symbol":"BTC","entryPrice":100,"currentPrice":100,"amount":2}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"p1"`)
		ledger.AssertExpectations(t)
	})

	t.Run("open position insufficient funds", func(t *testing.T) {
		ledger := &mockLedgerService{}
		ledger.On("OpenPosition", mock.Anything, "liquid", mock.Anything).
			Return(nil, fmt.Errorf("%w: need $200.00 but only $10.00 available", accounting.ErrInsufficientFunds))

		rec := doRequest(newTestServer(ledger, &mockRefreshService{}), http.MethodPost, "/api/v1/portfolios/liquid/positions",
			`{"symbol":"BTC","entryPrice":100,"currentPrice":100,"amount":2}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeError(t, rec), "$10.00 available")
	})

	t.Run("close position persistence failure hides cause", func(t *testing.T) {
		ledger := &mockLedgerService{}
		ledger.On("ClosePosition", mock.Anything, "liquid", "p1").
			Return(nil, fmt.Errorf("%w: close: %w", accounting.ErrPersistence, errors.New("pq: connection refused")))

		rec := doRequest(newTestServer(ledger, &mockRefreshService{}), http.MethodDelete, "/api/v1/portfolios/liquid/positions/p1", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, persistenceMessage, decodeError(t, rec))
	})

	t.Run("deposit", func(t *testing.T) {
		ledger := &mockLedgerService{}
		ledger.On("DepositCash", mock.Anything, "liquid", 250.0).Return(&entity.Position{ID: "cash-liquid", Amount: 250}, nil)

		rec := doRequest(newTestServer(ledger, &mockRefreshService{}), http.MethodPost, "/api/v1/portfolios/liquid/cash/deposit", `{"amount":250}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		ledger.AssertExpectations(t)
	})

	t.Run("withdraw without amount", func(t *testing.T) {
		ledger := &mockLedgerService{}
		rec := doRequest(newTestServer(ledger, &mockRefreshService{}), http.MethodPost, "/api/v1/portfolios/liquid/cash/withdraw", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "amount is required", decodeError(t, rec))
		ledger.AssertNotCalled(t, "WithdrawCash", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("withdraw from summary", func(t *testing.T) {
		ledger := &mockLedgerService{}
		ledger.On("WithdrawCash", mock.Anything, "summary", 5.0).Return(nil, accounting.ErrReadOnly)
		rec := doRequest(newTestServer(ledger, &mockRefreshService{}), http.MethodPost, "/api/v1/portfolios/summary/cash/withdraw", `{"amount":5}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("reset requires confirmation", func(t *testing.T) {
		ledger := &mockLedgerService{}
		rec := doRequest(newTestServer(ledger, &mockRefreshService{}), http.MethodPost, "/api/v1/portfolios/liquid/reset", `{"confirm":false}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		ledger.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
	})

	t.Run("reset", func(t *testing.T) {
		ledger := &mockLedgerService{}
		ledger.On("Reset", mock.Anything, "liquid").Return(uint(4), nil)
		rec := doRequest(newTestServer(ledger, &mockRefreshService{}), http.MethodPost, "/api/v1/portfolios/liquid/reset", `{"confirm":true}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"portfolio":"liquid","archiveId":4}`, rec.Body.String())
	})
}

func TestSnapshotHandler(t *testing.T) {
	t.Run("export is an attachment", func(t *testing.T) {
		positions := []entity.Position{{ID: "cash-liquid", Symbol: "CASH", IsCash: true}}
		ledger := &mockLedgerService{}
		ledger.On("Export", mock.Anything).Return(&dto.Snapshot{
			Version:    dto.SnapshotVersion,
			ExportDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
			Portfolios: map[string]dto.PortfolioSnapshot{"liquid": {Positions: &positions}},
		}, nil)

		rec := doRequest(newTestServer(ledger, &mockRefreshService{}), http.MethodGet, "/api/v1/snapshot", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `attachment; filename="monolith-portfolio-2026-10-19.json"`, rec.Header().Get(echo.HeaderContentDisposition))
		assert.Contains(t, rec.Body.String(), `"liquidPositions"`)
		assert.Contains(t, rec.Body.String(), `"version":"1.0"`)
	})

	t.Run("import", func(t *testing.T) {
		ledger := &mockLedgerService{}
		ledger.On("Import", mock.Anything, mock.MatchedBy(func(s dto.Snapshot) bool {
			return s.Version == "1.0" && s.Portfolios["liquid"].Positions != nil
		})).Return(&dto.ImportResult{Imported: []string{"liquid"}, ArchivedID: 2}, nil)

		rec := doRequest(newTestServer(ledger, &mockRefreshService{}), http.MethodPost, "/api/v1/snapshot",
			`{"version":"1.0","liquidPositions":[]}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"imported":["liquid"],"archivedId":2}`, rec.Body.String())
	})

	t.Run("import malformed", func(t *testing.T) {
		ledger := &mockLedgerService{}
		rec := doRequest(newTestServer(ledger, &mockRefreshService{}), http.MethodPost, "/api/v1/snapshot", `{"liquidPositions": 3}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		ledger.AssertNotCalled(t, "Import", mock.Anything, mock.Anything)
	})

	t.Run("archive", func(t *testing.T) {
		ledger := &mockLedgerService{}
		ledger.On("Archive", mock.Anything, uint(3)).Return(&entity.LedgerSnapshot{ID: 3, Reason: "reset", Data: []byte(`{"version":"1.0"}`)}, nil)
		ledger.On("Archive", mock.Anything, uint(9)).Return(nil, accounting.ErrNotFound)
		e := newTestServer(ledger, &mockRefreshService{})

		rec := doRequest(e, http.MethodGet, "/api/v1/archives/3", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":{"version":"1.0"}`)

		assert.Equal(t, http.StatusNotFound, doRequest(e, http.MethodGet, "/api/v1/archives/9", "").Code)
		assert.Equal(t, http.StatusBadRequest, doRequest(e, http.MethodGet, "/api/v1/archives/abc", "").Code)
	})
}

func TestPriceHandler(t *testing.T) {
	t.Run("cached prices", func(t *testing.T) {
		refreshed := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
		prices := &mockRefreshService{}
		prices.On("CachedPrices", mock.Anything).Return([]dto.CachedPrice{{Symbol: "BTC", Price: 1}}, nil)
		prices.On("LastRefresh").Return(&refreshed)

		rec := doRequest(newTestServer(&mockLedgerService{}, prices), http.MethodGet, "/api/v1/prices", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"lastRefresh":"2026-10-19T10:00:00Z"`)
		assert.Contains(t, rec.Body.String(), `"symbol":"BTC"`)
	})

	t.Run("refresh failure", func(t *testing.T) {
		prices := &mockRefreshService{}
		prices.On("Refresh", mock.Anything).Return(nil, fmt.Errorf("%w: timeout", service.ErrPriceUnavailable))

		rec := doRequest(newTestServer(&mockLedgerService{}, prices), http.MethodPost, "/api/v1/prices/refresh", "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("search", func(t *testing.T) {
		prices := &mockRefreshService{}
		prices.On("SearchCoins", mock.Anything, "sol").Return([]dto.CoinSearchResult{{ID: "solana", Symbol: "SOL", Name: "Solana"}}, nil)
		e := newTestServer(&mockLedgerService{}, prices)

		rec := doRequest(e, http.MethodGet, "/api/v1/coins/search?q=sol", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"id":"solana","symbol":"SOL","name":"Solana"}]`, rec.Body.String())

		assert.Equal(t, http.StatusBadRequest, doRequest(e, http.MethodGet, "/api/v1/coins/search", "").Code)
	})
}
