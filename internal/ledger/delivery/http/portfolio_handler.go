package http

import (
	"errors"
	"net/http"

	"golang-portfolio-ledger/internal/ledger/dto"
	"golang-portfolio-ledger/internal/ledger/service"
	"golang-portfolio-ledger/pkg/common"
	"golang-portfolio-ledger/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PortfolioHandler handles HTTP requests for portfolios.
type PortfolioHandler struct {
	ledgerService service.LedgerService
	logger        *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(ledgerService service.LedgerService, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{ledgerService: ledgerService, logger: logger}
}

// RegisterRoutes registers the portfolio routes to the Echo group.
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListPortfolios)
	g.GET("/:name", h.GetPortfolio)
	g.POST("/:name/positions", h.OpenPosition)
	g.DELETE("/:name/positions/:id", h.ClosePosition)
	g.POST("/:name/cash/deposit", h.DepositCash)
	g.POST("/:name/cash/withdraw", h.WithdrawCash)
	g.POST("/:name/reset", h.ResetPortfolio)
}

// ListPortfolios godoc
// @Summary List portfolios
// @Description List the configured portfolios and the name of the summary view
// @Tags portfolios
// @Produce  json
// @Success 200 {object} dto.PortfolioListResponse
// @Router /portfolios [get]
func (h *PortfolioHandler) ListPortfolios(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.PortfolioListResponse{
		Portfolios: h.ledgerService.Portfolios(),
		Summary:    common.SummaryPortfolio,
	})
}

// GetPortfolio godoc
// @Summary Get a portfolio
// @Description Get positions, history, metrics and allocation of a portfolio or of the summary view
// @Tags portfolios
// @Produce  json
// @Param   name  path    string true    "Portfolio name or summary"
// @Success 200 {object} dto.PortfolioView
// @Failure 404 {object} dto.ErrorResponse
// @Router /portfolios/{name} [get]
func (h *PortfolioHandler) GetPortfolio(c echo.Context) error {
	view, err := h.ledgerService.View(c.Param("name"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, view)
}

// OpenPosition godoc
// @Summary Open a position
// @Description Open a position funded from the portfolio's cash
// @Tags positions
// @Accept  json
// @Produce  json
// @Param   name      path    string                    true    "Portfolio name"
// @Param   position  body    dto.OpenPositionRequest   true    "Position to open"
// @Success 201 {object} entity.Position
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /portfolios/{name}/positions [post]
func (h *PortfolioHandler) OpenPosition(c echo.Context) error {
	var req dto.OpenPositionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	position, err := h.ledgerService.OpenPosition(c.Request().Context(), c.Param("name"), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, position)
}

// ClosePosition godoc
// @Summary Close a position
// @Description Close a position at its current price and credit the proceeds to cash
// @Tags positions
// @Produce  json
// @Param   name  path    string true    "Portfolio name"
// @Param   id    path    string true    "Position ID"
// @Success 200 {object} dto.CloseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /portfolios/{name}/positions/{id} [delete]
func (h *PortfolioHandler) ClosePosition(c echo.Context) error {
	resp, err := h.ledgerService.ClosePosition(c.Request().Context(), c.Param("name"), c.Param("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// DepositCash godoc
// @Summary Deposit cash
// @Tags cash
// @Accept  json
// @Produce  json
// @Param   name    path    string            true    "Portfolio name"
// @Param   amount  body    dto.CashRequest   true    "Amount to deposit"
// @Success 200 {object} entity.Position
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /portfolios/{name}/cash/deposit [post]
func (h *PortfolioHandler) DepositCash(c echo.Context) error {
	amount, err := bindAmount(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	cash, err := h.ledgerService.DepositCash(c.Request().Context(), c.Param("name"), amount)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, cash)
}

// WithdrawCash godoc
// @Summary Withdraw cash
// @Tags cash
// @Accept  json
// @Produce  json
// @Param   name    path    string            true    "Portfolio name"
// @Param   amount  body    dto.CashRequest   true    "Amount to withdraw"
// @Success 200 {object} entity.Position
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /portfolios/{name}/cash/withdraw [post]
func (h *PortfolioHandler) WithdrawCash(c echo.Context) error {
	amount, err := bindAmount(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	cash, err := h.ledgerService.WithdrawCash(c.Request().Context(), c.Param("name"), amount)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, cash)
}

func bindAmount(c echo.Context) (float64, error) {
	var req dto.CashRequest
	if err := c.Bind(&req); err != nil {
		return 0, errors.New("Invalid request payload")
	}
	if req.Amount == nil {
		return 0, errors.New("amount is required")
	}
	return *req.Amount, nil
}

// ResetPortfolio godoc
// @Summary Reset a portfolio
// @Description Archive the portfolio and clear every position and history entry. Requires {"confirm": true}.
// @Tags portfolios
// @Accept  json
// @Produce  json
// @Param   name     path    string             true    "Portfolio name"
// @Param   confirm  body    dto.ResetRequest   true    "Confirmation"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /portfolios/{name}/reset [post]
func (h *PortfolioHandler) ResetPortfolio(c echo.Context) error {
	var req dto.ResetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if !req.Confirm {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Reset must be confirmed with {\"confirm\": true}"})
	}

	archiveID, err := h.ledgerService.Reset(c.Request().Context(), c.Param("name"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"portfolio": c.Param("name"), "archiveId": archiveID})
}
