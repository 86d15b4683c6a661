package http

import (
	"net/http"

	"golang-portfolio-ledger/internal/ledger/dto"
	"golang-portfolio-ledger/internal/ledger/service"
	"golang-portfolio-ledger/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PriceHandler handles HTTP requests for market prices.
type PriceHandler struct {
	refreshService service.PriceRefreshService
	logger         *logger.Logger
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(refreshService service.PriceRefreshService, logger *logger.Logger) *PriceHandler {
	return &PriceHandler{refreshService: refreshService, logger: logger}
}

// RegisterRoutes registers the price routes to the Echo group.
func (h *PriceHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/prices", h.GetPrices)
	g.POST("/prices/refresh", h.RefreshPrices)
	g.GET("/coins/search", h.SearchCoins)
}

// GetPrices godoc
// @Summary Get cached prices
// @Description Get the last refreshed quote of every held symbol
// @Tags prices
// @Produce  json
// @Success 200 {object} dto.PriceStatusResponse
// @Router /prices [get]
func (h *PriceHandler) GetPrices(c echo.Context) error {
	prices, err := h.refreshService.CachedPrices(c.Request().Context())
	if err != nil {
		h.logger.Warn("Failed to read cached prices", logger.ErrorField(err))
		prices = []dto.CachedPrice{}
	}
	return c.JSON(http.StatusOK, dto.PriceStatusResponse{
		LastRefresh: h.refreshService.LastRefresh(),
		Prices:      prices,
	})
}

// RefreshPrices godoc
// @Summary Refresh prices now
// @Description Fetch the latest prices and apply them to every portfolio
// @Tags prices
// @Produce  json
// @Success 200 {object} dto.RefreshResult
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /prices/refresh [post]
func (h *PriceHandler) RefreshPrices(c echo.Context) error {
	result, err := h.refreshService.Refresh(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, result)
}

// SearchCoins godoc
// @Summary Search coins
// @Description Search coins by name or ticker
// @Tags prices
// @Produce  json
// @Param   q  query    string true    "Search text"
// @Success 200 {array} dto.CoinSearchResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /coins/search [get]
func (h *PriceHandler) SearchCoins(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q is required"})
	}
	results, err := h.refreshService.SearchCoins(c.Request().Context(), query)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, results)
}
