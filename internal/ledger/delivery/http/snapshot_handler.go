package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang-portfolio-ledger/internal/ledger/accounting"
	"golang-portfolio-ledger/internal/ledger/dto"
	"golang-portfolio-ledger/internal/ledger/service"
	"golang-portfolio-ledger/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SnapshotHandler handles export, import and archived snapshots.
type SnapshotHandler struct {
	ledgerService service.LedgerService
	logger        *logger.Logger
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(ledgerService service.LedgerService, logger *logger.Logger) *SnapshotHandler {
	return &SnapshotHandler{ledgerService: ledgerService, logger: logger}
}

// RegisterRoutes registers the snapshot routes to the Echo group.
func (h *SnapshotHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/snapshot", h.Export)
	g.POST("/snapshot", h.Import)
	g.GET("/archives", h.ListArchives)
	g.GET("/archives/:id", h.GetArchive)
}

// Export godoc
// @Summary Export every portfolio
// @Description Download positions and history of every portfolio as a JSON snapshot
// @Tags snapshot
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Router /snapshot [get]
func (h *SnapshotHandler) Export(c echo.Context) error {
	snapshot, err := h.ledgerService.Export(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", dto.FileName(snapshot.ExportDate)))
	return c.JSON(http.StatusOK, snapshot)
}

// Import godoc
// @Summary Import a snapshot
// @Description Replace the portfolios present in the snapshot. The current state is archived first.
// @Tags snapshot
// @Accept  json
// @Produce  json
// @Param   snapshot  body    object true    "Snapshot produced by the export"
// @Success 200 {object} dto.ImportResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /snapshot [post]
func (h *SnapshotHandler) Import(c echo.Context) error {
	var snapshot dto.Snapshot
	if err := json.NewDecoder(c.Request().Body).Decode(&snapshot); err != nil {
		return respondError(c, h.logger, fmt.Errorf("%w: invalid snapshot: %v", accounting.ErrFormat, err))
	}

	result, err := h.ledgerService.Import(c.Request().Context(), snapshot)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ListArchives godoc
// @Summary List archived snapshots
// @Description List snapshots archived before resets and imports
// @Tags snapshot
// @Produce  json
// @Success 200 {array} dto.ArchiveResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /archives [get]
func (h *SnapshotHandler) ListArchives(c echo.Context) error {
	archives, err := h.ledgerService.Archives(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, archives)
}

// GetArchive godoc
// @Summary Get an archived snapshot
// @Description Get an archived snapshot with its data. The data can be posted back to /snapshot.
// @Tags snapshot
// @Produce  json
// @Param   id  path    int true    "Archive ID"
// @Success 200 {object} entity.LedgerSnapshot
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /archives/{id} [get]
func (h *SnapshotHandler) GetArchive(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid archive ID"})
	}

	archive, err := h.ledgerService.Archive(c.Request().Context(), uint(id))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, archive)
}
