package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang-portfolio-ledger/internal/entity"
	"golang-portfolio-ledger/internal/ledger/accounting"
	"golang-portfolio-ledger/internal/ledger/config"
	"golang-portfolio-ledger/internal/ledger/dto"
	"golang-portfolio-ledger/internal/ledger/repository"
	"golang-portfolio-ledger/pkg/common"
	"golang-portfolio-ledger/pkg/logger"
	"golang-portfolio-ledger/pkg/telegram"
	"golang-portfolio-ledger/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Archive reasons.
const (
	ArchiveReasonReset  = "reset"
	ArchiveReasonImport = "import"
)

// LedgerService owns the in-memory books of every configured portfolio.
// Mutations are applied in memory, persisted, and then reloaded from the
// store, which stays authoritative.
type LedgerService interface {
	Load(ctx context.Context) error
	Portfolios() []string
	Symbols() []string
	View(name string) (*dto.PortfolioView, error)
	OpenPosition(ctx context.Context, portfolio string, req dto.OpenPositionRequest) (*entity.Position, error)
	ClosePosition(ctx context.Context, portfolio, id string) (*dto.CloseResponse, error)
	DepositCash(ctx context.Context, portfolio string, amount float64) (*entity.Position, error)
	WithdrawCash(ctx context.Context, portfolio string, amount float64) (*entity.Position, error)
	ApplyPriceUpdate(ctx context.Context, prices accounting.Prices) (int, error)
	Reset(ctx context.Context, portfolio string) (uint, error)
	Export(ctx context.Context) (*dto.Snapshot, error)
	Import(ctx context.Context, snapshot dto.Snapshot) (*dto.ImportResult, error)
	Archives(ctx context.Context) ([]dto.ArchiveResponse, error)
	Archive(ctx context.Context, id uint) (*entity.LedgerSnapshot, error)
}

// LedgerOption customises a ledger service.
type LedgerOption func(*ledgerService)

// WithIDGenerator replaces the position id generator.
func WithIDGenerator(fn func() string) LedgerOption {
	return func(s *ledgerService) { s.newID = fn }
}

// WithClock replaces the time source used for closed dates and exports.
func WithClock(fn func() time.Time) LedgerOption {
	return func(s *ledgerService) { s.now = fn }
}

type ledgerService struct {
	mu         sync.RWMutex
	names      []string
	books      map[string]accounting.Book
	location   *time.Location
	newID      func() string
	now        func() time.Time
	positions  repository.PositionRepository
	history    repository.HistoryRepository
	portfolios repository.PortfolioRepository
	snapshots  repository.SnapshotRepository
	notifier   telegram.Notifier
	logger     *logger.Logger
}

// NewLedgerService creates a new LedgerService. Call Load before use.
func NewLedgerService(
	cfg *config.Config,
	positionRepo repository.PositionRepository,
	historyRepo repository.HistoryRepository,
	portfolioRepo repository.PortfolioRepository,
	snapshotRepo repository.SnapshotRepository,
	notifier telegram.Notifier,
	logger *logger.Logger,
	opts ...LedgerOption,
) LedgerService {
	s := &ledgerService{
		names:      slices.Clone(cfg.Ledger.Portfolios),
		books:      make(map[string]accounting.Book, len(cfg.Ledger.Portfolios)),
		location:   utils.LoadLocation(cfg.Ledger.TimeZone),
		newID:      uuid.NewString,
		now:        time.Now,
		positions:  positionRepo,
		history:    historyRepo,
		portfolios: portfolioRepo,
		snapshots:  snapshotRepo,
		notifier:   notifier,
		logger:     logger,
	}
	for _, name := range s.names {
		s.books[name] = accounting.NewBook(name)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load initialises every portfolio in the store and reads it into memory.
func (s *ledgerService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range s.names {
		if err := s.positions.EnsureInitialized(ctx, name); err != nil {
			return s.persistenceError(ctx, "initialize "+name, err)
		}
		if err := s.reload(ctx, name); err != nil {
			return err
		}
	}
	s.logger.InfoContext(ctx, "Ledger loaded", logger.IntField("portfolios", len(s.names)))
	return nil
}

// Portfolios returns the configured portfolio names.
func (s *ledgerService) Portfolios() []string {
	return slices.Clone(s.names)
}

// Symbols returns the distinct non-cash symbols held across all portfolios.
func (s *ledgerService) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var symbols []string
	for _, name := range s.names {
		for _, symbol := range s.books[name].Symbols() {
			if !slices.Contains(symbols, symbol) {
				symbols = append(symbols, symbol)
			}
		}
	}
	return symbols
}

// View returns the positions, history, metrics and allocation of one
// portfolio, or the merged summary.
func (s *ledgerService) View(name string) (*dto.PortfolioView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name == common.SummaryPortfolio {
		books := make([]accounting.Book, 0, len(s.names))
		for _, n := range s.names {
			books = append(books, s.books[n].Clone())
		}
		summary := accounting.ComputeSummary(books...)
		return &dto.PortfolioView{
			Portfolio:     name,
			ReadOnly:      true,
			AvailableCash: summary.Positions[0].Amount,
			Metrics:       summary.Metrics,
			Allocation:    summary.Allocation,
			Positions:     summary.Positions,
			History:       summary.History,
		}, nil
	}

	book, ok := s.books[name]
	if !ok {
		return nil, fmt.Errorf("%w: portfolio %q", accounting.ErrNotFound, name)
	}
	book = book.Clone()
	return &dto.PortfolioView{
		Portfolio:     name,
		AvailableCash: book.Cash().Amount,
		Metrics:       accounting.ComputeMetrics(book.Positions),
		Allocation:    accounting.ComputeAllocation(book.Positions),
		Positions:     book.Positions,
		History:       book.History,
	}, nil
}

// OpenPosition funds a new position from the portfolio's cash.
func (s *ledgerService) OpenPosition(ctx context.Context, portfolio string, req dto.OpenPositionRequest) (*entity.Position, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.mutableBook(portfolio)
	if err != nil {
		return nil, err
	}
	opened, err := book.Open(req.ToPosition(s.newID()))
	if err != nil {
		return nil, err
	}
	if err := s.portfolios.Open(ctx, opened, book.Cash()); err != nil {
		return nil, s.rollback(ctx, "open position", err, portfolio)
	}
	s.commit(ctx, book)

	s.logger.InfoContext(ctx, "Position opened",
		logger.StringField("portfolio", portfolio),
		logger.StringField("id", opened.ID),
		logger.StringField("symbol", opened.Symbol),
		logger.FloatField("invested", opened.Invested),
	)
	return &opened, nil
}

// ClosePosition moves a position into history at its current price.
func (s *ledgerService) ClosePosition(ctx context.Context, portfolio, id string) (*dto.CloseResponse, error) {
	resp, err := s.closePosition(ctx, portfolio, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, telegram.FormatClosedPosition(portfolio, resp.History, resp.Cash))
	return resp, nil
}

func (s *ledgerService) closePosition(ctx context.Context, portfolio, id string) (*dto.CloseResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.mutableBook(portfolio)
	if err != nil {
		return nil, err
	}
	entry, cash, err := book.Close(id, utils.FormatDate(s.now().In(s.location)))
	if err != nil {
		return nil, err
	}
	if err := s.portfolios.Close(ctx, entry, cash); err != nil {
		return nil, s.rollback(ctx, "close position", err, portfolio)
	}
	s.commit(ctx, book)

	s.logger.InfoContext(ctx, "Position closed",
		logger.StringField("portfolio", portfolio),
		logger.StringField("id", id),
		logger.FloatField("pnl", entry.PnL),
	)
	return &dto.CloseResponse{History: entry, Cash: cash}, nil
}

// DepositCash adds to the portfolio's cash balance.
func (s *ledgerService) DepositCash(ctx context.Context, portfolio string, amount float64) (*entity.Position, error) {
	return s.moveCash(ctx, portfolio, "deposit cash", func(b *accounting.Book) (entity.Position, error) {
		return b.Deposit(amount)
	})
}

// WithdrawCash removes from the portfolio's cash balance.
func (s *ledgerService) WithdrawCash(ctx context.Context, portfolio string, amount float64) (*entity.Position, error) {
	return s.moveCash(ctx, portfolio, "withdraw cash", func(b *accounting.Book) (entity.Position, error) {
		return b.Withdraw(amount)
	})
}

func (s *ledgerService) moveCash(ctx context.Context, portfolio, op string, fn func(*accounting.Book) (entity.Position, error)) (*entity.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.mutableBook(portfolio)
	if err != nil {
		return nil, err
	}
	cash, err := fn(&book)
	if err != nil {
		return nil, err
	}
	if err := s.portfolios.UpdateCash(ctx, cash); err != nil {
		return nil, s.rollback(ctx, op, err, portfolio)
	}
	s.commit(ctx, book)

	s.logger.InfoContext(ctx, "Cash balance changed",
		logger.StringField("portfolio", portfolio),
		logger.StringField("operation", op),
		logger.FloatField("balance", cash.Amount),
	)
	return &cash, nil
}

// ApplyPriceUpdate sets the latest prices on every matching non-cash
// position of every portfolio and returns how many positions changed.
func (s *ledgerService) ApplyPriceUpdate(ctx context.Context, prices accounting.Prices) (int, error) {
	if len(prices) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []entity.Position
	var touched []accounting.Book
	for _, name := range s.names {
		book := s.books[name].Clone()
		updated := book.ApplyPrices(prices)
		if len(updated) == 0 {
			continue
		}
		changed = append(changed, updated...)
		touched = append(touched, book)
	}
	if len(changed) == 0 {
		return 0, nil
	}

	names := make([]string, len(touched))
	for i, b := range touched {
		names[i] = b.Name
	}
	if err := s.portfolios.UpdatePrices(ctx, changed); err != nil {
		return 0, s.rollback(ctx, "apply price update", err, names...)
	}
	for _, b := range touched {
		s.commit(ctx, b)
	}
	return len(changed), nil
}

// Reset archives the portfolio and then clears it. It returns the id of
// the archived snapshot.
func (s *ledgerService) Reset(ctx context.Context, portfolio string) (uint, error) {
	archiveID, err := s.reset(ctx, portfolio)
	if err != nil {
		return 0, err
	}
	s.notify(ctx, telegram.FormatPortfolioReset(portfolio, archiveID, s.now().In(s.location)))
	return archiveID, nil
}

func (s *ledgerService) reset(ctx context.Context, portfolio string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.mutableBook(portfolio)
	if err != nil {
		return 0, err
	}
	archiveID, err := s.archive(ctx, ArchiveReasonReset, portfolio)
	if err != nil {
		return 0, err
	}
	if err := s.portfolios.Reset(ctx, portfolio); err != nil {
		return 0, s.rollback(ctx, "reset", err, portfolio)
	}
	book.Reset()
	s.commit(ctx, book)

	s.logger.InfoContext(ctx, "Portfolio reset",
		logger.StringField("portfolio", portfolio),
		logger.Field("archive_id", archiveID),
	)
	return archiveID, nil
}

// Export returns the full state of every portfolio.
func (s *ledgerService) Export(ctx context.Context) (*dto.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(), nil
}

func (s *ledgerService) snapshot() *dto.Snapshot {
	snapshot := &dto.Snapshot{
		Version:    dto.SnapshotVersion,
		ExportDate: s.now().UTC(),
		Portfolios: make(map[string]dto.PortfolioSnapshot, len(s.names)),
	}
	for _, name := range s.names {
		book := s.books[name].Clone()
		snapshot.Portfolios[name] = dto.PortfolioSnapshot{
			Positions: &book.Positions,
			History:   &book.History,
		}
	}
	return snapshot
}

// Import replaces the lists present in the snapshot. Lists missing from the
// snapshot are kept. Nothing is written unless every imported portfolio is
// valid.
func (s *ledgerService) Import(ctx context.Context, snapshot dto.Snapshot) (*dto.ImportResult, error) {
	result, err := s.importSnapshot(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, telegram.FormatSnapshotImported(result.Imported, result.ArchivedID, s.now().In(s.location)))
	return result, nil
}

func (s *ledgerService) importSnapshot(ctx context.Context, snapshot dto.Snapshot) (*dto.ImportResult, error) {
	if snapshot.Version != dto.SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %q", accounting.ErrFormat, snapshot.Version)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]accounting.Book, len(s.names))
	var imported []string
	for _, name := range s.names {
		current := s.books[name]
		data, ok := snapshot.Portfolios[name]
		if !ok || (data.Positions == nil && data.History == nil) {
			next[name] = current
			continue
		}

		positions, history := current.Positions, current.History
		if data.Positions != nil {
			positions = *data.Positions
		}
		if data.History != nil {
			history = slices.Clone(*data.History)
			accounting.SortHistory(history)
		}
		book, err := accounting.RestoreBook(name, positions, history)
		if err != nil {
			return nil, err
		}
		next[name] = book
		imported = append(imported, name)
	}
	if len(imported) == 0 {
		return nil, fmt.Errorf("%w: snapshot holds no data for %v", accounting.ErrFormat, s.names)
	}
	if err := checkUniqueIDs(s.names, next); err != nil {
		return nil, err
	}

	archiveID, err := s.archive(ctx, ArchiveReasonImport, "")
	if err != nil {
		return nil, err
	}

	books := make([]accounting.Book, len(imported))
	for i, name := range imported {
		books[i] = next[name]
	}
	if err := s.portfolios.Replace(ctx, books); err != nil {
		return nil, s.rollback(ctx, "import", err, imported...)
	}
	for _, b := range books {
		s.commit(ctx, b)
	}

	s.logger.InfoContext(ctx, "Snapshot imported",
		logger.Field("portfolios", imported),
		logger.Field("archive_id", archiveID),
	)
	return &dto.ImportResult{Imported: imported, ArchivedID: archiveID}, nil
}

// checkUniqueIDs rejects ids shared between any two rows of any portfolio.
// Positions and history entries share an id space because a closed
// position keeps its id.
func checkUniqueIDs(names []string, books map[string]accounting.Book) error {
	owner := make(map[string]string)
	for _, name := range names {
		b := books[name]
		ids := make([]string, 0, len(b.Positions)+len(b.History))
		for _, p := range b.Positions {
			ids = append(ids, p.ID)
		}
		for _, h := range b.History {
			ids = append(ids, h.ID)
		}
		for _, id := range ids {
			if other, ok := owner[id]; ok {
				return fmt.Errorf("%w: id %q used twice (%s, %s)", accounting.ErrFormat, id, other, name)
			}
			owner[id] = name
		}
	}
	return nil
}

// Archives lists the archived snapshots.
func (s *ledgerService) Archives(ctx context.Context) ([]dto.ArchiveResponse, error) {
	snapshots, err := s.snapshots.FindAll(ctx)
	if err != nil {
		return nil, s.persistenceError(ctx, "list archives", err)
	}
	archives := make([]dto.ArchiveResponse, len(snapshots))
	for i, snap := range snapshots {
		archives[i] = dto.ArchiveResponse{
			ID:        snap.ID,
			Reason:    snap.Reason,
			Portfolio: snap.Portfolio,
			CreatedAt: snap.CreatedAt,
		}
	}
	return archives, nil
}

// Archive returns one archived snapshot with its payload.
func (s *ledgerService) Archive(ctx context.Context, id uint) (*entity.LedgerSnapshot, error) {
	snap, err := s.snapshots.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: archive %d", accounting.ErrNotFound, id)
	}
	if err != nil {
		return nil, s.persistenceError(ctx, "get archive", err)
	}
	return snap, nil
}

// archive stores the current state of every portfolio. Callers hold the lock.
func (s *ledgerService) archive(ctx context.Context, reason, portfolio string) (uint, error) {
	data, err := json.Marshal(s.snapshot())
	if err != nil {
		return 0, fmt.Errorf("failed to encode archive: %w", err)
	}
	snap := &entity.LedgerSnapshot{Reason: reason, Portfolio: portfolio, Data: data}
	if err := s.snapshots.Create(ctx, snap); err != nil {
		return 0, s.persistenceError(ctx, "archive before "+reason, err)
	}
	return snap.ID, nil
}

// mutableBook returns a copy of a portfolio that may be changed freely.
func (s *ledgerService) mutableBook(name string) (accounting.Book, error) {
	if name == common.SummaryPortfolio {
		return accounting.Book{}, accounting.ErrReadOnly
	}
	book, ok := s.books[name]
	if !ok {
		return accounting.Book{}, fmt.Errorf("%w: portfolio %q", accounting.ErrNotFound, name)
	}
	return book.Clone(), nil
}

// commit installs a persisted book and then replaces it with the stored
// state. The persisted copy stays if the store cannot be read back.
func (s *ledgerService) commit(ctx context.Context, book accounting.Book) {
	s.books[book.Name] = book
	if err := s.reload(ctx, book.Name); err != nil {
		s.logger.WarnContext(ctx, "Failed to reload portfolio after write",
			logger.StringField("portfolio", book.Name), logger.ErrorField(err))
	}
}

// rollback discards unsaved changes by reloading the affected portfolios
// and returns the persistence error for the caller.
func (s *ledgerService) rollback(ctx context.Context, op string, cause error, names ...string) error {
	err := s.persistenceError(ctx, op, cause)
	for _, name := range names {
		if reloadErr := s.reload(ctx, name); reloadErr != nil {
			s.logger.WarnContext(ctx, "Failed to reload portfolio after failed write",
				logger.StringField("portfolio", name), logger.ErrorField(reloadErr))
		}
	}
	return err
}

// reload replaces the in-memory book with the stored rows.
func (s *ledgerService) reload(ctx context.Context, name string) error {
	positions, err := s.positions.List(ctx, name)
	if err != nil {
		return s.persistenceError(ctx, "load positions of "+name, err)
	}
	history, err := s.history.List(ctx, name)
	if err != nil {
		return s.persistenceError(ctx, "load history of "+name, err)
	}
	book, err := accounting.RestoreBook(name, positions, history)
	if err != nil {
		s.logger.ErrorContext(ctx, "Stored portfolio is inconsistent",
			logger.StringField("portfolio", name), logger.ErrorField(err))
		return err
	}
	s.books[name] = book
	return nil
}

func (s *ledgerService) persistenceError(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "Ledger persistence failed",
		logger.StringField("operation", op), logger.ErrorField(err))
	return fmt.Errorf("%w: %s: %w", accounting.ErrPersistence, op, err)
}

// notify sends text in the background.
func (s *ledgerService) notify(ctx context.Context, text string) {
	utils.GoSafe(func() {
		if err := s.notifier.SendMessage(text); err != nil {
			s.logger.WarnContext(ctx, "Failed to send notification", logger.ErrorField(err))
		}
	})
}
