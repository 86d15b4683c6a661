package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-portfolio-ledger/internal/entity"
	"golang-portfolio-ledger/pkg/utils"
)

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func signedMoney(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("+$%.2f", v)
}

// FormatClosedPosition formats a closed position into a Markdown string for Telegram.
func FormatClosedPosition(portfolio string, entry entity.PositionHistory, cash entity.Position) string {
	var sb strings.Builder

	emoji := "✅"
	if entry.PnL < 0 {
		emoji = "🔻"
	}
	returnPct := 0.0
	if entry.Invested > 0 {
		returnPct = entry.PnL / entry.Invested * 100
	}

	sb.WriteString(fmt.Sprintf("%s *Position Closed: %s* (%s)\n", emoji, escape(entry.Symbol), escape(portfolio)))
	sb.WriteString(fmt.Sprintf("💰 Entry: $%.2f | Exit: $%.2f\n", entry.EntryPrice, entry.ExitPrice))
	sb.WriteString(fmt.Sprintf("📦 Amount: %g | Invested: $%.2f\n", entry.Amount, entry.Invested))
	sb.WriteString(fmt.Sprintf("📈 P&L: %s (%.2f%%)\n", signedMoney(entry.PnL), returnPct))
	sb.WriteString(fmt.Sprintf("🏦 Available cash: $%.2f\n", cash.Amount))
	sb.WriteString(fmt.Sprintf("📅 _Closed on %s_\n", entry.ClosedDate))
	return sb.String()
}

// FormatPortfolioReset formats a reset notice into a Markdown string for Telegram.
func FormatPortfolioReset(portfolio string, archiveID uint, at time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("♻️ *Portfolio Reset: %s*\n", escape(portfolio)))
	sb.WriteString("All positions and history were cleared.\n")
	if archiveID > 0 {
		sb.WriteString(fmt.Sprintf("🗄 Previous state archived as snapshot #%d\n", archiveID))
	}
	sb.WriteString(fmt.Sprintf("%s\n", utils.PrettyDate(at)))
	return sb.String()
}

// FormatSnapshotImported formats an import notice into a Markdown string for Telegram.
func FormatSnapshotImported(portfolios []string, archiveID uint, at time.Time) string {
	var sb strings.Builder
	sb.WriteString("📥 *Snapshot Imported*\n")
	sb.WriteString(fmt.Sprintf("Portfolios replaced: %s\n", escape(strings.Join(portfolios, ", "))))
	if archiveID > 0 {
		sb.WriteString(fmt.Sprintf("🗄 Previous state archived as snapshot #%d\n", archiveID))
	}
	sb.WriteString(fmt.Sprintf("%s\n", utils.PrettyDate(at)))
	return sb.String()
}
