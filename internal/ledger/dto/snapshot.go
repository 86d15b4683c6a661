package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang-portfolio-ledger/internal/entity"
	"golang-portfolio-ledger/internal/ledger/accounting"
	"golang-portfolio-ledger/pkg/utils"
)

// SnapshotVersion is the only export format version accepted on import.
const SnapshotVersion = "1.0"

const (
	positionsSuffix = "Positions"
	historySuffix   = "History"
)

// PortfolioSnapshot holds the lists of one portfolio. A nil list was absent
// from the file and leaves the stored list untouched on import.
type PortfolioSnapshot struct {
	Positions *[]entity.Position
	History   *[]entity.PositionHistory
}

// Snapshot is the export/import document. On the wire every portfolio is
// flattened into "<name>Positions" and "<name>History" keys next to
// "exportDate" and "version".
type Snapshot struct {
	Version    string
	ExportDate time.Time
	Portfolios map[string]PortfolioSnapshot
}

// FileName is the download name of an export taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("monolith-portfolio-%s.json", utils.FormatDate(t))
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	doc := map[string]interface{}{
		"version":    s.Version,
		"exportDate": s.ExportDate,
	}
	for name, p := range s.Portfolios {
		if p.Positions != nil {
			doc[name+positionsSuffix] = *p.Positions
		}
		if p.History != nil {
			doc[name+historySuffix] = *p.History
		}
	}
	return json.Marshal(doc)
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", accounting.ErrFormat, err)
	}

	out := Snapshot{Portfolios: make(map[string]PortfolioSnapshot)}
	for key, raw := range doc {
		switch {
		case key == "version":
			if err := json.Unmarshal(raw, &out.Version); err != nil {
				return fmt.Errorf("%w: version: %v", accounting.ErrFormat, err)
			}
		case key == "exportDate":
			if err := json.Unmarshal(raw, &out.ExportDate); err != nil {
				return fmt.Errorf("%w: exportDate: %v", accounting.ErrFormat, err)
			}
		case strings.HasSuffix(key, positionsSuffix) && len(key) > len(positionsSuffix):
			var positions []entity.Position
			if err := json.Unmarshal(raw, &positions); err != nil {
				return fmt.Errorf("%w: %s: %v", accounting.ErrFormat, key, err)
			}
			if positions == nil {
				positions = []entity.Position{}
			}
			name := strings.TrimSuffix(key, positionsSuffix)
			p := out.Portfolios[name]
			p.Positions = &positions
			out.Portfolios[name] = p
		case strings.HasSuffix(key, historySuffix) && len(key) > len(historySuffix):
			var history []entity.PositionHistory
			if err := json.Unmarshal(raw, &history); err != nil {
				return fmt.Errorf("%w: %s: %v", accounting.ErrFormat, key, err)
			}
			if history == nil {
				history = []entity.PositionHistory{}
			}
			name := strings.TrimSuffix(key, historySuffix)
			p := out.Portfolios[name]
			p.History = &history
			out.Portfolios[name] = p
		}
	}

	*s = out
	return nil
}

// ImportResult reports which portfolios an import replaced.
type ImportResult struct {
	Imported   []string `json:"imported"`
	ArchivedID uint     `json:"archivedId,omitempty"`
}

// ArchiveResponse describes an archived snapshot without its payload.
type ArchiveResponse struct {
	ID        uint      `json:"id"`
	Reason    string    `json:"reason"`
	Portfolio string    `json:"portfolio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
