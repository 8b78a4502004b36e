package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/common"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/models"
	"gopkg.in/yaml.v3"
)

// PoolStorage implements interfaces.PoolStorage for a JSON or YAML ticker list
type PoolStorage struct {
	path   string
	logger arbor.ILogger
}

// NewPoolStorage creates a new PoolStorage for path
func NewPoolStorage(path string, logger arbor.ILogger) interfaces.PoolStorage {
	return &PoolStorage{
		path:   path,
		logger: logger,
	}
}

// LoadPool reads the pool. Entries without a ticker are dropped and the rest
// are normalized; duplicates keep their first occurrence.
func (s *PoolStorage) LoadPool(ctx context.Context) ([]models.TickerPoolEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ticker pool: %w", err)
	}

	var raw []models.TickerPoolEntry
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse ticker pool %s: %w", s.path, err)
	}

	pool := make([]models.TickerPoolEntry, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, entry := range raw {
		entry.Ticker = common.NormalizeTicker(entry.Ticker)
		if entry.Ticker == "" || seen[entry.Ticker] {
			continue
		}
		seen[entry.Ticker] = true
		pool = append(pool, entry)
	}

	if dropped := len(raw) - len(pool); dropped > 0 {
		s.logger.Warn().Int("dropped", dropped).Str("path", s.path).Msg("Skipped empty or duplicate pool entries")
	}
	s.logger.Debug().Int("tickers", len(pool)).Str("path", s.path).Msg("Loaded ticker pool")
	return pool, nil
}
