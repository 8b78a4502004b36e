package storage

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/common"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/storage/badger"
	"github.com/ternarybob/candle/internal/storage/jsonfile"
)

// Manager groups the document stores used by a run
type Manager struct {
	Schedule interfaces.ScheduleStorage
	Puzzles  *jsonfile.PuzzleStorage
	Pool     interfaces.PoolStorage

	// MarketCache is nil when caching is disabled
	MarketCache interfaces.MarketCacheStorage

	cacheDB *badger.BadgerDB
}

// NewStorageManager creates the storage manager described by config
func NewStorageManager(logger arbor.ILogger, config *common.Config) (*Manager, error) {
	m := &Manager{
		Schedule: jsonfile.NewScheduleStorage(config.Paths.SchedulePath, logger),
		Puzzles:  jsonfile.NewPuzzleStorage(config.Paths.PuzzlesDir, logger),
		Pool:     jsonfile.NewPoolStorage(config.Paths.PoolPath, logger),
	}

	if config.Cache.Enabled {
		db, err := badger.NewBadgerDB(logger, &config.Cache)
		if err != nil {
			return nil, err
		}
		m.cacheDB = db
		m.MarketCache = badger.NewMarketCacheStorage(db, logger)
	}

	return m, nil
}

// Close releases the cache database, if one was opened
func (m *Manager) Close() error {
	if m.cacheDB != nil {
		return m.cacheDB.Close()
	}
	return nil
}
