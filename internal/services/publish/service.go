// Package publish copies generated documents to the remote site repository.
package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/common"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/models"
)

// Service publishes the schedule and puzzle documents written locally.
type Service struct {
	publisher interfaces.Publisher
	paths     common.PathsConfig
	remote    common.GitHubConfig
	logger    arbor.ILogger
}

// NewService creates a new publish service
func NewService(publisher interfaces.Publisher, paths common.PathsConfig, remote common.GitHubConfig, logger arbor.ILogger) *Service {
	return &Service{
		publisher: publisher,
		paths:     paths,
		remote:    remote,
		logger:    logger,
	}
}

// PublishSchedule pushes the local schedule document
func (s *Service) PublishSchedule(ctx context.Context) error {
	content, err := os.ReadFile(s.paths.SchedulePath)
	if err != nil {
		return fmt.Errorf("failed to read schedule: %w", err)
	}
	target := firstNonEmpty(s.remote.SchedulePath, filepath.ToSlash(s.paths.SchedulePath))
	return s.publisher.PublishFile(ctx, target, content, "Update puzzle schedule")
}

// PublishPuzzles pushes the local puzzle documents for tickers. Every ticker is
// attempted; the first error is returned.
func (s *Service) PublishPuzzles(ctx context.Context, tickers []string) error {
	remoteDir := firstNonEmpty(s.remote.PuzzlesDir, filepath.ToSlash(s.paths.PuzzlesDir))

	var firstErr error
	published := 0
	for _, ticker := range tickers {
		name := common.DocumentName(ticker)
		content, err := os.ReadFile(filepath.Join(s.paths.PuzzlesDir, name))
		if err == nil {
			err = s.publisher.PublishFile(ctx, path.Join(remoteDir, name), content, fmt.Sprintf("Update puzzle for %s", common.NormalizeTicker(ticker)))
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Failed to publish puzzle")
			if firstErr == nil {
				firstErr = fmt.Errorf("publish %s: %w", ticker, err)
			}
			continue
		}
		published++
	}

	s.logger.Info().Int("published", published).Int("requested", len(tickers)).Msg("Published puzzles")
	return firstErr
}

// PublishRun pushes the puzzles added by a run and then the schedule. The
// schedule is pushed even when a puzzle fails; the first error is returned.
func (s *Service) PublishRun(ctx context.Context, added []models.ScheduleEntry) error {
	tickers := make([]string, 0, len(added))
	for _, e := range added {
		tickers = append(tickers, e.Ticker)
	}

	puzzleErr := s.PublishPuzzles(ctx, tickers)
	if err := s.PublishSchedule(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to publish schedule")
		if puzzleErr == nil {
			return err
		}
	}
	return puzzleErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
