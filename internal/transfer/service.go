package transfer

import (
	"context"
	"fmt"
	"io"

	"github.com/jonathan/portfolio-keeper/internal/autosave"
	"github.com/jonathan/portfolio-keeper/internal/logging"
	"github.com/jonathan/portfolio-keeper/internal/types"
)

// Service applies imports and clears to a live coordinator.
type Service struct {
	coord    *autosave.Coordinator
	defaults func() types.PortfolioRecord
	log      *logging.Logger
}

// NewService creates a service. defaults supplies the record written by ClearAll.
func NewService(coord *autosave.Coordinator, defaults func() types.PortfolioRecord, log *logging.Logger) *Service {
	return &Service{coord: coord, defaults: defaults, log: logging.OrNop(log)}
}

// ImportAndCommit imports a document, saves it and makes it the draft and committed
// record. On any error the coordinator is left untouched.
func (s *Service) ImportAndCommit(ctx context.Context, r io.Reader) (types.PortfolioRecord, error) {
	record, err := Import(r)
	if err != nil {
		s.log.Warn("Import rejected", "error", err)
		return types.PortfolioRecord{}, err
	}
	if err := s.coord.Commit(ctx, record); err != nil {
		s.log.Warn("Import could not be saved", "error", err)
		return types.PortfolioRecord{}, &ImportError{
			Kind:    KindStorage,
			Message: "Storage error after import: " + err.Error(),
			Cause:   err,
		}
	}
	s.log.Info("Imported portfolio", "projects", len(record.Projects), "skills", len(record.Skills))
	return record, nil
}

// ClearAll asks confirmer and, on yes, replaces everything with the default record.
// The pending auto-save is cancelled first so it cannot overwrite the cleared data.
// The default becomes draft and committed even if saving it fails; that failure is
// returned. It reports whether the clear happened.
func (s *Service) ClearAll(ctx context.Context, confirmer Confirmer) (bool, error) {
	ok, err := confirmer.Confirm(ctx, ClearPrompt)
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		s.log.Debug("Clear cancelled")
		return false, nil
	}

	s.coord.Cancel()
	def := s.defaults()
	if err := s.coord.Commit(ctx, def); err != nil {
		s.coord.Reset(def)
		s.log.Warn("Cleared data could not be saved", "error", err)
		return true, fmt.Errorf("clear saved in memory only: %w", err)
	}
	s.log.Info("Cleared all data")
	return true, nil
}
