// Package storage provides file-based persistence for Folio
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chialin/folio/internal/common"
	"github.com/chialin/folio/internal/interfaces"
	"github.com/chialin/folio/internal/models"
)

// PortfolioFile reads and writes the declarative portfolio definition. The
// file is the source of truth; it is read fresh per valuation run.
type PortfolioFile struct {
	path   string
	logger *common.Logger
}

// NewPortfolioFile creates a store over the portfolio file at path.
func NewPortfolioFile(path string, logger *common.Logger) *PortfolioFile {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &PortfolioFile{path: path, logger: logger}
}

// Load reads, normalizes, and validates the portfolio definition. A missing
// file or a file that is not a JSON object is a fatal load error; malformed
// holdings are rejected here rather than deep inside valuation.
func (s *PortfolioFile) Load() (*models.PortfolioDefinition, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("portfolio file not found: %s", s.path)
		}
		return nil, fmt.Errorf("failed to read portfolio file %s: %w", s.path, err)
	}

	var def models.PortfolioDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("portfolio file %s must contain a JSON object: %w", s.path, err)
	}

	def.Normalize()
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid portfolio file %s: %w", s.path, err)
	}

	s.logger.Debug().
		Int("stocks", len(def.Stocks)).
		Int("cash", len(def.Cash)).
		Str("path", s.path).
		Msg("Portfolio loaded")

	return &def, nil
}

// Save validates and writes the definition atomically.
func (s *PortfolioFile) Save(def *models.PortfolioDefinition) error {
	def.Normalize()
	if err := def.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid portfolio: %w", err)
	}

	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal portfolio: %w", err)
	}
	data = append(data, '\n')

	if err := atomicWrite(s.path, data); err != nil {
		return fmt.Errorf("failed to write portfolio file: %w", err)
	}

	s.logger.Info().Str("path", s.path).Msg("Portfolio saved")
	return nil
}

// atomicWrite writes data to a temp file in the target directory and renames
// it over the destination.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Ensure PortfolioFile implements PortfolioStore
var _ interfaces.PortfolioStore = (*PortfolioFile)(nil)
