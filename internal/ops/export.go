package ops

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/radar/internal/config"
	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/export"
	"github.com/hpungsan/radar/internal/history"
	"github.com/hpungsan/radar/internal/store"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path     string // optional, default: <Dir>/radar-<timestamp>.csv
	Dir      string // exports directory used when Path is empty
	HidePast *bool  // nil uses cfg.HidePast

	Now time.Time `json:"-"`
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes the consolidated view to a CSV file.
// The file is written to a temp name and renamed into place, so an existing
// file survives a failed export.
func Export(ctx context.Context, hs *store.HistoryStore, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	if !input.Now.IsZero() {
		now = input.Now
	}

	exportPath := input.Path
	if exportPath == "" {
		if input.Dir == "" {
			return nil, errors.NewInvalidRequest("path or exports directory is required")
		}
		exportPath = filepath.Join(input.Dir, "radar-"+now.Format("2006-01-02T150405")+ExportExt)
	}
	if err := ValidateExportPath(exportPath); err != nil {
		return nil, err
	}

	hidePast := cfg.HidePast
	if input.HidePast != nil {
		hidePast = *input.HidePast
	}

	h, err := hs.Load(ctx)
	if err != nil {
		return nil, err
	}
	items := history.Consolidate(h, extractor(cfg, input.Now), history.ConsolidateOptions{HidePast: hidePast, Now: input.Now})
	if err := cancelled(ctx, "export"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := createNoFollow(tempPath)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	count, err := export.Write(file, history.Records(items))
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink planted since validation
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInvalidRequest("path must not be a symlink")
	}

	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; choose a new path")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:       exportPath,
		Count:      count,
		ExportedAt: now.Unix(),
	}, nil
}
