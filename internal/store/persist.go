// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build !windows

package store

import (
	"context"
	"fmt"

	xglog "github.com/ManuGH/filmshelf/internal/log"
	"github.com/google/renameio/v2"
)

// writeFile replaces path with data using renameio: temp file in the same
// directory, fsync, then atomic rename. Readers see either the old or the new
// catalog, never a partial write.
func writeFile(ctx context.Context, path string, data []byte) error {
	logger := xglog.FromContext(ctx)

	pendingFile, err := renameio.NewPendingFile(path,
		renameio.WithPermissions(0o644),
		renameio.WithExistingPermissions(),
	)
	if err != nil {
		return fmt.Errorf("create pending data file: %w", err)
	}
	defer func() {
		// No-op once the file has been committed.
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending data file")
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace data file: %w", err)
	}
	return nil
}
