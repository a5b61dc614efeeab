// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build windows

package store

import (
	"context"
	"os"
)

// writeFile overwrites path in place; renameio does not support Windows.
func writeFile(_ context.Context, path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
