// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileChecker checks that the data file exists and is a regular file.
type FileChecker struct {
	name string
	path string
}

// NewFileChecker creates a checker for file existence
func NewFileChecker(name, path string) *FileChecker {
	return &FileChecker{
		name: name,
		path: path,
	}
}

func (c *FileChecker) Name() string {
	return c.name
}

func (c *FileChecker) Check(_ context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{
			Status:  StatusHealthy,
			Message: "not configured (optional)",
		}
	}

	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusUnhealthy,
				Error:   "file not found",
				Message: c.path,
			}
		}
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}

	if info.IsDir() {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  "expected file, got directory",
		}
	}

	// A flushed catalog is never shorter than "[]".
	if info.Size() < 2 {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "file is empty",
		}
	}

	return CheckResult{
		Status:  StatusHealthy,
		Message: "file exists and readable",
	}
}

// WritableDirChecker verifies that new files can be created in a directory.
// The store writes through a temp file next to the data file, so the
// directory must be writable for flushes to succeed.
type WritableDirChecker struct {
	name string
	dir  string
}

// NewWritableDirChecker creates a checker for directory writability.
func NewWritableDirChecker(name, dir string) *WritableDirChecker {
	return &WritableDirChecker{name: name, dir: dir}
}

func (c *WritableDirChecker) Name() string {
	return c.name
}

func (c *WritableDirChecker) Check(_ context.Context) CheckResult {
	f, err := os.CreateTemp(c.dir, ".health-*")
	if err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Error:   err.Error(),
			Message: "directory is not writable",
		}
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	return CheckResult{
		Status:  StatusHealthy,
		Message: "directory writable",
	}
}

// CatalogChecker reports the number of records held in memory.
type CatalogChecker struct {
	count func() int
}

// NewCatalogChecker creates a checker around the store's record count.
func NewCatalogChecker(count func() int) *CatalogChecker {
	return &CatalogChecker{count: count}
}

func (c *CatalogChecker) Name() string {
	return "catalog"
}

func (c *CatalogChecker) Check(_ context.Context) CheckResult {
	if c.count == nil {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  "catalog not initialised",
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("%d records loaded", c.count()),
	}
}

// DataDir returns the directory holding path.
func DataDir(path string) string {
	dir := filepath.Dir(path)
	if dir == "" {
		return "."
	}
	return dir
}
