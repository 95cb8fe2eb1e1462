package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tinytelemetry/pagelog/internal/model"
)

const (
	reportFileMode = 0644
	reportDirMode  = 0755
)

// WriteFile persists a rendered report under dir, creating the directory if
// absent. The filename is "<prefix>-<YYYYMMDD-HHMMSS>.log" so reports sort
// chronologically. Returns the written path. This is the one operation in
// the package allowed to surface an error.
func WriteFile(dir, prefix, rendered string, at time.Time) (string, error) {
	if dir == "" {
		dir = model.DefaultReportDir
	}
	if prefix == "" {
		prefix = model.DefaultReportPrefix
	}
	if err := os.MkdirAll(dir, reportDirMode); err != nil {
		return "", fmt.Errorf("report: mkdir %s: %w", dir, err)
	}
	name := fmt.Sprintf("%s-%s.log", prefix, at.Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(rendered), reportFileMode); err != nil {
		return "", fmt.Errorf("report: write %s: %w", path, err)
	}
	return path, nil
}
