// Package cleanup removes published articles that only carry an error message.
package cleanup

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/deusflow/analystbot/internal/generate"
	"github.com/deusflow/analystbot/internal/logger"
)

// DefaultMarkers identify articles written from a failed generation.
var DefaultMarkers = []string{
	generate.SentinelPrefix,
	"분석 중 오류가 발생했습니다",
	"[에러 메시지]",
}

// Sweep deletes every markdown file under root whose content contains one of
// markers and returns the removed paths. A missing root is not an error.
func Sweep(root string, markers []string, log *slog.Logger) ([]string, error) {
	log = logger.OrDiscard(log)

	if _, err := os.Stat(root); os.IsNotExist(err) {
		log.Info("content root does not exist, nothing to clean", "root", root)
		return nil, nil
	}

	needles := make([][]byte, 0, len(markers))
	for _, m := range markers {
		if m != "" {
			needles = append(needles, []byte(m))
		}
	}

	var removed []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("skipping unreadable file", "file", path, "error", err)
			return nil
		}
		if !containsAny(data, needles) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		log.Info("removed error article", "file", path)
		removed = append(removed, path)
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("sweep %s: %w", root, err)
	}
	return removed, nil
}

func containsAny(data []byte, needles [][]byte) bool {
	for _, n := range needles {
		if bytes.Contains(data, n) {
			return true
		}
	}
	return false
}
