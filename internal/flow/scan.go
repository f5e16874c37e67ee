package flow

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// Scanner discovers flow definition files in a directory tree.
type Scanner struct {
	logger *slog.Logger
}

// NewScanner creates a Scanner.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// Scan walks dir and parses every .yaml/.yml file as a flow definition.
// Files that fail to parse are logged and skipped; a missing directory is
// not an error and yields no flows.
func (s *Scanner) Scan(dir string) ([]*core.Flow, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		s.logger.Debug("flows directory not found, skipping", "dir", dir)
		return nil, nil
	}

	var flows []*core.Flow

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isFlowFile(d.Name()) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("failed to read flow file", "path", path, "error", err)
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}

		f, err := Parse(content, abs)
		if err != nil {
			s.logger.Warn("failed to parse flow file", "path", path, "error", err)
			return nil
		}

		flows = append(flows, f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return flows, nil
}

func isFlowFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// FileName returns the on-disk file name for a flow name.
// Namespaced names ("collection/name") become subdirectories.
func FileName(flowName string) string {
	return filepath.FromSlash(flowName) + ".yaml"
}
