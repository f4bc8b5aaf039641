package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const ResultLogName = "jepsen.log"

func TimeoutNotice(runIndex int, elapsed time.Duration, timeout time.Duration) string {
	return fmt.Sprintf(
		"Test run #%d timed out in %.1f sec (timeout: %.1f sec)",
		runIndex, elapsed.Seconds(), timeout.Seconds(),
	)
}

// AnnotateTimeouts appends notice to every jepsen.log below root. A missing
// root is the same as an empty tree.
func AnnotateTimeouts(logger *zap.SugaredLogger, root string, notice string) {
	if _, err := os.Stat(root); err != nil {
		logger.Warnf("results directory %v is not available: %v", root, err)
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warnf("skipping %v: %v", path, err)
			return nil
		}
		if !d.Type().IsRegular() || d.Name() != ResultLogName {
			return nil
		}
		if err := appendLine(path, notice); err != nil {
			logger.Errorf("failed to annotate %v: %v", path, err)
			return nil
		}
		logger.Infof("%v: %v", path, notice)
		return nil
	})
}

// appendLine adds line to the end of the file, starting a new line first if
// the file does not already end with one.
func appendLine(path string, line string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_RDWR, 0)
	if err != nil {
		return err
	}
	text := line + "\n"
	if info, err := file.Stat(); err == nil && info.Size() > 0 {
		last := make([]byte, 1)
		if _, err := file.ReadAt(last, info.Size()-1); err == nil && last[0] != '\n' {
			text = "\n" + text
		}
	}
	if _, err := file.WriteString(text); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
