package logging

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const filePrefix = "casewatch_"

// rotate removes the oldest casewatch_*.log files in dir beyond maxFiles.
func rotate(dir string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	type logFile struct {
		path    string
		modTime int64
	}
	var logFiles []logFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logFiles = append(logFiles, logFile{path: filepath.Join(dir, name), modTime: info.ModTime().UnixNano()})
	}
	if len(logFiles) <= maxFiles {
		return nil
	}
	sort.Slice(logFiles, func(i, j int) bool {
		if logFiles[i].modTime == logFiles[j].modTime {
			return logFiles[i].path < logFiles[j].path
		}
		return logFiles[i].modTime < logFiles[j].modTime
	})
	for _, f := range logFiles[:len(logFiles)-maxFiles] {
		os.Remove(f.path) // ignore errors
	}
	return nil
}
