package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// IsBackupName reports whether name looks like a backup file.
func IsBackupName(name string) bool {
	if !strings.HasSuffix(name, fileSuffix) {
		return false
	}
	return strings.HasPrefix(name, FilePrefix) || strings.HasPrefix(name, legacyPrefix)
}

// Discover lists backup files in dir, newest first.
//
// A missing directory yields an empty list.
func Discover(dir string) ([]Info, error) {
	dir = expandHome(dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	found := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsBackupName(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		owner, stamp, ok := parseName(entry.Name())
		created := info.ModTime()
		if ok {
			created = stamp
		}

		found = append(found, Info{
			Path:      filepath.Join(dir, entry.Name()),
			Owner:     owner,
			CreatedAt: created,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].CreatedAt.After(found[j].CreatedAt)
	})

	return found, nil
}

// parseName splits <prefix><owner>-<unix ms>.json. The owner may itself
// contain dashes, so the stamp is taken from the last one.
func parseName(name string) (string, time.Time, bool) {
	base := strings.TrimSuffix(name, fileSuffix)
	switch {
	case strings.HasPrefix(base, FilePrefix):
		base = strings.TrimPrefix(base, FilePrefix)
	case strings.HasPrefix(base, legacyPrefix):
		base = strings.TrimPrefix(base, legacyPrefix)
	default:
		return "", time.Time{}, false
	}

	idx := strings.LastIndex(base, "-")
	if idx < 0 {
		return base, time.Time{}, false
	}

	ms, err := strconv.ParseInt(base[idx+1:], 10, 64)
	if err != nil {
		return base, time.Time{}, false
	}

	return base[:idx], time.UnixMilli(ms), true
}
