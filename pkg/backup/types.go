// Package backup reads and writes library export documents.
//
// A Document is one account's library plus the owner's email and the export
// time. Documents written by this package and exports from the browser front
// end share key names, so either can be restored.
//
// Example usage:
//
//	path, err := backup.Write(dir, doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	restored, err := backup.ParseFile(path)
package backup

import (
	"time"

	"github.com/0xmhha/watchvault/pkg/account"
)

const (
	// FormatVersion is written into every exported document.
	// Documents without a version are treated as version 0 and accepted.
	FormatVersion = 1

	// MaxFileSize is the largest backup file ParseFile will read (10MB).
	MaxFileSize = 10 * 1024 * 1024

	// FilePrefix starts every backup file name written by Write.
	FilePrefix = "watchvault-backup-"

	// legacyPrefix starts backup names produced by the browser front end.
	legacyPrefix = "zaids-movies-backup-"

	fileSuffix = ".json"
)

// Document is the export format.
//
// The embedded snapshot flattens into the top-level keys watchlist,
// watchHistory, watchProgress, userRatings, recentlyViewed and settings.
type Document struct {
	Version int    `json:"version,omitempty"`
	Email   string `json:"email"`
	account.Snapshot
	ExportDate time.Time `json:"exportDate"`
}

// Info describes a backup file found on disk.
type Info struct {
	// Path is the file path.
	Path string

	// Owner is the email local part taken from the file name.
	Owner string

	// CreatedAt comes from the millisecond stamp in the file name, or the
	// modification time when the name carries none.
	CreatedAt time.Time

	// Size is the file size in bytes.
	Size int64
}
