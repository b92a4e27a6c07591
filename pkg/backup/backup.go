package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/0xmhha/watchvault/pkg/account"
)

// New builds a document for email from snapshot.
func New(email string, snapshot account.Snapshot, at time.Time) Document {
	return Document{
		Version:    FormatVersion,
		Email:      email,
		Snapshot:   snapshot.Clone(),
		ExportDate: at.UTC(),
	}
}

// FileName returns watchvault-backup-<local part>-<unix ms>.json.
func FileName(email string, at time.Time) string {
	local, _, _ := strings.Cut(email, "@")
	return fmt.Sprintf("%s%s-%d%s", FilePrefix, sanitize(local), at.UnixMilli(), fileSuffix)
}

// sanitize keeps the local part usable as a file name component.
func sanitize(s string) string {
	if s == "" {
		return "user"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, s)
}

// Validate checks that the document can be restored.
func (d Document) Validate() error {
	if d.Version > FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	if strings.TrimSpace(d.Email) == "" {
		return ErrMissingEmail
	}
	for _, item := range d.Watchlist {
		if !item.Valid() {
			return fmt.Errorf("%w: watchlist", ErrInvalidItem)
		}
	}
	for _, entry := range d.History {
		if !entry.Item.Valid() {
			return fmt.Errorf("%w: watchHistory", ErrInvalidItem)
		}
	}
	return nil
}

// Write stores doc in dir under FileName and returns the path.
//
// The file is written to a temporary name and renamed into place.
func Write(dir string, doc Document) (string, error) {
	dir = expandHome(dir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal backup: %w", err)
	}

	path := filepath.Join(dir, FileName(doc.Email, doc.ExportDate))

	tmp, err := os.CreateTemp(dir, ".backup-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close backup: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to set backup permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move backup into place: %w", err)
	}

	return path, nil
}

// Parse decodes and validates a document.
func Parse(data []byte) (Document, error) {
	var doc Document

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return Document{}, &ParseError{Err: fmt.Errorf("%w: %v", ErrMalformedJSON, err)}
	}

	doc.Snapshot = doc.Snapshot.Clone()

	if err := doc.Validate(); err != nil {
		return Document{}, &ParseError{Err: err}
	}

	return doc, nil
}

// ParseFile reads and validates the document at path.
func ParseFile(path string) (Document, error) {
	path = expandHome(path)

	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open backup: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Document{}, fmt.Errorf("failed to stat backup: %w", err)
	}
	if info.Size() > MaxFileSize {
		return Document{}, &ParseError{Path: path, Err: ErrFileTooLarge}
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return Document{}, fmt.Errorf("failed to read backup: %w", err)
	}
	if len(data) > MaxFileSize {
		return Document{}, &ParseError{Path: path, Err: ErrFileTooLarge}
	}

	doc, err := Parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return Document{}, err
	}

	return doc, nil
}

// expandHome expands ~ in file paths to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
