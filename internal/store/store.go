// Package store loads and persists state documents. Writes go to a temp
// file in the target's directory which is fsynced and renamed over the
// target, so readers see either the old or the new document and never a
// partial one.
package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// DefaultFileName is the state document's file name inside a project.
const DefaultFileName = "currentstate.json"

// fileOps holds filesystem calls that tests replace to simulate crashes.
var fileOps = struct {
	rename func(oldpath, newpath string) error
}{
	rename: os.Rename,
}

// Load reads the document at path. Returns ErrNotFound if the file does
// not exist and ErrParse if it is not a well-formed document. Missing
// entity lists come back empty.
func Load(path string) (*types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, types.ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %v: %w", path, err, types.ErrStore)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Decode parses a serialized document. Returns ErrParse on malformed
// input.
func Decode(data []byte) (*types.Document, error) {
	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%v: %w", err, types.ErrParse)
	}
	doc.Normalize()
	return &doc, nil
}

// Encode serializes doc with two-space indentation, stable key order and a
// trailing newline.
func Encode(doc *types.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save atomically replaces the document at path with doc using the
// temp-file, fsync, rename pattern. Failures wrap ErrStore and leave the
// existing file untouched.
func Save(path string, doc *types.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %v: %w", err, types.ErrStore)
	}
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("%v: %w", err, types.ErrStore)
	}
	return nil
}

// writeAtomic writes data to a temp file beside path and renames it into
// place. The temp file is removed on every failure path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing document: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, fileMode(path)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := fileOps.rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// fileMode returns the permission bits of the existing file at path, or
// 0644 when there is none.
func fileMode(path string) fs.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return 0o644
	}
	return info.Mode().Perm()
}

// Revision returns the updated_at currently on disk at path without
// decoding the whole document. Used for optimistic version checks.
func Revision(path string) (time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, fmt.Errorf("%s: %w", path, types.ErrNotFound)
		}
		return time.Time{}, fmt.Errorf("reading %s: %v: %w", path, err, types.ErrStore)
	}
	var head struct {
		UpdatedAt types.Timestamp `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return time.Time{}, fmt.Errorf("%s: %v: %w", path, err, types.ErrParse)
	}
	return head.UpdatedAt.Time, nil
}
