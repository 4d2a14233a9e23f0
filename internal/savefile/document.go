package savefile

import (
	"log"
	"os"

	"github.com/pkg/errors"
)

// BackupSuffix is appended to the save path to name the pre-save copy.
const BackupSuffix = ".bak"

// Document is one save file loaded into memory.
type Document struct {
	Path string
	Mode LocatorMode
	Text []byte
	Span Span
	Tree map[string]any
}

// SaveResult describes a completed save.
type SaveResult struct {
	Path       string
	BackupPath string
	Bytes      int
}

// Open reads path and extracts its blob.
func Open(path string, mode LocatorMode) (*Document, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	doc, err := Read(path, text, mode)
	if err != nil {
		return nil, err
	}
	log.Printf("opened %s (%d bytes, blob %d..%d)", path, len(text), doc.Span.Start, doc.Span.End)
	return doc, nil
}

// Read builds a Document from text already in memory. path is only recorded.
func Read(path string, text []byte, mode LocatorMode) (*Document, error) {
	ex, err := Extract(text, mode)
	if err != nil {
		return nil, withPath(err, path)
	}
	return &Document{Path: path, Mode: mode, Text: text, Span: ex.Span, Tree: ex.Tree}, nil
}

// Save copies the file on disk to Path+".bak", then overwrites Path with the on-disk
// prefix and suffix around the re-encoded tree. The two writes are not atomic.
func (d *Document) Save() (SaveResult, error) {
	info, err := os.Stat(d.Path)
	if err != nil {
		return SaveResult{}, errors.Wrapf(err, "stat %s", d.Path)
	}
	current, err := os.ReadFile(d.Path)
	if err != nil {
		return SaveResult{}, errors.Wrapf(err, "read %s", d.Path)
	}
	span, err := Locate(current, d.Mode)
	if err != nil {
		return SaveResult{}, withPath(err, d.Path)
	}
	out, err := Patch(current, span, d.Tree)
	if err != nil {
		return SaveResult{}, err
	}
	backup := d.Path + BackupSuffix
	if err := os.WriteFile(backup, current, info.Mode().Perm()); err != nil {
		return SaveResult{}, errors.Wrapf(err, "write backup %s", backup)
	}
	if err := os.WriteFile(d.Path, out, info.Mode().Perm()); err != nil {
		return SaveResult{}, errors.Wrapf(err, "write %s", d.Path)
	}
	d.Text = out
	d.Span = Span{Start: span.Start, End: len(out) - (len(current) - span.End)}
	log.Printf("saved %s (%d bytes), backup %s", d.Path, len(out), backup)
	return SaveResult{Path: d.Path, BackupPath: backup, Bytes: len(out)}, nil
}
