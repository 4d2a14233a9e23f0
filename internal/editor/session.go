// Package editor holds the state of one editing session: the open save, its scalar
// inputs, the selected record and the edits made since the last save. Every UI action
// goes through a Session method so the persistence rules can be exercised without a UI.
package editor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/DaanHessen/citk2-editor/internal/fields"
	"github.com/DaanHessen/citk2-editor/internal/savefile"
)

// ErrNoDocument is returned by operations that need an open save.
var ErrNoDocument = errors.New("no file loaded")

// Entry is what a Journal records for each save.
type Entry struct {
	Path       string
	BackupPath string
	SavedAt    time.Time
	BlobSHA256 string
	Changes    []string
}

// Journal records completed saves.
type Journal interface {
	Record(ctx context.Context, e Entry) error
}

// Options configures a Session.
type Options struct {
	Locator savefile.LocatorMode
	Journal Journal
	Now     func() time.Time
}

// Session is the editor state for one open save file.
type Session struct {
	ctx     context.Context
	opts    Options
	doc     *savefile.Document
	scalars *fields.ScalarForm

	table   fields.Table
	key     string
	view    fields.RecordView
	changes map[string]bool
}

// New returns a session with no file loaded.
func New(ctx context.Context, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{ctx: ctx, opts: opts, changes: map[string]bool{}}
}

// Open loads path, replacing any previously open document and discarding its edits.
func (s *Session) Open(path string) error {
	doc, err := savefile.Open(path, s.opts.Locator)
	if err != nil {
		return err
	}
	s.attach(doc)
	return nil
}

func (s *Session) attach(doc *savefile.Document) {
	s.doc = doc
	s.scalars = fields.LoadScalars(doc.Tree)
	s.table, s.key, s.view = fields.Table{}, "", fields.RecordView{}
	s.changes = map[string]bool{}
}

// Loaded reports whether a file is open.
func (s *Session) Loaded() bool { return s.doc != nil }

// Path returns the open file path, or "".
func (s *Session) Path() string {
	if s.doc == nil {
		return ""
	}
	return s.doc.Path
}

// Tree exposes the in-memory blob of the open document.
func (s *Session) Tree() map[string]any {
	if s.doc == nil {
		return nil
	}
	return s.doc.Tree
}

// Scalars returns the scalar inputs, or nil when nothing is loaded.
func (s *Session) Scalars() *fields.ScalarForm { return s.scalars }

// SetScalar updates the input text of a known variable.
func (s *Session) SetScalar(name, text string) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	return s.scalars.SetText(name, text)
}

// Reset blanks every scalar input.
func (s *Session) Reset() {
	if s.scalars != nil {
		s.scalars.Reset()
	}
}

// Keys lists the records of a table.
func (s *Session) Keys(t fields.Table) []string {
	if s.doc == nil {
		return nil
	}
	return fields.Keys(s.doc.Tree, t)
}

// Select makes key of table the current record and renders it.
func (s *Session) Select(t fields.Table, key string) (fields.RecordView, error) {
	if s.doc == nil {
		return fields.RecordView{}, ErrNoDocument
	}
	rec, ok := fields.Record(s.doc.Tree, t, key)
	if !ok {
		return fields.RecordView{}, errors.Errorf("%s record %q not found", t.Key, key)
	}
	s.table, s.key = t, key
	s.view = fields.Render(t, key, rec)
	return s.view, nil
}

// Record returns the current record view and whether one is selected.
func (s *Session) Record() (fields.RecordView, bool) {
	return s.view, s.key != ""
}

// ApplyRecordEdits writes the differences between the current view and edited into the
// selected record and re-renders it.
func (s *Session) ApplyRecordEdits(edited fields.RecordView) ([]string, error) {
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	if s.key == "" || edited.Key != s.key || edited.Table != s.table.Key {
		return nil, errors.New("edited record is not the selected record")
	}
	rec, _ := fields.Record(s.doc.Tree, s.table, s.key)
	changed, err := fields.ApplyRecord(s.table, rec, s.view, edited)
	for _, c := range changed {
		s.changes[savefile.JoinPath(s.table.Key, s.key)+"."+c] = true
	}
	if rec != nil {
		s.view = fields.Render(s.table, s.key, rec)
	}
	return changed, err
}

// RunShortcut applies a named bulk shortcut and returns how many entries it set.
func (s *Session) RunShortcut(name string) (int, error) {
	if s.doc == nil {
		return 0, ErrNoDocument
	}
	sc, err := fields.FindShortcut(name)
	if err != nil {
		return 0, err
	}
	n := sc.Apply(s.doc.Tree)
	if n > 0 {
		s.changes["shortcut:"+sc.Name] = true
	}
	if sc.Scope == fields.ScopeVariables {
		s.scalars.Refresh(s.doc.Tree, scalarNames(s.scalars)...)
	}
	if s.key != "" {
		if rec, ok := fields.Record(s.doc.Tree, s.table, s.key); ok {
			s.view = fields.Render(s.table, s.key, rec)
		}
	}
	return n, nil
}

// scalarNames lists the inputs that hold no pending edit, so a refresh keeps typed values.
func scalarNames(f *fields.ScalarForm) []string {
	var out []string
	for _, fld := range f.Fields {
		if !fld.Dirty() {
			out = append(out, fld.Var.Name)
		}
	}
	return out
}

// Get evaluates a path against the blob.
func (s *Session) Get(path string) (gjson.Result, error) {
	if s.doc == nil {
		return gjson.Result{}, ErrNoDocument
	}
	return savefile.Get(s.doc.Tree, path)
}

// Set coerces text and writes it at path.
func (s *Session) Set(path, text string) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	tree, err := savefile.Set(s.doc.Tree, path, fields.Coerce(text))
	if err != nil {
		return err
	}
	s.doc.Tree = tree
	s.changes[path] = true
	s.scalars.Refresh(tree, scalarNames(s.scalars)...)
	if s.key != "" {
		if rec, ok := fields.Record(tree, s.table, s.key); ok {
			s.view = fields.Render(s.table, s.key, rec)
		} else {
			s.key, s.view = "", fields.RecordView{}
		}
	}
	return nil
}

// Changes lists what has been edited since the file was opened or last saved.
func (s *Session) Changes() []string {
	out := make([]string, 0, len(s.changes))
	for c := range s.changes {
		out = append(out, c)
	}
	if s.scalars != nil {
		for _, n := range s.scalars.Dirty() {
			if !s.changes[n] {
				out = append(out, n)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Save applies pending scalar inputs, backs the file up and writes it. A scalar that
// fails to parse aborts the save before anything is written or mutated.
func (s *Session) Save() (savefile.SaveResult, error) {
	if s.doc == nil {
		return savefile.SaveResult{}, ErrNoDocument
	}
	changes := s.Changes()
	before, err := savefile.Encode(s.doc.Tree)
	if err != nil {
		return savefile.SaveResult{}, err
	}
	if _, err := s.scalars.Apply(s.doc.Tree); err != nil {
		return savefile.SaveResult{}, err
	}
	res, err := s.doc.Save()
	if err != nil {
		// keep the tree as it was so the inputs still describe pending edits
		if tree, derr := savefile.Decode(before); derr == nil {
			s.doc.Tree = tree
		}
		return res, err
	}
	if s.opts.Journal != nil {
		s.journal(res, changes)
	}
	s.changes = map[string]bool{}
	s.scalars.Refresh(s.doc.Tree)
	return res, nil
}

func (s *Session) journal(res savefile.SaveResult, changes []string) {
	blob, err := savefile.Encode(s.doc.Tree)
	if err != nil {
		log.Printf("journal: %v", err)
		return
	}
	sum := sha256.Sum256(blob)
	e := Entry{
		Path:       res.Path,
		BackupPath: res.BackupPath,
		SavedAt:    s.opts.Now(),
		BlobSHA256: hex.EncodeToString(sum[:]),
		Changes:    changes,
	}
	if err := s.opts.Journal.Record(s.ctx, e); err != nil {
		log.Printf("journal: %v", err)
	}
}
