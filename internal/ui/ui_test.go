package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaanHessen/citk2-editor/internal/editor"
	"github.com/DaanHessen/citk2-editor/internal/util"
)

const saveText = "CITK2SAVE v3\n" +
	`{"defcon":3,"reserve":100,"countries":{"USA":{"active":true,"relationship":-20},"CHN":{"active":false,"relationship":5}}}` +
	"\n--end--\n"

func newTestModel(t *testing.T) (model, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "slot1.citk2save")
	if err := os.WriteFile(path, []byte(saveText), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	s := editor.New(context.Background(), editor.Options{})
	if err := s.Open(path); err != nil {
		t.Fatalf("open: %v", err)
	}
	cfg := util.Config{SaveDir: dir, ExportDir: filepath.Join(dir, "exports")}
	cfg.ApplyDefaults()
	return initialModel(context.Background(), s, cfg, "test"), path
}

func press(m model, keys ...tea.KeyMsg) model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(model)
	}
	return m
}

func typeText(m model, s string) model {
	for _, r := range s {
		if r == ' ' {
			m = press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	ctrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
	ctrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func TestInitialViewFollowsLoadState(t *testing.T) {
	m, _ := newTestModel(t)
	if m.view != viewVariables {
		t.Fatalf("loaded session should start on variables, got %s", m.view)
	}
	empty := initialModel(context.Background(), editor.New(context.Background(), editor.Options{}), util.Config{SaveDir: t.TempDir()}, "test")
	if empty.view != viewPicker {
		t.Fatalf("empty session should start on picker, got %s", empty.view)
	}
	if empty.theme != defaultTheme {
		t.Fatalf("expected default theme, got %s", empty.theme)
	}
}

func TestScalarInputRejectsNonNumeric(t *testing.T) {
	m, _ := newTestModel(t)
	// population is the first variable and is an integer
	m = press(m, enter)
	if m.editing != editScalar {
		t.Fatal("enter should start editing the selected variable")
	}
	m = typeText(m, "12a.")
	if m.input != "12" {
		t.Fatalf("integer input accepted invalid characters: %q", m.input)
	}
	m = press(m, enter)
	if m.statusErr {
		t.Fatalf("unexpected error: %s", m.status)
	}
	fld, _ := m.session.Scalars().Field("population")
	if fld.Text != "12" {
		t.Fatalf("population input = %q", fld.Text)
	}
}

func TestPromptSetAndSaveWritesBackup(t *testing.T) {
	m, path := newTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{':'}})
	m = typeText(m, "set countries.USA.relationship 100")
	m = press(m, enter)
	if m.statusErr {
		t.Fatalf("set failed: %s", m.status)
	}
	m = press(m, ctrlS)
	if m.statusErr {
		t.Fatalf("save failed: %s", m.status)
	}
	bak, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if string(bak) != saveText {
		t.Fatal("backup should hold the pre-save bytes")
	}
	got, _ := os.ReadFile(path)
	if !strings.Contains(string(got), `"relationship":100`) {
		t.Fatalf("saved file missing edit: %s", got)
	}
	if !strings.HasPrefix(string(got), "CITK2SAVE v3\n") || !strings.HasSuffix(string(got), "\n--end--\n") {
		t.Fatalf("prefix/suffix not preserved: %q", got)
	}
}

func TestUnknownCommandSuggests(t *testing.T) {
	m, _ := newTestModel(t)
	m.runCommand("shortcat max-relations")
	if !m.statusErr || !strings.Contains(m.status, "shortcut") {
		t.Fatalf("expected suggestion, got %q", m.status)
	}
}

func TestShortcutFromPrompt(t *testing.T) {
	m, _ := newTestModel(t)
	m.runCommand("shortcut max-relations")
	if m.statusErr || !strings.Contains(m.status, "1 updated") {
		t.Fatalf("unexpected status %q", m.status)
	}
	res, _ := m.session.Get("countries.CHN.relationship")
	if res.Int() != 5 {
		t.Fatal("inactive country must be untouched")
	}
}

func TestRecordEditApply(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, tab) // countries
	if m.view != viewCountries {
		t.Fatalf("expected countries view, got %s", m.view)
	}
	// keys sort CHN, USA
	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, enter)
	if !m.rec.focus || m.rec.edited.Key != "USA" {
		t.Fatalf("expected USA focused, got %+v", m.rec)
	}
	// attrs: active, relationship
	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, enter)
	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	m = typeText(m, "77")
	m = press(m, enter)
	if !m.rec.pending {
		t.Fatal("edit should be pending until applied")
	}
	m = typeText(m, "a")
	if m.statusErr {
		t.Fatalf("apply failed: %s", m.status)
	}
	res, _ := m.session.Get("countries.USA.relationship")
	if res.Int() != 77 {
		t.Fatalf("relationship = %s", res.Raw)
	}
}

func TestQuitNeedsConfirmationWithChanges(t *testing.T) {
	m, _ := newTestModel(t)
	m.runCommand("set defcon 1")
	next, cmd := m.Update(ctrlC)
	if cmd != nil {
		t.Fatal("first ctrl+c with unsaved changes should not quit")
	}
	m = next.(model)
	if _, cmd = m.Update(ctrlC); cmd == nil {
		t.Fatal("second ctrl+c should quit")
	}
}

func TestSplitCommand(t *testing.T) {
	got := splitCommand("  set  characters.Yakovlev.name  Alexander  Yakovlev ", 3)
	if len(got) != 3 || got[1] != "characters.Yakovlev.name" || got[2] != "Alexander  Yakovlev" {
		t.Fatalf("unexpected split %q", got)
	}
	if got := splitCommand("save", 3); len(got) != 1 || got[0] != "save" {
		t.Fatalf("unexpected split %q", got)
	}
	if got := splitCommand("   ", 3); len(got) != 0 {
		t.Fatalf("expected empty split, got %q", got)
	}
}

func TestWindowKeepsCursorVisible(t *testing.T) {
	if s, e := window(5, 4, 10); s != 0 || e != 5 {
		t.Fatalf("short list window = %d,%d", s, e)
	}
	s, e := window(100, 99, 10)
	if s != 90 || e != 100 {
		t.Fatalf("end window = %d,%d", s, e)
	}
	s, e = window(100, 50, 10)
	if 50 < s || 50 >= e {
		t.Fatalf("cursor outside window %d,%d", s, e)
	}
}

func TestNextThemeNameWraps(t *testing.T) {
	names := themeNames()
	last := names[len(names)-1]
	if got := nextThemeName(last, 1); got != names[0] {
		t.Fatalf("nextThemeName(%s) = %s", last, got)
	}
	if got := nextThemeName(names[0], -1); got != last {
		t.Fatalf("nextThemeName backwards = %s", got)
	}
}

func TestPickerListsSaves(t *testing.T) {
	m, path := newTestModel(t)
	m.setView(viewPicker)
	if len(m.saves) != 1 {
		t.Fatalf("expected one save, got %d (status %q)", len(m.saves), m.status)
	}
	if out := m.renderPicker(); !strings.Contains(out, filepath.Base(path)) {
		t.Fatalf("picker does not show %s:\n%s", filepath.Base(path), out)
	}
}

func TestClearScalarInput(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyDown}) // defcon
	m = typeText(m, "x")
	if m.statusErr || !strings.Contains(m.status, "defcon cleared") {
		t.Fatalf("unexpected status %q", m.status)
	}
	fld, _ := m.session.Scalars().Field("defcon")
	if fld.Text != "" || fld.Dirty() {
		t.Fatalf("defcon input = %q, dirty %v", fld.Text, fld.Dirty())
	}
}

func TestUnappliedRecordEditsGuarded(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, tab, tea.KeyMsg{Type: tea.KeyDown}, enter) // countries, USA
	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, enter)      // relationship
	m = typeText(m, "5")
	m = press(m, enter)
	if !m.rec.pending {
		t.Fatal("edit should be pending")
	}
	if len(m.session.Changes()) != 0 {
		t.Fatal("unapplied edits must not reach the session")
	}

	if _, cmd := m.Update(ctrlC); cmd != nil {
		t.Fatal("ctrl+c with unapplied record edits should ask first")
	}

	m = press(m, tab)
	if m.view != viewCountries || !m.statusErr {
		t.Fatalf("leaving with unapplied edits should warn, view %s status %q", m.view, m.status)
	}
	m = press(m, tab)
	if m.view != viewCharacters {
		t.Fatalf("second tab should leave, got %s", m.view)
	}
	if m.rec.pending {
		t.Fatal("pending edits should be discarded")
	}
	res, _ := m.session.Get("countries.USA.relationship")
	if res.Int() != -20 {
		t.Fatalf("relationship changed to %s", res.Raw)
	}
}
