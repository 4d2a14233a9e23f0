package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/DaanHessen/citk2-editor/internal/editor"
	"github.com/DaanHessen/citk2-editor/internal/fields"
	"github.com/DaanHessen/citk2-editor/internal/report"
	"github.com/DaanHessen/citk2-editor/internal/savefile"
	"github.com/DaanHessen/citk2-editor/internal/util"
)

const (
	viewPicker       = "picker"
	viewVariables    = "variables"
	viewCountries    = "countries"
	viewCharacters   = "characters"
	viewTechnologies = "technologies"
	viewShortcuts    = "shortcuts"
	viewReport       = "report"
	viewHelp         = "help"
)

var viewOrder = []string{viewPicker, viewVariables, viewCountries, viewCharacters, viewTechnologies, viewShortcuts, viewReport, viewHelp}

var viewTitles = map[string]string{
	viewPicker:       "Open",
	viewVariables:    "Variables",
	viewCountries:    "Countries",
	viewCharacters:   "Characters",
	viewTechnologies: "Technologies",
	viewShortcuts:    "Shortcuts",
	viewReport:       "Report",
	viewHelp:         "Help",
}

type inputMode int

const (
	editNone inputMode = iota
	editScalar
	editAttr
	editPrompt
)

// recordState is the cursor and pending edits of a record table view.
type recordState struct {
	table   string
	keys    []string
	keyIdx  int
	attrIdx int
	focus   bool
	edited  fields.RecordView
	pending bool
}

type model struct {
	ctx     context.Context
	session *editor.Session
	cfg     util.Config
	version string

	view   string
	width  int
	height int

	theme string
	st    styles

	status    string
	statusErr bool
	armed     string

	editing inputMode
	input   string

	saves   []savefile.SaveInfo
	pickIdx int
	varIdx  int
	scIdx   int
	rec     recordState

	reportMD string
	rendered string
	scroll   int
}

func initialModel(ctx context.Context, session *editor.Session, cfg util.Config, version string) model {
	theme := cfg.Theme
	if _, ok := palettes[theme]; !ok {
		theme = defaultTheme
	}
	m := model{
		ctx:     ctx,
		session: session,
		cfg:     cfg,
		version: version,
		theme:   theme,
		st:      newStyles(paletteFor(theme)),
	}
	if session.Loaded() {
		m.setView(viewVariables)
	} else {
		m.setView(viewPicker)
	}
	return m
}

// tea.Model implementation ---------------------------------------------------
func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == viewReport || m.view == viewHelp {
			m.renderMarkdown()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			if m.unsaved() && m.armed != "quit" {
				m.armed = "quit"
				m.setError(errors.New("unsaved changes; press ctrl+c again to quit"))
				return m, nil
			}
			return m, tea.Quit
		}
		if m.editing != editNone {
			m.handleInput(msg)
			return m, nil
		}
		k := msg.String()
		switch k {
		case "tab":
			m.cycleView(1)
		case "shift+tab":
			m.cycleView(-1)
		case "ctrl+o":
			m.setView(viewPicker)
		case "ctrl+s":
			m.save()
		case "ctrl+r":
			m.session.Reset()
			m.setOK("inputs cleared")
		case "ctrl+t":
			m.setTheme(nextThemeName(m.theme, 1))
		case ":":
			m.startInput(editPrompt, "")
		case "?":
			m.setView(viewHelp)
		default:
			m.handleViewKey(k)
		}
	}
	return m, nil
}

func (m model) View() string {
	var body string
	switch m.view {
	case viewPicker:
		body = m.renderPicker()
	case viewVariables:
		body = m.renderVariables()
	case viewCountries, viewCharacters, viewTechnologies:
		body = m.renderRecords()
	case viewShortcuts:
		body = m.renderShortcuts()
	case viewReport, viewHelp:
		body = m.renderScrolled()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTopBar(), m.renderTabs(), body, m.renderBottomBar())
}

// Navigation ---------------------------------------------------------------

func (m *model) cycleView(step int) {
	cur := 0
	for i, v := range viewOrder {
		if v == m.view {
			cur = i
			break
		}
	}
	next := (cur + step) % len(viewOrder)
	if next < 0 {
		next += len(viewOrder)
	}
	m.setView(viewOrder[next])
}

// unsaved reports edits that would be lost on quit or open, including unapplied record edits.
func (m *model) unsaved() bool {
	return m.rec.pending || len(m.session.Changes()) > 0
}

func (m *model) setView(v string) {
	if _, onTable := m.currentTable(); onTable && m.rec.pending && v != m.view {
		if m.armed != "view:"+v {
			m.armed = "view:" + v
			m.setError(errors.New("unapplied record edits; a applies, u reverts, switch again to discard"))
			return
		}
		key := m.rec.edited.Key
		m.armed = ""
		m.syncRecord()
		m.setError(errors.Errorf("unapplied %s edits discarded", key))
	}
	m.view = v
	m.scroll = 0
	switch v {
	case viewPicker:
		m.refreshSaves()
	case viewCountries, viewCharacters, viewTechnologies:
		m.loadTable()
	case viewReport:
		if m.session.Loaded() {
			m.reportMD = report.Markdown(m.session.Tree())
		} else {
			m.reportMD = "# Report\n\nOpen a save first (ctrl+o)."
		}
		m.renderMarkdown()
	case viewHelp:
		m.renderMarkdown()
	}
}

func (m *model) setTheme(name string) {
	if _, ok := palettes[name]; !ok {
		m.setError(errors.Errorf("unknown theme %q (have %s)", name, strings.Join(themeNames(), ", ")))
		return
	}
	m.theme = name
	m.st = newStyles(paletteFor(name))
	m.setOK("theme " + name)
}

func (m *model) setOK(s string) {
	m.armed = ""
	m.status = s
	m.statusErr = false
}

func (m *model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *model) currentTable() (fields.Table, bool) {
	return fields.TableByKey(m.view)
}

func (m *model) handleViewKey(k string) {
	switch m.view {
	case viewPicker:
		m.pickerKey(k)
	case viewVariables:
		m.variablesKey(k)
	case viewCountries, viewCharacters, viewTechnologies:
		m.recordsKey(k)
	case viewShortcuts:
		m.shortcutsKey(k)
	case viewReport, viewHelp:
		m.scrollKey(k)
	}
}

// Text input ----------------------------------------------------------------

func (m *model) startInput(mode inputMode, initial string) {
	m.editing = mode
	m.input = initial
}

func (m *model) handleInput(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = editNone
		m.input = ""
	case tea.KeyEnter:
		mode, text := m.editing, m.input
		m.editing = editNone
		m.input = ""
		m.commitInput(mode, text)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		add := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			add = " "
		}
		next := m.input + add
		if m.editing == editScalar {
			if fld, ok := m.scalarAt(m.varIdx); ok && !fields.ValidPartial(fld.Var.Kind, next) {
				return
			}
		}
		m.input = next
	}
}

func (m *model) commitInput(mode inputMode, text string) {
	switch mode {
	case editScalar:
		fld, ok := m.scalarAt(m.varIdx)
		if !ok {
			return
		}
		if err := m.session.SetScalar(fld.Var.Name, text); err != nil {
			m.setError(err)
			return
		}
		m.setOK(fmt.Sprintf("%s = %s (pending save)", fld.Var.Name, text))
	case editAttr:
		a := attrAt(&m.rec.edited, m.rec.attrIdx)
		if a == nil {
			return
		}
		if a.Text != text {
			a.Text = text
			m.rec.pending = true
		}
		m.setOK(fmt.Sprintf("%s = %s (a to apply)", a.Path(), text))
	case editPrompt:
		m.runCommand(text)
	}
}

// Commands -----------------------------------------------------------------

var commandNames = []string{"get", "set", "shortcut", "save", "open", "theme", "export", "reset", "quit"}

// splitCommand returns the command word and up to n-1 further words; the last part keeps
// the rest of the line so values may contain spaces.
func splitCommand(line string, n int) []string {
	var out []string
	rest := strings.TrimSpace(line)
	for len(out) < n-1 && rest != "" {
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			out = append(out, rest)
			return out
		}
		out = append(out, rest[:i])
		rest = strings.TrimSpace(rest[i:])
	}
	if rest != "" {
		out = append(out, rest)
	}
	return out
}

func (m *model) runCommand(line string) {
	parts := splitCommand(line, 3)
	if len(parts) == 0 {
		return
	}
	switch parts[0] {
	case "get":
		if len(parts) < 2 {
			m.setError(errors.New("usage: get <path>"))
			return
		}
		path := strings.Join(parts[1:], " ")
		res, err := m.session.Get(path)
		if err != nil {
			m.setError(err)
			return
		}
		if !res.Exists() {
			m.setError(errors.Errorf("%s: not found", path))
			return
		}
		m.setOK(path + " = " + res.Raw)
	case "set":
		if len(parts) < 3 {
			m.setError(errors.New("usage: set <path> <value>"))
			return
		}
		if err := m.session.Set(parts[1], parts[2]); err != nil {
			m.setError(err)
			return
		}
		m.syncRecord()
		m.setOK(fmt.Sprintf("%s = %s (pending save)", parts[1], parts[2]))
	case "shortcut":
		if len(parts) < 2 {
			m.setError(errors.New("usage: shortcut <name>"))
			return
		}
		m.runShortcut(parts[1])
	case "save":
		m.save()
	case "open":
		if len(parts) < 2 {
			m.setError(errors.New("usage: open <file>"))
			return
		}
		m.open(strings.Join(parts[1:], " "))
	case "theme":
		if len(parts) < 2 {
			m.setOK("themes: " + strings.Join(themeNames(), ", "))
			return
		}
		m.setTheme(parts[1])
	case "export":
		m.export()
	case "reset":
		m.session.Reset()
		m.setOK("inputs cleared")
	case "quit":
		m.setError(errors.New("use ctrl+c to quit"))
	default:
		if s := fields.Suggest(parts[0], commandNames); s != "" {
			m.setError(errors.Errorf("unknown command %q (did you mean %s?)", parts[0], s))
			return
		}
		m.setError(errors.Errorf("unknown command %q", parts[0]))
	}
}

// Actions ------------------------------------------------------------------

func (m *model) open(path string) {
	if m.unsaved() && m.armed != "open:"+path {
		m.armed = "open:" + path
		m.setError(errors.New("unsaved changes; press enter again to discard them"))
		return
	}
	m.armed = ""
	if err := m.session.Open(path); err != nil {
		m.setError(err)
		return
	}
	m.rec = recordState{}
	m.varIdx = 0
	m.setOK("opened " + path)
	m.setView(viewVariables)
}

func (m *model) save() {
	res, err := m.session.Save()
	if err != nil {
		m.setError(err)
		return
	}
	m.syncRecord()
	m.setOK(fmt.Sprintf("saved %s (%d bytes, backup %s)", res.Path, res.Bytes, res.BackupPath))
}

func (m *model) runShortcut(name string) {
	n, err := m.session.RunShortcut(name)
	if err != nil {
		m.setError(err)
		return
	}
	m.syncRecord()
	m.setOK(fmt.Sprintf("%s: %d updated (pending save)", name, n))
}

func (m *model) export() {
	if !m.session.Loaded() {
		m.setError(editor.ErrNoDocument)
		return
	}
	md := report.Markdown(m.session.Tree())
	path, err := report.ExportMarkdown(m.cfg.ExportDir, m.session.Path(), md)
	if err != nil {
		m.setError(err)
		return
	}
	m.setOK("exported " + path)
}

// Picker -------------------------------------------------------------------

func (m *model) refreshSaves() {
	saves, err := savefile.ListSaves(m.cfg.SaveDir)
	if err != nil {
		m.saves = nil
		m.setError(err)
		return
	}
	m.saves = saves
	m.pickIdx = clamp(m.pickIdx, 0, len(saves)-1)
}

func (m *model) pickerKey(k string) {
	switch k {
	case "up", "k":
		m.pickIdx = clamp(m.pickIdx-1, 0, len(m.saves)-1)
	case "down", "j":
		m.pickIdx = clamp(m.pickIdx+1, 0, len(m.saves)-1)
	case "r":
		m.refreshSaves()
	case "enter":
		if len(m.saves) == 0 {
			m.setError(errors.Errorf("no %s files in %s; use :open <file>", savefile.Extension, m.cfg.SaveDir))
			return
		}
		m.open(m.saves[m.pickIdx].Path)
	}
}

func (m model) renderPicker() string {
	var b strings.Builder
	b.WriteString(m.st.title.Render("Saves in "+m.cfg.SaveDir) + "\n\n")
	if len(m.saves) == 0 {
		b.WriteString(m.st.muted.Render("(no saves found; :open <file> opens any path)") + "\n")
		return m.st.panel.Render(b.String())
	}
	start, end := window(len(m.saves), m.pickIdx, m.bodyRows())
	for i := start; i < end; i++ {
		s := m.saves[i]
		line := fmt.Sprintf("%-40s %10d  %s", s.Name, s.Size, s.Mod.Local().Format("2006-01-02 15:04"))
		if i == m.pickIdx {
			b.WriteString(m.st.cursor.Render("> "+line) + "\n")
			continue
		}
		b.WriteString("  " + m.st.label.Render(line) + "\n")
	}
	return m.st.panel.Render(strings.TrimRight(b.String(), "\n"))
}

// Variables ----------------------------------------------------------------

func (m *model) scalarAt(i int) (fields.ScalarField, bool) {
	form := m.session.Scalars()
	if form == nil || i < 0 || i >= len(form.Fields) {
		return fields.ScalarField{}, false
	}
	return form.Fields[i], true
}

func (m *model) variablesKey(k string) {
	form := m.session.Scalars()
	if form == nil {
		m.setError(editor.ErrNoDocument)
		return
	}
	switch k {
	case "up", "k":
		m.varIdx = clamp(m.varIdx-1, 0, len(form.Fields)-1)
	case "down", "j":
		m.varIdx = clamp(m.varIdx+1, 0, len(form.Fields)-1)
	case "pgup":
		m.varIdx = clamp(m.varIdx-10, 0, len(form.Fields)-1)
	case "pgdown":
		m.varIdx = clamp(m.varIdx+10, 0, len(form.Fields)-1)
	case "enter", "e":
		fld, _ := m.scalarAt(m.varIdx)
		m.startInput(editScalar, fld.Text)
	case "x":
		fld, _ := m.scalarAt(m.varIdx)
		if err := m.session.SetScalar(fld.Var.Name, ""); err != nil {
			m.setError(err)
			return
		}
		m.setOK(fld.Var.Name + " cleared")
	}
}

func (m model) renderVariables() string {
	form := m.session.Scalars()
	if form == nil {
		return m.st.panel.Render(m.st.muted.Render("No file loaded. ctrl+o to pick a save."))
	}
	var b strings.Builder
	start, end := window(len(form.Fields), m.varIdx, m.bodyRows())
	for i := start; i < end; i++ {
		f := form.Fields[i]
		text := f.Text
		if m.editing == editScalar && i == m.varIdx {
			text = m.input + "▏"
		}
		mark := " "
		if f.Dirty() {
			mark = m.st.dirty.Render("*")
		}
		label := fmt.Sprintf("%-32s", f.Var.Label)
		val := text
		if !f.Present && text == "" {
			val = m.st.readOnly.Render("(absent)")
		}
		line := fmt.Sprintf("%s %-26s %s", label, f.Var.Name, val)
		if i == m.varIdx {
			b.WriteString(mark + m.st.cursor.Render(line) + "\n")
			continue
		}
		b.WriteString(mark + m.st.label.Render(label) + " " + m.st.muted.Render(fmt.Sprintf("%-26s", f.Var.Name)) + " " + m.st.value.Render(val) + "\n")
	}
	return m.st.panel.Render(strings.TrimRight(b.String(), "\n"))
}

// Records ------------------------------------------------------------------

func (m *model) loadTable() {
	t, ok := m.currentTable()
	if !ok {
		return
	}
	if m.rec.table != t.Key {
		m.rec = recordState{table: t.Key}
		if v, ok := m.session.Record(); ok && v.Table == t.Key {
			m.rec.edited = v.Clone()
		}
	}
	m.rec.keys = m.session.Keys(t)
	m.rec.keyIdx = clamp(m.rec.keyIdx, 0, len(m.rec.keys)-1)
}

// syncRecord copies the session's current record into the edit buffer.
func (m *model) syncRecord() {
	if v, ok := m.session.Record(); ok {
		m.rec.edited = v.Clone()
	} else {
		m.rec.edited = fields.RecordView{}
		m.rec.focus = false
	}
	m.rec.pending = false
	if _, ok := m.currentTable(); ok {
		m.loadTable()
	}
}

func (m *model) recordsKey(k string) {
	t, _ := m.currentTable()
	if !m.rec.focus {
		switch k {
		case "up", "k":
			m.rec.keyIdx = clamp(m.rec.keyIdx-1, 0, len(m.rec.keys)-1)
		case "down", "j":
			m.rec.keyIdx = clamp(m.rec.keyIdx+1, 0, len(m.rec.keys)-1)
		case "enter", "right", "l":
			if len(m.rec.keys) == 0 {
				m.setError(errors.Errorf("no %s in this save", strings.ToLower(t.Title)))
				return
			}
			key := m.rec.keys[m.rec.keyIdx]
			view, err := m.session.Select(t, key)
			if err != nil {
				m.setError(err)
				return
			}
			m.rec.edited = view.Clone()
			m.rec.pending = false
			m.rec.focus = true
			m.rec.attrIdx = 0
		}
		return
	}
	n := len(m.rec.edited.All())
	switch k {
	case "up", "k":
		m.rec.attrIdx = clamp(m.rec.attrIdx-1, 0, n-1)
	case "down", "j":
		m.rec.attrIdx = clamp(m.rec.attrIdx+1, 0, n-1)
	case "esc", "left", "h":
		if m.rec.pending {
			m.setError(errors.New("pending record edits discarded"))
		}
		m.rec.focus = false
		m.rec.pending = false
	case "enter", " ":
		a := attrAt(&m.rec.edited, m.rec.attrIdx)
		if a == nil {
			return
		}
		switch a.Kind {
		case fields.ReadOnly:
			m.setError(errors.Errorf("%s is read-only here; use :set", a.Path()))
		case fields.Toggle:
			if a.Text == "true" {
				a.Text = "false"
			} else {
				a.Text = "true"
			}
			m.rec.pending = true
		default:
			m.startInput(editAttr, a.Text)
		}
	case "u":
		m.syncRecord()
		m.rec.focus = true
		m.setOK("record edits reverted")
	case "a":
		if !m.rec.pending {
			m.setOK("nothing to apply")
			return
		}
		changed, err := m.session.ApplyRecordEdits(m.rec.edited)
		if err != nil {
			m.setError(err)
			return
		}
		m.syncRecord()
		m.rec.focus = true
		m.setOK(fmt.Sprintf("%s: %d attribute(s) updated (pending save)", m.rec.edited.Key, len(changed)))
	}
}

// attrAt returns a pointer to the i-th attribute of v in All() order.
func attrAt(v *fields.RecordView, i int) *fields.Attr {
	if i < 0 {
		return nil
	}
	if i < len(v.Attrs) {
		return &v.Attrs[i]
	}
	i -= len(v.Attrs)
	for g := range v.Groups {
		if i < len(v.Groups[g].Attrs) {
			return &v.Groups[g].Attrs[i]
		}
		i -= len(v.Groups[g].Attrs)
	}
	return nil
}

func (m model) renderRecords() string {
	if !m.session.Loaded() {
		return m.st.panel.Render(m.st.muted.Render("No file loaded. ctrl+o to pick a save."))
	}
	w := m.width
	if w <= 0 {
		w = 100
	}
	listWidth := 28
	if w < 90 {
		listWidth = 20
	}

	var list strings.Builder
	if len(m.rec.keys) == 0 {
		list.WriteString(m.st.muted.Render("(none)"))
	}
	start, end := window(len(m.rec.keys), m.rec.keyIdx, m.bodyRows())
	for i := start; i < end; i++ {
		line := truncate(m.rec.keys[i], listWidth-2)
		if i == m.rec.keyIdx {
			list.WriteString(m.st.cursor.Render("> "+line) + "\n")
			continue
		}
		list.WriteString("  " + m.st.label.Render(line) + "\n")
	}

	var detail strings.Builder
	v := m.rec.edited
	if v.Key == "" {
		detail.WriteString(m.st.muted.Render("enter to open a record"))
	} else {
		title := v.Key
		if m.rec.pending {
			title += m.st.dirty.Render(" (unapplied)")
		}
		detail.WriteString(m.st.title.Render(title) + "\n")
		idx := 0
		line := func(a fields.Attr, indent string) {
			text := a.Text
			if m.editing == editAttr && idx == m.rec.attrIdx {
				text = m.input + "▏"
			}
			row := fmt.Sprintf("%s%-24s %s", indent, a.Name, text)
			switch {
			case m.rec.focus && idx == m.rec.attrIdx:
				detail.WriteString(m.st.cursor.Render(row) + "\n")
			case a.Kind == fields.ReadOnly:
				detail.WriteString(m.st.readOnly.Render(row) + "\n")
			default:
				detail.WriteString(m.st.label.Render(fmt.Sprintf("%s%-24s ", indent, a.Name)) + m.st.value.Render(text) + "\n")
			}
			idx++
		}
		for _, a := range v.Attrs {
			line(a, "")
		}
		for _, g := range v.Groups {
			if !g.Present {
				detail.WriteString(m.st.muted.Render(g.Group.Label+": (absent)") + "\n")
				continue
			}
			detail.WriteString(m.st.title.Render(g.Group.Label) + "\n")
			for _, a := range g.Attrs {
				line(a, "  ")
			}
		}
	}

	left := m.st.panel.Width(listWidth).Render(strings.TrimRight(list.String(), "\n"))
	right := m.st.panel.Width(w - listWidth - 6).Render(strings.TrimRight(detail.String(), "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// Shortcuts ----------------------------------------------------------------

func (m *model) shortcutsKey(k string) {
	all := fields.Shortcuts()
	switch k {
	case "up", "k":
		m.scIdx = clamp(m.scIdx-1, 0, len(all)-1)
	case "down", "j":
		m.scIdx = clamp(m.scIdx+1, 0, len(all)-1)
	case "enter":
		m.runShortcut(all[m.scIdx].Name)
	}
}

func (m model) renderShortcuts() string {
	var b strings.Builder
	for i, s := range fields.Shortcuts() {
		line := fmt.Sprintf("%-18s %-14s %s", s.Name, s.Scope, s.Label)
		if i == m.scIdx {
			b.WriteString(m.st.cursor.Render("> "+line) + "\n")
			continue
		}
		b.WriteString("  " + m.st.label.Render(line) + "\n")
	}
	return m.st.panel.Render(strings.TrimRight(b.String(), "\n"))
}

// Report / help ------------------------------------------------------------

const helpMarkdown = `# Help

| Key | Action |
|---|---|
| tab / shift+tab | next / previous view |
| ctrl+o | pick a save file |
| ctrl+s | save (writes <file>.bak first) |
| ctrl+r | clear variable inputs |
| ctrl+t | next colour theme |
| : | command prompt |
| ? | this help |
| ctrl+c | quit |

## Variables
enter edits the selected value, x blanks it. Blank inputs are left untouched on save.
Integer and real inputs reject characters that cannot form a number.

## Records
enter opens a record; in a record enter edits text or flips a toggle. a applies the
record's edits, u reverts them, esc goes back to the list. Nested values that are not
one of the known groups are read-only; use :set for those.

## Commands
- ` + "`get <path>`" + ` shows a value, e.g. ` + "`get countries.USA.relationship`" + `
- ` + "`set <path> <value>`" + ` writes a value (true/false, null, numbers, else text)
- ` + "`shortcut <name>`" + ` runs a bulk shortcut
- ` + "`open <file>`" + `, ` + "`save`" + `, ` + "`export`" + `, ` + "`reset`" + `, ` + "`theme <name>`" + `
`

func (m *model) renderMarkdown() {
	md := m.reportMD
	if m.view == viewHelp {
		md = helpMarkdown
	}
	w := m.width
	if w <= 0 {
		w = 100
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(w-4))
	if err != nil {
		m.rendered = md
		return
	}
	out, err := renderer.Render(md)
	if err != nil {
		m.rendered = md
		return
	}
	m.rendered = out
}

func (m *model) scrollKey(k string) {
	switch k {
	case "down", "j":
		m.scroll += 3
	case "up", "k":
		m.scroll -= 3
	case "pgdown", "ctrl+f":
		m.scroll += 12
	case "pgup", "ctrl+b":
		m.scroll -= 12
	case "home":
		m.scroll = 0
	case "e":
		if m.view == viewReport {
			m.export()
		}
	case "esc":
		m.setView(viewVariables)
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m model) renderScrolled() string {
	lines := strings.Split(m.rendered, "\n")
	rows := m.bodyRows()
	start := clamp(m.scroll, 0, max(len(lines)-rows, 0))
	end := min(start+rows, len(lines))
	return strings.Join(lines[start:end], "\n")
}

// Chrome -------------------------------------------------------------------

func (m model) renderTopBar() string {
	left := "CITK2 SAVE EDITOR"
	if p := m.session.Path(); p != "" {
		left += " • " + filepath.Base(p)
	} else {
		left += " • (no file)"
	}
	right := "v" + m.version
	if n := len(m.session.Changes()); n > 0 {
		right = m.st.dirty.Render(fmt.Sprintf("%d unsaved", n)) + "  " + right
	}
	w := m.width
	if w <= 0 {
		w = 100
	}
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return m.st.title.Render(left) + strings.Repeat(" ", gap) + right
}

func (m model) renderTabs() string {
	parts := make([]string, 0, len(viewOrder))
	for _, v := range viewOrder {
		if v == m.view {
			parts = append(parts, m.st.tabOn.Render(viewTitles[v]))
			continue
		}
		parts = append(parts, m.st.tab.Render(viewTitles[v]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m model) renderBottomBar() string {
	var status string
	switch {
	case m.editing == editPrompt:
		status = ":" + m.input + "▏"
	case m.status == "":
		status = ""
	case m.statusErr:
		status = m.st.err.Render(m.status)
	default:
		status = m.st.ok.Render(m.status)
	}
	keys := "[Tab] view  [^O] open  [^S] save  [^R] reset  [:] command  [?] help  [^C] quit"
	return status + "\n" + m.st.footer.Render(keys)
}

// bodyRows is how many list rows fit between the bars.
func (m model) bodyRows() int {
	if m.height <= 0 {
		return 20
	}
	return max(m.height-7, 3)
}

// window returns the slice bounds of a rows-high window over n items that keeps cursor visible.
func window(n, cursor, rows int) (int, int) {
	if n <= rows {
		return 0, n
	}
	start := cursor - rows/2
	start = clamp(start, 0, n-rows)
	return start, start + rows
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
