package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

const defaultTheme = "kremlin"

type palette struct {
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Accent    lipgloss.Color
	AccentAlt lipgloss.Color
	Border    lipgloss.Color
	Selected  lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

var palettes = map[string]palette{
	"kremlin": {
		Text:      lipgloss.Color("#f2e6c9"),
		Muted:     lipgloss.Color("#a08d6b"),
		Accent:    lipgloss.Color("#d4a017"),
		AccentAlt: lipgloss.Color("#c8102e"),
		Border:    lipgloss.Color("#7a1f1f"),
		Selected:  lipgloss.Color("#5a0f14"),
		Success:   lipgloss.Color("#9bbf5a"),
		Warning:   lipgloss.Color("#f0b429"),
		Error:     lipgloss.Color("#ff5c5c"),
	},
	"catppuccin": {
		Text:      lipgloss.Color("#cdd6f4"),
		Muted:     lipgloss.Color("#a6adc8"),
		Accent:    lipgloss.Color("#cba6f7"),
		AccentAlt: lipgloss.Color("#f38ba8"),
		Border:    lipgloss.Color("#585b70"),
		Selected:  lipgloss.Color("#45475a"),
		Success:   lipgloss.Color("#94e2d5"),
		Warning:   lipgloss.Color("#f9e2af"),
		Error:     lipgloss.Color("#f38ba8"),
	},
	"gruvbox": {
		Text:      lipgloss.Color("#ebdbb2"),
		Muted:     lipgloss.Color("#a89984"),
		Accent:    lipgloss.Color("#fabd2f"),
		AccentAlt: lipgloss.Color("#d3869b"),
		Border:    lipgloss.Color("#665c54"),
		Selected:  lipgloss.Color("#504945"),
		Success:   lipgloss.Color("#b8bb26"),
		Warning:   lipgloss.Color("#fe8019"),
		Error:     lipgloss.Color("#fb4934"),
	},
	"solarized_dark": {
		Text:      lipgloss.Color("#fdf6e3"),
		Muted:     lipgloss.Color("#93a1a1"),
		Accent:    lipgloss.Color("#b58900"),
		AccentAlt: lipgloss.Color("#268bd2"),
		Border:    lipgloss.Color("#586e75"),
		Selected:  lipgloss.Color("#073642"),
		Success:   lipgloss.Color("#859900"),
		Warning:   lipgloss.Color("#cb4b16"),
		Error:     lipgloss.Color("#dc322f"),
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[defaultTheme]
}

func themeNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func nextThemeName(current string, step int) string {
	names := themeNames()
	if len(names) == 0 {
		return current
	}
	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
			break
		}
	}
	idx = (idx + step) % len(names)
	if idx < 0 {
		idx += len(names)
	}
	return names[idx]
}

// styles are the lipgloss styles derived from a palette.
type styles struct {
	title    lipgloss.Style
	tab      lipgloss.Style
	tabOn    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	muted    lipgloss.Style
	cursor   lipgloss.Style
	dirty    lipgloss.Style
	panel    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	footer   lipgloss.Style
	readOnly lipgloss.Style
}

func newStyles(p palette) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		tab:      lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1),
		tabOn:    lipgloss.NewStyle().Bold(true).Foreground(p.Text).Background(p.AccentAlt).Padding(0, 1),
		label:    lipgloss.NewStyle().Foreground(p.Text),
		value:    lipgloss.NewStyle().Foreground(p.Accent),
		muted:    lipgloss.NewStyle().Foreground(p.Muted),
		cursor:   lipgloss.NewStyle().Bold(true).Foreground(p.Text).Background(p.Selected),
		dirty:    lipgloss.NewStyle().Foreground(p.Warning),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1),
		ok:       lipgloss.NewStyle().Foreground(p.Success),
		err:      lipgloss.NewStyle().Bold(true).Foreground(p.Error),
		footer:   lipgloss.NewStyle().Foreground(p.Muted),
		readOnly: lipgloss.NewStyle().Italic(true).Foreground(p.Muted),
	}
}
