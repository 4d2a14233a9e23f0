// Package report summarises an open save as Markdown or PDF.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"

	"github.com/DaanHessen/citk2-editor/internal/fields"
)

// Summary is the data both report formats are built from.
type Summary struct {
	Stats  []Stat
	Tables []TableCount
	Active []Country
}

// Stat is one scalar variable present in the save.
type Stat struct {
	Label string
	Name  string
	Value string
}

// TableCount counts the records of a table and how many carry its flag.
type TableCount struct {
	Title   string
	Total   int
	Flagged int
	Flag    string
}

// Country is an active country row.
type Country struct {
	Name         string
	Relationship string
}

var flags = map[string]string{
	fields.Countries.Key:    "active",
	fields.Characters.Key:   "alive",
	fields.Technologies.Key: "researched",
}

// Summarize collects the report data from tree.
func Summarize(tree map[string]any) Summary {
	var s Summary
	for _, f := range fields.LoadScalars(tree).Fields {
		if !f.Present {
			continue
		}
		s.Stats = append(s.Stats, Stat{Label: f.Var.Label, Name: f.Var.Name, Value: f.Loaded})
	}
	for _, t := range fields.Tables() {
		tc := TableCount{Title: t.Title, Flag: flags[t.Key]}
		for _, k := range fields.Keys(tree, t) {
			rec, ok := fields.Record(tree, t, k)
			if !ok {
				continue
			}
			tc.Total++
			if on, _ := rec[tc.Flag].(bool); on {
				tc.Flagged++
				if t.Key == fields.Countries.Key {
					rel := ""
					if v, has := rec["relationship"]; has {
						rel = fields.Literal(v)
					}
					s.Active = append(s.Active, Country{Name: k, Relationship: rel})
				}
			}
		}
		s.Tables = append(s.Tables, tc)
	}
	return s
}

// Markdown renders the summary of tree.
func Markdown(tree map[string]any) string {
	s := Summarize(tree)
	var b strings.Builder
	b.WriteString("# Save report\n\n")
	b.WriteString("## National statistics\n\n")
	if len(s.Stats) == 0 {
		b.WriteString("_No known variables in this save._\n\n")
	} else {
		b.WriteString("| Variable | Key | Value |\n|---|---|---|\n")
		for _, st := range s.Stats {
			b.WriteString(fmt.Sprintf("| %s | `%s` | %s |\n", st.Label, st.Name, escapeCell(st.Value)))
		}
		b.WriteString("\n")
	}
	b.WriteString("## Records\n\n")
	for _, tc := range s.Tables {
		b.WriteString(fmt.Sprintf("- **%s**: %d (%d %s)\n", tc.Title, tc.Total, tc.Flagged, tc.Flag))
	}
	b.WriteString("\n## Active countries\n\n")
	if len(s.Active) == 0 {
		b.WriteString("_None._\n")
	}
	for _, c := range s.Active {
		if c.Relationship == "" {
			b.WriteString(fmt.Sprintf("- %s\n", c.Name))
			continue
		}
		b.WriteString(fmt.Sprintf("- %s (relationship %s)\n", c.Name, c.Relationship))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExportMarkdown writes md to dir/name.md and returns the path.
func ExportMarkdown(dir, name, md string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", errors.Wrap(err, "create export dir")
	}
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." {
		base = "save"
	}
	path := filepath.Join(dir, base+"_report.md")
	if err := os.WriteFile(path, []byte(md), 0o600); err != nil {
		return "", errors.Wrapf(err, "write %s", path)
	}
	return path, nil
}

// WritePDF renders the summary of tree as a single-document PDF.
func WritePDF(w io.Writer, title string, tree map[string]any) error {
	s := Summarize(tree)
	const margin = 40.0
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTextColor(140, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 24, tr("Save report"), "", 1, "L", false, 0, "")
	if title != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(80, 80, 80)
		pdf.CellFormat(0, 12, tr(title), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	heading(pdf, "National statistics")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(20, 20, 20)
	for i, st := range s.Stats {
		fill := i%2 == 0
		pdf.SetFillColor(245, 235, 210)
		pdf.CellFormat(300, 14, tr(st.Label), "", 0, "L", fill, 0, "")
		pdf.CellFormat(0, 14, tr(st.Value), "", 1, "R", fill, 0, "")
	}
	if len(s.Stats) == 0 {
		pdf.CellFormat(0, 14, "No known variables.", "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	heading(pdf, "Records")
	pdf.SetFont("Helvetica", "", 9)
	for _, tc := range s.Tables {
		pdf.CellFormat(0, 14, fmt.Sprintf("%s: %d (%d %s)", tc.Title, tc.Total, tc.Flagged, tc.Flag), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	heading(pdf, "Active countries")
	pdf.SetFont("Helvetica", "", 9)
	for _, c := range s.Active {
		line := c.Name
		if c.Relationship != "" {
			line += " (relationship " + c.Relationship + ")"
		}
		pdf.CellFormat(0, 14, tr(line), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "render pdf")
	}
	return nil
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(140, 20, 20)
	pdf.SetDrawColor(200, 160, 40)
	pdf.CellFormat(0, 18, text, "B", 1, "L", false, 0, "")
	pdf.Ln(4)
}
