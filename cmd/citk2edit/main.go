package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/rodaine/table"

	"github.com/DaanHessen/citk2-editor/internal/editor"
	"github.com/DaanHessen/citk2-editor/internal/fields"
	"github.com/DaanHessen/citk2-editor/internal/report"
	"github.com/DaanHessen/citk2-editor/internal/savefile"
	"github.com/DaanHessen/citk2-editor/internal/store"
	"github.com/DaanHessen/citk2-editor/internal/ui"
	"github.com/DaanHessen/citk2-editor/internal/util"
)

var version = "0.3.0"

func main() {
	configPath := flag.String("config", util.DefaultConfigPath(), "YAML config file")
	saveDir := flag.String("save-dir", "", "Directory the picker lists saves from")
	dsn := flag.String("dsn", "", "PostgreSQL DSN for the save journal (optional)")
	theme := flag.String("theme", "", "Colour theme")
	locator := flag.String("locator", "", "Blob locator: balanced|greedy")
	logFile := flag.String("log", "", "Write debug log to this file")
	exportDir := flag.String("export-dir", "", "Directory for exported reports")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "citk2edit [flags] [file]\n"+
			"citk2edit [flags] show <file> | get <file> <path> | set <file> <path> <value>\n"+
			"          shortcut <file> <name> | report <file> [out.pdf] | saves | history [file]\n"+
			"          migrate up|down | version\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := util.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	// flags win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "save-dir":
			cfg.SaveDir = *saveDir
		case "dsn":
			cfg.DSN = *dsn
		case "theme":
			cfg.Theme = *theme
		case "locator":
			cfg.Locator = *locator
		case "log":
			cfg.LogFile = *logFile
		case "export-dir":
			cfg.ExportDir = *exportDir
		}
	})
	if cfg.SaveDir == "" {
		cfg.SaveDir = savefile.DefaultSaveDir()
	}
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "citk2")
		if err != nil {
			fatal(err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	mode, err := savefile.ParseLocatorMode(cfg.Locator)
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	args := flag.Args()
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "version":
		fmt.Println("citk2edit", version)
		return
	case "migrate":
		runMigrate(ctx, cfg, args[1:])
		return
	case "saves":
		listSaves(cfg)
		return
	case "history":
		history(ctx, cfg, args[1:])
		return
	case "show", "get", "set", "shortcut", "report":
		if len(args) < 2 {
			flag.Usage()
			os.Exit(2)
		}
		runFileCommand(ctx, cfg, mode, cmd, absPath(args[1]), args[2:])
		return
	}

	if len(args) > 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := ""
	if len(args) == 1 {
		path = absPath(args[0])
	}
	journal, closeJournal := openJournal(ctx, cfg)
	defer closeJournal()
	session := editor.New(ctx, editor.Options{Locator: mode, Journal: journal})
	if err := ui.Run(ctx, session, cfg, version, path); err != nil {
		fatal(err)
	}
}

func runMigrate(ctx context.Context, cfg util.Config, args []string) {
	if len(args) < 1 {
		fatal(fmt.Errorf("migrate requires 'up' or 'down'"))
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	migrator, err := store.NewMigrator(cfg.DSN)
	if err != nil {
		fatal(err)
	}
	switch args[0] {
	case "up":
		if err := migrator.Up(ctx); err != nil && err != store.ErrNoChange {
			fatal(err)
		}
		pterm.Success.Println("Migrations applied")
	case "down":
		if err := migrator.Down(ctx); err != nil && err != store.ErrNoChange {
			fatal(err)
		}
		pterm.Success.Println("Migrations rolled back")
	default:
		fatal(fmt.Errorf("unknown migrate action %q; use up|down", args[0]))
	}
}

// openJournal connects the save journal when a DSN is configured. The journal is optional,
// so connection problems are reported and editing continues without it.
func openJournal(ctx context.Context, cfg util.Config) (editor.Journal, func()) {
	if cfg.DSN == "" {
		return nil, func() {}
	}
	migCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	mig, err := store.NewMigrator(cfg.DSN)
	if err == nil {
		err = mig.Up(migCtx)
	}
	if err != nil && err != store.ErrNoChange {
		pterm.Warning.Printf("save journal disabled: %v\n", err)
		return nil, func() {}
	}
	db, err := store.Open(ctx, cfg)
	if err != nil {
		pterm.Warning.Printf("save journal disabled: %v\n", err)
		return nil, func() {}
	}
	return store.NewJournalRepo(db), func() { db.Close() }
}

func runFileCommand(ctx context.Context, cfg util.Config, mode savefile.LocatorMode, cmd, path string, rest []string) {
	journal, closeJournal := openJournal(ctx, cfg)
	defer closeJournal()
	s := editor.New(ctx, editor.Options{Locator: mode, Journal: journal})
	if err := s.Open(path); err != nil {
		fatal(err)
	}
	switch cmd {
	case "show":
		tbl := table.New("Variable", "Key", "Value").WithWriter(os.Stdout)
		for _, f := range s.Scalars().Fields {
			if f.Present {
				tbl.AddRow(f.Var.Label, f.Source, f.Loaded)
			}
		}
		tbl.Print()
		for _, t := range fields.Tables() {
			pterm.Info.Printf("%s: %d\n", t.Title, len(s.Keys(t)))
		}
	case "get":
		if len(rest) != 1 {
			fatal(fmt.Errorf("usage: get <file> <path>"))
		}
		res, err := s.Get(rest[0])
		if err != nil {
			fatal(err)
		}
		if !res.Exists() {
			fatal(fmt.Errorf("%s: not found", rest[0]))
		}
		fmt.Println(res.Raw)
	case "set":
		if len(rest) < 2 {
			fatal(fmt.Errorf("usage: set <file> <path> <value>"))
		}
		if err := s.Set(rest[0], strings.Join(rest[1:], " ")); err != nil {
			fatal(err)
		}
		save(s)
	case "shortcut":
		if len(rest) != 1 {
			fatal(fmt.Errorf("usage: shortcut <file> <name>"))
		}
		n, err := s.RunShortcut(rest[0])
		if err != nil {
			fatal(err)
		}
		pterm.Info.Printf("%s updated %d\n", rest[0], n)
		save(s)
	case "report":
		if len(rest) == 0 {
			fmt.Print(report.Markdown(s.Tree()))
			return
		}
		f, err := os.Create(rest[0])
		if err != nil {
			fatal(err)
		}
		if err := report.WritePDF(f, filepath.Base(path), s.Tree()); err != nil {
			f.Close()
			fatal(err)
		}
		if err := f.Close(); err != nil {
			fatal(err)
		}
		pterm.Success.Printf("report written to %s\n", rest[0])
	}
}

func save(s *editor.Session) {
	res, err := s.Save()
	if err != nil {
		fatal(err)
	}
	pterm.Success.Printf("saved %s (%d bytes), backup %s\n", res.Path, res.Bytes, res.BackupPath)
}

func listSaves(cfg util.Config) {
	saves, err := savefile.ListSaves(cfg.SaveDir)
	if err != nil {
		fatal(err)
	}
	if len(saves) == 0 {
		pterm.Info.Printf("no %s files in %s\n", savefile.Extension, cfg.SaveDir)
		return
	}
	tbl := table.New("Name", "Size", "Modified").WithWriter(os.Stdout)
	for _, sv := range saves {
		tbl.AddRow(sv.Name, sv.Size, sv.Mod.Local().Format("2006-01-02 15:04"))
	}
	tbl.Print()
}

func history(ctx context.Context, cfg util.Config, args []string) {
	db, err := store.Open(ctx, cfg)
	if err != nil {
		fatal(err)
	}
	defer db.Close()
	path := ""
	if len(args) > 0 {
		path = absPath(args[0])
	}
	events, err := store.NewJournalRepo(db).List(ctx, path, 50)
	if err != nil {
		fatal(err)
	}
	if len(events) == 0 {
		pterm.Info.Println("no saves recorded")
		return
	}
	tbl := table.New("Saved", "File", "Changes", "SHA-256").WithWriter(os.Stdout)
	for _, ev := range events {
		tbl.AddRow(ev.SavedAt.Local().Format("2006-01-02 15:04:05"), filepath.Base(ev.Path), strings.Join(ev.Changes, ", "), shortHash(ev.BlobSHA256))
	}
	tbl.Print()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func fatal(err error) {
	pterm.Error.Println(err)
	os.Exit(1)
}
