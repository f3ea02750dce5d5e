package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/example/quarkedit/internal/clipboard"
	"github.com/example/quarkedit/internal/editor"
	"github.com/example/quarkedit/internal/imageio"
	"github.com/example/quarkedit/internal/ui"
)

// editCmd opens an image in the editor window.
type editCmd struct {
	file          string
	output        string
	formatName    string
	fromClipboard bool
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

// readClipboardFn is swapped in tests.
var readClipboardFn = clipboard.ReadImage

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	e := &editCmd{root: r.subcommand("edit"), fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.file, "file", "", "image file to edit")
	fs.StringVar(&e.output, "output", "", "export path (defaults to <file>-edit in the export directory)")
	fs.StringVar(&e.formatName, "format", "", "export format: png or jpg")
	fs.BoolVar(&e.fromClipboard, "from-clipboard", false, "read the image from the clipboard")
	fs.BoolVar(&e.fromClipboard, "from-clip", false, "read the image from the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if e.file == "" && fs.NArg() > 0 {
		e.file = fs.Arg(0)
	}
	if e.fromClipboard && e.file != "" {
		return nil, errors.New("-from-clipboard cannot be combined with -file")
	}
	if e.fromClipboard && e.output == "" {
		return nil, errors.New("output file is required when reading from the clipboard")
	}
	if !e.fromClipboard && e.file == "" {
		return nil, &UsageError{of: e}
	}
	return e, nil
}

func (e *editCmd) Run(ctx context.Context) error {
	format, err := e.format(e.formatName, filepath.Ext(e.output))
	if err != nil {
		return err
	}
	sess := editor.New(e.sessionOptions()...)
	defer sess.WaitThumbnails()
	if err := e.load(ctx, sess); err != nil {
		return err
	}
	output := e.output
	if output == "" {
		output = defaultOutput(e.config.ExportDir, e.file, format)
	}
	v := ui.New(sess, ui.Options{
		Theme:    e.activeTheme,
		Output:   output,
		Format:   format,
		Notifier: e.notifier,
	})
	v.Run()
	return nil
}

func (e *editCmd) load(ctx context.Context, sess *editor.Session) error {
	if e.fromClipboard {
		img, err := readClipboardFn()
		if err != nil {
			return fmt.Errorf("read clipboard image: %w", err)
		}
		sess.SetImage(img)
		return nil
	}
	return loadFile(ctx, sess, e.file)
}

func loadFile(ctx context.Context, sess *editor.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			log.Printf("error closing %q: %v", f.Name(), err)
		}
	}(f)
	if err := sess.Load(ctx, f); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// defaultOutput names the export after the input with an -edit suffix.
func defaultOutput(dir, input string, format imageio.Format) string {
	base := filepath.Base(input)
	base = base[:len(base)-len(filepath.Ext(base))]
	if base == "" || base == "." {
		base = "export"
	}
	return filepath.Join(dir, imageio.ExportName(base+"-edit", format))
}

// writeImage exports the session to path, creating its directory.
func writeImage(sess *editor.Session, path string, format imageio.Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sess.Export(out, format); err != nil {
		if cerr := out.Close(); cerr != nil {
			log.Printf("error closing %q: %v", out.Name(), cerr)
		}
		return err
	}
	return out.Close()
}
