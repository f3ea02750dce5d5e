package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/quarkedit/internal/clipboard"
	"github.com/example/quarkedit/internal/editor"
	"github.com/example/quarkedit/internal/imageio"
	"github.com/example/quarkedit/internal/recipe"
)

// applyCmd runs a recipe headlessly.
type applyCmd struct {
	recipePath    string
	file          string
	output        string
	formatName    string
	dir           string
	fromClipboard bool
	toClipboard   bool
	*root
	fs *flag.FlagSet
}

func (a *applyCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

// writeClipboardFn is swapped in tests.
var writeClipboardFn = clipboard.WriteImage

func parseApplyCmd(args []string, r *root) (*applyCmd, error) {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	a := &applyCmd{root: r.subcommand("apply"), fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.recipePath, "recipe", "", "YAML recipe to run")
	fs.StringVar(&a.file, "file", "", "input image (overrides the recipe input)")
	fs.StringVar(&a.output, "output", "", "output name (overrides the recipe output name)")
	fs.StringVar(&a.formatName, "format", "", "output format: png or jpg")
	fs.StringVar(&a.dir, "dir", "", "output directory (overrides the recipe and config)")
	fs.BoolVar(&a.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&a.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.recipePath == "" && fs.NArg() > 0 {
		a.recipePath = fs.Arg(0)
	}
	if a.recipePath == "" {
		return nil, &UsageError{of: a}
	}
	if a.fromClipboard && a.file != "" {
		return nil, errors.New("-from-clipboard cannot be combined with -file")
	}
	return a, nil
}

func (a *applyCmd) Run(ctx context.Context) error {
	rc, err := recipe.LoadFile(a.recipePath)
	if err != nil {
		return err
	}
	format, err := a.format(a.formatName, rc.Output.Format)
	if err != nil {
		return err
	}

	input := a.file
	if input == "" && rc.Input != "" {
		input = rc.Input
		if !filepath.IsAbs(input) {
			input = filepath.Join(filepath.Dir(a.recipePath), input)
		}
	}
	name := firstNonEmpty(a.output, rc.Output.Name)
	if a.fromClipboard && name == "" {
		return errors.New("output file is required when reading from the clipboard")
	}
	if !a.fromClipboard && input == "" {
		return errors.New("no input image: set -file or the recipe input")
	}

	sess := editor.New(a.sessionOptions()...)
	defer sess.WaitThumbnails()
	if a.fromClipboard {
		img, err := readClipboardFn()
		if err != nil {
			return fmt.Errorf("read clipboard image: %w", err)
		}
		sess.SetImage(img)
	} else if err := loadFile(ctx, sess, input); err != nil {
		return err
	}

	if err := rc.Apply(ctx, sess); err != nil {
		return fmt.Errorf("apply %s: %w", a.recipePath, err)
	}

	dir := firstNonEmpty(a.dir, rc.Output.Dir, a.config.ExportDir)
	var path string
	if name == "" {
		path = defaultOutput(dir, input, format)
	} else {
		path = filepath.Join(dir, imageio.ExportName(name, format))
	}
	if err := writeImage(sess, path, format); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	saved := path
	if abs, err := filepath.Abs(path); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	a.notifyExport(saved)

	if a.toClipboard {
		if err := writeClipboardFn(sess.Display()); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := filepath.Base(path)
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		a.notifier.Copy(detail, sess.Display())
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
