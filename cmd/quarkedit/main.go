package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/example/quarkedit/internal/config"
	"github.com/example/quarkedit/internal/editor"
	"github.com/example/quarkedit/internal/imageio"
	"github.com/example/quarkedit/internal/notify"
	"github.com/example/quarkedit/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run(ctx context.Context) error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	exportAlerts bool
	copyAlerts   bool
	themeName    string
	verbose      bool
	activeTheme  *theme.Theme
	logger       *slog.Logger
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("quarkedit", flag.ContinueOnError),
		program:  "quarkedit",
		notifier: notify.New(notify.LoadPreferences()),
		config:   cfg,
	}
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.verbose, "v", false, "log editor activity to stderr")
	// Precedence: CLI > Env > Config > Default. An empty flag falls through.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, light, dark or a theme file name)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(ctx context.Context, args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	r.notifier.Enable(notify.EventExport, r.exportAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)

	r.logger = slog.New(slog.DiscardHandler)
	if r.verbose {
		r.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "apply":
		cmd, err = parseApplyCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{root: r.subcommand("version")}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run(ctx)
}

func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("QUARKEDIT_THEME")
	}
	if name == "" {
		name = r.config.Theme
	}
	if t, ok := r.config.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

// sessionOptions turns the editor section of the config into session
// options.
func (r *root) sessionOptions() []editor.Option {
	e := r.config.Editor
	return []editor.Option{
		editor.WithLogger(r.logger),
		editor.WithHistoryLimit(e.HistoryLimit),
		editor.WithJPEGQuality(e.JPEGQuality),
		editor.WithThumbnailSize(e.ThumbnailSize),
		editor.WithTextSize(e.TextSize),
		editor.WithStickerSize(e.StickerSize),
		editor.WithTextShadow(e.TextShadow),
	}
}

// format resolves the export format. An explicit flag must parse; the
// fallback, usually a file extension or recipe field, is used only when it
// names a known format. The configured default comes last.
func (r *root) format(flagValue, fallback string) (imageio.Format, error) {
	if strings.TrimSpace(flagValue) != "" {
		return imageio.ParseFormat(flagValue)
	}
	if strings.TrimSpace(fallback) != "" {
		if f, err := imageio.ParseFormat(fallback); err == nil {
			return f, nil
		}
	}
	return imageio.ParseFormat(r.config.Editor.Format)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	r := newRoot()
	if err := r.Run(ctx, os.Args[1:]); err != nil {
		var uerr *UsageError
		switch {
		case errors.As(err, &uerr):
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		case errors.Is(err, flag.ErrHelp):
			return
		default:
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func (r *root) notifyExport(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Export(path)
}

func (r *root) subcommand(name string) *root {
	c := *r
	c.program = strings.TrimSpace(r.program + " " + name)
	return &c
}
